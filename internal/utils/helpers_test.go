package utils

import (
	"testing"
	"time"
)

func TestParseYMD(t *testing.T) {
	got, err := ParseYMD("2026-03-10")
	if err != nil {
		t.Fatalf("ParseYMD: %v", err)
	}
	want := time.Date(2026, 3, 10, 0, 0, 0, 0, time.UTC)
	if !got.Equal(want) {
		t.Errorf("ParseYMD = %v; want %v", got, want)
	}

	for _, in := range []string{"03-10-2026", "2026/03/10", "yesterday", ""} {
		if _, err := ParseYMD(in); err == nil {
			t.Errorf("ParseYMD(%q) should fail", in)
		}
	}
}
