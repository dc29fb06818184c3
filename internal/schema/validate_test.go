package schema

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/joseph-ayodele/cardscan/internal/entity"
)

func marshalContact(t *testing.T, c *entity.Contact) []byte {
	t.Helper()
	b, err := json.Marshal(c)
	if err != nil {
		t.Fatal(err)
	}
	return b
}

func strptr(s string) *string { return &s }

func TestValidateContactFull(t *testing.T) {
	c := &entity.Contact{
		ID:         uuid.New(),
		Name:       strptr("Johnny Tsunami"),
		Phone:      strptr("1234561231"),
		Email:      strptr("johnny@disneychannel.com"),
		SourcePath: "/cards/johnny.txt",
		SourceHash: "abc123",
		Confidence: 0.9,
		CreatedAt:  time.Now().UTC(),
	}
	if err := ValidateContact(marshalContact(t, c)); err != nil {
		t.Errorf("full contact should validate: %v", err)
	}
}

func TestValidateContactAbsentFields(t *testing.T) {
	// optional fields must be omitted, not present as empty strings
	c := &entity.Contact{
		ID:        uuid.New(),
		CreatedAt: time.Now().UTC(),
	}
	data := marshalContact(t, c)
	if err := ValidateContact(data); err != nil {
		t.Errorf("sparse contact should validate: %v", err)
	}

	var m map[string]any
	if err := json.Unmarshal(data, &m); err != nil {
		t.Fatal(err)
	}
	for _, key := range []string{"name", "phone", "email"} {
		if _, ok := m[key]; ok {
			t.Errorf("absent field %q serialized as present", key)
		}
	}
}

func TestValidateContactRejects(t *testing.T) {
	tests := []struct {
		name string
		json string
	}{
		{"missing id", `{"confidence":0.5,"created_at":"2026-03-10T12:00:00Z"}`},
		{"phone with punctuation", `{"id":"8a2b6c4e-1111-2222-3333-444455556666","phone":"(410) 555-1234","confidence":0.5,"created_at":"2026-03-10T12:00:00Z"}`},
		{"email without domain dot", `{"id":"8a2b6c4e-1111-2222-3333-444455556666","email":"stacy@harvard","confidence":0.5,"created_at":"2026-03-10T12:00:00Z"}`},
		{"confidence out of range", `{"id":"8a2b6c4e-1111-2222-3333-444455556666","confidence":1.5,"created_at":"2026-03-10T12:00:00Z"}`},
		{"unknown property", `{"id":"8a2b6c4e-1111-2222-3333-444455556666","confidence":0.5,"created_at":"2026-03-10T12:00:00Z","nickname":"JT"}`},
		{"empty name", `{"id":"8a2b6c4e-1111-2222-3333-444455556666","name":"","confidence":0.5,"created_at":"2026-03-10T12:00:00Z"}`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if err := ValidateContact([]byte(tt.json)); err == nil {
				t.Error("expected validation failure")
			}
		})
	}
}

func TestValidateJSONAgainstSchemaBadInput(t *testing.T) {
	if err := ValidateJSONAgainstSchema(ContactSchema, []byte("{not json")); err == nil {
		t.Error("expected error for malformed JSON")
	}
}
