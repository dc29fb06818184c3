package extract

import (
	_ "embed"
	"strings"
	"sync"
)

//go:embed names.txt
var namesFile string

var (
	commonNames     map[string]struct{}
	commonNamesOnce sync.Once
)

// hasCommonFirstName reports whether the first token of a candidate name
// line is in the embedded common-first-name list. Used to rank candidates,
// never to gate them: uncommon names still match on shape alone.
func hasCommonFirstName(name string) bool {
	commonNamesOnce.Do(func() {
		commonNames = make(map[string]struct{}, 256)
		for _, n := range strings.Split(namesFile, "\n") {
			n = strings.TrimSpace(n)
			if n != "" {
				commonNames[strings.ToLower(n)] = struct{}{}
			}
		}
	})
	first, _, _ := strings.Cut(name, " ")
	_, ok := commonNames[strings.ToLower(first)]
	return ok
}
