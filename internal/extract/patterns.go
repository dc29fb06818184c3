package extract

import (
	"regexp"
	"strings"
)

var (
	// reEmail matches a local part, "@", and a domain with at least one dot,
	// anywhere in the line.
	reEmail = regexp.MustCompile(`[A-Za-z0-9._%+-]+@[A-Za-z0-9-]+(?:\.[A-Za-z0-9-]+)+`)

	// rePhoneLine matches a whole line holding one phone number: an optional
	// label ("Phone:", "Telephone:"), an optional +country code of up to three
	// digits, and 3-3-4 digit groups tolerant of spaces, dots, hyphens, and
	// parentheses. Anchoring the full line keeps ZIP codes and street numbers
	// from producing partial matches.
	rePhoneLine = regexp.MustCompile(`^(?:([A-Za-z][A-Za-z ]*?):?\s+)?(?:\+(\d{1,3})[\s.-]?)?\(?(\d{3})\)?[\s.-]?(\d{3})[\s.-]?(\d{4})$`)

	// reNameShape matches 2-4 capitalized word tokens; a token is either a
	// capitalized word (apostrophes and hyphens allowed) or a single initial
	// with a trailing dot.
	reNameShape = regexp.MustCompile(`^[A-Z][A-Za-z'-]+(?:\s+(?:[A-Z]\.|[A-Z][A-Za-z'-]+)){1,3}$`)

	reDigit = regexp.MustCompile(`\d`)
)

// nonNameMarkers holds lowercased tokens that disqualify a line from being a
// personal name: business suffixes, address words, and job-title vocabulary.
var nonNameMarkers = map[string]struct{}{
	// business suffixes
	"inc": {}, "llc": {}, "ltd": {}, "corp": {}, "corporation": {},
	"company": {}, "co": {}, "enterprises": {}, "industries": {}, "gmbh": {},
	"group": {}, "holdings": {}, "associates": {}, "partners": {},
	"technologies": {}, "technology": {}, "solutions": {}, "systems": {},
	"labs": {}, "studio": {}, "agency": {}, "consulting": {},
	// address words
	"street": {}, "st": {}, "avenue": {}, "ave": {}, "road": {}, "rd": {},
	"boulevard": {}, "blvd": {}, "drive": {}, "lane": {}, "ln": {},
	"suite": {}, "ste": {}, "floor": {}, "apt": {}, "unit": {},
	// job-title vocabulary
	"senior": {}, "junior": {}, "lead": {}, "principal": {}, "chief": {},
	"engineer": {}, "developer": {}, "manager": {}, "director": {},
	"president": {}, "officer": {}, "analyst": {}, "consultant": {},
	"designer": {}, "architect": {}, "scientist": {}, "specialist": {},
	"coordinator": {}, "assistant": {}, "administrator": {}, "executive": {},
	"software": {}, "hardware": {}, "marketing": {}, "sales": {},
	"founder": {}, "ceo": {}, "cto": {}, "cfo": {}, "vp": {},
}

// MatchEmail reports the first email-shaped substring in line.
func MatchEmail(line string) (string, bool) {
	m := reEmail.FindString(line)
	return m, m != ""
}

// MatchPhone reports whether line holds a phone number and returns it
// normalized to a bare digit string. Country-code digits are kept, every
// separator is dropped. Fax lines are skipped so a later real phone line
// can still win.
func MatchPhone(line string) (string, bool) {
	m := rePhoneLine.FindStringSubmatch(strings.TrimSpace(line))
	if m == nil {
		return "", false
	}
	if strings.Contains(strings.ToLower(m[1]), "fax") {
		return "", false
	}
	return m[2] + m[3] + m[4] + m[5], true
}

// MatchName reports whether line looks like a personal name: 2-4 capitalized
// tokens, no digits, and none of the business/address/title markers.
func MatchName(line string) (string, bool) {
	line = strings.TrimSpace(line)
	if line == "" || reDigit.MatchString(line) {
		return "", false
	}
	if !reNameShape.MatchString(line) {
		return "", false
	}
	for _, tok := range strings.Fields(line) {
		if _, bad := nonNameMarkers[strings.ToLower(strings.Trim(tok, ".,"))]; bad {
			return "", false
		}
	}
	return line, true
}
