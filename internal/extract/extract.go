// Package extract holds the field-extraction heuristics for business-card
// text: independent pattern predicates for email, phone, and name, and an
// Extract pass that runs them over the card's lines.
package extract

import "strings"

// ContactFields holds the raw field matches pulled from one card's text.
// An empty string means the field was not found.
type ContactFields struct {
	Name       string
	Phone      string
	Email      string
	Confidence float32
}

// Extract classifies each line of a card and returns the matched fields.
// Email and phone are first-match-wins in line order. Name candidates are
// lines matching neither field; the earliest wins, except that a candidate
// whose first token is a common first name outranks an earlier one whose
// first token is not. Pure function: identical input, identical output.
func Extract(lines []string) ContactFields {
	var out ContactFields
	var nameBoosted bool
	content := 0

	for _, raw := range lines {
		line := strings.TrimSpace(raw)
		if line == "" {
			continue
		}
		content++

		fielded := false
		if m, ok := MatchEmail(line); ok {
			if out.Email == "" {
				out.Email = m
			}
			fielded = true
		}
		if m, ok := MatchPhone(line); ok {
			if out.Phone == "" {
				out.Phone = m
			}
			fielded = true
		}
		if fielded {
			continue
		}

		if cand, ok := MatchName(line); ok {
			boost := hasCommonFirstName(cand)
			if out.Name == "" || (boost && !nameBoosted) {
				out.Name = cand
				nameBoosted = boost
			}
		}
	}

	out.Confidence = confidence(out, content)
	return out
}

// confidence is a naive additive score over which fields resolved and how
// much content the card carried, clamped to 1.0.
func confidence(f ContactFields, lines int) float32 {
	score := float32(0.2) // base
	if f.Email != "" {
		score += 0.25
	}
	if f.Phone != "" {
		score += 0.25
	}
	if f.Name != "" {
		score += 0.2
	}
	if lines >= 4 {
		score += 0.1
	} // enough content
	if score > 1.0 {
		score = 1.0
	}
	return score
}
