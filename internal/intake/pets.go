package intake

import (
	"regexp"
	"strings"
)

// Pet name cues, run against a lowercased copy of the body; the capture
// offsets index back into the raw text so capitalization can confirm the
// token is a name.
var petCuePatterns = []*regexp.Regexp{
	regexp.MustCompile(`\b(?:my|our) (?:dogs?|pups?|pupp(?:y|ies)|cats?),? (?:named |is |are )?([a-z]+)`),
	regexp.MustCompile(`\bdrop(?:ping)? ([a-z]+) off\b`),
	regexp.MustCompile(`\bboard ([a-z]+)\b`),
	regexp.MustCompile(`\bwatch ([a-z]+)\b`),
	regexp.MustCompile(`\bfor ([a-z]+)\b`),
}

var petNameStopwords = map[string]bool{
	"the": true, "a": true, "an": true, "my": true, "our": true, "me": true,
	"us": true, "you": true, "him": true, "her": true, "them": true, "it": true,
	"monday": true, "tuesday": true, "wednesday": true, "thursday": true,
	"friday": true, "saturday": true, "sunday": true,
	"january": true, "february": true, "march": true, "april": true, "may": true,
	"june": true, "july": true, "august": true, "september": true,
	"october": true, "november": true, "december": true,
	"thanksgiving": true, "christmas": true, "easter": true, "halloween": true,
	"tomorrow": true, "today": true, "tonight": true, "boarding": true,
	"daycare": true, "next": true, "this": true,
}

var capitalizedName = regexp.MustCompile(`^[A-Z][a-zA-Z]+$`)

// ExtractPetNames pulls likely pet names out of the raw body. Best effort:
// only capitalized tokens following a possessive or drop-off cue qualify, and
// calendar words are filtered out. An empty result is normal.
func ExtractPetNames(body string) []string {
	lowered := strings.ToLower(body)
	if len(lowered) != len(body) {
		// Unicode case folding shifted offsets; skip rather than mis-slice.
		return nil
	}

	var names []string
	seen := make(map[string]bool)
	for _, p := range petCuePatterns {
		for _, m := range p.FindAllStringSubmatchIndex(lowered, -1) {
			raw := body[m[2]:m[3]]
			if !capitalizedName.MatchString(raw) {
				continue
			}
			key := strings.ToLower(raw)
			if petNameStopwords[key] || seen[key] {
				continue
			}
			seen[key] = true
			names = append(names, raw)
		}
	}
	return names
}
