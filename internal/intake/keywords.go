package intake

import (
	"regexp"
	"sort"
	"strings"
)

// keywordEntry pairs a canonical vocabulary term with the pattern that
// detects it. Multi-word phrases tolerate internal hyphens or missing
// spaces ("drop in" / "drop-in" / "dropin").
type keywordEntry struct {
	term    string
	pattern *regexp.Regexp
}

var keywordVocabulary = []keywordEntry{
	{"boarding", regexp.MustCompile(`\bboard(?:ing)?\b`)},
	{"booking", regexp.MustCompile(`\bbook(?:ing|ed)?\b`)},
	{"reservation", regexp.MustCompile(`\breserv(?:e|ation|ar)\b`)},
	{"overnight", regexp.MustCompile(`\bover[\s-]?night\b`)},
	{"sleepover", regexp.MustCompile(`\bsleep[\s-]?over\b`)},
	{"daycare", regexp.MustCompile(`\bday[\s-]?care\b`)},
	{"drop-in", regexp.MustCompile(`\bdrop[\s-]?in\b`)},
	{"check-in", regexp.MustCompile(`\bcheck[\s-]?in\b`)},
	{"sitting", regexp.MustCompile(`\b(?:pet|dog|cat)[\s-]?sit(?:ting|ter)?\b`)},
	{"stay", regexp.MustCompile(`\bstay(?:ing)?\b`)},
	{"watch", regexp.MustCompile(`\bwatch(?:ing)?\b`)},
	{"walk", regexp.MustCompile(`\bwalk(?:ing|s)?\b`)},

	{"cuidar", regexp.MustCompile(`\bcuid(?:ar|es|as|ado)\b`)},
	{"hospedaje", regexp.MustCompile(`\bhosped(?:aje|ar)\b`)},
	{"guarderia", regexp.MustCompile(`\bguarder[ií]a\b`)},
	{"visita", regexp.MustCompile(`\bvisita(?:r|s)?\b`)},
	{"paseo", regexp.MustCompile(`\bpase(?:o|os|ar)\b`)},
	{"quedarse", regexp.MustCompile(`\bquedar(?:se)?\b`)},
}

// FindKeywords scans text for booking-intent vocabulary and returns the
// canonical terms ordered by their first occurrence. Pure; an empty result
// is the common, normal outcome.
func FindKeywords(text string) []string {
	text = strings.ToLower(text)

	type hit struct {
		term string
		pos  int
	}
	var hits []hit
	for _, entry := range keywordVocabulary {
		if loc := entry.pattern.FindStringIndex(text); loc != nil {
			hits = append(hits, hit{term: entry.term, pos: loc[0]})
		}
	}
	if len(hits) == 0 {
		return nil
	}

	sort.SliceStable(hits, func(i, j int) bool { return hits[i].pos < hits[j].pos })
	terms := make([]string, len(hits))
	for i, h := range hits {
		terms[i] = h.term
	}
	return terms
}
