package intake

import (
	"regexp"
	"strings"
	"time"

	"github.com/brightpaw/booking-inbox/internal/dateparse"
	"github.com/brightpaw/booking-inbox/internal/store"
)

// Service vocabulary patterns, checked in priority order. Explicit vocabulary
// always beats duration inference.
var (
	overnightVocab = regexp.MustCompile(`\bover[\s-]?night\b|\bboard(?:ing)?\b|\bsleep[\s-]?over\b|\bhosped(?:aje|ar)\b`)
	daycareVocab   = regexp.MustCompile(`\bday[\s-]?care\b|\bguarder[ií]a\b`)
	dropInVocab    = regexp.MustCompile(`\bdrop[\s-]?in\b|\bcheck[\s-]?in\b|\bvisita(?:r|s)?\b`)
	walkVocab      = regexp.MustCompile(`\bwalk(?:ing|s)?\b|\bpase(?:o|os|ar)\b`)
)

// ClassifyService maps text plus extracted segments to a service label.
// Vocabulary wins over duration; with no vocabulary the first segment's span
// decides (a day or more reads as an overnight stay). Walk is never produced.
func ClassifyService(text string, segments []dateparse.Segment) store.ServiceType {
	text = strings.ToLower(text)

	switch {
	case overnightVocab.MatchString(text):
		return store.ServiceOvernight
	case daycareVocab.MatchString(text):
		return store.ServiceDaycare
	case dropInVocab.MatchString(text):
		return store.ServiceDropIn
	}

	if len(segments) > 0 {
		if segments[0].Span() >= 24*time.Hour {
			return store.ServiceOvernight
		}
		return store.ServiceDaycare
	}
	return store.ServiceUnspecified
}

// MentionsOnlyLegacyWalk reports walk-only intent: walk vocabulary present
// with no current-service vocabulary. The business no longer offers walks, so
// such messages are not booking candidates.
func MentionsOnlyLegacyWalk(text string) bool {
	text = strings.ToLower(text)
	if !walkVocab.MatchString(text) {
		return false
	}
	return !overnightVocab.MatchString(text) &&
		!daycareVocab.MatchString(text) &&
		!dropInVocab.MatchString(text)
}
