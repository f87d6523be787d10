// Package oracle is the optional AI second opinion on booking intent. It is
// advisory only: callers may use it to downgrade a borderline candidate but
// never to introduce dates or facts the deterministic pipeline did not find.
package oracle

import "context"

// Classification is the oracle's verdict on one message body.
type Classification struct {
	Label   string  `json:"label"` // "booking" or "other"
	Score   float64 `json:"score"` // 0..1 confidence
	Payload []byte  `json:"-"`     // raw model output, persisted for audit
}

// IsBooking reports whether the verdict affirms booking intent at or above
// the given confidence floor.
func (c Classification) IsBooking(minScore float64) bool {
	return c.Label == "booking" && c.Score >= minScore
}

// Oracle classifies free text. Implementations must be safe for concurrent
// use.
type Oracle interface {
	Classify(ctx context.Context, text string) (Classification, error)
}
