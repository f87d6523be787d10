package dateparse

import "time"

// ServiceHint is a coarse signal the resolver attaches to a segment based on
// its span, consumed by the service classifier.
type ServiceHint string

const (
	HintNone      ServiceHint = ""
	HintOvernight ServiceHint = "overnight"
	HintSameDay   ServiceHint = "same-day"
)

// Segment is a single extracted date/time span with its supporting source
// text. Serialized for persistence as {startISO, endISO, text}.
type Segment struct {
	StartAt    time.Time   `json:"startISO"`
	EndAt      time.Time   `json:"endISO"`
	SourceText string      `json:"text"`
	Hint       ServiceHint `json:"serviceHint,omitempty"`

	// pos anchors the segment to its first date token in the source text,
	// used for output ordering. fixedTime marks segments whose boundary
	// times are part of the expression itself (e.g. "tonight") and must not
	// be overridden by the clock-time pass.
	pos       int
	fixedTime bool
}

// Span returns the segment duration.
func (s Segment) Span() time.Duration {
	return s.EndAt.Sub(s.StartAt)
}

func (s Segment) withHint() Segment {
	if s.EndAt.Sub(s.StartAt) >= 24*time.Hour {
		s.Hint = HintOvernight
	} else {
		s.Hint = HintSameDay
	}
	return s
}
