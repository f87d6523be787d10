package dateparse

import (
	"regexp"
	"sort"
	"strings"
	"time"
)

// Boundary time defaults. Messages rarely carry clock times, so both ends of
// a span fall back to 5pm local unless the text says otherwise.
const (
	defaultHour   = 17
	morningHour   = 9
	afternoonHour = 14
	eveningHour   = 18
	nightHour     = 20
)

// pastGraceWindow is how far in the past an inferred date may fall before the
// resolver assumes the next year was meant.
const pastGraceWindow = 7 * 24 * time.Hour

// Strategy attempts one pattern class against the text. A nil or empty result
// means no confident match and the cascade falls through to the next stage.
type Strategy interface {
	Name() string
	TryMatch(text string, ref time.Time, loc *time.Location) []Segment
}

// Resolver converts free text plus a reference instant into date segments.
// It is a priority cascade: the first strategy that yields segments wins.
type Resolver struct {
	loc        *time.Location
	strategies []Strategy
}

// NewResolver builds a resolver for the given local timezone. A nil location
// defaults to UTC.
func NewResolver(loc *time.Location) *Resolver {
	if loc == nil {
		loc = time.UTC
	}
	return &Resolver{
		loc: loc,
		strategies: []Strategy{
			explicitRangeStrategy{},
			relativeDayStrategy{},
			weekStrategy{},
			weekendStrategy{},
			holidayStrategy{},
			ordinalMonthStrategy{},
			genericScanStrategy{},
		},
	}
}

var spaceRun = regexp.MustCompile(`\s+`)

// ParseSegments runs the cascade and returns zero or more segments in
// source-text order. It is a pure function of its inputs.
func (r *Resolver) ParseSegments(text string, ref time.Time) []Segment {
	normalized := spaceRun.ReplaceAllString(strings.ToLower(text), " ")
	ref = ref.In(r.loc)

	for _, s := range r.strategies {
		segments := s.TryMatch(normalized, ref, r.loc)
		if len(segments) == 0 {
			continue
		}
		return r.finalize(normalized, segments)
	}
	return nil
}

// finalize applies clock times from the text, corrects inverted spans, drops
// duplicates and orders segments by their anchor position.
func (r *Resolver) finalize(text string, segments []Segment) []Segment {
	clock := extractClockTimes(text)

	for i := range segments {
		seg := &segments[i]
		if !seg.fixedTime {
			sameDay := seg.StartAt.Year() == seg.EndAt.Year() && seg.StartAt.YearDay() == seg.EndAt.YearDay()
			if clock.hasStart {
				seg.StartAt = withClock(seg.StartAt, clock.startHour, clock.startMin, r.loc)
			} else if h, ok := dayPartNear(text, seg.pos); ok {
				seg.StartAt = withClock(seg.StartAt, h, 0, r.loc)
				if sameDay && !clock.hasEnd {
					seg.EndAt = seg.StartAt
				}
			}
			if clock.hasEnd {
				seg.EndAt = withClock(seg.EndAt, clock.endHour, clock.endMin, r.loc)
			}
		}
		if seg.EndAt.Before(seg.StartAt) {
			// Overnight span expressed without explicit day rollover.
			seg.EndAt = seg.EndAt.Add(24 * time.Hour)
		}
		segments[i] = seg.withHint()
	}

	sort.SliceStable(segments, func(i, j int) bool {
		return segments[i].pos < segments[j].pos
	})

	seen := make(map[[2]int64]bool, len(segments))
	out := segments[:0]
	for _, seg := range segments {
		key := [2]int64{seg.StartAt.Unix(), seg.EndAt.Unix()}
		if seen[key] {
			continue
		}
		seen[key] = true
		out = append(out, seg)
	}
	return out
}

// dateFor validates a calendar date, rejecting impossible tokens like Feb 30.
func dateFor(year int, month time.Month, day int, loc *time.Location) (time.Time, bool) {
	if month < time.January || month > time.December || day < 1 || day > 31 {
		return time.Time{}, false
	}
	d := time.Date(year, month, day, 0, 0, 0, 0, loc)
	if d.Month() != month || d.Day() != day {
		return time.Time{}, false
	}
	return d, true
}

// inferYear resolves a month/day with no explicit year: the reference year,
// unless that puts the date more than seven days in the past.
func inferYear(month time.Month, day int, ref time.Time, loc *time.Location) (time.Time, bool) {
	d, ok := dateFor(ref.Year(), month, day, loc)
	if !ok {
		return time.Time{}, false
	}
	if ref.Sub(d) > pastGraceWindow {
		return dateFor(ref.Year()+1, month, day, loc)
	}
	return d, true
}

func atDefault(d time.Time, loc *time.Location) time.Time {
	return withClock(d, defaultHour, 0, loc)
}

func withClock(d time.Time, hour, min int, loc *time.Location) time.Time {
	return time.Date(d.Year(), d.Month(), d.Day(), hour, min, 0, 0, loc)
}
