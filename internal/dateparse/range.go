package dateparse

import (
	"regexp"
	"strconv"
	"time"
)

// explicitRangeStrategy matches fully numeric ranges such as
// "11/20 to 11/23", "12/28-1/2" or "3/4 hasta 3/9". Highest confidence; a
// match short-circuits the rest of the cascade.
type explicitRangeStrategy struct{}

var numericRangePattern = regexp.MustCompile(`(\d{1,2})/(\d{1,2})(?:/(\d{2,4}))?\s?(?:(?:to|through|thru|until|till|hasta|al)\s|[-–—]\s?)(\d{1,2})/(\d{1,2})(?:/(\d{2,4}))?`)

func (explicitRangeStrategy) Name() string { return "explicit-range" }

func (explicitRangeStrategy) TryMatch(text string, ref time.Time, loc *time.Location) []Segment {
	var segments []Segment
	for _, m := range numericRangePattern.FindAllStringSubmatchIndex(text, -1) {
		src := text[m[0]:m[1]]
		start, ok := numericDate(text, m, 2, 4, 6, ref, loc)
		if !ok {
			continue
		}
		end, ok := numericDateRelative(text, m, 8, 10, 12, start, loc)
		if !ok {
			continue
		}
		if end.Before(start) {
			// Reverse same-month shorthand ("11/23 to 11/20"): keep the
			// chronological order rather than discarding the match.
			start, end = end, start
		}
		segments = append(segments, Segment{
			StartAt:    atDefault(start, loc),
			EndAt:      atDefault(end, loc),
			SourceText: src,
			pos:        m[0],
		})
	}
	return segments
}

// numericDate builds the range's start date, applying year inference when no
// year is written.
func numericDate(text string, m []int, monthIdx, dayIdx, yearIdx int, ref time.Time, loc *time.Location) (time.Time, bool) {
	month, day := submatchInt(text, m, monthIdx), submatchInt(text, m, dayIdx)
	if year, ok := submatchYear(text, m, yearIdx); ok {
		return dateFor(year, time.Month(month), day, loc)
	}
	return inferYear(time.Month(month), day, ref, loc)
}

// numericDateRelative builds the range's end date relative to its start. An
// end that lands before the start either crossed a year boundary (12/28 to
// 1/2) or was typed in reverse same-month shorthand; both are corrected so
// start <= end always holds.
func numericDateRelative(text string, m []int, monthIdx, dayIdx, yearIdx int, start time.Time, loc *time.Location) (time.Time, bool) {
	month, day := submatchInt(text, m, monthIdx), submatchInt(text, m, dayIdx)
	if year, ok := submatchYear(text, m, yearIdx); ok {
		return dateFor(year, time.Month(month), day, loc)
	}
	end, ok := dateFor(start.Year(), time.Month(month), day, loc)
	if !ok {
		return time.Time{}, false
	}
	if end.Before(start) && end.Month() != start.Month() {
		// Cross-year range like "12/28 to 1/2".
		end = end.AddDate(1, 0, 0)
	}
	return end, true
}

func submatchInt(text string, m []int, idx int) int {
	if m[2*idx] < 0 {
		return 0
	}
	v, _ := strconv.Atoi(text[m[2*idx]:m[2*idx+1]])
	return v
}

func submatchYear(text string, m []int, idx int) (int, bool) {
	if m[2*idx] < 0 {
		return 0, false
	}
	v, _ := strconv.Atoi(text[m[2*idx]:m[2*idx+1]])
	if v < 100 {
		v += 2000
	}
	return v, true
}
