package dateparse

import (
	"regexp"
	"sort"
	"strconv"
	"time"
)

// genericScanStrategy is the loosest stage: it scans the whole text for
// month-name and numeric date tokens (English and Spanish word orders),
// pairs adjacent tokens into a range when a connector word sits between
// them, and otherwise emits single-day segments.
type genericScanStrategy struct{}

var (
	compactRangePattern = regexp.MustCompile(`\b(` + monthAlt + `)\.?\s?(\d{1,2})\s?[-–—]\s?(\d{1,2})\b`)
	monthDayPattern     = regexp.MustCompile(`\b(` + monthAlt + `)\.?\s?(\d{1,2})(?:st|nd|rd|th)?\b`)
	dayDeMonthPattern   = regexp.MustCompile(`\b(\d{1,2})\s?de\s?(` + monthAlt + `)\b`)
	bareNumericPattern  = regexp.MustCompile(`\b(\d{1,2})/(\d{1,2})(?:/(\d{2,4}))?\b`)
	connectorPattern    = regexp.MustCompile(`\b(?:to|through|thru|until|till|hasta|al)\b|[-–—]`)
)

type dateToken struct {
	start time.Time
	end   time.Time // equals start for single days
	pos   int
	limit int // end offset in text
	src   string
}

func (genericScanStrategy) Name() string { return "generic-scan" }

func (genericScanStrategy) TryMatch(text string, ref time.Time, loc *time.Location) []Segment {
	var tokens []dateToken
	var covered [][2]int

	overlaps := func(lo, hi int) bool {
		for _, c := range covered {
			if lo < c[1] && hi > c[0] {
				return true
			}
		}
		return false
	}
	claim := func(lo, hi int) { covered = append(covered, [2]int{lo, hi}) }

	// Compact en-dash ranges ("nov 13–18") resolve to a full range token.
	for _, m := range compactRangePattern.FindAllStringSubmatchIndex(text, -1) {
		month := monthNumbers[text[m[2]:m[3]]]
		startDay, _ := strconv.Atoi(text[m[4]:m[5]])
		endDay, _ := strconv.Atoi(text[m[6]:m[7]])
		start, ok := inferYear(month, startDay, ref, loc)
		if !ok {
			continue
		}
		end, ok := dateFor(start.Year(), month, endDay, loc)
		if !ok {
			continue
		}
		if end.Before(start) {
			start, end = end, start
		}
		tokens = append(tokens, dateToken{start: start, end: end, pos: m[0], limit: m[1], src: text[m[0]:m[1]]})
		claim(m[0], m[1])
	}

	single := func(m []int, month time.Month, day int) {
		if overlaps(m[0], m[1]) {
			return
		}
		d, ok := inferYear(month, day, ref, loc)
		if !ok {
			return
		}
		tokens = append(tokens, dateToken{start: d, end: d, pos: m[0], limit: m[1], src: text[m[0]:m[1]]})
		claim(m[0], m[1])
	}

	for _, m := range monthDayPattern.FindAllStringSubmatchIndex(text, -1) {
		day, _ := strconv.Atoi(text[m[4]:m[5]])
		single(m, monthNumbers[text[m[2]:m[3]]], day)
	}
	for _, m := range dayDeMonthPattern.FindAllStringSubmatchIndex(text, -1) {
		day, _ := strconv.Atoi(text[m[2]:m[3]])
		single(m, monthNumbers[text[m[4]:m[5]]], day)
	}
	for _, m := range bareNumericPattern.FindAllStringSubmatchIndex(text, -1) {
		if overlaps(m[0], m[1]) {
			continue
		}
		month := time.Month(atoiAt(text, m, 1))
		day := atoiAt(text, m, 2)
		if year, ok := submatchYear(text, m, 3); ok {
			if d, valid := dateFor(year, month, day, loc); valid {
				tokens = append(tokens, dateToken{start: d, end: d, pos: m[0], limit: m[1], src: text[m[0]:m[1]]})
				claim(m[0], m[1])
			}
			continue
		}
		single(m, month, day)
	}

	if len(tokens) == 0 {
		return nil
	}

	sort.Slice(tokens, func(i, j int) bool { return tokens[i].pos < tokens[j].pos })
	return pairTokens(text, tokens, loc)
}

// pairTokens joins two adjacent single-day tokens into one range segment when
// a connector word appears between them in the source text.
func pairTokens(text string, tokens []dateToken, loc *time.Location) []Segment {
	var segments []Segment
	for i := 0; i < len(tokens); {
		tok := tokens[i]
		if tok.start.Equal(tok.end) && i+1 < len(tokens) {
			next := tokens[i+1]
			between := text[tok.limit:next.pos]
			if next.start.Equal(next.end) && connectorPattern.MatchString(between) {
				start, end := tok.start, next.start
				if end.Before(start) {
					start, end = end, start
				}
				segments = append(segments, Segment{
					StartAt:    atDefault(start, loc),
					EndAt:      atDefault(end, loc),
					SourceText: text[tok.pos:next.limit],
					pos:        tok.pos,
				})
				i += 2
				continue
			}
		}
		segments = append(segments, Segment{
			StartAt:    atDefault(tok.start, loc),
			EndAt:      atDefault(tok.end, loc),
			SourceText: tok.src,
			pos:        tok.pos,
		})
		i++
	}
	return segments
}

func atoiAt(text string, m []int, idx int) int {
	v, _ := strconv.Atoi(text[m[2*idx]:m[2*idx+1]])
	return v
}
