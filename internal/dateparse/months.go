package dateparse

import (
	"regexp"
	"strconv"
	"strings"
	"time"
)

// monthAlt lists English and Spanish month tokens, longest form first so the
// abbreviation never shadows the full name.
const monthAlt = `january|jan|february|feb|march|mar|april|apr|may|june|jun|july|jul|august|aug|september|sept|sep|october|oct|november|nov|december|dec|enero|febrero|marzo|abril|mayo|junio|julio|agosto|septiembre|setiembre|octubre|noviembre|diciembre`

var monthNumbers = map[string]time.Month{
	"january": time.January, "jan": time.January, "enero": time.January,
	"february": time.February, "feb": time.February, "febrero": time.February,
	"march": time.March, "mar": time.March, "marzo": time.March,
	"april": time.April, "apr": time.April, "abril": time.April,
	"may": time.May, "mayo": time.May,
	"june": time.June, "jun": time.June, "junio": time.June,
	"july": time.July, "jul": time.July, "julio": time.July,
	"august": time.August, "aug": time.August, "agosto": time.August,
	"september": time.September, "sept": time.September, "sep": time.September,
	"septiembre": time.September, "setiembre": time.September,
	"october": time.October, "oct": time.October, "octubre": time.October,
	"november": time.November, "nov": time.November, "noviembre": time.November,
	"december": time.December, "dec": time.December, "diciembre": time.December,
}

// holidayStrategy resolves named US holidays via fixed-rule date arithmetic.
// "X week" spans the Monday-Sunday week containing the holiday. When bare
// ordinal day numbers accompany the holiday name ("the 27th and 28th" near
// "thanksgiving"), the ordinals are anchored to the holiday's month instead
// of emitting the holiday date itself.
type holidayStrategy struct{}

var bareOrdinalPattern = regexp.MustCompile(`\b(\d{1,2})(?:st|nd|rd|th)\b`)

func (holidayStrategy) Name() string { return "holiday" }

func (holidayStrategy) TryMatch(text string, ref time.Time, loc *time.Location) []Segment {
	var segments []Segment
	for _, m := range holidayPattern.FindAllStringIndex(text, -1) {
		name := text[m[0]:m[1]]
		anchor, ok := HolidayDate(name, ref, loc)
		if !ok {
			continue
		}

		if ordinals := anchoredOrdinals(text, anchor, loc); len(ordinals) > 0 {
			return ordinals
		}

		if strings.HasPrefix(text[m[1]:], " week") {
			monday := startOfWeek(anchor)
			segments = append(segments, Segment{
				StartAt:    atDefault(monday, loc),
				EndAt:      atDefault(monday.AddDate(0, 0, 6), loc),
				SourceText: text[m[0] : m[1]+5],
				pos:        m[0],
			})
			continue
		}

		day := atDefault(anchor, loc)
		segments = append(segments, Segment{
			StartAt:    day,
			EndAt:      day,
			SourceText: name,
			pos:        m[0],
		})
	}
	return segments
}

// anchoredOrdinals builds segments from bare ordinal day numbers using the
// holiday's month and year as the anchor. Consecutive days collapse into one
// range.
func anchoredOrdinals(text string, anchor time.Time, loc *time.Location) []Segment {
	matches := bareOrdinalPattern.FindAllStringSubmatchIndex(text, -1)
	if len(matches) == 0 {
		return nil
	}

	type token struct {
		date time.Time
		pos  int
		src  string
	}
	var tokens []token
	for _, m := range matches {
		day, _ := strconv.Atoi(text[m[2]:m[3]])
		d, ok := dateFor(anchor.Year(), anchor.Month(), day, loc)
		if !ok {
			continue
		}
		tokens = append(tokens, token{date: d, pos: m[0], src: text[m[0]:m[1]]})
	}
	if len(tokens) == 0 {
		return nil
	}

	var segments []Segment
	for i := 0; i < len(tokens); {
		start := tokens[i]
		end := start
		j := i + 1
		for j < len(tokens) && tokens[j].date.Equal(end.date.AddDate(0, 0, 1)) {
			end = tokens[j]
			j++
		}
		segments = append(segments, Segment{
			StartAt:    atDefault(start.date, loc),
			EndAt:      atDefault(end.date, loc),
			SourceText: start.src,
			pos:        start.pos,
		})
		i = j
	}
	return segments
}

// ordinalMonthStrategy resolves "Nth weekend of <month>" and
// "<day> of <month>" expressions.
type ordinalMonthStrategy struct{}

var (
	nthWeekendPattern = regexp.MustCompile(`\b(first|1st|second|2nd|third|3rd|fourth|4th|last)\s?weekend\s?(?:of|in|de)\s?(` + monthAlt + `)\b`)
	dayOfMonthPattern = regexp.MustCompile(`\b(?:(first)|(\d{1,2})(?:st|nd|rd|th)?)\s?(?:of|de)\s?(` + monthAlt + `)\b`)
)

var ordinalNumbers = map[string]int{
	"first": 1, "1st": 1,
	"second": 2, "2nd": 2,
	"third": 3, "3rd": 3,
	"fourth": 4, "4th": 4,
}

func (ordinalMonthStrategy) Name() string { return "ordinal-month" }

func (ordinalMonthStrategy) TryMatch(text string, ref time.Time, loc *time.Location) []Segment {
	if m := nthWeekendPattern.FindStringSubmatchIndex(text); m != nil {
		ordinal := text[m[2]:m[3]]
		month := monthNumbers[text[m[4]:m[5]]]
		year := ref.Year()
		if month < ref.Month() {
			year++
		}
		var friday time.Time
		if ordinal == "last" {
			friday = lastWeekdayOfMonth(year, month, time.Friday)
		} else {
			friday = nthWeekdayOfMonth(year, month, time.Friday, ordinalNumbers[ordinal])
		}
		friday = time.Date(friday.Year(), friday.Month(), friday.Day(), 0, 0, 0, 0, loc)
		return []Segment{{
			StartAt:    atDefault(friday, loc),
			EndAt:      atDefault(friday.AddDate(0, 0, 2), loc),
			SourceText: text[m[0]:m[1]],
			pos:        m[0],
		}}
	}

	var tokens []dateToken
	for _, m := range dayOfMonthPattern.FindAllStringSubmatchIndex(text, -1) {
		day := 1
		if m[4] >= 0 {
			day, _ = strconv.Atoi(text[m[4]:m[5]])
		}
		month := monthNumbers[text[m[6]:m[7]]]
		date, ok := inferYear(month, day, ref, loc)
		if !ok {
			continue
		}
		tokens = append(tokens, dateToken{start: date, end: date, pos: m[0], limit: m[1], src: text[m[0]:m[1]]})
	}
	if len(tokens) == 0 {
		return nil
	}
	return pairTokens(text, tokens, loc)
}
