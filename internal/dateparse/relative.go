package dateparse

import (
	"regexp"
	"time"
)

// relativeDayStrategy handles "today", "tonight" and "tomorrow".
type relativeDayStrategy struct{}

var (
	tonightPattern  = regexp.MustCompile(`\btonight\b|\besta noche\b`)
	todayPattern    = regexp.MustCompile(`\btoday\b|\bhoy\b`)
	tomorrowPattern = regexp.MustCompile(`\btomorrow\b|\btmrw\b`)
)

func (relativeDayStrategy) Name() string { return "relative-day" }

func (relativeDayStrategy) TryMatch(text string, ref time.Time, loc *time.Location) []Segment {
	var segments []Segment

	if m := tonightPattern.FindStringIndex(text); m != nil {
		start := withClock(ref, 19, 0, loc)
		segments = append(segments, Segment{
			StartAt:    start,
			EndAt:      withClock(ref.AddDate(0, 0, 1), 8, 0, loc),
			SourceText: text[m[0]:m[1]],
			pos:        m[0],
			fixedTime:  true,
		})
	}
	if m := todayPattern.FindStringIndex(text); m != nil {
		day := atDefault(ref, loc)
		segments = append(segments, Segment{
			StartAt:    day,
			EndAt:      day,
			SourceText: text[m[0]:m[1]],
			pos:        m[0],
		})
	}
	if m := tomorrowPattern.FindStringIndex(text); m != nil {
		day := atDefault(ref.AddDate(0, 0, 1), loc)
		segments = append(segments, Segment{
			StartAt:    day,
			EndAt:      day,
			SourceText: text[m[0]:m[1]],
			pos:        m[0],
		})
	}
	return segments
}

// weekStrategy handles "this week" / "next week" as Monday through Sunday of
// the named week.
type weekStrategy struct{}

var weekPattern = regexp.MustCompile(`\b(this|next)\s?week\b`)

func (weekStrategy) Name() string { return "week-relative" }

func (weekStrategy) TryMatch(text string, ref time.Time, loc *time.Location) []Segment {
	m := weekPattern.FindStringSubmatchIndex(text)
	if m == nil {
		return nil
	}
	monday := startOfWeek(ref)
	if text[m[2]:m[3]] == "next" {
		monday = monday.AddDate(0, 0, 7)
	}
	return []Segment{{
		StartAt:    atDefault(monday, loc),
		EndAt:      atDefault(monday.AddDate(0, 0, 6), loc),
		SourceText: text[m[0]:m[1]],
		pos:        m[0],
	}}
}

// weekendStrategy handles weekend-relative and weekday-relative expressions:
// "this/next weekend", "long weekend", ranges like "fri-sun" or
// "thu to sat", and single relative weekdays ("this friday", "next tuesday").
type weekendStrategy struct{}

const weekdayAlt = `sunday|sun|monday|mon|tuesday|tues|tue|wednesday|wed|thursday|thurs|thur|thu|friday|fri|saturday|sat`

var (
	weekendPattern      = regexp.MustCompile(`\b(?:(this|next)\s)?(long\s)?weekend\b`)
	weekdayRangePattern = regexp.MustCompile(`\b(` + weekdayAlt + `)\s?(?:(?:to|through|thru|until|till)\s|[-–—]\s?)(` + weekdayAlt + `)\b`)
	weekdayPattern      = regexp.MustCompile(`\b(?:(this|next)\s)?(` + weekdayAlt + `)\b`)
)

var weekdayNumbers = map[string]time.Weekday{
	"sunday": time.Sunday, "sun": time.Sunday,
	"monday": time.Monday, "mon": time.Monday,
	"tuesday": time.Tuesday, "tues": time.Tuesday, "tue": time.Tuesday,
	"wednesday": time.Wednesday, "wed": time.Wednesday,
	"thursday": time.Thursday, "thurs": time.Thursday, "thur": time.Thursday, "thu": time.Thursday,
	"friday": time.Friday, "fri": time.Friday,
	"saturday": time.Saturday, "sat": time.Saturday,
}

func (weekendStrategy) Name() string { return "weekend-relative" }

func (weekendStrategy) TryMatch(text string, ref time.Time, loc *time.Location) []Segment {
	if m := weekendPattern.FindStringSubmatchIndex(text); m != nil && !nthWeekendPattern.MatchString(text) {
		friday := currentWeekendFriday(ref)
		if m[2] >= 0 && text[m[2]:m[3]] == "next" {
			friday = friday.AddDate(0, 0, 7)
		}
		end := friday.AddDate(0, 0, 2)
		if m[4] >= 0 {
			// Long weekend runs through Monday.
			end = friday.AddDate(0, 0, 3)
		}
		return []Segment{{
			StartAt:    atDefault(friday, loc),
			EndAt:      atDefault(end, loc),
			SourceText: text[m[0]:m[1]],
			pos:        m[0],
		}}
	}

	if m := weekdayRangePattern.FindStringSubmatchIndex(text); m != nil {
		start := nextWeekday(ref, weekdayNumbers[text[m[2]:m[3]]])
		end := nextWeekday(start.AddDate(0, 0, 1), weekdayNumbers[text[m[4]:m[5]]])
		return []Segment{{
			StartAt:    atDefault(start, loc),
			EndAt:      atDefault(end, loc),
			SourceText: text[m[0]:m[1]],
			pos:        m[0],
		}}
	}

	var segments []Segment
	for _, m := range weekdayPattern.FindAllStringSubmatchIndex(text, -1) {
		day := nextWeekday(ref, weekdayNumbers[text[m[4]:m[5]]])
		if m[2] >= 0 && text[m[2]:m[3]] == "next" {
			day = day.AddDate(0, 0, 7)
		}
		at := atDefault(day, loc)
		segments = append(segments, Segment{
			StartAt:    at,
			EndAt:      at,
			SourceText: text[m[0]:m[1]],
			pos:        m[0],
		})
	}
	return segments
}

// startOfWeek returns the Monday of the week containing t.
func startOfWeek(t time.Time) time.Time {
	offset := (int(t.Weekday()) + 6) % 7
	return t.AddDate(0, 0, -offset)
}

// currentWeekendFriday returns the Friday of the weekend nearest t: the
// upcoming Friday, or the one already underway on Saturday/Sunday.
func currentWeekendFriday(t time.Time) time.Time {
	switch t.Weekday() {
	case time.Saturday:
		return t.AddDate(0, 0, -1)
	case time.Sunday:
		return t.AddDate(0, 0, -2)
	default:
		return t.AddDate(0, 0, (int(time.Friday)-int(t.Weekday())+7)%7)
	}
}

// nextWeekday returns the next occurrence of the weekday on or after t.
func nextWeekday(t time.Time, wd time.Weekday) time.Time {
	return t.AddDate(0, 0, (int(wd)-int(t.Weekday())+7)%7)
}
