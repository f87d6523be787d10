package dateparse

import (
	"regexp"
	"time"
)

// holidayRule computes the calendar date of a named US holiday for a year.
type holidayRule func(year int) (month time.Month, day int)

var holidayRules = map[string]holidayRule{
	"new year's eve":   fixedDate(time.December, 31),
	"new years eve":    fixedDate(time.December, 31),
	"new year's day":   fixedDate(time.January, 1),
	"new years day":    fixedDate(time.January, 1),
	"new year's":       fixedDate(time.January, 1),
	"new years":        fixedDate(time.January, 1),
	"christmas eve":    fixedDate(time.December, 24),
	"christmas":        fixedDate(time.December, 25),
	"xmas eve":         fixedDate(time.December, 24),
	"xmas":             fixedDate(time.December, 25),
	"nochebuena":       fixedDate(time.December, 24),
	"navidad":          fixedDate(time.December, 25),
	"halloween":        fixedDate(time.October, 31),
	"independence day": fixedDate(time.July, 4),
	"fourth of july":   fixedDate(time.July, 4),
	"4th of july":      fixedDate(time.July, 4),
	"july 4th":         fixedDate(time.July, 4),

	"thanksgiving": func(year int) (time.Month, int) {
		return time.November, nthWeekdayOfMonth(year, time.November, time.Thursday, 4).Day()
	},
	"memorial day": func(year int) (time.Month, int) {
		return time.May, lastWeekdayOfMonth(year, time.May, time.Monday).Day()
	},
	"labor day": func(year int) (time.Month, int) {
		return time.September, nthWeekdayOfMonth(year, time.September, time.Monday, 1).Day()
	},
	"columbus day": func(year int) (time.Month, int) {
		return time.October, nthWeekdayOfMonth(year, time.October, time.Monday, 2).Day()
	},
	"mlk day": func(year int) (time.Month, int) {
		return time.January, nthWeekdayOfMonth(year, time.January, time.Monday, 3).Day()
	},
	"martin luther king day": func(year int) (time.Month, int) {
		return time.January, nthWeekdayOfMonth(year, time.January, time.Monday, 3).Day()
	},
	"presidents day": func(year int) (time.Month, int) {
		return time.February, nthWeekdayOfMonth(year, time.February, time.Monday, 3).Day()
	},
	"president's day": func(year int) (time.Month, int) {
		return time.February, nthWeekdayOfMonth(year, time.February, time.Monday, 3).Day()
	},
	"presidents' day": func(year int) (time.Month, int) {
		return time.February, nthWeekdayOfMonth(year, time.February, time.Monday, 3).Day()
	},
}

// holidayPattern matches holiday names. Eve variants come before the base
// names so "christmas eve" is not consumed as "christmas".
var holidayPattern = regexp.MustCompile(`\b(?:new year'?s eve|new year'?s(?: day)?|christmas eve|christmas|xmas eve|xmas|nochebuena|navidad|thanksgiving|halloween|memorial day|independence day|fourth of july|4th of july|july 4th|labor day|columbus day|mlk day|martin luther king(?:,? jr\.?)? day|presidents'? day|president's day)\b`)

func fixedDate(month time.Month, day int) holidayRule {
	return func(int) (time.Month, int) { return month, day }
}

// nthWeekdayOfMonth returns the nth given weekday of a month (n is 1-based).
func nthWeekdayOfMonth(year int, month time.Month, weekday time.Weekday, n int) time.Time {
	first := time.Date(year, month, 1, 0, 0, 0, 0, time.UTC)
	offset := (int(weekday) - int(first.Weekday()) + 7) % 7
	return first.AddDate(0, 0, offset+(n-1)*7)
}

// lastWeekdayOfMonth returns the final given weekday of a month.
func lastWeekdayOfMonth(year int, month time.Month, weekday time.Weekday) time.Time {
	last := time.Date(year, month+1, 1, 0, 0, 0, 0, time.UTC).AddDate(0, 0, -1)
	offset := (int(last.Weekday()) - int(weekday) + 7) % 7
	return last.AddDate(0, 0, -offset)
}

var (
	holidaySpaceRun = regexp.MustCompile(`\s+`)
	mlkVariants     = regexp.MustCompile(`martin luther king(?:,? jr\.?)? day`)
)

func normalizeHolidayName(name string) string {
	name = holidaySpaceRun.ReplaceAllString(name, " ")
	return mlkVariants.ReplaceAllString(name, "martin luther king day")
}

// HolidayDate resolves a holiday name to its concrete date nearest the
// reference instant: the occurrence in the reference year, advanced one year
// when it already lies more than seven days in the past.
func HolidayDate(name string, ref time.Time, loc *time.Location) (time.Time, bool) {
	rule, ok := holidayRules[normalizeHolidayName(name)]
	if !ok {
		return time.Time{}, false
	}
	month, day := rule(ref.Year())
	date := time.Date(ref.Year(), month, day, 0, 0, 0, 0, loc)
	if ref.Sub(date) > pastGraceWindow {
		month, day = rule(ref.Year() + 1)
		date = time.Date(ref.Year()+1, month, day, 0, 0, 0, 0, loc)
	}
	return date, true
}
