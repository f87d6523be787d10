package dateparse

import (
	"regexp"
	"strconv"
	"strings"
)

// clockTimes carries explicit clock times pulled out of the text, to be
// attached to segment boundaries.
type clockTimes struct {
	hasStart  bool
	startHour int
	startMin  int
	hasEnd    bool
	endHour   int
	endMin    int
}

var (
	timeRangePattern = regexp.MustCompile(`(?:from )?(\d{1,2})(?::(\d{2}))?\s?(am|pm)?\s?(?:-|–|—|to|until|till|hasta)\s?(\d{1,2})(?::(\d{2}))?\s?(am|pm)`)
	dropOffPattern   = regexp.MustCompile(`drop(?:ping)?[ -]?(?:him |her |them )?off\b[^.!?]{0,24}?\b(?:at|by|around) (\d{1,2})(?::(\d{2}))?\s?(am|pm)?`)
	pickUpPattern    = regexp.MustCompile(`pick(?:ing)?[ -]?(?:him |her |them )?up\b[^.!?]{0,24}?\b(?:at|by|around) (\d{1,2})(?::(\d{2}))?\s?(am|pm)?`)
	bareAtPattern    = regexp.MustCompile(`\bat (\d{1,2})(?::(\d{2}))?\s?(am|pm)\b`)
)

// extractClockTimes scans for drop-off/pick-up times and generic time ranges.
// A lone time becomes the start boundary.
func extractClockTimes(text string) clockTimes {
	var ct clockTimes

	if m := timeRangePattern.FindStringSubmatch(text); m != nil {
		startMeridiem := m[3]
		if startMeridiem == "" {
			// "5-6pm" means both ends share the trailing meridiem.
			startMeridiem = m[6]
		}
		ct.startHour, ct.startMin = to24Hour(m[1], m[2], startMeridiem)
		ct.endHour, ct.endMin = to24Hour(m[4], m[5], m[6])
		ct.hasStart, ct.hasEnd = true, true
		return ct
	}

	if m := dropOffPattern.FindStringSubmatch(text); m != nil {
		ct.startHour, ct.startMin = to24Hour(m[1], m[2], m[3])
		ct.hasStart = true
	}
	if m := pickUpPattern.FindStringSubmatch(text); m != nil {
		ct.endHour, ct.endMin = to24Hour(m[1], m[2], m[3])
		ct.hasEnd = true
	}
	if !ct.hasStart && !ct.hasEnd {
		if m := bareAtPattern.FindStringSubmatch(text); m != nil {
			ct.startHour, ct.startMin = to24Hour(m[1], m[2], m[3])
			ct.hasStart = true
		}
	}
	return ct
}

// to24Hour converts matched hour/minute/meridiem strings to 24-hour values.
// A missing meridiem leaves 1-7 interpreted as afternoon, the usual intent
// for pet drop-offs.
func to24Hour(hourStr, minStr, meridiem string) (int, int) {
	h, _ := strconv.Atoi(hourStr)
	m := 0
	if minStr != "" {
		m, _ = strconv.Atoi(minStr)
	}
	switch strings.ToLower(meridiem) {
	case "pm":
		if h != 12 {
			h += 12
		}
	case "am":
		if h == 12 {
			h = 0
		}
	default:
		if h >= 1 && h <= 7 {
			h += 12
		}
	}
	if h > 23 {
		h = 23
	}
	return h, m
}

var dayPartHours = []struct {
	word string
	hour int
}{
	{"morning", morningHour},
	{"mañana", morningHour},
	{"afternoon", afternoonHour},
	{"tarde", afternoonHour},
	{"evening", eveningHour},
	{"night", nightHour},
	{"noche", nightHour},
}

// dayPartNearWindow bounds how far from a date token a day-part word still
// applies to it.
const dayPartNearWindow = 24

// dayPartNear reports a day-part default hour when a word like "morning"
// appears close to the date token at pos.
func dayPartNear(text string, pos int) (int, bool) {
	lo := pos - dayPartNearWindow
	if lo < 0 {
		lo = 0
	}
	hi := pos + dayPartNearWindow
	if hi > len(text) {
		hi = len(text)
	}
	window := text[lo:hi]
	for _, dp := range dayPartHours {
		if strings.Contains(window, dp.word) {
			return dp.hour, true
		}
	}
	return 0, false
}
