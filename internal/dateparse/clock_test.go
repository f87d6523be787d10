package dateparse

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestExtractTimeRange(t *testing.T) {
	ct := extractClockTimes("from 2pm to 6pm")
	assert.True(t, ct.hasStart)
	assert.True(t, ct.hasEnd)
	assert.Equal(t, 14, ct.startHour)
	assert.Equal(t, 18, ct.endHour)
}

func TestExtractTimeRangeSharedMeridiem(t *testing.T) {
	ct := extractClockTimes("5-6pm works best")
	assert.Equal(t, 17, ct.startHour)
	assert.Equal(t, 18, ct.endHour)
}

func TestExtractDropOffPickUp(t *testing.T) {
	ct := extractClockTimes("drop off at 8am and pick up around 6:30pm")
	assert.True(t, ct.hasStart)
	assert.Equal(t, 8, ct.startHour)
	assert.True(t, ct.hasEnd)
	assert.Equal(t, 18, ct.endHour)
	assert.Equal(t, 30, ct.endMin)
}

func TestExtractDropOffWithPronoun(t *testing.T) {
	ct := extractClockTimes("dropping her off by 9am")
	assert.True(t, ct.hasStart)
	assert.Equal(t, 9, ct.startHour)
	assert.False(t, ct.hasEnd)
}

func TestExtractBareAt(t *testing.T) {
	ct := extractClockTimes("see you at 3pm")
	assert.True(t, ct.hasStart)
	assert.Equal(t, 15, ct.startHour)
	assert.False(t, ct.hasEnd)
}

func TestExtractNoTimes(t *testing.T) {
	ct := extractClockTimes("boarding next weekend please")
	assert.False(t, ct.hasStart)
	assert.False(t, ct.hasEnd)
}

func TestTo24Hour(t *testing.T) {
	cases := []struct {
		hour, min, meridiem string
		wantH, wantM        int
	}{
		{"8", "", "am", 8, 0},
		{"12", "", "am", 0, 0},
		{"12", "30", "pm", 12, 30},
		{"6", "15", "pm", 18, 15},
		{"5", "", "", 17, 0},  // bare 1-7 reads as afternoon
		{"10", "", "", 10, 0}, // bare 8-12 reads as written
	}
	for _, tc := range cases {
		h, m := to24Hour(tc.hour, tc.min, tc.meridiem)
		assert.Equal(t, tc.wantH, h)
		assert.Equal(t, tc.wantM, m)
	}
}

func TestDayPartNear(t *testing.T) {
	text := "drop off thursday morning please"
	h, ok := dayPartNear(text, 9)
	assert.True(t, ok)
	assert.Equal(t, morningHour, h)

	h, ok = dayPartNear("thursday por la tarde", 0)
	assert.True(t, ok)
	assert.Equal(t, afternoonHour, h)

	_, ok = dayPartNear("thursday", 0)
	assert.False(t, ok)
}
