package intake

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/brightpaw/booking-inbox/internal/dateparse"
	"github.com/brightpaw/booking-inbox/internal/store"
)

func seg(start, end time.Time) dateparse.Segment {
	return dateparse.Segment{StartAt: start, EndAt: end}
}

func TestClassifyVocabularyBeatsDuration(t *testing.T) {
	day := time.Date(2025, time.November, 7, 17, 0, 0, 0, time.UTC)
	// Single-day segment, but explicit overnight vocabulary wins.
	got := ClassifyService("overnight on the 7th", []dateparse.Segment{seg(day, day)})
	assert.Equal(t, store.ServiceOvernight, got)
}

func TestClassifyVocabulary(t *testing.T) {
	cases := map[string]store.ServiceType{
		"can you board him":      store.ServiceOvernight,
		"sleepover for my pup":   store.ServiceOvernight,
		"necesito hospedaje":     store.ServiceOvernight,
		"daycare tomorrow":       store.ServiceDaycare,
		"guardería el viernes":   store.ServiceDaycare,
		"a drop-in would work":   store.ServiceDropIn,
		"quick check in please":  store.ServiceDropIn,
		"una visita el martes":   store.ServiceDropIn,
	}
	for text, want := range cases {
		assert.Equal(t, want, ClassifyService(text, nil), text)
	}
}

func TestClassifyDurationFallback(t *testing.T) {
	start := time.Date(2025, time.November, 7, 17, 0, 0, 0, time.UTC)

	got := ClassifyService("nov 7 to nov 9?", []dateparse.Segment{seg(start, start.AddDate(0, 0, 2))})
	assert.Equal(t, store.ServiceOvernight, got)

	got = ClassifyService("nov 7?", []dateparse.Segment{seg(start, start)})
	assert.Equal(t, store.ServiceDaycare, got)
}

func TestClassifyUnspecified(t *testing.T) {
	assert.Equal(t, store.ServiceUnspecified, ClassifyService("hello there", nil))
}

func TestClassifyNeverEmitsWalk(t *testing.T) {
	assert.NotEqual(t, store.ServiceWalk, ClassifyService("can you walk my dog", nil))
}

func TestMentionsOnlyLegacyWalk(t *testing.T) {
	assert.True(t, MentionsOnlyLegacyWalk("can you walk my dog tomorrow"))
	assert.True(t, MentionsOnlyLegacyWalk("un paseo el lunes"))
	assert.False(t, MentionsOnlyLegacyWalk("boarding plus a walk"))
	assert.False(t, MentionsOnlyLegacyWalk("daycare tomorrow"))
}
