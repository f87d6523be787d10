package intake

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestFindKeywordsEnglish(t *testing.T) {
	kw := FindKeywords("Hi! Can you BOARD my dog next week? Maybe daycare too")
	assert.Equal(t, []string{"boarding", "daycare"}, kw)
}

func TestFindKeywordsHyphenAndSpacingVariants(t *testing.T) {
	for _, text := range []string{"drop in", "drop-in", "dropin"} {
		assert.Equal(t, []string{"drop-in"}, FindKeywords(text), text)
	}
	assert.Equal(t, []string{"daycare"}, FindKeywords("day care on friday"))
	assert.Equal(t, []string{"overnight"}, FindKeywords("an over-night stay?")[:1])
}

func TestFindKeywordsSpanish(t *testing.T) {
	kw := FindKeywords("Hola, puedes cuidar a mi perro? Necesito hospedaje")
	assert.Equal(t, []string{"cuidar", "hospedaje"}, kw)

	assert.Equal(t, []string{"guarderia"}, FindKeywords("guardería para mañana"))
	assert.Equal(t, []string{"guarderia"}, FindKeywords("guarderia para mañana"))
}

func TestFindKeywordsOrderedByOccurrence(t *testing.T) {
	kw := FindKeywords("daycare or boarding?")
	assert.Equal(t, []string{"daycare", "boarding"}, kw)
}

func TestFindKeywordsEmpty(t *testing.T) {
	assert.Empty(t, FindKeywords("thanks, see you soon!"))
	assert.Empty(t, FindKeywords(""))
}

func TestFindKeywordsWordBoundaries(t *testing.T) {
	// "keyboard" must not hit "board", "sidewalk" must not hit "walk".
	assert.Empty(t, FindKeywords("my keyboard is on the sidewalk"))
}
