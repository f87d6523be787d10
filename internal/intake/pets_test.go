package intake

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestExtractPetNames(t *testing.T) {
	assert.Equal(t, []string{"Vida"}, ExtractPetNames("Can I drop Vida off Thursday morning?"))
	assert.Equal(t, []string{"Biscuit"}, ExtractPetNames("my dog Biscuit needs boarding"))
	assert.Equal(t, []string{"Luna"}, ExtractPetNames("boarding for Luna next week"))
}

func TestExtractPetNamesFiltersCalendarWords(t *testing.T) {
	assert.Empty(t, ExtractPetNames("boarding for Thanksgiving please"))
	assert.Empty(t, ExtractPetNames("for November 7"))
}

func TestExtractPetNamesRequiresCapitalization(t *testing.T) {
	assert.Empty(t, ExtractPetNames("my dog needs boarding"))
}

func TestExtractPetNamesDedupes(t *testing.T) {
	names := ExtractPetNames("drop Vida off friday, boarding for Vida")
	assert.Equal(t, []string{"Vida"}, names)
}
