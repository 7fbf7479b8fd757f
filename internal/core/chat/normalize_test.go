package chat

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNormalize(t *testing.T) {
	assert.Equal(t, "chicken stirfry", Normalize("  Chicken   Stir-Fry! "))
	assert.Equal(t, "eggs 12", Normalize("Eggs (12)"))
	assert.Equal(t, "", Normalize("!!!"))
}

func TestNormalizeIdempotent(t *testing.T) {
	inputs := []string{"Chicken Breast", "  olive   OIL ", "créme", "a-b-c 123"}
	for _, in := range inputs {
		once := Normalize(in)
		assert.Equal(t, once, Normalize(once), "input: %q", in)
	}
}

func TestTokenizeQueryDropsStopwords(t *testing.T) {
	tokens := tokenizeQuery("can you give me some recipes with chicken and rice")
	assert.Contains(t, tokens, "chicken")
	assert.Contains(t, tokens, "rice")
	assert.NotContains(t, tokens, "recipes")
	assert.NotContains(t, tokens, "give")
	assert.NotContains(t, tokens, "some")
}

func TestSingular(t *testing.T) {
	assert.Equal(t, "egg", singular("eggs"))
	assert.Equal(t, "rice", singular("rice"))
}

func TestContainsWord(t *testing.T) {
	assert.True(t, containsWord("chicken stir fry", "chicken"))
	assert.False(t, containsWord("chickenish dish", "chicken"))
}
