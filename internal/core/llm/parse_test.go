package llm

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStripCodeFences(t *testing.T) {
	in := "Sure!\n```json\n{\"a\": 1}\n```\nEnjoy!"
	got := StripCodeFences(in)
	assert.Contains(t, got, `{"a": 1}`)
	assert.NotContains(t, got, "```")
}

func TestExtractJSONObject(t *testing.T) {
	got, ok := ExtractJSONObject(`Here you go: {"reply": "hi"} hope it helps`)
	require.True(t, ok)
	assert.Equal(t, `{"reply": "hi"}`, got)

	_, ok = ExtractJSONObject("no json at all")
	assert.False(t, ok)
}

func TestParseSuggestPayload(t *testing.T) {
	raw := "```json\n" + `{
		"reply": "Here are two ideas!",
		"reasoning": "Both are quick.",
		"recipes": [
			{"name": "Veggie Omelette", "ingredients": ["eggs", "spinach"], "steps": ["Whisk", "Cook"], "mealType": "breakfast"},
			{"name": "", "ingredients": ["ghost"]}
		]
	}` + "\n```"

	res, err := ParseSuggestPayload(raw)
	require.NoError(t, err)
	assert.Equal(t, "Here are two ideas!", res.Reply)
	assert.Equal(t, "Both are quick.", res.Reasoning)
	require.Len(t, res.Recipes, 1, "nameless recipes are dropped")
	assert.Equal(t, "Veggie Omelette", res.Recipes[0].Name)
	assert.Equal(t, []string{"eggs", "spinach"}, res.Recipes[0].Ingredients)
	assert.Equal(t, "breakfast", res.Recipes[0].MealType)
}

func TestParseSuggestPayloadRepairsSloppyJSON(t *testing.T) {
	// 尾逗號與物件型食材都是模型常見的輸出毛病
	raw := `{
		"reply": "One pick",
		"recipes": [
			{"name": "Beef Tacos", "ingredients": [{"name": "ground beef"}, "tortillas"], "steps": "Brown the beef. Fill tortillas.",}
		],
	}`

	res, err := ParseSuggestPayload(raw)
	require.NoError(t, err)
	require.Len(t, res.Recipes, 1)
	assert.Equal(t, []string{"ground beef", "tortillas"}, res.Recipes[0].Ingredients)
	require.Len(t, res.Recipes[0].Steps, 1)
}

func TestParseSuggestPayloadNoObject(t *testing.T) {
	_, err := ParseSuggestPayload("sorry, I can't do that")
	assert.Error(t, err)
}
