package chat

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestChooseBestRecipeQuick(t *testing.T) {
	cat := testCatalog()
	candidates := EnrichRecipes(cat.Recipes, cat.Products)

	best := ChooseBestRecipe(candidates, Signals{WantsQuick: true})
	require.NotNil(t, best)
	assert.LessOrEqual(t, best.StepCount(), 4)
}

func TestChooseBestRecipeAvoidance(t *testing.T) {
	cat := testCatalog()
	candidates := EnrichRecipes(cat.Recipes, cat.Products)

	best := ChooseBestRecipe(candidates, Signals{AvoidedIngredients: []string{"salmon"}})
	require.NotNil(t, best)
	assert.NotContains(t, strings.ToLower(best.Name), "salmon")
}

func TestChooseBestRecipeEmpty(t *testing.T) {
	assert.Nil(t, ChooseBestRecipe(nil, Signals{}))
}

func TestChooseBestRecipeTieKeepsFirst(t *testing.T) {
	candidates := []EnrichedRecipe{
		{Name: "First", Ingredients: []EnrichedIngredient{{Name: "rice", Found: true}}},
		{Name: "Second", Ingredients: []EnrichedIngredient{{Name: "rice", Found: true}}},
	}
	best := ChooseBestRecipe(candidates, Signals{})
	require.NotNil(t, best)
	assert.Equal(t, "First", best.Name)
}

func TestExplainBestChoice(t *testing.T) {
	cat := testCatalog()
	enriched := EnrichRecipe(cat.Recipes[0], cat.Products)

	got := ExplainBestChoice(&enriched, Signals{WantsQuick: true, WantsHealthy: true, FocusMealType: "breakfast"})
	assert.True(t, strings.HasPrefix(got, "because it "), "explanation: %q", got)
	assert.Contains(t, got, " and ")

	// 最多三項特質
	assert.LessOrEqual(t, strings.Count(got, ","), 2)
}

func TestExplainBestChoiceBudget(t *testing.T) {
	cat := testCatalog()
	enriched := EnrichRecipe(cat.Recipes[0], cat.Products)

	got := ExplainBestChoice(&enriched, Signals{WantsBudget: true})
	assert.Contains(t, got, "$")
}

func TestAnalyzeConversation(t *testing.T) {
	ctx := NewContext()
	ctx.Messages = []Message{
		{From: "user", Text: "I love salmon and want something quick"},
		{From: "bot", Text: "Noted!"},
		{From: "user", Text: "no mushrooms please, dinner for 4 people, keep it cheap"},
	}

	sig := AnalyzeConversation(ctx)
	assert.True(t, sig.WantsQuick)
	assert.True(t, sig.WantsBudget)
	assert.Equal(t, "dinner", sig.FocusMealType)
	assert.Equal(t, 4, sig.GuestCount)
	assert.Contains(t, sig.Preferences, "salmon")
	assert.Contains(t, sig.AvoidedIngredients, "mushrooms")
}
