package chat

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRankRecipesFocusedQuery(t *testing.T) {
	cat := testCatalog()
	ctx := NewContext()

	got := RankRecipes("quick breakfast with eggs", cat.Recipes, ctx, RankOptions{})
	require.NotEmpty(t, got)
	assert.Equal(t, "Veggie Omelette", got[0].Name)
	// 高度相關時收斂為少量結果
	assert.LessOrEqual(t, len(got), 2)
}

func TestRankRecipesExplicitCount(t *testing.T) {
	cat := testCatalog()
	ctx := NewContext()

	got := RankRecipes("give me 2 healthy recipes", cat.Recipes, ctx, RankOptions{})
	assert.Len(t, got, 2)
}

func TestRankRecipesMoreExcludesSeen(t *testing.T) {
	cat := testCatalog()
	ctx := NewContext()

	first := RankRecipes("chicken", cat.Recipes, ctx, RankOptions{})
	require.NotEmpty(t, first)
	assert.Equal(t, "Chicken Stir Fry", first[0].Name)
	for _, r := range first {
		ctx.MarkSeen(r.Name)
	}

	second := RankRecipes("chicken", cat.Recipes, ctx, RankOptions{TreatAsMore: true})
	for _, r := range second {
		assert.False(t, ctx.HasSeen(r.Name), "more results must be disjoint from seen: %s", r.Name)
	}
}

func TestRankRecipesMoreExhaustion(t *testing.T) {
	cat := testCatalog()
	ctx := NewContext()

	// 全部標記為已看過後，more 應回傳空清單表示出盡
	for _, r := range cat.Recipes {
		ctx.MarkSeen(r.Name)
	}
	got := RankRecipes("chicken", cat.Recipes, ctx, RankOptions{TreatAsMore: true})
	assert.Nil(t, got)
}

func TestRankRecipesSeenPenaltyDoesNotExclude(t *testing.T) {
	cat := testCatalog()
	ctx := NewContext()
	ctx.MarkSeen("Veggie Omelette")

	// 新查詢仍可回到已看過的食譜，只是排序受到懲罰
	got := RankRecipes("omelette with eggs and spinach", cat.Recipes, ctx, RankOptions{})
	require.NotEmpty(t, got)
	assert.Equal(t, "Veggie Omelette", got[0].Name)
}

func TestRankRecipesFallbackWithoutTokens(t *testing.T) {
	cat := testCatalog()
	ctx := NewContext()
	ctx.Messages = append(ctx.Messages, Message{From: "user", Text: "I love banana"})

	got := RankRecipes("give me some", cat.Recipes, ctx, RankOptions{})
	require.NotEmpty(t, got)
	for _, r := range got {
		assert.True(t, recipeMentionsAny(r, []string{"banana"}), "favorites fallback should prefer liked ingredients: %s", r.Name)
	}
}

func TestParseRequestedCount(t *testing.T) {
	n, explicit := parseRequestedCount("show me five recipes")
	assert.Equal(t, 5, n)
	assert.True(t, explicit)

	n, explicit = parseRequestedCount("got anything nice?")
	assert.Equal(t, 3, n)
	assert.False(t, explicit)

	n, _ = parseRequestedCount("give me 25 recipes")
	assert.Equal(t, 10, n, "requested count is clamped")
}
