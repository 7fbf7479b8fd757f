package chat

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestClassifyFlowTriggers(t *testing.T) {
	c := NewClassifier()
	cases := map[string]FlowKind{
		"__NUTRITION_START__":  FlowNutrition,
		"__BUDGET_START__":     FlowBudget,
		"__TIME_START__":       FlowTime,
		"__PANTRY_START__":     FlowPantry,
		"__MEAL_PREP_START__":  FlowMealPrep,
		"__HEALTHY_START__":    FlowHealthy,
		"__DAILY_MENU_START__": FlowDailyMenu,
	}
	for token, kind := range cases {
		got := c.Classify(token, NewContext())
		assert.Equal(t, IntentFlowTrigger, got.Intent, token)
		assert.Equal(t, kind, got.Flow, token)
	}

	// 前後空白要容忍，夾在句子裡則不算觸發
	got := c.Classify("  __BUDGET_START__  ", NewContext())
	assert.Equal(t, IntentFlowTrigger, got.Intent)
	got = c.Classify("what does __BUDGET_START__ mean?", NewContext())
	assert.NotEqual(t, IntentFlowTrigger, got.Intent)
}

func TestClassifyPrecedence(t *testing.T) {
	c := NewClassifier()
	ctx := NewContext()

	assert.Equal(t, IntentShoppingAction, c.Classify("add chicken to my shopping list", ctx).Intent)
	assert.Equal(t, IntentSelection, c.Classify("which one is best?", ctx).Intent)
	assert.Equal(t, IntentProductQuery, c.Classify("do you have salmon?", ctx).Intent)
	assert.Equal(t, IntentConversation, c.Classify("hello there", ctx).Intent)

	// 菜餚字眼會壓制商品查詢
	assert.Equal(t, IntentConversation, c.Classify("do you have any dinner recipes?", ctx).Intent)
}

func TestClassifyProductFollowUpNeedsPriorQuery(t *testing.T) {
	c := NewClassifier()

	fresh := NewContext()
	assert.Equal(t, IntentConversation, c.Classify("how much do they cost?", fresh).Intent)

	primed := NewContext()
	primed.LastProductQuery = "cheese"
	assert.Equal(t, IntentProductFollowUp, c.Classify("how much do they cost?", primed).Intent)
}

func TestIsMoreRequest(t *testing.T) {
	assert.True(t, isMoreRequest("more"))
	assert.True(t, isMoreRequest("  Show me more  "))
	assert.True(t, isMoreRequest("give me more"))
	assert.False(t, isMoreRequest("more chicken recipes"))
	assert.False(t, isMoreRequest("tell me more about rice"))
}

func TestIsThemedRequest(t *testing.T) {
	assert.True(t, isThemedRequest("any halloween recipe ideas?"))
	assert.True(t, isThemedRequest("a romantic dinner... I mean a romantic meal"))
	assert.True(t, isThemedRequest("recipe for christmas"))
	assert.False(t, isThemedRequest("give me chicken recipes"))
	assert.False(t, isThemedRequest("quick dinner ideas"))
}

func TestIsGroundedRequest(t *testing.T) {
	assert.True(t, isGroundedRequest("only use store products please"))
	assert.True(t, isGroundedRequest("recipes only from the catalog"))
	assert.False(t, isGroundedRequest("give me chicken recipes"))
}

func TestUserAsksForRecipeCards(t *testing.T) {
	assert.True(t, userAsksForRecipeCards("give me some recipes"))
	assert.True(t, userAsksForRecipeCards("suggest a few recipe ideas"))
	assert.True(t, userAsksForRecipeCards("recipes with salmon"))
	assert.True(t, userAsksForRecipeCards("what can I make tonight?"))
	assert.False(t, userAsksForRecipeCards("how do I store fresh basil?"))
}

func TestLikelyRecipeIntent(t *testing.T) {
	assert.True(t, likelyRecipeIntent("italian chicken dishes"))
	assert.True(t, likelyRecipeIntent("something to cook with salmon"))
	assert.False(t, likelyRecipeIntent("is salmon expensive?"))
	assert.False(t, likelyRecipeIntent("hello!"))
}

func TestLLMReplyWantsRecipes(t *testing.T) {
	assert.True(t, llmReplyWantsRecipes("Here are 3 recipes you'll love"))
	assert.True(t, llmReplyWantsRecipes("Sure! I found a couple of recipes for you"))
	assert.False(t, llmReplyWantsRecipes("Basil keeps best wrapped in a damp towel."))
}

func TestHasJSONArtifacts(t *testing.T) {
	assert.True(t, hasJSONArtifacts(`sure! {"recipe_name": "Omelette", "ingredients": ["eggs"]}`))
	assert.False(t, hasJSONArtifacts("no json here"))
}

func TestIsFormattingRequest(t *testing.T) {
	assert.True(t, isFormattingRequest("make recipe cards of those"))
	assert.True(t, isFormattingRequest("show these as recipe cards"))
	assert.False(t, isFormattingRequest("give me pasta recipes"))
}
