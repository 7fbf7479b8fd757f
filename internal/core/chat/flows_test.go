package chat

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"grocery-assistant/internal/core/llm"
)

func newTestService() *Service {
	return NewService(testCatalog(), nil)
}

func TestFlowTriggerResetsPreviousFlow(t *testing.T) {
	svc := newTestService()
	ctx := context.Background()
	convo := NewContext()

	svc.ProcessMessage(ctx, "__NUTRITION_START__", convo)
	require.NotNil(t, convo.Flow)
	assert.Equal(t, FlowNutrition, convo.Flow.Kind)

	svc.ProcessMessage(ctx, "170 cm, 70 kg", convo)
	require.NotNil(t, convo.Flow.Data.Nutrition)

	// 啟動另一個流程必須清掉前一個流程與其資料
	svc.ProcessMessage(ctx, "__BUDGET_START__", convo)
	require.NotNil(t, convo.Flow)
	assert.Equal(t, FlowBudget, convo.Flow.Kind)
	assert.Nil(t, convo.Flow.Data.Nutrition)
}

func TestNutritionFlow(t *testing.T) {
	svc := newTestService()
	ctx := context.Background()
	convo := NewContext()

	svc.ProcessMessage(ctx, "__NUTRITION_START__", convo)

	res := svc.ProcessMessage(ctx, "170 cm, 70 kg", convo)
	assert.Contains(t, res.Reply, "24.2", "BMI for 170cm/70kg")
	require.NotNil(t, convo.Flow.Data.Nutrition)
	assert.InDelta(t, 24.22, convo.Flow.Data.Nutrition.BMI, 0.01)
	assert.Equal(t, stateAwaitingMacroDecision, convo.Flow.SubState)

	res = svc.ProcessMessage(ctx, "yes please", convo)
	assert.Contains(t, res.Reply, "How active are you")
	assert.Equal(t, stateAwaitingActivity, convo.Flow.SubState)

	res = svc.ProcessMessage(ctx, "moderate", convo)
	// Mifflin-St Jeor: 10*70 + 6.25*170 - 150 + 5 = 1617.5, moderate ×1.55
	assert.Contains(t, res.Reply, "2507")
	require.NotNil(t, convo.Flow)
	assert.Equal(t, stateAwaitingRecipeDecision, convo.Flow.SubState)

	res = svc.ProcessMessage(ctx, "no thanks", convo)
	assert.Nil(t, convo.Flow, "flow completes after the recipe decision")
	assert.Empty(t, res.Recipes)
}

func TestNutritionFlowDeclinesMacros(t *testing.T) {
	svc := newTestService()
	ctx := context.Background()
	convo := NewContext()

	svc.ProcessMessage(ctx, "__NUTRITION_START__", convo)
	svc.ProcessMessage(ctx, "170 cm, 70 kg", convo)

	res := svc.ProcessMessage(ctx, "no", convo)
	assert.Nil(t, convo.Flow, "declining macros ends the flow")
	assert.Contains(t, res.Reply, "24.2")
}

func TestNutritionFlowGroundedRecipes(t *testing.T) {
	backend := &stubBackend{
		suggestResult: &llm.SuggestResult{Recipes: []llm.SuggestedRecipe{{
			Name:        "Spinach Egg Bowl",
			Ingredients: []string{"eggs", "spinach", "rice"},
			Steps:       []string{"Cook rice. Scramble eggs. Fold in spinach."},
		}}},
	}
	svc := NewService(testCatalog(), backend)
	ctx := context.Background()
	convo := NewContext()

	svc.ProcessMessage(ctx, "__NUTRITION_START__", convo)
	svc.ProcessMessage(ctx, "170 cm, 70 kg", convo)
	svc.ProcessMessage(ctx, "yes", convo)
	svc.ProcessMessage(ctx, "moderate", convo)

	res := svc.ProcessMessage(ctx, "yes", convo)
	require.NotNil(t, backend.lastSuggest)
	assert.True(t, backend.lastSuggest.GroundedMode)
	assert.Contains(t, backend.lastSuggest.Message, "836", "per-meal calories from 2507 kcal/day")
	require.Len(t, res.Recipes, 1)
	assert.Equal(t, "Spinach Egg Bowl", res.Recipes[0].Name)
	assert.Nil(t, convo.Flow)
}

func TestNutritionFlowImperial(t *testing.T) {
	h, w, ok := parseMeasurements("5 feet 7 inches, 150 pounds")
	require.True(t, ok)
	assert.InDelta(t, 170.18, h, 0.01)
	assert.InDelta(t, 68.04, w, 0.01)

	h, w, ok = parseMeasurements(`5'7", 150 lbs`)
	require.True(t, ok)
	assert.InDelta(t, 170.18, h, 0.01)
	assert.InDelta(t, 68.04, w, 0.01)
}

func TestNutritionFlowBareNumbers(t *testing.T) {
	h, w, ok := parseMeasurements("170 and 70")
	require.True(t, ok)
	assert.Equal(t, 170.0, h)
	assert.Equal(t, 70.0, w)
}

func TestNutritionFlowUnparseable(t *testing.T) {
	svc := newTestService()
	ctx := context.Background()
	convo := NewContext()

	svc.ProcessMessage(ctx, "__NUTRITION_START__", convo)
	res := svc.ProcessMessage(ctx, "tall and heavy", convo)
	assert.Contains(t, res.Reply, "couldn't quite understand")
	assert.Equal(t, stateAwaitingMeasurements, convo.Flow.SubState, "flow stays on the same step")
}

func TestBudgetFlow(t *testing.T) {
	svc := newTestService()
	ctx := context.Background()
	convo := NewContext()

	svc.ProcessMessage(ctx, "__BUDGET_START__", convo)
	res := svc.ProcessMessage(ctx, "$15 for 2 servings", convo)

	require.NotEmpty(t, res.Recipes)
	for _, r := range res.Recipes {
		cost, ok := r.CostEstimate()
		require.True(t, ok)
		assert.LessOrEqual(t, cost, 15.0+1e-9)
		assert.False(t, r.ExceedsBudget)
	}
	assert.Nil(t, convo.Flow)
}

func TestBudgetFlowClosestOptions(t *testing.T) {
	svc := newTestService()
	ctx := context.Background()
	convo := NewContext()

	svc.ProcessMessage(ctx, "__BUDGET_START__", convo)
	res := svc.ProcessMessage(ctx, "$1", convo)

	assert.Contains(t, res.Reply, "closest options")
	require.NotEmpty(t, res.Recipes)
	for _, r := range res.Recipes {
		assert.True(t, r.ExceedsBudget)
	}
}

func TestBudgetFlowUnparseable(t *testing.T) {
	svc := newTestService()
	ctx := context.Background()
	convo := NewContext()

	svc.ProcessMessage(ctx, "__BUDGET_START__", convo)
	res := svc.ProcessMessage(ctx, "whatever works", convo)
	assert.Contains(t, res.Reply, "budget")
	require.NotNil(t, convo.Flow)
}

func TestTimeFlow(t *testing.T) {
	svc := newTestService()
	ctx := context.Background()
	convo := NewContext()

	svc.ProcessMessage(ctx, "__TIME_START__", convo)
	res := svc.ProcessMessage(ctx, "I have 30 minutes", convo)

	assert.Contains(t, res.Reply, "30")
	assert.NotEmpty(t, res.Recipes)
	assert.Nil(t, convo.Flow)
}

func TestTimeFlowUnparseable(t *testing.T) {
	svc := newTestService()
	ctx := context.Background()
	convo := NewContext()

	svc.ProcessMessage(ctx, "__TIME_START__", convo)
	res := svc.ProcessMessage(ctx, "not long", convo)
	assert.Contains(t, res.Reply, "minutes")
	require.NotNil(t, convo.Flow)
}

func TestPantryFlow(t *testing.T) {
	svc := newTestService()
	ctx := context.Background()
	convo := NewContext()

	svc.ProcessMessage(ctx, "__PANTRY_START__", convo)
	res := svc.ProcessMessage(ctx, "eggs, spinach, cheddar cheese", convo)
	assert.Contains(t, res.Reply, "eggs")

	res = svc.ProcessMessage(ctx, "yes", convo)
	require.NotEmpty(t, res.Recipes)
	// 每道食譜都必須涵蓋清單上的非常備食材
	for _, r := range res.Recipes {
		assert.Equal(t, "Veggie Omelette", r.Name)
	}
	assert.Nil(t, convo.Flow)
}

func TestParsePantryItemsCap(t *testing.T) {
	long := "a1, a2, a3, a4, a5, a6, a7, a8, a9, a10, a11, a12, a13, a14"
	items := parsePantryItems(long)
	assert.Len(t, items, maxPantryItems)
}

func TestMealPrepFlowInvalidChoice(t *testing.T) {
	svc := newTestService()
	ctx := context.Background()
	convo := NewContext()

	svc.ProcessMessage(ctx, "__MEAL_PREP_START__", convo)
	res := svc.ProcessMessage(ctx, "42", convo)
	assert.Contains(t, res.Reply, "type of recipes")
	require.NotNil(t, convo.Flow)
}

func TestMealPrepFlow(t *testing.T) {
	svc := newTestService()
	ctx := context.Background()
	convo := NewContext()

	svc.ProcessMessage(ctx, "__MEAL_PREP_START__", convo)
	res := svc.ProcessMessage(ctx, "2", convo)

	require.Len(t, res.Recipes, 3)
	assert.Equal(t, "breakfast", res.Recipes[0].MealType)
	assert.Equal(t, "lunch", res.Recipes[1].MealType)
	assert.Equal(t, "dinner", res.Recipes[2].MealType)
	assert.Nil(t, convo.Flow)
}

func TestHealthyFlow(t *testing.T) {
	svc := newTestService()
	ctx := context.Background()
	convo := NewContext()

	svc.ProcessMessage(ctx, "__HEALTHY_START__", convo)
	res := svc.ProcessMessage(ctx, "more energy", convo)
	assert.Contains(t, res.Reply, "energy")

	res = svc.ProcessMessage(ctx, "yes please", convo)
	assert.Len(t, res.Recipes, 3)
	assert.Nil(t, convo.Flow)
}

func TestBudgetFlowUsesBackend(t *testing.T) {
	backend := &stubBackend{
		suggestResult: &llm.SuggestResult{Recipes: []llm.SuggestedRecipe{{
			Name:        "Egg Fried Rice",
			Ingredients: []string{"eggs", "rice"},
			Steps:       []string{"Fry the rice. Stir in the eggs."},
		}}},
	}
	svc := NewService(testCatalog(), backend)
	ctx := context.Background()
	convo := NewContext()

	svc.ProcessMessage(ctx, "__BUDGET_START__", convo)
	res := svc.ProcessMessage(ctx, "$15 for 2 servings", convo)

	require.NotNil(t, backend.lastSuggest)
	assert.True(t, backend.lastSuggest.GroundedMode)
	assert.Contains(t, backend.lastSuggest.Message, "$15.00")
	require.Len(t, res.Recipes, 1)
	assert.Equal(t, "Egg Fried Rice", res.Recipes[0].Name)
}

func TestTimeFlowUsesBackend(t *testing.T) {
	backend := &stubBackend{
		suggestResult: &llm.SuggestResult{Recipes: []llm.SuggestedRecipe{{
			Name:        "Five Minute Omelette",
			Ingredients: []string{"eggs", "cheddar cheese"},
			Steps:       []string{"Whisk and cook."},
		}}},
	}
	svc := NewService(testCatalog(), backend)
	ctx := context.Background()
	convo := NewContext()

	svc.ProcessMessage(ctx, "__TIME_START__", convo)
	res := svc.ProcessMessage(ctx, "I have 30 minutes", convo)

	require.NotNil(t, backend.lastSuggest)
	assert.Contains(t, backend.lastSuggest.Message, "30 minutes")
	require.Len(t, res.Recipes, 1)
	assert.Equal(t, "Five Minute Omelette", res.Recipes[0].Name)
}

func TestPantryFlowUsesBackend(t *testing.T) {
	backend := &stubBackend{
		chatReply: "Keep the spinach in a sealed bag in the crisper so it lasts the week.",
		suggestResult: &llm.SuggestResult{Recipes: []llm.SuggestedRecipe{{
			Name:        "Spinach Egg Scramble",
			Ingredients: []string{"eggs", "spinach"},
			Steps:       []string{"Scramble the eggs. Fold in the spinach."},
		}}},
	}
	svc := NewService(testCatalog(), backend)
	ctx := context.Background()
	convo := NewContext()

	svc.ProcessMessage(ctx, "__PANTRY_START__", convo)
	res := svc.ProcessMessage(ctx, "eggs, spinach", convo)
	assert.Contains(t, res.Reply, "sealed bag", "storage guidance comes from the backend")

	res = svc.ProcessMessage(ctx, "yes", convo)
	require.NotNil(t, backend.lastSuggest)
	assert.True(t, backend.lastSuggest.GroundedMode)
	assert.Contains(t, backend.lastSuggest.Message, "eggs, spinach")
	require.Len(t, res.Recipes, 1)
	assert.Equal(t, "Spinach Egg Scramble", res.Recipes[0].Name)
}

func TestMealPrepFlowUsesBackend(t *testing.T) {
	backend := &stubBackend{
		suggestResult: &llm.SuggestResult{Recipes: []llm.SuggestedRecipe{
			{Name: "Yogurt Parfait", Ingredients: []string{"greek yogurt", "banana"}, Steps: []string{"Layer it."}},
			{Name: "Rice Bowl", Ingredients: []string{"rice", "broccoli"}, Steps: []string{"Assemble."}, MealType: "lunch"},
			{Name: "Baked Salmon", Ingredients: []string{"salmon fillet"}, Steps: []string{"Bake."}},
		}},
	}
	svc := NewService(testCatalog(), backend)
	ctx := context.Background()
	convo := NewContext()

	svc.ProcessMessage(ctx, "__MEAL_PREP_START__", convo)
	res := svc.ProcessMessage(ctx, "4", convo)

	require.NotNil(t, backend.lastSuggest)
	assert.True(t, backend.lastSuggest.GroundedMode)
	require.Len(t, res.Recipes, 3)
	// 後端漏標的位置補上，已標示的保留
	assert.Equal(t, "breakfast", res.Recipes[0].MealType)
	assert.Equal(t, "lunch", res.Recipes[1].MealType)
	assert.Equal(t, "dinner", res.Recipes[2].MealType)
}

func TestDailyMenuUsesBackend(t *testing.T) {
	backend := &stubBackend{
		suggestResult: &llm.SuggestResult{Recipes: []llm.SuggestedRecipe{
			{Name: "Morning Oats", Ingredients: []string{"banana"}, Steps: []string{"Soak overnight."}},
			{Name: "Garden Salad", Ingredients: []string{"spinach", "broccoli"}, Steps: []string{"Toss."}},
			{Name: "Pasta Night", Ingredients: []string{"pasta"}, Steps: []string{"Boil and sauce."}},
		}},
	}
	svc := NewService(testCatalog(), backend)
	ctx := context.Background()
	convo := NewContext()

	res := svc.ProcessMessage(ctx, "__DAILY_MENU_START__", convo)
	require.NotNil(t, backend.lastSuggest)
	require.Len(t, res.Recipes, 3)
	assert.Equal(t, "breakfast", res.Recipes[0].MealType)
	assert.Equal(t, "lunch", res.Recipes[1].MealType)
	assert.Equal(t, "dinner", res.Recipes[2].MealType)
}

func TestDailyMenuFlow(t *testing.T) {
	svc := newTestService()
	ctx := context.Background()
	convo := NewContext()

	res := svc.ProcessMessage(ctx, "__DAILY_MENU_START__", convo)
	require.Len(t, res.Recipes, 3)
	assert.Equal(t, "breakfast", res.Recipes[0].MealType)
	assert.Equal(t, "lunch", res.Recipes[1].MealType)
	assert.Equal(t, "dinner", res.Recipes[2].MealType)
	assert.Nil(t, convo.Flow, "daily menu is single turn")
}
