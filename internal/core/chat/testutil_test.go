package chat

import (
	"context"

	"grocery-assistant/internal/core/catalog"
	"grocery-assistant/internal/core/llm"
)

func ref(names ...string) []catalog.IngredientRef {
	out := make([]catalog.IngredientRef, 0, len(names))
	for _, n := range names {
		out = append(out, catalog.IngredientRef{Name: n, Normalized: catalog.NormalizeName(n)})
	}
	return out
}

func testCatalog() *catalog.Catalog {
	return &catalog.Catalog{
		Products: []catalog.Product{
			{Category: "Dairy", Item: "Eggs", Price: 3.20, Unit: "dozen", Nutrition: catalog.Nutrition{Calories: 72}, Normalized: "eggs"},
			{Category: "Produce", Item: "Spinach", Price: 2.50, Unit: "bag", Nutrition: catalog.Nutrition{Calories: 23}, Normalized: "spinach"},
			{Category: "Dairy", Item: "Cheddar Cheese", Price: 4.50, Unit: "block", Nutrition: catalog.Nutrition{Calories: 113}, Normalized: "cheddar cheese"},
			{Category: "Meat", Item: "Chicken Breast", Price: 5.50, Unit: "lb", Nutrition: catalog.Nutrition{Calories: 165}, Normalized: "chicken breast"},
			{Category: "Pantry", Item: "Rice", Price: 3.50, Unit: "bag", Nutrition: catalog.Nutrition{Calories: 205}, Normalized: "rice"},
			{Category: "Pantry", Item: "Pasta", Price: 1.80, Unit: "box", Nutrition: catalog.Nutrition{Calories: 220}, Normalized: "pasta"},
			{Category: "Seafood", Item: "Salmon Fillet", Price: 9.80, Unit: "lb", Nutrition: catalog.Nutrition{Calories: 208}, Normalized: "salmon fillet"},
			{Category: "Produce", Item: "Broccoli", Price: 1.90, Unit: "head", Nutrition: catalog.Nutrition{Calories: 50}, Normalized: "broccoli"},
			{Category: "Dairy", Item: "Greek Yogurt", Price: 4.20, Unit: "tub", Nutrition: catalog.Nutrition{Calories: 100}, Normalized: "greek yogurt"},
			{Category: "Produce", Item: "Banana", Price: 0.40, Unit: "each", Nutrition: catalog.Nutrition{Calories: 105}, Normalized: "banana"},
		},
		Recipes: []catalog.Recipe{
			{Name: "Veggie Omelette", Ingredients: ref("eggs", "spinach", "cheddar cheese"), Steps: []string{"Whisk eggs. Add spinach and cheese. Fold and serve."}},
			{Name: "Chicken Stir Fry", Ingredients: ref("chicken breast", "broccoli", "rice"), Steps: []string{"Slice chicken. Stir fry with broccoli. Serve over rice. Season to taste. Rest briefly."}},
			{Name: "Garlic Butter Salmon", Ingredients: ref("salmon fillet", "butter", "garlic"), Steps: []string{"Sear the salmon. Baste with garlic butter. Finish with lemon."}},
			{Name: "Greek Yogurt Parfait", Ingredients: ref("greek yogurt", "banana", "oats"), Steps: []string{"Layer yogurt and banana. Top with oats."}},
			{Name: "Creamy Mushroom Pasta", Ingredients: ref("pasta", "mushrooms", "butter"), Steps: []string{"Boil pasta. Saute mushrooms. Combine with sauce. Plate. Garnish. Serve."}},
			{Name: "Banana Oat Smoothie", Ingredients: ref("banana", "oats", "greek yogurt"), Steps: []string{"Blend everything until smooth."}},
		},
	}
}

// stubBackend 固定回應的測試後端
type stubBackend struct {
	chatReply     string
	chatErr       error
	suggestResult *llm.SuggestResult
	suggestErr    error
	lastSuggest   *llm.SuggestRequest
}

func (s *stubBackend) Chat(ctx context.Context, message string, history []llm.HistoryMessage, recipes []llm.RecipeSummary, products []string) (string, error) {
	return s.chatReply, s.chatErr
}

func (s *stubBackend) Suggest(ctx context.Context, req *llm.SuggestRequest) (*llm.SuggestResult, error) {
	s.lastSuggest = req
	return s.suggestResult, s.suggestErr
}

func (s *stubBackend) Ping(ctx context.Context) error { return nil }
