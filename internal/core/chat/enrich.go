package chat

import (
	"math"
	"strings"

	"grocery-assistant/internal/core/catalog"
)

// MatchProduct 以正規化名稱的雙向子字串包含比對商品，回傳目錄順序中的第一個命中
func MatchProduct(ingredientName string, products []catalog.Product) *catalog.Product {
	norm := Normalize(ingredientName)
	if norm == "" {
		return nil
	}
	for i := range products {
		p := &products[i]
		pn := p.Normalized
		if pn == "" {
			pn = Normalize(p.Item)
		}
		if pn == "" {
			continue
		}
		if strings.Contains(pn, norm) || strings.Contains(norm, pn) {
			return p
		}
	}
	return nil
}

// EnrichRecipe 將商品的價格與熱量附加到食譜的每項食材上並累計總計
// 純函式，不會修改目錄，同一組輸入重複呼叫結果相同
func EnrichRecipe(r catalog.Recipe, products []catalog.Product) EnrichedRecipe {
	out := EnrichedRecipe{
		Name:     r.Name,
		Steps:    r.Steps,
		MealType: r.MealType,
	}

	for _, ing := range r.Ingredients {
		enriched := EnrichedIngredient{Name: ing.Name}
		if p := MatchProduct(ing.Name, products); p != nil {
			enriched.Found = true
			enriched.Product = p
			enriched.Unit = p.Unit
			if isFinite(p.Price) {
				enriched.Price = p.Price
				out.TotalPrice += p.Price
				out.HasPricing = true
			}
			if isFinite(p.Nutrition.Calories) {
				enriched.Calories = p.Nutrition.Calories
				out.TotalCalories += p.Nutrition.Calories
			}
		}
		out.Ingredients = append(out.Ingredients, enriched)
	}
	return out
}

// EnrichRecipes 批次版本
func EnrichRecipes(recipes []catalog.Recipe, products []catalog.Product) []EnrichedRecipe {
	out := make([]EnrichedRecipe, 0, len(recipes))
	for _, r := range recipes {
		out = append(out, EnrichRecipe(r, products))
	}
	return out
}

func isFinite(f float64) bool {
	return !math.IsNaN(f) && !math.IsInf(f, 0)
}
