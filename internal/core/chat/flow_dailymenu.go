package chat

import (
	"context"
	"strings"

	"grocery-assistant/internal/core/catalog"
)

func recipeMatchesMeal(r catalog.Recipe, meal string, hints []string) bool {
	if strings.EqualFold(r.MealType, meal) {
		return true
	}
	text := Normalize(r.Name)
	for _, ing := range r.Ingredients {
		text += " " + ing.Normalized
	}
	for _, h := range hints {
		if containsWord(text, h) {
			return true
		}
	}
	return false
}

// buildDailyMenu 單回合組出今日早午晚餐，缺的時段用排名遞補
func (s *Service) buildDailyMenu(ctx context.Context, convo *Context) *Result {
	got := s.flowSuggest(ctx, convo, "A one-day menu with one breakfast, one lunch and one dinner recipe", 3)
	if len(got) == 3 {
		picks := forceMealLabels(EnrichRecipes(got, s.catalog.Products))
		for i := range picks {
			convo.MarkSeen(picks[i].Name)
		}
		convo.AllSuggested = mergeRecipeHistory(convo.AllSuggested, picks)
		return &Result{
			Reply:   "Here's your menu for the day: 🍽️\n" + mealLabelLine(picks) + "\nEnjoy every bite!",
			Recipes: picks,
		}
	}

	slots := []struct {
		meal  string
		hints []string
	}{
		{"breakfast", breakfastHints},
		{"lunch", lunchHints},
		{"dinner", dinnerHints},
	}

	used := make(map[string]struct{})
	var picks []EnrichedRecipe
	var missing []int

	for i, slot := range slots {
		var pool []catalog.Recipe
		for _, r := range s.catalog.Recipes {
			if _, taken := used[r.Name]; taken {
				continue
			}
			if recipeMatchesMeal(r, slot.meal, slot.hints) {
				pool = append(pool, r)
			}
		}
		if len(pool) == 0 {
			picks = append(picks, EnrichedRecipe{})
			missing = append(missing, i)
			continue
		}
		ranked := RankRecipes(slot.meal, pool, convo, RankOptions{QueryForScoring: slot.meal})
		chosen := EnrichRecipe(ranked[0], s.catalog.Products)
		chosen.MealType = slot.meal
		used[chosen.Name] = struct{}{}
		picks = append(picks, chosen)
	}

	// 遞補沒有對應時段的位置
	if len(missing) > 0 {
		ranked := RankRecipes("daily menu", s.catalog.Recipes, convo, RankOptions{})
		idx := 0
		for _, pos := range missing {
			for idx < len(ranked) {
				r := ranked[idx]
				idx++
				if _, taken := used[r.Name]; taken {
					continue
				}
				chosen := EnrichRecipe(r, s.catalog.Products)
				chosen.MealType = slots[pos].meal
				used[chosen.Name] = struct{}{}
				picks[pos] = chosen
				break
			}
		}
	}

	var final []EnrichedRecipe
	for _, p := range picks {
		if p.Name != "" {
			final = append(final, p)
		}
	}
	if len(final) == 0 {
		return &Result{Reply: "I don't have enough recipes loaded to build a menu yet. Try again once the catalog is ready!"}
	}

	for i := range final {
		convo.MarkSeen(final[i].Name)
	}
	convo.AllSuggested = mergeRecipeHistory(convo.AllSuggested, final)

	return &Result{
		Reply:   "Here's your menu for the day: 🍽️\n" + mealLabelLine(final) + "\nEnjoy every bite!",
		Recipes: final,
	}
}
