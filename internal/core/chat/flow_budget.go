package chat

import (
	"context"
	"fmt"
	"regexp"
	"strconv"

	"grocery-assistant/internal/core/budget"
)

var (
	dollarAmountPattern = regexp.MustCompile(`\$?\s*(\d+(?:\.\d+)?)\s*(?:dollars?|bucks?|\$)?`)
	servingsPattern     = regexp.MustCompile(`(\d+)\s*(?:servings?|people|persons?|portions?)`)
)

// parseBudgetRequest 解析金額與份數，份數預設 2
func parseBudgetRequest(text string) (amount float64, servings int, ok bool) {
	servings = 2
	if m := servingsPattern.FindStringSubmatch(text); m != nil {
		if n, err := strconv.Atoi(m[1]); err == nil && n > 0 {
			servings = n
		}
	}
	// 份數的數字不能當金額用，先把該片段移除
	stripped := servingsPattern.ReplaceAllString(text, "")
	if m := dollarAmountPattern.FindStringSubmatch(stripped); m != nil {
		amount, _ = strconv.ParseFloat(m[1], 64)
	}
	if amount <= 0 {
		return 0, 0, false
	}
	return amount, servings, true
}

// handleBudgetFlow 依預算挑食譜，全超標時回傳最接近的選項並標記
func (s *Service) handleBudgetFlow(ctx context.Context, message string, convo *Context) *Result {
	amount, servings, ok := parseBudgetRequest(message)
	if !ok {
		return &Result{Reply: "I couldn't spot a budget amount there. 💵 Try something like \"$20 for 4 servings\"."}
	}
	convo.Flow = nil

	request := fmt.Sprintf("Recipes that fit a total grocery budget of $%.2f for %d serving(s)", amount, servings)
	candidates := s.flowSuggest(ctx, convo, request, 6)
	if len(candidates) == 0 {
		candidates = s.catalog.Recipes
	}
	enriched := EnrichRecipes(candidates, s.catalog.Products)
	within := budget.FilterByCap(enriched, amount)

	if len(within) > 0 {
		picks := limitEnriched(budget.SortByCheapest(within), 3)
		for i := range picks {
			convo.MarkSeen(picks[i].Name)
		}
		convo.AllSuggested = mergeRecipeHistory(convo.AllSuggested, picks)
		return &Result{
			Reply:   fmt.Sprintf("Here's what fits your $%.2f budget for %d serving(s): 💰", amount, servings),
			Recipes: picks,
		}
	}

	closest := limitEnriched(budget.SortByCheapest(enriched), 3)
	for i := range closest {
		closest[i].ExceedsBudget = true
		convo.MarkSeen(closest[i].Name)
	}
	convo.AllSuggested = mergeRecipeHistory(convo.AllSuggested, closest)
	return &Result{
		Reply:   fmt.Sprintf("Nothing came in under $%.2f, so here are the closest options I could find. They run a little over budget:", amount),
		Recipes: closest,
	}
}

func limitEnriched(recipes []EnrichedRecipe, n int) []EnrichedRecipe {
	if len(recipes) <= n {
		return recipes
	}
	return recipes[:n]
}
