package chat

import (
	"context"
	"fmt"
	"strings"
)

var mealPrepChoices = []struct {
	number string
	words  []string
	query  string
	label  string
}{
	{"1", []string{"quick", "easy", "fast"}, "quick easy", "quick & easy"},
	{"2", []string{"healthy", "light"}, "healthy light", "healthy & light"},
	{"3", []string{"comfort", "cozy", "hearty"}, "comfort food", "comfort food"},
	{"4", []string{"protein"}, "high protein", "high protein"},
	{"5", []string{"surprise", "anything", "whatever"}, "", "surprise"},
}

func parseMealPrepPreference(text string) (query, label string, ok bool) {
	trimmed := strings.TrimSpace(strings.ToLower(text))
	for _, c := range mealPrepChoices {
		if trimmed == c.number {
			return c.query, c.label, true
		}
		for _, w := range c.words {
			if strings.Contains(trimmed, w) {
				return c.query, c.label, true
			}
		}
	}
	return "", "", false
}

// handleMealPrepFlow 依偏好挑三道並依位置指派早午晚餐
func (s *Service) handleMealPrepFlow(ctx context.Context, message string, convo *Context) *Result {
	query, label, ok := parseMealPrepPreference(message)
	if !ok {
		return &Result{Reply: "I'm not sure what type of recipes you mean. Pick a number from 1 to 5, or describe it like \"quick\" or \"high protein\"."}
	}
	convo.Flow = nil

	request := fmt.Sprintf("A %s meal prep plan with one breakfast, one lunch and one dinner recipe", label)
	picked := s.flowSuggest(ctx, convo, request, 3)
	if len(picked) == 0 {
		// 數字選項不能當查詢用，改以對應的偏好字串排名
		scoringQuery := query
		if scoringQuery == "" {
			scoringQuery = "dinner lunch breakfast"
		}
		picked = RankRecipes(scoringQuery, s.catalog.Recipes, convo, RankOptions{})
	}
	picks := forceMealLabels(EnrichRecipes(limitRecipes(picked, 3), s.catalog.Products))
	for i := range picks {
		convo.MarkSeen(picks[i].Name)
	}
	convo.AllSuggested = mergeRecipeHistory(convo.AllSuggested, picks)

	return &Result{
		Reply: fmt.Sprintf(
			"Here's your %s meal prep plan for the day: 📦\n%s\nCook them in one session and you're set!",
			label, mealLabelLine(picks)),
		Recipes: picks,
	}
}
