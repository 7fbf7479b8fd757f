package chat

import (
	"context"
	"fmt"
	"regexp"
	"strconv"

	"grocery-assistant/internal/core/catalog"
)

var (
	minutesPattern = regexp.MustCompile(`(\d+)\s*(?:minutes?|mins?)?`)
	hoursPattern   = regexp.MustCompile(`(\d+(?:\.\d+)?)\s*(?:hours?|hrs?|h\b)`)
)

// parseMinutes 解析可用的烹飪分鐘數，小時會換算
func parseMinutes(text string) (int, bool) {
	if m := hoursPattern.FindStringSubmatch(text); m != nil {
		h, _ := strconv.ParseFloat(m[1], 64)
		return int(h * 60), true
	}
	if m := minutesPattern.FindStringSubmatch(text); m != nil {
		n, err := strconv.Atoi(m[1])
		if err == nil && n > 0 && n <= 600 {
			return n, true
		}
	}
	return 0, false
}

// handleTimeFlow 依時間限制挑快速食譜，步驟數當作時長的粗略指標
func (s *Service) handleTimeFlow(ctx context.Context, message string, convo *Context) *Result {
	minutes, ok := parseMinutes(message)
	if !ok {
		return &Result{Reply: "I didn't catch a time there. ⏱️ Tell me how many minutes you have, like \"30 minutes\"."}
	}
	convo.Flow = nil

	request := fmt.Sprintf("Quick recipes I can cook in about %d minutes", minutes)
	picked := s.flowSuggest(ctx, convo, request, 3)
	if len(picked) == 0 {
		maxSteps := 4
		switch {
		case minutes >= 60:
			maxSteps = 12
		case minutes >= 40:
			maxSteps = 8
		case minutes >= 25:
			maxSteps = 6
		}

		var quick []catalog.Recipe
		for _, r := range s.catalog.Recipes {
			if r.StepCount() <= maxSteps {
				quick = append(quick, r)
			}
		}
		if len(quick) == 0 {
			quick = s.catalog.Recipes
		}
		picked = RankRecipes(message, quick, convo, RankOptions{QueryForScoring: "quick easy"})
	}

	picks := EnrichRecipes(limitRecipes(picked, 3), s.catalog.Products)
	for i := range picks {
		convo.MarkSeen(picks[i].Name)
	}
	convo.AllSuggested = mergeRecipeHistory(convo.AllSuggested, picks)

	return &Result{
		Reply:   fmt.Sprintf("With %d minutes on the clock, these should work nicely: ⏱️", minutes),
		Recipes: picks,
	}
}
