package chat

import (
	"context"
	"fmt"
	"regexp"
	"strings"

	"grocery-assistant/internal/core/catalog"
)

const maxPantryItems = 12

var pantrySplitPattern = regexp.MustCompile(`,|\n| and |&|;`)

// 常備調味料，判斷覆蓋率時不列入缺料
var pantryStaples = map[string]struct{}{
	"salt":      {},
	"pepper":    {},
	"oil":       {},
	"olive oil": {},
	"butter":    {},
	"water":     {},
	"sugar":     {},
	"flour":     {},
}

func parsePantryItems(text string) []string {
	seen := make(map[string]struct{})
	var items []string
	for _, tok := range pantrySplitPattern.Split(text, -1) {
		n := Normalize(tok)
		if n == "" {
			continue
		}
		if _, dup := seen[n]; dup {
			continue
		}
		seen[n] = struct{}{}
		items = append(items, n)
		if len(items) >= maxPantryItems {
			break
		}
	}
	return items
}

// recipeCoversItems 判斷食譜是否用到清單中的每一項（常備料除外）
func recipeCoversItems(r catalog.Recipe, items []string) bool {
	for _, item := range items {
		if _, staple := pantryStaples[item]; staple {
			continue
		}
		covered := false
		for _, ing := range r.Ingredients {
			if strings.Contains(ing.Normalized, item) || strings.Contains(item, ing.Normalized) {
				covered = true
				break
			}
		}
		if !covered {
			return false
		}
	}
	return true
}

var yesPattern = regexp.MustCompile(`(?i)^\s*(yes|yeah|yep|sure|ok|okay|please|y)\b`)

// coveringRecipes 篩出能涵蓋清單每一項的食譜
func coveringRecipes(recipes []catalog.Recipe, items []string) []catalog.Recipe {
	var out []catalog.Recipe
	for _, r := range recipes {
		if recipeCoversItems(r, items) {
			out = append(out, r)
		}
	}
	return out
}

// handlePantryFlow 兩階段：收食材清單並給保存建議，確認後找出能全部用上的食譜
func (s *Service) handlePantryFlow(ctx context.Context, message string, convo *Context) *Result {
	flow := convo.Flow

	switch flow.SubState {
	case stateAwaitingItems:
		items := parsePantryItems(message)
		if len(items) == 0 {
			return &Result{Reply: "I didn't catch any ingredients there. 🧺 List what you have, separated by commas, like \"chicken, rice, broccoli\"."}
		}
		flow.SubState = stateAwaitingConfirm
		flow.Data.Pantry = &PantryData{Items: items}

		guidance := s.flowChat(ctx, convo, fmt.Sprintf(
			"Give short, practical storage, pairing and waste-reduction tips for these ingredients: %s",
			strings.Join(items, ", ")))
		if guidance == "" {
			guidance = "A few tips: use the most perishable items first, and staples like salt, oil and butter don't count against you."
		}
		return &Result{Reply: fmt.Sprintf(
			"Nice haul! I've got: %s. 🧺\n\n%s\n\nWant me to find recipes that use everything on your list? (yes/no)",
			strings.Join(items, ", "), guidance)}

	case stateAwaitingConfirm:
		data := flow.Data.Pantry
		convo.Flow = nil
		if data == nil || !yesPattern.MatchString(message) {
			return &Result{Reply: "No problem! Your pantry list is saved in this chat. Ask me anything else whenever you're ready. 🌿"}
		}

		request := fmt.Sprintf("Recipes that use every one of these ingredients: %s", strings.Join(data.Items, ", "))
		covering := coveringRecipes(s.flowSuggest(ctx, convo, request, 3), data.Items)
		if len(covering) == 0 {
			covering = coveringRecipes(s.catalog.Recipes, data.Items)
		}
		if len(covering) == 0 {
			return &Result{Reply: fmt.Sprintf(
				"I couldn't find a recipe that uses everything in %s. Try removing an item or two, or ask me for recipes featuring your favourite ingredient!",
				strings.Join(data.Items, ", "))}
		}

		ranked := RankRecipes(strings.Join(data.Items, " "), covering, convo, RankOptions{})
		picks := EnrichRecipes(limitRecipes(ranked, 3), s.catalog.Products)
		for i := range picks {
			convo.MarkSeen(picks[i].Name)
		}
		convo.AllSuggested = mergeRecipeHistory(convo.AllSuggested, picks)
		return &Result{
			Reply:   "These recipes put your whole pantry list to work: 🧺",
			Recipes: picks,
		}
	}

	convo.Flow = nil
	return &Result{Reply: "Let's start fresh. What would you like to do?"}
}
