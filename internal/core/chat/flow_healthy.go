package chat

import (
	"context"
	"fmt"
	"strings"
)

var healthyTips = []struct {
	keywords []string
	label    string
	tips     []string
}{
	{
		[]string{"weight", "lose", "loss", "slim"},
		"weight loss",
		[]string{
			"Fill half your plate with vegetables before anything else",
			"Swap sugary drinks for water or unsweetened tea",
			"Cook at home so you control portions and oil",
		},
	},
	{
		[]string{"energy", "tired", "fatigue"},
		"more energy",
		[]string{
			"Pair carbs with protein to avoid energy crashes",
			"Don't skip breakfast, even something small helps",
			"Stay hydrated, mild dehydration feels like fatigue",
		},
	},
	{
		[]string{"heart", "cholesterol", "blood pressure"},
		"heart health",
		[]string{
			"Favour olive oil and fish over butter and red meat",
			"Watch sodium in sauces and processed foods",
			"Fibre from oats, beans and greens helps cholesterol",
		},
	},
	{
		[]string{"balance", "balanced", "general", "overall"},
		"balanced meals",
		[]string{
			"Aim for a protein, a whole grain and a vegetable each meal",
			"Eat a variety of colours across the week",
			"Treats are fine, consistency matters more than perfection",
		},
	},
}

func matchHealthyTopic(text string) (label string, tips []string) {
	lower := strings.ToLower(text)
	for _, topic := range healthyTips {
		for _, kw := range topic.keywords {
			if strings.Contains(lower, kw) {
				return topic.label, topic.tips
			}
		}
	}
	last := healthyTips[len(healthyTips)-1]
	return last.label, last.tips
}

// handleHealthyFlow 先給主題建議，再視需求附上三道均衡食譜
func (s *Service) handleHealthyFlow(ctx context.Context, message string, convo *Context) *Result {
	flow := convo.Flow

	switch flow.SubState {
	case stateAwaitingTopic:
		label, tips := matchHealthyTopic(message)
		flow.SubState = stateAwaitingTips

		var b strings.Builder
		fmt.Fprintf(&b, "Here are my top tips for %s: 🌱\n", label)
		guidance := s.flowChat(ctx, convo, fmt.Sprintf(
			"Give three short, practical food swaps or tips for someone focused on %s", label))
		if guidance != "" {
			b.WriteString(guidance)
			b.WriteString("\n")
		} else {
			for i, tip := range tips {
				fmt.Fprintf(&b, "%d. %s\n", i+1, tip)
			}
		}
		b.WriteString("\nWould you like 3 balanced recipes to match? (yes/no)")
		return &Result{Reply: b.String()}

	case stateAwaitingTips:
		convo.Flow = nil
		if !yesPattern.MatchString(message) {
			return &Result{Reply: "Sounds good! Come back anytime you want healthy recipe ideas. 🌿"}
		}
		picked := s.flowSuggest(ctx, convo, "3 balanced, healthy recipes", 3)
		if len(picked) == 0 {
			picked = RankRecipes(message, s.catalog.Recipes, convo, RankOptions{QueryForScoring: "healthy light balanced"})
		}
		picks := EnrichRecipes(limitRecipes(picked, 3), s.catalog.Products)
		for i := range picks {
			convo.MarkSeen(picks[i].Name)
		}
		convo.AllSuggested = mergeRecipeHistory(convo.AllSuggested, picks)
		return &Result{
			Reply:   "Here are 3 balanced picks to get you started: 🌱",
			Recipes: picks,
		}
	}

	convo.Flow = nil
	return &Result{Reply: "Let's start fresh. What would you like to do?"}
}
