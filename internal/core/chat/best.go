package chat

import (
	"fmt"
	"math"
	"strings"
)

var mealTypeHints = map[string][]string{
	"breakfast": {"egg", "omelette", "yogurt", "smoothie", "parfait"},
	"lunch":     {"sandwich", "salad", "bowl", "wrap", "taco"},
	"dinner":    {"chicken", "fish", "pasta", "beef", "stew", "salmon", "stir"},
}

// recipeText 組合名稱與食材的比對文字
func recipeText(r *EnrichedRecipe) string {
	parts := []string{strings.ToLower(r.Name)}
	for _, ing := range r.Ingredients {
		parts = append(parts, strings.ToLower(ing.Name))
	}
	return strings.Join(parts, " ")
}

// availabilityRatio 食材在目錄中的命中比例
func availabilityRatio(r *EnrichedRecipe) float64 {
	total := len(r.Ingredients)
	if total == 0 {
		total = 1
	}
	found := 0
	for _, ing := range r.Ingredients {
		if ing.Found {
			found++
		}
	}
	return float64(found) / float64(total)
}

// scoreBestCandidate 對單一候選計算挑選分數
// 與查詢排名是兩套獨立權重：這裡著重可得性與個人偏好，而非關鍵字相關度
func scoreBestCandidate(r *EnrichedRecipe, sig Signals) float64 {
	score := availabilityRatio(r) * 100
	text := recipeText(r)

	if sig.WantsQuick {
		if r.StepCount() <= 4 {
			score += 40
		}
		if countHintMatches(text, quickHints) > 0 {
			score += 30
		}
	}

	if sig.WantsHealthy && countHintMatches(text, healthyHints) > 0 {
		score += 30
	}

	if sig.WantsBudget {
		est := estimateFirstMatchCost(r)
		score += math.Max(0, 60-math.Min(60, est))
	}

	if mt := sig.FocusMealType; mt != "" {
		if mt == "dessert" && countHintMatches(text, []string{"dessert", "sweet", "banana", "chocolate", "parfait", "ice cream"}) > 0 {
			score += 25
		}
		if countHintMatches(text, mealTypeHints[mt]) > 0 {
			score += 25
		}
	}

	for _, fav := range sig.Preferences {
		if fav != "" && strings.Contains(text, strings.ToLower(fav)) {
			score += 20
		}
	}
	for _, avoid := range sig.AvoidedIngredients {
		if avoid != "" && strings.Contains(text, strings.ToLower(avoid)) {
			score -= 50
		}
	}

	return score
}

// estimateFirstMatchCost 以命中商品的價格粗估成本
func estimateFirstMatchCost(r *EnrichedRecipe) float64 {
	sum := 0.0
	for _, ing := range r.Ingredients {
		if ing.Found && isFinite(ing.Price) {
			sum += ing.Price
		}
	}
	return sum
}

// ChooseBestRecipe 從候選中挑出最符合對話脈絡的一道，同分保留先出現者
func ChooseBestRecipe(candidates []EnrichedRecipe, sig Signals) *EnrichedRecipe {
	if len(candidates) == 0 {
		return nil
	}
	best := &candidates[0]
	bestScore := math.Inf(-1)
	for i := range candidates {
		if s := scoreBestCandidate(&candidates[i], sig); s > bestScore {
			best = &candidates[i]
			bestScore = s
		}
	}
	return best
}

// ExplainBestChoice 以挑選時的訊號組出簡短理由，最多三項特質
func ExplainBestChoice(r *EnrichedRecipe, sig Signals) string {
	if r == nil {
		return ""
	}
	var traits []string

	if availabilityRatio(r) >= 0.6 {
		traits = append(traits, "uses ingredients that are available")
	}

	name := strings.ToLower(r.Name)
	isQuick := r.StepCount() <= 4 || countHintMatches(name, []string{"quick", "easy", "simple", "stir", "salad", "bowl", "wrap", "tacos", "omelette", "parfait", "sandwich"}) > 0
	if sig.WantsQuick && isQuick {
		traits = append(traits, "is quick to make")
	}

	if sig.WantsHealthy && countHintMatches(recipeText(r), healthyHints) > 0 {
		traits = append(traits, "leans healthy")
	}

	if sig.WantsBudget {
		if est := estimateFirstMatchCost(r); est > 0 {
			traits = append(traits, fmt.Sprintf("is budget-friendly (~$%d total)", int(math.Round(est))))
		} else {
			traits = append(traits, "keeps costs reasonable")
		}
	}

	if sig.FocusMealType != "" {
		traits = append(traits, fmt.Sprintf("fits %s", sig.FocusMealType))
	}

	if len(traits) == 0 {
		return ""
	}
	if len(traits) > 3 {
		traits = traits[:3]
	}
	if len(traits) == 1 {
		return "because it " + traits[0]
	}
	return "because it " + strings.Join(traits[:len(traits)-1], ", ") + " and " + traits[len(traits)-1]
}
