package chat

import (
	"context"
	"fmt"
	"regexp"
	"strconv"
	"strings"
)

var (
	metricHeightPattern   = regexp.MustCompile(`(\d+(?:\.\d+)?)\s*(?:cm|centimeters?|centimetres?)`)
	metricWeightPattern   = regexp.MustCompile(`(\d+(?:\.\d+)?)\s*(?:kg|kgs|kilograms?|kilos?)`)
	imperialHeightPattern = regexp.MustCompile(`(\d+)\s*(?:feet|foot|ft|')\s*(\d+(?:\.\d+)?)?\s*(?:inches|inch|in|")?`)
	imperialWeightPattern = regexp.MustCompile(`(\d+(?:\.\d+)?)\s*(?:pounds?|lbs?)`)
	bareNumberPattern     = regexp.MustCompile(`\d+(?:\.\d+)?`)
)

// parseMeasurements 解析身高體重，回傳公分與公斤
func parseMeasurements(text string) (heightCM, weightKG float64, ok bool) {
	lower := strings.ToLower(text)

	if m := metricHeightPattern.FindStringSubmatch(lower); m != nil {
		heightCM, _ = strconv.ParseFloat(m[1], 64)
	} else if m := imperialHeightPattern.FindStringSubmatch(lower); m != nil {
		feet, _ := strconv.ParseFloat(m[1], 64)
		inches := 0.0
		if m[2] != "" {
			inches, _ = strconv.ParseFloat(m[2], 64)
		}
		heightCM = feet*30.48 + inches*2.54
	}

	if m := metricWeightPattern.FindStringSubmatch(lower); m != nil {
		weightKG, _ = strconv.ParseFloat(m[1], 64)
	} else if m := imperialWeightPattern.FindStringSubmatch(lower); m != nil {
		lbs, _ := strconv.ParseFloat(m[1], 64)
		weightKG = lbs * 0.453592
	}

	// 沒有單位時用範圍猜測，第一個數字當身高第二個當體重
	if heightCM == 0 || weightKG == 0 {
		nums := bareNumberPattern.FindAllString(lower, -1)
		if len(nums) >= 2 {
			a, _ := strconv.ParseFloat(nums[0], 64)
			b, _ := strconv.ParseFloat(nums[1], 64)
			if heightCM == 0 {
				switch {
				case a >= 100 && a <= 250:
					heightCM = a
				case a >= 3 && a < 8:
					heightCM = a * 30.48
				}
			}
			if weightKG == 0 {
				switch {
				case b >= 30 && b <= 200:
					weightKG = b
				case b > 200 && b <= 450:
					weightKG = b * 0.453592
				}
			}
		}
	}

	if heightCM < 50 || heightCM > 280 || weightKG < 20 || weightKG > 400 {
		return 0, 0, false
	}
	return heightCM, weightKG, true
}

func bmiCategory(bmi float64) string {
	switch {
	case bmi < 18.5:
		return "underweight"
	case bmi < 25:
		return "in the normal range"
	case bmi < 30:
		return "overweight"
	default:
		return "in the obese range"
	}
}

var activityMultipliers = []struct {
	keywords   []string
	multiplier float64
	label      string
}{
	{[]string{"sedentary", "none", "1"}, 1.2, "sedentary"},
	{[]string{"light", "2"}, 1.375, "lightly active"},
	{[]string{"moderate", "3"}, 1.55, "moderately active"},
	{[]string{"very", "4"}, 1.725, "very active"},
	{[]string{"extreme", "athlete", "5"}, 1.9, "extremely active"},
}

func parseActivity(text string) (float64, string, bool) {
	lower := strings.ToLower(strings.TrimSpace(text))
	for _, level := range activityMultipliers {
		for _, kw := range level.keywords {
			if strings.Contains(lower, kw) {
				return level.multiplier, level.label, true
			}
		}
	}
	return 0, "", false
}

// handleNutritionFlow 四階段：量測、是否算巨量營養素、活動量、是否要配套食譜
func (s *Service) handleNutritionFlow(ctx context.Context, message string, convo *Context) *Result {
	flow := convo.Flow

	switch flow.SubState {
	case stateAwaitingMeasurements:
		h, w, ok := parseMeasurements(message)
		if !ok {
			return &Result{Reply: "Hmm, I couldn't quite understand those measurements. 🤔 Try something like \"170 cm, 70 kg\" or \"5 feet 7 inches, 150 pounds\"."}
		}
		bmi := w / ((h / 100) * (h / 100))
		flow.SubState = stateAwaitingMacroDecision
		flow.Data.Nutrition = &NutritionData{HeightCM: h, WeightKG: w, BMI: bmi}
		return &Result{Reply: fmt.Sprintf(
			"Got it! 📏 Your BMI is %.1f, which is %s.\n\nWant me to work out your daily calories and macros too? (yes/no)",
			bmi, bmiCategory(bmi))}

	case stateAwaitingMacroDecision:
		data := flow.Data.Nutrition
		if data == nil {
			convo.Flow = nil
			return &Result{Reply: "Let's start over. Type __NUTRITION_START__ to begin again."}
		}
		if !yesPattern.MatchString(message) {
			convo.Flow = nil
			return &Result{Reply: fmt.Sprintf(
				"No problem! A BMI of %.1f is all you need for now. Come back anytime for the full calorie breakdown. 🌿", data.BMI)}
		}
		flow.SubState = stateAwaitingActivity
		return &Result{Reply: "Great! How active are you?\n1. Sedentary (little or no exercise)\n2. Lightly active (1-3 days a week)\n3. Moderately active (3-5 days a week)\n4. Very active (6-7 days a week)\n5. Extremely active (physical job or athlete)"}

	case stateAwaitingActivity:
		data := flow.Data.Nutrition
		if data == nil {
			convo.Flow = nil
			return &Result{Reply: "Let's start over. Type __NUTRITION_START__ to begin again."}
		}
		mult, label, ok := parseActivity(message)
		if !ok {
			return &Result{Reply: "I couldn't quite understand that activity level. Pick a number from 1 to 5, or say something like \"moderate\" or \"very active\"."}
		}
		// Mifflin-St Jeor，固定 30 歲男性基準
		bmr := 10*data.WeightKG + 6.25*data.HeightCM - 5*30 + 5
		tdee := bmr * mult
		data.TDEE = tdee
		flow.SubState = stateAwaitingRecipeDecision

		proteinG := tdee * 0.30 / 4
		carbsG := tdee * 0.35 / 4
		fatG := tdee * 0.35 / 9
		return &Result{Reply: fmt.Sprintf(
			"Here's your daily breakdown as someone %s: 🔥\n\n• Maintenance calories: ~%.0f kcal/day\n• Protein: ~%.0fg (30%%)\n• Carbs: ~%.0fg (35%%)\n• Fat: ~%.0fg (35%%)\n\nWant recipe ideas that fit these numbers? (yes/no)",
			label, tdee, proteinG, carbsG, fatG)}

	case stateAwaitingRecipeDecision:
		data := flow.Data.Nutrition
		convo.Flow = nil
		if data == nil || !yesPattern.MatchString(message) {
			return &Result{Reply: "Sounds good! Come back whenever you want meal ideas to match your numbers. 🌿"}
		}

		perMeal := data.TDEE / 3
		request := fmt.Sprintf("Healthy recipes around %.0f kcal per meal with plenty of protein", perMeal)
		recipes := s.flowSuggest(ctx, convo, request, 3)
		if len(recipes) == 0 {
			recipes = RankRecipes(request, s.catalog.Recipes, convo, RankOptions{QueryForScoring: "healthy light balanced"})
		}
		picks := EnrichRecipes(limitRecipes(recipes, 3), s.catalog.Products)
		for i := range picks {
			convo.MarkSeen(picks[i].Name)
		}
		convo.AllSuggested = mergeRecipeHistory(convo.AllSuggested, picks)
		return &Result{
			Reply:   fmt.Sprintf("Here are picks that sit around %.0f kcal per meal: 🔥", perMeal),
			Recipes: picks,
		}
	}

	convo.Flow = nil
	return &Result{Reply: "Let's start fresh. What would you like to do?"}
}
