package chat

import (
	"regexp"
	"strconv"
	"strings"
)

// Signals 從近期對話歷史萃取出的偏好訊號
type Signals struct {
	LastCuisineType    string
	TimeOfDay          string
	Preferences        []string
	AvoidedIngredients []string
	GuestCount         int
	DietaryLimits      []string
	WantsQuick         bool
	WantsBudget        bool
	WantsHealthy       bool
	TimeLimitMinutes   int
	FocusMealType      string
}

var cuisineKeywords = map[string][]string{
	"italian":       {"italian", "pasta", "pizza", "risotto"},
	"mexican":       {"mexican", "taco", "burrito", "quesadilla", "enchilada"},
	"asian":         {"asian", "stir fry", "stir-fry", "wok"},
	"chinese":       {"chinese", "fried rice", "lo mein"},
	"japanese":      {"japanese", "sushi", "ramen", "teriyaki"},
	"indian":        {"indian", "curry", "tikka", "masala"},
	"american":      {"american", "burger", "bbq", "barbecue"},
	"mediterranean": {"mediterranean", "greek", "falafel", "hummus"},
}

// 固定順序走訪，避免 map 迭代順序造成同訊息不同結果
var cuisineOrder = []string{"italian", "mexican", "asian", "chinese", "japanese", "indian", "american", "mediterranean"}

// ExtractCuisine 從訊息偵測菜系
func ExtractCuisine(msg string) string {
	for _, cuisine := range cuisineOrder {
		for _, kw := range cuisineKeywords[cuisine] {
			if strings.Contains(msg, kw) {
				return cuisine
			}
		}
	}
	return ""
}

// ExtractMealTime 從訊息偵測餐期
func ExtractMealTime(msg string) string {
	switch {
	case strings.Contains(msg, "breakfast") || strings.Contains(msg, "morning"):
		return "breakfast"
	case strings.Contains(msg, "lunch") || strings.Contains(msg, "noon"):
		return "lunch"
	case strings.Contains(msg, "dinner") || strings.Contains(msg, "evening"):
		return "dinner"
	case strings.Contains(msg, "snack") || strings.Contains(msg, "appetizer"):
		return "snack"
	case strings.Contains(msg, "dessert") || strings.Contains(msg, "sweet"):
		return "dessert"
	}
	return ""
}

var (
	likePattern       = regexp.MustCompile(`(?:^|\s)(love|like|enjoy)s?\s+([a-z]+)`)
	noPattern         = regexp.MustCompile(`no\s+([a-z\s]+?)(?:,|\.|$)`)
	dislikePattern    = regexp.MustCompile(`(?:don't like|dislike|allergic to)\s+([a-z\s]+?)(?:,|\.|$)`)
	guestPattern      = regexp.MustCompile(`(\d+)\s+(?:people|persons|guests?|friends?|serve|servings?)`)
	timeLimitPattern  = regexp.MustCompile(`(?:under|in)\s*(\d{1,3})\s*(?:min|mins|minutes)`)
	wantsQuickPattern = regexp.MustCompile(`quick|fast|easy|under\s*\d+\s*min`)
	wantsCheapPattern = regexp.MustCompile(`cheap|budget|affordable|inexpensive|low cost|low-cost`)
	wantsLightPattern = regexp.MustCompile(`healthy|diet|light|low calorie|low-calorie|nutritious`)
)

// AnalyzeConversation 掃描最近的使用者訊息，彙整偏好訊號
// 只看最後 10 則使用者訊息，後出現的菜系/餐期覆蓋先前的
func AnalyzeConversation(ctx *Context) Signals {
	var sig Signals
	if ctx == nil || len(ctx.Messages) == 0 {
		return sig
	}

	var recent []string
	start := len(ctx.Messages) - 10
	if start < 0 {
		start = 0
	}
	for _, m := range ctx.Messages[start:] {
		if m.From == "user" {
			recent = append(recent, strings.ToLower(m.Text))
		}
	}

	for _, text := range recent {
		if cuisine := ExtractCuisine(text); cuisine != "" {
			sig.LastCuisineType = cuisine
		}
		if mealTime := ExtractMealTime(text); mealTime != "" {
			sig.TimeOfDay = mealTime
			if sig.FocusMealType == "" {
				sig.FocusMealType = mealTime
			}
		}

		// 喜好：love/like/enjoy 後的第一個字
		if m := likePattern.FindStringSubmatch(text); m != nil {
			sig.Preferences = append(sig.Preferences, m[2])
		}

		// 迴避："no onions"、"don't like mushrooms"、"allergic to nuts"
		if m := noPattern.FindStringSubmatch(text); m != nil {
			sig.AvoidedIngredients = append(sig.AvoidedIngredients, splitAvoidList(m[1])...)
		}
		if m := dislikePattern.FindStringSubmatch(text); m != nil {
			sig.AvoidedIngredients = append(sig.AvoidedIngredients, splitAvoidList(m[1])...)
		}

		if m := guestPattern.FindStringSubmatch(text); m != nil {
			if n, err := strconv.Atoi(m[1]); err == nil {
				sig.GuestCount = n
			}
		}

		if strings.Contains(text, "vegetarian") || strings.Contains(text, "vegan") {
			sig.DietaryLimits = append(sig.DietaryLimits, "vegetarian")
		}
		if strings.Contains(text, "gluten free") || strings.Contains(text, "gluten-free") {
			sig.DietaryLimits = append(sig.DietaryLimits, "gluten-free")
		}

		if m := timeLimitPattern.FindStringSubmatch(text); m != nil {
			if n, err := strconv.Atoi(m[1]); err == nil {
				if n > 180 {
					n = 180
				}
				sig.TimeLimitMinutes = n
			}
		}

		if wantsQuickPattern.MatchString(text) {
			sig.WantsQuick = true
		}
		if wantsCheapPattern.MatchString(text) {
			sig.WantsBudget = true
		}
		if wantsLightPattern.MatchString(text) {
			sig.WantsHealthy = true
		}
	}

	return sig
}

func splitAvoidList(raw string) []string {
	var out []string
	for _, part := range regexp.MustCompile(`\s+and\s+|,|\s+`).Split(raw, -1) {
		if p := strings.TrimSpace(part); p != "" {
			out = append(out, p)
		}
	}
	return out
}

var countPattern = regexp.MustCompile(`\b(\d+|one|two|three|four|five|six|seven|eight|nine|ten)\b`)

var numberWords = map[string]int{
	"one": 1, "two": 2, "three": 3, "four": 4, "five": 5,
	"six": 6, "seven": 7, "eight": 8, "nine": 9, "ten": 10,
}

// parseRequestedCount 解析請求的食譜數量，預設 3，上限 10
// 第二回傳值代表訊息中是否帶有明確數量
func parseRequestedCount(msg string) (int, bool) {
	m := countPattern.FindStringSubmatch(strings.ToLower(msg))
	if m == nil {
		return 3, false
	}
	if n, ok := numberWords[m[1]]; ok {
		return n, true
	}
	n, err := strconv.Atoi(m[1])
	if err != nil {
		return 3, false
	}
	if n > 10 {
		n = 10
	}
	if n < 1 {
		n = 1
	}
	return n, true
}
