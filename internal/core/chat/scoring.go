package chat

import (
	"sort"
	"strings"

	"grocery-assistant/internal/core/catalog"
)

// 新查詢的最低採納分數
const freshQueryScoreFloor = 50

// 各情境的提示字組
var (
	quickHints     = []string{"omelette", "stir", "smoothie", "parfait", "sandwich", "tacos", "bowl", "salad", "pizza", "wrap"}
	healthyHints   = []string{"salad", "quinoa", "spinach", "tofu", "yogurt", "berries", "banana", "veggie", "fish", "salmon", "parfait"}
	romanticHints  = []string{"salmon", "pasta", "parmesan", "quinoa", "elegant", "gourmet"}
	partyHints     = []string{"tacos", "sandwich", "bowl", "appetizer", "finger"}
	comfortHints   = []string{"stew", "pasta", "beef", "potato", "cheese"}
	breakfastHints = []string{"egg", "omelette", "yogurt", "smoothie", "parfait"}
	lunchHints     = []string{"sandwich", "salad", "bowl", "taco"}
	dinnerHints    = []string{"chicken", "fish", "pasta", "beef", "stew", "salmon", "stir"}
	dessertHints   = []string{"yogurt", "parfait", "smoothie", "berries", "honey", "banana", "ice cream", "chocolate"}
)

var proteinKeywords = map[string][]string{
	"chicken": {"chicken"},
	"beef":    {"beef"},
	"fish":    {"fish", "salmon"},
	"salmon":  {"salmon"},
	"shrimp":  {"shrimp"},
	"turkey":  {"turkey"},
	"tofu":    {"tofu"},
	"yogurt":  {"yogurt"},
	"egg":     {"egg"},
}

var cuisineScoringHints = map[string][]string{
	"italian":       {"pasta", "marinara", "parmesan", "spaghetti"},
	"mexican":       {"taco", "tortilla"},
	"asian":         {"soy", "rice", "stir"},
	"mediterranean": {"quinoa", "salmon", "olive"},
}

// RankOptions 排名選項
type RankOptions struct {
	// TreatAsMore 視為「再多一些」請求，排除已看過的食譜
	TreatAsMore bool
	// QueryForScoring 計分時改用的查詢（more 時帶入上一次的實際查詢）
	QueryForScoring string
}

func countHintMatches(text string, hints []string) int {
	count := 0
	for _, h := range hints {
		if strings.Contains(text, h) {
			count++
		}
	}
	return count
}

// scoreRecipe 對單一食譜計算查詢相關度分數
func scoreRecipe(r *catalog.Recipe, tokens []string, scoringMsg, rawMsg string, seen bool) int {
	score := 0
	name := strings.ToLower(r.Name)
	var ingredientNames []string
	for _, ing := range r.Ingredients {
		ingredientNames = append(ingredientNames, strings.ToLower(ing.Name))
	}
	allText := name + " " + strings.Join(ingredientNames, " ")

	// 名稱命中權重最高
	for _, tk := range tokens {
		if containsWord(name, tk) {
			score += 100
		} else if strings.Contains(name, tk) {
			score += 60
		}
	}

	// 食材命中次之
	for _, ing := range ingredientNames {
		for _, tk := range tokens {
			if containsWord(ing, tk) {
				score += 80
			} else if strings.Contains(ing, tk) {
				score += 50
			}
		}
	}

	// 情境加權
	if strings.Contains(scoringMsg, "quick") || strings.Contains(scoringMsg, "easy") || strings.Contains(scoringMsg, "fast") || strings.Contains(scoringMsg, "simple") {
		score += countHintMatches(allText, quickHints) * 60
	}
	if strings.Contains(scoringMsg, "healthy") || strings.Contains(scoringMsg, "diet") || strings.Contains(scoringMsg, "nutritious") || strings.Contains(scoringMsg, "light") || strings.Contains(scoringMsg, "fitness") {
		score += countHintMatches(allText, healthyHints) * 60
	}
	if strings.Contains(scoringMsg, "girlfriend") || strings.Contains(scoringMsg, "date") || strings.Contains(scoringMsg, "romantic") || strings.Contains(scoringMsg, "special") || strings.Contains(scoringMsg, "impress") || strings.Contains(scoringMsg, "fancy") {
		score += countHintMatches(allText, romanticHints) * 70
	}
	if strings.Contains(scoringMsg, "party") || strings.Contains(scoringMsg, "guests") || strings.Contains(scoringMsg, "gathering") || strings.Contains(scoringMsg, "crowd") || strings.Contains(scoringMsg, "friends") {
		score += countHintMatches(allText, partyHints) * 60
	}
	if strings.Contains(scoringMsg, "comfort") || strings.Contains(scoringMsg, "cozy") || strings.Contains(scoringMsg, "warm") || strings.Contains(scoringMsg, "hearty") {
		score += countHintMatches(allText, comfortHints) * 60
	}

	// 餐期加權
	if strings.Contains(scoringMsg, "breakfast") || strings.Contains(scoringMsg, "morning") {
		score += countHintMatches(allText, breakfastHints) * 70
	}
	if strings.Contains(scoringMsg, "lunch") {
		score += countHintMatches(allText, lunchHints) * 70
	}
	if strings.Contains(scoringMsg, "dinner") || strings.Contains(scoringMsg, "evening") || strings.Contains(scoringMsg, "supper") {
		score += countHintMatches(allText, dinnerHints) * 70
	}
	if strings.Contains(scoringMsg, "dessert") || strings.Contains(scoringMsg, "desert") || strings.Contains(scoringMsg, "sweet") || strings.Contains(scoringMsg, "treat") {
		score += countHintMatches(allText, dessertHints) * 80
	}

	// 明確指定蛋白質時大幅加權
	for protein, keywords := range proteinKeywords {
		if !strings.Contains(rawMsg, protein) {
			continue
		}
		for _, kw := range keywords {
			if strings.Contains(allText, kw) {
				score += 120
				break
			}
		}
	}

	// 菜系加權
	if cuisine := ExtractCuisine(scoringMsg); cuisine != "" {
		score += countHintMatches(allText, cuisineScoringHints[cuisine]) * 80
	}

	// 已看過的給小幅懲罰但不排除
	if seen {
		score -= 15
	}

	return score
}

type scoredRecipe struct {
	recipe catalog.Recipe
	score  int
}

// RankRecipes 依查詢與對話脈絡對目錄排名，回傳建議清單
// more 請求限定未看過的食譜，分數低於動態門檻者剔除；全數剔除時回傳空清單表示已出盡
func RankRecipes(message string, recipes []catalog.Recipe, ctx *Context, opts RankOptions) []catalog.Recipe {
	msg := strings.ToLower(message)
	scoringMsg := msg
	if opts.QueryForScoring != "" {
		scoringMsg = strings.ToLower(opts.QueryForScoring)
	}

	requestedCount, hasExplicitCount := parseRequestedCount(msg)

	isMore := opts.TreatAsMore || strings.TrimSpace(msg) == "more" ||
		strings.Contains(msg, "show me more") || strings.Contains(msg, "give me more")

	seen := func(name string) bool {
		return ctx != nil && ctx.HasSeen(name)
	}

	// more 模式只考慮沒看過的
	candidates := recipes
	if isMore {
		candidates = nil
		for _, r := range recipes {
			if !seen(r.Name) {
				candidates = append(candidates, r)
			}
		}
	}

	tokens := tokenizeQuery(scoringMsg)

	// 沒有有效關鍵字時退回偏好食材，再退回目錄前幾筆
	if len(tokens) == 0 {
		favorites := extractFavoriteIngredients(ctx)
		if len(favorites) > 0 {
			var withFavorites []catalog.Recipe
			for _, r := range candidates {
				if recipeMentionsAny(r, favorites) {
					withFavorites = append(withFavorites, r)
				}
			}
			if len(withFavorites) > 0 {
				return limitRecipes(withFavorites, requestedCount)
			}
		}
		return limitRecipes(candidates, requestedCount)
	}

	scores := make([]scoredRecipe, 0, len(candidates))
	for _, r := range candidates {
		r := r
		scores = append(scores, scoredRecipe{
			recipe: r,
			score:  scoreRecipe(&r, tokens, scoringMsg, msg, seen(r.Name)),
		})
	}
	sort.SliceStable(scores, func(i, j int) bool { return scores[i].score > scores[j].score })

	var result []catalog.Recipe

	if isMore {
		// 依最高分設動態門檻，避免混入無關的項目
		topScore := 0
		if len(scores) > 0 {
			topScore = scores[0].score
		}
		minScore := 1
		switch {
		case topScore >= 200:
			minScore = topScore * 4 / 10
		case topScore >= 100:
			minScore = topScore / 2
		default:
			minScore = 10
		}
		for _, item := range scores {
			if len(result) >= requestedCount {
				break
			}
			if item.score >= minScore {
				result = append(result, item.recipe)
			}
		}
		if len(result) == 0 {
			// 有明確主題卻無新結果，回空清單表示已出盡
			return nil
		}
		return result
	}

	// 新查詢：先取未看過且分數達門檻的，必要時用已看過的補足
	var unseenQualified, seenQualified []scoredRecipe
	for _, item := range scores {
		if item.score < freshQueryScoreFloor {
			continue
		}
		if seen(item.recipe.Name) {
			seenQualified = append(seenQualified, item)
		} else {
			unseenQualified = append(unseenQualified, item)
		}
	}

	topScore := 0
	if len(scores) > 0 {
		topScore = scores[0].score
	}

	dynamicCount := requestedCount
	if !hasExplicitCount {
		switch {
		case topScore >= 200:
			// 高度相關時集中呈現 1-2 筆
			n := 0
			for _, item := range unseenQualified {
				if float64(item.score) >= float64(topScore)*0.7 {
					n++
				}
			}
			dynamicCount = clamp(n, 1, 2)
		case topScore >= 100:
			n := 0
			for _, item := range unseenQualified {
				if float64(item.score) >= float64(topScore)*0.6 {
					n++
				}
			}
			dynamicCount = clamp(n, 1, 3)
		default:
			dynamicCount = 3
		}
	}

	for _, item := range unseenQualified {
		if len(result) >= dynamicCount {
			break
		}
		result = append(result, item.recipe)
	}
	for _, item := range seenQualified {
		if len(result) >= dynamicCount {
			break
		}
		result = append(result, item.recipe)
	}

	if len(result) == 0 {
		// 門檻下無結果時退回最高分的項目，優先未看過的
		limit := requestedCount
		if limit > 3 {
			limit = 3
		}
		for _, item := range scores {
			if len(result) >= limit {
				break
			}
			if !seen(item.recipe.Name) {
				result = append(result, item.recipe)
			}
		}
		if len(result) == 0 {
			for _, item := range scores {
				if len(result) >= limit {
					break
				}
				result = append(result, item.recipe)
			}
		}
	}

	return result
}

// extractFavoriteIngredients 從歷史訊息找出 love/like 後面的食材字
func extractFavoriteIngredients(ctx *Context) []string {
	if ctx == nil {
		return nil
	}
	var out []string
	for _, m := range ctx.Messages {
		if m.From != "user" {
			continue
		}
		if match := likePattern.FindStringSubmatch(strings.ToLower(m.Text)); match != nil {
			out = append(out, match[2])
		}
	}
	return out
}

func recipeMentionsAny(r catalog.Recipe, terms []string) bool {
	for _, ing := range r.Ingredients {
		lower := strings.ToLower(ing.Name)
		for _, t := range terms {
			if t != "" && strings.Contains(lower, t) {
				return true
			}
		}
	}
	return false
}

func limitRecipes(recipes []catalog.Recipe, n int) []catalog.Recipe {
	if len(recipes) <= n {
		return recipes
	}
	return recipes[:n]
}

func clamp(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
