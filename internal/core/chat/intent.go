package chat

import (
	"regexp"
	"strings"
)

// Intent 一則訊息的意圖分類
type Intent int

const (
	// IntentConversation 開放式對話，交給語言後端
	IntentConversation Intent = iota
	// IntentFlowTrigger 引導式流程觸發
	IntentFlowTrigger
	// IntentShoppingAction 購物清單操作
	IntentShoppingAction
	// IntentSelection 從近期建議中挑最佳的一道
	IntentSelection
	// IntentProductQuery 商品目錄查詢
	IntentProductQuery
	// IntentProductFollowUp 以代名詞承接上一次商品查詢
	IntentProductFollowUp
)

// Classification 分類結果
type Classification struct {
	Intent Intent
	// Flow 僅在 IntentFlowTrigger 時有值
	Flow FlowKind
}

// Classifier 意圖分類器，可替換為模型式實作
type Classifier interface {
	Classify(text string, ctx *Context) Classification
}

// 流程觸發 token 對應表，由前端按鈕送出
var flowTriggers = map[string]FlowKind{
	"__NUTRITION_START__":  FlowNutrition,
	"__BUDGET_START__":     FlowBudget,
	"__TIME_START__":       FlowTime,
	"__PANTRY_START__":     FlowPantry,
	"__MEAL_PREP_START__":  FlowMealPrep,
	"__HEALTHY_START__":    FlowHealthy,
	"__DAILY_MENU_START__": FlowDailyMenu,
}

var (
	shoppingActionPattern = regexp.MustCompile(`(?i)add( to)? shopping|add( to)? list|shopping list|cart|buy|purchase|add ingredients`)
	listQueryPattern      = regexp.MustCompile(`(?i)what('s| is) (in|on) my (shopping )?list|show (me )?(my )?(shopping )?list`)
	selectionPattern      = regexp.MustCompile(`(?i)which\s+is\s+(the\s+)?best|which\s+one\s+is\s+best|best\s+one|best\s+recipe|pick\s+one|choose\s+one|recommend\s+one|top\s+choice|favorite|favourite`)

	productQueryPattern    = regexp.MustCompile(`(?i)\b(do you (have|carry|sell|stock)|how much (is|are|does)|price of|what('s| is) the price|cost of|in stock|products?)\b`)
	productFollowUpPattern = regexp.MustCompile(`(?i)\b(they|them|those|these|it)\b.*\b(price|cost|much|cheap)|\b(price|cost|much|cheap)\b.*\b(they|them|those|these|it)\b|what about the price`)
	productSortPattern     = regexp.MustCompile(`(?i)cheapest|sort(ed)? by price|lowest price|by price`)

	formattingRequestPattern  = regexp.MustCompile(`(?i)\b(give|show|create|make|format)\b[^\n]*\b(the\s+)?(recipe|card|these|those|them)\b`)
	formattingReferentPattern = regexp.MustCompile(`(?i)\b(of\s+)?(these|those|them|that|the\s+ones?)\b`)

	morePattern = regexp.MustCompile(`(?i)^\s*(more|show me more|give me more)\s*$`)

	llmWantsRecipesPattern = regexp.MustCompile(`(?i)here are (\d+|some|several) recipes?|i('ll| will) suggest|let me recommend|i found|i('ve| have) got.*recipes?`)
	jsonArtifactPattern    = regexp.MustCompile(`(?is)[\{\[].*"(recipe_name|name|ingredients)".*[\}\]]`)

	explicitCardPatterns = []*regexp.Regexp{
		regexp.MustCompile(`(?i)\b(give|show|suggest|find|recommend|list|generate|create)\b[^\n]*\b(recipes?|recipe\s+ideas?|recipe\s+suggestions?)\b`),
		regexp.MustCompile(`(?i)\b(more|other|another|additional|new|few)\b[^\n]*\b(recipes?|recipe\s+ideas?|recipe\s+suggestions?)\b`),
		regexp.MustCompile(`(?i)\b(recipes?|dishes?|meals?)\b[^\n]*\b(with|using|for|that\s+use|based\s+on|containing|include|featuring)\b`),
		regexp.MustCompile(`(?i)^\s*more(\s+recipes?)?\s*$`),
		regexp.MustCompile(`(?i)\b(give|show)\s+me\b[^\n]*\b(for|but|in|as|with)\b[^\n]*(mexican|italian|chinese|indian|thai|french|greek|japanese|korean|spanish|mediterranean|asian|european|latin|american|southern|cajun|style|dish|version|variant)`),
		regexp.MustCompile(`(?i)\b(what\s+(can|should)\s+i\s+(make|cook)|help\s+me\s+(plan|make|cook)|ideas?\s+for)\b`),
	}

	proteinMentionPattern = regexp.MustCompile(`(?i)chicken|beef|pork|fish|salmon|tuna|shrimp|turkey|tofu|eggs?|yogurt|lamb`)
	dishWordPattern       = regexp.MustCompile(`(?i)dish(es)?|meals?|recipes?`)
	proteinContextPattern = regexp.MustCompile(`with|using|containing|include|make|cook`)
	themedRequestPatterns = []*regexp.Regexp{
		regexp.MustCompile(`(?i)(halloween|christmas|thanksgiving|easter|valentine|romantic|spooky|scary|festive|party|celebration|birthday|anniversary|themed|creative|fancy|gourmet|fusion|unique|unusual|weird|fun)\s+(recipe|dish|meal|food|idea)`),
		regexp.MustCompile(`(?i)(recipe|dish|meal|food|idea)\s+(for|themed|style)\s+(halloween|christmas|thanksgiving|easter|valentine|party|celebration|birthday|anniversary)`),
	}
	groundedModePattern = regexp.MustCompile(`(?i)(only\s+(use\s+)?(store|catalog|available|in\s+stock|my\s+list|product)s?)|(use\s+only\s+(what|ingredients)\s+(i\s+have|we\s+carry))|\bgrounded\b|\bonly\s+from\s+(the\s+)?catalog\b`)
)

// regexClassifier 以正規表達式實作的啟發式分類器
type regexClassifier struct{}

// NewClassifier 建立預設的正規表達式分類器
func NewClassifier() Classifier {
	return regexClassifier{}
}

// Classify 依優先序判斷意圖，先命中者為準
func (regexClassifier) Classify(text string, ctx *Context) Classification {
	trimmed := strings.TrimSpace(text)

	if kind, ok := flowTriggers[trimmed]; ok {
		return Classification{Intent: IntentFlowTrigger, Flow: kind}
	}
	if shoppingActionPattern.MatchString(text) || listQueryPattern.MatchString(text) {
		return Classification{Intent: IntentShoppingAction}
	}
	if selectionPattern.MatchString(text) {
		return Classification{Intent: IntentSelection}
	}
	if ctx != nil && ctx.LastProductQuery != "" && productFollowUpPattern.MatchString(text) {
		return Classification{Intent: IntentProductFollowUp}
	}
	if productQueryPattern.MatchString(text) && !dishWordPattern.MatchString(text) {
		return Classification{Intent: IntentProductQuery}
	}
	return Classification{Intent: IntentConversation}
}

// FlowTriggerFor 查詢訊息是否為流程觸發 token
func FlowTriggerFor(text string) (FlowKind, bool) {
	kind, ok := flowTriggers[strings.TrimSpace(text)]
	return kind, ok
}

// isMoreRequest 是否為單純的「再多一些」訊息
func isMoreRequest(text string) bool {
	return morePattern.MatchString(text)
}

// isFormattingRequest 是否要求把先前提過的食譜整理成卡片
func isFormattingRequest(text string) bool {
	return formattingRequestPattern.MatchString(text) && formattingReferentPattern.MatchString(text)
}

// isThemedRequest 是否為主題式/創意請求，這類請求不退回目錄排名
func isThemedRequest(text string) bool {
	for _, p := range themedRequestPatterns {
		if p.MatchString(text) {
			return true
		}
	}
	return false
}

// isGroundedRequest 是否要求只用目錄內的商品
func isGroundedRequest(text string) bool {
	return groundedModePattern.MatchString(text)
}

// llmReplyWantsRecipes 語言後端的回覆是否表示要附上食譜卡
func llmReplyWantsRecipes(reply string) bool {
	return llmWantsRecipesPattern.MatchString(reply)
}

// hasJSONArtifacts 文字中是否殘留食譜形狀的 JSON
func hasJSONArtifacts(text string) bool {
	return jsonArtifactPattern.MatchString(text)
}

// userAsksForRecipeCards 使用者是否明確要求食譜卡
func userAsksForRecipeCards(text string) bool {
	for _, p := range explicitCardPatterns {
		if p.MatchString(text) {
			return true
		}
	}
	return false
}

// likelyRecipeIntent 菜系或蛋白質搭配菜餚用語時，推定為食譜卡意圖
func likelyRecipeIntent(text string) bool {
	lower := strings.ToLower(text)
	mentionsCuisine := ExtractCuisine(lower) != ""
	mentionsProtein := proteinMentionPattern.MatchString(lower)
	mentionsDishWord := dishWordPattern.MatchString(lower)
	return (mentionsCuisine && (mentionsProtein || mentionsDishWord)) ||
		(mentionsProtein && proteinContextPattern.MatchString(lower))
}
