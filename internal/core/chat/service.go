package chat

import (
	"context"
	"fmt"
	"regexp"
	"strings"

	"go.uber.org/zap"

	"grocery-assistant/internal/core/budget"
	"grocery-assistant/internal/core/catalog"
	"grocery-assistant/internal/core/llm"
	"grocery-assistant/internal/pkg/common"
)

const (
	maxProductListing = 8
	// 卡片一次最多三張，超過的數量只反映在 LLM 的產出要求上
	maxRecipeCards = 3
)

var greetingPattern = regexp.MustCompile(`(?i)^\s*(hi|hello|hey|howdy|good\s+(morning|afternoon|evening))[\s!.,]*$`)

// Service 對話核心，負責意圖分派與回覆組裝
type Service struct {
	catalog    *catalog.Catalog
	backend    llm.Backend
	classifier Classifier
}

// NewService 建立對話服務，backend 可為 nil 表示僅用目錄排序
func NewService(cat *catalog.Catalog, backend llm.Backend) *Service {
	return &Service{
		catalog:    cat,
		backend:    backend,
		classifier: regexClassifier{},
	}
}

// ProcessMessage 處理一則使用者訊息，永不回傳失敗
func (s *Service) ProcessMessage(ctx context.Context, message string, convo *Context) (result *Result) {
	defer func() {
		if r := recover(); r != nil {
			common.LogError("處理訊息時發生 panic", zap.Any("error", r))
			result = &Result{Reply: "Oops, something went sideways on my end. 🌿 Mind trying that again?"}
		}
	}()

	convo.hydrate()
	message = strings.TrimSpace(message)
	if message == "" {
		return &Result{Reply: "I didn't catch that. What would you like to cook or chat about?"}
	}

	convo.Messages = append(convo.Messages, Message{From: "user", Text: message})

	if Normalize(message) == "reset" {
		*convo = *NewContext()
		result = &Result{Reply: "Done! Clean slate. 🌿 What are we cooking up today?"}
		convo.Messages = append(convo.Messages, Message{From: "bot", Text: result.Reply})
		return result
	}

	cls := s.classifier.Classify(message, convo)

	switch {
	case cls.Intent == IntentFlowTrigger:
		result = s.startFlow(ctx, cls.Flow, convo)
	case convo.Flow != nil:
		result = s.handleActiveFlow(ctx, message, convo)
	case cls.Intent == IntentShoppingAction:
		result = s.handleShoppingAction(message, convo)
	case cls.Intent == IntentSelection:
		result = s.handleSelection(ctx, message, convo)
	case cls.Intent == IntentProductFollowUp:
		result = s.handleProductFollowUp(message, convo)
	case cls.Intent == IntentProductQuery:
		result = s.handleProductQuery(message, convo)
	default:
		result = s.handleConversation(ctx, message, convo)
	}

	if result == nil {
		result = s.handleConversation(ctx, message, convo)
	}
	convo.Messages = append(convo.Messages, Message{From: "bot", Text: result.Reply})
	return result
}

// handleShoppingAction 辨識欲加入清單的食材並回報，不代管購物車
func (s *Service) handleShoppingAction(message string, convo *Context) *Result {
	if listQueryPattern.MatchString(message) {
		return s.handleListQuery(convo)
	}

	names := ParseIngredientsFromText(message, s.catalog.Products)
	if len(names) == 0 {
		names = ExtractIngredientsFromMessage(message, KnownIngredients(s.catalog.Products))
	}
	if len(names) == 0 {
		return &Result{Reply: "I couldn't match any of those to items I know. Tell me the ingredients one more time, like \"add chicken and rice\"."}
	}

	var b strings.Builder
	b.WriteString("Here's what I found for those: 🛒\n")
	for _, name := range names {
		if p := MatchProduct(name, s.catalog.Products); p != nil {
			fmt.Fprintf(&b, "• %s - $%.2f per %s\n", p.Item, p.Price, p.Unit)
		} else {
			fmt.Fprintf(&b, "• %s - not in my catalog\n", name)
		}
	}
	b.WriteString("\nI don't keep a cart for you, but feel free to jot these down!")
	return &Result{Reply: b.String()}
}

// handleListQuery 從對話歷史彙整談過的食材回答清單問題
func (s *Service) handleListQuery(convo *Context) *Result {
	recent := convo.AllSuggested
	if len(recent) > 3 {
		recent = recent[len(recent)-3:]
	}
	seen := make(map[string]struct{})
	var items []string
	for _, r := range recent {
		for _, ing := range r.Ingredients {
			key := Normalize(ing.Name)
			if _, dup := seen[key]; dup || key == "" {
				continue
			}
			seen[key] = struct{}{}
			items = append(items, ing.Name)
		}
	}
	if len(items) == 0 {
		return &Result{Reply: "I don't keep a cart for you, and we haven't talked through any recipes yet. Ask me for some ideas and I'll list what you'd need! 🌿"}
	}

	var b strings.Builder
	b.WriteString("I don't keep a cart, but from the recipes we've talked about you'd need: 📝\n")
	for _, item := range items {
		fmt.Fprintf(&b, "• %s\n", item)
	}
	return &Result{Reply: b.String()}
}

// handleSelection 從近期建議中挑出最適合的一道並說明理由
func (s *Service) handleSelection(ctx context.Context, message string, convo *Context) *Result {
	candidates := convo.AllSuggested
	if len(candidates) > 9 {
		candidates = candidates[len(candidates)-9:]
	}

	sig := AnalyzeConversation(convo)

	if len(candidates) == 0 {
		ranked := RankRecipes(message, s.catalog.Recipes, convo, RankOptions{})
		candidates = EnrichRecipes(limitRecipes(ranked, 3), s.catalog.Products)
		if len(candidates) == 0 {
			return &Result{Reply: "I haven't suggested anything yet! Ask me for some recipe ideas first, then I'll happily pick a winner. 🌿"}
		}
		convo.AllSuggested = mergeRecipeHistory(convo.AllSuggested, candidates)
		for i := range candidates {
			convo.MarkSeen(candidates[i].Name)
		}
	}

	best := ChooseBestRecipe(candidates, sig)
	if best == nil {
		return &Result{Reply: "I haven't suggested anything yet! Ask me for some recipe ideas first, then I'll happily pick a winner. 🌿"}
	}
	return &Result{
		Reply:   fmt.Sprintf("I'd pick %s - %s", best.Name, ExplainBestChoice(best, sig)),
		Recipes: []EnrichedRecipe{*best},
	}
}

// handleProductQuery 在商品目錄中搜尋並記住結果供後續排序
func (s *Service) handleProductQuery(message string, convo *Context) *Result {
	matches := SearchProducts(message, s.catalog.Products)
	if len(matches) == 0 {
		convo.LastProductQuery = ""
		convo.LastProductResults = nil
		return &Result{Reply: "I couldn't find anything matching that in my catalog. Try another ingredient or category!"}
	}

	convo.LastProductQuery = message
	convo.LastProductResults = matches

	shown := matches
	if len(shown) > maxProductListing {
		shown = shown[:maxProductListing]
	}
	var b strings.Builder
	b.WriteString("Here's what I've got: 🛒\n")
	for _, p := range shown {
		fmt.Fprintf(&b, "• %s (%s) - $%.2f per %s\n", p.Item, p.Category, p.Price, p.Unit)
	}
	if len(matches) > len(shown) {
		fmt.Fprintf(&b, "...and %d more. ", len(matches)-len(shown))
	}
	b.WriteString("\nYou can ask me to sort these by price!")
	return &Result{Reply: b.String()}
}

// handleProductFollowUp 對上一次商品查詢結果做排序或補充
func (s *Service) handleProductFollowUp(message string, convo *Context) *Result {
	if len(convo.LastProductResults) == 0 {
		return s.handleProductQuery(convo.LastProductQuery+" "+message, convo)
	}

	results := make([]catalog.Product, len(convo.LastProductResults))
	copy(results, convo.LastProductResults)

	sorted := productSortPattern.MatchString(strings.ToLower(message))
	if sorted {
		sortProductsByPrice(results)
	}

	shown := results
	if len(shown) > maxProductListing {
		shown = shown[:maxProductListing]
	}
	var b strings.Builder
	if sorted {
		fmt.Fprintf(&b, "Here they are for \"%s\", cheapest first: 🛒\n", convo.LastProductQuery)
	} else {
		fmt.Fprintf(&b, "Here they are for \"%s\": 🛒\n", convo.LastProductQuery)
	}
	for _, p := range shown {
		fmt.Fprintf(&b, "• %s - $%.2f per %s\n", p.Item, p.Price, p.Unit)
	}
	return &Result{Reply: b.String()}
}

func cardLimit(requested int) int {
	if requested > maxRecipeCards {
		return maxRecipeCards
	}
	return requested
}

func sortProductsByPrice(products []catalog.Product) {
	for i := 1; i < len(products); i++ {
		for j := i; j > 0 && products[j].Price < products[j-1].Price; j-- {
			products[j], products[j-1] = products[j-1], products[j]
		}
	}
}

// handleConversation 開放式對話，LLM 優先並視需求產出食譜卡片
func (s *Service) handleConversation(ctx context.Context, message string, convo *Context) *Result {
	if greetingPattern.MatchString(message) {
		return &Result{Reply: "Hi! I'm Sage 🌿! I can help you find recipes and plan your grocery shopping. What kind of food would you like to cook today?"}
	}

	isMore := isMoreRequest(message)
	if !isMore {
		convo.LastNonMoreQuery = message
	}
	if isGroundedRequest(message) {
		convo.GroundedOnly = true
	}
	themed := isThemedRequest(message)
	capValue, hasCap := budget.ParseCap(message)
	requestedCount, _ := parseRequestedCount(message)

	if isFormattingRequest(message) && len(convo.AllSuggested) > 0 {
		return s.handleFormattingRequest(convo)
	}

	// 主題式請求只靠 LLM，沒有目錄後備
	if themed {
		return s.handleThemedRequest(ctx, message, convo, requestedCount)
	}

	var llmReply string
	llmAvailable := s.backend != nil
	if llmAvailable {
		reply, err := s.backend.Chat(ctx, message, historyForLLM(convo), s.recipeSummaries(), s.productNames())
		if err != nil {
			common.LogWarn("LLM 對話失敗，改用目錄排序", zap.Error(err))
			llmAvailable = false
		} else {
			llmReply = reply
		}
	}

	needsCards := isMore ||
		llmReplyWantsRecipes(llmReply) ||
		hasJSONArtifacts(llmReply) ||
		userAsksForRecipeCards(message) ||
		likelyRecipeIntent(message)

	if !needsCards {
		if llmAvailable {
			return &Result{Reply: cleanReplyText(llmReply)}
		}
		// 純聊天訊息沒有卡片意圖，LLM 掛掉時不硬塞目錄卡片
		return &Result{Reply: "I'm having a bit of trouble thinking right now. 🌿 Could you try asking that again, or ask me for some recipe ideas instead?"}
	}

	var recipes []catalog.Recipe
	var structuredReply, reasoning string

	if llmAvailable {
		recipes, structuredReply, reasoning = s.suggestViaLLM(ctx, message, convo, isMore, requestedCount)
	}

	// 對話回覆夾帶 JSON 時嘗試救回一張卡片
	if len(recipes) == 0 && hasJSONArtifacts(llmReply) {
		if rescued, ok := RescueRecipeFromText(llmReply); ok {
			recipes = []catalog.Recipe{*rescued}
		}
	}

	exhausted := false
	if len(recipes) == 0 {
		ranked := RankRecipes(message, s.catalog.Recipes, convo, RankOptions{TreatAsMore: isMore})
		if isMore && len(ranked) == 0 {
			exhausted = true
		}
		recipes = ranked
	}

	recipes = limitRecipes(recipes, cardLimit(requestedCount))
	enriched := EnrichRecipes(recipes, s.catalog.Products)

	if convo.GroundedOnly {
		enriched = filterGrounded(enriched)
	}
	if hasCap {
		enriched = applyBudgetCap(enriched, capValue)
	}

	for i := range enriched {
		convo.MarkSeen(enriched[i].Name)
	}
	convo.AllSuggested = mergeRecipeHistory(convo.AllSuggested, enriched)

	reply := structuredReply
	if reply == "" {
		reply = cleanReplyText(llmReply)
	}
	if reply == "" || exhausted {
		reply = buildReplyFromSuggestions(message, enriched, convo, replyOptions{isMore: isMore, exhausted: exhausted})
	}
	if reasoning != "" {
		reply += "\n\n💡 " + reasoning
	}
	return &Result{Reply: reply, Recipes: enriched}
}

// suggestViaLLM 請 LLM 產出結構化食譜，more 模式會過濾已看過的
func (s *Service) suggestViaLLM(ctx context.Context, message string, convo *Context, isMore bool, count int) (recipes []catalog.Recipe, reply, reasoning string) {
	req := &llm.SuggestRequest{
		Message:        message,
		History:        historyForLLM(convo),
		RecipeCatalog:  s.recipeSummaries(),
		Products:       s.productNames(),
		GroundedMode:   convo.GroundedOnly,
		RequestedCount: count,
	}
	if isMore {
		req.AvoidNames = convo.SeenNames()
		if convo.LastNonMoreQuery != "" {
			req.Message = convo.LastNonMoreQuery + " (different suggestions than before)"
		}
	}

	res, err := s.backend.Suggest(ctx, req)
	if err != nil {
		common.LogWarn("LLM 建議失敗，改用目錄排序", zap.Error(err))
		return nil, "", ""
	}

	got := toCatalogRecipes(res.Recipes)
	if isMore && len(got) > 0 {
		unseen := make([]catalog.Recipe, 0, len(got))
		for _, r := range got {
			if !convo.HasSeen(r.Name) {
				unseen = append(unseen, r)
			}
		}
		// 全數重複時視為 LLM 給的變化版，照樣採用
		if len(unseen) > 0 {
			got = unseen
		}
	}
	return got, res.Reply, res.Reasoning
}

// handleThemedRequest 主題菜色只接受 LLM 產出，失敗就婉拒
func (s *Service) handleThemedRequest(ctx context.Context, message string, convo *Context, count int) *Result {
	if s.backend == nil {
		return &Result{Reply: "Themed menus are a bit beyond me right now, my creative side is offline. Ask me for recipes from my catalog instead! 🌿"}
	}
	recipes, reply, reasoning := s.suggestViaLLM(ctx, message, convo, false, count)
	if len(recipes) == 0 {
		return &Result{Reply: "I couldn't dream up anything good for that theme this time. Want to try a different theme, or pick from my regular recipes? 🌿"}
	}
	enriched := EnrichRecipes(limitRecipes(recipes, cardLimit(count)), s.catalog.Products)
	for i := range enriched {
		convo.MarkSeen(enriched[i].Name)
	}
	convo.AllSuggested = mergeRecipeHistory(convo.AllSuggested, enriched)
	if reply == "" {
		reply = buildReplyFromSuggestions(message, enriched, convo, replyOptions{})
	}
	if reasoning != "" {
		reply += "\n\n💡 " + reasoning
	}
	return &Result{Reply: reply, Recipes: enriched}
}

// handleFormattingRequest 重新整理最近的建議，不重新產生
func (s *Service) handleFormattingRequest(convo *Context) *Result {
	recent := convo.AllSuggested
	if len(recent) > 3 {
		recent = recent[len(recent)-3:]
	}
	var b strings.Builder
	b.WriteString("Here they are again, nice and tidy: ✨\n\n")
	for _, r := range recent {
		fmt.Fprintf(&b, "🍽️ %s\n", r.Name)
		if len(r.Ingredients) > 0 {
			b.WriteString("Ingredients:\n")
			for _, ing := range r.Ingredients {
				fmt.Fprintf(&b, "  • %s\n", ing.Name)
			}
		}
		if len(r.Steps) > 0 {
			b.WriteString("Steps:\n")
			for i, step := range r.Steps {
				fmt.Fprintf(&b, "  %d. %s\n", i+1, step)
			}
		}
		b.WriteString("\n")
	}
	return &Result{Reply: strings.TrimRight(b.String(), "\n"), Recipes: recent}
}

// filterGrounded 僅保留食材幾乎都能在目錄對到的食譜
func filterGrounded(recipes []EnrichedRecipe) []EnrichedRecipe {
	var out []EnrichedRecipe
	for _, r := range recipes {
		keep := true
		for _, ing := range r.Ingredients {
			if ing.Found {
				continue
			}
			if _, staple := pantryStaples[Normalize(ing.Name)]; staple {
				continue
			}
			keep = false
			break
		}
		if keep {
			out = append(out, r)
		}
	}
	return out
}

// applyBudgetCap 先嚴格過濾，全超標時回最便宜的並加註記
func applyBudgetCap(recipes []EnrichedRecipe, cap float64) []EnrichedRecipe {
	within := budget.FilterByCap(recipes, cap)
	if len(within) > 0 {
		return within
	}
	closest := limitEnriched(budget.SortByCheapest(recipes), 3)
	for i := range closest {
		closest[i].ExceedsBudget = true
	}
	return closest
}

// cleanReplyText 移除程式碼圍欄與殘留的 JSON 片段
func cleanReplyText(reply string) string {
	if reply == "" {
		return ""
	}
	cleaned := llm.StripCodeFences(reply)
	cleaned = recipeBlockPattern.ReplaceAllString(cleaned, "")
	return strings.TrimSpace(cleaned)
}

func historyForLLM(convo *Context) []llm.HistoryMessage {
	msgs := convo.Messages
	if len(msgs) > 0 {
		// 最後一則是本輪的使用者訊息，prompt 會另外帶
		msgs = msgs[:len(msgs)-1]
	}
	out := make([]llm.HistoryMessage, 0, len(msgs))
	for _, m := range msgs {
		out = append(out, llm.HistoryMessage{From: m.From, Text: m.Text})
	}
	return out
}

func (s *Service) recipeSummaries() []llm.RecipeSummary {
	out := make([]llm.RecipeSummary, 0, len(s.catalog.Recipes))
	for _, r := range s.catalog.Recipes {
		names := make([]string, 0, len(r.Ingredients))
		for _, ing := range r.Ingredients {
			names = append(names, ing.Name)
		}
		out = append(out, llm.RecipeSummary{Name: r.Name, Ingredients: strings.Join(names, ", ")})
	}
	return out
}

func (s *Service) productNames() []string {
	out := make([]string, 0, len(s.catalog.Products))
	for _, p := range s.catalog.Products {
		out = append(out, p.Item)
	}
	return out
}

func toCatalogRecipes(suggested []llm.SuggestedRecipe) []catalog.Recipe {
	out := make([]catalog.Recipe, 0, len(suggested))
	for _, sr := range suggested {
		ings := make([]catalog.IngredientRef, 0, len(sr.Ingredients))
		for _, name := range sr.Ingredients {
			ings = append(ings, catalog.IngredientRef{Name: name, Normalized: catalog.NormalizeName(name)})
		}
		out = append(out, catalog.Recipe{
			Name:        sr.Name,
			Ingredients: ings,
			Steps:       sr.Steps,
			MealType:    sr.MealType,
		})
	}
	return out
}
