package chat

import (
	"context"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"grocery-assistant/internal/core/catalog"
	"grocery-assistant/internal/core/llm"
	"grocery-assistant/internal/pkg/common"
)

// 流程子狀態
const (
	stateAwaitingMeasurements   = "awaiting_height_weight"
	stateAwaitingMacroDecision  = "awaiting_macro_decision"
	stateAwaitingActivity       = "awaiting_activity_level"
	stateAwaitingRecipeDecision = "awaiting_recipe_decision"
	stateAwaitingBudget         = "awaiting_budget"
	stateAwaitingTime           = "awaiting_time"
	stateAwaitingItems          = "awaiting_items"
	stateAwaitingConfirm        = "awaiting_confirm"
	stateAwaitingPreference     = "awaiting_preference"
	stateAwaitingTopic          = "awaiting_topic"
	stateAwaitingTips           = "awaiting_tips"
)

// startFlow 啟動指定流程，任何舊流程與其資料一律先清除
func (s *Service) startFlow(ctx context.Context, kind FlowKind, convo *Context) *Result {
	convo.Flow = nil

	switch kind {
	case FlowNutrition:
		convo.Flow = &ActiveFlow{Kind: FlowNutrition, SubState: stateAwaitingMeasurements}
		return &Result{Reply: "Let's figure out your daily nutrition needs! 🌿 First, tell me your height and weight. You can use metric like \"170 cm, 70 kg\" or imperial like \"5 feet 7 inches, 150 pounds\"."}
	case FlowBudget:
		convo.Flow = &ActiveFlow{Kind: FlowBudget, SubState: stateAwaitingBudget}
		return &Result{Reply: "Happy to plan around your budget! 💰 How much would you like to spend, and for how many servings? For example: \"$20 for 4 servings\"."}
	case FlowTime:
		convo.Flow = &ActiveFlow{Kind: FlowTime, SubState: stateAwaitingTime}
		return &Result{Reply: "Let's find something that fits your schedule! ⏱️ How many minutes do you have to cook?"}
	case FlowPantry:
		convo.Flow = &ActiveFlow{Kind: FlowPantry, SubState: stateAwaitingItems}
		return &Result{Reply: "Pantry challenge time! 🧺 List the ingredients you have on hand, separated by commas, and I'll see what we can make."}
	case FlowMealPrep:
		convo.Flow = &ActiveFlow{Kind: FlowMealPrep, SubState: stateAwaitingPreference}
		return &Result{Reply: "Let's plan your meal prep! 📦 What type of recipes are you in the mood for?\n1. Quick & easy\n2. Healthy & light\n3. Comfort food\n4. High protein\n5. Surprise me\nPick a number or just describe it."}
	case FlowHealthy:
		convo.Flow = &ActiveFlow{Kind: FlowHealthy, SubState: stateAwaitingTopic}
		return &Result{Reply: "Great choice! 🌱 What healthy-eating topic would you like tips on? For example: weight loss, more energy, heart health, or balanced meals."}
	case FlowDailyMenu:
		return s.buildDailyMenu(ctx, convo)
	}
	return nil
}

// handleActiveFlow 將訊息交給進行中的流程處理
func (s *Service) handleActiveFlow(ctx context.Context, message string, convo *Context) *Result {
	if convo.Flow == nil {
		return nil
	}
	switch convo.Flow.Kind {
	case FlowNutrition:
		return s.handleNutritionFlow(ctx, message, convo)
	case FlowBudget:
		return s.handleBudgetFlow(ctx, message, convo)
	case FlowTime:
		return s.handleTimeFlow(ctx, message, convo)
	case FlowPantry:
		return s.handlePantryFlow(ctx, message, convo)
	case FlowMealPrep:
		return s.handleMealPrepFlow(ctx, message, convo)
	case FlowHealthy:
		return s.handleHealthyFlow(ctx, message, convo)
	}
	convo.Flow = nil
	return nil
}

// flowSuggest 流程中向 LLM 請求目錄內食譜，失敗或未設定後端時回傳 nil
func (s *Service) flowSuggest(ctx context.Context, convo *Context, request string, count int) []catalog.Recipe {
	if s.backend == nil {
		return nil
	}
	res, err := s.backend.Suggest(ctx, &llm.SuggestRequest{
		Message:        request,
		History:        historyForLLM(convo),
		RecipeCatalog:  s.recipeSummaries(),
		Products:       s.productNames(),
		GroundedMode:   true,
		RequestedCount: count,
	})
	if err != nil || res == nil {
		common.LogWarn("LLM 流程建議失敗，改用目錄排序", zap.Error(err))
		return nil
	}
	return toCatalogRecipes(res.Recipes)
}

// flowChat 流程中向 LLM 要一段自由文字，失敗時回傳空字串由呼叫端補內建文案
func (s *Service) flowChat(ctx context.Context, convo *Context, request string) string {
	if s.backend == nil {
		return ""
	}
	reply, err := s.backend.Chat(ctx, request, historyForLLM(convo), nil, s.productNames())
	if err != nil {
		common.LogWarn("LLM 流程說明失敗，改用內建提示", zap.Error(err))
		return ""
	}
	return cleanReplyText(reply)
}

// forceMealLabels 依位置補上早午晚餐標籤，後端已標示的保留原樣
func forceMealLabels(recipes []EnrichedRecipe) []EnrichedRecipe {
	labels := []string{"breakfast", "lunch", "dinner"}
	for i := range recipes {
		if i < len(labels) && recipes[i].MealType == "" {
			recipes[i].MealType = labels[i]
		}
	}
	return recipes
}

func mealLabelLine(recipes []EnrichedRecipe) string {
	var b strings.Builder
	for _, r := range recipes {
		label := r.MealType
		if label == "" {
			label = "meal"
		}
		fmt.Fprintf(&b, "• %s: %s\n", capitalize(label), r.Name)
	}
	return b.String()
}

func capitalize(s string) string {
	if s == "" {
		return s
	}
	return strings.ToUpper(s[:1]) + s[1:]
}
