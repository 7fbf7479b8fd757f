package llm

import (
	"context"
	"encoding/json"
	"strings"
)

// HistoryMessage 對話歷史中的一則訊息
type HistoryMessage struct {
	From string `json:"from"` // user 或 bot
	Text string `json:"text"`
}

// RecipeSummary 提供給模型的食譜摘要
type RecipeSummary struct {
	Name        string `json:"name"`
	Ingredients string `json:"ingredients"`
}

// SuggestRequest 結構化推薦請求
type SuggestRequest struct {
	Message        string
	History        []HistoryMessage
	RecipeCatalog  []RecipeSummary
	Products       []string
	AvoidNames     []string
	GroundedMode   bool
	RequestedCount int
}

// SuggestedRecipe 模型回傳的一道食譜
type SuggestedRecipe struct {
	Name        string   `json:"name"`
	Ingredients []string `json:"ingredients"`
	Steps       []string `json:"steps"`
	MealType    string   `json:"mealType,omitempty"`
}

// SuggestResult 結構化推薦結果
type SuggestResult struct {
	Reply     string            `json:"reply"`
	Reasoning string            `json:"reasoning,omitempty"`
	Recipes   []SuggestedRecipe `json:"recipes"`
}

// Backend 對話模型後端
type Backend interface {
	// Chat 自由對話，回傳純文字回覆
	Chat(ctx context.Context, message string, history []HistoryMessage, recipes []RecipeSummary, products []string) (string, error)
	// Suggest 結構化食譜推薦
	Suggest(ctx context.Context, req *SuggestRequest) (*SuggestResult, error)
	// Ping 檢查後端是否可用
	Ping(ctx context.Context) error
}

// looseRecipe 寬鬆解析用的中介結構
// 模型常把欄位名寫成 recipe_name、把 ingredients 寫成物件陣列、steps 寫成整段文字
type looseRecipe struct {
	Name       looseString  `json:"name"`
	RecipeName looseString  `json:"recipe_name"`
	Title      looseString  `json:"title"`
	Ingredient []looseValue `json:"ingredients"`
	Steps      looseSteps   `json:"steps"`
	MealType   looseString  `json:"mealType"`
}

func (r *looseRecipe) toRecipe() SuggestedRecipe {
	name := string(r.Name)
	if name == "" {
		name = string(r.RecipeName)
	}
	if name == "" {
		name = string(r.Title)
	}
	var ingredients []string
	for _, v := range r.Ingredient {
		if s := strings.TrimSpace(v.String()); s != "" {
			ingredients = append(ingredients, s)
		}
	}
	return SuggestedRecipe{
		Name:        strings.TrimSpace(name),
		Ingredients: ingredients,
		Steps:       []string(r.Steps),
		MealType:    strings.ToLower(strings.TrimSpace(string(r.MealType))),
	}
}

// looseString 接受字串或其他純量的欄位
type looseString string

func (s *looseString) UnmarshalJSON(data []byte) error {
	var str string
	if err := json.Unmarshal(data, &str); err == nil {
		*s = looseString(str)
		return nil
	}
	// 非字串純量直接以原始字面值處理
	*s = looseString(strings.Trim(string(data), `"`))
	return nil
}

// looseValue 接受 "egg" 或 {"name":"egg"} 兩種寫法的食材
type looseValue struct {
	value string
}

func (v *looseValue) String() string { return v.value }

func (v *looseValue) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err == nil {
		v.value = s
		return nil
	}
	var obj struct {
		Name string `json:"name"`
		Item string `json:"item"`
	}
	if err := json.Unmarshal(data, &obj); err == nil {
		if obj.Name != "" {
			v.value = obj.Name
		} else {
			v.value = obj.Item
		}
		return nil
	}
	// 無法辨識的型別直接略過
	v.value = ""
	return nil
}

// looseSteps 接受步驟陣列或整段文字
type looseSteps []string

func (s *looseSteps) UnmarshalJSON(data []byte) error {
	var arr []looseValue
	if err := json.Unmarshal(data, &arr); err == nil {
		out := make([]string, 0, len(arr))
		for _, v := range arr {
			if t := strings.TrimSpace(v.String()); t != "" {
				out = append(out, t)
			}
		}
		*s = out
		return nil
	}
	var text string
	if err := json.Unmarshal(data, &text); err == nil {
		if t := strings.TrimSpace(text); t != "" {
			*s = []string{t}
		}
		return nil
	}
	*s = nil
	return nil
}
