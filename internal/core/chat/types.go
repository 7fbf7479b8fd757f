package chat

import (
	"encoding/json"
	"math"
	"strings"

	"grocery-assistant/internal/core/catalog"
)

// Message 對話中的一則訊息
type Message struct {
	From string `json:"from"` // user 或 bot
	Text string `json:"text"`
}

// EnrichedIngredient 比對過商品目錄的食材
type EnrichedIngredient struct {
	Name     string           `json:"name"`
	Found    bool             `json:"found"`
	Product  *catalog.Product `json:"product,omitempty"`
	Price    float64          `json:"price,omitempty"`
	Unit     string           `json:"unit,omitempty"`
	Calories float64          `json:"calories,omitempty"`
}

// EnrichedRecipe 附帶商品資訊與總計的食譜
type EnrichedRecipe struct {
	Name          string               `json:"name"`
	Ingredients   []EnrichedIngredient `json:"ingredients"`
	Steps         []string             `json:"steps"`
	MealType      string               `json:"mealType,omitempty"`
	Autogenerated bool                 `json:"autogenerated,omitempty"`
	TotalCalories float64              `json:"totalCalories"`
	TotalPrice    float64              `json:"totalPrice"`
	// ExceedsBudget 預算流程中標記超出上限的替代選項
	ExceedsBudget bool `json:"exceedsBudget,omitempty"`
	// HasPricing 為 false 代表沒有任何食材成功估價
	HasPricing bool `json:"-"`
}

// CostEstimate 回傳估算成本，估不到價的食材視為 0 元
// 僅在總價不是有限數值時第二回傳值為 false
func (r EnrichedRecipe) CostEstimate() (float64, bool) {
	if math.IsNaN(r.TotalPrice) || math.IsInf(r.TotalPrice, 0) {
		return 0, false
	}
	return r.TotalPrice, true
}

// StepCount 估算步驟數，單一整段文字以句子切分
func (r EnrichedRecipe) StepCount() int {
	rec := catalog.Recipe{Steps: r.Steps}
	return rec.StepCount()
}

// FlowKind 引導式流程種類
type FlowKind string

const (
	FlowNutrition FlowKind = "nutrition"
	FlowBudget    FlowKind = "budget"
	FlowTime      FlowKind = "time"
	FlowPantry    FlowKind = "pantry"
	FlowMealPrep  FlowKind = "mealPrep"
	FlowHealthy   FlowKind = "healthy"
	FlowDailyMenu FlowKind = "dailyMenu"
)

// NutritionData 營養流程累積的資料
type NutritionData struct {
	HeightCM float64 `json:"heightCm"`
	WeightKG float64 `json:"weightKg"`
	BMI      float64 `json:"bmi"`
	TDEE     float64 `json:"tdee,omitempty"`
}

// PantryData 食材庫流程累積的資料
type PantryData struct {
	Items []string `json:"items"`
}

// FlowData 各流程的專屬資料，僅啟用中的流程欄位非 nil
type FlowData struct {
	Nutrition *NutritionData `json:"nutrition,omitempty"`
	Pantry    *PantryData    `json:"pantry,omitempty"`
}

// ActiveFlow 啟用中的引導式流程
// 同一時間最多一個流程啟用，觸發新流程會整個重置
type ActiveFlow struct {
	Kind     FlowKind `json:"kind"`
	SubState string   `json:"subState"`
	Data     FlowData `json:"data"`
}

// Context 一個 Session 的對話上下文，由該 Session 獨佔並就地更新
type Context struct {
	Messages []Message `json:"messages"`
	// SeenRecipes 本 Session 已出現過的食譜名稱集合
	SeenRecipes map[string]struct{} `json:"-"`
	// AllSuggested 依名稱去重的歷史建議，後出現者覆蓋先前的細節
	AllSuggested       []EnrichedRecipe  `json:"allSuggestedRecipes,omitempty"`
	LastNonMoreQuery   string            `json:"lastNonMoreQuery,omitempty"`
	GroundedOnly       bool              `json:"groundedOnly,omitempty"`
	Flow               *ActiveFlow       `json:"activeFlow,omitempty"`
	LastProductQuery   string            `json:"lastProductQuery,omitempty"`
	LastProductResults []catalog.Product `json:"lastProductResults,omitempty"`
}

// contextJSON 序列化用的替身，seenRecipes 以陣列形式傳輸
type contextJSON struct {
	Messages           []Message         `json:"messages"`
	SeenRecipes        []string          `json:"seenRecipes,omitempty"`
	AllSuggested       []EnrichedRecipe  `json:"allSuggestedRecipes,omitempty"`
	LastNonMoreQuery   string            `json:"lastNonMoreQuery,omitempty"`
	GroundedOnly       bool              `json:"groundedOnly,omitempty"`
	Flow               *ActiveFlow       `json:"activeFlow,omitempty"`
	LastProductQuery   string            `json:"lastProductQuery,omitempty"`
	LastProductResults []catalog.Product `json:"lastProductResults,omitempty"`
}

// MarshalJSON 將已看過集合轉為陣列輸出
func (c *Context) MarshalJSON() ([]byte, error) {
	seen := make([]string, 0, len(c.SeenRecipes))
	for name := range c.SeenRecipes {
		seen = append(seen, name)
	}
	return json.Marshal(&contextJSON{
		Messages:           c.Messages,
		SeenRecipes:        seen,
		AllSuggested:       c.AllSuggested,
		LastNonMoreQuery:   c.LastNonMoreQuery,
		GroundedOnly:       c.GroundedOnly,
		Flow:               c.Flow,
		LastProductQuery:   c.LastProductQuery,
		LastProductResults: c.LastProductResults,
	})
}

// UnmarshalJSON 從陣列還原已看過集合
func (c *Context) UnmarshalJSON(data []byte) error {
	var alias contextJSON
	if err := json.Unmarshal(data, &alias); err != nil {
		return err
	}
	c.Messages = alias.Messages
	c.SeenRecipes = make(map[string]struct{}, len(alias.SeenRecipes))
	for _, name := range alias.SeenRecipes {
		c.SeenRecipes[name] = struct{}{}
	}
	c.AllSuggested = alias.AllSuggested
	c.LastNonMoreQuery = alias.LastNonMoreQuery
	c.GroundedOnly = alias.GroundedOnly
	c.Flow = alias.Flow
	c.LastProductQuery = alias.LastProductQuery
	c.LastProductResults = alias.LastProductResults
	return nil
}

// NewContext 建立空白上下文
func NewContext() *Context {
	return &Context{
		SeenRecipes: make(map[string]struct{}),
	}
}

// hydrate 補齊反序列化後可能缺漏的欄位
func (c *Context) hydrate() {
	if c.SeenRecipes == nil {
		c.SeenRecipes = make(map[string]struct{})
	}
}

// MarkSeen 記錄已出現過的食譜名稱，比對不分大小寫
func (c *Context) MarkSeen(names ...string) {
	for _, name := range names {
		if name != "" {
			c.SeenRecipes[strings.ToLower(name)] = struct{}{}
		}
	}
}

// HasSeen 查詢食譜是否已出現過
func (c *Context) HasSeen(name string) bool {
	_, ok := c.SeenRecipes[strings.ToLower(name)]
	return ok
}

// SeenNames 回傳已出現過的食譜名稱
func (c *Context) SeenNames() []string {
	out := make([]string, 0, len(c.SeenRecipes))
	for name := range c.SeenRecipes {
		out = append(out, name)
	}
	return out
}

// mergeRecipeHistory 依名稱合併歷史建議，後出現者覆蓋先前的細節
func mergeRecipeHistory(existing, incoming []EnrichedRecipe) []EnrichedRecipe {
	index := make(map[string]int, len(existing))
	out := make([]EnrichedRecipe, 0, len(existing)+len(incoming))
	for _, r := range existing {
		if pos, ok := index[r.Name]; ok {
			out[pos] = r
			continue
		}
		index[r.Name] = len(out)
		out = append(out, r)
	}
	for _, r := range incoming {
		if pos, ok := index[r.Name]; ok {
			out[pos] = r
			continue
		}
		index[r.Name] = len(out)
		out = append(out, r)
	}
	return out
}

// Result 一次對話處理的結果
type Result struct {
	Reply   string           `json:"reply"`
	Recipes []EnrichedRecipe `json:"recipes"`
}
