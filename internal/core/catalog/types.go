package catalog

import "strings"

// Nutrition 商品營養成分（每單位）
type Nutrition struct {
	Calories float64 `json:"calories"`
	ProteinG float64 `json:"protein_g"`
	CarbsG   float64 `json:"carbs_g"`
	FatG     float64 `json:"fat_g"`
	FiberG   float64 `json:"fiber_g"`
}

// Product 商品目錄中的一筆商品
type Product struct {
	Category  string    `json:"category"`
	Item      string    `json:"item"`
	Price     float64   `json:"price"`
	Unit      string    `json:"unit"`
	Nutrition Nutrition `json:"nutrition"`

	// Normalized 為比對用的正規化名稱，不輸出
	Normalized string `json:"-"`
}

// IngredientRef 食譜中的一項食材引用
type IngredientRef struct {
	Name string `json:"name"`

	Normalized string `json:"-"`
}

// Recipe 食譜目錄中的一道食譜
type Recipe struct {
	Name        string          `json:"name"`
	Ingredients []IngredientRef `json:"ingredients"`
	// Steps CSV 來源為整段文字時只有單一元素，LLM 生成則為逐步陣列
	Steps    []string `json:"steps"`
	MealType string   `json:"mealType,omitempty"`
}

// Catalog 商品與食譜目錄
type Catalog struct {
	Products []Product `json:"products"`
	Recipes  []Recipe  `json:"recipes"`
}

// StepCount 估算步驟數，整段文字以句子切分計算
func (r *Recipe) StepCount() int {
	if len(r.Steps) != 1 {
		return len(r.Steps)
	}
	count := 0
	for _, seg := range strings.FieldsFunc(r.Steps[0], func(c rune) bool {
		return c == '.' || c == '!' || c == '?' || c == '\n'
	}) {
		if strings.TrimSpace(seg) != "" {
			count++
		}
	}
	if count == 0 {
		return 1
	}
	return count
}

// NormalizeName 比對用的簡易正規化，去除前後空白並轉小寫
func NormalizeName(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}
