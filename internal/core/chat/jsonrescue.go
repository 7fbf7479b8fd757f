package chat

import (
	"encoding/json"
	"regexp"
	"strings"

	"grocery-assistant/internal/core/catalog"
	"grocery-assistant/internal/pkg/common"
)

var recipeBlockPattern = regexp.MustCompile(`(?s)\{.*?("ingredients"|"recipe_name"|"steps").*?\}`)

// rescuedRecipe 從散文中撈出的食譜形狀 JSON
type rescuedRecipe struct {
	RecipeName string            `json:"recipe_name"`
	Name       string            `json:"name"`
	Ingredient []json.RawMessage `json:"ingredients"`
	Steps      json.RawMessage   `json:"steps"`
}

// RescueRecipeFromText 嘗試從自由文字中撈出一道食譜
// 找不到或解析失敗時回傳 (nil, false)，絕不拋錯，只作為最後的救援路徑
func RescueRecipeFromText(text string) (*catalog.Recipe, bool) {
	if text == "" {
		return nil, false
	}
	match := recipeBlockPattern.FindString(text)
	if match == "" {
		return nil, false
	}

	// 模型偶爾會多寫一個尾逗號
	jsonStr := common.StripTrailingCommas(match)
	var raw rescuedRecipe
	if err := common.ParseJSON(jsonStr, &raw); err != nil {
		return nil, false
	}

	name := raw.RecipeName
	if name == "" {
		name = raw.Name
	}
	if name == "" {
		name = "Untitled Recipe"
	}

	var ingredients []catalog.IngredientRef
	for _, item := range raw.Ingredient {
		if n := parseIngredientValue(item); n != "" {
			ingredients = append(ingredients, catalog.IngredientRef{
				Name:       n,
				Normalized: catalog.NormalizeName(n),
			})
		}
	}
	if len(ingredients) == 0 {
		return nil, false
	}

	return &catalog.Recipe{
		Name:        name,
		Ingredients: ingredients,
		Steps:       parseStepsValue(raw.Steps),
	}, true
}

// parseIngredientValue 接受 "egg" 或 {"name":"egg"} / {"ingredient":"egg"}
func parseIngredientValue(raw json.RawMessage) string {
	var s string
	if err := json.Unmarshal(raw, &s); err == nil {
		return strings.TrimSpace(s)
	}
	var obj struct {
		Name       string `json:"name"`
		Ingredient string `json:"ingredient"`
	}
	if err := json.Unmarshal(raw, &obj); err == nil {
		if obj.Name != "" {
			return strings.TrimSpace(obj.Name)
		}
		return strings.TrimSpace(obj.Ingredient)
	}
	return ""
}

// parseStepsValue 接受步驟陣列或整段文字
func parseStepsValue(raw json.RawMessage) []string {
	if len(raw) == 0 {
		return nil
	}
	var arr []string
	if err := json.Unmarshal(raw, &arr); err == nil {
		return arr
	}
	var text string
	if err := json.Unmarshal(raw, &text); err == nil && strings.TrimSpace(text) != "" {
		return []string{text}
	}
	return nil
}
