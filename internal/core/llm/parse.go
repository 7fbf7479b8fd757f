package llm

import (
	"fmt"
	"regexp"
	"strings"

	"grocery-assistant/internal/pkg/common"
)

var codeFencePattern = regexp.MustCompile("(?s)```[a-zA-Z]*\\n?(.*?)```")

// StripCodeFences 移除 markdown 程式碼圍欄，保留內文
func StripCodeFences(text string) string {
	out := codeFencePattern.ReplaceAllString(text, "$1")
	out = strings.ReplaceAll(out, "```", "")
	return strings.TrimSpace(out)
}

// ExtractJSONObject 從自由文字中切出最外層的 JSON 物件
// 模型常在 JSON 前後附帶說明文字，取第一個 { 到最後一個 } 之間的內容
func ExtractJSONObject(text string) (string, bool) {
	start := strings.Index(text, "{")
	end := strings.LastIndex(text, "}")
	if start < 0 || end <= start {
		return "", false
	}
	return text[start : end+1], true
}

// suggestPayload 推薦回應的外層結構
type suggestPayload struct {
	Reply     looseString   `json:"reply"`
	Reasoning looseString   `json:"reasoning"`
	Recipes   []looseRecipe `json:"recipes"`
}

// ParseSuggestPayload 寬鬆解析模型的推薦回應
// 依序嘗試：去圍欄、切出 JSON 物件、補鍵名引號、去尾逗號
func ParseSuggestPayload(raw string) (*SuggestResult, error) {
	cleaned := StripCodeFences(raw)
	jsonStr, ok := ExtractJSONObject(cleaned)
	if !ok {
		return nil, fmt.Errorf("no JSON object in reply")
	}

	var payload suggestPayload
	err := common.ParseJSON(jsonStr, &payload)
	if err != nil {
		repaired := common.StripTrailingCommas(common.QuoteJSONKeys(jsonStr))
		if err = common.ParseJSON(repaired, &payload); err != nil {
			return nil, fmt.Errorf("parse suggest payload: %w", err)
		}
	}

	result := &SuggestResult{
		Reply:     strings.TrimSpace(string(payload.Reply)),
		Reasoning: strings.TrimSpace(string(payload.Reasoning)),
	}
	for _, r := range payload.Recipes {
		r := r
		recipe := r.toRecipe()
		if recipe.Name != "" {
			result.Recipes = append(result.Recipes, recipe)
		}
	}
	return result, nil
}
