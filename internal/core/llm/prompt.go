package llm

import (
	"fmt"
	"strings"
)

// 對話上下文最多帶入的歷史訊息數
const maxHistoryMessages = 10

// 帶入 prompt 的目錄摘要上限，避免超出 token 限制
const (
	maxPromptRecipes  = 40
	maxPromptProducts = 60
)

const chatPersona = `You are Sage, a friendly food & health companion inside a grocery shopping app.
You help users plan meals, understand nutrition, and shop smarter.
Keep replies short, warm and practical. Never output JSON or code blocks in conversation.`

// buildChatPrompt 組合自由對話的 prompt
func buildChatPrompt(message string, history []HistoryMessage, recipes []RecipeSummary, products []string) string {
	var sb strings.Builder
	sb.WriteString(chatPersona)
	sb.WriteString("\n\n")

	if len(recipes) > 0 {
		sb.WriteString("Recipes available in the store catalog:\n")
		for i, r := range recipes {
			if i >= maxPromptRecipes {
				break
			}
			fmt.Fprintf(&sb, "- %s (ingredients: %s)\n", r.Name, r.Ingredients)
		}
		sb.WriteString("\n")
	}

	if len(products) > 0 {
		sb.WriteString("Products available in the store: ")
		if len(products) > maxPromptProducts {
			products = products[:maxPromptProducts]
		}
		sb.WriteString(strings.Join(products, ", "))
		sb.WriteString("\n\n")
	}

	if len(history) > 0 {
		sb.WriteString("Conversation so far:\n")
		start := 0
		if len(history) > maxHistoryMessages {
			start = len(history) - maxHistoryMessages
		}
		for _, m := range history[start:] {
			role := "User"
			if m.From == "bot" {
				role = "Sage"
			}
			fmt.Fprintf(&sb, "%s: %s\n", role, m.Text)
		}
		sb.WriteString("\n")
	}

	fmt.Fprintf(&sb, "User: %s\nSage:", message)
	return sb.String()
}

// buildSuggestPrompt 組合結構化推薦的 prompt，要求模型只回 JSON
func buildSuggestPrompt(req *SuggestRequest) string {
	var sb strings.Builder
	sb.WriteString("You are Sage, a grocery assistant that suggests recipes.\n")
	sb.WriteString("Respond with ONLY a JSON object, no code fences, in this shape:\n")
	sb.WriteString(`{"reply": "short friendly text", "reasoning": "one sentence", "recipes": [{"name": "...", "ingredients": ["..."], "steps": ["..."], "mealType": "breakfast|lunch|dinner"}]}`)
	sb.WriteString("\n\n")

	if req.GroundedMode {
		sb.WriteString("STRICT MODE: only suggest recipes from the catalog below, with their exact names. Do not invent recipes.\n\n")
	}

	if len(req.RecipeCatalog) > 0 {
		sb.WriteString("Recipe catalog:\n")
		for i, r := range req.RecipeCatalog {
			if i >= maxPromptRecipes {
				break
			}
			fmt.Fprintf(&sb, "- %s (ingredients: %s)\n", r.Name, r.Ingredients)
		}
		sb.WriteString("\n")
	}

	if len(req.Products) > 0 {
		products := req.Products
		if len(products) > maxPromptProducts {
			products = products[:maxPromptProducts]
		}
		sb.WriteString("Products in the store: ")
		sb.WriteString(strings.Join(products, ", "))
		sb.WriteString("\n\n")
	}

	if len(req.AvoidNames) > 0 {
		sb.WriteString("Do NOT suggest these recipes again: ")
		sb.WriteString(strings.Join(req.AvoidNames, ", "))
		sb.WriteString("\n\n")
	}

	if len(req.History) > 0 {
		sb.WriteString("Recent conversation:\n")
		start := 0
		if len(req.History) > maxHistoryMessages {
			start = len(req.History) - maxHistoryMessages
		}
		for _, m := range req.History[start:] {
			role := "User"
			if m.From == "bot" {
				role = "Sage"
			}
			fmt.Fprintf(&sb, "%s: %s\n", role, m.Text)
		}
		sb.WriteString("\n")
	}

	count := req.RequestedCount
	if count <= 0 {
		count = 3
	}
	fmt.Fprintf(&sb, "User request: %s\n", req.Message)
	fmt.Fprintf(&sb, "Generate exactly %d recipe(s). JSON only.\n", count)
	return sb.String()
}
