package llm

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"grocery-assistant/internal/core/llm/cache"
	"grocery-assistant/internal/infrastructure/config"
	"grocery-assistant/internal/pkg/common"

	"github.com/go-resty/resty/v2"
	"go.uber.org/zap"
)

// OpenRouterBackend 透過 OpenRouter API 實作 Backend
type OpenRouterBackend struct {
	config *config.Config
	client *resty.Client
	cache  *cache.Manager
}

// NewOpenRouterBackend 創建 OpenRouter 後端
func NewOpenRouterBackend(cfg *config.Config, cacheManager *cache.Manager) *OpenRouterBackend {
	client := resty.New().
		SetBaseURL("https://openrouter.ai/api/v1").
		SetTimeout(cfg.OpenRouter.Timeout).
		SetHeader("Authorization", fmt.Sprintf("Bearer %s", cfg.OpenRouter.APIKey)).
		SetHeader("HTTP-Referer", "https://grocery-assistant.local").
		SetHeader("X-Title", "Grocery Assistant")

	return &OpenRouterBackend{
		config: cfg,
		client: client,
		cache:  cacheManager,
	}
}

// complete 送出一次 completion 請求並取回純文字內容
func (b *OpenRouterBackend) complete(ctx context.Context, mode, prompt string) (string, error) {
	if cached, ok := b.cache.Get(ctx, mode, prompt); ok {
		return cached, nil
	}

	req := map[string]interface{}{
		"model": b.config.OpenRouter.Model,
		"messages": []map[string]interface{}{
			{
				"role":    "user",
				"content": prompt,
			},
		},
		"max_tokens": b.config.OpenRouter.MaxTokens,
	}

	start := time.Now()
	resp, err := b.client.R().
		SetContext(ctx).
		SetBody(req).
		Post("/chat/completions")
	common.LogLLMCall(mode, time.Since(start), err, "")

	if err != nil {
		return "", fmt.Errorf("failed to send request to OpenRouter: %w", err)
	}

	if resp.StatusCode() != http.StatusOK {
		common.LogError("OpenRouter 回應異常",
			zap.Int("status_code", resp.StatusCode()),
			zap.String("模型", b.config.OpenRouter.Model),
		)
		return "", fmt.Errorf("OpenRouter API returned status %d", resp.StatusCode())
	}

	// 解析回應
	var result struct {
		Choices []struct {
			Message struct {
				Content string `json:"content"`
			} `json:"message"`
		} `json:"choices"`
	}

	if err := json.Unmarshal(resp.Body(), &result); err != nil {
		return "", fmt.Errorf("failed to parse OpenRouter response: %w", err)
	}

	if len(result.Choices) == 0 {
		return "", fmt.Errorf("no choices in OpenRouter response")
	}

	content := result.Choices[0].Message.Content
	if content == "" {
		return "", fmt.Errorf("empty content in OpenRouter response")
	}

	if err := b.cache.Set(ctx, mode, prompt, content); err != nil {
		common.LogWarn("快取寫入失敗", zap.Error(err))
	}

	return content, nil
}

// Chat 自由對話
func (b *OpenRouterBackend) Chat(ctx context.Context, message string, history []HistoryMessage, recipes []RecipeSummary, products []string) (string, error) {
	prompt := buildChatPrompt(message, history, recipes, products)
	reply, err := b.complete(ctx, "chat", prompt)
	if err != nil {
		return "", err
	}
	return StripCodeFences(reply), nil
}

// Suggest 結構化食譜推薦
func (b *OpenRouterBackend) Suggest(ctx context.Context, req *SuggestRequest) (*SuggestResult, error) {
	prompt := buildSuggestPrompt(req)
	raw, err := b.complete(ctx, "suggest", prompt)
	if err != nil {
		return nil, err
	}

	result, err := ParseSuggestPayload(raw)
	if err != nil {
		common.LogWarn("推薦回應解析失敗",
			zap.Error(err),
			zap.Int("raw_length", len(raw)),
		)
		return nil, err
	}
	return result, nil
}

// Ping 檢查 OpenRouter 是否可用
func (b *OpenRouterBackend) Ping(ctx context.Context) error {
	_, err := b.complete(ctx, "chat", "Quick ping. Reply with one word.")
	return err
}

// Close 關閉後端
func (b *OpenRouterBackend) Close() error {
	b.client.GetClient().CloseIdleConnections()
	return nil
}
