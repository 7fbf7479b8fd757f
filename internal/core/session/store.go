package session

import (
	"context"
	"fmt"

	"grocery-assistant/internal/core/chat"
	"grocery-assistant/internal/infrastructure/config"
)

// Store 會話儲存介面
type Store interface {
	// Get 取得會話，不存在時回傳全新的 Context
	Get(ctx context.Context, id string) (*chat.Context, error)
	// Set 寫回會話並刷新存活時間
	Set(ctx context.Context, id string, convo *chat.Context) error
	// Evict 移除會話
	Evict(ctx context.Context, id string) error
	// Close 釋放資源
	Close() error
}

// NewStore 依設定選擇記憶體或 redis 實作
func NewStore(cfg *config.SessionConfig) (Store, error) {
	switch cfg.Store {
	case "memory":
		return NewMemoryStore(cfg), nil
	case "redis":
		return NewRedisStore(cfg)
	default:
		return nil, fmt.Errorf("unknown session store: %s", cfg.Store)
	}
}
