package session

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/go-redis/redis/v8"

	"grocery-assistant/internal/core/chat"
	"grocery-assistant/internal/infrastructure/config"
)

// RedisStore redis 會話儲存，多實例部署時共用
type RedisStore struct {
	client *redis.Client
	config *config.SessionConfig
}

// NewRedisStore 建立 redis 儲存並測試連線
func NewRedisStore(cfg *config.SessionConfig) (*RedisStore, error) {
	client := redis.NewClient(&redis.Options{
		Addr: cfg.RedisAddr,
		DB:   cfg.RedisDB,
	})

	if err := client.Ping(context.Background()).Err(); err != nil {
		return nil, fmt.Errorf("failed to connect to Redis: %w", err)
	}

	return &RedisStore{
		client: client,
		config: cfg,
	}, nil
}

func (s *RedisStore) Get(ctx context.Context, id string) (*chat.Context, error) {
	data, err := s.client.Get(ctx, s.key(id)).Bytes()
	if err != nil {
		if err == redis.Nil {
			return chat.NewContext(), nil
		}
		return nil, fmt.Errorf("failed to get session: %w", err)
	}

	var convo chat.Context
	if err := json.Unmarshal(data, &convo); err != nil {
		return nil, fmt.Errorf("failed to unmarshal session: %w", err)
	}
	return &convo, nil
}

func (s *RedisStore) Set(ctx context.Context, id string, convo *chat.Context) error {
	data, err := json.Marshal(convo)
	if err != nil {
		return fmt.Errorf("failed to marshal session: %w", err)
	}
	if err := s.client.Set(ctx, s.key(id), data, s.config.TTL).Err(); err != nil {
		return fmt.Errorf("failed to set session: %w", err)
	}
	return nil
}

func (s *RedisStore) Evict(ctx context.Context, id string) error {
	if err := s.client.Del(ctx, s.key(id)).Err(); err != nil {
		return fmt.Errorf("failed to evict session: %w", err)
	}
	return nil
}

func (s *RedisStore) Close() error {
	return s.client.Close()
}

func (s *RedisStore) key(id string) string {
	return fmt.Sprintf("chat:session:%s", id)
}
