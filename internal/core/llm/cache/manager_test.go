package cache

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"grocery-assistant/internal/infrastructure/config"
)

func newTestManager(t *testing.T) *Manager {
	t.Helper()
	cfg := &config.Config{}
	cfg.Cache = config.CacheConfig{
		Enabled:         true,
		MaxSize:         4,
		TTL:             time.Minute,
		CleanupInterval: time.Minute,
	}
	m := NewManager(cfg)
	require.NotNil(t, m)
	t.Cleanup(func() { m.Close() })
	return m
}

func TestManagerDisabledReturnsNil(t *testing.T) {
	cfg := &config.Config{}
	assert.Nil(t, NewManager(cfg))
}

func TestNilManagerIsSafe(t *testing.T) {
	var m *Manager
	_, ok := m.Get(context.Background(), "chat", "prompt")
	assert.False(t, ok)
	assert.NoError(t, m.Set(context.Background(), "chat", "prompt", "value"))
	assert.Equal(t, map[string]interface{}{"enabled": false}, m.Stats())
	assert.NoError(t, m.Close())
}

func TestManagerSetGet(t *testing.T) {
	m := newTestManager(t)
	ctx := context.Background()

	_, ok := m.Get(ctx, "chat", "hello")
	assert.False(t, ok)

	require.NoError(t, m.Set(ctx, "chat", "hello", "hi there"))
	got, ok := m.Get(ctx, "chat", "hello")
	require.True(t, ok)
	assert.Equal(t, "hi there", got)

	// 不同模式各自獨立的鍵空間
	_, ok = m.Get(ctx, "suggest", "hello")
	assert.False(t, ok)
}

func TestManagerCloseIdempotent(t *testing.T) {
	cfg := &config.Config{}
	cfg.Cache = config.CacheConfig{
		Enabled:         true,
		MaxSize:         4,
		TTL:             time.Minute,
		CleanupInterval: 5 * time.Millisecond,
	}
	m := NewManager(cfg)
	require.NotNil(t, m)

	require.NoError(t, m.Close())
	require.NoError(t, m.Close())

	// 關閉後清理協程已停止，Set/Get 仍可安全使用
	time.Sleep(20 * time.Millisecond)
	require.NoError(t, m.Set(context.Background(), "chat", "a", "b"))
	got, ok := m.Get(context.Background(), "chat", "a")
	require.True(t, ok)
	assert.Equal(t, "b", got)
}
