package session

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"grocery-assistant/internal/core/chat"
	"grocery-assistant/internal/infrastructure/config"
)

func newTestMemoryStore(ttl time.Duration) *MemoryStore {
	return NewMemoryStore(&config.SessionConfig{Store: "memory", TTL: ttl})
}

func TestMemoryStoreMissReturnsFreshContext(t *testing.T) {
	store := newTestMemoryStore(time.Minute)
	defer store.Close()

	convo, err := store.Get(context.Background(), "nope")
	require.NoError(t, err)
	require.NotNil(t, convo)
	assert.Empty(t, convo.Messages)
	assert.NotNil(t, convo.SeenRecipes)
}

func TestMemoryStoreSetGet(t *testing.T) {
	store := newTestMemoryStore(time.Minute)
	defer store.Close()

	convo := chat.NewContext()
	convo.MarkSeen("Veggie Omelette")
	convo.LastNonMoreQuery = "breakfast"
	require.NoError(t, store.Set(context.Background(), "s1", convo))

	got, err := store.Get(context.Background(), "s1")
	require.NoError(t, err)
	assert.True(t, got.HasSeen("Veggie Omelette"))
	assert.Equal(t, "breakfast", got.LastNonMoreQuery)
}

func TestMemoryStoreExpiry(t *testing.T) {
	store := newTestMemoryStore(10 * time.Millisecond)
	defer store.Close()

	convo := chat.NewContext()
	convo.LastNonMoreQuery = "pasta"
	require.NoError(t, store.Set(context.Background(), "s1", convo))

	time.Sleep(25 * time.Millisecond)

	got, err := store.Get(context.Background(), "s1")
	require.NoError(t, err)
	assert.Empty(t, got.LastNonMoreQuery, "expired sessions read back as fresh")
}

func TestMemoryStoreEvict(t *testing.T) {
	store := newTestMemoryStore(time.Minute)
	defer store.Close()

	convo := chat.NewContext()
	convo.LastNonMoreQuery = "rice"
	require.NoError(t, store.Set(context.Background(), "s1", convo))
	require.NoError(t, store.Evict(context.Background(), "s1"))

	got, err := store.Get(context.Background(), "s1")
	require.NoError(t, err)
	assert.Empty(t, got.LastNonMoreQuery)
}

func TestMemoryStoreSessionsAreIsolated(t *testing.T) {
	store := newTestMemoryStore(time.Minute)
	defer store.Close()

	a := chat.NewContext()
	a.LastNonMoreQuery = "salmon"
	b := chat.NewContext()
	b.LastNonMoreQuery = "banana"
	require.NoError(t, store.Set(context.Background(), "a", a))
	require.NoError(t, store.Set(context.Background(), "b", b))

	gotA, err := store.Get(context.Background(), "a")
	require.NoError(t, err)
	gotB, err := store.Get(context.Background(), "b")
	require.NoError(t, err)
	assert.Equal(t, "salmon", gotA.LastNonMoreQuery)
	assert.Equal(t, "banana", gotB.LastNonMoreQuery)
}

func TestNewStoreUnknownKind(t *testing.T) {
	_, err := NewStore(&config.SessionConfig{Store: "cassandra"})
	assert.Error(t, err)
}

func TestNewStoreMemory(t *testing.T) {
	store, err := NewStore(&config.SessionConfig{Store: "memory", TTL: time.Minute})
	require.NoError(t, err)
	require.NotNil(t, store)
	assert.NoError(t, store.Close())
}
