package session

import (
	"context"
	"sync"
	"time"

	"grocery-assistant/internal/core/chat"
	"grocery-assistant/internal/infrastructure/config"
)

type memoryEntry struct {
	convo     *chat.Context
	expiresAt time.Time
}

// MemoryStore 記憶體會話儲存，適合單機部署
type MemoryStore struct {
	mu       sync.RWMutex
	sessions map[string]*memoryEntry
	ttl      time.Duration
	stopCh   chan struct{}
	stopOnce sync.Once
}

// NewMemoryStore 建立記憶體儲存並啟動過期清理
func NewMemoryStore(cfg *config.SessionConfig) *MemoryStore {
	s := &MemoryStore{
		sessions: make(map[string]*memoryEntry),
		ttl:      cfg.TTL,
		stopCh:   make(chan struct{}),
	}
	go s.cleanupLoop()
	return s
}

func (s *MemoryStore) Get(ctx context.Context, id string) (*chat.Context, error) {
	s.mu.RLock()
	entry, ok := s.sessions[id]
	s.mu.RUnlock()

	if !ok || time.Now().After(entry.expiresAt) {
		return chat.NewContext(), nil
	}
	return entry.convo, nil
}

func (s *MemoryStore) Set(ctx context.Context, id string, convo *chat.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.sessions[id] = &memoryEntry{
		convo:     convo,
		expiresAt: time.Now().Add(s.ttl),
	}
	return nil
}

func (s *MemoryStore) Evict(ctx context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.sessions, id)
	return nil
}

func (s *MemoryStore) Close() error {
	s.stopOnce.Do(func() { close(s.stopCh) })
	return nil
}

func (s *MemoryStore) cleanupLoop() {
	ticker := time.NewTicker(5 * time.Minute)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			now := time.Now()
			s.mu.Lock()
			for id, entry := range s.sessions {
				if now.After(entry.expiresAt) {
					delete(s.sessions, id)
				}
			}
			s.mu.Unlock()
		case <-s.stopCh:
			return
		}
	}
}
