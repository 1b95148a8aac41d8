// File: services/session/redis.go
package session

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"
	"time"

	"concierge/models"

	"github.com/go-redis/redis/v8"
)

const contextPrefix = "dialog:ctx:"

// RedisStore keeps dialogue contexts in Redis. The key TTL doubles as the
// idle-session clock: every update refreshes it, and an expired key simply
// reads back as a fresh context. Read-modify-write atomicity comes from a
// per-session local mutex (the assistant runs in a single process).
type RedisStore struct {
	client *redis.Client
	ttl    time.Duration

	locksMu sync.Mutex
	locks   map[string]*sync.Mutex
}

func NewRedisStore(client *redis.Client, ttl time.Duration) *RedisStore {
	return &RedisStore{
		client: client,
		ttl:    ttl,
		locks:  make(map[string]*sync.Mutex),
	}
}

func (s *RedisStore) lockFor(sessionID string) *sync.Mutex {
	s.locksMu.Lock()
	defer s.locksMu.Unlock()

	lock, exists := s.locks[sessionID]
	if !exists {
		lock = &sync.Mutex{}
		s.locks[sessionID] = lock
	}
	return lock
}

func (s *RedisStore) load(ctx context.Context, sessionID string) (*models.DialogContext, error) {
	data, err := s.client.Get(ctx, contextPrefix+sessionID).Result()
	if err == redis.Nil {
		return models.NewDialogContext(sessionID), nil
	}
	if err != nil {
		return nil, fmt.Errorf("loading session %s: %w", sessionID, err)
	}
	var dlg models.DialogContext
	if err := json.Unmarshal([]byte(data), &dlg); err != nil {
		return nil, fmt.Errorf("decoding session %s: %w", sessionID, err)
	}
	if dlg.CollectedSlots == nil {
		dlg.CollectedSlots = make(map[string]string)
	}
	return &dlg, nil
}

func (s *RedisStore) Get(ctx context.Context, sessionID string) (*models.DialogContext, error) {
	lock := s.lockFor(sessionID)
	lock.Lock()
	defer lock.Unlock()
	return s.load(ctx, sessionID)
}

func (s *RedisStore) Update(ctx context.Context, sessionID string, mutate func(*models.DialogContext) error) (*models.DialogContext, error) {
	lock := s.lockFor(sessionID)
	lock.Lock()
	defer lock.Unlock()

	dlg, err := s.load(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	if err := mutate(dlg); err != nil {
		return nil, err
	}
	dlg.LastActive = time.Now()

	b, err := json.Marshal(dlg)
	if err != nil {
		return nil, fmt.Errorf("encoding session %s: %w", sessionID, err)
	}
	if err := s.client.Set(ctx, contextPrefix+sessionID, b, s.ttl).Err(); err != nil {
		return nil, fmt.Errorf("saving session %s: %w", sessionID, err)
	}
	return dlg, nil
}

func (s *RedisStore) Clear(ctx context.Context, sessionID string) error {
	lock := s.lockFor(sessionID)
	lock.Lock()
	defer lock.Unlock()
	return s.client.Del(ctx, contextPrefix+sessionID).Err()
}
