package session

import (
	"context"
	"encoding/json"
	"sync"
	"time"

	"concierge/models"
)

// MemoryStore is an in-process Store with the same semantics as RedisStore,
// used in tests and redis-less runs. A background sweeper evicts sessions
// idle beyond the configured timeout.
type MemoryStore struct {
	idle time.Duration

	mu      sync.Mutex
	entries map[string]*memEntry
	done    chan struct{}
	once    sync.Once
}

type memEntry struct {
	mu         sync.Mutex
	dlg        *models.DialogContext
	lastActive time.Time
}

func NewMemoryStore(idle time.Duration) *MemoryStore {
	s := &MemoryStore{
		idle:    idle,
		entries: make(map[string]*memEntry),
		done:    make(chan struct{}),
	}
	go s.sweep()
	return s
}

// Close stops the eviction sweeper.
func (s *MemoryStore) Close() {
	s.once.Do(func() { close(s.done) })
}

func (s *MemoryStore) sweep() {
	interval := s.idle / 2
	if interval < time.Second {
		interval = time.Second
	}
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-s.done:
			return
		case <-ticker.C:
			s.evictIdle(time.Now())
		}
	}
}

func (s *MemoryStore) evictIdle(now time.Time) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for id, e := range s.entries {
		if now.Sub(e.lastActive) >= s.idle {
			delete(s.entries, id)
		}
	}
}

func (s *MemoryStore) entry(sessionID string) *memEntry {
	s.mu.Lock()
	defer s.mu.Unlock()
	e, exists := s.entries[sessionID]
	if !exists {
		e = &memEntry{
			dlg:        models.NewDialogContext(sessionID),
			lastActive: time.Now(),
		}
		s.entries[sessionID] = e
	}
	return e
}

// clone isolates callers from the stored context, mirroring the serialize
// boundary of the Redis store.
func clone(dlg *models.DialogContext) (*models.DialogContext, error) {
	b, err := json.Marshal(dlg)
	if err != nil {
		return nil, err
	}
	var out models.DialogContext
	if err := json.Unmarshal(b, &out); err != nil {
		return nil, err
	}
	if out.CollectedSlots == nil {
		out.CollectedSlots = make(map[string]string)
	}
	return &out, nil
}

func (s *MemoryStore) Get(_ context.Context, sessionID string) (*models.DialogContext, error) {
	e := s.entry(sessionID)
	e.mu.Lock()
	defer e.mu.Unlock()
	return clone(e.dlg)
}

func (s *MemoryStore) Update(_ context.Context, sessionID string, mutate func(*models.DialogContext) error) (*models.DialogContext, error) {
	e := s.entry(sessionID)
	e.mu.Lock()
	defer e.mu.Unlock()

	dlg, err := clone(e.dlg)
	if err != nil {
		return nil, err
	}
	if err := mutate(dlg); err != nil {
		return nil, err
	}
	dlg.LastActive = time.Now()
	e.dlg = dlg
	e.lastActive = dlg.LastActive

	return clone(dlg)
}

func (s *MemoryStore) Clear(_ context.Context, sessionID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.entries, sessionID)
	return nil
}
