// Copyright (c) 2025 AccelByte Inc. All Rights Reserved.
// This is licensed software from AccelByte Inc, for limitations
// and restrictions contact your company contract manager.

package session

import (
	"context"
	"sync"
	"time"

	"github.com/AccelByte/extend-churn-dashboard/pkg/dashboard"
	"github.com/sirupsen/logrus"
)

type memoryEntry struct {
	state     dashboard.State
	expiresAt time.Time
}

// MemoryStore implements Store in process memory.
type MemoryStore struct {
	mu       sync.Mutex
	sessions map[string]memoryEntry
	cfg      MemoryStoreConfig
}

type MemoryStoreConfig struct {
	TTL time.Duration
	// Now is the clock used for expiry; nil means time.Now.
	Now func() time.Time
}

// NewMemoryStore creates a new in-memory session store.
func NewMemoryStore(cfg MemoryStoreConfig) *MemoryStore {
	if cfg.TTL <= 0 {
		cfg.TTL = DefaultTTL
	}
	if cfg.Now == nil {
		cfg.Now = time.Now
	}

	return &MemoryStore{
		sessions: make(map[string]memoryEntry),
		cfg:      cfg,
	}
}

// Ping always succeeds; the store lives in process.
func (m *MemoryStore) Ping(_ context.Context) error {
	return nil
}

func (m *MemoryStore) Create(_ context.Context) (string, dashboard.State, error) {
	id := newID()
	state := dashboard.NewState()

	m.mu.Lock()
	defer m.mu.Unlock()

	m.sweep()
	m.sessions[id] = memoryEntry{state: state, expiresAt: m.cfg.Now().Add(m.cfg.TTL)}

	logrus.Infof("created session %s", id)
	return id, state, nil
}

func (m *MemoryStore) Get(_ context.Context, id string) (dashboard.State, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	entry, ok := m.live(id)
	if !ok {
		return dashboard.State{}, ErrNotFound
	}
	return entry.state, nil
}

func (m *MemoryStore) Update(_ context.Context, id string, fn UpdateFunc) (dashboard.State, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	entry, ok := m.live(id)
	if !ok {
		return dashboard.State{}, ErrNotFound
	}

	next, err := fn(entry.state)
	if err != nil {
		return entry.state, err
	}

	m.sessions[id] = memoryEntry{state: next, expiresAt: m.cfg.Now().Add(m.cfg.TTL)}
	return next, nil
}

func (m *MemoryStore) Delete(_ context.Context, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	delete(m.sessions, id)
	return nil
}

// Count returns the number of unexpired sessions.
func (m *MemoryStore) Count() int {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.sweep()
	return len(m.sessions)
}

// live must be called with mu held.
func (m *MemoryStore) live(id string) (memoryEntry, bool) {
	entry, ok := m.sessions[id]
	if !ok {
		return memoryEntry{}, false
	}
	if !m.cfg.Now().Before(entry.expiresAt) {
		delete(m.sessions, id)
		return memoryEntry{}, false
	}
	return entry, true
}

// sweep drops expired sessions. Must be called with mu held.
func (m *MemoryStore) sweep() {
	now := m.cfg.Now()
	for id, entry := range m.sessions {
		if !now.Before(entry.expiresAt) {
			delete(m.sessions, id)
		}
	}
}
