package storage

import (
	"context"
	"sync"
	"time"
)

// MemoryKV keeps sessions in process memory. Values are lost on restart.
type MemoryKV struct {
	mu       sync.RWMutex
	sessions map[string]map[string]string
	updated  map[string]time.Time
}

func NewMemoryKV() *MemoryKV {
	return &MemoryKV{
		sessions: make(map[string]map[string]string),
		updated:  make(map[string]time.Time),
	}
}

func (m *MemoryKV) Get(_ context.Context, sessionID, key string) (string, bool, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	v, ok := m.sessions[sessionID][key]
	return v, ok, nil
}

func (m *MemoryKV) SetMany(_ context.Context, sessionID string, values map[string]string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	sess, ok := m.sessions[sessionID]
	if !ok {
		sess = make(map[string]string, len(values))
		m.sessions[sessionID] = sess
	}
	for k, v := range values {
		sess[k] = v
	}
	m.updated[sessionID] = time.Now()
	return nil
}

func (m *MemoryKV) Delete(_ context.Context, sessionID string, keys ...string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	sess, ok := m.sessions[sessionID]
	if !ok {
		return nil
	}
	for _, k := range keys {
		delete(sess, k)
	}
	if len(sess) == 0 {
		delete(m.sessions, sessionID)
		delete(m.updated, sessionID)
	}
	return nil
}

// Prune drops sessions last written before cutoff and returns how many
// were removed.
func (m *MemoryKV) Prune(_ context.Context, cutoff time.Time) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var n int64
	for id, at := range m.updated {
		if at.Before(cutoff) {
			delete(m.sessions, id)
			delete(m.updated, id)
			n++
		}
	}
	return n, nil
}
