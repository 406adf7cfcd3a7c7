package session

import (
	"context"
	"log"
	"sync"
	"time"

	"github.com/jonboulle/clockwork"
	"github.com/justsurfingit/talent-portal/internal/metrics"
	"golang.org/x/sync/singleflight"
)

// Factory builds the provider for a browser-session id.
type Factory func(sessionID string) *Provider

type entry struct {
	provider *Provider
	lastSeen time.Time
}

// Registry keeps one loaded Provider per browser session, mirroring the
// stored session in memory until the browser goes idle.
type Registry struct {
	factory Factory
	clock   clockwork.Clock
	group   singleflight.Group

	mu      sync.Mutex
	entries map[string]*entry
}

func NewRegistry(factory Factory, clock clockwork.Clock) *Registry {
	if clock == nil {
		clock = clockwork.NewRealClock()
	}
	return &Registry{
		factory: factory,
		clock:   clock,
		entries: make(map[string]*entry),
	}
}

// Get returns the provider for sessionID, creating and loading it on first
// use. Concurrent first requests share a single load. A provider already
// held is refreshed against the store, which other processes may share.
func (r *Registry) Get(ctx context.Context, sessionID string) *Provider {
	if p := r.touch(sessionID); p != nil {
		p.Refresh(context.WithoutCancel(ctx))
		return p
	}
	v, _, _ := r.group.Do(sessionID, func() (interface{}, error) {
		if p := r.touch(sessionID); p != nil {
			return p, nil
		}
		p := r.factory(sessionID)
		p.Load(context.WithoutCancel(ctx))

		r.mu.Lock()
		r.entries[sessionID] = &entry{provider: p, lastSeen: r.clock.Now()}
		metrics.SessionsActive.Set(float64(len(r.entries)))
		r.mu.Unlock()
		return p, nil
	})
	return v.(*Provider)
}

func (r *Registry) touch(sessionID string) *Provider {
	r.mu.Lock()
	defer r.mu.Unlock()
	e, ok := r.entries[sessionID]
	if !ok {
		return nil
	}
	e.lastSeen = r.clock.Now()
	return e.provider
}

func (r *Registry) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.entries)
}

// Sweep evicts providers idle for longer than idle and returns how many
// were removed. An evicted session is validated again on its next request.
func (r *Registry) Sweep(idle time.Duration) int {
	cutoff := r.clock.Now().Add(-idle)
	r.mu.Lock()
	defer r.mu.Unlock()
	n := 0
	for id, e := range r.entries {
		if e.lastSeen.Before(cutoff) {
			delete(r.entries, id)
			n++
		}
	}
	metrics.SessionsActive.Set(float64(len(r.entries)))
	return n
}

// StartSweeper runs Sweep every interval until ctx is done.
func (r *Registry) StartSweeper(ctx context.Context, interval, idle time.Duration) {
	ticker := r.clock.NewTicker(interval)
	go func() {
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.Chan():
				if n := r.Sweep(idle); n > 0 {
					log.Printf("session registry: evicted %d idle sessions", n)
				}
			}
		}
	}()
}
