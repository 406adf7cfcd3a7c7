// Package session holds the authentication state of one browser session and
// the registry that owns those states for the lifetime of the process.
package session

import (
	"context"
	"fmt"
	"log"
	"sync"

	"github.com/justsurfingit/talent-portal/internal/dtos"
	"github.com/justsurfingit/talent-portal/internal/listing"
	"github.com/justsurfingit/talent-portal/internal/metrics"
	"github.com/justsurfingit/talent-portal/internal/models"
	"github.com/justsurfingit/talent-portal/internal/storage"
)

type State int

const (
	StateLoading State = iota
	StateAuthenticated
	StateAnonymous
)

func (s State) String() string {
	switch s {
	case StateLoading:
		return "loading"
	case StateAuthenticated:
		return "authenticated"
	case StateAnonymous:
		return "anonymous"
	default:
		return fmt.Sprintf("State(%d)", int(s))
	}
}

// AuthAPI is the part of the remote API the provider needs.
type AuthAPI interface {
	Login(ctx context.Context, req dtos.LoginRequest) (*models.AuthResponse, error)
	Register(ctx context.Context, req dtos.RegisterRequest) (*models.AuthResponse, error)
	Me(ctx context.Context) (*models.User, error)
}

// Snapshot is a consistent read of the provider.
type Snapshot struct {
	State State
	User  *models.User
}

func (s Snapshot) Loading() bool         { return s.State == StateLoading }
func (s Snapshot) IsAuthenticated() bool { return s.User != nil }
func (s Snapshot) IsAdmin() bool         { return s.User != nil && s.User.Role == models.RoleAdmin }
func (s Snapshot) IsCandidate() bool     { return s.User != nil && s.User.Role == models.RoleCandidate }

// Role is empty for anonymous sessions.
func (s Snapshot) Role() models.Role {
	if s.User == nil {
		return ""
	}
	return s.User.Role
}

// Provider is the authentication state of one browser session. Every
// mutation is a single locked assignment made after its remote call
// returns; concurrent mutations are not ordered, the last one wins.
type Provider struct {
	store *storage.Storage
	auth  AuthAPI

	mu    sync.RWMutex
	state State
	user  *models.User
	token string // stored access token the state was resolved from

	views      map[string]listing.State
	reconciled map[string]bool
}

func NewProvider(store *storage.Storage, auth AuthAPI) *Provider {
	return &Provider{
		store:      store,
		auth:       auth,
		state:      StateLoading,
		views:      make(map[string]listing.State),
		reconciled: make(map[string]bool),
	}
}

func (p *Provider) Store() *storage.Storage {
	return p.store
}

func (p *Provider) Snapshot() Snapshot {
	p.mu.RLock()
	defer p.mu.RUnlock()
	var user *models.User
	if p.user != nil {
		u := *p.user
		user = &u
	}
	return Snapshot{State: p.state, User: user}
}

func (p *Provider) set(state State, user *models.User, token string) {
	p.mu.Lock()
	p.state = state
	p.user = user
	p.token = token
	if user == nil {
		p.views = make(map[string]listing.State)
		p.reconciled = make(map[string]bool)
	}
	p.mu.Unlock()
}

// Load resolves the initial state. A cached user plus an access token is
// checked against the API; any failure wipes the stored session. It is a
// no-op unless the provider is loading.
func (p *Provider) Load(ctx context.Context) {
	if p.Snapshot().State != StateLoading {
		return
	}

	cached, err := p.store.GetUser(ctx)
	if err != nil {
		p.reset(ctx, err)
		return
	}
	token, err := p.store.GetAccessToken(ctx)
	if err != nil {
		p.reset(ctx, err)
		return
	}
	if cached == nil || token == "" {
		p.set(StateAnonymous, nil, token)
		return
	}

	fresh, err := p.auth.Me(ctx)
	if err != nil {
		metrics.SessionValidationsTotal.WithLabelValues("rejected").Inc()
		p.reset(ctx, err)
		return
	}
	if err := p.store.SetUser(ctx, *fresh); err != nil {
		log.Printf("session %s: refresh cached user: %v", p.store.SessionID(), err)
	}
	metrics.SessionValidationsTotal.WithLabelValues("accepted").Inc()
	p.set(StateAuthenticated, fresh, token)
}

// Refresh compares the stored access token with the one the current state
// was resolved from. Another process sharing the store may have signed the
// browser in or out; on a mismatch the provider drops its user and views
// and loads again.
func (p *Provider) Refresh(ctx context.Context) {
	p.mu.RLock()
	state, seen := p.state, p.token
	p.mu.RUnlock()
	if state == StateLoading {
		return
	}

	token, err := p.store.GetAccessToken(ctx)
	if err != nil {
		log.Printf("session %s: refresh: %v", p.store.SessionID(), err)
		return
	}
	if token == seen {
		return
	}

	p.mu.Lock()
	if p.state == StateLoading || p.token != seen {
		p.mu.Unlock()
		return
	}
	p.state = StateLoading
	p.user = nil
	p.token = ""
	p.views = make(map[string]listing.State)
	p.reconciled = make(map[string]bool)
	p.mu.Unlock()

	metrics.SessionValidationsTotal.WithLabelValues("stale").Inc()
	p.Load(ctx)
}

func (p *Provider) reset(ctx context.Context, cause error) {
	log.Printf("session %s: failed to load user: %v", p.store.SessionID(), cause)
	if err := p.store.ClearAuth(ctx); err != nil {
		log.Printf("session %s: clear after failed load: %v", p.store.SessionID(), err)
	}
	p.set(StateAnonymous, nil, "")
}

// Login signs in and persists the returned tokens. API errors are returned
// as-is.
func (p *Provider) Login(ctx context.Context, req dtos.LoginRequest) (*models.User, error) {
	resp, err := p.auth.Login(ctx, req)
	if err != nil {
		return nil, err
	}
	return p.establish(ctx, resp)
}

func (p *Provider) Register(ctx context.Context, req dtos.RegisterRequest) (*models.User, error) {
	resp, err := p.auth.Register(ctx, req)
	if err != nil {
		return nil, err
	}
	return p.establish(ctx, resp)
}

func (p *Provider) establish(ctx context.Context, resp *models.AuthResponse) (*models.User, error) {
	if err := p.store.SetAuth(ctx, resp.AccessToken, resp.RefreshToken, resp.User); err != nil {
		return nil, err
	}
	user := resp.User
	p.set(StateAuthenticated, &user, resp.AccessToken)
	return &user, nil
}

// Logout forgets the session locally. The API is not called.
func (p *Provider) Logout(ctx context.Context) error {
	err := p.store.ClearAuth(ctx)
	p.set(StateAnonymous, nil, "")
	return err
}

func (p *Provider) SetView(key string, v listing.State) {
	p.mu.Lock()
	p.views[key] = v
	delete(p.reconciled, key)
	p.mu.Unlock()
}

// TakeReconciled returns the view under key if an event was dispatched to
// it since it was last set, and clears that mark. A page rendered from it
// shows the change without fetching the list again.
func (p *Provider) TakeReconciled(key string) (listing.State, bool) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if !p.reconciled[key] {
		return listing.State{}, false
	}
	delete(p.reconciled, key)
	v, ok := p.views[key]
	return v, ok
}

// Dispatch applies e to the view under key and marks it reconciled. It
// reports false when no view is held for key.
func (p *Provider) Dispatch(key string, e listing.Event) (listing.State, bool) {
	p.mu.Lock()
	defer p.mu.Unlock()
	v, ok := p.views[key]
	if !ok {
		return listing.State{}, false
	}
	v = listing.Reduce(v, e)
	p.views[key] = v
	p.reconciled[key] = true
	return v, true
}
