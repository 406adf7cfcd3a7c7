// Package storage persists the per-browser authentication state: access
// token, refresh token and the cached user profile.
package storage

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"time"

	"github.com/justsurfingit/talent-portal/internal/models"
)

const (
	AccessTokenKey  = "access_token"
	RefreshTokenKey = "refresh_token"
	UserKey         = "user"
)

// KV is a durable string store partitioned by browser-session id.
type KV interface {
	Get(ctx context.Context, sessionID, key string) (string, bool, error)
	SetMany(ctx context.Context, sessionID string, values map[string]string) error
	// Delete removes the keys in one backend operation.
	Delete(ctx context.Context, sessionID string, keys ...string) error
}

// Pruner is implemented by backends without native expiry.
type Pruner interface {
	Prune(ctx context.Context, cutoff time.Time) (int64, error)
}

// Storage is the view of a KV for a single browser session.
type Storage struct {
	kv        KV
	sessionID string
}

func New(kv KV, sessionID string) *Storage {
	return &Storage{kv: kv, sessionID: sessionID}
}

func (s *Storage) SessionID() string {
	return s.sessionID
}

func (s *Storage) get(ctx context.Context, key string) (string, error) {
	v, _, err := s.kv.Get(ctx, s.sessionID, key)
	if err != nil {
		return "", fmt.Errorf("storage: get %s: %w", key, err)
	}
	return v, nil
}

func (s *Storage) set(ctx context.Context, key, value string) error {
	if err := s.kv.SetMany(ctx, s.sessionID, map[string]string{key: value}); err != nil {
		return fmt.Errorf("storage: set %s: %w", key, err)
	}
	return nil
}

func (s *Storage) GetAccessToken(ctx context.Context) (string, error) {
	return s.get(ctx, AccessTokenKey)
}

func (s *Storage) SetAccessToken(ctx context.Context, token string) error {
	return s.set(ctx, AccessTokenKey, token)
}

func (s *Storage) GetRefreshToken(ctx context.Context) (string, error) {
	return s.get(ctx, RefreshTokenKey)
}

func (s *Storage) SetRefreshToken(ctx context.Context, token string) error {
	return s.set(ctx, RefreshTokenKey, token)
}

// GetUser returns the cached profile, or nil when none is stored or the
// stored value is not a valid user document.
func (s *Storage) GetUser(ctx context.Context) (*models.User, error) {
	raw, err := s.get(ctx, UserKey)
	if err != nil || raw == "" {
		return nil, err
	}
	var user models.User
	if err := json.Unmarshal([]byte(raw), &user); err != nil {
		log.Printf("storage: ignoring malformed cached user for session %s: %v", s.sessionID, err)
		return nil, nil
	}
	return &user, nil
}

func (s *Storage) SetUser(ctx context.Context, user models.User) error {
	b, err := json.Marshal(user)
	if err != nil {
		return fmt.Errorf("storage: encode user: %w", err)
	}
	return s.set(ctx, UserKey, string(b))
}

// SetAuth stores the three keys written after a login or registration.
func (s *Storage) SetAuth(ctx context.Context, accessToken, refreshToken string, user models.User) error {
	b, err := json.Marshal(user)
	if err != nil {
		return fmt.Errorf("storage: encode user: %w", err)
	}
	err = s.kv.SetMany(ctx, s.sessionID, map[string]string{
		AccessTokenKey:  accessToken,
		RefreshTokenKey: refreshToken,
		UserKey:         string(b),
	})
	if err != nil {
		return fmt.Errorf("storage: set auth: %w", err)
	}
	return nil
}

func (s *Storage) ClearAuth(ctx context.Context) error {
	if err := s.kv.Delete(ctx, s.sessionID, AccessTokenKey, RefreshTokenKey, UserKey); err != nil {
		return fmt.Errorf("storage: clear auth: %w", err)
	}
	return nil
}
