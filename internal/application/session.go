package application

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/golang-jwt/jwt/v4"

	"mylibrary/internal/domain"
	"mylibrary/internal/ports"
)

// Session holds the bearer credential and the signed-in profile
type Session struct {
	mu         sync.RWMutex
	store      ports.CredentialStore
	credential string
	profile    *domain.Profile
	onClear    []func()
	now        func() time.Time
}

// Ensure Session can feed the API client
var _ ports.CredentialSource = (*Session)(nil)

// NewSession creates a session backed by store. Call Restore to load the
// persisted credential.
func NewSession(store ports.CredentialStore) *Session {
	return &Session{store: store, now: time.Now}
}

// Restore loads the persisted credential. A JWT that has already expired
// is discarded; tokens that are not JWTs are kept as-is.
func (s *Session) Restore() error {
	token, err := s.store.Load()
	if err != nil {
		return fmt.Errorf("failed to load credential: %w", err)
	}
	if token != "" && CredentialExpired(token, s.now()) {
		return s.Clear()
	}

	s.mu.Lock()
	s.credential = token
	s.mu.Unlock()
	return nil
}

// Credential returns the bearer token, or "" when signed out
func (s *Session) Credential() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.credential
}

// HasCredential reports whether a token is present
func (s *Session) HasCredential() bool {
	return s.Credential() != ""
}

// SetCredential stores and persists a freshly issued token
func (s *Session) SetCredential(token string) error {
	if err := s.store.Save(token); err != nil {
		return fmt.Errorf("failed to persist credential: %w", err)
	}
	s.mu.Lock()
	s.credential = token
	s.mu.Unlock()
	return nil
}

// Profile returns the last profile received from the server
func (s *Session) Profile() *domain.Profile {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.profile == nil {
		return nil
	}
	p := *s.profile
	return &p
}

// SetProfile replaces the cached profile
func (s *Session) SetProfile(p *domain.Profile) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if p == nil {
		s.profile = nil
		return
	}
	cp := *p
	s.profile = &cp
}

// OnClear registers a hook run after every Clear
func (s *Session) OnClear(fn func()) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.onClear = append(s.onClear, fn)
}

// Clear drops the credential and profile, in memory and on disk
func (s *Session) Clear() error {
	s.mu.Lock()
	s.credential = ""
	s.profile = nil
	hooks := append([]func(){}, s.onClear...)
	s.mu.Unlock()

	err := s.store.Clear()
	for _, fn := range hooks {
		fn()
	}
	if err != nil {
		return fmt.Errorf("failed to clear credential: %w", err)
	}
	return nil
}

// LoadProfile fetches the signed-in user. Without a credential it fails
// with AuthError and no request is made.
func (s *Session) LoadProfile(ctx context.Context, api ports.ProfileAPI) (*domain.Profile, error) {
	if !s.HasCredential() {
		_ = s.Clear()
		return nil, &AuthError{Message: "not logged in"}
	}

	p, err := api.Me(ctx)
	if err != nil {
		if IsAuthError(err) {
			_ = s.Clear()
		}
		return nil, err
	}
	if p == nil {
		return nil, &RequestError{Message: "empty profile response"}
	}

	s.SetProfile(p)
	return s.Profile(), nil
}

// CredentialExpired reports whether token is a JWT whose exp claim lies
// before now. The signature is not checked; the server does that.
func CredentialExpired(token string, now time.Time) bool {
	claims := &jwt.RegisteredClaims{}
	if _, _, err := jwt.NewParser().ParseUnverified(token, claims); err != nil {
		return false
	}
	if claims.ExpiresAt == nil {
		return false
	}
	return !claims.ExpiresAt.Time.After(now)
}

// CredentialExpiry returns the exp claim of a JWT credential, if any
func CredentialExpiry(token string) (time.Time, bool) {
	claims := &jwt.RegisteredClaims{}
	if _, _, err := jwt.NewParser().ParseUnverified(token, claims); err != nil || claims.ExpiresAt == nil {
		return time.Time{}, false
	}
	return claims.ExpiresAt.Time, true
}
