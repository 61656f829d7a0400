package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"slices"
	"sync"

	"kabadi-client/internal/domain"
	"kabadi-client/internal/logger"
	"kabadi-client/internal/security"
	"kabadi-client/internal/storage"
)

// SessionUser is the minimal profile persisted next to the token
type SessionUser struct {
	UserType domain.UserType `json:"userType"`
	UserID   int64           `json:"userId"`
	Name     string          `json:"name"`
}

// Session holds the logged-in user. It is loaded once at start, saved on
// every change and cleared in full on logout.
type Session struct {
	store   storage.SessionStore
	decoder security.TokenDecoder

	mu    sync.RWMutex
	token string
	user  *SessionUser
}

func NewSession(store storage.SessionStore, decoder security.TokenDecoder) *Session {
	return &Session{store: store, decoder: decoder}
}

// Load restores the persisted session. A corrupt user entry or an expired
// token clears storage and leaves the session logged out. Load may be called
// again to pick up a login or logout made by another process.
func (s *Session) Load(ctx context.Context) error {
	token, err := s.store.Get(ctx, storage.KeyToken)
	if errors.Is(err, storage.ErrNotFound) {
		s.forget()
		return nil
	}
	if err != nil {
		return fmt.Errorf("failed to read session token: %w", err)
	}

	var user *SessionUser
	raw, err := s.store.Get(ctx, storage.KeyUser)
	switch {
	case err == nil:
		var u SessionUser
		if jerr := json.Unmarshal([]byte(raw), &u); jerr != nil {
			logger.Warn("Stored user is corrupt, clearing session", "error", jerr)
			s.forget()
			return s.store.Clear(ctx)
		}
		user = &u
	case !errors.Is(err, storage.ErrNotFound):
		return fmt.Errorf("failed to read session user: %w", err)
	}

	if s.decoder != nil {
		claims, derr := s.decoder.Decode(token)
		if derr != nil {
			logger.Info("Stored token is no longer usable, clearing session", "error", derr)
			s.forget()
			return s.store.Clear(ctx)
		}
		if user == nil {
			user = &SessionUser{UserType: claims.UserType, UserID: claims.UserID, Name: claims.Name}
		}
	}
	if user == nil {
		s.forget()
		return s.store.Clear(ctx)
	}

	s.mu.Lock()
	changed := s.user == nil || *s.user != *user
	s.token = token
	s.user = user
	s.mu.Unlock()
	if !changed {
		return nil
	}
	logger.Info("Session restored", "userType", user.UserType, "userId", user.UserID)
	return nil
}

// Login replaces the session and persists it
func (s *Session) Login(ctx context.Context, token string, user SessionUser) error {
	data, err := json.Marshal(user)
	if err != nil {
		return err
	}
	if err := s.store.Set(ctx, storage.KeyToken, token); err != nil {
		return fmt.Errorf("failed to persist session token: %w", err)
	}
	if err := s.store.Set(ctx, storage.KeyUser, string(data)); err != nil {
		return fmt.Errorf("failed to persist session user: %w", err)
	}

	s.mu.Lock()
	s.token = token
	s.user = &user
	s.mu.Unlock()
	logger.WithSession(string(user.UserType), user.UserID).Info("Logged in")
	return nil
}

// Logout clears the session and everything persisted with it
func (s *Session) Logout(ctx context.Context) error {
	s.forget()
	return s.store.Clear(ctx)
}

func (s *Session) forget() {
	s.mu.Lock()
	s.token = ""
	s.user = nil
	s.mu.Unlock()
}

// Token satisfies the REST client's token source
func (s *Session) Token() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.token
}

// Current returns the logged-in user
func (s *Session) Current() (SessionUser, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.user == nil {
		return SessionUser{}, false
	}
	return *s.user, true
}

// Require returns the current user if it is one of types (any type when
// none are given). Admins pass every check.
func (s *Session) Require(types ...domain.UserType) (SessionUser, error) {
	u, ok := s.Current()
	if !ok {
		return SessionUser{}, ErrNotAuthenticated
	}
	if len(types) == 0 || u.UserType == domain.UserTypeAdmin || slices.Contains(types, u.UserType) {
		return u, nil
	}
	return SessionUser{}, ErrForbidden
}
