// Package auth owns the authentication session and the login, register and
// logout flows.
package auth

import (
	"encoding/json"
	"errors"
	"fmt"
	"sync"

	"golang.org/x/oauth2"

	"taskmaster/internal/service"
	"taskmaster/internal/storage"
)

// Session holds the current token and user and mirrors them to durable
// storage. Token and user are always written and cleared together.
//
// Session implements oauth2.TokenSource, so transports read the token at
// request time rather than capturing it once.
type Session struct {
	mu      sync.RWMutex
	store   storage.Store
	current *service.Session
}

// NewSession returns an empty session backed by store.
func NewSession(store storage.Store) *Session {
	return &Session{store: store}
}

// Restore loads a previously persisted session. Both entries must be present
// and readable; a partial or corrupt pair is cleared. The token is trusted
// without asking the server.
func (s *Session) Restore() (bool, error) {
	token, hasToken, err := s.store.Get(storage.KeyToken)
	if err != nil {
		return false, err
	}
	rawUser, hasUser, err := s.store.Get(storage.KeyUser)
	if err != nil {
		return false, err
	}

	if !hasToken && !hasUser {
		return false, nil
	}

	var user service.User
	if !hasToken || !hasUser || token == "" || json.Unmarshal([]byte(rawUser), &user) != nil {
		if err := s.Clear(); err != nil {
			return false, err
		}
		return false, errors.New("discarded incomplete stored session")
	}

	s.mu.Lock()
	s.current = &service.Session{Token: token, User: user}
	s.mu.Unlock()
	return true, nil
}

// Set replaces the session and persists it. If persisting fails, nothing is
// kept, in memory or on disk, including any session held before the call.
func (s *Session) Set(sess service.Session) error {
	if sess.Token == "" {
		return errors.New("session token is empty")
	}
	rawUser, err := json.Marshal(sess.User)
	if err != nil {
		return fmt.Errorf("encode user: %w", err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	err = s.store.Set(storage.KeyToken, sess.Token)
	if err == nil {
		err = s.store.Set(storage.KeyUser, string(rawUser))
	}
	if err != nil {
		s.current = nil
		errToken := s.store.Remove(storage.KeyToken)
		errUser := s.store.Remove(storage.KeyUser)
		return errors.Join(fmt.Errorf("save session: %w", err), errToken, errUser)
	}
	s.current = &sess
	return nil
}

// Clear drops the session from memory and storage.
func (s *Session) Clear() error {
	s.mu.Lock()
	s.current = nil
	s.mu.Unlock()

	errToken := s.store.Remove(storage.KeyToken)
	errUser := s.store.Remove(storage.KeyUser)
	return errors.Join(errToken, errUser)
}

// IsAuthenticated reports whether a token is held. It never calls the server.
func (s *Session) IsAuthenticated() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.current != nil
}

// User returns the signed-in user.
func (s *Session) User() (service.User, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.current == nil {
		return service.User{}, false
	}
	return s.current.User, true
}

// Token implements oauth2.TokenSource. It returns service.ErrNoSession while
// signed out.
func (s *Session) Token() (*oauth2.Token, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.current == nil {
		return nil, service.ErrNoSession
	}
	return &oauth2.Token{AccessToken: s.current.Token, TokenType: "Bearer"}, nil
}
