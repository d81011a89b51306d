package session

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"

	"go.uber.org/zap"

	"github.com/yashrajoria/storefront/common/logger"
	"github.com/yashrajoria/storefront/models"
)

// Storage keys, kept identical to the browser build so exported sessions
// stay readable.
const (
	TokenKey = "token"
	UserKey  = "user"
)

// Store is the single source of truth for who is logged in. It is passed
// explicitly to whatever needs it; it also satisfies clients.TokenSource.
type Store struct {
	mu      sync.RWMutex
	storage Storage
	token   string
	user    *models.User
}

func NewStore(storage Storage) *Store {
	return &Store{storage: storage}
}

// Restore loads a previously persisted session. A corrupt user record is
// treated as logged out and wiped.
func (s *Store) Restore(ctx context.Context) error {
	token, _, err := s.storage.Get(ctx, TokenKey)
	if err != nil {
		return fmt.Errorf("restore session token: %w", err)
	}
	raw, ok, err := s.storage.Get(ctx, UserKey)
	if err != nil {
		return fmt.Errorf("restore session user: %w", err)
	}

	var user *models.User
	if ok && raw != "" {
		var u models.User
		if err := json.Unmarshal([]byte(raw), &u); err != nil {
			logger.Warn(ctx, "discarding unreadable session user", zap.Error(err))
			return s.Logout(ctx)
		}
		user = &u
	}

	s.mu.Lock()
	s.token = token
	s.user = user
	s.mu.Unlock()
	return nil
}

// Login persists token and user and then makes them current. The token is
// not inspected.
func (s *Store) Login(ctx context.Context, user models.User, token string) error {
	raw, err := json.Marshal(user)
	if err != nil {
		return fmt.Errorf("encode session user: %w", err)
	}
	prevToken, hadToken, err := s.storage.Get(ctx, TokenKey)
	if err != nil {
		return fmt.Errorf("read session token: %w", err)
	}
	if err := s.storage.Set(ctx, TokenKey, token); err != nil {
		return fmt.Errorf("save session token: %w", err)
	}
	if err := s.storage.Set(ctx, UserKey, string(raw)); err != nil {
		// the stored token must keep pairing with the stored user
		s.rollbackToken(ctx, prevToken, hadToken)
		return fmt.Errorf("save session user: %w", err)
	}

	s.mu.Lock()
	s.token = token
	s.user = &user
	s.mu.Unlock()
	return nil
}

func (s *Store) rollbackToken(ctx context.Context, prev string, had bool) {
	var err error
	if had {
		err = s.storage.Set(ctx, TokenKey, prev)
	} else {
		err = s.storage.Delete(ctx, TokenKey)
	}
	if err == nil {
		return
	}
	// Could not restore the old token: drop both keys rather than leave a
	// token of one account next to the user of another.
	logger.Warn(ctx, "failed to roll back session token", zap.Error(err))
	if err := s.storage.Delete(ctx, TokenKey, UserKey); err != nil {
		logger.Error(ctx, "failed to clear half-written session", err)
	}
}

// Logout clears the session. It is idempotent, and memory is always cleared
// even when storage fails.
func (s *Store) Logout(ctx context.Context) error {
	s.mu.Lock()
	s.token = ""
	s.user = nil
	s.mu.Unlock()

	if err := s.storage.Delete(ctx, TokenKey, UserKey); err != nil {
		return fmt.Errorf("clear session: %w", err)
	}
	return nil
}

// UpdateUser replaces the stored profile after a successful profile edit.
func (s *Store) UpdateUser(ctx context.Context, user models.User) error {
	if !s.IsAuthenticated() {
		return errors.New("no active session")
	}
	raw, err := json.Marshal(user)
	if err != nil {
		return fmt.Errorf("encode session user: %w", err)
	}
	if err := s.storage.Set(ctx, UserKey, string(raw)); err != nil {
		return fmt.Errorf("save session user: %w", err)
	}

	s.mu.Lock()
	s.user = &user
	s.mu.Unlock()
	return nil
}

// Token returns the bearer token or "".
func (s *Store) Token() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.token
}

// User returns a copy of the current user, or nil.
func (s *Store) User() *models.User {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.user == nil {
		return nil
	}
	u := *s.user
	return &u
}

func (s *Store) Snapshot() models.Session {
	return models.Session{Token: s.Token(), User: s.User()}
}

func (s *Store) IsAuthenticated() bool {
	return s.Token() != ""
}

func (s *Store) IsAdmin() bool {
	u := s.User()
	return u != nil && u.IsAdmin
}
