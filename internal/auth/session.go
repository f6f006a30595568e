// Package auth tracks the signed-in user and tells interested parties when
// that identity changes.
package auth

import (
	"context"
	"errors"
	"fmt"
	"net/mail"
	"strings"
	"sync"

	"github.com/hay-kot/criterio"
	"github.com/rs/zerolog"
	"github.com/sadopc/dayboard/internal/cache"
	"github.com/sadopc/dayboard/internal/logging"
	"github.com/sadopc/dayboard/internal/store"
)

const sessionKey = "session_user_id"

// Users is the part of the store the session needs.
type Users interface {
	EnsureUser(ctx context.Context, email string) (*store.User, error)
	GetUser(ctx context.Context, id string) (*store.User, error)
}

// Listener is called with the new user, or nil after sign-out.
type Listener func(*store.User)

type Session struct {
	users Users
	kv    cache.KV
	log   zerolog.Logger

	mu        sync.Mutex
	current   *store.User
	listeners []Listener
}

func NewSession(users Users, kv cache.KV) *Session {
	return &Session{users: users, kv: kv, log: logging.Component("auth")}
}

// Current returns the signed-in user, if any.
func (s *Session) Current() (*store.User, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.current, s.current != nil
}

// Subscribe registers fn to run whenever the signed-in identity changes.
func (s *Session) Subscribe(fn Listener) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.listeners = append(s.listeners, fn)
}

// Restore signs back in the user remembered in the cache. It returns
// (nil, nil) when nobody is remembered.
func (s *Session) Restore(ctx context.Context) (*store.User, error) {
	id := cache.GetOr(ctx, s.kv, sessionKey, "")
	if id == "" {
		return nil, nil
	}
	u, err := s.users.GetUser(ctx, id)
	if errors.Is(err, store.ErrNotFound) {
		_ = s.kv.Remove(ctx, sessionKey)
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("restore session: %w", err)
	}
	s.set(u)
	return u, nil
}

// SignIn registers email on first use and makes it the current user.
func (s *Session) SignIn(ctx context.Context, email string) (*store.User, error) {
	if err := criterio.Run("email", email, validEmail); err != nil {
		return nil, err
	}
	u, err := s.users.EnsureUser(ctx, email)
	if err != nil {
		return nil, fmt.Errorf("sign in: %w", err)
	}
	if err := s.kv.Set(ctx, sessionKey, u.ID); err != nil {
		s.log.Warn().Err(err).Msg("could not remember session")
	}
	s.log.Info().Ctx(logging.WithUserID(ctx, u.ID)).Msg("signed in")
	s.set(u)
	return u, nil
}

// SignOut forgets the current user.
func (s *Session) SignOut(ctx context.Context) error {
	if err := s.kv.Remove(ctx, sessionKey); err != nil {
		return fmt.Errorf("sign out: %w", err)
	}
	s.set(nil)
	return nil
}

func (s *Session) set(u *store.User) {
	s.mu.Lock()
	changed := idOf(s.current) != idOf(u)
	s.current = u
	listeners := make([]Listener, len(s.listeners))
	copy(listeners, s.listeners)
	s.mu.Unlock()

	if !changed {
		return
	}
	for _, fn := range listeners {
		fn(u)
	}
}

func idOf(u *store.User) string {
	if u == nil {
		return ""
	}
	return u.ID
}

func validEmail(email string) error {
	if strings.TrimSpace(email) == "" {
		return fmt.Errorf("email is required")
	}
	if _, err := mail.ParseAddress(email); err != nil {
		return fmt.Errorf("invalid email %q", email)
	}
	return nil
}
