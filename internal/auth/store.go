// Package auth owns the shopper's authentication token.
package auth

import (
	"context"
	"fmt"
	"sync"

	"storefront-checkout/internal/tokenstore"

	"github.com/rs/zerolog"
)

// Transition names an AuthStore state change.
type Transition string

const (
	TransitionLoginSuccess Transition = "LOGIN_SUCCESS"
	TransitionLoginFailure Transition = "LOGIN_FAILURE"
	TransitionLogout       Transition = "LOGOUT"
)

// State is a snapshot of the store.
type State struct {
	Token string `json:"-"`
	Error string `json:"error,omitempty"`
}

// Authenticated reports whether a token is held.
func (s State) Authenticated() bool {
	return s.Token != ""
}

// Store holds the token in memory and keeps durable storage in step with it.
// Storage is written first; if that fails the transition is rejected and
// memory keeps its previous value.
type Store struct {
	mu      sync.RWMutex
	storage tokenstore.Storage
	state   State
	subs    map[int]func(context.Context, Transition, State)
	nextSub int
	logger  zerolog.Logger
}

// NewStore creates a store initialised from durable storage.
func NewStore(ctx context.Context, storage tokenstore.Storage, logger zerolog.Logger) (*Store, error) {
	logger = logger.With().Str("component", "auth-store").Logger()

	token, ok, err := storage.Load(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load persisted token: %w", err)
	}

	s := &Store{
		storage: storage,
		subs:    make(map[int]func(context.Context, Transition, State)),
		logger:  logger,
	}
	if ok {
		s.state.Token = token
	}

	logger.Info().Bool("authenticated", s.state.Authenticated()).Msg("auth store initialised")
	return s, nil
}

// LoginSuccess stores token and clears any recorded error.
func (s *Store) LoginSuccess(ctx context.Context, token string) error {
	s.mu.Lock()
	if err := s.storage.Save(ctx, token); err != nil {
		s.mu.Unlock()
		s.logger.Error().Err(err).Msg("failed to persist token")
		return fmt.Errorf("failed to persist token: %w", err)
	}
	s.state = State{Token: token}
	s.mu.Unlock()

	s.logger.Info().Str("token", tokenstore.Mask(token)).Msg("logged in")
	s.notify(ctx, TransitionLoginSuccess)
	return nil
}

// LoginFailure records message. The token is left as it was.
func (s *Store) LoginFailure(ctx context.Context, message string) {
	s.mu.Lock()
	s.state.Error = message
	s.mu.Unlock()

	s.logger.Warn().Str("reason", message).Msg("login failed")
	s.notify(ctx, TransitionLoginFailure)
}

// Logout removes the token from storage and memory.
func (s *Store) Logout(ctx context.Context) error {
	s.mu.Lock()
	if err := s.storage.Delete(ctx); err != nil {
		s.mu.Unlock()
		s.logger.Error().Err(err).Msg("failed to remove persisted token")
		return fmt.Errorf("failed to remove persisted token: %w", err)
	}
	s.state = State{}
	s.mu.Unlock()

	s.logger.Info().Msg("logged out")
	s.notify(ctx, TransitionLogout)
	return nil
}

// Token returns the current token, or "" when anonymous.
func (s *Store) Token() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.state.Token
}

// State returns a snapshot of the store.
func (s *Store) State() State {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.state
}

// Subscribe registers fn to run after every transition, outside the store
// lock, with the context of the call that caused it. The returned function removes the subscription.
func (s *Store) Subscribe(fn func(context.Context, Transition, State)) func() {
	s.mu.Lock()
	id := s.nextSub
	s.nextSub++
	s.subs[id] = fn
	s.mu.Unlock()

	return func() {
		s.mu.Lock()
		delete(s.subs, id)
		s.mu.Unlock()
	}
}

func (s *Store) notify(ctx context.Context, t Transition) {
	s.mu.RLock()
	state := s.state
	subs := make([]func(context.Context, Transition, State), 0, len(s.subs))
	for _, fn := range s.subs {
		subs = append(subs, fn)
	}
	s.mu.RUnlock()

	for _, fn := range subs {
		fn(ctx, t, state)
	}
}
