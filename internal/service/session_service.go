package service

import (
	"context"

	"storefront-checkout/internal/auth"
	"storefront-checkout/internal/model"
)

// sessionService implements SessionService.
type sessionService struct {
	authenticator *auth.Authenticator
	store         *auth.Store
}

// NewSessionService creates a new session service.
func NewSessionService(authenticator *auth.Authenticator, store *auth.Store) SessionService {
	return &sessionService{authenticator: authenticator, store: store}
}

func (s *sessionService) Login(ctx context.Context, creds model.Credentials) error {
	return s.authenticator.Authenticate(ctx, creds, true)
}

func (s *sessionService) Register(ctx context.Context, creds model.Credentials) error {
	return s.authenticator.Authenticate(ctx, creds, false)
}

func (s *sessionService) Logout(ctx context.Context) error {
	return s.authenticator.Logout(ctx)
}

func (s *sessionService) State(ctx context.Context) auth.State {
	return s.store.State()
}
