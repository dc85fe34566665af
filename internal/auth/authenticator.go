package auth

import (
	"context"

	"storefront-checkout/internal/effect"
	"storefront-checkout/internal/model"

	"github.com/rs/zerolog"
)

// Shopper-facing notices.
const (
	NoticeLoggedIn   = "Successfully logged in!"
	NoticeAuthFailed = "Something went wrong. Please try again."
)

// Client performs the remote identity calls.
type Client interface {
	Login(ctx context.Context, creds model.Credentials) (*model.AuthResponse, error)
	Register(ctx context.Context, creds model.Credentials) (*model.AuthResponse, error)
}

// Authenticator logs the shopper in or registers them and updates the Store.
type Authenticator struct {
	client   Client
	store    *Store
	notifier effect.Notifier
	logger   zerolog.Logger
}

// NewAuthenticator creates a new authenticator.
func NewAuthenticator(client Client, store *Store, notifier effect.Notifier, logger zerolog.Logger) *Authenticator {
	return &Authenticator{
		client:   client,
		store:    store,
		notifier: notifier,
		logger:   logger.With().Str("service", "authenticator").Logger(),
	}
}

// Authenticate calls the login endpoint when isLogin is true and the register
// endpoint otherwise. Remote rejections are reported through the notifier and
// recorded on the store; the returned error is reserved for storage failures.
func (a *Authenticator) Authenticate(ctx context.Context, creds model.Credentials, isLogin bool) error {
	call := a.client.Register
	action := "register"
	if isLogin {
		call = a.client.Login
		action = "login"
	}

	logger := a.logger.With().Str("action", action).Str("email", creds.Email).Logger()

	resp, err := call(ctx, creds)
	if err != nil {
		logger.Error().Err(err).Msg("identity request failed")
		a.notifier.Error(ctx, NoticeAuthFailed)
		a.store.LoginFailure(ctx, err.Error())
		return nil
	}

	if !resp.Success {
		logger.Warn().Str("message", resp.Message).Msg("identity request rejected")
		a.notifier.Error(ctx, resp.Message)
		a.store.LoginFailure(ctx, resp.Message)
		return nil
	}

	if resp.Token == "" {
		logger.Error().Msg("identity reply carried no token")
		a.notifier.Error(ctx, NoticeAuthFailed)
		a.store.LoginFailure(ctx, "identity reply carried no token")
		return nil
	}

	if err := a.store.LoginSuccess(ctx, resp.Token); err != nil {
		a.notifier.Error(ctx, NoticeAuthFailed)
		return err
	}

	a.notifier.Success(ctx, NoticeLoggedIn)
	return nil
}

// Logout clears the token.
func (a *Authenticator) Logout(ctx context.Context) error {
	return a.store.Logout(ctx)
}
