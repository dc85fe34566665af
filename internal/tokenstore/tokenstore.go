// Package tokenstore persists the shopper's authentication token across
// sessions. Every backend holds at most one value under the key "token".
package tokenstore

import (
	"context"
	"fmt"

	"storefront-checkout/internal/config"

	"github.com/rs/zerolog"
)

// Key is the durable storage key of the authentication token.
const Key = "token"

// Storage is durable client storage for the authentication token.
type Storage interface {
	// Load returns the stored token. ok is false when no token is stored.
	Load(ctx context.Context) (token string, ok bool, err error)

	// Save replaces the stored token.
	Save(ctx context.Context, token string) error

	// Delete removes the stored token. Deleting an absent token is not an error.
	Delete(ctx context.Context) error

	Close() error
}

// Open creates the storage backend selected by cfg.
func Open(ctx context.Context, cfg config.TokenStoreConfig, logger zerolog.Logger) (Storage, error) {
	logger = logger.With().Str("component", "token-store").Str("backend", cfg.Backend).Logger()

	var (
		s   Storage
		err error
	)
	switch cfg.Backend {
	case config.TokenStoreMemory:
		s = NewMemory()
	case config.TokenStoreFile:
		s, err = NewFile(cfg.FilePath)
	case config.TokenStorePebble:
		s, err = NewPebble(cfg.PebbleDir)
	case config.TokenStoreRedis:
		s, err = NewRedis(ctx, cfg.RedisAddr, cfg.RedisDB, cfg.RedisKey)
	default:
		return nil, fmt.Errorf("unknown token store backend: %s", cfg.Backend)
	}
	if err != nil {
		logger.Error().Err(err).Msg("failed to open token store")
		return nil, fmt.Errorf("failed to open %s token store: %w", cfg.Backend, err)
	}

	logger.Info().Msg("token store opened")
	return s, nil
}

// Mask shortens a token for log output.
func Mask(token string) string {
	if len(token) <= 8 {
		return "****"
	}
	return token[:4] + "****" + token[len(token)-4:]
}
