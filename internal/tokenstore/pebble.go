package tokenstore

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"

	"github.com/cockroachdb/pebble"
)

// Pebble stores the token in an embedded Pebble database.
type Pebble struct {
	db *pebble.DB
}

// NewPebble opens (or creates) the database in dir.
func NewPebble(dir string) (*Pebble, error) {
	db, err := pebble.Open(filepath.Clean(dir), &pebble.Options{})
	if err != nil {
		return nil, fmt.Errorf("pebble open: %w", err)
	}
	return &Pebble{db: db}, nil
}

func (p *Pebble) Load(ctx context.Context) (string, bool, error) {
	v, closer, err := p.db.Get([]byte(Key))
	if errors.Is(err, pebble.ErrNotFound) {
		return "", false, nil
	}
	if err != nil {
		return "", false, fmt.Errorf("pebble get: %w", err)
	}
	// v is only valid until closer is closed.
	token := string(v)
	_ = closer.Close()
	return token, true, nil
}

func (p *Pebble) Save(ctx context.Context, token string) error {
	if err := p.db.Set([]byte(Key), []byte(token), pebble.Sync); err != nil {
		return fmt.Errorf("pebble set: %w", err)
	}
	return nil
}

func (p *Pebble) Delete(ctx context.Context) error {
	if err := p.db.Delete([]byte(Key), pebble.Sync); err != nil {
		return fmt.Errorf("pebble delete: %w", err)
	}
	return nil
}

func (p *Pebble) Close() error { return p.db.Close() }
