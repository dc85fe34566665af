package tokenstore

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"storefront-checkout/internal/config"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// exerciseStorage runs the behaviour every backend shares.
func exerciseStorage(t *testing.T, s Storage) {
	t.Helper()
	ctx := context.Background()

	_, ok, err := s.Load(ctx)
	require.NoError(t, err)
	assert.False(t, ok, "fresh store holds no token")

	require.NoError(t, s.Save(ctx, "tok-123"))
	token, ok, err := s.Load(ctx)
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, "tok-123", token)

	require.NoError(t, s.Save(ctx, "tok-456"))
	token, _, err = s.Load(ctx)
	require.NoError(t, err)
	assert.Equal(t, "tok-456", token)

	require.NoError(t, s.Delete(ctx))
	_, ok, err = s.Load(ctx)
	require.NoError(t, err)
	assert.False(t, ok)

	require.NoError(t, s.Delete(ctx), "deleting an absent token is a no-op")
}

func TestMemory(t *testing.T) {
	exerciseStorage(t, NewMemory())
}

func TestFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "session", "token")

	s, err := NewFile(path)
	require.NoError(t, err)
	exerciseStorage(t, s)
}

func TestFile_PersistsAcrossInstances(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "token")

	first, err := NewFile(path)
	require.NoError(t, err)
	require.NoError(t, first.Save(ctx, "persisted"))

	info, err := os.Stat(path)
	require.NoError(t, err)
	assert.Equal(t, os.FileMode(0o600), info.Mode().Perm())

	second, err := NewFile(path)
	require.NoError(t, err)
	token, ok, err := second.Load(ctx)
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, "persisted", token)
}

func TestFile_EmptyPath(t *testing.T) {
	_, err := NewFile("")
	assert.Error(t, err)
}

func TestPebble(t *testing.T) {
	s, err := NewPebble(t.TempDir())
	require.NoError(t, err)
	defer s.Close()

	exerciseStorage(t, s)
}

func TestPebble_PersistsAcrossReopen(t *testing.T) {
	ctx := context.Background()
	dir := t.TempDir()

	s, err := NewPebble(dir)
	require.NoError(t, err)
	require.NoError(t, s.Save(ctx, "durable"))
	require.NoError(t, s.Close())

	s, err = NewPebble(dir)
	require.NoError(t, err)
	defer s.Close()

	token, ok, err := s.Load(ctx)
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, "durable", token)
}

func getRedisClient(t *testing.T) *redis.Client {
	addr := os.Getenv("REDIS_ADDR")
	if addr == "" {
		addr = "localhost:6379"
	}

	client := redis.NewClient(&redis.Options{Addr: addr})
	if err := client.Ping(context.Background()).Err(); err != nil {
		t.Skipf("Redis not available: %v", err)
	}
	return client
}

func TestRedis(t *testing.T) {
	client := getRedisClient(t)
	defer client.Close()

	key := "storefront:test:token"
	client.Del(context.Background(), key)

	exerciseStorage(t, NewRedisWithClient(client, key))
}

func TestOpen(t *testing.T) {
	ctx := context.Background()
	dir := t.TempDir()

	tests := []struct {
		name        string
		cfg         config.TokenStoreConfig
		expectError bool
	}{
		{
			name: "memory",
			cfg:  config.TokenStoreConfig{Backend: config.TokenStoreMemory},
		},
		{
			name: "file",
			cfg:  config.TokenStoreConfig{Backend: config.TokenStoreFile, FilePath: filepath.Join(dir, "token")},
		},
		{
			name: "pebble",
			cfg:  config.TokenStoreConfig{Backend: config.TokenStorePebble, PebbleDir: filepath.Join(dir, "pebble")},
		},
		{
			name:        "unknown backend",
			cfg:         config.TokenStoreConfig{Backend: "cookie"},
			expectError: true,
		},
		{
			name:        "file without path",
			cfg:         config.TokenStoreConfig{Backend: config.TokenStoreFile},
			expectError: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s, err := Open(ctx, tt.cfg, zerolog.Nop())

			if tt.expectError {
				require.Error(t, err)
				assert.Nil(t, s)
				return
			}
			require.NoError(t, err)
			require.NotNil(t, s)
			assert.NoError(t, s.Close())
		})
	}
}

func TestMask(t *testing.T) {
	assert.Equal(t, "****", Mask("short"))
	assert.Equal(t, "abcd****wxyz", Mask("abcdefghijklmnopqrstuvwxyz"))
}
