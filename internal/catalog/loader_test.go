package catalog

import (
	"compress/gzip"
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"testing"

	"storefront-checkout/internal/model"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// createTestSnapshot creates a gzipped catalogue snapshot from raw lines.
func createTestSnapshot(t *testing.T, filename string, lines []string) string {
	t.Helper()

	tmpDir := t.TempDir()
	filePath := filepath.Join(tmpDir, filename)

	file, err := os.Create(filePath)
	require.NoError(t, err)
	defer file.Close()

	gzipWriter := gzip.NewWriter(file)
	defer gzipWriter.Close()

	for _, line := range lines {
		_, err := gzipWriter.Write([]byte(line + "\n"))
		require.NoError(t, err)
	}

	return filePath
}

func productLine(t *testing.T, p model.Product) string {
	t.Helper()
	b, err := json.Marshal(p)
	require.NoError(t, err)
	return string(b)
}

func TestFileLoader_Load_Success(t *testing.T) {
	loader := NewFileLoader(zerolog.Nop())

	products := []model.Product{
		{ID: "food_1", Name: "Greek salad", Description: "Fresh", Price: 12, Category: "Salad", Image: "food_1.png"},
		{ID: "food_2", Name: "Veg salad", Price: 18, Category: "Salad"},
		{ID: "food_3", Name: "Clover Salad", Price: 16, Category: "Salad"},
	}
	lines := make([]string, 0, len(products))
	for _, p := range products {
		lines = append(lines, productLine(t, p))
	}

	filePath := createTestSnapshot(t, "catalog.jsonl.gz", lines)

	c, err := loader.Load(context.Background(), filePath)

	require.NoError(t, err)
	require.NotNil(t, c)
	assert.Equal(t, 3, c.Len())
	assert.Equal(t, products, c.Products())
}

func TestFileLoader_Load_WireFieldNames(t *testing.T) {
	loader := NewFileLoader(zerolog.Nop())

	filePath := createTestSnapshot(t, "catalog.jsonl.gz", []string{
		`{"_id":"food_9","name":"Pasta","price":7.5,"category":"Pasta","image":"p.png","description":"al dente"}`,
	})

	c, err := loader.Load(context.Background(), filePath)
	require.NoError(t, err)

	p, ok := c.Lookup("food_9")
	require.True(t, ok)
	assert.Equal(t, 7.5, p.Price)
	assert.Equal(t, "al dente", p.Description)
}

func TestFileLoader_Load_SkipsBlankAndInvalidEntries(t *testing.T) {
	loader := NewFileLoader(zerolog.Nop())

	filePath := createTestSnapshot(t, "catalog.jsonl.gz", []string{
		`{"_id":"a","name":"A","price":1}`,
		"",
		"   ",
		`{"_id":"","name":"no id","price":1}`,
		`{"_id":"neg","name":"negative","price":-3}`,
		`{"_id":"b","name":"B","price":0}`,
	})

	c, err := loader.Load(context.Background(), filePath)

	require.NoError(t, err)
	assert.Equal(t, 2, c.Len())
	_, ok := c.Lookup("neg")
	assert.False(t, ok)
	_, ok = c.Lookup("b")
	assert.True(t, ok, "zero price is a valid price")
}

func TestFileLoader_Load_MalformedLine(t *testing.T) {
	loader := NewFileLoader(zerolog.Nop())

	filePath := createTestSnapshot(t, "catalog.jsonl.gz", []string{
		`{"_id":"a","name":"A","price":1}`,
		`{not json`,
	})

	c, err := loader.Load(context.Background(), filePath)

	require.Error(t, err)
	assert.Nil(t, c)
	assert.Contains(t, err.Error(), "line 2")
}

func TestFileLoader_Load_FileNotFound(t *testing.T) {
	loader := NewFileLoader(zerolog.Nop())

	c, err := loader.Load(context.Background(), "/nonexistent/path/to/catalog.gz")

	require.Error(t, err)
	assert.Nil(t, c)
	assert.Contains(t, err.Error(), "failed to open catalog snapshot")
}

func TestFileLoader_Load_InvalidGzip(t *testing.T) {
	loader := NewFileLoader(zerolog.Nop())

	filePath := filepath.Join(t.TempDir(), "invalid.gz")
	require.NoError(t, os.WriteFile(filePath, []byte("not a gzip file"), 0644))

	c, err := loader.Load(context.Background(), filePath)

	require.Error(t, err)
	assert.Nil(t, c)
	assert.Contains(t, err.Error(), "failed to create gzip reader")
}

func TestFileLoader_Load_ContextCancelled(t *testing.T) {
	loader := NewFileLoader(zerolog.Nop())

	filePath := createTestSnapshot(t, "catalog.jsonl.gz", []string{`{"_id":"a","name":"A","price":1}`})

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	c, err := loader.Load(ctx, filePath)

	require.Error(t, err)
	assert.ErrorIs(t, err, context.Canceled)
	assert.Nil(t, c)
}

func TestFileLoader_Load_LargeFile(t *testing.T) {
	if testing.Short() {
		t.Skip("Skipping large file test in short mode")
	}

	loader := NewFileLoader(zerolog.Nop())

	lines := make([]string, 50_000)
	for i := range lines {
		lines[i] = fmt.Sprintf(`{"_id":"food_%06d","name":"Dish %d","price":%d}`, i, i, i%40)
	}

	filePath := createTestSnapshot(t, "large.jsonl.gz", lines)

	c, err := loader.Load(context.Background(), filePath)

	require.NoError(t, err)
	assert.Equal(t, 50_000, c.Len())
	_, ok := c.Lookup("food_049999")
	assert.True(t, ok)
}
