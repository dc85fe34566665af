package catalog

import (
	"compress/gzip"
	"encoding/json"
	"fmt"
	"io"

	"storefront-checkout/internal/model"
)

// WriteSnapshot writes products as gzipped JSON lines, the format read by the
// file and S3 loaders.
func WriteSnapshot(w io.Writer, products []model.Product) error {
	gzipWriter := gzip.NewWriter(w)
	enc := json.NewEncoder(gzipWriter)

	for _, p := range products {
		if err := enc.Encode(p); err != nil {
			gzipWriter.Close()
			return fmt.Errorf("failed to write product %s: %w", p.ID, err)
		}
	}

	if err := gzipWriter.Close(); err != nil {
		return fmt.Errorf("failed to flush snapshot: %w", err)
	}
	return nil
}
