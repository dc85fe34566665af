// Command gencatalog writes a sample menu as a gzipped JSON-lines catalogue
// snapshot and, with -seed-postgres, loads the same menu into the products
// table.
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"path/filepath"

	"storefront-checkout/internal/catalog"
	"storefront-checkout/internal/config"
	"storefront-checkout/internal/database"
	"storefront-checkout/internal/model"
	"storefront-checkout/internal/repository"

	"github.com/jackc/pgx/v5"
	"github.com/rs/zerolog"
)

var sampleMenu = []model.Product{
	{ID: "food-01", Name: "Greek salad", Description: "Tomato, cucumber, feta and olives", Price: 12, Category: "Salad", Image: "food_1.png"},
	{ID: "food-02", Name: "Veg salad", Description: "Seasonal greens with a lemon dressing", Price: 18, Category: "Salad", Image: "food_2.png"},
	{ID: "food-05", Name: "Lasagna rolls", Description: "Baked pasta rolls with ricotta", Price: 14, Category: "Rolls", Image: "food_5.png"},
	{ID: "food-06", Name: "Peri peri rolls", Description: "Spiced chicken wrapped to go", Price: 12, Category: "Rolls", Image: "food_6.png"},
	{ID: "food-09", Name: "Ripple ice cream", Description: "Vanilla with a berry ripple", Price: 14, Category: "Deserts", Image: "food_9.png"},
	{ID: "food-13", Name: "Chicken sandwich", Description: "Grilled chicken on sourdough", Price: 12, Category: "Sandwich", Image: "food_13.png"},
	{ID: "food-17", Name: "Cup cake", Description: "Chocolate sponge with buttercream", Price: 14, Category: "Cake", Image: "food_17.png"},
	{ID: "food-21", Name: "Garlic mushroom", Description: "Pan fried with herbs", Price: 14, Category: "Pure Veg", Image: "food_21.png"},
	{ID: "food-25", Name: "Cheese pasta", Description: "Penne in a three cheese sauce", Price: 12, Category: "Pasta", Image: "food_25.png"},
	{ID: "food-29", Name: "Butter noodles", Description: "Wok tossed with spring onion", Price: 14, Category: "Noodles", Image: "food_29.png"},
}

func main() {
	out := flag.String("out", "data/catalog/catalog.jsonl.gz", "snapshot file to write")
	seed := flag.Bool("seed-postgres", false, "also load the menu into the products table (DB_* settings)")
	flag.Parse()

	logger := config.NewLogger(config.LoggerConfig{Level: "info", Format: "console"})

	if err := writeSnapshot(*out); err != nil {
		logger.Fatal().Err(err).Str("path", *out).Msg("failed to write catalogue snapshot")
	}
	logger.Info().Str("path", *out).Int("products", len(sampleMenu)).Msg("catalogue snapshot written")

	if *seed {
		cfg, err := config.Load()
		if err != nil {
			logger.Fatal().Err(err).Msg("failed to load configuration")
		}
		ctx := context.Background()
		if err := seedPostgres(ctx, cfg.Database, logger); err != nil {
			logger.Fatal().Err(err).Msg("failed to seed products table")
		}
		if err := verifySeed(ctx, cfg.Database, logger); err != nil {
			logger.Fatal().Err(err).Msg("seeded menu is not visible to the storefront")
		}
	}
}

func writeSnapshot(path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("failed to create directory: %w", err)
	}

	file, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create file: %w", err)
	}
	defer file.Close()

	return catalog.WriteSnapshot(file, sampleMenu)
}

const schema = `
	CREATE TABLE IF NOT EXISTS products (
		id TEXT PRIMARY KEY,
		name TEXT NOT NULL,
		description TEXT,
		price DECIMAL(10,2) NOT NULL CHECK (price >= 0),
		category TEXT NOT NULL,
		image TEXT,
		created_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
	);
	CREATE INDEX IF NOT EXISTS idx_products_category ON products(category);
`

// seedPostgres replaces the products table content with the sample menu.
// The storefront itself only ever reads the table.
func seedPostgres(ctx context.Context, cfg config.DatabaseConfig, logger zerolog.Logger) error {
	conn, err := pgx.Connect(ctx, cfg.ConnectionString())
	if err != nil {
		return fmt.Errorf("unable to connect: %w", err)
	}
	defer conn.Close(ctx)

	return pgx.BeginFunc(ctx, conn, func(tx pgx.Tx) error {
		if _, err := tx.Exec(ctx, schema); err != nil {
			return fmt.Errorf("failed to create schema: %w", err)
		}
		if _, err := tx.Exec(ctx, "TRUNCATE products"); err != nil {
			return fmt.Errorf("failed to truncate products: %w", err)
		}

		rows := make([][]any, 0, len(sampleMenu))
		for _, p := range sampleMenu {
			rows = append(rows, []any{p.ID, p.Name, p.Description, p.Price, p.Category, p.Image})
		}

		n, err := tx.CopyFrom(ctx,
			pgx.Identifier{"products"},
			[]string{"id", "name", "description", "price", "category", "image"},
			pgx.CopyFromRows(rows),
		)
		if err != nil {
			return fmt.Errorf("failed to copy products: %w", err)
		}

		logger.Info().Int64("rows", n).Str("database", cfg.Database).Msg("products table seeded")
		return nil
	})
}

// verifySeed reads the sample menu back through the storefront's read-only
// catalogue session.
func verifySeed(ctx context.Context, cfg config.DatabaseConfig, logger zerolog.Logger) error {
	pool, err := database.NewCatalogPool(ctx, cfg, logger)
	if err != nil {
		return err
	}
	defer pool.Close()

	ids := make([]string, len(sampleMenu))
	for i, p := range sampleMenu {
		ids[i] = p.ID
	}

	missing, err := catalog.MissingProducts(ctx, repository.NewProductRepository(pool, logger), ids)
	if err != nil {
		return err
	}
	if len(missing) > 0 {
		return fmt.Errorf("products missing after seed: %v", missing)
	}

	logger.Info().Int("products", len(ids)).Msg("seeded menu verified")
	return nil
}
