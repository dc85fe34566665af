package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"storefront-checkout/internal/api"
	"storefront-checkout/internal/auth"
	"storefront-checkout/internal/cart"
	"storefront-checkout/internal/catalog"
	"storefront-checkout/internal/checkout"
	"storefront-checkout/internal/config"
	"storefront-checkout/internal/database"
	"storefront-checkout/internal/effect"
	"storefront-checkout/internal/handler"
	"storefront-checkout/internal/metrics"
	"storefront-checkout/internal/repository"
	"storefront-checkout/internal/router"
	"storefront-checkout/internal/service"
	"storefront-checkout/internal/tokenstore"

	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}

	logger := config.NewLogger(cfg.Logger)
	logger.Info().Msg("starting storefront checkout session")

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	reg := metrics.NewRegistry()
	recorder := effect.NewRecorder()

	// Session token and auth state
	storage, err := tokenstore.Open(ctx, cfg.TokenStore, logger)
	if err != nil {
		return fmt.Errorf("failed to open token store: %w", err)
	}
	defer storage.Close()

	authStore, err := auth.NewStore(ctx, storage, logger)
	if err != nil {
		return fmt.Errorf("failed to restore session: %w", err)
	}
	authStore.Subscribe(func(_ context.Context, t auth.Transition, _ auth.State) {
		reg.AuthTransition(string(t))
	})

	// Read-only catalogue
	cat, err := loadCatalog(ctx, cfg, logger)
	if err != nil {
		return fmt.Errorf("failed to load catalog: %w", err)
	}

	cartStore := cart.NewStore(cat, logger)
	deliveryCharge := decimal.NewFromFloat(cfg.Checkout.DeliveryCharge)

	// Remote storefront API
	client := api.NewClient(cfg.API, cfg.Breaker, reg, logger)
	authenticator := auth.NewAuthenticator(client, authStore, recorder, logger)

	guard := checkout.NewGuard(authStore, cartStore, recorder, recorder, reg, logger)
	stopGuard := guard.Watch()
	defer stopGuard()

	// Services
	catalogService := service.NewCatalogService(cat, logger)
	cartService := service.NewCartService(cartStore, deliveryCharge, cfg.Checkout.Currency, logger)
	sessionService := service.NewSessionService(authenticator, authStore)
	orderService := service.NewOrderService(service.OrderServiceDeps{
		Placer:         client,
		Tokens:         authStore,
		Cart:           cartStore,
		Form:           checkout.NewAddressForm(),
		Guard:          guard,
		Notifier:       recorder,
		Navigator:      recorder,
		DeliveryCharge: deliveryCharge,
		Currency:       cfg.Checkout.Currency,
		Metrics:        reg,
	}, logger)

	// HTTP surface
	mux := router.New(router.Handlers{
		Session:  handler.NewSessionHandler(sessionService, recorder, logger),
		Catalog:  handler.NewCatalogHandler(catalogService, recorder, logger),
		Cart:     handler.NewCartHandler(cartService, recorder, logger),
		Checkout: handler.NewCheckoutHandler(orderService, guard, recorder, logger),
	}, cfg.Server, reg, logger)

	server := &http.Server{
		Addr:         cfg.Server.Address(),
		Handler:      mux,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: writeTimeout(cfg.API),
		IdleTimeout:  60 * time.Second,
	}

	// Channel to listen for errors from the server
	serverErrors := make(chan error, 1)

	go func() {
		logger.Info().
			Str("address", cfg.Server.Address()).
			Int("products", cat.Len()).
			Bool("signed_in", authStore.Token() != "").
			Msg("HTTP server started")
		serverErrors <- server.ListenAndServe()
	}()

	// Channel to listen for interrupt signals
	shutdown := make(chan os.Signal, 1)
	signal.Notify(shutdown, os.Interrupt, syscall.SIGTERM)

	// Block until we receive a signal or an error
	select {
	case err := <-serverErrors:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return fmt.Errorf("server error: %w", err)

	case sig := <-shutdown:
		logger.Info().
			Str("signal", sig.String()).
			Msg("shutdown signal received, starting graceful shutdown")

		shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer shutdownCancel()

		// An order in flight is allowed to settle within the shutdown window.
		if err := server.Shutdown(shutdownCtx); err != nil {
			logger.Error().Err(err).Msg("failed to shutdown server gracefully")
			if closeErr := server.Close(); closeErr != nil {
				logger.Error().Err(closeErr).Msg("failed to close server")
			}
			return fmt.Errorf("server shutdown failed: %w", err)
		}

		logger.Info().Msg("server shutdown completed")
	}

	return nil
}

// loadCatalog reads the catalogue snapshot from the configured source.
func loadCatalog(ctx context.Context, cfg *config.Config, logger zerolog.Logger) (*catalog.Catalog, error) {
	switch cfg.Catalog.Source {
	case config.CatalogSourcePostgres:
		pool, err := database.NewCatalogPool(ctx, cfg.Database, logger)
		if err != nil {
			return nil, err
		}
		// The pool is only needed for the startup snapshot.
		defer pool.Close()

		repo := repository.NewProductRepository(pool, logger)
		return catalog.NewRepositoryLoader(repo, cfg.Catalog.PageSize, logger).Load(ctx, cfg.Catalog.Category)

	case config.CatalogSourceS3:
		local := catalog.NewFileLoader(logger)
		remote, err := catalog.NewS3Loader(ctx, cfg.S3.Bucket, cfg.S3.Region, logger)
		if err != nil {
			logger.Warn().
				Err(err).
				Msg("failed to initialise S3 loader, falling back to local file system only")
			remote = nil
		}
		return catalog.NewFallbackLoader(remote, local, cfg.S3.Prefix, logger).Load(ctx, cfg.Catalog.Location)

	default:
		return catalog.NewFileLoader(logger).Load(ctx, cfg.Catalog.Location)
	}
}

// writeTimeout leaves room for a bounded order request; an unbounded one
// disables the write deadline.
func writeTimeout(cfg config.APIConfig) time.Duration {
	if cfg.Timeout() == 0 {
		return 0
	}
	return cfg.Timeout() + 15*time.Second
}
