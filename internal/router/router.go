package router

import (
	"net/http"

	"storefront-checkout/internal/config"
	"storefront-checkout/internal/handler"
	"storefront-checkout/internal/metrics"
	"storefront-checkout/internal/middleware"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/rs/zerolog"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
)

// Handlers groups the HTTP handlers mounted by the router.
type Handlers struct {
	Session  *handler.SessionHandler
	Catalog  *handler.CatalogHandler
	Cart     *handler.CartHandler
	Checkout *handler.CheckoutHandler
}

// New creates a new HTTP router with all routes and middleware configured.
func New(h Handlers, cfg config.ServerConfig, reg *metrics.Registry, logger zerolog.Logger) http.Handler {
	r := chi.NewRouter()

	// Recovery -> RequestID -> Logging -> CORS -> APIKeyAuth -> EffectScope
	r.Use(middleware.Recovery(logger))
	r.Use(chimw.RequestID)
	r.Use(middleware.Logging(logger))
	r.Use(middleware.CORS(cfg.AllowedOrigin))
	r.Use(middleware.APIKeyAuth(cfg.APIKey, logger))
	r.Use(middleware.EffectScope)

	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		w.Write([]byte(`{"status": "healthy"}`))
	})
	r.Method(http.MethodGet, "/metrics", reg.Handler())

	r.Route("/api", func(r chi.Router) {
		r.Route("/session", func(r chi.Router) {
			r.Get("/", h.Session.Get)
			r.Post("/login", h.Session.Login)
			r.Post("/register", h.Session.Register)
			r.Post("/logout", h.Session.Logout)
		})

		r.Route("/catalog", func(r chi.Router) {
			r.Get("/", h.Catalog.GetAll)
			r.Get("/{id}", h.Catalog.GetByID)
		})

		r.Route("/cart", func(r chi.Router) {
			r.Get("/", h.Cart.Get)
			r.Delete("/", h.Cart.Clear)
			r.Post("/items/{id}", h.Cart.Add)
			r.Put("/items/{id}", h.Cart.SetQuantity)
			r.Delete("/items/{id}", h.Cart.Remove)
		})

		r.Route("/checkout", func(r chi.Router) {
			r.Get("/", h.Checkout.Get)
			r.Put("/address", h.Checkout.SetAddress)
			r.Put("/payment", h.Checkout.SetPayment)
			r.Post("/submit", h.Checkout.Submit)
		})
	})

	return otelhttp.NewHandler(r, "storefront-session",
		otelhttp.WithFilter(func(req *http.Request) bool {
			return req.URL.Path != "/health" && req.URL.Path != "/metrics"
		}),
	)
}
