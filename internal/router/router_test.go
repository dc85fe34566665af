package router

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"sync/atomic"
	"testing"

	"storefront-checkout/internal/api"
	"storefront-checkout/internal/auth"
	"storefront-checkout/internal/cart"
	"storefront-checkout/internal/catalog"
	"storefront-checkout/internal/checkout"
	"storefront-checkout/internal/config"
	"storefront-checkout/internal/effect"
	"storefront-checkout/internal/handler"
	"storefront-checkout/internal/metrics"
	"storefront-checkout/internal/model"
	"storefront-checkout/internal/service"
	"storefront-checkout/internal/tokenstore"

	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeStorefront struct {
	server *httptest.Server
	orders atomic.Int32
}

func newFakeStorefront(t *testing.T) *fakeStorefront {
	f := &fakeStorefront{}
	mux := http.NewServeMux()
	mux.HandleFunc(model.EndpointLogin, func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(model.AuthResponse{Success: true, Token: "tok-abcdef123456"})
	})
	mux.HandleFunc("/api/order/placecod", func(w http.ResponseWriter, r *http.Request) {
		f.orders.Add(1)
		if r.Header.Get(api.HeaderToken) != "tok-abcdef123456" {
			json.NewEncoder(w).Encode(model.OrderResponse{Success: false, Message: "Not Authorized"})
			return
		}
		json.NewEncoder(w).Encode(model.OrderResponse{Success: true, Message: "Order Placed"})
	})
	f.server = httptest.NewServer(mux)
	t.Cleanup(f.server.Close)
	return f
}

func newTestRouter(t *testing.T, baseURL, apiKey string) http.Handler {
	t.Helper()
	ctx := context.Background()
	logger := zerolog.Nop()
	reg := metrics.NewRegistry()
	recorder := effect.NewRecorder()

	authStore, err := auth.NewStore(ctx, tokenstore.NewMemory(), logger)
	require.NoError(t, err)

	cat := catalog.New([]model.Product{
		{ID: "p1", Name: "Greek salad", Price: 10, Category: "Salad"},
		{ID: "p2", Name: "Veg rolls", Price: 5, Category: "Rolls"},
	})
	cartStore := cart.NewStore(cat, logger)

	guard := checkout.NewGuard(authStore, cartStore, recorder, recorder, reg, logger)
	t.Cleanup(guard.Watch())

	client := api.NewClient(config.APIConfig{BaseURL: baseURL}, config.BreakerConfig{}, reg, logger)
	authenticator := auth.NewAuthenticator(client, authStore, recorder, logger)
	delivery := decimal.NewFromInt(2)

	orders := service.NewOrderService(service.OrderServiceDeps{
		Placer:         client,
		Tokens:         authStore,
		Cart:           cartStore,
		Form:           checkout.NewAddressForm(),
		Guard:          guard,
		Notifier:       recorder,
		Navigator:      recorder,
		DeliveryCharge: delivery,
		Currency:       "$",
		Metrics:        reg,
	}, logger)

	return New(Handlers{
		Session:  handler.NewSessionHandler(service.NewSessionService(authenticator, authStore), recorder, logger),
		Catalog:  handler.NewCatalogHandler(service.NewCatalogService(cat, logger), recorder, logger),
		Cart:     handler.NewCartHandler(service.NewCartService(cartStore, delivery, "$", logger), recorder, logger),
		Checkout: handler.NewCheckoutHandler(orders, guard, recorder, logger),
	}, config.ServerConfig{APIKey: apiKey, AllowedOrigin: "*"}, reg, logger)
}

func do(t *testing.T, h http.Handler, method, path, body string) (*httptest.ResponseRecorder, map[string]any) {
	t.Helper()
	var req *http.Request
	if body != "" {
		req = httptest.NewRequest(method, path, strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
	} else {
		req = httptest.NewRequest(method, path, nil)
	}
	w := httptest.NewRecorder()
	h.ServeHTTP(w, req)

	var decoded map[string]any
	if strings.HasPrefix(w.Header().Get("Content-Type"), "application/json") {
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &decoded))
	}
	return w, decoded
}

func effectValues(resp map[string]any) []string {
	raw, _ := resp["effects"].([]any)
	out := make([]string, 0, len(raw))
	for _, e := range raw {
		out = append(out, e.(map[string]any)["value"].(string))
	}
	return out
}

func TestRouter_Health(t *testing.T) {
	h := newTestRouter(t, "http://127.0.0.1:1", "secret")

	w, body := do(t, h, http.MethodGet, "/health", "")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "healthy", body["status"])
	assert.NotEmpty(t, w.Header().Get("Access-Control-Allow-Origin"))
}

func TestRouter_Metrics(t *testing.T) {
	h := newTestRouter(t, "http://127.0.0.1:1", "secret")

	w, _ := do(t, h, http.MethodGet, "/metrics", "")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "checkout_")
}

func TestRouter_RequiresAPIKey(t *testing.T) {
	h := newTestRouter(t, "http://127.0.0.1:1", "secret")

	w, _ := do(t, h, http.MethodGet, "/api/cart", "")
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestRouter_UnknownRoute(t *testing.T) {
	h := newTestRouter(t, "http://127.0.0.1:1", "")

	w, _ := do(t, h, http.MethodGet, "/api/orders", "")
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestRouter_CheckoutGuardRedirectsSignedOutShopper(t *testing.T) {
	h := newTestRouter(t, "http://127.0.0.1:1", "")

	w, body := do(t, h, http.MethodGet, "/api/checkout", "")
	require.Equal(t, http.StatusOK, w.Code)

	data := body["data"].(map[string]any)
	assert.Equal(t, checkout.RedirectUnauthenticated.String(), data["guard"])
	assert.Equal(t, []string{"Please sign in to place an order.", effect.RouteCart}, effectValues(body))
}

func TestRouter_CashOnDeliveryJourney(t *testing.T) {
	remote := newFakeStorefront(t)
	h := newTestRouter(t, remote.server.URL, "")

	w, body := do(t, h, http.MethodPost, "/api/session/login", `{"email":"ada@example.com","password":"secret"}`)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, true, body["data"].(map[string]any)["authenticated"])
	assert.Contains(t, effectValues(body), auth.NoticeLoggedIn)

	w, _ = do(t, h, http.MethodPut, "/api/cart/items/p1", `{"quantity":2}`)
	require.Equal(t, http.StatusOK, w.Code)

	w, body = do(t, h, http.MethodGet, "/api/checkout", "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, checkout.Proceed.String(), body["data"].(map[string]any)["guard"])

	w, _ = do(t, h, http.MethodPut, "/api/checkout/address", `{
		"firstName": "Ada", "lastName": "Lovelace", "email": "ada@example.com",
		"street": "12 Analytical Row", "city": "London", "state": "Greater London",
		"zipcode": "N1 9GU", "country": "UK"
	}`)
	require.Equal(t, http.StatusOK, w.Code)

	w, body = do(t, h, http.MethodPost, "/api/checkout/submit", `{"phone":"555-0100"}`)
	require.Equal(t, http.StatusOK, w.Code)

	outcome := body["data"].(map[string]any)
	assert.Equal(t, string(service.StateSettledCOD), outcome["state"])
	assert.Equal(t, 22.0, outcome["amount"])
	assert.Equal(t, []string{effect.RouteOrders, "Order Placed"}, effectValues(body))
	assert.Equal(t, int32(1), remote.orders.Load())

	w, body = do(t, h, http.MethodGet, "/api/cart", "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Empty(t, body["data"].(map[string]any)["items"])
	assert.Empty(t, effectValues(body))
}

func TestRouter_SubmitBlockedWithoutPhone(t *testing.T) {
	remote := newFakeStorefront(t)
	h := newTestRouter(t, remote.server.URL, "")

	do(t, h, http.MethodPost, "/api/session/login", `{"email":"ada@example.com","password":"secret"}`)
	do(t, h, http.MethodPost, "/api/cart/items/p2", "")

	w, body := do(t, h, http.MethodPost, "/api/checkout/submit", `{"phone":""}`)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, model.ErrCodeValidation, body["error"])
	assert.Equal(t, int32(0), remote.orders.Load())
}

func TestRouter_ConcurrentRequestsKeepTheirOwnEffects(t *testing.T) {
	remote := newFakeStorefront(t)
	h := newTestRouter(t, remote.server.URL, "")

	do(t, h, http.MethodPost, "/api/session/login", `{"email":"ada@example.com","password":"secret"}`)

	done := make(chan struct{})
	var (
		wg     sync.WaitGroup
		leaked atomic.Int32
	)
	wg.Add(1)
	go func() {
		defer wg.Done()
		for {
			select {
			case <-done:
				return
			default:
			}
			w := httptest.NewRecorder()
			h.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/catalog", nil))
			var resp map[string]any
			if json.Unmarshal(w.Body.Bytes(), &resp) == nil && len(effectValues(resp)) > 0 {
				leaked.Add(1)
			}
		}
	}()

	for i := 0; i < 20; i++ {
		do(t, h, http.MethodPut, "/api/cart/items/p1", `{"quantity":2}`)
		do(t, h, http.MethodGet, "/api/checkout", "")
		do(t, h, http.MethodPut, "/api/checkout/address", `{
			"firstName": "Ada", "lastName": "Lovelace", "email": "ada@example.com",
			"street": "12 Analytical Row", "city": "London", "state": "Greater London",
			"zipcode": "N1 9GU", "country": "UK"
		}`)

		w, body := do(t, h, http.MethodPost, "/api/checkout/submit", `{"phone":"555-0100"}`)
		require.Equal(t, http.StatusOK, w.Code)
		assert.Equal(t, []string{effect.RouteOrders, "Order Placed"}, effectValues(body), "attempt %d", i)
	}
	close(done)
	wg.Wait()

	assert.Zero(t, leaked.Load(), "catalog responses never carry checkout effects")
	assert.Equal(t, int32(20), remote.orders.Load())
}
