package handler

import (
	"encoding/json"
	"net/http"
	"testing"

	"storefront-checkout/internal/effect"
	"storefront-checkout/internal/model"
	"storefront-checkout/internal/service"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func newCartRouter(svc *MockCartService) chi.Router {
	h := NewCartHandler(svc, effect.NewRecorder(), zerolog.Nop())
	r := chi.NewRouter()
	r.Get("/api/cart", h.Get)
	r.Delete("/api/cart", h.Clear)
	r.Post("/api/cart/items/{id}", h.Add)
	r.Put("/api/cart/items/{id}", h.SetQuantity)
	r.Delete("/api/cart/items/{id}", h.Remove)
	return r
}

func sampleSummary() *service.CartSummary {
	return &service.CartSummary{
		Items: []model.OrderItem{
			{Product: model.Product{ID: "p1", Name: "Greek salad", Price: 12}, Quantity: 2},
		},
		Totals: service.Totals{Subtotal: 24, DeliveryFee: 2, Total: 26, Currency: "$"},
	}
}

func TestCartHandler_Get(t *testing.T) {
	svc := new(MockCartService)
	svc.On("Summary", mock.Anything).Return(sampleSummary())

	w := serve(newCartRouter(svc), http.MethodGet, "/api/cart", "")
	require.Equal(t, http.StatusOK, w.Code)

	env := decodeEnvelope(t, w)
	var got service.CartSummary
	require.NoError(t, json.Unmarshal(env.Data, &got))
	assert.Equal(t, 26.0, got.Totals.Total)
	require.Len(t, got.Items, 1)
	assert.Equal(t, 2, got.Items[0].Quantity)
}

func TestCartHandler_Mutations(t *testing.T) {
	tests := []struct {
		name           string
		method         string
		path           string
		body           string
		setupMock      func(*MockCartService)
		expectedStatus int
		expectedCode   string
	}{
		{
			name:   "Add - success",
			method: http.MethodPost,
			path:   "/api/cart/items/p1",
			setupMock: func(m *MockCartService) {
				m.On("Add", mock.Anything, "p1").Return(nil)
				m.On("Summary", mock.Anything).Return(sampleSummary())
			},
			expectedStatus: http.StatusOK,
		},
		{
			name:   "Add - unknown product",
			method: http.MethodPost,
			path:   "/api/cart/items/nope",
			setupMock: func(m *MockCartService) {
				m.On("Add", mock.Anything, "nope").Return(model.ErrProductNotFound)
			},
			expectedStatus: http.StatusNotFound,
			expectedCode:   model.ErrCodeProductNotFound,
		},
		{
			name:   "Remove - success",
			method: http.MethodDelete,
			path:   "/api/cart/items/p1",
			setupMock: func(m *MockCartService) {
				m.On("Remove", mock.Anything, "p1").Return(nil)
				m.On("Summary", mock.Anything).Return(sampleSummary())
			},
			expectedStatus: http.StatusOK,
		},
		{
			name:   "SetQuantity - success",
			method: http.MethodPut,
			path:   "/api/cart/items/p1",
			body:   `{"quantity":3}`,
			setupMock: func(m *MockCartService) {
				m.On("SetQuantity", mock.Anything, "p1", 3).Return(nil)
				m.On("Summary", mock.Anything).Return(sampleSummary())
			},
			expectedStatus: http.StatusOK,
		},
		{
			name:   "SetQuantity - zero removes",
			method: http.MethodPut,
			path:   "/api/cart/items/p1",
			body:   `{"quantity":0}`,
			setupMock: func(m *MockCartService) {
				m.On("SetQuantity", mock.Anything, "p1", 0).Return(nil)
				m.On("Summary", mock.Anything).Return(&service.CartSummary{Items: []model.OrderItem{}})
			},
			expectedStatus: http.StatusOK,
		},
		{
			name:   "SetQuantity - negative",
			method: http.MethodPut,
			path:   "/api/cart/items/p1",
			body:   `{"quantity":-1}`,
			setupMock: func(m *MockCartService) {
				m.On("SetQuantity", mock.Anything, "p1", -1).Return(model.ErrInvalidQuantity)
			},
			expectedStatus: http.StatusBadRequest,
			expectedCode:   model.ErrCodeInvalidQuantity,
		},
		{
			name:           "SetQuantity - missing quantity",
			method:         http.MethodPut,
			path:           "/api/cart/items/p1",
			body:           `{}`,
			setupMock:      func(m *MockCartService) {},
			expectedStatus: http.StatusBadRequest,
			expectedCode:   model.ErrCodeValidation,
		},
		{
			name:   "Clear - success",
			method: http.MethodDelete,
			path:   "/api/cart",
			setupMock: func(m *MockCartService) {
				m.On("Clear", mock.Anything).Return()
				m.On("Summary", mock.Anything).Return(&service.CartSummary{Items: []model.OrderItem{}})
			},
			expectedStatus: http.StatusOK,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc := new(MockCartService)
			tt.setupMock(svc)

			w := serve(newCartRouter(svc), tt.method, tt.path, tt.body)
			assert.Equal(t, tt.expectedStatus, w.Code)

			if tt.expectedCode != "" {
				var resp ErrorResponse
				decodeBody(t, w, &resp)
				assert.Equal(t, tt.expectedCode, resp.Error)
			}

			svc.AssertExpectations(t)
		})
	}
}
