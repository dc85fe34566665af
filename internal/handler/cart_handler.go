package handler

import (
	"net/http"

	"storefront-checkout/internal/model"
	"storefront-checkout/internal/service"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog"
)

// QuantityRequest is the body of PUT /api/cart/items/{id}.
type QuantityRequest struct {
	Quantity *int `json:"quantity"`
}

// CartHandler handles cart HTTP requests.
type CartHandler struct {
	service service.CartService
	effects EffectSource
	logger  zerolog.Logger
}

// NewCartHandler creates a new cart handler.
func NewCartHandler(service service.CartService, effects EffectSource, logger zerolog.Logger) *CartHandler {
	return &CartHandler{
		service: service,
		effects: effects,
		logger:  logger.With().Str("handler", "cart").Logger(),
	}
}

// Get handles GET /api/cart.
func (h *CartHandler) Get(w http.ResponseWriter, r *http.Request) {
	respond(w, r, http.StatusOK, h.service.Summary(r.Context()), h.effects)
}

// Add handles POST /api/cart/items/{id}: one more of the product.
func (h *CartHandler) Add(w http.ResponseWriter, r *http.Request) {
	if err := h.service.Add(r.Context(), chi.URLParam(r, "id")); err != nil {
		writeError(w, r, err, h.effects, h.logger)
		return
	}
	h.Get(w, r)
}

// Remove handles DELETE /api/cart/items/{id}: one less of the product.
func (h *CartHandler) Remove(w http.ResponseWriter, r *http.Request) {
	if err := h.service.Remove(r.Context(), chi.URLParam(r, "id")); err != nil {
		writeError(w, r, err, h.effects, h.logger)
		return
	}
	h.Get(w, r)
}

// SetQuantity handles PUT /api/cart/items/{id}.
func (h *CartHandler) SetQuantity(w http.ResponseWriter, r *http.Request) {
	var req QuantityRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, r, err, h.effects, h.logger)
		return
	}
	if req.Quantity == nil {
		writeError(w, r, model.NewDomainError(model.ErrCodeValidation, "quantity is required"), h.effects, h.logger)
		return
	}

	if err := h.service.SetQuantity(r.Context(), chi.URLParam(r, "id"), *req.Quantity); err != nil {
		writeError(w, r, err, h.effects, h.logger)
		return
	}
	h.Get(w, r)
}

// Clear handles DELETE /api/cart.
func (h *CartHandler) Clear(w http.ResponseWriter, r *http.Request) {
	h.service.Clear(r.Context())
	h.Get(w, r)
}
