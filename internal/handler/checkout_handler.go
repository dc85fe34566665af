package handler

import (
	"context"
	"net/http"

	"storefront-checkout/internal/checkout"
	"storefront-checkout/internal/model"
	"storefront-checkout/internal/service"

	"github.com/rs/zerolog"
)

// PaymentRequest is the body of PUT /api/checkout/payment.
type PaymentRequest struct {
	Method string `json:"method"`
}

// SubmitRequest is the body of POST /api/checkout/submit.
type SubmitRequest struct {
	Phone string `json:"phone"`
}

// CheckoutPage is the checkout view together with the guard decision taken
// on entering it.
type CheckoutPage struct {
	*service.CheckoutView
	Guard string `json:"guard"`
}

// Guard is the checkout precondition evaluated on entering the page.
type Guard interface {
	Check(ctx context.Context) checkout.Decision
}

// CheckoutHandler handles checkout HTTP requests.
type CheckoutHandler struct {
	service service.OrderService
	guard   Guard
	effects EffectSource
	logger  zerolog.Logger
}

// NewCheckoutHandler creates a new checkout handler.
func NewCheckoutHandler(service service.OrderService, guard Guard, effects EffectSource, logger zerolog.Logger) *CheckoutHandler {
	return &CheckoutHandler{
		service: service,
		guard:   guard,
		effects: effects,
		logger:  logger.With().Str("handler", "checkout").Logger(),
	}
}

// Get handles GET /api/checkout. Entering the page runs the guard.
func (h *CheckoutHandler) Get(w http.ResponseWriter, r *http.Request) {
	decision := h.guard.Check(r.Context())
	respond(w, r, http.StatusOK, CheckoutPage{CheckoutView: h.service.View(r.Context()), Guard: decision.String()}, h.effects)
}

// SetAddress handles PUT /api/checkout/address.
func (h *CheckoutHandler) SetAddress(w http.ResponseWriter, r *http.Request) {
	var fields map[string]string
	if err := decodeJSON(r, &fields); err != nil {
		writeError(w, r, err, h.effects, h.logger)
		return
	}

	if err := h.service.SetAddressFields(r.Context(), fields); err != nil {
		writeError(w, r, err, h.effects, h.logger)
		return
	}

	respond(w, r, http.StatusOK, h.service.View(r.Context()), h.effects)
}

// SetPayment handles PUT /api/checkout/payment.
func (h *CheckoutHandler) SetPayment(w http.ResponseWriter, r *http.Request) {
	var req PaymentRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, r, err, h.effects, h.logger)
		return
	}

	method, err := model.ParsePaymentMethod(req.Method)
	if err != nil {
		writeError(w, r, err, h.effects, h.logger)
		return
	}

	h.service.SetPaymentMethod(r.Context(), method)
	respond(w, r, http.StatusOK, h.service.View(r.Context()), h.effects)
}

// Submit handles POST /api/checkout/submit. The order request outlives a
// disconnecting client so the attempt always settles.
func (h *CheckoutHandler) Submit(w http.ResponseWriter, r *http.Request) {
	var req SubmitRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, r, err, h.effects, h.logger)
		return
	}

	outcome, err := h.service.Submit(context.WithoutCancel(r.Context()), req.Phone)
	if err != nil {
		writeError(w, r, err, h.effects, h.logger)
		return
	}

	respond(w, r, http.StatusOK, outcome, h.effects)
}
