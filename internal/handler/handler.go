package handler

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"

	"storefront-checkout/internal/effect"
	"storefront-checkout/internal/model"

	"github.com/rs/zerolog"
)

const maxBodyBytes = 1 << 20

// EffectSource yields the notices and navigations produced while handling a
// request.
type EffectSource interface {
	Drain(ctx context.Context) []effect.Effect
}

// Response wraps a successful payload together with the produced effects.
type Response struct {
	Data    any             `json:"data,omitempty"`
	Effects []effect.Effect `json:"effects"`
}

// ErrorResponse represents an error response.
type ErrorResponse struct {
	Error   string          `json:"error"`
	Message string          `json:"message"`
	Effects []effect.Effect `json:"effects"`
}

// writeJSON writes a JSON response with the given status code.
func writeJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(data)
}

// respond writes data with the effects drained from the request's scope.
func respond(w http.ResponseWriter, r *http.Request, status int, data any, effects EffectSource) {
	writeJSON(w, status, Response{Data: data, Effects: effects.Drain(r.Context())})
}

// writeError writes an error response for err. Domain errors keep their
// code and message; anything else is reported as an internal error.
func writeError(w http.ResponseWriter, r *http.Request, err error, effects EffectSource, logger zerolog.Logger) {
	code := model.CodeOf(err)
	status := statusForCode(code)

	message := "internal server error"
	var domainErr *model.DomainError
	if errors.As(err, &domainErr) {
		message = domainErr.Message
	}

	event := logger.Warn()
	if status >= http.StatusInternalServerError {
		event = logger.Error()
	}
	event.Err(err).Str("code", code).Int("status", status).Msg("handler error")

	writeJSON(w, status, ErrorResponse{Error: code, Message: message, Effects: effects.Drain(r.Context())})
}

func statusForCode(code string) int {
	switch code {
	case model.ErrCodeInvalidJSON,
		model.ErrCodeValidation,
		model.ErrCodeUnknownField,
		model.ErrCodeInvalidPaymentMethod,
		model.ErrCodeInvalidQuantity:
		return http.StatusBadRequest
	case model.ErrCodeProductNotFound:
		return http.StatusNotFound
	case model.ErrCodeAuthRequired:
		return http.StatusUnauthorized
	case model.ErrCodeEmptyCart, model.ErrCodeSubmissionInFlight:
		return http.StatusConflict
	case model.ErrCodeBusinessFailure, model.ErrCodeTransportFailure:
		return http.StatusBadGateway
	}
	return http.StatusInternalServerError
}

// decodeJSON decodes a bounded request body into v.
func decodeJSON(r *http.Request, v any) error {
	dec := json.NewDecoder(io.LimitReader(r.Body, maxBodyBytes))
	if err := dec.Decode(v); err != nil {
		return &model.DomainError{
			Code:    model.ErrCodeInvalidJSON,
			Message: fmt.Sprintf("invalid request body: %v", err),
		}
	}
	return nil
}
