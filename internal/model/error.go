package model

import (
	"errors"
	"strings"
)

// Standard error codes for API responses
const (
	ErrCodeInvalidJSON          = "INVALID_JSON"
	ErrCodeValidation           = "VALIDATION_ERROR"
	ErrCodeUnknownField         = "UNKNOWN_FIELD"
	ErrCodeInvalidPaymentMethod = "INVALID_PAYMENT_METHOD"
	ErrCodeInvalidQuantity      = "INVALID_QUANTITY"
	ErrCodeProductNotFound      = "PRODUCT_NOT_FOUND"
	ErrCodeAuthRequired         = "AUTH_REQUIRED"
	ErrCodeEmptyCart            = "EMPTY_CART"
	ErrCodeBusinessFailure      = "BUSINESS_FAILURE"
	ErrCodeTransportFailure     = "TRANSPORT_FAILURE"
	ErrCodeSubmissionInFlight   = "SUBMISSION_IN_FLIGHT"
	ErrCodeInternalError        = "INTERNAL_ERROR"
)

// Domain errors for business logic
type DomainError struct {
	Code    string
	Message string
	Err     error
}

func (e *DomainError) Error() string {
	if e.Err != nil {
		return e.Message + ": " + e.Err.Error()
	}
	return e.Message
}

func (e *DomainError) Unwrap() error {
	return e.Err
}

// Is matches any DomainError carrying the same code.
func (e *DomainError) Is(target error) bool {
	t, ok := target.(*DomainError)
	if !ok {
		return false
	}
	return e.Code == t.Code
}

// NewDomainError creates a new domain error
func NewDomainError(code, message string) *DomainError {
	return &DomainError{
		Code:    code,
		Message: message,
	}
}

// NewValidationError reports the address fields that block submission.
func NewValidationError(fields []string) *DomainError {
	return NewDomainError(ErrCodeValidation, "missing required fields: "+strings.Join(fields, ", "))
}

// NewBusinessFailure wraps a success:false reply of the remote service.
func NewBusinessFailure(message string) *DomainError {
	if message == "" {
		message = "order placement failed"
	}
	return NewDomainError(ErrCodeBusinessFailure, message)
}

// NewTransportFailure wraps a network or protocol error.
func NewTransportFailure(message string, err error) *DomainError {
	return &DomainError{
		Code:    ErrCodeTransportFailure,
		Message: message,
		Err:     err,
	}
}

// CodeOf returns the domain code of err, or ErrCodeInternalError.
func CodeOf(err error) string {
	var domainErr *DomainError
	if errors.As(err, &domainErr) {
		return domainErr.Code
	}
	return ErrCodeInternalError
}

// Common domain errors
var (
	ErrValidation         = NewDomainError(ErrCodeValidation, "address is incomplete")
	ErrAuthRequired       = NewDomainError(ErrCodeAuthRequired, "Please sign in to place an order.")
	ErrEmptyCart          = NewDomainError(ErrCodeEmptyCart, "cart is empty")
	ErrBusinessFailure    = NewDomainError(ErrCodeBusinessFailure, "order placement failed")
	ErrTransportFailure   = NewDomainError(ErrCodeTransportFailure, "order service unreachable")
	ErrSubmissionInFlight = NewDomainError(ErrCodeSubmissionInFlight, "an order submission is already in progress")
	ErrInvalidQuantity    = NewDomainError(ErrCodeInvalidQuantity, "Quantity must not be negative")
	ErrProductNotFound    = NewDomainError(ErrCodeProductNotFound, "product not found")
	ErrUnknownField       = NewDomainError(ErrCodeUnknownField, "unknown address field")
	ErrInvalidPayment     = NewDomainError(ErrCodeInvalidPaymentMethod, "unknown payment method")
)
