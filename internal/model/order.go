package model

import "fmt"

// PaymentMethod selects how an order is settled.
type PaymentMethod string

const (
	// PaymentCashOnDelivery settles the order on delivery.
	PaymentCashOnDelivery PaymentMethod = "cod"
	// PaymentExternalGateway hands the shopper over to a hosted payment page.
	PaymentExternalGateway PaymentMethod = "stripe"
)

// Remote order endpoints, relative to the API base URL.
const (
	EndpointPlaceOrder    = "/api/order/place"
	EndpointPlaceOrderCOD = "/api/order/placecod"
)

// ParsePaymentMethod converts a wire value into a PaymentMethod.
func ParsePaymentMethod(value string) (PaymentMethod, error) {
	for _, m := range PaymentMethods {
		if string(m) == value {
			return m, nil
		}
	}
	return "", NewDomainError(ErrCodeInvalidPaymentMethod, fmt.Sprintf("unknown payment method %q", value))
}

// Endpoint returns the order placement endpoint for the method.
func (m PaymentMethod) Endpoint() string {
	if m == PaymentExternalGateway {
		return EndpointPlaceOrder
	}
	return EndpointPlaceOrderCOD
}

// SubmitLabel is the caption of the checkout submit action.
func (m PaymentMethod) SubmitLabel() string {
	if m == PaymentExternalGateway {
		return "Proceed To Payment"
	}
	return "Place Order"
}

// Label is the caption of the payment option.
func (m PaymentMethod) Label() string {
	if m == PaymentExternalGateway {
		return "Stripe (Credit / Debit)"
	}
	return "COD (Cash on Delivery)"
}

// PaymentMethods lists the selectable methods in display order.
var PaymentMethods = []PaymentMethod{PaymentCashOnDelivery, PaymentExternalGateway}

func (m PaymentMethod) String() string {
	return string(m)
}

// OrderItem is a catalogue product together with the ordered quantity.
type OrderItem struct {
	Product
	Quantity int `json:"quantity"`
}

// OrderRequest represents the payload sent to the remote order service.
type OrderRequest struct {
	Address AddressInfo `json:"address"`
	Items   []OrderItem `json:"items"`
	Amount  float64     `json:"amount"`
}

// OrderResponse is the reply of both order placement endpoints.
type OrderResponse struct {
	Success    bool   `json:"success"`
	SessionURL string `json:"session_url,omitempty"`
	Message    string `json:"message,omitempty"`
}
