// Package checkout holds the checkout view state: the delivery address form
// and the guard that keeps anonymous shoppers and empty carts out.
package checkout

import (
	"fmt"
	"net/mail"
	"strings"
	"sync"

	"storefront-checkout/internal/model"
)

// AddressForm collects the delivery address. Every field except the phone
// is bound live; the phone joins the record only in Assemble.
type AddressForm struct {
	mu     sync.RWMutex
	fields model.AddressInfo
}

// NewAddressForm creates an empty form.
func NewAddressForm() *AddressForm {
	return &AddressForm{}
}

// Set updates one live field.
func (f *AddressForm) Set(field, value string) error {
	if field == model.FieldPhone {
		return model.NewDomainError(model.ErrCodeUnknownField, "phone is supplied at submission")
	}

	f.mu.Lock()
	defer f.mu.Unlock()
	if !f.fields.Set(field, value) {
		return model.NewDomainError(model.ErrCodeUnknownField, fmt.Sprintf("unknown address field %q", field))
	}
	return nil
}

// SetAll applies several live fields. Nothing is applied if any name is rejected.
func (f *AddressForm) SetAll(values map[string]string) error {
	for field := range values {
		if field == model.FieldPhone {
			return model.NewDomainError(model.ErrCodeUnknownField, "phone is supplied at submission")
		}
		var scratch model.AddressInfo
		if !scratch.Set(field, "") {
			return model.NewDomainError(model.ErrCodeUnknownField, fmt.Sprintf("unknown address field %q", field))
		}
	}

	f.mu.Lock()
	defer f.mu.Unlock()
	for field, value := range values {
		f.fields.Set(field, value)
	}
	return nil
}

// Fields returns the live record. Phone is always empty.
func (f *AddressForm) Fields() model.AddressInfo {
	f.mu.RLock()
	defer f.mu.RUnlock()
	return f.fields
}

// Assemble merges the live record with phone and validates the result.
// Blank fields are reported in form order; the email must also parse.
func (f *AddressForm) Assemble(phone string) (model.AddressInfo, error) {
	address := f.Fields()
	address.Phone = phone

	if missing := address.Missing(); len(missing) > 0 {
		return model.AddressInfo{}, model.NewValidationError(missing)
	}

	email := strings.TrimSpace(address.Email)
	parsed, err := mail.ParseAddress(email)
	if err == nil && parsed.Address != email {
		err = fmt.Errorf("%q is not a bare address", email)
	}
	if err != nil {
		return model.AddressInfo{}, &model.DomainError{
			Code:    model.ErrCodeValidation,
			Message: "invalid email address",
			Err:     err,
		}
	}

	return address, nil
}

// Reset clears every field.
func (f *AddressForm) Reset() {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.fields = model.AddressInfo{}
}
