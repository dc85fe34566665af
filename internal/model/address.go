package model

import "strings"

// Address field names as they appear on the wire and in the checkout form.
const (
	FieldFirstName = "firstName"
	FieldLastName  = "lastName"
	FieldEmail     = "email"
	FieldStreet    = "street"
	FieldCity      = "city"
	FieldState     = "state"
	FieldZipcode   = "zipcode"
	FieldCountry   = "country"
	FieldPhone     = "phone"
)

// AddressFields lists every delivery field in form order.
var AddressFields = []string{
	FieldFirstName,
	FieldLastName,
	FieldEmail,
	FieldStreet,
	FieldCity,
	FieldState,
	FieldZipcode,
	FieldCountry,
	FieldPhone,
}

// AddressInfo is the delivery address attached to an order.
type AddressInfo struct {
	FirstName string `json:"firstName"`
	LastName  string `json:"lastName"`
	Email     string `json:"email"`
	Street    string `json:"street"`
	City      string `json:"city"`
	State     string `json:"state"`
	Zipcode   string `json:"zipcode"`
	Country   string `json:"country"`
	Phone     string `json:"phone"`
}

// Get returns the value of the named field.
func (a *AddressInfo) Get(field string) (string, bool) {
	switch field {
	case FieldFirstName:
		return a.FirstName, true
	case FieldLastName:
		return a.LastName, true
	case FieldEmail:
		return a.Email, true
	case FieldStreet:
		return a.Street, true
	case FieldCity:
		return a.City, true
	case FieldState:
		return a.State, true
	case FieldZipcode:
		return a.Zipcode, true
	case FieldCountry:
		return a.Country, true
	case FieldPhone:
		return a.Phone, true
	}
	return "", false
}

// Set assigns the named field. It reports false for unknown field names.
func (a *AddressInfo) Set(field, value string) bool {
	switch field {
	case FieldFirstName:
		a.FirstName = value
	case FieldLastName:
		a.LastName = value
	case FieldEmail:
		a.Email = value
	case FieldStreet:
		a.Street = value
	case FieldCity:
		a.City = value
	case FieldState:
		a.State = value
	case FieldZipcode:
		a.Zipcode = value
	case FieldCountry:
		a.Country = value
	case FieldPhone:
		a.Phone = value
	default:
		return false
	}
	return true
}

// Missing returns the names of blank fields in form order.
func (a *AddressInfo) Missing() []string {
	var missing []string
	for _, field := range AddressFields {
		value, _ := a.Get(field)
		if strings.TrimSpace(value) == "" {
			missing = append(missing, field)
		}
	}
	return missing
}

// Complete reports whether all nine fields are filled in.
func (a *AddressInfo) Complete() bool {
	return len(a.Missing()) == 0
}
