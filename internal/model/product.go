package model

// Product represents a food product in the catalogue.
type Product struct {
	ID          string  `json:"_id" db:"id"`
	Name        string  `json:"name" db:"name"`
	Description string  `json:"description" db:"description"`
	Price       float64 `json:"price" db:"price"`
	Category    string  `json:"category" db:"category"`
	Image       string  `json:"image" db:"image"`
}
