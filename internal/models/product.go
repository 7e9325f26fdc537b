package models

import "time"

// NameMaxLength is the longest product name the name column holds.
const NameMaxLength = 100

// Product represents a sellable item in the catalogue.
type Product struct {
	ID           uint      `json:"id" gorm:"primaryKey;autoIncrement"`
	Name         string    `json:"name" gorm:"type:varchar(100);not null"`
	Price        float64   `json:"price" gorm:"not null;check:price > 0"`
	Availability bool      `json:"availability" gorm:"not null"`
	CreatedAt    time.Time `json:"createdAt"`
	UpdatedAt    time.Time `json:"updatedAt"`
}

// ProductFields holds the client-settable fields of a Product.
type ProductFields struct {
	Name         string
	Price        float64
	Availability bool
}

// NewProductFields returns the fields of a freshly created product.
// Availability always starts out true.
func NewProductFields(name string, price float64) ProductFields {
	return ProductFields{Name: name, Price: price, Availability: true}
}

// WithFields returns a copy of p with every mutable field replaced.
func (p Product) WithFields(f ProductFields) Product {
	p.Name = f.Name
	p.Price = f.Price
	p.Availability = f.Availability
	return p
}

// WithAvailabilityToggled returns a copy of p with Availability negated.
func (p Product) WithAvailabilityToggled() Product {
	p.Availability = !p.Availability
	return p
}
