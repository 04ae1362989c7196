package models

import "github.com/shopspring/decimal"

const (
	// DefaultProductImage is used when a product is created without one and
	// by the storefront when an image fails to load.
	DefaultProductImage = "https://images.unsplash.com/photo-1518770660439-4636190af475?w=800"
	DefaultCategory     = "accessories"
)

func init() {
	// Prices and totals serialise as JSON numbers, e.g. 1599.99.
	decimal.MarshalJSONWithoutQuotes = true
}

// Product represents a product in the catalogue. Description is untrusted
// text stored verbatim.
type Product struct {
	ID          uint            `gorm:"primaryKey"                             json:"id"`
	Name        string          `gorm:"size:255;not null"                      json:"name"`
	Description string          `gorm:"type:text"                              json:"description"`
	Price       decimal.Decimal `gorm:"type:decimal(10,2);not null"            json:"price"`
	Image       string          `gorm:"size:1024"                              json:"image"`
	Stock       int             `gorm:"not null;default:0"                     json:"stock"`
	Category    string          `gorm:"size:100;not null;default:accessories;index" json:"category"`
}
