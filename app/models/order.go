package models

import (
	"time"

	"github.com/shopspring/decimal"
)

const StatusProcessing = "processing"

// Order is a single-product purchase. ProductName is a snapshot taken at
// purchase time, so orders outlive the product they came from.
type Order struct {
	ID              uint            `gorm:"primaryKey"                          json:"id"`
	UserID          uint            `gorm:"not null;index"                      json:"user_id"`
	ProductName     string          `gorm:"size:255;not null"                   json:"product_name"`
	Quantity        int             `gorm:"not null;default:1"                  json:"quantity"`
	Total           decimal.Decimal `gorm:"type:decimal(12,2);not null"         json:"total"`
	Date            time.Time       `gorm:"autoCreateTime;index"                json:"date"`
	Status          string          `gorm:"size:50;not null;default:processing" json:"status"`
	ShippingAddress string          `gorm:"size:500"                            json:"shipping_address"`
}

// OrderWithUser is an order joined with its owner for the admin panel.
// The owner columns are empty when the user no longer exists.
type OrderWithUser struct {
	Order
	UserName  string `json:"user_name"`
	UserEmail string `json:"user_email"`
}

// Stats is the admin dashboard aggregate.
type Stats struct {
	TotalUsers    int64           `json:"totalUsers"`
	TotalOrders   int64           `json:"totalOrders"`
	TotalRevenue  decimal.Decimal `json:"totalRevenue"`
	TotalProducts int64           `json:"totalProducts"`
}
