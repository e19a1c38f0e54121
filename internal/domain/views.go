package domain

import (
	"time"

	"github.com/avolkov/warehouse/internal/models"
)

// ProductView is a product with its category names attached, the shape the
// presentation layer consumes.
type ProductView struct {
	models.Product
	Categories []string `json:"categories"`
}

// TransactionView is a ledger row joined with display names.
type TransactionView struct {
	ID          uint      `json:"id"`
	ProductName string    `json:"product_name"`
	SellerName  string    `json:"seller_name"`
	Quantity    int       `json:"quantity"`
	Price       float64   `json:"price"`
	TotalPrice  float64   `json:"total_price"`
	Type        string    `json:"type"`
	CreatedAt   time.Time `json:"created_at"`
}

type Stats struct {
	Revenue float64 `json:"revenue"`
	Sellers int64   `json:"sellers"`
}
