package models

import (
	"time"
)

const (
	RoleSeller = "seller"
	RoleAdmin  = "admin"
)

// TransactionSale is the only ledger entry type recorded today.
const TransactionSale = "Sale"

type User struct {
	ID           uint      `gorm:"primaryKey;autoIncrement" json:"id"`
	SellerName   string    `gorm:"not null"                 json:"seller_name"`
	Username     string    `gorm:"uniqueIndex;not null"     json:"username"`
	PasswordHash string    `gorm:"not null"                 json:"-"`
	Role         string    `gorm:"not null;default:seller"  json:"role"`
	CreatedAt    time.Time `json:"created_at"`
}

type Category struct {
	ID        uint      `gorm:"primaryKey;autoIncrement" json:"id"`
	Name      string    `gorm:"not null"                 json:"name"`
	Specs     string    `json:"specs"`
	SellerID  uint      `gorm:"index;not null"           json:"seller_id"`
	CreatedAt time.Time `json:"created_at"`
}

type Product struct {
	ID        uint       `gorm:"primaryKey;autoIncrement"               json:"id"`
	Name      string     `gorm:"not null"                               json:"name"`
	SKU       *string    `gorm:"uniqueIndex"                            json:"sku"`
	Price     float64    `gorm:"not null;default:0"                     json:"price"`
	Quantity  int        `gorm:"not null;default:0;check:quantity >= 0" json:"quantity"`
	Expiry    *time.Time `json:"expiry"`
	SellerID  uint       `gorm:"index;not null"                         json:"seller_id"`
	CreatedAt time.Time  `json:"created_at"`
}

type ProductCategory struct {
	ProductID  uint `gorm:"primaryKey" json:"product_id"`
	CategoryID uint `gorm:"primaryKey" json:"category_id"`
}

// Transaction rows are append-only, never updated or deleted. Price is the
// unit price captured at sale time; later product price edits do not touch it.
type Transaction struct {
	ID         uint      `gorm:"primaryKey;autoIncrement" json:"id"`
	SellerID   uint      `gorm:"index;not null"           json:"seller_id"`
	ProductID  uint      `gorm:"index;not null"           json:"product_id"`
	Quantity   int       `gorm:"not null"                 json:"quantity"`
	Price      float64   `gorm:"not null"                 json:"price"`
	TotalPrice float64   `gorm:"not null"                 json:"total_price"`
	Type       string    `gorm:"not null;default:Sale"    json:"type"`
	CreatedAt  time.Time `json:"created_at"`
}

type RefreshToken struct {
	ID        uint   `gorm:"primaryKey"           json:"id"`
	Token     string `gorm:"uniqueIndex;not null" json:"token"`
	UserID    uint   `gorm:"index;not null"       json:"user_id"`
	ExpiresAt int64  `gorm:"not null"             json:"expires_at"`
	Revoked   bool   `gorm:"default:false"        json:"revoked"`
}
