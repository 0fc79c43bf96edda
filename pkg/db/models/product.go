package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Product is a catalog entry. Deactivation is a soft delete; listings only
// surface active products.
type Product struct {
	ID          uuid.UUID       `gorm:"type:uuid;default:gen_random_uuid();primaryKey"`
	SKU         string          `gorm:"column:sku;not null;uniqueIndex:ux_products_sku"`
	Name        string          `gorm:"column:name;not null"`
	Description *string         `gorm:"column:description"`
	Price       decimal.Decimal `gorm:"column:price;type:numeric(12,2);not null"`
	Stock       int             `gorm:"column:stock;not null;default:0"`
	// No gorm default tag: a default would make gorm omit explicit false
	// values on insert, so the flag is always written as-is.
	IsActive  bool      `gorm:"column:is_active;not null"`
	CreatedAt time.Time `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt time.Time `gorm:"column:updated_at;autoUpdateTime"`
}
