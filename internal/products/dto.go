package products

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/estilosboom/boom-backend/pkg/db/models"
	"github.com/estilosboom/boom-backend/pkg/pagination"
)

// ProductDTO is the outbound representation of a catalog product.
type ProductDTO struct {
	ID          uuid.UUID       `json:"id"`
	SKU         string          `json:"sku"`
	Name        string          `json:"name"`
	Description *string         `json:"description,omitempty"`
	Price       decimal.Decimal `json:"price"`
	Stock       int             `json:"stock"`
	IsActive    bool            `json:"is_active"`
	CreatedAt   time.Time       `json:"created_at"`
	UpdatedAt   time.Time       `json:"updated_at"`
}

// CreateProductRequest holds the payload to register a product.
type CreateProductRequest struct {
	SKU         string          `json:"sku" validate:"required"`
	Name        string          `json:"name" validate:"required"`
	Description *string         `json:"description,omitempty"`
	Price       decimal.Decimal `json:"price"`
	Stock       int             `json:"stock" validate:"gte=0"`
}

// UpdateStockRequest replaces the absolute stock level of a product.
type UpdateStockRequest struct {
	Stock int `json:"stock" validate:"gte=0"`
}

// ListProductsParams captures pagination and search for the catalog listing.
type ListProductsParams struct {
	Pagination pagination.Params
	Search     string
}

// FromModel maps a Product row to its DTO.
func FromModel(product *models.Product) *ProductDTO {
	return &ProductDTO{
		ID:          product.ID,
		SKU:         product.SKU,
		Name:        product.Name,
		Description: product.Description,
		Price:       product.Price,
		Stock:       product.Stock,
		IsActive:    product.IsActive,
		CreatedAt:   product.CreatedAt,
		UpdatedAt:   product.UpdatedAt,
	}
}
