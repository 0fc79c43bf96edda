package products

import (
	"context"
	"strings"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/estilosboom/boom-backend/pkg/db/models"
	"github.com/estilosboom/boom-backend/pkg/pagination"
)

// Repository exposes catalog persistence operations.
type Repository struct {
	db *gorm.DB
}

// NewRepository constructs a products repo bound to the provided GORM DB.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// Create inserts a product row. SKU uniqueness is enforced by
// ux_products_sku and classified by the service.
func (r *Repository) Create(ctx context.Context, product *models.Product) error {
	return r.db.WithContext(ctx).Create(product).Error
}

// FindByID loads a product regardless of its active flag.
func (r *Repository) FindByID(ctx context.Context, id uuid.UUID) (*models.Product, error) {
	var product models.Product
	if err := r.db.WithContext(ctx).Where("id = ?", id).First(&product).Error; err != nil {
		return nil, err
	}
	return &product, nil
}

// ListActive pages through active products, newest first, with an optional
// search over sku and name.
func (r *Repository) ListActive(ctx context.Context, params ListProductsParams) ([]models.Product, int64, error) {
	query := r.db.WithContext(ctx).
		Model(&models.Product{}).
		Where("is_active = ?", true)

	if search := strings.TrimSpace(params.Search); search != "" {
		pattern := "%" + strings.ToLower(search) + "%"
		query = query.Where("LOWER(sku) LIKE ? OR LOWER(name) LIKE ?", pattern, pattern)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var rows []models.Product
	err := query.
		Order("created_at desc").
		Limit(pagination.NormalizeLimit(params.Pagination.Limit)).
		Offset(pagination.NormalizeOffset(params.Pagination.Offset)).
		Find(&rows).Error
	if err != nil {
		return nil, 0, err
	}
	return rows, total, nil
}

// UpdateStock replaces the absolute stock level. Returns the number of rows
// touched so the service can distinguish a missing product.
func (r *Repository) UpdateStock(ctx context.Context, id uuid.UUID, stock int) (int64, error) {
	result := r.db.WithContext(ctx).
		Model(&models.Product{}).
		Where("id = ?", id).
		Update("stock", stock)
	return result.RowsAffected, result.Error
}

// Deactivate soft-deletes a product by clearing its active flag.
func (r *Repository) Deactivate(ctx context.Context, id uuid.UUID) (int64, error) {
	result := r.db.WithContext(ctx).
		Model(&models.Product{}).
		Where("id = ? AND is_active = ?", id, true).
		Update("is_active", false)
	return result.RowsAffected, result.Error
}
