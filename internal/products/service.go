package products

import (
	"context"
	"errors"
	"strings"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/estilosboom/boom-backend/pkg/db"
	"github.com/estilosboom/boom-backend/pkg/db/models"
	pkgerrors "github.com/estilosboom/boom-backend/pkg/errors"
	"github.com/estilosboom/boom-backend/pkg/logger"
	"github.com/estilosboom/boom-backend/pkg/pagination"
)

// Service exposes the product catalog operations.
type Service interface {
	Create(ctx context.Context, req CreateProductRequest) (*ProductDTO, error)
	List(ctx context.Context, params ListProductsParams) (*pagination.Page[ProductDTO], error)
	Get(ctx context.Context, id uuid.UUID) (*ProductDTO, error)
	UpdateStock(ctx context.Context, id uuid.UUID, stock int) error
	Deactivate(ctx context.Context, id uuid.UUID) error
}

// TxRunner abstracts the transactional database client.
type TxRunner interface {
	WithTx(ctx context.Context, fn func(tx *gorm.DB) error) error
}

type productRepository interface {
	Create(ctx context.Context, product *models.Product) error
	FindByID(ctx context.Context, id uuid.UUID) (*models.Product, error)
	ListActive(ctx context.Context, params ListProductsParams) ([]models.Product, int64, error)
	UpdateStock(ctx context.Context, id uuid.UUID, stock int) (int64, error)
	Deactivate(ctx context.Context, id uuid.UUID) (int64, error)
}

// ServiceParams packages the catalog service dependencies. The repo factory
// defaults to the real repository; tests substitute stubs.
type ServiceParams struct {
	TxRunner    TxRunner
	Logger      *logger.Logger
	RepoFactory func(tx *gorm.DB) productRepository
}

type service struct {
	tx   TxRunner
	logg *logger.Logger
	repo func(tx *gorm.DB) productRepository
}

// NewService builds the catalog service.
func NewService(params ServiceParams) (Service, error) {
	if params.TxRunner == nil {
		return nil, pkgerrors.New(pkgerrors.CodeInternal, "transaction runner required")
	}
	if params.Logger == nil {
		return nil, pkgerrors.New(pkgerrors.CodeInternal, "logger required")
	}
	repo := params.RepoFactory
	if repo == nil {
		repo = func(tx *gorm.DB) productRepository { return NewRepository(tx) }
	}
	return &service{tx: params.TxRunner, logg: params.Logger, repo: repo}, nil
}

// Create registers a product. A repeated sku is rejected as a conflict.
func (s *service) Create(ctx context.Context, req CreateProductRequest) (*ProductDTO, error) {
	sku := strings.TrimSpace(req.SKU)
	name := strings.TrimSpace(req.Name)
	if sku == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "el sku es obligatorio")
	}
	if name == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "el nombre es obligatorio")
	}
	if req.Price.IsNegative() {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "el precio no puede ser negativo")
	}
	if req.Stock < 0 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "el stock no puede ser negativo")
	}

	product := &models.Product{
		SKU:         sku,
		Name:        name,
		Description: req.Description,
		Price:       req.Price,
		Stock:       req.Stock,
		IsActive:    true,
	}
	err := s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		return s.repo(tx).Create(ctx, product)
	})
	if err != nil {
		if db.IsUniqueViolation(err, "ux_products_sku") {
			return nil, pkgerrors.New(pkgerrors.CodeSKUExists, "el sku ya está registrado")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "create product")
	}

	ctx = s.logg.WithFields(ctx, map[string]any{"product_id": product.ID.String(), "sku": product.SKU})
	s.logg.Info(ctx, "product created")
	return FromModel(product), nil
}

// List pages through the active catalog, newest first.
func (s *service) List(ctx context.Context, params ListProductsParams) (*pagination.Page[ProductDTO], error) {
	var (
		rows  []models.Product
		total int64
	)
	err := s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		var err error
		rows, total, err = s.repo(tx).ListActive(ctx, params)
		return err
	})
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "list products")
	}

	items := make([]ProductDTO, 0, len(rows))
	for i := range rows {
		items = append(items, *FromModel(&rows[i]))
	}
	return &pagination.Page[ProductDTO]{Items: items, Total: total}, nil
}

// Get loads a single product by id.
func (s *service) Get(ctx context.Context, id uuid.UUID) (*ProductDTO, error) {
	var product *models.Product
	err := s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		var err error
		product, err = s.repo(tx).FindByID(ctx, id)
		return err
	})
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "producto no encontrado")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "find product")
	}
	return FromModel(product), nil
}

// UpdateStock replaces the absolute stock level of a product.
func (s *service) UpdateStock(ctx context.Context, id uuid.UUID, stock int) error {
	if stock < 0 {
		return pkgerrors.New(pkgerrors.CodeValidation, "el stock no puede ser negativo")
	}
	var touched int64
	err := s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		var err error
		touched, err = s.repo(tx).UpdateStock(ctx, id, stock)
		return err
	})
	if err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "update product stock")
	}
	if touched == 0 {
		return pkgerrors.New(pkgerrors.CodeNotFound, "producto no encontrado")
	}
	return nil
}

// Deactivate soft-deletes a product; an already inactive or missing product
// is reported as not found.
func (s *service) Deactivate(ctx context.Context, id uuid.UUID) error {
	var touched int64
	err := s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		var err error
		touched, err = s.repo(tx).Deactivate(ctx, id)
		return err
	})
	if err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "deactivate product")
	}
	if touched == 0 {
		return pkgerrors.New(pkgerrors.CodeNotFound, "producto no encontrado")
	}
	return nil
}
