package products

import (
	"context"
	"fmt"
	"io"
	"testing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/estilosboom/boom-backend/pkg/db/models"
	pkgerrors "github.com/estilosboom/boom-backend/pkg/errors"
	"github.com/estilosboom/boom-backend/pkg/logger"
)

type stubTxRunner struct{}

func (stubTxRunner) WithTx(ctx context.Context, fn func(tx *gorm.DB) error) error {
	return fn(nil)
}

type stubProductRepo struct {
	byID      map[uuid.UUID]*models.Product
	bySKU     map[string]bool
	created   []*models.Product
	listRows  []models.Product
	listTotal int64
	touched   map[string]int64
}

func newStubProductRepo() *stubProductRepo {
	return &stubProductRepo{
		byID:    map[uuid.UUID]*models.Product{},
		bySKU:   map[string]bool{},
		touched: map[string]int64{},
	}
}

func (s *stubProductRepo) Create(_ context.Context, product *models.Product) error {
	if s.bySKU[product.SKU] {
		return fmt.Errorf(`duplicate key value violates unique constraint "ux_products_sku"`)
	}
	product.ID = uuid.New()
	s.bySKU[product.SKU] = true
	s.byID[product.ID] = product
	s.created = append(s.created, product)
	return nil
}

func (s *stubProductRepo) FindByID(_ context.Context, id uuid.UUID) (*models.Product, error) {
	if product, ok := s.byID[id]; ok {
		return product, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (s *stubProductRepo) ListActive(_ context.Context, _ ListProductsParams) ([]models.Product, int64, error) {
	return s.listRows, s.listTotal, nil
}

func (s *stubProductRepo) UpdateStock(_ context.Context, id uuid.UUID, stock int) (int64, error) {
	product, ok := s.byID[id]
	if !ok {
		return 0, nil
	}
	product.Stock = stock
	s.touched["stock"]++
	return 1, nil
}

func (s *stubProductRepo) Deactivate(_ context.Context, id uuid.UUID) (int64, error) {
	product, ok := s.byID[id]
	if !ok || !product.IsActive {
		return 0, nil
	}
	product.IsActive = false
	s.touched["deactivate"]++
	return 1, nil
}

func newProductTestSetup(t *testing.T) (Service, *stubProductRepo) {
	t.Helper()
	repo := newStubProductRepo()
	svc, err := NewService(ServiceParams{
		TxRunner: stubTxRunner{},
		Logger:   logger.New(logger.Options{ServiceName: "test", Output: io.Discard}),
		RepoFactory: func(tx *gorm.DB) productRepository {
			return repo
		},
	})
	if err != nil {
		t.Fatalf("new product service: %v", err)
	}
	return svc, repo
}

func sampleCreateRequest() CreateProductRequest {
	description := "Polo de algodón"
	return CreateProductRequest{
		SKU:         "SKU-001",
		Name:        "Polo clásico",
		Description: &description,
		Price:       decimal.RequireFromString("59.90"),
		Stock:       10,
	}
}

func TestCreateProduct(t *testing.T) {
	svc, repo := newProductTestSetup(t)

	dto, err := svc.Create(context.Background(), sampleCreateRequest())
	if err != nil {
		t.Fatalf("create failed: %v", err)
	}
	if len(repo.created) != 1 {
		t.Fatalf("expected one insert, got %d", len(repo.created))
	}
	if !dto.IsActive {
		t.Fatalf("new products must start active")
	}
	if !dto.Price.Equal(decimal.RequireFromString("59.90")) {
		t.Fatalf("price mutated: %s", dto.Price)
	}
}

func TestCreateProductDuplicateSKU(t *testing.T) {
	svc, repo := newProductTestSetup(t)

	if _, err := svc.Create(context.Background(), sampleCreateRequest()); err != nil {
		t.Fatalf("first create failed: %v", err)
	}
	_, err := svc.Create(context.Background(), sampleCreateRequest())
	if pkgerrors.As(err) == nil || pkgerrors.As(err).Code() != pkgerrors.CodeSKUExists {
		t.Fatalf("expected SKU_ALREADY_EXISTS, got %v", err)
	}
	if len(repo.created) != 1 {
		t.Fatalf("duplicate must not insert")
	}
}

func TestCreateProductValidation(t *testing.T) {
	svc, repo := newProductTestSetup(t)

	cases := map[string]func(*CreateProductRequest){
		"blank sku":      func(r *CreateProductRequest) { r.SKU = "  " },
		"blank name":     func(r *CreateProductRequest) { r.Name = "" },
		"negative price": func(r *CreateProductRequest) { r.Price = decimal.RequireFromString("-1") },
		"negative stock": func(r *CreateProductRequest) { r.Stock = -1 },
	}
	for name, mutate := range cases {
		req := sampleCreateRequest()
		mutate(&req)
		_, err := svc.Create(context.Background(), req)
		if pkgerrors.As(err) == nil || pkgerrors.As(err).Code() != pkgerrors.CodeValidation {
			t.Fatalf("%s: expected VALIDATION_ERROR, got %v", name, err)
		}
	}
	if len(repo.created) != 0 {
		t.Fatalf("invalid payloads must not insert")
	}
}

func TestGetProduct(t *testing.T) {
	svc, _ := newProductTestSetup(t)
	created, err := svc.Create(context.Background(), sampleCreateRequest())
	if err != nil {
		t.Fatalf("create failed: %v", err)
	}

	dto, err := svc.Get(context.Background(), created.ID)
	if err != nil {
		t.Fatalf("get failed: %v", err)
	}
	if dto.SKU != "SKU-001" {
		t.Fatalf("wrong product loaded: %s", dto.SKU)
	}

	_, err = svc.Get(context.Background(), uuid.New())
	if pkgerrors.As(err) == nil || pkgerrors.As(err).Code() != pkgerrors.CodeNotFound {
		t.Fatalf("expected NOT_FOUND, got %v", err)
	}
}

func TestListProducts(t *testing.T) {
	svc, repo := newProductTestSetup(t)
	repo.listRows = []models.Product{
		{ID: uuid.New(), SKU: "A", Name: "a", Price: decimal.Zero, IsActive: true},
		{ID: uuid.New(), SKU: "B", Name: "b", Price: decimal.Zero, IsActive: true},
	}
	repo.listTotal = 7

	page, err := svc.List(context.Background(), ListProductsParams{})
	if err != nil {
		t.Fatalf("list failed: %v", err)
	}
	if len(page.Items) != 2 || page.Total != 7 {
		t.Fatalf("unexpected page: %d items, total %d", len(page.Items), page.Total)
	}
}

func TestUpdateStock(t *testing.T) {
	svc, repo := newProductTestSetup(t)
	created, err := svc.Create(context.Background(), sampleCreateRequest())
	if err != nil {
		t.Fatalf("create failed: %v", err)
	}

	if err := svc.UpdateStock(context.Background(), created.ID, 42); err != nil {
		t.Fatalf("update stock failed: %v", err)
	}
	if repo.byID[created.ID].Stock != 42 {
		t.Fatalf("stock not persisted")
	}

	err = svc.UpdateStock(context.Background(), created.ID, -5)
	if pkgerrors.As(err) == nil || pkgerrors.As(err).Code() != pkgerrors.CodeValidation {
		t.Fatalf("expected VALIDATION_ERROR for negative stock, got %v", err)
	}

	err = svc.UpdateStock(context.Background(), uuid.New(), 1)
	if pkgerrors.As(err) == nil || pkgerrors.As(err).Code() != pkgerrors.CodeNotFound {
		t.Fatalf("expected NOT_FOUND for unknown id, got %v", err)
	}
}

func TestDeactivateProduct(t *testing.T) {
	svc, repo := newProductTestSetup(t)
	created, err := svc.Create(context.Background(), sampleCreateRequest())
	if err != nil {
		t.Fatalf("create failed: %v", err)
	}

	if err := svc.Deactivate(context.Background(), created.ID); err != nil {
		t.Fatalf("deactivate failed: %v", err)
	}
	if repo.byID[created.ID].IsActive {
		t.Fatalf("product still active")
	}

	// Repeating the soft delete reports not found.
	err = svc.Deactivate(context.Background(), created.ID)
	if pkgerrors.As(err) == nil || pkgerrors.As(err).Code() != pkgerrors.CodeNotFound {
		t.Fatalf("expected NOT_FOUND on second deactivate, got %v", err)
	}
}
