package products

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/estilosboom/boom-backend/pkg/db"
	"github.com/estilosboom/boom-backend/pkg/db/models"
	"github.com/estilosboom/boom-backend/pkg/pagination"
)

func setupProductsTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	gdb, err := gorm.Open(sqlite.Open("file::memory:?cache=shared"), &gorm.Config{})
	require.NoError(t, err)

	products := `
CREATE TABLE IF NOT EXISTS products (
  id TEXT PRIMARY KEY,
  sku TEXT NOT NULL,
  name TEXT NOT NULL,
  description TEXT,
  price NUMERIC NOT NULL,
  stock INTEGER NOT NULL DEFAULT 0,
  is_active INTEGER NOT NULL DEFAULT 1,
  created_at DATETIME,
  updated_at DATETIME
);`
	require.NoError(t, gdb.Exec(products).Error)
	require.NoError(t, gdb.Exec(`CREATE UNIQUE INDEX IF NOT EXISTS ux_products_sku ON products(sku);`).Error)
	return gdb
}

func seedProduct(t *testing.T, gdb *gorm.DB, sku, name string, active bool, created time.Time) *models.Product {
	t.Helper()

	product := &models.Product{
		ID:        uuid.New(),
		SKU:       sku,
		Name:      name,
		Price:     decimal.NewFromFloat(49.90),
		Stock:     5,
		IsActive:  active,
		CreatedAt: created,
		UpdatedAt: created,
	}
	require.NoError(t, gdb.Create(product).Error)
	return product
}

func TestRepositoryCreateDuplicateSKU(t *testing.T) {
	gdb := setupProductsTestDB(t)
	repo := NewRepository(gdb)
	ctx := context.Background()

	first := &models.Product{
		ID:    uuid.New(),
		SKU:   "DUP-SKU-100",
		Name:  "Polo original",
		Price: decimal.NewFromFloat(59.90),
		Stock: 3,
	}
	require.NoError(t, repo.Create(ctx, first))

	second := &models.Product{
		ID:    uuid.New(),
		SKU:   "DUP-SKU-100",
		Name:  "Polo colado",
		Price: decimal.NewFromFloat(59.90),
	}
	err := repo.Create(ctx, second)
	require.Error(t, err)
	assert.True(t, db.IsUniqueViolation(err, ""))
	// The named check must classify sqlite's message too, so the service
	// maps the collision to SKU_ALREADY_EXISTS on either driver.
	assert.True(t, db.IsUniqueViolation(err, "ux_products_sku"))
}

func TestRepositoryFindByID(t *testing.T) {
	gdb := setupProductsTestDB(t)
	repo := NewRepository(gdb)
	ctx := context.Background()

	seeded := seedProduct(t, gdb, "FIND-001", "Casaca denim", false, time.Now().UTC())

	found, err := repo.FindByID(ctx, seeded.ID)
	require.NoError(t, err)
	assert.Equal(t, seeded.ID, found.ID)
	assert.Equal(t, "FIND-001", found.SKU)
	// Inactive rows stay reachable by ID.
	assert.False(t, found.IsActive)

	_, err = repo.FindByID(ctx, uuid.New())
	assert.ErrorIs(t, err, gorm.ErrRecordNotFound)
}

func TestRepositoryListActive(t *testing.T) {
	gdb := setupProductsTestDB(t)
	repo := NewRepository(gdb)
	ctx := context.Background()

	base := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	oldest := seedProduct(t, gdb, "LST-001", "Camisa lino", true, base)
	middle := seedProduct(t, gdb, "LST-002", "Camisa oxford", true, base.Add(time.Hour))
	newest := seedProduct(t, gdb, "LST-003", "Camisa franela", true, base.Add(2*time.Hour))
	seedProduct(t, gdb, "LST-004", "Camisa retirada", false, base.Add(3*time.Hour))

	rows, total, err := repo.ListActive(ctx, ListProductsParams{
		Pagination: pagination.Params{Limit: 10},
		Search:     "camisa",
	})
	require.NoError(t, err)
	assert.Equal(t, int64(3), total)
	require.Len(t, rows, 3)
	assert.Equal(t, newest.ID, rows[0].ID)
	assert.Equal(t, middle.ID, rows[1].ID)
	assert.Equal(t, oldest.ID, rows[2].ID)

	rows, total, err = repo.ListActive(ctx, ListProductsParams{
		Pagination: pagination.Params{Limit: 2, Offset: 2},
		Search:     "camisa",
	})
	require.NoError(t, err)
	assert.Equal(t, int64(3), total)
	require.Len(t, rows, 1)
	assert.Equal(t, oldest.ID, rows[0].ID)

	rows, total, err = repo.ListActive(ctx, ListProductsParams{
		Pagination: pagination.Params{Limit: 10},
		Search:     "lst-002",
	})
	require.NoError(t, err)
	assert.Equal(t, int64(1), total)
	require.Len(t, rows, 1)
	assert.Equal(t, middle.ID, rows[0].ID)
}

func TestRepositoryUpdateStock(t *testing.T) {
	gdb := setupProductsTestDB(t)
	repo := NewRepository(gdb)
	ctx := context.Background()

	seeded := seedProduct(t, gdb, "STK-001", "Jean slim", true, time.Now().UTC())

	touched, err := repo.UpdateStock(ctx, seeded.ID, 42)
	require.NoError(t, err)
	assert.Equal(t, int64(1), touched)

	reloaded, err := repo.FindByID(ctx, seeded.ID)
	require.NoError(t, err)
	assert.Equal(t, 42, reloaded.Stock)

	touched, err = repo.UpdateStock(ctx, uuid.New(), 1)
	require.NoError(t, err)
	assert.Zero(t, touched)
}

func TestRepositoryDeactivate(t *testing.T) {
	gdb := setupProductsTestDB(t)
	repo := NewRepository(gdb)
	ctx := context.Background()

	seeded := seedProduct(t, gdb, "OFF-001", "Gorra trucker", true, time.Now().UTC())

	touched, err := repo.Deactivate(ctx, seeded.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(1), touched)

	reloaded, err := repo.FindByID(ctx, seeded.ID)
	require.NoError(t, err)
	assert.False(t, reloaded.IsActive)

	// Already-inactive rows are not touched again.
	touched, err = repo.Deactivate(ctx, seeded.ID)
	require.NoError(t, err)
	assert.Zero(t, touched)
}
