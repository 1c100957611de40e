package memory_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/grocery-inventory-api/internal/domain"
	"github.com/jhoicas/grocery-inventory-api/internal/domain/entity"
	"github.com/jhoicas/grocery-inventory-api/internal/domain/repository"
	"github.com/jhoicas/grocery-inventory-api/internal/infrastructure/memory"
)

var now = time.Date(2026, 3, 10, 12, 0, 0, 0, time.UTC)

func product(id, sku string, qty int) *entity.Product {
	return entity.RestoreProduct(entity.Product{
		ID: id, Name: "Leche " + id, SKU: sku, Price: decimal.NewFromInt(3500),
		CategoryID: "cat-1", SupplierID: "sup-1", CreatedAt: now, UpdatedAt: now,
	}, qty)
}

// ──────────────────────────────────────────────────────────────────────────────
// Productos
// ──────────────────────────────────────────────────────────────────────────────

func TestProductRepo_SKUDuplicado(t *testing.T) {
	ctx := context.Background()
	repo := memory.NewProductRepository(memory.NewStore())

	require.NoError(t, repo.Create(ctx, product("p1", "LCH-1", 0)))
	assert.ErrorIs(t, repo.Create(ctx, product("p2", "LCH-1", 0)), domain.ErrDuplicate)

	// un SKU archivado vuelve a quedar libre
	require.NoError(t, repo.Archive(ctx, "p1", now))
	assert.NoError(t, repo.Create(ctx, product("p2", "LCH-1", 0)))
}

func TestProductRepo_UpdateNoTocaCantidad(t *testing.T) {
	ctx := context.Background()
	repo := memory.NewProductRepository(memory.NewStore())
	require.NoError(t, repo.Create(ctx, product("p1", "LCH-1", 7)))

	changed := product("p1", "LCH-1", 999)
	changed.Name = "Leche entera"
	require.NoError(t, repo.Update(ctx, changed))

	got, err := repo.GetByID(ctx, "p1")
	require.NoError(t, err)
	assert.Equal(t, "Leche entera", got.Name)
	assert.Equal(t, 7, got.Quantity())
}

func TestProductRepo_ListFiltraYPagina(t *testing.T) {
	ctx := context.Background()
	repo := memory.NewProductRepository(memory.NewStore())
	for i, id := range []string{"a", "b", "c", "d"} {
		require.NoError(t, repo.Create(ctx, product(id, "SKU-"+id, i*5)))
	}

	threshold := 5
	list, total, err := repo.List(ctx, repository.ProductFilter{LowStockThreshold: &threshold})
	require.NoError(t, err)
	assert.Equal(t, 2, total)
	assert.Len(t, list, 2)

	list, total, err = repo.List(ctx, repository.ProductFilter{Limit: 3, Offset: 3})
	require.NoError(t, err)
	assert.Equal(t, 4, total)
	require.Len(t, list, 1)
	assert.Equal(t, "d", list[0].ID)

	low, err := repo.ListLowStock(ctx, 10)
	require.NoError(t, err)
	require.Len(t, low, 3)
	assert.Equal(t, 0, low[0].Quantity())
}

func TestProductRepo_Vencimientos(t *testing.T) {
	ctx := context.Background()
	repo := memory.NewProductRepository(memory.NewStore())

	yesterday := now.AddDate(0, 0, -1)
	inThree := now.AddDate(0, 0, 3)
	p1, p2, p3 := product("p1", "S1", 1), product("p2", "S2", 1), product("p3", "S3", 1)
	p1.ExpiryDate, p2.ExpiryDate = &yesterday, &inThree
	require.NoError(t, repo.Create(ctx, p1))
	require.NoError(t, repo.Create(ctx, p2))
	require.NoError(t, repo.Create(ctx, p3))

	expired, err := repo.ListExpired(ctx, now)
	require.NoError(t, err)
	require.Len(t, expired, 1)
	assert.Equal(t, "p1", expired[0].ID)

	expiring, err := repo.ListExpiring(ctx, now, now.AddDate(0, 0, 7))
	require.NoError(t, err)
	require.Len(t, expiring, 1)
	assert.Equal(t, "p2", expiring[0].ID)
}

// ──────────────────────────────────────────────────────────────────────────────
// Transacciones
// ──────────────────────────────────────────────────────────────────────────────

func TestTxRunner_ErrorEnCallbackNoAplicaNada(t *testing.T) {
	ctx := context.Background()
	store := memory.NewStore()
	products := memory.NewProductRepository(store)
	require.NoError(t, products.Create(ctx, product("p1", "S1", 5)))

	boom := errors.New("boom")
	err := memory.NewTxRunner(store).Run(ctx, func(stock repository.StockRepository, ledger repository.StockTransactionRepository, _ repository.ProductRepository) error {
		p, err := stock.GetForUpdate(ctx, "p1")
		require.NoError(t, err)
		tx, err := p.StockIn(3, "u1", "", now)
		require.NoError(t, err)
		require.NoError(t, stock.SaveQuantity(ctx, p))
		require.NoError(t, ledger.Create(ctx, tx))
		return boom
	})
	require.ErrorIs(t, err, boom)

	got, err := products.GetByID(ctx, "p1")
	require.NoError(t, err)
	assert.Equal(t, 5, got.Quantity())

	_, total, err := memory.NewStockTransactionRepository(store).List(ctx, repository.TransactionFilter{})
	require.NoError(t, err)
	assert.Zero(t, total)
}

func TestTxRunner_FalloAlConfirmarRestaura(t *testing.T) {
	ctx := context.Background()
	store := memory.NewStore()
	categories := memory.NewCategoryRepository(store)
	require.NoError(t, categories.Create(ctx, &entity.Category{ID: "c1", Name: "Lácteos", CreatedAt: now}))

	err := memory.NewTxRunner(store).RunCatalog(ctx, func(cats repository.CategoryRepository, _ repository.SupplierRepository, _ repository.ProductRepository) error {
		require.NoError(t, cats.Create(ctx, &entity.Category{ID: "c2", Name: "Granos", CreatedAt: now}))
		// choca con c1 al aplicarse
		return cats.Create(ctx, &entity.Category{ID: "c3", Name: "lácteos", CreatedAt: now})
	})
	require.ErrorIs(t, err, domain.ErrDuplicate)

	list, err := categories.List(ctx)
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, "c1", list[0].ID)
}

func TestTxRunner_ArchivaCategoriaYProductos(t *testing.T) {
	ctx := context.Background()
	store := memory.NewStore()
	categories := memory.NewCategoryRepository(store)
	products := memory.NewProductRepository(store)
	require.NoError(t, categories.Create(ctx, &entity.Category{ID: "cat-1", Name: "Lácteos", CreatedAt: now}))
	require.NoError(t, products.Create(ctx, product("p1", "S1", 2)))
	require.NoError(t, products.Create(ctx, product("p2", "S2", 2)))

	c, err := categories.GetByID(ctx, "cat-1")
	require.NoError(t, err)
	assert.Equal(t, 2, c.ProductCount)

	err = memory.NewTxRunner(store).RunCatalog(ctx, func(cats repository.CategoryRepository, _ repository.SupplierRepository, prods repository.ProductRepository) error {
		if err := prods.ArchiveByCategory(ctx, "cat-1", now); err != nil {
			return err
		}
		return cats.Archive(ctx, "cat-1", now)
	})
	require.NoError(t, err)

	c, err = categories.GetByID(ctx, "cat-1")
	require.NoError(t, err)
	assert.Nil(t, c)
	p, err := products.GetByID(ctx, "p1")
	require.NoError(t, err)
	assert.Nil(t, p)
}

func TestTxRunner_CandadoRespetaContexto(t *testing.T) {
	store := memory.NewStore()
	products := memory.NewProductRepository(store)
	require.NoError(t, products.Create(context.Background(), product("p1", "S1", 1)))

	held := make(chan struct{})
	done := make(chan struct{})
	runner := memory.NewTxRunner(store)
	go func() {
		_ = runner.Run(context.Background(), func(stock repository.StockRepository, _ repository.StockTransactionRepository, _ repository.ProductRepository) error {
			_, err := stock.GetForUpdate(context.Background(), "p1")
			close(held)
			<-done
			return err
		})
	}()
	<-held

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()
	err := runner.Run(ctx, func(stock repository.StockRepository, _ repository.StockTransactionRepository, _ repository.ProductRepository) error {
		_, err := stock.GetForUpdate(ctx, "p1")
		return err
	})
	close(done)
	assert.ErrorIs(t, err, domain.ErrPersistence)
	assert.ErrorIs(t, err, context.DeadlineExceeded)
}
