package inventory_test

import (
	"context"
	"errors"
	"math"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/grocery-inventory-api/internal/application/inventory"
	"github.com/jhoicas/grocery-inventory-api/internal/domain"
	"github.com/jhoicas/grocery-inventory-api/internal/domain/entity"
	"github.com/jhoicas/grocery-inventory-api/internal/domain/repository"
	"github.com/jhoicas/grocery-inventory-api/internal/infrastructure/memory"
	"github.com/jhoicas/grocery-inventory-api/pkg/logger"
)

// ──────────────────────────────────────────────────────────────────────────────
// Helpers de test
// ──────────────────────────────────────────────────────────────────────────────

type fakeClock struct {
	mu sync.Mutex
	t  time.Time
}

func (c *fakeClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.t
}

func (c *fakeClock) Advance(d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.t = c.t.Add(d)
}

type recordingNotifier struct {
	mu     sync.Mutex
	alerts []entity.LowStockAlert
}

func (n *recordingNotifier) Notify(a entity.LowStockAlert) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.alerts = append(n.alerts, a)
}

func (n *recordingNotifier) All() []entity.LowStockAlert {
	n.mu.Lock()
	defer n.mu.Unlock()
	return append([]entity.LowStockAlert(nil), n.alerts...)
}

type fixture struct {
	ctx      context.Context
	store    *memory.Store
	products *memory.ProductRepo
	ledger   *memory.StockTransactionRepo
	notifier *recordingNotifier
	clock    *fakeClock
	uc       *inventory.StockMovementUseCase
	report   *inventory.MovementReportUseCase
	actorID  string
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	ctx := context.Background()
	store := memory.NewStore()
	users := memory.NewUserRepository(store)
	actor := &entity.User{
		ID:       uuid.New().String(),
		Username: "ana",
		Email:    "ana@tienda.test",
		Role:     entity.RoleStaff,
		Status:   entity.UserStatusActive,
	}
	require.NoError(t, users.Create(ctx, actor))

	clock := &fakeClock{t: time.Date(2026, 5, 4, 9, 0, 0, 0, time.UTC)}
	notifier := &recordingNotifier{}
	log := logger.New(logger.Config{Env: "test", Level: "error"})
	ledger := memory.NewStockTransactionRepository(store)

	return &fixture{
		ctx:      ctx,
		store:    store,
		products: memory.NewProductRepository(store),
		ledger:   ledger,
		notifier: notifier,
		clock:    clock,
		uc: inventory.NewStockMovementUseCase(memory.NewTxRunner(store), users, notifier, 10, log).
			WithClock(clock.Now),
		report:  inventory.NewMovementReportUseCase(ledger).WithClock(clock.Now),
		actorID: actor.ID,
	}
}

// seedProduct crea un producto con la cantidad indicada directamente en el almacén.
func (f *fixture) seedProduct(t *testing.T, qty int) string {
	t.Helper()
	id := uuid.New().String()
	p := entity.RestoreProduct(entity.Product{
		ID:         id,
		Name:       "Arroz 1kg",
		SKU:        "ARZ-" + id[:8],
		Price:      decimal.NewFromInt(4200),
		CategoryID: "cat-1",
		SupplierID: "sup-1",
		CreatedAt:  f.clock.Now(),
		UpdatedAt:  f.clock.Now(),
	}, qty)
	require.NoError(t, f.products.Create(f.ctx, p))
	return id
}

func (f *fixture) quantity(t *testing.T, productID string) int {
	t.Helper()
	p, err := f.products.GetByID(f.ctx, productID)
	require.NoError(t, err)
	require.NotNil(t, p)
	return p.Quantity()
}

func (f *fixture) entries(t *testing.T, productID string) []*entity.StockTransaction {
	t.Helper()
	list, _, err := f.ledger.List(f.ctx, repository.TransactionFilter{ProductID: productID, Limit: 1000})
	require.NoError(t, err)
	return list
}

func (f *fixture) in(productID string, qty int) (*inventory.MovementResult, error) {
	return f.uc.RecordStockIn(f.ctx, inventory.StockInCommand{ProductID: productID, Quantity: qty, ActorID: f.actorID})
}

func (f *fixture) out(productID string, qty int) (*inventory.MovementResult, error) {
	return f.uc.RecordStockOut(f.ctx, inventory.StockOutCommand{ProductID: productID, Quantity: qty, ActorID: f.actorID})
}

// ──────────────────────────────────────────────────────────────────────────────
// Entradas
// ──────────────────────────────────────────────────────────────────────────────

func TestRecordStockIn_SumaYRegistraEntrada(t *testing.T) {
	f := newFixture(t)
	id := f.seedProduct(t, 5)

	res, err := f.uc.RecordStockIn(f.ctx, inventory.StockInCommand{
		ProductID: id, Quantity: 7, ActorID: f.actorID, Note: "  compra proveedor  ",
	})
	require.NoError(t, err)

	assert.Equal(t, 12, res.NewQuantity)
	assert.False(t, res.LowStockWarning)
	assert.Equal(t, 12, f.quantity(t, id))

	entries := f.entries(t, id)
	require.Len(t, entries, 1)
	assert.Equal(t, entity.TransactionTypeIn, entries[0].Type)
	assert.Equal(t, 7, entries[0].Quantity)
	assert.Equal(t, f.actorID, entries[0].UserID)
	assert.Equal(t, "compra proveedor", entries[0].Notes)
	assert.Equal(t, f.clock.Now(), entries[0].Date)
	assert.Equal(t, res.Transaction.ID, entries[0].ID)
}

func TestRecordStockIn_SinLimiteSuperior(t *testing.T) {
	f := newFixture(t)
	id := f.seedProduct(t, 0)

	res, err := f.in(id, 1_000_000)
	require.NoError(t, err)
	assert.Equal(t, 1_000_000, res.NewQuantity)
}

func TestRecordStockIn_DesbordeDeExistencia_NoCambiaNada(t *testing.T) {
	f := newFixture(t)
	id := f.seedProduct(t, 1)

	for _, qty := range []int{math.MaxInt, entity.MaxQuantity} {
		_, err := f.in(id, qty)
		assert.ErrorIs(t, err, domain.ErrInvalidInput)
	}
	assert.Equal(t, 1, f.quantity(t, id))
	assert.Empty(t, f.entries(t, id))

	res, err := f.in(id, entity.MaxQuantity-1)
	require.NoError(t, err)
	assert.Equal(t, entity.MaxQuantity, res.NewQuantity)
	assert.Equal(t, entity.MaxQuantity, f.quantity(t, id))
}

func TestMovimientos_CantidadNoPositiva_NoCambiaNada(t *testing.T) {
	f := newFixture(t)
	id := f.seedProduct(t, 5)

	for _, qty := range []int{0, -1, -50} {
		_, err := f.in(id, qty)
		assert.ErrorIs(t, err, domain.ErrInvalidQuantity)
		_, err = f.out(id, qty)
		assert.ErrorIs(t, err, domain.ErrInvalidQuantity)
	}

	assert.Equal(t, 5, f.quantity(t, id))
	assert.Empty(t, f.entries(t, id))
}

// ──────────────────────────────────────────────────────────────────────────────
// Salidas
// ──────────────────────────────────────────────────────────────────────────────

func TestRecordStockOut_HastaCero_AvisaStockBajo(t *testing.T) {
	f := newFixture(t)
	id := f.seedProduct(t, 5)

	res, err := f.out(id, 5)
	require.NoError(t, err)

	assert.Equal(t, 0, res.NewQuantity)
	assert.True(t, res.LowStockWarning)
	assert.Equal(t, entity.TransactionTypeOut, res.Transaction.Type)
	assert.Equal(t, 5, res.Transaction.Quantity)

	alerts := f.notifier.All()
	require.Len(t, alerts, 1)
	assert.Equal(t, id, alerts[0].ProductID)
	assert.Equal(t, 0, alerts[0].Quantity)
	assert.Equal(t, 10, alerts[0].Threshold)
}

func TestRecordStockOut_Insuficiente_NoModifica(t *testing.T) {
	f := newFixture(t)
	id := f.seedProduct(t, 5)

	res, err := f.out(id, 6)
	assert.Nil(t, res)
	require.ErrorIs(t, err, domain.ErrInsufficientStock)

	var detail *domain.InsufficientStockError
	require.True(t, errors.As(err, &detail))
	assert.Equal(t, 6, detail.Requested)
	assert.Equal(t, 5, detail.Available)

	assert.Equal(t, 5, f.quantity(t, id))
	assert.Empty(t, f.entries(t, id))
	assert.Empty(t, f.notifier.All())
}

func TestRecordStockOut_LimiteDelUmbral(t *testing.T) {
	f := newFixture(t)

	atThreshold := f.seedProduct(t, 15)
	res, err := f.out(atThreshold, 5)
	require.NoError(t, err)
	assert.Equal(t, 10, res.NewQuantity)
	assert.True(t, res.LowStockWarning, "quedar exactamente en el umbral es stock bajo")

	above := f.seedProduct(t, 16)
	res, err = f.out(above, 5)
	require.NoError(t, err)
	assert.Equal(t, 11, res.NewQuantity)
	assert.False(t, res.LowStockWarning)

	assert.Len(t, f.notifier.All(), 1)
}

func TestRecordStockOut_UmbralConfigurable(t *testing.T) {
	f := newFixture(t)
	users := memory.NewUserRepository(f.store)
	uc := inventory.NewStockMovementUseCase(memory.NewTxRunner(f.store), users, nil, 3,
		logger.New(logger.Config{Env: "test", Level: "error"}))
	id := f.seedProduct(t, 10)

	res, err := uc.RecordStockOut(f.ctx, inventory.StockOutCommand{ProductID: id, Quantity: 6, ActorID: f.actorID})
	require.NoError(t, err)
	assert.False(t, res.LowStockWarning)

	res, err = uc.RecordStockOut(f.ctx, inventory.StockOutCommand{ProductID: id, Quantity: 1, ActorID: f.actorID})
	require.NoError(t, err)
	assert.True(t, res.LowStockWarning)
	assert.Equal(t, 3, uc.LowStockThreshold())
}

// ──────────────────────────────────────────────────────────────────────────────
// Referencias inválidas
// ──────────────────────────────────────────────────────────────────────────────

func TestMovimientos_ProductoInexistente(t *testing.T) {
	f := newFixture(t)

	_, err := f.in(uuid.New().String(), 3)
	assert.ErrorIs(t, err, domain.ErrItemNotFound)
	_, err = f.out(uuid.New().String(), 3)
	assert.ErrorIs(t, err, domain.ErrItemNotFound)
}

func TestMovimientos_ProductoArchivado(t *testing.T) {
	f := newFixture(t)
	id := f.seedProduct(t, 8)
	require.NoError(t, f.products.Archive(f.ctx, id, f.clock.Now()))

	_, err := f.in(id, 3)
	assert.ErrorIs(t, err, domain.ErrItemNotFound)
}

func TestMovimientos_UsuarioInexistente(t *testing.T) {
	f := newFixture(t)
	id := f.seedProduct(t, 8)

	_, err := f.uc.RecordStockIn(f.ctx, inventory.StockInCommand{ProductID: id, Quantity: 3, ActorID: uuid.New().String()})
	assert.ErrorIs(t, err, domain.ErrActorNotFound)
	_, err = f.uc.RecordStockOut(f.ctx, inventory.StockOutCommand{ProductID: id, Quantity: 3})
	assert.ErrorIs(t, err, domain.ErrActorNotFound)

	assert.Equal(t, 8, f.quantity(t, id))
	assert.Empty(t, f.entries(t, id))
}

func TestMovimientos_NotaDemasiadoLarga(t *testing.T) {
	f := newFixture(t)
	id := f.seedProduct(t, 8)

	long := make([]rune, 501)
	for i := range long {
		long[i] = 'ñ'
	}
	_, err := f.uc.RecordStockIn(f.ctx, inventory.StockInCommand{ProductID: id, Quantity: 1, ActorID: f.actorID, Note: string(long)})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
	assert.Equal(t, 8, f.quantity(t, id))
}

// ──────────────────────────────────────────────────────────────────────────────
// Propiedades del libro
// ──────────────────────────────────────────────────────────────────────────────

func TestLibro_ConservacionDeCantidades(t *testing.T) {
	f := newFixture(t)
	id := f.seedProduct(t, 4)

	ops := []struct {
		in  bool
		qty int
	}{
		{true, 10}, {false, 3}, {false, 20}, {true, 1}, {false, 12}, {false, 1}, {true, 7}, {false, 0},
	}
	sumIn, sumOut, okCount := 0, 0, 0
	for _, op := range ops {
		var err error
		if op.in {
			_, err = f.in(id, op.qty)
		} else {
			_, err = f.out(id, op.qty)
		}
		if err != nil {
			continue
		}
		okCount++
		if op.in {
			sumIn += op.qty
		} else {
			sumOut += op.qty
		}
		assert.GreaterOrEqual(t, f.quantity(t, id), 0)
	}

	assert.Equal(t, 4+sumIn-sumOut, f.quantity(t, id))
	assert.Len(t, f.entries(t, id), okCount, "una entrada por cada movimiento exitoso")
}

func TestLibro_EntradaYSalidaIgualesRestauran(t *testing.T) {
	f := newFixture(t)
	id := f.seedProduct(t, 9)

	_, err := f.in(id, 4)
	require.NoError(t, err)
	_, err = f.out(id, 4)
	require.NoError(t, err)

	assert.Equal(t, 9, f.quantity(t, id))
	assert.Len(t, f.entries(t, id), 2)
}

func TestLibro_FalloAlEscribirEntrada_RevierteCantidad(t *testing.T) {
	f := newFixture(t)
	id := f.seedProduct(t, 5)

	f.store.FailLedgerWrites(errors.New("disco lleno"))
	_, err := f.out(id, 2)
	require.ErrorIs(t, err, domain.ErrPersistence)
	assert.Equal(t, 5, f.quantity(t, id), "la cantidad no cambia si no se pudo registrar la entrada")
	assert.Empty(t, f.entries(t, id))
	assert.Empty(t, f.notifier.All())

	f.store.FailLedgerWrites(nil)
	res, err := f.out(id, 2)
	require.NoError(t, err)
	assert.Equal(t, 3, res.NewQuantity)
	assert.Len(t, f.entries(t, id), 1)
}

// ──────────────────────────────────────────────────────────────────────────────
// Concurrencia
// ──────────────────────────────────────────────────────────────────────────────

func TestConcurrencia_SalidasSobreMismoProducto(t *testing.T) {
	f := newFixture(t)
	id := f.seedProduct(t, 20)

	const workers = 50
	var (
		wg           sync.WaitGroup
		mu           sync.Mutex
		ok, rejected int
	)
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := f.out(id, 3)
			mu.Lock()
			defer mu.Unlock()
			switch {
			case err == nil:
				ok++
			case errors.Is(err, domain.ErrInsufficientStock):
				rejected++
			default:
				t.Errorf("error inesperado: %v", err)
			}
		}()
	}
	wg.Wait()

	assert.Equal(t, 6, ok, "20 / 3 = 6 salidas posibles")
	assert.Equal(t, workers-6, rejected)
	assert.Equal(t, 2, f.quantity(t, id))
	assert.Len(t, f.entries(t, id), 6)
}

func TestConcurrencia_EntradasYSalidasMezcladas(t *testing.T) {
	f := newFixture(t)
	a := f.seedProduct(t, 100)
	b := f.seedProduct(t, 0)

	var wg sync.WaitGroup
	for i := 0; i < 40; i++ {
		wg.Add(2)
		go func() {
			defer wg.Done()
			_, err := f.out(a, 2)
			assert.NoError(t, err)
		}()
		go func() {
			defer wg.Done()
			_, err := f.in(b, 2)
			assert.NoError(t, err)
		}()
	}
	wg.Wait()

	assert.Equal(t, 20, f.quantity(t, a))
	assert.Equal(t, 80, f.quantity(t, b))
	assert.Len(t, f.entries(t, a), 40)
	assert.Len(t, f.entries(t, b), 40)
}
