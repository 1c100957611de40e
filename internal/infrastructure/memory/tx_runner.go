package memory

import (
	"context"
	"fmt"
	"time"

	"github.com/jhoicas/grocery-inventory-api/internal/application/inventory"
	"github.com/jhoicas/grocery-inventory-api/internal/application/usecase"
	"github.com/jhoicas/grocery-inventory-api/internal/domain"
	"github.com/jhoicas/grocery-inventory-api/internal/domain/entity"
	"github.com/jhoicas/grocery-inventory-api/internal/domain/repository"
)

var (
	_ inventory.TxRunner      = (*TxRunner)(nil)
	_ usecase.CatalogTxRunner = (*TxRunner)(nil)
)

// TxRunner ejecuta callbacks con repositorios cuyas escrituras quedan pendientes
// hasta el Commit. Los productos leídos con GetForUpdate quedan bloqueados hasta el fin.
type TxRunner struct {
	s *Store
}

// NewTxRunner construye el runner sobre el almacén.
func NewTxRunner(s *Store) *TxRunner {
	return &TxRunner{s: s}
}

// Run abre una transacción de inventario: stock, libro y productos.
func (r *TxRunner) Run(ctx context.Context, fn func(
	stockRepo repository.StockRepository,
	txRepo repository.StockTransactionRepository,
	productRepo repository.ProductRepository,
) error) error {
	t := newTxState(r.s)
	defer t.release()

	if err := fn(&txStockRepo{t: t}, &txLedgerRepo{StockTransactionRepo: NewStockTransactionRepository(r.s), t: t}, t.productRepo()); err != nil {
		return err
	}
	return t.commit(ctx)
}

// RunCatalog abre una transacción de catálogo: categorías, proveedores y productos.
func (r *TxRunner) RunCatalog(ctx context.Context, fn func(
	categoryRepo repository.CategoryRepository,
	supplierRepo repository.SupplierRepository,
	productRepo repository.ProductRepository,
) error) error {
	t := newTxState(r.s)
	defer t.release()

	categories := &txCategoryRepo{CategoryRepo: NewCategoryRepository(r.s), t: t}
	suppliers := &txSupplierRepo{SupplierRepo: NewSupplierRepository(r.s), t: t}
	if err := fn(categories, suppliers, t.productRepo()); err != nil {
		return err
	}
	return t.commit(ctx)
}

type txState struct {
	s       *Store
	held    map[string]chan struct{}
	overlay map[string]*productRecord
	ops     []func() error
}

func newTxState(s *Store) *txState {
	return &txState{
		s:       s,
		held:    make(map[string]chan struct{}),
		overlay: make(map[string]*productRecord),
	}
}

func (t *txState) productRepo() *txProductRepo {
	return &txProductRepo{ProductRepo: NewProductRepository(t.s), t: t}
}

func (t *txState) enqueue(op func() error) { t.ops = append(t.ops, op) }

// commit aplica las operaciones pendientes en orden; si una falla restaura el estado previo.
func (t *txState) commit(ctx context.Context) error {
	if err := ctx.Err(); err != nil {
		return fmt.Errorf("%w: commit transaction: %w", domain.ErrPersistence, err)
	}
	s := t.s
	s.mu.Lock()
	defer s.mu.Unlock()
	snap := s.snapshotLocked()
	for _, op := range t.ops {
		if err := op(); err != nil {
			s.restoreLocked(snap)
			return err
		}
	}
	return nil
}

func (t *txState) release() {
	for _, l := range t.held {
		<-l
	}
	t.held = nil
}

func (t *txState) lock(ctx context.Context, productID string) error {
	if _, ok := t.held[productID]; ok {
		return nil
	}
	l, err := t.s.lockRow(ctx, productID)
	if err != nil {
		return fmt.Errorf("%w: lock product: %w", domain.ErrPersistence, err)
	}
	t.held[productID] = l
	return nil
}

type snapshot struct {
	products   map[string]productRecord
	ledgerLen  int
	categories map[string]entity.Category
	suppliers  map[string]entity.Supplier
}

func (s *Store) snapshotLocked() snapshot {
	snap := snapshot{
		products:   make(map[string]productRecord, len(s.products)),
		ledgerLen:  len(s.ledger),
		categories: make(map[string]entity.Category, len(s.categories)),
		suppliers:  make(map[string]entity.Supplier, len(s.suppliers)),
	}
	for id, rec := range s.products {
		snap.products[id] = *rec
	}
	for id, c := range s.categories {
		snap.categories[id] = c
	}
	for id, sup := range s.suppliers {
		snap.suppliers[id] = sup
	}
	return snap
}

func (s *Store) restoreLocked(snap snapshot) {
	s.products = make(map[string]*productRecord, len(snap.products))
	for id, rec := range snap.products {
		rec := rec
		s.products[id] = &rec
	}
	s.ledger = s.ledger[:snap.ledgerLen]
	s.categories = snap.categories
	s.suppliers = snap.suppliers
}

// ── stock ─────────────────────────────────────────────────────────────────────

type txStockRepo struct {
	t *txState
}

func (r *txStockRepo) GetForUpdate(ctx context.Context, productID string) (*entity.Product, error) {
	if rec, ok := r.t.overlay[productID]; ok {
		return rec.toEntity(), nil
	}
	if err := r.t.lock(ctx, productID); err != nil {
		return nil, err
	}
	r.t.s.mu.RLock()
	rec, ok := r.t.s.products[productID]
	var cp productRecord
	if ok {
		cp = *rec
	}
	r.t.s.mu.RUnlock()
	if !ok || cp.product.ArchivedAt != nil {
		return nil, nil
	}
	r.t.overlay[productID] = &cp
	return cp.toEntity(), nil
}

func (r *txStockRepo) SaveQuantity(_ context.Context, product *entity.Product) error {
	rec, ok := r.t.overlay[product.ID]
	if !ok {
		return fmt.Errorf("%w: save quantity: producto %s no bloqueado", domain.ErrPersistence, product.ID)
	}
	id, qty, at := product.ID, product.Quantity(), product.UpdatedAt
	rec.quantity = qty
	r.t.enqueue(func() error {
		cur, ok := r.t.s.products[id]
		if !ok {
			return domain.ErrItemNotFound
		}
		cur.quantity = qty
		cur.product.UpdatedAt = at
		return nil
	})
	return nil
}

// ── libro ─────────────────────────────────────────────────────────────────────

type txLedgerRepo struct {
	*StockTransactionRepo
	t *txState
}

func (r *txLedgerRepo) Create(_ context.Context, tx *entity.StockTransaction) error {
	if err := r.t.s.ledgerWriteFault(); err != nil {
		return fmt.Errorf("%w: insert stock transaction: %w", domain.ErrPersistence, err)
	}
	entry := *tx
	r.t.enqueue(func() error {
		r.t.s.ledger = append(r.t.s.ledger, entry)
		return nil
	})
	return nil
}

// ── productos ─────────────────────────────────────────────────────────────────

type txProductRepo struct {
	*ProductRepo
	t *txState
}

func (r *txProductRepo) Create(_ context.Context, product *entity.Product) error {
	r.t.s.mu.RLock()
	err := r.t.s.checkProductUniqueLocked(product.ID, product.SKU, product.Barcode)
	r.t.s.mu.RUnlock()
	if err != nil {
		return err
	}
	overlay := recordOf(product)
	r.t.overlay[product.ID] = &overlay
	stored := recordOf(product)
	r.t.enqueue(func() error {
		if err := r.t.s.checkProductUniqueLocked(stored.product.ID, stored.product.SKU, stored.product.Barcode); err != nil {
			return err
		}
		rec := stored
		r.t.s.products[rec.product.ID] = &rec
		return nil
	})
	return nil
}

func (r *txProductRepo) GetByID(ctx context.Context, id string) (*entity.Product, error) {
	if rec, ok := r.t.overlay[id]; ok {
		return rec.toEntity(), nil
	}
	return r.ProductRepo.GetByID(ctx, id)
}

func (r *txProductRepo) Update(_ context.Context, product *entity.Product) error {
	rec := recordOf(product)
	r.t.enqueue(func() error {
		p := rec.toEntity()
		return r.t.s.updateProductLocked(p)
	})
	return nil
}

func (r *txProductRepo) SetBarcode(_ context.Context, productID, barcode string) error {
	r.t.enqueue(func() error {
		rec, ok := r.t.s.products[productID]
		if !ok || rec.product.ArchivedAt != nil {
			return domain.ErrNotFound
		}
		if err := r.t.s.checkProductUniqueLocked(productID, "", barcode); err != nil {
			return err
		}
		rec.product.Barcode = barcode
		return nil
	})
	return nil
}

func (r *txProductRepo) Archive(_ context.Context, id string, at time.Time) error {
	r.t.enqueue(func() error { return r.t.s.archiveProductLocked(id, at) })
	return nil
}

func (r *txProductRepo) ArchiveByCategory(_ context.Context, categoryID string, at time.Time) error {
	r.t.enqueue(func() error {
		r.t.s.archiveProductsWhereLocked(func(p *entity.Product) bool { return p.CategoryID == categoryID }, at)
		return nil
	})
	return nil
}

func (r *txProductRepo) ArchiveBySupplier(_ context.Context, supplierID string, at time.Time) error {
	r.t.enqueue(func() error {
		r.t.s.archiveProductsWhereLocked(func(p *entity.Product) bool { return p.SupplierID == supplierID }, at)
		return nil
	})
	return nil
}

// ── catálogo ──────────────────────────────────────────────────────────────────

type txCategoryRepo struct {
	*CategoryRepo
	t *txState
}

func (r *txCategoryRepo) Create(_ context.Context, c *entity.Category) error {
	cp := *c
	r.t.enqueue(func() error {
		if r.t.s.categoryNameTakenLocked(cp.ID, cp.Name) {
			return domain.ErrDuplicate
		}
		r.t.s.categories[cp.ID] = cp
		return nil
	})
	return nil
}

func (r *txCategoryRepo) Update(_ context.Context, c *entity.Category) error {
	cp := *c
	r.t.enqueue(func() error {
		cur, ok := r.t.s.categories[cp.ID]
		if !ok || cur.ArchivedAt != nil {
			return domain.ErrNotFound
		}
		if r.t.s.categoryNameTakenLocked(cp.ID, cp.Name) {
			return domain.ErrDuplicate
		}
		cur.Name, cur.Description = cp.Name, cp.Description
		r.t.s.categories[cp.ID] = cur
		return nil
	})
	return nil
}

func (r *txCategoryRepo) Archive(_ context.Context, id string, at time.Time) error {
	r.t.enqueue(func() error { return r.t.s.archiveCategoryLocked(id, at) })
	return nil
}

type txSupplierRepo struct {
	*SupplierRepo
	t *txState
}

func (r *txSupplierRepo) Create(_ context.Context, sup *entity.Supplier) error {
	cp := *sup
	r.t.enqueue(func() error {
		if r.t.s.supplierNameTakenLocked(cp.ID, cp.Name) {
			return domain.ErrDuplicate
		}
		r.t.s.suppliers[cp.ID] = cp
		return nil
	})
	return nil
}

func (r *txSupplierRepo) Update(_ context.Context, sup *entity.Supplier) error {
	cp := *sup
	r.t.enqueue(func() error {
		cur, ok := r.t.s.suppliers[cp.ID]
		if !ok || cur.ArchivedAt != nil {
			return domain.ErrNotFound
		}
		if r.t.s.supplierNameTakenLocked(cp.ID, cp.Name) {
			return domain.ErrDuplicate
		}
		cur.Name, cur.Contact, cur.Email, cur.Address = cp.Name, cp.Contact, cp.Email, cp.Address
		r.t.s.suppliers[cp.ID] = cur
		return nil
	})
	return nil
}

func (r *txSupplierRepo) Archive(_ context.Context, id string, at time.Time) error {
	r.t.enqueue(func() error { return r.t.s.archiveSupplierLocked(id, at) })
	return nil
}
