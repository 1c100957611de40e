package memory

import (
	"context"
	"sort"
	"strings"
	"time"

	"github.com/jhoicas/grocery-inventory-api/internal/domain"
	"github.com/jhoicas/grocery-inventory-api/internal/domain/entity"
	"github.com/jhoicas/grocery-inventory-api/internal/domain/repository"
)

var _ repository.ProductRepository = (*ProductRepo)(nil)

// ProductRepo implementación en memoria de ProductRepository.
type ProductRepo struct {
	s *Store
}

// NewProductRepository construye el repositorio de productos sobre el almacén.
func NewProductRepository(s *Store) *ProductRepo {
	return &ProductRepo{s: s}
}

// Create inserta el producto; SKU y código de barras deben ser únicos entre los activos.
func (r *ProductRepo) Create(_ context.Context, product *entity.Product) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if err := r.s.checkProductUniqueLocked(product.ID, product.SKU, product.Barcode); err != nil {
		return err
	}
	rec := recordOf(product)
	r.s.products[product.ID] = &rec
	return nil
}

func (r *ProductRepo) GetByID(_ context.Context, id string) (*entity.Product, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	rec, ok := r.s.products[id]
	if !ok || rec.product.ArchivedAt != nil {
		return nil, nil
	}
	return rec.toEntity(), nil
}

func (r *ProductRepo) GetBySKU(_ context.Context, sku string) (*entity.Product, error) {
	return r.findOne(func(p *entity.Product) bool { return p.SKU == sku }), nil
}

func (r *ProductRepo) GetByBarcode(_ context.Context, barcode string) (*entity.Product, error) {
	if barcode == "" {
		return nil, nil
	}
	return r.findOne(func(p *entity.Product) bool { return p.Barcode == barcode }), nil
}

// Update cambia los atributos del producto; la cantidad guardada no se toca.
func (r *ProductRepo) Update(_ context.Context, product *entity.Product) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	return r.s.updateProductLocked(product)
}

func (r *ProductRepo) SetBarcode(_ context.Context, productID, barcode string) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	rec, ok := r.s.products[productID]
	if !ok || rec.product.ArchivedAt != nil {
		return domain.ErrNotFound
	}
	if err := r.s.checkProductUniqueLocked(productID, "", barcode); err != nil {
		return err
	}
	rec.product.Barcode = barcode
	return nil
}

func (r *ProductRepo) List(_ context.Context, f repository.ProductFilter) ([]*entity.Product, int, error) {
	search := strings.ToLower(strings.TrimSpace(f.Search))
	all := r.filter(func(p *entity.Product) bool {
		if f.CategoryID != "" && p.CategoryID != f.CategoryID {
			return false
		}
		if f.SupplierID != "" && p.SupplierID != f.SupplierID {
			return false
		}
		if search != "" && !strings.Contains(strings.ToLower(p.Name), search) &&
			!strings.Contains(strings.ToLower(p.SKU), search) {
			return false
		}
		if f.LowStockThreshold != nil && p.Quantity() > *f.LowStockThreshold {
			return false
		}
		if f.ExpiringFrom != nil || f.ExpiringTo != nil {
			if p.ExpiryDate == nil {
				return false
			}
			if f.ExpiringFrom != nil && p.ExpiryDate.Before(*f.ExpiringFrom) {
				return false
			}
			if f.ExpiringTo != nil && p.ExpiryDate.After(*f.ExpiringTo) {
				return false
			}
		}
		return true
	})
	sort.Slice(all, func(i, j int) bool {
		if all[i].Name != all[j].Name {
			return all[i].Name < all[j].Name
		}
		return all[i].ID < all[j].ID
	})
	return paginate(all, f.Limit, f.Offset), len(all), nil
}

func (r *ProductRepo) ListExpiring(_ context.Context, from, to time.Time) ([]*entity.Product, error) {
	list := r.filter(func(p *entity.Product) bool {
		return p.ExpiryDate != nil && !p.ExpiryDate.Before(from) && !p.ExpiryDate.After(to)
	})
	sortByQuantity(list)
	return list, nil
}

func (r *ProductRepo) ListExpired(_ context.Context, before time.Time) ([]*entity.Product, error) {
	list := r.filter(func(p *entity.Product) bool {
		return p.ExpiryDate != nil && p.ExpiryDate.Before(before)
	})
	sort.Slice(list, func(i, j int) bool { return list[i].ExpiryDate.Before(*list[j].ExpiryDate) })
	return list, nil
}

func (r *ProductRepo) ListLowStock(_ context.Context, threshold int) ([]*entity.Product, error) {
	list := r.filter(func(p *entity.Product) bool { return p.Quantity() <= threshold })
	sortByQuantity(list)
	return list, nil
}

func (r *ProductRepo) Archive(_ context.Context, id string, at time.Time) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	return r.s.archiveProductLocked(id, at)
}

func (r *ProductRepo) ArchiveByCategory(_ context.Context, categoryID string, at time.Time) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	r.s.archiveProductsWhereLocked(func(p *entity.Product) bool { return p.CategoryID == categoryID }, at)
	return nil
}

func (r *ProductRepo) ArchiveBySupplier(_ context.Context, supplierID string, at time.Time) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	r.s.archiveProductsWhereLocked(func(p *entity.Product) bool { return p.SupplierID == supplierID }, at)
	return nil
}

func (r *ProductRepo) findOne(match func(*entity.Product) bool) *entity.Product {
	list := r.filter(match)
	if len(list) == 0 {
		return nil
	}
	return list[0]
}

// filter recorre los productos activos.
func (r *ProductRepo) filter(match func(*entity.Product) bool) []*entity.Product {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	var out []*entity.Product
	for _, rec := range r.s.products {
		if rec.product.ArchivedAt != nil {
			continue
		}
		p := rec.toEntity()
		if match(p) {
			out = append(out, p)
		}
	}
	return out
}

// ── helpers con s.mu tomado ──────────────────────────────────────────────────

func (s *Store) checkProductUniqueLocked(id, sku, barcode string) error {
	for otherID, rec := range s.products {
		if otherID == id || rec.product.ArchivedAt != nil {
			continue
		}
		if sku != "" && rec.product.SKU == sku {
			return domain.ErrDuplicate
		}
		if barcode != "" && rec.product.Barcode == barcode {
			return domain.ErrDuplicate
		}
	}
	return nil
}

func (s *Store) updateProductLocked(p *entity.Product) error {
	rec, ok := s.products[p.ID]
	if !ok || rec.product.ArchivedAt != nil {
		return domain.ErrNotFound
	}
	if err := s.checkProductUniqueLocked(p.ID, p.SKU, p.Barcode); err != nil {
		return err
	}
	updated := recordOf(p)
	updated.product.CreatedAt = rec.product.CreatedAt
	updated.quantity = rec.quantity
	*rec = updated
	return nil
}

func (s *Store) archiveProductLocked(id string, at time.Time) error {
	rec, ok := s.products[id]
	if !ok || rec.product.ArchivedAt != nil {
		return domain.ErrNotFound
	}
	rec.product.ArchivedAt = &at
	return nil
}

func (s *Store) archiveProductsWhereLocked(match func(*entity.Product) bool, at time.Time) {
	for _, rec := range s.products {
		if rec.product.ArchivedAt == nil && match(&rec.product) {
			ts := at
			rec.product.ArchivedAt = &ts
		}
	}
}

func sortByQuantity(list []*entity.Product) {
	sort.Slice(list, func(i, j int) bool {
		if list[i].Quantity() != list[j].Quantity() {
			return list[i].Quantity() < list[j].Quantity()
		}
		return list[i].Name < list[j].Name
	})
}

func paginate[T any](items []T, limit, offset int) []T {
	if offset < 0 {
		offset = 0
	}
	if offset >= len(items) {
		return []T{}
	}
	items = items[offset:]
	if limit > 0 && limit < len(items) {
		items = items[:limit]
	}
	return items
}
