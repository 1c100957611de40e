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

var (
	_ repository.CategoryRepository = (*CategoryRepo)(nil)
	_ repository.SupplierRepository = (*SupplierRepo)(nil)
)

// CategoryRepo implementación en memoria de CategoryRepository.
type CategoryRepo struct {
	s *Store
}

// NewCategoryRepository construye el repositorio de categorías.
func NewCategoryRepository(s *Store) *CategoryRepo {
	return &CategoryRepo{s: s}
}

func (r *CategoryRepo) Create(_ context.Context, c *entity.Category) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if r.s.categoryNameTakenLocked(c.ID, c.Name) {
		return domain.ErrDuplicate
	}
	r.s.categories[c.ID] = *c
	return nil
}

func (r *CategoryRepo) GetByID(_ context.Context, id string) (*entity.Category, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	c, ok := r.s.categories[id]
	if !ok || c.ArchivedAt != nil {
		return nil, nil
	}
	c.ProductCount = r.s.countProductsLocked(func(p *entity.Product) bool { return p.CategoryID == id })
	return &c, nil
}

func (r *CategoryRepo) GetByName(_ context.Context, name string) (*entity.Category, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	for _, c := range r.s.categories {
		if c.ArchivedAt == nil && strings.EqualFold(c.Name, name) {
			c := c
			return &c, nil
		}
	}
	return nil, nil
}

func (r *CategoryRepo) Update(_ context.Context, c *entity.Category) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	cur, ok := r.s.categories[c.ID]
	if !ok || cur.ArchivedAt != nil {
		return domain.ErrNotFound
	}
	if r.s.categoryNameTakenLocked(c.ID, c.Name) {
		return domain.ErrDuplicate
	}
	cur.Name, cur.Description = c.Name, c.Description
	r.s.categories[c.ID] = cur
	return nil
}

func (r *CategoryRepo) List(_ context.Context) ([]*entity.Category, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	out := make([]*entity.Category, 0, len(r.s.categories))
	for _, c := range r.s.categories {
		if c.ArchivedAt != nil {
			continue
		}
		c := c
		c.ProductCount = r.s.countProductsLocked(func(p *entity.Product) bool { return p.CategoryID == c.ID })
		out = append(out, &c)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out, nil
}

func (r *CategoryRepo) Archive(_ context.Context, id string, at time.Time) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	return r.s.archiveCategoryLocked(id, at)
}

// SupplierRepo implementación en memoria de SupplierRepository.
type SupplierRepo struct {
	s *Store
}

// NewSupplierRepository construye el repositorio de proveedores.
func NewSupplierRepository(s *Store) *SupplierRepo {
	return &SupplierRepo{s: s}
}

func (r *SupplierRepo) Create(_ context.Context, sup *entity.Supplier) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if r.s.supplierNameTakenLocked(sup.ID, sup.Name) {
		return domain.ErrDuplicate
	}
	r.s.suppliers[sup.ID] = *sup
	return nil
}

func (r *SupplierRepo) GetByID(_ context.Context, id string) (*entity.Supplier, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	sup, ok := r.s.suppliers[id]
	if !ok || sup.ArchivedAt != nil {
		return nil, nil
	}
	sup.ProductCount = r.s.countProductsLocked(func(p *entity.Product) bool { return p.SupplierID == id })
	return &sup, nil
}

func (r *SupplierRepo) GetByName(_ context.Context, name string) (*entity.Supplier, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	for _, sup := range r.s.suppliers {
		if sup.ArchivedAt == nil && strings.EqualFold(sup.Name, name) {
			sup := sup
			return &sup, nil
		}
	}
	return nil, nil
}

func (r *SupplierRepo) Update(_ context.Context, sup *entity.Supplier) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	cur, ok := r.s.suppliers[sup.ID]
	if !ok || cur.ArchivedAt != nil {
		return domain.ErrNotFound
	}
	if r.s.supplierNameTakenLocked(sup.ID, sup.Name) {
		return domain.ErrDuplicate
	}
	cur.Name, cur.Contact, cur.Email, cur.Address = sup.Name, sup.Contact, sup.Email, sup.Address
	r.s.suppliers[sup.ID] = cur
	return nil
}

func (r *SupplierRepo) List(_ context.Context, search string, limit, offset int) ([]*entity.Supplier, int, error) {
	search = strings.ToLower(strings.TrimSpace(search))
	r.s.mu.RLock()
	var out []*entity.Supplier
	for _, sup := range r.s.suppliers {
		if sup.ArchivedAt != nil {
			continue
		}
		if search != "" && !strings.Contains(strings.ToLower(sup.Name), search) {
			continue
		}
		sup := sup
		sup.ProductCount = r.s.countProductsLocked(func(p *entity.Product) bool { return p.SupplierID == sup.ID })
		out = append(out, &sup)
	}
	r.s.mu.RUnlock()
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return paginate(out, limit, offset), len(out), nil
}

func (r *SupplierRepo) Archive(_ context.Context, id string, at time.Time) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	return r.s.archiveSupplierLocked(id, at)
}

// ── helpers con s.mu tomado ──────────────────────────────────────────────────

func (s *Store) categoryNameTakenLocked(id, name string) bool {
	for _, c := range s.categories {
		if c.ID != id && c.ArchivedAt == nil && strings.EqualFold(c.Name, name) {
			return true
		}
	}
	return false
}

func (s *Store) supplierNameTakenLocked(id, name string) bool {
	for _, sup := range s.suppliers {
		if sup.ID != id && sup.ArchivedAt == nil && strings.EqualFold(sup.Name, name) {
			return true
		}
	}
	return false
}

func (s *Store) archiveCategoryLocked(id string, at time.Time) error {
	c, ok := s.categories[id]
	if !ok || c.ArchivedAt != nil {
		return domain.ErrNotFound
	}
	c.ArchivedAt = &at
	s.categories[id] = c
	return nil
}

func (s *Store) archiveSupplierLocked(id string, at time.Time) error {
	sup, ok := s.suppliers[id]
	if !ok || sup.ArchivedAt != nil {
		return domain.ErrNotFound
	}
	sup.ArchivedAt = &at
	s.suppliers[id] = sup
	return nil
}

func (s *Store) countProductsLocked(match func(*entity.Product) bool) int {
	n := 0
	for _, rec := range s.products {
		if rec.product.ArchivedAt == nil && match(&rec.product) {
			n++
		}
	}
	return n
}
