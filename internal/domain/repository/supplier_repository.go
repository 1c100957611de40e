package repository

import (
	"context"
	"time"

	"github.com/jhoicas/grocery-inventory-api/internal/domain/entity"
)

// SupplierRepository define el puerto de persistencia para Supplier.
type SupplierRepository interface {
	Create(ctx context.Context, supplier *entity.Supplier) error
	GetByID(ctx context.Context, id string) (*entity.Supplier, error)
	GetByName(ctx context.Context, name string) (*entity.Supplier, error)
	Update(ctx context.Context, supplier *entity.Supplier) error
	// List filtra por nombre (parcial) y devuelve el total sin paginar.
	List(ctx context.Context, search string, limit, offset int) ([]*entity.Supplier, int, error)
	Archive(ctx context.Context, id string, at time.Time) error
}
