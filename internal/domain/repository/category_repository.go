package repository

import (
	"context"
	"time"

	"github.com/jhoicas/grocery-inventory-api/internal/domain/entity"
)

// CategoryRepository define el puerto de persistencia para Category.
type CategoryRepository interface {
	Create(ctx context.Context, category *entity.Category) error
	GetByID(ctx context.Context, id string) (*entity.Category, error)
	GetByName(ctx context.Context, name string) (*entity.Category, error)
	Update(ctx context.Context, category *entity.Category) error
	// List ordena por nombre e incluye ProductCount de productos activos.
	List(ctx context.Context) ([]*entity.Category, error)
	Archive(ctx context.Context, id string, at time.Time) error
}
