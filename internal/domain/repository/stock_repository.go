package repository

import (
	"context"

	"github.com/jhoicas/grocery-inventory-api/internal/domain/entity"
)

// StockRepository acceso a la cantidad en existencia. Solo se obtiene atado a una transacción.
type StockRepository interface {
	// GetForUpdate bloquea la fila del producto hasta el fin de la transacción (SELECT FOR UPDATE).
	// Devuelve nil, nil si el producto no existe o está archivado.
	GetForUpdate(ctx context.Context, productID string) (*entity.Product, error)
	// SaveQuantity persiste product.Quantity().
	SaveQuantity(ctx context.Context, product *entity.Product) error
}
