package inventory

import (
	"context"

	"github.com/jhoicas/grocery-inventory-api/internal/domain/repository"
)

// TxRunner ejecuta una función dentro de una transacción de BD, pasando repositorios atados a esa tx.
// Si fn devuelve error se hace Rollback y nada de lo escrito queda persistido.
type TxRunner interface {
	Run(ctx context.Context, fn func(
		stockRepo repository.StockRepository,
		txRepo repository.StockTransactionRepository,
		productRepo repository.ProductRepository,
	) error) error
}
