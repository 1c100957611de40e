package postgres

import (
	"context"

	"github.com/jhoicas/grocery-inventory-api/internal/domain"
	"github.com/jhoicas/grocery-inventory-api/internal/domain/entity"
	"github.com/jhoicas/grocery-inventory-api/internal/domain/repository"
)

var _ repository.StockRepository = (*StockRepo)(nil)

// StockRepo lectura con bloqueo y escritura de la cantidad en existencia. Pensado para usarse con una tx.
type StockRepo struct {
	q Querier
}

// NewStockRepository construye el adaptador de stock. Pasar la tx (Querier).
func NewStockRepository(q Querier) *StockRepo {
	return &StockRepo{q: q}
}

// GetForUpdate obtiene el producto y bloquea la fila hasta el fin de la transacción.
func (r *StockRepo) GetForUpdate(ctx context.Context, productID string) (*entity.Product, error) {
	query := `SELECT ` + productColumns + ` FROM products WHERE id = $1 AND archived_at IS NULL FOR UPDATE`
	p, err := scanProduct(r.q.QueryRow(ctx, query, productID))
	if err != nil {
		if noRows(err) {
			return nil, nil
		}
		return nil, persistErr("get product for update", err)
	}
	return p, nil
}

// SaveQuantity persiste la cantidad actual del producto.
func (r *StockRepo) SaveQuantity(ctx context.Context, product *entity.Product) error {
	cmd, err := r.q.Exec(ctx,
		`UPDATE products SET quantity = $2, updated_at = $3 WHERE id = $1`,
		product.ID, product.Quantity(), product.UpdatedAt,
	)
	if err != nil {
		return persistErr("save product quantity", err)
	}
	if cmd.RowsAffected() == 0 {
		return domain.ErrItemNotFound
	}
	return nil
}
