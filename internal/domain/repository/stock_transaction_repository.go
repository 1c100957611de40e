package repository

import (
	"context"
	"time"

	"github.com/jhoicas/grocery-inventory-api/internal/domain/entity"
)

// TransactionFilter criterios para consultar el libro de movimientos.
type TransactionFilter struct {
	Type      entity.TransactionType // vacío = todos
	ProductID string
	UserID    string
	From      *time.Time
	To        *time.Time
	Limit     int
	Offset    int
}

// StockTransactionRepository libro de movimientos, solo de anexado: no hay Update ni Delete.
type StockTransactionRepository interface {
	Create(ctx context.Context, tx *entity.StockTransaction) error
	GetByID(ctx context.Context, id string) (*entity.StockTransaction, error)
	// List ordena por fecha descendente y devuelve también el total sin paginar.
	List(ctx context.Context, filter TransactionFilter) ([]*entity.StockTransaction, int, error)
	// Aggregate cuenta y suma los movimientos con fecha en [from, to].
	Aggregate(ctx context.Context, from, to time.Time) (*entity.MovementStats, error)
}
