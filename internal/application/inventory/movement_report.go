package inventory

import (
	"context"
	"fmt"
	"time"

	"github.com/jhoicas/grocery-inventory-api/internal/domain"
	"github.com/jhoicas/grocery-inventory-api/internal/domain/entity"
	"github.com/jhoicas/grocery-inventory-api/internal/domain/repository"
)

// DefaultReportWindow rango usado por AggregateMovements cuando no se indica inicio.
const DefaultReportWindow = 30 * 24 * time.Hour

// MovementReportUseCase consultas de solo lectura sobre el libro de movimientos.
type MovementReportUseCase struct {
	txRepo repository.StockTransactionRepository
	now    func() time.Time
}

// NewMovementReportUseCase construye el caso de uso de reportes.
func NewMovementReportUseCase(txRepo repository.StockTransactionRepository) *MovementReportUseCase {
	return &MovementReportUseCase{txRepo: txRepo, now: time.Now}
}

// WithClock reemplaza el reloj (tests).
func (uc *MovementReportUseCase) WithClock(now func() time.Time) *MovementReportUseCase {
	uc.now = now
	return uc
}

// AggregateMovements cuenta y suma las entradas con fecha en [from, to].
// Sin to se usa el instante actual; sin from, to menos 30 días.
func (uc *MovementReportUseCase) AggregateMovements(ctx context.Context, from, to *time.Time) (*entity.MovementStats, error) {
	end := uc.now()
	if to != nil {
		end = *to
	}
	start := end.Add(-DefaultReportWindow)
	if from != nil {
		start = *from
	}
	if start.After(end) {
		return nil, fmt.Errorf("%w: la fecha inicial es posterior a la final", domain.ErrInvalidInput)
	}
	stats, err := uc.txRepo.Aggregate(ctx, start, end)
	if err != nil {
		return nil, err
	}
	stats.From, stats.To = start, end
	return stats, nil
}

// ListTransactions consulta el libro por tipo, producto, usuario y fechas, del más reciente al más antiguo.
func (uc *MovementReportUseCase) ListTransactions(ctx context.Context, filter repository.TransactionFilter) ([]*entity.StockTransaction, int, error) {
	if filter.Type != "" && !filter.Type.Valid() {
		return nil, 0, fmt.Errorf("%w: tipo debe ser IN u OUT", domain.ErrInvalidInput)
	}
	if filter.From != nil && filter.To != nil && filter.From.After(*filter.To) {
		return nil, 0, fmt.Errorf("%w: la fecha inicial es posterior a la final", domain.ErrInvalidInput)
	}
	if filter.Limit <= 0 {
		filter.Limit = 10
	}
	if filter.Limit > 100 {
		filter.Limit = 100
	}
	if filter.Offset < 0 {
		filter.Offset = 0
	}
	return uc.txRepo.List(ctx, filter)
}

// GetTransaction devuelve una entrada del libro por ID.
func (uc *MovementReportUseCase) GetTransaction(ctx context.Context, id string) (*entity.StockTransaction, error) {
	tx, err := uc.txRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if tx == nil {
		return nil, domain.ErrNotFound
	}
	return tx, nil
}
