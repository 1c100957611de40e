package memory

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/jhoicas/grocery-inventory-api/internal/domain"
	"github.com/jhoicas/grocery-inventory-api/internal/domain/entity"
	"github.com/jhoicas/grocery-inventory-api/internal/domain/repository"
)

var _ repository.StockTransactionRepository = (*StockTransactionRepo)(nil)

// StockTransactionRepo libro de movimientos en memoria (solo anexado).
type StockTransactionRepo struct {
	s *Store
}

// NewStockTransactionRepository construye el repositorio del libro.
func NewStockTransactionRepository(s *Store) *StockTransactionRepo {
	return &StockTransactionRepo{s: s}
}

func (r *StockTransactionRepo) Create(_ context.Context, tx *entity.StockTransaction) error {
	if err := r.s.ledgerWriteFault(); err != nil {
		return fmt.Errorf("%w: insert stock transaction: %w", domain.ErrPersistence, err)
	}
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	r.s.ledger = append(r.s.ledger, *tx)
	return nil
}

func (r *StockTransactionRepo) GetByID(_ context.Context, id string) (*entity.StockTransaction, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	for i := range r.s.ledger {
		if r.s.ledger[i].ID == id {
			tx := r.s.ledger[i]
			return &tx, nil
		}
	}
	return nil, nil
}

func (r *StockTransactionRepo) List(_ context.Context, f repository.TransactionFilter) ([]*entity.StockTransaction, int, error) {
	r.s.mu.RLock()
	var out []*entity.StockTransaction
	// recorrer al revés mantiene el orden de inserción como desempate descendente
	for i := len(r.s.ledger) - 1; i >= 0; i-- {
		tx := r.s.ledger[i]
		if f.Type != "" && tx.Type != f.Type {
			continue
		}
		if f.ProductID != "" && tx.ProductID != f.ProductID {
			continue
		}
		if f.UserID != "" && tx.UserID != f.UserID {
			continue
		}
		if !inRange(tx.Date, f.From, f.To) {
			continue
		}
		out = append(out, &tx)
	}
	r.s.mu.RUnlock()

	sort.SliceStable(out, func(i, j int) bool { return out[i].Date.After(out[j].Date) })
	return paginate(out, f.Limit, f.Offset), len(out), nil
}

func (r *StockTransactionRepo) Aggregate(_ context.Context, from, to time.Time) (*entity.MovementStats, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	stats := &entity.MovementStats{From: from, To: to}
	for _, tx := range r.s.ledger {
		if !inRange(tx.Date, &from, &to) {
			continue
		}
		stats.TotalCount++
		switch tx.Type {
		case entity.TransactionTypeIn:
			stats.In.Count++
			stats.In.Quantity += tx.Quantity
		case entity.TransactionTypeOut:
			stats.Out.Count++
			stats.Out.Quantity += tx.Quantity
		}
	}
	return stats, nil
}

func inRange(t time.Time, from, to *time.Time) bool {
	if from != nil && t.Before(*from) {
		return false
	}
	if to != nil && t.After(*to) {
		return false
	}
	return true
}
