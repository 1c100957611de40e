package postgres

import (
	"context"
	"time"

	"github.com/jhoicas/grocery-inventory-api/internal/domain"
	"github.com/jhoicas/grocery-inventory-api/internal/domain/entity"
	"github.com/jhoicas/grocery-inventory-api/internal/domain/repository"
)

var _ repository.StockTransactionRepository = (*StockTransactionRepo)(nil)

const transactionColumns = `id, product_id, user_id, type, quantity, notes, date`

// StockTransactionRepo libro de movimientos sobre PostgreSQL (usable con pool o tx). Solo INSERT y SELECT.
type StockTransactionRepo struct {
	q Querier
}

// NewStockTransactionRepository construye el adaptador. Pasar pool o tx (Querier).
func NewStockTransactionRepository(q Querier) *StockTransactionRepo {
	return &StockTransactionRepo{q: q}
}

func scanTransaction(row scanner) (*entity.StockTransaction, error) {
	var (
		t     entity.StockTransaction
		notes *string
	)
	if err := row.Scan(&t.ID, &t.ProductID, &t.UserID, &t.Type, &t.Quantity, &notes, &t.Date); err != nil {
		return nil, err
	}
	t.Notes = derefString(notes)
	return &t, nil
}

// Create anexa una entrada al libro.
func (r *StockTransactionRepo) Create(ctx context.Context, tx *entity.StockTransaction) error {
	query := `
		INSERT INTO stock_transactions (id, product_id, user_id, type, quantity, notes, date)
		VALUES ($1, $2, $3, $4, $5, $6, $7)`
	_, err := r.q.Exec(ctx, query,
		tx.ID, tx.ProductID, tx.UserID, string(tx.Type), tx.Quantity, nullString(tx.Notes), tx.Date,
	)
	if err != nil {
		if isForeignKeyViolation(err) {
			return domain.ErrItemNotFound
		}
		return persistErr("insert stock transaction", err)
	}
	return nil
}

// GetByID obtiene una entrada por ID.
func (r *StockTransactionRepo) GetByID(ctx context.Context, id string) (*entity.StockTransaction, error) {
	t, err := scanTransaction(r.q.QueryRow(ctx, `SELECT `+transactionColumns+` FROM stock_transactions WHERE id = $1`, id))
	if err != nil {
		if noRows(err) {
			return nil, nil
		}
		return nil, persistErr("get stock transaction", err)
	}
	return t, nil
}

// List filtra el libro y lo devuelve del más reciente al más antiguo.
func (r *StockTransactionRepo) List(ctx context.Context, f repository.TransactionFilter) ([]*entity.StockTransaction, int, error) {
	w := &whereClause{}
	if f.Type != "" {
		w.add("type = ?", string(f.Type))
	}
	if f.ProductID != "" {
		w.add("product_id = ?", f.ProductID)
	}
	if f.UserID != "" {
		w.add("user_id = ?", f.UserID)
	}
	if f.From != nil {
		w.add("date >= ?", *f.From)
	}
	if f.To != nil {
		w.add("date <= ?", *f.To)
	}

	var total int
	if err := r.q.QueryRow(ctx, `SELECT COUNT(*) FROM stock_transactions`+w.String(), w.args...).Scan(&total); err != nil {
		if isInvalidText(err) {
			return []*entity.StockTransaction{}, 0, nil
		}
		return nil, 0, persistErr("count stock transactions", err)
	}

	limit := f.Limit
	if limit <= 0 {
		limit = total + 1
	}
	pageSQL, args := w.page(limit, max(f.Offset, 0))
	rows, err := r.q.Query(ctx, `SELECT `+transactionColumns+` FROM stock_transactions`+w.String()+` ORDER BY date DESC, id`+pageSQL, args...)
	if err != nil {
		return nil, 0, persistErr("list stock transactions", err)
	}
	defer rows.Close()
	list := make([]*entity.StockTransaction, 0)
	for rows.Next() {
		t, err := scanTransaction(rows)
		if err != nil {
			return nil, 0, persistErr("scan stock transaction", err)
		}
		list = append(list, t)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, persistErr("list stock transactions", err)
	}
	return list, total, nil
}

// Aggregate cuenta y suma por tipo en [from, to]. Usa COALESCE para devolver cero si no hay filas.
func (r *StockTransactionRepo) Aggregate(ctx context.Context, from, to time.Time) (*entity.MovementStats, error) {
	query := `
		SELECT
		    COUNT(*),
		    COUNT(*) FILTER (WHERE type = 'IN'),
		    COALESCE(SUM(quantity) FILTER (WHERE type = 'IN'), 0),
		    COUNT(*) FILTER (WHERE type = 'OUT'),
		    COALESCE(SUM(quantity) FILTER (WHERE type = 'OUT'), 0)
		FROM stock_transactions
		WHERE date BETWEEN $1 AND $2`
	stats := &entity.MovementStats{From: from, To: to}
	err := r.q.QueryRow(ctx, query, from, to).Scan(
		&stats.TotalCount, &stats.In.Count, &stats.In.Quantity, &stats.Out.Count, &stats.Out.Quantity,
	)
	if err != nil {
		return nil, persistErr("aggregate stock transactions", err)
	}
	return stats, nil
}
