package postgres

import (
	"context"
	"strings"
	"time"

	"github.com/jhoicas/grocery-inventory-api/internal/domain"
	"github.com/jhoicas/grocery-inventory-api/internal/domain/entity"
	"github.com/jhoicas/grocery-inventory-api/internal/domain/repository"
)

var _ repository.SupplierRepository = (*SupplierRepo)(nil)

const supplierSelect = `
	SELECT s.id, s.name, s.contact, s.email, s.address, s.created_at, s.archived_at,
	       (SELECT COUNT(*) FROM products p WHERE p.supplier_id = s.id AND p.archived_at IS NULL)
	FROM suppliers s`

// SupplierRepo implementación de SupplierRepository sobre PostgreSQL (usable con pool o tx).
type SupplierRepo struct {
	q Querier
}

// NewSupplierRepository construye el adaptador. Pasar pool o tx (Querier).
func NewSupplierRepository(q Querier) *SupplierRepo {
	return &SupplierRepo{q: q}
}

func scanSupplier(row scanner) (*entity.Supplier, error) {
	var (
		s              entity.Supplier
		email, address *string
	)
	if err := row.Scan(&s.ID, &s.Name, &s.Contact, &email, &address, &s.CreatedAt, &s.ArchivedAt, &s.ProductCount); err != nil {
		return nil, err
	}
	s.Email, s.Address = derefString(email), derefString(address)
	return &s, nil
}

func (r *SupplierRepo) Create(ctx context.Context, s *entity.Supplier) error {
	_, err := r.q.Exec(ctx,
		`INSERT INTO suppliers (id, name, contact, email, address, created_at) VALUES ($1, $2, $3, $4, $5, $6)`,
		s.ID, s.Name, s.Contact, nullString(s.Email), nullString(s.Address), s.CreatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrDuplicate
		}
		return persistErr("insert supplier", err)
	}
	return nil
}

func (r *SupplierRepo) GetByID(ctx context.Context, id string) (*entity.Supplier, error) {
	return r.getOne(ctx, "s.id = $1", id)
}

func (r *SupplierRepo) GetByName(ctx context.Context, name string) (*entity.Supplier, error) {
	return r.getOne(ctx, "lower(s.name) = lower($1)", name)
}

func (r *SupplierRepo) getOne(ctx context.Context, cond string, arg any) (*entity.Supplier, error) {
	s, err := scanSupplier(r.q.QueryRow(ctx, supplierSelect+` WHERE s.archived_at IS NULL AND `+cond, arg))
	if err != nil {
		if noRows(err) {
			return nil, nil
		}
		return nil, persistErr("get supplier", err)
	}
	return s, nil
}

func (r *SupplierRepo) Update(ctx context.Context, s *entity.Supplier) error {
	cmd, err := r.q.Exec(ctx,
		`UPDATE suppliers SET name = $2, contact = $3, email = $4, address = $5 WHERE id = $1 AND archived_at IS NULL`,
		s.ID, s.Name, s.Contact, nullString(s.Email), nullString(s.Address),
	)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrDuplicate
		}
		return persistErr("update supplier", err)
	}
	if cmd.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

// List filtra por nombre parcial y pagina; devuelve el total sin paginar.
func (r *SupplierRepo) List(ctx context.Context, search string, limit, offset int) ([]*entity.Supplier, int, error) {
	w := &whereClause{}
	w.addRaw("s.archived_at IS NULL")
	if search = strings.TrimSpace(search); search != "" {
		w.add("s.name ILIKE ?", "%"+search+"%")
	}

	var total int
	if err := r.q.QueryRow(ctx, `SELECT COUNT(*) FROM suppliers s`+w.String(), w.args...).Scan(&total); err != nil {
		return nil, 0, persistErr("count suppliers", err)
	}
	if limit <= 0 {
		limit = total + 1
	}
	pageSQL, args := w.page(limit, max(offset, 0))
	rows, err := r.q.Query(ctx, supplierSelect+w.String()+` ORDER BY s.name`+pageSQL, args...)
	if err != nil {
		return nil, 0, persistErr("list suppliers", err)
	}
	defer rows.Close()
	list := make([]*entity.Supplier, 0)
	for rows.Next() {
		s, err := scanSupplier(rows)
		if err != nil {
			return nil, 0, persistErr("scan supplier", err)
		}
		list = append(list, s)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, persistErr("list suppliers", err)
	}
	return list, total, nil
}

func (r *SupplierRepo) Archive(ctx context.Context, id string, at time.Time) error {
	cmd, err := r.q.Exec(ctx, `UPDATE suppliers SET archived_at = $2 WHERE id = $1 AND archived_at IS NULL`, id, at)
	if err != nil {
		if isInvalidText(err) {
			return domain.ErrNotFound
		}
		return persistErr("archive supplier", err)
	}
	if cmd.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}
