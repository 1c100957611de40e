package postgres

import (
	"context"
	"time"

	"github.com/jhoicas/grocery-inventory-api/internal/domain"
	"github.com/jhoicas/grocery-inventory-api/internal/domain/entity"
	"github.com/jhoicas/grocery-inventory-api/internal/domain/repository"
)

var _ repository.CategoryRepository = (*CategoryRepo)(nil)

// product_count solo cuenta productos activos.
const categorySelect = `
	SELECT c.id, c.name, c.description, c.created_at, c.archived_at,
	       (SELECT COUNT(*) FROM products p WHERE p.category_id = c.id AND p.archived_at IS NULL)
	FROM categories c`

// CategoryRepo implementación de CategoryRepository sobre PostgreSQL (usable con pool o tx).
type CategoryRepo struct {
	q Querier
}

// NewCategoryRepository construye el adaptador. Pasar pool o tx (Querier).
func NewCategoryRepository(q Querier) *CategoryRepo {
	return &CategoryRepo{q: q}
}

func scanCategory(row scanner) (*entity.Category, error) {
	var (
		c    entity.Category
		desc *string
	)
	if err := row.Scan(&c.ID, &c.Name, &desc, &c.CreatedAt, &c.ArchivedAt, &c.ProductCount); err != nil {
		return nil, err
	}
	c.Description = derefString(desc)
	return &c, nil
}

// Create persiste una categoría. Nombre repetido entre las activas devuelve ErrDuplicate.
func (r *CategoryRepo) Create(ctx context.Context, c *entity.Category) error {
	_, err := r.q.Exec(ctx,
		`INSERT INTO categories (id, name, description, created_at) VALUES ($1, $2, $3, $4)`,
		c.ID, c.Name, nullString(c.Description), c.CreatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrDuplicate
		}
		return persistErr("insert category", err)
	}
	return nil
}

func (r *CategoryRepo) GetByID(ctx context.Context, id string) (*entity.Category, error) {
	return r.getOne(ctx, "c.id = $1", id)
}

func (r *CategoryRepo) GetByName(ctx context.Context, name string) (*entity.Category, error) {
	return r.getOne(ctx, "lower(c.name) = lower($1)", name)
}

func (r *CategoryRepo) getOne(ctx context.Context, cond string, arg any) (*entity.Category, error) {
	c, err := scanCategory(r.q.QueryRow(ctx, categorySelect+` WHERE c.archived_at IS NULL AND `+cond, arg))
	if err != nil {
		if noRows(err) {
			return nil, nil
		}
		return nil, persistErr("get category", err)
	}
	return c, nil
}

func (r *CategoryRepo) Update(ctx context.Context, c *entity.Category) error {
	cmd, err := r.q.Exec(ctx,
		`UPDATE categories SET name = $2, description = $3 WHERE id = $1 AND archived_at IS NULL`,
		c.ID, c.Name, nullString(c.Description),
	)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrDuplicate
		}
		return persistErr("update category", err)
	}
	if cmd.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func (r *CategoryRepo) List(ctx context.Context) ([]*entity.Category, error) {
	rows, err := r.q.Query(ctx, categorySelect+` WHERE c.archived_at IS NULL ORDER BY c.name`)
	if err != nil {
		return nil, persistErr("list categories", err)
	}
	defer rows.Close()
	list := make([]*entity.Category, 0)
	for rows.Next() {
		c, err := scanCategory(rows)
		if err != nil {
			return nil, persistErr("scan category", err)
		}
		list = append(list, c)
	}
	if err := rows.Err(); err != nil {
		return nil, persistErr("list categories", err)
	}
	return list, nil
}

func (r *CategoryRepo) Archive(ctx context.Context, id string, at time.Time) error {
	cmd, err := r.q.Exec(ctx, `UPDATE categories SET archived_at = $2 WHERE id = $1 AND archived_at IS NULL`, id, at)
	if err != nil {
		if isInvalidText(err) {
			return domain.ErrNotFound
		}
		return persistErr("archive category", err)
	}
	if cmd.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}
