package postgres

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/grocery-inventory-api/internal/domain"
	"github.com/jhoicas/grocery-inventory-api/internal/domain/entity"
	"github.com/jhoicas/grocery-inventory-api/internal/domain/repository"
)

var _ repository.ProductRepository = (*ProductRepo)(nil)

const productColumns = `id, name, sku, barcode, price, quantity, expiry_date, category_id, supplier_id, created_at, updated_at, archived_at`

// ProductRepo implementación del puerto ProductRepository sobre PostgreSQL (usable con pool o tx).
type ProductRepo struct {
	q Querier
}

// NewProductRepository construye el adaptador de persistencia para productos. Pasar pool o tx (Querier).
func NewProductRepository(q Querier) *ProductRepo {
	return &ProductRepo{q: q}
}

type scanner interface {
	Scan(dest ...any) error
}

func scanProduct(row scanner) (*entity.Product, error) {
	var (
		p        entity.Product
		barcode  *string
		price    decimal.Decimal
		quantity int
	)
	if err := row.Scan(&p.ID, &p.Name, &p.SKU, &barcode, &price, &quantity, &p.ExpiryDate,
		&p.CategoryID, &p.SupplierID, &p.CreatedAt, &p.UpdatedAt, &p.ArchivedAt); err != nil {
		return nil, err
	}
	p.Barcode = derefString(barcode)
	p.Price = price
	return entity.RestoreProduct(p, quantity), nil
}

// Create persiste un nuevo producto con la cantidad que trae.
func (r *ProductRepo) Create(ctx context.Context, product *entity.Product) error {
	query := `
		INSERT INTO products (id, name, sku, barcode, price, quantity, expiry_date, category_id, supplier_id, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)`
	_, err := r.q.Exec(ctx, query,
		product.ID, product.Name, product.SKU, nullString(product.Barcode), product.Price, product.Quantity(),
		product.ExpiryDate, product.CategoryID, product.SupplierID, product.CreatedAt, product.UpdatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrDuplicate
		}
		if isForeignKeyViolation(err) {
			return fmt.Errorf("%w: categoría o proveedor inexistente", domain.ErrNotFound)
		}
		return persistErr("insert product", err)
	}
	return nil
}

// GetByID obtiene un producto activo por ID.
func (r *ProductRepo) GetByID(ctx context.Context, id string) (*entity.Product, error) {
	return r.getOne(ctx, "id = $1", id)
}

func (r *ProductRepo) GetBySKU(ctx context.Context, sku string) (*entity.Product, error) {
	return r.getOne(ctx, "sku = $1", sku)
}

func (r *ProductRepo) GetByBarcode(ctx context.Context, barcode string) (*entity.Product, error) {
	if barcode == "" {
		return nil, nil
	}
	return r.getOne(ctx, "barcode = $1", barcode)
}

func (r *ProductRepo) getOne(ctx context.Context, cond string, arg any) (*entity.Product, error) {
	query := `SELECT ` + productColumns + ` FROM products WHERE archived_at IS NULL AND ` + cond
	p, err := scanProduct(r.q.QueryRow(ctx, query, arg))
	if err != nil {
		if noRows(err) {
			return nil, nil
		}
		return nil, persistErr("get product", err)
	}
	return p, nil
}

// Update actualiza atributos del producto. La cantidad no se toca (solo vía movimientos).
func (r *ProductRepo) Update(ctx context.Context, product *entity.Product) error {
	query := `
		UPDATE products SET name = $2, sku = $3, barcode = $4, price = $5, expiry_date = $6,
			category_id = $7, supplier_id = $8, updated_at = $9
		WHERE id = $1 AND archived_at IS NULL`
	cmd, err := r.q.Exec(ctx, query,
		product.ID, product.Name, product.SKU, nullString(product.Barcode), product.Price, product.ExpiryDate,
		product.CategoryID, product.SupplierID, product.UpdatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrDuplicate
		}
		if isForeignKeyViolation(err) {
			return fmt.Errorf("%w: categoría o proveedor inexistente", domain.ErrNotFound)
		}
		return persistErr("update product", err)
	}
	if cmd.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

// SetBarcode guarda el número de código de barras generado.
func (r *ProductRepo) SetBarcode(ctx context.Context, productID, barcode string) error {
	cmd, err := r.q.Exec(ctx,
		`UPDATE products SET barcode = $2, updated_at = now() WHERE id = $1 AND archived_at IS NULL`,
		productID, nullString(barcode),
	)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrDuplicate
		}
		return persistErr("set product barcode", err)
	}
	if cmd.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

// List lista productos activos con filtros, por nombre, y devuelve el total sin paginar.
func (r *ProductRepo) List(ctx context.Context, f repository.ProductFilter) ([]*entity.Product, int, error) {
	w := &whereClause{}
	w.addRaw("archived_at IS NULL")
	if f.CategoryID != "" {
		w.add("category_id = ?", f.CategoryID)
	}
	if f.SupplierID != "" {
		w.add("supplier_id = ?", f.SupplierID)
	}
	if s := strings.TrimSpace(f.Search); s != "" {
		w.add("(name ILIKE ? OR sku ILIKE ?)", "%"+s+"%")
	}
	if f.LowStockThreshold != nil {
		w.add("quantity <= ?", *f.LowStockThreshold)
	}
	if f.ExpiringFrom != nil || f.ExpiringTo != nil {
		w.addRaw("expiry_date IS NOT NULL")
	}
	if f.ExpiringFrom != nil {
		w.add("expiry_date >= ?", *f.ExpiringFrom)
	}
	if f.ExpiringTo != nil {
		w.add("expiry_date <= ?", *f.ExpiringTo)
	}

	var total int
	if err := r.q.QueryRow(ctx, `SELECT COUNT(*) FROM products`+w.String(), w.args...).Scan(&total); err != nil {
		if isInvalidText(err) {
			return []*entity.Product{}, 0, nil
		}
		return nil, 0, persistErr("count products", err)
	}

	limit := f.Limit
	if limit <= 0 {
		limit = total + 1
	}
	pageSQL, args := w.page(limit, max(f.Offset, 0))
	list, err := r.query(ctx, `SELECT `+productColumns+` FROM products`+w.String()+` ORDER BY name, id`+pageSQL, args...)
	if err != nil {
		return nil, 0, err
	}
	return list, total, nil
}

func (r *ProductRepo) ListExpiring(ctx context.Context, from, to time.Time) ([]*entity.Product, error) {
	return r.query(ctx, `SELECT `+productColumns+` FROM products
		WHERE archived_at IS NULL AND expiry_date BETWEEN $1 AND $2
		ORDER BY quantity, name`, from, to)
}

func (r *ProductRepo) ListExpired(ctx context.Context, before time.Time) ([]*entity.Product, error) {
	return r.query(ctx, `SELECT `+productColumns+` FROM products
		WHERE archived_at IS NULL AND expiry_date < $1
		ORDER BY expiry_date, name`, before)
}

func (r *ProductRepo) ListLowStock(ctx context.Context, threshold int) ([]*entity.Product, error) {
	return r.query(ctx, `SELECT `+productColumns+` FROM products
		WHERE archived_at IS NULL AND quantity <= $1
		ORDER BY quantity, name`, threshold)
}

func (r *ProductRepo) Archive(ctx context.Context, id string, at time.Time) error {
	cmd, err := r.q.Exec(ctx, `UPDATE products SET archived_at = $2 WHERE id = $1 AND archived_at IS NULL`, id, at)
	if err != nil {
		if isInvalidText(err) {
			return domain.ErrNotFound
		}
		return persistErr("archive product", err)
	}
	if cmd.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func (r *ProductRepo) ArchiveByCategory(ctx context.Context, categoryID string, at time.Time) error {
	if _, err := r.q.Exec(ctx, `UPDATE products SET archived_at = $2 WHERE category_id = $1 AND archived_at IS NULL`, categoryID, at); err != nil {
		return persistErr("archive products by category", err)
	}
	return nil
}

func (r *ProductRepo) ArchiveBySupplier(ctx context.Context, supplierID string, at time.Time) error {
	if _, err := r.q.Exec(ctx, `UPDATE products SET archived_at = $2 WHERE supplier_id = $1 AND archived_at IS NULL`, supplierID, at); err != nil {
		return persistErr("archive products by supplier", err)
	}
	return nil
}

func (r *ProductRepo) query(ctx context.Context, sql string, args ...any) ([]*entity.Product, error) {
	rows, err := r.q.Query(ctx, sql, args...)
	if err != nil {
		return nil, persistErr("list products", err)
	}
	defer rows.Close()
	list := make([]*entity.Product, 0)
	for rows.Next() {
		p, err := scanProduct(rows)
		if err != nil {
			return nil, persistErr("scan product", err)
		}
		list = append(list, p)
	}
	if err := rows.Err(); err != nil {
		return nil, persistErr("list products", err)
	}
	return list, nil
}
