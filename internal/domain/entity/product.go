package entity

import (
	"fmt"
	"math"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/jhoicas/grocery-inventory-api/internal/domain"
)

// MaxQuantity existencia máxima de un producto; coincide con la columna INTEGER.
const MaxQuantity = math.MaxInt32

// Product representa un artículo del inventario.
// La cantidad en existencia solo cambia mediante StockIn/StockOut, que devuelven
// el StockTransaction asociado; no existe otro mutador.
type Product struct {
	ID         string
	Name       string
	SKU        string // único, normalizado en mayúsculas
	Barcode    string // EAN-13, vacío si aún no se ha generado
	Price      decimal.Decimal
	ExpiryDate *time.Time // fecha de calendario; nil si no vence
	CategoryID string
	SupplierID string
	CreatedAt  time.Time
	UpdatedAt  time.Time
	ArchivedAt *time.Time

	quantity int
}

// RestoreProduct reconstruye un producto persistido con su cantidad.
// Solo para adaptadores de persistencia.
func RestoreProduct(p Product, quantity int) *Product {
	p.quantity = quantity
	return &p
}

// Quantity devuelve la cantidad en existencia.
func (p *Product) Quantity() int { return p.quantity }

// StockIn suma qty a la existencia y devuelve la entrada del libro correspondiente.
func (p *Product) StockIn(qty int, userID, notes string, at time.Time) (*StockTransaction, error) {
	if qty <= 0 {
		return nil, domain.ErrInvalidQuantity
	}
	if qty > MaxQuantity-p.quantity {
		return nil, fmt.Errorf("%w: la existencia no puede superar %d unidades", domain.ErrInvalidInput, MaxQuantity)
	}
	p.quantity += qty
	p.UpdatedAt = at
	return p.newTransaction(TransactionTypeIn, qty, userID, notes, at), nil
}

// StockOut resta qty de la existencia. Si no alcanza devuelve *domain.InsufficientStockError
// y el producto queda intacto.
func (p *Product) StockOut(qty int, userID, notes string, at time.Time) (*StockTransaction, error) {
	if qty <= 0 {
		return nil, domain.ErrInvalidQuantity
	}
	if p.quantity < qty {
		return nil, &domain.InsufficientStockError{Requested: qty, Available: p.quantity}
	}
	p.quantity -= qty
	p.UpdatedAt = at
	return p.newTransaction(TransactionTypeOut, qty, userID, notes, at), nil
}

func (p *Product) newTransaction(kind TransactionType, qty int, userID, notes string, at time.Time) *StockTransaction {
	return &StockTransaction{
		ID:        uuid.New().String(),
		ProductID: p.ID,
		UserID:    userID,
		Type:      kind,
		Quantity:  qty,
		Notes:     notes,
		Date:      at,
	}
}

// IsLowStock indica si la existencia está en o por debajo del umbral.
func (p *Product) IsLowStock(threshold int) bool {
	return p.quantity <= threshold
}

// IsExpired indica si la fecha de vencimiento es anterior a la fecha de now.
func (p *Product) IsExpired(now time.Time) bool {
	days, ok := p.DaysUntilExpiry(now)
	return ok && days < 0
}

// DaysUntilExpiry devuelve los días de calendario hasta el vencimiento (negativo si ya venció).
// ok es false cuando el producto no tiene fecha de vencimiento.
func (p *Product) DaysUntilExpiry(now time.Time) (days int, ok bool) {
	if p.ExpiryDate == nil {
		return 0, false
	}
	diff := CalendarDate(*p.ExpiryDate).Sub(CalendarDate(now))
	return int(diff.Hours() / 24), true
}

// IsExpiringWithin indica si vence entre hoy y hoy+days (ambos inclusive) sin haber vencido.
func (p *Product) IsExpiringWithin(now time.Time, days int) bool {
	left, ok := p.DaysUntilExpiry(now)
	return ok && left >= 0 && left <= days
}

// IsArchived indica si el producto fue dado de baja.
func (p *Product) IsArchived() bool { return p.ArchivedAt != nil }

// CalendarDate descarta la hora y deja la fecha de calendario en UTC.
func CalendarDate(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}
