package entity

import "time"

// TransactionType dirección de un movimiento de stock.
type TransactionType string

// Tipos de movimiento del libro.
const (
	TransactionTypeIn  TransactionType = "IN"  // entrada
	TransactionTypeOut TransactionType = "OUT" // salida
)

// Valid indica si el tipo es IN u OUT.
func (t TransactionType) Valid() bool {
	return t == TransactionTypeIn || t == TransactionTypeOut
}

// StockTransaction es una entrada inmutable del libro de movimientos.
// Quantity siempre es positiva; la dirección la da Type.
type StockTransaction struct {
	ID        string
	ProductID string
	UserID    string
	Type      TransactionType
	Quantity  int
	Notes     string
	Date      time.Time
}

// MovementTotals conteo y suma de cantidades de un tipo de movimiento.
type MovementTotals struct {
	Count    int
	Quantity int
}

// MovementStats agregado de movimientos en un rango de fechas inclusivo.
type MovementStats struct {
	From       time.Time
	To         time.Time
	TotalCount int
	In         MovementTotals
	Out        MovementTotals
}

// LowStockAlert aviso emitido cuando una salida deja el producto en o bajo el umbral.
type LowStockAlert struct {
	ProductID string    `json:"product_id"`
	Name      string    `json:"name"`
	SKU       string    `json:"sku"`
	Quantity  int       `json:"quantity"`
	Threshold int       `json:"threshold"`
	At        time.Time `json:"at"`
}
