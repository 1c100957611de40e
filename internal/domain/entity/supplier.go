package entity

import "time"

// Supplier proveedor de productos.
type Supplier struct {
	ID           string
	Name         string
	Contact      string // teléfono, máx. 15 caracteres
	Email        string
	Address      string
	ProductCount int
	CreatedAt    time.Time
	ArchivedAt   *time.Time
}
