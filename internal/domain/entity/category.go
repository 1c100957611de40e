package entity

import "time"

// Category agrupa productos. ProductCount se calcula al listar.
type Category struct {
	ID           string
	Name         string
	Description  string
	ProductCount int
	CreatedAt    time.Time
	ArchivedAt   *time.Time
}
