package repository

import (
	"context"
	"time"

	"github.com/jhoicas/grocery-inventory-api/internal/domain/entity"
)

// ProductFilter criterios de búsqueda para listados de productos (solo no archivados).
type ProductFilter struct {
	CategoryID string
	SupplierID string
	Search     string // coincidencia parcial en nombre o SKU, sin distinguir mayúsculas
	// LowStockThreshold si no es nil limita a productos con cantidad <= umbral.
	LowStockThreshold *int
	// ExpiringFrom/ExpiringTo si no son nil limitan a vencimientos dentro del rango (inclusive).
	ExpiringFrom *time.Time
	ExpiringTo   *time.Time
	Limit        int
	Offset       int
}

// ProductRepository define el puerto de persistencia para Product (DIP).
// Ningún método escribe la cantidad: eso es exclusivo de StockRepository.SaveQuantity.
type ProductRepository interface {
	// Create inserta el producto con la cantidad que trae (cero para productos nuevos).
	Create(ctx context.Context, product *entity.Product) error
	// GetByID devuelve nil, nil si no existe o está archivado.
	GetByID(ctx context.Context, id string) (*entity.Product, error)
	GetBySKU(ctx context.Context, sku string) (*entity.Product, error)
	GetByBarcode(ctx context.Context, barcode string) (*entity.Product, error)
	Update(ctx context.Context, product *entity.Product) error
	SetBarcode(ctx context.Context, productID, barcode string) error
	List(ctx context.Context, filter ProductFilter) ([]*entity.Product, int, error)
	// ListExpiring devuelve productos que vencen entre from y to (inclusive), por cantidad ascendente.
	ListExpiring(ctx context.Context, from, to time.Time) ([]*entity.Product, error)
	// ListExpired devuelve productos con vencimiento anterior a before.
	ListExpired(ctx context.Context, before time.Time) ([]*entity.Product, error)
	ListLowStock(ctx context.Context, threshold int) ([]*entity.Product, error)
	Archive(ctx context.Context, id string, at time.Time) error
	ArchiveByCategory(ctx context.Context, categoryID string, at time.Time) error
	ArchiveBySupplier(ctx context.Context, supplierID string, at time.Time) error
}
