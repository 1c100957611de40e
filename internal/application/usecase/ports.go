package usecase

import (
	"context"

	"github.com/jhoicas/grocery-inventory-api/internal/domain/repository"
)

// CatalogTxRunner ejecuta fn en una transacción con los repositorios de catálogo.
// Archivar una categoría o un proveedor junto con sus productos ocurre aquí.
type CatalogTxRunner interface {
	RunCatalog(ctx context.Context, fn func(
		categoryRepo repository.CategoryRepository,
		supplierRepo repository.SupplierRepository,
		productRepo repository.ProductRepository,
	) error) error
}
