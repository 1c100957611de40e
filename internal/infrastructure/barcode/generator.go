package barcode

import (
	"context"

	"github.com/jhoicas/grocery-inventory-api/internal/application/ports"
	"github.com/jhoicas/grocery-inventory-api/pkg/ean"
	"github.com/jhoicas/grocery-inventory-api/pkg/logger"
)

var _ ports.BarcodeGenerator = (*Generator)(nil)

// Generator deriva el EAN-13 del ID del producto y guarda su imagen.
type Generator struct {
	store *ImageStore
	log   *logger.Logger
}

// NewGenerator construye el generador sobre el almacén de imágenes.
func NewGenerator(store *ImageStore, log *logger.Logger) *Generator {
	return &Generator{store: store, log: log}
}

// Generate devuelve el número y la URL de la imagen. El mismo ID produce siempre el mismo número.
func (g *Generator) Generate(ctx context.Context, productID, productName string) (string, string, error) {
	number := ean.FromID(productID)
	url, err := g.store.Save(ctx, number)
	if err != nil {
		return "", "", err
	}
	g.log.Debug().Str("product_id", productID).Str("name", productName).Str("barcode", number).Msg("imagen de código de barras guardada")
	return number, url, nil
}
