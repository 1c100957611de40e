package ports

import (
	"context"

	"github.com/shopspring/decimal"
)

// BarcodeGenerator define el puerto de salida para generar el código de barras de un producto.
// Devuelve el número EAN-13 y la ubicación (URL o ruta) de la imagen generada.
// El núcleo solo persiste el número; la imagen es responsabilidad del adaptador.
type BarcodeGenerator interface {
	Generate(ctx context.Context, productID, productName string) (number, locator string, err error)
}

// BarcodeImageStore acceso a las imágenes de código de barras.
// Save dibuja y guarda la imagen de un número ya existente (p.ej. uno escrito a mano).
type BarcodeImageStore interface {
	Save(ctx context.Context, number string) (locator string, err error)
	URL(number string) string
	Exists(ctx context.Context, number string) (bool, error)
	Remove(ctx context.Context, number string) error
}

// LabelData datos impresos en la etiqueta de un producto.
type LabelData struct {
	Name       string
	SKU        string
	Barcode    string
	Price      decimal.Decimal
	ExpiryDate string // YYYY-MM-DD o vacío
}

// LabelRenderer genera la etiqueta imprimible (PDF) de un producto.
type LabelRenderer interface {
	RenderLabel(ctx context.Context, data LabelData) ([]byte, error)
}
