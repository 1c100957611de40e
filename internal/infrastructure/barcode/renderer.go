// Package barcode dibuja y guarda las imágenes EAN-13 de los productos.
package barcode

import (
	"bytes"
	"fmt"
	"image/png"

	"github.com/boombuler/barcode"
	bcean "github.com/boombuler/barcode/ean"

	"github.com/jhoicas/grocery-inventory-api/internal/domain"
	"github.com/jhoicas/grocery-inventory-api/pkg/ean"
)

// Tamaño por defecto de la imagen en píxeles.
const (
	DefaultWidth  = 300
	DefaultHeight = 120
)

// PNGRenderer convierte un número EAN-13 en una imagen PNG.
type PNGRenderer struct {
	Width  int
	Height int
}

// NewPNGRenderer construye el renderer con el tamaño por defecto.
func NewPNGRenderer() *PNGRenderer {
	return &PNGRenderer{Width: DefaultWidth, Height: DefaultHeight}
}

// Render dibuja el código. Acepta 12 dígitos (se agrega el control) o 13 con control correcto.
func (r *PNGRenderer) Render(number string) ([]byte, error) {
	code, err := ean.Complete(number)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrInvalidInput, err)
	}
	if !ean.ValidChecksum(code) {
		return nil, fmt.Errorf("%w: el dígito de control de %s no es válido", domain.ErrInvalidInput, code)
	}
	bc, err := bcean.Encode(code)
	if err != nil {
		return nil, fmt.Errorf("encode ean %s: %w", code, err)
	}
	scaled, err := barcode.Scale(bc, r.Width, r.Height)
	if err != nil {
		return nil, fmt.Errorf("scale barcode %s: %w", code, err)
	}
	var buf bytes.Buffer
	if err := png.Encode(&buf, scaled); err != nil {
		return nil, fmt.Errorf("encode png %s: %w", code, err)
	}
	return buf.Bytes(), nil
}
