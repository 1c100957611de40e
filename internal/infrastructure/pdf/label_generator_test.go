package pdf

import (
	"bytes"
	"context"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/grocery-inventory-api/internal/application/ports"
	"github.com/jhoicas/grocery-inventory-api/internal/domain"
)

func TestRenderLabel_GeneraPDF(t *testing.T) {
	g := NewLabelGenerator(nil)

	out, err := g.RenderLabel(context.Background(), ports.LabelData{
		Name:       "Arroz Diana 500g",
		SKU:        "ARZ-500",
		Barcode:    "4006381333931",
		Price:      decimal.RequireFromString("3450"),
		ExpiryDate: "2026-12-31",
	})
	require.NoError(t, err)
	assert.True(t, bytes.HasPrefix(out, []byte("%PDF")), "el documento debe ser PDF")
}

func TestRenderLabel_CodigoInvalido(t *testing.T) {
	g := NewLabelGenerator(nil)

	_, err := g.RenderLabel(context.Background(), ports.LabelData{Name: "X", SKU: "X", Barcode: "4006381333932"})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestFormatPrice_SeparadoresEnEspanol(t *testing.T) {
	g := NewLabelGenerator(nil)
	assert.Equal(t, "$ 1.234.567,50", g.formatPrice(decimal.RequireFromString("1234567.5")))
	assert.Equal(t, "$ 0,00", g.formatPrice(decimal.Zero))
}
