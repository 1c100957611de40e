package usecase_test

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/grocery-inventory-api/internal/application/ports"
	"github.com/jhoicas/grocery-inventory-api/internal/domain"
)

func TestBarcode_Search(t *testing.T) {
	f := newFixture(t)
	p := f.create(t, f.request("BAR-001"))

	_, err := f.barcodes.Search(f.ctx, "77020010AB")
	assert.ErrorIs(t, err, domain.ErrInvalidInput)

	_, err = f.barcodes.Search(f.ctx, "7702001000028")
	assert.ErrorIs(t, err, domain.ErrNotFound)

	got, err := f.barcodes.Search(f.ctx, " 7702001000011 ")
	require.NoError(t, err)
	assert.Equal(t, p.ID, got.ID)
}

func TestBarcode_ImageDibujaSiNoExiste(t *testing.T) {
	f := newFixture(t)
	p := f.create(t, f.request("BAR-002"))
	url := "http://localhost:8080/static/barcodes/barcode_7702001000011.png"
	f.images.On("Exists", mock.Anything, "7702001000011").Return(false, nil).Once()
	f.images.On("URL", "7702001000011").Return(url)
	f.images.On("Save", mock.Anything, "7702001000011").Return(url, nil).Once()

	out, err := f.barcodes.Image(f.ctx, p.ID)
	require.NoError(t, err)
	assert.Equal(t, url, out.ImageURL)
	assert.Equal(t, "7702001000011", out.Barcode)
	f.images.AssertExpectations(t)
}

func TestBarcode_GenerateAsignaNumero(t *testing.T) {
	f := newFixture(t)
	in := f.request("BAR-003")
	in.Barcode = ""
	f.generator.On("Generate", mock.Anything, mock.Anything, mock.Anything).Return("", "", assert.AnError).Once()
	p := f.create(t, in)
	require.Nil(t, p.Barcode)

	f.generator.On("Generate", mock.Anything, p.ID, p.Name).Return("4006381333931", "/static/barcodes/barcode_4006381333931.png", nil).Once()
	out, err := f.barcodes.Generate(f.ctx, p.ID)
	require.NoError(t, err)
	assert.Equal(t, "4006381333931", out.Barcode)

	got, err := f.uc.GetByID(f.ctx, p.ID)
	require.NoError(t, err)
	require.NotNil(t, got.Barcode)
	assert.Equal(t, "4006381333931", *got.Barcode)

	// con número asignado solo se vuelve a dibujar
	f.images.On("Save", mock.Anything, "4006381333931").Return("/static/barcodes/barcode_4006381333931.png", nil).Once()
	_, err = f.barcodes.Generate(f.ctx, p.ID)
	require.NoError(t, err)
	f.generator.AssertExpectations(t)
	f.images.AssertExpectations(t)
}

func TestBarcode_Label(t *testing.T) {
	f := newFixture(t)
	in := f.request("BAR-004")
	in.ExpiryDate = "2026-05-20"
	p := f.create(t, in)

	f.labels.On("RenderLabel", mock.Anything, mock.MatchedBy(func(d ports.LabelData) bool {
		return d.Name == "Leche entera" && d.SKU == "BAR-004" && d.Barcode == "7702001000011" &&
			d.ExpiryDate == "2026-05-20" && d.Price.Equal(decimal.RequireFromString("4200"))
	})).Return([]byte("%PDF-1.4"), nil).Once()

	pdf, name, err := f.barcodes.Label(f.ctx, p.ID)
	require.NoError(t, err)
	assert.Equal(t, []byte("%PDF-1.4"), pdf)
	assert.Equal(t, "label_BAR-004.pdf", name)
	f.labels.AssertExpectations(t)
}
