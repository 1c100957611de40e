package usecase_test

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/grocery-inventory-api/internal/application/dto"
	"github.com/jhoicas/grocery-inventory-api/internal/domain"
)

func TestCategory_NombreUnicoYListado(t *testing.T) {
	f := newFixture(t)

	_, err := f.categories.Create(f.ctx, dto.CategoryRequest{Name: "  Lácteos "})
	assert.ErrorIs(t, err, domain.ErrDuplicate)

	_, err = f.categories.Create(f.ctx, dto.CategoryRequest{Name: ""})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)

	granos, err := f.categories.Create(f.ctx, dto.CategoryRequest{Name: "Granos", Description: "arroz, fríjol"})
	require.NoError(t, err)
	require.NotNil(t, granos.Description)

	f.create(t, f.request("CAT-001"))

	list, err := f.categories.List(f.ctx)
	require.NoError(t, err)
	require.Len(t, list, 2)
	assert.Equal(t, "Granos", list[0].Name)
	assert.Equal(t, 0, list[0].ProductCount)
	assert.Equal(t, "Lácteos", list[1].Name)
	assert.Equal(t, 1, list[1].ProductCount)

	_, err = f.categories.Update(f.ctx, granos.ID, dto.CategoryRequest{Name: "Lácteos"})
	assert.ErrorIs(t, err, domain.ErrDuplicate)

	updated, err := f.categories.Update(f.ctx, granos.ID, dto.CategoryRequest{Name: "Granos y cereales"})
	require.NoError(t, err)
	assert.Nil(t, updated.Description, "la descripción vacía se borra")
}

func TestCategory_DeleteArchivaSusProductos(t *testing.T) {
	f := newFixture(t)
	in := f.request("CAT-002")
	in.InitialQuantity = 4
	p := f.create(t, in)

	require.NoError(t, f.categories.Delete(f.ctx, f.category))

	_, err := f.uc.GetByID(f.ctx, p.ID)
	assert.ErrorIs(t, err, domain.ErrNotFound)
	assert.Len(t, f.ledgerOf(t, p.ID), 1, "el libro sobrevive al archivo")

	list, err := f.categories.List(f.ctx)
	require.NoError(t, err)
	assert.Empty(t, list)

	assert.ErrorIs(t, f.categories.Delete(f.ctx, f.category), domain.ErrNotFound)
}

func TestSupplier_Validaciones(t *testing.T) {
	f := newFixture(t)

	cases := []struct {
		name string
		in   dto.SupplierRequest
		want error
	}{
		{"sin contacto", dto.SupplierRequest{Name: "Colanta"}, domain.ErrInvalidInput},
		{"contacto largo", dto.SupplierRequest{Name: "Colanta", Contact: strings.Repeat("9", 16)}, domain.ErrInvalidInput},
		{"email inválido", dto.SupplierRequest{Name: "Colanta", Contact: "3001112233", Email: "colanta"}, domain.ErrInvalidInput},
		{"nombre repetido", dto.SupplierRequest{Name: "alquería", Contact: "3001112233"}, domain.ErrDuplicate},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := f.suppliers.Create(f.ctx, tc.in)
			assert.ErrorIs(t, err, tc.want)
		})
	}

	s, err := f.suppliers.Create(f.ctx, dto.SupplierRequest{Name: "Colanta", Contact: "3001112233", Email: "Ventas@Colanta.CO"})
	require.NoError(t, err)
	require.NotNil(t, s.Email)
	assert.Equal(t, "ventas@colanta.co", *s.Email)
}

func TestSupplier_ListarActualizarYArchivar(t *testing.T) {
	f := newFixture(t)
	_, err := f.suppliers.Create(f.ctx, dto.SupplierRequest{Name: "Colanta", Contact: "3001112233"})
	require.NoError(t, err)
	p := f.create(t, f.request("SUP-001"))

	page, err := f.suppliers.List(f.ctx, "", dto.PageRequest{})
	require.NoError(t, err)
	assert.Equal(t, 2, page.Page.Total)
	assert.Equal(t, 20, page.Page.Limit)
	assert.Equal(t, "Alquería", page.Items[0].Name)

	page, err = f.suppliers.List(f.ctx, "colan", dto.PageRequest{})
	require.NoError(t, err)
	require.Len(t, page.Items, 1)

	contact := "6041234567"
	updated, err := f.suppliers.Update(f.ctx, f.supplier, dto.UpdateSupplierRequest{Contact: &contact})
	require.NoError(t, err)
	assert.Equal(t, contact, updated.Contact)
	assert.Equal(t, "Alquería", updated.Name)

	require.NoError(t, f.suppliers.Delete(f.ctx, f.supplier))
	_, err = f.suppliers.GetByID(f.ctx, f.supplier)
	assert.ErrorIs(t, err, domain.ErrNotFound)
	_, err = f.uc.GetByID(f.ctx, p.ID)
	assert.ErrorIs(t, err, domain.ErrNotFound)
}
