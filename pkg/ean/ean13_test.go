package ean_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/grocery-inventory-api/pkg/ean"
)

func TestComputeCheckDigit_VectoresConocidos(t *testing.T) {
	tests := map[string]byte{
		"400638133393": '1',
		"000000000001": '7',
		"590123412345": '7',
		"000000000000": '0',
	}
	for base, want := range tests {
		got, err := ean.ComputeCheckDigit(base)
		require.NoError(t, err, base)
		assert.Equal(t, want, got, base)
	}
}

func TestComputeCheckDigit_EntradaInvalida(t *testing.T) {
	_, err := ean.ComputeCheckDigit("12345")
	assert.Error(t, err)
	_, err = ean.ComputeCheckDigit("40063813339a")
	assert.Error(t, err)
}

func TestValidate(t *testing.T) {
	assert.NoError(t, ean.Validate("400638133393"))
	assert.NoError(t, ean.Validate("4006381333931"))

	assert.NoError(t, ean.Validate("4006381333932"), "solo se valida el formato")
	assert.Error(t, ean.Validate("40063813339"), "11 dígitos")
	assert.Error(t, ean.Validate("40063813339311"), "14 dígitos")
	assert.Error(t, ean.Validate("40063813339A"), "no numérico")
	assert.Error(t, ean.Validate(""))
}

func TestValidChecksum(t *testing.T) {
	assert.True(t, ean.ValidChecksum("4006381333931"))
	assert.False(t, ean.ValidChecksum("4006381333932"))
	assert.False(t, ean.ValidChecksum("400638133393"))
}

func TestComplete(t *testing.T) {
	code, err := ean.Complete("400638133393")
	require.NoError(t, err)
	assert.Equal(t, "4006381333931", code)

	code, err = ean.Complete("4006381333931")
	require.NoError(t, err)
	assert.Equal(t, "4006381333931", code)
}

func TestFromID_NumericoSeRellena(t *testing.T) {
	assert.Equal(t, "0000000000017", ean.FromID("1"))
}

func TestFromID_UUIDEsEstableYValido(t *testing.T) {
	id := "5b1f0c74-3f1e-4c55-9a51-7d9a0f3c2b11"

	first := ean.FromID(id)
	assert.Equal(t, first, ean.FromID(id))
	assert.Len(t, first, ean.Length)
	assert.True(t, ean.ValidChecksum(first))
	assert.NotEqual(t, first, ean.FromID("5b1f0c74-3f1e-4c55-9a51-7d9a0f3c2b12"))
}
