package inventory_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/jhoicas/grocery-inventory-api/internal/domain/inventory"
)

func TestNormalizeSKU(t *testing.T) {
	assert.Equal(t, "LEC-001", inventory.NormalizeSKU("  lec-001 "))
	assert.Equal(t, "AÑO-2026", inventory.NormalizeSKU("año-2026"))
	assert.Equal(t, "", inventory.NormalizeSKU("   "))
}
