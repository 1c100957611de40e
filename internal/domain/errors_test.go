package domain_test

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/grocery-inventory-api/internal/domain"
)

func TestInsufficientStockError_CoincideConSentinel(t *testing.T) {
	err := fmt.Errorf("registrar salida: %w", &domain.InsufficientStockError{Requested: 6, Available: 5})

	assert.ErrorIs(t, err, domain.ErrInsufficientStock)
	assert.NotErrorIs(t, err, domain.ErrInvalidQuantity)

	var detail *domain.InsufficientStockError
	require.True(t, errors.As(err, &detail))
	assert.Equal(t, 6, detail.Requested)
	assert.Equal(t, 5, detail.Available)
	assert.Contains(t, err.Error(), "solicitado 6, disponible 5")
}

func TestErrPersistence_SeEnvuelveConCausa(t *testing.T) {
	cause := errors.New("conexión cerrada")
	err := fmt.Errorf("%w: commit transaction: %w", domain.ErrPersistence, cause)

	assert.ErrorIs(t, err, domain.ErrPersistence)
	assert.ErrorIs(t, err, cause)
}
