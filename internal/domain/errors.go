package domain

import (
	"errors"
	"fmt"
)

// Errores de dominio (sin dependencias externas).
var (
	ErrNotFound     = errors.New("recurso no encontrado")
	ErrInvalidInput = errors.New("entrada inválida")
	ErrDuplicate    = errors.New("recurso duplicado")
	ErrUnauthorized = errors.New("no autorizado")
	ErrForbidden    = errors.New("acceso denegado")

	// Errores del libro de movimientos de stock.
	ErrInvalidQuantity   = errors.New("la cantidad debe ser mayor a cero")
	ErrInsufficientStock = errors.New("stock insuficiente")
	ErrItemNotFound      = errors.New("producto no encontrado")
	ErrActorNotFound     = errors.New("usuario no encontrado")
	ErrPersistence       = errors.New("error de persistencia")
)

// InsufficientStockError detalla una salida rechazada por falta de existencias.
// errors.Is(err, ErrInsufficientStock) es verdadero para este tipo.
type InsufficientStockError struct {
	Requested int
	Available int
}

func (e *InsufficientStockError) Error() string {
	return fmt.Sprintf("stock insuficiente: solicitado %d, disponible %d", e.Requested, e.Available)
}

// Is permite comparar contra el sentinel ErrInsufficientStock.
func (e *InsufficientStockError) Is(target error) bool {
	return target == ErrInsufficientStock
}
