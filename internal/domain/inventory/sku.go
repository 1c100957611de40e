package inventory

import (
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// NormalizeSKU recorta espacios y lleva el SKU a mayúsculas (servicio de dominio).
// Dos SKU que solo difieren en mayúsculas/minúsculas se consideran el mismo.
func NormalizeSKU(sku string) string {
	// cases.Caser guarda estado; no se comparte entre goroutines.
	return cases.Upper(language.Und).String(strings.TrimSpace(sku))
}
