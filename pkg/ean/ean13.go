// Package ean calcula y valida números de código de barras EAN-13.
package ean

import (
	"fmt"
	"strings"

	"github.com/cespare/xxhash/v2"
)

// Longitudes aceptadas: 12 dígitos sin dígito de control o 13 con él.
const (
	BaseLength = 12
	Length     = 13
)

// pesos EAN de izquierda a derecha sobre los 12 dígitos base: 1, 3, 1, 3, ...
var weights = [BaseLength]int{1, 3, 1, 3, 1, 3, 1, 3, 1, 3, 1, 3}

// ComputeCheckDigit calcula el dígito de control para 12 dígitos base.
func ComputeCheckDigit(base string) (byte, error) {
	if len(base) != BaseLength || !allDigits(base) {
		return 0, fmt.Errorf("ean: se requieren %d dígitos, se recibió %q", BaseLength, base)
	}
	var sum int
	for i := 0; i < BaseLength; i++ {
		sum += int(base[i]-'0') * weights[i]
	}
	return byte('0' + (10-sum%10)%10), nil
}

// Validate comprueba que code tenga 12 o 13 dígitos numéricos.
func Validate(code string) error {
	if len(code) != BaseLength && len(code) != Length {
		return fmt.Errorf("ean: el código debe tener %d o %d dígitos, tiene %d", BaseLength, Length, len(code))
	}
	if !allDigits(code) {
		return fmt.Errorf("ean: el código solo puede contener dígitos")
	}
	return nil
}

// ValidChecksum indica si un código de 13 dígitos trae el dígito de control correcto.
func ValidChecksum(code string) bool {
	if len(code) != Length || !allDigits(code) {
		return false
	}
	expected, _ := ComputeCheckDigit(code[:BaseLength])
	return code[BaseLength] == expected
}

// Complete devuelve el EAN-13 de code. Acepta 12 dígitos (agrega el control) o 13.
func Complete(code string) (string, error) {
	if err := Validate(code); err != nil {
		return "", err
	}
	if len(code) == Length {
		return code, nil
	}
	check, _ := ComputeCheckDigit(code)
	return code + string(check), nil
}

// FromID deriva un EAN-13 estable a partir del identificador de un producto.
// Los identificadores numéricos cortos se rellenan con ceros; el resto se resume con xxhash.
func FromID(id string) string {
	base := strings.TrimSpace(id)
	if base == "" || len(base) > BaseLength || !allDigits(base) {
		base = fmt.Sprintf("%012d", xxhash.Sum64String(id)%1_000_000_000_000)
	} else {
		base = strings.Repeat("0", BaseLength-len(base)) + base
	}
	check, _ := ComputeCheckDigit(base)
	return base + string(check)
}

func allDigits(s string) bool {
	for i := 0; i < len(s); i++ {
		if s[i] < '0' || s[i] > '9' {
			return false
		}
	}
	return len(s) > 0
}
