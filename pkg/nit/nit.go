// Package nit normaliza el NIT colombiano con su dígito de verificación (módulo 11).
package nit

import (
	"errors"
	"fmt"
	"unicode"
)

// pesos de la DIAN para los 9 dígitos base, de izquierda a derecha.
var weights = [9]int{41, 37, 29, 23, 19, 17, 13, 7, 3}

var ErrLength = errors.New("nit: debe tener 9 dígitos o 10 con dígito de verificación")

// CheckDigit calcula el dígito de verificación para los 9 dígitos base.
func CheckDigit(base string) (byte, error) {
	digits := extractDigits(base)
	if len(digits) != 9 {
		return 0, ErrLength
	}
	return checkDigit(digits), nil
}

// Normalize devuelve el NIT como "#########-D". Acepta puntos, guiones y espacios.
// Con 9 dígitos completa el dígito de verificación; con 10 lo verifica.
func Normalize(taxID string) (string, error) {
	digits := extractDigits(taxID)
	switch len(digits) {
	case 9:
		return fmt.Sprintf("%s-%c", digits, checkDigit(digits)), nil
	case 10:
		expected := checkDigit(digits[:9])
		if digits[9] != expected {
			return "", fmt.Errorf("nit: dígito de verificación inválido: esperado %c, recibido %c", expected, digits[9])
		}
		return fmt.Sprintf("%s-%c", digits[:9], expected), nil
	default:
		return "", ErrLength
	}
}

func checkDigit(base []byte) byte {
	var sum int
	for i, d := range base {
		sum += int(d-'0') * weights[i]
	}
	r := sum % 11
	if r == 0 || r == 1 {
		return byte('0' + r)
	}
	return byte('0' + (11 - r))
}

func extractDigits(s string) []byte {
	var out []byte
	for _, r := range s {
		if unicode.IsDigit(r) {
			out = append(out, byte(r))
		}
	}
	return out
}
