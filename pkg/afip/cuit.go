package afip

import (
	"fmt"
	"unicode"
)

// pesos para el cálculo del dígito verificador de CUIT/CUIL (RG AFIP).
// Se aplican a los 10 primeros dígitos, de izquierda a derecha.
var cuitWeights = [10]int{5, 4, 3, 2, 7, 6, 5, 4, 3, 2}

// ValidateCUIT valida que el CUIT (con o sin guiones/puntos) tenga 11 dígitos
// y un dígito verificador correcto según el algoritmo módulo 11 de AFIP.
// taxID puede ser "30-50001091-2", "30.50001091.2" o "30500010912".
func ValidateCUIT(taxID string) error {
	digits := extractDigits(taxID)
	if len(digits) != 11 {
		return fmt.Errorf("afip: CUIT debe tener 11 dígitos, se encontraron %d", len(digits))
	}
	expected, err := checkDigit(digits[:10])
	if err != nil {
		return err
	}
	if digits[10] != expected {
		return fmt.Errorf("afip: dígito verificador del CUIT inválido: esperado %c, recibido %c", expected, digits[10])
	}
	return nil
}

// ComputeCUITCheckDigit calcula el dígito verificador para los 10 primeros dígitos del CUIT.
func ComputeCUITCheckDigit(taxID string) (byte, error) {
	digits := extractDigits(taxID)
	if len(digits) < 10 {
		return 0, fmt.Errorf("afip: se requieren al menos 10 dígitos para calcular el verificador, se encontraron %d", len(digits))
	}
	return checkDigit(digits[:10])
}

// FormatCUIT devuelve el CUIT con guiones (NN-NNNNNNNN-N) si es válido;
// si no valida, devuelve el valor original sin tocar y ok=false.
func FormatCUIT(taxID string) (string, bool) {
	if err := ValidateCUIT(taxID); err != nil {
		return taxID, false
	}
	d := extractDigits(taxID)
	return string(d[:2]) + "-" + string(d[2:10]) + "-" + string(d[10:]), true
}

func checkDigit(base []byte) (byte, error) {
	var sum int
	for i, d := range base {
		sum += int(d-'0') * cuitWeights[i]
	}
	remainder := sum % 11
	switch remainder {
	case 0:
		return '0', nil
	case 1:
		// resto 1 implicaría verificador 10, que no existe en CUIT
		return 0, fmt.Errorf("afip: la base del CUIT no admite dígito verificador")
	default:
		return byte('0' + (11 - remainder)), nil
	}
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
