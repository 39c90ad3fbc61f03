// Package sicore codifica retenciones emitidas en el layout regulatorio
// SICORE de AFIP: registro de ancho fijo de 17 campos (o separado por ';'
// en modo CSV), terminado en CRLF, con separador decimal coma.
package sicore

import (
	"fmt"
	"strings"
	"time"

	"github.com/shopspring/decimal"
	"github.com/tu-usuario/retencion-ar/internal/domain/entity"
	"github.com/tu-usuario/retencion-ar/pkg/afip"
)

const eol = "\r\n"

// Códigos de impuesto SICORE por familia.
const (
	TaxCodeGanancias = 217 // Impuesto a las Ganancias
	TaxCodeBienes    = 219 // Impuesto sobre Bienes Personales
	TaxCodeIVA       = 767 // Impuesto al Valor Agregado
)

// Códigos de comprobante de origen.
const (
	SourceCodePaymentOrder = 6 // orden de pago
	SourceCodeInvoice      = 1 // factura
)

// Source comprobante de origen de la retención, ya resuelto por el caller.
type Source struct {
	Code   int
	Date   time.Time
	Number string
	Amount decimal.Decimal
}

// Format codifica una retención emitida en un registro SICORE. Si source es
// nil no hay comprobante de origen rastreable: se devuelve texto vacío,
// ok=false y el mensaje de diagnóstico para el operador; el export continúa
// con las demás retenciones.
func Format(w *entity.Withholding, regime *entity.Regime, party *entity.Party, source *Source, csvFormat bool) (text string, ok bool, message string) {
	if source == nil {
		return "", false, fmt.Sprintf(
			"ERROR: la retención %s no tiene un comprobante asociado. Fue quitada del listado.", w.Number)
	}

	fields := []string{
		formatInteger(int64(source.Code), 2),
		formatDate(source.Date),
		formatString(source.Number, 16),
		formatAmount(source.Amount, 13),
		formatInteger(int64(taxCode(regime.Tax)), 4),
		formatInteger(int64(regime.RegimeCode), 3),
		"1", // código de operación: retención
		formatAmount(w.PaymentAmount, 11),
		formatDate(w.Date),
		conditionCode(regime.Tax, party),
		"0", // suspendidos
		formatAmount(w.Amount, 11),
		formatAmount(decimal.Zero, 3), // porcentaje de exclusión
		"00/00/0000",                  // fecha de vigencia (boletín)
		formatInteger(int64(party.DocumentTypeCode), 2),
		formatString(documentNumber(party), 20),
		formatInteger(0, 14), // número de certificado (placeholder)
	}

	separator := ""
	if csvFormat {
		separator = ";"
	}
	return strings.Join(fields, separator) + eol, true, ""
}

// taxCode mapea la familia de impuesto al código SICORE.
func taxCode(taxFamily string) int {
	switch taxFamily {
	case entity.TaxGanancias:
		return TaxCodeGanancias
	case entity.TaxBienes:
		return TaxCodeBienes
	case entity.TaxIVA:
		return TaxCodeIVA
	default:
		return 0
	}
}

// conditionCode código de condición del retenido: 01 inscripto, 02 otro.
func conditionCode(taxFamily string, party *entity.Party) string {
	switch taxFamily {
	case entity.TaxGanancias:
		if party.GananciasCondition == entity.GananciasInscripto {
			return "01"
		}
		return "02"
	case entity.TaxIVA:
		if party.IVACondition == entity.IVAResponsableInscripto {
			return "01"
		}
		return "02"
	case entity.TaxBienes:
		if party.BienesInscripto {
			return "01"
		}
		return "02"
	default:
		return "00"
	}
}

// documentNumber CUIT con guiones si valida; si no, pasa sin formatear
// (un CUIT inválido no aborta el export).
func documentNumber(party *entity.Party) string {
	formatted, _ := afip.FormatCUIT(party.CUIT)
	return formatted
}

// formatDate dd/mm/aaaa; una fecha cero se informa como 00/00/0000.
func formatDate(t time.Time) string {
	if t.IsZero() {
		return "00/00/0000"
	}
	return t.Format("02/01/2006")
}

// formatString recorta espacios, justifica a izquierda y trunca al ancho.
func formatString(value string, length int) string {
	s := strings.TrimSpace(value)
	if len(s) < length {
		s += strings.Repeat(" ", length-len(s))
	}
	return s[:length]
}

// formatInteger justifica a derecha con ceros y trunca al ancho.
func formatInteger(value int64, length int) string {
	s := fmt.Sprintf("%0*d", length, value)
	return s[:length]
}

// formatAmount parte entera cero-rellenada a intLength dígitos, coma y dos
// decimales (separador decimal coma, como exige el formato).
func formatAmount(value decimal.Decimal, intLength int) string {
	s := value.Abs().StringFixed(2)
	parts := strings.SplitN(s, ".", 2)
	intPart := parts[0]
	if len(intPart) < intLength {
		intPart = strings.Repeat("0", intLength-len(intPart)) + intPart
	}
	return intPart + "," + parts[1]
}
