// Package tax implementa el motor de cálculo de retenciones y percepciones:
// resolución de alícuota (plana, pactada o por escala), filtro de exenciones,
// agregación de bases por período fiscal y el cálculo final con mínimos.
//
// Todas las funciones son puras: reciben fotos inmutables de los datos
// (regímenes, exenciones, movimientos del período) y no tocan persistencia.
// La cuantización a 2 decimales se aplica en cada frontera de multiplicación
// o suma, porque la acumulación entre comprobantes depende de valores ya
// redondeados y persistidos.
package tax

import (
	"time"

	"github.com/shopspring/decimal"
)

// DefaultAssumedVATRate tasa de IVA asumida embebida en un pago global,
// usada por el modo explícito de recálculo cuando el operador no indica otra.
var DefaultAssumedVATRate = decimal.RequireFromString("0.21")

var hundred = decimal.NewFromInt(100)

// round2 cuantiza a 2 decimales, mitad hacia arriba.
func round2(d decimal.Decimal) decimal.Decimal {
	return d.Round(2)
}

// Round2 expone la cuantización estándar del motor.
func Round2(d decimal.Decimal) decimal.Decimal { return round2(d) }

// PeriodBounds devuelve el primer y último día del mes calendario que
// contiene a date. La acumulación por período usa este rango inclusive.
func PeriodBounds(date time.Time) (time.Time, time.Time) {
	first := time.Date(date.Year(), date.Month(), 1, 0, 0, 0, 0, date.Location())
	last := first.AddDate(0, 1, -1)
	return first, last
}
