package tax

import (
	"github.com/shopspring/decimal"
)

// Allocation describe la imputación de un pago contra una factura.
type Allocation struct {
	Settled        decimal.Decimal // importe del pago aplicado a la factura
	InvoiceTotal   decimal.Decimal
	InvoiceUntaxed decimal.Decimal
	Lines          []AllocationLine
}

// AllocationLine línea de la factura imputada, con su régimen de Ganancias
// asignado. RegimeID vacío usa el régimen por defecto del cálculo.
type AllocationLine struct {
	Amount   decimal.Decimal
	RegimeID string
}

// PeriodSnapshot foto inmutable de los movimientos ya contabilizados del
// período fiscal (mes calendario) para el mismo tercero. Se arma afuera del
// motor leyendo un snapshot consistente de la base; el motor nunca consulta
// registros vivos.
type PeriodSnapshot struct {
	// Contributions base aportada por régimen por los comprobantes
	// contabilizados previos del período.
	Contributions map[string]decimal.Decimal
	// Withheld neto ya retenido por régimen (líneas en estado issued).
	Withheld map[string]decimal.Decimal
	// Residual diferencia entre el total de comprobantes contabilizados y su
	// importe originalmente imputado; se divide por (1+IVA) y se suma solo a
	// la acumulación del régimen por defecto.
	Residual decimal.Decimal
}

// BaseAmounts bases por régimen que alimenta el calculador.
type BaseAmounts struct {
	PaymentAmount       decimal.Decimal // aporte de la operación actual
	AccumulatedPrior    decimal.Decimal // acumulado del período sin esta operación
	AccumulatedWithheld decimal.Decimal // neto ya retenido en el período
}

// Contributions prorratea las imputaciones de un pago entre los regímenes de
// las líneas de cada factura: cada aporte es
// round2(linea.importe * imputado / total_factura). El redondeo se aplica por
// aporte antes de sumar; el error de redondeo se acumula aditivamente, igual
// que en el comportamiento de referencia. Facturas con total cero no aportan.
func Contributions(allocs []Allocation, defaultRegimeID string) map[string]decimal.Decimal {
	out := make(map[string]decimal.Decimal)
	for _, alloc := range allocs {
		if alloc.InvoiceTotal.IsZero() {
			continue
		}
		for _, line := range alloc.Lines {
			regimeID := line.RegimeID
			if regimeID == "" {
				regimeID = defaultRegimeID
			}
			if regimeID == "" {
				continue
			}
			contribution := round2(line.Amount.Mul(alloc.Settled).Div(alloc.InvoiceTotal))
			if contribution.IsZero() {
				continue
			}
			out[regimeID] = out[regimeID].Add(contribution)
		}
	}
	return out
}

// AggregatePayment combina el aporte de la operación actual con la foto del
// período. Un régimen sin base imputable no aparece en el resultado (no
// produce línea, ni siquiera en cero).
func AggregatePayment(allocs []Allocation, defaultRegimeID string, snap PeriodSnapshot, vatRate decimal.Decimal) map[string]BaseAmounts {
	current := Contributions(allocs, defaultRegimeID)

	prior := make(map[string]decimal.Decimal, len(snap.Contributions))
	for regimeID, amount := range snap.Contributions {
		prior[regimeID] = amount
	}
	if !snap.Residual.IsZero() && defaultRegimeID != "" {
		residualBase := round2(snap.Residual.Div(decimal.NewFromInt(1).Add(vatRate)))
		prior[defaultRegimeID] = prior[defaultRegimeID].Add(residualBase)
	}

	out := make(map[string]BaseAmounts, len(current))
	for regimeID, payment := range current {
		out[regimeID] = BaseAmounts{
			PaymentAmount:       payment,
			AccumulatedPrior:    prior[regimeID],
			AccumulatedWithheld: snap.Withheld[regimeID],
		}
	}
	return out
}

// ExplicitBase base del modo explícito de recálculo: el importe global
// ingresado por el operador dividido por (1+IVA), sin prorrateo por línea.
// vatRate suele ser DefaultAssumedVATRate.
func ExplicitBase(amount, vatRate decimal.Decimal) decimal.Decimal {
	return round2(amount.Div(decimal.NewFromInt(1).Add(vatRate)))
}

// PerceptionBase base de una percepción IIBB sobre factura: el monto no
// gravado completo, o su proporción cuando la imputación no cubre el total.
func PerceptionBase(untaxed, total, settled decimal.Decimal) decimal.Decimal {
	if total.IsZero() || settled.IsZero() || settled.GreaterThanOrEqual(total) {
		return round2(untaxed)
	}
	return round2(untaxed.Mul(settled).Div(total))
}
