package tax

import (
	"github.com/shopspring/decimal"
	"github.com/tu-usuario/retencion-ar/internal/domain/entity"
)

// Resolution resultado de resolver la alícuota efectiva de un régimen.
// TierNonTaxable y TierFixed solo se cargan cuando resolvió por escala.
type Resolution struct {
	Rate           decimal.Decimal
	TierNonTaxable decimal.Decimal
	TierFixed      decimal.Decimal
}

// ResolveRate resuelve la alícuota aplicable para un régimen dado el
// acumulado previo y la base de la operación actual.
//
// Si el régimen tiene escala, se recorre en orden ascendente de StartAmount y
// gana el primer tramo cuyo rango [start, end] contiene el monto imponible;
// sin tramo coincidente la alícuota es cero (suprime la retención aguas
// abajo). Sin escala, la alícuota pactada del tercero prevalece si está
// cargada y no es cero; si no, se elige la plana según inscripto/no inscripto.
func ResolveRate(regime *entity.Regime, overrideRate decimal.Decimal, registered bool, priorBase, currentBase decimal.Decimal) Resolution {
	if regime.HasScales() {
		taxable := priorBase.Add(currentBase).Sub(regime.MinimumNonTaxable)
		for _, tier := range regime.Scales {
			if taxable.GreaterThanOrEqual(tier.StartAmount) && taxable.LessThanOrEqual(tier.EndAmount) {
				return Resolution{
					Rate:           tier.Rate,
					TierNonTaxable: tier.MinimumNonTaxable,
					TierFixed:      tier.FixedAmount,
				}
			}
		}
		return Resolution{}
	}
	if !overrideRate.IsZero() {
		return Resolution{Rate: overrideRate}
	}
	if registered {
		return Resolution{Rate: regime.RateRegistered}
	}
	return Resolution{Rate: regime.RateNonRegistered}
}
