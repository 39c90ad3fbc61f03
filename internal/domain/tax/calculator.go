package tax

import (
	"time"

	"github.com/shopspring/decimal"
	"github.com/tu-usuario/retencion-ar/internal/domain"
	"github.com/tu-usuario/retencion-ar/internal/domain/entity"
)

// PartyStanding condición fiscal del tercero por familia de impuesto.
type PartyStanding struct {
	Ganancias string // in | ni | vacío
	IVA       string // responsable_inscripto, exento, ...
	IIBB      string // in | cm | ex | rs | na | cs | vacío
}

// RegisteredFor indica si el tercero cuenta como inscripto para la familia.
// Para Ganancias e IIBB la condición es obligatoria: si falta, el cálculo
// falla con ErrMissingPartyClassification.
func (s PartyStanding) RegisteredFor(taxFamily string) (bool, error) {
	switch taxFamily {
	case entity.TaxGanancias:
		if s.Ganancias == "" {
			return false, domain.ErrMissingPartyClassification
		}
		return s.Ganancias == entity.GananciasInscripto, nil
	case entity.TaxIIBB:
		if s.IIBB == "" {
			return false, domain.ErrMissingPartyClassification
		}
		return s.IIBB == entity.IIBBInscripto || s.IIBB == entity.IIBBConvenio, nil
	case entity.TaxIVA:
		return s.IVA == entity.IVAResponsableInscripto, nil
	default:
		return false, nil
	}
}

// Input entrada del cálculo para una operación (pago o factura).
type Input struct {
	Date       time.Time
	Kind       string // entity.LineKindRetencion | entity.LineKindPercepcion
	Regimes    []*entity.Regime
	Standing   PartyStanding
	Overrides  map[string]decimal.Decimal // alícuota pactada por régimen (0 = sin pactar)
	Exemptions []entity.PartyExemption
	Bases      map[string]BaseAmounts // salida del agregador, por régimen
}

// Calculate corre el algoritmo completo por régimen sobreviviente al filtro
// de exenciones:
//
//  1. acumulado = acumulado_previo + base_de_la_operación
//  2. acumulado < mínimo no imponible      -> sin línea
//  3. imponible = acumulado - mínimo (el del tramo si resolvió por escala)
//  4. alícuota cero                        -> sin línea
//  5. calculado = round2(imponible * alícuota / 100) [+ fijo del tramo]
//  6. calculado < mínimo de retención      -> sin línea
//  7. neto = calculado - ya_retenido (sin piso: puede ser negativo o cero,
//     se persiste tal cual)
//  8. línea con la traza completa del cómputo
func Calculate(in Input) ([]entity.Withholding, error) {
	exemptionKind := entity.ExemptionKindRetencion
	if in.Kind == entity.LineKindPercepcion {
		exemptionKind = entity.ExemptionKindPercepcion
	}
	regimes := FilterExempt(in.Regimes, exemptionKind, in.Exemptions, in.Date)

	var lines []entity.Withholding
	for _, regime := range regimes {
		base, ok := in.Bases[regime.ID]
		if !ok || base.PaymentAmount.IsZero() {
			continue
		}
		registered, err := in.Standing.RegisteredFor(regime.Tax)
		if err != nil {
			return nil, err
		}

		accumulated := round2(base.AccumulatedPrior.Add(base.PaymentAmount))
		if accumulated.LessThan(regime.MinimumNonTaxable) {
			continue
		}

		var override decimal.Decimal
		if in.Overrides != nil {
			override = in.Overrides[regime.ID]
		}
		resolution := ResolveRate(regime, override, registered, base.AccumulatedPrior, base.PaymentAmount)
		if resolution.Rate.IsZero() {
			continue
		}

		// El tramo de escala puede traer su propio mínimo no imponible.
		minimumNonTaxable := regime.MinimumNonTaxable
		if regime.HasScales() && !resolution.TierNonTaxable.IsZero() {
			minimumNonTaxable = resolution.TierNonTaxable
		}
		taxable := accumulated.Sub(minimumNonTaxable)

		computed := round2(taxable.Mul(resolution.Rate).Div(hundred))
		if regime.HasScales() {
			computed = round2(computed.Add(resolution.TierFixed))
		}
		if computed.LessThan(regime.MinimumWithholdable) {
			continue
		}

		// Neto sin piso en cero: descuenta lo ya retenido en el período.
		amount := computed.Sub(base.AccumulatedWithheld)

		lines = append(lines, entity.Withholding{
			RegimeID:            regime.ID,
			Kind:                in.Kind,
			Date:                in.Date,
			State:               entity.WithholdingStateDraft,
			PaymentAmount:       base.PaymentAmount,
			AccumulatedAmount:   accumulated,
			MinimumNonTaxable:   minimumNonTaxable,
			TaxableAmount:       taxable,
			Rate:                resolution.Rate,
			ScaleFixedAmount:    resolution.TierFixed,
			ComputedAmount:      computed,
			MinimumWithholdable: regime.MinimumWithholdable,
			AccumulatedWithheld: base.AccumulatedWithheld,
			Amount:              amount,
		})
	}
	return lines, nil
}
