package tax_test

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tu-usuario/retencion-ar/internal/domain"
	"github.com/tu-usuario/retencion-ar/internal/domain/entity"
	"github.com/tu-usuario/retencion-ar/internal/domain/tax"
)

// ──────────────────────────────────────────────────────────────────────────────
// Helpers
// ──────────────────────────────────────────────────────────────────────────────

var testDate = time.Date(2024, 3, 15, 0, 0, 0, 0, time.UTC)

func dec(s string) decimal.Decimal { return decimal.RequireFromString(s) }

// flatRegime régimen de Ganancias con alícuota plana.
func flatRegime(id, minNonTaxable, minWithholdable, rateReg, rateNonReg string) *entity.Regime {
	return &entity.Regime{
		ID:                  id,
		Name:                "Ganancias " + id,
		Kind:                entity.RegimeKindEfectuada,
		Tax:                 entity.TaxGanancias,
		MinimumNonTaxable:   dec(minNonTaxable),
		MinimumWithholdable: dec(minWithholdable),
		RateRegistered:      dec(rateReg),
		RateNonRegistered:   dec(rateNonReg),
	}
}

func inscripto() tax.PartyStanding {
	return tax.PartyStanding{Ganancias: entity.GananciasInscripto}
}

// ──────────────────────────────────────────────────────────────────────────────
// Escenarios de referencia
// ──────────────────────────────────────────────────────────────────────────────

// Escenario A: mínimo no imponible 1000, alícuota inscripto 10%, base 1500
// sin acumulado previo -> imponible 500, calculado 50.00, neto 50.00.
func TestCalculate_EscenarioA_SinAcumulado(t *testing.T) {
	regime := flatRegime("gana-1", "1000", "0", "10", "20")

	lines, err := tax.Calculate(tax.Input{
		Date:     testDate,
		Kind:     entity.LineKindRetencion,
		Regimes:  []*entity.Regime{regime},
		Standing: inscripto(),
		Bases: map[string]tax.BaseAmounts{
			"gana-1": {PaymentAmount: dec("1500")},
		},
	})
	require.NoError(t, err)
	require.Len(t, lines, 1)

	line := lines[0]
	assert.True(t, dec("1500").Equal(line.AccumulatedAmount), "acumulado: %s", line.AccumulatedAmount)
	assert.True(t, dec("500").Equal(line.TaxableAmount), "imponible: %s", line.TaxableAmount)
	assert.True(t, dec("10").Equal(line.Rate))
	assert.Equal(t, "50", line.ComputedAmount.String())
	assert.Equal(t, "50", line.Amount.String())
	assert.Equal(t, entity.WithholdingStateDraft, line.State)
}

// Escenario B: acumulado previo 800 con 80.00 ya retenidos; nueva base 300.
// Acumulado 1100, imponible 100, calculado 10.00, neto = 10.00 - 80.00 = -70.00.
// El neto negativo se produce tal cual, sin piso en cero.
func TestCalculate_EscenarioB_NetoNegativo(t *testing.T) {
	regime := flatRegime("gana-1", "1000", "0", "10", "20")

	lines, err := tax.Calculate(tax.Input{
		Date:     testDate,
		Kind:     entity.LineKindRetencion,
		Regimes:  []*entity.Regime{regime},
		Standing: inscripto(),
		Bases: map[string]tax.BaseAmounts{
			"gana-1": {
				PaymentAmount:       dec("300"),
				AccumulatedPrior:    dec("800"),
				AccumulatedWithheld: dec("80.00"),
			},
		},
	})
	require.NoError(t, err)
	require.Len(t, lines, 1)

	line := lines[0]
	assert.Equal(t, "1100", line.AccumulatedAmount.String())
	assert.Equal(t, "100", line.TaxableAmount.String())
	assert.Equal(t, "10", line.ComputedAmount.String())
	assert.Equal(t, "-70", line.Amount.String())
}

// Escenario C: base por debajo del mínimo no imponible -> sin línea.
func TestCalculate_EscenarioC_DebajoDelMinimo(t *testing.T) {
	regime := flatRegime("gana-1", "1000", "0", "10", "20")

	lines, err := tax.Calculate(tax.Input{
		Date:     testDate,
		Kind:     entity.LineKindRetencion,
		Regimes:  []*entity.Regime{regime},
		Standing: inscripto(),
		Bases: map[string]tax.BaseAmounts{
			"gana-1": {PaymentAmount: dec("999.99")},
		},
	})
	require.NoError(t, err)
	assert.Empty(t, lines)
}

// Escenario D: exención vigente sobre el único régimen aplicable -> sin
// línea, por más que la base supere todos los umbrales.
func TestCalculate_EscenarioD_ExencionVigente(t *testing.T) {
	regime := flatRegime("gana-1", "1000", "0", "10", "20")

	lines, err := tax.Calculate(tax.Input{
		Date:     testDate,
		Kind:     entity.LineKindRetencion,
		Regimes:  []*entity.Regime{regime},
		Standing: inscripto(),
		Exemptions: []entity.PartyExemption{
			{Kind: entity.ExemptionKindRetencion, RegimeID: "gana-1", EndDate: testDate.AddDate(0, 6, 0)},
		},
		Bases: map[string]tax.BaseAmounts{
			"gana-1": {PaymentAmount: dec("50000")},
		},
	})
	require.NoError(t, err)
	assert.Empty(t, lines)
}

// Exención vencida: no filtra.
func TestCalculate_ExencionVencidaNoFiltra(t *testing.T) {
	regime := flatRegime("gana-1", "1000", "0", "10", "20")

	lines, err := tax.Calculate(tax.Input{
		Date:     testDate,
		Kind:     entity.LineKindRetencion,
		Regimes:  []*entity.Regime{regime},
		Standing: inscripto(),
		Exemptions: []entity.PartyExemption{
			{Kind: entity.ExemptionKindRetencion, RegimeID: "gana-1", EndDate: testDate.AddDate(0, 0, -1)},
		},
		Bases: map[string]tax.BaseAmounts{
			"gana-1": {PaymentAmount: dec("1500")},
		},
	})
	require.NoError(t, err)
	assert.Len(t, lines, 1)
}

// ──────────────────────────────────────────────────────────────────────────────
// Gating y errores
// ──────────────────────────────────────────────────────────────────────────────

// Calculado por debajo del mínimo de retención -> sin línea.
func TestCalculate_MinimoRetenibleSuprime(t *testing.T) {
	regime := flatRegime("gana-1", "1000", "60", "10", "20")

	lines, err := tax.Calculate(tax.Input{
		Date:     testDate,
		Kind:     entity.LineKindRetencion,
		Regimes:  []*entity.Regime{regime},
		Standing: inscripto(),
		Bases: map[string]tax.BaseAmounts{
			// imponible 500 al 10% = 50.00 < 60 de mínimo
			"gana-1": {PaymentAmount: dec("1500")},
		},
	})
	require.NoError(t, err)
	assert.Empty(t, lines)
}

// Base imputable cero: el régimen no aparece en Bases y no produce línea.
func TestCalculate_SinBaseNoProduceLinea(t *testing.T) {
	regime := flatRegime("gana-1", "0", "0", "10", "20")

	lines, err := tax.Calculate(tax.Input{
		Date:     testDate,
		Kind:     entity.LineKindRetencion,
		Regimes:  []*entity.Regime{regime},
		Standing: inscripto(),
		Bases:    map[string]tax.BaseAmounts{},
	})
	require.NoError(t, err)
	assert.Empty(t, lines)
}

// Tercero sin condición de Ganancias cargada -> error fatal, sin líneas.
func TestCalculate_SinCondicionFiscal_Error(t *testing.T) {
	regime := flatRegime("gana-1", "0", "0", "10", "20")

	_, err := tax.Calculate(tax.Input{
		Date:     testDate,
		Kind:     entity.LineKindRetencion,
		Regimes:  []*entity.Regime{regime},
		Standing: tax.PartyStanding{}, // sin condición
		Bases: map[string]tax.BaseAmounts{
			"gana-1": {PaymentAmount: dec("1500")},
		},
	})
	assert.ErrorIs(t, err, domain.ErrMissingPartyClassification)
}

// Alícuota resuelta cero (no inscripto con alícuota no-inscripto 0) -> sin línea.
func TestCalculate_AlicuotaCeroSuprime(t *testing.T) {
	regime := flatRegime("gana-1", "0", "0", "10", "0")

	lines, err := tax.Calculate(tax.Input{
		Date:     testDate,
		Kind:     entity.LineKindRetencion,
		Regimes:  []*entity.Regime{regime},
		Standing: tax.PartyStanding{Ganancias: entity.GananciasNoInscripto},
		Bases: map[string]tax.BaseAmounts{
			"gana-1": {PaymentAmount: dec("1500")},
		},
	})
	require.NoError(t, err)
	assert.Empty(t, lines)
}

// ──────────────────────────────────────────────────────────────────────────────
// Propiedades
// ──────────────────────────────────────────────────────────────────────────────

// Idempotencia: recalcular con la misma historia produce exactamente los
// mismos montos, byte a byte.
func TestCalculate_Idempotente(t *testing.T) {
	regime := flatRegime("gana-1", "1000", "0", "10", "20")
	in := tax.Input{
		Date:     testDate,
		Kind:     entity.LineKindRetencion,
		Regimes:  []*entity.Regime{regime},
		Standing: inscripto(),
		Bases: map[string]tax.BaseAmounts{
			"gana-1": {
				PaymentAmount:       dec("1234.56"),
				AccumulatedPrior:    dec("789.01"),
				AccumulatedWithheld: dec("12.34"),
			},
		},
	}

	first, err := tax.Calculate(in)
	require.NoError(t, err)
	second, err := tax.Calculate(in)
	require.NoError(t, err)
	require.Len(t, first, 1)
	require.Len(t, second, 1)

	assert.Equal(t, first[0].Amount.String(), second[0].Amount.String())
	assert.Equal(t, first[0].ComputedAmount.String(), second[0].ComputedAmount.String())
	assert.Equal(t, first[0].TaxableAmount.String(), second[0].TaxableAmount.String())
	assert.Equal(t, first[0].AccumulatedAmount.String(), second[0].AccumulatedAmount.String())
}

// Monotonía: con alícuota plana, subir la base con el resto fijo nunca baja
// el monto calculado.
func TestCalculate_MonotoniaEnBase(t *testing.T) {
	regime := flatRegime("gana-1", "1000", "0", "10", "20")

	previous := decimal.Zero
	for _, base := range []string{"1100", "1500", "2000", "10000", "99999.99"} {
		lines, err := tax.Calculate(tax.Input{
			Date:     testDate,
			Kind:     entity.LineKindRetencion,
			Regimes:  []*entity.Regime{regime},
			Standing: inscripto(),
			Bases: map[string]tax.BaseAmounts{
				"gana-1": {PaymentAmount: dec(base)},
			},
		})
		require.NoError(t, err)
		require.Len(t, lines, 1, "base %s", base)
		assert.True(t, lines[0].ComputedAmount.GreaterThanOrEqual(previous),
			"calculado no debe bajar al subir la base (%s)", base)
		previous = lines[0].ComputedAmount
	}
}

// ──────────────────────────────────────────────────────────────────────────────
// Escalas y redondeo
// ──────────────────────────────────────────────────────────────────────────────

// Escala: el tramo define alícuota, mínimo propio y monto fijo aditivo.
func TestCalculate_EscalaConMontoFijo(t *testing.T) {
	regime := &entity.Regime{
		ID:   "gana-esc",
		Kind: entity.RegimeKindEfectuada,
		Tax:  entity.TaxGanancias,
		Scales: []entity.ScaleTier{
			{StartAmount: dec("0"), EndAmount: dec("1000"), Rate: dec("5"), FixedAmount: dec("0"), MinimumNonTaxable: dec("0")},
			{StartAmount: dec("1000.01"), EndAmount: dec("5000"), Rate: dec("10"), FixedAmount: dec("50"), MinimumNonTaxable: dec("1000")},
		},
	}

	lines, err := tax.Calculate(tax.Input{
		Date:     testDate,
		Kind:     entity.LineKindRetencion,
		Regimes:  []*entity.Regime{regime},
		Standing: inscripto(),
		Bases: map[string]tax.BaseAmounts{
			// acumulado 3000 -> tramo 2: imponible 3000-1000=2000, 10% = 200 + 50 fijo
			"gana-esc": {PaymentAmount: dec("3000")},
		},
	})
	require.NoError(t, err)
	require.Len(t, lines, 1)

	line := lines[0]
	assert.Equal(t, "10", line.Rate.String())
	assert.Equal(t, "1000", line.MinimumNonTaxable.String())
	assert.Equal(t, "2000", line.TaxableAmount.String())
	assert.Equal(t, "50", line.ScaleFixedAmount.String())
	assert.Equal(t, "250", line.ComputedAmount.String())
}

// Escala sin tramo coincidente: alícuota cero, sin línea.
func TestCalculate_EscalaSinTramo(t *testing.T) {
	regime := &entity.Regime{
		ID:   "gana-esc",
		Kind: entity.RegimeKindEfectuada,
		Tax:  entity.TaxGanancias,
		Scales: []entity.ScaleTier{
			{StartAmount: dec("0"), EndAmount: dec("1000"), Rate: dec("5")},
		},
	}

	lines, err := tax.Calculate(tax.Input{
		Date:     testDate,
		Kind:     entity.LineKindRetencion,
		Regimes:  []*entity.Regime{regime},
		Standing: inscripto(),
		Bases: map[string]tax.BaseAmounts{
			"gana-esc": {PaymentAmount: dec("5000")}, // fuera de todo tramo
		},
	})
	require.NoError(t, err)
	assert.Empty(t, lines)
}

// La cuantización es a 2 decimales, mitad hacia arriba, en la multiplicación.
func TestCalculate_RedondeoEnCalculado(t *testing.T) {
	regime := flatRegime("gana-1", "0", "0", "3", "3")

	lines, err := tax.Calculate(tax.Input{
		Date:     testDate,
		Kind:     entity.LineKindRetencion,
		Regimes:  []*entity.Regime{regime},
		Standing: inscripto(),
		Bases: map[string]tax.BaseAmounts{
			// 333.35 * 3% = 10.0005 -> 10.00; 333.50 * 3% = 10.005 -> 10.01
			"gana-1": {PaymentAmount: dec("333.50")},
		},
	})
	require.NoError(t, err)
	require.Len(t, lines, 1)
	assert.Equal(t, "10.01", lines[0].ComputedAmount.String())
}

// Alícuota pactada del tercero prevalece sobre las planas del régimen.
func TestCalculate_AlicuotaPactada(t *testing.T) {
	regime := flatRegime("gana-1", "0", "0", "10", "20")

	lines, err := tax.Calculate(tax.Input{
		Date:     testDate,
		Kind:     entity.LineKindRetencion,
		Regimes:  []*entity.Regime{regime},
		Standing: inscripto(),
		Overrides: map[string]decimal.Decimal{
			"gana-1": dec("2.5"),
		},
		Bases: map[string]tax.BaseAmounts{
			"gana-1": {PaymentAmount: dec("1000")},
		},
	})
	require.NoError(t, err)
	require.Len(t, lines, 1)
	assert.Equal(t, "2.5", lines[0].Rate.String())
	assert.Equal(t, "25", lines[0].ComputedAmount.String())
}
