package tax_test

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/tu-usuario/retencion-ar/internal/domain/entity"
	"github.com/tu-usuario/retencion-ar/internal/domain/tax"
)

func TestResolveRate_PlanaInscriptoVsNoInscripto(t *testing.T) {
	regime := flatRegime("g", "0", "0", "6", "28")

	res := tax.ResolveRate(regime, decimal.Zero, true, decimal.Zero, dec("1000"))
	assert.Equal(t, "6", res.Rate.String(), "inscripto usa la alícuota registrada")

	res = tax.ResolveRate(regime, decimal.Zero, false, decimal.Zero, dec("1000"))
	assert.Equal(t, "28", res.Rate.String(), "no inscripto usa la alícuota no registrada")
}

func TestResolveRate_PactadaPrevalece(t *testing.T) {
	regime := flatRegime("g", "0", "0", "6", "28")

	res := tax.ResolveRate(regime, dec("1.75"), true, decimal.Zero, dec("1000"))
	assert.Equal(t, "1.75", res.Rate.String())
	assert.True(t, res.TierNonTaxable.IsZero())
	assert.True(t, res.TierFixed.IsZero())
}

func TestResolveRate_PactadaCeroNoPrevalece(t *testing.T) {
	regime := flatRegime("g", "0", "0", "6", "28")

	res := tax.ResolveRate(regime, decimal.Zero, true, decimal.Zero, dec("1000"))
	assert.Equal(t, "6", res.Rate.String(), "pactada en cero no pisa la del régimen")
}

func TestResolveRate_EscalaPrimerTramoCoincidenteGana(t *testing.T) {
	regime := &entity.Regime{
		ID:                "esc",
		Tax:               entity.TaxGanancias,
		MinimumNonTaxable: dec("100"),
		Scales: []entity.ScaleTier{
			{StartAmount: dec("0"), EndAmount: dec("500"), Rate: dec("5"), FixedAmount: dec("10"), MinimumNonTaxable: dec("50")},
			// tramo solapado a propósito: primer match gana
			{StartAmount: dec("400"), EndAmount: dec("1000"), Rate: dec("9"), FixedAmount: dec("20"), MinimumNonTaxable: dec("80")},
		},
	}

	// imponible para lookup = 0 + 550 - 100 = 450: dentro de ambos tramos
	res := tax.ResolveRate(regime, decimal.Zero, true, decimal.Zero, dec("550"))
	assert.Equal(t, "5", res.Rate.String())
	assert.Equal(t, "50", res.TierNonTaxable.String())
	assert.Equal(t, "10", res.TierFixed.String())
}

func TestResolveRate_EscalaLimitesInclusivos(t *testing.T) {
	regime := &entity.Regime{
		ID:  "esc",
		Tax: entity.TaxGanancias,
		Scales: []entity.ScaleTier{
			{StartAmount: dec("100"), EndAmount: dec("200"), Rate: dec("7")},
		},
	}

	// exactamente en los bordes [start, end]
	res := tax.ResolveRate(regime, decimal.Zero, true, decimal.Zero, dec("100"))
	assert.Equal(t, "7", res.Rate.String())
	res = tax.ResolveRate(regime, decimal.Zero, true, decimal.Zero, dec("200"))
	assert.Equal(t, "7", res.Rate.String())
	res = tax.ResolveRate(regime, decimal.Zero, true, decimal.Zero, dec("200.01"))
	assert.True(t, res.Rate.IsZero())
}

func TestResolveRate_EscalaSinTramoDevuelveCero(t *testing.T) {
	regime := &entity.Regime{
		ID:  "esc",
		Tax: entity.TaxGanancias,
		Scales: []entity.ScaleTier{
			{StartAmount: dec("100"), EndAmount: dec("200"), Rate: dec("7")},
		},
	}

	res := tax.ResolveRate(regime, dec("3"), true, decimal.Zero, dec("50"))
	assert.True(t, res.Rate.IsZero(), "sin tramo la alícuota es cero aunque haya pactada")
}

func TestResolveRate_EscalaUsaAcumuladoMasBase(t *testing.T) {
	regime := &entity.Regime{
		ID:                "esc",
		Tax:               entity.TaxGanancias,
		MinimumNonTaxable: dec("0"),
		Scales: []entity.ScaleTier{
			{StartAmount: dec("0"), EndAmount: dec("999.99"), Rate: dec("5")},
			{StartAmount: dec("1000"), EndAmount: dec("9999.99"), Rate: dec("10")},
		},
	}

	// 700 previo + 500 actual = 1200 cae en el segundo tramo
	res := tax.ResolveRate(regime, decimal.Zero, true, dec("700"), dec("500"))
	assert.Equal(t, "10", res.Rate.String())
}
