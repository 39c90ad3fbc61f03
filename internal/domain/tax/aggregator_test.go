package tax_test

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tu-usuario/retencion-ar/internal/domain/tax"
)

func dateYMD(year int, month time.Month, day int) time.Time {
	return time.Date(year, month, day, 0, 0, 0, 0, time.UTC)
}

// Prorrateo: cada aporte = round2(linea * imputado / total_factura).
func TestContributions_ProrrateoPorLineaYFactura(t *testing.T) {
	allocs := []tax.Allocation{
		{
			Settled:      dec("605"), // paga la mitad de la factura
			InvoiceTotal: dec("1210"),
			Lines: []tax.AllocationLine{
				{Amount: dec("1000"), RegimeID: "gana-1"},
			},
		},
	}

	out := tax.Contributions(allocs, "")
	require.Contains(t, out, "gana-1")
	assert.Equal(t, "500", out["gana-1"].String())
}

// El redondeo es por aporte, antes de sumar: el error se acumula aditivamente.
func TestContributions_RedondeoPorAporte(t *testing.T) {
	allocs := []tax.Allocation{
		{
			Settled:      dec("100"),
			InvoiceTotal: dec("300"),
			Lines: []tax.AllocationLine{
				// cada línea aporta 33.333... -> 33.33 redondeado por aporte
				{Amount: dec("100"), RegimeID: "gana-1"},
				{Amount: dec("100"), RegimeID: "gana-1"},
				{Amount: dec("100"), RegimeID: "gana-1"},
			},
		},
	}

	out := tax.Contributions(allocs, "")
	// 3 x 33.33 = 99.99, no 100
	assert.Equal(t, "99.99", out["gana-1"].String())
}

// Línea sin régimen asignado usa el régimen por defecto; sin defecto, no aporta.
func TestContributions_RegimenPorDefecto(t *testing.T) {
	allocs := []tax.Allocation{
		{
			Settled:      dec("1000"),
			InvoiceTotal: dec("1000"),
			Lines: []tax.AllocationLine{
				{Amount: dec("600")},
				{Amount: dec("400"), RegimeID: "gana-esp"},
			},
		},
	}

	out := tax.Contributions(allocs, "gana-def")
	assert.Equal(t, "600", out["gana-def"].String())
	assert.Equal(t, "400", out["gana-esp"].String())

	sinDefecto := tax.Contributions(allocs, "")
	_, ok := sinDefecto["gana-def"]
	assert.False(t, ok)
	assert.Equal(t, "400", sinDefecto["gana-esp"].String())
}

// Factura con total cero no aporta (evita división por cero).
func TestContributions_FacturaTotalCero(t *testing.T) {
	allocs := []tax.Allocation{
		{Settled: dec("100"), InvoiceTotal: dec("0"), Lines: []tax.AllocationLine{{Amount: dec("100"), RegimeID: "g"}}},
	}
	assert.Empty(t, tax.Contributions(allocs, ""))
}

// AggregatePayment combina aporte actual, acumulado del período y residual.
func TestAggregatePayment_ResidualSoloAlRegimenPorDefecto(t *testing.T) {
	allocs := []tax.Allocation{
		{
			Settled:      dec("1000"),
			InvoiceTotal: dec("1000"),
			Lines: []tax.AllocationLine{
				{Amount: dec("1000")}, // régimen por defecto
			},
		},
	}
	snap := tax.PeriodSnapshot{
		Contributions: map[string]decimal.Decimal{"gana-def": dec("800"), "gana-otro": dec("300")},
		Withheld:      map[string]decimal.Decimal{"gana-def": dec("80")},
		// 121 de residual / 1.21 = 100 de base, solo al régimen por defecto
		Residual: dec("121"),
	}

	out := tax.AggregatePayment(allocs, "gana-def", snap, tax.DefaultAssumedVATRate)
	require.Contains(t, out, "gana-def")

	base := out["gana-def"]
	assert.Equal(t, "1000", base.PaymentAmount.String())
	assert.Equal(t, "900", base.AccumulatedPrior.String(), "800 previos + 100 de residual")
	assert.Equal(t, "80", base.AccumulatedWithheld.String())

	// gana-otro no tiene aporte actual: no aparece (sin línea, ni en cero)
	_, ok := out["gana-otro"]
	assert.False(t, ok)
}

// Modo explícito: importe global / (1 + IVA), sin prorrateo.
func TestExplicitBase(t *testing.T) {
	base := tax.ExplicitBase(dec("1210"), tax.DefaultAssumedVATRate)
	assert.Equal(t, "1000", base.String())

	// IVA distinto al asumido
	base = tax.ExplicitBase(dec("1105"), dec("0.105"))
	assert.Equal(t, "1000", base.String())
}

// Base de percepción: no gravado completo, o proporción si el pago es parcial.
func TestPerceptionBase(t *testing.T) {
	// imputación cubre el total -> no gravado completo
	base := tax.PerceptionBase(dec("1000"), dec("1210"), dec("1210"))
	assert.Equal(t, "1000", base.String())

	// imputación parcial -> proporción
	base = tax.PerceptionBase(dec("1000"), dec("1210"), dec("605"))
	assert.Equal(t, "500", base.String())

	// sin imputación informada -> no gravado completo (flujo de factura pura)
	base = tax.PerceptionBase(dec("1000"), dec("1210"), dec("0"))
	assert.Equal(t, "1000", base.String())
}

// PeriodBounds: primer y último día del mes calendario, inclusive.
func TestPeriodBounds(t *testing.T) {
	first, last := tax.PeriodBounds(testDate) // 2024-03-15
	assert.Equal(t, "2024-03-01", first.Format("2006-01-02"))
	assert.Equal(t, "2024-03-31", last.Format("2006-01-02"))

	// febrero bisiesto
	first, last = tax.PeriodBounds(dateYMD(2024, 2, 10))
	assert.Equal(t, "2024-02-01", first.Format("2006-01-02"))
	assert.Equal(t, "2024-02-29", last.Format("2006-01-02"))
}
