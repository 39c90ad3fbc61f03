package sicore_test

import (
	"strings"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tu-usuario/retencion-ar/internal/domain/entity"
	"github.com/tu-usuario/retencion-ar/internal/domain/sicore"
)

func dec(s string) decimal.Decimal { return decimal.RequireFromString(s) }

func sampleWithholding() *entity.Withholding {
	return &entity.Withholding{
		Number:        "0001-00000042",
		Date:          time.Date(2024, time.March, 15, 0, 0, 0, 0, time.UTC),
		PaymentAmount: dec("1500"),
		Amount:        dec("50"),
	}
}

func sampleRegime() *entity.Regime {
	return &entity.Regime{
		Tax:        entity.TaxGanancias,
		RegimeCode: 78,
	}
}

func sampleParty() *entity.Party {
	return &entity.Party{
		CUIT:               "30500010912",
		DocumentTypeCode:   80,
		GananciasCondition: entity.GananciasInscripto,
	}
}

func sampleSource() *sicore.Source {
	return &sicore.Source{
		Code:   sicore.SourceCodePaymentOrder,
		Date:   time.Date(2024, time.March, 10, 0, 0, 0, 0, time.UTC),
		Number: "OP 0001-00000010",
		Amount: dec("1500"),
	}
}

// ── formato de ancho fijo ──────────────────────────────────────────────────

func TestFormat_AnchoFijo(t *testing.T) {
	text, ok, message := sicore.Format(sampleWithholding(), sampleRegime(), sampleParty(), sampleSource(), false)

	require.True(t, ok)
	assert.Empty(t, message)

	expected := "06" + // código de comprobante
		"10/03/2024" + // fecha del comprobante
		"OP 0001-00000010" + // número del comprobante (16)
		"0000000001500,00" + // importe del comprobante (13 enteras)
		"0217" + // código de impuesto
		"078" + // código de régimen
		"1" + // código de operación
		"00000001500,00" + // base de cálculo (11 enteras)
		"15/03/2024" + // fecha de la retención
		"01" + // condición: inscripto
		"0" + // retención a sujetos suspendidos
		"00000000050,00" + // importe retenido
		"000,00" + // porcentaje de exclusión
		"00/00/0000" + // fecha de vigencia
		"80" + // tipo de documento
		"30-50001091-2       " + // número de documento (20)
		"00000000000000" + // número de certificado
		"\r\n"
	assert.Equal(t, expected, text)
}

func TestFormat_CSV(t *testing.T) {
	text, ok, _ := sicore.Format(sampleWithholding(), sampleRegime(), sampleParty(), sampleSource(), true)

	require.True(t, ok)
	fields := strings.Split(strings.TrimSuffix(text, "\r\n"), ";")
	require.Len(t, fields, 17)
	assert.Equal(t, "06", fields[0])
	assert.Equal(t, "0217", fields[4])
	assert.Equal(t, "078", fields[5])
	assert.Equal(t, "00000000050,00", fields[11])
	assert.True(t, strings.HasSuffix(text, "\r\n"))
}

// ── retención sin comprobante de origen ────────────────────────────────────

func TestFormat_SinComprobanteSeQuita(t *testing.T) {
	text, ok, message := sicore.Format(sampleWithholding(), sampleRegime(), sampleParty(), nil, false)

	assert.False(t, ok)
	assert.Empty(t, text)
	assert.Equal(t,
		"ERROR: la retención 0001-00000042 no tiene un comprobante asociado. Fue quitada del listado.",
		message)
}

// ── códigos de impuesto y condición ────────────────────────────────────────

func TestFormat_CodigosDeImpuesto(t *testing.T) {
	cases := []struct {
		tax  string
		code string
	}{
		{entity.TaxGanancias, "0217"},
		{entity.TaxBienes, "0219"},
		{entity.TaxIVA, "0767"},
	}
	for _, tc := range cases {
		regime := sampleRegime()
		regime.Tax = tc.tax
		text, ok, _ := sicore.Format(sampleWithholding(), regime, sampleParty(), sampleSource(), true)
		require.True(t, ok)
		assert.Equal(t, tc.code, strings.Split(text, ";")[4], "familia %s", tc.tax)
	}
}

func TestFormat_CondicionDelRetenido(t *testing.T) {
	t.Run("ganancias no inscripto", func(t *testing.T) {
		party := sampleParty()
		party.GananciasCondition = entity.GananciasNoInscripto
		text, _, _ := sicore.Format(sampleWithholding(), sampleRegime(), party, sampleSource(), true)
		assert.Equal(t, "02", strings.Split(text, ";")[9])
	})

	t.Run("iva responsable inscripto", func(t *testing.T) {
		regime := sampleRegime()
		regime.Tax = entity.TaxIVA
		party := sampleParty()
		party.IVACondition = entity.IVAResponsableInscripto
		text, _, _ := sicore.Format(sampleWithholding(), regime, party, sampleSource(), true)
		assert.Equal(t, "01", strings.Split(text, ";")[9])
	})

	t.Run("bienes personales", func(t *testing.T) {
		regime := sampleRegime()
		regime.Tax = entity.TaxBienes
		party := sampleParty()
		party.BienesInscripto = true
		text, _, _ := sicore.Format(sampleWithholding(), regime, party, sampleSource(), true)
		assert.Equal(t, "01", strings.Split(text, ";")[9])
	})
}

// ── documento del retenido ─────────────────────────────────────────────────

func TestFormat_CUITInvalidoPasaSinFormatear(t *testing.T) {
	party := sampleParty()
	party.CUIT = "20111111113"

	text, ok, _ := sicore.Format(sampleWithholding(), sampleRegime(), party, sampleSource(), true)
	require.True(t, ok)
	assert.Equal(t, "20111111113         ", strings.Split(text, ";")[15])
}

func TestFormat_FacturaComoOrigen(t *testing.T) {
	source := sampleSource()
	source.Code = sicore.SourceCodeInvoice
	source.Number = "FA-A 0003-00001234"

	text, ok, _ := sicore.Format(sampleWithholding(), sampleRegime(), sampleParty(), source, true)
	require.True(t, ok)
	fields := strings.Split(text, ";")
	assert.Equal(t, "01", fields[0])
	assert.Equal(t, "FA-A 0003-000012", fields[2], "se trunca a 16 caracteres")
}
