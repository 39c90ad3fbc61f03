package afip_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tu-usuario/retencion-ar/pkg/afip"
)

func TestValidateCUIT_Validos(t *testing.T) {
	cases := []string{
		"30500010912",    // CUIT societario clásico
		"30-50001091-2",  // con guiones
		"30.50001091.2",  // con puntos
		"20111111112",
	}
	for _, c := range cases {
		assert.NoError(t, afip.ValidateCUIT(c), "CUIT %s debe ser válido", c)
	}
}

func TestValidateCUIT_DigitoIncorrecto(t *testing.T) {
	err := afip.ValidateCUIT("20111111113")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "dígito verificador")
}

func TestValidateCUIT_LargoIncorrecto(t *testing.T) {
	assert.Error(t, afip.ValidateCUIT("123456"))
	assert.Error(t, afip.ValidateCUIT(""))
	assert.Error(t, afip.ValidateCUIT("205536168211")) // 12 dígitos
}

// Bases cuyo resto módulo 11 es 1 no admiten verificador (sería 10).
func TestValidateCUIT_BaseSinVerificadorPosible(t *testing.T) {
	assert.Error(t, afip.ValidateCUIT("20111111189"))
}

func TestComputeCUITCheckDigit(t *testing.T) {
	d, err := afip.ComputeCUITCheckDigit("3050001091")
	require.NoError(t, err)
	assert.Equal(t, byte('2'), d)
}

func TestFormatCUIT(t *testing.T) {
	formatted, ok := afip.FormatCUIT("30500010912")
	require.True(t, ok)
	assert.Equal(t, "30-50001091-2", formatted)

	// Inválido: pasa sin formatear, ok=false (el export SICORE no aborta)
	raw, ok := afip.FormatCUIT("20111111113")
	assert.False(t, ok)
	assert.Equal(t, "20111111113", raw)
}
