package tax_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tu-usuario/retencion-ar/internal/domain"
	"github.com/tu-usuario/retencion-ar/internal/domain/entity"
	"github.com/tu-usuario/retencion-ar/internal/domain/tax"
)

func iibbRegime(id, subdivision string) *entity.Regime {
	return &entity.Regime{
		ID:                id,
		Kind:              entity.RegimeKindEfectuada,
		Tax:               entity.TaxIIBB,
		Subdivision:       subdivision,
		RateRegistered:    dec("3"),
		RateNonRegistered: dec("5"),
	}
}

func perceptionCompany() *entity.Company {
	return &entity.Company{
		ID:                  "co-1",
		Subdivision:         "AR-B", // Buenos Aires
		IIBBPerceptionAgent: true,
	}
}

func inscriptoParty() *entity.Party {
	return &entity.Party{
		ID:            "p-1",
		IIBBCondition: entity.IIBBInscripto,
		IVACondition:  entity.IVAResponsableInscripto,
	}
}

func TestApplicablePerception_NoAgente(t *testing.T) {
	company := perceptionCompany()
	company.IIBBPerceptionAgent = false

	regimes, overrides, err := tax.ApplicablePerceptionRegimes(company, []*entity.Regime{iibbRegime("r1", "AR-B")}, inscriptoParty())
	require.NoError(t, err)
	assert.Empty(t, regimes)
	assert.Empty(t, overrides)
}

func TestApplicablePerception_SinCondicionIIBB_Error(t *testing.T) {
	party := inscriptoParty()
	party.IIBBCondition = ""

	_, _, err := tax.ApplicablePerceptionRegimes(perceptionCompany(), []*entity.Regime{iibbRegime("r1", "AR-B")}, party)
	assert.ErrorIs(t, err, domain.ErrMissingPartyClassification)
}

func TestApplicablePerception_CondicionesExcluidas(t *testing.T) {
	for _, condition := range []string{entity.IIBBExento, entity.IIBBSimplificado, entity.IIBBNoAlcanzado, entity.IIBBConvenioSujet} {
		party := inscriptoParty()
		party.IIBBCondition = condition

		regimes, _, err := tax.ApplicablePerceptionRegimes(perceptionCompany(), []*entity.Regime{iibbRegime("r1", "AR-B")}, party)
		require.NoError(t, err, "condición %s", condition)
		assert.Empty(t, regimes, "condición %s no debe generar regímenes", condition)
	}
}

func TestApplicablePerception_SoloRIyExentoDeIVA(t *testing.T) {
	party := inscriptoParty()
	party.IVACondition = entity.IVAMonotributo

	regimes, _, err := tax.ApplicablePerceptionRegimes(perceptionCompany(), []*entity.Regime{iibbRegime("r1", "AR-B")}, party)
	require.NoError(t, err)
	assert.Empty(t, regimes)
}

func TestApplicablePerception_SinJurisdiccionEmpresa_Error(t *testing.T) {
	company := perceptionCompany()
	company.Subdivision = ""

	_, _, err := tax.ApplicablePerceptionRegimes(company, []*entity.Regime{iibbRegime("r1", "AR-B")}, inscriptoParty())
	assert.ErrorIs(t, err, domain.ErrMissingCompanyJurisdiction)
}

func TestApplicablePerception_FiltraPorJurisdiccion(t *testing.T) {
	regimes := []*entity.Regime{
		iibbRegime("ba", "AR-B"),
		iibbRegime("cba", "AR-X"), // Córdoba: no es la sede
	}

	applicable, _, err := tax.ApplicablePerceptionRegimes(perceptionCompany(), regimes, inscriptoParty())
	require.NoError(t, err)
	require.Len(t, applicable, 1)
	assert.Equal(t, "ba", applicable[0].ID)
}

// Convenio multilateral: suma las jurisdicciones declaradas por el tercero.
func TestApplicablePerception_ConvenioSumaJurisdicciones(t *testing.T) {
	party := inscriptoParty()
	party.IIBBCondition = entity.IIBBConvenio
	party.IIBBRegimes = []entity.PartyIIBBRegime{
		{PerceptionRegimeID: "cba", PerceptionRate: dec("1.5")},
	}
	regimes := []*entity.Regime{
		iibbRegime("ba", "AR-B"),
		iibbRegime("cba", "AR-X"),
	}

	applicable, overrides, err := tax.ApplicablePerceptionRegimes(perceptionCompany(), regimes, party)
	require.NoError(t, err)
	require.Len(t, applicable, 2)
	assert.Equal(t, "1.5", overrides["cba"].String(), "alícuota pactada del tercero")
	_, hasBA := overrides["ba"]
	assert.False(t, hasBA)
}

func TestApplicableIIBBWithholding_MismasReglas(t *testing.T) {
	company := perceptionCompany()
	company.IIBBWithholdingAgent = true
	party := inscriptoParty()
	party.IIBBRegimes = []entity.PartyIIBBRegime{
		{WithholdingRegimeID: "ba", WithholdingRate: dec("2")},
	}

	applicable, overrides, err := tax.ApplicableIIBBWithholdingRegimes(company, []*entity.Regime{iibbRegime("ba", "AR-B")}, party)
	require.NoError(t, err)
	require.Len(t, applicable, 1)
	assert.Equal(t, "2", overrides["ba"].String())
}

func TestFilterExempt_PorIdentidadYClase(t *testing.T) {
	regimes := []*entity.Regime{iibbRegime("r1", "AR-B"), iibbRegime("r2", "AR-B")}
	exemptions := []entity.PartyExemption{
		// misma identidad pero otra clase: no filtra
		{Kind: entity.ExemptionKindPercepcion, RegimeID: "r1", EndDate: testDate.AddDate(1, 0, 0)},
		// identidad y clase correctas: filtra r2
		{Kind: entity.ExemptionKindRetencion, RegimeID: "r2", EndDate: testDate},
	}

	surviving := tax.FilterExempt(regimes, entity.ExemptionKindRetencion, exemptions, testDate)
	require.Len(t, surviving, 1)
	assert.Equal(t, "r1", surviving[0].ID)
}
