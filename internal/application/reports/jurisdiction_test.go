package reports_test

import (
	"context"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tu-usuario/retencion-ar/internal/application/dto"
	"github.com/tu-usuario/retencion-ar/internal/application/reports"
	"github.com/tu-usuario/retencion-ar/internal/domain"
	"github.com/tu-usuario/retencion-ar/internal/domain/entity"
	"github.com/tu-usuario/retencion-ar/internal/infrastructure/memory"
	"github.com/tu-usuario/retencion-ar/pkg/logger"
)

// ──────────────────────────────────────────────────────────────────────────────
// Fixture: dos regímenes de IIBB en jurisdicciones distintas (901 CABA,
// 902 Buenos Aires) y líneas en varios estados repartidas entre ambas.
// ──────────────────────────────────────────────────────────────────────────────

const reportCompanyID = "co-rep"

func dec(s string) decimal.Decimal { return decimal.RequireFromString(s) }

func newReportFixture(t *testing.T) *reports.UseCase {
	t.Helper()
	store := memory.NewStore()
	repos := store.Repos()

	require.NoError(t, repos.Parties.Create(&entity.Party{
		ID:        "prov-1",
		CompanyID: reportCompanyID,
		Name:      "Distribuidora Sur SA",
		CUIT:      "30714295698",
	}))
	regimes := []*entity.Regime{
		{ID: "iibb-caba", CompanyID: reportCompanyID, Name: "IIBB CABA",
			Kind: entity.RegimeKindEfectuada, Tax: entity.TaxIIBB, Subdivision: "901"},
		{ID: "iibb-ba", CompanyID: reportCompanyID, Name: "IIBB Buenos Aires",
			Kind: entity.RegimeKindEfectuada, Tax: entity.TaxIIBB, Subdivision: "902"},
	}
	for _, g := range regimes {
		require.NoError(t, repos.Regimes.Create(g))
	}

	day := func(d int) time.Time { return time.Date(2026, 4, d, 0, 0, 0, 0, time.UTC) }
	lines := []*entity.Withholding{
		// Emitidas en CABA, mismo día con números desordenados para el orden
		{ID: "w-2", CompanyID: reportCompanyID, PartyID: "prov-1", RegimeID: "iibb-caba",
			Kind: entity.LineKindRetencion, Number: "RET-00000002", Date: day(10),
			State: entity.WithholdingStateIssued, PaymentAmount: dec("2000"), Amount: dec("40")},
		{ID: "w-1", CompanyID: reportCompanyID, PartyID: "prov-1", RegimeID: "iibb-caba",
			Kind: entity.LineKindRetencion, Number: "RET-00000001", Date: day(10),
			State: entity.WithholdingStateIssued, PaymentAmount: dec("1000"), Amount: dec("20")},
		// Percepción sufrida en CABA, fecha anterior
		{ID: "w-0", CompanyID: reportCompanyID, PartyID: "prov-1", RegimeID: "iibb-caba",
			Kind: entity.LineKindPercepcion, Number: "FC-A-0001", Date: day(3),
			State: entity.WithholdingStateHeld, PaymentAmount: dec("500"), Amount: dec("10")},
		// Otra jurisdicción: no entra al reporte de CABA
		{ID: "w-ba", CompanyID: reportCompanyID, PartyID: "prov-1", RegimeID: "iibb-ba",
			Kind: entity.LineKindRetencion, Number: "RET-00000003", Date: day(5),
			State: entity.WithholdingStateIssued, PaymentAmount: dec("9999"), Amount: dec("99")},
		// Borrador: todavía no se informa
		{ID: "w-draft", CompanyID: reportCompanyID, PartyID: "prov-1", RegimeID: "iibb-caba",
			Kind: entity.LineKindRetencion, Number: "", Date: day(12),
			State: entity.WithholdingStateDraft, PaymentAmount: dec("3000"), Amount: dec("60")},
	}
	for _, w := range lines {
		require.NoError(t, repos.Withholdings.Create(w))
	}

	log := logger.New(logger.Config{Env: "development", Level: "error"})
	return reports.NewUseCase(repos, nil, log)
}

// ──────────────────────────────────────────────────────────────────────────────
// Listado por jurisdicción
// ──────────────────────────────────────────────────────────────────────────────

func TestJurisdiction_ListaRegistroPorRegistro(t *testing.T) {
	uc := newReportFixture(t)

	out, err := uc.Jurisdiction(context.Background(), reportCompanyID, dto.JurisdictionReportRequest{
		From:        "2026-04-01",
		To:          "2026-04-30",
		Subdivision: "901",
	})
	require.NoError(t, err)

	require.Len(t, out.Rows, 3, "entran emitidas y en cartera; el borrador y las otras jurisdicciones no")

	// Orden: fecha ascendente, número de documento dentro del día
	assert.Equal(t, "FC-A-0001", out.Rows[0].Number)
	assert.Equal(t, "RET-00000001", out.Rows[1].Number)
	assert.Equal(t, "RET-00000002", out.Rows[2].Number)
	assert.Equal(t, "2026-04-03", out.Rows[0].Date)

	first := out.Rows[0]
	assert.Equal(t, entity.LineKindPercepcion, first.Kind)
	assert.Equal(t, "Distribuidora Sur SA", first.PartyName)
	assert.Equal(t, "30-71429569-8", first.PartyCUIT)
	assert.Equal(t, "IIBB CABA", first.RegimeName)
	assert.True(t, first.Base.Equal(dec("500")))
	assert.True(t, first.Amount.Equal(dec("10")))

	assert.True(t, out.BaseTotal.Equal(dec("3500")))
	assert.True(t, out.Total.Equal(dec("70")))
}

func TestJurisdiction_OtraJurisdiccion(t *testing.T) {
	uc := newReportFixture(t)

	out, err := uc.Jurisdiction(context.Background(), reportCompanyID, dto.JurisdictionReportRequest{
		From:        "2026-04-01",
		To:          "2026-04-30",
		Subdivision: "902",
	})
	require.NoError(t, err)

	require.Len(t, out.Rows, 1)
	assert.Equal(t, "RET-00000003", out.Rows[0].Number)
	assert.True(t, out.Total.Equal(dec("99")))
}

func TestJurisdiction_SinJurisdiccionEsInvalido(t *testing.T) {
	uc := newReportFixture(t)

	_, err := uc.Jurisdiction(context.Background(), reportCompanyID, dto.JurisdictionReportRequest{
		From: "2026-04-01",
		To:   "2026-04-30",
	})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}
