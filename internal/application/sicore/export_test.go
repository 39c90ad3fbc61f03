package sicore_test

import (
	"context"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tu-usuario/retencion-ar/internal/application/dto"
	appsicore "github.com/tu-usuario/retencion-ar/internal/application/sicore"
	"github.com/tu-usuario/retencion-ar/internal/domain"
	"github.com/tu-usuario/retencion-ar/internal/domain/entity"
	"github.com/tu-usuario/retencion-ar/internal/infrastructure/memory"
	"github.com/tu-usuario/retencion-ar/pkg/logger"
)

// ──────────────────────────────────────────────────────────────────────────────
// Fixture: un régimen de Ganancias y otro de IVA (ambos efectuada), una línea
// emitida en cada uno y una retención sufrida (held) en el mismo rango.
// ──────────────────────────────────────────────────────────────────────────────

const exportCompanyID = "co-exp"

func dec(s string) decimal.Decimal { return decimal.RequireFromString(s) }

func newExportFixture(t *testing.T) (*memory.Store, *appsicore.UseCase) {
	t.Helper()
	store := memory.NewStore()
	repos := store.Repos()

	require.NoError(t, repos.Parties.Create(&entity.Party{
		ID:                 "prov-1",
		CompanyID:          exportCompanyID,
		Name:               "Proveedor SRL",
		CUIT:               "30714295698",
		DocumentTypeCode:   80,
		GananciasCondition: entity.GananciasInscripto,
		IVACondition:       entity.IVAResponsableInscripto,
	}))
	regimes := []*entity.Regime{
		{ID: "gana-exp", CompanyID: exportCompanyID, Name: "Ganancias", Kind: entity.RegimeKindEfectuada, Tax: entity.TaxGanancias, RegimeCode: 78},
		{ID: "iva-exp", CompanyID: exportCompanyID, Name: "IVA", Kind: entity.RegimeKindEfectuada, Tax: entity.TaxIVA, RegimeCode: 767},
		{ID: "gana-suf", CompanyID: exportCompanyID, Name: "Ganancias sufrida", Kind: entity.RegimeKindSoportada, Tax: entity.TaxGanancias, RegimeCode: 78},
	}
	for _, g := range regimes {
		require.NoError(t, repos.Regimes.Create(g))
	}
	require.NoError(t, repos.Vouchers.Create(&entity.Voucher{
		ID:          "op-1",
		CompanyID:   exportCompanyID,
		PartyID:     "prov-1",
		Number:      "OP-0001",
		VoucherType: entity.VoucherTypePayment,
		State:       entity.VoucherStatePosted,
		Date:        time.Date(2026, 3, 5, 0, 0, 0, 0, time.UTC),
		Amount:      dec("1310"),
		PayAmount:   dec("1210"),
	}))

	lines := []*entity.Withholding{
		{ID: "w-gana", CompanyID: exportCompanyID, VoucherID: "op-1", PartyID: "prov-1",
			RegimeID: "gana-exp", Kind: entity.LineKindRetencion, Number: "RET-00000001",
			Date:  time.Date(2026, 3, 5, 0, 0, 0, 0, time.UTC),
			State: entity.WithholdingStateIssued, PaymentAmount: dec("1000"), Amount: dec("100")},
		{ID: "w-iva", CompanyID: exportCompanyID, VoucherID: "op-1", PartyID: "prov-1",
			RegimeID: "iva-exp", Kind: entity.LineKindRetencion, Number: "RET-00000002",
			Date:  time.Date(2026, 3, 6, 0, 0, 0, 0, time.UTC),
			State: entity.WithholdingStateIssued, PaymentAmount: dec("1000"), Amount: dec("30")},
		// Sufrida: certificada por otro agente, nunca va al archivo propio
		{ID: "w-suf", CompanyID: exportCompanyID, VoucherID: "op-1", PartyID: "prov-1",
			RegimeID: "gana-suf", Kind: entity.LineKindRetencion, Number: "RET-CLI-000777",
			Date:  time.Date(2026, 3, 7, 0, 0, 0, 0, time.UTC),
			State: entity.WithholdingStateHeld, PaymentAmount: dec("500"), Amount: dec("10")},
	}
	for _, w := range lines {
		require.NoError(t, repos.Withholdings.Create(w))
	}

	log := logger.New(logger.Config{Env: "development", Level: "error"})
	return store, appsicore.NewUseCase(repos, log)
}

// ──────────────────────────────────────────────────────────────────────────────
// Qué líneas entran al archivo
// ──────────────────────────────────────────────────────────────────────────────

func TestExport_SoloLineasEmitidas(t *testing.T) {
	_, uc := newExportFixture(t)

	out, err := uc.Export(context.Background(), exportCompanyID, dto.SICOREExportRequest{
		From: "2026-03-01",
		To:   "2026-03-31",
	})
	require.NoError(t, err)

	assert.Equal(t, 2, out.Lines, "solo las dos retenciones emitidas se informan")
	content := string(out.Content)
	assert.Contains(t, content, "0217", "código de impuesto Ganancias")
	assert.Contains(t, content, "0767", "código de impuesto IVA")
	assert.NotContains(t, content, "00000000010,00",
		"el importe de la retención sufrida no va al archivo del propio agente")
	assert.Empty(t, out.Skipped)
	assert.Equal(t, "SICORE_20260301-20260331.txt", out.Filename)
}

func TestExport_FiltraPorRegimenesElegidos(t *testing.T) {
	_, uc := newExportFixture(t)

	out, err := uc.Export(context.Background(), exportCompanyID, dto.SICOREExportRequest{
		From:      "2026-03-01",
		To:        "2026-03-31",
		RegimeIDs: []string{"gana-exp"},
	})
	require.NoError(t, err)

	assert.Equal(t, 1, out.Lines)
	content := string(out.Content)
	assert.Contains(t, content, "0217")
	assert.NotContains(t, content, "0767",
		"las retenciones de regímenes fuera del conjunto elegido quedan afuera")
}

func TestExport_RegimenElegidoInvalido(t *testing.T) {
	_, uc := newExportFixture(t)
	ctx := context.Background()

	_, err := uc.Export(ctx, exportCompanyID, dto.SICOREExportRequest{
		From: "2026-03-01", To: "2026-03-31", RegimeIDs: []string{"no-existe"},
	})
	assert.ErrorIs(t, err, domain.ErrNotFound)

	_, err = uc.Export(ctx, exportCompanyID, dto.SICOREExportRequest{
		From: "2026-03-01", To: "2026-03-31", RegimeIDs: []string{"gana-suf"},
	})
	assert.ErrorIs(t, err, domain.ErrInvalidInput,
		"un régimen soportado no puede elegirse para el archivo propio")
}

func TestExport_LineaSinComprobanteSeQuitaConDiagnostico(t *testing.T) {
	store, uc := newExportFixture(t)
	require.NoError(t, store.Repos().Withholdings.Create(&entity.Withholding{
		ID: "w-huerfana", CompanyID: exportCompanyID, PartyID: "prov-1",
		RegimeID: "gana-exp", Kind: entity.LineKindRetencion, Number: "RET-00000099",
		Date:  time.Date(2026, 3, 8, 0, 0, 0, 0, time.UTC),
		State: entity.WithholdingStateIssued, PaymentAmount: dec("200"), Amount: dec("20"),
	}))

	out, err := uc.Export(context.Background(), exportCompanyID, dto.SICOREExportRequest{
		From: "2026-03-01",
		To:   "2026-03-31",
	})
	require.NoError(t, err)

	assert.Equal(t, 2, out.Lines)
	require.Len(t, out.Skipped, 1)
	assert.Contains(t, out.Skipped[0], "RET-00000099")
	assert.NotContains(t, string(out.Content), "00000000020,00",
		"el importe de la línea huérfana no va al archivo")
}
