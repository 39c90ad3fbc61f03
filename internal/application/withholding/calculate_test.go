package withholding_test

import (
	"context"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tu-usuario/retencion-ar/internal/application/dto"
	"github.com/tu-usuario/retencion-ar/internal/application/withholding"
	"github.com/tu-usuario/retencion-ar/internal/domain/entity"
	"github.com/tu-usuario/retencion-ar/internal/domain/tax"
	"github.com/tu-usuario/retencion-ar/internal/infrastructure/memory"
	"github.com/tu-usuario/retencion-ar/pkg/logger"
)

// ──────────────────────────────────────────────────────────────────────────────
// Fixture: empresa agente de Ganancias, régimen plano 10% sin mínimos, un
// proveedor inscripto y una factura de 1210 (1000 neto + IVA).
// ──────────────────────────────────────────────────────────────────────────────

func dec(s string) decimal.Decimal { return decimal.RequireFromString(s) }

const (
	coID     = "co-1"
	partyID  = "prov-1"
	regimeID = "gana-10"
)

func newFixture(t *testing.T) (*memory.Store, *withholding.UseCase) {
	t.Helper()
	store := memory.NewStore()
	repos := store.Repos()

	require.NoError(t, repos.Companies.Create(&entity.Company{
		ID:                        coID,
		Name:                      "Agente SA",
		CUIT:                      "30500010912",
		GananciasWithholdingAgent: true,
		GananciasRegimeID:         regimeID,
		Status:                    "active",
	}))
	require.NoError(t, repos.Regimes.Create(&entity.Regime{
		ID:             regimeID,
		CompanyID:      coID,
		Name:           "Ganancias bienes",
		Kind:           entity.RegimeKindEfectuada,
		Tax:            entity.TaxGanancias,
		RegimeCode:     217,
		RateRegistered: dec("10"),
	}))
	store.PutSequence(&entity.RegimeSequence{
		ID:         "seq-1",
		RegimeID:   regimeID,
		CompanyID:  coID,
		Prefix:     "RET-",
		NextNumber: 1,
		Padding:    8,
	})
	require.NoError(t, repos.Parties.Create(&entity.Party{
		ID:                 partyID,
		CompanyID:          coID,
		Name:               "Proveedor SRL",
		CUIT:               "30714295698",
		GananciasCondition: entity.GananciasInscripto,
		IVACondition:       entity.IVAResponsableInscripto,
		GananciasRegimeID:  regimeID,
	}))

	log := logger.New(logger.Config{Env: "development", Level: "error"})
	uc := withholding.NewUseCase(repos, store.Runner(), log, tax.DefaultAssumedVATRate)
	return store, uc
}

func seedInvoiceAndVoucher(t *testing.T, store *memory.Store, invoiceID, voucherID string, total, untaxed string, date time.Time) {
	t.Helper()
	repos := store.Repos()
	require.NoError(t, repos.Invoices.Create(&entity.Invoice{
		ID:            invoiceID,
		CompanyID:     coID,
		PartyID:       partyID,
		Type:          "in",
		Number:        "0001-" + invoiceID,
		Date:          date,
		TaxDate:       date,
		State:         "posted",
		TotalAmount:   dec(total),
		UntaxedAmount: dec(untaxed),
		Lines: []entity.InvoiceLine{
			{ID: invoiceID + "-l1", InvoiceID: invoiceID, Description: "servicios", Amount: dec(untaxed)},
		},
	}))
	require.NoError(t, repos.Vouchers.Create(&entity.Voucher{
		ID:          voucherID,
		CompanyID:   coID,
		PartyID:     partyID,
		VoucherType: entity.VoucherTypePayment,
		State:       entity.VoucherStateDraft,
		Date:        date,
		Amount:      dec(total),
		PayAmount:   dec(total),
		Lines: []entity.VoucherLine{
			{ID: voucherID + "-l1", VoucherID: voucherID, InvoiceID: invoiceID, Amount: dec(total)},
		},
	}))
}

// ──────────────────────────────────────────────────────────────────────────────
// El total del comprobante incorpora las retenciones calculadas
// ──────────────────────────────────────────────────────────────────────────────

func TestCalculateVoucher_ActualizaTotalDelComprobante(t *testing.T) {
	store, uc := newFixture(t)
	date := time.Date(2026, 3, 10, 0, 0, 0, 0, time.UTC)
	seedInvoiceAndVoucher(t, store, "fc-1", "op-1", "1210", "1000", date)

	lines, err := uc.CalculateVoucher(context.Background(), coID, "op-1", dto.CalculateVoucherRequest{})
	require.NoError(t, err)
	require.Len(t, lines, 1)
	assert.True(t, dec("100").Equal(lines[0].Amount), "retención = 10%% de 1000, fue %s", lines[0].Amount)

	voucher, err := store.Repos().Vouchers.GetByID("op-1")
	require.NoError(t, err)
	assert.True(t, dec("1210").Equal(voucher.PayAmount), "lo imputado no cambia")
	assert.True(t, dec("1310").Equal(voucher.Amount),
		"el total debe sumar la retención adjunta: esperaba 1310, fue %s", voucher.Amount)
}

func TestCalculateVoucher_RecalculoReemplazaTotal(t *testing.T) {
	store, uc := newFixture(t)
	date := time.Date(2026, 3, 10, 0, 0, 0, 0, time.UTC)
	seedInvoiceAndVoucher(t, store, "fc-1", "op-1", "1210", "1000", date)

	_, err := uc.CalculateVoucher(context.Background(), coID, "op-1", dto.CalculateVoucherRequest{})
	require.NoError(t, err)
	_, err = uc.CalculateVoucher(context.Background(), coID, "op-1", dto.CalculateVoucherRequest{})
	require.NoError(t, err)

	voucher, err := store.Repos().Vouchers.GetByID("op-1")
	require.NoError(t, err)
	assert.True(t, dec("1310").Equal(voucher.Amount),
		"recalcular no debe duplicar la retención en el total, fue %s", voucher.Amount)
}

// ──────────────────────────────────────────────────────────────────────────────
// El residual total-imputado de un comprobante contabilizado alimenta la
// acumulación del período del comprobante siguiente
// ──────────────────────────────────────────────────────────────────────────────

func TestCalculateVoucher_ResidualAcumulaEnElPeriodo(t *testing.T) {
	store, uc := newFixture(t)
	ctx := context.Background()

	first := time.Date(2026, 3, 10, 0, 0, 0, 0, time.UTC)
	seedInvoiceAndVoucher(t, store, "fc-1", "op-1", "1210", "1000", first)
	_, err := uc.CalculateVoucher(ctx, coID, "op-1", dto.CalculateVoucherRequest{})
	require.NoError(t, err)
	require.NoError(t, uc.PostVoucher(ctx, coID, "op-1", dto.PostVoucherRequest{}))

	second := time.Date(2026, 3, 20, 0, 0, 0, 0, time.UTC)
	seedInvoiceAndVoucher(t, store, "fc-2", "op-2", "605", "500", second)
	lines, err := uc.CalculateVoucher(ctx, coID, "op-2", dto.CalculateVoucherRequest{})
	require.NoError(t, err)
	require.Len(t, lines, 1)

	// Aporte previo 1000 + residual 100/1.21 = 1082.64; más los 500 de esta
	// operación: acumulado 1582.64, calculado 158.26, neto 158.26 - 100.
	w := lines[0]
	assert.True(t, dec("1582.64").Equal(w.AccumulatedAmount),
		"acumulado debe incluir el residual del comprobante previo, fue %s", w.AccumulatedAmount)
	assert.True(t, dec("100").Equal(w.AccumulatedWithheld), "ya retenido fue %s", w.AccumulatedWithheld)
	assert.True(t, dec("58.26").Equal(w.Amount), "neto fue %s", w.Amount)
}

// ──────────────────────────────────────────────────────────────────────────────
// Retenciones sufridas cargadas a mano sobre recibos
// ──────────────────────────────────────────────────────────────────────────────

func seedReceipt(t *testing.T, store *memory.Store, voucherID string, date time.Time) {
	t.Helper()
	repos := store.Repos()
	require.NoError(t, repos.Regimes.Create(&entity.Regime{
		ID:             "gana-suf",
		CompanyID:      coID,
		Name:           "Ganancias sufrida",
		Kind:           entity.RegimeKindSoportada,
		Tax:            entity.TaxGanancias,
		RateRegistered: dec("2"),
	}))
	require.NoError(t, repos.Vouchers.Create(&entity.Voucher{
		ID:          voucherID,
		CompanyID:   coID,
		PartyID:     partyID,
		VoucherType: entity.VoucherTypeReceipt,
		State:       entity.VoucherStateDraft,
		Date:        date,
		Amount:      dec("5000"),
		PayAmount:   dec("5000"),
	}))
}

func TestAddManualLine_SumaAlTotalDelRecibo(t *testing.T) {
	store, uc := newFixture(t)
	date := time.Date(2026, 3, 12, 0, 0, 0, 0, time.UTC)
	seedReceipt(t, store, "rec-1", date)

	line, err := uc.AddManualLine(context.Background(), coID, "rec-1", dto.AddManualWithholdingRequest{
		RegimeID: "gana-suf",
		Number:   "RET-CLI-000123",
		Amount:   dec("250"),
	})
	require.NoError(t, err)
	require.NotNil(t, line)

	voucher, err := store.Repos().Vouchers.GetByID("rec-1")
	require.NoError(t, err)
	assert.True(t, dec("5250").Equal(voucher.Amount),
		"el recibo debe sumar la retención sufrida, fue %s", voucher.Amount)
}

func TestDeleteLine_RestauraElTotalDelComprobante(t *testing.T) {
	store, uc := newFixture(t)
	ctx := context.Background()
	date := time.Date(2026, 3, 12, 0, 0, 0, 0, time.UTC)
	seedReceipt(t, store, "rec-1", date)

	line, err := uc.AddManualLine(ctx, coID, "rec-1", dto.AddManualWithholdingRequest{
		RegimeID: "gana-suf",
		Amount:   dec("250"),
	})
	require.NoError(t, err)
	require.NoError(t, uc.DeleteLine(ctx, coID, line.ID))

	voucher, err := store.Repos().Vouchers.GetByID("rec-1")
	require.NoError(t, err)
	assert.True(t, dec("5000").Equal(voucher.Amount),
		"borrar la línea debe devolver el total a lo imputado, fue %s", voucher.Amount)
}
