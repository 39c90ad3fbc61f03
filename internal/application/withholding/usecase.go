package withholding

import (
	"time"

	"github.com/shopspring/decimal"
	"github.com/tu-usuario/retencion-ar/internal/application/dto"
	"github.com/tu-usuario/retencion-ar/internal/domain"
	"github.com/tu-usuario/retencion-ar/internal/domain/entity"
	"github.com/tu-usuario/retencion-ar/internal/domain/repository"
	"github.com/tu-usuario/retencion-ar/pkg/logger"
)

// UseCase casos de uso de retenciones y percepciones: cálculo sobre
// comprobantes de pago, percepciones sobre facturas de venta, contabilización
// y cancelación con su ciclo de vida.
type UseCase struct {
	repos   Repos
	tx      TxRunner
	log     *logger.Logger
	vatRate decimal.Decimal // tasa de IVA asumida para bases con importe explícito
}

// NewUseCase construye el caso de uso. vatRate en proporción (0.21 = 21%).
func NewUseCase(repos Repos, tx TxRunner, log *logger.Logger, vatRate decimal.Decimal) *UseCase {
	return &UseCase{repos: repos, tx: tx, log: log, vatRate: vatRate}
}

func toWithholdingResponse(w *entity.Withholding) dto.WithholdingResponse {
	return dto.WithholdingResponse{
		ID:                  w.ID,
		CompanyID:           w.CompanyID,
		VoucherID:           w.VoucherID,
		InvoiceID:           w.InvoiceID,
		PartyID:             w.PartyID,
		RegimeID:            w.RegimeID,
		Kind:                w.Kind,
		Number:              w.Number,
		Date:                w.Date.Format(time.DateOnly),
		State:               w.State,
		PaymentAmount:       w.PaymentAmount,
		AccumulatedAmount:   w.AccumulatedAmount,
		MinimumNonTaxable:   w.MinimumNonTaxable,
		TaxableAmount:       w.TaxableAmount,
		Rate:                w.Rate,
		ScaleFixedAmount:    w.ScaleFixedAmount,
		ComputedAmount:      w.ComputedAmount,
		MinimumWithholdable: w.MinimumWithholdable,
		AccumulatedWithheld: w.AccumulatedWithheld,
		Amount:              w.Amount,
	}
}

func toFilter(req dto.ListWithholdingsRequest) (repository.WithholdingFilter, error) {
	filter := repository.WithholdingFilter{
		PartyID:  req.PartyID,
		RegimeID: req.RegimeID,
		State:    req.State,
		Kind:     req.Kind,
		Limit:    req.Limit,
		Offset:   req.Offset,
	}
	if req.From != "" {
		from, err := time.Parse(time.DateOnly, req.From)
		if err != nil {
			return filter, domain.ErrInvalidInput
		}
		filter.From = from
	}
	if req.To != "" {
		to, err := time.Parse(time.DateOnly, req.To)
		if err != nil {
			return filter, domain.ErrInvalidInput
		}
		filter.To = to
	}
	return filter, nil
}

// ListByVoucher devuelve las líneas calculadas de un comprobante.
func (uc *UseCase) ListByVoucher(companyID, voucherID string) ([]dto.WithholdingResponse, error) {
	lines, err := uc.repos.Withholdings.ListByVoucher(voucherID)
	if err != nil {
		return nil, err
	}
	out := make([]dto.WithholdingResponse, 0, len(lines))
	for _, w := range lines {
		if w.CompanyID != companyID {
			continue
		}
		out = append(out, toWithholdingResponse(w))
	}
	return out, nil
}

// List devuelve retenciones/percepciones de la empresa con filtros.
func (uc *UseCase) List(companyID string, req dto.ListWithholdingsRequest) ([]dto.WithholdingResponse, error) {
	req.DefaultPage()
	filter, err := toFilter(req)
	if err != nil {
		return nil, err
	}
	lines, err := uc.repos.Withholdings.ListByCompany(companyID, filter)
	if err != nil {
		return nil, err
	}
	out := make([]dto.WithholdingResponse, 0, len(lines))
	for _, w := range lines {
		out = append(out, toWithholdingResponse(w))
	}
	return out, nil
}
