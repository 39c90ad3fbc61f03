package withholding

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/tu-usuario/retencion-ar/internal/application/dto"
	"github.com/tu-usuario/retencion-ar/internal/domain"
	"github.com/tu-usuario/retencion-ar/internal/domain/entity"
)

func toInvoiceResponse(inv *entity.Invoice, perceptions []*entity.Withholding) *dto.InvoiceResponse {
	out := &dto.InvoiceResponse{
		ID:            inv.ID,
		CompanyID:     inv.CompanyID,
		PartyID:       inv.PartyID,
		Type:          inv.Type,
		Number:        inv.Number,
		Date:          inv.Date.Format(time.DateOnly),
		State:         inv.State,
		TotalAmount:   inv.TotalAmount,
		UntaxedAmount: inv.UntaxedAmount,
	}
	if !inv.TaxDate.IsZero() {
		out.TaxDate = inv.TaxDate.Format(time.DateOnly)
	}
	for _, l := range inv.Lines {
		out.Lines = append(out.Lines, dto.InvoiceLineResponse{
			ID:                l.ID,
			ProductID:         l.ProductID,
			Description:       l.Description,
			Amount:            l.Amount,
			GananciasRegimeID: l.GananciasRegimeID,
		})
	}
	for _, w := range perceptions {
		out.Perceptions = append(out.Perceptions, toWithholdingResponse(w))
	}
	return out
}

// CreateInvoice registra una factura en borrador.
func (uc *UseCase) CreateInvoice(companyID string, in dto.CreateInvoiceRequest) (*dto.InvoiceResponse, error) {
	if in.Type != entity.InvoiceTypeIn && in.Type != entity.InvoiceTypeOut {
		return nil, fmt.Errorf("%w: type debe ser in u out", domain.ErrInvalidInput)
	}
	date, err := time.Parse(time.DateOnly, in.Date)
	if err != nil {
		return nil, fmt.Errorf("%w: date inválida, se espera YYYY-MM-DD", domain.ErrInvalidInput)
	}
	var taxDate time.Time
	if in.TaxDate != "" {
		taxDate, err = time.Parse(time.DateOnly, in.TaxDate)
		if err != nil {
			return nil, fmt.Errorf("%w: tax_date inválida, se espera YYYY-MM-DD", domain.ErrInvalidInput)
		}
	}
	party, err := uc.repos.Parties.GetByID(in.PartyID)
	if err != nil {
		return nil, err
	}
	if party == nil || party.CompanyID != companyID {
		return nil, fmt.Errorf("%w: el tercero no existe", domain.ErrInvalidInput)
	}
	now := time.Now()
	invoice := &entity.Invoice{
		ID:            uuid.New().String(),
		CompanyID:     companyID,
		PartyID:       in.PartyID,
		Type:          in.Type,
		Number:        in.Number,
		Date:          date,
		TaxDate:       taxDate,
		State:         entity.InvoiceStateDraft,
		TotalAmount:   in.TotalAmount,
		UntaxedAmount: in.UntaxedAmount,
		CreatedAt:     now,
		UpdatedAt:     now,
	}
	for _, l := range in.Lines {
		invoice.Lines = append(invoice.Lines, entity.InvoiceLine{
			ID:                uuid.New().String(),
			InvoiceID:         invoice.ID,
			ProductID:         l.ProductID,
			Description:       l.Description,
			Amount:            l.Amount,
			GananciasRegimeID: l.GananciasRegimeID,
		})
	}
	if err := uc.repos.Invoices.Create(invoice); err != nil {
		return nil, err
	}
	return toInvoiceResponse(invoice, nil), nil
}

// GetInvoice obtiene una factura con sus percepciones, acotada a la empresa.
func (uc *UseCase) GetInvoice(companyID, id string) (*dto.InvoiceResponse, error) {
	invoice, err := uc.repos.Invoices.GetByID(id)
	if err != nil {
		return nil, err
	}
	if invoice == nil || invoice.CompanyID != companyID {
		return nil, nil
	}
	perceptions, err := uc.repos.Withholdings.ListByInvoice(id)
	if err != nil {
		return nil, err
	}
	return toInvoiceResponse(invoice, perceptions), nil
}

// ListInvoices lista facturas por empresa con paginación.
func (uc *UseCase) ListInvoices(companyID string, limit, offset int) ([]dto.InvoiceResponse, error) {
	list, err := uc.repos.Invoices.ListByCompany(companyID, limit, offset)
	if err != nil {
		return nil, err
	}
	items := make([]dto.InvoiceResponse, 0, len(list))
	for _, inv := range list {
		items = append(items, *toInvoiceResponse(inv, nil))
	}
	return items, nil
}

// DeleteInvoice elimina una factura en borrador y sus percepciones calculadas.
func (uc *UseCase) DeleteInvoice(ctx context.Context, companyID, id string) error {
	return uc.tx.Run(ctx, func(r Repos) error {
		invoice, err := r.Invoices.GetByID(id)
		if err != nil {
			return err
		}
		if invoice == nil || invoice.CompanyID != companyID {
			return domain.ErrNotFound
		}
		if invoice.State != entity.InvoiceStateDraft {
			return fmt.Errorf("%w: sólo se elimina una factura en borrador", domain.ErrConflict)
		}
		if err := r.Withholdings.DeleteDraftByInvoice(id); err != nil {
			return err
		}
		return r.Invoices.Delete(id)
	})
}
