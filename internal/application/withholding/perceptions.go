package withholding

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/tu-usuario/retencion-ar/internal/application/dto"
	"github.com/tu-usuario/retencion-ar/internal/domain"
	"github.com/tu-usuario/retencion-ar/internal/domain/entity"
	"github.com/tu-usuario/retencion-ar/internal/domain/tax"
)

// CalculateInvoicePerceptions calcula las percepciones IIBB de una factura de
// venta en borrador: filtra los regímenes por jurisdicción y condición del
// cliente, toma el neto gravado como base y reemplaza las líneas draft de la
// factura. Las percepciones no acumulan por período: cada factura se percibe
// por sí sola.
func (uc *UseCase) CalculateInvoicePerceptions(ctx context.Context, companyID, invoiceID string) ([]dto.WithholdingResponse, error) {
	var out []dto.WithholdingResponse

	err := uc.tx.Run(ctx, func(r Repos) error {
		invoice, err := r.Invoices.GetByID(invoiceID)
		if err != nil {
			return err
		}
		if invoice == nil || invoice.CompanyID != companyID {
			return domain.ErrNotFound
		}
		if invoice.Type != entity.InvoiceTypeOut {
			return fmt.Errorf("%w: las percepciones se calculan sobre facturas de venta", domain.ErrInvalidInput)
		}
		if invoice.State != entity.InvoiceStateDraft {
			return fmt.Errorf("%w: la factura no está en borrador", domain.ErrConflict)
		}

		company, err := r.Companies.GetByID(companyID)
		if err != nil {
			return err
		}
		if company == nil {
			return domain.ErrNotFound
		}
		party, err := r.Parties.GetByID(invoice.PartyID)
		if err != nil {
			return err
		}
		if party == nil {
			return domain.ErrNotFound
		}

		companyIIBB, err := r.Regimes.ListByCompanyAndTax(companyID, entity.TaxIIBB, entity.RegimeKindEfectuada)
		if err != nil {
			return err
		}
		regimes, overrides, err := tax.ApplicablePerceptionRegimes(company, companyIIBB, party)
		if err != nil {
			return err
		}

		base := tax.PerceptionBase(invoice.UntaxedAmount, invoice.TotalAmount, invoice.TotalAmount)
		bases := make(map[string]tax.BaseAmounts, len(regimes))
		for _, regime := range regimes {
			bases[regime.ID] = tax.BaseAmounts{PaymentAmount: base}
		}

		lines, err := tax.Calculate(tax.Input{
			Date:       invoice.EffectiveTaxDate(),
			Kind:       entity.LineKindPercepcion,
			Regimes:    regimes,
			Standing:   standingOf(party),
			Overrides:  overrides,
			Exemptions: party.Exemptions,
			Bases:      bases,
		})
		if err != nil {
			return err
		}

		if err := r.Withholdings.DeleteDraftByInvoice(invoiceID); err != nil {
			return err
		}
		now := time.Now()
		out = make([]dto.WithholdingResponse, 0, len(lines))
		for i := range lines {
			w := lines[i]
			w.ID = uuid.New().String()
			w.CompanyID = companyID
			w.InvoiceID = invoiceID
			w.PartyID = party.ID
			w.CreatedAt = now
			w.UpdatedAt = now
			if err := r.Withholdings.Create(&w); err != nil {
				return err
			}
			out = append(out, toWithholdingResponse(&w))
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	uc.log.Info().
		Str("invoice_id", invoiceID).
		Int("lines", len(out)).
		Msg("percepciones recalculadas")
	return out, nil
}
