package withholding

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/tu-usuario/retencion-ar/internal/application/dto"
	"github.com/tu-usuario/retencion-ar/internal/domain"
	"github.com/tu-usuario/retencion-ar/internal/domain/entity"
	"github.com/tu-usuario/retencion-ar/internal/domain/repository"
	"github.com/tu-usuario/retencion-ar/internal/domain/tax"
)

// CalculateVoucher recalcula las retenciones de una orden de pago en
// borrador: arma la foto del período, prorratea las imputaciones, corre el
// motor y reemplaza las líneas draft del comprobante. Si req.ExplicitBase va
// cargado, la base del régimen de Ganancias por defecto es ese importe neto
// de IVA asumido, sin prorrateo.
func (uc *UseCase) CalculateVoucher(ctx context.Context, companyID, voucherID string, req dto.CalculateVoucherRequest) ([]dto.WithholdingResponse, error) {
	var out []dto.WithholdingResponse

	err := uc.tx.Run(ctx, func(r Repos) error {
		voucher, err := r.Vouchers.GetByID(voucherID)
		if err != nil {
			return err
		}
		if voucher == nil || voucher.CompanyID != companyID {
			return domain.ErrNotFound
		}
		if voucher.State != entity.VoucherStateDraft {
			return fmt.Errorf("%w: solo se calculan comprobantes en borrador", domain.ErrConflict)
		}
		if voucher.VoucherType != entity.VoucherTypePayment {
			return fmt.Errorf("%w: las retenciones se calculan sobre órdenes de pago", domain.ErrInvalidInput)
		}

		company, err := r.Companies.GetByID(companyID)
		if err != nil {
			return err
		}
		if company == nil {
			return domain.ErrNotFound
		}
		party, err := r.Parties.GetByID(voucher.PartyID)
		if err != nil {
			return err
		}
		if party == nil {
			return domain.ErrNotFound
		}

		defaultRegimeID := party.GananciasRegimeID
		if defaultRegimeID == "" {
			defaultRegimeID = company.GananciasRegimeID
		}

		from, to := tax.PeriodBounds(voucher.Date)
		snap, sums, err := uc.periodSnapshot(r, companyID, party.ID, voucherID, defaultRegimeID, from, to)
		if err != nil {
			return err
		}

		allocs, err := buildAllocations(r, voucher.Lines)
		if err != nil {
			return err
		}

		var bases map[string]tax.BaseAmounts
		if !req.ExplicitBase.IsZero() {
			if defaultRegimeID == "" {
				return fmt.Errorf("%w: no hay régimen de Ganancias por defecto", domain.ErrInvalidInput)
			}
			residual := decimal.Zero
			if !snap.Residual.IsZero() {
				residual = tax.ExplicitBase(snap.Residual, uc.vatRate)
			}
			bases = map[string]tax.BaseAmounts{
				defaultRegimeID: {
					PaymentAmount:       tax.ExplicitBase(req.ExplicitBase, uc.vatRate),
					AccumulatedPrior:    snap.Contributions[defaultRegimeID].Add(residual),
					AccumulatedWithheld: snap.Withheld[defaultRegimeID],
				},
			}
		} else {
			bases = tax.AggregatePayment(allocs, defaultRegimeID, snap, uc.vatRate)
		}

		regimes, overrides, err := uc.candidateRegimes(r, company, party, bases)
		if err != nil {
			return err
		}

		// Bases IIBB e IVA: importe de pago bruto por jurisdicción y neto de
		// IVA para el régimen de IVA, con acumulados desde las líneas emitidas.
		payTotal := voucher.AllocatedTotal()
		if payTotal.IsZero() {
			payTotal = voucher.PayAmount
		}
		for _, regime := range regimes {
			switch regime.Tax {
			case entity.TaxIIBB:
				bases[regime.ID] = tax.BaseAmounts{
					PaymentAmount:       tax.Round2(payTotal),
					AccumulatedPrior:    sums[regime.ID].Base,
					AccumulatedWithheld: sums[regime.ID].Amount,
				}
			case entity.TaxIVA:
				bases[regime.ID] = tax.BaseAmounts{
					PaymentAmount:       tax.ExplicitBase(payTotal, uc.vatRate),
					AccumulatedPrior:    sums[regime.ID].Base,
					AccumulatedWithheld: sums[regime.ID].Amount,
				}
			}
		}

		lines, err := tax.Calculate(tax.Input{
			Date:       voucher.Date,
			Kind:       entity.LineKindRetencion,
			Regimes:    regimes,
			Standing:   standingOf(party),
			Overrides:  overrides,
			Exemptions: party.Exemptions,
			Bases:      bases,
		})
		if err != nil {
			return err
		}

		if err := r.Withholdings.DeleteDraftByVoucher(voucherID); err != nil {
			return err
		}
		now := time.Now()
		out = make([]dto.WithholdingResponse, 0, len(lines))
		for i := range lines {
			w := lines[i]
			w.ID = uuid.New().String()
			w.CompanyID = companyID
			w.VoucherID = voucherID
			w.PartyID = party.ID
			w.CreatedAt = now
			w.UpdatedAt = now
			if err := r.Withholdings.Create(&w); err != nil {
				return err
			}
			out = append(out, toWithholdingResponse(&w))
		}
		return refreshVoucherAmount(r, voucher, now)
	})
	if err != nil {
		return nil, err
	}

	uc.log.Info().
		Str("voucher_id", voucherID).
		Int("lines", len(out)).
		Msg("retenciones recalculadas")
	return out, nil
}

// refreshVoucherAmount recalcula el total del comprobante: lo imputado a
// facturas más las retenciones adjuntas vigentes. El residual total-imputado
// de los comprobantes contabilizados sale de este total; si no se mantiene,
// la acumulación del período nunca ve las retenciones previas.
func refreshVoucherAmount(r Repos, voucher *entity.Voucher, now time.Time) error {
	lines, err := r.Withholdings.ListByVoucher(voucher.ID)
	if err != nil {
		return err
	}
	total := voucher.PayAmount
	for _, w := range lines {
		if w.State == entity.WithholdingStateCancelled {
			continue
		}
		total = total.Add(w.Amount)
	}
	voucher.Amount = tax.Round2(total)
	voucher.UpdatedAt = now
	return r.Vouchers.Update(voucher)
}

// candidateRegimes reúne los regímenes alcanzados: los de Ganancias referidos
// por las bases prorrateadas, los de IIBB según jurisdicción y el de IVA del
// tercero si lo tiene asignado.
func (uc *UseCase) candidateRegimes(r Repos, company *entity.Company, party *entity.Party, bases map[string]tax.BaseAmounts) ([]*entity.Regime, map[string]decimal.Decimal, error) {
	var regimes []*entity.Regime
	overrides := make(map[string]decimal.Decimal)

	if company.GananciasWithholdingAgent {
		for regimeID := range bases {
			regime, err := r.Regimes.GetByID(regimeID)
			if err != nil {
				return nil, nil, err
			}
			if regime == nil {
				return nil, nil, fmt.Errorf("%w: régimen %s", domain.ErrNotFound, regimeID)
			}
			regimes = append(regimes, regime)
		}
	}

	companyIIBB, err := r.Regimes.ListByCompanyAndTax(company.ID, entity.TaxIIBB, entity.RegimeKindEfectuada)
	if err != nil {
		return nil, nil, err
	}
	iibbRegimes, iibbOverrides, err := tax.ApplicableIIBBWithholdingRegimes(company, companyIIBB, party)
	if err != nil {
		return nil, nil, err
	}
	regimes = append(regimes, iibbRegimes...)
	for id, rate := range iibbOverrides {
		overrides[id] = rate
	}

	if party.IVARegimeID != "" {
		regime, err := r.Regimes.GetByID(party.IVARegimeID)
		if err != nil {
			return nil, nil, err
		}
		if regime != nil {
			regimes = append(regimes, regime)
		}
	}
	return regimes, overrides, nil
}

// periodSnapshot arma la foto del mes calendario: aportes de base de los
// comprobantes contabilizados previos, residual total-imputado, y acumulados
// de las líneas ya emitidas por régimen.
func (uc *UseCase) periodSnapshot(r Repos, companyID, partyID, excludeVoucherID, defaultRegimeID string, from, to time.Time) (tax.PeriodSnapshot, map[string]repository.SumResult, error) {
	snap := tax.PeriodSnapshot{
		Contributions: make(map[string]decimal.Decimal),
		Withheld:      make(map[string]decimal.Decimal),
	}

	posted, err := r.Vouchers.ListPostedByPartyAndPeriod(companyID, partyID, entity.VoucherTypePayment, from, to)
	if err != nil {
		return snap, nil, err
	}
	for _, v := range posted {
		if v.ID == excludeVoucherID {
			continue
		}
		allocs, err := buildAllocations(r, v.Lines)
		if err != nil {
			return snap, nil, err
		}
		for regimeID, amount := range tax.Contributions(allocs, defaultRegimeID) {
			snap.Contributions[regimeID] = snap.Contributions[regimeID].Add(amount)
		}
		snap.Residual = snap.Residual.Add(v.Amount.Sub(v.PayAmount))
	}

	sums, err := r.Withholdings.SumIssuedByPartyPeriodRegime(companyID, partyID, from, to, excludeVoucherID)
	if err != nil {
		return snap, nil, err
	}
	for regimeID, sum := range sums {
		snap.Withheld[regimeID] = sum.Amount
	}
	return snap, sums, nil
}

// buildAllocations traduce las líneas de imputación del comprobante a las
// asignaciones que consume el prorrateo, con los datos de cada factura.
func buildAllocations(r Repos, lines []entity.VoucherLine) ([]tax.Allocation, error) {
	if len(lines) == 0 {
		return nil, nil
	}
	ids := make([]string, 0, len(lines))
	for _, l := range lines {
		ids = append(ids, l.InvoiceID)
	}
	invoices, err := r.Invoices.GetByIDs(ids)
	if err != nil {
		return nil, err
	}

	allocs := make([]tax.Allocation, 0, len(lines))
	for _, l := range lines {
		invoice, ok := invoices[l.InvoiceID]
		if !ok || invoice == nil {
			return nil, fmt.Errorf("%w: factura %s", domain.ErrNotFound, l.InvoiceID)
		}
		alloc := tax.Allocation{
			Settled:        l.Amount,
			InvoiceTotal:   invoice.TotalAmount,
			InvoiceUntaxed: invoice.UntaxedAmount,
		}
		for _, il := range invoice.Lines {
			alloc.Lines = append(alloc.Lines, tax.AllocationLine{
				Amount:   il.Amount,
				RegimeID: il.GananciasRegimeID,
			})
		}
		allocs = append(allocs, alloc)
	}
	return allocs, nil
}

func standingOf(party *entity.Party) tax.PartyStanding {
	return tax.PartyStanding{
		Ganancias: party.GananciasCondition,
		IVA:       party.IVACondition,
		IIBB:      party.IIBBCondition,
	}
}
