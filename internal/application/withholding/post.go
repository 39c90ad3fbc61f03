package withholding

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/tu-usuario/retencion-ar/internal/application/dto"
	"github.com/tu-usuario/retencion-ar/internal/domain"
	"github.com/tu-usuario/retencion-ar/internal/domain/entity"
)

// PostVoucher contabiliza el comprobante: numera cada retención en borrador
// (secuencia del régimen o número manual), sella el tercero y pasa las líneas
// a issued (pagos) o held (recibos). Falla con ErrMissingIssuanceSequence si
// una retención no puede numerarse por ninguna de las dos vías.
func (uc *UseCase) PostVoucher(ctx context.Context, companyID, voucherID string, req dto.PostVoucherRequest) error {
	err := uc.tx.Run(ctx, func(r Repos) error {
		voucher, err := r.Vouchers.GetByID(voucherID)
		if err != nil {
			return err
		}
		if voucher == nil || voucher.CompanyID != companyID {
			return domain.ErrNotFound
		}
		if voucher.State != entity.VoucherStateDraft {
			return fmt.Errorf("%w: el comprobante no está en borrador", domain.ErrConflict)
		}

		targetState := entity.WithholdingStateIssued
		if voucher.VoucherType == entity.VoucherTypeReceipt {
			targetState = entity.WithholdingStateHeld
		}

		lines, err := r.Withholdings.ListByVoucher(voucherID)
		if err != nil {
			return err
		}
		now := time.Now()
		for _, w := range lines {
			if w.State != entity.WithholdingStateDraft {
				continue
			}
			if w.Number == "" {
				if manual, ok := req.ManualNumbers[w.ID]; ok && manual != "" {
					w.Number = manual
				} else if targetState == entity.WithholdingStateIssued {
					number, err := r.Regimes.NextNumber(w.RegimeID, companyID)
					if err != nil {
						if errors.Is(err, domain.ErrNotFound) {
							return fmt.Errorf("%w: régimen %s", domain.ErrMissingIssuanceSequence, w.RegimeID)
						}
						return err
					}
					w.Number = number
				}
			}
			w.State = targetState
			w.PartyID = voucher.PartyID
			w.UpdatedAt = now
			if err := r.Withholdings.Update(w); err != nil {
				return err
			}
		}
		return r.Vouchers.UpdateState(voucherID, entity.VoucherStatePosted)
	})
	if err != nil {
		return err
	}

	uc.log.Info().
		Str("voucher_id", voucherID).
		Msg("comprobante contabilizado")
	return nil
}

// CancelVoucher revierte el comprobante. En borrador solo borra las líneas
// calculadas; contabilizado pasa las líneas a cancelled, limpia el tercero y
// blanquea el número de certificado para que la secuencia pueda reutilizarse.
func (uc *UseCase) CancelVoucher(ctx context.Context, companyID, voucherID string) error {
	err := uc.tx.Run(ctx, func(r Repos) error {
		voucher, err := r.Vouchers.GetByID(voucherID)
		if err != nil {
			return err
		}
		if voucher == nil || voucher.CompanyID != companyID {
			return domain.ErrNotFound
		}

		switch voucher.State {
		case entity.VoucherStateDraft:
			if err := r.Withholdings.DeleteDraftByVoucher(voucherID); err != nil {
				return err
			}
		case entity.VoucherStatePosted:
			lines, err := r.Withholdings.ListByVoucher(voucherID)
			if err != nil {
				return err
			}
			now := time.Now()
			for _, w := range lines {
				if w.State == entity.WithholdingStateCancelled {
					continue
				}
				if w.State == entity.WithholdingStateIssued {
					w.Number = ""
				}
				w.State = entity.WithholdingStateCancelled
				w.PartyID = ""
				w.UpdatedAt = now
				if err := r.Withholdings.Update(w); err != nil {
					return err
				}
			}
		default:
			return fmt.Errorf("%w: el comprobante ya está cancelado", domain.ErrConflict)
		}
		return r.Vouchers.UpdateState(voucherID, entity.VoucherStateCancelled)
	})
	if err != nil {
		return err
	}

	uc.log.Info().
		Str("voucher_id", voucherID).
		Msg("comprobante cancelado")
	return nil
}

// AddManualLine registra una retención sufrida sobre un recibo de cobranza
// en borrador (el cliente actuó como agente; la línea pasa a held al
// contabilizar). El certificado viene numerado por el agente.
func (uc *UseCase) AddManualLine(ctx context.Context, companyID, voucherID string, req dto.AddManualWithholdingRequest) (*dto.WithholdingResponse, error) {
	var out *dto.WithholdingResponse

	err := uc.tx.Run(ctx, func(r Repos) error {
		voucher, err := r.Vouchers.GetByID(voucherID)
		if err != nil {
			return err
		}
		if voucher == nil || voucher.CompanyID != companyID {
			return domain.ErrNotFound
		}
		if voucher.State != entity.VoucherStateDraft {
			return fmt.Errorf("%w: el comprobante no está en borrador", domain.ErrConflict)
		}
		if voucher.VoucherType != entity.VoucherTypeReceipt {
			return fmt.Errorf("%w: las retenciones sufridas se cargan sobre recibos", domain.ErrInvalidInput)
		}
		regime, err := r.Regimes.GetByID(req.RegimeID)
		if err != nil {
			return err
		}
		if regime == nil || regime.Kind != entity.RegimeKindSoportada {
			return fmt.Errorf("%w: régimen soportado inválido", domain.ErrInvalidInput)
		}
		if req.Amount.IsZero() {
			return fmt.Errorf("%w: importe requerido", domain.ErrInvalidInput)
		}

		now := time.Now()
		w := &entity.Withholding{
			ID:            uuid.New().String(),
			CompanyID:     companyID,
			VoucherID:     voucherID,
			PartyID:       voucher.PartyID,
			RegimeID:      regime.ID,
			Kind:          entity.LineKindRetencion,
			Number:        req.Number,
			Date:          voucher.Date,
			State:         entity.WithholdingStateDraft,
			PaymentAmount: req.Amount,
			Amount:        req.Amount,
			CreatedAt:     now,
			UpdatedAt:     now,
		}
		if err := r.Withholdings.Create(w); err != nil {
			return err
		}
		if err := refreshVoucherAmount(r, voucher, now); err != nil {
			return err
		}
		resp := toWithholdingResponse(w)
		out = &resp
		return nil
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

// DeleteLine borra una línea calculada. Solo las líneas en borrador pueden
// borrarse por esta vía; una línea emitida o en cartera solo sale del sistema
// cancelando el comprobante que la originó.
func (uc *UseCase) DeleteLine(ctx context.Context, companyID, id string) error {
	return uc.tx.Run(ctx, func(r Repos) error {
		w, err := r.Withholdings.GetByID(id)
		if err != nil {
			return err
		}
		if w == nil || w.CompanyID != companyID {
			return domain.ErrNotFound
		}
		if w.State != entity.WithholdingStateDraft {
			return domain.ErrLineDeletionForbidden
		}
		if err := r.Withholdings.Delete(id); err != nil {
			return err
		}
		if w.VoucherID != "" {
			voucher, err := r.Vouchers.GetByID(w.VoucherID)
			if err != nil {
				return err
			}
			if voucher != nil {
				return refreshVoucherAmount(r, voucher, time.Now())
			}
		}
		return nil
	})
}
