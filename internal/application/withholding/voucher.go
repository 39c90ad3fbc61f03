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

func toVoucherResponse(v *entity.Voucher, lines []*entity.Withholding) *dto.VoucherResponse {
	out := &dto.VoucherResponse{
		ID:           v.ID,
		CompanyID:    v.CompanyID,
		PartyID:      v.PartyID,
		Number:       v.Number,
		VoucherType:  v.VoucherType,
		State:        v.State,
		CurrencyCode: v.CurrencyCode,
		Date:         v.Date.Format(time.DateOnly),
		Amount:       v.Amount,
		PayAmount:    v.PayAmount,
	}
	for _, l := range v.Lines {
		out.Lines = append(out.Lines, dto.VoucherLineResponse{
			ID:        l.ID,
			InvoiceID: l.InvoiceID,
			Amount:    l.Amount,
		})
	}
	for _, w := range lines {
		out.Withholdings = append(out.Withholdings, toWithholdingResponse(w))
	}
	return out
}

// CreateVoucher crea un comprobante en borrador. El total nace igual a la
// suma imputada; el cálculo de retenciones lo ajusta después.
func (uc *UseCase) CreateVoucher(companyID string, in dto.CreateVoucherRequest) (*dto.VoucherResponse, error) {
	if in.VoucherType != entity.VoucherTypePayment && in.VoucherType != entity.VoucherTypeReceipt {
		return nil, fmt.Errorf("%w: voucher_type debe ser payment o receipt", domain.ErrInvalidInput)
	}
	date, err := time.Parse(time.DateOnly, in.Date)
	if err != nil {
		return nil, fmt.Errorf("%w: date inválida, se espera YYYY-MM-DD", domain.ErrInvalidInput)
	}
	party, err := uc.repos.Parties.GetByID(in.PartyID)
	if err != nil {
		return nil, err
	}
	if party == nil || party.CompanyID != companyID {
		return nil, fmt.Errorf("%w: el tercero no existe", domain.ErrInvalidInput)
	}
	now := time.Now()
	voucher := &entity.Voucher{
		ID:           uuid.New().String(),
		CompanyID:    companyID,
		PartyID:      in.PartyID,
		JournalID:    in.JournalID,
		VoucherType:  in.VoucherType,
		State:        entity.VoucherStateDraft,
		CurrencyCode: in.CurrencyCode,
		Date:         date,
		Amount:       in.Amount,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	for _, l := range in.Lines {
		voucher.Lines = append(voucher.Lines, entity.VoucherLine{
			ID:        uuid.New().String(),
			VoucherID: voucher.ID,
			InvoiceID: l.InvoiceID,
			Amount:    l.Amount,
		})
	}
	voucher.PayAmount = voucher.AllocatedTotal()
	if voucher.Amount.IsZero() {
		voucher.Amount = voucher.PayAmount
	}
	if err := uc.repos.Vouchers.Create(voucher); err != nil {
		return nil, err
	}
	return toVoucherResponse(voucher, nil), nil
}

// GetVoucher obtiene un comprobante con sus retenciones, acotado a la empresa.
func (uc *UseCase) GetVoucher(companyID, id string) (*dto.VoucherResponse, error) {
	voucher, err := uc.repos.Vouchers.GetByID(id)
	if err != nil {
		return nil, err
	}
	if voucher == nil || voucher.CompanyID != companyID {
		return nil, nil
	}
	lines, err := uc.repos.Withholdings.ListByVoucher(id)
	if err != nil {
		return nil, err
	}
	return toVoucherResponse(voucher, lines), nil
}

// ListVouchers lista comprobantes por empresa con paginación.
func (uc *UseCase) ListVouchers(companyID string, limit, offset int) ([]dto.VoucherResponse, error) {
	list, err := uc.repos.Vouchers.ListByCompany(companyID, limit, offset)
	if err != nil {
		return nil, err
	}
	items := make([]dto.VoucherResponse, 0, len(list))
	for _, v := range list {
		items = append(items, *toVoucherResponse(v, nil))
	}
	return items, nil
}

// DeleteVoucher elimina un comprobante en borrador junto con sus líneas
// calculadas. Un comprobante contabilizado no se borra, se cancela.
func (uc *UseCase) DeleteVoucher(ctx context.Context, companyID, id string) error {
	return uc.tx.Run(ctx, func(r Repos) error {
		voucher, err := r.Vouchers.GetByID(id)
		if err != nil {
			return err
		}
		if voucher == nil || voucher.CompanyID != companyID {
			return domain.ErrNotFound
		}
		if voucher.State != entity.VoucherStateDraft {
			return fmt.Errorf("%w: sólo se elimina un comprobante en borrador", domain.ErrConflict)
		}
		if err := r.Withholdings.DeleteDraftByVoucher(id); err != nil {
			return err
		}
		return r.Vouchers.Delete(id)
	})
}
