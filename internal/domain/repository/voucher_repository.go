package repository

import (
	"time"

	"github.com/tu-usuario/retencion-ar/internal/domain/entity"
)

// VoucherRepository define el puerto de persistencia para órdenes de pago y
// recibos con sus líneas de imputación.
type VoucherRepository interface {
	Create(voucher *entity.Voucher) error
	// GetByID devuelve el voucher con sus líneas de imputación cargadas.
	GetByID(id string) (*entity.Voucher, error)
	ListByCompany(companyID string, limit, offset int) ([]*entity.Voucher, error)
	// ListPostedByPartyAndPeriod devuelve los vouchers contabilizados del
	// tercero cuya fecha cae en [from, to], con líneas cargadas. Alimenta la
	// acumulación mensual.
	ListPostedByPartyAndPeriod(companyID, partyID string, voucherType string, from, to time.Time) ([]*entity.Voucher, error)
	Update(voucher *entity.Voucher) error
	UpdateState(id, state string) error
	Delete(id string) error
}
