package repository

import (
	"time"

	"github.com/shopspring/decimal"
	"github.com/tu-usuario/retencion-ar/internal/domain/entity"
)

// WithholdingRepository define el puerto de persistencia para retenciones y
// percepciones con su traza completa de cálculo.
type WithholdingRepository interface {
	Create(w *entity.Withholding) error
	GetByID(id string) (*entity.Withholding, error)
	ListByVoucher(voucherID string) ([]*entity.Withholding, error)
	ListByInvoice(invoiceID string) ([]*entity.Withholding, error)
	ListByCompany(companyID string, filter WithholdingFilter) ([]*entity.Withholding, error)
	// SumIssuedByPartyPeriodRegime suma los importes emitidos/en cartera del
	// tercero para cada régimen dentro del período, excluyendo el voucher
	// indicado (el que se está recalculando).
	SumIssuedByPartyPeriodRegime(companyID, partyID string, from, to time.Time, excludeVoucherID string) (map[string]SumResult, error)
	// ListIssuedForExport devuelve solo retenciones emitidas (efectuadas por
	// la empresa) de las familias pedidas en el rango, ordenadas por fecha y
	// número. Las sufridas (held) son certificados de otros agentes y quedan
	// afuera. regimeIDs vacío = todos los regímenes de las familias.
	ListIssuedForExport(companyID string, from, to time.Time, taxFamilies, regimeIDs []string) ([]*entity.Withholding, error)
	Update(w *entity.Withholding) error
	// DeleteDraftByVoucher borra las líneas en borrador del voucher; las
	// emitidas nunca se tocan por esta vía.
	DeleteDraftByVoucher(voucherID string) error
	DeleteDraftByInvoice(invoiceID string) error
	Delete(id string) error
}

// WithholdingFilter acota el listado general.
type WithholdingFilter struct {
	PartyID  string
	RegimeID string
	State    string
	Kind     string
	From     time.Time
	To       time.Time
	Limit    int
	Offset   int
}

// SumResult acumulados previos por régimen: base e importe retenido.
type SumResult struct {
	Base   decimal.Decimal
	Amount decimal.Decimal
}
