package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Estados de una línea de retención/percepción.
// draft -> issued (efectuada) / held (soportada) -> cancelled.
const (
	WithholdingStateDraft     = "draft"
	WithholdingStateIssued    = "issued"
	WithholdingStateHeld      = "held"
	WithholdingStateCancelled = "cancelled"
)

// Clase de línea.
const (
	LineKindRetencion  = "retencion"
	LineKindPercepcion = "percepcion"
)

// Withholding línea de retención o percepción calculada, con la traza completa
// del cómputo. Una vez vinculada a un comprobante contabilizado no puede
// eliminarse directamente; solo se cancela revirtiendo el comprobante.
type Withholding struct {
	ID        string
	CompanyID string
	VoucherID string // comprobante origen (retenciones)
	InvoiceID string // factura origen (percepciones)
	PartyID   string
	RegimeID  string
	Kind      string // retencion | percepcion
	Number    string // número de certificado (secuencia o manual)
	Date      time.Time
	State     string

	// Traza del cómputo: todos los montos cuantizados a 2 decimales.
	PaymentAmount       decimal.Decimal // aporte de este comprobante a la base
	AccumulatedAmount   decimal.Decimal // base acumulada del período, incluida esta operación
	MinimumNonTaxable   decimal.Decimal // mínimo no imponible aplicado
	TaxableAmount       decimal.Decimal // acumulado - mínimo no imponible
	Rate                decimal.Decimal // alícuota % aplicada
	ScaleFixedAmount    decimal.Decimal // monto fijo del tramo (si escala)
	ComputedAmount      decimal.Decimal // retención bruta del período
	MinimumWithholdable decimal.Decimal // mínimo de retención aplicado
	AccumulatedWithheld decimal.Decimal // ya retenido en el período
	Amount              decimal.Decimal // neto de esta operación = computed - accumulated_withheld

	CreatedAt time.Time
	UpdatedAt time.Time
}

// LinkedToVoucher indica si la línea quedó atada a un comprobante u origen.
func (w *Withholding) LinkedToVoucher() bool {
	return w.VoucherID != "" || w.InvoiceID != ""
}
