package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Tipos de factura.
const (
	InvoiceTypeIn  = "in"  // factura de proveedor
	InvoiceTypeOut = "out" // factura de venta
)

// Estados de factura relevantes para el motor.
const (
	InvoiceStateDraft     = "draft"
	InvoiceStatePosted    = "posted"
	InvoiceStatePaid      = "paid"
	InvoiceStateCancelled = "cancelled"
)

// Invoice cabecera de factura. Para el motor solo importan montos, fechas,
// estado y la asignación de régimen de Ganancias por línea.
type Invoice struct {
	ID            string
	CompanyID     string
	PartyID       string
	Type          string // in | out
	Number        string
	Date          time.Time
	TaxDate       time.Time // fecha de cómputo de impuestos (default: Date)
	State         string
	TotalAmount   decimal.Decimal
	UntaxedAmount decimal.Decimal
	Lines         []InvoiceLine
	CreatedAt     time.Time
	UpdatedAt     time.Time
}

// EffectiveTaxDate fecha usada para vigencia de exenciones y período fiscal.
func (i *Invoice) EffectiveTaxDate() time.Time {
	if i.TaxDate.IsZero() {
		return i.Date
	}
	return i.TaxDate
}

// InvoiceLine línea de factura. GananciasRegimeID viene del producto
// (vía su categoría contable) o se carga a mano; vacío = régimen por defecto.
type InvoiceLine struct {
	ID                string
	InvoiceID         string
	ProductID         string
	Description       string
	Amount            decimal.Decimal
	GananciasRegimeID string
}
