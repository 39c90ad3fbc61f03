package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Tipos de comprobante de tesorería.
const (
	VoucherTypePayment = "payment" // orden de pago a proveedor
	VoucherTypeReceipt = "receipt" // recibo de cobranza
)

// Estados del comprobante.
const (
	VoucherStateDraft     = "draft"
	VoucherStatePosted    = "posted"
	VoucherStateCancelled = "cancelled"
)

// Voucher comprobante de pago/cobranza con imputaciones contra facturas.
type Voucher struct {
	ID           string
	CompanyID    string
	PartyID      string
	JournalID    string
	Number       string
	VoucherType  string // payment | receipt
	State        string // draft | posted | cancelled
	CurrencyCode string
	Date         time.Time
	Amount       decimal.Decimal // total del comprobante (incluye retenciones adjuntas)
	PayAmount    decimal.Decimal // suma originalmente imputada a facturas
	Lines        []VoucherLine
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// AllocatedTotal suma los importes imputados en las líneas.
func (v *Voucher) AllocatedTotal() decimal.Decimal {
	total := decimal.Zero
	for _, l := range v.Lines {
		total = total.Add(l.Amount)
	}
	return total
}

// VoucherLine imputación de un importe del comprobante contra una factura.
type VoucherLine struct {
	ID        string
	VoucherID string
	InvoiceID string
	Amount    decimal.Decimal // importe aplicado a la factura
}
