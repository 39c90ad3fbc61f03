package dto

import "github.com/shopspring/decimal"

// CreateVoucherRequest body para POST /api/vouchers.
type CreateVoucherRequest struct {
	PartyID      string               `json:"party_id"`
	JournalID    string               `json:"journal_id,omitempty"`
	VoucherType  string               `json:"voucher_type"` // payment | receipt
	CurrencyCode string               `json:"currency_code,omitempty"`
	Date         string               `json:"date"` // YYYY-MM-DD
	Amount       decimal.Decimal      `json:"amount"`
	Lines        []VoucherLineRequest `json:"lines,omitempty"`
}

// VoucherLineRequest imputación contra una factura.
type VoucherLineRequest struct {
	InvoiceID string          `json:"invoice_id"`
	Amount    decimal.Decimal `json:"amount"`
}

// CalculateVoucherRequest body para POST /api/vouchers/:id/calculate.
// Si ExplicitBase va cargado se calcula sobre ese importe (neto de IVA
// asumido) en lugar de prorratear las imputaciones.
type CalculateVoucherRequest struct {
	ExplicitBase decimal.Decimal `json:"explicit_base,omitempty"`
}

// PostVoucherRequest body para POST /api/vouchers/:id/post. ManualNumbers
// permite numerar a mano las retenciones de regímenes sin secuencia.
type PostVoucherRequest struct {
	ManualNumbers map[string]string `json:"manual_numbers,omitempty"` // withholding_id -> número
}

// VoucherResponse comprobante con líneas y retenciones calculadas.
type VoucherResponse struct {
	ID           string                `json:"id"`
	CompanyID    string                `json:"company_id"`
	PartyID      string                `json:"party_id"`
	Number       string                `json:"number,omitempty"`
	VoucherType  string                `json:"voucher_type"`
	State        string                `json:"state"`
	CurrencyCode string                `json:"currency_code,omitempty"`
	Date         string                `json:"date"`
	Amount       decimal.Decimal       `json:"amount"`
	PayAmount    decimal.Decimal       `json:"pay_amount"`
	Lines        []VoucherLineResponse `json:"lines,omitempty"`
	Withholdings []WithholdingResponse `json:"withholdings,omitempty"`
}

// VoucherLineResponse línea de imputación en respuestas.
type VoucherLineResponse struct {
	ID        string          `json:"id"`
	InvoiceID string          `json:"invoice_id"`
	Amount    decimal.Decimal `json:"amount"`
}
