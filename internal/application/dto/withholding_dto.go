package dto

import "github.com/shopspring/decimal"

// WithholdingResponse línea de retención/percepción con su traza de cálculo.
type WithholdingResponse struct {
	ID        string `json:"id"`
	CompanyID string `json:"company_id"`
	VoucherID string `json:"voucher_id,omitempty"`
	InvoiceID string `json:"invoice_id,omitempty"`
	PartyID   string `json:"party_id"`
	RegimeID  string `json:"regime_id"`
	Kind      string `json:"kind"` // retencion | percepcion
	Number    string `json:"number,omitempty"`
	Date      string `json:"date"`
	State     string `json:"state"`

	PaymentAmount       decimal.Decimal `json:"payment_amount"`
	AccumulatedAmount   decimal.Decimal `json:"accumulated_amount"`
	MinimumNonTaxable   decimal.Decimal `json:"minimum_non_taxable"`
	TaxableAmount       decimal.Decimal `json:"taxable_amount"`
	Rate                decimal.Decimal `json:"rate"`
	ScaleFixedAmount    decimal.Decimal `json:"scale_fixed_amount,omitempty"`
	ComputedAmount      decimal.Decimal `json:"computed_amount"`
	MinimumWithholdable decimal.Decimal `json:"minimum_withholdable"`
	AccumulatedWithheld decimal.Decimal `json:"accumulated_withheld"`
	Amount              decimal.Decimal `json:"amount"`
}

// AddManualWithholdingRequest body para registrar en un recibo una retención
// sufrida, con el número de certificado del agente.
type AddManualWithholdingRequest struct {
	RegimeID string          `json:"regime_id"`
	Number   string          `json:"number,omitempty"`
	Amount   decimal.Decimal `json:"amount"`
}

// ListWithholdingsRequest filtros de GET /api/withholdings.
type ListWithholdingsRequest struct {
	PageRequest
	PartyID  string `query:"party_id"`
	RegimeID string `query:"regime_id"`
	State    string `query:"state"`
	Kind     string `query:"kind"`
	From     string `query:"from"` // YYYY-MM-DD
	To       string `query:"to"`
}
