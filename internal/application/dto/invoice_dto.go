package dto

import "github.com/shopspring/decimal"

// CreateInvoiceRequest body para POST /api/invoices.
type CreateInvoiceRequest struct {
	PartyID       string               `json:"party_id"`
	Type          string               `json:"type"` // in | out
	Number        string               `json:"number,omitempty"`
	Date          string               `json:"date"`               // YYYY-MM-DD
	TaxDate       string               `json:"tax_date,omitempty"` // YYYY-MM-DD; vacío = date
	TotalAmount   decimal.Decimal      `json:"total_amount"`
	UntaxedAmount decimal.Decimal      `json:"untaxed_amount"`
	Lines         []InvoiceLineRequest `json:"lines,omitempty"`
}

// InvoiceLineRequest línea de factura con régimen de Ganancias opcional.
type InvoiceLineRequest struct {
	ProductID         string          `json:"product_id,omitempty"`
	Description       string          `json:"description,omitempty"`
	Amount            decimal.Decimal `json:"amount"`
	GananciasRegimeID string          `json:"ganancias_regime_id,omitempty"`
}

// InvoiceResponse factura con sus percepciones calculadas.
type InvoiceResponse struct {
	ID            string                `json:"id"`
	CompanyID     string                `json:"company_id"`
	PartyID       string                `json:"party_id"`
	Type          string                `json:"type"`
	Number        string                `json:"number,omitempty"`
	Date          string                `json:"date"`
	TaxDate       string                `json:"tax_date,omitempty"`
	State         string                `json:"state"`
	TotalAmount   decimal.Decimal       `json:"total_amount"`
	UntaxedAmount decimal.Decimal       `json:"untaxed_amount"`
	Lines         []InvoiceLineResponse `json:"lines,omitempty"`
	Perceptions   []WithholdingResponse `json:"perceptions,omitempty"`
}

// InvoiceLineResponse línea de factura en respuestas.
type InvoiceLineResponse struct {
	ID                string          `json:"id"`
	ProductID         string          `json:"product_id,omitempty"`
	Description       string          `json:"description,omitempty"`
	Amount            decimal.Decimal `json:"amount"`
	GananciasRegimeID string          `json:"ganancias_regime_id,omitempty"`
}
