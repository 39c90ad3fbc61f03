package dto

import "github.com/shopspring/decimal"

// CreateRegimeRequest body para POST /api/regimes.
type CreateRegimeRequest struct {
	Name                string             `json:"name"`
	Kind                string             `json:"kind"` // efectuada|soportada
	Tax                 string             `json:"tax"`  // gana|iibb|iva|bien|other
	Subdivision         string             `json:"subdivision,omitempty"`
	AccountID           string             `json:"account_id,omitempty"`
	RegimeCode          int                `json:"regime_code,omitempty"`
	MinimumNonTaxable   decimal.Decimal    `json:"minimum_non_taxable"`
	MinimumWithholdable decimal.Decimal    `json:"minimum_withholdable"`
	RateRegistered      decimal.Decimal    `json:"rate_registered"`
	RateNonRegistered   decimal.Decimal    `json:"rate_non_registered"`
	Scales              []ScaleTierRequest `json:"scales,omitempty"`
}

// UpdateRegimeRequest body para PUT /api/regimes/:id.
type UpdateRegimeRequest = CreateRegimeRequest

// ScaleTierRequest tramo de escala progresiva.
type ScaleTierRequest struct {
	StartAmount       decimal.Decimal `json:"start_amount"`
	EndAmount         decimal.Decimal `json:"end_amount"`
	Rate              decimal.Decimal `json:"rate"`
	FixedAmount       decimal.Decimal `json:"fixed_amount"`
	MinimumNonTaxable decimal.Decimal `json:"minimum_non_taxable"`
}

// RegimeResponse régimen en respuestas, con escalas.
type RegimeResponse struct {
	ID                  string              `json:"id"`
	CompanyID           string              `json:"company_id"`
	Name                string              `json:"name"`
	Kind                string              `json:"kind"`
	Tax                 string              `json:"tax"`
	Subdivision         string              `json:"subdivision,omitempty"`
	AccountID           string              `json:"account_id,omitempty"`
	RegimeCode          int                 `json:"regime_code,omitempty"`
	MinimumNonTaxable   decimal.Decimal     `json:"minimum_non_taxable"`
	MinimumWithholdable decimal.Decimal     `json:"minimum_withholdable"`
	RateRegistered      decimal.Decimal     `json:"rate_registered"`
	RateNonRegistered   decimal.Decimal     `json:"rate_non_registered"`
	Scales              []ScaleTierResponse `json:"scales,omitempty"`
}

// ScaleTierResponse tramo de escala en respuestas.
type ScaleTierResponse struct {
	StartAmount       decimal.Decimal `json:"start_amount"`
	EndAmount         decimal.Decimal `json:"end_amount"`
	Rate              decimal.Decimal `json:"rate"`
	FixedAmount       decimal.Decimal `json:"fixed_amount"`
	MinimumNonTaxable decimal.Decimal `json:"minimum_non_taxable"`
}
