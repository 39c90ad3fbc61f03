package dto

import "github.com/shopspring/decimal"

// JurisdictionReportRequest parámetros de GET /api/reports/jurisdiction.
type JurisdictionReportRequest struct {
	From        string `query:"from"` // YYYY-MM-DD
	To          string `query:"to"`
	Subdivision string `query:"subdivision"` // jurisdicción (código de provincia)
}

// JurisdictionReportResponse listado combinado de retenciones y percepciones
// de la jurisdicción, ordenado por fecha y número de documento.
type JurisdictionReportResponse struct {
	From        string                  `json:"from"`
	To          string                  `json:"to"`
	Subdivision string                  `json:"subdivision"`
	Rows        []JurisdictionReportRow `json:"rows"`
	BaseTotal   decimal.Decimal         `json:"base_total"`
	Total       decimal.Decimal         `json:"total"`
}

// JurisdictionReportRow un registro individual del listado.
type JurisdictionReportRow struct {
	Date       string          `json:"date"` // YYYY-MM-DD
	Number     string          `json:"number"`
	Kind       string          `json:"kind"` // retencion | percepcion
	PartyName  string          `json:"party_name"`
	PartyCUIT  string          `json:"party_cuit"`
	RegimeID   string          `json:"regime_id"`
	RegimeName string          `json:"regime_name"`
	Base       decimal.Decimal `json:"base"`
	Amount     decimal.Decimal `json:"amount"`
}
