package dto

import "github.com/shopspring/decimal"

// CreatePartyRequest body para POST /api/parties.
type CreatePartyRequest struct {
	Name               string                  `json:"name"`
	CUIT               string                  `json:"cuit"`
	DocumentTypeCode   int                     `json:"document_type_code,omitempty"` // 80 = CUIT
	GananciasCondition string                  `json:"ganancias_condition,omitempty"`
	IVACondition       string                  `json:"iva_condition,omitempty"`
	IIBBCondition      string                  `json:"iibb_condition,omitempty"`
	BienesInscripto    bool                    `json:"bienes_inscripto,omitempty"`
	GananciasRegimeID  string                  `json:"ganancias_regime_id,omitempty"`
	IVARegimeID        string                  `json:"iva_regime_id,omitempty"`
	IIBBRegimes        []PartyIIBBRegimeDTO    `json:"iibb_regimes,omitempty"`
	Exemptions         []PartyExemptionRequest `json:"exemptions,omitempty"`
}

// UpdatePartyRequest body para PUT /api/parties/:id.
type UpdatePartyRequest = CreatePartyRequest

// PartyIIBBRegimeDTO vínculo del tercero con regímenes IIBB por jurisdicción,
// con alícuotas pactadas opcionales.
type PartyIIBBRegimeDTO struct {
	WithholdingRegimeID string          `json:"withholding_regime_id,omitempty"`
	WithholdingRate     decimal.Decimal `json:"withholding_rate,omitempty"`
	PerceptionRegimeID  string          `json:"perception_regime_id,omitempty"`
	PerceptionRate      decimal.Decimal `json:"perception_rate,omitempty"`
}

// PartyExemptionRequest exención vigente hasta end_date inclusive.
type PartyExemptionRequest struct {
	Kind     string `json:"kind"` // retencion | percepcion
	RegimeID string `json:"regime_id"`
	EndDate  string `json:"end_date"` // YYYY-MM-DD
}

// PartyResponse tercero en respuestas.
type PartyResponse struct {
	ID                 string                  `json:"id"`
	CompanyID          string                  `json:"company_id"`
	Name               string                  `json:"name"`
	CUIT               string                  `json:"cuit"`
	CUITFormatted      string                  `json:"cuit_formatted,omitempty"`
	DocumentTypeCode   int                     `json:"document_type_code"`
	GananciasCondition string                  `json:"ganancias_condition,omitempty"`
	IVACondition       string                  `json:"iva_condition,omitempty"`
	IIBBCondition      string                  `json:"iibb_condition,omitempty"`
	BienesInscripto    bool                    `json:"bienes_inscripto"`
	GananciasRegimeID  string                  `json:"ganancias_regime_id,omitempty"`
	IVARegimeID        string                  `json:"iva_regime_id,omitempty"`
	IIBBRegimes        []PartyIIBBRegimeDTO    `json:"iibb_regimes,omitempty"`
	Exemptions         []PartyExemptionRequest `json:"exemptions,omitempty"`
}
