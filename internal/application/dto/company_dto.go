package dto

// CreateCompanyRequest body para POST /api/companies.
type CreateCompanyRequest struct {
	Name                      string `json:"name"`
	CUIT                      string `json:"cuit"`
	Address                   string `json:"address,omitempty"`
	Subdivision               string `json:"subdivision,omitempty"` // código de provincia sede
	GananciasWithholdingAgent bool   `json:"ganancias_withholding_agent"`
	GananciasRegimeID         string `json:"ganancias_regime_id,omitempty"`
	IIBBWithholdingAgent      bool   `json:"iibb_withholding_agent"`
	IIBBPerceptionAgent       bool   `json:"iibb_perception_agent"`
}

// UpdateCompanyRequest body para PUT /api/companies/:id.
type UpdateCompanyRequest = CreateCompanyRequest

// CompanyResponse empresa en respuestas.
type CompanyResponse struct {
	ID                        string `json:"id"`
	Name                      string `json:"name"`
	CUIT                      string `json:"cuit"`
	CUITFormatted             string `json:"cuit_formatted,omitempty"`
	Address                   string `json:"address,omitempty"`
	Subdivision               string `json:"subdivision,omitempty"`
	GananciasWithholdingAgent bool   `json:"ganancias_withholding_agent"`
	GananciasRegimeID         string `json:"ganancias_regime_id,omitempty"`
	IIBBWithholdingAgent      bool   `json:"iibb_withholding_agent"`
	IIBBPerceptionAgent       bool   `json:"iibb_perception_agent"`
	Status                    string `json:"status"`
}
