package tax

import (
	"github.com/shopspring/decimal"
	"github.com/tu-usuario/retencion-ar/internal/domain"
	"github.com/tu-usuario/retencion-ar/internal/domain/entity"
)

// ApplicablePerceptionRegimes determina qué regímenes de percepción IIBB
// alcanzan a una factura de venta, reproduciendo las reglas de aplicabilidad
// de referencia:
//
//   - la empresa debe ser agente de percepción;
//   - el tercero debe tener condición de IIBB cargada (si no, el cálculo
//     falla); exento, simplificado, no alcanzado y convenio-sujeto quedan
//     afuera;
//   - solo alcanza a responsables inscriptos o exentos de IVA;
//   - la empresa debe tener jurisdicción configurada;
//   - el régimen aplica si su jurisdicción es la de la empresa, o si el
//     tercero es convenio multilateral y lo declara entre sus jurisdicciones.
//
// Devuelve también las alícuotas pactadas del tercero por régimen.
func ApplicablePerceptionRegimes(company *entity.Company, companyRegimes []*entity.Regime, party *entity.Party) ([]*entity.Regime, map[string]decimal.Decimal, error) {
	if !company.IIBBPerceptionAgent {
		return nil, nil, nil
	}
	if party.IIBBCondition == "" {
		return nil, nil, domain.ErrMissingPartyClassification
	}
	switch party.IIBBCondition {
	case entity.IIBBExento, entity.IIBBSimplificado, entity.IIBBNoAlcanzado, entity.IIBBConvenioSujet:
		return nil, nil, nil
	}
	if party.IVACondition != entity.IVAResponsableInscripto && party.IVACondition != entity.IVAExento {
		return nil, nil, nil
	}
	if company.Subdivision == "" {
		return nil, nil, domain.ErrMissingCompanyJurisdiction
	}

	applicable := make([]*entity.Regime, 0, len(companyRegimes))
	overrides := make(map[string]decimal.Decimal)
	for _, regime := range companyRegimes {
		ok := regime.Subdivision == company.Subdivision
		if !ok && party.IIBBCondition == entity.IIBBConvenio {
			for _, pr := range party.IIBBRegimes {
				if pr.PerceptionRegimeID == regime.ID {
					ok = true
					break
				}
			}
		}
		if !ok {
			continue
		}
		applicable = append(applicable, regime)
		for _, pr := range party.IIBBRegimes {
			if pr.PerceptionRegimeID == regime.ID && !pr.PerceptionRate.IsZero() {
				overrides[regime.ID] = pr.PerceptionRate
			}
		}
	}
	return applicable, overrides, nil
}

// ApplicableIIBBWithholdingRegimes mismas reglas de jurisdicción que la
// percepción, para las retenciones IIBB que practica la empresa al pagar.
func ApplicableIIBBWithholdingRegimes(company *entity.Company, companyRegimes []*entity.Regime, party *entity.Party) ([]*entity.Regime, map[string]decimal.Decimal, error) {
	if !company.IIBBWithholdingAgent {
		return nil, nil, nil
	}
	if party.IIBBCondition == "" {
		return nil, nil, domain.ErrMissingPartyClassification
	}
	switch party.IIBBCondition {
	case entity.IIBBExento, entity.IIBBSimplificado, entity.IIBBNoAlcanzado, entity.IIBBConvenioSujet:
		return nil, nil, nil
	}
	if company.Subdivision == "" {
		return nil, nil, domain.ErrMissingCompanyJurisdiction
	}

	applicable := make([]*entity.Regime, 0, len(companyRegimes))
	overrides := make(map[string]decimal.Decimal)
	for _, regime := range companyRegimes {
		ok := regime.Subdivision == company.Subdivision
		if !ok && party.IIBBCondition == entity.IIBBConvenio {
			for _, pr := range party.IIBBRegimes {
				if pr.WithholdingRegimeID == regime.ID {
					ok = true
					break
				}
			}
		}
		if !ok {
			continue
		}
		applicable = append(applicable, regime)
		for _, pr := range party.IIBBRegimes {
			if pr.WithholdingRegimeID == regime.ID && !pr.WithholdingRate.IsZero() {
				overrides[regime.ID] = pr.WithholdingRate
			}
		}
	}
	return applicable, overrides, nil
}
