package tax

import (
	"time"

	"github.com/tu-usuario/retencion-ar/internal/domain/entity"
)

// FilterExempt quita del conjunto candidato todo régimen para el cual el
// tercero tiene una exención vigente (end_date en o después de la fecha de
// la operación). La comparación es por identidad de régimen y clase
// (retención/percepción), no por familia de impuesto; la exención es binaria,
// nunca prorratea la alícuota.
func FilterExempt(regimes []*entity.Regime, kind string, exemptions []entity.PartyExemption, asOf time.Time) []*entity.Regime {
	if len(exemptions) == 0 {
		return regimes
	}
	surviving := make([]*entity.Regime, 0, len(regimes))
	for _, regime := range regimes {
		exempt := false
		for _, e := range exemptions {
			if e.Covers(kind, regime.ID, asOf) {
				exempt = true
				break
			}
		}
		if !exempt {
			surviving = append(surviving, regime)
		}
	}
	return surviving
}
