package repository

import "github.com/tu-usuario/retencion-ar/internal/domain/entity"

// RegimeRepository define el puerto de persistencia para los regímenes de
// retención/percepción, sus escalas y sus secuencias de numeración.
type RegimeRepository interface {
	Create(regime *entity.Regime) error
	GetByID(id string) (*entity.Regime, error)
	// ListByCompany devuelve los regímenes con sus escalas cargadas.
	ListByCompany(companyID string, limit, offset int) ([]*entity.Regime, error)
	ListByCompanyAndTax(companyID, tax, kind string) ([]*entity.Regime, error)
	Update(regime *entity.Regime) error
	Delete(id string) error

	// ReplaceScales reemplaza las escalas del régimen de forma atómica.
	ReplaceScales(regimeID string, scales []entity.ScaleTier) error

	GetSequence(regimeID, companyID string) (*entity.RegimeSequence, error)
	// NextNumber consume y devuelve el próximo número de la secuencia del
	// régimen; debe llamarse dentro de una transacción.
	NextNumber(regimeID, companyID string) (string, error)
}
