package repository

import "github.com/tu-usuario/retencion-ar/internal/domain/entity"

// PartyRepository define el puerto de persistencia para terceros
// (proveedores/clientes) con su encuadre fiscal, exenciones y regímenes IIBB.
type PartyRepository interface {
	Create(party *entity.Party) error
	// GetByID devuelve el tercero con exenciones y regímenes IIBB cargados.
	GetByID(id string) (*entity.Party, error)
	GetByCUIT(companyID, cuit string) (*entity.Party, error)
	ListByCompany(companyID string, limit, offset int) ([]*entity.Party, error)
	Update(party *entity.Party) error
	Delete(id string) error

	ReplaceExemptions(partyID string, exemptions []entity.PartyExemption) error
	ReplaceIIBBRegimes(partyID string, regimes []entity.PartyIIBBRegime) error
}
