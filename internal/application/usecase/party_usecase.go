package usecase

import (
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/tu-usuario/retencion-ar/internal/application/dto"
	"github.com/tu-usuario/retencion-ar/internal/domain"
	"github.com/tu-usuario/retencion-ar/internal/domain/entity"
	"github.com/tu-usuario/retencion-ar/internal/domain/repository"
	"github.com/tu-usuario/retencion-ar/pkg/afip"
)

// PartyUseCase casos de uso CRUD para terceros y su encuadre fiscal.
type PartyUseCase struct {
	repo repository.PartyRepository
}

// NewPartyUseCase construye el caso de uso.
func NewPartyUseCase(repo repository.PartyRepository) *PartyUseCase {
	return &PartyUseCase{repo: repo}
}

func partyChildren(in dto.CreatePartyRequest) ([]entity.PartyExemption, []entity.PartyIIBBRegime, error) {
	exemptions := make([]entity.PartyExemption, 0, len(in.Exemptions))
	for _, e := range in.Exemptions {
		if e.Kind != entity.ExemptionKindRetencion && e.Kind != entity.ExemptionKindPercepcion {
			return nil, nil, fmt.Errorf("%w: kind de exención inválido", domain.ErrInvalidInput)
		}
		endDate, err := time.Parse(time.DateOnly, e.EndDate)
		if err != nil {
			return nil, nil, fmt.Errorf("%w: end_date de exención inválida", domain.ErrInvalidInput)
		}
		exemptions = append(exemptions, entity.PartyExemption{
			Kind:     e.Kind,
			RegimeID: e.RegimeID,
			EndDate:  endDate,
		})
	}
	regimes := make([]entity.PartyIIBBRegime, 0, len(in.IIBBRegimes))
	for _, g := range in.IIBBRegimes {
		regimes = append(regimes, entity.PartyIIBBRegime{
			WithholdingRegimeID: g.WithholdingRegimeID,
			WithholdingRate:     g.WithholdingRate,
			PerceptionRegimeID:  g.PerceptionRegimeID,
			PerceptionRate:      g.PerceptionRate,
		})
	}
	return exemptions, regimes, nil
}

func toPartyResponse(p *entity.Party) *dto.PartyResponse {
	formatted, _ := afip.FormatCUIT(p.CUIT)
	out := &dto.PartyResponse{
		ID:                 p.ID,
		CompanyID:          p.CompanyID,
		Name:               p.Name,
		CUIT:               p.CUIT,
		CUITFormatted:      formatted,
		DocumentTypeCode:   p.DocumentTypeCode,
		GananciasCondition: p.GananciasCondition,
		IVACondition:       p.IVACondition,
		IIBBCondition:      p.IIBBCondition,
		BienesInscripto:    p.BienesInscripto,
		GananciasRegimeID:  p.GananciasRegimeID,
		IVARegimeID:        p.IVARegimeID,
	}
	for _, g := range p.IIBBRegimes {
		out.IIBBRegimes = append(out.IIBBRegimes, dto.PartyIIBBRegimeDTO{
			WithholdingRegimeID: g.WithholdingRegimeID,
			WithholdingRate:     g.WithholdingRate,
			PerceptionRegimeID:  g.PerceptionRegimeID,
			PerceptionRate:      g.PerceptionRate,
		})
	}
	for _, e := range p.Exemptions {
		out.Exemptions = append(out.Exemptions, dto.PartyExemptionRequest{
			Kind:     e.Kind,
			RegimeID: e.RegimeID,
			EndDate:  e.EndDate.Format(time.DateOnly),
		})
	}
	return out
}

// Create crea un tercero. El CUIT debe pasar el dígito verificador.
func (uc *PartyUseCase) Create(companyID string, in dto.CreatePartyRequest) (*dto.PartyResponse, error) {
	if in.Name == "" {
		return nil, fmt.Errorf("%w: name es requerido", domain.ErrInvalidInput)
	}
	if err := afip.ValidateCUIT(in.CUIT); err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrInvalidInput, err)
	}
	exemptions, iibbRegimes, err := partyChildren(in)
	if err != nil {
		return nil, err
	}
	documentType := in.DocumentTypeCode
	if documentType == 0 {
		documentType = 80 // CUIT
	}
	now := time.Now()
	party := &entity.Party{
		ID:                 uuid.New().String(),
		CompanyID:          companyID,
		Name:               in.Name,
		CUIT:               in.CUIT,
		DocumentTypeCode:   documentType,
		GananciasCondition: in.GananciasCondition,
		IVACondition:       in.IVACondition,
		IIBBCondition:      in.IIBBCondition,
		BienesInscripto:    in.BienesInscripto,
		GananciasRegimeID:  in.GananciasRegimeID,
		IVARegimeID:        in.IVARegimeID,
		IIBBRegimes:        iibbRegimes,
		Exemptions:         exemptions,
		CreatedAt:          now,
		UpdatedAt:          now,
	}
	if err := uc.repo.Create(party); err != nil {
		return nil, err
	}
	return toPartyResponse(party), nil
}

// GetByID obtiene un tercero por ID, acotado a la empresa.
func (uc *PartyUseCase) GetByID(companyID, id string) (*dto.PartyResponse, error) {
	party, err := uc.repo.GetByID(id)
	if err != nil {
		return nil, err
	}
	if party == nil || party.CompanyID != companyID {
		return nil, nil
	}
	return toPartyResponse(party), nil
}

// Update actualiza el encuadre fiscal del tercero y reemplaza hijos.
func (uc *PartyUseCase) Update(companyID, id string, in dto.UpdatePartyRequest) (*dto.PartyResponse, error) {
	party, err := uc.repo.GetByID(id)
	if err != nil {
		return nil, err
	}
	if party == nil || party.CompanyID != companyID {
		return nil, nil
	}
	if err := afip.ValidateCUIT(in.CUIT); err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrInvalidInput, err)
	}
	exemptions, iibbRegimes, err := partyChildren(in)
	if err != nil {
		return nil, err
	}
	party.Name = in.Name
	party.CUIT = in.CUIT
	if in.DocumentTypeCode != 0 {
		party.DocumentTypeCode = in.DocumentTypeCode
	}
	party.GananciasCondition = in.GananciasCondition
	party.IVACondition = in.IVACondition
	party.IIBBCondition = in.IIBBCondition
	party.BienesInscripto = in.BienesInscripto
	party.GananciasRegimeID = in.GananciasRegimeID
	party.IVARegimeID = in.IVARegimeID
	party.UpdatedAt = time.Now()
	if err := uc.repo.Update(party); err != nil {
		return nil, err
	}
	if err := uc.repo.ReplaceExemptions(party.ID, exemptions); err != nil {
		return nil, err
	}
	if err := uc.repo.ReplaceIIBBRegimes(party.ID, iibbRegimes); err != nil {
		return nil, err
	}
	party.Exemptions = exemptions
	party.IIBBRegimes = iibbRegimes
	return toPartyResponse(party), nil
}

// List lista terceros por empresa con paginación.
func (uc *PartyUseCase) List(companyID string, limit, offset int) ([]dto.PartyResponse, error) {
	list, err := uc.repo.ListByCompany(companyID, limit, offset)
	if err != nil {
		return nil, err
	}
	items := make([]dto.PartyResponse, 0, len(list))
	for _, p := range list {
		items = append(items, *toPartyResponse(p))
	}
	return items, nil
}

// Delete elimina un tercero por ID.
func (uc *PartyUseCase) Delete(companyID, id string) error {
	party, err := uc.repo.GetByID(id)
	if err != nil {
		return err
	}
	if party == nil || party.CompanyID != companyID {
		return domain.ErrNotFound
	}
	return uc.repo.Delete(id)
}
