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

// CompanyUseCase casos de uso para la empresa y sus designaciones de agente.
type CompanyUseCase struct {
	repo repository.CompanyRepository
}

// NewCompanyUseCase construye el caso de uso.
func NewCompanyUseCase(repo repository.CompanyRepository) *CompanyUseCase {
	return &CompanyUseCase{repo: repo}
}

func toCompanyResponse(c *entity.Company) *dto.CompanyResponse {
	formatted, _ := afip.FormatCUIT(c.CUIT)
	return &dto.CompanyResponse{
		ID:                        c.ID,
		Name:                      c.Name,
		CUIT:                      c.CUIT,
		CUITFormatted:             formatted,
		Address:                   c.Address,
		Subdivision:               c.Subdivision,
		GananciasWithholdingAgent: c.GananciasWithholdingAgent,
		GananciasRegimeID:         c.GananciasRegimeID,
		IIBBWithholdingAgent:      c.IIBBWithholdingAgent,
		IIBBPerceptionAgent:       c.IIBBPerceptionAgent,
		Status:                    c.Status,
	}
}

func validCompanyInput(in dto.CreateCompanyRequest) error {
	if in.Name == "" {
		return fmt.Errorf("%w: name es requerido", domain.ErrInvalidInput)
	}
	if err := afip.ValidateCUIT(in.CUIT); err != nil {
		return fmt.Errorf("%w: %v", domain.ErrInvalidInput, err)
	}
	// Un agente de IIBB siempre declara su jurisdicción sede.
	if (in.IIBBWithholdingAgent || in.IIBBPerceptionAgent) && in.Subdivision == "" {
		return fmt.Errorf("%w: subdivision es requerida para agentes de IIBB", domain.ErrInvalidInput)
	}
	return nil
}

// Create crea la empresa.
func (uc *CompanyUseCase) Create(in dto.CreateCompanyRequest) (*dto.CompanyResponse, error) {
	if err := validCompanyInput(in); err != nil {
		return nil, err
	}
	now := time.Now()
	company := &entity.Company{
		ID:                        uuid.New().String(),
		Name:                      in.Name,
		CUIT:                      in.CUIT,
		Address:                   in.Address,
		Subdivision:               in.Subdivision,
		GananciasWithholdingAgent: in.GananciasWithholdingAgent,
		GananciasRegimeID:         in.GananciasRegimeID,
		IIBBWithholdingAgent:      in.IIBBWithholdingAgent,
		IIBBPerceptionAgent:       in.IIBBPerceptionAgent,
		Status:                    "active",
		CreatedAt:                 now,
		UpdatedAt:                 now,
	}
	if err := uc.repo.Create(company); err != nil {
		return nil, err
	}
	return toCompanyResponse(company), nil
}

// GetByID obtiene la empresa por ID.
func (uc *CompanyUseCase) GetByID(id string) (*dto.CompanyResponse, error) {
	company, err := uc.repo.GetByID(id)
	if err != nil {
		return nil, err
	}
	if company == nil {
		return nil, nil
	}
	return toCompanyResponse(company), nil
}

// Update actualiza los datos y designaciones de agente de la empresa.
func (uc *CompanyUseCase) Update(id string, in dto.UpdateCompanyRequest) (*dto.CompanyResponse, error) {
	company, err := uc.repo.GetByID(id)
	if err != nil {
		return nil, err
	}
	if company == nil {
		return nil, nil
	}
	if err := validCompanyInput(in); err != nil {
		return nil, err
	}
	company.Name = in.Name
	company.CUIT = in.CUIT
	company.Address = in.Address
	company.Subdivision = in.Subdivision
	company.GananciasWithholdingAgent = in.GananciasWithholdingAgent
	company.GananciasRegimeID = in.GananciasRegimeID
	company.IIBBWithholdingAgent = in.IIBBWithholdingAgent
	company.IIBBPerceptionAgent = in.IIBBPerceptionAgent
	company.UpdatedAt = time.Now()
	if err := uc.repo.Update(company); err != nil {
		return nil, err
	}
	return toCompanyResponse(company), nil
}
