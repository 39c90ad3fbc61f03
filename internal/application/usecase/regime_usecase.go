package usecase

import (
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/tu-usuario/retencion-ar/internal/application/dto"
	"github.com/tu-usuario/retencion-ar/internal/domain"
	"github.com/tu-usuario/retencion-ar/internal/domain/entity"
	"github.com/tu-usuario/retencion-ar/internal/domain/repository"
)

// RegimeUseCase casos de uso CRUD para regímenes de retención/percepción.
type RegimeUseCase struct {
	repo repository.RegimeRepository
}

// NewRegimeUseCase construye el caso de uso.
func NewRegimeUseCase(repo repository.RegimeRepository) *RegimeUseCase {
	return &RegimeUseCase{repo: repo}
}

func validRegimeInput(in dto.CreateRegimeRequest) error {
	if in.Name == "" {
		return fmt.Errorf("%w: name es requerido", domain.ErrInvalidInput)
	}
	switch in.Kind {
	case entity.RegimeKindEfectuada, entity.RegimeKindSoportada:
	default:
		return fmt.Errorf("%w: kind debe ser efectuada o soportada", domain.ErrInvalidInput)
	}
	switch in.Tax {
	case entity.TaxGanancias, entity.TaxIIBB, entity.TaxIVA, entity.TaxBienes, entity.TaxOther:
	default:
		return fmt.Errorf("%w: tax inválido", domain.ErrInvalidInput)
	}
	if in.Tax == entity.TaxIIBB && in.Subdivision == "" {
		return fmt.Errorf("%w: los regímenes IIBB requieren jurisdicción", domain.ErrInvalidInput)
	}
	for _, t := range in.Scales {
		if t.EndAmount.LessThan(t.StartAmount) {
			return fmt.Errorf("%w: tramo de escala invertido", domain.ErrInvalidInput)
		}
	}
	return nil
}

func toScaleTiers(in []dto.ScaleTierRequest) []entity.ScaleTier {
	out := make([]entity.ScaleTier, 0, len(in))
	for _, t := range in {
		out = append(out, entity.ScaleTier{
			StartAmount:       t.StartAmount,
			EndAmount:         t.EndAmount,
			Rate:              t.Rate,
			FixedAmount:       t.FixedAmount,
			MinimumNonTaxable: t.MinimumNonTaxable,
		})
	}
	return out
}

func toRegimeResponse(r *entity.Regime) *dto.RegimeResponse {
	out := &dto.RegimeResponse{
		ID:                  r.ID,
		CompanyID:           r.CompanyID,
		Name:                r.Name,
		Kind:                r.Kind,
		Tax:                 r.Tax,
		Subdivision:         r.Subdivision,
		AccountID:           r.AccountID,
		RegimeCode:          r.RegimeCode,
		MinimumNonTaxable:   r.MinimumNonTaxable,
		MinimumWithholdable: r.MinimumWithholdable,
		RateRegistered:      r.RateRegistered,
		RateNonRegistered:   r.RateNonRegistered,
	}
	for _, t := range r.Scales {
		out.Scales = append(out.Scales, dto.ScaleTierResponse{
			StartAmount:       t.StartAmount,
			EndAmount:         t.EndAmount,
			Rate:              t.Rate,
			FixedAmount:       t.FixedAmount,
			MinimumNonTaxable: t.MinimumNonTaxable,
		})
	}
	return out
}

// Create crea un régimen con sus escalas.
func (uc *RegimeUseCase) Create(companyID string, in dto.CreateRegimeRequest) (*dto.RegimeResponse, error) {
	if err := validRegimeInput(in); err != nil {
		return nil, err
	}
	now := time.Now()
	regime := &entity.Regime{
		ID:                  uuid.New().String(),
		CompanyID:           companyID,
		Name:                in.Name,
		Kind:                in.Kind,
		Tax:                 in.Tax,
		Subdivision:         in.Subdivision,
		AccountID:           in.AccountID,
		RegimeCode:          in.RegimeCode,
		MinimumNonTaxable:   in.MinimumNonTaxable,
		MinimumWithholdable: in.MinimumWithholdable,
		RateRegistered:      in.RateRegistered,
		RateNonRegistered:   in.RateNonRegistered,
		Scales:              toScaleTiers(in.Scales),
		CreatedAt:           now,
		UpdatedAt:           now,
	}
	if err := uc.repo.Create(regime); err != nil {
		return nil, err
	}
	return toRegimeResponse(regime), nil
}

// GetByID obtiene un régimen por ID, acotado a la empresa.
func (uc *RegimeUseCase) GetByID(companyID, id string) (*dto.RegimeResponse, error) {
	regime, err := uc.repo.GetByID(id)
	if err != nil {
		return nil, err
	}
	if regime == nil || regime.CompanyID != companyID {
		return nil, nil
	}
	return toRegimeResponse(regime), nil
}

// Update actualiza un régimen y reemplaza sus escalas.
func (uc *RegimeUseCase) Update(companyID, id string, in dto.UpdateRegimeRequest) (*dto.RegimeResponse, error) {
	if err := validRegimeInput(in); err != nil {
		return nil, err
	}
	regime, err := uc.repo.GetByID(id)
	if err != nil {
		return nil, err
	}
	if regime == nil || regime.CompanyID != companyID {
		return nil, nil
	}
	regime.Name = in.Name
	regime.Kind = in.Kind
	regime.Tax = in.Tax
	regime.Subdivision = in.Subdivision
	regime.AccountID = in.AccountID
	regime.RegimeCode = in.RegimeCode
	regime.MinimumNonTaxable = in.MinimumNonTaxable
	regime.MinimumWithholdable = in.MinimumWithholdable
	regime.RateRegistered = in.RateRegistered
	regime.RateNonRegistered = in.RateNonRegistered
	regime.UpdatedAt = time.Now()
	if err := uc.repo.Update(regime); err != nil {
		return nil, err
	}
	if err := uc.repo.ReplaceScales(regime.ID, toScaleTiers(in.Scales)); err != nil {
		return nil, err
	}
	regime.Scales = toScaleTiers(in.Scales)
	return toRegimeResponse(regime), nil
}

// List lista regímenes por empresa con paginación.
func (uc *RegimeUseCase) List(companyID string, limit, offset int) ([]dto.RegimeResponse, error) {
	list, err := uc.repo.ListByCompany(companyID, limit, offset)
	if err != nil {
		return nil, err
	}
	items := make([]dto.RegimeResponse, 0, len(list))
	for _, r := range list {
		items = append(items, *toRegimeResponse(r))
	}
	return items, nil
}

// Delete elimina un régimen por ID.
func (uc *RegimeUseCase) Delete(companyID, id string) error {
	regime, err := uc.repo.GetByID(id)
	if err != nil {
		return err
	}
	if regime == nil || regime.CompanyID != companyID {
		return domain.ErrNotFound
	}
	return uc.repo.Delete(id)
}
