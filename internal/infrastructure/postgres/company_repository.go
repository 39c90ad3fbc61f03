package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/tu-usuario/retencion-ar/internal/domain"
	"github.com/tu-usuario/retencion-ar/internal/domain/entity"
	"github.com/tu-usuario/retencion-ar/internal/domain/repository"
)

var _ repository.CompanyRepository = (*CompanyRepo)(nil)

// CompanyRepo implementación de CompanyRepository (usable con pool o tx).
type CompanyRepo struct {
	q Querier
}

// NewCompanyRepository construye el adaptador. Pasar pool o tx (Querier).
func NewCompanyRepository(q Querier) *CompanyRepo {
	return &CompanyRepo{q: q}
}

// Create persiste una nueva empresa.
func (r *CompanyRepo) Create(company *entity.Company) error {
	query := `
		INSERT INTO companies (id, name, cuit, address, subdivision,
			ganancias_withholding_agent, ganancias_regime_id,
			iibb_withholding_agent, iibb_perception_agent,
			status, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)`
	_, err := r.q.Exec(context.Background(), query,
		company.ID, company.Name, company.CUIT, company.Address, nullIfEmpty(company.Subdivision),
		company.GananciasWithholdingAgent, nullIfEmpty(company.GananciasRegimeID),
		company.IIBBWithholdingAgent, company.IIBBPerceptionAgent,
		company.Status, company.CreatedAt, company.UpdatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrDuplicate
		}
		return fmt.Errorf("insert company: %w", err)
	}
	return nil
}

// GetByID obtiene una empresa por ID.
func (r *CompanyRepo) GetByID(id string) (*entity.Company, error) {
	query := `
		SELECT id, name, cuit, address, COALESCE(subdivision, ''),
			ganancias_withholding_agent, COALESCE(ganancias_regime_id, ''),
			iibb_withholding_agent, iibb_perception_agent,
			status, created_at, updated_at
		FROM companies WHERE id = $1`
	var c entity.Company
	err := r.q.QueryRow(context.Background(), query, id).Scan(
		&c.ID, &c.Name, &c.CUIT, &c.Address, &c.Subdivision,
		&c.GananciasWithholdingAgent, &c.GananciasRegimeID,
		&c.IIBBWithholdingAgent, &c.IIBBPerceptionAgent,
		&c.Status, &c.CreatedAt, &c.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get company: %w", err)
	}
	return &c, nil
}

// Update actualiza los datos y designaciones de agente de la empresa.
func (r *CompanyRepo) Update(company *entity.Company) error {
	query := `
		UPDATE companies SET name = $2, cuit = $3, address = $4, subdivision = $5,
			ganancias_withholding_agent = $6, ganancias_regime_id = $7,
			iibb_withholding_agent = $8, iibb_perception_agent = $9,
			status = $10, updated_at = $11
		WHERE id = $1`
	_, err := r.q.Exec(context.Background(), query,
		company.ID, company.Name, company.CUIT, company.Address, nullIfEmpty(company.Subdivision),
		company.GananciasWithholdingAgent, nullIfEmpty(company.GananciasRegimeID),
		company.IIBBWithholdingAgent, company.IIBBPerceptionAgent,
		company.Status, company.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("update company: %w", err)
	}
	return nil
}
