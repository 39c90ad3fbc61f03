package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/tu-usuario/retencion-ar/internal/domain"
	"github.com/tu-usuario/retencion-ar/internal/domain/entity"
	"github.com/tu-usuario/retencion-ar/internal/domain/repository"
)

var _ repository.PartyRepository = (*PartyRepo)(nil)

// PartyRepo implementación de PartyRepository (usable con pool o tx).
type PartyRepo struct {
	q Querier
}

// NewPartyRepository construye el adaptador. Pasar pool o tx (Querier).
func NewPartyRepository(q Querier) *PartyRepo {
	return &PartyRepo{q: q}
}

const partyColumns = `id, company_id, name, cuit, document_type_code,
	COALESCE(ganancias_condition, ''), COALESCE(iva_condition, ''), COALESCE(iibb_condition, ''),
	bienes_inscripto, COALESCE(ganancias_regime_id, ''), COALESCE(iva_regime_id, ''),
	created_at, updated_at`

// Create persiste un tercero con exenciones y regímenes IIBB.
func (r *PartyRepo) Create(party *entity.Party) error {
	query := `
		INSERT INTO parties (id, company_id, name, cuit, document_type_code,
			ganancias_condition, iva_condition, iibb_condition, bienes_inscripto,
			ganancias_regime_id, iva_regime_id, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13)`
	_, err := r.q.Exec(context.Background(), query,
		party.ID, party.CompanyID, party.Name, party.CUIT, party.DocumentTypeCode,
		nullIfEmpty(party.GananciasCondition), nullIfEmpty(party.IVACondition), nullIfEmpty(party.IIBBCondition),
		party.BienesInscripto, nullIfEmpty(party.GananciasRegimeID), nullIfEmpty(party.IVARegimeID),
		party.CreatedAt, party.UpdatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrDuplicate
		}
		return fmt.Errorf("insert party: %w", err)
	}
	if err := r.ReplaceExemptions(party.ID, party.Exemptions); err != nil {
		return err
	}
	return r.ReplaceIIBBRegimes(party.ID, party.IIBBRegimes)
}

func scanParty(row pgx.Row) (*entity.Party, error) {
	var p entity.Party
	err := row.Scan(
		&p.ID, &p.CompanyID, &p.Name, &p.CUIT, &p.DocumentTypeCode,
		&p.GananciasCondition, &p.IVACondition, &p.IIBBCondition,
		&p.BienesInscripto, &p.GananciasRegimeID, &p.IVARegimeID,
		&p.CreatedAt, &p.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &p, nil
}

// GetByID obtiene el tercero con exenciones y regímenes IIBB cargados.
func (r *PartyRepo) GetByID(id string) (*entity.Party, error) {
	query := fmt.Sprintf(`SELECT %s FROM parties WHERE id = $1`, partyColumns)
	party, err := scanParty(r.q.QueryRow(context.Background(), query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get party: %w", err)
	}
	if err := r.loadChildren(party); err != nil {
		return nil, err
	}
	return party, nil
}

// GetByCUIT obtiene el tercero por CUIT dentro de la empresa.
func (r *PartyRepo) GetByCUIT(companyID, cuit string) (*entity.Party, error) {
	query := fmt.Sprintf(`SELECT %s FROM parties WHERE company_id = $1 AND cuit = $2`, partyColumns)
	party, err := scanParty(r.q.QueryRow(context.Background(), query, companyID, cuit))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get party by cuit: %w", err)
	}
	if err := r.loadChildren(party); err != nil {
		return nil, err
	}
	return party, nil
}

// ListByCompany lista terceros de la empresa con paginación.
func (r *PartyRepo) ListByCompany(companyID string, limit, offset int) ([]*entity.Party, error) {
	query := fmt.Sprintf(`
		SELECT %s FROM parties WHERE company_id = $1 ORDER BY name LIMIT $2 OFFSET $3`, partyColumns)
	rows, err := r.q.Query(context.Background(), query, companyID, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("list parties: %w", err)
	}
	defer rows.Close()
	var list []*entity.Party
	for rows.Next() {
		party, err := scanParty(rows)
		if err != nil {
			return nil, fmt.Errorf("scan party: %w", err)
		}
		list = append(list, party)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	for _, party := range list {
		if err := r.loadChildren(party); err != nil {
			return nil, err
		}
	}
	return list, nil
}

func (r *PartyRepo) loadChildren(party *entity.Party) error {
	ctx := context.Background()

	rows, err := r.q.Query(ctx, `
		SELECT id, party_id, kind, regime_id, end_date
		FROM party_exemptions WHERE party_id = $1 ORDER BY end_date`, party.ID)
	if err != nil {
		return fmt.Errorf("load exemptions: %w", err)
	}
	party.Exemptions = nil
	for rows.Next() {
		var e entity.PartyExemption
		if err := rows.Scan(&e.ID, &e.PartyID, &e.Kind, &e.RegimeID, &e.EndDate); err != nil {
			rows.Close()
			return fmt.Errorf("scan exemption: %w", err)
		}
		party.Exemptions = append(party.Exemptions, e)
	}
	rows.Close()
	if err := rows.Err(); err != nil {
		return err
	}

	rows, err = r.q.Query(ctx, `
		SELECT id, party_id, COALESCE(withholding_regime_id, ''), withholding_rate,
			COALESCE(perception_regime_id, ''), perception_rate
		FROM party_iibb_regimes WHERE party_id = $1`, party.ID)
	if err != nil {
		return fmt.Errorf("load iibb regimes: %w", err)
	}
	defer rows.Close()
	party.IIBBRegimes = nil
	for rows.Next() {
		var g entity.PartyIIBBRegime
		if err := rows.Scan(&g.ID, &g.PartyID, &g.WithholdingRegimeID, &g.WithholdingRate,
			&g.PerceptionRegimeID, &g.PerceptionRate); err != nil {
			return fmt.Errorf("scan iibb regime: %w", err)
		}
		party.IIBBRegimes = append(party.IIBBRegimes, g)
	}
	return rows.Err()
}

// Update actualiza los datos fiscales del tercero (no toca hijos).
func (r *PartyRepo) Update(party *entity.Party) error {
	query := `
		UPDATE parties SET name = $2, cuit = $3, document_type_code = $4,
			ganancias_condition = $5, iva_condition = $6, iibb_condition = $7,
			bienes_inscripto = $8, ganancias_regime_id = $9, iva_regime_id = $10, updated_at = $11
		WHERE id = $1`
	_, err := r.q.Exec(context.Background(), query,
		party.ID, party.Name, party.CUIT, party.DocumentTypeCode,
		nullIfEmpty(party.GananciasCondition), nullIfEmpty(party.IVACondition), nullIfEmpty(party.IIBBCondition),
		party.BienesInscripto, nullIfEmpty(party.GananciasRegimeID), nullIfEmpty(party.IVARegimeID),
		party.UpdatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrDuplicate
		}
		return fmt.Errorf("update party: %w", err)
	}
	return nil
}

// Delete elimina un tercero con sus exenciones y regímenes IIBB.
func (r *PartyRepo) Delete(id string) error {
	ctx := context.Background()
	if _, err := r.q.Exec(ctx, `DELETE FROM party_exemptions WHERE party_id = $1`, id); err != nil {
		return fmt.Errorf("delete exemptions: %w", err)
	}
	if _, err := r.q.Exec(ctx, `DELETE FROM party_iibb_regimes WHERE party_id = $1`, id); err != nil {
		return fmt.Errorf("delete iibb regimes: %w", err)
	}
	if _, err := r.q.Exec(ctx, `DELETE FROM parties WHERE id = $1`, id); err != nil {
		return fmt.Errorf("delete party: %w", err)
	}
	return nil
}

// ReplaceExemptions reemplaza las exenciones del tercero de forma atómica.
func (r *PartyRepo) ReplaceExemptions(partyID string, exemptions []entity.PartyExemption) error {
	ctx := context.Background()
	if _, err := r.q.Exec(ctx, `DELETE FROM party_exemptions WHERE party_id = $1`, partyID); err != nil {
		return fmt.Errorf("delete exemptions: %w", err)
	}
	for _, e := range exemptions {
		id := e.ID
		if id == "" {
			id = uuid.New().String()
		}
		_, err := r.q.Exec(ctx, `
			INSERT INTO party_exemptions (id, party_id, kind, regime_id, end_date)
			VALUES ($1, $2, $3, $4, $5)`,
			id, partyID, e.Kind, e.RegimeID, e.EndDate,
		)
		if err != nil {
			return fmt.Errorf("insert exemption: %w", err)
		}
	}
	return nil
}

// ReplaceIIBBRegimes reemplaza las jurisdicciones IIBB del tercero.
func (r *PartyRepo) ReplaceIIBBRegimes(partyID string, regimes []entity.PartyIIBBRegime) error {
	ctx := context.Background()
	if _, err := r.q.Exec(ctx, `DELETE FROM party_iibb_regimes WHERE party_id = $1`, partyID); err != nil {
		return fmt.Errorf("delete iibb regimes: %w", err)
	}
	for _, g := range regimes {
		id := g.ID
		if id == "" {
			id = uuid.New().String()
		}
		_, err := r.q.Exec(ctx, `
			INSERT INTO party_iibb_regimes (id, party_id, withholding_regime_id, withholding_rate,
				perception_regime_id, perception_rate)
			VALUES ($1, $2, $3, $4, $5, $6)`,
			id, partyID, nullIfEmpty(g.WithholdingRegimeID), g.WithholdingRate,
			nullIfEmpty(g.PerceptionRegimeID), g.PerceptionRate,
		)
		if err != nil {
			return fmt.Errorf("insert iibb regime: %w", err)
		}
	}
	return nil
}
