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

var _ repository.RegimeRepository = (*RegimeRepo)(nil)

// RegimeRepo implementación de RegimeRepository (usable con pool o tx).
type RegimeRepo struct {
	q Querier
}

// NewRegimeRepository construye el adaptador. Pasar pool o tx (Querier).
func NewRegimeRepository(q Querier) *RegimeRepo {
	return &RegimeRepo{q: q}
}

const regimeColumns = `id, company_id, name, kind, tax, COALESCE(subdivision, ''),
	COALESCE(account_id, ''), regime_code, minimum_non_taxable, minimum_withholdable,
	rate_registered, rate_non_registered, created_at, updated_at`

// Create persiste un régimen con sus escalas.
func (r *RegimeRepo) Create(regime *entity.Regime) error {
	query := `
		INSERT INTO regimes (id, company_id, name, kind, tax, subdivision, account_id,
			regime_code, minimum_non_taxable, minimum_withholdable,
			rate_registered, rate_non_registered, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14)`
	_, err := r.q.Exec(context.Background(), query,
		regime.ID, regime.CompanyID, regime.Name, regime.Kind, regime.Tax,
		nullIfEmpty(regime.Subdivision), nullIfEmpty(regime.AccountID),
		regime.RegimeCode, regime.MinimumNonTaxable, regime.MinimumWithholdable,
		regime.RateRegistered, regime.RateNonRegistered, regime.CreatedAt, regime.UpdatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrDuplicate
		}
		return fmt.Errorf("insert regime: %w", err)
	}
	return r.ReplaceScales(regime.ID, regime.Scales)
}

func scanRegime(row pgx.Row) (*entity.Regime, error) {
	var g entity.Regime
	err := row.Scan(
		&g.ID, &g.CompanyID, &g.Name, &g.Kind, &g.Tax, &g.Subdivision,
		&g.AccountID, &g.RegimeCode, &g.MinimumNonTaxable, &g.MinimumWithholdable,
		&g.RateRegistered, &g.RateNonRegistered, &g.CreatedAt, &g.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &g, nil
}

// GetByID obtiene un régimen con sus escalas.
func (r *RegimeRepo) GetByID(id string) (*entity.Regime, error) {
	query := fmt.Sprintf(`SELECT %s FROM regimes WHERE id = $1`, regimeColumns)
	regime, err := scanRegime(r.q.QueryRow(context.Background(), query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get regime: %w", err)
	}
	if err := r.loadScales(regime); err != nil {
		return nil, err
	}
	return regime, nil
}

// ListByCompany lista regímenes de la empresa con escalas cargadas.
func (r *RegimeRepo) ListByCompany(companyID string, limit, offset int) ([]*entity.Regime, error) {
	query := fmt.Sprintf(`
		SELECT %s FROM regimes WHERE company_id = $1
		ORDER BY name LIMIT $2 OFFSET $3`, regimeColumns)
	return r.list(query, companyID, limit, offset)
}

// ListByCompanyAndTax lista regímenes por familia de impuesto y sentido.
func (r *RegimeRepo) ListByCompanyAndTax(companyID, tax, kind string) ([]*entity.Regime, error) {
	query := fmt.Sprintf(`
		SELECT %s FROM regimes WHERE company_id = $1 AND tax = $2 AND kind = $3
		ORDER BY name`, regimeColumns)
	return r.list(query, companyID, tax, kind)
}

func (r *RegimeRepo) list(query string, args ...any) ([]*entity.Regime, error) {
	rows, err := r.q.Query(context.Background(), query, args...)
	if err != nil {
		return nil, fmt.Errorf("list regimes: %w", err)
	}
	defer rows.Close()
	var list []*entity.Regime
	for rows.Next() {
		regime, err := scanRegime(rows)
		if err != nil {
			return nil, fmt.Errorf("scan regime: %w", err)
		}
		list = append(list, regime)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	for _, regime := range list {
		if err := r.loadScales(regime); err != nil {
			return nil, err
		}
	}
	return list, nil
}

func (r *RegimeRepo) loadScales(regime *entity.Regime) error {
	query := `
		SELECT id, regime_id, start_amount, end_amount, rate, fixed_amount, minimum_non_taxable
		FROM regime_scales WHERE regime_id = $1 ORDER BY start_amount`
	rows, err := r.q.Query(context.Background(), query, regime.ID)
	if err != nil {
		return fmt.Errorf("load scales: %w", err)
	}
	defer rows.Close()
	regime.Scales = nil
	for rows.Next() {
		var t entity.ScaleTier
		if err := rows.Scan(&t.ID, &t.RegimeID, &t.StartAmount, &t.EndAmount, &t.Rate, &t.FixedAmount, &t.MinimumNonTaxable); err != nil {
			return fmt.Errorf("scan scale: %w", err)
		}
		regime.Scales = append(regime.Scales, t)
	}
	return rows.Err()
}

// Update actualiza un régimen (no toca las escalas; usar ReplaceScales).
func (r *RegimeRepo) Update(regime *entity.Regime) error {
	query := `
		UPDATE regimes SET name = $2, kind = $3, tax = $4, subdivision = $5, account_id = $6,
			regime_code = $7, minimum_non_taxable = $8, minimum_withholdable = $9,
			rate_registered = $10, rate_non_registered = $11, updated_at = $12
		WHERE id = $1`
	_, err := r.q.Exec(context.Background(), query,
		regime.ID, regime.Name, regime.Kind, regime.Tax,
		nullIfEmpty(regime.Subdivision), nullIfEmpty(regime.AccountID),
		regime.RegimeCode, regime.MinimumNonTaxable, regime.MinimumWithholdable,
		regime.RateRegistered, regime.RateNonRegistered, regime.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("update regime: %w", err)
	}
	return nil
}

// Delete elimina un régimen y sus escalas.
func (r *RegimeRepo) Delete(id string) error {
	ctx := context.Background()
	if _, err := r.q.Exec(ctx, `DELETE FROM regime_scales WHERE regime_id = $1`, id); err != nil {
		return fmt.Errorf("delete scales: %w", err)
	}
	if _, err := r.q.Exec(ctx, `DELETE FROM regimes WHERE id = $1`, id); err != nil {
		return fmt.Errorf("delete regime: %w", err)
	}
	return nil
}

// ReplaceScales reemplaza las escalas del régimen de forma atómica.
func (r *RegimeRepo) ReplaceScales(regimeID string, scales []entity.ScaleTier) error {
	ctx := context.Background()
	if _, err := r.q.Exec(ctx, `DELETE FROM regime_scales WHERE regime_id = $1`, regimeID); err != nil {
		return fmt.Errorf("delete scales: %w", err)
	}
	for _, t := range scales {
		id := t.ID
		if id == "" {
			id = uuid.New().String()
		}
		_, err := r.q.Exec(ctx, `
			INSERT INTO regime_scales (id, regime_id, start_amount, end_amount, rate, fixed_amount, minimum_non_taxable)
			VALUES ($1, $2, $3, $4, $5, $6, $7)`,
			id, regimeID, t.StartAmount, t.EndAmount, t.Rate, t.FixedAmount, t.MinimumNonTaxable,
		)
		if err != nil {
			return fmt.Errorf("insert scale: %w", err)
		}
	}
	return nil
}

// GetSequence obtiene la secuencia de numeración del régimen para la empresa.
func (r *RegimeRepo) GetSequence(regimeID, companyID string) (*entity.RegimeSequence, error) {
	query := `
		SELECT id, regime_id, company_id, COALESCE(prefix, ''), next_number, padding
		FROM regime_sequences WHERE regime_id = $1 AND company_id = $2`
	var s entity.RegimeSequence
	err := r.q.QueryRow(context.Background(), query, regimeID, companyID).Scan(
		&s.ID, &s.RegimeID, &s.CompanyID, &s.Prefix, &s.NextNumber, &s.Padding,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get sequence: %w", err)
	}
	return &s, nil
}

// NextNumber consume y devuelve el próximo número de la secuencia del régimen.
// El UPDATE ... RETURNING sobre la fila serializa la numeración dentro de la tx.
func (r *RegimeRepo) NextNumber(regimeID, companyID string) (string, error) {
	query := `
		UPDATE regime_sequences SET next_number = next_number + 1
		WHERE regime_id = $1 AND company_id = $2
		RETURNING COALESCE(prefix, ''), next_number - 1, padding`
	var prefix string
	var number int64
	var padding int
	err := r.q.QueryRow(context.Background(), query, regimeID, companyID).Scan(&prefix, &number, &padding)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return "", domain.ErrNotFound
		}
		return "", fmt.Errorf("next number: %w", err)
	}
	return fmt.Sprintf("%s%0*d", prefix, padding, number), nil
}
