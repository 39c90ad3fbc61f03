package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/tu-usuario/retencion-ar/internal/domain"
	"github.com/tu-usuario/retencion-ar/internal/domain/entity"
	"github.com/tu-usuario/retencion-ar/internal/domain/repository"
)

var _ repository.WithholdingRepository = (*WithholdingRepo)(nil)

// WithholdingRepo implementación de WithholdingRepository (usable con pool o tx).
type WithholdingRepo struct {
	q Querier
}

// NewWithholdingRepository construye el adaptador. Pasar pool o tx (Querier).
func NewWithholdingRepository(q Querier) *WithholdingRepo {
	return &WithholdingRepo{q: q}
}

const withholdingColumns = `id, company_id, COALESCE(voucher_id, ''), COALESCE(invoice_id, ''),
	COALESCE(party_id, ''), regime_id, kind, COALESCE(number, ''), date, state,
	payment_amount, accumulated_amount, minimum_non_taxable, taxable_amount, rate,
	scale_fixed_amount, computed_amount, minimum_withholdable, accumulated_withheld, amount,
	created_at, updated_at`

// Create persiste una línea con su traza de cálculo completa.
func (r *WithholdingRepo) Create(w *entity.Withholding) error {
	query := `
		INSERT INTO withholdings (id, company_id, voucher_id, invoice_id, party_id, regime_id,
			kind, number, date, state,
			payment_amount, accumulated_amount, minimum_non_taxable, taxable_amount, rate,
			scale_fixed_amount, computed_amount, minimum_withholdable, accumulated_withheld, amount,
			created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10,
			$11, $12, $13, $14, $15, $16, $17, $18, $19, $20, $21, $22)`
	_, err := r.q.Exec(context.Background(), query,
		w.ID, w.CompanyID, nullIfEmpty(w.VoucherID), nullIfEmpty(w.InvoiceID),
		nullIfEmpty(w.PartyID), w.RegimeID, w.Kind, nullIfEmpty(w.Number), w.Date, w.State,
		w.PaymentAmount, w.AccumulatedAmount, w.MinimumNonTaxable, w.TaxableAmount, w.Rate,
		w.ScaleFixedAmount, w.ComputedAmount, w.MinimumWithholdable, w.AccumulatedWithheld, w.Amount,
		w.CreatedAt, w.UpdatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrDuplicate
		}
		return fmt.Errorf("insert withholding: %w", err)
	}
	return nil
}

func scanWithholding(row pgx.Row) (*entity.Withholding, error) {
	var w entity.Withholding
	err := row.Scan(
		&w.ID, &w.CompanyID, &w.VoucherID, &w.InvoiceID, &w.PartyID, &w.RegimeID,
		&w.Kind, &w.Number, &w.Date, &w.State,
		&w.PaymentAmount, &w.AccumulatedAmount, &w.MinimumNonTaxable, &w.TaxableAmount, &w.Rate,
		&w.ScaleFixedAmount, &w.ComputedAmount, &w.MinimumWithholdable, &w.AccumulatedWithheld, &w.Amount,
		&w.CreatedAt, &w.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &w, nil
}

// GetByID obtiene una línea por ID.
func (r *WithholdingRepo) GetByID(id string) (*entity.Withholding, error) {
	query := fmt.Sprintf(`SELECT %s FROM withholdings WHERE id = $1`, withholdingColumns)
	w, err := scanWithholding(r.q.QueryRow(context.Background(), query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get withholding: %w", err)
	}
	return w, nil
}

// ListByVoucher lista las líneas de un comprobante.
func (r *WithholdingRepo) ListByVoucher(voucherID string) ([]*entity.Withholding, error) {
	query := fmt.Sprintf(`SELECT %s FROM withholdings WHERE voucher_id = $1 ORDER BY created_at`, withholdingColumns)
	return r.list(query, voucherID)
}

// ListByInvoice lista las líneas de una factura.
func (r *WithholdingRepo) ListByInvoice(invoiceID string) ([]*entity.Withholding, error) {
	query := fmt.Sprintf(`SELECT %s FROM withholdings WHERE invoice_id = $1 ORDER BY created_at`, withholdingColumns)
	return r.list(query, invoiceID)
}

// ListByCompany lista con filtros dinámicos. Limit negativo trae todo.
func (r *WithholdingRepo) ListByCompany(companyID string, filter repository.WithholdingFilter) ([]*entity.Withholding, error) {
	query := fmt.Sprintf(`SELECT %s FROM withholdings WHERE company_id = $1`, withholdingColumns)
	args := []any{companyID}

	add := func(condition string, value any) {
		args = append(args, value)
		query += fmt.Sprintf(" AND %s $%d", condition, len(args))
	}
	if filter.PartyID != "" {
		add("party_id =", filter.PartyID)
	}
	if filter.RegimeID != "" {
		add("regime_id =", filter.RegimeID)
	}
	if filter.State != "" {
		add("state =", filter.State)
	}
	if filter.Kind != "" {
		add("kind =", filter.Kind)
	}
	if !filter.From.IsZero() {
		add("date >=", filter.From)
	}
	if !filter.To.IsZero() {
		add("date <=", filter.To)
	}
	query += " ORDER BY date, number"
	if filter.Limit > 0 {
		args = append(args, filter.Limit, filter.Offset)
		query += fmt.Sprintf(" LIMIT $%d OFFSET $%d", len(args)-1, len(args))
	}
	return r.list(query, args...)
}

// SumIssuedByPartyPeriodRegime acumulados de las líneas emitidas/en cartera
// del tercero por régimen dentro del período, excluyendo un comprobante.
func (r *WithholdingRepo) SumIssuedByPartyPeriodRegime(companyID, partyID string, from, to time.Time, excludeVoucherID string) (map[string]repository.SumResult, error) {
	query := `
		SELECT regime_id, COALESCE(SUM(payment_amount), 0), COALESCE(SUM(amount), 0)
		FROM withholdings
		WHERE company_id = $1 AND party_id = $2
			AND state IN ('issued', 'held')
			AND date >= $3 AND date <= $4
			AND (voucher_id IS NULL OR voucher_id <> $5)
		GROUP BY regime_id`
	rows, err := r.q.Query(context.Background(), query, companyID, partyID, from, to, excludeVoucherID)
	if err != nil {
		return nil, fmt.Errorf("sum withholdings: %w", err)
	}
	defer rows.Close()
	out := make(map[string]repository.SumResult)
	for rows.Next() {
		var regimeID string
		var sum repository.SumResult
		if err := rows.Scan(&regimeID, &sum.Base, &sum.Amount); err != nil {
			return nil, fmt.Errorf("scan sum: %w", err)
		}
		out[regimeID] = sum
	}
	return out, rows.Err()
}

// ListIssuedForExport líneas emitidas de las familias pedidas en el rango,
// ordenadas por fecha y número (orden del archivo SICORE). Las líneas held
// (retenciones sufridas, certificadas por otro agente) no se informan.
func (r *WithholdingRepo) ListIssuedForExport(companyID string, from, to time.Time, taxFamilies, regimeIDs []string) ([]*entity.Withholding, error) {
	query := fmt.Sprintf(`
		SELECT %s FROM withholdings
		WHERE company_id = $1
			AND state = 'issued'
			AND date >= $2 AND date <= $3
			AND regime_id IN (SELECT id FROM regimes WHERE tax = ANY($4))`, withholdingColumns)
	args := []any{companyID, from, to, taxFamilies}
	if len(regimeIDs) > 0 {
		args = append(args, regimeIDs)
		query += fmt.Sprintf(" AND regime_id = ANY($%d)", len(args))
	}
	query += " ORDER BY date, number"
	return r.list(query, args...)
}

func (r *WithholdingRepo) list(query string, args ...any) ([]*entity.Withholding, error) {
	rows, err := r.q.Query(context.Background(), query, args...)
	if err != nil {
		return nil, fmt.Errorf("list withholdings: %w", err)
	}
	defer rows.Close()
	var list []*entity.Withholding
	for rows.Next() {
		w, err := scanWithholding(rows)
		if err != nil {
			return nil, fmt.Errorf("scan withholding: %w", err)
		}
		list = append(list, w)
	}
	return list, rows.Err()
}

// Update actualiza una línea completa.
func (r *WithholdingRepo) Update(w *entity.Withholding) error {
	query := `
		UPDATE withholdings SET voucher_id = $2, invoice_id = $3, party_id = $4, regime_id = $5,
			kind = $6, number = $7, date = $8, state = $9,
			payment_amount = $10, accumulated_amount = $11, minimum_non_taxable = $12,
			taxable_amount = $13, rate = $14, scale_fixed_amount = $15, computed_amount = $16,
			minimum_withholdable = $17, accumulated_withheld = $18, amount = $19, updated_at = $20
		WHERE id = $1`
	_, err := r.q.Exec(context.Background(), query,
		w.ID, nullIfEmpty(w.VoucherID), nullIfEmpty(w.InvoiceID), nullIfEmpty(w.PartyID), w.RegimeID,
		w.Kind, nullIfEmpty(w.Number), w.Date, w.State,
		w.PaymentAmount, w.AccumulatedAmount, w.MinimumNonTaxable,
		w.TaxableAmount, w.Rate, w.ScaleFixedAmount, w.ComputedAmount,
		w.MinimumWithholdable, w.AccumulatedWithheld, w.Amount, w.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("update withholding: %w", err)
	}
	return nil
}

// DeleteDraftByVoucher borra las líneas en borrador del voucher.
func (r *WithholdingRepo) DeleteDraftByVoucher(voucherID string) error {
	_, err := r.q.Exec(context.Background(),
		`DELETE FROM withholdings WHERE voucher_id = $1 AND state = 'draft'`, voucherID)
	if err != nil {
		return fmt.Errorf("delete draft withholdings: %w", err)
	}
	return nil
}

// DeleteDraftByInvoice borra las líneas en borrador de la factura.
func (r *WithholdingRepo) DeleteDraftByInvoice(invoiceID string) error {
	_, err := r.q.Exec(context.Background(),
		`DELETE FROM withholdings WHERE invoice_id = $1 AND state = 'draft'`, invoiceID)
	if err != nil {
		return fmt.Errorf("delete draft perceptions: %w", err)
	}
	return nil
}

// Delete elimina una línea por ID. El guardado de ciclo de vida vive en el
// caso de uso; acá solo se ejecuta.
func (r *WithholdingRepo) Delete(id string) error {
	_, err := r.q.Exec(context.Background(), `DELETE FROM withholdings WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete withholding: %w", err)
	}
	return nil
}
