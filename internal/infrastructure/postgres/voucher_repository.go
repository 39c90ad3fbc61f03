package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/tu-usuario/retencion-ar/internal/domain"
	"github.com/tu-usuario/retencion-ar/internal/domain/entity"
	"github.com/tu-usuario/retencion-ar/internal/domain/repository"
)

var _ repository.VoucherRepository = (*VoucherRepo)(nil)

// VoucherRepo implementación de VoucherRepository (usable con pool o tx).
type VoucherRepo struct {
	q Querier
}

// NewVoucherRepository construye el adaptador. Pasar pool o tx (Querier).
func NewVoucherRepository(q Querier) *VoucherRepo {
	return &VoucherRepo{q: q}
}

const voucherColumns = `id, company_id, party_id, COALESCE(journal_id, ''), COALESCE(number, ''),
	voucher_type, state, COALESCE(currency_code, ''), date, amount, pay_amount, created_at, updated_at`

// Create persiste un comprobante con sus líneas de imputación.
func (r *VoucherRepo) Create(voucher *entity.Voucher) error {
	ctx := context.Background()
	query := `
		INSERT INTO vouchers (id, company_id, party_id, journal_id, number, voucher_type,
			state, currency_code, date, amount, pay_amount, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13)`
	_, err := r.q.Exec(ctx, query,
		voucher.ID, voucher.CompanyID, voucher.PartyID, nullIfEmpty(voucher.JournalID),
		nullIfEmpty(voucher.Number), voucher.VoucherType, voucher.State,
		nullIfEmpty(voucher.CurrencyCode), voucher.Date, voucher.Amount, voucher.PayAmount,
		voucher.CreatedAt, voucher.UpdatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrDuplicate
		}
		return fmt.Errorf("insert voucher: %w", err)
	}
	for _, l := range voucher.Lines {
		id := l.ID
		if id == "" {
			id = uuid.New().String()
		}
		_, err := r.q.Exec(ctx, `
			INSERT INTO voucher_lines (id, voucher_id, invoice_id, amount)
			VALUES ($1, $2, $3, $4)`,
			id, voucher.ID, l.InvoiceID, l.Amount,
		)
		if err != nil {
			return fmt.Errorf("insert voucher line: %w", err)
		}
	}
	return nil
}

func scanVoucher(row pgx.Row) (*entity.Voucher, error) {
	var v entity.Voucher
	err := row.Scan(
		&v.ID, &v.CompanyID, &v.PartyID, &v.JournalID, &v.Number,
		&v.VoucherType, &v.State, &v.CurrencyCode, &v.Date, &v.Amount, &v.PayAmount,
		&v.CreatedAt, &v.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &v, nil
}

// GetByID obtiene el comprobante con sus líneas.
func (r *VoucherRepo) GetByID(id string) (*entity.Voucher, error) {
	query := fmt.Sprintf(`SELECT %s FROM vouchers WHERE id = $1`, voucherColumns)
	voucher, err := scanVoucher(r.q.QueryRow(context.Background(), query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get voucher: %w", err)
	}
	if err := r.loadLines(voucher); err != nil {
		return nil, err
	}
	return voucher, nil
}

// ListByCompany lista comprobantes de la empresa con paginación.
func (r *VoucherRepo) ListByCompany(companyID string, limit, offset int) ([]*entity.Voucher, error) {
	query := fmt.Sprintf(`
		SELECT %s FROM vouchers WHERE company_id = $1
		ORDER BY date DESC, created_at DESC LIMIT $2 OFFSET $3`, voucherColumns)
	return r.list(query, companyID, limit, offset)
}

// ListPostedByPartyAndPeriod lista comprobantes contabilizados del tercero en
// el rango, con líneas. Alimenta la acumulación del período fiscal.
func (r *VoucherRepo) ListPostedByPartyAndPeriod(companyID, partyID, voucherType string, from, to time.Time) ([]*entity.Voucher, error) {
	query := fmt.Sprintf(`
		SELECT %s FROM vouchers
		WHERE company_id = $1 AND party_id = $2 AND voucher_type = $3
			AND state = 'posted' AND date >= $4 AND date <= $5
		ORDER BY date`, voucherColumns)
	return r.list(query, companyID, partyID, voucherType, from, to)
}

func (r *VoucherRepo) list(query string, args ...any) ([]*entity.Voucher, error) {
	rows, err := r.q.Query(context.Background(), query, args...)
	if err != nil {
		return nil, fmt.Errorf("list vouchers: %w", err)
	}
	defer rows.Close()
	var list []*entity.Voucher
	for rows.Next() {
		voucher, err := scanVoucher(rows)
		if err != nil {
			return nil, fmt.Errorf("scan voucher: %w", err)
		}
		list = append(list, voucher)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	for _, voucher := range list {
		if err := r.loadLines(voucher); err != nil {
			return nil, err
		}
	}
	return list, nil
}

func (r *VoucherRepo) loadLines(voucher *entity.Voucher) error {
	rows, err := r.q.Query(context.Background(), `
		SELECT id, voucher_id, invoice_id, amount
		FROM voucher_lines WHERE voucher_id = $1`, voucher.ID)
	if err != nil {
		return fmt.Errorf("load voucher lines: %w", err)
	}
	defer rows.Close()
	voucher.Lines = nil
	for rows.Next() {
		var l entity.VoucherLine
		if err := rows.Scan(&l.ID, &l.VoucherID, &l.InvoiceID, &l.Amount); err != nil {
			return fmt.Errorf("scan voucher line: %w", err)
		}
		voucher.Lines = append(voucher.Lines, l)
	}
	return rows.Err()
}

// Update actualiza la cabecera y reemplaza las líneas.
func (r *VoucherRepo) Update(voucher *entity.Voucher) error {
	ctx := context.Background()
	query := `
		UPDATE vouchers SET party_id = $2, journal_id = $3, number = $4, voucher_type = $5,
			state = $6, currency_code = $7, date = $8, amount = $9, pay_amount = $10, updated_at = $11
		WHERE id = $1`
	_, err := r.q.Exec(ctx, query,
		voucher.ID, voucher.PartyID, nullIfEmpty(voucher.JournalID), nullIfEmpty(voucher.Number),
		voucher.VoucherType, voucher.State, nullIfEmpty(voucher.CurrencyCode),
		voucher.Date, voucher.Amount, voucher.PayAmount, voucher.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("update voucher: %w", err)
	}
	if _, err := r.q.Exec(ctx, `DELETE FROM voucher_lines WHERE voucher_id = $1`, voucher.ID); err != nil {
		return fmt.Errorf("delete voucher lines: %w", err)
	}
	for _, l := range voucher.Lines {
		id := l.ID
		if id == "" {
			id = uuid.New().String()
		}
		_, err := r.q.Exec(ctx, `
			INSERT INTO voucher_lines (id, voucher_id, invoice_id, amount)
			VALUES ($1, $2, $3, $4)`,
			id, voucher.ID, l.InvoiceID, l.Amount,
		)
		if err != nil {
			return fmt.Errorf("insert voucher line: %w", err)
		}
	}
	return nil
}

// UpdateState cambia solo el estado del comprobante.
func (r *VoucherRepo) UpdateState(id, state string) error {
	_, err := r.q.Exec(context.Background(),
		`UPDATE vouchers SET state = $2, updated_at = now() WHERE id = $1`, id, state)
	if err != nil {
		return fmt.Errorf("update voucher state: %w", err)
	}
	return nil
}

// Delete elimina el comprobante y sus líneas.
func (r *VoucherRepo) Delete(id string) error {
	ctx := context.Background()
	if _, err := r.q.Exec(ctx, `DELETE FROM voucher_lines WHERE voucher_id = $1`, id); err != nil {
		return fmt.Errorf("delete voucher lines: %w", err)
	}
	if _, err := r.q.Exec(ctx, `DELETE FROM vouchers WHERE id = $1`, id); err != nil {
		return fmt.Errorf("delete voucher: %w", err)
	}
	return nil
}
