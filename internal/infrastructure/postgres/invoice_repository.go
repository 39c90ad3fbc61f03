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

var _ repository.InvoiceRepository = (*InvoiceRepo)(nil)

// InvoiceRepo implementación de InvoiceRepository (usable con pool o tx).
type InvoiceRepo struct {
	q Querier
}

// NewInvoiceRepository construye el adaptador. Pasar pool o tx (Querier).
func NewInvoiceRepository(q Querier) *InvoiceRepo {
	return &InvoiceRepo{q: q}
}

const invoiceColumns = `id, company_id, party_id, type, COALESCE(number, ''), date,
	COALESCE(tax_date, '0001-01-01'::date), state, total_amount, untaxed_amount, created_at, updated_at`

// Create persiste una factura con sus líneas.
func (r *InvoiceRepo) Create(invoice *entity.Invoice) error {
	ctx := context.Background()
	query := `
		INSERT INTO invoices (id, company_id, party_id, type, number, date, tax_date,
			state, total_amount, untaxed_amount, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)`
	var taxDate any
	if !invoice.TaxDate.IsZero() {
		taxDate = invoice.TaxDate
	}
	_, err := r.q.Exec(ctx, query,
		invoice.ID, invoice.CompanyID, invoice.PartyID, invoice.Type,
		nullIfEmpty(invoice.Number), invoice.Date, taxDate,
		invoice.State, invoice.TotalAmount, invoice.UntaxedAmount,
		invoice.CreatedAt, invoice.UpdatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrDuplicate
		}
		return fmt.Errorf("insert invoice: %w", err)
	}
	for _, l := range invoice.Lines {
		id := l.ID
		if id == "" {
			id = uuid.New().String()
		}
		_, err := r.q.Exec(ctx, `
			INSERT INTO invoice_lines (id, invoice_id, product_id, description, amount, ganancias_regime_id)
			VALUES ($1, $2, $3, $4, $5, $6)`,
			id, invoice.ID, nullIfEmpty(l.ProductID), l.Description, l.Amount, nullIfEmpty(l.GananciasRegimeID),
		)
		if err != nil {
			return fmt.Errorf("insert invoice line: %w", err)
		}
	}
	return nil
}

func scanInvoice(row pgx.Row) (*entity.Invoice, error) {
	var i entity.Invoice
	err := row.Scan(
		&i.ID, &i.CompanyID, &i.PartyID, &i.Type, &i.Number, &i.Date, &i.TaxDate,
		&i.State, &i.TotalAmount, &i.UntaxedAmount, &i.CreatedAt, &i.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	if i.TaxDate.Year() <= 1 {
		i.TaxDate = i.Date
	}
	return &i, nil
}

// GetByID obtiene la factura con líneas cargadas.
func (r *InvoiceRepo) GetByID(id string) (*entity.Invoice, error) {
	query := fmt.Sprintf(`SELECT %s FROM invoices WHERE id = $1`, invoiceColumns)
	invoice, err := scanInvoice(r.q.QueryRow(context.Background(), query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get invoice: %w", err)
	}
	if err := r.loadLines(invoice); err != nil {
		return nil, err
	}
	return invoice, nil
}

// GetByIDs obtiene varias facturas de una vez, indexadas por ID.
func (r *InvoiceRepo) GetByIDs(ids []string) (map[string]*entity.Invoice, error) {
	if len(ids) == 0 {
		return map[string]*entity.Invoice{}, nil
	}
	query := fmt.Sprintf(`SELECT %s FROM invoices WHERE id = ANY($1)`, invoiceColumns)
	rows, err := r.q.Query(context.Background(), query, ids)
	if err != nil {
		return nil, fmt.Errorf("get invoices: %w", err)
	}
	defer rows.Close()
	out := make(map[string]*entity.Invoice, len(ids))
	for rows.Next() {
		invoice, err := scanInvoice(rows)
		if err != nil {
			return nil, fmt.Errorf("scan invoice: %w", err)
		}
		out[invoice.ID] = invoice
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	for _, invoice := range out {
		if err := r.loadLines(invoice); err != nil {
			return nil, err
		}
	}
	return out, nil
}

// ListByCompany lista facturas de la empresa con paginación.
func (r *InvoiceRepo) ListByCompany(companyID string, limit, offset int) ([]*entity.Invoice, error) {
	query := fmt.Sprintf(`
		SELECT %s FROM invoices WHERE company_id = $1
		ORDER BY date DESC, created_at DESC LIMIT $2 OFFSET $3`, invoiceColumns)
	rows, err := r.q.Query(context.Background(), query, companyID, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("list invoices: %w", err)
	}
	defer rows.Close()
	var list []*entity.Invoice
	for rows.Next() {
		invoice, err := scanInvoice(rows)
		if err != nil {
			return nil, fmt.Errorf("scan invoice: %w", err)
		}
		list = append(list, invoice)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	for _, invoice := range list {
		if err := r.loadLines(invoice); err != nil {
			return nil, err
		}
	}
	return list, nil
}

func (r *InvoiceRepo) loadLines(invoice *entity.Invoice) error {
	rows, err := r.q.Query(context.Background(), `
		SELECT id, invoice_id, COALESCE(product_id, ''), description, amount, COALESCE(ganancias_regime_id, '')
		FROM invoice_lines WHERE invoice_id = $1`, invoice.ID)
	if err != nil {
		return fmt.Errorf("load invoice lines: %w", err)
	}
	defer rows.Close()
	invoice.Lines = nil
	for rows.Next() {
		var l entity.InvoiceLine
		if err := rows.Scan(&l.ID, &l.InvoiceID, &l.ProductID, &l.Description, &l.Amount, &l.GananciasRegimeID); err != nil {
			return fmt.Errorf("scan invoice line: %w", err)
		}
		invoice.Lines = append(invoice.Lines, l)
	}
	return rows.Err()
}

// Update actualiza la cabecera de la factura (no toca las líneas).
func (r *InvoiceRepo) Update(invoice *entity.Invoice) error {
	query := `
		UPDATE invoices SET party_id = $2, type = $3, number = $4, date = $5, tax_date = $6,
			state = $7, total_amount = $8, untaxed_amount = $9, updated_at = $10
		WHERE id = $1`
	var taxDate any
	if !invoice.TaxDate.IsZero() {
		taxDate = invoice.TaxDate
	}
	_, err := r.q.Exec(context.Background(), query,
		invoice.ID, invoice.PartyID, invoice.Type, nullIfEmpty(invoice.Number),
		invoice.Date, taxDate, invoice.State, invoice.TotalAmount, invoice.UntaxedAmount,
		invoice.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("update invoice: %w", err)
	}
	return nil
}

// Delete elimina la factura y sus líneas.
func (r *InvoiceRepo) Delete(id string) error {
	ctx := context.Background()
	if _, err := r.q.Exec(ctx, `DELETE FROM invoice_lines WHERE invoice_id = $1`, id); err != nil {
		return fmt.Errorf("delete invoice lines: %w", err)
	}
	if _, err := r.q.Exec(ctx, `DELETE FROM invoices WHERE id = $1`, id); err != nil {
		return fmt.Errorf("delete invoice: %w", err)
	}
	return nil
}
