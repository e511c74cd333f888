package pgsql

import (
	"context"
	"errors"
	"fmt"

	"github.com/harborlaw/legal_billing_app/internal/apperrors"
	"github.com/harborlaw/legal_billing_app/internal/core/domain"
	portsrepo "github.com/harborlaw/legal_billing_app/internal/core/ports/repositories"
	"github.com/harborlaw/legal_billing_app/internal/models"
	"github.com/harborlaw/legal_billing_app/internal/utils/mapping"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

type PgxInvoiceRepository struct {
	BaseRepository
}

func newPgxInvoiceRepository(db *pgxpool.Pool) portsrepo.InvoiceRepositoryWithTx {
	return &PgxInvoiceRepository{
		BaseRepository: BaseRepository{Pool: db},
	}
}

var _ portsrepo.InvoiceRepositoryWithTx = (*PgxInvoiceRepository)(nil)

const selectInvoiceFields = `
	invoice_id, client_id, number, status, issue_date, due_date, paid_date,
	original_total, total_time_amount, total_hours, manual_total,
	final_total, discount, manual_items_total, grand_total,
	created_at, created_by, last_updated_at, last_updated_by
`

const selectLineItemFields = `
	line_item_id, invoice_id, kind, entry_id, description, work_date,
	hours, rate, amount, quantity, unit_price
`

func scanInvoice(row pgx.Row) (*models.Invoice, error) {
	var m models.Invoice
	err := row.Scan(
		&m.InvoiceID,
		&m.ClientID,
		&m.Number,
		&m.Status,
		&m.IssueDate,
		&m.DueDate,
		&m.PaidDate,
		&m.OriginalTotal,
		&m.TotalTimeAmount,
		&m.TotalHours,
		&m.ManualTotal,
		&m.FinalTotal,
		&m.Discount,
		&m.ManualItemsTotal,
		&m.GrandTotal,
		&m.CreatedAt,
		&m.CreatedBy,
		&m.LastUpdatedAt,
		&m.LastUpdatedBy,
	)
	if err != nil {
		return nil, err
	}
	return &m, nil
}

// SaveInvoice persists the invoice, its line items, and the entry locks in
// one transaction so a failed insert never leaves entries half billed.
func (r *PgxInvoiceRepository) SaveInvoice(ctx context.Context, invoice domain.Invoice, billedEntryIDs []string) error {
	tx, err := r.Begin(ctx)
	if err != nil {
		return fmt.Errorf("failed to begin invoice transaction: %w", err)
	}
	defer func() {
		_ = r.Rollback(ctx, tx)
	}()

	m := mapping.ToModelInvoice(invoice)
	insertInvoice := `
        INSERT INTO invoices (
            invoice_id, client_id, number, status, issue_date, due_date, paid_date,
            original_total, total_time_amount, total_hours, manual_total,
            final_total, discount, manual_items_total, grand_total,
            created_at, created_by, last_updated_at, last_updated_by
        ) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17, $18, $19);
    `
	_, err = tx.Exec(ctx, insertInvoice,
		m.InvoiceID,
		m.ClientID,
		m.Number,
		m.Status,
		m.IssueDate,
		m.DueDate,
		m.PaidDate,
		m.OriginalTotal,
		m.TotalTimeAmount,
		m.TotalHours,
		m.ManualTotal,
		m.FinalTotal,
		m.Discount,
		m.ManualItemsTotal,
		m.GrandTotal,
		m.CreatedAt,
		m.CreatedBy,
		m.LastUpdatedAt,
		m.LastUpdatedBy,
	)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return apperrors.ErrDuplicate
		}
		return fmt.Errorf("failed to insert invoice: %w", err)
	}

	insertLine := `
        INSERT INTO invoice_line_items (
            line_item_id, invoice_id, kind, entry_id, description, work_date,
            hours, rate, amount, quantity, unit_price
        ) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11);
    `
	for _, line := range invoice.LineItems {
		lm := mapping.ToModelInvoiceLineItem(line)
		_, err = tx.Exec(ctx, insertLine,
			lm.LineItemID,
			lm.InvoiceID,
			lm.Kind,
			lm.EntryID,
			lm.Description,
			lm.WorkDate,
			lm.Hours,
			lm.Rate,
			lm.Amount,
			lm.Quantity,
			lm.UnitPrice,
		)
		if err != nil {
			return fmt.Errorf("failed to insert invoice line item: %w", err)
		}
	}

	if len(billedEntryIDs) > 0 {
		lockEntries := `
            UPDATE time_entries
            SET invoiced = TRUE, invoice_id = $1, last_updated_at = NOW(), last_updated_by = $2
            WHERE entry_id = ANY($3) AND invoiced = FALSE;
        `
		cmdTag, err := tx.Exec(ctx, lockEntries, m.InvoiceID, m.CreatedBy, billedEntryIDs)
		if err != nil {
			return fmt.Errorf("failed to mark entries invoiced: %w", err)
		}
		// Another invoice grabbed one of the entries first.
		if cmdTag.RowsAffected() != int64(len(billedEntryIDs)) {
			return apperrors.ErrEntryInvoiced
		}
	}

	if err := r.Commit(ctx, tx); err != nil {
		return fmt.Errorf("failed to commit invoice transaction: %w", err)
	}
	return nil
}

func (r *PgxInvoiceRepository) FindInvoiceByID(ctx context.Context, invoiceID string) (*domain.Invoice, error) {
	query := `
		SELECT ` + selectInvoiceFields + `
		FROM invoices
		WHERE invoice_id = $1;
	`
	m, err := scanInvoice(r.Pool.QueryRow(ctx, query, invoiceID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, fmt.Errorf("failed to find invoice by ID %s: %w", invoiceID, err)
	}

	lineQuery := `
		SELECT ` + selectLineItemFields + `
		FROM invoice_line_items
		WHERE invoice_id = $1
		ORDER BY work_date ASC NULLS LAST, line_item_id ASC;
	`
	rows, err := r.Pool.Query(ctx, lineQuery, invoiceID)
	if err != nil {
		return nil, fmt.Errorf("failed to query invoice line items: %w", err)
	}
	defer rows.Close()

	modelLines := []models.InvoiceLineItem{}
	for rows.Next() {
		var lm models.InvoiceLineItem
		err := rows.Scan(
			&lm.LineItemID,
			&lm.InvoiceID,
			&lm.Kind,
			&lm.EntryID,
			&lm.Description,
			&lm.WorkDate,
			&lm.Hours,
			&lm.Rate,
			&lm.Amount,
			&lm.Quantity,
			&lm.UnitPrice,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan invoice line item row: %w", err)
		}
		modelLines = append(modelLines, lm)
	}
	if rows.Err() != nil {
		return nil, fmt.Errorf("error iterating invoice line item rows: %w", rows.Err())
	}

	invoice := mapping.ToDomainInvoice(*m)
	invoice.LineItems = mapping.ToDomainInvoiceLineItemSlice(modelLines)
	return &invoice, nil
}

func (r *PgxInvoiceRepository) FindInvoices(ctx context.Context, clientID *string, status *domain.InvoiceStatus, limit, offset int) ([]domain.Invoice, error) {
	if limit <= 0 {
		limit = 20
	}
	if offset < 0 {
		offset = 0
	}

	args := []interface{}{}
	query := `
        SELECT ` + selectInvoiceFields + `
        FROM invoices
        WHERE 1=1
    `
	if clientID != nil {
		args = append(args, *clientID)
		query += fmt.Sprintf(` AND client_id = $%d`, len(args))
	}
	if status != nil {
		args = append(args, string(*status))
		query += fmt.Sprintf(` AND status = $%d`, len(args))
	}
	args = append(args, limit)
	query += fmt.Sprintf(` ORDER BY created_at DESC LIMIT $%d`, len(args))
	args = append(args, offset)
	query += fmt.Sprintf(` OFFSET $%d;`, len(args))

	rows, err := r.Pool.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query invoices: %w", err)
	}
	defer rows.Close()

	invoices := []domain.Invoice{}
	for rows.Next() {
		var m models.Invoice
		err := rows.Scan(
			&m.InvoiceID,
			&m.ClientID,
			&m.Number,
			&m.Status,
			&m.IssueDate,
			&m.DueDate,
			&m.PaidDate,
			&m.OriginalTotal,
			&m.TotalTimeAmount,
			&m.TotalHours,
			&m.ManualTotal,
			&m.FinalTotal,
			&m.Discount,
			&m.ManualItemsTotal,
			&m.GrandTotal,
			&m.CreatedAt,
			&m.CreatedBy,
			&m.LastUpdatedAt,
			&m.LastUpdatedBy,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan invoice row: %w", err)
		}
		invoices = append(invoices, mapping.ToDomainInvoice(m))
	}
	if rows.Err() != nil {
		return nil, fmt.Errorf("error iterating invoice rows: %w", rows.Err())
	}

	return invoices, nil
}

// NextInvoiceNumber allocates the next sequential number within a year,
// e.g. INV-2026-0042. The count query and the eventual insert are not one
// atomic step; the unique index on number turns a lost race into
// ErrDuplicate for the caller to retry.
func (r *PgxInvoiceRepository) NextInvoiceNumber(ctx context.Context, prefix string, year int) (string, error) {
	query := `
        SELECT COUNT(*)
        FROM invoices
        WHERE number LIKE $1 AND status <> 'DRAFT';
    `
	pattern := fmt.Sprintf("%s-%d-%%", prefix, year)
	var count int64
	if err := r.Pool.QueryRow(ctx, query, pattern).Scan(&count); err != nil {
		return "", fmt.Errorf("failed to count invoices for numbering: %w", err)
	}
	return fmt.Sprintf("%s-%d-%04d", prefix, year, count+1), nil
}

func (r *PgxInvoiceRepository) UpdateInvoiceStatus(ctx context.Context, invoice domain.Invoice) error {
	m := mapping.ToModelInvoice(invoice)
	query := `
        UPDATE invoices
        SET number = $1, status = $2, issue_date = $3, due_date = $4, paid_date = $5, last_updated_at = $6, last_updated_by = $7
        WHERE invoice_id = $8;
    `
	cmdTag, err := r.Pool.Exec(ctx, query,
		m.Number,
		m.Status,
		m.IssueDate,
		m.DueDate,
		m.PaidDate,
		m.LastUpdatedAt,
		m.LastUpdatedBy,
		m.InvoiceID,
	)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return apperrors.ErrDuplicate
		}
		return fmt.Errorf("failed to update invoice status: %w", err)
	}
	if cmdTag.RowsAffected() == 0 {
		return apperrors.ErrNotFound
	}
	return nil
}

// ReleaseEntries unlocks the time entries attached to a voided invoice so
// they become billable again.
func (r *PgxInvoiceRepository) ReleaseEntries(ctx context.Context, invoiceID string, updatedBy string) error {
	query := `
        UPDATE time_entries
        SET invoiced = FALSE, invoice_id = NULL, last_updated_at = NOW(), last_updated_by = $1
        WHERE invoice_id = $2;
    `
	if _, err := r.Pool.Exec(ctx, query, updatedBy, invoiceID); err != nil {
		return fmt.Errorf("failed to release invoiced entries: %w", err)
	}
	return nil
}
