package pgsql

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/harborlaw/legal_billing_app/internal/apperrors"
	"github.com/harborlaw/legal_billing_app/internal/core/domain"
	portsrepo "github.com/harborlaw/legal_billing_app/internal/core/ports/repositories"
	"github.com/harborlaw/legal_billing_app/internal/models"
	"github.com/harborlaw/legal_billing_app/internal/utils/mapping"
	"github.com/harborlaw/legal_billing_app/internal/utils/pagination"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

type PgxTimeEntryRepository struct {
	db *pgxpool.Pool
}

func newPgxTimeEntryRepository(db *pgxpool.Pool) portsrepo.TimeEntryRepositoryFacade {
	return &PgxTimeEntryRepository{db: db}
}

var _ portsrepo.TimeEntryRepositoryFacade = (*PgxTimeEntryRepository)(nil)

const selectTimeEntryFields = `
	entry_id, client_id, case_id, description, hours, rate, work_date,
	invoiced, invoice_id,
	created_at, created_by, last_updated_at, last_updated_by
`

func scanTimeEntry(row pgx.Row) (*models.TimeEntry, error) {
	var m models.TimeEntry
	err := row.Scan(
		&m.EntryID,
		&m.ClientID,
		&m.CaseID,
		&m.Description,
		&m.Hours,
		&m.Rate,
		&m.WorkDate,
		&m.Invoiced,
		&m.InvoiceID,
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

func scanTimeEntryRows(rows pgx.Rows) ([]models.TimeEntry, error) {
	defer rows.Close()
	entries := []models.TimeEntry{}
	for rows.Next() {
		var m models.TimeEntry
		err := rows.Scan(
			&m.EntryID,
			&m.ClientID,
			&m.CaseID,
			&m.Description,
			&m.Hours,
			&m.Rate,
			&m.WorkDate,
			&m.Invoiced,
			&m.InvoiceID,
			&m.CreatedAt,
			&m.CreatedBy,
			&m.LastUpdatedAt,
			&m.LastUpdatedBy,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan time entry row: %w", err)
		}
		entries = append(entries, m)
	}
	if rows.Err() != nil {
		return nil, fmt.Errorf("error iterating time entry rows: %w", rows.Err())
	}
	return entries, nil
}

func (r *PgxTimeEntryRepository) SaveEntry(ctx context.Context, entry domain.TimeEntry) error {
	m := mapping.ToModelTimeEntry(entry)
	query := `
        INSERT INTO time_entries (entry_id, client_id, case_id, description, hours, rate, work_date, invoiced, invoice_id, created_at, created_by, last_updated_at, last_updated_by)
        VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13);
    `
	_, err := r.db.Exec(ctx, query,
		m.EntryID,
		m.ClientID,
		m.CaseID,
		m.Description,
		m.Hours,
		m.Rate,
		m.WorkDate,
		m.Invoiced,
		m.InvoiceID,
		m.CreatedAt,
		m.CreatedBy,
		m.LastUpdatedAt,
		m.LastUpdatedBy,
	)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) {
			switch pgErr.Code {
			case "23505":
				return apperrors.ErrDuplicate
			case "23503":
				return apperrors.ErrNotFound
			}
		}
		return fmt.Errorf("failed to save time entry: %w", err)
	}
	return nil
}

func (r *PgxTimeEntryRepository) FindEntryByID(ctx context.Context, entryID string) (*domain.TimeEntry, error) {
	query := `
		SELECT ` + selectTimeEntryFields + `
		FROM time_entries
		WHERE entry_id = $1;
	`
	m, err := scanTimeEntry(r.db.QueryRow(ctx, query, entryID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, fmt.Errorf("failed to find time entry by ID %s: %w", entryID, err)
	}

	d := mapping.ToDomainTimeEntry(*m)
	return &d, nil
}

// FindEntriesByClient pages through a client's entries newest first, keyed
// on (work_date, created_at) so entries sharing a work date stay stable
// across pages.
func (r *PgxTimeEntryRepository) FindEntriesByClient(ctx context.Context, clientID string, limit int, nextToken *string) ([]domain.TimeEntry, *string, error) {
	if limit <= 0 {
		limit = 50
	}

	args := []interface{}{clientID}
	query := `
        SELECT ` + selectTimeEntryFields + `
        FROM time_entries
        WHERE client_id = $1
    `
	if nextToken != nil && *nextToken != "" {
		workDate, createdAt, err := pagination.DecodeToken(*nextToken)
		if err != nil {
			return nil, nil, fmt.Errorf("%w: %s", apperrors.ErrValidation, err.Error())
		}
		query += ` AND (work_date, created_at) < ($2, $3)`
		args = append(args, workDate, createdAt)
	}
	// Fetch one extra row to know whether another page exists.
	query += fmt.Sprintf(` ORDER BY work_date DESC, created_at DESC LIMIT %d;`, limit+1)

	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to query time entries: %w", err)
	}

	modelEntries, err := scanTimeEntryRows(rows)
	if err != nil {
		return nil, nil, err
	}

	var newToken *string
	if len(modelEntries) > limit {
		modelEntries = modelEntries[:limit]
		last := modelEntries[len(modelEntries)-1]
		token := pagination.EncodeToken(last.WorkDate, last.CreatedAt)
		newToken = &token
	}

	return mapping.ToDomainTimeEntrySlice(modelEntries), newToken, nil
}

// FindUnbilledEntries returns a client's uninvoiced entries oldest first,
// optionally restricted to an inclusive work-date window.
func (r *PgxTimeEntryRepository) FindUnbilledEntries(ctx context.Context, clientID string, from, to *time.Time) ([]domain.TimeEntry, error) {
	args := []interface{}{clientID}
	query := `
        SELECT ` + selectTimeEntryFields + `
        FROM time_entries
        WHERE client_id = $1 AND invoiced = FALSE
    `
	if from != nil {
		args = append(args, *from)
		query += fmt.Sprintf(` AND work_date >= $%d`, len(args))
	}
	if to != nil {
		args = append(args, *to)
		query += fmt.Sprintf(` AND work_date <= $%d`, len(args))
	}
	query += ` ORDER BY work_date ASC, created_at ASC;`

	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query unbilled entries: %w", err)
	}

	modelEntries, err := scanTimeEntryRows(rows)
	if err != nil {
		return nil, err
	}

	return mapping.ToDomainTimeEntrySlice(modelEntries), nil
}

func (r *PgxTimeEntryRepository) UpdateEntry(ctx context.Context, entry domain.TimeEntry) error {
	m := mapping.ToModelTimeEntry(entry)
	query := `
        UPDATE time_entries
        SET case_id = $1, description = $2, hours = $3, rate = $4, work_date = $5, last_updated_at = $6, last_updated_by = $7
        WHERE entry_id = $8 AND invoiced = FALSE;
    `
	cmdTag, err := r.db.Exec(ctx, query,
		m.CaseID,
		m.Description,
		m.Hours,
		m.Rate,
		m.WorkDate,
		m.LastUpdatedAt,
		m.LastUpdatedBy,
		m.EntryID,
	)
	if err != nil {
		return fmt.Errorf("failed to execute update time entry query: %w", err)
	}
	if cmdTag.RowsAffected() == 0 {
		return apperrors.ErrNotFound
	}
	return nil
}

func (r *PgxTimeEntryRepository) DeleteEntry(ctx context.Context, entryID string) error {
	query := `DELETE FROM time_entries WHERE entry_id = $1 AND invoiced = FALSE;`
	cmdTag, err := r.db.Exec(ctx, query, entryID)
	if err != nil {
		return fmt.Errorf("failed to delete time entry: %w", err)
	}
	if cmdTag.RowsAffected() == 0 {
		return apperrors.ErrNotFound
	}
	return nil
}
