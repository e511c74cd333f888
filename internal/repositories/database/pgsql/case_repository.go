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

type PgxCaseRepository struct {
	db *pgxpool.Pool
}

func newPgxCaseRepository(db *pgxpool.Pool) portsrepo.CaseRepositoryFacade {
	return &PgxCaseRepository{db: db}
}

var _ portsrepo.CaseRepositoryFacade = (*PgxCaseRepository)(nil)

const selectCaseFields = `
	case_id, client_id, number, title, status,
	created_at, created_by, last_updated_at, last_updated_by
`

func scanCase(row pgx.Row) (*models.Case, error) {
	var m models.Case
	err := row.Scan(
		&m.CaseID,
		&m.ClientID,
		&m.Number,
		&m.Title,
		&m.Status,
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

func (r *PgxCaseRepository) SaveCase(ctx context.Context, c domain.Case) error {
	m := mapping.ToModelCase(c)
	query := `
        INSERT INTO cases (case_id, client_id, number, title, status, created_at, created_by, last_updated_at, last_updated_by)
        VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9);
    `
	_, err := r.db.Exec(ctx, query,
		m.CaseID,
		m.ClientID,
		m.Number,
		m.Title,
		m.Status,
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
		return fmt.Errorf("failed to save case: %w", err)
	}
	return nil
}

func (r *PgxCaseRepository) FindCaseByID(ctx context.Context, caseID string) (*domain.Case, error) {
	query := `
		SELECT ` + selectCaseFields + `
		FROM cases
		WHERE case_id = $1;
	`
	m, err := scanCase(r.db.QueryRow(ctx, query, caseID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, fmt.Errorf("failed to find case by ID %s: %w", caseID, err)
	}

	d := mapping.ToDomainCase(*m)
	return &d, nil
}

func (r *PgxCaseRepository) FindCasesByClient(ctx context.Context, clientID string, limit int, offset int) ([]domain.Case, error) {
	if limit <= 0 {
		limit = 20
	}
	if offset < 0 {
		offset = 0
	}

	query := `
        SELECT ` + selectCaseFields + `
        FROM cases
        WHERE client_id = $1
        ORDER BY created_at DESC
        LIMIT $2 OFFSET $3;
    `
	rows, err := r.db.Query(ctx, query, clientID, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("failed to query cases: %w", err)
	}
	defer rows.Close()

	modelCases := []models.Case{}
	for rows.Next() {
		var m models.Case
		err := rows.Scan(
			&m.CaseID,
			&m.ClientID,
			&m.Number,
			&m.Title,
			&m.Status,
			&m.CreatedAt,
			&m.CreatedBy,
			&m.LastUpdatedAt,
			&m.LastUpdatedBy,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan case row: %w", err)
		}
		modelCases = append(modelCases, m)
	}

	if rows.Err() != nil {
		return nil, fmt.Errorf("error iterating case rows: %w", rows.Err())
	}

	return mapping.ToDomainCaseSlice(modelCases), nil
}

func (r *PgxCaseRepository) FindCasesByIDs(ctx context.Context, caseIDs []string) (map[string]domain.Case, error) {
	result := make(map[string]domain.Case, len(caseIDs))
	if len(caseIDs) == 0 {
		return result, nil
	}

	query := `
        SELECT ` + selectCaseFields + `
        FROM cases
        WHERE case_id = ANY($1);
    `
	rows, err := r.db.Query(ctx, query, caseIDs)
	if err != nil {
		return nil, fmt.Errorf("failed to query cases by IDs: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var m models.Case
		err := rows.Scan(
			&m.CaseID,
			&m.ClientID,
			&m.Number,
			&m.Title,
			&m.Status,
			&m.CreatedAt,
			&m.CreatedBy,
			&m.LastUpdatedAt,
			&m.LastUpdatedBy,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan case row: %w", err)
		}
		result[m.CaseID] = mapping.ToDomainCase(m)
	}

	if rows.Err() != nil {
		return nil, fmt.Errorf("error iterating case rows: %w", rows.Err())
	}

	return result, nil
}

func (r *PgxCaseRepository) UpdateCase(ctx context.Context, c domain.Case) error {
	m := mapping.ToModelCase(c)
	query := `
        UPDATE cases
        SET number = $1, title = $2, status = $3, last_updated_at = $4, last_updated_by = $5
        WHERE case_id = $6;
    `
	cmdTag, err := r.db.Exec(ctx, query,
		m.Number,
		m.Title,
		m.Status,
		m.LastUpdatedAt,
		m.LastUpdatedBy,
		m.CaseID,
	)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return apperrors.ErrDuplicate
		}
		return fmt.Errorf("failed to execute update case query: %w", err)
	}
	if cmdTag.RowsAffected() == 0 {
		return apperrors.ErrNotFound
	}
	return nil
}
