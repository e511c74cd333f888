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

type PgxClientRepository struct {
	db *pgxpool.Pool
}

func newPgxClientRepository(db *pgxpool.Pool) portsrepo.ClientRepositoryFacade {
	return &PgxClientRepository{db: db}
}

var _ portsrepo.ClientRepositoryFacade = (*PgxClientRepository)(nil)

const selectClientFields = `
	client_id, name, contact_email, hourly_rate, is_active,
	created_at, created_by, last_updated_at, last_updated_by
`

func scanClient(row pgx.Row) (*models.Client, error) {
	var m models.Client
	err := row.Scan(
		&m.ClientID,
		&m.Name,
		&m.ContactEmail,
		&m.HourlyRate,
		&m.IsActive,
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

func (r *PgxClientRepository) SaveClient(ctx context.Context, client domain.Client) error {
	m := mapping.ToModelClient(client)
	query := `
        INSERT INTO clients (client_id, name, contact_email, hourly_rate, is_active, created_at, created_by, last_updated_at, last_updated_by)
        VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9);
    `
	_, err := r.db.Exec(ctx, query,
		m.ClientID,
		m.Name,
		m.ContactEmail,
		m.HourlyRate,
		m.IsActive,
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
		return fmt.Errorf("failed to save client: %w", err)
	}
	return nil
}

func (r *PgxClientRepository) FindClientByID(ctx context.Context, clientID string) (*domain.Client, error) {
	query := `
		SELECT ` + selectClientFields + `
		FROM clients
		WHERE client_id = $1;
	`
	m, err := scanClient(r.db.QueryRow(ctx, query, clientID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, fmt.Errorf("failed to find client by ID %s: %w", clientID, err)
	}

	d := mapping.ToDomainClient(*m)
	return &d, nil
}

func (r *PgxClientRepository) FindClients(ctx context.Context, limit int, offset int) ([]domain.Client, error) {
	if limit <= 0 {
		limit = 20
	}
	if offset < 0 {
		offset = 0
	}

	query := `
        SELECT ` + selectClientFields + `
        FROM clients
        ORDER BY name ASC
        LIMIT $1 OFFSET $2;
    `
	rows, err := r.db.Query(ctx, query, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("failed to query clients: %w", err)
	}
	defer rows.Close()

	modelClients := []models.Client{}
	for rows.Next() {
		var m models.Client
		err := rows.Scan(
			&m.ClientID,
			&m.Name,
			&m.ContactEmail,
			&m.HourlyRate,
			&m.IsActive,
			&m.CreatedAt,
			&m.CreatedBy,
			&m.LastUpdatedAt,
			&m.LastUpdatedBy,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan client row: %w", err)
		}
		modelClients = append(modelClients, m)
	}

	if rows.Err() != nil {
		return nil, fmt.Errorf("error iterating client rows: %w", rows.Err())
	}

	return mapping.ToDomainClientSlice(modelClients), nil
}

func (r *PgxClientRepository) UpdateClient(ctx context.Context, client domain.Client) error {
	m := mapping.ToModelClient(client)
	query := `
        UPDATE clients
        SET name = $1, contact_email = $2, hourly_rate = $3, is_active = $4, last_updated_at = $5, last_updated_by = $6
        WHERE client_id = $7;
    `
	cmdTag, err := r.db.Exec(ctx, query,
		m.Name,
		m.ContactEmail,
		m.HourlyRate,
		m.IsActive,
		m.LastUpdatedAt,
		m.LastUpdatedBy,
		m.ClientID,
	)
	if err != nil {
		return fmt.Errorf("failed to execute update client query: %w", err)
	}
	if cmdTag.RowsAffected() == 0 {
		return apperrors.ErrNotFound
	}
	return nil
}

func (r *PgxClientRepository) DeleteClient(ctx context.Context, clientID string) error {
	query := `DELETE FROM clients WHERE client_id = $1;`
	cmdTag, err := r.db.Exec(ctx, query, clientID)
	if err != nil {
		var pgErr *pgconn.PgError
		// 23503: the client still has entries or invoices referencing it
		if errors.As(err, &pgErr) && pgErr.Code == "23503" {
			return apperrors.ErrValidation
		}
		return fmt.Errorf("failed to delete client: %w", err)
	}
	if cmdTag.RowsAffected() == 0 {
		return apperrors.ErrNotFound
	}
	return nil
}
