package repositories

import (
	"context"

	"github.com/harborlaw/legal_billing_app/internal/core/domain"
)

// ClientReader defines read operations for client data
type ClientReader interface {
	// FindClientByID retrieves a specific client by ID.
	FindClientByID(ctx context.Context, clientID string) (*domain.Client, error)

	// FindClients retrieves a paginated list of clients.
	FindClients(ctx context.Context, limit int, offset int) ([]domain.Client, error)
}

// ClientWriter defines write operations for client data
type ClientWriter interface {
	// SaveClient persists a new client.
	SaveClient(ctx context.Context, client domain.Client) error

	// UpdateClient updates an existing client's details.
	UpdateClient(ctx context.Context, client domain.Client) error

	// DeleteClient removes a client with no billable history.
	DeleteClient(ctx context.Context, clientID string) error
}

// ClientRepositoryFacade combines all client-related repository interfaces
type ClientRepositoryFacade interface {
	ClientReader
	ClientWriter
}
