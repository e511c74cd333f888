package services

import (
	"context"

	"github.com/harborlaw/legal_billing_app/internal/core/domain"
	"github.com/harborlaw/legal_billing_app/internal/dto"
)

// ClientReaderSvc defines read operations for client data
type ClientReaderSvc interface {
	// GetClientByID retrieves a client by ID.
	GetClientByID(ctx context.Context, clientID string) (*domain.Client, error)

	// ListClients retrieves a paginated list of clients.
	ListClients(ctx context.Context, limit, offset int) ([]domain.Client, error)
}

// ClientWriterSvc defines write operations for client data
type ClientWriterSvc interface {
	// CreateClient creates a new client.
	CreateClient(ctx context.Context, req dto.CreateClientRequest, creatorUserID string) (*domain.Client, error)

	// UpdateClient updates an existing client.
	UpdateClient(ctx context.Context, clientID string, req dto.UpdateClientRequest, updaterUserID string) (*domain.Client, error)
}

// ClientLifecycleSvc defines operations for managing client lifecycle
type ClientLifecycleSvc interface {
	// DeleteClient removes a client that has no billable history.
	DeleteClient(ctx context.Context, clientID string, requestingUserID string) error
}

// ClientSvcFacade combines all client-related service interfaces
type ClientSvcFacade interface {
	ClientReaderSvc
	ClientWriterSvc
	ClientLifecycleSvc
}
