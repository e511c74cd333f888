package services

import (
	"context"

	"github.com/harborlaw/legal_billing_app/internal/core/domain"
	"github.com/harborlaw/legal_billing_app/internal/dto"
)

// CaseReaderSvc defines read operations for case data
type CaseReaderSvc interface {
	// GetCaseByID retrieves a case by ID.
	GetCaseByID(ctx context.Context, caseID string) (*domain.Case, error)

	// ListCasesByClient retrieves the cases belonging to a client.
	ListCasesByClient(ctx context.Context, clientID string, limit, offset int) ([]domain.Case, error)
}

// CaseWriterSvc defines write operations for case data
type CaseWriterSvc interface {
	// CreateCase creates a new case under a client.
	CreateCase(ctx context.Context, req dto.CreateCaseRequest, creatorUserID string) (*domain.Case, error)

	// UpdateCase updates an existing case.
	UpdateCase(ctx context.Context, caseID string, req dto.UpdateCaseRequest, updaterUserID string) (*domain.Case, error)

	// CloseCase marks a case as closed.
	CloseCase(ctx context.Context, caseID string, updaterUserID string) (*domain.Case, error)
}

// CaseSvcFacade combines all case-related service interfaces
type CaseSvcFacade interface {
	CaseReaderSvc
	CaseWriterSvc
}
