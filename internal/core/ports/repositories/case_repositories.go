package repositories

import (
	"context"

	"github.com/harborlaw/legal_billing_app/internal/core/domain"
)

// CaseReader defines read operations for case data
type CaseReader interface {
	// FindCaseByID retrieves a specific case by ID.
	FindCaseByID(ctx context.Context, caseID string) (*domain.Case, error)

	// FindCasesByClient retrieves a page of cases belonging to a client.
	FindCasesByClient(ctx context.Context, clientID string, limit int, offset int) ([]domain.Case, error)

	// FindCasesByIDs retrieves cases keyed by ID for summary annotation.
	FindCasesByIDs(ctx context.Context, caseIDs []string) (map[string]domain.Case, error)
}

// CaseWriter defines write operations for case data
type CaseWriter interface {
	// SaveCase persists a new case.
	SaveCase(ctx context.Context, c domain.Case) error

	// UpdateCase updates an existing case's details.
	UpdateCase(ctx context.Context, c domain.Case) error
}

// CaseRepositoryFacade combines all case-related repository interfaces
type CaseRepositoryFacade interface {
	CaseReader
	CaseWriter
}
