package services

import (
	"context"

	"github.com/harborlaw/legal_billing_app/internal/core/domain"
	"github.com/harborlaw/legal_billing_app/internal/dto"
)

// TimeEntryReaderSvc defines read operations for time entry data
type TimeEntryReaderSvc interface {
	// GetEntryByID retrieves a time entry by ID.
	GetEntryByID(ctx context.Context, entryID string) (*domain.TimeEntry, error)

	// ListEntriesByClient retrieves a client's entries using token pagination.
	ListEntriesByClient(ctx context.Context, clientID string, limit int, nextToken *string) ([]domain.TimeEntry, *string, error)
}

// TimeEntryWriterSvc defines write operations for time entry data
type TimeEntryWriterSvc interface {
	// CreateEntry records a new time entry, defaulting the rate from the
	// client's hourly rate when the request omits it.
	CreateEntry(ctx context.Context, req dto.CreateTimeEntryRequest, creatorUserID string) (*domain.TimeEntry, error)

	// UpdateEntry updates an entry that has not been invoiced yet.
	UpdateEntry(ctx context.Context, entryID string, req dto.UpdateTimeEntryRequest, updaterUserID string) (*domain.TimeEntry, error)

	// DeleteEntry removes an entry that has not been invoiced yet.
	DeleteEntry(ctx context.Context, entryID string, requestingUserID string) error
}

// TimeEntrySvcFacade combines all time-entry service interfaces
type TimeEntrySvcFacade interface {
	TimeEntryReaderSvc
	TimeEntryWriterSvc
}
