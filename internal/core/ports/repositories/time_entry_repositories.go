package repositories

import (
	"context"
	"time"

	"github.com/harborlaw/legal_billing_app/internal/core/domain"
)

// TimeEntryReader defines read operations for time entry data
type TimeEntryReader interface {
	// FindEntryByID retrieves a specific time entry by ID.
	FindEntryByID(ctx context.Context, entryID string) (*domain.TimeEntry, error)

	// FindEntriesByClient retrieves a client's entries ordered by work date,
	// using token-based pagination keyed on (work_date, created_at).
	FindEntriesByClient(ctx context.Context, clientID string, limit int, nextToken *string) ([]domain.TimeEntry, *string, error)

	// FindUnbilledEntries retrieves a client's entries not attached to a
	// finalized invoice, optionally restricted to an inclusive date window.
	FindUnbilledEntries(ctx context.Context, clientID string, from, to *time.Time) ([]domain.TimeEntry, error)
}

// TimeEntryWriter defines write operations for time entry data
type TimeEntryWriter interface {
	// SaveEntry persists a new time entry.
	SaveEntry(ctx context.Context, entry domain.TimeEntry) error

	// UpdateEntry updates an existing time entry's details.
	UpdateEntry(ctx context.Context, entry domain.TimeEntry) error

	// DeleteEntry removes a time entry.
	DeleteEntry(ctx context.Context, entryID string) error
}

// TimeEntryRepositoryFacade combines all time-entry repository interfaces
type TimeEntryRepositoryFacade interface {
	TimeEntryReader
	TimeEntryWriter
}
