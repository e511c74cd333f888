package dto

import (
	"time"

	"github.com/harborlaw/legal_billing_app/internal/core/domain"
	"github.com/shopspring/decimal"
)

// CreateTimeEntryRequest defines the data needed to log work.
// Rate is optional; when omitted the client's hourly rate applies.
type CreateTimeEntryRequest struct {
	ClientID    string           `json:"clientID" binding:"required"`
	CaseID      *string          `json:"caseID"`
	Description string           `json:"description" binding:"required"`
	Hours       decimal.Decimal  `json:"hours" binding:"required"`
	Rate        *decimal.Decimal `json:"rate"`
	WorkDate    time.Time        `json:"workDate" binding:"required" time_format:"2006-01-02"`
}

// UpdateTimeEntryRequest defines the data allowed for updating an entry.
// Use pointers to distinguish between zero-value updates and fields not provided.
type UpdateTimeEntryRequest struct {
	CaseID      *string          `json:"caseID"`
	Description *string          `json:"description"`
	Hours       *decimal.Decimal `json:"hours"`
	Rate        *decimal.Decimal `json:"rate"`
	WorkDate    *time.Time       `json:"workDate"`
}

// TimeEntryResponse defines the data returned for a time entry. Amount is
// always hours x rate, computed at response time.
type TimeEntryResponse struct {
	EntryID     string          `json:"entryID"`
	ClientID    string          `json:"clientID"`
	CaseID      *string         `json:"caseID,omitempty"`
	Description string          `json:"description"`
	Hours       decimal.Decimal `json:"hours"`
	Rate        decimal.Decimal `json:"rate"`
	Amount      decimal.Decimal `json:"amount"`
	WorkDate    time.Time       `json:"workDate"`
	Invoiced    bool            `json:"invoiced"`
	InvoiceID   *string         `json:"invoiceID,omitempty"`
}

// ListTimeEntriesParams defines query parameters for listing a client's entries.
type ListTimeEntriesParams struct {
	Limit     int     `form:"limit,default=50"`
	NextToken *string `form:"nextToken"`
}

// ListTimeEntriesResponse wraps a page of entries with the follow-up token.
type ListTimeEntriesResponse struct {
	Entries   []TimeEntryResponse `json:"entries"`
	NextToken *string             `json:"nextToken,omitempty"`
}

// ToTimeEntryResponse converts a domain.TimeEntry to TimeEntryResponse DTO
func ToTimeEntryResponse(e *domain.TimeEntry) TimeEntryResponse {
	return TimeEntryResponse{
		EntryID:     e.EntryID,
		ClientID:    e.ClientID,
		CaseID:      e.CaseID,
		Description: e.Description,
		Hours:       e.Hours,
		Rate:        e.Rate,
		Amount:      e.Amount(),
		WorkDate:    e.WorkDate,
		Invoiced:    e.Invoiced,
		InvoiceID:   e.InvoiceID,
	}
}

// ToListTimeEntriesResponse converts a page of domain entries to the list DTO
func ToListTimeEntriesResponse(entries []domain.TimeEntry, nextToken *string) ListTimeEntriesResponse {
	res := make([]TimeEntryResponse, len(entries))
	for i, e := range entries {
		res[i] = ToTimeEntryResponse(&e)
	}
	return ListTimeEntriesResponse{
		Entries:   res,
		NextToken: nextToken,
	}
}
