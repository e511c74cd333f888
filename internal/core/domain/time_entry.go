package domain

import (
	"errors"
	"time"

	"github.com/shopspring/decimal"
)

// TimeEntry represents a record of hours worked on a case at a given rate.
// Hours and Rate are precise decimals; Amount is always derived, never stored.
type TimeEntry struct {
	EntryID     string          `json:"entryID"` // Primary Key (e.g., UUID)
	ClientID    string          `json:"clientID"`
	CaseID      *string         `json:"caseID,omitempty"` // Nullable; entries without a case group under a sentinel bucket
	Description string          `json:"description"`
	Hours       decimal.Decimal `json:"hours"`
	Rate        decimal.Decimal `json:"rate"` // Currency amount per hour
	WorkDate    time.Time       `json:"workDate"`
	Invoiced    bool            `json:"invoiced"`            // True once attached to a finalized invoice
	InvoiceID   *string         `json:"invoiceID,omitempty"` // Set when Invoiced
	AuditFields
}

// Amount computes the rates-derived value of the entry (hours x rate).
func (e *TimeEntry) Amount() decimal.Decimal {
	return e.Hours.Mul(e.Rate)
}

// Validate checks the entry's numeric and referential constraints.
func (e *TimeEntry) Validate() error {
	if e.ClientID == "" {
		return errors.New("client ID is required")
	}
	if e.Hours.IsNegative() {
		return errors.New("hours must not be negative")
	}
	if e.Rate.IsNegative() {
		return errors.New("rate must not be negative")
	}
	if e.WorkDate.IsZero() {
		return errors.New("work date is required")
	}
	if e.Invoiced && e.InvoiceID == nil {
		return errors.New("invoiced entry must reference an invoice")
	}
	return nil
}
