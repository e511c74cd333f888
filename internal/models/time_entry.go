package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// TimeEntry represents a logged-work row. The billed amount is always
// derived from hours and rate; it has no column.
type TimeEntry struct {
	EntryID     string          `db:"entry_id"`
	ClientID    string          `db:"client_id"`
	CaseID      *string         `db:"case_id"` // Nullable
	Description string          `db:"description"`
	Hours       decimal.Decimal `db:"hours"`
	Rate        decimal.Decimal `db:"rate"`
	WorkDate    time.Time       `db:"work_date"`
	Invoiced    bool            `db:"invoiced"`
	InvoiceID   *string         `db:"invoice_id"` // Nullable, set at finalization
	AuditFields
}
