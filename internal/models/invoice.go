package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// InvoiceStatus indicates the lifecycle state of an invoice row.
type InvoiceStatus string

const (
	InvoiceDraft     InvoiceStatus = "DRAFT"
	InvoiceFinalized InvoiceStatus = "FINALIZED"
	InvoiceSent      InvoiceStatus = "SENT"
	InvoicePaid      InvoiceStatus = "PAID"
	InvoiceVoid      InvoiceStatus = "VOID"
)

// LineItemKind distinguishes time-backed lines from manual lines.
type LineItemKind string

const (
	LineItemTime   LineItemKind = "TIME"
	LineItemManual LineItemKind = "MANUAL"
)

// Invoice represents an invoice row holding the totals snapshot captured at
// finalization.
type Invoice struct {
	InvoiceID string        `db:"invoice_id"`
	ClientID  string        `db:"client_id"`
	Number    string        `db:"number"`
	Status    InvoiceStatus `db:"status"`
	IssueDate time.Time     `db:"issue_date"`
	DueDate   *time.Time    `db:"due_date"`
	PaidDate  *time.Time    `db:"paid_date"`

	OriginalTotal    decimal.Decimal  `db:"original_total"`
	TotalTimeAmount  decimal.Decimal  `db:"total_time_amount"`
	TotalHours       decimal.Decimal  `db:"total_hours"`
	ManualTotal      *decimal.Decimal `db:"manual_total"` // Nullable
	FinalTotal       decimal.Decimal  `db:"final_total"`
	Discount         decimal.Decimal  `db:"discount"`
	ManualItemsTotal decimal.Decimal  `db:"manual_items_total"`
	GrandTotal       decimal.Decimal  `db:"grand_total"`
	AuditFields
}

// InvoiceLineItem represents a persisted invoice line row.
type InvoiceLineItem struct {
	LineItemID  string       `db:"line_item_id"`
	InvoiceID   string       `db:"invoice_id"`
	Kind        LineItemKind `db:"kind"`
	EntryID     *string      `db:"entry_id"` // Nullable, TIME lines only
	Description string       `db:"description"`
	WorkDate    *time.Time   `db:"work_date"` // Nullable

	Hours  decimal.Decimal `db:"hours"`
	Rate   decimal.Decimal `db:"rate"`
	Amount decimal.Decimal `db:"amount"`

	Quantity  decimal.Decimal `db:"quantity"`
	UnitPrice decimal.Decimal `db:"unit_price"`
}
