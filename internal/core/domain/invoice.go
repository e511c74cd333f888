package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// InvoiceStatus indicates the lifecycle state of an invoice.
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

// Invoice is the persisted snapshot of a finalized draft. The stored totals
// are captured at finalization time; live drafts always recompute through
// the billing engine instead of reading these fields.
type Invoice struct {
	InvoiceID string        `json:"invoiceID"` // Primary Key (e.g., UUID)
	ClientID  string        `json:"clientID"`
	Number    string        `json:"number"` // e.g. INV-2026-0042, unique
	Status    InvoiceStatus `json:"status"` // Default: Draft
	IssueDate time.Time     `json:"issueDate"`
	DueDate   *time.Time    `json:"dueDate,omitempty"`
	PaidDate  *time.Time    `json:"paidDate,omitempty"`

	OriginalTotal    decimal.Decimal  `json:"originalTotal"`    // Sticker price, ignores adjustments
	TotalTimeAmount  decimal.Decimal  `json:"totalTimeAmount"`  // After per-line adjustments
	TotalHours       decimal.Decimal  `json:"totalHours"`       // Effective hours across time lines
	ManualTotal      *decimal.Decimal `json:"manualTotal,omitempty"` // Whole-invoice override, when used
	FinalTotal       decimal.Decimal  `json:"finalTotal"`
	Discount         decimal.Decimal  `json:"discount"`
	ManualItemsTotal decimal.Decimal  `json:"manualItemsTotal"`
	GrandTotal       decimal.Decimal  `json:"grandTotal"`

	LineItems []InvoiceLineItem `json:"lineItems,omitempty"`
	AuditFields
}

// InvoiceLineItem is a single persisted invoice line. Time lines reference
// the entry they bill; manual lines carry quantity and unit price instead.
type InvoiceLineItem struct {
	LineItemID  string       `json:"lineItemID"`
	InvoiceID   string       `json:"invoiceID"`
	Kind        LineItemKind `json:"kind"`
	EntryID     *string      `json:"entryID,omitempty"` // Set for TIME lines
	Description string       `json:"description"`
	WorkDate    *time.Time   `json:"workDate,omitempty"`

	Hours  decimal.Decimal `json:"hours"`  // Effective hours (TIME lines)
	Rate   decimal.Decimal `json:"rate"`   // Entry rate at billing time (TIME lines)
	Amount decimal.Decimal `json:"amount"` // Effective amount for the line

	Quantity  decimal.Decimal `json:"quantity"`  // MANUAL lines
	UnitPrice decimal.Decimal `json:"unitPrice"` // MANUAL lines
}

// CanEdit reports whether the invoice is still a mutable draft.
func (i *Invoice) CanEdit() bool {
	return i.Status == InvoiceDraft
}

// Finalize moves a draft to the finalized state.
func (i *Invoice) Finalize(now time.Time) {
	i.Status = InvoiceFinalized
	i.LastUpdatedAt = now
}
