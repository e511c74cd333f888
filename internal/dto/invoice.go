package dto

import (
	"time"

	"github.com/harborlaw/legal_billing_app/internal/core/domain"
	"github.com/shopspring/decimal"
)

// CreateInvoiceRequest turns a draft into a persisted invoice. The draft
// state is re-submitted in full and totals are recomputed server side.
type CreateInvoiceRequest struct {
	ComputeDraftRequest
	DueDate *time.Time `json:"dueDate"`
}

// InvoiceLineItemResponse is one persisted invoice line.
type InvoiceLineItemResponse struct {
	LineItemID  string              `json:"lineItemID"`
	Kind        domain.LineItemKind `json:"kind"`
	EntryID     *string             `json:"entryID,omitempty"`
	Description string              `json:"description"`
	WorkDate    *time.Time          `json:"workDate,omitempty"`
	Hours       decimal.Decimal     `json:"hours"`
	Rate        decimal.Decimal     `json:"rate"`
	Amount      decimal.Decimal     `json:"amount"`
	Quantity    decimal.Decimal     `json:"quantity"`
	UnitPrice   decimal.Decimal     `json:"unitPrice"`
}

// InvoiceResponse defines the data returned for an invoice.
type InvoiceResponse struct {
	InvoiceID string               `json:"invoiceID"`
	ClientID  string               `json:"clientID"`
	Number    string               `json:"number"`
	Status    domain.InvoiceStatus `json:"status"`
	IssueDate time.Time            `json:"issueDate"`
	DueDate   *time.Time           `json:"dueDate,omitempty"`
	PaidDate  *time.Time           `json:"paidDate,omitempty"`

	OriginalTotal    decimal.Decimal  `json:"originalTotal"`
	TotalTimeAmount  decimal.Decimal  `json:"totalTimeAmount"`
	TotalHours       decimal.Decimal  `json:"totalHours"`
	ManualTotal      *decimal.Decimal `json:"manualTotal,omitempty"`
	FinalTotal       decimal.Decimal  `json:"finalTotal"`
	Discount         decimal.Decimal  `json:"discount"`
	ManualItemsTotal decimal.Decimal  `json:"manualItemsTotal"`
	GrandTotal       decimal.Decimal  `json:"grandTotal"`

	LineItems []InvoiceLineItemResponse `json:"lineItems,omitempty"`
	CreatedAt time.Time                 `json:"createdAt"`
}

// ListInvoicesParams defines query parameters for listing invoices.
type ListInvoicesParams struct {
	ClientID *string `form:"clientID"`
	Status   *string `form:"status" binding:"omitempty,oneof=DRAFT FINALIZED SENT PAID VOID"`
	Limit    int     `form:"limit,default=20"`
	Offset   int     `form:"offset,default=0"`
}

// ToInvoiceResponse converts a domain.Invoice to InvoiceResponse DTO
func ToInvoiceResponse(inv *domain.Invoice) InvoiceResponse {
	lines := make([]InvoiceLineItemResponse, len(inv.LineItems))
	for i, l := range inv.LineItems {
		lines[i] = InvoiceLineItemResponse{
			LineItemID:  l.LineItemID,
			Kind:        l.Kind,
			EntryID:     l.EntryID,
			Description: l.Description,
			WorkDate:    l.WorkDate,
			Hours:       l.Hours,
			Rate:        l.Rate,
			Amount:      l.Amount,
			Quantity:    l.Quantity,
			UnitPrice:   l.UnitPrice,
		}
	}
	return InvoiceResponse{
		InvoiceID:        inv.InvoiceID,
		ClientID:         inv.ClientID,
		Number:           inv.Number,
		Status:           inv.Status,
		IssueDate:        inv.IssueDate,
		DueDate:          inv.DueDate,
		PaidDate:         inv.PaidDate,
		OriginalTotal:    inv.OriginalTotal,
		TotalTimeAmount:  inv.TotalTimeAmount,
		TotalHours:       inv.TotalHours,
		ManualTotal:      inv.ManualTotal,
		FinalTotal:       inv.FinalTotal,
		Discount:         inv.Discount,
		ManualItemsTotal: inv.ManualItemsTotal,
		GrandTotal:       inv.GrandTotal,
		LineItems:        lines,
		CreatedAt:        inv.CreatedAt,
	}
}

// ToListInvoiceResponse converts a slice of domain.Invoice to InvoiceResponse DTOs
func ToListInvoiceResponse(invoices []domain.Invoice) []InvoiceResponse {
	res := make([]InvoiceResponse, len(invoices))
	for i, inv := range invoices {
		res[i] = ToInvoiceResponse(&inv)
	}
	return res
}
