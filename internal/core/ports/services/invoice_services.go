package services

import (
	"context"

	"github.com/harborlaw/legal_billing_app/internal/core/billing"
	"github.com/harborlaw/legal_billing_app/internal/core/domain"
)

// InvoiceReaderSvc defines read operations for invoice data
type InvoiceReaderSvc interface {
	// GetInvoiceByID retrieves an invoice with its line items.
	GetInvoiceByID(ctx context.Context, invoiceID string) (*domain.Invoice, error)

	// ListInvoices retrieves invoices, optionally filtered by client and status.
	ListInvoices(ctx context.Context, clientID *string, status *domain.InvoiceStatus, limit, offset int) ([]domain.Invoice, error)

	// ExportInvoice renders an invoice as an xlsx workbook.
	ExportInvoice(ctx context.Context, invoiceID string) ([]byte, string, error)
}

// InvoiceWriterSvc defines write operations for invoice data
type InvoiceWriterSvc interface {
	// CreateFromDraft computes totals for the draft and persists the invoice,
	// its line items, and the billed entry locks in one transaction.
	CreateFromDraft(ctx context.Context, clientID string, period billing.Period, draft billing.Draft, creatorUserID string) (*domain.Invoice, error)
}

// InvoiceLifecycleSvc defines the invoice status transitions
type InvoiceLifecycleSvc interface {
	// FinalizeInvoice moves a draft invoice to FINALIZED and assigns its number.
	FinalizeInvoice(ctx context.Context, invoiceID string, updaterUserID string) (*domain.Invoice, error)

	// MarkSent moves a finalized invoice to SENT.
	MarkSent(ctx context.Context, invoiceID string, updaterUserID string) (*domain.Invoice, error)

	// MarkPaid moves a sent invoice to PAID.
	MarkPaid(ctx context.Context, invoiceID string, updaterUserID string) (*domain.Invoice, error)

	// VoidInvoice voids an invoice and releases its time entries for rebilling.
	VoidInvoice(ctx context.Context, invoiceID string, updaterUserID string) (*domain.Invoice, error)
}

// InvoiceSvcFacade combines all invoice-related service interfaces
type InvoiceSvcFacade interface {
	InvoiceReaderSvc
	InvoiceWriterSvc
	InvoiceLifecycleSvc
}
