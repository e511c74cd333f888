package repositories

import (
	"context"

	"github.com/harborlaw/legal_billing_app/internal/core/domain"
)

// InvoiceReader defines read operations for invoice data
type InvoiceReader interface {
	// FindInvoiceByID retrieves an invoice with its line items.
	FindInvoiceByID(ctx context.Context, invoiceID string) (*domain.Invoice, error)

	// FindInvoices retrieves invoices, optionally filtered by client and status.
	FindInvoices(ctx context.Context, clientID *string, status *domain.InvoiceStatus, limit, offset int) ([]domain.Invoice, error)

	// NextInvoiceNumber returns the next sequential invoice number for a year.
	NextInvoiceNumber(ctx context.Context, prefix string, year int) (string, error)
}

// InvoiceWriter defines write operations for invoice data
type InvoiceWriter interface {
	// SaveInvoice persists an invoice, its line items, and marks the billed
	// time entries invoiced, all within one database transaction.
	SaveInvoice(ctx context.Context, invoice domain.Invoice, billedEntryIDs []string) error

	// UpdateInvoiceStatus updates the lifecycle status fields of an invoice.
	UpdateInvoiceStatus(ctx context.Context, invoice domain.Invoice) error

	// ReleaseEntries unlocks the time entries attached to a voided invoice.
	ReleaseEntries(ctx context.Context, invoiceID string, updatedBy string) error
}

// InvoiceRepositoryWithTx combines invoice repository interfaces with
// transaction management.
type InvoiceRepositoryWithTx interface {
	InvoiceReader
	InvoiceWriter
	TransactionManager
}
