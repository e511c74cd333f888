package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/harborlaw/legal_billing_app/internal/apperrors"
	"github.com/harborlaw/legal_billing_app/internal/core/billing"
	"github.com/harborlaw/legal_billing_app/internal/core/domain"
	portsrepo "github.com/harborlaw/legal_billing_app/internal/core/ports/repositories"
	portssvc "github.com/harborlaw/legal_billing_app/internal/core/ports/services"
	"github.com/harborlaw/legal_billing_app/internal/export"
)

// invoiceNumberPrefix is the prefix of finalized invoice numbers,
// e.g. INV-2026-0042. Drafts carry a provisional DRAFT-xxxxxxxx number
// until finalization assigns the real one.
const invoiceNumberPrefix = "INV"

type invoiceService struct {
	BaseService
	invoiceRepo portsrepo.InvoiceRepositoryWithTx
	entryRepo   portsrepo.TimeEntryReader
	clientRepo  portsrepo.ClientReader
	now         func() time.Time
}

// NewInvoiceService creates a new invoice service instance.
func NewInvoiceService(invoiceRepo portsrepo.InvoiceRepositoryWithTx, entryRepo portsrepo.TimeEntryReader, clientRepo portsrepo.ClientReader) portssvc.InvoiceSvcFacade {
	return &invoiceService{
		invoiceRepo: invoiceRepo,
		entryRepo:   entryRepo,
		clientRepo:  clientRepo,
		now:         time.Now,
	}
}

var _ portssvc.InvoiceSvcFacade = (*invoiceService)(nil)

// CreateFromDraft recomputes the draft server side and persists the result.
// Client-supplied totals are never trusted; the engine is the single source
// of the stored figures. Selected entries are locked in the same transaction
// so two drafts can never bill the same hour twice.
func (s *invoiceService) CreateFromDraft(ctx context.Context, clientID string, period billing.Period, draft billing.Draft, creatorUserID string) (*domain.Invoice, error) {
	if len(draft.SelectedEntryIDs) == 0 && len(draft.ManualItems) == 0 {
		return nil, apperrors.NewAppError(400, "an invoice needs at least one time entry or manual item", apperrors.ErrValidation)
	}

	if _, err := s.clientRepo.FindClientByID(ctx, clientID); err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return nil, apperrors.NewAppError(404, "client not found", apperrors.ErrNotFound)
		}
		return nil, fmt.Errorf("failed to verify client: %w", err)
	}

	var from, to *time.Time
	if start, end, bounded := period.Bounds(s.now()); bounded {
		from, to = &start, &end
	}
	entries, err := s.entryRepo.FindUnbilledEntries(ctx, clientID, from, to)
	if err != nil {
		return nil, fmt.Errorf("failed to load unbilled entries: %w", err)
	}
	entries = billing.FilterByPeriod(billing.UnbilledOnly(entries), period, s.now())

	byID := make(map[string]domain.TimeEntry, len(entries))
	for _, e := range entries {
		byID[e.EntryID] = e
	}
	for _, id := range draft.SelectedEntryIDs {
		if _, ok := byID[id]; !ok {
			return nil, apperrors.NewAppError(400, fmt.Sprintf("entry %s is not billable for this client and period", id), apperrors.ErrValidation)
		}
	}

	totals := billing.ComputeTotals(entries, draft)
	effectiveLines := billing.EffectiveLines(entries, draft)
	effectiveByID := make(map[string]domain.EffectiveLine, len(effectiveLines))
	for _, l := range effectiveLines {
		effectiveByID[l.EntryID] = l
	}

	now := s.now()
	invoiceID := uuid.NewString()

	lineItems := make([]domain.InvoiceLineItem, 0, len(draft.SelectedEntryIDs)+len(draft.ManualItems))
	for _, id := range draft.SelectedEntryIDs {
		entry := byID[id]
		eff := effectiveByID[id]
		entryID := entry.EntryID
		workDate := entry.WorkDate
		lineItems = append(lineItems, domain.InvoiceLineItem{
			LineItemID:  uuid.NewString(),
			InvoiceID:   invoiceID,
			Kind:        domain.LineItemTime,
			EntryID:     &entryID,
			Description: entry.Description,
			WorkDate:    &workDate,
			Hours:       eff.Hours,
			Rate:        entry.Rate,
			Amount:      eff.Amount,
		})
	}
	for _, m := range draft.ManualItems {
		lineItems = append(lineItems, domain.InvoiceLineItem{
			LineItemID:  uuid.NewString(),
			InvoiceID:   invoiceID,
			Kind:        domain.LineItemManual,
			Description: m.Description,
			Quantity:    m.Quantity,
			UnitPrice:   m.UnitPrice,
			Amount:      m.Total(),
		})
	}

	invoice := domain.Invoice{
		InvoiceID: invoiceID,
		ClientID:  clientID,
		Number:    provisionalNumber(invoiceID),
		Status:    domain.InvoiceDraft,
		IssueDate: now,

		OriginalTotal:    totals.OriginalTotal,
		TotalTimeAmount:  totals.TotalTimeAmount,
		TotalHours:       totals.TotalHours,
		ManualTotal:      draft.ManualTotal,
		FinalTotal:       totals.FinalTotal,
		Discount:         totals.Discount,
		ManualItemsTotal: totals.ManualItemsTotal,
		GrandTotal:       totals.GrandTotal,

		LineItems: lineItems,
		AuditFields: domain.AuditFields{
			CreatedAt:     now,
			CreatedBy:     creatorUserID,
			LastUpdatedAt: now,
			LastUpdatedBy: creatorUserID,
		},
	}

	if err := s.invoiceRepo.SaveInvoice(ctx, invoice, draft.SelectedEntryIDs); err != nil {
		if errors.Is(err, apperrors.ErrEntryInvoiced) {
			return nil, apperrors.NewAppError(409, "one or more entries were invoiced by a concurrent request", apperrors.ErrEntryInvoiced)
		}
		s.LogError(ctx, err, "failed to save invoice", slog.String("client_id", clientID))
		return nil, fmt.Errorf("failed to create invoice: %w", err)
	}

	s.LogInfo(ctx, "invoice created from draft",
		slog.String("invoice_id", invoiceID),
		slog.String("client_id", clientID),
		slog.String("grand_total", totals.GrandTotal.String()))
	return &invoice, nil
}

func (s *invoiceService) GetInvoiceByID(ctx context.Context, invoiceID string) (*domain.Invoice, error) {
	invoice, err := s.invoiceRepo.FindInvoiceByID(ctx, invoiceID)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return nil, apperrors.ErrNotFound
		}
		return nil, fmt.Errorf("failed to get invoice: %w", err)
	}
	return invoice, nil
}

func (s *invoiceService) ListInvoices(ctx context.Context, clientID *string, status *domain.InvoiceStatus, limit, offset int) ([]domain.Invoice, error) {
	invoices, err := s.invoiceRepo.FindInvoices(ctx, clientID, status, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("failed to list invoices: %w", err)
	}
	return invoices, nil
}

// FinalizeInvoice locks in a draft: it gets its sequential number and leaves
// the editable state for good.
func (s *invoiceService) FinalizeInvoice(ctx context.Context, invoiceID string, updaterUserID string) (*domain.Invoice, error) {
	invoice, err := s.invoiceRepo.FindInvoiceByID(ctx, invoiceID)
	if err != nil {
		return nil, err
	}

	if !invoice.CanEdit() {
		return nil, apperrors.ErrInvoiceNotEditable
	}

	now := s.now()
	number, err := s.invoiceRepo.NextInvoiceNumber(ctx, invoiceNumberPrefix, now.Year())
	if err != nil {
		return nil, fmt.Errorf("failed to allocate invoice number: %w", err)
	}

	invoice.Number = number
	invoice.IssueDate = now
	invoice.Finalize(now)
	invoice.LastUpdatedBy = updaterUserID

	if err := s.invoiceRepo.UpdateInvoiceStatus(ctx, *invoice); err != nil {
		if errors.Is(err, apperrors.ErrDuplicate) {
			return nil, apperrors.NewAppError(409, "invoice number already allocated, retry finalization", apperrors.ErrDuplicate)
		}
		s.LogError(ctx, err, "failed to finalize invoice", slog.String("invoice_id", invoiceID))
		return nil, fmt.Errorf("failed to finalize invoice: %w", err)
	}

	s.LogInfo(ctx, "invoice finalized", slog.String("invoice_id", invoiceID), slog.String("number", number))
	return invoice, nil
}

func (s *invoiceService) MarkSent(ctx context.Context, invoiceID string, updaterUserID string) (*domain.Invoice, error) {
	return s.transition(ctx, invoiceID, updaterUserID, domain.InvoiceFinalized, domain.InvoiceSent, nil)
}

func (s *invoiceService) MarkPaid(ctx context.Context, invoiceID string, updaterUserID string) (*domain.Invoice, error) {
	now := s.now()
	return s.transition(ctx, invoiceID, updaterUserID, domain.InvoiceSent, domain.InvoicePaid, &now)
}

func (s *invoiceService) transition(ctx context.Context, invoiceID, updaterUserID string, fromStatus, toStatus domain.InvoiceStatus, paidDate *time.Time) (*domain.Invoice, error) {
	invoice, err := s.invoiceRepo.FindInvoiceByID(ctx, invoiceID)
	if err != nil {
		return nil, err
	}

	if invoice.Status != fromStatus {
		return nil, apperrors.NewAppError(409,
			fmt.Sprintf("invoice is %s, expected %s", invoice.Status, fromStatus),
			apperrors.ErrValidation)
	}

	invoice.Status = toStatus
	if paidDate != nil {
		invoice.PaidDate = paidDate
	}
	invoice.LastUpdatedAt = s.now()
	invoice.LastUpdatedBy = updaterUserID

	if err := s.invoiceRepo.UpdateInvoiceStatus(ctx, *invoice); err != nil {
		s.LogError(ctx, err, "failed to update invoice status", slog.String("invoice_id", invoiceID))
		return nil, fmt.Errorf("failed to update invoice status: %w", err)
	}

	s.LogInfo(ctx, "invoice status updated",
		slog.String("invoice_id", invoiceID),
		slog.String("status", string(toStatus)))
	return invoice, nil
}

// VoidInvoice cancels an unpaid invoice and releases its time entries so the
// work becomes billable again.
func (s *invoiceService) VoidInvoice(ctx context.Context, invoiceID string, updaterUserID string) (*domain.Invoice, error) {
	invoice, err := s.invoiceRepo.FindInvoiceByID(ctx, invoiceID)
	if err != nil {
		return nil, err
	}

	if invoice.Status == domain.InvoicePaid {
		return nil, apperrors.NewAppError(409, "paid invoices cannot be voided", apperrors.ErrValidation)
	}

	if invoice.Status != domain.InvoiceVoid {
		invoice.Status = domain.InvoiceVoid
		invoice.LastUpdatedAt = s.now()
		invoice.LastUpdatedBy = updaterUserID

		if err := s.invoiceRepo.UpdateInvoiceStatus(ctx, *invoice); err != nil {
			s.LogError(ctx, err, "failed to void invoice", slog.String("invoice_id", invoiceID))
			return nil, fmt.Errorf("failed to void invoice: %w", err)
		}
	}

	// The release runs on already-VOID invoices too: if a previous void
	// persisted the status but failed to release, the retry must still
	// free the entries. ReleaseEntries is a no-op once they are free.
	if err := s.invoiceRepo.ReleaseEntries(ctx, invoiceID, updaterUserID); err != nil {
		s.LogError(ctx, err, "failed to release entries for voided invoice", slog.String("invoice_id", invoiceID))
		return nil, fmt.Errorf("failed to release entries: %w", err)
	}

	s.LogInfo(ctx, "invoice voided", slog.String("invoice_id", invoiceID))
	return invoice, nil
}

// ExportInvoice renders the invoice as an xlsx workbook.
func (s *invoiceService) ExportInvoice(ctx context.Context, invoiceID string) ([]byte, string, error) {
	invoice, err := s.invoiceRepo.FindInvoiceByID(ctx, invoiceID)
	if err != nil {
		return nil, "", err
	}

	client, err := s.clientRepo.FindClientByID(ctx, invoice.ClientID)
	if err != nil {
		return nil, "", fmt.Errorf("failed to load client for export: %w", err)
	}

	data, err := export.InvoiceWorkbook(invoice, client)
	if err != nil {
		s.LogError(ctx, err, "failed to render invoice workbook", slog.String("invoice_id", invoiceID))
		return nil, "", fmt.Errorf("failed to export invoice: %w", err)
	}

	filename := fmt.Sprintf("%s.xlsx", invoice.Number)
	return data, filename, nil
}

// provisionalNumber derives the placeholder number a draft carries until
// finalization, unique thanks to the embedded invoice ID.
func provisionalNumber(invoiceID string) string {
	short := invoiceID
	if len(short) > 8 {
		short = short[:8]
	}
	return "DRAFT-" + short
}
