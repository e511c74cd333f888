package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/harborlaw/legal_billing_app/internal/apperrors"
	"github.com/harborlaw/legal_billing_app/internal/core/billing"
	"github.com/harborlaw/legal_billing_app/internal/core/domain"
	portsrepo "github.com/harborlaw/legal_billing_app/internal/core/ports/repositories"
	portssvc "github.com/harborlaw/legal_billing_app/internal/core/ports/services"
	"github.com/harborlaw/legal_billing_app/internal/export"
)

type billingService struct {
	BaseService
	entryRepo  portsrepo.TimeEntryReader
	clientRepo portsrepo.ClientReader
	caseRepo   portsrepo.CaseReader
	now        func() time.Time
}

// NewBillingService creates a new billing service instance.
func NewBillingService(entryRepo portsrepo.TimeEntryReader, clientRepo portsrepo.ClientReader, caseRepo portsrepo.CaseReader) portssvc.BillingSvcFacade {
	return &billingService{
		entryRepo:  entryRepo,
		clientRepo: clientRepo,
		caseRepo:   caseRepo,
		now:        time.Now,
	}
}

var _ portssvc.BillingSvcFacade = (*billingService)(nil)

// loadUnbilled fetches the client's unbilled entries for the period. The
// date window is pushed down to the query; the engine re-applies it so the
// same semantics hold for callers that pass pre-loaded slices.
func (s *billingService) loadUnbilled(ctx context.Context, clientID string, period billing.Period) ([]domain.TimeEntry, error) {
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

	return billing.FilterByPeriod(billing.UnbilledOnly(entries), period, s.now()), nil
}

func (s *billingService) UnbilledSummary(ctx context.Context, clientID string, period billing.Period) (*domain.ClientSummary, error) {
	entries, err := s.loadUnbilled(ctx, clientID, period)
	if err != nil {
		return nil, err
	}

	summary := billing.Summarize(clientID, entries)

	caseIDs := make([]string, 0, len(summary.Cases))
	for _, g := range summary.Cases {
		if g.CaseID != domain.NoCaseKey {
			caseIDs = append(caseIDs, g.CaseID)
		}
	}
	if len(caseIDs) > 0 {
		byID, err := s.caseRepo.FindCasesByIDs(ctx, caseIDs)
		if err != nil {
			return nil, fmt.Errorf("failed to load cases for summary: %w", err)
		}
		cases := make([]domain.Case, 0, len(byID))
		for _, c := range byID {
			cases = append(cases, c)
		}
		summary = billing.AnnotateCases(summary, cases)
	}

	s.LogDebug(ctx, "unbilled summary computed",
		slog.String("client_id", clientID),
		slog.Int("entry_count", summary.EntryCount),
		slog.Int("case_groups", len(summary.Cases)))
	return &summary, nil
}

func (s *billingService) ComputeDraft(ctx context.Context, clientID string, period billing.Period, draft billing.Draft) (*domain.Totals, []domain.EffectiveLine, error) {
	entries, err := s.loadUnbilled(ctx, clientID, period)
	if err != nil {
		return nil, nil, err
	}

	byID := make(map[string]struct{}, len(entries))
	for _, e := range entries {
		byID[e.EntryID] = struct{}{}
	}
	for _, id := range draft.SelectedEntryIDs {
		if _, ok := byID[id]; !ok {
			return nil, nil, apperrors.NewAppError(400, fmt.Sprintf("entry %s is not billable for this client and period", id), apperrors.ErrValidation)
		}
	}

	totals := billing.ComputeTotals(entries, draft)
	lines := billing.EffectiveLines(entries, draft)
	return &totals, lines, nil
}

// ExportUnbilledSummary renders the client's unbilled summary as an xlsx
// workbook for download.
func (s *billingService) ExportUnbilledSummary(ctx context.Context, clientID string, period billing.Period) ([]byte, string, error) {
	summary, err := s.UnbilledSummary(ctx, clientID, period)
	if err != nil {
		return nil, "", err
	}

	client, err := s.clientRepo.FindClientByID(ctx, clientID)
	if err != nil {
		return nil, "", fmt.Errorf("failed to load client for export: %w", err)
	}

	data, err := export.SummaryWorkbook(summary, client)
	if err != nil {
		s.LogError(ctx, err, "failed to render summary workbook", slog.String("client_id", clientID))
		return nil, "", fmt.Errorf("failed to export unbilled summary: %w", err)
	}

	filename := fmt.Sprintf("unbilled-%s-%s.xlsx", clientID, s.now().Format("20060102"))
	return data, filename, nil
}
