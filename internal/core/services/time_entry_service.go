package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/harborlaw/legal_billing_app/internal/apperrors"
	"github.com/harborlaw/legal_billing_app/internal/core/domain"
	portsrepo "github.com/harborlaw/legal_billing_app/internal/core/ports/repositories"
	portssvc "github.com/harborlaw/legal_billing_app/internal/core/ports/services"
	"github.com/harborlaw/legal_billing_app/internal/dto"
)

type timeEntryService struct {
	BaseService
	entryRepo  portsrepo.TimeEntryRepositoryFacade
	clientRepo portsrepo.ClientReader
	caseRepo   portsrepo.CaseReader
}

// NewTimeEntryService creates a new time entry service instance.
func NewTimeEntryService(entryRepo portsrepo.TimeEntryRepositoryFacade, clientRepo portsrepo.ClientReader, caseRepo portsrepo.CaseReader) portssvc.TimeEntrySvcFacade {
	return &timeEntryService{entryRepo: entryRepo, clientRepo: clientRepo, caseRepo: caseRepo}
}

var _ portssvc.TimeEntrySvcFacade = (*timeEntryService)(nil)

func (s *timeEntryService) CreateEntry(ctx context.Context, req dto.CreateTimeEntryRequest, creatorUserID string) (*domain.TimeEntry, error) {
	client, err := s.clientRepo.FindClientByID(ctx, req.ClientID)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return nil, apperrors.NewAppError(404, "client not found", apperrors.ErrNotFound)
		}
		return nil, fmt.Errorf("failed to verify client: %w", err)
	}

	if req.CaseID != nil {
		c, err := s.caseRepo.FindCaseByID(ctx, *req.CaseID)
		if err != nil {
			if errors.Is(err, apperrors.ErrNotFound) {
				return nil, apperrors.NewAppError(404, "case not found", apperrors.ErrNotFound)
			}
			return nil, fmt.Errorf("failed to verify case: %w", err)
		}
		if c.ClientID != req.ClientID {
			return nil, apperrors.NewAppError(400, "case belongs to a different client", apperrors.ErrValidation)
		}
	}

	// The rate is frozen onto the entry at creation; later changes to the
	// client's hourly rate do not touch logged work.
	rate := client.HourlyRate
	if req.Rate != nil {
		rate = *req.Rate
	}

	now := time.Now()
	entry := domain.TimeEntry{
		EntryID:     uuid.NewString(),
		ClientID:    req.ClientID,
		CaseID:      req.CaseID,
		Description: req.Description,
		Hours:       req.Hours,
		Rate:        rate,
		WorkDate:    req.WorkDate,
		AuditFields: domain.AuditFields{
			CreatedAt:     now,
			CreatedBy:     creatorUserID,
			LastUpdatedAt: now,
			LastUpdatedBy: creatorUserID,
		},
	}

	if err := entry.Validate(); err != nil {
		return nil, apperrors.NewAppError(400, err.Error(), apperrors.ErrValidation)
	}

	if err := s.entryRepo.SaveEntry(ctx, entry); err != nil {
		s.LogError(ctx, err, "failed to save time entry", slog.String("client_id", req.ClientID))
		return nil, fmt.Errorf("failed to create time entry: %w", err)
	}

	s.LogInfo(ctx, "time entry created", slog.String("entry_id", entry.EntryID))
	return &entry, nil
}

func (s *timeEntryService) GetEntryByID(ctx context.Context, entryID string) (*domain.TimeEntry, error) {
	entry, err := s.entryRepo.FindEntryByID(ctx, entryID)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return nil, apperrors.ErrNotFound
		}
		return nil, fmt.Errorf("failed to get time entry: %w", err)
	}
	return entry, nil
}

func (s *timeEntryService) ListEntriesByClient(ctx context.Context, clientID string, limit int, nextToken *string) ([]domain.TimeEntry, *string, error) {
	entries, token, err := s.entryRepo.FindEntriesByClient(ctx, clientID, limit, nextToken)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to list time entries: %w", err)
	}
	return entries, token, nil
}

func (s *timeEntryService) UpdateEntry(ctx context.Context, entryID string, req dto.UpdateTimeEntryRequest, updaterUserID string) (*domain.TimeEntry, error) {
	entry, err := s.entryRepo.FindEntryByID(ctx, entryID)
	if err != nil {
		return nil, err
	}

	if entry.Invoiced {
		return nil, apperrors.ErrEntryInvoiced
	}

	if req.CaseID != nil {
		if *req.CaseID == "" {
			entry.CaseID = nil
		} else {
			c, err := s.caseRepo.FindCaseByID(ctx, *req.CaseID)
			if err != nil {
				if errors.Is(err, apperrors.ErrNotFound) {
					return nil, apperrors.NewAppError(404, "case not found", apperrors.ErrNotFound)
				}
				return nil, fmt.Errorf("failed to verify case: %w", err)
			}
			if c.ClientID != entry.ClientID {
				return nil, apperrors.NewAppError(400, "case belongs to a different client", apperrors.ErrValidation)
			}
			entry.CaseID = req.CaseID
		}
	}
	if req.Description != nil {
		entry.Description = *req.Description
	}
	if req.Hours != nil {
		entry.Hours = *req.Hours
	}
	if req.Rate != nil {
		entry.Rate = *req.Rate
	}
	if req.WorkDate != nil {
		entry.WorkDate = *req.WorkDate
	}
	entry.LastUpdatedAt = time.Now()
	entry.LastUpdatedBy = updaterUserID

	if err := entry.Validate(); err != nil {
		return nil, apperrors.NewAppError(400, err.Error(), apperrors.ErrValidation)
	}

	if err := s.entryRepo.UpdateEntry(ctx, *entry); err != nil {
		s.LogError(ctx, err, "failed to update time entry", slog.String("entry_id", entryID))
		return nil, fmt.Errorf("failed to update time entry: %w", err)
	}
	return entry, nil
}

func (s *timeEntryService) DeleteEntry(ctx context.Context, entryID string, requestingUserID string) error {
	entry, err := s.entryRepo.FindEntryByID(ctx, entryID)
	if err != nil {
		return err
	}

	if entry.Invoiced {
		return apperrors.ErrEntryInvoiced
	}

	if err := s.entryRepo.DeleteEntry(ctx, entryID); err != nil {
		return fmt.Errorf("failed to delete time entry: %w", err)
	}

	s.LogInfo(ctx, "time entry deleted", slog.String("entry_id", entryID), slog.String("by", requestingUserID))
	return nil
}
