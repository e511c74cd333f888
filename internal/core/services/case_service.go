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

type caseService struct {
	BaseService
	caseRepo   portsrepo.CaseRepositoryFacade
	clientRepo portsrepo.ClientReader
}

// NewCaseService creates a new case service instance.
func NewCaseService(caseRepo portsrepo.CaseRepositoryFacade, clientRepo portsrepo.ClientReader) portssvc.CaseSvcFacade {
	return &caseService{caseRepo: caseRepo, clientRepo: clientRepo}
}

var _ portssvc.CaseSvcFacade = (*caseService)(nil)

func (s *caseService) CreateCase(ctx context.Context, req dto.CreateCaseRequest, creatorUserID string) (*domain.Case, error) {
	// The client must exist before a case can be opened under it.
	if _, err := s.clientRepo.FindClientByID(ctx, req.ClientID); err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return nil, apperrors.NewAppError(404, "client not found", apperrors.ErrNotFound)
		}
		return nil, fmt.Errorf("failed to verify client: %w", err)
	}

	now := time.Now()
	c := domain.Case{
		CaseID:   uuid.NewString(),
		ClientID: req.ClientID,
		Number:   req.Number,
		Title:    req.Title,
		Status:   domain.CaseOpen,
		AuditFields: domain.AuditFields{
			CreatedAt:     now,
			CreatedBy:     creatorUserID,
			LastUpdatedAt: now,
			LastUpdatedBy: creatorUserID,
		},
	}

	if err := s.caseRepo.SaveCase(ctx, c); err != nil {
		if errors.Is(err, apperrors.ErrDuplicate) {
			return nil, apperrors.NewAppError(409, "case number already used for this client", apperrors.ErrDuplicate)
		}
		s.LogError(ctx, err, "failed to save case", slog.String("client_id", req.ClientID))
		return nil, fmt.Errorf("failed to create case: %w", err)
	}

	s.LogInfo(ctx, "case created", slog.String("case_id", c.CaseID), slog.String("client_id", c.ClientID))
	return &c, nil
}

func (s *caseService) GetCaseByID(ctx context.Context, caseID string) (*domain.Case, error) {
	c, err := s.caseRepo.FindCaseByID(ctx, caseID)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return nil, apperrors.ErrNotFound
		}
		return nil, fmt.Errorf("failed to get case: %w", err)
	}
	return c, nil
}

func (s *caseService) ListCasesByClient(ctx context.Context, clientID string, limit, offset int) ([]domain.Case, error) {
	cases, err := s.caseRepo.FindCasesByClient(ctx, clientID, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("failed to list cases: %w", err)
	}
	return cases, nil
}

func (s *caseService) UpdateCase(ctx context.Context, caseID string, req dto.UpdateCaseRequest, updaterUserID string) (*domain.Case, error) {
	c, err := s.caseRepo.FindCaseByID(ctx, caseID)
	if err != nil {
		return nil, err
	}

	if req.Number != nil {
		c.Number = *req.Number
	}
	if req.Title != nil {
		c.Title = *req.Title
	}
	c.LastUpdatedAt = time.Now()
	c.LastUpdatedBy = updaterUserID

	if err := s.caseRepo.UpdateCase(ctx, *c); err != nil {
		s.LogError(ctx, err, "failed to update case", slog.String("case_id", caseID))
		return nil, fmt.Errorf("failed to update case: %w", err)
	}
	return c, nil
}

// CloseCase marks a case closed. Closed cases still appear in unbilled
// summaries; outstanding work remains billable.
func (s *caseService) CloseCase(ctx context.Context, caseID string, updaterUserID string) (*domain.Case, error) {
	c, err := s.caseRepo.FindCaseByID(ctx, caseID)
	if err != nil {
		return nil, err
	}

	if c.Status == domain.CaseClosed {
		return c, nil
	}

	c.Status = domain.CaseClosed
	c.LastUpdatedAt = time.Now()
	c.LastUpdatedBy = updaterUserID

	if err := s.caseRepo.UpdateCase(ctx, *c); err != nil {
		s.LogError(ctx, err, "failed to close case", slog.String("case_id", caseID))
		return nil, fmt.Errorf("failed to close case: %w", err)
	}

	s.LogInfo(ctx, "case closed", slog.String("case_id", caseID))
	return c, nil
}
