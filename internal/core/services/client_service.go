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

type clientService struct {
	BaseService
	clientRepo portsrepo.ClientRepositoryFacade
}

// NewClientService creates a new client service instance.
func NewClientService(clientRepo portsrepo.ClientRepositoryFacade) portssvc.ClientSvcFacade {
	return &clientService{clientRepo: clientRepo}
}

var _ portssvc.ClientSvcFacade = (*clientService)(nil)

func (s *clientService) CreateClient(ctx context.Context, req dto.CreateClientRequest, creatorUserID string) (*domain.Client, error) {
	if req.HourlyRate.IsNegative() {
		return nil, apperrors.NewAppError(400, "hourly rate must not be negative", apperrors.ErrValidation)
	}

	now := time.Now()
	client := domain.Client{
		ClientID:     uuid.NewString(),
		Name:         req.Name,
		ContactEmail: req.ContactEmail,
		HourlyRate:   req.HourlyRate,
		IsActive:     true,
		AuditFields: domain.AuditFields{
			CreatedAt:     now,
			CreatedBy:     creatorUserID,
			LastUpdatedAt: now,
			LastUpdatedBy: creatorUserID,
		},
	}

	if err := s.clientRepo.SaveClient(ctx, client); err != nil {
		s.LogError(ctx, err, "failed to save client", slog.String("name", req.Name))
		return nil, fmt.Errorf("failed to create client: %w", err)
	}

	s.LogInfo(ctx, "client created", slog.String("client_id", client.ClientID))
	return &client, nil
}

func (s *clientService) GetClientByID(ctx context.Context, clientID string) (*domain.Client, error) {
	client, err := s.clientRepo.FindClientByID(ctx, clientID)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return nil, apperrors.ErrNotFound
		}
		return nil, fmt.Errorf("failed to get client: %w", err)
	}
	return client, nil
}

func (s *clientService) ListClients(ctx context.Context, limit, offset int) ([]domain.Client, error) {
	clients, err := s.clientRepo.FindClients(ctx, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("failed to list clients: %w", err)
	}
	return clients, nil
}

func (s *clientService) UpdateClient(ctx context.Context, clientID string, req dto.UpdateClientRequest, updaterUserID string) (*domain.Client, error) {
	client, err := s.clientRepo.FindClientByID(ctx, clientID)
	if err != nil {
		return nil, err
	}

	if req.Name != nil {
		client.Name = *req.Name
	}
	if req.ContactEmail != nil {
		client.ContactEmail = *req.ContactEmail
	}
	if req.HourlyRate != nil {
		if req.HourlyRate.IsNegative() {
			return nil, apperrors.NewAppError(400, "hourly rate must not be negative", apperrors.ErrValidation)
		}
		// Existing entries keep the rate they were logged with; only new
		// entries pick up the change.
		client.HourlyRate = *req.HourlyRate
	}
	if req.IsActive != nil {
		client.IsActive = *req.IsActive
	}
	client.LastUpdatedAt = time.Now()
	client.LastUpdatedBy = updaterUserID

	if err := s.clientRepo.UpdateClient(ctx, *client); err != nil {
		s.LogError(ctx, err, "failed to update client", slog.String("client_id", clientID))
		return nil, fmt.Errorf("failed to update client: %w", err)
	}
	return client, nil
}

func (s *clientService) DeleteClient(ctx context.Context, clientID string, requestingUserID string) error {
	if err := s.clientRepo.DeleteClient(ctx, clientID); err != nil {
		if errors.Is(err, apperrors.ErrValidation) {
			return apperrors.NewAppError(409, "client has time entries or invoices and cannot be deleted", apperrors.ErrValidation)
		}
		return fmt.Errorf("failed to delete client: %w", err)
	}
	s.LogInfo(ctx, "client deleted", slog.String("client_id", clientID), slog.String("by", requestingUserID))
	return nil
}
