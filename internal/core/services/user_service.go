package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/harborlaw/legal_billing_app/internal/apperrors"
	"github.com/harborlaw/legal_billing_app/internal/core/domain"
	portsrepo "github.com/harborlaw/legal_billing_app/internal/core/ports/repositories"
	portssvc "github.com/harborlaw/legal_billing_app/internal/core/ports/services"
	"github.com/harborlaw/legal_billing_app/internal/dto"
	"github.com/harborlaw/legal_billing_app/internal/utils"
	"log/slog"
)

type userService struct {
	BaseService
	userRepo portsrepo.UserRepositoryFacade
}

// NewUserService creates a new user service instance.
func NewUserService(userRepo portsrepo.UserRepositoryFacade) portssvc.UserSvcFacade {
	return &userService{userRepo: userRepo}
}

var _ portssvc.UserSvcFacade = (*userService)(nil)

func (s *userService) CreateUser(ctx context.Context, req dto.CreateUserRequest) (*domain.User, error) {
	passwordHash, err := utils.HashPassword(req.Password)
	if err != nil {
		s.LogError(ctx, err, "failed to hash password for new user")
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	now := time.Now()
	newUserID := uuid.NewString()

	user := domain.User{
		UserID:       newUserID,
		Username:     req.Username,
		Name:         req.Name,
		PasswordHash: passwordHash,
		AuditFields: domain.AuditFields{
			CreatedAt:     now,
			CreatedBy:     newUserID,
			LastUpdatedAt: now,
			LastUpdatedBy: newUserID,
		},
	}

	if err := s.userRepo.SaveUser(ctx, user); err != nil {
		if errors.Is(err, apperrors.ErrDuplicate) {
			return nil, apperrors.NewAppError(409, "username already taken", apperrors.ErrDuplicate)
		}
		s.LogError(ctx, err, "failed to save user", slog.String("username", req.Username))
		return nil, fmt.Errorf("failed to create user: %w", err)
	}

	s.LogInfo(ctx, "user created", slog.String("user_id", user.UserID))
	return &user, nil
}

func (s *userService) GetUserByID(ctx context.Context, userID string) (*domain.User, error) {
	user, err := s.userRepo.FindUserByID(ctx, userID)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return nil, apperrors.ErrNotFound
		}
		return nil, fmt.Errorf("failed to get user by ID: %w", err)
	}
	return user, nil
}

func (s *userService) GetUserByUsername(ctx context.Context, username string) (*domain.User, error) {
	user, err := s.userRepo.FindUserByUsername(ctx, username)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return nil, apperrors.ErrNotFound
		}
		return nil, fmt.Errorf("failed to get user by username: %w", err)
	}
	return user, nil
}

func (s *userService) ListUsers(ctx context.Context, limit, offset int) ([]domain.User, error) {
	users, err := s.userRepo.FindUsers(ctx, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("failed to list users: %w", err)
	}
	return users, nil
}

func (s *userService) UpdateUser(ctx context.Context, userID string, req dto.UpdateUserRequest, requestingUserID string) (*domain.User, error) {
	if userID != requestingUserID {
		return nil, apperrors.ErrForbidden
	}

	user, err := s.userRepo.FindUserByID(ctx, userID)
	if err != nil {
		return nil, err
	}

	if req.Name != nil {
		user.Name = *req.Name
	}
	user.LastUpdatedAt = time.Now()
	user.LastUpdatedBy = requestingUserID

	if err := s.userRepo.UpdateUser(ctx, *user); err != nil {
		s.LogError(ctx, err, "failed to update user", slog.String("user_id", userID))
		return nil, fmt.Errorf("failed to update user: %w", err)
	}
	return user, nil
}

func (s *userService) UpdateRefreshToken(ctx context.Context, userID string, refreshTokenHash string, refreshTokenExpiryTime time.Time) error {
	if err := s.userRepo.UpdateRefreshTokenDetails(ctx, userID, refreshTokenHash, refreshTokenExpiryTime); err != nil {
		s.LogError(ctx, err, "failed to update refresh token", slog.String("user_id", userID))
		return fmt.Errorf("failed to update refresh token: %w", err)
	}
	return nil
}

func (s *userService) ClearRefreshToken(ctx context.Context, userID string) error {
	if err := s.userRepo.ClearRefreshTokenDetails(ctx, userID); err != nil {
		s.LogError(ctx, err, "failed to clear refresh token", slog.String("user_id", userID))
		return fmt.Errorf("failed to clear refresh token: %w", err)
	}
	return nil
}

func (s *userService) DeleteUser(ctx context.Context, userID string, requestingUserID string) error {
	if userID != requestingUserID {
		return apperrors.ErrForbidden
	}
	if err := s.userRepo.MarkUserDeleted(ctx, userID, time.Now(), requestingUserID); err != nil {
		return fmt.Errorf("failed to delete user: %w", err)
	}
	s.LogInfo(ctx, "user deleted", slog.String("user_id", userID))
	return nil
}

func (s *userService) AuthenticateUser(ctx context.Context, username, password string) (*domain.User, error) {
	user, err := s.userRepo.FindUserByUsername(ctx, username)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			// Same failure mode as a wrong password; do not leak which one it was.
			return nil, apperrors.ErrUnauthorized
		}
		return nil, fmt.Errorf("failed to authenticate user: %w", err)
	}

	if !utils.CheckPasswordHash(password, user.PasswordHash) {
		return nil, apperrors.ErrUnauthorized
	}

	return user, nil
}

func (s *userService) GetOrCreateGoogleUser(ctx context.Context, info domain.GoogleUserInfo) (*domain.User, error) {
	if info.Email == "" {
		return nil, apperrors.NewBadRequestError("google profile has no email address")
	}

	user, err := s.userRepo.FindUserByUsername(ctx, info.Email)
	if err == nil {
		return user, nil
	}
	if !errors.Is(err, apperrors.ErrNotFound) {
		return nil, fmt.Errorf("failed to look up google user: %w", err)
	}

	// First sign-in via Google. The local password is a random throwaway so
	// the account cannot be used with password login until one is set.
	randomSecret, err := utils.GenerateSecureRandomString(32)
	if err != nil {
		return nil, fmt.Errorf("failed to generate placeholder password: %w", err)
	}
	passwordHash, err := utils.HashPassword(randomSecret)
	if err != nil {
		return nil, fmt.Errorf("failed to hash placeholder password: %w", err)
	}

	now := time.Now()
	newUserID := uuid.NewString()
	newUser := domain.User{
		UserID:       newUserID,
		Username:     info.Email,
		Name:         info.Name,
		PasswordHash: passwordHash,
		AuditFields: domain.AuditFields{
			CreatedAt:     now,
			CreatedBy:     newUserID,
			LastUpdatedAt: now,
			LastUpdatedBy: newUserID,
		},
	}

	if err := s.userRepo.SaveUser(ctx, newUser); err != nil {
		if errors.Is(err, apperrors.ErrDuplicate) {
			// Lost a race with a concurrent first sign-in; the row exists now.
			return s.userRepo.FindUserByUsername(ctx, info.Email)
		}
		s.LogError(ctx, err, "failed to create google user", slog.String("email", info.Email))
		return nil, fmt.Errorf("failed to create google user: %w", err)
	}

	s.LogInfo(ctx, "user created via google sign-in", slog.String("user_id", newUser.UserID))
	return &newUser, nil
}
