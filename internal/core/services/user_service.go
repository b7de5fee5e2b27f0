package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/SscSPs/timesheet_app/internal/apperrors"
	"github.com/SscSPs/timesheet_app/internal/core/domain"
	portsrepo "github.com/SscSPs/timesheet_app/internal/core/ports/repositories"
	portssvc "github.com/SscSPs/timesheet_app/internal/core/ports/services"
	"github.com/SscSPs/timesheet_app/internal/dto"
	"github.com/SscSPs/timesheet_app/internal/utils"
	"github.com/google/uuid"
)

// ErrInvalidCredentials is returned by AuthenticateUser for an unknown email or wrong password.
var ErrInvalidCredentials = apperrors.NewAppError(401, "Invalid email or password", apperrors.ErrUnauthorized)

type userService struct {
	BaseService
	userRepo portsrepo.UserRepositoryFacade
}

func NewUserService(userRepo portsrepo.UserRepositoryFacade, options ...ServiceOption) portssvc.UserSvcFacade {
	return &userService{BaseService: newBaseService(options...), userRepo: userRepo}
}

var _ portssvc.UserSvcFacade = (*userService)(nil)

// RegisterUser stores a new user with role "user". The repository promotes the very
// first user to admin so a fresh install can be administered.
func (s *userService) RegisterUser(ctx context.Context, req dto.RegisterUserRequest) (*domain.User, error) {
	email := utils.NormalizeEmail(req.Email)
	if existing, err := s.userRepo.FindUserByEmail(ctx, email); err == nil && existing != nil {
		return nil, apperrors.NewConflictError("Email already registered")
	} else if err != nil && !errors.Is(err, apperrors.ErrNotFound) {
		s.LogError(ctx, err, "Failed to check existing user by email")
		return nil, err
	}

	hash, err := utils.HashPassword(req.Password)
	if err != nil {
		s.LogError(ctx, err, "Failed to hash password")
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	now := s.Now()
	userID := uuid.NewString()
	user := domain.User{
		UserID:       userID,
		Name:         strings.TrimSpace(req.Name),
		Email:        email,
		PasswordHash: hash,
		Role:         domain.RoleUser,
		AuditFields: domain.AuditFields{
			CreatedAt:     now,
			CreatedBy:     userID,
			LastUpdatedAt: now,
			LastUpdatedBy: userID,
		},
	}

	role, err := s.userRepo.SaveUser(ctx, user)
	if err != nil {
		if errors.Is(err, apperrors.ErrDuplicate) {
			return nil, apperrors.NewConflictError("Email already registered")
		}
		s.LogError(ctx, err, "Failed to save user", slog.String("user_id", userID))
		return nil, err
	}
	user.Role = role
	s.LogInfo(ctx, "User registered", slog.String("user_id", userID), slog.String("role", string(role)))
	s.Track(userID, "user_registered", map[string]any{"role": string(role)})
	return &user, nil
}

func (s *userService) GetUserByID(ctx context.Context, userID string) (*domain.User, error) {
	user, err := s.userRepo.FindUserByID(ctx, userID)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return nil, apperrors.NewNotFoundError("User not found")
		}
		s.LogError(ctx, err, "Failed to get user by ID", slog.String("user_id", userID))
		return nil, err
	}
	return user, nil
}

func (s *userService) ListUsers(ctx context.Context, limit, offset int) ([]domain.User, error) {
	users, err := s.userRepo.FindUsers(ctx, limit, offset)
	if err != nil {
		s.LogError(ctx, err, "Failed to list users")
		return nil, err
	}
	if users == nil {
		return []domain.User{}, nil
	}
	return users, nil
}

// UpdateUser lets users rename themselves and admins edit anyone, including roles.
func (s *userService) UpdateUser(ctx context.Context, userID string, req dto.UpdateUserRequest, actor domain.Identity) (*domain.User, error) {
	if userID != actor.UserID && !actor.IsAdmin() {
		return nil, apperrors.NewForbiddenError("Forbidden")
	}
	if req.Role != nil && !actor.IsAdmin() {
		return nil, apperrors.NewForbiddenError("Only admins can change roles")
	}

	user, err := s.GetUserByID(ctx, userID)
	if err != nil {
		return nil, err
	}

	if req.Name != nil {
		name := strings.TrimSpace(*req.Name)
		if name == "" {
			return nil, apperrors.NewValidationFailedError("name must not be empty")
		}
		user.Name = name
	}
	if req.Role != nil {
		role := domain.UserRole(*req.Role)
		if !role.Valid() {
			return nil, apperrors.NewValidationFailedError("Invalid role")
		}
		if userID == actor.UserID && role != domain.RoleAdmin {
			return nil, apperrors.NewValidationFailedError("Admins cannot demote themselves")
		}
		user.Role = role
	}
	user.LastUpdatedAt = s.Now()
	user.LastUpdatedBy = actor.UserID

	if err := s.userRepo.UpdateUser(ctx, *user); err != nil {
		s.LogError(ctx, err, "Failed to update user", slog.String("user_id", userID))
		return nil, err
	}
	s.LogInfo(ctx, "User updated", slog.String("user_id", userID))
	return user, nil
}

// DeleteUser soft deletes a user. Admins only, and never themselves.
func (s *userService) DeleteUser(ctx context.Context, userID string, actor domain.Identity) error {
	if !actor.IsAdmin() {
		return apperrors.NewForbiddenError("Forbidden")
	}
	if userID == actor.UserID {
		return apperrors.NewValidationFailedError("Admins cannot delete themselves")
	}
	if err := s.userRepo.MarkUserDeleted(ctx, userID, s.Now(), actor.UserID); err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return apperrors.NewNotFoundError("User not found")
		}
		s.LogError(ctx, err, "Failed to delete user", slog.String("user_id", userID))
		return err
	}
	s.LogInfo(ctx, "User deleted", slog.String("user_id", userID))
	return nil
}

// AuthenticateUser checks the password of the user with email.
func (s *userService) AuthenticateUser(ctx context.Context, email, password string) (*domain.User, error) {
	user, err := s.userRepo.FindUserByEmail(ctx, utils.NormalizeEmail(email))
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return nil, ErrInvalidCredentials
		}
		s.LogError(ctx, err, "Failed to look up user for login")
		return nil, err
	}
	if !utils.CheckPasswordHash(password, user.PasswordHash) {
		s.LogWarn(ctx, "Login with wrong password", slog.String("user_id", user.UserID))
		return nil, ErrInvalidCredentials
	}
	return user, nil
}
