package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/hightask/helpdesk-api/internal/auth"
	"github.com/hightask/helpdesk-api/internal/config"
	"github.com/hightask/helpdesk-api/internal/domain"
	"github.com/hightask/helpdesk-api/internal/repository"
	apperrors "github.com/hightask/helpdesk-api/pkg/util"
)

// Non-admin accounts must be inactive this long before an admin may delete them.
const deletionInactivityFloor = 30 * 24 * time.Hour

// UserService manages the account directory on behalf of admins.
type UserService struct {
	users             repository.UserRepository
	bcryptCost        int
	defaultAdminEmail string
}

// NewUserService constructs the service.
func NewUserService(cfg config.Config, users repository.UserRepository) *UserService {
	return &UserService{
		users:             users,
		bcryptCost:        cfg.Auth.BcryptCost,
		defaultAdminEmail: cfg.Bootstrap.AdminEmail,
	}
}

// UserCreateInput describes an admin-created account.
type UserCreateInput struct {
	Email    string
	Name     string
	Password string
	Role     domain.Role
}

func requireAdmin(caller domain.Identity) error {
	if !caller.IsAdmin() {
		return apperrors.NewForbidden("admin access required")
	}
	return nil
}

// ListUsers returns every account. Admin only.
func (s *UserService) ListUsers(ctx context.Context, caller domain.Identity) ([]domain.User, error) {
	if err := requireAdmin(caller); err != nil {
		return nil, err
	}
	users, err := s.users.List(ctx)
	if err != nil {
		return nil, apperrors.MapError(err)
	}
	return users, nil
}

// CreateUser creates an account with any role. Admin only; public signup goes
// through AuthService and is always role user.
func (s *UserService) CreateUser(ctx context.Context, caller domain.Identity, input UserCreateInput) (*domain.User, error) {
	if err := requireAdmin(caller); err != nil {
		return nil, err
	}
	role := input.Role
	if role == "" {
		role = domain.RoleUser
	}
	if !domain.ValidRole(role) {
		return nil, apperrors.NewValidationError("unknown role", map[string]any{"role": role})
	}
	if _, err := s.users.GetByEmail(ctx, input.Email); err == nil {
		return nil, apperrors.NewConflict("email already registered", nil)
	} else if !errors.Is(err, pgx.ErrNoRows) {
		return nil, apperrors.MapError(err)
	}

	hash, err := auth.HashPassword(input.Password, s.bcryptCost)
	if err != nil {
		return nil, apperrors.MapError(err)
	}
	user := &domain.User{
		Email:        strings.TrimSpace(input.Email),
		Name:         strings.TrimSpace(input.Name),
		Role:         role,
		PasswordHash: hash,
	}
	if err := s.users.Create(ctx, user); err != nil {
		return nil, apperrors.MapError(err)
	}
	return user, nil
}

// DeleteUser removes an account, subject to three rules: admins cannot delete
// themselves, non-admin accounts need 30 days of inactivity, and the
// bootstrap default admin is never deletable.
func (s *UserService) DeleteUser(ctx context.Context, caller domain.Identity, userID string) error {
	if err := requireAdmin(caller); err != nil {
		return err
	}
	if caller.ID == userID {
		return apperrors.NewValidationError("cannot delete your own account", nil)
	}

	user, err := s.users.GetByID(ctx, userID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return apperrors.NewNotFound("user", map[string]any{"user_id": userID})
		}
		return apperrors.MapError(err)
	}

	if user.Role != domain.RoleAdmin && user.LastSignInAt != nil {
		inactive := time.Since(*user.LastSignInAt)
		if inactive < deletionInactivityFloor {
			remaining := int((deletionInactivityFloor - inactive).Hours()/24) + 1
			return apperrors.NewValidationError(
				fmt.Sprintf("user must be inactive for at least 30 days before deletion; %d days remaining", remaining),
				map[string]any{"days_remaining": remaining},
			)
		}
	}

	if strings.EqualFold(user.Email, s.defaultAdminEmail) {
		return apperrors.NewValidationError("cannot delete the default administrator account", nil)
	}

	if err := s.users.Delete(ctx, userID); err != nil {
		return apperrors.MapError(err)
	}
	return nil
}

// ListTechnicians returns accounts that can be assigned tickets: technicians
// and admins. Available to technicians and admins.
func (s *UserService) ListTechnicians(ctx context.Context, caller domain.Identity) ([]domain.User, error) {
	if !caller.IsTechnicianOrAdmin() {
		return nil, apperrors.NewForbidden("technician or admin access required")
	}
	users, err := s.users.ListByRoles(ctx, []domain.Role{domain.RoleTechnician, domain.RoleAdmin})
	if err != nil {
		return nil, apperrors.MapError(err)
	}
	return users, nil
}
