package service

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/spec-kit/nutrition-service/internal/auth"
	"github.com/spec-kit/nutrition-service/internal/config"
	"github.com/spec-kit/nutrition-service/internal/domain"
	"github.com/spec-kit/nutrition-service/internal/events"
	"github.com/spec-kit/nutrition-service/internal/repository"
	apperrors "github.com/spec-kit/nutrition-service/pkg/util"
)

// UserService covers the admin-facing account management surface.
type UserService struct {
	users      repository.UserRepository
	clinicians repository.ClinicianRepository
	patients   repository.PatientRepository
	dispatcher events.Dispatcher
	bcryptCost int
}

// NewUserService builds the service.
func NewUserService(cfg config.Config, users repository.UserRepository, clinicians repository.ClinicianRepository, patients repository.PatientRepository, dispatcher events.Dispatcher) *UserService {
	return &UserService{
		users:      users,
		clinicians: clinicians,
		patients:   patients,
		dispatcher: dispatcher,
		bcryptCost: cfg.Auth.BcryptCost,
	}
}

// CreateUserInput carries the fields required to open an account.
type CreateUserInput struct {
	FullName       string
	Email          string
	IdentityNumber string
	Password       string
	Role           domain.Role
	LicenseNumber  string
	Specialty      string
}

// Create opens a new account and, for clinicians, the attached profile.
func (s *UserService) Create(ctx context.Context, actor events.Actor, input CreateUserInput) (*domain.User, error) {
	if input.FullName == "" || input.Email == "" || input.IdentityNumber == "" || input.Password == "" {
		return nil, apperrors.NewValidationError("name, email, identity number and password required", nil)
	}
	if !input.Role.Known() {
		return nil, apperrors.NewValidationError("unknown role", map[string]any{"field": "role"})
	}
	if _, err := s.users.GetByIdentityNumber(ctx, input.IdentityNumber); err == nil {
		return nil, apperrors.NewConflict("identity number already registered", map[string]any{"field": "identityCard"})
	} else if err != pgx.ErrNoRows {
		return nil, err
	}

	hash, err := auth.HashPassword(input.Password, s.bcryptCost)
	if err != nil {
		return nil, err
	}

	user := &domain.User{
		FullName:       input.FullName,
		Email:          input.Email,
		IdentityNumber: input.IdentityNumber,
		PasswordHash:   hash,
		Role:           input.Role,
		Active:         true,
	}
	if err := s.users.Create(ctx, user); err != nil {
		return nil, err
	}

	if input.Role == domain.RoleClinician {
		clinician := &domain.Clinician{
			UserID:        user.ID,
			LicenseNumber: input.LicenseNumber,
			Specialty:     input.Specialty,
		}
		if err := s.clinicians.Create(ctx, clinician); err != nil {
			return nil, err
		}
	}

	if s.dispatcher != nil {
		_ = s.dispatcher.Publish(ctx, events.Event{
			ID:        uuid.NewString(),
			Type:      events.EventUserCreated,
			SubjectID: user.ID,
			Actor:     actor,
			Timestamp: time.Now(),
			Payload: events.UserCreatedPayload{
				Role:           user.Role,
				IdentityNumber: user.IdentityNumber,
			},
		})
	}

	sanitized := user.Sanitized()
	return &sanitized, nil
}

// List returns every account, password hashes stripped.
func (s *UserService) List(ctx context.Context) ([]domain.User, error) {
	users, err := s.users.List(ctx)
	if err != nil {
		return nil, err
	}
	for i := range users {
		users[i] = users[i].Sanitized()
	}
	return users, nil
}

// SetActive enables or disables an account.
func (s *UserService) SetActive(ctx context.Context, id string, active bool) (*domain.User, error) {
	user, err := s.users.GetByID(ctx, id)
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, apperrors.NewNotFound("user", nil)
		}
		return nil, err
	}
	user.Active = active
	if err := s.users.Update(ctx, user); err != nil {
		return nil, err
	}
	sanitized := user.Sanitized()
	return &sanitized, nil
}

// UpdateRole reassigns an account's role. Outstanding tokens minted under the
// old role fail the stale-role check on their next use.
func (s *UserService) UpdateRole(ctx context.Context, id string, role domain.Role) (*domain.User, error) {
	if !role.Known() {
		return nil, apperrors.NewValidationError("unknown role", map[string]any{"field": "role"})
	}
	user, err := s.users.GetByID(ctx, id)
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, apperrors.NewNotFound("user", nil)
		}
		return nil, err
	}
	user.Role = role
	if err := s.users.Update(ctx, user); err != nil {
		return nil, err
	}
	sanitized := user.Sanitized()
	return &sanitized, nil
}
