package service

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/spec-kit/nutrition-service/internal/domain"
	"github.com/spec-kit/nutrition-service/internal/events"
	"github.com/spec-kit/nutrition-service/internal/repository"
	apperrors "github.com/spec-kit/nutrition-service/pkg/util"
)

// PatientService assembles patient views and records progress.
type PatientService struct {
	users      repository.UserRepository
	patients   repository.PatientRepository
	progress   repository.ProgressRepository
	plans      repository.PlanRepository
	dispatcher events.Dispatcher
}

// NewPatientService builds the service.
func NewPatientService(users repository.UserRepository, patients repository.PatientRepository, progress repository.ProgressRepository, plans repository.PlanRepository, dispatcher events.Dispatcher) *PatientService {
	return &PatientService{
		users:      users,
		patients:   patients,
		progress:   progress,
		plans:      plans,
		dispatcher: dispatcher,
	}
}

// PatientOverview is the view-model for a single patient.
type PatientOverview struct {
	User     domain.User
	Profile  domain.PatientProfile
	Progress []domain.ProgressEntry
	Plans    []domain.MealPlan
}

// PatientListItem pairs a profile with its account for clinician listings.
type PatientListItem struct {
	User    domain.User
	Profile domain.PatientProfile
}

// OverviewForUser loads the full view for the patient owning the account.
func (s *PatientService) OverviewForUser(ctx context.Context, userID string) (*PatientOverview, error) {
	profile, err := s.patients.GetByUserID(ctx, userID)
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, apperrors.NewNotFound("patient profile", nil)
		}
		return nil, err
	}
	return s.overview(ctx, profile)
}

// OverviewForClinician loads a patient view on behalf of the treating
// clinician. Clinicians may only see patients assigned to them.
func (s *PatientService) OverviewForClinician(ctx context.Context, clinicianID, patientID string) (*PatientOverview, error) {
	profile, err := s.patients.GetByID(ctx, patientID)
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, apperrors.NewNotFound("patient profile", nil)
		}
		return nil, err
	}
	if profile.ClinicianID == nil || *profile.ClinicianID != clinicianID {
		return nil, apperrors.NewForbidden("patient not assigned to clinician")
	}
	return s.overview(ctx, profile)
}

// ListForClinician returns the patients assigned to a clinician.
func (s *PatientService) ListForClinician(ctx context.Context, clinicianID string) ([]PatientListItem, error) {
	profiles, err := s.patients.ListByClinician(ctx, clinicianID)
	if err != nil {
		return nil, err
	}

	items := make([]PatientListItem, 0, len(profiles))
	for _, profile := range profiles {
		user, err := s.users.GetByID(ctx, profile.UserID)
		if err != nil {
			if err == pgx.ErrNoRows {
				continue
			}
			return nil, err
		}
		items = append(items, PatientListItem{User: user.Sanitized(), Profile: profile})
	}
	return items, nil
}

// RecordProgress stores a weigh-in for the patient owning the account.
func (s *PatientService) RecordProgress(ctx context.Context, actor events.Actor, userID string, entry *domain.ProgressEntry) (*domain.ProgressEntry, error) {
	profile, err := s.patients.GetByUserID(ctx, userID)
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, apperrors.NewNotFound("patient profile", nil)
		}
		return nil, err
	}
	if entry.WeightKg <= 0 {
		return nil, apperrors.NewValidationError("weight must be positive", map[string]any{"field": "weightKg"})
	}
	if entry.RecordedOn.IsZero() {
		entry.RecordedOn = time.Now()
	}
	entry.PatientID = profile.ID

	if err := s.progress.Create(ctx, entry); err != nil {
		return nil, err
	}

	if s.dispatcher != nil {
		_ = s.dispatcher.Publish(ctx, events.Event{
			ID:        uuid.NewString(),
			Type:      events.EventProgressRecorded,
			SubjectID: profile.ID,
			Actor:     actor,
			Timestamp: time.Now(),
			Payload: events.ProgressRecordedPayload{
				PatientID:  profile.ID,
				RecordedOn: entry.RecordedOn,
				WeightKg:   entry.WeightKg,
			},
		})
	}
	return entry, nil
}

func (s *PatientService) overview(ctx context.Context, profile *domain.PatientProfile) (*PatientOverview, error) {
	user, err := s.users.GetByID(ctx, profile.UserID)
	if err != nil {
		return nil, err
	}
	entries, err := s.progress.ListByPatient(ctx, profile.ID)
	if err != nil {
		return nil, err
	}
	plans, err := s.plans.ListByPatient(ctx, profile.ID)
	if err != nil {
		return nil, err
	}
	return &PatientOverview{
		User:     user.Sanitized(),
		Profile:  *profile,
		Progress: entries,
		Plans:    plans,
	}, nil
}
