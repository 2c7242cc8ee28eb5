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

// PlanService manages meal plan assignment and lifecycle.
type PlanService struct {
	plans      repository.PlanRepository
	patients   repository.PatientRepository
	dispatcher events.Dispatcher
}

// NewPlanService builds the service.
func NewPlanService(plans repository.PlanRepository, patients repository.PatientRepository, dispatcher events.Dispatcher) *PlanService {
	return &PlanService{plans: plans, patients: patients, dispatcher: dispatcher}
}

// Assign creates a plan for a patient on behalf of the treating clinician.
func (s *PlanService) Assign(ctx context.Context, actor events.Actor, clinicianID string, plan *domain.MealPlan) (*domain.MealPlan, error) {
	if plan.Title == "" {
		return nil, apperrors.NewValidationError("title required", map[string]any{"field": "title"})
	}

	profile, err := s.patients.GetByID(ctx, plan.PatientID)
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, apperrors.NewNotFound("patient profile", nil)
		}
		return nil, err
	}
	if profile.ClinicianID == nil || *profile.ClinicianID != clinicianID {
		return nil, apperrors.NewForbidden("patient not assigned to clinician")
	}

	plan.ClinicianID = clinicianID
	if plan.Status == "" {
		plan.Status = domain.PlanStatusActive
	}
	if plan.StartsOn.IsZero() {
		plan.StartsOn = time.Now()
	}

	if err := s.plans.Create(ctx, plan); err != nil {
		return nil, err
	}

	if s.dispatcher != nil {
		_ = s.dispatcher.Publish(ctx, events.Event{
			ID:        uuid.NewString(),
			Type:      events.EventPlanAssigned,
			SubjectID: plan.ID,
			Actor:     actor,
			Timestamp: time.Now(),
			Payload: events.PlanAssignedPayload{
				PatientID:   plan.PatientID,
				ClinicianID: clinicianID,
				Title:       plan.Title,
			},
		})
	}
	return plan, nil
}

// UpdateStatus transitions a plan owned by the clinician.
func (s *PlanService) UpdateStatus(ctx context.Context, actor events.Actor, clinicianID, planID string, status domain.PlanStatus) (*domain.MealPlan, error) {
	switch status {
	case domain.PlanStatusDraft, domain.PlanStatusActive, domain.PlanStatusCompleted:
	default:
		return nil, apperrors.NewValidationError("unknown plan status", map[string]any{"field": "status"})
	}

	plan, err := s.plans.GetByID(ctx, planID)
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, apperrors.NewNotFound("meal plan", nil)
		}
		return nil, err
	}
	if plan.ClinicianID != clinicianID {
		return nil, apperrors.NewForbidden("plan not owned by clinician")
	}

	oldStatus := plan.Status
	if oldStatus == status {
		return plan, nil
	}
	plan.Status = status
	if status == domain.PlanStatusCompleted && plan.EndsOn == nil {
		now := time.Now()
		plan.EndsOn = &now
	}

	if err := s.plans.Update(ctx, plan); err != nil {
		return nil, err
	}

	if s.dispatcher != nil {
		_ = s.dispatcher.Publish(ctx, events.Event{
			ID:        uuid.NewString(),
			Type:      events.EventPlanStatusChanged,
			SubjectID: plan.ID,
			Actor:     actor,
			Timestamp: time.Now(),
			Payload: events.PlanStatusChangedPayload{
				OldStatus: oldStatus,
				NewStatus: status,
			},
		})
	}
	return plan, nil
}

// ListForClinician returns all plans the clinician manages.
func (s *PlanService) ListForClinician(ctx context.Context, clinicianID string) ([]domain.MealPlan, error) {
	return s.plans.ListByClinician(ctx, clinicianID)
}

// ListForPatient returns the plans assigned to a patient profile.
func (s *PlanService) ListForPatient(ctx context.Context, patientID string) ([]domain.MealPlan, error) {
	return s.plans.ListByPatient(ctx, patientID)
}
