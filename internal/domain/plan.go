package domain

import "time"

// PlanStatus represents lifecycle states for a meal plan.
type PlanStatus string

const (
	PlanStatusDraft     PlanStatus = "DRAFT"
	PlanStatusActive    PlanStatus = "ACTIVE"
	PlanStatusCompleted PlanStatus = "COMPLETED"
)

// MealPlan is a nutrition plan a clinician assigns to a patient.
type MealPlan struct {
	ID          string
	PatientID   string
	ClinicianID string
	Title       string
	Status      PlanStatus
	StartsOn    time.Time
	EndsOn      *time.Time
	Notes       string
	CreatedAt   time.Time
	UpdatedAt   time.Time
}
