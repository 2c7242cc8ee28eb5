package events

import (
	"time"

	"github.com/spec-kit/nutrition-service/internal/domain"
)

// EventType enumerates supported event identifiers.
type EventType string

const (
	EventUserCreated       EventType = "user_created"
	EventPlanAssigned      EventType = "plan_assigned"
	EventPlanStatusChanged EventType = "plan_status_changed"
	EventProgressRecorded  EventType = "progress_recorded"
)

// Actor encapsulates actor metadata for an event.
type Actor struct {
	Role   domain.Role `json:"role"`
	UserID string      `json:"user_id"`
}

// Event represents a domain event emitted by services.
type Event struct {
	ID        string      `json:"id"`
	Type      EventType   `json:"type"`
	SubjectID string      `json:"subject_id"`
	Actor     Actor       `json:"actor"`
	Timestamp time.Time   `json:"timestamp"`
	Payload   interface{} `json:"payload"`
}

// UserCreatedPayload payload.
type UserCreatedPayload struct {
	Role           domain.Role `json:"role"`
	IdentityNumber string      `json:"identity_number"`
}

// PlanAssignedPayload payload.
type PlanAssignedPayload struct {
	PatientID   string `json:"patient_id"`
	ClinicianID string `json:"clinician_id"`
	Title       string `json:"title"`
}

// PlanStatusChangedPayload payload.
type PlanStatusChangedPayload struct {
	OldStatus domain.PlanStatus `json:"old_status"`
	NewStatus domain.PlanStatus `json:"new_status"`
}

// ProgressRecordedPayload payload.
type ProgressRecordedPayload struct {
	PatientID  string    `json:"patient_id"`
	RecordedOn time.Time `json:"recorded_on"`
	WeightKg   float64   `json:"weight_kg"`
}
