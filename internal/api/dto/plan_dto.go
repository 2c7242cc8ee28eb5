package dto

import "time"

// AssignPlanRequest payload for assigning a meal plan to a patient.
type AssignPlanRequest struct {
	PatientID string     `json:"patientId"`
	Title     string     `json:"title"`
	StartsOn  *time.Time `json:"startsOn,omitempty"`
	EndsOn    *time.Time `json:"endsOn,omitempty"`
	Notes     string     `json:"notes,omitempty"`
}

// UpdatePlanStatusRequest transitions a plan.
type UpdatePlanStatusRequest struct {
	Status string `json:"status"`
}

// RecordProgressRequest payload for a patient weigh-in.
type RecordProgressRequest struct {
	RecordedOn *time.Time `json:"recordedOn,omitempty"`
	WeightKg   float64    `json:"weightKg"`
	BodyFatPct *float64   `json:"bodyFatPct,omitempty"`
	Notes      string     `json:"notes,omitempty"`
}
