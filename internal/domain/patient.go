package domain

import "time"

// PatientProfile extends a PATIENT user with clinical intake data.
type PatientProfile struct {
	ID             string
	UserID         string
	ClinicianID    *string
	BirthDate      time.Time
	HeightCm       float64
	TargetWeightKg float64
	CreatedAt      time.Time
	UpdatedAt      time.Time
}

// ProgressEntry is a single weigh-in recorded for a patient.
type ProgressEntry struct {
	ID         string
	PatientID  string
	RecordedOn time.Time
	WeightKg   float64
	BodyFatPct *float64
	Notes      string
	CreatedAt  time.Time
}
