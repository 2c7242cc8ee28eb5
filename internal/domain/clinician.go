package domain

import "time"

// Clinician holds the professional profile attached to a CLINICIAN user.
type Clinician struct {
	ID            string
	UserID        string
	LicenseNumber string
	Specialty     string
	CreatedAt     time.Time
	UpdatedAt     time.Time
}
