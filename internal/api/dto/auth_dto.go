package dto

import (
	"time"

	"github.com/spec-kit/nutrition-service/internal/domain"
)

// LoginRequest payload for the login endpoint. The identity card number is
// the unique login handle.
type LoginRequest struct {
	IdentityCard string `json:"identityCard"`
	Password     string `json:"password"`
}

// UserResponse is the sanitized account representation.
type UserResponse struct {
	ID             string      `json:"id"`
	FullName       string      `json:"fullName"`
	Email          string      `json:"email"`
	IdentityNumber string      `json:"identityNumber"`
	Role           domain.Role `json:"role"`
	Active         bool        `json:"active"`
}

// ClinicianResponse is the clinician profile representation.
type ClinicianResponse struct {
	ID            string `json:"id"`
	LicenseNumber string `json:"licenseNumber"`
	Specialty     string `json:"specialty"`
}

// SessionResponse answers login and who-am-I calls.
type SessionResponse struct {
	User      UserResponse       `json:"user"`
	Role      domain.Role        `json:"role"`
	Clinician *ClinicianResponse `json:"clinician"`
}

// UserFromDomain maps a domain user onto the wire shape.
func UserFromDomain(user domain.User) UserResponse {
	return UserResponse{
		ID:             user.ID,
		FullName:       user.FullName,
		Email:          user.Email,
		IdentityNumber: user.IdentityNumber,
		Role:           user.Role,
		Active:         user.Active,
	}
}

// ClinicianFromDomain maps a clinician profile, tolerating nil.
func ClinicianFromDomain(clinician *domain.Clinician) *ClinicianResponse {
	if clinician == nil {
		return nil
	}
	return &ClinicianResponse{
		ID:            clinician.ID,
		LicenseNumber: clinician.LicenseNumber,
		Specialty:     clinician.Specialty,
	}
}

// TokenMeta exposes token expiry to clients that cannot read httpOnly cookies.
type TokenMeta struct {
	ExpiresAt time.Time `json:"expiresAt"`
}
