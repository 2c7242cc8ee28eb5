package dto

// CreateUserRequest payload for admin account creation.
type CreateUserRequest struct {
	FullName      string `json:"fullName"`
	Email         string `json:"email"`
	IdentityCard  string `json:"identityCard"`
	Password      string `json:"password"`
	Role          string `json:"role"`
	LicenseNumber string `json:"licenseNumber,omitempty"`
	Specialty     string `json:"specialty,omitempty"`
}

// SetActiveRequest toggles an account.
type SetActiveRequest struct {
	Active bool `json:"active"`
}

// UpdateRoleRequest reassigns an account role.
type UpdateRoleRequest struct {
	Role string `json:"role"`
}
