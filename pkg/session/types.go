package session

// User is the sanitized account shape returned by the service.
type User struct {
	ID             string `json:"id"`
	FullName       string `json:"fullName"`
	Email          string `json:"email"`
	IdentityNumber string `json:"identityNumber"`
	Role           string `json:"role"`
	Active         bool   `json:"active"`
}

// Clinician is the professional profile attached to clinician accounts.
type Clinician struct {
	ID            string `json:"id"`
	LicenseNumber string `json:"licenseNumber"`
	Specialty     string `json:"specialty"`
}

// Payload is the identity resolved by login or the who-am-I endpoint.
type Payload struct {
	User      User       `json:"user"`
	Role      string     `json:"role"`
	Clinician *Clinician `json:"clinician"`
}

// errorEnvelope mirrors the service error shape for response parsing.
type errorEnvelope struct {
	Error struct {
		Code    string         `json:"code"`
		Message string         `json:"message"`
		Details map[string]any `json:"details"`
	} `json:"error"`
}

// dataEnvelope wraps successful responses.
type dataEnvelope struct {
	Data Payload `json:"data"`
}
