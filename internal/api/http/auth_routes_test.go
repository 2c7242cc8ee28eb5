package http

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	stdhttp "net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/jackc/pgx/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"

	"github.com/spec-kit/nutrition-service/internal/api/http/handlers"
	"github.com/spec-kit/nutrition-service/internal/auth"
	"github.com/spec-kit/nutrition-service/internal/config"
	"github.com/spec-kit/nutrition-service/internal/domain"
	"github.com/spec-kit/nutrition-service/internal/observability"
	"github.com/spec-kit/nutrition-service/internal/service"
)

type memoryUserRepo struct {
	users map[string]*domain.User
}

func (r *memoryUserRepo) Create(_ context.Context, user *domain.User) error {
	u := *user
	r.users[user.ID] = &u
	return nil
}

func (r *memoryUserRepo) Update(_ context.Context, user *domain.User) error {
	if _, ok := r.users[user.ID]; !ok {
		return pgx.ErrNoRows
	}
	u := *user
	r.users[user.ID] = &u
	return nil
}

func (r *memoryUserRepo) GetByID(_ context.Context, id string) (*domain.User, error) {
	user, ok := r.users[id]
	if !ok {
		return nil, pgx.ErrNoRows
	}
	u := *user
	return &u, nil
}

func (r *memoryUserRepo) GetByIdentityNumber(_ context.Context, identityNumber string) (*domain.User, error) {
	for _, user := range r.users {
		if user.IdentityNumber == identityNumber {
			u := *user
			return &u, nil
		}
	}
	return nil, pgx.ErrNoRows
}

func (r *memoryUserRepo) ListByRole(_ context.Context, role domain.Role) ([]domain.User, error) {
	var users []domain.User
	for _, user := range r.users {
		if user.Role == role {
			users = append(users, *user)
		}
	}
	return users, nil
}

func (r *memoryUserRepo) List(_ context.Context) ([]domain.User, error) {
	var users []domain.User
	for _, user := range r.users {
		users = append(users, *user)
	}
	return users, nil
}

type memoryClinicianRepo struct {
	byUserID map[string]*domain.Clinician
}

func (r *memoryClinicianRepo) Create(_ context.Context, clinician *domain.Clinician) error {
	c := *clinician
	r.byUserID[clinician.UserID] = &c
	return nil
}

func (r *memoryClinicianRepo) GetByUserID(_ context.Context, userID string) (*domain.Clinician, error) {
	clinician, ok := r.byUserID[userID]
	if !ok {
		return nil, pgx.ErrNoRows
	}
	c := *clinician
	return &c, nil
}

type memoryDenylist struct {
	denied map[string]bool
}

func (d *memoryDenylist) DenyToken(_ context.Context, token string, _ time.Duration) error {
	d.denied[token] = true
	return nil
}

func (d *memoryDenylist) TokenDenied(_ context.Context, token string) (bool, error) {
	return d.denied[token], nil
}

type sessionEnvelope struct {
	Data struct {
		User struct {
			ID             string `json:"id"`
			FullName       string `json:"fullName"`
			IdentityNumber string `json:"identityNumber"`
			Role           string `json:"role"`
		} `json:"user"`
		Role      string `json:"role"`
		Clinician *struct {
			LicenseNumber string `json:"licenseNumber"`
		} `json:"clinician"`
	} `json:"data"`
}

type errorEnvelope struct {
	Error struct {
		Code    string         `json:"code"`
		Message string         `json:"message"`
		Details map[string]any `json:"details"`
	} `json:"error"`
}

func newAuthApp(t *testing.T) *fiber.App {
	t.Helper()

	hash, err := auth.HashPassword("clinician", bcrypt.MinCost)
	require.NoError(t, err)

	users := &memoryUserRepo{users: map[string]*domain.User{
		"user-clinician": {
			ID:             "user-clinician",
			FullName:       "Laura Mendez",
			Email:          "laura.mendez@nutricare.example",
			IdentityNumber: "1234567",
			PasswordHash:   hash,
			Role:           domain.RoleClinician,
			Active:         true,
		},
	}}
	clinicians := &memoryClinicianRepo{byUserID: map[string]*domain.Clinician{
		"user-clinician": {
			ID:            "clinician-1",
			UserID:        "user-clinician",
			LicenseNumber: "NUT-2031",
			Specialty:     "Clinical nutrition",
		},
	}}

	cfg := config.Config{Auth: config.AuthConfig{
		JWTSecret:             "routes-test-secret",
		AccessTokenTTLMinutes: 60,
		RefreshTokenTTLHours:  168,
		BcryptCost:            bcrypt.MinCost,
	}}
	authService := service.NewAuthService(cfg, service.AuthDependencies{
		UserRepo:      users,
		ClinicianRepo: clinicians,
		Denylist:      &memoryDenylist{denied: make(map[string]bool)},
	})

	app := fiber.New()
	RegisterMiddlewares(app, zap.NewNop(), observability.NewMetrics(), 0)

	handler := handlers.NewAuthHandler(authService, auth.CookiePolicy{})
	app.Post("/auth/login", handler.Login)
	app.Get("/auth/me", handler.Me)
	app.Post("/auth/refresh", handler.Refresh)
	app.Post("/auth/logout", handler.Logout)
	return app
}

func loginRequest(t *testing.T, app *fiber.App, identityCard, password string) *stdhttp.Response {
	t.Helper()

	body, err := json.Marshal(map[string]string{
		"identityCard": identityCard,
		"password":     password,
	})
	require.NoError(t, err)

	req := httptest.NewRequest(stdhttp.MethodPost, "/auth/login", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	resp, err := app.Test(req)
	require.NoError(t, err)
	return resp
}

func cookieByName(resp *stdhttp.Response, name string) *stdhttp.Cookie {
	for _, cookie := range resp.Cookies() {
		if cookie.Name == name {
			return cookie
		}
	}
	return nil
}

func decodeJSON(t *testing.T, resp *stdhttp.Response, out any) {
	t.Helper()
	raw, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	require.NoError(t, json.Unmarshal(raw, out))
}

func TestLoginEndpointSetsSessionCookies(t *testing.T) {
	app := newAuthApp(t)

	resp := loginRequest(t, app, "1234567", "clinician")
	assert.Equal(t, stdhttp.StatusOK, resp.StatusCode)

	access := cookieByName(resp, auth.AccessTokenCookie)
	require.NotNil(t, access)
	assert.NotEmpty(t, access.Value)
	assert.True(t, access.HttpOnly)
	assert.Equal(t, "/", access.Path)

	refresh := cookieByName(resp, auth.RefreshTokenCookie)
	require.NotNil(t, refresh)
	assert.NotEmpty(t, refresh.Value)

	var envelope sessionEnvelope
	decodeJSON(t, resp, &envelope)
	assert.Equal(t, "1234567", envelope.Data.User.IdentityNumber)
	assert.Equal(t, "CLINICIAN", envelope.Data.Role)
	require.NotNil(t, envelope.Data.Clinician)
	assert.Equal(t, "NUT-2031", envelope.Data.Clinician.LicenseNumber)
}

func TestLoginEndpointWrongPassword(t *testing.T) {
	app := newAuthApp(t)

	resp := loginRequest(t, app, "1234567", "incorrecta")
	assert.Equal(t, stdhttp.StatusUnauthorized, resp.StatusCode)
	assert.Nil(t, cookieByName(resp, auth.AccessTokenCookie))

	var envelope errorEnvelope
	decodeJSON(t, resp, &envelope)
	assert.Equal(t, "INVALID_CREDENTIALS", envelope.Error.Code)
	assert.Equal(t, "password", envelope.Error.Details["field"])
}

func TestLoginEndpointMissingFields(t *testing.T) {
	app := newAuthApp(t)

	resp := loginRequest(t, app, "1234567", "")
	assert.Equal(t, stdhttp.StatusBadRequest, resp.StatusCode)
}

func TestMeEndpoint(t *testing.T) {
	app := newAuthApp(t)

	login := loginRequest(t, app, "1234567", "clinician")
	access := cookieByName(login, auth.AccessTokenCookie)
	require.NotNil(t, access)

	req := httptest.NewRequest(stdhttp.MethodGet, "/auth/me", nil)
	req.AddCookie(access)
	resp, err := app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, stdhttp.StatusOK, resp.StatusCode)

	var envelope sessionEnvelope
	decodeJSON(t, resp, &envelope)
	assert.Equal(t, "Laura Mendez", envelope.Data.User.FullName)
	assert.Equal(t, "CLINICIAN", envelope.Data.Role)
}

func TestMeEndpointWithoutCookie(t *testing.T) {
	app := newAuthApp(t)

	req := httptest.NewRequest(stdhttp.MethodGet, "/auth/me", nil)
	resp, err := app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, stdhttp.StatusUnauthorized, resp.StatusCode)

	var envelope errorEnvelope
	decodeJSON(t, resp, &envelope)
	assert.Equal(t, "UNAUTHORIZED", envelope.Error.Code)
}

func TestRefreshEndpoint(t *testing.T) {
	app := newAuthApp(t)

	login := loginRequest(t, app, "1234567", "clinician")
	refresh := cookieByName(login, auth.RefreshTokenCookie)
	require.NotNil(t, refresh)

	req := httptest.NewRequest(stdhttp.MethodPost, "/auth/refresh", nil)
	req.AddCookie(refresh)
	resp, err := app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, stdhttp.StatusOK, resp.StatusCode)

	access := cookieByName(resp, auth.AccessTokenCookie)
	require.NotNil(t, access)
	assert.NotEmpty(t, access.Value)
}

func TestLogoutEndpointClearsCookies(t *testing.T) {
	app := newAuthApp(t)

	login := loginRequest(t, app, "1234567", "clinician")
	refresh := cookieByName(login, auth.RefreshTokenCookie)
	require.NotNil(t, refresh)

	req := httptest.NewRequest(stdhttp.MethodPost, "/auth/logout", nil)
	req.AddCookie(refresh)
	resp, err := app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, stdhttp.StatusOK, resp.StatusCode)

	access := cookieByName(resp, auth.AccessTokenCookie)
	require.NotNil(t, access)
	assert.Empty(t, access.Value)
	assert.True(t, access.Expires.Before(time.Now()))

	// The refresh token is now revoked; a second exchange must fail.
	retry := httptest.NewRequest(stdhttp.MethodPost, "/auth/refresh", nil)
	retry.AddCookie(refresh)
	retryResp, err := app.Test(retry)
	require.NoError(t, err)
	assert.Equal(t, stdhttp.StatusUnauthorized, retryResp.StatusCode)
}
