package service

import (
	"context"
	"testing"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/spec-kit/nutrition-service/internal/auth"
	"github.com/spec-kit/nutrition-service/internal/config"
	"github.com/spec-kit/nutrition-service/internal/domain"
	apperrors "github.com/spec-kit/nutrition-service/pkg/util"
)

type fakeUserRepo struct {
	users map[string]*domain.User
}

func newFakeUserRepo() *fakeUserRepo {
	return &fakeUserRepo{users: make(map[string]*domain.User)}
}

func (r *fakeUserRepo) Create(_ context.Context, user *domain.User) error {
	u := *user
	r.users[user.ID] = &u
	return nil
}

func (r *fakeUserRepo) Update(_ context.Context, user *domain.User) error {
	if _, ok := r.users[user.ID]; !ok {
		return pgx.ErrNoRows
	}
	u := *user
	r.users[user.ID] = &u
	return nil
}

func (r *fakeUserRepo) GetByID(_ context.Context, id string) (*domain.User, error) {
	user, ok := r.users[id]
	if !ok {
		return nil, pgx.ErrNoRows
	}
	u := *user
	return &u, nil
}

func (r *fakeUserRepo) GetByIdentityNumber(_ context.Context, identityNumber string) (*domain.User, error) {
	for _, user := range r.users {
		if user.IdentityNumber == identityNumber {
			u := *user
			return &u, nil
		}
	}
	return nil, pgx.ErrNoRows
}

func (r *fakeUserRepo) ListByRole(_ context.Context, role domain.Role) ([]domain.User, error) {
	var users []domain.User
	for _, user := range r.users {
		if user.Role == role {
			users = append(users, *user)
		}
	}
	return users, nil
}

func (r *fakeUserRepo) List(_ context.Context) ([]domain.User, error) {
	var users []domain.User
	for _, user := range r.users {
		users = append(users, *user)
	}
	return users, nil
}

type fakeClinicianRepo struct {
	byUserID map[string]*domain.Clinician
}

func newFakeClinicianRepo() *fakeClinicianRepo {
	return &fakeClinicianRepo{byUserID: make(map[string]*domain.Clinician)}
}

func (r *fakeClinicianRepo) Create(_ context.Context, clinician *domain.Clinician) error {
	c := *clinician
	r.byUserID[clinician.UserID] = &c
	return nil
}

func (r *fakeClinicianRepo) GetByUserID(_ context.Context, userID string) (*domain.Clinician, error) {
	clinician, ok := r.byUserID[userID]
	if !ok {
		return nil, pgx.ErrNoRows
	}
	c := *clinician
	return &c, nil
}

type fakeDenylist struct {
	denied map[string]bool
}

func newFakeDenylist() *fakeDenylist {
	return &fakeDenylist{denied: make(map[string]bool)}
}

func (d *fakeDenylist) DenyToken(_ context.Context, token string, _ time.Duration) error {
	d.denied[token] = true
	return nil
}

func (d *fakeDenylist) TokenDenied(_ context.Context, token string) (bool, error) {
	return d.denied[token], nil
}

func testConfig() config.Config {
	return config.Config{Auth: config.AuthConfig{
		JWTSecret:             "service-test-secret",
		AccessTokenTTLMinutes: 60,
		RefreshTokenTTLHours:  168,
		BcryptCost:            bcrypt.MinCost,
	}}
}

func seedClinicianUser(t *testing.T, users *fakeUserRepo, clinicians *fakeClinicianRepo) *domain.User {
	t.Helper()

	hash, err := auth.HashPassword("clinician", bcrypt.MinCost)
	require.NoError(t, err)

	user := &domain.User{
		ID:             "user-clinician",
		FullName:       "Laura Mendez",
		Email:          "laura.mendez@nutricare.example",
		IdentityNumber: "1234567",
		PasswordHash:   hash,
		Role:           domain.RoleClinician,
		Active:         true,
	}
	require.NoError(t, users.Create(context.Background(), user))
	require.NoError(t, clinicians.Create(context.Background(), &domain.Clinician{
		ID:            "clinician-1",
		UserID:        user.ID,
		LicenseNumber: "NUT-2031",
		Specialty:     "Clinical nutrition",
	}))
	return user
}

func TestLoginSuccess(t *testing.T) {
	users := newFakeUserRepo()
	clinicians := newFakeClinicianRepo()
	seedClinicianUser(t, users, clinicians)

	svc := NewAuthService(testConfig(), AuthDependencies{
		UserRepo:      users,
		ClinicianRepo: clinicians,
		Denylist:      newFakeDenylist(),
	})

	result, err := svc.Login(context.Background(), "1234567", "clinician")
	require.NoError(t, err)

	assert.Equal(t, "1234567", result.User.IdentityNumber)
	assert.Empty(t, result.User.PasswordHash)
	assert.Equal(t, domain.RoleClinician, result.Role)
	require.NotNil(t, result.Clinician)
	assert.Equal(t, "NUT-2031", result.Clinician.LicenseNumber)
	assert.NotEmpty(t, result.Access.Token)
	assert.NotEmpty(t, result.Refresh.Token)
	assert.True(t, result.Refresh.ExpiresAt.After(result.Access.ExpiresAt))
}

func TestLoginWrongPassword(t *testing.T) {
	users := newFakeUserRepo()
	clinicians := newFakeClinicianRepo()
	seedClinicianUser(t, users, clinicians)

	svc := NewAuthService(testConfig(), AuthDependencies{UserRepo: users, ClinicianRepo: clinicians})

	_, err := svc.Login(context.Background(), "1234567", "incorrecta")
	require.Error(t, err)

	domainErr := apperrors.ToDomainError(err)
	assert.Equal(t, 401, domainErr.HTTPStatus)
	assert.Equal(t, "INVALID_CREDENTIALS", domainErr.Code)
	assert.Equal(t, "password", domainErr.Details["field"])
}

func TestLoginUnknownIdentityNumber(t *testing.T) {
	svc := NewAuthService(testConfig(), AuthDependencies{
		UserRepo:      newFakeUserRepo(),
		ClinicianRepo: newFakeClinicianRepo(),
	})

	_, err := svc.Login(context.Background(), "0000000", "whatever")
	require.Error(t, err)

	domainErr := apperrors.ToDomainError(err)
	assert.Equal(t, 401, domainErr.HTTPStatus)
	assert.Equal(t, "password", domainErr.Details["field"])
}

func TestLoginInactiveAccount(t *testing.T) {
	users := newFakeUserRepo()
	clinicians := newFakeClinicianRepo()
	user := seedClinicianUser(t, users, clinicians)
	user.Active = false
	require.NoError(t, users.Update(context.Background(), user))

	svc := NewAuthService(testConfig(), AuthDependencies{UserRepo: users, ClinicianRepo: clinicians})

	_, err := svc.Login(context.Background(), "1234567", "clinician")
	require.Error(t, err)
	assert.Equal(t, 401, apperrors.ToDomainError(err).HTTPStatus)
}

func TestMeRoundTrip(t *testing.T) {
	users := newFakeUserRepo()
	clinicians := newFakeClinicianRepo()
	seedClinicianUser(t, users, clinicians)

	svc := NewAuthService(testConfig(), AuthDependencies{UserRepo: users, ClinicianRepo: clinicians})

	result, err := svc.Login(context.Background(), "1234567", "clinician")
	require.NoError(t, err)

	payload, err := svc.Me(context.Background(), result.Access.Token)
	require.NoError(t, err)
	assert.Equal(t, "1234567", payload.User.IdentityNumber)
	assert.Equal(t, domain.RoleClinician, payload.Role)
	require.NotNil(t, payload.Clinician)
}

func TestMeDetectsStaleRole(t *testing.T) {
	users := newFakeUserRepo()
	clinicians := newFakeClinicianRepo()
	user := seedClinicianUser(t, users, clinicians)

	svc := NewAuthService(testConfig(), AuthDependencies{UserRepo: users, ClinicianRepo: clinicians})

	result, err := svc.Login(context.Background(), "1234567", "clinician")
	require.NoError(t, err)

	// The role changes after the token was minted; the session must die.
	user.Role = domain.RolePatient
	require.NoError(t, users.Update(context.Background(), user))

	_, err = svc.Me(context.Background(), result.Access.Token)
	require.Error(t, err)
	assert.Equal(t, 401, apperrors.ToDomainError(err).HTTPStatus)
}

func TestMeDeletedUser(t *testing.T) {
	users := newFakeUserRepo()
	clinicians := newFakeClinicianRepo()
	seedClinicianUser(t, users, clinicians)

	svc := NewAuthService(testConfig(), AuthDependencies{UserRepo: users, ClinicianRepo: clinicians})

	result, err := svc.Login(context.Background(), "1234567", "clinician")
	require.NoError(t, err)

	delete(users.users, "user-clinician")

	_, err = svc.Me(context.Background(), result.Access.Token)
	require.Error(t, err)
	assert.Equal(t, 401, apperrors.ToDomainError(err).HTTPStatus)
}

func TestMeRejectsRefreshToken(t *testing.T) {
	users := newFakeUserRepo()
	clinicians := newFakeClinicianRepo()
	seedClinicianUser(t, users, clinicians)

	svc := NewAuthService(testConfig(), AuthDependencies{UserRepo: users, ClinicianRepo: clinicians})

	result, err := svc.Login(context.Background(), "1234567", "clinician")
	require.NoError(t, err)

	_, err = svc.Me(context.Background(), result.Refresh.Token)
	require.Error(t, err)
}

func TestRefreshAndLogout(t *testing.T) {
	users := newFakeUserRepo()
	clinicians := newFakeClinicianRepo()
	seedClinicianUser(t, users, clinicians)
	denylist := newFakeDenylist()

	svc := NewAuthService(testConfig(), AuthDependencies{
		UserRepo:      users,
		ClinicianRepo: clinicians,
		Denylist:      denylist,
	})

	result, err := svc.Login(context.Background(), "1234567", "clinician")
	require.NoError(t, err)

	pair, err := svc.Refresh(context.Background(), result.Refresh.Token)
	require.NoError(t, err)
	assert.NotEmpty(t, pair.Token)

	require.NoError(t, svc.Logout(context.Background(), result.Refresh.Token))

	_, err = svc.Refresh(context.Background(), result.Refresh.Token)
	require.Error(t, err)
	assert.Equal(t, 401, apperrors.ToDomainError(err).HTTPStatus)
}

func TestRefreshRejectsAccessToken(t *testing.T) {
	users := newFakeUserRepo()
	clinicians := newFakeClinicianRepo()
	seedClinicianUser(t, users, clinicians)

	svc := NewAuthService(testConfig(), AuthDependencies{UserRepo: users, ClinicianRepo: clinicians})

	result, err := svc.Login(context.Background(), "1234567", "clinician")
	require.NoError(t, err)

	_, err = svc.Refresh(context.Background(), result.Access.Token)
	require.Error(t, err)
}
