package service

import (
	"context"
	"time"

	"github.com/jackc/pgx/v5"
	"go.uber.org/zap"

	"github.com/spec-kit/nutrition-service/internal/auth"
	"github.com/spec-kit/nutrition-service/internal/config"
	"github.com/spec-kit/nutrition-service/internal/domain"
	"github.com/spec-kit/nutrition-service/internal/repository"
	apperrors "github.com/spec-kit/nutrition-service/pkg/util"
)

// TokenDenylist records revoked refresh tokens until they expire on their own.
type TokenDenylist interface {
	DenyToken(ctx context.Context, token string, ttl time.Duration) error
	TokenDenied(ctx context.Context, token string) (bool, error)
}

// AuthService coordinates login, session lookup and logout flows.
type AuthService struct {
	users      repository.UserRepository
	clinicians repository.ClinicianRepository
	tokenMgr   *auth.TokenManager
	denylist   TokenDenylist
	logger     *zap.Logger
}

// AuthDependencies encapsulates requirements for the auth service.
type AuthDependencies struct {
	UserRepo      repository.UserRepository
	ClinicianRepo repository.ClinicianRepository
	Denylist      TokenDenylist
	Logger        *zap.Logger
}

// NewAuthService builds the service.
func NewAuthService(cfg config.Config, deps AuthDependencies) *AuthService {
	logger := deps.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	return &AuthService{
		users:      deps.UserRepo,
		clinicians: deps.ClinicianRepo,
		tokenMgr:   auth.NewTokenManager(cfg.Auth.JWTSecret, cfg.Auth.AccessTokenTTL(), cfg.Auth.RefreshTokenTTL()),
		denylist:   deps.Denylist,
		logger:     logger,
	}
}

// TokenPair bundles an issued token with its expiry.
type TokenPair struct {
	Token     string
	ExpiresAt time.Time
}

// LoginResult is the payload produced by a successful login.
type LoginResult struct {
	User      domain.User
	Role      domain.Role
	Clinician *domain.Clinician
	Access    TokenPair
	Refresh   TokenPair
}

// SessionPayload answers the who-am-I lookup.
type SessionPayload struct {
	User      domain.User
	Role      domain.Role
	Clinician *domain.Clinician
}

// Login authenticates by identity-card number and password. Both an unknown
// identity number and a wrong password collapse into the same field-scoped
// credential error so responses do not leak which part failed.
func (s *AuthService) Login(ctx context.Context, identityNumber, password string) (*LoginResult, error) {
	user, err := s.users.GetByIdentityNumber(ctx, identityNumber)
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, apperrors.NewInvalidCredentials("password")
		}
		return nil, err
	}
	if !user.Active {
		return nil, apperrors.NewInvalidCredentials("password")
	}
	if err := auth.ComparePassword(user.PasswordHash, password); err != nil {
		return nil, apperrors.NewInvalidCredentials("password")
	}

	accessToken, accessExp, err := s.tokenMgr.Issue(user.ID, user.Role, auth.TokenKindAccess)
	if err != nil {
		return nil, err
	}
	refreshToken, refreshExp, err := s.tokenMgr.Issue(user.ID, user.Role, auth.TokenKindRefresh)
	if err != nil {
		return nil, err
	}

	result := &LoginResult{
		User:    user.Sanitized(),
		Role:    user.Role,
		Access:  TokenPair{Token: accessToken, ExpiresAt: accessExp},
		Refresh: TokenPair{Token: refreshToken, ExpiresAt: refreshExp},
	}
	if user.Role == domain.RoleClinician {
		result.Clinician = s.lookupClinician(ctx, user.ID)
	}

	s.logger.Info("login succeeded",
		zap.String("user_id", user.ID),
		zap.String("role", string(user.Role)))
	return result, nil
}

// Me verifies an access token and re-resolves the current identity. A user
// that vanished or whose role changed since issuance invalidates the session.
func (s *AuthService) Me(ctx context.Context, accessToken string) (*SessionPayload, error) {
	claims, err := s.tokenMgr.Parse(accessToken)
	if err != nil {
		return nil, apperrors.NewUnauthorized("invalid token")
	}
	if claims.Kind != auth.TokenKindAccess {
		return nil, apperrors.NewUnauthorized("invalid token")
	}

	user, err := s.users.GetByID(ctx, claims.SubjectID)
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, apperrors.NewUnauthorized("user no longer exists")
		}
		return nil, err
	}
	if !user.Active {
		return nil, apperrors.NewUnauthorized("account disabled")
	}
	if user.Role != claims.Role {
		s.logger.Warn("stale role detected; invalidating session",
			zap.String("user_id", user.ID),
			zap.String("token_role", string(claims.Role)),
			zap.String("current_role", string(user.Role)))
		return nil, apperrors.NewUnauthorized("session role out of date")
	}

	payload := &SessionPayload{User: user.Sanitized(), Role: user.Role}
	if user.Role == domain.RoleClinician {
		payload.Clinician = s.lookupClinician(ctx, user.ID)
	}
	return payload, nil
}

// Refresh exchanges a live refresh token for a new access token.
func (s *AuthService) Refresh(ctx context.Context, refreshToken string) (*TokenPair, error) {
	claims, err := s.tokenMgr.Parse(refreshToken)
	if err != nil {
		return nil, apperrors.NewUnauthorized("invalid refresh token")
	}
	if claims.Kind != auth.TokenKindRefresh {
		return nil, apperrors.NewUnauthorized("invalid refresh token")
	}

	if s.denylist != nil {
		denied, err := s.denylist.TokenDenied(ctx, refreshToken)
		if err != nil {
			s.logger.Warn("denylist lookup failed", zap.Error(err))
		} else if denied {
			return nil, apperrors.NewUnauthorized("refresh token revoked")
		}
	}

	user, err := s.users.GetByID(ctx, claims.SubjectID)
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, apperrors.NewUnauthorized("user no longer exists")
		}
		return nil, err
	}
	if !user.Active || user.Role != claims.Role {
		return nil, apperrors.NewUnauthorized("session role out of date")
	}

	token, exp, err := s.tokenMgr.Issue(user.ID, user.Role, auth.TokenKindAccess)
	if err != nil {
		return nil, err
	}
	return &TokenPair{Token: token, ExpiresAt: exp}, nil
}

// Logout revokes the refresh token. Best effort: an unparseable token means
// there is nothing left to revoke.
func (s *AuthService) Logout(ctx context.Context, refreshToken string) error {
	if refreshToken == "" || s.denylist == nil {
		return nil
	}
	claims, err := s.tokenMgr.Parse(refreshToken)
	if err != nil {
		return nil
	}
	ttl := time.Until(claims.ExpiresAt.Time)
	if err := s.denylist.DenyToken(ctx, refreshToken, ttl); err != nil {
		s.logger.Warn("failed to deny refresh token", zap.Error(err))
	}
	return nil
}

// TokenManager exposes the underlying token manager for middleware usage.
func (s *AuthService) TokenManager() *auth.TokenManager {
	return s.tokenMgr
}

func (s *AuthService) lookupClinician(ctx context.Context, userID string) *domain.Clinician {
	clinician, err := s.clinicians.GetByUserID(ctx, userID)
	if err != nil {
		if err != pgx.ErrNoRows {
			s.logger.Warn("clinician profile lookup failed", zap.Error(err))
		}
		return nil
	}
	return clinician
}
