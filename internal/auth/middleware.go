package auth

import (
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/jackc/pgx/v5"

	"github.com/spec-kit/nutrition-service/internal/domain"
	"github.com/spec-kit/nutrition-service/internal/repository"
	apperrors "github.com/spec-kit/nutrition-service/pkg/util"
)

const principalKey = "auth_principal"

// Principal represents the authenticated caller on API routes.
type Principal struct {
	User      *domain.User
	Clinician *domain.Clinician
	Role      domain.Role
}

// AuthMiddleware validates tokens on API routes and loads principals.
type AuthMiddleware struct {
	tokens     *TokenManager
	users      repository.UserRepository
	clinicians repository.ClinicianRepository
}

// NewAuthMiddleware constructs middleware.
func NewAuthMiddleware(tokens *TokenManager, users repository.UserRepository, clinicians repository.ClinicianRepository) *AuthMiddleware {
	return &AuthMiddleware{tokens: tokens, users: users, clinicians: clinicians}
}

// Handle enforces authentication for protected API routes. The token may come
// from the accessToken cookie (browser clients) or a bearer header.
func (m *AuthMiddleware) Handle(c *fiber.Ctx) error {
	token := c.Cookies(AccessTokenCookie)
	if token == "" {
		authHeader := c.Get("Authorization")
		if authHeader == "" {
			return apperrors.NewUnauthorized("missing credentials")
		}
		parts := strings.SplitN(authHeader, " ", 2)
		if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
			return apperrors.NewUnauthorized("invalid authorization header")
		}
		token = parts[1]
	}

	claims, err := m.tokens.Parse(token)
	if err != nil {
		return apperrors.NewUnauthorized("invalid token")
	}
	if claims.Kind != TokenKindAccess {
		return apperrors.NewUnauthorized("invalid token")
	}

	user, err := m.users.GetByID(c.Context(), claims.SubjectID)
	if err != nil {
		if err == pgx.ErrNoRows {
			return apperrors.NewUnauthorized("user not found")
		}
		return apperrors.MapError(err)
	}
	if !user.Active {
		return apperrors.NewUnauthorized("account disabled")
	}
	// Stale-role detection: a token minted before a role change no longer
	// matches the user record and must not be trusted.
	if user.Role != claims.Role {
		return apperrors.NewUnauthorized("session role out of date")
	}

	principal := &Principal{User: user, Role: user.Role}
	if user.Role == domain.RoleClinician {
		clinician, err := m.clinicians.GetByUserID(c.Context(), user.ID)
		if err != nil && err != pgx.ErrNoRows {
			return apperrors.MapError(err)
		}
		principal.Clinician = clinician
	}

	c.Locals(principalKey, principal)
	return c.Next()
}

// PrincipalFromContext retrieves the authenticated entity.
func PrincipalFromContext(c *fiber.Ctx) (*Principal, bool) {
	val := c.Locals(principalKey)
	if val == nil {
		return nil, false
	}
	principal, ok := val.(*Principal)
	return principal, ok
}
