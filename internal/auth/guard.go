package auth

import (
	"errors"
	"net/url"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	"github.com/spec-kit/nutrition-service/internal/domain"
)

const (
	loginPath        = "/login"
	guardIdentityKey = "guard_identity"
)

// Identity is the verified subject the guard attaches to allowed requests.
type Identity struct {
	SubjectID string
	Role      domain.Role
}

// RouteGuard gates page-scope routes on the access token cookie. Decisions are
// stateless: nothing is shared across requests beyond the signing secret.
type RouteGuard struct {
	tokens  *TokenManager
	cookies CookiePolicy
	logger  *zap.Logger
}

// NewRouteGuard constructs the guard.
func NewRouteGuard(tokens *TokenManager, cookies CookiePolicy, logger *zap.Logger) *RouteGuard {
	return &RouteGuard{tokens: tokens, cookies: cookies, logger: logger}
}

// Handle classifies the path, validates the session cookie and either lets
// the request through or answers with a terminal redirect.
func (g *RouteGuard) Handle(c *fiber.Ctx) error {
	path := c.Path()
	if Classify(path) != PathProtected {
		return c.Next()
	}

	token := c.Cookies(AccessTokenCookie)
	if token == "" {
		return g.toLogin(c, withQuery(path, c.Request().URI().QueryString()))
	}

	claims, err := g.tokens.Parse(token)
	if err != nil {
		if errors.Is(err, ErrTokenExpired) {
			// Natural expiry: drop the stale cookies so the browser stops
			// replaying them.
			g.cookies.Clear(c)
		}
		return g.toLogin(c, path)
	}
	if claims.Kind != TokenKindAccess {
		return g.toLogin(c, path)
	}

	role := claims.Role
	if !role.Known() {
		return g.toLogin(c, "")
	}

	if !Allowed(role, path) {
		rs, ok := RoutesFor(role)
		if !ok {
			return g.toLogin(c, "")
		}
		g.logger.Debug("role not permitted for path",
			zap.String("path", path), zap.String("role", string(role)))
		return c.Redirect(rs.Dashboard, fiber.StatusFound)
	}

	c.Locals(guardIdentityKey, &Identity{SubjectID: claims.SubjectID, Role: role})
	return c.Next()
}

// IdentityFromContext retrieves the identity stored by the guard.
func IdentityFromContext(c *fiber.Ctx) (*Identity, bool) {
	val := c.Locals(guardIdentityKey)
	if val == nil {
		return nil, false
	}
	identity, ok := val.(*Identity)
	return identity, ok
}

func (g *RouteGuard) toLogin(c *fiber.Ctx, next string) error {
	target := loginPath
	if next != "" {
		target += "?next=" + url.QueryEscape(next)
	}
	return c.Redirect(target, fiber.StatusFound)
}

func withQuery(path string, query []byte) string {
	if len(query) == 0 {
		return path
	}
	return path + "?" + string(query)
}
