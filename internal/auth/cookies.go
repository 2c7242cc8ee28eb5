package auth

import (
	"time"

	"github.com/gofiber/fiber/v2"
)

// Cookie names carried by the browser.
const (
	AccessTokenCookie  = "accessToken"
	RefreshTokenCookie = "refreshToken"
)

// CookiePolicy centralises the attributes set on every auth cookie.
type CookiePolicy struct {
	Secure bool
	Domain string
}

// SetAccess writes the access token cookie.
func (p CookiePolicy) SetAccess(c *fiber.Ctx, token string, expires time.Time) {
	c.Cookie(p.build(AccessTokenCookie, token, expires))
}

// SetRefresh writes the refresh token cookie.
func (p CookiePolicy) SetRefresh(c *fiber.Ctx, token string, expires time.Time) {
	c.Cookie(p.build(RefreshTokenCookie, token, expires))
}

// Clear expires both auth cookies immediately.
func (p CookiePolicy) Clear(c *fiber.Ctx) {
	expired := time.Now().Add(-time.Hour)
	c.Cookie(p.build(AccessTokenCookie, "", expired))
	c.Cookie(p.build(RefreshTokenCookie, "", expired))
}

func (p CookiePolicy) build(name, value string, expires time.Time) *fiber.Cookie {
	return &fiber.Cookie{
		Name:     name,
		Value:    value,
		Expires:  expires,
		Path:     "/",
		Domain:   p.Domain,
		HTTPOnly: true,
		Secure:   p.Secure,
		SameSite: fiber.CookieSameSiteLaxMode,
	}
}
