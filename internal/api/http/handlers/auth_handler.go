package handlers

import (
	"net/http"

	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/nutrition-service/internal/api/dto"
	"github.com/spec-kit/nutrition-service/internal/auth"
	"github.com/spec-kit/nutrition-service/internal/service"
)

// AuthHandler exposes login, logout, refresh and who-am-I endpoints.
type AuthHandler struct {
	auth    *service.AuthService
	cookies auth.CookiePolicy
}

// NewAuthHandler constructs handler.
func NewAuthHandler(authService *service.AuthService, cookies auth.CookiePolicy) *AuthHandler {
	return &AuthHandler{auth: authService, cookies: cookies}
}

// Login handles POST /auth/login.
func (h *AuthHandler) Login(c *fiber.Ctx) error {
	var req dto.LoginRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(http.StatusBadRequest, "invalid payload")
	}
	if req.IdentityCard == "" || req.Password == "" {
		return fiber.NewError(http.StatusBadRequest, "identity card and password required")
	}

	result, err := h.auth.Login(c.UserContext(), req.IdentityCard, req.Password)
	if err != nil {
		return err
	}

	h.cookies.SetAccess(c, result.Access.Token, result.Access.ExpiresAt)
	h.cookies.SetRefresh(c, result.Refresh.Token, result.Refresh.ExpiresAt)

	return c.JSON(fiber.Map{
		"data": dto.SessionResponse{
			User:      dto.UserFromDomain(result.User),
			Role:      result.Role,
			Clinician: dto.ClinicianFromDomain(result.Clinician),
		},
	})
}

// Me handles GET /auth/me.
func (h *AuthHandler) Me(c *fiber.Ctx) error {
	token := c.Cookies(auth.AccessTokenCookie)
	if token == "" {
		return fiber.NewError(http.StatusUnauthorized, "no session")
	}

	payload, err := h.auth.Me(c.UserContext(), token)
	if err != nil {
		return err
	}

	return c.JSON(fiber.Map{
		"data": dto.SessionResponse{
			User:      dto.UserFromDomain(payload.User),
			Role:      payload.Role,
			Clinician: dto.ClinicianFromDomain(payload.Clinician),
		},
	})
}

// Refresh handles POST /auth/refresh.
func (h *AuthHandler) Refresh(c *fiber.Ctx) error {
	token := c.Cookies(auth.RefreshTokenCookie)
	if token == "" {
		return fiber.NewError(http.StatusUnauthorized, "no refresh token")
	}

	pair, err := h.auth.Refresh(c.UserContext(), token)
	if err != nil {
		return err
	}

	h.cookies.SetAccess(c, pair.Token, pair.ExpiresAt)
	return c.JSON(fiber.Map{"data": dto.TokenMeta{ExpiresAt: pair.ExpiresAt}})
}

// Logout handles POST /auth/logout. Always succeeds and always clears cookies.
func (h *AuthHandler) Logout(c *fiber.Ctx) error {
	_ = h.auth.Logout(c.UserContext(), c.Cookies(auth.RefreshTokenCookie))
	h.cookies.Clear(c)
	return c.JSON(fiber.Map{"data": fiber.Map{"loggedOut": true}})
}
