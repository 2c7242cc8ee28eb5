package handlers

import "github.com/gofiber/fiber/v2"

// PagesHandler serves the public entry pages of the application.
type PagesHandler struct {
	serviceName string
}

// NewPagesHandler returns a new handler instance.
func NewPagesHandler(serviceName string) *PagesHandler {
	return &PagesHandler{serviceName: serviceName}
}

// Home handles GET /.
func (h *PagesHandler) Home(c *fiber.Ctx) error {
	return c.JSON(fiber.Map{"data": fiber.Map{
		"service": h.serviceName,
		"login":   "/login",
	}})
}

// Login handles GET /login, echoing the post-login destination when present.
func (h *PagesHandler) Login(c *fiber.Ctx) error {
	payload := fiber.Map{"page": "login"}
	if next := c.Query("next"); next != "" {
		payload["next"] = next
	}
	return c.JSON(fiber.Map{"data": payload})
}

// Forbidden handles GET /forbidden.
func (h *PagesHandler) Forbidden(c *fiber.Ctx) error {
	return c.Status(fiber.StatusForbidden).JSON(fiber.Map{"error": fiber.Map{
		"code":    "FORBIDDEN",
		"message": "you do not have access to this area",
	}})
}
