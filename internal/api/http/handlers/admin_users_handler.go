package handlers

import (
	"net/http"

	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/nutrition-service/internal/api/dto"
	"github.com/spec-kit/nutrition-service/internal/auth"
	"github.com/spec-kit/nutrition-service/internal/domain"
	"github.com/spec-kit/nutrition-service/internal/events"
	"github.com/spec-kit/nutrition-service/internal/service"
)

// AdminUsersHandler exposes account management for admins.
type AdminUsersHandler struct {
	users *service.UserService
}

// NewAdminUsersHandler constructs handler.
func NewAdminUsersHandler(users *service.UserService) *AdminUsersHandler {
	return &AdminUsersHandler{users: users}
}

// List handles GET /api/admin/users.
func (h *AdminUsersHandler) List(c *fiber.Ctx) error {
	accounts, err := h.users.List(c.UserContext())
	if err != nil {
		return err
	}

	payload := make([]dto.UserResponse, 0, len(accounts))
	for _, account := range accounts {
		payload = append(payload, dto.UserFromDomain(account))
	}
	return c.JSON(fiber.Map{"data": payload})
}

// Create handles POST /api/admin/users.
func (h *AdminUsersHandler) Create(c *fiber.Ctx) error {
	principal, ok := auth.PrincipalFromContext(c)
	if !ok {
		return fiber.NewError(http.StatusUnauthorized, http.StatusText(http.StatusUnauthorized))
	}

	var req dto.CreateUserRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(http.StatusBadRequest, "invalid payload")
	}

	role, err := domain.ParseRole(req.Role)
	if err != nil {
		return fiber.NewError(http.StatusBadRequest, err.Error())
	}

	actor := events.Actor{Role: principal.Role, UserID: principal.User.ID}
	user, err := h.users.Create(c.UserContext(), actor, service.CreateUserInput{
		FullName:       req.FullName,
		Email:          req.Email,
		IdentityNumber: req.IdentityCard,
		Password:       req.Password,
		Role:           role,
		LicenseNumber:  req.LicenseNumber,
		Specialty:      req.Specialty,
	})
	if err != nil {
		return err
	}
	return c.Status(http.StatusCreated).JSON(fiber.Map{"data": dto.UserFromDomain(*user)})
}

// SetActive handles PATCH /api/admin/users/:id/active.
func (h *AdminUsersHandler) SetActive(c *fiber.Ctx) error {
	var req dto.SetActiveRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(http.StatusBadRequest, "invalid payload")
	}

	user, err := h.users.SetActive(c.UserContext(), c.Params("id"), req.Active)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": dto.UserFromDomain(*user)})
}

// UpdateRole handles PATCH /api/admin/users/:id/role.
func (h *AdminUsersHandler) UpdateRole(c *fiber.Ctx) error {
	var req dto.UpdateRoleRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(http.StatusBadRequest, "invalid payload")
	}

	role, err := domain.ParseRole(req.Role)
	if err != nil {
		return fiber.NewError(http.StatusBadRequest, err.Error())
	}

	user, err := h.users.UpdateRole(c.UserContext(), c.Params("id"), role)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": dto.UserFromDomain(*user)})
}
