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

// PlansHandler exposes meal plan management for clinicians.
type PlansHandler struct {
	plans *service.PlanService
}

// NewPlansHandler constructs handler.
func NewPlansHandler(plans *service.PlanService) *PlansHandler {
	return &PlansHandler{plans: plans}
}

// List handles GET /api/clinician/plans.
func (h *PlansHandler) List(c *fiber.Ctx) error {
	principal, ok := auth.PrincipalFromContext(c)
	if !ok || principal.Clinician == nil {
		return fiber.NewError(http.StatusForbidden, "clinician profile required")
	}

	plans, err := h.plans.ListForClinician(c.UserContext(), principal.Clinician.ID)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": plans})
}

// Assign handles POST /api/clinician/plans.
func (h *PlansHandler) Assign(c *fiber.Ctx) error {
	principal, ok := auth.PrincipalFromContext(c)
	if !ok || principal.Clinician == nil {
		return fiber.NewError(http.StatusForbidden, "clinician profile required")
	}

	var req dto.AssignPlanRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(http.StatusBadRequest, "invalid payload")
	}
	if req.PatientID == "" {
		return fiber.NewError(http.StatusBadRequest, "patientId required")
	}

	plan := &domain.MealPlan{
		PatientID: req.PatientID,
		Title:     req.Title,
		EndsOn:    req.EndsOn,
		Notes:     req.Notes,
	}
	if req.StartsOn != nil {
		plan.StartsOn = *req.StartsOn
	}

	actor := events.Actor{Role: principal.Role, UserID: principal.User.ID}
	created, err := h.plans.Assign(c.UserContext(), actor, principal.Clinician.ID, plan)
	if err != nil {
		return err
	}
	return c.Status(http.StatusCreated).JSON(fiber.Map{"data": created})
}

// UpdateStatus handles PATCH /api/clinician/plans/:id/status.
func (h *PlansHandler) UpdateStatus(c *fiber.Ctx) error {
	principal, ok := auth.PrincipalFromContext(c)
	if !ok || principal.Clinician == nil {
		return fiber.NewError(http.StatusForbidden, "clinician profile required")
	}

	var req dto.UpdatePlanStatusRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(http.StatusBadRequest, "invalid payload")
	}

	actor := events.Actor{Role: principal.Role, UserID: principal.User.ID}
	plan, err := h.plans.UpdateStatus(c.UserContext(), actor, principal.Clinician.ID, c.Params("id"), domain.PlanStatus(req.Status))
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": plan})
}
