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

// PatientsHandler exposes the patient-facing and clinician-facing API.
type PatientsHandler struct {
	patients *service.PatientService
}

// NewPatientsHandler constructs handler.
func NewPatientsHandler(patients *service.PatientService) *PatientsHandler {
	return &PatientsHandler{patients: patients}
}

// MyOverview handles GET /api/patients/me.
func (h *PatientsHandler) MyOverview(c *fiber.Ctx) error {
	principal, ok := auth.PrincipalFromContext(c)
	if !ok {
		return fiber.NewError(http.StatusUnauthorized, http.StatusText(http.StatusUnauthorized))
	}

	overview, err := h.patients.OverviewForUser(c.UserContext(), principal.User.ID)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": overviewResponse(overview)})
}

// RecordProgress handles POST /api/patients/me/progress.
func (h *PatientsHandler) RecordProgress(c *fiber.Ctx) error {
	principal, ok := auth.PrincipalFromContext(c)
	if !ok {
		return fiber.NewError(http.StatusUnauthorized, http.StatusText(http.StatusUnauthorized))
	}

	var req dto.RecordProgressRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(http.StatusBadRequest, "invalid payload")
	}

	entry := &domain.ProgressEntry{
		WeightKg:   req.WeightKg,
		BodyFatPct: req.BodyFatPct,
		Notes:      req.Notes,
	}
	if req.RecordedOn != nil {
		entry.RecordedOn = *req.RecordedOn
	}

	actor := events.Actor{Role: principal.Role, UserID: principal.User.ID}
	created, err := h.patients.RecordProgress(c.UserContext(), actor, principal.User.ID, entry)
	if err != nil {
		return err
	}
	return c.Status(http.StatusCreated).JSON(fiber.Map{"data": created})
}

// List handles GET /api/clinician/patients.
func (h *PatientsHandler) List(c *fiber.Ctx) error {
	principal, ok := auth.PrincipalFromContext(c)
	if !ok || principal.Clinician == nil {
		return fiber.NewError(http.StatusForbidden, "clinician profile required")
	}

	items, err := h.patients.ListForClinician(c.UserContext(), principal.Clinician.ID)
	if err != nil {
		return err
	}

	payload := make([]fiber.Map, 0, len(items))
	for _, item := range items {
		payload = append(payload, fiber.Map{
			"user":    dto.UserFromDomain(item.User),
			"profile": item.Profile,
		})
	}
	return c.JSON(fiber.Map{"data": payload})
}

// Get handles GET /api/clinician/patients/:id.
func (h *PatientsHandler) Get(c *fiber.Ctx) error {
	principal, ok := auth.PrincipalFromContext(c)
	if !ok || principal.Clinician == nil {
		return fiber.NewError(http.StatusForbidden, "clinician profile required")
	}

	overview, err := h.patients.OverviewForClinician(c.UserContext(), principal.Clinician.ID, c.Params("id"))
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": overviewResponse(overview)})
}

func overviewResponse(overview *service.PatientOverview) fiber.Map {
	return fiber.Map{
		"user":     dto.UserFromDomain(overview.User),
		"profile":  overview.Profile,
		"progress": overview.Progress,
		"plans":    overview.Plans,
	}
}
