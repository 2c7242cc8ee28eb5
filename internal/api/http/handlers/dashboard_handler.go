package handlers

import (
	"net/http"

	"github.com/gofiber/fiber/v2"
	"github.com/jackc/pgx/v5"

	"github.com/spec-kit/nutrition-service/internal/auth"
	"github.com/spec-kit/nutrition-service/internal/domain"
	"github.com/spec-kit/nutrition-service/internal/repository"
	"github.com/spec-kit/nutrition-service/internal/service"
)

// DashboardHandler renders the per-role dashboard view-models behind the
// route guard. Navigation always comes from the role routing table so the
// menu and the guard can never disagree.
type DashboardHandler struct {
	users      *service.UserService
	patients   *service.PatientService
	plans      *service.PlanService
	clinicians repository.ClinicianRepository
}

// NewDashboardHandler constructs handler.
func NewDashboardHandler(users *service.UserService, patients *service.PatientService, plans *service.PlanService, clinicians repository.ClinicianRepository) *DashboardHandler {
	return &DashboardHandler{users: users, patients: patients, plans: plans, clinicians: clinicians}
}

// Admin handles GET /dashboard/admin.
func (h *DashboardHandler) Admin(c *fiber.Ctx) error {
	identity, ok := auth.IdentityFromContext(c)
	if !ok {
		return fiber.NewError(http.StatusUnauthorized, "no session")
	}

	accounts, err := h.users.List(c.UserContext())
	if err != nil {
		return err
	}

	counts := map[domain.Role]int{}
	for _, account := range accounts {
		counts[account.Role]++
	}

	return c.JSON(fiber.Map{"data": fiber.Map{
		"navigation": navigationFor(identity.Role),
		"summary": fiber.Map{
			"totalUsers": len(accounts),
			"admins":     counts[domain.RoleAdmin],
			"clinicians": counts[domain.RoleClinician],
			"patients":   counts[domain.RolePatient],
		},
	}})
}

// Clinician handles GET /dashboard/clinician.
func (h *DashboardHandler) Clinician(c *fiber.Ctx) error {
	identity, ok := auth.IdentityFromContext(c)
	if !ok {
		return fiber.NewError(http.StatusUnauthorized, "no session")
	}

	clinician, err := h.clinicians.GetByUserID(c.UserContext(), identity.SubjectID)
	if err != nil {
		if err == pgx.ErrNoRows {
			return fiber.NewError(http.StatusNotFound, "clinician profile not found")
		}
		return err
	}

	patients, err := h.patients.ListForClinician(c.UserContext(), clinician.ID)
	if err != nil {
		return err
	}
	plans, err := h.plans.ListForClinician(c.UserContext(), clinician.ID)
	if err != nil {
		return err
	}

	active := 0
	for _, plan := range plans {
		if plan.Status == domain.PlanStatusActive {
			active++
		}
	}

	return c.JSON(fiber.Map{"data": fiber.Map{
		"navigation": navigationFor(identity.Role),
		"summary": fiber.Map{
			"patients":    len(patients),
			"plans":       len(plans),
			"activePlans": active,
		},
	}})
}

// Patient handles GET /dashboard/patient.
func (h *DashboardHandler) Patient(c *fiber.Ctx) error {
	identity, ok := auth.IdentityFromContext(c)
	if !ok {
		return fiber.NewError(http.StatusUnauthorized, "no session")
	}

	overview, err := h.patients.OverviewForUser(c.UserContext(), identity.SubjectID)
	if err != nil {
		return err
	}

	summary := fiber.Map{
		"targetWeightKg": overview.Profile.TargetWeightKg,
		"entries":        len(overview.Progress),
	}
	if len(overview.Progress) > 0 {
		summary["latestWeightKg"] = overview.Progress[0].WeightKg
		summary["latestRecordedOn"] = overview.Progress[0].RecordedOn
	}
	for _, plan := range overview.Plans {
		if plan.Status == domain.PlanStatusActive {
			summary["activePlan"] = plan.Title
			break
		}
	}

	return c.JSON(fiber.Map{"data": fiber.Map{
		"navigation": navigationFor(identity.Role),
		"summary":    summary,
	}})
}

// AdminUsers handles GET /dashboard/admin/users.
func (h *DashboardHandler) AdminUsers(c *fiber.Ctx) error {
	identity, ok := auth.IdentityFromContext(c)
	if !ok {
		return fiber.NewError(http.StatusUnauthorized, "no session")
	}

	accounts, err := h.users.List(c.UserContext())
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": fiber.Map{
		"navigation": navigationFor(identity.Role),
		"users":      accounts,
	}})
}

// ClinicianPatients handles GET /dashboard/clinician/patients.
func (h *DashboardHandler) ClinicianPatients(c *fiber.Ctx) error {
	identity, ok := auth.IdentityFromContext(c)
	if !ok {
		return fiber.NewError(http.StatusUnauthorized, "no session")
	}

	clinician, err := h.clinicians.GetByUserID(c.UserContext(), identity.SubjectID)
	if err != nil {
		if err == pgx.ErrNoRows {
			return fiber.NewError(http.StatusNotFound, "clinician profile not found")
		}
		return err
	}

	patients, err := h.patients.ListForClinician(c.UserContext(), clinician.ID)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": fiber.Map{
		"navigation": navigationFor(identity.Role),
		"patients":   patients,
	}})
}

// ClinicianPlans handles GET /dashboard/clinician/plans.
func (h *DashboardHandler) ClinicianPlans(c *fiber.Ctx) error {
	identity, ok := auth.IdentityFromContext(c)
	if !ok {
		return fiber.NewError(http.StatusUnauthorized, "no session")
	}

	clinician, err := h.clinicians.GetByUserID(c.UserContext(), identity.SubjectID)
	if err != nil {
		if err == pgx.ErrNoRows {
			return fiber.NewError(http.StatusNotFound, "clinician profile not found")
		}
		return err
	}

	plans, err := h.plans.ListForClinician(c.UserContext(), clinician.ID)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": fiber.Map{
		"navigation": navigationFor(identity.Role),
		"plans":      plans,
	}})
}

// PatientProgress handles GET /dashboard/patient/progress.
func (h *DashboardHandler) PatientProgress(c *fiber.Ctx) error {
	identity, ok := auth.IdentityFromContext(c)
	if !ok {
		return fiber.NewError(http.StatusUnauthorized, "no session")
	}

	overview, err := h.patients.OverviewForUser(c.UserContext(), identity.SubjectID)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": fiber.Map{
		"navigation": navigationFor(identity.Role),
		"progress":   overview.Progress,
	}})
}

// PatientPlan handles GET /dashboard/patient/plan.
func (h *DashboardHandler) PatientPlan(c *fiber.Ctx) error {
	identity, ok := auth.IdentityFromContext(c)
	if !ok {
		return fiber.NewError(http.StatusUnauthorized, "no session")
	}

	overview, err := h.patients.OverviewForUser(c.UserContext(), identity.SubjectID)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": fiber.Map{
		"navigation": navigationFor(identity.Role),
		"plans":      overview.Plans,
	}})
}

// Settings handles GET /dashboard/{role}/settings for every role.
func (h *DashboardHandler) Settings(c *fiber.Ctx) error {
	identity, ok := auth.IdentityFromContext(c)
	if !ok {
		return fiber.NewError(http.StatusUnauthorized, "no session")
	}
	return c.JSON(fiber.Map{"data": fiber.Map{
		"navigation": navigationFor(identity.Role),
		"role":       identity.Role,
	}})
}

func navigationFor(role domain.Role) []auth.NavItem {
	rs, ok := auth.RoutesFor(role)
	if !ok {
		return nil
	}
	return rs.Nav
}
