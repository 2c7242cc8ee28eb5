package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/nutrition-service/internal/api/http/handlers"
	"github.com/spec-kit/nutrition-service/internal/auth"
	"github.com/spec-kit/nutrition-service/internal/domain"
)

// RouteConfig bundles dependencies for route registration.
type RouteConfig struct {
	Health         *handlers.HealthHandler
	Pages          *handlers.PagesHandler
	Auth           *handlers.AuthHandler
	Dashboard      *handlers.DashboardHandler
	Patients       *handlers.PatientsHandler
	Plans          *handlers.PlansHandler
	AdminUsers     *handlers.AdminUsersHandler
	RouteGuard     *auth.RouteGuard
	AuthMiddleware *auth.AuthMiddleware
}

// RegisterRoutes wires HTTP routes.
func RegisterRoutes(app *fiber.App, cfg RouteConfig) {
	// The guard sees every request; public and unprotected paths fall through.
	app.Use(cfg.RouteGuard.Handle)

	app.Get("/health/live", cfg.Health.Live)
	app.Get("/health/ready", cfg.Health.Ready)

	app.Get("/", cfg.Pages.Home)
	app.Get("/login", cfg.Pages.Login)
	app.Get("/forbidden", cfg.Pages.Forbidden)

	authGroup := app.Group("/auth")
	authGroup.Post("/login", cfg.Auth.Login)
	authGroup.Post("/logout", cfg.Auth.Logout)
	authGroup.Post("/refresh", cfg.Auth.Refresh)
	authGroup.Get("/me", cfg.Auth.Me)

	// Page-scope routes: access already decided by the route guard.
	dashboard := app.Group("/dashboard")
	dashboard.Get("/admin", cfg.Dashboard.Admin)
	dashboard.Get("/admin/users", cfg.Dashboard.AdminUsers)
	dashboard.Get("/admin/settings", cfg.Dashboard.Settings)
	dashboard.Get("/clinician", cfg.Dashboard.Clinician)
	dashboard.Get("/clinician/patients", cfg.Dashboard.ClinicianPatients)
	dashboard.Get("/clinician/plans", cfg.Dashboard.ClinicianPlans)
	dashboard.Get("/clinician/settings", cfg.Dashboard.Settings)
	dashboard.Get("/patient", cfg.Dashboard.Patient)
	dashboard.Get("/patient/progress", cfg.Dashboard.PatientProgress)
	dashboard.Get("/patient/plan", cfg.Dashboard.PatientPlan)
	dashboard.Get("/patient/settings", cfg.Dashboard.Settings)

	// JSON API: principal middleware answers 401/403 instead of redirecting.
	api := app.Group("/api", cfg.AuthMiddleware.Handle)

	patientAPI := api.Group("/patients", auth.RequireRole(domain.RolePatient))
	patientAPI.Get("/me", cfg.Patients.MyOverview)
	patientAPI.Post("/me/progress", cfg.Patients.RecordProgress)

	clinicianAPI := api.Group("/clinician", auth.RequireRole(domain.RoleClinician))
	clinicianAPI.Get("/patients", cfg.Patients.List)
	clinicianAPI.Get("/patients/:id", cfg.Patients.Get)
	clinicianAPI.Get("/plans", cfg.Plans.List)
	clinicianAPI.Post("/plans", cfg.Plans.Assign)
	clinicianAPI.Patch("/plans/:id/status", cfg.Plans.UpdateStatus)

	adminAPI := api.Group("/admin", auth.RequireRole(domain.RoleAdmin))
	adminAPI.Get("/users", cfg.AdminUsers.List)
	adminAPI.Post("/users", cfg.AdminUsers.Create)
	adminAPI.Patch("/users/:id/active", cfg.AdminUsers.SetActive)
	adminAPI.Patch("/users/:id/role", cfg.AdminUsers.UpdateRole)
}
