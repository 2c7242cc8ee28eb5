package persistence

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/zap"

	"github.com/spec-kit/nutrition-service/internal/auth"
	"github.com/spec-kit/nutrition-service/internal/domain"
	"github.com/spec-kit/nutrition-service/internal/repository"
)

type seedUser struct {
	fullName       string
	email          string
	identityNumber string
	password       string
	role           domain.Role
}

var seedUsers = []seedUser{
	{"Alicia Romero", "alicia.romero@nutricare.example", "1000001", "admin", domain.RoleAdmin},
	{"Laura Mendez", "laura.mendez@nutricare.example", "1234567", "clinician", domain.RoleClinician},
	{"Carlos Vega", "carlos.vega@nutricare.example", "7654321", "patient", domain.RolePatient},
	{"Marta Silva", "marta.silva@nutricare.example", "7654322", "patient", domain.RolePatient},
}

// Seed loads the mock dataset when the database is empty. Passwords are
// bcrypt-hashed here so no plaintext ever reaches the users table.
func Seed(ctx context.Context, pool *pgxpool.Pool, bcryptCost int, logger *zap.Logger) error {
	if pool == nil {
		logger.Warn("no postgres pool available; skipping seed")
		return nil
	}

	var count int
	if err := pool.QueryRow(ctx, `SELECT COUNT(*) FROM users`).Scan(&count); err != nil {
		return fmt.Errorf("count users: %w", err)
	}
	if count > 0 {
		logger.Info("seed skipped; users already present", zap.Int("count", count))
		return nil
	}

	users := repository.NewUserRepository(pool)
	clinicians := repository.NewClinicianRepository(pool)
	patients := repository.NewPatientRepository(pool)
	plans := repository.NewPlanRepository(pool)
	progress := repository.NewProgressRepository(pool)

	var clinicianID string
	var patientIDs []string

	for _, su := range seedUsers {
		hash, err := auth.HashPassword(su.password, bcryptCost)
		if err != nil {
			return fmt.Errorf("hash seed password: %w", err)
		}
		user := &domain.User{
			FullName:       su.fullName,
			Email:          su.email,
			IdentityNumber: su.identityNumber,
			PasswordHash:   hash,
			Role:           su.role,
			Active:         true,
		}
		if err := users.Create(ctx, user); err != nil {
			return fmt.Errorf("seed user %s: %w", su.identityNumber, err)
		}

		switch su.role {
		case domain.RoleClinician:
			clinician := &domain.Clinician{
				UserID:        user.ID,
				LicenseNumber: "NUT-2031",
				Specialty:     "Clinical nutrition",
			}
			if err := clinicians.Create(ctx, clinician); err != nil {
				return fmt.Errorf("seed clinician profile: %w", err)
			}
			clinicianID = clinician.ID
		case domain.RolePatient:
			profile := &domain.PatientProfile{
				UserID:         user.ID,
				BirthDate:      time.Date(1990, time.March, 14, 0, 0, 0, 0, time.UTC),
				HeightCm:       172,
				TargetWeightKg: 70,
			}
			if clinicianID != "" {
				profile.ClinicianID = &clinicianID
			}
			if err := patients.Create(ctx, profile); err != nil {
				return fmt.Errorf("seed patient profile: %w", err)
			}
			patientIDs = append(patientIDs, profile.ID)
		}
	}

	for i, patientID := range patientIDs {
		plan := &domain.MealPlan{
			PatientID:   patientID,
			ClinicianID: clinicianID,
			Title:       "Mediterranean baseline",
			Status:      domain.PlanStatusActive,
			StartsOn:    time.Now().AddDate(0, 0, -14),
			Notes:       "Three meals plus two snacks, 1800 kcal.",
		}
		if err := plans.Create(ctx, plan); err != nil {
			return fmt.Errorf("seed meal plan: %w", err)
		}

		for week := 0; week < 3; week++ {
			entry := &domain.ProgressEntry{
				PatientID:  patientID,
				RecordedOn: time.Now().AddDate(0, 0, -7*week),
				WeightKg:   75.0 - float64(i) + 0.4*float64(week),
				Notes:      "weekly check-in",
			}
			if err := progress.Create(ctx, entry); err != nil {
				return fmt.Errorf("seed progress entry: %w", err)
			}
		}
	}

	logger.Info("seed data loaded", zap.Int("users", len(seedUsers)))
	return nil
}
