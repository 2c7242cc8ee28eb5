package repository

import (
	"context"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/spec-kit/nutrition-service/internal/domain"
)

// ClinicianRepository defines persistence access for clinician profiles.
type ClinicianRepository interface {
	Create(ctx context.Context, clinician *domain.Clinician) error
	GetByUserID(ctx context.Context, userID string) (*domain.Clinician, error)
}

type clinicianRepository struct {
	pool *pgxpool.Pool
}

// NewClinicianRepository returns a Postgres-backed implementation.
func NewClinicianRepository(pool *pgxpool.Pool) ClinicianRepository {
	return &clinicianRepository{pool: pool}
}

func (r *clinicianRepository) Create(ctx context.Context, clinician *domain.Clinician) error {
	const query = `
        INSERT INTO clinicians (user_id, license_number, specialty)
        VALUES ($1, $2, $3)
        RETURNING id, created_at, updated_at`

	return r.pool.QueryRow(ctx, query,
		clinician.UserID,
		clinician.LicenseNumber,
		clinician.Specialty,
	).Scan(&clinician.ID, &clinician.CreatedAt, &clinician.UpdatedAt)
}

func (r *clinicianRepository) GetByUserID(ctx context.Context, userID string) (*domain.Clinician, error) {
	const query = `
        SELECT id, user_id, license_number, specialty, created_at, updated_at
        FROM clinicians WHERE user_id=$1`

	var clinician domain.Clinician
	if err := r.pool.QueryRow(ctx, query, userID).Scan(
		&clinician.ID,
		&clinician.UserID,
		&clinician.LicenseNumber,
		&clinician.Specialty,
		&clinician.CreatedAt,
		&clinician.UpdatedAt,
	); err != nil {
		return nil, err
	}
	return &clinician, nil
}
