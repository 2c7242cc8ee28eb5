package repository

import (
	"context"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/spec-kit/nutrition-service/internal/domain"
)

// PatientRepository defines persistence access for patient profiles.
type PatientRepository interface {
	Create(ctx context.Context, profile *domain.PatientProfile) error
	Update(ctx context.Context, profile *domain.PatientProfile) error
	GetByUserID(ctx context.Context, userID string) (*domain.PatientProfile, error)
	GetByID(ctx context.Context, id string) (*domain.PatientProfile, error)
	ListByClinician(ctx context.Context, clinicianID string) ([]domain.PatientProfile, error)
}

type patientRepository struct {
	pool *pgxpool.Pool
}

// NewPatientRepository returns a Postgres-backed implementation.
func NewPatientRepository(pool *pgxpool.Pool) PatientRepository {
	return &patientRepository{pool: pool}
}

const patientColumns = `id, user_id, clinician_id, birth_date, height_cm, target_weight_kg, created_at, updated_at`

func (r *patientRepository) Create(ctx context.Context, profile *domain.PatientProfile) error {
	const query = `
        INSERT INTO patient_profiles (user_id, clinician_id, birth_date, height_cm, target_weight_kg)
        VALUES ($1, $2, $3, $4, $5)
        RETURNING id, created_at, updated_at`

	return r.pool.QueryRow(ctx, query,
		profile.UserID,
		profile.ClinicianID,
		profile.BirthDate,
		profile.HeightCm,
		profile.TargetWeightKg,
	).Scan(&profile.ID, &profile.CreatedAt, &profile.UpdatedAt)
}

func (r *patientRepository) Update(ctx context.Context, profile *domain.PatientProfile) error {
	const query = `
        UPDATE patient_profiles SET clinician_id=$1, birth_date=$2, height_cm=$3, target_weight_kg=$4, updated_at=NOW()
        WHERE id=$5`

	cmd, err := r.pool.Exec(ctx, query,
		profile.ClinicianID,
		profile.BirthDate,
		profile.HeightCm,
		profile.TargetWeightKg,
		profile.ID,
	)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}

func (r *patientRepository) GetByUserID(ctx context.Context, userID string) (*domain.PatientProfile, error) {
	const query = `SELECT ` + patientColumns + ` FROM patient_profiles WHERE user_id=$1`
	return r.scanOne(r.pool.QueryRow(ctx, query, userID))
}

func (r *patientRepository) GetByID(ctx context.Context, id string) (*domain.PatientProfile, error) {
	const query = `SELECT ` + patientColumns + ` FROM patient_profiles WHERE id=$1`
	return r.scanOne(r.pool.QueryRow(ctx, query, id))
}

func (r *patientRepository) ListByClinician(ctx context.Context, clinicianID string) ([]domain.PatientProfile, error) {
	const query = `SELECT ` + patientColumns + ` FROM patient_profiles WHERE clinician_id=$1 ORDER BY created_at`
	rows, err := r.pool.Query(ctx, query, clinicianID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var profiles []domain.PatientProfile
	for rows.Next() {
		var profile domain.PatientProfile
		if err := rows.Scan(
			&profile.ID,
			&profile.UserID,
			&profile.ClinicianID,
			&profile.BirthDate,
			&profile.HeightCm,
			&profile.TargetWeightKg,
			&profile.CreatedAt,
			&profile.UpdatedAt,
		); err != nil {
			return nil, err
		}
		profiles = append(profiles, profile)
	}
	return profiles, rows.Err()
}

func (r *patientRepository) scanOne(row pgx.Row) (*domain.PatientProfile, error) {
	var profile domain.PatientProfile
	if err := row.Scan(
		&profile.ID,
		&profile.UserID,
		&profile.ClinicianID,
		&profile.BirthDate,
		&profile.HeightCm,
		&profile.TargetWeightKg,
		&profile.CreatedAt,
		&profile.UpdatedAt,
	); err != nil {
		return nil, err
	}
	return &profile, nil
}
