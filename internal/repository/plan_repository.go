package repository

import (
	"context"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/spec-kit/nutrition-service/internal/domain"
)

// PlanRepository defines persistence access for meal plans.
type PlanRepository interface {
	Create(ctx context.Context, plan *domain.MealPlan) error
	Update(ctx context.Context, plan *domain.MealPlan) error
	GetByID(ctx context.Context, id string) (*domain.MealPlan, error)
	ListByPatient(ctx context.Context, patientID string) ([]domain.MealPlan, error)
	ListByClinician(ctx context.Context, clinicianID string) ([]domain.MealPlan, error)
}

type planRepository struct {
	pool *pgxpool.Pool
}

// NewPlanRepository returns a Postgres-backed implementation.
func NewPlanRepository(pool *pgxpool.Pool) PlanRepository {
	return &planRepository{pool: pool}
}

const planColumns = `id, patient_id, clinician_id, title, status, starts_on, ends_on, notes, created_at, updated_at`

func (r *planRepository) Create(ctx context.Context, plan *domain.MealPlan) error {
	const query = `
        INSERT INTO meal_plans (patient_id, clinician_id, title, status, starts_on, ends_on, notes)
        VALUES ($1, $2, $3, $4, $5, $6, $7)
        RETURNING id, created_at, updated_at`

	return r.pool.QueryRow(ctx, query,
		plan.PatientID,
		plan.ClinicianID,
		plan.Title,
		plan.Status,
		plan.StartsOn,
		plan.EndsOn,
		plan.Notes,
	).Scan(&plan.ID, &plan.CreatedAt, &plan.UpdatedAt)
}

func (r *planRepository) Update(ctx context.Context, plan *domain.MealPlan) error {
	const query = `
        UPDATE meal_plans SET title=$1, status=$2, starts_on=$3, ends_on=$4, notes=$5, updated_at=NOW()
        WHERE id=$6`

	cmd, err := r.pool.Exec(ctx, query,
		plan.Title,
		plan.Status,
		plan.StartsOn,
		plan.EndsOn,
		plan.Notes,
		plan.ID,
	)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}

func (r *planRepository) GetByID(ctx context.Context, id string) (*domain.MealPlan, error) {
	const query = `SELECT ` + planColumns + ` FROM meal_plans WHERE id=$1`
	return scanPlan(r.pool.QueryRow(ctx, query, id))
}

func (r *planRepository) ListByPatient(ctx context.Context, patientID string) ([]domain.MealPlan, error) {
	const query = `SELECT ` + planColumns + ` FROM meal_plans WHERE patient_id=$1 ORDER BY starts_on DESC`
	return r.list(ctx, query, patientID)
}

func (r *planRepository) ListByClinician(ctx context.Context, clinicianID string) ([]domain.MealPlan, error) {
	const query = `SELECT ` + planColumns + ` FROM meal_plans WHERE clinician_id=$1 ORDER BY starts_on DESC`
	return r.list(ctx, query, clinicianID)
}

func (r *planRepository) list(ctx context.Context, query string, arg any) ([]domain.MealPlan, error) {
	rows, err := r.pool.Query(ctx, query, arg)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var plans []domain.MealPlan
	for rows.Next() {
		var plan domain.MealPlan
		if err := rows.Scan(
			&plan.ID,
			&plan.PatientID,
			&plan.ClinicianID,
			&plan.Title,
			&plan.Status,
			&plan.StartsOn,
			&plan.EndsOn,
			&plan.Notes,
			&plan.CreatedAt,
			&plan.UpdatedAt,
		); err != nil {
			return nil, err
		}
		plans = append(plans, plan)
	}
	return plans, rows.Err()
}

func scanPlan(row pgx.Row) (*domain.MealPlan, error) {
	var plan domain.MealPlan
	if err := row.Scan(
		&plan.ID,
		&plan.PatientID,
		&plan.ClinicianID,
		&plan.Title,
		&plan.Status,
		&plan.StartsOn,
		&plan.EndsOn,
		&plan.Notes,
		&plan.CreatedAt,
		&plan.UpdatedAt,
	); err != nil {
		return nil, err
	}
	return &plan, nil
}
