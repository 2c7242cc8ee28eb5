package repository

import (
	"context"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/spec-kit/nutrition-service/internal/domain"
)

// ProgressRepository defines persistence access for progress entries.
type ProgressRepository interface {
	Create(ctx context.Context, entry *domain.ProgressEntry) error
	ListByPatient(ctx context.Context, patientID string) ([]domain.ProgressEntry, error)
}

type progressRepository struct {
	pool *pgxpool.Pool
}

// NewProgressRepository returns a Postgres-backed implementation.
func NewProgressRepository(pool *pgxpool.Pool) ProgressRepository {
	return &progressRepository{pool: pool}
}

func (r *progressRepository) Create(ctx context.Context, entry *domain.ProgressEntry) error {
	const query = `
        INSERT INTO progress_entries (patient_id, recorded_on, weight_kg, body_fat_pct, notes)
        VALUES ($1, $2, $3, $4, $5)
        RETURNING id, created_at`

	return r.pool.QueryRow(ctx, query,
		entry.PatientID,
		entry.RecordedOn,
		entry.WeightKg,
		entry.BodyFatPct,
		entry.Notes,
	).Scan(&entry.ID, &entry.CreatedAt)
}

func (r *progressRepository) ListByPatient(ctx context.Context, patientID string) ([]domain.ProgressEntry, error) {
	const query = `
        SELECT id, patient_id, recorded_on, weight_kg, body_fat_pct, notes, created_at
        FROM progress_entries WHERE patient_id=$1 ORDER BY recorded_on DESC`

	rows, err := r.pool.Query(ctx, query, patientID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var entries []domain.ProgressEntry
	for rows.Next() {
		var entry domain.ProgressEntry
		if err := rows.Scan(
			&entry.ID,
			&entry.PatientID,
			&entry.RecordedOn,
			&entry.WeightKg,
			&entry.BodyFatPct,
			&entry.Notes,
			&entry.CreatedAt,
		); err != nil {
			return nil, err
		}
		entries = append(entries, entry)
	}
	return entries, rows.Err()
}
