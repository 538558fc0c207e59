package applications

import (
	"context"
	"fmt"

	"github.com/dmitrijs2005/jobboard/internal/common"
	"github.com/dmitrijs2005/jobboard/internal/dbx"
	"github.com/dmitrijs2005/jobboard/internal/server/models"
)

type PostgresRepository struct {
	db dbx.DBTX
}

func NewPostgresRepository(db dbx.DBTX) *PostgresRepository {
	return &PostgresRepository{db: db}
}

// Create records an application. A second application of the same user
// for the same job yields an error wrapping common.ErrorAlreadyExists.
func (r *PostgresRepository) Create(ctx context.Context, a *models.Application) (*models.Application, error) {
	query :=
		`INSERT INTO applications (user_id, job_id, status)
		 VALUES ($1, $2, $3)
		 RETURNING id, created_at`

	if a.Status == "" {
		a.Status = models.ApplicationStatusApplied
	}

	err := r.db.QueryRowContext(ctx, query, a.UserID, a.JobID, a.Status).Scan(&a.ID, &a.CreatedAt)
	if err != nil {
		if dbx.IsUniqueViolation(err, UserJobConstraint) {
			return nil, fmt.Errorf("%w: %w", common.ErrorAlreadyExists, err)
		}
		return nil, fmt.Errorf("db error: %w", err)
	}
	return a, nil
}

func (r *PostgresRepository) ExistsForUserJob(ctx context.Context, userID, jobID int64) (bool, error) {
	query := `SELECT EXISTS (SELECT 1 FROM applications WHERE user_id = $1 AND job_id = $2)`

	var exists bool
	if err := r.db.QueryRowContext(ctx, query, userID, jobID).Scan(&exists); err != nil {
		return false, fmt.Errorf("db error: %w", err)
	}
	return exists, nil
}

// ListForUser returns the user's applications joined with their jobs,
// newest first.
func (r *PostgresRepository) ListForUser(ctx context.Context, userID int64) ([]models.ApplicationWithJob, error) {
	query :=
		`SELECT a.id, a.status, a.created_at, j.id, j.title, j.country, j.city, j.category
		 FROM applications a
		 JOIN jobs j ON j.id = a.job_id
		 WHERE a.user_id = $1
		 ORDER BY a.created_at DESC, a.id DESC`

	rows, err := r.db.QueryContext(ctx, query, userID)
	if err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	defer rows.Close()

	result := make([]models.ApplicationWithJob, 0)
	for rows.Next() {
		var a models.ApplicationWithJob
		if err := rows.Scan(&a.ID, &a.Status, &a.CreatedAt,
			&a.Job.ID, &a.Job.Title, &a.Job.Country, &a.Job.City, &a.Job.Category); err != nil {
			return nil, fmt.Errorf("db error: %w", err)
		}
		result = append(result, a)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	return result, nil
}

func (r *PostgresRepository) CountForUser(ctx context.Context, userID int64) (int, error) {
	var n int
	if err := r.db.QueryRowContext(ctx, `SELECT count(*) FROM applications WHERE user_id = $1`, userID).Scan(&n); err != nil {
		return 0, fmt.Errorf("db error: %w", err)
	}
	return n, nil
}
