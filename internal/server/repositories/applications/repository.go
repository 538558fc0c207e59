package applications

import (
	"context"

	"github.com/dmitrijs2005/jobboard/internal/server/models"
)

// UserJobConstraint makes (user_id, job_id) unique.
const UserJobConstraint = "uq_user_job_application"

type Repository interface {
	Create(ctx context.Context, a *models.Application) (*models.Application, error)
	ExistsForUserJob(ctx context.Context, userID, jobID int64) (bool, error)
	ListForUser(ctx context.Context, userID int64) ([]models.ApplicationWithJob, error)
	CountForUser(ctx context.Context, userID int64) (int, error)
}
