package jobs

import (
	"context"

	"github.com/dmitrijs2005/jobboard/internal/server/models"
)

// MaxSearchResults caps the public job listing.
const MaxSearchResults = 200

type Repository interface {
	Search(ctx context.Context, filter models.JobFilter) ([]models.Job, error)
	GetActive(ctx context.Context, id int64) (*models.Job, error)
	Get(ctx context.Context, id int64) (*models.Job, error)
	List(ctx context.Context) ([]models.Job, error)
	Create(ctx context.Context, job *models.Job) (*models.Job, error)
	Update(ctx context.Context, job *models.Job) (*models.Job, error)
}
