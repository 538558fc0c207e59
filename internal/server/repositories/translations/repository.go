package translations

import (
	"context"

	"github.com/dmitrijs2005/jobboard/internal/server/models"
)

type Repository interface {
	// ListForJobs returns the translations of jobIDs into lang keyed by job id.
	// Jobs without a translation are absent from the map.
	ListForJobs(ctx context.Context, lang string, jobIDs []int64) (map[int64]*models.JobTranslation, error)
	Upsert(ctx context.Context, tr *models.JobTranslation) (*models.JobTranslation, error)
	ListByJob(ctx context.Context, jobID int64) ([]models.JobTranslation, error)
}
