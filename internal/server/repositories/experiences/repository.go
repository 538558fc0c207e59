package experiences

import (
	"context"

	"github.com/dmitrijs2005/jobboard/internal/server/models"
)

type Repository interface {
	ListByUser(ctx context.Context, userID int64) ([]models.Experience, error)
	Create(ctx context.Context, e *models.Experience) (*models.Experience, error)
	DeleteForUser(ctx context.Context, id, userID int64) error
}
