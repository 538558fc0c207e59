package contacts

import (
	"context"

	"github.com/dmitrijs2005/jobboard/internal/server/models"
)

type Repository interface {
	Create(ctx context.Context, m *models.ContactMessage) (*models.ContactMessage, error)
}
