package users

import (
	"context"

	"github.com/dmitrijs2005/jobboard/internal/server/models"
)

// EmailConstraint is the unique constraint on users.email.
const EmailConstraint = "users_email_key"

type Repository interface {
	Create(ctx context.Context, user *models.User) (*models.User, error)
	GetByEmail(ctx context.Context, email string) (*models.User, error)
	GetByID(ctx context.Context, id int64) (*models.User, error)
	Update(ctx context.Context, user *models.User) error
	AdminUpdate(ctx context.Context, user *models.User) error
	SetResume(ctx context.Context, id int64, key, filename *string) error
	List(ctx context.Context) ([]models.User, error)
	Delete(ctx context.Context, id int64) error
}
