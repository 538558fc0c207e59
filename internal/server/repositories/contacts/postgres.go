package contacts

import (
	"context"
	"fmt"

	"github.com/dmitrijs2005/jobboard/internal/dbx"
	"github.com/dmitrijs2005/jobboard/internal/server/models"
)

type PostgresRepository struct {
	db dbx.DBTX
}

func NewPostgresRepository(db dbx.DBTX) *PostgresRepository {
	return &PostgresRepository{db: db}
}

func (r *PostgresRepository) Create(ctx context.Context, m *models.ContactMessage) (*models.ContactMessage, error) {
	query :=
		`INSERT INTO contact_messages (email, message)
		 VALUES ($1, $2)
		 RETURNING id, created_at`

	if err := r.db.QueryRowContext(ctx, query, m.Email, m.Message).Scan(&m.ID, &m.CreatedAt); err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	return m, nil
}
