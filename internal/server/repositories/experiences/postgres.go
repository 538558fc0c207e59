package experiences

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

func (r *PostgresRepository) ListByUser(ctx context.Context, userID int64) ([]models.Experience, error) {
	query :=
		`SELECT id, user_id, experience FROM user_experience
		 WHERE user_id = $1
		 ORDER BY id`

	rows, err := r.db.QueryContext(ctx, query, userID)
	if err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	defer rows.Close()

	result := make([]models.Experience, 0)
	for rows.Next() {
		var e models.Experience
		if err := rows.Scan(&e.ID, &e.UserID, &e.Text); err != nil {
			return nil, fmt.Errorf("db error: %w", err)
		}
		result = append(result, e)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	return result, nil
}

func (r *PostgresRepository) Create(ctx context.Context, e *models.Experience) (*models.Experience, error) {
	query :=
		`INSERT INTO user_experience (user_id, experience)
		 VALUES ($1, $2)
		 RETURNING id`

	if err := r.db.QueryRowContext(ctx, query, e.UserID, e.Text).Scan(&e.ID); err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	return e, nil
}

// DeleteForUser deletes entry id only if it belongs to userID; otherwise
// it reports common.ErrorNotFound.
func (r *PostgresRepository) DeleteForUser(ctx context.Context, id, userID int64) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM user_experience WHERE id = $1 AND user_id = $2`, id, userID)
	if err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	if n == 0 {
		return common.ErrorNotFound
	}
	return nil
}
