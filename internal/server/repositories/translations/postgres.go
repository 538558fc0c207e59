package translations

import (
	"context"
	"fmt"
	"strings"

	"github.com/dmitrijs2005/jobboard/internal/dbx"
	"github.com/dmitrijs2005/jobboard/internal/server/models"
)

const translationColumns = `id, job_id, lang_code, title, short_description, full_description,
	responsibilities, requirements_text, benefits_text, housing_details, documents_required,
	bonuses, language_required, created_at, updated_at`

type rowScanner interface {
	Scan(dest ...any) error
}

func scanTranslation(row rowScanner) (*models.JobTranslation, error) {
	t := &models.JobTranslation{}
	err := row.Scan(&t.ID, &t.JobID, &t.LangCode, &t.Title, &t.ShortDescription, &t.FullDescription,
		&t.Responsibilities, &t.RequirementsText, &t.BenefitsText, &t.HousingDetails, &t.DocumentsRequired,
		&t.Bonuses, &t.LanguageRequired, &t.CreatedAt, &t.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return t, nil
}

type PostgresRepository struct {
	db dbx.DBTX
}

func NewPostgresRepository(db dbx.DBTX) *PostgresRepository {
	return &PostgresRepository{db: db}
}

func (r *PostgresRepository) ListForJobs(ctx context.Context, lang string, jobIDs []int64) (map[int64]*models.JobTranslation, error) {
	result := make(map[int64]*models.JobTranslation, len(jobIDs))
	if len(jobIDs) == 0 {
		return result, nil
	}

	args := make([]any, 0, len(jobIDs)+1)
	args = append(args, lang)
	placeholders := make([]string, len(jobIDs))
	for i, id := range jobIDs {
		args = append(args, id)
		placeholders[i] = fmt.Sprintf("$%d", i+2)
	}

	query := `SELECT ` + translationColumns + ` FROM job_translations
		 WHERE lang_code = $1 AND job_id IN (` + strings.Join(placeholders, ", ") + `)`

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		t, err := scanTranslation(rows)
		if err != nil {
			return nil, fmt.Errorf("db error: %w", err)
		}
		result[t.JobID] = t
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	return result, nil
}

// Upsert inserts the translation or replaces every translatable field of
// the existing (job, language) row.
func (r *PostgresRepository) Upsert(ctx context.Context, tr *models.JobTranslation) (*models.JobTranslation, error) {
	query :=
		`INSERT INTO job_translations (job_id, lang_code, title, short_description, full_description,
			responsibilities, requirements_text, benefits_text, housing_details, documents_required,
			bonuses, language_required)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)
		 ON CONFLICT (job_id, lang_code) DO UPDATE SET
			title = EXCLUDED.title,
			short_description = EXCLUDED.short_description,
			full_description = EXCLUDED.full_description,
			responsibilities = EXCLUDED.responsibilities,
			requirements_text = EXCLUDED.requirements_text,
			benefits_text = EXCLUDED.benefits_text,
			housing_details = EXCLUDED.housing_details,
			documents_required = EXCLUDED.documents_required,
			bonuses = EXCLUDED.bonuses,
			language_required = EXCLUDED.language_required,
			updated_at = now()
		 RETURNING id, created_at, updated_at`

	err := r.db.QueryRowContext(ctx, query, tr.JobID, tr.LangCode, tr.Title, tr.ShortDescription,
		tr.FullDescription, tr.Responsibilities, tr.RequirementsText, tr.BenefitsText,
		tr.HousingDetails, tr.DocumentsRequired, tr.Bonuses, tr.LanguageRequired,
	).Scan(&tr.ID, &tr.CreatedAt, &tr.UpdatedAt)
	if err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	return tr, nil
}

func (r *PostgresRepository) ListByJob(ctx context.Context, jobID int64) ([]models.JobTranslation, error) {
	query := `SELECT ` + translationColumns + ` FROM job_translations WHERE job_id = $1 ORDER BY lang_code`

	rows, err := r.db.QueryContext(ctx, query, jobID)
	if err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	defer rows.Close()

	result := make([]models.JobTranslation, 0)
	for rows.Next() {
		t, err := scanTranslation(rows)
		if err != nil {
			return nil, fmt.Errorf("db error: %w", err)
		}
		result = append(result, *t)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	return result, nil
}
