package jobs

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/dmitrijs2005/jobboard/internal/common"
	"github.com/dmitrijs2005/jobboard/internal/dbx"
	"github.com/dmitrijs2005/jobboard/internal/server/models"
)

const jobColumns = `id, title, company_name, reference_code, country, city, workplace_address,
	category, employment_type, shift_type, salary_from, salary_to, currency, salary_type,
	is_net, housing_provided, housing_details, transport_provided, bonuses,
	min_experience_years, language_required, documents_required, driving_license_required,
	short_description, full_description, responsibilities, requirements_text, benefits_text,
	is_active, created_at, updated_at`

type rowScanner interface {
	Scan(dest ...any) error
}

func scanJob(row rowScanner) (*models.Job, error) {
	j := &models.Job{}
	err := row.Scan(&j.ID, &j.Title, &j.CompanyName, &j.ReferenceCode, &j.Country, &j.City, &j.WorkplaceAddress,
		&j.Category, &j.EmploymentType, &j.ShiftType, &j.SalaryFrom, &j.SalaryTo, &j.Currency, &j.SalaryType,
		&j.IsNet, &j.HousingProvided, &j.HousingDetails, &j.TransportProvided, &j.Bonuses,
		&j.MinExperienceYears, &j.LanguageRequired, &j.DocumentsRequired, &j.DrivingLicenseRequired,
		&j.ShortDescription, &j.FullDescription, &j.Responsibilities, &j.RequirementsText, &j.BenefitsText,
		&j.IsActive, &j.CreatedAt, &j.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return j, nil
}

// writableArgs returns the values of every column an administrator can set,
// in the order of the INSERT and UPDATE statements below.
func writableArgs(j *models.Job) []any {
	return []any{j.Title, j.CompanyName, j.ReferenceCode, j.Country, j.City, j.WorkplaceAddress,
		j.Category, j.EmploymentType, j.ShiftType, j.SalaryFrom, j.SalaryTo, j.Currency, j.SalaryType,
		j.IsNet, j.HousingProvided, j.HousingDetails, j.TransportProvided, j.Bonuses,
		j.MinExperienceYears, j.LanguageRequired, j.DocumentsRequired, j.DrivingLicenseRequired,
		j.ShortDescription, j.FullDescription, j.Responsibilities, j.RequirementsText, j.BenefitsText,
		j.IsActive}
}

type PostgresRepository struct {
	db dbx.DBTX
}

func NewPostgresRepository(db dbx.DBTX) *PostgresRepository {
	return &PostgresRepository{db: db}
}

var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

// Search returns active jobs matching filter, newest first. Country is
// compared upper-cased, Query is a case-insensitive substring of the title
// or the short description.
func (r *PostgresRepository) Search(ctx context.Context, filter models.JobFilter) ([]models.Job, error) {
	var (
		where = []string{"is_active = TRUE"}
		args  []any
	)
	add := func(cond string, v any) {
		args = append(args, v)
		where = append(where, strings.ReplaceAll(cond, "?", fmt.Sprintf("$%d", len(args))))
	}

	if filter.Country != "" {
		add("country = ?", strings.ToUpper(filter.Country))
	}
	if filter.Category != "" {
		add("category = ?", filter.Category)
	}
	if filter.Query != "" {
		add("(title ILIKE ? OR short_description ILIKE ?)", "%"+likeEscaper.Replace(filter.Query)+"%")
	}

	limit := filter.Limit
	if limit <= 0 || limit > MaxSearchResults {
		limit = MaxSearchResults
	}
	args = append(args, limit)

	query := `SELECT ` + jobColumns + ` FROM jobs WHERE ` + strings.Join(where, " AND ") +
		fmt.Sprintf(` ORDER BY created_at DESC, id DESC LIMIT $%d`, len(args))

	return r.list(ctx, query, args...)
}

// GetActive returns the job only if it is active.
func (r *PostgresRepository) GetActive(ctx context.Context, id int64) (*models.Job, error) {
	return r.getOne(ctx, `SELECT `+jobColumns+` FROM jobs WHERE id = $1 AND is_active = TRUE`, id)
}

func (r *PostgresRepository) Get(ctx context.Context, id int64) (*models.Job, error) {
	return r.getOne(ctx, `SELECT `+jobColumns+` FROM jobs WHERE id = $1`, id)
}

func (r *PostgresRepository) List(ctx context.Context) ([]models.Job, error) {
	return r.list(ctx, `SELECT `+jobColumns+` FROM jobs ORDER BY created_at DESC, id DESC`)
}

func (r *PostgresRepository) Create(ctx context.Context, job *models.Job) (*models.Job, error) {
	query :=
		`INSERT INTO jobs (title, company_name, reference_code, country, city, workplace_address,
			category, employment_type, shift_type, salary_from, salary_to, currency, salary_type,
			is_net, housing_provided, housing_details, transport_provided, bonuses,
			min_experience_years, language_required, documents_required, driving_license_required,
			short_description, full_description, responsibilities, requirements_text, benefits_text,
			is_active)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14,
			$15, $16, $17, $18, $19, $20, $21, $22, $23, $24, $25, $26, $27, $28)
		 RETURNING id, created_at, updated_at`

	err := r.db.QueryRowContext(ctx, query, writableArgs(job)...).Scan(&job.ID, &job.CreatedAt, &job.UpdatedAt)
	if err != nil {
		if dbx.IsUniqueViolation(err, "") {
			return nil, fmt.Errorf("%w: %w", common.ErrorAlreadyExists, err)
		}
		return nil, fmt.Errorf("db error: %w", err)
	}
	return job, nil
}

// Update overwrites every writable column of job and bumps updated_at.
func (r *PostgresRepository) Update(ctx context.Context, job *models.Job) (*models.Job, error) {
	query :=
		`UPDATE jobs SET title = $1, company_name = $2, reference_code = $3, country = $4, city = $5,
			workplace_address = $6, category = $7, employment_type = $8, shift_type = $9,
			salary_from = $10, salary_to = $11, currency = $12, salary_type = $13,
			is_net = $14, housing_provided = $15, housing_details = $16, transport_provided = $17,
			bonuses = $18, min_experience_years = $19, language_required = $20,
			documents_required = $21, driving_license_required = $22, short_description = $23,
			full_description = $24, responsibilities = $25, requirements_text = $26,
			benefits_text = $27, is_active = $28, updated_at = now()
		 WHERE id = $29
		 RETURNING updated_at`

	args := append(writableArgs(job), job.ID)
	err := r.db.QueryRowContext(ctx, query, args...).Scan(&job.UpdatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, common.ErrorNotFound
		}
		if dbx.IsUniqueViolation(err, "") {
			return nil, fmt.Errorf("%w: %w", common.ErrorAlreadyExists, err)
		}
		return nil, fmt.Errorf("db error: %w", err)
	}
	return job, nil
}

func (r *PostgresRepository) getOne(ctx context.Context, query string, id int64) (*models.Job, error) {
	job, err := scanJob(r.db.QueryRowContext(ctx, query, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, common.ErrorNotFound
		}
		return nil, fmt.Errorf("db error: %w", err)
	}
	return job, nil
}

func (r *PostgresRepository) list(ctx context.Context, query string, args ...any) ([]models.Job, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	defer rows.Close()

	result := make([]models.Job, 0)
	for rows.Next() {
		j, err := scanJob(rows)
		if err != nil {
			return nil, fmt.Errorf("db error: %w", err)
		}
		result = append(result, *j)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	return result, nil
}
