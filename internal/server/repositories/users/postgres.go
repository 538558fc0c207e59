package users

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/dmitrijs2005/jobboard/internal/common"
	"github.com/dmitrijs2005/jobboard/internal/dbx"
	"github.com/dmitrijs2005/jobboard/internal/server/models"
)

const userColumns = `id, email, password_hash, is_admin,
	name, surname, gender, age, phone, citizenship, employment_status,
	preferred_job, second_preferred_job, preferred_job_location, second_preferred_job_location,
	about, resume_key, resume_filename, created_at`

type rowScanner interface {
	Scan(dest ...any) error
}

func scanUser(row rowScanner) (*models.User, error) {
	u := &models.User{}
	p := &u.Profile
	err := row.Scan(&u.ID, &u.Email, &u.PasswordHash, &u.IsAdmin,
		&p.Name, &p.Surname, &p.Gender, &p.Age, &p.Phone, &p.Citizenship, &p.EmploymentStatus,
		&p.PreferredJob, &p.SecondPreferredJob, &p.PreferredJobLocation, &p.SecondPreferredJobLocation,
		&p.About, &u.ResumeKey, &u.ResumeFilename, &u.CreatedAt)
	if err != nil {
		return nil, err
	}
	return u, nil
}

type PostgresRepository struct {
	db dbx.DBTX
}

func NewPostgresRepository(db dbx.DBTX) *PostgresRepository {
	return &PostgresRepository{db: db}
}

// Create inserts user and fills in its id and creation time. A duplicate
// email yields an error wrapping common.ErrorAlreadyExists.
func (r *PostgresRepository) Create(ctx context.Context, user *models.User) (*models.User, error) {

	query :=
		`INSERT INTO users (email, password_hash, is_admin,
			name, surname, gender, age, phone, citizenship, employment_status,
			preferred_job, second_preferred_job, preferred_job_location, second_preferred_job_location, about)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15)
		 RETURNING id, created_at`

	p := user.Profile
	err := r.db.QueryRowContext(ctx, query,
		user.Email, user.PasswordHash, user.IsAdmin,
		p.Name, p.Surname, p.Gender, p.Age, p.Phone, p.Citizenship, p.EmploymentStatus,
		p.PreferredJob, p.SecondPreferredJob, p.PreferredJobLocation, p.SecondPreferredJobLocation, p.About,
	).Scan(&user.ID, &user.CreatedAt)

	if err != nil {
		if dbx.IsUniqueViolation(err, EmailConstraint) {
			return nil, fmt.Errorf("%w: %w", common.ErrorAlreadyExists, err)
		}
		return nil, fmt.Errorf("db error: %w", err)
	}

	return user, nil
}

func (r *PostgresRepository) GetByEmail(ctx context.Context, email string) (*models.User, error) {
	query := `SELECT ` + userColumns + ` FROM users WHERE email = $1`
	return r.getOne(ctx, query, email)
}

func (r *PostgresRepository) GetByID(ctx context.Context, id int64) (*models.User, error) {
	query := `SELECT ` + userColumns + ` FROM users WHERE id = $1`
	return r.getOne(ctx, query, id)
}

func (r *PostgresRepository) getOne(ctx context.Context, query string, arg any) (*models.User, error) {
	user, err := scanUser(r.db.QueryRowContext(ctx, query, arg))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, common.ErrorNotFound
		}
		return nil, fmt.Errorf("db error: %w", err)
	}
	return user, nil
}

// Update writes the self-service profile fields of user.
func (r *PostgresRepository) Update(ctx context.Context, user *models.User) error {
	query :=
		`UPDATE users SET name = $2, surname = $3, gender = $4, age = $5, phone = $6,
			citizenship = $7, employment_status = $8, preferred_job = $9, second_preferred_job = $10,
			preferred_job_location = $11, second_preferred_job_location = $12, about = $13
		 WHERE id = $1`

	p := user.Profile
	res, err := r.db.ExecContext(ctx, query, user.ID,
		p.Name, p.Surname, p.Gender, p.Age, p.Phone,
		p.Citizenship, p.EmploymentStatus, p.PreferredJob, p.SecondPreferredJob,
		p.PreferredJobLocation, p.SecondPreferredJobLocation, p.About)
	return affectedOne(res, err)
}

// AdminUpdate writes the fields an administrator may change, including
// the administrator flag.
func (r *PostgresRepository) AdminUpdate(ctx context.Context, user *models.User) error {
	query :=
		`UPDATE users SET name = $2, surname = $3, phone = $4, citizenship = $5,
			employment_status = $6, is_admin = $7
		 WHERE id = $1`

	p := user.Profile
	res, err := r.db.ExecContext(ctx, query, user.ID,
		p.Name, p.Surname, p.Phone, p.Citizenship, p.EmploymentStatus, user.IsAdmin)
	return affectedOne(res, err)
}

// SetResume attaches (or with nil arguments detaches) a resume object.
func (r *PostgresRepository) SetResume(ctx context.Context, id int64, key, filename *string) error {
	query := `UPDATE users SET resume_key = $2, resume_filename = $3 WHERE id = $1`

	res, err := r.db.ExecContext(ctx, query, id, key, filename)
	return affectedOne(res, err)
}

func (r *PostgresRepository) List(ctx context.Context) ([]models.User, error) {
	query := `SELECT ` + userColumns + ` FROM users ORDER BY id`

	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	defer rows.Close()

	result := make([]models.User, 0)
	for rows.Next() {
		u, err := scanUser(rows)
		if err != nil {
			return nil, fmt.Errorf("db error: %w", err)
		}
		result = append(result, *u)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	return result, nil
}

// Delete removes the user; experiences and applications go with it via
// ON DELETE CASCADE.
func (r *PostgresRepository) Delete(ctx context.Context, id int64) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM users WHERE id = $1`, id)
	return affectedOne(res, err)
}

func affectedOne(res sql.Result, err error) error {
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
