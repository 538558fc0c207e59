package services

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	validation "github.com/go-ozzo/ozzo-validation"

	"github.com/dmitrijs2005/jobboard/internal/common"
	"github.com/dmitrijs2005/jobboard/internal/dbx"
	"github.com/dmitrijs2005/jobboard/internal/logging"
	"github.com/dmitrijs2005/jobboard/internal/server/models"
	"github.com/dmitrijs2005/jobboard/internal/server/repositories/jobs"
	"github.com/dmitrijs2005/jobboard/internal/server/repositories/repomanager"
	v "github.com/dmitrijs2005/jobboard/internal/server/validation"
)

// ResolveLanguage lower-cases lang and falls back to common.DefaultLanguage
// for empty or unsupported codes.
func ResolveLanguage(lang string) string {
	lang = strings.ToLower(strings.TrimSpace(lang))
	if _, ok := common.SupportedLanguages[lang]; !ok {
		return common.DefaultLanguage
	}
	return lang
}

// validateJob checks the fields an administrator must supply and
// upper-cases the country code.
func validateJob(j *models.Job) error {
	j.Title = strings.TrimSpace(j.Title)
	j.Country = strings.ToUpper(strings.TrimSpace(j.Country))

	err := validation.Errors{
		"title":   validation.Validate(j.Title, validation.Required, validation.Length(1, 255)),
		"country": validation.Validate(j.Country, validation.Required, v.CountryCode),
	}.Filter()
	return v.Invalid(err)
}

// JobService lists jobs for the public and manages them for administrators.
type JobService struct {
	db          *sql.DB
	repomanager repomanager.RepositoryManager
	log         logging.Logger
}

func NewJobService(db *sql.DB, m repomanager.RepositoryManager, log logging.Logger) *JobService {
	return &JobService{db: db, repomanager: m, log: log.With("module", "jobs")}
}

// Search returns active jobs matching filter, localized to lang.
func (s *JobService) Search(ctx context.Context, filter models.JobFilter, lang string) ([]models.Job, error) {
	filter.Limit = jobs.MaxSearchResults

	list, err := s.repomanager.Jobs(s.db).Search(ctx, filter)
	if err != nil {
		return nil, fmt.Errorf("error searching jobs: %w", err)
	}
	return s.localize(ctx, list, ResolveLanguage(lang))
}

// Get returns an active job localized to lang.
func (s *JobService) Get(ctx context.Context, id int64, lang string) (*models.Job, error) {
	job, err := s.repomanager.Jobs(s.db).GetActive(ctx, id)
	if err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			return nil, common.ErrJobNotFound
		}
		return nil, fmt.Errorf("error loading job: %w", err)
	}

	list, err := s.localize(ctx, []models.Job{*job}, ResolveLanguage(lang))
	if err != nil {
		return nil, err
	}
	return &list[0], nil
}

// localize overlays the translations for lang with a single query.
func (s *JobService) localize(ctx context.Context, list []models.Job, lang string) ([]models.Job, error) {
	if len(list) == 0 {
		return list, nil
	}

	ids := make([]int64, len(list))
	for i, j := range list {
		ids[i] = j.ID
	}

	trs, err := s.repomanager.Translations(s.db).ListForJobs(ctx, lang, ids)
	if err != nil {
		return nil, fmt.Errorf("error loading translations: %w", err)
	}

	out := make([]models.Job, len(list))
	for i, j := range list {
		out[i] = j.Localize(trs[j.ID])
	}
	return out, nil
}

// ListAll returns every job, active or not, newest first.
func (s *JobService) ListAll(ctx context.Context) ([]models.Job, error) {
	list, err := s.repomanager.Jobs(s.db).List(ctx)
	if err != nil {
		return nil, fmt.Errorf("error listing jobs: %w", err)
	}
	return list, nil
}

func (s *JobService) Create(ctx context.Context, job *models.Job) (*models.Job, error) {
	if err := validateJob(job); err != nil {
		return nil, err
	}

	job, err := s.repomanager.Jobs(s.db).Create(ctx, job)
	if err != nil {
		if errors.Is(err, common.ErrorAlreadyExists) {
			return nil, v.Invalid(errors.New("reference_code: already in use"))
		}
		return nil, fmt.Errorf("error creating job: %w", err)
	}

	s.log.Info(ctx, "job created", "job_id", job.ID)
	return job, nil
}

// Update loads the job, lets apply change it and saves the result, all in
// one transaction. apply receives the stored job; fields it leaves alone
// keep their values.
func (s *JobService) Update(ctx context.Context, id int64, apply func(*models.Job) error) (*models.Job, error) {
	var job *models.Job

	err := dbx.WithTx(ctx, s.db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		repo := s.repomanager.Jobs(tx)

		current, err := repo.Get(ctx, id)
		if err != nil {
			return err
		}
		if err := apply(current); err != nil {
			return v.Invalid(err)
		}
		current.ID = id
		if err := validateJob(current); err != nil {
			return err
		}

		job, err = repo.Update(ctx, current)
		return err
	})

	switch {
	case err == nil:
		s.log.Info(ctx, "job updated", "job_id", id)
		return job, nil
	case errors.Is(err, common.ErrorValidation):
		return nil, err
	case errors.Is(err, common.ErrorNotFound):
		return nil, common.ErrJobNotFound
	case errors.Is(err, common.ErrorAlreadyExists):
		return nil, v.Invalid(errors.New("reference_code: already in use"))
	default:
		return nil, fmt.Errorf("error updating job: %w", err)
	}
}

func (s *JobService) ensureJob(ctx context.Context, db dbx.DBTX, id int64) error {
	if _, err := s.repomanager.Jobs(db).Get(ctx, id); err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			return common.ErrJobNotFound
		}
		return fmt.Errorf("error loading job: %w", err)
	}
	return nil
}

// ListTranslations returns all translations of a job.
func (s *JobService) ListTranslations(ctx context.Context, jobID int64) ([]models.JobTranslation, error) {
	if err := s.ensureJob(ctx, s.db, jobID); err != nil {
		return nil, err
	}

	list, err := s.repomanager.Translations(s.db).ListByJob(ctx, jobID)
	if err != nil {
		return nil, fmt.Errorf("error listing translations: %w", err)
	}
	return list, nil
}

// UpsertTranslation creates or changes the translation of a job into lang.
// apply receives the stored translation (or an empty one) so that fields
// absent from the request are kept.
func (s *JobService) UpsertTranslation(ctx context.Context, jobID int64, lang string,
	apply func(*models.JobTranslation) error) (*models.JobTranslation, error) {

	lang = strings.ToLower(strings.TrimSpace(lang))
	if err := v.Value("lang_code", lang, validation.Required, v.LanguageCode); err != nil {
		return nil, err
	}

	var result *models.JobTranslation
	err := dbx.WithTx(ctx, s.db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		if err := s.ensureJob(ctx, tx, jobID); err != nil {
			return err
		}

		repo := s.repomanager.Translations(tx)
		existing, err := repo.ListForJobs(ctx, lang, []int64{jobID})
		if err != nil {
			return fmt.Errorf("error loading translation: %w", err)
		}

		tr := existing[jobID]
		if tr == nil {
			tr = &models.JobTranslation{}
		}
		if err := apply(tr); err != nil {
			return v.Invalid(err)
		}
		tr.JobID, tr.LangCode = jobID, lang

		result, err = repo.Upsert(ctx, tr)
		return err
	})
	if err != nil {
		return nil, err
	}

	s.log.Info(ctx, "job translation saved", "job_id", jobID, "lang", lang)
	return result, nil
}
