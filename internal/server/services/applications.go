package services

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/dmitrijs2005/jobboard/internal/common"
	"github.com/dmitrijs2005/jobboard/internal/logging"
	"github.com/dmitrijs2005/jobboard/internal/server/models"
	"github.com/dmitrijs2005/jobboard/internal/server/repositories/repomanager"
)

type ApplicationService struct {
	db          *sql.DB
	repomanager repomanager.RepositoryManager
	log         logging.Logger
}

func NewApplicationService(db *sql.DB, m repomanager.RepositoryManager, log logging.Logger) *ApplicationService {
	return &ApplicationService{db: db, repomanager: m, log: log.With("module", "applications")}
}

// Apply records that the user applied for an active job. Applying twice
// yields common.ErrAlreadyApplied, also when two requests race past the
// pre-check.
func (s *ApplicationService) Apply(ctx context.Context, userID, jobID int64) (*models.Application, error) {
	if _, err := s.repomanager.Jobs(s.db).GetActive(ctx, jobID); err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			return nil, common.ErrJobNotFound
		}
		return nil, fmt.Errorf("error loading job: %w", err)
	}

	repo := s.repomanager.Applications(s.db)

	exists, err := repo.ExistsForUserJob(ctx, userID, jobID)
	if err != nil {
		return nil, fmt.Errorf("error checking application: %w", err)
	}
	if exists {
		return nil, common.ErrAlreadyApplied
	}

	app, err := repo.Create(ctx, &models.Application{
		UserID: userID,
		JobID:  jobID,
		Status: models.ApplicationStatusApplied,
	})
	if err != nil {
		if errors.Is(err, common.ErrorAlreadyExists) {
			return nil, common.ErrAlreadyApplied
		}
		return nil, fmt.Errorf("error creating application: %w", err)
	}

	s.log.Info(ctx, "application created", "user_id", userID, "job_id", jobID)
	return app, nil
}

// ListForUser returns the user's applications with job summaries, newest
// first.
func (s *ApplicationService) ListForUser(ctx context.Context, userID int64) ([]models.ApplicationWithJob, error) {
	list, err := s.repomanager.Applications(s.db).ListForUser(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("error listing applications: %w", err)
	}
	return list, nil
}
