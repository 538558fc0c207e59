package services

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/dmitrijs2005/jobboard/internal/common"
	"github.com/dmitrijs2005/jobboard/internal/dbx"
	"github.com/dmitrijs2005/jobboard/internal/logging"
	"github.com/dmitrijs2005/jobboard/internal/server/config"
	"github.com/dmitrijs2005/jobboard/internal/server/models"
	"github.com/dmitrijs2005/jobboard/internal/server/repositories/repomanager"
	"github.com/dmitrijs2005/jobboard/internal/server/storage"
	"github.com/dmitrijs2005/jobboard/internal/server/validation"
)

// UserDetail is a user as seen by an administrator.
type UserDetail struct {
	User              *models.User
	Experiences       []models.Experience
	ApplicationsCount int
}

// AdminService implements user management for administrators.
type AdminService struct {
	db          *sql.DB
	repomanager repomanager.RepositoryManager
	store       storage.ObjectStore
	phoneRegion string
	log         logging.Logger
}

func NewAdminService(db *sql.DB, m repomanager.RepositoryManager, store storage.ObjectStore,
	cfg *config.Config, log logging.Logger) *AdminService {
	return &AdminService{
		db:          db,
		repomanager: m,
		store:       store,
		phoneRegion: cfg.DefaultPhoneRegion,
		log:         log.With("module", "admin"),
	}
}

func (s *AdminService) ListUsers(ctx context.Context) ([]models.User, error) {
	list, err := s.repomanager.Users(s.db).List(ctx)
	if err != nil {
		return nil, fmt.Errorf("error listing users: %w", err)
	}
	return list, nil
}

func (s *AdminService) getUser(ctx context.Context, db dbx.DBTX, id int64) (*models.User, error) {
	user, err := s.repomanager.Users(db).GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			return nil, common.ErrUserNotFound
		}
		return nil, fmt.Errorf("error loading user: %w", err)
	}
	return user, nil
}

// GetUser returns the user with experience entries and the number of
// applications.
func (s *AdminService) GetUser(ctx context.Context, id int64) (*UserDetail, error) {
	user, err := s.getUser(ctx, s.db, id)
	if err != nil {
		return nil, err
	}

	exps, err := s.repomanager.Experiences(s.db).ListByUser(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("error listing experience: %w", err)
	}

	n, err := s.repomanager.Applications(s.db).CountForUser(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("error counting applications: %w", err)
	}

	return &UserDetail{User: user, Experiences: exps, ApplicationsCount: n}, nil
}

// UpdateUser applies a partial update, including the administrator flag.
// The change is visible to the next request of that user.
func (s *AdminService) UpdateUser(ctx context.Context, id int64, upd models.AdminUserUpdate) (*models.User, error) {
	if upd.Phone != nil {
		p := models.Profile{Phone: upd.Phone}
		if err := normalizeProfile(&p, s.phoneRegion); err != nil {
			return nil, err
		}
		upd.Phone = p.Phone
	}

	var user *models.User
	err := dbx.WithTx(ctx, s.db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		var err error
		user, err = s.getUser(ctx, tx, id)
		if err != nil {
			return err
		}
		upd.Apply(user)
		return s.repomanager.Users(tx).AdminUpdate(ctx, user)
	})
	if err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			return nil, common.ErrUserNotFound
		}
		return nil, fmt.Errorf("error updating user: %w", err)
	}

	if upd.IsAdmin != nil {
		s.log.Info(ctx, "user role changed", "user_id", id, "is_admin", *upd.IsAdmin)
	}
	return user, nil
}

// DeleteUser removes a user together with their experience entries and
// applications. actorID is the administrator performing the deletion, who
// cannot delete themselves. The resume object is removed best-effort after
// the rows are gone.
func (s *AdminService) DeleteUser(ctx context.Context, actorID, id int64) error {
	if actorID == id {
		return validation.Invalid(errors.New("cannot delete your own account"))
	}

	var user *models.User
	err := dbx.WithTx(ctx, s.db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		var err error
		user, err = s.getUser(ctx, tx, id)
		if err != nil {
			return err
		}
		return s.repomanager.Users(tx).Delete(ctx, id)
	})
	if err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			return common.ErrUserNotFound
		}
		return fmt.Errorf("error deleting user: %w", err)
	}

	if user.HasResume() {
		if err := s.store.Delete(ctx, *user.ResumeKey); err != nil {
			s.log.Warn(ctx, "could not remove resume object", "key", *user.ResumeKey, "error", err)
		}
	}

	s.log.Info(ctx, "user deleted", "user_id", id, "by", actorID)
	return nil
}

// ListUserApplications returns the applications of a user, newest first.
func (s *AdminService) ListUserApplications(ctx context.Context, id int64) ([]models.ApplicationWithJob, error) {
	if _, err := s.getUser(ctx, s.db, id); err != nil {
		return nil, err
	}

	list, err := s.repomanager.Applications(s.db).ListForUser(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("error listing applications: %w", err)
	}
	return list, nil
}
