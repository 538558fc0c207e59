package services

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/dmitrijs2005/jobboard/internal/common"
	"github.com/dmitrijs2005/jobboard/internal/logging"
	"github.com/dmitrijs2005/jobboard/internal/server/config"
	"github.com/dmitrijs2005/jobboard/internal/server/models"
	"github.com/dmitrijs2005/jobboard/internal/server/repositories/repomanager"
	"github.com/dmitrijs2005/jobboard/internal/server/storage"
	"github.com/dmitrijs2005/jobboard/internal/server/validation"
)

// normalizeProfile trims the free-text "about" field (blank becomes nil)
// and rewrites a non-empty phone number to E.164.
func normalizeProfile(p *models.Profile, region string) error {
	if p.About != nil {
		about := strings.TrimSpace(*p.About)
		if about == "" {
			p.About = nil
		} else {
			p.About = &about
		}
	}

	if p.Phone != nil {
		raw := strings.TrimSpace(*p.Phone)
		if raw == "" {
			p.Phone = nil
			return nil
		}
		phone, err := validation.NormalizePhone(raw, region)
		if err != nil {
			return validation.Invalid(fmt.Errorf("userPhoneNumber: %w", err))
		}
		p.Phone = &phone
	}
	return nil
}

// ResumeFile is an uploaded resume.
type ResumeFile struct {
	Filename    string
	ContentType string
	Size        int64
	Body        io.Reader
}

// ResumeLink is a time-limited download link for a resume.
type ResumeLink struct {
	URL       string    `json:"url"`
	Filename  string    `json:"filename"`
	ExpiresAt time.Time `json:"expires_at"`
}

// ProfileService serves the self-service part of a user's account:
// profile fields, work experience and the resume.
type ProfileService struct {
	db          *sql.DB
	repomanager repomanager.RepositoryManager
	store       storage.ObjectStore
	phoneRegion string
	maxResume   int64
	resumeTTL   time.Duration
	now         func() time.Time
	log         logging.Logger
}

func NewProfileService(db *sql.DB, m repomanager.RepositoryManager, store storage.ObjectStore,
	cfg *config.Config, log logging.Logger) *ProfileService {
	return &ProfileService{
		db:          db,
		repomanager: m,
		store:       store,
		phoneRegion: cfg.DefaultPhoneRegion,
		maxResume:   cfg.ResumeMaxSize,
		resumeTTL:   cfg.ResumeURLValidityDuration,
		now:         time.Now,
		log:         log.With("module", "profile"),
	}
}

func (s *ProfileService) getUser(ctx context.Context, userID int64) (*models.User, error) {
	user, err := s.repomanager.Users(s.db).GetByID(ctx, userID)
	if err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			return nil, common.ErrUserNotFound
		}
		return nil, fmt.Errorf("error loading user: %w", err)
	}
	return user, nil
}

// UpdateProfile replaces every profile field of the user with p.
func (s *ProfileService) UpdateProfile(ctx context.Context, userID int64, p models.Profile) (*models.User, error) {
	if err := normalizeProfile(&p, s.phoneRegion); err != nil {
		return nil, err
	}

	err := s.repomanager.Users(s.db).Update(ctx, &models.User{ID: userID, Profile: p})
	if err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			return nil, common.ErrUserNotFound
		}
		return nil, fmt.Errorf("error updating profile: %w", err)
	}
	return s.getUser(ctx, userID)
}

func (s *ProfileService) ListExperience(ctx context.Context, userID int64) ([]models.Experience, error) {
	items, err := s.repomanager.Experiences(s.db).ListByUser(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("error listing experience: %w", err)
	}
	return items, nil
}

// AddExperience stores a trimmed, non-empty experience entry.
func (s *ProfileService) AddExperience(ctx context.Context, userID int64, text string) (*models.Experience, error) {
	text = strings.TrimSpace(text)
	if text == "" {
		return nil, validation.Invalid(errors.New("userExperience: cannot be blank"))
	}

	e, err := s.repomanager.Experiences(s.db).Create(ctx, &models.Experience{UserID: userID, Text: text})
	if err != nil {
		return nil, fmt.Errorf("error adding experience: %w", err)
	}
	return e, nil
}

// DeleteExperience removes an entry owned by the user. Entries of other
// users are reported as missing.
func (s *ProfileService) DeleteExperience(ctx context.Context, userID, id int64) error {
	err := s.repomanager.Experiences(s.db).DeleteForUser(ctx, id, userID)
	if err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			return common.ErrExperienceNotFound
		}
		return fmt.Errorf("error deleting experience: %w", err)
	}
	return nil
}

// UploadResume stores f under a fresh key and attaches it to the user. The
// previous resume object, if any, is removed afterwards; failing to remove
// it is only logged.
func (s *ProfileService) UploadResume(ctx context.Context, userID int64, f ResumeFile) (*models.User, error) {
	if f.Size <= 0 {
		return nil, validation.Invalid(errors.New("file: is required"))
	}
	if f.Size > s.maxResume {
		return nil, common.ErrResumeTooLarge
	}

	user, err := s.getUser(ctx, userID)
	if err != nil {
		return nil, err
	}
	previous := user.ResumeKey

	key := storage.NewResumeKey(s.now().UTC())
	if err := s.store.Put(ctx, key, f.Body, f.Size, f.ContentType); err != nil {
		return nil, fmt.Errorf("error storing resume: %w", err)
	}

	filename := f.Filename
	if err := s.repomanager.Users(s.db).SetResume(ctx, userID, &key, &filename); err != nil {
		s.removeObject(ctx, key)
		return nil, fmt.Errorf("error saving resume: %w", err)
	}

	if previous != nil && *previous != "" {
		s.removeObject(ctx, *previous)
	}

	user.ResumeKey, user.ResumeFilename = &key, &filename
	s.log.Info(ctx, "resume uploaded", "user_id", userID, "key", key, "size", f.Size)
	return user, nil
}

// ResumeLink returns a presigned download URL for the user's resume.
func (s *ProfileService) ResumeLink(ctx context.Context, userID int64) (*ResumeLink, error) {
	user, err := s.getUser(ctx, userID)
	if err != nil {
		return nil, err
	}
	if !user.HasResume() {
		return nil, common.ErrNoResume
	}

	filename := ""
	if user.ResumeFilename != nil {
		filename = *user.ResumeFilename
	}

	expires := s.now().Add(s.resumeTTL)
	url, err := s.store.PresignGet(ctx, *user.ResumeKey, s.resumeTTL, filename)
	if err != nil {
		return nil, fmt.Errorf("error presigning resume: %w", err)
	}
	return &ResumeLink{URL: url, Filename: filename, ExpiresAt: expires}, nil
}

// DeleteResume detaches the resume and removes its object.
func (s *ProfileService) DeleteResume(ctx context.Context, userID int64) error {
	user, err := s.getUser(ctx, userID)
	if err != nil {
		return err
	}
	if !user.HasResume() {
		return common.ErrNoResume
	}

	if err := s.repomanager.Users(s.db).SetResume(ctx, userID, nil, nil); err != nil {
		return fmt.Errorf("error clearing resume: %w", err)
	}
	s.removeObject(ctx, *user.ResumeKey)
	return nil
}

func (s *ProfileService) removeObject(ctx context.Context, key string) {
	if err := s.store.Delete(ctx, key); err != nil {
		s.log.Warn(ctx, "could not remove resume object", "key", key, "error", err)
	}
}
