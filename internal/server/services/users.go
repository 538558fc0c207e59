package services

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/dmitrijs2005/jobboard/internal/common"
	"github.com/dmitrijs2005/jobboard/internal/logging"
	"github.com/dmitrijs2005/jobboard/internal/server/auth"
	"github.com/dmitrijs2005/jobboard/internal/server/config"
	"github.com/dmitrijs2005/jobboard/internal/server/models"
	"github.com/dmitrijs2005/jobboard/internal/server/repositories/repomanager"
)

// AccessToken is the login response body.
type AccessToken struct {
	AccessToken string `json:"access_token"`
	TokenType   string `json:"token_type"`
}

// Registration is the input of UserService.Register.
type Registration struct {
	Email    string
	Password string
	Profile  models.Profile
}

// NormalizeEmail trims and lower-cases an address; every lookup and insert
// goes through it so that email uniqueness is case-insensitive.
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

type UserService struct {
	db                          *sql.DB
	repomanager                 repomanager.RepositoryManager
	hasher                      *auth.Hasher
	codec                       *auth.TokenCodec
	accessTokenValidityDuration time.Duration
	phoneRegion                 string
	log                         logging.Logger
}

func NewUserService(db *sql.DB, m repomanager.RepositoryManager, hasher *auth.Hasher, codec *auth.TokenCodec,
	cfg *config.Config, log logging.Logger) *UserService {
	return &UserService{
		db:                          db,
		repomanager:                 m,
		hasher:                      hasher,
		codec:                       codec,
		accessTokenValidityDuration: cfg.AccessTokenValidityDuration,
		phoneRegion:                 cfg.DefaultPhoneRegion,
		log:                         log.With("module", "users"),
	}
}

// Register creates a non-admin user. An address that is already taken,
// including one inserted concurrently between the lookup and the insert,
// yields common.ErrEmailAlreadyExists.
func (s *UserService) Register(ctx context.Context, r Registration) (*models.User, error) {
	email := NormalizeEmail(r.Email)
	repo := s.repomanager.Users(s.db)

	_, err := repo.GetByEmail(ctx, email)
	if err == nil {
		return nil, common.ErrEmailAlreadyExists
	}
	if !errors.Is(err, common.ErrorNotFound) {
		return nil, fmt.Errorf("error looking up user: %w", err)
	}

	profile := r.Profile
	if err := normalizeProfile(&profile, s.phoneRegion); err != nil {
		return nil, err
	}

	digest, err := s.hasher.Hash(r.Password)
	if err != nil {
		return nil, fmt.Errorf("error hashing password: %w", err)
	}

	user := &models.User{
		Email:        email,
		PasswordHash: digest,
		IsAdmin:      false,
		Profile:      profile,
	}

	user, err = repo.Create(ctx, user)
	if err != nil {
		if errors.Is(err, common.ErrorAlreadyExists) {
			return nil, common.ErrEmailAlreadyExists
		}
		return nil, fmt.Errorf("error creating user: %w", err)
	}

	s.log.Info(ctx, "user registered", "user_id", user.ID)
	return user, nil
}

// Login checks the credentials and issues an access token whose subject is
// the user id. The role claim is informational only.
func (s *UserService) Login(ctx context.Context, email, password string) (*AccessToken, error) {
	repo := s.repomanager.Users(s.db)

	user, err := repo.GetByEmail(ctx, NormalizeEmail(email))
	if err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			return nil, common.ErrAccountNotFound
		}
		return nil, fmt.Errorf("error looking up user: %w", err)
	}

	if !s.hasher.Verify(password, user.PasswordHash) {
		s.log.Debug(ctx, "password mismatch", "user_id", user.ID)
		return nil, common.ErrInvalidCredentials
	}

	role := auth.RoleUser
	if user.IsAdmin {
		role = auth.RoleAdmin
	}

	token, err := s.codec.Issue(auth.NewClaims(strconv.FormatInt(user.ID, 10), role), s.accessTokenValidityDuration)
	if err != nil {
		return nil, fmt.Errorf("error issuing token: %w", err)
	}

	return &AccessToken{AccessToken: token, TokenType: common.BearerScheme}, nil
}

// EnsureAdmin promotes the user with the given email to administrator, or
// creates one with password when no such user exists. It reports whether a
// new user was created. The password of an existing user is left unchanged.
func (s *UserService) EnsureAdmin(ctx context.Context, email, password string) (*models.User, bool, error) {
	email = NormalizeEmail(email)
	repo := s.repomanager.Users(s.db)

	user, err := repo.GetByEmail(ctx, email)
	switch {
	case err == nil:
		if user.IsAdmin {
			return user, false, nil
		}
		user.IsAdmin = true
		if err := repo.AdminUpdate(ctx, user); err != nil {
			return nil, false, fmt.Errorf("error promoting user: %w", err)
		}
		s.log.Info(ctx, "user promoted to admin", "user_id", user.ID)
		return user, false, nil

	case !errors.Is(err, common.ErrorNotFound):
		return nil, false, fmt.Errorf("error looking up user: %w", err)
	}

	digest, err := s.hasher.Hash(password)
	if err != nil {
		return nil, false, fmt.Errorf("error hashing password: %w", err)
	}

	user, err = repo.Create(ctx, &models.User{Email: email, PasswordHash: digest, IsAdmin: true})
	if err != nil {
		return nil, false, fmt.Errorf("error creating admin: %w", err)
	}

	s.log.Info(ctx, "admin created", "user_id", user.ID)
	return user, true, nil
}
