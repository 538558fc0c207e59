// Package rest exposes the jobboard services over HTTP/JSON using gin.
package rest

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/rs/cors"

	"github.com/dmitrijs2005/jobboard/internal/logging"
	"github.com/dmitrijs2005/jobboard/internal/server/auth"
	"github.com/dmitrijs2005/jobboard/internal/server/config"
	"github.com/dmitrijs2005/jobboard/internal/server/models"
	"github.com/dmitrijs2005/jobboard/internal/server/services"
)

const shutdownTimeout = 10 * time.Second

type UserService interface {
	Register(ctx context.Context, r services.Registration) (*models.User, error)
	Login(ctx context.Context, email, password string) (*services.AccessToken, error)
}

type ProfileService interface {
	UpdateProfile(ctx context.Context, userID int64, p models.Profile) (*models.User, error)
	ListExperience(ctx context.Context, userID int64) ([]models.Experience, error)
	AddExperience(ctx context.Context, userID int64, text string) (*models.Experience, error)
	DeleteExperience(ctx context.Context, userID, id int64) error
	UploadResume(ctx context.Context, userID int64, f services.ResumeFile) (*models.User, error)
	ResumeLink(ctx context.Context, userID int64) (*services.ResumeLink, error)
	DeleteResume(ctx context.Context, userID int64) error
}

type JobService interface {
	Search(ctx context.Context, filter models.JobFilter, lang string) ([]models.Job, error)
	Get(ctx context.Context, id int64, lang string) (*models.Job, error)
	ListAll(ctx context.Context) ([]models.Job, error)
	Create(ctx context.Context, job *models.Job) (*models.Job, error)
	Update(ctx context.Context, id int64, apply func(*models.Job) error) (*models.Job, error)
	ListTranslations(ctx context.Context, jobID int64) ([]models.JobTranslation, error)
	UpsertTranslation(ctx context.Context, jobID int64, lang string,
		apply func(*models.JobTranslation) error) (*models.JobTranslation, error)
}

type ApplicationService interface {
	Apply(ctx context.Context, userID, jobID int64) (*models.Application, error)
	ListForUser(ctx context.Context, userID int64) ([]models.ApplicationWithJob, error)
}

type ContactService interface {
	Submit(ctx context.Context, email, message string) (*models.ContactMessage, error)
}

type AdminService interface {
	ListUsers(ctx context.Context) ([]models.User, error)
	GetUser(ctx context.Context, id int64) (*services.UserDetail, error)
	UpdateUser(ctx context.Context, id int64, upd models.AdminUserUpdate) (*models.User, error)
	DeleteUser(ctx context.Context, actorID, id int64) error
	ListUserApplications(ctx context.Context, id int64) ([]models.ApplicationWithJob, error)
}

// Services groups what the handlers call.
type Services struct {
	Users        UserService
	Profiles     ProfileService
	Jobs         JobService
	Applications ApplicationService
	Contacts     ContactService
	Admin        AdminService
}

type HTTPServer struct {
	address        string
	frontendOrigin string
	maxResume      int64
	services       Services
	requireUser    auth.Guard
	requireAdmin   auth.Guard
	limiter        *loginLimiter
	logger         logging.Logger
}

// NewHTTPServer builds the server. requireUser and requireAdmin protect the
// profile and admin routes respectively.
func NewHTTPServer(cfg *config.Config, l logging.Logger, svc Services, requireUser, requireAdmin auth.Guard) *HTTPServer {
	return &HTTPServer{
		address:        cfg.EndpointAddrHTTP,
		frontendOrigin: cfg.FrontendOrigin,
		maxResume:      cfg.ResumeMaxSize,
		services:       svc,
		requireUser:    requireUser,
		requireAdmin:   requireAdmin,
		limiter:        newLoginLimiter(cfg.LoginRateLimit, cfg.LoginRateBurst),
		logger:         l.With("module", "http_server"),
	}
}

// Handler returns the routed gin engine wrapped in CORS handling for the
// configured front-end origin.
func (s *HTTPServer) Handler() http.Handler {
	r := gin.New()
	r.Use(gin.Recovery(), s.requestLogger())
	s.routes(r)

	c := cors.New(cors.Options{
		AllowedOrigins:   []string{s.frontendOrigin},
		AllowedMethods:   []string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodPatch, http.MethodDelete},
		AllowedHeaders:   []string{"*"},
		AllowCredentials: true,
	})
	return c.Handler(r)
}

func (s *HTTPServer) Run(ctx context.Context) error {
	srv := &http.Server{
		Addr:              s.address,
		Handler:           s.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		<-ctx.Done()
		s.logger.Info(ctx, "Stopping HTTP server...")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			s.logger.Error(ctx, "shutdown error", "error", err)
		}
	}()

	s.logger.Info(ctx, "Starting HTTP server", "address", s.address)

	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

func (s *HTTPServer) routes(r *gin.Engine) {
	r.GET("/ping", s.ping)
	r.POST("/login", s.limitLogin, s.login)
	r.POST("/createUser", s.createUser)
	r.GET("/jobs", s.searchJobs)
	r.GET("/jobs/:id", s.getJob)
	r.POST("/email/add", s.addContact)

	user := r.Group("/", s.guard(s.requireUser))
	user.GET("/loadProfileData", s.loadProfile)
	user.GET("/loadUserMeta", s.loadProfile)
	user.PUT("/profile", s.updateProfile)
	user.GET("/profile/experience", s.listExperience)
	user.POST("/profile/experience", s.addExperience)
	user.DELETE("/profile/experience/:id", s.deleteExperience)
	user.POST("/profile/resume", s.uploadResume)
	user.GET("/profile/resume", s.resumeLink)
	user.DELETE("/profile/resume", s.deleteResume)
	user.POST("/applications", s.apply)
	user.GET("/applications/me", s.myApplications)

	admin := r.Group("/admin", s.guard(s.requireAdmin))
	admin.GET("/users", s.adminListUsers)
	admin.GET("/users/:id", s.adminGetUser)
	admin.PATCH("/users/:id", s.adminUpdateUser)
	admin.DELETE("/users/:id", s.adminDeleteUser)
	admin.GET("/users/:id/applications", s.adminUserApplications)
	admin.GET("/jobs", s.adminListJobs)
	admin.POST("/jobs", s.adminCreateJob)
	admin.PUT("/jobs/:id", s.adminUpdateJob)
	admin.GET("/jobs/:id/translations", s.adminListTranslations)
	admin.PUT("/jobs/:id/translations/:lang", s.adminUpsertTranslation)
}

func (s *HTTPServer) ping(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "OK"})
}
