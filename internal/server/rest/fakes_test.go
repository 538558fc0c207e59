package rest

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"

	"github.com/dmitrijs2005/jobboard/internal/common"
	"github.com/dmitrijs2005/jobboard/internal/logging"
	"github.com/dmitrijs2005/jobboard/internal/server/auth"
	"github.com/dmitrijs2005/jobboard/internal/server/config"
	"github.com/dmitrijs2005/jobboard/internal/server/models"
	"github.com/dmitrijs2005/jobboard/internal/server/services"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func ptr[T any](v T) *T { return &v }

var (
	testUser  = &models.User{ID: 7, Email: "anna@example.com", Profile: models.Profile{Name: ptr("Anna")}}
	testAdmin = &models.User{ID: 1, Email: "root@example.com", IsAdmin: true}
)

// fakeGuard accepts the tokens "user" and "admin"; "broken" simulates a
// store outage.
func fakeGuard(_ context.Context, token string) (*auth.Principal, error) {
	switch token {
	case "user":
		return &auth.Principal{User: testUser}, nil
	case "admin":
		return &auth.Principal{User: testAdmin}, nil
	case "broken":
		return nil, errors.New("connection refused")
	default:
		return nil, common.ErrUnauthenticated
	}
}

type fakeUsers struct {
	register func(services.Registration) (*models.User, error)
	login    func(email, password string) (*services.AccessToken, error)
}

func (f *fakeUsers) Register(_ context.Context, r services.Registration) (*models.User, error) {
	return f.register(r)
}

func (f *fakeUsers) Login(_ context.Context, email, password string) (*services.AccessToken, error) {
	return f.login(email, password)
}

type fakeProfiles struct {
	updated     *models.Profile
	uploaded    *services.ResumeFile
	uploadedRaw []byte
	deleteErr   error
	linkErr     error
}

func (f *fakeProfiles) UpdateProfile(_ context.Context, userID int64, p models.Profile) (*models.User, error) {
	f.updated = &p
	return &models.User{ID: userID, Email: "anna@example.com", Profile: p}, nil
}

func (f *fakeProfiles) ListExperience(_ context.Context, userID int64) ([]models.Experience, error) {
	return []models.Experience{{ID: 1, UserID: userID, Text: "Welder"}}, nil
}

func (f *fakeProfiles) AddExperience(_ context.Context, userID int64, text string) (*models.Experience, error) {
	return &models.Experience{ID: 2, UserID: userID, Text: text}, nil
}

func (f *fakeProfiles) DeleteExperience(_ context.Context, _, _ int64) error {
	return f.deleteErr
}

func (f *fakeProfiles) UploadResume(_ context.Context, userID int64, r services.ResumeFile) (*models.User, error) {
	raw, err := io.ReadAll(r.Body)
	if err != nil {
		return nil, err
	}
	f.uploaded, f.uploadedRaw = &r, raw
	key := "resumes/2026/10/16/x"
	return &models.User{ID: userID, Email: "anna@example.com", ResumeKey: &key, ResumeFilename: &r.Filename}, nil
}

func (f *fakeProfiles) ResumeLink(context.Context, int64) (*services.ResumeLink, error) {
	if f.linkErr != nil {
		return nil, f.linkErr
	}
	return &services.ResumeLink{URL: "https://storage.test/x", Filename: "cv.pdf"}, nil
}

func (f *fakeProfiles) DeleteResume(context.Context, int64) error {
	return f.linkErr
}

type fakeJobs struct {
	filter   models.JobFilter
	lang     string
	stored   models.Job
	storedTr models.JobTranslation
	trLang   string
}

func (f *fakeJobs) Search(_ context.Context, filter models.JobFilter, lang string) ([]models.Job, error) {
	f.filter, f.lang = filter, lang
	return []models.Job{{ID: 1, Title: "Welder", Country: "DE", IsActive: true}}, nil
}

func (f *fakeJobs) Get(_ context.Context, id int64, lang string) (*models.Job, error) {
	f.lang = lang
	if id != 1 {
		return nil, common.ErrJobNotFound
	}
	return &models.Job{ID: 1, Title: "Welder", Country: "DE", IsActive: true}, nil
}

func (f *fakeJobs) ListAll(context.Context) ([]models.Job, error) {
	return []models.Job{}, nil
}

func (f *fakeJobs) Create(_ context.Context, j *models.Job) (*models.Job, error) {
	if j.Title == "" {
		return nil, errors.Join(common.ErrorValidation, errors.New("title: cannot be blank"))
	}
	j.ID = 10
	f.stored = *j
	return j, nil
}

func (f *fakeJobs) Update(_ context.Context, id int64, apply func(*models.Job) error) (*models.Job, error) {
	if id != f.stored.ID {
		return nil, common.ErrJobNotFound
	}
	j := f.stored
	if err := apply(&j); err != nil {
		return nil, errors.Join(common.ErrorValidation, err)
	}
	j.ID = id
	f.stored = j
	return &j, nil
}

func (f *fakeJobs) ListTranslations(context.Context, int64) ([]models.JobTranslation, error) {
	return []models.JobTranslation{f.storedTr}, nil
}

func (f *fakeJobs) UpsertTranslation(_ context.Context, jobID int64, lang string,
	apply func(*models.JobTranslation) error) (*models.JobTranslation, error) {
	tr := f.storedTr
	if err := apply(&tr); err != nil {
		return nil, errors.Join(common.ErrorValidation, err)
	}
	tr.JobID, f.trLang = jobID, lang
	f.storedTr = tr
	return &tr, nil
}

type fakeApplications struct {
	applied map[int64]bool
}

func (f *fakeApplications) Apply(_ context.Context, userID, jobID int64) (*models.Application, error) {
	if f.applied[jobID] {
		return nil, common.ErrAlreadyApplied
	}
	f.applied[jobID] = true
	return &models.Application{ID: 3, UserID: userID, JobID: jobID, Status: models.ApplicationStatusApplied}, nil
}

func (f *fakeApplications) ListForUser(context.Context, int64) ([]models.ApplicationWithJob, error) {
	return []models.ApplicationWithJob{{ID: 3, Status: "applied", Job: models.JobSummary{ID: 1, Title: "Welder", Country: "DE"}}}, nil
}

type fakeContacts struct{}

func (fakeContacts) Submit(_ context.Context, email, message string) (*models.ContactMessage, error) {
	if email == "" {
		return nil, errors.Join(common.ErrorValidation, errors.New("userEmail: cannot be blank"))
	}
	return &models.ContactMessage{ID: 5, Email: email, Message: message}, nil
}

type fakeAdmin struct {
	upd          models.AdminUserUpdate
	deletedBy    int64
	deletedID    int64
	deleteResult error
}

func (f *fakeAdmin) ListUsers(context.Context) ([]models.User, error) {
	return []models.User{*testAdmin, *testUser}, nil
}

func (f *fakeAdmin) GetUser(_ context.Context, id int64) (*services.UserDetail, error) {
	if id != testUser.ID {
		return nil, common.ErrUserNotFound
	}
	return &services.UserDetail{
		User:              testUser,
		Experiences:       []models.Experience{{ID: 1, UserID: 7, Text: "Welder"}},
		ApplicationsCount: 2,
	}, nil
}

func (f *fakeAdmin) UpdateUser(_ context.Context, id int64, upd models.AdminUserUpdate) (*models.User, error) {
	f.upd = upd
	u := *testUser
	u.ID = id
	upd.Apply(&u)
	return &u, nil
}

func (f *fakeAdmin) DeleteUser(_ context.Context, actorID, id int64) error {
	f.deletedBy, f.deletedID = actorID, id
	return f.deleteResult
}

func (f *fakeAdmin) ListUserApplications(context.Context, int64) ([]models.ApplicationWithJob, error) {
	return []models.ApplicationWithJob{{ID: 3, Status: "applied", Job: models.JobSummary{ID: 1, Title: "Welder", Country: "DE"}}}, nil
}

type fixture struct {
	handler  http.Handler
	users    *fakeUsers
	profiles *fakeProfiles
	jobs     *fakeJobs
	apps     *fakeApplications
	admin    *fakeAdmin
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	cfg := &config.Config{}
	cfg.LoadDefaults()
	cfg.ResumeMaxSize = 1024
	cfg.LoginRateBurst = 3

	f := &fixture{
		users: &fakeUsers{
			register: func(r services.Registration) (*models.User, error) {
				return &models.User{ID: 9, Email: r.Email, Profile: r.Profile}, nil
			},
			login: func(string, string) (*services.AccessToken, error) {
				return &services.AccessToken{AccessToken: "tok", TokenType: "bearer"}, nil
			},
		},
		profiles: &fakeProfiles{},
		jobs:     &fakeJobs{},
		apps:     &fakeApplications{applied: map[int64]bool{}},
		admin:    &fakeAdmin{},
	}

	s := NewHTTPServer(cfg, logging.Nop{}, Services{
		Users:        f.users,
		Profiles:     f.profiles,
		Jobs:         f.jobs,
		Applications: f.apps,
		Contacts:     fakeContacts{},
		Admin:        f.admin,
	}, fakeGuard, auth.RequireAdmin(fakeGuard))
	f.handler = s.Handler()
	return f
}

// do sends a request with an optional JSON body and bearer token.
func (f *fixture) do(t *testing.T, method, path, token string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var r io.Reader
	switch b := body.(type) {
	case nil:
	case string:
		r = bytes.NewBufferString(b)
	default:
		raw, err := json.Marshal(b)
		require.NoError(t, err)
		r = bytes.NewBuffer(raw)
	}

	req := httptest.NewRequest(method, path, r)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	return f.send(req)
}

func (f *fixture) send(req *http.Request) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	f.handler.ServeHTTP(w, req)
	return w
}

func decode[T any](t *testing.T, w *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &v), w.Body.String())
	return v
}

func detail(t *testing.T, w *httptest.ResponseRecorder) string {
	t.Helper()
	return decode[map[string]string](t, w)["detail"]
}
