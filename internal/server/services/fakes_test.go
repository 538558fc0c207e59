package services

import (
	"bytes"
	"context"
	"database/sql"
	"fmt"
	"io"
	"sort"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/dmitrijs2005/jobboard/internal/common"
	"github.com/dmitrijs2005/jobboard/internal/dbx"
	"github.com/dmitrijs2005/jobboard/internal/logging"
	"github.com/dmitrijs2005/jobboard/internal/server/config"
	"github.com/dmitrijs2005/jobboard/internal/server/models"
	"github.com/dmitrijs2005/jobboard/internal/server/repositories/applications"
	"github.com/dmitrijs2005/jobboard/internal/server/repositories/contacts"
	"github.com/dmitrijs2005/jobboard/internal/server/repositories/experiences"
	"github.com/dmitrijs2005/jobboard/internal/server/repositories/jobs"
	"github.com/dmitrijs2005/jobboard/internal/server/repositories/translations"
	"github.com/dmitrijs2005/jobboard/internal/server/repositories/users"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

// --- helpers ---

func ptr[T any](v T) *T { return &v }

func testConfig() *config.Config {
	cfg := &config.Config{}
	cfg.LoadDefaults()
	cfg.BcryptCost = bcrypt.MinCost
	return cfg
}

// newMockDB returns a sqlmock-backed *sql.DB. The in-memory repositories
// ignore it; only dbx.WithTx talks to it.
func newMockDB(t *testing.T) (*sql.DB, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	return db, mock
}

var nopLog logging.Logger = logging.Nop{}

// --- in-memory store implementing every repository ---

type memDB struct {
	mu sync.Mutex

	users  map[int64]*models.User
	nextID int64

	experiences map[int64]*models.Experience
	jobs        map[int64]*models.Job
	trs         map[string]*models.JobTranslation
	apps        []*models.Application
	contacts    []*models.ContactMessage

	// err, when set, is returned by every users repository call.
	err error
	// lookupBarrier, when set, makes GetByEmail wait until all
	// expected lookups have happened.
	lookupBarrier *sync.WaitGroup
	// setResumeErr is returned by SetResume.
	setResumeErr error
	// appExistsLies makes ExistsForUserJob always report false.
	appExistsLies bool
}

func newMemDB() *memDB {
	return &memDB{
		users:       map[int64]*models.User{},
		experiences: map[int64]*models.Experience{},
		jobs:        map[int64]*models.Job{},
		trs:         map[string]*models.JobTranslation{},
	}
}

func (m *memDB) id() int64 {
	m.nextID++
	return m.nextID
}

type memManager struct{ db *memDB }

func (m memManager) RunMigrations(context.Context, *sql.DB) error  { return nil }
func (m memManager) Users(dbx.DBTX) users.Repository               { return memUsers{m.db} }
func (m memManager) Experiences(dbx.DBTX) experiences.Repository   { return memExperiences{m.db} }
func (m memManager) Jobs(dbx.DBTX) jobs.Repository                 { return memJobs{m.db} }
func (m memManager) Translations(dbx.DBTX) translations.Repository { return memTranslations{m.db} }
func (m memManager) Applications(dbx.DBTX) applications.Repository { return memApplications{m.db} }
func (m memManager) Contacts(dbx.DBTX) contacts.Repository         { return memContacts{m.db} }

// users

type memUsers struct{ *memDB }

func (r memUsers) Create(_ context.Context, u *models.User) (*models.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.err != nil {
		return nil, r.err
	}
	for _, existing := range r.users {
		if existing.Email == u.Email {
			return nil, fmt.Errorf("%w: duplicate key", common.ErrorAlreadyExists)
		}
	}
	u.ID = r.id()
	u.CreatedAt = time.Now()
	cp := *u
	r.users[u.ID] = &cp
	return u, nil
}

func (r memUsers) GetByEmail(_ context.Context, email string) (*models.User, error) {
	if r.lookupBarrier != nil {
		r.lookupBarrier.Done()
		r.lookupBarrier.Wait()
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.err != nil {
		return nil, r.err
	}
	for _, u := range r.users {
		if u.Email == email {
			cp := *u
			return &cp, nil
		}
	}
	return nil, common.ErrorNotFound
}

func (r memUsers) GetByID(_ context.Context, id int64) (*models.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.err != nil {
		return nil, r.err
	}
	u, ok := r.users[id]
	if !ok {
		return nil, common.ErrorNotFound
	}
	cp := *u
	return &cp, nil
}

func (r memUsers) Update(_ context.Context, u *models.User) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	stored, ok := r.users[u.ID]
	if !ok {
		return common.ErrorNotFound
	}
	stored.Profile = u.Profile
	return nil
}

func (r memUsers) AdminUpdate(_ context.Context, u *models.User) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	stored, ok := r.users[u.ID]
	if !ok {
		return common.ErrorNotFound
	}
	stored.Name, stored.Surname, stored.Phone = u.Name, u.Surname, u.Phone
	stored.Citizenship, stored.EmploymentStatus = u.Citizenship, u.EmploymentStatus
	stored.IsAdmin = u.IsAdmin
	return nil
}

func (r memUsers) SetResume(_ context.Context, id int64, key, filename *string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.setResumeErr != nil {
		return r.setResumeErr
	}
	stored, ok := r.users[id]
	if !ok {
		return common.ErrorNotFound
	}
	stored.ResumeKey, stored.ResumeFilename = key, filename
	return nil
}

func (r memUsers) List(context.Context) ([]models.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]models.User, 0, len(r.users))
	for _, u := range r.users {
		out = append(out, *u)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (r memUsers) Delete(_ context.Context, id int64) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.users[id]; !ok {
		return common.ErrorNotFound
	}
	delete(r.users, id)
	for k, e := range r.experiences {
		if e.UserID == id {
			delete(r.experiences, k)
		}
	}
	kept := r.apps[:0]
	for _, a := range r.apps {
		if a.UserID != id {
			kept = append(kept, a)
		}
	}
	r.apps = kept
	return nil
}

// experiences

type memExperiences struct{ *memDB }

func (r memExperiences) ListByUser(_ context.Context, userID int64) ([]models.Experience, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]models.Experience, 0)
	for _, e := range r.experiences {
		if e.UserID == userID {
			out = append(out, *e)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (r memExperiences) Create(_ context.Context, e *models.Experience) (*models.Experience, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	e.ID = r.id()
	cp := *e
	r.experiences[e.ID] = &cp
	return e, nil
}

func (r memExperiences) DeleteForUser(_ context.Context, id, userID int64) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	e, ok := r.experiences[id]
	if !ok || e.UserID != userID {
		return common.ErrorNotFound
	}
	delete(r.experiences, id)
	return nil
}

// jobs

type memJobs struct{ *memDB }

func (r memJobs) Search(_ context.Context, f models.JobFilter) ([]models.Job, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]models.Job, 0)
	for _, j := range r.jobs {
		if !j.IsActive {
			continue
		}
		if f.Country != "" && j.Country != strings.ToUpper(f.Country) {
			continue
		}
		if f.Category != "" && (j.Category == nil || *j.Category != f.Category) {
			continue
		}
		if f.Query != "" {
			q := strings.ToLower(f.Query)
			short := ""
			if j.ShortDescription != nil {
				short = *j.ShortDescription
			}
			if !strings.Contains(strings.ToLower(j.Title), q) && !strings.Contains(strings.ToLower(short), q) {
				continue
			}
		}
		out = append(out, *j)
	}
	sort.Slice(out, func(i, k int) bool { return out[i].CreatedAt.After(out[k].CreatedAt) })
	if f.Limit > 0 && len(out) > f.Limit {
		out = out[:f.Limit]
	}
	return out, nil
}

func (r memJobs) GetActive(ctx context.Context, id int64) (*models.Job, error) {
	j, err := r.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if !j.IsActive {
		return nil, common.ErrorNotFound
	}
	return j, nil
}

func (r memJobs) Get(_ context.Context, id int64) (*models.Job, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	j, ok := r.jobs[id]
	if !ok {
		return nil, common.ErrorNotFound
	}
	cp := *j
	return &cp, nil
}

func (r memJobs) List(ctx context.Context) ([]models.Job, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]models.Job, 0, len(r.jobs))
	for _, j := range r.jobs {
		out = append(out, *j)
	}
	sort.Slice(out, func(i, k int) bool { return out[i].ID > out[k].ID })
	return out, nil
}

func (r memJobs) Create(_ context.Context, j *models.Job) (*models.Job, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	j.ID = r.id()
	if j.CreatedAt.IsZero() {
		j.CreatedAt = time.Now()
	}
	j.UpdatedAt = j.CreatedAt
	cp := *j
	r.jobs[j.ID] = &cp
	return j, nil
}

func (r memJobs) Update(_ context.Context, j *models.Job) (*models.Job, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.jobs[j.ID]; !ok {
		return nil, common.ErrorNotFound
	}
	j.UpdatedAt = time.Now()
	cp := *j
	r.jobs[j.ID] = &cp
	return j, nil
}

// translations

type memTranslations struct{ *memDB }

func trKey(jobID int64, lang string) string { return fmt.Sprintf("%d/%s", jobID, lang) }

func (r memTranslations) ListForJobs(_ context.Context, lang string, ids []int64) (map[int64]*models.JobTranslation, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := map[int64]*models.JobTranslation{}
	for _, id := range ids {
		if tr, ok := r.trs[trKey(id, lang)]; ok {
			cp := *tr
			out[id] = &cp
		}
	}
	return out, nil
}

func (r memTranslations) Upsert(_ context.Context, tr *models.JobTranslation) (*models.JobTranslation, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	key := trKey(tr.JobID, tr.LangCode)
	if existing, ok := r.trs[key]; ok {
		tr.ID = existing.ID
	} else {
		tr.ID = r.id()
	}
	cp := *tr
	r.trs[key] = &cp
	return tr, nil
}

func (r memTranslations) ListByJob(_ context.Context, jobID int64) ([]models.JobTranslation, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]models.JobTranslation, 0)
	for _, tr := range r.trs {
		if tr.JobID == jobID {
			out = append(out, *tr)
		}
	}
	sort.Slice(out, func(i, k int) bool { return out[i].LangCode < out[k].LangCode })
	return out, nil
}

// applications

type memApplications struct{ *memDB }

func (r memApplications) Create(_ context.Context, a *models.Application) (*models.Application, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, existing := range r.apps {
		if existing.UserID == a.UserID && existing.JobID == a.JobID {
			return nil, fmt.Errorf("%w: duplicate key", common.ErrorAlreadyExists)
		}
	}
	a.ID = r.id()
	a.CreatedAt = time.Now()
	cp := *a
	r.apps = append(r.apps, &cp)
	return a, nil
}

func (r memApplications) ExistsForUserJob(_ context.Context, userID, jobID int64) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.appExistsLies {
		return false, nil
	}
	for _, a := range r.apps {
		if a.UserID == userID && a.JobID == jobID {
			return true, nil
		}
	}
	return false, nil
}

func (r memApplications) ListForUser(_ context.Context, userID int64) ([]models.ApplicationWithJob, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]models.ApplicationWithJob, 0)
	for i := len(r.apps) - 1; i >= 0; i-- {
		a := r.apps[i]
		if a.UserID != userID {
			continue
		}
		j := r.jobs[a.JobID]
		out = append(out, models.ApplicationWithJob{
			ID: a.ID, Status: a.Status, CreatedAt: a.CreatedAt,
			Job: models.JobSummary{ID: j.ID, Title: j.Title, Country: j.Country, City: j.City, Category: j.Category},
		})
	}
	return out, nil
}

func (r memApplications) CountForUser(_ context.Context, userID int64) (int, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	n := 0
	for _, a := range r.apps {
		if a.UserID == userID {
			n++
		}
	}
	return n, nil
}

// contacts

type memContacts struct{ *memDB }

func (r memContacts) Create(_ context.Context, c *models.ContactMessage) (*models.ContactMessage, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	c.ID = r.id()
	cp := *c
	r.contacts = append(r.contacts, &cp)
	return c, nil
}

// --- in-memory object store ---

type memObjects struct {
	mu        sync.Mutex
	objects   map[string][]byte
	deleted   []string
	putErr    error
	deleteErr error
}

func newMemObjects() *memObjects {
	return &memObjects{objects: map[string][]byte{}}
}

func (s *memObjects) Put(_ context.Context, key string, body io.Reader, _ int64, _ string) error {
	if s.putErr != nil {
		return s.putErr
	}
	var buf bytes.Buffer
	if _, err := io.Copy(&buf, body); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.objects[key] = buf.Bytes()
	return nil
}

func (s *memObjects) PresignGet(_ context.Context, key string, ttl time.Duration, filename string) (string, error) {
	return fmt.Sprintf("https://storage.test/%s?ttl=%d&name=%s", key, int(ttl.Seconds()), filename), nil
}

func (s *memObjects) Delete(_ context.Context, key string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.deleted = append(s.deleted, key)
	if s.deleteErr != nil {
		return s.deleteErr
	}
	delete(s.objects, key)
	return nil
}
