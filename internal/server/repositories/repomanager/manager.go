package repomanager

import (
	"context"
	"database/sql"

	"github.com/dmitrijs2005/jobboard/internal/dbx"
	"github.com/dmitrijs2005/jobboard/internal/server/repositories/applications"
	"github.com/dmitrijs2005/jobboard/internal/server/repositories/contacts"
	"github.com/dmitrijs2005/jobboard/internal/server/repositories/experiences"
	"github.com/dmitrijs2005/jobboard/internal/server/repositories/jobs"
	"github.com/dmitrijs2005/jobboard/internal/server/repositories/translations"
	"github.com/dmitrijs2005/jobboard/internal/server/repositories/users"
)

type RepositoryManager interface {
	RunMigrations(context.Context, *sql.DB) error
	Users(db dbx.DBTX) users.Repository
	Experiences(db dbx.DBTX) experiences.Repository
	Jobs(db dbx.DBTX) jobs.Repository
	Translations(db dbx.DBTX) translations.Repository
	Applications(db dbx.DBTX) applications.Repository
	Contacts(db dbx.DBTX) contacts.Repository
}
