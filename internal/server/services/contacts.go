package services

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	validation "github.com/go-ozzo/ozzo-validation"

	"github.com/dmitrijs2005/jobboard/internal/logging"
	"github.com/dmitrijs2005/jobboard/internal/server/models"
	"github.com/dmitrijs2005/jobboard/internal/server/repositories/repomanager"
	v "github.com/dmitrijs2005/jobboard/internal/server/validation"
)

// ContactService stores messages left through the public contact form.
type ContactService struct {
	db          *sql.DB
	repomanager repomanager.RepositoryManager
	log         logging.Logger
}

func NewContactService(db *sql.DB, m repomanager.RepositoryManager, log logging.Logger) *ContactService {
	return &ContactService{db: db, repomanager: m, log: log.With("module", "contacts")}
}

func (s *ContactService) Submit(ctx context.Context, email, message string) (*models.ContactMessage, error) {
	msg := &models.ContactMessage{Email: NormalizeEmail(email), Message: strings.TrimSpace(message)}

	err := validation.Errors{
		"userEmail": validation.Validate(msg.Email, v.Email...),
		"message":   validation.Validate(msg.Message, validation.Required, validation.Length(1, 5000)),
	}.Filter()
	if err != nil {
		return nil, v.Invalid(err)
	}

	msg, err = s.repomanager.Contacts(s.db).Create(ctx, msg)
	if err != nil {
		return nil, fmt.Errorf("error saving contact message: %w", err)
	}

	s.log.Info(ctx, "contact message received", "id", msg.ID)
	return msg, nil
}
