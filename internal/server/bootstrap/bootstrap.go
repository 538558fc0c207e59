// Package bootstrap creates or promotes the first administrator from the
// command line. Administrators can only be made by another administrator
// otherwise.
package bootstrap

import (
	"bufio"
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"

	"github.com/dmitrijs2005/jobboard/internal/common"
	"github.com/dmitrijs2005/jobboard/internal/server/models"
	"github.com/dmitrijs2005/jobboard/internal/server/validation"
	"github.com/dmitrijs2005/jobboard/internal/shared"
)

// ErrPasswordMismatch is returned when the confirmation differs.
var ErrPasswordMismatch = errors.New("passwords do not match")

// AdminEnsurer is implemented by services.UserService.
type AdminEnsurer interface {
	EnsureAdmin(ctx context.Context, email, password string) (*models.User, bool, error)
}

// Run asks for the email (unless given) and a password, then creates or
// promotes the administrator. The password is only used when a new user
// is created.
func Run(ctx context.Context, users AdminEnsurer, email string, in io.Reader, out io.Writer) error {
	reader := bufio.NewReader(in)

	if email == "" {
		var err error
		email, err = getSimpleText(reader, "Administrator email", out)
		if err != nil {
			return fmt.Errorf("error reading email: %w", err)
		}
	}
	if err := validation.Value("email", email, validation.Email...); err != nil {
		return err
	}

	pw, err := getPassword(out, "Password: ")
	if err != nil {
		return fmt.Errorf("error reading password: %w", err)
	}
	defer shared.WipeByteArray(pw)

	confirm, err := getPassword(out, "Repeat password: ")
	if err != nil {
		return fmt.Errorf("error reading password: %w", err)
	}
	defer shared.WipeByteArray(confirm)

	if !bytes.Equal(pw, confirm) {
		return ErrPasswordMismatch
	}
	if err := validation.Value("password", string(pw), validation.Password...); err != nil {
		return err
	}

	user, created, err := users.EnsureAdmin(ctx, email, string(pw))
	if err != nil {
		return err
	}

	if created {
		fmt.Fprintf(out, "Created administrator %s (id=%d)\n", user.Email, user.ID)
	} else {
		fmt.Fprintf(out, "%s (id=%d) is an administrator\n", user.Email, user.ID)
	}
	return nil
}

// IsUsageError reports whether err came from bad input rather than the
// store.
func IsUsageError(err error) bool {
	return errors.Is(err, common.ErrorValidation) || errors.Is(err, ErrPasswordMismatch)
}
