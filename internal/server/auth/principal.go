package auth

import (
	"context"
	"errors"
	"fmt"
	"strconv"

	"github.com/dmitrijs2005/jobboard/internal/common"
	"github.com/dmitrijs2005/jobboard/internal/server/models"
)

// Principal is the authenticated caller of one request: the live user
// record loaded after the token was verified. It must not outlive the
// request.
type Principal struct {
	User *models.User
}

// UserID returns the principal's user identifier.
func (p *Principal) UserID() int64 {
	return p.User.ID
}

// IsAdmin reports the administrator flag of the live record.
func (p *Principal) IsAdmin() bool {
	return p.User.IsAdmin
}

// UserFinder is the read-only lookup the resolver needs from the store.
// It returns common.ErrorNotFound when the user does not exist.
type UserFinder interface {
	GetByID(ctx context.Context, id int64) (*models.User, error)
}

// Resolver turns a bearer token into a Principal.
type Resolver struct {
	codec *TokenCodec
	users UserFinder
}

func NewResolver(codec *TokenCodec, users UserFinder) *Resolver {
	return &Resolver{codec: codec, users: users}
}

// Resolve verifies token and loads the user named by its subject. Every
// call reads the store; role and profile claims in the token are ignored,
// so a demoted or deleted user loses access on the next request.
//
// Token problems, a bad subject and a missing user all yield an error
// wrapping common.ErrUnauthenticated. Store failures are returned wrapped
// as they are, so callers can report them as internal errors.
func (r *Resolver) Resolve(ctx context.Context, token string) (*Principal, error) {
	if token == "" {
		return nil, common.ErrUnauthenticated
	}

	claims, err := r.codec.Verify(token)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", common.ErrUnauthenticated, err)
	}

	id, err := strconv.ParseInt(claims.Subject, 10, 64)
	if err != nil || id <= 0 {
		return nil, fmt.Errorf("%w: bad subject %q", common.ErrUnauthenticated, claims.Subject)
	}

	user, err := r.users.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			return nil, fmt.Errorf("%w: user %d not found", common.ErrUnauthenticated, id)
		}
		return nil, fmt.Errorf("error loading user %d: %w", id, err)
	}

	return &Principal{User: user}, nil
}
