package auth

import (
	"context"

	"github.com/dmitrijs2005/jobboard/internal/common"
)

// Guard is a precondition a request must pass before its handler runs.
// It receives the raw bearer token ("" when the header was absent).
type Guard func(ctx context.Context, token string) (*Principal, error)

// RequireUser admits any caller whose token resolves to a live user.
// Failures wrap common.ErrUnauthenticated, or are store errors.
func RequireUser(r *Resolver) Guard {
	return r.Resolve
}

// RequireAdmin composes next with an administrator check on the live
// record. It fails with common.ErrForbidden for resolved non-admins and
// passes resolution failures from next through unchanged, so the two
// outcomes stay distinct.
func RequireAdmin(next Guard) Guard {
	return func(ctx context.Context, token string) (*Principal, error) {
		p, err := next(ctx, token)
		if err != nil {
			return nil, err
		}
		if !p.IsAdmin() {
			return nil, common.ErrForbidden
		}
		return p, nil
	}
}
