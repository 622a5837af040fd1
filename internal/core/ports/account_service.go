package ports

import (
	"context"

	"github.com/csemotors/dealership/internal/core/domain"
)

// AccountService is the authentication and account self-service surface
// consumed by the HTTP handlers.
type AccountService interface {
	// Register creates a new Client account from the registration form.
	Register(ctx context.Context, firstName, lastName, email, password string) (*domain.Account, error)

	// Login verifies credentials and issues a session token. Unknown
	// email and wrong password both return domain.ErrInvalidCredentials.
	Login(ctx context.Context, email, password string) (string, *domain.Account, error)

	// Account returns the account by id, password hash excluded.
	Account(ctx context.Context, id int) (*domain.Account, error)

	// UpdateProfile persists a name/email change and returns the
	// updated account. Session refresh is a separate, best-effort step.
	UpdateProfile(ctx context.Context, id int, firstName, lastName, email string) (*domain.Account, error)

	// ChangePassword hashes and stores a new password.
	ChangePassword(ctx context.Context, id int, password string) error

	// Delete removes the account. The caller is responsible for
	// clearing any session the deleted account still holds.
	Delete(ctx context.Context, id int) error

	// Refresh re-reads the canonical account record and issues a token
	// from it, so carried claims never go stale after a mutation. A
	// refresh failure leaves the persisted mutation intact; the caller
	// keeps the old (stale) cookie until its own expiry.
	Refresh(ctx context.Context, id int) (string, *domain.Account, error)
}
