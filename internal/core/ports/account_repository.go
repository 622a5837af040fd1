package ports

import (
	"context"

	"github.com/csemotors/dealership/internal/core/domain"
)

// AccountRepository defines the persistence boundary for accounts.
type AccountRepository interface {
	// Create inserts a new Client account and returns the stored row.
	Create(ctx context.Context, account *domain.Account) (*domain.Account, error)

	// FindByEmail returns the account including its password hash; it is
	// the only read that may expose the hash, and only to the service's
	// credential check.
	FindByEmail(ctx context.Context, email string) (*domain.Account, error)

	// FindByID returns the account with the password hash excluded.
	FindByID(ctx context.Context, id int) (*domain.Account, error)

	// UpdateProfile persists name/email changes and returns the fresh row.
	UpdateProfile(ctx context.Context, id int, firstName, lastName, email string) (*domain.Account, error)

	// UpdatePassword replaces the stored password hash.
	UpdatePassword(ctx context.Context, id int, hash string) error

	// Delete removes the account row.
	Delete(ctx context.Context, id int) error
}
