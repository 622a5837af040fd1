package service

import (
	"context"
	"fmt"

	"golang.org/x/crypto/bcrypt"

	"github.com/csemotors/dealership/internal/auth"
	"github.com/csemotors/dealership/internal/core/domain"
	"github.com/csemotors/dealership/internal/core/ports"
)

// AccountService implements registration, credential verification and
// session issuance for dealership accounts.
type AccountService struct {
	repo  ports.AccountRepository
	codec *auth.Codec
}

func NewAccountService(repo ports.AccountRepository, codec *auth.Codec) *AccountService {
	return &AccountService{repo: repo, codec: codec}
}

// Register creates a Client account. The plaintext password never
// leaves this method: it is hashed with a fresh salt and discarded.
func (s *AccountService) Register(ctx context.Context, firstName, lastName, email, password string) (*domain.Account, error) {
	if firstName == "" || lastName == "" || email == "" || password == "" {
		return nil, domain.ErrInvalidCredentials
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		// Do not wrap with any credential material.
		return nil, fmt.Errorf("hash password: %w", err)
	}

	account := &domain.Account{
		FirstName:    firstName,
		LastName:     lastName,
		Email:        email,
		PasswordHash: string(hash),
		Type:         domain.RoleClient,
	}

	created, err := s.repo.Create(ctx, account)
	if err != nil {
		return nil, err
	}
	created.PasswordHash = ""
	return created, nil
}

// Login checks the password against the stored hash and issues a
// session token. Unknown email and wrong password collapse into
// domain.ErrInvalidCredentials so callers cannot distinguish them.
func (s *AccountService) Login(ctx context.Context, email, password string) (string, *domain.Account, error) {
	if email == "" || password == "" {
		return "", nil, domain.ErrInvalidCredentials
	}

	account, err := s.repo.FindByEmail(ctx, email)
	if err != nil {
		if err == domain.ErrAccountNotFound {
			return "", nil, domain.ErrInvalidCredentials
		}
		return "", nil, err
	}

	if bcrypt.CompareHashAndPassword([]byte(account.PasswordHash), []byte(password)) != nil {
		return "", nil, domain.ErrInvalidCredentials
	}

	account.PasswordHash = ""
	token, err := s.codec.Issue(account)
	if err != nil {
		return "", nil, fmt.Errorf("issue token: %w", err)
	}
	return token, account, nil
}

// Account returns the account by id with the password hash excluded.
func (s *AccountService) Account(ctx context.Context, id int) (*domain.Account, error) {
	return s.repo.FindByID(ctx, id)
}

// UpdateProfile persists a name/email change. Callers re-issue the
// session afterwards via Refresh; the two are deliberately decoupled
// so a refresh failure never rolls back a persisted mutation.
func (s *AccountService) UpdateProfile(ctx context.Context, id int, firstName, lastName, email string) (*domain.Account, error) {
	return s.repo.UpdateProfile(ctx, id, firstName, lastName, email)
}

// ChangePassword hashes and stores the new password.
func (s *AccountService) ChangePassword(ctx context.Context, id int, password string) error {
	if password == "" {
		return domain.ErrInvalidCredentials
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return fmt.Errorf("hash password: %w", err)
	}
	return s.repo.UpdatePassword(ctx, id, string(hash))
}

// Delete removes the account row. Any session token the account still
// holds stays cryptographically valid until expiry; the handler clears
// the cookie when an account deletes itself.
func (s *AccountService) Delete(ctx context.Context, id int) error {
	return s.repo.Delete(ctx, id)
}

// Refresh re-reads the canonical record and issues a token from it
// with a full TTL. The read path excludes the password hash, so the
// resulting claims can never carry it.
func (s *AccountService) Refresh(ctx context.Context, id int) (string, *domain.Account, error) {
	account, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return "", nil, err
	}
	token, err := s.codec.Issue(account)
	if err != nil {
		return "", nil, fmt.Errorf("issue token: %w", err)
	}
	return token, account, nil
}
