package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"golang.org/x/crypto/bcrypt"

	"github.com/csemotors/dealership/internal/auth"
	"github.com/csemotors/dealership/internal/core/domain"
)

type stubAccountRepo struct {
	accounts map[int]*domain.Account
	nextID   int

	updateProfileErr  error
	updatePasswordErr error
	findByIDErr       error
}

func newStubAccountRepo() *stubAccountRepo {
	return &stubAccountRepo{accounts: make(map[int]*domain.Account), nextID: 1}
}

func cloneAccount(a *domain.Account) *domain.Account {
	if a == nil {
		return nil
	}
	clone := *a
	return &clone
}

func (r *stubAccountRepo) Create(_ context.Context, account *domain.Account) (*domain.Account, error) {
	for _, a := range r.accounts {
		if a.Email == account.Email {
			return nil, domain.ErrEmailTaken
		}
	}
	copy := cloneAccount(account)
	copy.ID = r.nextID
	r.nextID++
	r.accounts[copy.ID] = cloneAccount(copy)
	return cloneAccount(copy), nil
}

func (r *stubAccountRepo) FindByEmail(_ context.Context, email string) (*domain.Account, error) {
	for _, a := range r.accounts {
		if a.Email == email {
			return cloneAccount(a), nil
		}
	}
	return nil, domain.ErrAccountNotFound
}

func (r *stubAccountRepo) FindByID(_ context.Context, id int) (*domain.Account, error) {
	if r.findByIDErr != nil {
		return nil, r.findByIDErr
	}
	a, ok := r.accounts[id]
	if !ok {
		return nil, domain.ErrAccountNotFound
	}
	copy := cloneAccount(a)
	copy.PasswordHash = ""
	return copy, nil
}

func (r *stubAccountRepo) UpdateProfile(_ context.Context, id int, firstName, lastName, email string) (*domain.Account, error) {
	if r.updateProfileErr != nil {
		return nil, r.updateProfileErr
	}
	a, ok := r.accounts[id]
	if !ok {
		return nil, domain.ErrAccountNotFound
	}
	a.FirstName, a.LastName, a.Email = firstName, lastName, email
	copy := cloneAccount(a)
	copy.PasswordHash = ""
	return copy, nil
}

func (r *stubAccountRepo) UpdatePassword(_ context.Context, id int, hash string) error {
	if r.updatePasswordErr != nil {
		return r.updatePasswordErr
	}
	a, ok := r.accounts[id]
	if !ok {
		return domain.ErrAccountNotFound
	}
	a.PasswordHash = hash
	return nil
}

func (r *stubAccountRepo) Delete(_ context.Context, id int) error {
	if _, ok := r.accounts[id]; !ok {
		return domain.ErrAccountNotFound
	}
	delete(r.accounts, id)
	return nil
}

func newTestService(repo *stubAccountRepo) (*AccountService, *auth.Codec) {
	codec := auth.NewCodec("test-secret", time.Hour)
	return NewAccountService(repo, codec), codec
}

func TestAccountService_Register_Success(t *testing.T) {
	repo := newStubAccountRepo()
	svc, _ := newTestService(repo)

	account, err := svc.Register(context.Background(), "Alice", "Anders", "alice@cse.motors", "correct horse battery")
	if err != nil {
		t.Fatalf("Register returned error: %v", err)
	}
	if account.Type != domain.RoleClient {
		t.Errorf("new account type = %q, want Client", account.Type)
	}
	if account.PasswordHash != "" {
		t.Errorf("service must not return the password hash")
	}

	stored := repo.accounts[account.ID]
	if stored.PasswordHash == "correct horse battery" {
		t.Fatalf("password stored in plaintext")
	}
	if err := bcrypt.CompareHashAndPassword([]byte(stored.PasswordHash), []byte("correct horse battery")); err != nil {
		t.Fatalf("stored hash does not verify: %v", err)
	}
}

func TestAccountService_Register_FreshSaltPerCall(t *testing.T) {
	repo := newStubAccountRepo()
	svc, _ := newTestService(repo)

	a, err := svc.Register(context.Background(), "A", "One", "a@cse.motors", "same-password")
	if err != nil {
		t.Fatalf("first register: %v", err)
	}
	b, err := svc.Register(context.Background(), "B", "Two", "b@cse.motors", "same-password")
	if err != nil {
		t.Fatalf("second register: %v", err)
	}
	if repo.accounts[a.ID].PasswordHash == repo.accounts[b.ID].PasswordHash {
		t.Fatalf("equal plaintexts must hash differently")
	}
}

func TestAccountService_Register_Validation(t *testing.T) {
	repo := newStubAccountRepo()
	svc, _ := newTestService(repo)

	if _, err := svc.Register(context.Background(), "", "Anders", "a@cse.motors", "pw"); err != domain.ErrInvalidCredentials {
		t.Fatalf("expected ErrInvalidCredentials, got %v", err)
	}
	if _, err := svc.Register(context.Background(), "Alice", "Anders", "a@cse.motors", ""); err != domain.ErrInvalidCredentials {
		t.Fatalf("expected ErrInvalidCredentials for empty password, got %v", err)
	}
}

func TestAccountService_Register_DuplicateEmail(t *testing.T) {
	repo := newStubAccountRepo()
	svc, _ := newTestService(repo)

	if _, err := svc.Register(context.Background(), "Alice", "Anders", "dup@cse.motors", "pw-one-long"); err != nil {
		t.Fatalf("register failed: %v", err)
	}
	if _, err := svc.Register(context.Background(), "Bob", "Breyer", "dup@cse.motors", "pw-two-long"); err != domain.ErrEmailTaken {
		t.Fatalf("expected ErrEmailTaken, got %v", err)
	}
}

func TestAccountService_Login_Success(t *testing.T) {
	repo := newStubAccountRepo()
	svc, codec := newTestService(repo)

	if _, err := svc.Register(context.Background(), "Carol", "Chen", "carol@cse.motors", "s3cret-enough"); err != nil {
		t.Fatalf("register failed: %v", err)
	}

	token, account, err := svc.Login(context.Background(), "carol@cse.motors", "s3cret-enough")
	if err != nil {
		t.Fatalf("login failed: %v", err)
	}
	if token == "" {
		t.Fatalf("expected token, got empty")
	}
	if account.PasswordHash != "" {
		t.Fatalf("login must not return the password hash")
	}

	claims, err := codec.Verify(token)
	if err != nil {
		t.Fatalf("issued token does not verify: %v", err)
	}
	if claims.Email != "carol@cse.motors" || claims.AccountType != domain.RoleClient {
		t.Fatalf("claims do not reflect the account: %+v", claims)
	}
	if claims.AccountID != account.ID {
		t.Fatalf("claims account id = %d, want %d", claims.AccountID, account.ID)
	}
}

func TestAccountService_Login_WrongPassword(t *testing.T) {
	repo := newStubAccountRepo()
	svc, _ := newTestService(repo)

	_, _ = svc.Register(context.Background(), "Dave", "Diaz", "dave@cse.motors", "right-password")

	if _, _, err := svc.Login(context.Background(), "dave@cse.motors", "wrong-password"); err != domain.ErrInvalidCredentials {
		t.Fatalf("expected ErrInvalidCredentials, got %v", err)
	}
}

func TestAccountService_Login_UnknownEmailSameError(t *testing.T) {
	repo := newStubAccountRepo()
	svc, _ := newTestService(repo)

	// Unknown email must be indistinguishable from a wrong password.
	if _, _, err := svc.Login(context.Background(), "nobody@cse.motors", "whatever"); err != domain.ErrInvalidCredentials {
		t.Fatalf("expected ErrInvalidCredentials, got %v", err)
	}
}

func TestAccountService_UpdateProfile_RefreshesClaims(t *testing.T) {
	repo := newStubAccountRepo()
	svc, codec := newTestService(repo)

	created, err := svc.Register(context.Background(), "Erin", "Estes", "erin@cse.motors", "a-fine-password")
	if err != nil {
		t.Fatalf("register failed: %v", err)
	}

	updated, err := svc.UpdateProfile(context.Background(), created.ID, "Erin", "Estes", "erin.e@cse.motors")
	if err != nil {
		t.Fatalf("UpdateProfile failed: %v", err)
	}
	if updated.Email != "erin.e@cse.motors" {
		t.Fatalf("updated email = %q", updated.Email)
	}

	token, _, err := svc.Refresh(context.Background(), created.ID)
	if err != nil {
		t.Fatalf("Refresh failed: %v", err)
	}

	claims, err := codec.Verify(token)
	if err != nil {
		t.Fatalf("refreshed token does not verify: %v", err)
	}
	if claims.Email != "erin.e@cse.motors" {
		t.Fatalf("refreshed claims carry stale email %q", claims.Email)
	}
}

func TestAccountService_ChangePassword(t *testing.T) {
	repo := newStubAccountRepo()
	svc, _ := newTestService(repo)

	created, _ := svc.Register(context.Background(), "Finn", "Ford", "finn@cse.motors", "old-password-1")

	if err := svc.ChangePassword(context.Background(), created.ID, "new-password-2"); err != nil {
		t.Fatalf("ChangePassword failed: %v", err)
	}

	if _, _, err := svc.Login(context.Background(), "finn@cse.motors", "old-password-1"); err != domain.ErrInvalidCredentials {
		t.Fatalf("old password still accepted: %v", err)
	}
	if _, _, err := svc.Login(context.Background(), "finn@cse.motors", "new-password-2"); err != nil {
		t.Fatalf("new password rejected: %v", err)
	}
}

func TestAccountService_Refresh_ReadFailure(t *testing.T) {
	repo := newStubAccountRepo()
	svc, _ := newTestService(repo)

	created, _ := svc.Register(context.Background(), "Gail", "Good", "gail@cse.motors", "password-gail")
	repo.findByIDErr = errors.New("db unavailable")

	if _, _, err := svc.Refresh(context.Background(), created.ID); err == nil {
		t.Fatalf("expected refresh error when the re-read fails")
	}
}

func TestAccountService_Delete(t *testing.T) {
	repo := newStubAccountRepo()
	svc, _ := newTestService(repo)

	created, _ := svc.Register(context.Background(), "Hana", "Hale", "hana@cse.motors", "password-hana-1")

	if err := svc.Delete(context.Background(), created.ID); err != nil {
		t.Fatalf("Delete failed: %v", err)
	}
	if _, _, err := svc.Login(context.Background(), "hana@cse.motors", "password-hana-1"); err != domain.ErrInvalidCredentials {
		t.Fatalf("deleted account can still log in: %v", err)
	}
	if err := svc.Delete(context.Background(), created.ID); err != domain.ErrAccountNotFound {
		t.Fatalf("second delete: %v, want ErrAccountNotFound", err)
	}
}
