package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/lib/pq"

	"github.com/csemotors/dealership/internal/core/domain"
)

// uniqueViolation is the Postgres error code for a unique constraint breach.
const uniqueViolation = "23505"

type AccountRepository struct {
	db *sql.DB
}

func NewAccountRepository(db *sql.DB) *AccountRepository {
	return &AccountRepository{db: db}
}

func (r *AccountRepository) Create(ctx context.Context, account *domain.Account) (*domain.Account, error) {
	const q = `
INSERT INTO account (account_firstname, account_lastname, account_email, account_password, account_type)
VALUES ($1, $2, $3, $4, 'Client')
RETURNING account_id, account_firstname, account_lastname, account_email, account_type`

	created := &domain.Account{}
	err := r.db.QueryRowContext(ctx, q,
		account.FirstName, account.LastName, account.Email, account.PasswordHash,
	).Scan(&created.ID, &created.FirstName, &created.LastName, &created.Email, &created.Type)
	if err != nil {
		var pqErr *pq.Error
		if errors.As(err, &pqErr) && pqErr.Code == uniqueViolation {
			return nil, domain.ErrEmailTaken
		}
		return nil, fmt.Errorf("insert account: %w", err)
	}
	return created, nil
}

func (r *AccountRepository) FindByEmail(ctx context.Context, email string) (*domain.Account, error) {
	const q = `
SELECT account_id, account_firstname, account_lastname, account_email, account_type, account_password
FROM account
WHERE account_email = $1`

	a := &domain.Account{}
	err := r.db.QueryRowContext(ctx, q, email).Scan(
		&a.ID, &a.FirstName, &a.LastName, &a.Email, &a.Type, &a.PasswordHash,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrAccountNotFound
		}
		return nil, fmt.Errorf("find account by email: %w", err)
	}
	return a, nil
}

// FindByID deliberately never selects the password hash; identity
// refresh reads go through here, so refreshed claims cannot carry it.
func (r *AccountRepository) FindByID(ctx context.Context, id int) (*domain.Account, error) {
	const q = `
SELECT account_id, account_firstname, account_lastname, account_email, account_type
FROM account
WHERE account_id = $1`

	a := &domain.Account{}
	err := r.db.QueryRowContext(ctx, q, id).Scan(&a.ID, &a.FirstName, &a.LastName, &a.Email, &a.Type)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrAccountNotFound
		}
		return nil, fmt.Errorf("find account by id: %w", err)
	}
	return a, nil
}

func (r *AccountRepository) UpdateProfile(ctx context.Context, id int, firstName, lastName, email string) (*domain.Account, error) {
	const q = `
UPDATE account
SET account_firstname = $2, account_lastname = $3, account_email = $4
WHERE account_id = $1
RETURNING account_id, account_firstname, account_lastname, account_email, account_type`

	a := &domain.Account{}
	err := r.db.QueryRowContext(ctx, q, id, firstName, lastName, email).Scan(
		&a.ID, &a.FirstName, &a.LastName, &a.Email, &a.Type,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrAccountNotFound
		}
		var pqErr *pq.Error
		if errors.As(err, &pqErr) && pqErr.Code == uniqueViolation {
			return nil, domain.ErrEmailTaken
		}
		return nil, fmt.Errorf("update account: %w", err)
	}
	return a, nil
}

func (r *AccountRepository) UpdatePassword(ctx context.Context, id int, hash string) error {
	const q = `UPDATE account SET account_password = $2 WHERE account_id = $1`

	res, err := r.db.ExecContext(ctx, q, id, hash)
	if err != nil {
		return fmt.Errorf("update password: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("update password: %w", err)
	}
	if n == 0 {
		return domain.ErrAccountNotFound
	}
	return nil
}

func (r *AccountRepository) Delete(ctx context.Context, id int) error {
	const q = `DELETE FROM account WHERE account_id = $1`

	res, err := r.db.ExecContext(ctx, q, id)
	if err != nil {
		return fmt.Errorf("delete account: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("delete account: %w", err)
	}
	if n == 0 {
		return domain.ErrAccountNotFound
	}
	return nil
}
