// Package auth implements the stateless session machinery: a signed,
// expiring JWT wrapping a snapshot of account identity, and the cookie
// that carries it between requests. There is no server-side session
// registry; a token stays valid until its own expiry or until the
// cookie is cleared on logout.
package auth

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/csemotors/dealership/internal/core/domain"
)

// ErrTokenInvalid is returned by Verify for every failure class:
// malformed token, wrong signature and expired token alike. Callers
// treat all three identically and demote the request to anonymous.
var ErrTokenInvalid = errors.New("invalid session token")

// Claims is the identity snapshot embedded in a session token. It is a
// point-in-time copy of the account row, minus the password hash, which
// must never enter a token.
type Claims struct {
	AccountID   int    `json:"account_id"`
	FirstName   string `json:"account_firstname"`
	LastName    string `json:"account_lastname"`
	Email       string `json:"account_email"`
	AccountType string `json:"account_type"`
	jwt.RegisteredClaims
}

// IsStaff reports whether the identity may reach inventory management.
func (c *Claims) IsStaff() bool {
	return c.AccountType == domain.RoleEmployee || c.AccountType == domain.RoleAdmin
}

// Codec issues and verifies session tokens with a single process-wide
// HS256 secret. The secret and TTL are fixed at construction; nothing
// here reads ambient environment state.
type Codec struct {
	secret []byte
	ttl    time.Duration
}

// NewCodec builds a Codec. A non-positive ttl falls back to one hour.
func NewCodec(secret string, ttl time.Duration) *Codec {
	if ttl <= 0 {
		ttl = time.Hour
	}
	return &Codec{secret: []byte(secret), ttl: ttl}
}

// TTL returns the token lifetime. The session cookie's Max-Age is
// issued from this same value so both lapse together.
func (c *Codec) TTL() time.Duration { return c.ttl }

// Issue signs a fresh token for the account with a full TTL from now.
func (c *Codec) Issue(account *domain.Account) (string, error) {
	now := time.Now().UTC()
	claims := Claims{
		AccountID:   account.ID,
		FirstName:   account.FirstName,
		LastName:    account.LastName,
		Email:       account.Email,
		AccountType: account.Type,
		RegisteredClaims: jwt.RegisteredClaims{
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(c.ttl)),
		},
	}

	t := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return t.SignedString(c.secret)
}

// Verify checks signature and expiry and returns the embedded claims.
// Any failure collapses to ErrTokenInvalid.
func (c *Codec) Verify(token string) (*Claims, error) {
	claims := &Claims{}
	tkn, err := jwt.ParseWithClaims(token, claims, func(t *jwt.Token) (interface{}, error) {
		if t.Method.Alg() != jwt.SigningMethodHS256.Alg() {
			return nil, jwt.ErrTokenSignatureInvalid
		}
		return c.secret, nil
	})
	if err != nil || !tkn.Valid {
		return nil, ErrTokenInvalid
	}
	return claims, nil
}
