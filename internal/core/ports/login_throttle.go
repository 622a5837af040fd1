package ports

import "context"

// LoginThrottle limits repeated failed logins per email address. A nil
// throttle disables the check entirely.
type LoginThrottle interface {
	// Blocked reports whether the email has exhausted its failed attempts.
	Blocked(ctx context.Context, email string) (bool, error)

	// RecordFailure counts one failed attempt inside the lockout window.
	RecordFailure(ctx context.Context, email string) error

	// Reset clears the failure count after a successful login.
	Reset(ctx context.Context, email string) error
}
