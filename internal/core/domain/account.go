package domain

import "time"

// Account roles, in ascending privilege order. New registrations always
// start as a Client; Employee and Admin are assigned out of band.
const (
	RoleClient   = "Client"
	RoleEmployee = "Employee"
	RoleAdmin    = "Admin"
)

// Account models a dealership account holder: a customer or a staff member.
type Account struct {
	ID           int       `json:"account_id"`
	FirstName    string    `json:"account_firstname"`
	LastName     string    `json:"account_lastname"`
	Email        string    `json:"account_email"`
	PasswordHash string    `json:"-"`
	Type         string    `json:"account_type"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}
