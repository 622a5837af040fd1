package domain

import "errors"

var (
	// ErrInvalidCredentials covers both unknown email and wrong password.
	// Callers must not distinguish the two (account enumeration hardening).
	ErrInvalidCredentials = errors.New("invalid credentials")

	ErrAccountNotFound = errors.New("account not found")
	ErrEmailTaken      = errors.New("email already registered")
	ErrForbidden       = errors.New("access forbidden")

	ErrVehicleNotFound       = errors.New("vehicle not found")
	ErrClassificationExists  = errors.New("classification already exists")
	ErrClassificationUnknown = errors.New("classification not found")
)
