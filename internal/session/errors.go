package session

import "errors"

var (
	// ErrValidation rejects bad caller input before any network call.
	ErrValidation = errors.New("session: validation failed")

	// ErrInvalidCredentials is the generic auth failure handed to callers;
	// the detailed cause is only logged.
	ErrInvalidCredentials = errors.New("session: invalid credentials")

	// ErrSessionExpired means the persisted credentials could not be turned
	// into a live session; local state has been cleared.
	ErrSessionExpired = errors.New("session: session expired")

	// ErrNotAuthenticated guards operations that need a live session.
	ErrNotAuthenticated = errors.New("session: not authenticated")

	// ErrBanned means the member account is banned; the session was cleared.
	ErrBanned = errors.New("session: account banned")
)

const (
	msgSessionExpired = "Your session has expired. Please log in again."
	msgLoginFailed    = "Login failed, please check your email and password"
	msgLoginSucceeded = "Login successful!"
	msgRegisterOK     = "Registration successful! You can now log in."
	msgFieldsRequired = "All fields are required"
	msgBackendFailure = "Something went wrong. Please try again later."
)
