package domain

import (
	"errors"
	"fmt"
	"net/http"
)

var (
	ErrTokenMissing  = errors.New("no token stored")
	ErrTokenRejected = errors.New("token was rejected by the auth service")
	ErrUnauthorized  = errors.New("unauthorized")
)

// AuthStatus is the state of the process-wide auth session.
type AuthStatus string

const (
	AuthStatusChecking         AuthStatus = "checking"
	AuthStatusAuthenticated    AuthStatus = "authenticated"
	AuthStatusNotAuthenticated AuthStatus = "not-authenticated"
)

func (s AuthStatus) String() string { return string(s) }

// LoginError is a non-2xx answer from the auth service. Message is the text
// the service sent back and is safe to show to the person signing in.
// Check-token refusals carry the same type wrapped in ErrTokenRejected.
type LoginError struct {
	StatusCode int
	Message    string
}

func (e *LoginError) Error() string {
	if e.StatusCode == 0 {
		return e.Message
	}
	return fmt.Sprintf("login failed (%d): %s", e.StatusCode, e.Message)
}

// Unauthorized reports whether the service refused the credentials, as opposed
// to failing for some other reason.
func (e *LoginError) Unauthorized() bool {
	return e.StatusCode == http.StatusUnauthorized || e.StatusCode == http.StatusForbidden ||
		e.StatusCode == http.StatusBadRequest
}

// Is lets errors.Is(err, ErrUnauthorized) match a refused login.
func (e *LoginError) Is(target error) bool {
	return target == ErrUnauthorized && e.Unauthorized()
}
