// Package apperr defines the application's failure kinds and translates
// them into stable HTTP responses at the boundary.
package apperr

import "net/http"

// Error is a classified application failure. The status and message are
// the externally visible mapping; services match on the sentinel values
// below with errors.Is.
type Error struct {
	Status  int
	Message string
}

func (e *Error) Error() string {
	return e.Message
}

// Failure kinds. Invalid and expired tokens share one external message so
// a caller cannot tell them apart; both mean "re-authenticate".
var (
	ErrMissingCredentials = &Error{http.StatusUnauthorized, "Authorization header required"}
	ErrInvalidToken       = &Error{http.StatusUnauthorized, "Invalid or expired token"}
	ErrExpiredToken       = &Error{http.StatusUnauthorized, "Invalid or expired token"}
	ErrInvalidCredentials = &Error{http.StatusUnauthorized, "Invalid email or password"}
	ErrDuplicateEmail     = &Error{http.StatusBadRequest, "Email already registered"}
	ErrNotFound           = &Error{http.StatusNotFound, "Expense not found"}
	ErrForbidden          = &Error{http.StatusForbidden, "You are not allowed to modify this expense"}
)

// NewBadRequest returns a 400 failure with a request-specific message.
func NewBadRequest(message string) *Error {
	return &Error{http.StatusBadRequest, message}
}
