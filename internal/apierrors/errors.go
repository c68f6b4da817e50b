// Package apierrors defines errors that are safe to show to API clients.
package apierrors

import (
	"fmt"
	"net/http"
)

// Kind classifies an APIError for transport mapping.
type Kind int

const (
	KindInternal Kind = iota
	KindValidation
	KindUnauthorized
	KindNotFound
	KindDuplicateAccount
)

// APIError is an error with a client-facing message.
type APIError struct {
	Kind    Kind
	Message string
}

func (e *APIError) Error() string {
	return e.Message
}

// HTTPStatus returns the HTTP status code for the error kind.
func (e *APIError) HTTPStatus() int {
	switch e.Kind {
	case KindValidation, KindDuplicateAccount:
		return http.StatusBadRequest
	case KindUnauthorized:
		return http.StatusUnauthorized
	case KindNotFound:
		return http.StatusNotFound
	default:
		return http.StatusInternalServerError
	}
}

func newError(kind Kind, format string, args ...any) *APIError {
	return &APIError{Kind: kind, Message: fmt.Sprintf(format, args...)}
}

func NewErrInvalidCredentials() *APIError {
	return newError(KindUnauthorized, "Invalid email or password")
}

func NewErrEmailIsTaken(email string) *APIError {
	return newError(KindDuplicateAccount, "Admin %s already exists", email)
}

func NewErrAdminNotFound() *APIError {
	return newError(KindNotFound, "Admin not found")
}

func NewErrProductNotFound() *APIError {
	return newError(KindNotFound, "Product not found")
}

func NewErrInvalidImageIndex(index int) *APIError {
	return newError(KindValidation, "Invalid image index %d", index)
}

func NewErrInvalidImageField(field string) *APIError {
	return newError(KindValidation, "Invalid image field %q", field)
}

func NewErrNothingToDelete() *APIError {
	return newError(KindNotFound, "No image to delete")
}

func NewErrMissingAuthorizationToken() *APIError {
	return newError(KindUnauthorized, "Not authorized, no token")
}

func NewErrInvalidAuthorizationToken() *APIError {
	return newError(KindUnauthorized, "Not authorized, token failed")
}

func NewErrRegistrationClosed() *APIError {
	return newError(KindUnauthorized, "Not authorized, registration requires an admin token")
}

// NewErrInvalidInput reports a malformed or missing request value.
func NewErrInvalidInput(format string, args ...any) *APIError {
	return newError(KindValidation, format, args...)
}

// NewErrInternalServerError wraps an unexpected error, passing its text through.
func NewErrInternalServerError(err error) *APIError {
	return newError(KindInternal, "%s", err.Error())
}
