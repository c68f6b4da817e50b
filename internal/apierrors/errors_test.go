package apierrors

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAPIError_HTTPStatus(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		err  *APIError
		want int
	}{
		{name: "invalid credentials", err: NewErrInvalidCredentials(), want: http.StatusUnauthorized},
		{name: "email taken", err: NewErrEmailIsTaken("a@b.c"), want: http.StatusBadRequest},
		{name: "admin not found", err: NewErrAdminNotFound(), want: http.StatusNotFound},
		{name: "product not found", err: NewErrProductNotFound(), want: http.StatusNotFound},
		{name: "invalid index", err: NewErrInvalidImageIndex(7), want: http.StatusBadRequest},
		{name: "invalid field", err: NewErrInvalidImageField("banner"), want: http.StatusBadRequest},
		{name: "nothing to delete", err: NewErrNothingToDelete(), want: http.StatusNotFound},
		{name: "missing token", err: NewErrMissingAuthorizationToken(), want: http.StatusUnauthorized},
		{name: "invalid token", err: NewErrInvalidAuthorizationToken(), want: http.StatusUnauthorized},
		{name: "registration closed", err: NewErrRegistrationClosed(), want: http.StatusUnauthorized},
		{name: "invalid input", err: NewErrInvalidInput("bad %s", "price"), want: http.StatusBadRequest},
		{name: "internal", err: NewErrInternalServerError(errors.New("boom")), want: http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tt.want, tt.err.HTTPStatus())
		})
	}
}

func TestAPIError_Unwrapping(t *testing.T) {
	t.Parallel()

	wrapped := fmt.Errorf("failed to update product: %w", NewErrInvalidImageIndex(3))

	var apiErr *APIError
	require.True(t, errors.As(wrapped, &apiErr))
	assert.Equal(t, KindValidation, apiErr.Kind)
	assert.Equal(t, "Invalid image index 3", apiErr.Error())
}
