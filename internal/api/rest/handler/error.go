package handler

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/dtroode/furniture-server/internal/apierrors"
	"github.com/dtroode/furniture-server/internal/model"
)

// handleError converts a service error into the HTTP error echo renders as {"message": ...}.
func handleError(err error) error {
	var apiErr *apierrors.APIError
	if errors.As(err, &apiErr) {
		return echo.NewHTTPError(apiErr.HTTPStatus(), apiErr.Message)
	}

	if errors.Is(err, model.ErrNotFound) {
		return echo.NewHTTPError(http.StatusNotFound, "Not found")
	}

	return echo.NewHTTPError(http.StatusInternalServerError, err.Error()).SetInternal(err)
}
