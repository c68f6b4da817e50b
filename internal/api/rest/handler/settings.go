package handler

import (
	"context"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/dtroode/furniture-server/internal/apierrors"
	"github.com/dtroode/furniture-server/internal/logger"
	"github.com/dtroode/furniture-server/internal/model"
)

// SettingsService defines the site settings operations exposed over HTTP.
type SettingsService interface {
	Get(ctx context.Context) (model.Settings, error)
	Update(ctx context.Context, fields model.FormFields, uploads map[string]model.Upload) (model.Settings, error)
	DeleteImageField(ctx context.Context, slot string) (model.Settings, error)
}

// Settings serves the /api/settings routes.
type Settings struct {
	settingsService SettingsService
	logger          *logger.Logger
}

func NewSettings(settingsService SettingsService, logger *logger.Logger) *Settings {
	return &Settings{settingsService: settingsService, logger: logger}
}

func (h *Settings) Get(c echo.Context) error {
	settings, err := h.settingsService.Get(c.Request().Context())
	if err != nil {
		return handleError(err)
	}

	return c.JSON(http.StatusOK, settings)
}

// Update merges the submitted fields and one file per image slot.
func (h *Settings) Update(c echo.Context) error {
	form, err := readForm(c)
	if err != nil {
		return handleError(err)
	}

	uploads := make(map[string]model.Upload, len(form.files))
	var closers []func()
	defer func() {
		for _, closeFn := range closers {
			closeFn()
		}
	}()

	for field, headers := range form.files {
		if len(headers) == 0 {
			continue
		}
		if len(headers) > 1 {
			return handleError(apierrors.NewErrInvalidInput("Only one file is allowed for %s", field))
		}

		opened, closeFn, err := openUploads(headers)
		if err != nil {
			return handleError(err)
		}
		closers = append(closers, closeFn)
		uploads[field] = opened[0]
	}

	settings, err := h.settingsService.Update(c.Request().Context(), form.fields, uploads)
	if err != nil {
		return handleError(err)
	}

	return c.JSON(http.StatusOK, settings)
}

func (h *Settings) DeleteImage(c echo.Context) error {
	settings, err := h.settingsService.DeleteImageField(c.Request().Context(), c.Param("field"))
	if err != nil {
		return handleError(err)
	}

	return c.JSON(http.StatusOK, settings)
}
