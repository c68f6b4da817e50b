package middleware

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"

	"github.com/dtroode/furniture-server/internal/apierrors"
	"github.com/dtroode/furniture-server/internal/logger"
	"github.com/dtroode/furniture-server/internal/model"
)

// TokenService resolves admin ID from bearer tokens.
type TokenService interface {
	GetAdminID(ctx context.Context, token string) (uuid.UUID, error)
}

// Authenticate validates bearer tokens and injects admin ID into the request context.
type Authenticate struct {
	tokenService   TokenService
	contextManager model.ContextManager
	logger         *logger.Logger
}

// NewAuthenticate creates a new Authenticate middleware instance.
func NewAuthenticate(tokenService TokenService, contextManager model.ContextManager, logger *logger.Logger) *Authenticate {
	return &Authenticate{tokenService: tokenService, contextManager: contextManager, logger: logger}
}

// Required rejects requests without a valid bearer token.
func (m *Authenticate) Required(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		adminID, err := m.authenticateAdmin(c.Request().Context(), bearerToken(c.Request()))
		if err != nil {
			m.logger.Debug("Authenticate: request rejected",
				"path", c.Path(),
				"error", err.Error())
			return toHTTPError(err)
		}

		m.setAdminID(c, adminID)
		return next(c)
	}
}

// Optional authenticates the request when it carries a token and lets it
// through anonymously when it does not. A token that is present but invalid
// is still rejected.
func (m *Authenticate) Optional(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		token := bearerToken(c.Request())
		if token == "" {
			return next(c)
		}

		adminID, err := m.authenticateAdmin(c.Request().Context(), token)
		if err != nil {
			return toHTTPError(err)
		}

		m.setAdminID(c, adminID)
		return next(c)
	}
}

func (m *Authenticate) setAdminID(c echo.Context, adminID uuid.UUID) {
	ctx := m.contextManager.SetAdminIDToContext(c.Request().Context(), adminID)
	c.SetRequest(c.Request().WithContext(ctx))
}

func (m *Authenticate) authenticateAdmin(ctx context.Context, tokenString string) (adminID uuid.UUID, err error) {
	if tokenString == "" {
		return uuid.Nil, apierrors.NewErrMissingAuthorizationToken()
	}

	adminID, err = m.tokenService.GetAdminID(ctx, tokenString)
	if err != nil {
		return uuid.Nil, apierrors.NewErrInvalidAuthorizationToken()
	}

	if adminID == uuid.Nil {
		return uuid.Nil, apierrors.NewErrInvalidAuthorizationToken()
	}

	return adminID, nil
}

func bearerToken(r *http.Request) string {
	header := r.Header.Get(echo.HeaderAuthorization)
	token, ok := strings.CutPrefix(header, "Bearer ")
	if !ok {
		return ""
	}
	return strings.TrimSpace(token)
}

func toHTTPError(err error) error {
	var apiErr *apierrors.APIError
	if errors.As(err, &apiErr) {
		return echo.NewHTTPError(apiErr.HTTPStatus(), apiErr.Message)
	}
	return echo.NewHTTPError(http.StatusUnauthorized, err.Error())
}
