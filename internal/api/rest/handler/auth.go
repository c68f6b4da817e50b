package handler

import (
	"context"
	"net/http"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"

	"github.com/dtroode/furniture-server/internal/apierrors"
	"github.com/dtroode/furniture-server/internal/logger"
	"github.com/dtroode/furniture-server/internal/model"
)

// AuthService defines the account operations exposed over HTTP.
type AuthService interface {
	Login(ctx context.Context, email, password string) (model.LoginResult, error)
	Register(ctx context.Context, actor *uuid.UUID, email, password string) error
	UpdateAccount(ctx context.Context, adminID uuid.UUID, update model.AccountUpdate) error
}

// Auth serves the /api/auth routes.
type Auth struct {
	authService    AuthService
	contextManager model.ContextManager
	logger         *logger.Logger
}

func NewAuth(authService AuthService, contextManager model.ContextManager, logger *logger.Logger) *Auth {
	return &Auth{
		authService:    authService,
		contextManager: contextManager,
		logger:         logger,
	}
}

type credentialsRequest struct {
	Email    string `json:"email" form:"email"`
	Password string `json:"password" form:"password"`
}

type accountRequest struct {
	Email       string `json:"email" form:"email"`
	NewPassword string `json:"newPassword" form:"newPassword"`
}

func (h *Auth) Login(c echo.Context) error {
	var req credentialsRequest
	if err := c.Bind(&req); err != nil {
		return handleError(apierrors.NewErrInvalidInput("Malformed request body"))
	}

	res, err := h.authService.Login(c.Request().Context(), req.Email, req.Password)
	if err != nil {
		return handleError(err)
	}

	return c.JSON(http.StatusOK, res)
}

// Register creates an admin. The caller is anonymous unless the optional
// authentication middleware found a valid token.
func (h *Auth) Register(c echo.Context) error {
	var req credentialsRequest
	if err := c.Bind(&req); err != nil {
		return handleError(apierrors.NewErrInvalidInput("Malformed request body"))
	}

	var actor *uuid.UUID
	if adminID, ok := h.contextManager.GetAdminIDFromContext(c.Request().Context()); ok {
		actor = &adminID
	}

	if err := h.authService.Register(c.Request().Context(), actor, req.Email, req.Password); err != nil {
		return handleError(err)
	}

	return c.JSON(http.StatusCreated, echo.Map{"message": "Admin registered successfully"})
}

func (h *Auth) UpdateAccount(c echo.Context) error {
	adminID, ok := h.contextManager.GetAdminIDFromContext(c.Request().Context())
	if !ok {
		return handleError(apierrors.NewErrMissingAuthorizationToken())
	}

	var req accountRequest
	if err := c.Bind(&req); err != nil {
		return handleError(apierrors.NewErrInvalidInput("Malformed request body"))
	}

	update := model.AccountUpdate{Email: req.Email, NewPassword: req.NewPassword}
	if err := h.authService.UpdateAccount(c.Request().Context(), adminID, update); err != nil {
		return handleError(err)
	}

	return c.JSON(http.StatusOK, echo.Map{"message": "Account updated successfully"})
}
