package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/dtroode/furniture-server/internal/apierrors"
	"github.com/dtroode/furniture-server/internal/logger"
	"github.com/dtroode/furniture-server/internal/metrics"
	"github.com/dtroode/furniture-server/internal/model"
)

// Auth authenticates the storefront admin and manages the admin account.
type Auth struct {
	adminStore            model.AdminStore
	tokenManager          model.TokenManager
	hasher                model.PasswordHasher
	metrics               *metrics.Metrics
	logger                *logger.Logger
	allowOpenRegistration bool
	now                   func() time.Time

	dummyOnce sync.Once
	dummyHash []byte
}

func NewAuth(
	adminStore model.AdminStore,
	tokenManager model.TokenManager,
	hasher model.PasswordHasher,
	metrics *metrics.Metrics,
	logger *logger.Logger,
	allowOpenRegistration bool,
) *Auth {
	return &Auth{
		adminStore:            adminStore,
		tokenManager:          tokenManager,
		hasher:                hasher,
		metrics:               metrics,
		logger:                logger,
		allowOpenRegistration: allowOpenRegistration,
		now:                   time.Now,
	}
}

// Login verifies credentials and issues an access token.
// Unknown email and wrong password fail identically.
func (a *Auth) Login(ctx context.Context, email, password string) (model.LoginResult, error) {
	email = strings.TrimSpace(email)
	a.logger.Debug("Auth service: processing login",
		"email", email)

	admin, err := a.adminStore.GetByEmail(ctx, email)
	if err != nil && !errors.Is(err, model.ErrNotFound) {
		a.logger.Error("Auth service: failed to get admin by email",
			"email", email,
			"error", err.Error())
		return model.LoginResult{}, fmt.Errorf("failed to get admin by email: %w", err)
	}

	if errors.Is(err, model.ErrNotFound) {
		// Same work as a real comparison so response time does not reveal the account.
		_ = a.hasher.Compare(a.dummyPasswordHash(), password)
		a.metrics.RecordAuthAttempt("failure")
		a.logger.Info("Auth service: login failed",
			"email", email)
		return model.LoginResult{}, apierrors.NewErrInvalidCredentials()
	}

	if err := a.hasher.Compare(admin.PasswordHash, password); err != nil {
		a.metrics.RecordAuthAttempt("failure")
		a.logger.Info("Auth service: login failed",
			"email", email)
		return model.LoginResult{}, apierrors.NewErrInvalidCredentials()
	}

	token, err := a.tokenManager.GenerateAccessToken(admin.ID)
	if err != nil {
		a.logger.Error("Auth service: failed to generate access token",
			"admin_id", admin.ID,
			"error", err.Error())
		return model.LoginResult{}, fmt.Errorf("failed to generate access token: %w", err)
	}

	a.metrics.RecordAuthAttempt("success")
	a.logger.Info("Auth service: login completed",
		"admin_id", admin.ID)

	return model.LoginResult{ID: admin.ID, Email: admin.Email, Token: token}, nil
}

func (a *Auth) dummyPasswordHash() []byte {
	a.dummyOnce.Do(func() {
		hash, err := a.hasher.Hash(uuid.NewString())
		if err != nil {
			a.logger.Warn("Auth service: failed to prepare dummy hash",
				"error", err.Error())
			return
		}
		a.dummyHash = hash
	})
	return a.dummyHash
}

// Register creates an admin account. While no admin exists anyone may register;
// afterwards actor must identify an authenticated admin unless open registration is enabled.
func (a *Auth) Register(ctx context.Context, actor *uuid.UUID, email, password string) error {
	email = strings.TrimSpace(email)
	a.logger.Debug("Auth service: starting admin registration",
		"email", email)

	if email == "" || password == "" {
		return apierrors.NewErrInvalidInput("Email and password are required")
	}

	if actor == nil && !a.allowOpenRegistration {
		count, err := a.adminStore.Count(ctx)
		if err != nil {
			a.logger.Error("Auth service: failed to count admins",
				"error", err.Error())
			return fmt.Errorf("failed to count admins: %w", err)
		}
		if count > 0 {
			a.logger.Info("Auth service: registration rejected, admin already configured",
				"email", email)
			return apierrors.NewErrRegistrationClosed()
		}
	}

	if err := a.createAdmin(ctx, email, password); err != nil {
		return err
	}

	a.logger.Info("Auth service: admin registered",
		"email", email)
	return nil
}

func (a *Auth) createAdmin(ctx context.Context, email, password string) error {
	existing, err := a.adminStore.GetByEmail(ctx, email)
	if err != nil && !errors.Is(err, model.ErrNotFound) {
		a.logger.Error("Auth service: failed to get admin by email",
			"email", email,
			"error", err.Error())
		return fmt.Errorf("failed to get admin by email: %w", err)
	}
	if existing.ID != uuid.Nil {
		a.logger.Info("Auth service: admin already exists",
			"email", email)
		return apierrors.NewErrEmailIsTaken(email)
	}

	hash, err := a.hasher.Hash(password)
	if err != nil {
		return fmt.Errorf("failed to hash password: %w", err)
	}

	now := a.now()
	_, err = a.adminStore.Create(ctx, model.Admin{
		ID:           uuid.New(),
		Email:        email,
		PasswordHash: hash,
		CreatedAt:    now,
		UpdatedAt:    now,
	})
	if errors.Is(err, model.ErrAlreadyExists) {
		return apierrors.NewErrEmailIsTaken(email)
	}
	if err != nil {
		a.logger.Error("Auth service: failed to create admin",
			"email", email,
			"error", err.Error())
		return fmt.Errorf("failed to create admin: %w", err)
	}

	return nil
}

// UpdateAccount applies the non-empty fields of update to the actor's account.
func (a *Auth) UpdateAccount(ctx context.Context, adminID uuid.UUID, update model.AccountUpdate) error {
	a.logger.Debug("Auth service: updating account",
		"admin_id", adminID)

	admin, err := a.adminStore.GetByID(ctx, adminID)
	if errors.Is(err, model.ErrNotFound) {
		return apierrors.NewErrAdminNotFound()
	}
	if err != nil {
		a.logger.Error("Auth service: failed to get admin by id",
			"admin_id", adminID,
			"error", err.Error())
		return fmt.Errorf("failed to get admin by id: %w", err)
	}

	if email := strings.TrimSpace(update.Email); email != "" {
		admin.Email = email
	}
	if update.NewPassword != "" {
		hash, err := a.hasher.Hash(update.NewPassword)
		if err != nil {
			return fmt.Errorf("failed to hash password: %w", err)
		}
		admin.PasswordHash = hash
	}
	admin.UpdatedAt = a.now()

	_, err = a.adminStore.Update(ctx, admin)
	switch {
	case errors.Is(err, model.ErrAlreadyExists):
		return apierrors.NewErrEmailIsTaken(admin.Email)
	case errors.Is(err, model.ErrNotFound):
		return apierrors.NewErrAdminNotFound()
	case err != nil:
		a.logger.Error("Auth service: failed to update admin",
			"admin_id", adminID,
			"error", err.Error())
		return fmt.Errorf("failed to update admin: %w", err)
	}

	a.logger.Info("Auth service: account updated",
		"admin_id", adminID,
		"email_changed", update.Email != "",
		"password_changed", update.NewPassword != "")
	return nil
}

// GetAdminID resolves the admin a bearer token was issued to.
func (a *Auth) GetAdminID(ctx context.Context, token string) (uuid.UUID, error) {
	if token == "" {
		return uuid.Nil, apierrors.NewErrMissingAuthorizationToken()
	}

	adminID, err := a.tokenManager.ParseAccessToken(token)
	if err != nil {
		a.logger.Debug("Auth service: token rejected",
			"error", err.Error())
		return uuid.Nil, apierrors.NewErrInvalidAuthorizationToken()
	}

	return adminID, nil
}

// Bootstrap creates the admin account unless it already exists.
// It reports whether an account was created.
func (a *Auth) Bootstrap(ctx context.Context, email, password string) (bool, error) {
	email = strings.TrimSpace(email)
	if email == "" || password == "" {
		return false, apierrors.NewErrInvalidInput("Email and password are required")
	}

	err := a.createAdmin(ctx, email, password)
	var apiErr *apierrors.APIError
	if errors.As(err, &apiErr) && apiErr.Kind == apierrors.KindDuplicateAccount {
		a.logger.Info("Auth service: admin already exists, leaving credentials unchanged",
			"email", email)
		return false, nil
	}
	if err != nil {
		return false, err
	}

	a.logger.Info("Auth service: admin created",
		"email", email)
	return true, nil
}

// ResetPassword sets a new password for the admin with the given email.
func (a *Auth) ResetPassword(ctx context.Context, email, password string) error {
	email = strings.TrimSpace(email)
	if password == "" {
		return apierrors.NewErrInvalidInput("Password is required")
	}

	admin, err := a.adminStore.GetByEmail(ctx, email)
	if errors.Is(err, model.ErrNotFound) {
		return apierrors.NewErrAdminNotFound()
	}
	if err != nil {
		return fmt.Errorf("failed to get admin by email: %w", err)
	}

	return a.UpdateAccount(ctx, admin.ID, model.AccountUpdate{NewPassword: password})
}
