package model

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// AdminStore defines persistence operations for admin accounts.
type AdminStore interface {
	GetByEmail(ctx context.Context, email string) (Admin, error)
	GetByID(ctx context.Context, id uuid.UUID) (Admin, error)
	Create(ctx context.Context, admin Admin) (Admin, error)
	Update(ctx context.Context, admin Admin) (Admin, error)
	Count(ctx context.Context) (int64, error)
}

// Admin represents the administrative principal of the storefront.
type Admin struct {
	ID           uuid.UUID `json:"_id"`
	Email        string    `json:"email"`
	PasswordHash []byte    `json:"-"`
	CreatedAt    time.Time `json:"createdAt"`
	UpdatedAt    time.Time `json:"updatedAt"`
}

// LoginResult is returned to an admin after a successful login.
type LoginResult struct {
	ID    uuid.UUID `json:"_id"`
	Email string    `json:"email"`
	Token string    `json:"token"`
}

// AccountUpdate carries optional changes to the admin account.
// Empty fields are left unchanged.
type AccountUpdate struct {
	Email       string
	NewPassword string
}
