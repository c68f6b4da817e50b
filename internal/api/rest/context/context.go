package context

import (
	"context"

	"github.com/google/uuid"
)

type adminIDKey struct{}

// Manager stores the authenticated admin ID on request contexts.
type Manager struct{}

// NewManager creates a new context manager instance.
func NewManager() *Manager {
	return &Manager{}
}

// SetAdminIDToContext returns a copy of ctx carrying adminID.
func (m *Manager) SetAdminIDToContext(ctx context.Context, adminID uuid.UUID) context.Context {
	return context.WithValue(ctx, adminIDKey{}, adminID)
}

// GetAdminIDFromContext returns the admin ID set by the authentication
// middleware and whether the request was authenticated.
func (m *Manager) GetAdminIDFromContext(ctx context.Context) (uuid.UUID, bool) {
	adminID, ok := ctx.Value(adminIDKey{}).(uuid.UUID)
	if !ok || adminID == uuid.Nil {
		return uuid.Nil, false
	}
	return adminID, true
}
