package model

import (
	"context"

	"github.com/google/uuid"
)

type ContextManager interface {
	SetAdminIDToContext(ctx context.Context, adminID uuid.UUID) context.Context
	GetAdminIDFromContext(ctx context.Context) (uuid.UUID, bool)
}
