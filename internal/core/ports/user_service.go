package ports

import (
	"context"

	"github.com/lifeweavers/caseflow/internal/core/domain"
)

// AuthService authenticates users and mints access tokens.
type AuthService interface {
	Login(ctx context.Context, email, password string) (string, *domain.User, error)
}

// UserService exposes registry operations gated by the permission resolver.
type UserService interface {
	// ListUsers returns the registry. Requires an administrative actor.
	ListUsers(ctx context.Context, actor *domain.User) ([]*domain.User, error)

	// RemoveUser deletes the target after last-admin protection checks.
	RemoveUser(ctx context.Context, session *domain.Session, targetID string) error
}
