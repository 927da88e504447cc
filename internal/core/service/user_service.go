package service

import (
	"context"
	"fmt"

	"github.com/rs/zerolog"

	"github.com/lifeweavers/caseflow/internal/core/domain"
	"github.com/lifeweavers/caseflow/internal/core/ports"
)

// UserService exposes registry operations gated by the permission resolver.
type UserService struct {
	users ports.UserRepository
	perms ports.PermissionService
	log   zerolog.Logger
}

func NewUserService(users ports.UserRepository, perms ports.PermissionService, log zerolog.Logger) *UserService {
	return &UserService{users: users, perms: perms, log: log}
}

// ListUsers returns the registry in registry order. Clinicians are denied.
func (s *UserService) ListUsers(ctx context.Context, actor *domain.User) ([]*domain.User, error) {
	if !s.perms.CapabilitiesFor(actor, nil).ManageUsers {
		return nil, domain.ErrPermissionDenied
	}
	return s.users.List(ctx)
}

// RemoveUser deletes the target after last-admin protection checks.
func (s *UserService) RemoveUser(ctx context.Context, session *domain.Session, targetID string) error {
	target, err := s.users.FindByID(ctx, targetID)
	if err != nil {
		return err
	}
	if err := s.perms.AuthorizeUserRemoval(ctx, session, target); err != nil {
		return err
	}
	if err := s.users.Delete(ctx, targetID); err != nil {
		return fmt.Errorf("delete user: %w", err)
	}

	s.log.Info().
		Str("target_id", targetID).
		Str("anchor_id", session.AnchorID).
		Msg("user removed")
	return nil
}
