package service

import (
	"context"
	"fmt"

	"github.com/rs/zerolog"

	"github.com/lifeweavers/caseflow/internal/core/domain"
	"github.com/lifeweavers/caseflow/internal/core/ports"
)

// PermissionService resolves role/team-based capabilities and authorizes the
// two guarded mutations (user removal, task deletion). It never mutates
// state itself.
type PermissionService struct {
	users   ports.UserRepository
	clients ports.ClientRepository
	log     zerolog.Logger
}

func NewPermissionService(users ports.UserRepository, clients ports.ClientRepository, log zerolog.Logger) *PermissionService {
	return &PermissionService{users: users, clients: clients, log: log}
}

// CapabilitiesFor maps {actor, target client} to a capability set.
// Precedence: Super Admin gets the full set everywhere; Admin gets the full
// record set plus user management, but may neither impersonate nor delete
// system tasks; a Clinician gets record capabilities only on clients whose
// team includes them. Anything else resolves to the empty set — this method
// never errors.
func (s *PermissionService) CapabilitiesFor(actor *domain.User, client *domain.Client) ports.Capabilities {
	if actor == nil {
		return ports.Capabilities{}
	}

	switch actor.Role {
	case domain.RoleSuperAdmin:
		return ports.Capabilities{
			ViewClient:        true,
			EditRecord:        true,
			ManageTasks:       true,
			ManageTeam:        true,
			ManageUsers:       true,
			Impersonate:       true,
			DeleteSystemTasks: true,
		}
	case domain.RoleAdmin:
		return ports.Capabilities{
			ViewClient:  true,
			EditRecord:  true,
			ManageTasks: true,
			ManageTeam:  true,
			ManageUsers: true,
		}
	case domain.RoleClinician:
		if client == nil || !client.HasTeamMember(actor.ID) {
			return ports.Capabilities{}
		}
		return ports.Capabilities{
			ViewClient:  true,
			EditRecord:  true,
			ManageTasks: true,
		}
	default:
		return ports.Capabilities{}
	}
}

// AuthorizeUserRemoval enforces last-admin protection. Removal is denied
// when the target is the only remaining Super Admin (regardless of actor),
// when the target is the session's anchor identity, or when the target is
// the session's effective actor.
func (s *PermissionService) AuthorizeUserRemoval(ctx context.Context, session *domain.Session, target *domain.User) error {
	if session == nil || target == nil {
		return domain.ErrPermissionDenied
	}

	if target.Role == domain.RoleSuperAdmin {
		n, err := s.users.CountByRole(ctx, domain.RoleSuperAdmin)
		if err != nil {
			return fmt.Errorf("count super admins: %w", err)
		}
		if n <= 1 {
			s.log.Warn().Str("target_id", target.ID).Msg("removal of the only super admin denied")
			return domain.ErrPermissionDenied
		}
	}

	if target.ID == session.AnchorID || target.ID == session.ActorID() {
		return domain.ErrPermissionDenied
	}

	actor, err := s.users.FindByID(ctx, session.ActorID())
	if err != nil {
		return fmt.Errorf("resolve effective actor: %w", err)
	}
	if !actor.Role.IsAdministrative() {
		return domain.ErrPermissionDenied
	}
	// Only a Super Admin may remove another Super Admin.
	if target.Role == domain.RoleSuperAdmin && actor.Role != domain.RoleSuperAdmin {
		return domain.ErrPermissionDenied
	}
	return nil
}

// AuthorizeTaskDeletion enforces system-task protection: system-generated
// tasks are deletable by Super Admins only; manual tasks require ManageTasks
// capability on the owning client.
func (s *PermissionService) AuthorizeTaskDeletion(ctx context.Context, actor *domain.User, task *domain.ToDoTask) error {
	if actor == nil || task == nil {
		return domain.ErrPermissionDenied
	}

	if task.IsSystemGenerated {
		if actor.Role != domain.RoleSuperAdmin {
			s.log.Debug().
				Str("actor_id", actor.ID).
				Str("task_id", task.ID).
				Msg("system task deletion denied")
			return domain.ErrPermissionDenied
		}
		return nil
	}

	client, err := s.clients.FindByID(ctx, task.ClientID)
	if err != nil {
		return fmt.Errorf("resolve task client: %w", err)
	}
	if !s.CapabilitiesFor(actor, client).ManageTasks {
		return domain.ErrPermissionDenied
	}
	return nil
}
