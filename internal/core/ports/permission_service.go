package ports

import (
	"context"

	"github.com/lifeweavers/caseflow/internal/core/domain"
)

// Capabilities is the set of actions an actor may perform on a client record
// and on the user registry. The zero value is a full denial, which is also
// the resolver's failure mode.
type Capabilities struct {
	ViewClient        bool `json:"view_client"`
	EditRecord        bool `json:"edit_record"`
	ManageTasks       bool `json:"manage_tasks"`
	ManageTeam        bool `json:"manage_team"`
	ManageUsers       bool `json:"manage_users"`
	Impersonate       bool `json:"impersonate"`
	DeleteSystemTasks bool `json:"delete_system_tasks"`
}

// None reports whether the capability set is empty.
func (c Capabilities) None() bool {
	return c == Capabilities{}
}

// PermissionService resolves capabilities and authorizes the two guarded
// mutations. It is purely evaluative: authorization methods decide, they
// never mutate.
type PermissionService interface {
	// CapabilitiesFor maps {actor, target client} to a capability set.
	// client may be nil for registry-level checks. Unknown roles resolve to
	// the empty set; this method never errors.
	CapabilitiesFor(actor *domain.User, client *domain.Client) Capabilities

	// AuthorizeUserRemoval enforces last-admin protection: removal fails
	// when the target is the only remaining Super Admin, the session's
	// anchor, or the session's effective actor.
	AuthorizeUserRemoval(ctx context.Context, session *domain.Session, target *domain.User) error

	// AuthorizeTaskDeletion enforces system-task protection: system-generated
	// tasks are deletable by Super Admins only, manual tasks by anyone whose
	// capability set on the owning client includes ManageTasks.
	AuthorizeTaskDeletion(ctx context.Context, actor *domain.User, task *domain.ToDoTask) error
}
