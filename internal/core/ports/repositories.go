package ports

import (
	"context"

	"github.com/lifeweavers/caseflow/internal/core/domain"
)

// UserRepository defines persistence operations for users.
type UserRepository interface {
	FindByID(ctx context.Context, id string) (*domain.User, error)
	FindByEmail(ctx context.Context, email string) (*domain.User, error)
	// List returns all users in registry order (insertion order).
	List(ctx context.Context) ([]*domain.User, error)
	CountByRole(ctx context.Context, role domain.Role) (int64, error)
	Delete(ctx context.Context, id string) error
}

// ClientRepository defines persistence operations for client records.
type ClientRepository interface {
	FindByID(ctx context.Context, id string) (*domain.Client, error)
	List(ctx context.Context) ([]*domain.Client, error)
	// UpdateTeam replaces the client's team membership. DateAdded is never
	// touched by any update path.
	UpdateTeam(ctx context.Context, clientID string, teamMemberIDs []string) error
}

// TaskRepository defines persistence operations for to-do tasks. The task
// list of a client is read and written as a unit so that milestone
// synchronization stays a read-modify-replace cycle on one document set.
type TaskRepository interface {
	ListByClient(ctx context.Context, clientID string) ([]*domain.ToDoTask, error)
	FindByID(ctx context.Context, id string) (*domain.ToDoTask, error)
	ReplaceAll(ctx context.Context, clientID string, tasks []*domain.ToDoTask) error
	Delete(ctx context.Context, id string) error
}

// ThreadRepository defines persistence operations for message threads.
type ThreadRepository interface {
	// ListByParticipant returns the user's threads, most recent activity
	// first.
	ListByParticipant(ctx context.Context, userID string) ([]*domain.MessageThread, error)
	Create(ctx context.Context, thread *domain.MessageThread) error
}

// SessionStore holds at most one impersonation session per anchor identity.
type SessionStore interface {
	Get(ctx context.Context, anchorID string) (*domain.Session, error)
	Put(ctx context.Context, session *domain.Session) error
	Delete(ctx context.Context, anchorID string) error
}
