package ports

import (
	"context"

	"github.com/lifeweavers/caseflow/internal/core/domain"
)

// MessagingService decides which user pairs may open a direct conversation
// and creates the resulting threads. Eligibility is evaluated at thread
// creation time only; existing threads are never revoked when team
// membership later changes.
type MessagingService interface {
	// CanDirectMessage reports whether a and b may form a DM thread. Either
	// participant holding an administrative role is always sufficient; two
	// clinicians qualify iff they share at least one client team. Symmetric.
	CanDirectMessage(ctx context.Context, a, b *domain.User) (bool, error)

	// EligibleNewDMTargets returns, in registry order, every user the actor
	// could open a new DM with: eligible pairs minus the actor and minus
	// anyone already sharing a DM thread with the actor. An empty result is
	// a valid outcome, not an error.
	EligibleNewDMTargets(ctx context.Context, actor *domain.User) ([]*domain.User, error)

	// CreateDirectThread opens a DM between the actor and target after an
	// eligibility check. Duplicate pairs fail with domain.ErrDuplicateThread.
	CreateDirectThread(ctx context.Context, actor *domain.User, targetID string) (*domain.MessageThread, error)

	// ListThreads returns the actor's threads, most recent activity first.
	ListThreads(ctx context.Context, actor *domain.User) ([]*domain.MessageThread, error)
}
