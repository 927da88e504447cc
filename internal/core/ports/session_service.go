package ports

import (
	"context"

	"github.com/lifeweavers/caseflow/internal/core/domain"
)

// SessionService manages the per-login impersonation session. Callers must
// resolve the effective actor through the session on every request rather
// than caching it, so that each authorization check reflects the current
// overlay.
type SessionService interface {
	// Current returns the anchor's session, creating an anchored one when
	// none is stored yet.
	Current(ctx context.Context, anchorID string) (*domain.Session, error)

	// EffectiveActor resolves the session and loads the effective actor's
	// user record.
	EffectiveActor(ctx context.Context, anchorID string) (*domain.User, *domain.Session, error)

	// StartImpersonation overlays the target identity on the anchor's
	// session. Fails with domain.ErrInvalidImpersonationTarget when the
	// preconditions are unmet; the stored session is left unchanged.
	StartImpersonation(ctx context.Context, anchorID, targetID string) (*domain.Session, error)

	// StopImpersonation clears the overlay. A no-op when already anchored.
	StopImpersonation(ctx context.Context, anchorID string) (*domain.Session, error)

	// Logout destroys the session entirely.
	Logout(ctx context.Context, anchorID string) error
}
