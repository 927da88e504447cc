package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lifeweavers/caseflow/internal/core/domain"
)

func newSessionFixture(t *testing.T, users ...*domain.User) (*SessionService, *stubSessionStore) {
	t.Helper()
	store := newStubSessionStore()
	return NewSessionService(newStubUserRepo(users...), store, discardLogger), store
}

func TestSessionService_CurrentCreatesAnchoredSession(t *testing.T) {
	sa := superAdmin("sa1")
	svc, _ := newSessionFixture(t, sa)

	sess, err := svc.Current(context.Background(), "sa1")
	require.NoError(t, err)
	assert.Equal(t, "sa1", sess.AnchorID)
	assert.False(t, sess.IsImpersonating())
	assert.Equal(t, "sa1", sess.ActorID())
}

func TestSessionService_StartImpersonation(t *testing.T) {
	sa := superAdmin("sa1")
	target := clinician("c1", "Casey")
	svc, store := newSessionFixture(t, sa, target)
	ctx := context.Background()

	sess, err := svc.StartImpersonation(ctx, "sa1", "c1")
	require.NoError(t, err)
	assert.True(t, sess.IsImpersonating())
	assert.Equal(t, "c1", sess.ActorID())
	assert.Equal(t, "sa1", sess.AnchorID)

	// Persisted, and visible to EffectiveActor.
	actor, _, err := svc.EffectiveActor(ctx, "sa1")
	require.NoError(t, err)
	assert.Equal(t, "c1", actor.ID)

	stored, err := store.Get(ctx, "sa1")
	require.NoError(t, err)
	assert.Equal(t, "c1", stored.TargetID)
}

func TestSessionService_StartImpersonation_Illegal(t *testing.T) {
	sa := superAdmin("sa1")
	a := admin("a1")
	c := clinician("c1", "Casey")
	svc, _ := newSessionFixture(t, sa, a, c)
	ctx := context.Background()

	// Non super admin anchor.
	_, err := svc.StartImpersonation(ctx, "a1", "c1")
	assert.ErrorIs(t, err, domain.ErrInvalidImpersonationTarget)

	// Self impersonation.
	_, err = svc.StartImpersonation(ctx, "sa1", "sa1")
	assert.ErrorIs(t, err, domain.ErrInvalidImpersonationTarget)

	// Unknown target.
	_, err = svc.StartImpersonation(ctx, "sa1", "ghost")
	assert.ErrorIs(t, err, domain.ErrUserNotFound)

	// Already impersonating: must stop first.
	_, err = svc.StartImpersonation(ctx, "sa1", "c1")
	require.NoError(t, err)
	_, err = svc.StartImpersonation(ctx, "sa1", "a1")
	assert.ErrorIs(t, err, domain.ErrInvalidImpersonationTarget)

	// Illegal calls leave the overlay unchanged.
	actor, _, err := svc.EffectiveActor(ctx, "sa1")
	require.NoError(t, err)
	assert.Equal(t, "c1", actor.ID)
}

func TestSessionService_StopImpersonation(t *testing.T) {
	sa := superAdmin("sa1")
	c := clinician("c1", "Casey")
	svc, _ := newSessionFixture(t, sa, c)
	ctx := context.Background()

	_, err := svc.StartImpersonation(ctx, "sa1", "c1")
	require.NoError(t, err)

	sess, err := svc.StopImpersonation(ctx, "sa1")
	require.NoError(t, err)
	assert.False(t, sess.IsImpersonating())
	assert.Equal(t, "sa1", sess.ActorID())

	// Stopping an anchored session is a no-op, not an error.
	sess, err = svc.StopImpersonation(ctx, "sa1")
	require.NoError(t, err)
	assert.False(t, sess.IsImpersonating())
}

func TestSessionService_LogoutClearsEverything(t *testing.T) {
	sa := superAdmin("sa1")
	c := clinician("c1", "Casey")
	svc, store := newSessionFixture(t, sa, c)
	ctx := context.Background()

	_, err := svc.StartImpersonation(ctx, "sa1", "c1")
	require.NoError(t, err)
	require.NoError(t, svc.Logout(ctx, "sa1"))

	_, err = store.Get(ctx, "sa1")
	assert.ErrorIs(t, err, domain.ErrSessionNotFound)

	// A fresh session after logout starts anchored.
	sess, err := svc.Current(ctx, "sa1")
	require.NoError(t, err)
	assert.False(t, sess.IsImpersonating())
}
