package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/rs/zerolog"

	"github.com/lifeweavers/caseflow/internal/core/domain"
	"github.com/lifeweavers/caseflow/internal/core/ports"
)

// SessionService manages the impersonation overlay for each authenticated
// login. The overlay lives in the session store (one entry per anchor) so
// every request resolves the current effective actor.
type SessionService struct {
	users ports.UserRepository
	store ports.SessionStore
	log   zerolog.Logger
}

func NewSessionService(users ports.UserRepository, store ports.SessionStore, log zerolog.Logger) *SessionService {
	return &SessionService{users: users, store: store, log: log}
}

// Current returns the anchor's session, creating an anchored one when none
// is stored yet.
func (s *SessionService) Current(ctx context.Context, anchorID string) (*domain.Session, error) {
	sess, err := s.store.Get(ctx, anchorID)
	if err == nil {
		return sess, nil
	}
	if !errors.Is(err, domain.ErrSessionNotFound) {
		return nil, fmt.Errorf("load session: %w", err)
	}

	anchor, err := s.users.FindByID(ctx, anchorID)
	if err != nil {
		return nil, err
	}
	sess = domain.NewSession(anchor, time.Now().UTC())
	if err := s.store.Put(ctx, sess); err != nil {
		return nil, fmt.Errorf("store session: %w", err)
	}
	return sess, nil
}

// EffectiveActor resolves the session and loads the effective actor's user
// record.
func (s *SessionService) EffectiveActor(ctx context.Context, anchorID string) (*domain.User, *domain.Session, error) {
	sess, err := s.Current(ctx, anchorID)
	if err != nil {
		return nil, nil, err
	}
	actor, err := s.users.FindByID(ctx, sess.ActorID())
	if err != nil {
		return nil, nil, err
	}
	return actor, sess, nil
}

// StartImpersonation overlays the target identity on the anchor's session.
// The stored session is only updated when the transition is legal.
func (s *SessionService) StartImpersonation(ctx context.Context, anchorID, targetID string) (*domain.Session, error) {
	sess, err := s.Current(ctx, anchorID)
	if err != nil {
		return nil, err
	}

	target, err := s.users.FindByID(ctx, targetID)
	if err != nil {
		return nil, err
	}

	if err := sess.StartImpersonation(target); err != nil {
		return nil, err
	}
	if err := s.store.Put(ctx, sess); err != nil {
		return nil, fmt.Errorf("store session: %w", err)
	}

	s.log.Info().
		Str("anchor_id", anchorID).
		Str("target_id", targetID).
		Msg("impersonation started")
	return sess, nil
}

// StopImpersonation clears the overlay. A no-op when already anchored.
func (s *SessionService) StopImpersonation(ctx context.Context, anchorID string) (*domain.Session, error) {
	sess, err := s.Current(ctx, anchorID)
	if err != nil {
		return nil, err
	}
	if !sess.IsImpersonating() {
		return sess, nil
	}

	target := sess.TargetID
	sess.StopImpersonation()
	if err := s.store.Put(ctx, sess); err != nil {
		return nil, fmt.Errorf("store session: %w", err)
	}

	s.log.Info().
		Str("anchor_id", anchorID).
		Str("target_id", target).
		Msg("impersonation stopped")
	return sess, nil
}

// Logout destroys the session, clearing any overlay with it.
func (s *SessionService) Logout(ctx context.Context, anchorID string) error {
	if err := s.store.Delete(ctx, anchorID); err != nil {
		return fmt.Errorf("delete session: %w", err)
	}
	return nil
}
