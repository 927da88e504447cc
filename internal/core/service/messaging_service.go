package service

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/zerolog"

	"github.com/lifeweavers/caseflow/internal/core/domain"
	"github.com/lifeweavers/caseflow/internal/core/ports"
	"github.com/lifeweavers/caseflow/pkg/idx"
)

// MessagingService decides which user pairs may open a direct conversation.
// Eligibility is evaluated at thread creation time only; a thread stays
// valid even if its clinician pair later stops sharing a client team.
type MessagingService struct {
	users   ports.UserRepository
	clients ports.ClientRepository
	threads ports.ThreadRepository
	log     zerolog.Logger
}

func NewMessagingService(users ports.UserRepository, clients ports.ClientRepository, threads ports.ThreadRepository, log zerolog.Logger) *MessagingService {
	return &MessagingService{users: users, clients: clients, threads: threads, log: log}
}

// CanDirectMessage reports whether a and b may form a DM thread. Either
// participant holding an administrative role is always sufficient; two
// clinicians qualify iff they share at least one client team. Symmetric by
// construction.
func (s *MessagingService) CanDirectMessage(ctx context.Context, a, b *domain.User) (bool, error) {
	if a == nil || b == nil || a.ID == b.ID {
		return false, nil
	}
	if a.Role.IsAdministrative() || b.Role.IsAdministrative() {
		return true, nil
	}

	clients, err := s.clients.List(ctx)
	if err != nil {
		return false, fmt.Errorf("list clients: %w", err)
	}
	for _, c := range clients {
		if c.HasTeamMember(a.ID) && c.HasTeamMember(b.ID) {
			return true, nil
		}
	}
	return false, nil
}

// EligibleNewDMTargets returns, in registry order, every user the actor
// could open a new DM with: eligible pairs minus the actor and minus anyone
// already sharing a DM thread with the actor. An empty slice is a valid
// outcome.
func (s *MessagingService) EligibleNewDMTargets(ctx context.Context, actor *domain.User) ([]*domain.User, error) {
	all, err := s.users.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("list users: %w", err)
	}
	existing, err := s.threads.ListByParticipant(ctx, actor.ID)
	if err != nil {
		return nil, fmt.Errorf("list threads: %w", err)
	}

	targets := make([]*domain.User, 0, len(all))
	for _, u := range all {
		if u.ID == actor.ID {
			continue
		}
		if hasDMBetween(existing, actor.ID, u.ID) {
			continue
		}
		ok, err := s.CanDirectMessage(ctx, actor, u)
		if err != nil {
			return nil, err
		}
		if ok {
			targets = append(targets, u)
		}
	}
	return targets, nil
}

// CreateDirectThread opens a DM between the actor and target. The
// eligibility predicate is enforced here and never re-checked afterwards.
func (s *MessagingService) CreateDirectThread(ctx context.Context, actor *domain.User, targetID string) (*domain.MessageThread, error) {
	target, err := s.users.FindByID(ctx, targetID)
	if err != nil {
		return nil, err
	}

	ok, err := s.CanDirectMessage(ctx, actor, target)
	if err != nil {
		return nil, err
	}
	if !ok {
		s.log.Debug().
			Str("actor_id", actor.ID).
			Str("target_id", targetID).
			Msg("dm pair not eligible")
		return nil, domain.ErrPermissionDenied
	}

	existing, err := s.threads.ListByParticipant(ctx, actor.ID)
	if err != nil {
		return nil, fmt.Errorf("list threads: %w", err)
	}
	if hasDMBetween(existing, actor.ID, target.ID) {
		return nil, domain.ErrDuplicateThread
	}

	now := time.Now().UTC()
	thread := &domain.MessageThread{
		ID:             idx.New(),
		Type:           domain.ThreadDM,
		ParticipantIDs: []string{actor.ID, target.ID},
		CreatedAt:      now,
		LastMessageAt:  now,
	}
	if err := s.threads.Create(ctx, thread); err != nil {
		return nil, fmt.Errorf("create thread: %w", err)
	}

	s.log.Info().
		Str("thread_id", thread.ID).
		Str("actor_id", actor.ID).
		Str("target_id", target.ID).
		Msg("dm thread created")
	return thread, nil
}

// ListThreads returns the actor's threads, most recent activity first.
func (s *MessagingService) ListThreads(ctx context.Context, actor *domain.User) ([]*domain.MessageThread, error) {
	return s.threads.ListByParticipant(ctx, actor.ID)
}

func hasDMBetween(threads []*domain.MessageThread, a, b string) bool {
	for _, t := range threads {
		if t.IsDMBetween(a, b) {
			return true
		}
	}
	return false
}
