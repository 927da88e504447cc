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

// overdueGrace is how long past its due date the 30-day review may sit
// before the 60-day follow-up is generated even though the review was never
// completed.
const overdueGrace = 24 * time.Hour

// TaskService owns the task lifecycle for client records: milestone
// synchronization plus manual add/toggle/delete.
type TaskService struct {
	tasks   ports.TaskRepository
	clients ports.ClientRepository
	users   ports.UserRepository
	perms   ports.PermissionService

	// adminAnchor is the designated admin assignee attached to every
	// system-generated milestone task.
	adminAnchorID   string
	adminAnchorName string

	now func() time.Time
	log zerolog.Logger
}

func NewTaskService(
	tasks ports.TaskRepository,
	clients ports.ClientRepository,
	users ports.UserRepository,
	perms ports.PermissionService,
	adminAnchorID string,
	adminAnchorName string,
	now func() time.Time,
	log zerolog.Logger,
) *TaskService {
	if now == nil {
		now = func() time.Time { return time.Now().UTC() }
	}
	return &TaskService{
		tasks:           tasks,
		clients:         clients,
		users:           users,
		perms:           perms,
		adminAnchorID:   adminAnchorID,
		adminAnchorName: adminAnchorName,
		now:             now,
		log:             log,
	}
}

// ListTasks synchronizes milestone tasks for the client and returns the
// resulting list, persisting any newly generated milestones.
func (s *TaskService) ListTasks(ctx context.Context, actor *domain.User, clientID string) ([]*domain.ToDoTask, error) {
	client, err := s.clients.FindByID(ctx, clientID)
	if err != nil {
		return nil, err
	}
	if !s.perms.CapabilitiesFor(actor, client).ViewClient {
		return nil, domain.ErrPermissionDenied
	}

	existing, err := s.tasks.ListByClient(ctx, clientID)
	if err != nil {
		return nil, fmt.Errorf("list tasks: %w", err)
	}

	synced, err := s.Synchronize(ctx, client, existing)
	if err != nil {
		return nil, err
	}
	if len(synced) != len(existing) {
		if err := s.tasks.ReplaceAll(ctx, clientID, synced); err != nil {
			return nil, fmt.Errorf("persist synchronized tasks: %w", err)
		}
	}
	return synced, nil
}

// Synchronize generates due milestone tasks for the client. The result is a
// superset of existing, gains at most one task per milestone per call, and
// is idempotent for a fixed current date. It performs no writes; callers
// persist the result.
func (s *TaskService) Synchronize(ctx context.Context, client *domain.Client, existing []*domain.ToDoTask) ([]*domain.ToDoTask, error) {
	out := make([]*domain.ToDoTask, len(existing))
	copy(out, existing)

	thirtyDay := findMilestone(out, domain.MilestoneThirtyDayLabel)
	if thirtyDay == nil {
		due := startOfDay(client.DateAdded).AddDate(0, 0, 30)
		assignees, err := s.milestoneAssignees(ctx, client)
		if err != nil {
			return nil, err
		}
		thirtyDay = s.newMilestoneTask(client.ID, domain.MilestoneThirtyDayLabel, due, assignees)
		out = append(out, thirtyDay)
		s.log.Info().
			Str("client_id", client.ID).
			Time("due", due).
			Msg("30-day review task generated")
	}

	// The follow-up only materializes once the first review is done or has
	// been overdue for more than a day.
	reviewClosed := thirtyDay.IsDone ||
		(thirtyDay.DueDate != nil && s.now().After(thirtyDay.DueDate.Add(overdueGrace)))
	if !reviewClosed {
		return out, nil
	}

	var due time.Time
	if thirtyDay.DueDate != nil {
		due = startOfDay(*thirtyDay.DueDate).AddDate(0, 0, 60)
	} else {
		due = startOfDay(client.DateAdded).AddDate(0, 0, 90)
	}

	for _, t := range out {
		if t.IsSystemGenerated && t.Description == domain.MilestoneSixtyDayLabel && t.DueOn(due) {
			return out, nil
		}
	}

	assignees, err := s.milestoneAssignees(ctx, client)
	if err != nil {
		return nil, err
	}
	out = append(out, s.newMilestoneTask(client.ID, domain.MilestoneSixtyDayLabel, due, assignees))
	s.log.Info().
		Str("client_id", client.ID).
		Time("due", due).
		Msg("60-day follow-up task generated")
	return out, nil
}

// AddTask creates a manual task on the client record.
func (s *TaskService) AddTask(ctx context.Context, actor *domain.User, input ports.AddTaskInput) (*domain.ToDoTask, error) {
	client, err := s.clients.FindByID(ctx, input.ClientID)
	if err != nil {
		return nil, err
	}
	if !s.perms.CapabilitiesFor(actor, client).ManageTasks {
		return nil, domain.ErrPermissionDenied
	}
	if len(input.AssigneeIDs) == 0 {
		return nil, domain.ErrAssigneeRequired
	}

	assignees := make([]domain.Ref, 0, len(input.AssigneeIDs))
	seen := make(map[string]struct{}, len(input.AssigneeIDs))
	for _, id := range input.AssigneeIDs {
		if _, dup := seen[id]; dup {
			continue
		}
		seen[id] = struct{}{}
		u, err := s.users.FindByID(ctx, id)
		if err != nil {
			return nil, err
		}
		assignees = append(assignees, domain.Ref{ID: u.ID, Name: u.Name})
	}

	var due *time.Time
	if input.DueDate != nil {
		d := startOfDay(*input.DueDate)
		due = &d
	}

	task := &domain.ToDoTask{
		ID:          idx.New(),
		ClientID:    input.ClientID,
		Description: input.Description,
		CreatedAt:   s.now(),
		AddedBy:     domain.Ref{ID: actor.ID, Name: actor.Name},
		Assignees:   assignees,
		DueDate:     due,
	}

	existing, err := s.tasks.ListByClient(ctx, input.ClientID)
	if err != nil {
		return nil, fmt.Errorf("list tasks: %w", err)
	}
	if err := s.tasks.ReplaceAll(ctx, input.ClientID, append(existing, task)); err != nil {
		return nil, fmt.Errorf("persist task: %w", err)
	}

	s.log.Info().
		Str("task_id", task.ID).
		Str("client_id", input.ClientID).
		Str("added_by", actor.ID).
		Msg("task added")
	return task, nil
}

// ToggleTask flips a task's done state. Completing a system-generated task
// re-runs Synchronize so the next milestone can materialize without waiting
// for the next scheduled pass.
func (s *TaskService) ToggleTask(ctx context.Context, actor *domain.User, taskID string) (*domain.ToDoTask, error) {
	task, err := s.tasks.FindByID(ctx, taskID)
	if err != nil {
		return nil, err
	}
	client, err := s.clients.FindByID(ctx, task.ClientID)
	if err != nil {
		return nil, err
	}
	if !s.perms.CapabilitiesFor(actor, client).ManageTasks {
		return nil, domain.ErrPermissionDenied
	}

	task.IsDone = !task.IsDone
	if task.IsDone {
		now := s.now()
		task.CompletedAt = &now
		task.CompletedBy = &domain.Ref{ID: actor.ID, Name: actor.Name}
	} else {
		task.CompletedAt = nil
		task.CompletedBy = nil
	}

	list, err := s.tasks.ListByClient(ctx, task.ClientID)
	if err != nil {
		return nil, fmt.Errorf("list tasks: %w", err)
	}
	for i, t := range list {
		if t.ID == task.ID {
			list[i] = task
		}
	}

	if task.IsSystemGenerated && task.IsDone {
		list, err = s.Synchronize(ctx, client, list)
		if err != nil {
			return nil, err
		}
	}
	if err := s.tasks.ReplaceAll(ctx, task.ClientID, list); err != nil {
		return nil, fmt.Errorf("persist tasks: %w", err)
	}

	s.log.Info().
		Str("task_id", task.ID).
		Bool("is_done", task.IsDone).
		Str("actor_id", actor.ID).
		Msg("task toggled")
	return task, nil
}

// DeleteTask removes a task subject to system-task protection.
func (s *TaskService) DeleteTask(ctx context.Context, actor *domain.User, taskID string) error {
	task, err := s.tasks.FindByID(ctx, taskID)
	if err != nil {
		return err
	}
	if err := s.perms.AuthorizeTaskDeletion(ctx, actor, task); err != nil {
		return err
	}
	if err := s.tasks.Delete(ctx, taskID); err != nil {
		return fmt.Errorf("delete task: %w", err)
	}

	s.log.Info().
		Str("task_id", taskID).
		Str("actor_id", actor.ID).
		Bool("system_generated", task.IsSystemGenerated).
		Msg("task deleted")
	return nil
}

// milestoneAssignees resolves the milestone assignment: the client's first
// team member (when resolvable) plus the designated admin anchor, deduped.
// An empty team yields the admin anchor alone.
func (s *TaskService) milestoneAssignees(ctx context.Context, client *domain.Client) ([]domain.Ref, error) {
	admin := domain.Ref{ID: s.adminAnchorID, Name: s.adminAnchorName}
	if u, err := s.users.FindByID(ctx, s.adminAnchorID); err == nil {
		admin.Name = u.Name
	}

	if firstID := client.FirstTeamMemberID(); firstID != "" {
		if u, err := s.users.FindByID(ctx, firstID); err == nil {
			if u.ID == admin.ID {
				return []domain.Ref{admin}, nil
			}
			return []domain.Ref{{ID: u.ID, Name: u.Name}, admin}, nil
		}
	}
	return []domain.Ref{admin}, nil
}

func (s *TaskService) newMilestoneTask(clientID, label string, due time.Time, assignees []domain.Ref) *domain.ToDoTask {
	return &domain.ToDoTask{
		ID:                idx.New(),
		ClientID:          clientID,
		Description:       label,
		CreatedAt:         s.now(),
		AddedBy:           domain.SystemRef,
		Assignees:         assignees,
		DueDate:           &due,
		IsSystemGenerated: true,
	}
}

func findMilestone(tasks []*domain.ToDoTask, label string) *domain.ToDoTask {
	for _, t := range tasks {
		if t.IsSystemGenerated && t.Description == label {
			return t
		}
	}
	return nil
}

// startOfDay truncates t to midnight UTC. Milestone due dates are calendar
// days, so all date math runs through this.
func startOfDay(t time.Time) time.Time {
	y, m, d := t.UTC().Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}
