package service

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lifeweavers/caseflow/internal/core/domain"
	"github.com/lifeweavers/caseflow/internal/core/ports"
)

const (
	adminAnchorID   = "admin-1"
	adminAnchorName = "Alex Admin"
)

type taskFixture struct {
	svc     *TaskService
	tasks   *stubTaskRepo
	clients *stubClientRepo
	users   *stubUserRepo
	now     time.Time
}

func newTaskFixture(t *testing.T, clients []*domain.Client, users ...*domain.User) *taskFixture {
	t.Helper()
	f := &taskFixture{
		tasks:   newStubTaskRepo(),
		clients: newStubClientRepo(clients...),
		users:   newStubUserRepo(users...),
		now:     mustParseDay("2024-01-01"),
	}
	perms := NewPermissionService(f.users, f.clients, discardLogger)
	f.svc = NewTaskService(
		f.tasks, f.clients, f.users, perms,
		adminAnchorID, adminAnchorName,
		func() time.Time { return f.now },
		discardLogger,
	)
	return f
}

func mustParseDay(s string) time.Time {
	d, err := time.Parse("2006-01-02", s)
	if err != nil {
		panic(err)
	}
	return d.UTC()
}

func anchorAdmin() *domain.User {
	return &domain.User{ID: adminAnchorID, Email: "admin@example.com", Name: adminAnchorName, Role: domain.RoleAdmin}
}

func assigneeIDs(t *domain.ToDoTask) []string {
	ids := make([]string, 0, len(t.Assignees))
	for _, a := range t.Assignees {
		ids = append(ids, a.ID)
	}
	return ids
}

// Scenario: client enrolled 2024-01-01 with an empty team. A first
// synchronization yields exactly one task, due 2024-01-31, assigned to the
// admin anchor only.
func TestSynchronize_ThirtyDayReview_EmptyTeam(t *testing.T) {
	client := &domain.Client{ID: "client-1", DateAdded: mustParseDay("2024-01-01")}
	f := newTaskFixture(t, []*domain.Client{client}, anchorAdmin())

	out, err := f.svc.Synchronize(context.Background(), client, nil)
	require.NoError(t, err)
	require.Len(t, out, 1)

	task := out[0]
	assert.Equal(t, domain.MilestoneThirtyDayLabel, task.Description)
	assert.True(t, task.IsSystemGenerated)
	assert.False(t, task.IsDone)
	assert.Equal(t, domain.SystemRef, task.AddedBy)
	require.NotNil(t, task.DueDate)
	assert.Equal(t, mustParseDay("2024-01-31"), *task.DueDate)
	assert.Equal(t, []string{adminAnchorID}, assigneeIDs(task))
}

func TestSynchronize_ThirtyDayReview_TeamAssignment(t *testing.T) {
	c1 := clinician("c1", "Casey Clinician")
	client := &domain.Client{
		ID:            "client-1",
		DateAdded:     mustParseDay("2024-01-01"),
		TeamMemberIDs: []string{"c1", "c2"},
	}
	f := newTaskFixture(t, []*domain.Client{client}, anchorAdmin(), c1)

	out, err := f.svc.Synchronize(context.Background(), client, nil)
	require.NoError(t, err)
	require.Len(t, out, 1)

	// First team member plus the admin anchor.
	assert.Equal(t, []string{"c1", adminAnchorID}, assigneeIDs(out[0]))
}

// Idempotence: synchronizing the synchronized output with an unchanged date
// adds nothing.
func TestSynchronize_Idempotent(t *testing.T) {
	client := &domain.Client{ID: "client-1", DateAdded: mustParseDay("2024-01-01")}
	f := newTaskFixture(t, []*domain.Client{client}, anchorAdmin())
	ctx := context.Background()

	once, err := f.svc.Synchronize(ctx, client, nil)
	require.NoError(t, err)
	twice, err := f.svc.Synchronize(ctx, client, once)
	require.NoError(t, err)
	assert.Len(t, twice, len(once))

	// Still idempotent after the follow-up milestone exists.
	once[0].IsDone = true
	withFollowUp, err := f.svc.Synchronize(ctx, client, once)
	require.NoError(t, err)
	require.Len(t, withFollowUp, 2)
	again, err := f.svc.Synchronize(ctx, client, withFollowUp)
	require.NoError(t, err)
	assert.Len(t, again, 2)
}

// Cascade ordering: the follow-up never appears while the first review is
// pending and not yet overdue by more than a day.
func TestSynchronize_FollowUpGated(t *testing.T) {
	client := &domain.Client{ID: "client-1", DateAdded: mustParseDay("2024-01-01")}
	f := newTaskFixture(t, []*domain.Client{client}, anchorAdmin())
	ctx := context.Background()

	out, err := f.svc.Synchronize(ctx, client, nil)
	require.NoError(t, err)
	require.Len(t, out, 1)

	// On the due date itself: still just the review.
	f.now = mustParseDay("2024-01-31")
	out, err = f.svc.Synchronize(ctx, client, out)
	require.NoError(t, err)
	assert.Len(t, out, 1)

	// One day past due is within the grace window.
	f.now = mustParseDay("2024-02-01")
	out, err = f.svc.Synchronize(ctx, client, out)
	require.NoError(t, err)
	assert.Len(t, out, 1)

	// More than a day overdue: the follow-up materializes.
	f.now = mustParseDay("2024-02-02").Add(time.Hour)
	out, err = f.svc.Synchronize(ctx, client, out)
	require.NoError(t, err)
	require.Len(t, out, 2)
	assert.Equal(t, domain.MilestoneSixtyDayLabel, out[1].Description)
}

// Scenario: the 30-day review is completed early; the next synchronization
// yields the follow-up due 60 days after the review's due date.
func TestSynchronize_FollowUpAfterCompletion(t *testing.T) {
	client := &domain.Client{ID: "client-1", DateAdded: mustParseDay("2024-01-01")}
	f := newTaskFixture(t, []*domain.Client{client}, anchorAdmin())
	ctx := context.Background()

	out, err := f.svc.Synchronize(ctx, client, nil)
	require.NoError(t, err)

	f.now = mustParseDay("2024-01-20")
	out[0].IsDone = true

	out, err = f.svc.Synchronize(ctx, client, out)
	require.NoError(t, err)
	require.Len(t, out, 2)

	followUp := out[1]
	assert.Equal(t, domain.MilestoneSixtyDayLabel, followUp.Description)
	assert.True(t, followUp.IsSystemGenerated)
	require.NotNil(t, followUp.DueDate)
	assert.Equal(t, mustParseDay("2024-03-31"), *followUp.DueDate)
	assert.Equal(t, []string{adminAnchorID}, assigneeIDs(followUp))
}

// A review without a due date falls back to enrollment + 90 days.
func TestSynchronize_FollowUpFallbackDueDate(t *testing.T) {
	client := &domain.Client{ID: "client-1", DateAdded: mustParseDay("2024-01-01")}
	f := newTaskFixture(t, []*domain.Client{client}, anchorAdmin())

	existing := []*domain.ToDoTask{{
		ID:                "t-30",
		ClientID:          "client-1",
		Description:       domain.MilestoneThirtyDayLabel,
		IsSystemGenerated: true,
		IsDone:            true,
	}}

	out, err := f.svc.Synchronize(context.Background(), client, existing)
	require.NoError(t, err)
	require.Len(t, out, 2)
	require.NotNil(t, out[1].DueDate)
	assert.Equal(t, mustParseDay("2024-03-31"), *out[1].DueDate) // 2024-01-01 + 90d
}

// The output is always a superset: unrelated tasks pass through untouched.
func TestSynchronize_PassesThroughManualTasks(t *testing.T) {
	client := &domain.Client{ID: "client-1", DateAdded: mustParseDay("2024-01-01")}
	f := newTaskFixture(t, []*domain.Client{client}, anchorAdmin())

	manual := &domain.ToDoTask{ID: "m1", ClientID: "client-1", Description: "Call the family"}
	out, err := f.svc.Synchronize(context.Background(), client, []*domain.ToDoTask{manual})
	require.NoError(t, err)
	require.Len(t, out, 2)
	assert.Same(t, manual, out[0])
}

func TestListTasks_SynchronizesAndPersists(t *testing.T) {
	client := &domain.Client{ID: "client-1", DateAdded: mustParseDay("2024-01-01")}
	f := newTaskFixture(t, []*domain.Client{client}, anchorAdmin())
	ctx := context.Background()

	out, err := f.svc.ListTasks(ctx, anchorAdmin(), "client-1")
	require.NoError(t, err)
	require.Len(t, out, 1)

	stored, err := f.tasks.ListByClient(ctx, "client-1")
	require.NoError(t, err)
	assert.Len(t, stored, 1)

	// A second load does not duplicate the milestone.
	out, err = f.svc.ListTasks(ctx, anchorAdmin(), "client-1")
	require.NoError(t, err)
	assert.Len(t, out, 1)
}

func TestListTasks_OffTeamClinicianDenied(t *testing.T) {
	client := &domain.Client{ID: "client-1", DateAdded: mustParseDay("2024-01-01"), TeamMemberIDs: []string{"c2"}}
	outsider := clinician("c1", "Casey")
	f := newTaskFixture(t, []*domain.Client{client}, anchorAdmin(), outsider)

	_, err := f.svc.ListTasks(context.Background(), outsider, "client-1")
	assert.ErrorIs(t, err, domain.ErrPermissionDenied)
}

func TestAddTask(t *testing.T) {
	c1 := clinician("c1", "Casey Clinician")
	client := &domain.Client{ID: "client-1", DateAdded: mustParseDay("2024-01-01"), TeamMemberIDs: []string{"c1"}}
	f := newTaskFixture(t, []*domain.Client{client}, anchorAdmin(), c1)
	ctx := context.Background()

	due := mustParseDay("2024-02-15")
	task, err := f.svc.AddTask(ctx, c1, ports.AddTaskInput{
		ClientID:    "client-1",
		Description: "Follow up on home exercise plan",
		AssigneeIDs: []string{"c1", adminAnchorID, "c1"},
		DueDate:     &due,
	})
	require.NoError(t, err)
	assert.False(t, task.IsSystemGenerated)
	assert.Equal(t, domain.Ref{ID: "c1", Name: "Casey Clinician"}, task.AddedBy)
	// Duplicate assignee collapsed.
	assert.Equal(t, []string{"c1", adminAnchorID}, assigneeIDs(task))

	stored, err := f.tasks.ListByClient(ctx, "client-1")
	require.NoError(t, err)
	assert.Len(t, stored, 1)
}

func TestAddTask_RequiresAssignees(t *testing.T) {
	client := &domain.Client{ID: "client-1", DateAdded: mustParseDay("2024-01-01")}
	f := newTaskFixture(t, []*domain.Client{client}, anchorAdmin())

	_, err := f.svc.AddTask(context.Background(), anchorAdmin(), ports.AddTaskInput{
		ClientID:    "client-1",
		Description: "Orphan task",
	})
	assert.ErrorIs(t, err, domain.ErrAssigneeRequired)
}

// Completing a system task immediately re-synchronizes, so the follow-up
// appears without waiting for the next load.
func TestToggleTask_SystemTaskCascades(t *testing.T) {
	client := &domain.Client{ID: "client-1", DateAdded: mustParseDay("2024-01-01")}
	f := newTaskFixture(t, []*domain.Client{client}, anchorAdmin())
	ctx := context.Background()

	out, err := f.svc.ListTasks(ctx, anchorAdmin(), "client-1")
	require.NoError(t, err)
	require.Len(t, out, 1)

	f.now = mustParseDay("2024-01-20")
	toggled, err := f.svc.ToggleTask(ctx, anchorAdmin(), out[0].ID)
	require.NoError(t, err)
	assert.True(t, toggled.IsDone)
	require.NotNil(t, toggled.CompletedAt)
	assert.Equal(t, f.now, *toggled.CompletedAt)
	require.NotNil(t, toggled.CompletedBy)
	assert.Equal(t, adminAnchorID, toggled.CompletedBy.ID)

	stored, err := f.tasks.ListByClient(ctx, "client-1")
	require.NoError(t, err)
	require.Len(t, stored, 2)
	assert.Equal(t, domain.MilestoneSixtyDayLabel, stored[1].Description)
}

func TestToggleTask_ReopenClearsCompletion(t *testing.T) {
	c1 := clinician("c1", "Casey")
	client := &domain.Client{ID: "client-1", DateAdded: mustParseDay("2024-01-01"), TeamMemberIDs: []string{"c1"}}
	f := newTaskFixture(t, []*domain.Client{client}, anchorAdmin(), c1)
	ctx := context.Background()

	task, err := f.svc.AddTask(ctx, c1, ports.AddTaskInput{
		ClientID:    "client-1",
		Description: "Check progress notes",
		AssigneeIDs: []string{"c1"},
	})
	require.NoError(t, err)

	done, err := f.svc.ToggleTask(ctx, c1, task.ID)
	require.NoError(t, err)
	require.True(t, done.IsDone)

	reopened, err := f.svc.ToggleTask(ctx, c1, task.ID)
	require.NoError(t, err)
	assert.False(t, reopened.IsDone)
	assert.Nil(t, reopened.CompletedAt)
	assert.Nil(t, reopened.CompletedBy)
}

func TestDeleteTask_SystemTaskProtection(t *testing.T) {
	client := &domain.Client{ID: "client-1", DateAdded: mustParseDay("2024-01-01"), TeamMemberIDs: []string{"c1"}}
	c1 := clinician("c1", "Casey")
	sa := superAdmin("sa1")
	f := newTaskFixture(t, []*domain.Client{client}, anchorAdmin(), c1, sa)
	ctx := context.Background()

	out, err := f.svc.ListTasks(ctx, anchorAdmin(), "client-1")
	require.NoError(t, err)
	sysTaskID := out[0].ID

	for _, actor := range []*domain.User{anchorAdmin(), c1} {
		err := f.svc.DeleteTask(ctx, actor, sysTaskID)
		assert.ErrorIs(t, err, domain.ErrPermissionDenied, "role %s", actor.Role)
	}

	require.NoError(t, f.svc.DeleteTask(ctx, sa, sysTaskID))
	_, err = f.tasks.FindByID(ctx, sysTaskID)
	assert.ErrorIs(t, err, domain.ErrTaskNotFound)
}

func TestDeleteTask_ManualTaskByTeam(t *testing.T) {
	c1 := clinician("c1", "Casey")
	client := &domain.Client{ID: "client-1", DateAdded: mustParseDay("2024-01-01"), TeamMemberIDs: []string{"c1"}}
	f := newTaskFixture(t, []*domain.Client{client}, anchorAdmin(), c1)
	ctx := context.Background()

	task, err := f.svc.AddTask(ctx, c1, ports.AddTaskInput{
		ClientID:    "client-1",
		Description: "Prepare discharge summary",
		AssigneeIDs: []string{"c1"},
	})
	require.NoError(t, err)
	require.NoError(t, f.svc.DeleteTask(ctx, c1, task.ID))
}
