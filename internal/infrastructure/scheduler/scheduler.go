// Package scheduler runs the periodic milestone task sweep. It iterates every
// client, computes the milestone tasks the lifecycle rules require, and
// persists any additions. The computation itself lives in the task service;
// the scheduler only drives it on a cron cadence.
package scheduler

import (
	"context"
	"strings"
	"time"

	"github.com/robfig/cron/v3"
	"github.com/rs/zerolog"

	"github.com/lifeweavers/caseflow/internal/api/metrics"
	"github.com/lifeweavers/caseflow/internal/core/domain"
	"github.com/lifeweavers/caseflow/internal/core/ports"
)

type MilestoneScheduler struct {
	cron    *cron.Cron
	tasks   ports.TaskService
	taskSt  ports.TaskRepository
	clients ports.ClientRepository
	log     zerolog.Logger
}

func NewMilestoneScheduler(
	tasks ports.TaskService,
	taskStore ports.TaskRepository,
	clients ports.ClientRepository,
	log zerolog.Logger,
) *MilestoneScheduler {
	return &MilestoneScheduler{
		cron:    cron.New(),
		tasks:   tasks,
		taskSt:  taskStore,
		clients: clients,
		log:     log.With().Str("component", "milestone_scheduler").Logger(),
	}
}

// Start registers the sweep on the given cron schedule and starts the runner.
func (s *MilestoneScheduler) Start(schedule string) error {
	_, err := s.cron.AddFunc(schedule, func() {
		if err := s.RunOnce(context.Background()); err != nil {
			s.log.Error().Err(err).Msg("milestone sweep failed")
		}
	})
	if err != nil {
		return err
	}
	s.cron.Start()
	s.log.Info().Str("schedule", schedule).Msg("milestone scheduler started")
	return nil
}

// Stop halts the cron runner and waits for any in-flight sweep to finish.
func (s *MilestoneScheduler) Stop() {
	ctx := s.cron.Stop()
	<-ctx.Done()
}

// RunOnce performs a single sweep over all clients. Each client is processed
// independently; a failure on one client does not abort the sweep.
func (s *MilestoneScheduler) RunOnce(ctx context.Context) error {
	start := time.Now()
	defer func() {
		metrics.MilestoneSyncDuration.Observe(time.Since(start).Seconds())
	}()

	clients, err := s.clients.List(ctx)
	if err != nil {
		return err
	}

	var generated int
	for _, client := range clients {
		n, err := s.syncClient(ctx, client)
		if err != nil {
			s.log.Error().Err(err).
				Str("client_id", client.ID).
				Msg("client milestone sync failed")
			continue
		}
		generated += n
	}

	s.log.Info().
		Int("clients", len(clients)).
		Int("tasks_generated", generated).
		Dur("elapsed", time.Since(start)).
		Msg("milestone sweep completed")
	return nil
}

func (s *MilestoneScheduler) syncClient(ctx context.Context, client *domain.Client) (int, error) {
	existing, err := s.taskSt.ListByClient(ctx, client.ID)
	if err != nil {
		return 0, err
	}

	synced, err := s.tasks.Synchronize(ctx, client, existing)
	if err != nil {
		return 0, err
	}
	if len(synced) == len(existing) {
		return 0, nil
	}

	if err := s.taskSt.ReplaceAll(ctx, client.ID, synced); err != nil {
		return 0, err
	}

	added := synced[len(existing):]
	for _, task := range added {
		metrics.MilestoneTasksGeneratedTotal.WithLabelValues(milestoneLabel(task)).Inc()
		s.log.Info().
			Str("client_id", client.ID).
			Str("task_id", task.ID).
			Str("description", task.Description).
			Msg("milestone task generated")
	}
	return len(added), nil
}

func milestoneLabel(task *domain.ToDoTask) string {
	if strings.Contains(task.Description, "Follow-up") {
		return "60_day"
	}
	return "30_day"
}
