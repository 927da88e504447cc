// Package metrics defines and registers all custom Prometheus metrics for the
// caseflow API. It is the single source of truth for metric names, labels,
// and help strings.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "caseflow"

// AuthzDenialsTotal counts authorization denials.
// Labels:
//   - operation: the guarded operation (e.g. "remove_user", "delete_task")
var AuthzDenialsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "authz_denials_total",
		Help:      "Total number of denied authorization checks, by operation.",
	},
	[]string{"operation"},
)

// ImpersonationSessionsTotal counts impersonation session transitions.
// Label:
//   - action: "start" or "stop"
var ImpersonationSessionsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "impersonation_sessions_total",
		Help:      "Total number of impersonation session starts and stops.",
	},
	[]string{"action"},
)

// MilestoneTasksGeneratedTotal counts system-generated milestone tasks.
// Label:
//   - milestone: "30_day" or "60_day"
var MilestoneTasksGeneratedTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "milestone_tasks_generated_total",
		Help:      "Total number of milestone tasks created by the scheduler, by milestone.",
	},
	[]string{"milestone"},
)

// MilestoneSyncDuration measures a full milestone sweep across all clients.
var MilestoneSyncDuration = promauto.NewHistogram(
	prometheus.HistogramOpts{
		Namespace: namespace,
		Name:      "milestone_sync_duration_seconds",
		Help:      "Duration of a full milestone synchronization sweep.",
		Buckets:   prometheus.DefBuckets,
	},
)

// ThreadsCreatedTotal counts newly created message threads.
// Label:
//   - type: "dm" or "team"
var ThreadsCreatedTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "threads_created_total",
		Help:      "Total number of message threads created, by thread type.",
	},
	[]string{"type"},
)
