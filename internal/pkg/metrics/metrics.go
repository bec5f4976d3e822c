// Package metrics defines and registers the custom Prometheus metrics of the
// task service. It is the single source of truth for metric names, labels
// and help strings. HTTP request metrics come from echoprometheus instead.
//
// All metrics are registered with the default registry through promauto when
// the package is first imported.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "task_system"

// ── Account metrics ───────────────────────────────────────────────────────────

// UsersRegisteredTotal counts successful registrations through any endpoint.
var UsersRegisteredTotal = promauto.NewCounter(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "users_registered_total",
		Help:      "Total number of user accounts created.",
	},
)

// LoginAttemptsTotal counts login attempts.
// Label:
//   - result: "success", "invalid" (wrong credentials) or "error"
var LoginAttemptsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "login_attempts_total",
		Help:      "Total number of login attempts, by result.",
	},
	[]string{"result"},
)

// ── Task metrics ──────────────────────────────────────────────────────────────

// TaskWritesTotal counts successful task writes.
// Label:
//   - op: "created", "updated" or "deleted"
var TaskWritesTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "task_writes_total",
		Help:      "Total number of task writes, by operation.",
	},
	[]string{"op"},
)

// ── Task event metrics ────────────────────────────────────────────────────────

// TaskEventsPublishedTotal counts sink deliveries.
// Label:
//   - result: "ok" or "error"
var TaskEventsPublishedTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "task_events_published_total",
		Help:      "Total number of task events handed to the sink, by result.",
	},
	[]string{"result"},
)

// TaskEventsDroppedTotal counts events discarded because a worker queue was full.
var TaskEventsDroppedTotal = promauto.NewCounter(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "task_events_dropped_total",
		Help:      "Total number of task events dropped due to a full dispatcher queue.",
	},
)

// TaskEventsQueueDepth tracks pending events per worker channel.
// Label:
//   - worker_id: numeric worker index (e.g. "0", "1", …)
var TaskEventsQueueDepth = promauto.NewGaugeVec(
	prometheus.GaugeOpts{
		Namespace: namespace,
		Name:      "task_events_queue_depth",
		Help:      "Current number of task events pending in each dispatcher worker channel.",
	},
	[]string{"worker_id"},
)

// TaskEventPublishDuration measures one sink delivery.
var TaskEventPublishDuration = promauto.NewHistogram(
	prometheus.HistogramOpts{
		Namespace: namespace,
		Name:      "task_event_publish_duration_seconds",
		Help:      "Duration of a single task event delivery to the sink.",
		Buckets:   prometheus.DefBuckets, // .005, .01, .025, .05, .1, .25, .5, 1, 2.5, 5, 10
	},
)
