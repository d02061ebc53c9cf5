// Package metrics defines and registers all custom Prometheus metrics for the
// admin console gateway. It is the single source of truth for metric names,
// labels, and help strings; registration happens at import time via promauto.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "console"

// ── Session gate ──────────────────────────────────────────────────────────────

// SessionResolutionsTotal counts identity resolutions at the gate.
// Label:
//   - outcome: "authorized", "unauthorized", "error", or "cached" when the
//     signed session cookie short-circuited the identity round-trip
var SessionResolutionsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "session_resolutions_total",
		Help:      "Total number of identity resolutions at the session gate, by outcome.",
	},
	[]string{"outcome"},
)

// ── Table engine ──────────────────────────────────────────────────────────────

// TableFetchesTotal counts collection page fetches issued by table engines.
// Labels:
//   - collection: the table's collection name (e.g. "users")
//   - result: "ok", "error", or "superseded" when a newer query state
//     cancelled the fetch before its response could be applied
var TableFetchesTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "table_fetches_total",
		Help:      "Total number of collection page fetches, by collection and result.",
	},
	[]string{"collection", "result"},
)

// TableFetchDuration measures how long an applied page fetch took end-to-end.
var TableFetchDuration = promauto.NewHistogramVec(
	prometheus.HistogramOpts{
		Namespace: namespace,
		Name:      "table_fetch_duration_seconds",
		Help:      "Duration of collection page fetches that were applied.",
		Buckets:   prometheus.DefBuckets,
	},
	[]string{"collection"},
)

// TablesActive tracks the number of mounted table instances.
var TablesActive = promauto.NewGauge(
	prometheus.GaugeOpts{
		Namespace: namespace,
		Name:      "tables_active",
		Help:      "Current number of mounted table instances.",
	},
)

// RowDeletesTotal counts individual row delete requests in bulk deletes.
// Labels:
//   - collection: the table's collection name
//   - result: "ok" or "error"
var RowDeletesTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "row_deletes_total",
		Help:      "Total number of row delete requests, by collection and result.",
	},
	[]string{"collection", "result"},
)

// ── Mutations ─────────────────────────────────────────────────────────────────

// MutationsTotal counts create/update operations proxied to backend services.
// Labels:
//   - collection: target collection
//   - action: "create" or "update"
//   - result: "ok", "validation_error", or "error"
var MutationsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "mutations_total",
		Help:      "Total number of proxied create/update operations, by collection, action and result.",
	},
	[]string{"collection", "action", "result"},
)
