package observability

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// ConfigReads counts stream config reads by outcome (hit, backfilled, created, error).
	ConfigReads = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "chapel_stream_config_reads_total",
		Help: "Total stream config reads by outcome",
	}, []string{"outcome"})

	// ConfigWrites counts stream config merge-writes by source (full_form, quick_switch).
	ConfigWrites = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "chapel_stream_config_writes_total",
		Help: "Total stream config merge-writes by source",
	}, []string{"source"})

	// PollCycles counts viewer poll cycles by loop (config, chat) and result (ok, error).
	PollCycles = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "chapel_viewer_poll_cycles_total",
		Help: "Total viewer poll cycles by loop and result",
	}, []string{"loop", "result"})

	// ChatMessagesRejected counts internal chat messages rejected by reason.
	ChatMessagesRejected = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "chapel_chat_messages_rejected_total",
		Help: "Total internal chat messages rejected by filter reason",
	}, []string{"reason"})

	// ChatMessagesAccepted counts accepted internal chat messages.
	ChatMessagesAccepted = promauto.NewCounter(prometheus.CounterOpts{
		Name: "chapel_chat_messages_accepted_total",
		Help: "Total internal chat messages accepted",
	})

	// RenderStateGauge tracks the most recently derived render state
	// (0 = offline, 1 = ready, 2 = playing) per viewer session pool.
	RenderStateGauge = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "chapel_viewer_render_state",
		Help: "Most recently derived viewer render state (0 offline, 1 ready, 2 playing)",
	})

	// DatabaseQueryLatency records database query latency by operation and table.
	DatabaseQueryLatency = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "chapel_database_query_latency_seconds",
		Help:    "Database query latency in seconds",
		Buckets: prometheus.DefBuckets,
	}, []string{"operation", "table"})
)

// TrackQuery returns a function that records query latency when called (e.g. defer).
func TrackQuery(operation, table string) func() {
	start := time.Now()
	return func() {
		DatabaseQueryLatency.WithLabelValues(operation, table).Observe(time.Since(start).Seconds())
	}
}
