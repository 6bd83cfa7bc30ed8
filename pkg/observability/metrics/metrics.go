// Package metrics records observability hooks as Prometheus metrics.
//
// A [Metrics] value owns a private registry, implements every hook
// interface of the observability package and is installed once at startup:
//
//	m := metrics.New()
//	m.Install()
//	// ... run layouts ...
//	m.WriteFile("dimgraph.prom")
//
// The file uses the Prometheus text format, ready for the node exporter's
// textfile collector.
package metrics

import (
	"context"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/matzehuels/dimgraph/pkg/observability"
)

const namespace = "dimgraph"

// Metrics implements the engine, pipeline and cache hooks.
type Metrics struct {
	registry *prometheus.Registry

	runs        prometheus.Counter
	settled     *prometheus.CounterVec
	iterations  prometheus.Histogram
	diagnostics *prometheus.CounterVec
	transitions *prometheus.CounterVec

	stageSeconds *prometheus.HistogramVec
	stageErrors  *prometheus.CounterVec
	graphNodes   prometheus.Histogram

	cacheOps   *prometheus.CounterVec
	cacheBytes *prometheus.CounterVec
}

// New creates metrics registered on a fresh registry.
func New() *Metrics {
	m := &Metrics{
		registry: prometheus.NewRegistry(),
		runs: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace, Subsystem: "engine", Name: "runs_total",
			Help: "Simulation runs started, including restarts.",
		}),
		settled: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace, Subsystem: "engine", Name: "settled_total",
			Help: "Simulation runs settled, by whether they converged.",
		}, []string{"converged"}),
		iterations: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace, Subsystem: "engine", Name: "iterations",
			Help:    "Iterations per settled simulation run.",
			Buckets: prometheus.ExponentialBuckets(10, 2, 8),
		}),
		diagnostics: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace, Subsystem: "engine", Name: "diagnostics_total",
			Help: "Non-fatal conditions handled by the engine, by code.",
		}, []string{"code"}),
		transitions: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace, Subsystem: "engine", Name: "state_transitions_total",
			Help: "Lifecycle transitions, by target state.",
		}, []string{"to"}),
		stageSeconds: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace, Subsystem: "pipeline", Name: "stage_seconds",
			Help:    "Duration of pipeline stages.",
			Buckets: prometheus.DefBuckets,
		}, []string{"stage"}),
		stageErrors: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace, Subsystem: "pipeline", Name: "stage_errors_total",
			Help: "Failed pipeline stages.",
		}, []string{"stage"}),
		graphNodes: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace, Subsystem: "pipeline", Name: "graph_nodes",
			Help:    "Node count of loaded graphs.",
			Buckets: prometheus.ExponentialBuckets(4, 4, 7),
		}),
		cacheOps: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace, Subsystem: "cache", Name: "operations_total",
			Help: "Cache lookups and writes, by key type and result.",
		}, []string{"key_type", "result"}),
		cacheBytes: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace, Subsystem: "cache", Name: "written_bytes_total",
			Help: "Bytes written to the cache, by key type.",
		}, []string{"key_type"}),
	}
	m.registry.MustRegister(
		m.runs, m.settled, m.iterations, m.diagnostics, m.transitions,
		m.stageSeconds, m.stageErrors, m.graphNodes,
		m.cacheOps, m.cacheBytes,
	)
	return m
}

// Install registers m as the global engine, pipeline and cache hooks.
func (m *Metrics) Install() {
	observability.SetEngineHooks(m)
	observability.SetPipelineHooks(m)
	observability.SetCacheHooks(m)
}

// Registry returns the registry holding every metric.
func (m *Metrics) Registry() *prometheus.Registry { return m.registry }

// WriteFile writes all metrics to path in the Prometheus text format.
func (m *Metrics) WriteFile(path string) error {
	return prometheus.WriteToTextfile(path, m.registry)
}

// =============================================================================
// Engine Hooks
// =============================================================================

func (m *Metrics) OnStart(string, int, int) { m.runs.Inc() }

func (m *Metrics) OnSettled(_ string, iterations int, _ float64, converged bool) {
	m.settled.WithLabelValues(strconv.FormatBool(converged)).Inc()
	m.iterations.Observe(float64(iterations))
}

func (m *Metrics) OnDiagnostic(_, code, _ string) {
	m.diagnostics.WithLabelValues(code).Inc()
}

func (m *Metrics) OnStateChange(_, _, to string) {
	m.transitions.WithLabelValues(to).Inc()
}

// =============================================================================
// Pipeline Hooks
// =============================================================================

func (m *Metrics) OnLoadStart(context.Context, string) {}

func (m *Metrics) OnLoadComplete(_ context.Context, _ string, nodes int, d time.Duration, err error) {
	m.stage("load", d, err)
	if err == nil {
		m.graphNodes.Observe(float64(nodes))
	}
}

func (m *Metrics) OnLayoutStart(context.Context, int, int) {}

func (m *Metrics) OnLayoutComplete(_ context.Context, _ int, d time.Duration, err error) {
	m.stage("layout", d, err)
}

func (m *Metrics) OnRenderStart(context.Context, []string) {}

func (m *Metrics) OnRenderComplete(_ context.Context, _ []string, d time.Duration, err error) {
	m.stage("render", d, err)
}

func (m *Metrics) stage(name string, d time.Duration, err error) {
	m.stageSeconds.WithLabelValues(name).Observe(d.Seconds())
	if err != nil {
		m.stageErrors.WithLabelValues(name).Inc()
	}
}

// =============================================================================
// Cache Hooks
// =============================================================================

func (m *Metrics) OnCacheHit(_ context.Context, keyType string) {
	m.cacheOps.WithLabelValues(keyType, "hit").Inc()
}

func (m *Metrics) OnCacheMiss(_ context.Context, keyType string) {
	m.cacheOps.WithLabelValues(keyType, "miss").Inc()
}

func (m *Metrics) OnCacheSet(_ context.Context, keyType string, size int) {
	m.cacheOps.WithLabelValues(keyType, "set").Inc()
	m.cacheBytes.WithLabelValues(keyType).Add(float64(size))
}

var (
	_ observability.EngineHooks   = (*Metrics)(nil)
	_ observability.PipelineHooks = (*Metrics)(nil)
	_ observability.CacheHooks    = (*Metrics)(nil)
)
