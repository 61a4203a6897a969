package server

import (
	"context"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/matzehuels/magnet/pkg/observability"
)

const namespace = "magnet"

// Metrics implements the observability hooks on top of prometheus.
type Metrics struct {
	httpRequests *prometheus.CounterVec
	httpDuration *prometheus.HistogramVec

	passDuration *prometheus.HistogramVec
	passErrors   *prometheus.CounterVec
	remeasures   prometheus.Counter
	solverErrors *prometheus.CounterVec

	stageDuration *prometheus.HistogramVec
	stageErrors   *prometheus.CounterVec

	cacheEvents *prometheus.CounterVec
	cacheBytes  *prometheus.CounterVec
}

// NewMetrics creates the collectors and registers them with reg.
func NewMetrics(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		httpRequests: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "http_requests_total",
				Help:      "HTTP requests by route and status",
			},
			[]string{"method", "route", "status"},
		),
		httpDuration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Name:      "http_request_duration_seconds",
				Help:      "HTTP request latency",
				Buckets:   prometheus.DefBuckets,
			},
			[]string{"method", "route"},
		),
		passDuration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Name:      "layout_pass_duration_seconds",
				Help:      "Duration of measure and arrange passes",
				Buckets:   []float64{.0001, .0005, .001, .005, .01, .05, .1, .5, 1},
			},
			[]string{"pass"},
		),
		passErrors: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "layout_pass_errors_total",
				Help:      "Failed measure and arrange passes",
			},
			[]string{"pass"},
		),
		remeasures: prometheus.NewCounter(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "layout_remeasures_total",
				Help:      "Views re-measured against their allocated box",
			},
		),
		solverErrors: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "solver_errors_total",
				Help:      "Constraints rejected by the solver by group",
			},
			[]string{"group"},
		),
		stageDuration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Name:      "pipeline_stage_duration_seconds",
				Help:      "Duration of pipeline stages",
				Buckets:   prometheus.DefBuckets,
			},
			[]string{"stage"},
		),
		stageErrors: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "pipeline_stage_errors_total",
				Help:      "Failed pipeline stages",
			},
			[]string{"stage"},
		),
		cacheEvents: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "cache_events_total",
				Help:      "Cache hits, misses and writes by entry type",
			},
			[]string{"type", "event"},
		),
		cacheBytes: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "cache_written_bytes_total",
				Help:      "Bytes written to the cache by entry type",
			},
			[]string{"type"},
		),
	}

	reg.MustRegister(
		m.httpRequests, m.httpDuration,
		m.passDuration, m.passErrors, m.remeasures, m.solverErrors,
		m.stageDuration, m.stageErrors,
		m.cacheEvents, m.cacheBytes,
	)
	return m
}

// Install registers m as the process-wide layout, pipeline, cache and HTTP
// hooks.
func (m *Metrics) Install() {
	observability.SetLayoutHooks(m)
	observability.SetPipelineHooks(m)
	observability.SetCacheHooks(m)
	observability.SetHTTPHooks(m)
}

// Layout hooks

func (m *Metrics) OnMeasure(_ int, _, _ float64, d time.Duration, err error) {
	m.pass("measure", d, err)
}

func (m *Metrics) OnArrange(_ int, _, _ float64, d time.Duration, err error) {
	m.pass("arrange", d, err)
}

func (m *Metrics) OnRemeasure(string) { m.remeasures.Inc() }

func (m *Metrics) OnSolverError(_, group string, _ error) {
	m.solverErrors.WithLabelValues(group).Inc()
}

func (m *Metrics) pass(name string, d time.Duration, err error) {
	m.passDuration.WithLabelValues(name).Observe(d.Seconds())
	if err != nil {
		m.passErrors.WithLabelValues(name).Inc()
	}
}

// Pipeline hooks

func (m *Metrics) OnLoadStart(context.Context, string) {}

func (m *Metrics) OnLoadComplete(_ context.Context, _ string, _ int, d time.Duration, err error) {
	m.stage("load", d, err)
}

func (m *Metrics) OnSolveStart(context.Context, int) {}

func (m *Metrics) OnSolveComplete(_ context.Context, _ int, d time.Duration, err error) {
	m.stage("solve", d, err)
}

func (m *Metrics) OnRenderStart(context.Context, []string) {}

func (m *Metrics) OnRenderComplete(_ context.Context, _ []string, d time.Duration, err error) {
	m.stage("render", d, err)
}

func (m *Metrics) stage(name string, d time.Duration, err error) {
	m.stageDuration.WithLabelValues(name).Observe(d.Seconds())
	if err != nil {
		m.stageErrors.WithLabelValues(name).Inc()
	}
}

// Cache hooks

func (m *Metrics) OnCacheHit(_ context.Context, keyType string) {
	m.cacheEvents.WithLabelValues(keyType, "hit").Inc()
}

func (m *Metrics) OnCacheMiss(_ context.Context, keyType string) {
	m.cacheEvents.WithLabelValues(keyType, "miss").Inc()
}

func (m *Metrics) OnCacheSet(_ context.Context, keyType string, size int) {
	m.cacheEvents.WithLabelValues(keyType, "set").Inc()
	m.cacheBytes.WithLabelValues(keyType).Add(float64(size))
}

// HTTP hooks

func (m *Metrics) OnRequest(context.Context, string, string) {}

func (m *Metrics) OnResponse(_ context.Context, method, route string, status int, d time.Duration) {
	m.httpRequests.WithLabelValues(method, route, strconv.Itoa(status)).Inc()
	m.httpDuration.WithLabelValues(method, route).Observe(d.Seconds())
}

var (
	_ observability.LayoutHooks   = (*Metrics)(nil)
	_ observability.PipelineHooks = (*Metrics)(nil)
	_ observability.CacheHooks    = (*Metrics)(nil)
	_ observability.HTTPHooks     = (*Metrics)(nil)
)
