package instrument

import (
	"errors"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"github.com/vango-dev/vbind/pkg/reactive"
)

// MetricsConfig configures the Prometheus collectors.
type MetricsConfig struct {
	// Namespace is the metrics namespace (default: "vbind").
	Namespace string

	// Subsystem is the metrics subsystem (default: "").
	Subsystem string

	// ConstLabels are constant labels added to all metrics.
	ConstLabels prometheus.Labels

	// Buckets are the histogram buckets for notify duration.
	// Default: fine-grained buckets from 10µs to 100ms.
	Buckets []float64

	// Registry is the Prometheus registry to use.
	// Default: prometheus.DefaultRegisterer
	Registry prometheus.Registerer
}

// MetricsOption configures NewMetrics.
type MetricsOption func(*MetricsConfig)

// WithNamespace sets the metrics namespace.
func WithNamespace(namespace string) MetricsOption {
	return func(c *MetricsConfig) {
		c.Namespace = namespace
	}
}

// WithSubsystem sets the metrics subsystem.
func WithSubsystem(subsystem string) MetricsOption {
	return func(c *MetricsConfig) {
		c.Subsystem = subsystem
	}
}

// WithConstLabels sets constant labels for all metrics.
func WithConstLabels(labels prometheus.Labels) MetricsOption {
	return func(c *MetricsConfig) {
		c.ConstLabels = labels
	}
}

// WithBuckets sets the histogram buckets.
func WithBuckets(buckets []float64) MetricsOption {
	return func(c *MetricsConfig) {
		c.Buckets = buckets
	}
}

// WithRegistry sets the Prometheus registry.
func WithRegistry(registry prometheus.Registerer) MetricsOption {
	return func(c *MetricsConfig) {
		c.Registry = registry
	}
}

func defaultMetricsConfig() MetricsConfig {
	return MetricsConfig{
		Namespace: "vbind",
		Buckets:   prometheus.ExponentialBuckets(0.00001, 10, 5),
		Registry:  prometheus.DefaultRegisterer,
	}
}

// Metrics holds the collectors. Data keys are a fixed set per instance, so
// they are safe to use as labels.
type Metrics struct {
	readsTotal     *prometheus.CounterVec
	setsTotal      *prometheus.CounterVec
	refreshesTotal *prometheus.CounterVec
	notifyDuration *prometheus.HistogramVec
	patchesSent    prometheus.Counter
	liveClients    prometheus.Gauge
}

// NewMetrics creates and registers the collectors.
//
// Metrics collected:
//   - vbind_reads_total: Counter of Get calls by key
//   - vbind_sets_total: Counter of Set calls by key
//   - vbind_refreshes_total: Counter of observer refreshes by key and status
//   - vbind_notify_duration_seconds: Histogram of Set fan-out duration by key
//   - vbind_patches_sent_total: Counter of live patches sent (RecordPatches)
//   - vbind_live_clients: Gauge of connected live clients (SetLiveClients)
//
// Registering twice on one registry panics, as with promauto.
func NewMetrics(opts ...MetricsOption) *Metrics {
	config := defaultMetricsConfig()
	for _, opt := range opts {
		opt(&config)
	}
	factory := promauto.With(config.Registry)

	return &Metrics{
		readsTotal: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace:   config.Namespace,
			Subsystem:   config.Subsystem,
			Name:        "reads_total",
			Help:        "Total number of data reads",
			ConstLabels: config.ConstLabels,
		}, []string{"key"}),

		setsTotal: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace:   config.Namespace,
			Subsystem:   config.Subsystem,
			Name:        "sets_total",
			Help:        "Total number of data writes",
			ConstLabels: config.ConstLabels,
		}, []string{"key"}),

		refreshesTotal: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace:   config.Namespace,
			Subsystem:   config.Subsystem,
			Name:        "refreshes_total",
			Help:        "Total number of observer refreshes",
			ConstLabels: config.ConstLabels,
		}, []string{"key", "status"}),

		notifyDuration: factory.NewHistogramVec(prometheus.HistogramOpts{
			Namespace:   config.Namespace,
			Subsystem:   config.Subsystem,
			Name:        "notify_duration_seconds",
			Help:        "Duration of the refresh fan-out after a write",
			ConstLabels: config.ConstLabels,
			Buckets:     config.Buckets,
		}, []string{"key"}),

		patchesSent: factory.NewCounter(prometheus.CounterOpts{
			Namespace:   config.Namespace,
			Subsystem:   config.Subsystem,
			Name:        "patches_sent_total",
			Help:        "Total number of patches sent to live clients",
			ConstLabels: config.ConstLabels,
		}),

		liveClients: factory.NewGauge(prometheus.GaugeOpts{
			Namespace:   config.Namespace,
			Subsystem:   config.Subsystem,
			Name:        "live_clients",
			Help:        "Number of connected live preview clients",
			ConstLabels: config.ConstLabels,
		}),
	}
}

// Prometheus is shorthand for NewMetrics(opts...).Hooks().
func Prometheus(opts ...MetricsOption) reactive.Hooks {
	return NewMetrics(opts...).Hooks()
}

// Hooks returns store hooks feeding the collectors.
func (m *Metrics) Hooks() reactive.Hooks {
	return reactive.Hooks{
		OnGet: func(key string) {
			m.readsTotal.WithLabelValues(key).Inc()
		},
		OnSet: func(key string) func(int, error) {
			m.setsTotal.WithLabelValues(key).Inc()
			start := time.Now()
			return func(int, error) {
				m.notifyDuration.WithLabelValues(key).Observe(time.Since(start).Seconds())
			}
		},
		OnRefresh: func(o *reactive.Observer, err error) {
			m.refreshesTotal.WithLabelValues(o.Key(), refreshStatus(err)).Inc()
		},
	}
}

// RecordPatches adds n to the patches counter.
func (m *Metrics) RecordPatches(n int) {
	m.patchesSent.Add(float64(n))
}

// SetLiveClients sets the live client gauge.
func (m *Metrics) SetLiveClients(n int) {
	m.liveClients.Set(float64(n))
}

// refreshStatus keeps the status label low-cardinality.
func refreshStatus(err error) string {
	switch {
	case err == nil:
		return "success"
	case errors.Is(err, reactive.ErrMissingTarget):
		return "detached"
	default:
		return "error"
	}
}
