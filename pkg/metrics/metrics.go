// Package metrics instruments vtree.Diff with Prometheus counters and
// histograms, grounded on the teacher's pkg/middleware Prometheus() pattern:
// a functional-options config, a process-wide singleton built with
// promauto.With, and InstrumentedDiff, which callers invoke in place of
// vtree.Diff to have each call observed.
package metrics

import (
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"github.com/vtree-dev/vtree/pkg/vtree"
)

// Config configures the Prometheus instrumentation.
type Config struct {
	// Namespace is the metrics namespace (default: "vtree").
	Namespace string

	// ConstLabels are constant labels added to all metrics.
	ConstLabels prometheus.Labels

	// DurationBuckets are the histogram buckets for diff duration.
	DurationBuckets []float64

	// OpCountBuckets are the histogram buckets for patch op counts.
	OpCountBuckets []float64

	// Registry is the Prometheus registry to register collectors with.
	Registry prometheus.Registerer
}

// Option configures the Prometheus instrumentation.
type Option func(*Config)

// WithNamespace sets the metrics namespace.
func WithNamespace(namespace string) Option {
	return func(c *Config) { c.Namespace = namespace }
}

// WithConstLabels sets constant labels for all metrics.
func WithConstLabels(labels prometheus.Labels) Option {
	return func(c *Config) { c.ConstLabels = labels }
}

// WithRegistry sets the Prometheus registry.
func WithRegistry(registry prometheus.Registerer) Option {
	return func(c *Config) { c.Registry = registry }
}

func defaultConfig() Config {
	return Config{
		Namespace:       "vtree",
		DurationBuckets: prometheus.DefBuckets,
		OpCountBuckets:  []float64{1, 2, 5, 10, 25, 50, 100, 250, 500},
		Registry:        prometheus.DefaultRegisterer,
	}
}

type collectors struct {
	diffsTotal   *prometheus.CounterVec
	diffDuration prometheus.Histogram
	patchOps     prometheus.Histogram
}

var (
	global   *collectors
	globalMu sync.Mutex
)

func build(cfg Config) *collectors {
	factory := promauto.With(cfg.Registry)
	return &collectors{
		diffsTotal: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace:   cfg.Namespace,
			Name:        "diffs_total",
			Help:        "Total number of Diff calls by outcome",
			ConstLabels: cfg.ConstLabels,
		}, []string{"outcome"}),

		diffDuration: factory.NewHistogram(prometheus.HistogramOpts{
			Namespace:   cfg.Namespace,
			Name:        "diff_duration_seconds",
			Help:        "Diff call duration in seconds",
			ConstLabels: cfg.ConstLabels,
			Buckets:     cfg.DurationBuckets,
		}),

		patchOps: factory.NewHistogram(prometheus.HistogramOpts{
			Namespace:   cfg.Namespace,
			Name:        "patch_ops",
			Help:        "Number of NodeOp entries (root plus nested ChildDiff ops) produced by a Diff call",
			ConstLabels: cfg.ConstLabels,
			Buckets:     cfg.OpCountBuckets,
		}),
	}
}

// Init registers the vtree collectors with Prometheus. Calling it more than
// once is a no-op; the first call's configuration wins.
func Init(opts ...Option) {
	cfg := defaultConfig()
	for _, opt := range opts {
		opt(&cfg)
	}
	globalMu.Lock()
	defer globalMu.Unlock()
	if global == nil {
		global = build(cfg)
	}
}

// InstrumentedDiff runs vtree.Diff, recording its outcome, duration, and
// resulting patch size. Init must be called first; if it wasn't,
// InstrumentedDiff still runs the diff, it just skips recording.
func InstrumentedDiff(old, new *vtree.Node) vtree.NodeOp {
	globalMu.Lock()
	m := global
	globalMu.Unlock()

	start := time.Now()
	op := vtree.Diff(old, new)
	if m == nil {
		return op
	}

	m.diffDuration.Observe(time.Since(start).Seconds())
	m.diffsTotal.WithLabelValues(op.Kind.String()).Inc()
	m.patchOps.Observe(float64(countOps(op)))
	return op
}

func countOps(op vtree.NodeOp) int {
	n := 1
	for _, child := range op.ChildDiff {
		n += countOps(child)
	}
	return n
}
