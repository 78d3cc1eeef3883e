// Package metrics exports dispatcher activity as Prometheus metrics.
//
//	obs := metrics.NewObserver(metrics.WithRegistry(reg))
//	d := deeplink.New[Link](deeplink.WithObserver(obs))
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"github.com/bft-labs/deeplink/pkg/deeplink"
)

// Phase label values.
const (
	PhaseDispatch = "dispatch"
	PhaseReplay   = "replay"
)

// Config configures the Prometheus observer.
type Config struct {
	// Namespace is the metrics namespace (default: "deeplink").
	Namespace string

	// Subsystem is the metrics subsystem (default: "").
	Subsystem string

	// ConstLabels are constant labels added to all metrics.
	ConstLabels prometheus.Labels

	// Buckets are the histogram buckets for handler duration.
	// Default: prometheus.DefBuckets
	Buckets []float64

	// Registry is the Prometheus registry to use.
	// Default: prometheus.DefaultRegisterer
	Registry prometheus.Registerer
}

// Option configures the Prometheus observer.
type Option func(*Config)

// WithNamespace sets the metrics namespace.
func WithNamespace(namespace string) Option {
	return func(c *Config) {
		c.Namespace = namespace
	}
}

// WithSubsystem sets the metrics subsystem.
func WithSubsystem(subsystem string) Option {
	return func(c *Config) {
		c.Subsystem = subsystem
	}
}

// WithConstLabels sets constant labels for all metrics.
func WithConstLabels(labels prometheus.Labels) Option {
	return func(c *Config) {
		c.ConstLabels = labels
	}
}

// WithBuckets sets the histogram buckets.
func WithBuckets(buckets []float64) Option {
	return func(c *Config) {
		c.Buckets = buckets
	}
}

// WithRegistry sets the Prometheus registry.
func WithRegistry(registry prometheus.Registerer) Option {
	return func(c *Config) {
		c.Registry = registry
	}
}

func defaultConfig() Config {
	return Config{
		Namespace: "deeplink",
		Buckets:   prometheus.DefBuckets,
		Registry:  prometheus.DefaultRegisterer,
	}
}

// Observer implements deeplink.Observer by updating Prometheus metrics.
type Observer struct {
	dispatches      prometheus.Counter
	results         *prometheus.CounterVec
	handlerDuration *prometheus.HistogramVec
	registered      prometheus.Gauge
	pending         prometheus.Gauge
	violations      prometheus.Counter
}

// NewObserver creates the metrics and registers them with the configured
// registry. Creating two observers on the same registry panics, as with any
// duplicate Prometheus registration.
func NewObserver(opts ...Option) *Observer {
	config := defaultConfig()
	for _, opt := range opts {
		opt(&config)
	}
	factory := promauto.With(config.Registry)

	return &Observer{
		dispatches: factory.NewCounter(prometheus.CounterOpts{
			Namespace:   config.Namespace,
			Subsystem:   config.Subsystem,
			Name:        "dispatches_total",
			Help:        "Total number of deeplinks dispatched",
			ConstLabels: config.ConstLabels,
		}),

		results: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace:   config.Namespace,
			Subsystem:   config.Subsystem,
			Name:        "handler_results_total",
			Help:        "Handler invocations by phase and result",
			ConstLabels: config.ConstLabels,
		}, []string{"phase", "result"}),

		handlerDuration: factory.NewHistogramVec(prometheus.HistogramOpts{
			Namespace:   config.Namespace,
			Subsystem:   config.Subsystem,
			Name:        "handler_duration_seconds",
			Help:        "Handler invocation duration in seconds",
			ConstLabels: config.ConstLabels,
			Buckets:     config.Buckets,
		}, []string{"phase"}),

		registered: factory.NewGauge(prometheus.GaugeOpts{
			Namespace:   config.Namespace,
			Subsystem:   config.Subsystem,
			Name:        "registered_handlers",
			Help:        "Number of currently registered handlers",
			ConstLabels: config.ConstLabels,
		}),

		pending: factory.NewGauge(prometheus.GaugeOpts{
			Namespace:   config.Namespace,
			Subsystem:   config.Subsystem,
			Name:        "pending_link",
			Help:        "1 while a deeplink is pending, 0 otherwise",
			ConstLabels: config.ConstLabels,
		}),

		violations: factory.NewCounter(prometheus.CounterOpts{
			Namespace:   config.Namespace,
			Subsystem:   config.Subsystem,
			Name:        "contract_violations_total",
			Help:        "Unregister calls with an unknown handler id",
			ConstLabels: config.ConstLabels,
		}),
	}
}

func (o *Observer) OnRegister(e deeplink.RegisterEvent) {
	o.registered.Set(float64(e.Count))
}

func (o *Observer) OnUnregister(e deeplink.UnregisterEvent) {
	o.registered.Set(float64(e.Count))
}

func (o *Observer) OnReplay(e deeplink.ReplayEvent) {
	o.results.WithLabelValues(PhaseReplay, e.Result.String()).Inc()
	o.handlerDuration.WithLabelValues(PhaseReplay).Observe(e.Duration.Seconds())
	o.setPending(e.Pending)
}

func (o *Observer) OnDispatch(e deeplink.DispatchEvent) {
	o.dispatches.Inc()
	for _, out := range e.Outcomes {
		o.results.WithLabelValues(PhaseDispatch, out.Result.String()).Inc()
		o.handlerDuration.WithLabelValues(PhaseDispatch).Observe(out.Duration.Seconds())
	}
	o.setPending(e.Pending)
}

func (o *Observer) OnContractViolation(deeplink.ContractViolation) {
	o.violations.Inc()
}

func (o *Observer) setPending(pending bool) {
	if pending {
		o.pending.Set(1)
	} else {
		o.pending.Set(0)
	}
}

var _ deeplink.Observer = (*Observer)(nil)
