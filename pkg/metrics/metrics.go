// Package metrics exports binding activity as Prometheus metrics.
//
// A *Metrics value is a bind.Observer: pass it with bind.WithObserver and
// every propagation, skipped directive and list operation is counted. The
// live server additionally records its websocket operations and clients.
//
//	m := metrics.New(metrics.WithRegistry(reg))
//	core := bind.New(data, bind.WithObserver(m))
package metrics

import (
	stderrors "errors"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"github.com/vango-dev/bindery/internal/errors"
)

// Config configures the metrics.
type Config struct {
	// Namespace is the metrics namespace (default: "bindery").
	Namespace string

	// Subsystem is the metrics subsystem (default: "").
	Subsystem string

	// ConstLabels are constant labels added to all metrics.
	ConstLabels prometheus.Labels

	// Buckets are the histogram buckets for operation duration.
	// Default: prometheus.DefBuckets
	Buckets []float64

	// Registry is the Prometheus registry to use.
	// Default: prometheus.DefaultRegisterer
	Registry prometheus.Registerer
}

// Option configures the metrics.
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
		Namespace: "bindery",
		Buckets:   prometheus.DefBuckets,
		Registry:  prometheus.DefaultRegisterer,
	}
}

// Metrics holds the collectors. It implements bind.Observer.
type Metrics struct {
	reactions    prometheus.Counter
	memberWrites prometheus.Counter
	parseErrors  *prometheus.CounterVec
	listOps      *prometheus.CounterVec
	listItems    *prometheus.CounterVec
	ops          *prometheus.CounterVec
	opDuration   *prometheus.HistogramVec
	clients      prometheus.Gauge
}

// New registers the collectors with the configured registry. Registering
// twice with the same registry panics, as promauto does.
func New(opts ...Option) *Metrics {
	config := defaultConfig()
	for _, opt := range opts {
		opt(&config)
	}
	factory := promauto.With(config.Registry)

	counter := func(name, help string) prometheus.CounterOpts {
		return prometheus.CounterOpts{
			Namespace:   config.Namespace,
			Subsystem:   config.Subsystem,
			Name:        name,
			Help:        help,
			ConstLabels: config.ConstLabels,
		}
	}

	return &Metrics{
		reactions: factory.NewCounter(counter("reactions_total",
			"Total number of references propagated")),

		memberWrites: factory.NewCounter(counter("member_writes_total",
			"Total number of attribute and property writes")),

		parseErrors: factory.NewCounterVec(counter("parse_errors_total",
			"Total number of directives skipped while scanning"), []string{"code"}),

		listOps: factory.NewCounterVec(counter("list_ops_total",
			"Total number of structural list operations"), []string{"op"}),

		listItems: factory.NewCounterVec(counter("list_items_total",
			"Total number of items affected by list operations"), []string{"op"}),

		ops: factory.NewCounterVec(counter("ops_total",
			"Total number of live document operations"), []string{"op", "status"}),

		opDuration: factory.NewHistogramVec(prometheus.HistogramOpts{
			Namespace:   config.Namespace,
			Subsystem:   config.Subsystem,
			Name:        "op_duration_seconds",
			Help:        "Live document operation duration in seconds",
			ConstLabels: config.ConstLabels,
			Buckets:     config.Buckets,
		}, []string{"op"}),

		clients: factory.NewGauge(prometheus.GaugeOpts{
			Namespace:   config.Namespace,
			Subsystem:   config.Subsystem,
			Name:        "clients",
			Help:        "Number of connected live document clients",
			ConstLabels: config.ConstLabels,
		}),
	}
}

// Reacted records one propagated reference and its member writes.
func (m *Metrics) Reacted(name string, writes int) {
	m.reactions.Inc()
	m.memberWrites.Add(float64(writes))
}

// ParseFailed records a skipped directive by error code.
func (m *Metrics) ParseFailed(err error) {
	code := "unknown"
	var be *errors.BindError
	if stderrors.As(err, &be) && be.Code != "" {
		code = be.Code
	}
	m.parseErrors.WithLabelValues(code).Inc()
}

// ListOp records a structural list operation.
func (m *Metrics) ListOp(op string, items int) {
	m.listOps.WithLabelValues(op).Inc()
	m.listItems.WithLabelValues(op).Add(float64(items))
}

// ObserveOp records one live document operation.
func (m *Metrics) ObserveOp(op string, d time.Duration, err error) {
	status := "ok"
	if err != nil {
		status = "error"
	}
	m.ops.WithLabelValues(op, status).Inc()
	m.opDuration.WithLabelValues(op).Observe(d.Seconds())
}

// ClientConnected increments the connected client gauge.
func (m *Metrics) ClientConnected() {
	m.clients.Inc()
}

// ClientDisconnected decrements the connected client gauge.
func (m *Metrics) ClientDisconnected() {
	m.clients.Dec()
}
