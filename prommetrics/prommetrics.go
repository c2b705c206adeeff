// Package prommetrics exports stdkit allocator and container metrics to
// Prometheus.
//
//	reg := prometheus.NewRegistry()
//	mc, err := prommetrics.New(reg)
//	...
//	tk := stdkit.New(stdkit.WithMetricsCollector(mc))
package prommetrics

import (
	"errors"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/hupe1980/stdkit"
)

// DefaultNamespace prefixes every metric name unless WithNamespace is used.
const DefaultNamespace = "stdkit"

var _ stdkit.MetricsCollector = (*Collector)(nil)

// Collector implements stdkit.MetricsCollector on Prometheus metrics.
type Collector struct {
	allocations *prometheus.CounterVec
	allocSize   prometheus.Histogram
	deallocs    prometheus.Counter
	bytesInUse  prometheus.Gauge
	bytesTotal  prometheus.Counter
	containers  *prometheus.CounterVec
}

type options struct {
	namespace   string
	constLabels prometheus.Labels
}

// Option configures a Collector.
type Option func(*options)

// WithNamespace sets the metric namespace.
func WithNamespace(ns string) Option {
	return func(o *options) {
		o.namespace = ns
	}
}

// WithConstLabels attaches constant labels to every metric, e.g. to tell
// several Toolkits apart on one registry.
func WithConstLabels(labels prometheus.Labels) Option {
	return func(o *options) {
		o.constLabels = labels
	}
}

// New creates a Collector and registers its metrics with registerer.
func New(registerer prometheus.Registerer, opts ...Option) (*Collector, error) {
	o := options{namespace: DefaultNamespace}
	for _, opt := range opts {
		opt(&o)
	}

	c := &Collector{
		allocations: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace:   o.namespace,
			Name:        "allocations_total",
			Help:        "Allocation requests by outcome",
			ConstLabels: o.constLabels,
		}, []string{"status"}),
		allocSize: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace:   o.namespace,
			Name:        "allocation_size_bytes",
			Help:        "Size of granted allocation requests",
			Buckets:     prometheus.ExponentialBuckets(8, 4, 10),
			ConstLabels: o.constLabels,
		}),
		deallocs: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace:   o.namespace,
			Name:        "deallocations_total",
			Help:        "Release calls",
			ConstLabels: o.constLabels,
		}),
		bytesInUse: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace:   o.namespace,
			Name:        "bytes_in_use",
			Help:        "Bytes currently reserved by containers",
			ConstLabels: o.constLabels,
		}),
		bytesTotal: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace:   o.namespace,
			Name:        "allocated_bytes_total",
			Help:        "Bytes granted since start",
			ConstLabels: o.constLabels,
		}),
		containers: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace:   o.namespace,
			Name:        "containers_created_total",
			Help:        "Containers built by kind and outcome",
			ConstLabels: o.constLabels,
		}, []string{"kind", "status"}),
	}

	err := errors.Join(
		registerer.Register(c.allocations),
		registerer.Register(c.allocSize),
		registerer.Register(c.deallocs),
		registerer.Register(c.bytesInUse),
		registerer.Register(c.bytesTotal),
		registerer.Register(c.containers),
	)
	if err != nil {
		return nil, err
	}
	return c, nil
}

func status(err error) string {
	if err != nil {
		return "error"
	}
	return "success"
}

// RecordAllocate implements stdkit.MetricsCollector.
func (c *Collector) RecordAllocate(size int, err error) {
	c.allocations.WithLabelValues(status(err)).Inc()
	if err != nil {
		return
	}
	c.allocSize.Observe(float64(size))
	c.bytesTotal.Add(float64(size))
	c.bytesInUse.Add(float64(size))
}

// RecordDeallocate implements stdkit.MetricsCollector.
func (c *Collector) RecordDeallocate(size int) {
	c.deallocs.Inc()
	c.bytesInUse.Sub(float64(size))
}

// RecordCreate implements stdkit.MetricsCollector.
func (c *Collector) RecordCreate(kind string, err error) {
	c.containers.WithLabelValues(kind, status(err)).Inc()
}
