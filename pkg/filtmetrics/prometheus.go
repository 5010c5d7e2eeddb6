// Package filtmetrics wraps github.com/prometheus/client_golang collectors
// around a filtmgr.Manager via the Hooks interface, grounded on
// oriys-nova/internal/metrics/prometheus.go's collector-registry pattern.
// Unlike that source (a package-level singleton), Collector is an
// instance — filtmgr's own "no global mutable state" design note (spec.md
// §9) extends naturally to its observers too.
package filtmetrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/bloomd/filtmgr/pkg/filtmgr"
)

// batchSizeBuckets covers single-key calls up through large bulk batches.
var batchSizeBuckets = []float64{1, 2, 4, 8, 16, 32, 64, 128, 256, 512, 1024}

// Collector implements filtmgr.Hooks and exposes the resulting counters
// and gauges through its own Prometheus registry.
type Collector struct {
	registry *prometheus.Registry

	createTotal *prometheus.CounterVec
	dropTotal   *prometheus.CounterVec
	clearTotal  *prometheus.CounterVec

	batchSize *prometheus.HistogramVec

	vacuumCyclesTotal    prometheus.Counter
	vacuumReclaimedTotal prometheus.Counter
	chainDepth           prometheus.Gauge

	activeFilters prometheus.Gauge
}

// New constructs a Collector registered under namespace and registers the
// standard Go/process collectors alongside it, matching oriys-nova's
// InitPrometheus.
func New(namespace string) *Collector {
	registry := prometheus.NewRegistry()
	registry.MustRegister(prometheus.NewGoCollector())
	registry.MustRegister(prometheus.NewProcessCollector(prometheus.ProcessCollectorOpts{}))

	c := &Collector{
		registry: registry,

		createTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "create_total",
				Help:      "Total create() calls by outcome",
			},
			[]string{"result"},
		),
		dropTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "drop_total",
				Help:      "Total drop() calls by outcome",
			},
			[]string{"result"},
		),
		clearTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "clear_total",
				Help:      "Total clear() calls by outcome",
			},
			[]string{"result"},
		),
		batchSize: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Name:      "batch_size",
				Help:      "Key count per check_keys/set_keys batch",
				Buckets:   batchSizeBuckets,
			},
			[]string{"op"},
		),
		vacuumCyclesTotal: prometheus.NewCounter(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "vacuum_cycles_total",
				Help:      "Total vacuum cycles run",
			},
		),
		vacuumReclaimedTotal: prometheus.NewCounter(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "vacuum_reclaimed_versions_total",
				Help:      "Total versions reclaimed across all vacuum cycles",
			},
		),
		chainDepth: prometheus.NewGauge(
			prometheus.GaugeOpts{
				Namespace: namespace,
				Name:      "version_chain_depth",
				Help:      "latest.vsn minus the oldest retained version as of the last vacuum cycle",
			},
		),
		activeFilters: prometheus.NewGauge(
			prometheus.GaugeOpts{
				Namespace: namespace,
				Name:      "active_filters",
				Help:      "Number of filters currently active (best-effort, updated on create/drop/clear)",
			},
		),
	}

	registry.MustRegister(
		c.createTotal,
		c.dropTotal,
		c.clearTotal,
		c.batchSize,
		c.vacuumCyclesTotal,
		c.vacuumReclaimedTotal,
		c.chainDepth,
		c.activeFilters,
	)

	return c
}

// Attach installs c as m's hook sink. A Collector has no other link back
// to the manager: every observation arrives through Hooks, and any
// per-filter metadata reads go through m.FilterCB, never through a
// Collector-held reference to the manager's internals.
func (c *Collector) Attach(m *filtmgr.Manager) {
	m.SetHooks(c)
}

func (c *Collector) OnCreate(name string, ok bool) {
	c.createTotal.WithLabelValues(resultLabel(ok)).Inc()
	if ok {
		c.activeFilters.Inc()
	}
}

func (c *Collector) OnDrop(name string, ok bool) {
	c.dropTotal.WithLabelValues(resultLabel(ok)).Inc()
	if ok {
		c.activeFilters.Dec()
	}
}

func (c *Collector) OnClear(name string, ok bool) {
	c.clearTotal.WithLabelValues(resultLabel(ok)).Inc()
	if ok {
		c.activeFilters.Dec()
	}
}

func (c *Collector) OnBatch(op string, n int) {
	c.batchSize.WithLabelValues(op).Observe(float64(n))
}

func (c *Collector) OnVacuumCycle(reclaimed int, chainDepth uint64) {
	c.vacuumCyclesTotal.Inc()
	c.vacuumReclaimedTotal.Add(float64(reclaimed))
	c.chainDepth.Set(float64(chainDepth))
}

func resultLabel(ok bool) string {
	if ok {
		return "ok"
	}
	return "error"
}

// Handler returns an HTTP handler for Prometheus scraping, matching
// oriys-nova's PrometheusHandler.
func (c *Collector) Handler() http.Handler {
	return promhttp.HandlerFor(c.registry, promhttp.HandlerOpts{})
}

// Registry returns the underlying registry, for callers that want to
// register additional collectors alongside this one.
func (c *Collector) Registry() *prometheus.Registry {
	return c.registry
}
