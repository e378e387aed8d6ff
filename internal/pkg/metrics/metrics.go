// Package metrics exposes dispatch activity as Prometheus series.
package metrics

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "dispatch"

// Dispatch records passes, cluster outcomes and exclusions on its own
// registry. It satisfies the pass metrics contract of the dispatch handler.
type Dispatch struct {
	registry *prometheus.Registry

	passes         *prometheus.CounterVec
	passDuration   *prometheus.HistogramVec
	lastEligible   prometheus.Gauge
	clusters       *prometheus.CounterVec
	assignedOrders *prometheus.CounterVec
	exclusions     *prometheus.CounterVec
}

func NewDispatch() *Dispatch {
	registry := prometheus.NewRegistry()

	m := &Dispatch{
		registry: registry,
		passes: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "passes_total",
				Help:      "Dispatch passes by outcome",
			},
			[]string{"outcome"},
		),
		passDuration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Name:      "pass_duration_seconds",
				Help:      "Duration of dispatch passes in seconds",
				Buckets:   prometheus.DefBuckets,
			},
			[]string{"outcome"},
		),
		lastEligible: prometheus.NewGauge(
			prometheus.GaugeOpts{
				Namespace: namespace,
				Name:      "last_pass_eligible_orders",
				Help:      "Eligible orders seen by the last completed pass",
			},
		),
		clusters: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "clusters_total",
				Help:      "Clusters processed by result",
			},
			[]string{"result"},
		),
		assignedOrders: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "orders_assigned_total",
				Help:      "Orders assigned by dispatch, by match mode",
			},
			[]string{"mode"},
		),
		exclusions: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "orders_excluded_total",
				Help:      "Eligible orders left out of a pass, by reason",
			},
			[]string{"reason"},
		),
	}

	registry.MustRegister(
		m.passes,
		m.passDuration,
		m.lastEligible,
		m.clusters,
		m.assignedOrders,
		m.exclusions,
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)

	return m
}

func (m *Dispatch) ObservePass(outcome string, duration time.Duration, eligible int) {
	m.passes.WithLabelValues(outcome).Inc()
	m.passDuration.WithLabelValues(outcome).Observe(duration.Seconds())
	if outcome == "completed" {
		m.lastEligible.Set(float64(eligible))
	}
}

// ObserveCluster counts the cluster; assigned orders are counted per mode
// only when the cluster was actually assigned.
func (m *Dispatch) ObserveCluster(result, mode string, orders int) {
	m.clusters.WithLabelValues(result).Inc()
	if result == "assigned" {
		m.assignedOrders.WithLabelValues(mode).Add(float64(orders))
	}
}

func (m *Dispatch) ObserveExclusion(reason string) {
	m.exclusions.WithLabelValues(reason).Inc()
}

// Handler serves the registry in the Prometheus text format.
func (m *Dispatch) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{Registry: m.registry})
}

func (m *Dispatch) Registry() *prometheus.Registry {
	return m.registry
}
