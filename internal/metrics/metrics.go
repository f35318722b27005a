// Package metrics exposes Prometheus collectors for sandbox activity and
// wires them into the observability hooks. Install is called once from
// main; every other package stays free of Prometheus imports.
package metrics

import (
	"context"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"github.com/structlab/structlab/pkg/observability"
)

// Collectors holds the registered Prometheus metrics.
type Collectors struct {
	Mutations       *prometheus.CounterVec
	RouteQueries    prometheus.Counter
	RouteHops       prometheus.Histogram
	LayoutDuration  prometheus.Histogram
	LayoutVertices  prometheus.Histogram
	FragmentsLive   prometheus.Gauge
	FragmentsExpire prometheus.Counter
}

// Install registers the collectors with reg and hooks them into the
// observability layer. Pass prometheus.DefaultRegisterer in production.
func Install(reg prometheus.Registerer) *Collectors {
	factory := promauto.With(reg)

	c := &Collectors{
		Mutations: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: "structlab",
			Name:      "mutations_total",
			Help:      "Completed structure mutations by structure and operation.",
		}, []string{"structure", "op"}),
		RouteQueries: factory.NewCounter(prometheus.CounterOpts{
			Namespace: "structlab",
			Name:      "route_queries_total",
			Help:      "Shortest-path queries against the transit network.",
		}),
		RouteHops: factory.NewHistogram(prometheus.HistogramOpts{
			Namespace: "structlab",
			Name:      "route_hops",
			Help:      "Stations per planned route.",
			Buckets:   prometheus.LinearBuckets(0, 5, 10),
		}),
		LayoutDuration: factory.NewHistogram(prometheus.HistogramOpts{
			Namespace: "structlab",
			Name:      "layout_duration_seconds",
			Help:      "Wall time of force-directed layout passes.",
			Buckets:   prometheus.ExponentialBuckets(0.0001, 4, 8),
		}),
		LayoutVertices: factory.NewHistogram(prometheus.HistogramOpts{
			Namespace: "structlab",
			Name:      "layout_vertices",
			Help:      "Vertices per layout pass.",
			Buckets:   prometheus.ExponentialBuckets(1, 2, 10),
		}),
		FragmentsLive: factory.NewGauge(prometheus.GaugeOpts{
			Namespace: "structlab",
			Name:      "fragments_live",
			Help:      "Fragments currently held by the registry.",
		}),
		FragmentsExpire: factory.NewCounter(prometheus.CounterOpts{
			Namespace: "structlab",
			Name:      "fragments_expired_total",
			Help:      "Fragments dropped by token TTL expiry.",
		}),
	}

	observability.SetSandboxHooks(&sandboxHooks{c})
	observability.SetRegistryHooks(&registryHooks{c})
	return c
}

type sandboxHooks struct{ c *Collectors }

func (h *sandboxHooks) OnMutation(_ context.Context, structure, op string) {
	h.c.Mutations.WithLabelValues(structure, op).Inc()
}

func (h *sandboxHooks) OnRouteQuery(_ context.Context, _, _ string, hops int) {
	h.c.RouteQueries.Inc()
	h.c.RouteHops.Observe(float64(hops))
}

func (h *sandboxHooks) OnLayout(_ context.Context, vertices int, duration time.Duration) {
	h.c.LayoutVertices.Observe(float64(vertices))
	h.c.LayoutDuration.Observe(duration.Seconds())
}

type registryHooks struct{ c *Collectors }

func (h *registryHooks) OnIssue(context.Context, string) {
	h.c.FragmentsLive.Inc()
}

func (h *registryHooks) OnWithdraw(context.Context, string) {
	h.c.FragmentsLive.Dec()
}

func (h *registryHooks) OnExpire(context.Context, string) {
	h.c.FragmentsLive.Dec()
	h.c.FragmentsExpire.Inc()
}
