// Package metrics exposes Prometheus metrics for the gateway.
//
// A nil *Collector is valid and records nothing, so handlers can be built
// without metrics in tests.
package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const (
	namespace = "gunther"
	subsystem = "gateway"
)

type Collector struct {
	registry *prometheus.Registry

	chatRequests     *prometheus.CounterVec
	upstreamErrors   *prometheus.CounterVec
	upstreamDuration *prometheus.HistogramVec
	upstreamUp       prometheus.Gauge
}

// NewCollector registers the gateway metrics on a private registry, together
// with the Go runtime and process collectors.
func NewCollector() *Collector {
	c := &Collector{
		registry: prometheus.NewRegistry(),
		chatRequests: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Subsystem: subsystem,
				Name:      "chat_requests_total",
				Help:      "Chat requests answered, by HTTP status code",
			},
			[]string{"status"},
		),
		upstreamErrors: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Subsystem: subsystem,
				Name:      "upstream_errors_total",
				Help:      "Failed calls to the inference server, by error kind",
			},
			[]string{"kind"},
		),
		upstreamDuration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Subsystem: subsystem,
				Name:      "upstream_request_duration_seconds",
				Help:      "Duration of calls to the inference server in seconds",
				// LLM latencies, 100ms - 2m
				Buckets: []float64{0.1, 0.25, 0.5, 1, 2, 5, 10, 30, 60, 120},
			},
			[]string{"operation"},
		),
		upstreamUp: prometheus.NewGauge(
			prometheus.GaugeOpts{
				Namespace: namespace,
				Subsystem: subsystem,
				Name:      "upstream_up",
				Help:      "1 if the last health probe reached the inference server, 0 otherwise",
			},
		),
	}

	c.registry.MustRegister(
		c.chatRequests,
		c.upstreamErrors,
		c.upstreamDuration,
		c.upstreamUp,
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	return c
}

func (c *Collector) RecordChat(status int) {
	if c == nil {
		return
	}
	c.chatRequests.WithLabelValues(strconv.Itoa(status)).Inc()
}

func (c *Collector) RecordUpstream(operation string, duration time.Duration, errKind string) {
	if c == nil {
		return
	}
	c.upstreamDuration.WithLabelValues(operation).Observe(duration.Seconds())
	if errKind != "" {
		c.upstreamErrors.WithLabelValues(errKind).Inc()
	}
}

func (c *Collector) SetUpstreamUp(up bool) {
	if c == nil {
		return
	}
	if up {
		c.upstreamUp.Set(1)
	} else {
		c.upstreamUp.Set(0)
	}
}

// Handler serves the registry in the Prometheus exposition format.
func (c *Collector) Handler() http.Handler {
	if c == nil {
		return http.NotFoundHandler()
	}
	return promhttp.HandlerFor(c.registry, promhttp.HandlerOpts{
		EnableOpenMetrics: true,
		ErrorHandling:     promhttp.ContinueOnError,
	})
}
