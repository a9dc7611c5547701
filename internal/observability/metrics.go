package observability

import (
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics collects Prometheus metrics for the front end.
type Metrics struct {
	registry         *prometheus.Registry
	handler          http.Handler
	requestsTotal    *prometheus.CounterVec
	requestDuration  *prometheus.HistogramVec
	busEvents        *prometheus.CounterVec
	busFailures      *prometheus.CounterVec
	busSubscriptions *prometheus.GaugeVec
}

// NewMetrics initialises the registry and the base metrics.
func NewMetrics() *Metrics {
	registry := prometheus.NewRegistry()
	requests := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "frontdesk_http_requests_total",
		Help: "HTTP requests by route and status code.",
	}, []string{"route", "code"})
	duration := prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "frontdesk_http_request_duration_seconds",
		Help:    "HTTP request latency by route.",
		Buckets: prometheus.DefBuckets,
	}, []string{"route"})
	busEvents := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "frontdesk_bus_events_total",
		Help: "Events published on view buses by bus and command.",
	}, []string{"bus", "key"})
	busFailures := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "frontdesk_bus_subscriber_failures_total",
		Help: "Subscriber errors and panics isolated by view buses.",
	}, []string{"bus", "key"})
	busSubscriptions := prometheus.NewGaugeVec(prometheus.GaugeOpts{
		Name: "frontdesk_bus_last_fanout",
		Help: "Subscribers reached by the latest publish per bus.",
	}, []string{"bus"})
	registry.MustRegister(requests, duration, busEvents, busFailures, busSubscriptions)
	return &Metrics{
		registry:         registry,
		handler:          promhttp.HandlerFor(registry, promhttp.HandlerOpts{}),
		requestsTotal:    requests,
		requestDuration:  duration,
		busEvents:        busEvents,
		busFailures:      busFailures,
		busSubscriptions: busSubscriptions,
	}
}

// Handler returns the http.Handler for the /metrics endpoint.
func (m *Metrics) Handler() http.Handler {
	if m == nil {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			http.Error(w, http.StatusText(http.StatusServiceUnavailable), http.StatusServiceUnavailable)
		})
	}
	return m.handler
}

// Middleware records metrics for each HTTP request.
func (m *Metrics) Middleware(next http.Handler) http.Handler {
	if m == nil {
		return next
	}
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		recorder := statusRecorder{ResponseWriter: w, status: http.StatusOK}
		next.ServeHTTP(&recorder, r)
		route := routePattern(r)
		m.requestsTotal.WithLabelValues(route, strconv.Itoa(recorder.status)).Inc()
		m.requestDuration.WithLabelValues(route).Observe(time.Since(start).Seconds())
	})
}

// EventPublished implements eventbus.Observer.
func (m *Metrics) EventPublished(bus, key string, subscribers int) {
	if m == nil {
		return
	}
	m.busEvents.WithLabelValues(bus, key).Inc()
	m.busSubscriptions.WithLabelValues(bus).Set(float64(subscribers))
}

// SubscriberFailed implements eventbus.Observer.
func (m *Metrics) SubscriberFailed(bus, key string) {
	if m == nil {
		return
	}
	m.busFailures.WithLabelValues(bus, key).Inc()
}

// Registerer exposes the registry for custom metrics.
func (m *Metrics) Registerer() prometheus.Registerer {
	if m == nil {
		return prometheus.DefaultRegisterer
	}
	return m.registry
}

type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (r *statusRecorder) WriteHeader(status int) {
	r.status = status
	r.ResponseWriter.WriteHeader(status)
}

func routePattern(r *http.Request) string {
	if routeCtx := chi.RouteContext(r.Context()); routeCtx != nil {
		if pattern := routeCtx.RoutePattern(); pattern != "" {
			return pattern
		}
	}
	return "unknown"
}
