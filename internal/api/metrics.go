package api

import (
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/valyala/fasthttp"
	"github.com/valyala/fasthttp/fasthttpadaptor"
)

type metrics struct {
	requests *prometheus.CounterVec
	latency  *prometheus.HistogramVec
	writes   *prometheus.CounterVec
}

func newMetrics(reg prometheus.Registerer) *metrics {
	m := &metrics{
		requests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "hr_directory",
			Name:      "http_requests_total",
			Help:      "HTTP requests by method, route and status.",
		}, []string{"method", "route", "status"}),
		latency: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: "hr_directory",
			Name:      "http_request_duration_seconds",
			Help:      "HTTP request latency by method and route.",
			Buckets:   prometheus.DefBuckets,
		}, []string{"method", "route"}),
		writes: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "hr_directory",
			Name:      "employee_writes_total",
			Help:      "Successful employee writes by operation.",
		}, []string{"op"}),
	}

	reg.MustRegister(m.requests, m.latency, m.writes)

	return m
}

func (m *metrics) middleware(next fasthttp.RequestHandler) fasthttp.RequestHandler {
	return func(ctx *fasthttp.RequestCtx) {
		begin := time.Now()
		next(ctx)

		method := string(ctx.Method())
		route := routeOf(ctx)
		m.requests.WithLabelValues(method, route, strconv.Itoa(ctx.Response.StatusCode())).Inc()
		m.latency.WithLabelValues(method, route).Observe(time.Since(begin).Seconds())
	}
}

func (m *metrics) wrote(op string) {
	m.writes.WithLabelValues(op).Inc()
}

// routeOf keeps label cardinality bounded: employee IDs collapse into one route.
func routeOf(ctx *fasthttp.RequestCtx) string {
	if _, ok := ctx.UserValue("id").(string); ok {
		return "/employees/{id}"
	}
	switch p := string(ctx.Path()); p {
	case "/employees", "/events", "/dlq", "/health", "/metrics", "/admin/reset":
		return p
	default:
		return "other"
	}
}

func metricsHandler(reg *prometheus.Registry) fasthttp.RequestHandler {
	return fasthttpadaptor.NewFastHTTPHandler(promhttp.HandlerFor(reg, promhttp.HandlerOpts{}))
}
