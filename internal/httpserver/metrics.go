package httpserver

import (
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics holds the storefront collectors on a private registry so tests can build
// as many routers as they like.
type Metrics struct {
	registry  *prometheus.Registry
	Requests  *prometheus.CounterVec
	LatencyMS *prometheus.HistogramVec
	Orders    prometheus.Counter
	Revenue   prometheus.Counter
}

func NewMetrics(service string) *Metrics {
	requests := prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "vibe",
		Subsystem: service,
		Name:      "http_requests_total",
		Help:      "Total number of HTTP requests.",
	}, []string{"method", "route", "status"})
	latency := prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: "vibe",
		Subsystem: service,
		Name:      "http_request_duration_ms",
		Help:      "HTTP request latency in milliseconds.",
		Buckets:   []float64{0.5, 1, 2.5, 5, 10, 25, 50, 100, 250, 500, 1000, 2500, 5000},
	}, []string{"method", "route"})
	orders := prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: "vibe",
		Subsystem: service,
		Name:      "orders_placed_total",
		Help:      "Orders placed through checkout.",
	})
	revenue := prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: "vibe",
		Subsystem: service,
		Name:      "order_revenue_total",
		Help:      "Sum of placed order totals.",
	})

	reg := prometheus.NewRegistry()
	reg.MustRegister(
		requests, latency, orders, revenue,
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	return &Metrics{registry: reg, Requests: requests, LatencyMS: latency, Orders: orders, Revenue: revenue}
}

func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}

func (m *Metrics) middleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		route := c.FullPath()
		if route == "" {
			route = "unmatched"
		}
		m.Requests.WithLabelValues(c.Request.Method, route, strconv.Itoa(c.Writer.Status())).Inc()
		m.LatencyMS.WithLabelValues(c.Request.Method, route).Observe(elapsedMS(time.Since(start)))
	}
}

func (m *Metrics) observeOrder(total float64) {
	if m == nil {
		return
	}
	m.Orders.Inc()
	m.Revenue.Add(total)
}

// elapsedMS keeps sub-millisecond precision.
func elapsedMS(d time.Duration) float64 {
	return float64(d.Microseconds()) / 1000
}
