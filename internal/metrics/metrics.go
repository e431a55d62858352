package metrics

import (
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/gin-gonic/gin"
)

var (
	httpRequests = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "schoolhub_http_requests_total",
		Help: "HTTP requests by method, route and status.",
	}, []string{"method", "route", "status"})

	httpDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "schoolhub_http_request_duration_seconds",
		Help:    "HTTP request latency.",
		Buckets: prometheus.DefBuckets,
	}, []string{"method", "route"})

	WSConnections = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "schoolhub_ws_connections",
		Help: "Open websocket connections.",
	})

	NotificationsEmitted = promauto.NewCounter(prometheus.CounterOpts{
		Name: "schoolhub_notifications_emitted_total",
		Help: "Notifications pushed over the realtime channel.",
	})

	MessagesSent = promauto.NewCounter(prometheus.CounterOpts{
		Name: "schoolhub_chat_messages_sent_total",
		Help: "Chat messages persisted.",
	})
)

func ObserveHTTPRequest(method, route string, status int, duration time.Duration) {
	if route == "" {
		route = "unmatched"
	}
	httpRequests.WithLabelValues(method, route, strconv.Itoa(status)).Inc()
	httpDuration.WithLabelValues(method, route).Observe(duration.Seconds())
}

// Handler exposes the prometheus registry for GET /metrics.
func Handler() gin.HandlerFunc {
	h := promhttp.Handler()
	return func(c *gin.Context) {
		h.ServeHTTP(c.Writer, c.Request)
	}
}
