package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	HTTPRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "socialnet_http_requests_total",
			Help: "HTTP requests by method, route and status",
		},
		[]string{"method", "route", "status"},
	)

	HTTPRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "socialnet_http_request_duration_seconds",
			Help:    "HTTP request latency",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "route"},
	)

	PostsCreated = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "socialnet_posts_created_total",
			Help: "Posts created, by kind (original or share)",
		},
		[]string{"kind"},
	)

	ReactionsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "socialnet_reactions_total",
			Help: "Reaction toggles by outcome",
		},
		[]string{"outcome"},
	)

	CommentsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "socialnet_comments_total",
			Help: "Comments and replies written",
		},
		[]string{"kind"},
	)

	WriteConflicts = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "socialnet_post_write_conflicts_total",
			Help: "Optimistic concurrency retries on post documents",
		},
	)

	NotificationsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "socialnet_notifications_total",
			Help: "Notification records by type and result",
		},
		[]string{"type", "result"},
	)

	LivePushesTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "socialnet_live_pushes_total",
			Help: "Live events published by result",
		},
		[]string{"result"},
	)

	WebsocketConnections = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "socialnet_websocket_connections",
			Help: "Open websocket connections on this instance",
		},
	)
)

// Handler exposes the default registry
func Handler() http.Handler {
	return promhttp.Handler()
}
