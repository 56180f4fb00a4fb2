package middleware

import (
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	httpRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "http_requests_total",
			Help: "Total number of HTTP requests",
		},
		[]string{"method", "path", "status"},
	)

	httpRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "http_request_duration_seconds",
			Help:    "Duration of HTTP requests in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "path"},
	)

	activeConnections = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "http_active_connections",
			Help: "Number of active HTTP connections",
		},
	)

	emailsSent = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "emails_sent_total",
			Help: "Total number of send attempts by outcome",
		},
		[]string{"status"},
	)

	campaignsProcessed = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "campaigns_processed_total",
			Help: "Total number of campaigns processed",
		},
	)

	trackingEvents = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "tracking_events_total",
			Help: "Total number of open and click hits",
		},
		[]string{"type"},
	)

	emailEvents = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "email_events_total",
			Help: "Total number of email events consumed from the broker",
		},
		[]string{"type"},
	)
)

// Metrics labels requests by chi route pattern so tracking ids do not
// become label values.
func Metrics(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		activeConnections.Inc()
		defer activeConnections.Dec()

		ww := chimw.NewWrapResponseWriter(w, r.ProtoMajor)
		next.ServeHTTP(ww, r)

		status := ww.Status()
		if status == 0 {
			status = http.StatusOK
		}

		path := r.URL.Path
		if rctx := chi.RouteContext(r.Context()); rctx != nil {
			if pattern := rctx.RoutePattern(); pattern != "" {
				path = pattern
			}
		}

		httpRequestsTotal.WithLabelValues(r.Method, path, strconv.Itoa(status)).Inc()
		httpRequestDuration.WithLabelValues(r.Method, path).Observe(time.Since(start).Seconds())
	})
}

func RecordEmailSent(status string) {
	emailsSent.WithLabelValues(status).Inc()
}

func RecordCampaign(sent, failed int) {
	campaignsProcessed.Inc()
	emailsSent.WithLabelValues("sent").Add(float64(sent))
	emailsSent.WithLabelValues("failed").Add(float64(failed))
}

func RecordTrackingEvent(kind string) {
	trackingEvents.WithLabelValues(kind).Inc()
}

func RecordEmailEvent(eventType string) {
	emailEvents.WithLabelValues(eventType).Inc()
}
