package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	// HTTP metrics
	httpRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "ezseo",
			Subsystem: "http",
			Name:      "requests_total",
			Help:      "Total number of HTTP requests",
		},
		[]string{"method", "path", "status"},
	)

	httpRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "ezseo",
			Subsystem: "http",
			Name:      "request_duration_seconds",
			Help:      "HTTP request duration in seconds",
			Buckets:   []float64{.001, .005, .01, .025, .05, .1, .25, .5, 1, 2.5, 5, 10},
		},
		[]string{"method", "path", "status"},
	)

	httpRequestsInFlight = promauto.NewGauge(
		prometheus.GaugeOpts{
			Namespace: "ezseo",
			Subsystem: "http",
			Name:      "requests_in_flight",
			Help:      "Number of HTTP requests currently being served",
		},
	)

	// Signup funnel metrics
	paymentRedirectsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "ezseo",
			Subsystem: "signup",
			Name:      "payment_redirects_total",
			Help:      "Total number of outbound payment hand-offs",
		},
		[]string{"plan", "kind"},
	)

	signupsProcessedTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "ezseo",
			Subsystem: "signup",
			Name:      "processed_total",
			Help:      "Total number of post-payment signup processing attempts",
		},
		[]string{"plan", "outcome"},
	)

	pendingSignupsExpired = promauto.NewCounter(
		prometheus.CounterOpts{
			Namespace: "ezseo",
			Subsystem: "signup",
			Name:      "pending_expired_total",
			Help:      "Pending signup records discarded as expired or malformed",
		},
	)

	// Account metrics
	signInsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "ezseo",
			Subsystem: "account",
			Name:      "sign_ins_total",
			Help:      "Total number of sign-in attempts",
		},
		[]string{"outcome"},
	)

	usageEventsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "ezseo",
			Subsystem: "usage",
			Name:      "events_total",
			Help:      "Total number of tracked usage events",
		},
		[]string{"action"},
	)
)

// RecordPaymentRedirect records an outbound payment hand-off.
// kind is "signup" for the pending-signup flow or "direct" for
// an already-authenticated upgrade.
func RecordPaymentRedirect(plan, kind string) {
	paymentRedirectsTotal.WithLabelValues(plan, kind).Inc()
}

// RecordSignupProcessed records a post-payment processing attempt
func RecordSignupProcessed(plan, outcome string) {
	signupsProcessedTotal.WithLabelValues(plan, outcome).Inc()
}

// RecordPendingExpired records a discarded pending signup record
func RecordPendingExpired() {
	pendingSignupsExpired.Inc()
}

// RecordSignIn records a sign-in attempt
func RecordSignIn(outcome string) {
	signInsTotal.WithLabelValues(outcome).Inc()
}

// RecordUsageEvent records a tracked usage event
func RecordUsageEvent(action string) {
	usageEventsTotal.WithLabelValues(action).Inc()
}

// statusRecorder wraps http.ResponseWriter to capture the status code
type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (r *statusRecorder) WriteHeader(code int) {
	r.status = code
	r.ResponseWriter.WriteHeader(code)
}

// Middleware returns an HTTP middleware that records request metrics
func Middleware() func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			httpRequestsInFlight.Inc()
			defer httpRequestsInFlight.Dec()

			rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
			next.ServeHTTP(rec, r)

			// Use the route pattern, not the raw path, to bound cardinality
			path := r.URL.Path
			if rctx := chi.RouteContext(r.Context()); rctx != nil && rctx.RoutePattern() != "" {
				path = rctx.RoutePattern()
			}

			status := strconv.Itoa(rec.status)
			httpRequestsTotal.WithLabelValues(r.Method, path, status).Inc()
			httpRequestDuration.WithLabelValues(r.Method, path, status).Observe(time.Since(start).Seconds())
		})
	}
}

// Handler returns the prometheus metrics HTTP handler
func Handler() http.Handler {
	return promhttp.Handler()
}
