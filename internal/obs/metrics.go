package obs

import (
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Shared HTTP metrics.
var (
	httpInFlight = prometheus.NewGauge(prometheus.GaugeOpts{
		Name: "http_in_flight_requests",
		Help: "In-flight HTTP requests.",
	})

	httpRequestsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "http_requests_total",
			Help: "Total number of HTTP requests.",
		},
		[]string{"method", "path", "status"},
	)

	httpRequestDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "http_request_duration_seconds",
			Help:    "HTTP request latencies in seconds.",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "path", "status"},
	)
)

// Auth flow metrics.
var (
	loginAttempts = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "auth_login_attempts_total",
			Help: "Login attempts by outcome.",
		},
		[]string{"outcome"},
	)

	mfaVerifications = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "auth_mfa_verifications_total",
			Help: "MFA code verifications by result.",
		},
		[]string{"result"},
	)

	deviceBypasses = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "auth_device_bypass_total",
			Help: "Trusted-device MFA bypass checks by outcome.",
		},
		[]string{"outcome"},
	)

	domainSwitches = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "session_domain_switches_total",
			Help: "Session domain switches by target domain.",
		},
		[]string{"domain"},
	)
)

// Init registers all metrics in the default registry.
func Init() {
	prometheus.MustRegister(
		httpInFlight, httpRequestsTotal, httpRequestDuration,
		loginAttempts, mfaVerifications, deviceBypasses, domainSwitches,
	)
}

// Handler exposes the Prometheus scrape endpoint.
func Handler() http.Handler {
	return promhttp.Handler()
}

// CountLogin records a login attempt outcome (ok, denied, mfa_required, error).
func CountLogin(outcome string) { loginAttempts.WithLabelValues(outcome).Inc() }

// CountMFAVerification records an MFA verification result code.
func CountMFAVerification(result string) { mfaVerifications.WithLabelValues(result).Inc() }

// CountDeviceBypass records a trusted-device check outcome (trusted, untrusted).
func CountDeviceBypass(outcome string) { deviceBypasses.WithLabelValues(outcome).Inc() }

// CountDomainSwitch records a domain switch.
func CountDomainSwitch(domain string) { domainSwitches.WithLabelValues(domain).Inc() }

// CanonicalPath collapses resource identifiers so metric labels stay low
// cardinality: /v1/auth/devices/01HX... becomes /v1/auth/devices/:id.
func CanonicalPath(path string) string {
	if path == "" {
		return "/"
	}
	if i := strings.IndexByte(path, '?'); i >= 0 {
		path = path[:i]
	}
	parts := strings.Split(strings.TrimPrefix(path, "/"), "/")
	if len(parts) == 4 && parts[0] == "v1" && parts[1] == "auth" && parts[2] == "devices" {
		return "/v1/auth/devices/:id"
	}
	return path
}

// Instrument wraps a handler with RPS/latency/in-flight accounting.
func Instrument(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		path := CanonicalPath(r.URL.Path)
		method := r.Method

		httpInFlight.Inc()
		start := time.Now()

		sw := &statusWriter{ResponseWriter: w, code: 200}
		next.ServeHTTP(sw, r)

		duration := time.Since(start).Seconds()
		status := strconv.Itoa(sw.code)

		httpRequestDuration.WithLabelValues(method, path, status).Observe(duration)
		httpRequestsTotal.WithLabelValues(method, path, status).Inc()
		httpInFlight.Dec()
	})
}

// statusWriter captures the response code for labels.
type statusWriter struct {
	http.ResponseWriter
	code int
}

func (w *statusWriter) WriteHeader(code int) {
	w.code = code
	w.ResponseWriter.WriteHeader(code)
}
