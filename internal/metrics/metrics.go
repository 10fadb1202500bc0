package metrics

import (
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Recorder abstracts metric recording so handlers never depend on
// Prometheus directly
type Recorder interface {
	RecordHTTPRequest(method, path, status string, duration time.Duration)
	RecordOAuthLogin()
	RecordOAuthCallback(success bool)
	RecordTokenIssued()
	RecordWebhookEvent(event, result string)
}

// Ensure Metrics implements Recorder at compile time
var _ Recorder = (*Metrics)(nil)

// Metrics holds all Prometheus metrics for the application
type Metrics struct {
	HTTPRequestsTotal   *prometheus.CounterVec
	HTTPRequestDuration *prometheus.HistogramVec

	OAuthLoginTotal    prometheus.Counter
	OAuthCallbackTotal *prometheus.CounterVec

	TokensIssuedTotal prometheus.Counter

	WebhookEventsTotal *prometheus.CounterVec
}

var (
	defaultMetrics *Metrics
	once           sync.Once
)

// Init returns the process-wide Recorder. Prometheus collectors register
// once; a disabled configuration gets the zero-overhead noop recorder.
func Init(enabled bool) Recorder {
	if !enabled {
		return NewNoopRecorder()
	}
	once.Do(func() {
		defaultMetrics = initMetrics()
	})
	return defaultMetrics
}

func initMetrics() *Metrics {
	return &Metrics{
		HTTPRequestsTotal: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "repolens_http_requests_total",
				Help: "Total HTTP requests by method, path, and status",
			},
			[]string{"method", "path", "status"},
		),
		HTTPRequestDuration: promauto.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "repolens_http_request_duration_seconds",
				Help:    "HTTP request latency by method and path",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"method", "path"},
		),
		OAuthLoginTotal: promauto.NewCounter(
			prometheus.CounterOpts{
				Name: "repolens_oauth_login_total",
				Help: "Login redirects issued to the OAuth provider",
			},
		),
		OAuthCallbackTotal: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "repolens_oauth_callback_total",
				Help: "OAuth callbacks by result",
			},
			[]string{"result"},
		),
		TokensIssuedTotal: promauto.NewCounter(
			prometheus.CounterOpts{
				Name: "repolens_tokens_issued_total",
				Help: "Session credentials issued",
			},
		),
		WebhookEventsTotal: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "repolens_webhook_events_total",
				Help: "GitHub webhook deliveries by event and result",
			},
			[]string{"event", "result"},
		),
	}
}

func (m *Metrics) RecordHTTPRequest(method, path, status string, duration time.Duration) {
	m.HTTPRequestsTotal.WithLabelValues(method, path, status).Inc()
	m.HTTPRequestDuration.WithLabelValues(method, path).Observe(duration.Seconds())
}

func (m *Metrics) RecordOAuthLogin() {
	m.OAuthLoginTotal.Inc()
}

func (m *Metrics) RecordOAuthCallback(success bool) {
	result := "failure"
	if success {
		result = "success"
	}
	m.OAuthCallbackTotal.WithLabelValues(result).Inc()
}

func (m *Metrics) RecordTokenIssued() {
	m.TokensIssuedTotal.Inc()
}

func (m *Metrics) RecordWebhookEvent(event, result string) {
	m.WebhookEventsTotal.WithLabelValues(event, result).Inc()
}
