package metrics

import "time"

// NoopRecorder discards all metrics. Used when metrics are disabled.
type NoopRecorder struct{}

var _ Recorder = (*NoopRecorder)(nil)

func NewNoopRecorder() *NoopRecorder {
	return &NoopRecorder{}
}

func (n *NoopRecorder) RecordHTTPRequest(method, path, status string, duration time.Duration) {}

func (n *NoopRecorder) RecordOAuthLogin() {}

func (n *NoopRecorder) RecordOAuthCallback(success bool) {}

func (n *NoopRecorder) RecordTokenIssued() {}

func (n *NoopRecorder) RecordWebhookEvent(event, result string) {}
