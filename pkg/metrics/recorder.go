package metrics

import "time"

// ResultLabel enumerates operation result categories for counters.
type ResultLabel string

const (
	ResultSuccess ResultLabel = "success"
	ResultFailed  ResultLabel = "failed"
	ResultAbsent  ResultLabel = "absent"
)

// Recorder defines observability hooks for subscription and storage metrics.
// Implementations may forward to Prometheus, OpenTelemetry, etc. The NoopRecorder
// allows optional injection without nil checks at call sites.
type Recorder interface {
	IncListenerAttach(target string)
	IncListenerDetach(target string)
	IncEventDispatched(event string)
	IncStoreOp(backend, op string, result ResultLabel)
	ObserveStoreOpDuration(backend, op string, d time.Duration)
}

// NoopRecorder is a Recorder that does nothing (default when metrics not configured).
type NoopRecorder struct{}

func (NoopRecorder) IncListenerAttach(string)                             {}
func (NoopRecorder) IncListenerDetach(string)                             {}
func (NoopRecorder) IncEventDispatched(string)                            {}
func (NoopRecorder) IncStoreOp(string, string, ResultLabel)               {}
func (NoopRecorder) ObserveStoreOpDuration(string, string, time.Duration) {}
