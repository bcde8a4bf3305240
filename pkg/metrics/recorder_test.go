package metrics

import (
	"testing"
	"time"
)

type testRecorder struct {
	attaches   map[string]int
	detaches   map[string]int
	dispatches map[string]int
	storeOps   map[string]map[ResultLabel]int
}

func newTestRecorder() *testRecorder {
	return &testRecorder{
		attaches:   map[string]int{},
		detaches:   map[string]int{},
		dispatches: map[string]int{},
		storeOps:   map[string]map[ResultLabel]int{},
	}
}

func (t *testRecorder) IncListenerAttach(target string)  { t.attaches[target]++ }
func (t *testRecorder) IncListenerDetach(target string)  { t.detaches[target]++ }
func (t *testRecorder) IncEventDispatched(event string)  { t.dispatches[event]++ }
func (t *testRecorder) IncStoreOp(backend, op string, result ResultLabel) {
	m, ok := t.storeOps[backend+"/"+op]
	if !ok {
		m = map[ResultLabel]int{}
		t.storeOps[backend+"/"+op] = m
	}
	m[result]++
}
func (t *testRecorder) ObserveStoreOpDuration(string, string, time.Duration) {}

func TestRecorderInterfaceCompliance(t *testing.T) {
	var _ Recorder = NoopRecorder{}
	var _ Recorder = newTestRecorder()
	var _ Recorder = (*PrometheusRecorder)(nil)
}

func TestNoopRecorderIsSafe(t *testing.T) {
	r := NoopRecorder{}
	r.IncListenerAttach("window")
	r.IncListenerDetach("window")
	r.IncEventDispatched("resize")
	r.IncStoreOp("memory", "read", ResultAbsent)
	r.ObserveStoreOpDuration("memory", "read", time.Millisecond)
}

func TestTestRecorderCounts(t *testing.T) {
	r := newTestRecorder()
	r.IncListenerAttach("element")
	r.IncListenerAttach("element")
	r.IncEventDispatched("click")
	r.IncStoreOp("sqlite", "write", ResultSuccess)
	r.IncStoreOp("sqlite", "write", ResultFailed)

	if r.attaches["element"] != 2 {
		t.Fatalf("expected 2 attaches, got %d", r.attaches["element"])
	}
	if r.dispatches["click"] != 1 {
		t.Fatalf("expected 1 dispatch, got %d", r.dispatches["click"])
	}
	if r.storeOps["sqlite/write"][ResultSuccess] != 1 || r.storeOps["sqlite/write"][ResultFailed] != 1 {
		t.Fatalf("unexpected store op counts: %+v", r.storeOps)
	}
}
