package metrics

import (
	"sync"
	"time"

	prom "github.com/prometheus/client_golang/prometheus"
)

// PrometheusRecorder implements Recorder using Prometheus metrics.
type PrometheusRecorder struct {
	once            sync.Once
	listenerAttach  *prom.CounterVec
	listenerDetach  *prom.CounterVec
	eventsDispatch  *prom.CounterVec
	storeOps        *prom.CounterVec
	storeOpDuration *prom.HistogramVec
	activeListeners *prom.GaugeVec
}

// NewPrometheusRecorder constructs and registers Prometheus metrics (idempotent).
func NewPrometheusRecorder(reg *prom.Registry) *PrometheusRecorder {
	if reg == nil {
		reg = prom.NewRegistry()
	}
	pr := &PrometheusRecorder{}
	pr.once.Do(func() {
		pr.listenerAttach = prom.NewCounterVec(prom.CounterOpts{
			Namespace: "schooks",
			Name:      "listener_attach_total",
			Help:      "Platform listener attach operations by target kind",
		}, []string{"target"})
		pr.listenerDetach = prom.NewCounterVec(prom.CounterOpts{
			Namespace: "schooks",
			Name:      "listener_detach_total",
			Help:      "Platform listener detach operations by target kind",
		}, []string{"target"})
		pr.eventsDispatch = prom.NewCounterVec(prom.CounterOpts{
			Namespace: "schooks",
			Name:      "events_dispatched_total",
			Help:      "Events forwarded to handlers by event name",
		}, []string{"event"})
		pr.storeOps = prom.NewCounterVec(prom.CounterOpts{
			Namespace: "schooks",
			Name:      "store_ops_total",
			Help:      "Storage operations by backend, op and result",
		}, []string{"backend", "op", "result"})
		pr.storeOpDuration = prom.NewHistogramVec(prom.HistogramOpts{
			Namespace: "schooks",
			Name:      "store_op_duration_seconds",
			Help:      "Duration of storage operations",
			Buckets:   prom.DefBuckets,
		}, []string{"backend", "op"})
		pr.activeListeners = prom.NewGaugeVec(prom.GaugeOpts{
			Namespace: "schooks",
			Name:      "active_listeners",
			Help:      "Currently attached platform listeners by target kind",
		}, []string{"target"})
		reg.MustRegister(pr.listenerAttach, pr.listenerDetach, pr.eventsDispatch, pr.storeOps, pr.storeOpDuration, pr.activeListeners)
	})
	return pr
}

func (p *PrometheusRecorder) IncListenerAttach(target string) {
	if p == nil || p.listenerAttach == nil {
		return
	}
	p.listenerAttach.WithLabelValues(target).Inc()
	p.activeListeners.WithLabelValues(target).Inc()
}

func (p *PrometheusRecorder) IncListenerDetach(target string) {
	if p == nil || p.listenerDetach == nil {
		return
	}
	p.listenerDetach.WithLabelValues(target).Inc()
	p.activeListeners.WithLabelValues(target).Dec()
}

func (p *PrometheusRecorder) IncEventDispatched(event string) {
	if p == nil || p.eventsDispatch == nil {
		return
	}
	p.eventsDispatch.WithLabelValues(event).Inc()
}

func (p *PrometheusRecorder) IncStoreOp(backend, op string, result ResultLabel) {
	if p == nil || p.storeOps == nil {
		return
	}
	p.storeOps.WithLabelValues(backend, op, string(result)).Inc()
}

func (p *PrometheusRecorder) ObserveStoreOpDuration(backend, op string, d time.Duration) {
	if p == nil || p.storeOpDuration == nil {
		return
	}
	p.storeOpDuration.WithLabelValues(backend, op).Observe(d.Seconds())
}
