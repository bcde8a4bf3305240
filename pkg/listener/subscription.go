package listener

import (
	"context"
	"sync"
	"sync/atomic"

	"github.com/google/uuid"

	"github.com/serifcolakel/sc-hooks/internal/observability"
	"github.com/serifcolakel/sc-hooks/pkg/metrics"
)

// Subscription binds one event name to one handler on one resolved target.
//
// The handler lives behind a single mutable cell: SetHandler and Bind overwrite
// the cell without touching the platform listener, and the installed listener
// is a fixed trampoline that reads the cell at dispatch time. The most recently
// supplied handler therefore runs when an event fires, never the handler in
// effect when the listener was installed.
//
// The platform listener itself is removed and re-added only when the event
// name, the resolved target's identity, or the options change.
type Subscription struct {
	id         string
	trampoline Handler
	handler    atomic.Value // always holds a Handler

	mu        sync.Mutex
	eventName string
	ref       *Ref
	opts      Options
	rec       metrics.Recorder
	attached  Target // nil while no platform listener is installed
	started   bool
}

// SubOption configures a Subscription at construction.
type SubOption func(*Subscription)

// WithTargetRef resolves the subscription's target from ref instead of the
// global window. See Ref for the resolution rules.
func WithTargetRef(ref *Ref) SubOption {
	return func(s *Subscription) { s.ref = ref }
}

// WithOptions sets the listener registration options.
func WithOptions(opts Options) SubOption {
	return func(s *Subscription) { s.opts = opts }
}

// WithRecorder injects a metrics recorder. Defaults to metrics.NoopRecorder.
func WithRecorder(rec metrics.Recorder) SubOption {
	return func(s *Subscription) {
		if rec != nil {
			s.rec = rec
		}
	}
}

// NewSubscription creates an inactive subscription for the named event. The
// host integration layer calls Start once the owning unit is live and Stop
// when it is torn down.
func NewSubscription(eventName string, h Handler, opts ...SubOption) *Subscription {
	s := &Subscription{
		id:        uuid.NewString(),
		eventName: eventName,
		rec:       metrics.NoopRecorder{},
	}
	s.handler.Store(h)
	s.trampoline = func(ev Event) {
		current, _ := s.handler.Load().(Handler)
		if current == nil {
			return
		}
		s.rec.IncEventDispatched(ev.Type)
		current(ev)
	}
	for _, o := range opts {
		o(s)
	}
	return s
}

// ID returns the subscription's unique identifier.
func (s *Subscription) ID() string { return s.id }

// Attached reports whether a platform listener is currently installed.
func (s *Subscription) Attached() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.attached != nil
}

// Start resolves the target and installs the trampoline listener if the target
// is attachable. Starting an already started subscription is a no-op.
func (s *Subscription) Start() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.started {
		return
	}
	s.started = true
	s.attachLocked()
}

// Stop removes the platform listener if one was installed. It is safe to call
// any number of times, including when target resolution never succeeded.
func (s *Subscription) Stop() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.detachLocked()
	s.started = false
}

// SetHandler replaces the logical handler without reinstalling the platform
// listener. Safe to call at any time, from any goroutine.
func (s *Subscription) SetHandler(h Handler) {
	s.handler.Store(h)
}

// Bind updates the subscription to (eventName, ref, opts) and always installs
// h as the current handler. When the event name, the resolved target identity
// and the options are all unchanged, the platform listener is left alone; any
// difference removes the old listener and installs a fresh one on the newly
// resolved target.
func (s *Subscription) Bind(eventName string, h Handler, ref *Ref, opts Options) {
	s.handler.Store(h)

	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.started {
		s.eventName, s.ref, s.opts = eventName, ref, opts
		return
	}

	next := resolveTarget(ref)
	if eventName == s.eventName && opts == s.opts && next == s.attached {
		s.ref = ref
		return
	}

	s.detachLocked()
	s.eventName, s.ref, s.opts = eventName, ref, opts
	s.attachLocked()
}

// resolveTarget applies the target resolution policy: no ref means the global
// window; a supplied ref that is empty or holds something that is not a Target
// resolves to nothing, and the window is deliberately not used as a fallback.
func resolveTarget(ref *Ref) Target {
	if ref == nil {
		return Window()
	}
	v := ref.Load()
	if v == nil {
		return nil
	}
	t, ok := v.(Target)
	if !ok {
		return nil
	}
	return t
}

func (s *Subscription) attachLocked() {
	t := resolveTarget(s.ref)
	if t == nil {
		observability.DebugContext(s.logCtx(), "no attachable target, subscription idle")
		return
	}
	t.AddEventListener(s.eventName, s.trampoline, s.opts)
	s.attached = t
	s.rec.IncListenerAttach(t.Kind())
	observability.DebugContext(s.logCtx(), "listener attached")
}

func (s *Subscription) detachLocked() {
	if s.attached == nil {
		return
	}
	s.attached.RemoveEventListener(s.eventName, s.trampoline, s.opts)
	s.rec.IncListenerDetach(s.attached.Kind())
	observability.DebugContext(s.logCtx(), "listener detached")
	s.attached = nil
}

func (s *Subscription) logCtx() context.Context {
	ctx := observability.WithSubscriptionID(context.Background(), s.id)
	ctx = observability.WithEvent(ctx, s.eventName)
	if s.attached != nil {
		ctx = observability.WithTarget(ctx, s.attached.Kind())
	}
	return ctx
}
