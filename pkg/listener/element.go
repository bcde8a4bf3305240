package listener

import (
	"sync"
	"time"
	"unsafe"
)

// Element is an in-process event target. It implements the same
// add/remove/dispatch contract a DOM element exposes: duplicate registrations
// of one handler are collapsed, removal is keyed on handler identity plus the
// Capture flag, and Once handlers are dropped before their single invocation.
type Element struct {
	kind string

	mu        sync.Mutex
	listeners map[string][]*registration
}

type registration struct {
	handler Handler
	opts    Options
	ptr     uintptr
}

// NewElement returns an empty event target.
func NewElement() *Element {
	return &Element{kind: "element", listeners: make(map[string][]*registration)}
}

// handlerPtr reads the funcval pointer backing a func value. reflect's
// Pointer() would return the code pointer, which is shared by every closure
// built from one function literal; distinct closures must stay distinct here
// or removing one subscription's trampoline would remove another's.
func handlerPtr(h Handler) uintptr {
	return uintptr(*(*unsafe.Pointer)(unsafe.Pointer(&h)))
}

// AddEventListener registers h for the named event. A handler already
// registered for the same name with the same Capture flag is not added again.
func (e *Element) AddEventListener(name string, h Handler, opts Options) {
	if h == nil {
		return
	}
	ptr := handlerPtr(h)

	e.mu.Lock()
	defer e.mu.Unlock()

	if e.listeners == nil {
		e.listeners = make(map[string][]*registration)
	}
	for _, reg := range e.listeners[name] {
		if reg.ptr == ptr && reg.opts.Capture == opts.Capture {
			return
		}
	}
	e.listeners[name] = append(e.listeners[name], &registration{handler: h, opts: opts, ptr: ptr})
}

// RemoveEventListener removes h from the named event. Handlers are matched on
// identity and the Capture flag; a handler that was never added is ignored.
func (e *Element) RemoveEventListener(name string, h Handler, opts Options) {
	if h == nil {
		return
	}
	ptr := handlerPtr(h)

	e.mu.Lock()
	defer e.mu.Unlock()

	regs := e.listeners[name]
	for i, reg := range regs {
		if reg.ptr == ptr && reg.opts.Capture == opts.Capture {
			e.listeners[name] = append(regs[:i:i], regs[i+1:]...)
			if len(e.listeners[name]) == 0 {
				delete(e.listeners, name)
			}
			return
		}
	}
}

// DispatchEvent delivers ev to every handler registered for ev.Type, in
// registration order. Once handlers are removed before they run. It reports
// whether at least one handler was invoked.
func (e *Element) DispatchEvent(ev Event) bool {
	if ev.Time.IsZero() {
		ev.Time = time.Now()
	}
	if ev.Target == nil {
		ev.Target = e
	}

	e.mu.Lock()
	regs := e.listeners[ev.Type]
	snapshot := make([]*registration, len(regs))
	copy(snapshot, regs)
	remaining := regs[:0:0]
	for _, reg := range regs {
		if !reg.opts.Once {
			remaining = append(remaining, reg)
		}
	}
	if len(remaining) == 0 {
		delete(e.listeners, ev.Type)
	} else {
		e.listeners[ev.Type] = remaining
	}
	e.mu.Unlock()

	for _, reg := range snapshot {
		reg.handler(ev)
	}
	return len(snapshot) > 0
}

// ListenerCount returns the number of handlers registered for the named event.
func (e *Element) ListenerCount(name string) int {
	e.mu.Lock()
	defer e.mu.Unlock()
	return len(e.listeners[name])
}

// Kind reports the target shape for logs and metrics.
func (e *Element) Kind() string { return e.kind }
