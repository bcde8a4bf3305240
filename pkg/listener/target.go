package listener

// Target is anything a listener can be installed on: the process-wide window,
// a specific element, or an external change source (see pkg/watch).
//
// Implementations must use pointer receivers so that two targets compare equal
// only when they are the same object; subscription rebinds key on target
// identity.
type Target interface {
	// AddEventListener registers a handler for the named event. Registering the
	// same handler for the same name with the same Capture flag is a no-op.
	AddEventListener(name string, h Handler, opts Options)

	// RemoveEventListener removes a previously registered handler. Removal is
	// keyed on handler identity and the Capture flag; removing a handler that
	// was never added is a no-op.
	RemoveEventListener(name string, h Handler, opts Options)

	// DispatchEvent delivers an event to all registered handlers for its Type,
	// in registration order. It reports whether at least one handler ran.
	DispatchEvent(ev Event) bool

	// Kind names the target shape for logs and metrics ("window", "element", ...).
	Kind() string
}
