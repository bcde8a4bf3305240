package listener

import "sync"

// Ref is a mutable reference cell a subscription resolves its target from.
// It plays the role a framework ref object plays on the web: the referenced
// value may appear, change, or disappear independently of the subscription.
//
// A nil *Ref means "no ref supplied" and resolves to Window(). A non-nil Ref
// that currently holds nothing resolves to no target at all; an explicit ref
// takes precedence even when empty.
type Ref struct {
	mu sync.RWMutex
	v  any
}

// NewRef returns a ref holding v, which may be nil.
func NewRef(v any) *Ref {
	return &Ref{v: v}
}

// Store replaces the referenced value.
func (r *Ref) Store(v any) {
	r.mu.Lock()
	r.v = v
	r.mu.Unlock()
}

// Load returns the currently referenced value, or nil.
func (r *Ref) Load() any {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.v
}

// Clear empties the ref.
func (r *Ref) Clear() {
	r.Store(nil)
}
