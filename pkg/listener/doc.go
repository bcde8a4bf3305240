// Package listener manages event-subscription lifecycles: one Subscription
// binds one event name to one handler on a resolved target, with automatic
// attach/detach symmetry across rebinds and teardown.
//
// Targets come in three shapes: the process-global Window, a specific Element,
// and external change sources (pkg/watch) that implement the same Target
// contract. A subscription created without a target ref binds to the window;
// a subscription whose ref currently resolves to nothing attaches no listener
// at all, since an explicit ref takes precedence even when empty.
//
// Handler updates are decoupled from listener churn: the installed platform
// listener is a fixed trampoline that forwards to whatever handler the
// subscription currently holds, so callers may swap handlers on every render
// without a remove/add cycle on the target.
//
// Basic usage:
//
//	sub := listener.NewSubscription("resize", onResize)
//	sub.Start()
//	defer sub.Stop()
//
//	// later, cheap handler swap — no listener churn:
//	sub.SetHandler(onResizeV2)
//
//	// rebinding to another target tears the old listener down first:
//	ref := listener.NewRef(panel)
//	sub.Bind("scroll", onScroll, ref, listener.Options{Passive: true})
package listener
