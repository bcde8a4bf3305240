// Package watch provides event targets backed by external change sources: a
// file on disk and a fixed-interval schedule. Both implement listener.Target,
// so a Subscription binds to them exactly as it binds to the window or an
// element; the source pushes "change" or "tick" events into whatever handlers
// are subscribed at that moment.
package watch
