package listener

import "time"

// Event is delivered to handlers when a bound event fires on a target.
type Event struct {
	// Type is the event name the listener was registered under.
	Type string
	// Target is the object the event was dispatched on.
	Target Target
	// Data carries event-specific payload, if any.
	Data any
	// Time is when the event was dispatched.
	Time time.Time
}

// Handler receives events forwarded by an attached listener.
type Handler func(Event)

// Options mirror platform listener registration flags. They are passed through
// verbatim on registration and must be supplied identically on removal: targets
// key removal on handler identity plus the Capture flag.
type Options struct {
	Capture bool
	Passive bool
	Once    bool
}
