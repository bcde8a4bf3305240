package listener

import "sync"

var (
	windowOnce sync.Once
	window     *Element
)

// Window returns the process-global event target. It is the default target for
// subscriptions created without a target ref, mirroring how browser hooks fall
// back to the window object.
func Window() *Element {
	windowOnce.Do(func() {
		window = &Element{kind: "window", listeners: make(map[string][]*registration)}
	})
	return window
}
