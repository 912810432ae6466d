package services

// Dispatcher hands a completion callback to the thread that owns the UI.
// The CLI serializes callbacks behind its output lock; tests run them inline.
type Dispatcher func(fn func())

// Inline runs fn on the calling goroutine.
func Inline(fn func()) { fn() }

func (d Dispatcher) run(fn func()) {
	if d == nil {
		fn()
		return
	}
	d(fn)
}
