// Package scroll detects when a list view nears its end.
package scroll

import "sync"

// DefaultThreshold is how many rows from the end trigger a load
const DefaultThreshold = 5

// Sensor calls OnEnd when the last visible row is within Threshold rows of
// the end of the list. An empty list is already at its end. It fires on every
// qualifying check; the list orchestrator absorbs redundant calls.
type Sensor struct {
	Threshold int
	OnEnd     func() bool

	// Disabled suppresses firing, e.g. while an overlay holds the scroll lock
	Disabled func() bool
}

// Check reports whether OnEnd was invoked and returned true.
// lastVisible is a zero-based row index, -1 when nothing is visible.
func (s Sensor) Check(lastVisible, total int) bool {
	if s.OnEnd == nil {
		return false
	}
	if s.Disabled != nil && s.Disabled() {
		return false
	}
	threshold := s.Threshold
	if threshold <= 0 {
		threshold = DefaultThreshold
	}
	if lastVisible < total-threshold {
		return false
	}
	return s.OnEnd()
}

// Lock is a reference-counted scroll lock. Every Acquire must be paired with
// exactly one call to the release function it returns.
type Lock struct {
	mu    sync.Mutex
	count int
}

// Acquire takes the lock and returns its release function. Releasing twice is a no-op.
func (l *Lock) Acquire() (release func()) {
	l.mu.Lock()
	l.count++
	l.mu.Unlock()

	var once sync.Once
	return func() {
		once.Do(func() {
			l.mu.Lock()
			l.count--
			l.mu.Unlock()
		})
	}
}

// Locked reports whether any holder remains
func (l *Lock) Locked() bool {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.count > 0
}
