package resolver

import "sync"

// Slot holds the consumer-visible result for one query family, guarded
// against stale responses. A response is applied only when its originating
// key still matches the slot's active key; anything else arrived for a
// selection that is no longer current and is dropped.
type Slot[T any] struct {
	mu     sync.RWMutex
	active Key
	value  *T
}

// Activate declares which key the consumer is currently interested in.
// Switching to a different key discards the held value: a materially changed
// selection must never keep showing the previous pairing's result.
func (s *Slot[T]) Activate(key Key) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.active.Equal(key) {
		s.value = nil
	}
	s.active = key
}

// Publish applies a response if it originates from the active key. The
// return value reports whether the response was accepted.
func (s *Slot[T]) Publish(key Key, value *T) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.active.Equal(key) {
		return false
	}
	s.value = value
	return true
}

// Current returns the active key and held value, if any.
func (s *Slot[T]) Current() (Key, *T, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.active, s.value, s.value != nil
}

// Clear drops both the active key and the held value.
func (s *Slot[T]) Clear() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.active = Key{}
	s.value = nil
}
