package glint

import "reflect"

// Store is a small keyed observer registry: engine state that external
// chrome (a toolbar, a debug HUD) can watch without polling. Set compares
// the old and new value and notifies only on change; Subscribe returns an
// explicit unsubscribe func. Single-threaded like the rest of glint.
type Store struct {
	values    map[string]any
	listeners map[string][]*storeListener
}

type storeListener struct {
	fn      func(any)
	removed bool
}

func newStore() *Store {
	return &Store{
		values:    make(map[string]any),
		listeners: make(map[string][]*storeListener),
	}
}

// Get returns the value stored under key, or nil.
func (s *Store) Get(key string) any {
	return s.values[key]
}

// Set stores value under key and notifies subscribers. When the key already
// holds an equal value nothing happens; non-comparable values always count
// as changed.
func (s *Store) Set(key string, value any) {
	old, had := s.values[key]
	if had && safeEqual(old, value) {
		return
	}
	s.values[key] = value

	// Compact removed listeners before notifying, never during: unsubscribing
	// from inside a callback must not shift entries under the loop.
	kept := s.compact(key)
	for _, l := range kept {
		if !l.removed {
			l.fn(value)
		}
	}
}

// Subscribe registers fn for changes to key and returns an idempotent
// unsubscribe func. Unsubscribing only marks the entry; the slice is
// compacted on the next Set.
func (s *Store) Subscribe(key string, fn func(any)) func() {
	if fn == nil {
		panic("glint: Subscribe with nil func")
	}
	l := &storeListener{fn: fn}
	s.listeners[key] = append(s.listeners[key], l)
	return func() { l.removed = true }
}

func (s *Store) compact(key string) []*storeListener {
	ls := s.listeners[key]
	kept := ls[:0]
	for _, l := range ls {
		if !l.removed {
			kept = append(kept, l)
		}
	}
	if len(kept) == 0 {
		delete(s.listeners, key)
		return nil
	}
	s.listeners[key] = kept
	return kept
}

// Reset drops all values and listeners.
func (s *Store) Reset() {
	clear(s.values)
	clear(s.listeners)
}

// safeEqual is == guarded against non-comparable dynamic types.
func safeEqual(a, b any) bool {
	if a == nil || b == nil {
		return a == nil && b == nil
	}
	ta, tb := reflect.TypeOf(a), reflect.TypeOf(b)
	if ta != tb || !ta.Comparable() {
		return false
	}
	return a == b
}
