package pipeline

import "fmt"

// Items is the per-request key/value bag. One instance exists per request
// and is dropped when the request ends. It is not safe for concurrent use;
// it belongs to the goroutine serving the request.
type Items struct {
	m map[string]interface{}
}

// NewItems returns an empty bag.
func NewItems() *Items {
	return &Items{m: make(map[string]interface{})}
}

// Add stores value under key. It fails with ErrItemExists instead of
// overwriting an existing entry.
func (i *Items) Add(key string, value interface{}) error {
	if _, ok := i.m[key]; ok {
		return fmt.Errorf("%w: %q", ErrItemExists, key)
	}
	i.m[key] = value
	return nil
}

// Contains reports whether key is present.
func (i *Items) Contains(key string) bool {
	_, ok := i.m[key]
	return ok
}

// Get returns the value stored under key.
func (i *Items) Get(key string) (interface{}, bool) {
	v, ok := i.m[key]
	return v, ok
}

// Remove deletes key and reports whether it was present.
func (i *Items) Remove(key string) bool {
	if _, ok := i.m[key]; !ok {
		return false
	}
	delete(i.m, key)
	return true
}

// Len returns the number of entries.
func (i *Items) Len() int {
	return len(i.m)
}

// Slot is a typed, single-value view over one key of an Items bag.
//
//	var userSlot = pipeline.NewSlot[*User]("User")
//
//	if err := userSlot.Store(c.Items(), u); err != nil { ... }
//	u, ok := userSlot.Load(c.Items())
type Slot[T any] struct {
	key string
}

// NewSlot returns a slot stored under key.
func NewSlot[T any](key string) Slot[T] {
	return Slot[T]{key: key}
}

// Key returns the bag key of the slot.
func (s Slot[T]) Key() string {
	return s.key
}

// Store puts v into the slot. It fails with ErrSlotOccupied if the slot is
// already filled, so a slot holds at most one value per request.
func (s Slot[T]) Store(items *Items, v T) error {
	if items.Contains(s.key) {
		return fmt.Errorf("%w: %q", ErrSlotOccupied, s.key)
	}
	return items.Add(s.key, v)
}

// Load returns the value of the slot. It reports false when the slot is
// empty, when items is nil or when the key holds a value of another type.
func (s Slot[T]) Load(items *Items) (T, bool) {
	var zero T
	if items == nil {
		return zero, false
	}
	v, ok := items.Get(s.key)
	if !ok {
		return zero, false
	}
	t, ok := v.(T)
	if !ok {
		return zero, false
	}
	return t, true
}

// Present reports whether the slot holds a value.
func (s Slot[T]) Present(items *Items) bool {
	return items != nil && items.Contains(s.key)
}

// Remove empties the slot and reports whether it held a value.
func (s Slot[T]) Remove(items *Items) bool {
	if items == nil {
		return false
	}
	return items.Remove(s.key)
}
