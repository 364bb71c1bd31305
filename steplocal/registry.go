package steplocal

import "sync"

// box holds a value installed for the duration of a resumption step.
// ok is false for storage that is attached but not yet set (a Local
// before its first Set).
type box[T any] struct {
	value T
	ok    bool
}

// registry maps the calling goroutine to the box currently installed
// for one cell. Each key is touched only by the goroutine it names,
// strictly bracketed around a single synchronous step, so the map's own
// safety is the only synchronization required.
type registry[T any] struct {
	slots sync.Map // goroutine id -> *box[T]
}

// swap installs b for goroutine g and returns the previously installed
// box, if any. A nil b clears the slot. A matching second swap with the
// returned box restores the prior state, which is what makes nested
// scopes over the same cell shadow in LIFO order.
func (r *registry[T]) swap(g uint64, b *box[T]) *box[T] {
	var prev *box[T]
	if v, ok := r.slots.Load(g); ok {
		prev = v.(*box[T])
	}
	if b == nil {
		r.slots.Delete(g)
	} else {
		r.slots.Store(g, b)
	}
	return prev
}

// peek returns the box installed for goroutine g without mutating it.
func (r *registry[T]) peek(g uint64) *box[T] {
	v, ok := r.slots.Load(g)
	if !ok {
		return nil
	}
	return v.(*box[T])
}
