// Package slots assigns vertex buffers to logical binding slots.
//
// Slots live in an arena that only grows. Freed slots go onto a free stack
// and are handed out again, most recently released first, before a new
// index is created, so the index space stays as small as the peak number of
// concurrent vertex buffers.
//
// Slots are grouped into buckets of a fixed size (the hardware limit on
// simultaneous vertex bindings). A slot's bucket selects the vertex-format
// object it is attached to, and its binding is the index inside that object.
package slots

// Allocator hands out binding slots. The zero value is not usable; call New.
//
// Allocator is not safe for concurrent use.
type Allocator struct {
	used []bool // used[i] reports whether slot i is occupied
	free []int  // stack of free slot indices
}

// New returns an allocator seeded with a single free slot (0).
func New() *Allocator {
	return &Allocator{
		used: []bool{false},
		free: []int{0},
	}
}

// Acquire returns the most recently released free slot and marks it
// occupied. When no slot is free the arena grows by one. Acquire never fails.
func (a *Allocator) Acquire() int {
	if n := len(a.free); n > 0 {
		slot := a.free[n-1]
		a.free = a.free[:n-1]
		a.used[slot] = true
		return slot
	}
	slot := len(a.used)
	a.used = append(a.used, true)
	return slot
}

// Release returns slot to the free stack. Releasing a slot that is already
// free or was never created does nothing.
func (a *Allocator) Release(slot int) {
	if slot < 0 || slot >= len(a.used) || !a.used[slot] {
		return
	}
	a.used[slot] = false
	a.free = append(a.free, slot)
}

// IsFree reports whether slot exists and is unoccupied.
func (a *Allocator) IsFree(slot int) bool {
	return slot >= 0 && slot < len(a.used) && !a.used[slot]
}

// Len returns the number of slots ever created.
func (a *Allocator) Len() int { return len(a.used) }

// InUse returns the number of occupied slots.
func (a *Allocator) InUse() int { return len(a.used) - len(a.free) }

// Buckets returns how many buckets of the given size the arena spans.
func (a *Allocator) Buckets(size int) int {
	if size <= 0 {
		return 0
	}
	return (len(a.used) + size - 1) / size
}

// Bucket returns the bucket index of slot for the given bucket size.
func Bucket(slot, size int) int { return slot / size }

// Binding returns the binding point of slot inside its bucket.
func Binding(slot, size int) int { return slot % size }
