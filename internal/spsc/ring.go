// Package spsc implements a wait-free single-producer/single-consumer ring.
//
// The ring is the only channel between the pipeline's pinned threads. It is
// bounded, allocation-free after construction, and never blocks: a full ring
// rejects the push, an empty ring rejects the pop, and the caller decides
// what a drop means (every hot queue in the engine counts drops instead of
// treating them as errors).
//
// Memory ordering follows the classic SPSC layout: the producer commits a
// slot with a release store of the tail, the consumer observes it with an
// acquire load, and the two cursors live on separate cache lines so the
// producer and consumer cores never contend on the same line.
package spsc

import "sync/atomic"

// cacheLinePad separates the producer and consumer cursors. 64 bytes covers
// x86-64 and most arm64 parts; the adjacent-line prefetcher argument for 128
// does not pay for itself here.
type cacheLinePad struct {
	_ [64]byte
}

// Ring is a bounded wait-free SPSC queue. Exactly one goroutine may call
// Push and exactly one may call Pop; the two may differ. Capacity must be a
// power of two.
type Ring[T any] struct {
	buf  []T
	mask uint64

	_    cacheLinePad
	head atomic.Uint64 // next slot to pop, owned by the consumer
	_    cacheLinePad
	tail atomic.Uint64 // next slot to push, owned by the producer
	_    cacheLinePad
}

// New creates a ring with the given capacity. Panics if capacity is not a
// power of two; ring sizes are compile-time constants in the engine, so a
// bad size is a programming error, not a runtime condition.
func New[T any](capacity uint64) *Ring[T] {
	if capacity == 0 || capacity&(capacity-1) != 0 {
		panic("spsc: capacity must be a power of two")
	}
	return &Ring[T]{
		buf:  make([]T, capacity),
		mask: capacity - 1,
	}
}

// Push appends v and returns true, or returns false without blocking when
// the ring is full. Producer side only.
func (r *Ring[T]) Push(v T) bool {
	tail := r.tail.Load()
	if tail-r.head.Load() > r.mask {
		return false
	}
	r.buf[tail&r.mask] = v
	r.tail.Store(tail + 1) // release: slot write happens-before this store
	return true
}

// Pop moves the oldest element into out and returns true, or returns false
// without blocking when the ring is empty. Consumer side only.
func (r *Ring[T]) Pop(out *T) bool {
	head := r.head.Load()
	if head == r.tail.Load() { // acquire: pairs with the Push store
		return false
	}
	*out = r.buf[head&r.mask]
	r.head.Store(head + 1)
	return true
}

// Len returns the number of buffered elements. Approximate when called
// concurrently with Push/Pop; exact from either owning goroutine.
func (r *Ring[T]) Len() int {
	return int(r.tail.Load() - r.head.Load())
}

// Cap returns the ring capacity.
func (r *Ring[T]) Cap() int {
	return len(r.buf)
}

// Empty reports whether the ring currently holds no elements.
func (r *Ring[T]) Empty() bool {
	return r.Len() == 0
}
