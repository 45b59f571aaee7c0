// ringbuf.go: lock-free single-producer/single-consumer typed ring buffer
//
// Copyright (c) 2025 AGILira
// Series: an AGILira fragment
// SPDX-License-Identifier: MPL-2.0

package ringmesh

import "sync/atomic"

// rbSlot holds one payload of a typed ring buffer alongside the epoch that
// was assigned to it at write time. A slot epoch of 0 means the slot has
// never been written.
type rbSlot[T any] struct {
	epoch atomic.Uint64
	data  T
}

// RB is a fixed-capacity, single-producer/single-consumer ring buffer over a
// value type T. Exactly one goroutine may call Push; exactly one goroutine
// may call Pop or PeekOldest. PeekLatest and LatestEpoch are wait-free and
// safe to call from any goroutine, but only ever give an eventually
// consistent snapshot.
//
// When the buffer is full, Push overwrites the oldest slot rather than
// blocking or failing. A consumer that falls behind discovers the gap on
// its next Pop via the epoch sequence, not via an error.
type RB[T any] struct {
	slots      []rbSlot[T]
	capacity   uint64
	tail       atomic.Uint64 // next read index, monotonic, owned by the consumer
	writeEpoch atomic.Uint64 // doubles as the monotonic write/head counter
	readEpoch  atomic.Uint64
}

// NewRB constructs an empty typed ring buffer of the given capacity.
// Capacity must be at least 1.
func NewRB[T any](capacity int) (*RB[T], error) {
	if capacity <= 0 {
		return nil, ErrZeroCapacity
	}
	return &RB[T]{
		slots:    make([]rbSlot[T], capacity),
		capacity: uint64(capacity),
	}, nil
}

// Capacity returns the fixed capacity the buffer was constructed with.
func (r *RB[T]) Capacity() int {
	return int(r.capacity)
}

// Push writes x into the buffer and returns the epoch assigned to it.
// Never blocks and never fails; if the buffer is full, the oldest slot is
// silently overwritten.
func (r *RB[T]) Push(x T) uint64 {
	e := r.writeEpoch.Load() + 1
	idx := (e - 1) % r.capacity

	r.writeEpoch.Store(e)
	r.slots[idx].data = x
	r.slots[idx].epoch.Store(e) // release: payload write above must be visible first

	return e
}

// Pop returns the oldest unseen, non-overwritten record, advancing past any
// slots the producer has since overwritten. The second return value is false
// iff there is nothing left to read.
func (r *RB[T]) Pop() (T, bool) {
	var zero T
	for {
		tailI := r.tail.Load()
		readI := r.readEpoch.Load()
		writeI := r.writeEpoch.Load()

		if writeI == 0 {
			return zero, false
		}

		idx := tailI % r.capacity
		se := r.slots[idx].epoch.Load() // acquire: pairs with Push's release
		cap1 := r.capacity - 1

		switch {
		case se <= readI:
			// Already consumed. Caught up with the producer iff tail has
			// reached the same monotonic position as the write counter.
			if tailI == writeI {
				return zero, false
			}
			r.tail.Store(tailI + 1)
			continue

		case writeI > cap1 && se < writeI-cap1:
			// Overwritten: the producer has lapped this slot since it was
			// last visible. Skip it and record the gap via readEpoch.
			r.readEpoch.Store(se)
			r.tail.Store(tailI + 1)
			continue

		default:
			val := r.slots[idx].data
			r.readEpoch.Store(se)
			r.tail.Store(tailI + 1)
			return val, true
		}
	}
}

// PeekLatest returns the most recently written record without affecting
// what Pop will return next. It may race with a concurrent Push; callers
// needing consistency should compare the returned epoch against
// LatestEpoch afterward.
func (r *RB[T]) PeekLatest() (T, uint64, bool) {
	var zero T
	w := r.writeEpoch.Load()
	if w == 0 {
		return zero, 0, false
	}
	idx := (w - 1) % r.capacity
	e := r.slots[idx].epoch.Load()
	return r.slots[idx].data, e, true
}

// PeekOldest returns the oldest unconsumed, non-overwritten record without
// advancing the read cursor.
func (r *RB[T]) PeekOldest() (T, uint64, bool) {
	var zero T
	writeI := r.writeEpoch.Load()
	if writeI == 0 {
		return zero, 0, false
	}
	tailI := r.tail.Load()
	readI := r.readEpoch.Load()
	idx := tailI % r.capacity
	se := r.slots[idx].epoch.Load()
	if se <= readI {
		return zero, 0, false
	}
	return r.slots[idx].data, se, true
}

// LatestEpoch returns the current write epoch, 0 if Push has never been
// called.
func (r *RB[T]) LatestEpoch() uint64 {
	return r.writeEpoch.Load()
}

// Len returns the number of records currently visible to the consumer,
// bounded above by Capacity.
func (r *RB[T]) Len() int {
	w := r.writeEpoch.Load()
	rd := r.readEpoch.Load()
	diff := w - rd
	if diff > r.capacity {
		diff = r.capacity
	}
	return int(diff)
}
