// bytebuf.go: byte-oriented ring buffer with inline length headers
//
// Copyright (c) 2025 AGILira
// Series: an AGILira fragment
// SPDX-License-Identifier: MPL-2.0

package ringmesh

import "sync/atomic"

const (
	// SlotSize is the size in bytes of one slot in the reference layout,
	// header included; a slot's data array holds MaxPayload bytes.
	SlotSize = 256
	// HeaderSize is the conceptual size, in bytes, consumed by the
	// length+epoch header of a slot in the reference layout this buffer
	// mirrors; it fixes MaxPayload below.
	HeaderSize = 12
	// MaxPayload is the largest payload a single RBB slot can hold.
	MaxPayload = SlotSize - HeaderSize
)

// rbbSlot holds a variable-length byte payload (up to MaxPayload bytes)
// alongside its length and publication epoch.
type rbbSlot struct {
	epoch atomic.Uint64
	len   uint32
	data  [MaxPayload]byte
}

// RBB is the byte-oriented sibling of RB: same epoch protocol, same
// overflow policy, specialized to variable-length payloads carrying an
// inline length header. It is the buffer used for zero-copy-on-write
// payloads such as sensor frames, where the element type isn't known at
// compile time on both sides of a boundary (e.g. the UART bridge or the
// C ABI).
type RBB struct {
	slots      []rbbSlot
	capacity   uint64
	tail       atomic.Uint64
	writeEpoch atomic.Uint64
	readEpoch  atomic.Uint64
}

// NewRBB constructs an empty byte ring buffer of the given capacity.
// Capacity must be at least 1.
func NewRBB(capacity int) (*RBB, error) {
	if capacity <= 0 {
		return nil, ErrZeroCapacity
	}
	return &RBB{
		slots:    make([]rbbSlot, capacity),
		capacity: uint64(capacity),
	}, nil
}

// Capacity returns the fixed capacity the buffer was constructed with.
func (r *RBB) Capacity() int {
	return int(r.capacity)
}

// Push copies b into the buffer and returns the assigned epoch. It fails
// (returning 0, false) if len(b) exceeds MaxPayload; the caller must treat
// that as a usage error, not a transient condition.
func (r *RBB) Push(b []byte) (uint64, bool) {
	if len(b) > MaxPayload {
		return 0, false
	}

	e := r.writeEpoch.Load() + 1
	idx := (e - 1) % r.capacity

	r.writeEpoch.Store(e)
	slot := &r.slots[idx]
	slot.len = uint32(len(b))
	copy(slot.data[:len(b)], b)
	slot.epoch.Store(e) // release

	return e, true
}

// Pop returns a copy of the oldest unseen, non-overwritten payload.
func (r *RBB) Pop() ([]byte, uint64, bool) {
	for {
		tailI := r.tail.Load()
		readI := r.readEpoch.Load()
		writeI := r.writeEpoch.Load()

		if writeI == 0 {
			return nil, 0, false
		}

		idx := tailI % r.capacity
		slot := &r.slots[idx]
		se := slot.epoch.Load()
		cap1 := r.capacity - 1

		switch {
		case se <= readI:
			if tailI == writeI {
				return nil, 0, false
			}
			r.tail.Store(tailI + 1)
			continue

		case writeI > cap1 && se < writeI-cap1:
			r.readEpoch.Store(se)
			r.tail.Store(tailI + 1)
			continue

		default:
			out := make([]byte, slot.len)
			copy(out, slot.data[:slot.len])
			r.readEpoch.Store(se)
			r.tail.Store(tailI + 1)
			return out, se, true
		}
	}
}

// PeekLatest returns a copy of the most recently written payload without
// affecting what Pop returns next.
func (r *RBB) PeekLatest() ([]byte, uint64, bool) {
	b, e, ok := r.peekLatestSlot()
	if !ok {
		return nil, 0, false
	}
	out := make([]byte, len(b))
	copy(out, b)
	return out, e, true
}

// PeekLatestRef returns a borrowed view of the most recently written
// payload's active byte range, without copying. The returned slice aliases
// the buffer's internal storage: callers must not retain it across any
// further Push call on this buffer, since the producer may overwrite the
// same slot.
func (r *RBB) PeekLatestRef() ([]byte, uint64, bool) {
	return r.peekLatestSlot()
}

func (r *RBB) peekLatestSlot() ([]byte, uint64, bool) {
	w := r.writeEpoch.Load()
	if w == 0 {
		return nil, 0, false
	}
	idx := (w - 1) % r.capacity
	slot := &r.slots[idx]
	e := slot.epoch.Load()
	return slot.data[:slot.len], e, true
}

// PeekOldest returns a copy of the oldest unconsumed, non-overwritten
// payload without advancing the read cursor.
func (r *RBB) PeekOldest() ([]byte, uint64, bool) {
	b, e, ok := r.peekOldestSlot()
	if !ok {
		return nil, 0, false
	}
	out := make([]byte, len(b))
	copy(out, b)
	return out, e, true
}

// PeekOldestRef is the zero-copy counterpart of PeekOldest; the same
// aliasing caveat as PeekLatestRef applies.
func (r *RBB) PeekOldestRef() ([]byte, uint64, bool) {
	return r.peekOldestSlot()
}

func (r *RBB) peekOldestSlot() ([]byte, uint64, bool) {
	writeI := r.writeEpoch.Load()
	if writeI == 0 {
		return nil, 0, false
	}
	tailI := r.tail.Load()
	readI := r.readEpoch.Load()
	idx := tailI % r.capacity
	slot := &r.slots[idx]
	se := slot.epoch.Load()
	if se <= readI {
		return nil, 0, false
	}
	return slot.data[:slot.len], se, true
}

// LatestEpoch returns the current write epoch, 0 if Push has never
// succeeded.
func (r *RBB) LatestEpoch() uint64 {
	return r.writeEpoch.Load()
}

// Len returns the number of records currently visible to the consumer,
// bounded above by Capacity.
func (r *RBB) Len() int {
	w := r.writeEpoch.Load()
	rd := r.readEpoch.Load()
	diff := w - rd
	if diff > r.capacity {
		diff = r.capacity
	}
	return int(diff)
}
