// topic.go: named handles over shared ring buffers
//
// Copyright (c) 2025 AGILira
// Series: an AGILira fragment
// SPDX-License-Identifier: MPL-2.0

package ringmesh

// Topic is a named handle to a shared typed ring buffer. Copying a Topic
// copies the handle, not the buffer: both copies observe the same
// underlying state, exactly as if obtained twice from the same Registry
// lookup.
type Topic[T any] struct {
	name   string
	buffer *RB[T]
}

// NewTopic wraps an existing buffer with a name. Most callers should go
// through GetOrCreateTopic instead, which also de-duplicates by
// name; NewTopic is for callers managing buffers outside a registry.
func NewTopic[T any](name string, buffer *RB[T]) *Topic[T] {
	return &Topic[T]{name: name, buffer: buffer}
}

// Name returns the topic's immutable name.
func (t *Topic[T]) Name() string { return t.name }

// Publish forwards to the underlying buffer and returns the assigned epoch.
func (t *Topic[T]) Publish(x T) uint64 { return t.buffer.Push(x) }

// TryReceive forwards to the underlying buffer's Pop.
func (t *Topic[T]) TryReceive() (T, bool) { return t.buffer.Pop() }

// PeekLatest forwards to the underlying buffer's PeekLatest.
func (t *Topic[T]) PeekLatest() (T, uint64, bool) { return t.buffer.PeekLatest() }

// LatestEpoch forwards to the underlying buffer.
func (t *Topic[T]) LatestEpoch() uint64 { return t.buffer.LatestEpoch() }

// Len forwards to the underlying buffer.
func (t *Topic[T]) Len() int { return t.buffer.Len() }

// Capacity forwards to the underlying buffer.
func (t *Topic[T]) Capacity() int { return t.buffer.Capacity() }

// Buffer returns the shared buffer handle backing this topic.
func (t *Topic[T]) Buffer() *RB[T] { return t.buffer }

// ByteTopic is the byte-buffer counterpart of Topic.
type ByteTopic struct {
	name   string
	buffer *RBB
}

// NewByteTopic wraps an existing byte buffer with a name.
func NewByteTopic(name string, buffer *RBB) *ByteTopic {
	return &ByteTopic{name: name, buffer: buffer}
}

// Name returns the topic's immutable name.
func (t *ByteTopic) Name() string { return t.name }

// Publish forwards to the underlying buffer. It returns (0, false) if the
// payload exceeds MaxPayload.
func (t *ByteTopic) Publish(b []byte) (uint64, bool) { return t.buffer.Push(b) }

// TryReceive forwards to the underlying buffer's Pop.
func (t *ByteTopic) TryReceive() ([]byte, uint64, bool) { return t.buffer.Pop() }

// PeekLatest forwards to the underlying buffer's PeekLatest.
func (t *ByteTopic) PeekLatest() ([]byte, uint64, bool) { return t.buffer.PeekLatest() }

// PeekLatestRef forwards to the underlying buffer's zero-copy peek. See
// RBB.PeekLatestRef for the aliasing caveat.
func (t *ByteTopic) PeekLatestRef() ([]byte, uint64, bool) { return t.buffer.PeekLatestRef() }

// LatestEpoch forwards to the underlying buffer.
func (t *ByteTopic) LatestEpoch() uint64 { return t.buffer.LatestEpoch() }

// Len forwards to the underlying buffer.
func (t *ByteTopic) Len() int { return t.buffer.Len() }

// Capacity forwards to the underlying buffer.
func (t *ByteTopic) Capacity() int { return t.buffer.Capacity() }

// Buffer returns the shared buffer handle backing this topic.
func (t *ByteTopic) Buffer() *RBB { return t.buffer }
