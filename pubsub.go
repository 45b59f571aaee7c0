// pubsub.go: publisher/subscriber facades over topics
//
// Copyright (c) 2025 AGILira
// Series: an AGILira fragment
// SPDX-License-Identifier: MPL-2.0

package ringmesh

import (
	"sync"
	"sync/atomic"
	"time"

	"github.com/agilira/go-timecache"
)

// markSeenClock is a single process-wide cached clock backing
// Subscriber.Age/ByteSubscriber.Age, so that every subscriber's staleness
// check doesn't pay for its own background ticker. It starts lazily on
// first use and is never stopped, matching the cost profile of a
// lazily-initialized package-level default rather than a per-subscriber
// resource.
var (
	markSeenClockOnce sync.Once
	markSeenClock     *timecache.TimeCache
)

func getMarkSeenClock() *timecache.TimeCache {
	markSeenClockOnce.Do(func() {
		markSeenClock = timecache.NewWithResolution(10 * time.Millisecond)
	})
	return markSeenClock
}

// Publisher is a thin, cloneable facade over a Topic that only publishes.
type Publisher[T any] struct {
	topic *Topic[T]
}

// NewPublisher wraps a topic for publish-only use.
func NewPublisher[T any](topic *Topic[T]) *Publisher[T] {
	return &Publisher[T]{topic: topic}
}

// Publish forwards to the underlying topic and returns the assigned epoch.
func (p *Publisher[T]) Publish(x T) uint64 { return p.topic.Publish(x) }

// TopicName returns the name of the topic this publisher writes to.
func (p *Publisher[T]) TopicName() string { return p.topic.Name() }

// Subscriber wraps a Topic with a read cursor used only for the
// HasNew/MarkSeen freshness predicate; it does not gate TryReceive, which
// passes straight through to the buffer.
type Subscriber[T any] struct {
	topic         *Topic[T]
	lastSeenEpoch atomic.Uint64
	lastMarkNanos atomic.Int64
}

// NewSubscriber wraps a topic with a fresh, unseen read cursor.
func NewSubscriber[T any](topic *Topic[T]) *Subscriber[T] {
	return &Subscriber[T]{topic: topic}
}

// TryRecv forwards to the underlying topic.
func (s *Subscriber[T]) TryRecv() (T, bool) { return s.topic.TryReceive() }

// PeekLatest forwards to the underlying topic.
func (s *Subscriber[T]) PeekLatest() (T, uint64, bool) { return s.topic.PeekLatest() }

// HasNew reports whether the topic has a more recent record than the last
// one this subscriber marked seen.
func (s *Subscriber[T]) HasNew() bool {
	return s.topic.LatestEpoch() > s.lastSeenEpoch.Load()
}

// MarkSeen advances the subscriber's cursor to the topic's current latest
// epoch. It is not coupled to TryRecv; callers control the cursor
// explicitly.
func (s *Subscriber[T]) MarkSeen() {
	s.lastSeenEpoch.Store(s.topic.LatestEpoch())
	s.lastMarkNanos.Store(getMarkSeenClock().CachedTime().UnixNano())
}

// Age returns how long ago MarkSeen was last called. The second return
// value is false if MarkSeen has never been called.
func (s *Subscriber[T]) Age() (time.Duration, bool) {
	ns := s.lastMarkNanos.Load()
	if ns == 0 {
		return 0, false
	}
	return getMarkSeenClock().CachedTime().Sub(time.Unix(0, ns)), true
}

// TopicName returns the name of the topic this subscriber reads from.
func (s *Subscriber[T]) TopicName() string { return s.topic.Name() }

// BytePublisher is the byte-topic counterpart of Publisher.
type BytePublisher struct {
	topic *ByteTopic
}

// NewBytePublisher wraps a byte topic for publish-only use.
func NewBytePublisher(topic *ByteTopic) *BytePublisher {
	return &BytePublisher{topic: topic}
}

// Publish forwards to the underlying byte topic, returning
// ErrPayloadTooLarge if b exceeds MaxPayload rather than the raw ok=false
// the buffer layer uses.
func (p *BytePublisher) Publish(b []byte) (uint64, error) {
	epoch, ok := p.topic.Publish(b)
	if !ok {
		return 0, ErrPayloadTooLarge
	}
	return epoch, nil
}

// TopicName returns the name of the topic this publisher writes to.
func (p *BytePublisher) TopicName() string { return p.topic.Name() }

// ByteSubscriber is the byte-topic counterpart of Subscriber.
type ByteSubscriber struct {
	topic         *ByteTopic
	lastSeenEpoch atomic.Uint64
	lastMarkNanos atomic.Int64
}

// NewByteSubscriber wraps a byte topic with a fresh, unseen read cursor.
func NewByteSubscriber(topic *ByteTopic) *ByteSubscriber {
	return &ByteSubscriber{topic: topic}
}

// TryRecv forwards to the underlying byte topic.
func (s *ByteSubscriber) TryRecv() ([]byte, uint64, bool) { return s.topic.TryReceive() }

// PeekLatest forwards to the underlying byte topic.
func (s *ByteSubscriber) PeekLatest() ([]byte, uint64, bool) { return s.topic.PeekLatest() }

// PeekLatestRef forwards to the underlying byte topic's zero-copy peek.
func (s *ByteSubscriber) PeekLatestRef() ([]byte, uint64, bool) { return s.topic.PeekLatestRef() }

// HasNew reports whether the topic has a more recent record than the last
// one this subscriber marked seen.
func (s *ByteSubscriber) HasNew() bool {
	return s.topic.LatestEpoch() > s.lastSeenEpoch.Load()
}

// MarkSeen advances the subscriber's cursor to the topic's current latest
// epoch.
func (s *ByteSubscriber) MarkSeen() {
	s.lastSeenEpoch.Store(s.topic.LatestEpoch())
	s.lastMarkNanos.Store(getMarkSeenClock().CachedTime().UnixNano())
}

// Age returns how long ago MarkSeen was last called. The second return
// value is false if MarkSeen has never been called.
func (s *ByteSubscriber) Age() (time.Duration, bool) {
	ns := s.lastMarkNanos.Load()
	if ns == 0 {
		return 0, false
	}
	return getMarkSeenClock().CachedTime().Sub(time.Unix(0, ns)), true
}

// TopicName returns the name of the topic this subscriber reads from.
func (s *ByteSubscriber) TopicName() string { return s.topic.Name() }
