// pubsub_test.go: tests for the publisher/subscriber facades
//
// Copyright (c) 2025 AGILira
// Series: an AGILira fragment
// SPDX-License-Identifier: MPL-2.0

package ringmesh

import (
	"errors"
	"testing"
)

func TestSubscriber_HasNewAndMarkSeen(t *testing.T) {
	buf, err := NewRB[int](4)
	if err != nil {
		t.Fatalf("NewRB failed: %v", err)
	}
	topic := NewTopic[int]("/ticks", buf)
	pub := NewPublisher(topic)
	sub := NewSubscriber(topic)

	if sub.HasNew() {
		t.Fatal("HasNew() on empty topic: true, want false")
	}

	pub.Publish(1)
	if !sub.HasNew() {
		t.Fatal("HasNew() after Publish: false, want true")
	}

	sub.MarkSeen()
	if sub.HasNew() {
		t.Fatal("HasNew() after MarkSeen: true, want false")
	}

	pub.Publish(2)
	if !sub.HasNew() {
		t.Fatal("HasNew() after second Publish: false, want true")
	}
}

func TestSubscriber_TryRecvIndependentOfHasNew(t *testing.T) {
	buf, err := NewRB[int](4)
	if err != nil {
		t.Fatalf("NewRB failed: %v", err)
	}
	topic := NewTopic[int]("/ticks", buf)
	pub := NewPublisher(topic)
	sub := NewSubscriber(topic)

	pub.Publish(42)
	sub.MarkSeen()

	// MarkSeen only affects HasNew's bookkeeping; TryRecv still drains the
	// underlying buffer's own cursor independently.
	v, ok := sub.TryRecv()
	if !ok || v != 42 {
		t.Fatalf("TryRecv() = (%d, %v), want (42, true)", v, ok)
	}
}

func TestPublisher_TopicName(t *testing.T) {
	buf, err := NewRB[int](4)
	if err != nil {
		t.Fatalf("NewRB failed: %v", err)
	}
	topic := NewTopic[int]("/named", buf)
	pub := NewPublisher(topic)
	sub := NewSubscriber(topic)

	if pub.TopicName() != "/named" {
		t.Fatalf("Publisher.TopicName() = %q, want \"/named\"", pub.TopicName())
	}
	if sub.TopicName() != "/named" {
		t.Fatalf("Subscriber.TopicName() = %q, want \"/named\"", sub.TopicName())
	}
}

func TestSubscriber_Age(t *testing.T) {
	buf, err := NewRB[int](4)
	if err != nil {
		t.Fatalf("NewRB failed: %v", err)
	}
	topic := NewTopic[int]("/ticks", buf)
	sub := NewSubscriber(topic)

	if _, ok := sub.Age(); ok {
		t.Fatal("Age() before any MarkSeen: ok = true, want false")
	}

	sub.MarkSeen()
	age, ok := sub.Age()
	if !ok {
		t.Fatal("Age() after MarkSeen: ok = false, want true")
	}
	if age < 0 {
		t.Fatalf("Age() = %v, want non-negative", age)
	}
}

func TestByteSubscriber_HasNewAndPeekLatestRef(t *testing.T) {
	buf, err := NewRBB(4)
	if err != nil {
		t.Fatalf("NewRBB failed: %v", err)
	}
	topic := NewByteTopic("/frame", buf)
	pub := NewBytePublisher(topic)
	sub := NewByteSubscriber(topic)

	if sub.HasNew() {
		t.Fatal("HasNew() on empty topic: true, want false")
	}

	pub.Publish([]byte("frame-0"))
	if !sub.HasNew() {
		t.Fatal("HasNew() after Publish: false, want true")
	}

	data, _, ok := sub.PeekLatestRef()
	if !ok || string(data) != "frame-0" {
		t.Fatalf("PeekLatestRef() = (%q, %v), want (\"frame-0\", true)", data, ok)
	}

	sub.MarkSeen()
	if sub.HasNew() {
		t.Fatal("HasNew() after MarkSeen: true, want false")
	}
}

func TestBytePublisher_PublishOversizeReturnsErrPayloadTooLarge(t *testing.T) {
	buf, err := NewRBB(4)
	if err != nil {
		t.Fatalf("NewRBB failed: %v", err)
	}
	topic := NewByteTopic("/frame", buf)
	pub := NewBytePublisher(topic)

	oversize := make([]byte, MaxPayload+1)
	epoch, err := pub.Publish(oversize)
	if !errors.Is(err, ErrPayloadTooLarge) {
		t.Fatalf("Publish(oversize) error = %v, want ErrPayloadTooLarge", err)
	}
	if epoch != 0 {
		t.Fatalf("Publish(oversize) epoch = %d, want 0", epoch)
	}

	epoch, err = pub.Publish([]byte("ok"))
	if err != nil {
		t.Fatalf("Publish(valid) error = %v, want nil", err)
	}
	if epoch != 1 {
		t.Fatalf("Publish(valid) epoch = %d, want 1", epoch)
	}
}
