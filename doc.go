// Package ringmesh provides a shared-memory publish/subscribe fabric for
// real-time robotic systems: named topics backed by fixed-capacity,
// single-producer/single-consumer ring buffers with freshness-biased
// overwrite semantics.
//
// When a topic's buffer fills up, the oldest record is silently discarded
// so the newest observation is always admitted. Every record carries a
// monotonically increasing epoch, letting a reader that falls behind
// detect the gap and request the latest observation without draining a
// queue first.
//
// # Quick Start
//
// Typed topics carry a Go value type directly:
//
//	reg := ringmesh.NewRegistry()
//	topic, err := ringmesh.GetOrCreateTopic[int](reg, "/sensors/counter", 16)
//	if err != nil {
//		log.Fatal(err)
//	}
//
//	pub := ringmesh.NewPublisher(topic)
//	sub := ringmesh.NewSubscriber(topic)
//
//	pub.Publish(42)
//	v, ok := sub.TryRecv() // v == 42, ok == true
//
// Byte topics carry variable-length payloads up to ringmesh.MaxPayload
// bytes, used for zero-copy-on-write sensor frames and anything arriving
// from outside the process (UART, the C ABI):
//
//	frameTopic, _ := reg.GetOrCreateByteTopic("/cam/0", 32)
//	frameTopic.Publish(jpegBytes)
//	data, epoch, ok := frameTopic.TryReceive()
//
// # Freshness Without Polling Overhead
//
// A Subscriber tracks its own read cursor independently of TryRecv, so a
// caller can cheaply ask "is there anything new" before doing real work:
//
//	if sub.HasNew() {
//		v, _, _ := sub.PeekLatest()
//		process(v)
//		sub.MarkSeen()
//	}
//
// MarkSeen also timestamps the check, so a caller can separately ask how
// long it has been since it last looked, independent of whether there was
// anything new to see:
//
//	if age, ok := sub.Age(); ok && age > staleThreshold {
//		log.Warn("topic has not been checked recently")
//	}
//
// # Registry Sharing
//
// A Registry de-duplicates topics by name: two callers asking for the same
// name get handles to the same buffer, regardless of the capacity either
// one requested.
//
//	t1, _ := reg.GetOrCreateByteTopic("/cam/0", 32)
//	t2, _ := reg.GetOrCreateByteTopic("/cam/0", 8) // same buffer as t1
//
// Typed lookups are keyed by name *and* element type: asking for the same
// name with a different type returns ErrTopicTypeMismatch instead of
// silently replacing the existing buffer.
//
// # Concurrency Model
//
// Exactly one goroutine may Push to a given buffer; exactly one goroutine
// may Pop or PeekOldest from it. PeekLatest and LatestEpoch are wait-free
// and safe to call from any goroutine, but give only an eventually
// consistent snapshot. Registry lookups are safe for any number of
// concurrent callers; lookups share a read lock, and the exclusive lock is
// only taken while creating a new entry.
//
// # External Interfaces
//
// Package uart decodes the sync/type/length/checksum frame format used by
// an onboard serial link and publishes decoded payloads into a Registry's
// byte topics. Command cmd/ringmeshc exposes the core over a C ABI via
// cgo, for embedding ringmesh in non-Go processes. Command cmd/ringmeshctl
// is an operator CLI that runs the UART bridge as a standalone process.
//
// # Performance Characteristics
//
//   - No locks on the hot path: Push and Pop are built entirely from
//     sync/atomic operations over a fixed slot array.
//   - No allocation on Push for either buffer, nor on a typed Pop; the
//     byte buffer copies the payload into a slot allocated at construction,
//     and its Pop (like the copying peeks) allocates a slice sized to the
//     payload.
//   - No back-pressure: producers never block. A slow consumer loses the
//     oldest data, never new data.
//
// # Thread Safety
//
// All exported types in this package are safe for the concurrency pattern
// they document: single-producer/single-consumer for buffer mutation,
// any-number-of-readers for peeks and registry lookups. Mixing more than
// one producer or consumer goroutine on a single buffer is not supported
// and not detected at runtime.
package ringmesh
