// bridge.go: UART-to-registry frame bridge
//
// Copyright (c) 2025 AGILira
// Series: an AGILira fragment
// SPDX-License-Identifier: MPL-2.0

package uart

import (
	"context"
	"fmt"
	"io"
	"sync/atomic"
	"time"

	"go.uber.org/zap"

	"github.com/agilira/go-timecache"
	"github.com/agilira/ringmesh"
)

// maxRxBuffer bounds how much unparsed garbage the bridge will accumulate
// while waiting for a sync byte that never arrives, so a noisy or
// disconnected line can't grow the receive buffer without bound.
const maxRxBuffer = 4096

// byteTopicCapacity is the capacity used when a message type's topic is
// created lazily on first frame arrival.
const byteTopicCapacity = 32

// Bridge decodes UART frames from an io.Reader and publishes their
// payloads into byte topics on a Registry, one topic per message type,
// created lazily on first arrival. It also supports sending frames back
// out over an io.Writer, for command/acknowledgement traffic.
//
// A Bridge is not safe for concurrent Run calls; a single goroutine should
// own the read loop. SendFrame may be called from any goroutine once the
// bridge is constructed.
type Bridge struct {
	r        io.Reader
	w        io.Writer
	registry *ringmesh.Registry
	rx       []byte

	logger        *zap.Logger
	errorCallback func(stage string, err error)
	clock         *timecache.TimeCache
	lastHeartbeat atomic.Int64 // unix nanos of the last heartbeat frame, 0 if none seen
	topicCapacity int
	closed        atomic.Bool
}

// BridgeOption configures a Bridge at construction time.
type BridgeOption func(*Bridge)

// WithWriter attaches an io.Writer used by SendFrame. Without one,
// SendFrame fails.
func WithWriter(w io.Writer) BridgeOption {
	return func(b *Bridge) { b.w = w }
}

// WithBridgeLogger attaches a structured logger for decode-failure
// reporting. A nil logger (the default) disables this reporting.
func WithBridgeLogger(logger *zap.Logger) BridgeOption {
	return func(b *Bridge) { b.logger = logger }
}

// WithErrorCallback attaches a callback invoked whenever the bridge drops
// a malformed frame while resynchronizing. stage identifies what failed
// ("frame_decode"); err describes why.
func WithErrorCallback(cb func(stage string, err error)) BridgeOption {
	return func(b *Bridge) { b.errorCallback = cb }
}

// WithTopicCapacity overrides the default per-topic ring buffer capacity
// used when a message type's topic is created lazily on first arrival.
func WithTopicCapacity(capacity int) BridgeOption {
	return func(b *Bridge) { b.topicCapacity = capacity }
}

// NewBridge constructs a Bridge that reads frames from r and publishes
// decoded payloads into registry.
func NewBridge(r io.Reader, registry *ringmesh.Registry, opts ...BridgeOption) *Bridge {
	b := &Bridge{
		r:             r,
		registry:      registry,
		rx:            make([]byte, 0, 512),
		clock:         timecache.NewWithResolution(10 * time.Millisecond),
		topicCapacity: byteTopicCapacity,
	}
	for _, opt := range opts {
		opt(b)
	}
	return b
}

// Run reads and decodes frames until ctx is cancelled, a read error occurs,
// or the bridge is closed. Read errors stop the loop and are returned; ctx
// cancellation returns ctx.Err(); a closed bridge returns ErrClosed. Run
// does not itself interrupt a pending Read on a closed or cancelled bridge;
// the reader must be closed or otherwise unblocked by the caller for the
// loop to observe either condition promptly.
func (b *Bridge) Run(ctx context.Context) error {
	if b.closed.Load() {
		return ringmesh.ErrClosed
	}
	readBuf := make([]byte, 256)

	for {
		if b.closed.Load() {
			return ringmesh.ErrClosed
		}
		if err := ctx.Err(); err != nil {
			return err
		}

		n, err := b.r.Read(readBuf)
		if n > 0 {
			b.rx = append(b.rx, readBuf[:n]...)
			b.processBuffer()
		}
		if err != nil {
			if err == io.EOF {
				return err
			}
			return fmt.Errorf("uart: read error: %w", err)
		}
	}
}

func (b *Bridge) processBuffer() {
	for {
		res := tryDecodeFrame(b.rx)
		if res.consumed == 0 {
			// Nothing to drop and no complete frame: wait for more bytes.
			break
		}
		if res.reason != "" {
			b.reportDecodeError(res.reason)
		}
		b.rx = b.rx[res.consumed:]
		if res.ok {
			b.publishFrame(res.frame)
		}
		// Always retry immediately, whether we just dropped garbage or
		// published a frame: either may have uncovered another frame
		// already sitting in the buffer.
	}

	if len(b.rx) > maxRxBuffer {
		dropped := len(b.rx) - 3
		b.rx = b.rx[dropped:]
		b.reportDecodeError("receive buffer overflow with no sync byte, discarding oldest bytes")
	}
}

func (b *Bridge) reportDecodeError(reason string) {
	err := fmt.Errorf("uart: %s", reason)
	if b.logger != nil {
		b.logger.Debug("dropping malformed uart data", zap.Error(err))
	}
	if b.errorCallback != nil {
		b.errorCallback("frame_decode", err)
	}
}

func (b *Bridge) publishFrame(frame Frame) {
	name, ok := frame.Type.TopicName()
	if !ok {
		return
	}
	topic, err := b.registry.GetOrCreateByteTopic(name, b.topicCapacity)
	if err != nil {
		b.reportDecodeError(fmt.Sprintf("creating topic %s: %v", name, err))
		return
	}
	topic.Publish(frame.Payload)

	if frame.Type == MsgHeartbeat {
		b.lastHeartbeat.Store(b.clock.CachedTime().UnixNano())
	}
}

// HeartbeatAge returns how long ago the last heartbeat frame was received.
// The second return value is false if no heartbeat has ever arrived.
func (b *Bridge) HeartbeatAge() (time.Duration, bool) {
	ts := b.lastHeartbeat.Load()
	if ts == 0 {
		return 0, false
	}
	return b.clock.CachedTime().Sub(time.Unix(0, ts)), true
}

// Close marks the bridge closed and releases its internal clock resources.
// Call it once the bridge's Run loop has returned. After Close, Run and
// SendFrame both return ErrClosed instead of performing I/O.
func (b *Bridge) Close() {
	b.closed.Store(true)
	b.clock.Stop()
}

// SendFrame encodes and writes a frame to the bridge's writer. It fails if
// no writer was configured via WithWriter, or if the bridge has been
// closed.
func (b *Bridge) SendFrame(msgType MsgType, payload []byte) error {
	if b.closed.Load() {
		return ringmesh.ErrClosed
	}
	if b.w == nil {
		return fmt.Errorf("uart: bridge has no writer configured")
	}
	wire, err := Encode(msgType, payload)
	if err != nil {
		return err
	}
	if _, err := b.w.Write(wire); err != nil {
		return fmt.Errorf("uart: write error: %w", err)
	}
	if flusher, ok := b.w.(interface{ Flush() error }); ok {
		return flusher.Flush()
	}
	return nil
}
