// bridge_test.go: tests for the UART-to-registry bridge
//
// Copyright (c) 2025 AGILira
// Series: an AGILira fragment
// SPDX-License-Identifier: MPL-2.0

package uart

import (
	"bytes"
	"context"
	"errors"
	"io"
	"testing"
	"time"

	"github.com/agilira/ringmesh"
)

func TestBridge_PublishesDecodedFrames(t *testing.T) {
	payload := []byte{1, 2, 3, 4}
	wire, err := Encode(MsgDepth, payload)
	if err != nil {
		t.Fatalf("Encode failed: %v", err)
	}

	reg := ringmesh.NewRegistry()
	bridge := NewBridge(bytes.NewReader(wire), reg)
	defer bridge.Close()

	err = bridge.Run(context.Background())
	if err != nil && err != io.EOF {
		t.Fatalf("Run failed: %v", err)
	}

	topic, ok := reg.ByteTopic("/stm32/depth")
	if !ok {
		t.Fatal("expected a /stm32/depth topic to have been created")
	}
	data, _, ok := topic.TryReceive()
	if !ok || !bytes.Equal(data, payload) {
		t.Fatalf("TryReceive() = (%v, %v), want (%v, true)", data, ok, payload)
	}
}

func TestBridge_ReportsDecodeErrorsAndRecovers(t *testing.T) {
	good, err := Encode(MsgImu, make([]byte, 4))
	if err != nil {
		t.Fatalf("Encode failed: %v", err)
	}
	// Garbage with no sync byte, followed by a valid frame.
	stream := append([]byte{0x11, 0x22, 0x33}, good...)

	reg := ringmesh.NewRegistry()
	var reports []string
	bridge := NewBridge(bytes.NewReader(stream), reg, WithErrorCallback(func(stage string, err error) {
		reports = append(reports, stage)
	}))
	defer bridge.Close()

	err = bridge.Run(context.Background())
	if err != nil && err != io.EOF {
		t.Fatalf("Run failed: %v", err)
	}

	if _, ok := reg.ByteTopic("/stm32/imu"); !ok {
		t.Fatal("expected the imu topic to have been created despite leading garbage")
	}
	if len(reports) == 0 {
		t.Fatal("expected at least one decode-error report for the leading garbage")
	}
}

func TestBridge_GarbageValidGarbageValidYieldsTwoRecords(t *testing.T) {
	frame1, err := Encode(MsgImu, []byte{1, 2, 3, 4})
	if err != nil {
		t.Fatalf("Encode failed: %v", err)
	}
	frame2, err := Encode(MsgImu, []byte{5, 6, 7, 8})
	if err != nil {
		t.Fatalf("Encode failed: %v", err)
	}

	var stream []byte
	stream = append(stream, 0x11, 0x22, 0x33)
	stream = append(stream, frame1...)
	stream = append(stream, 0x44, 0x55)
	stream = append(stream, frame2...)

	reg := ringmesh.NewRegistry()
	bridge := NewBridge(bytes.NewReader(stream), reg)
	defer bridge.Close()

	if err := runUntilEOF(bridge); err != nil {
		t.Fatalf("Run failed: %v", err)
	}

	topic, ok := reg.ByteTopic("/stm32/imu")
	if !ok {
		t.Fatal("expected the imu topic to have been created")
	}
	if got := topic.LatestEpoch(); got != 2 {
		t.Fatalf("LatestEpoch() = %d, want 2 (exactly two published records)", got)
	}

	first, _, ok := topic.TryReceive()
	if !ok || !bytes.Equal(first, []byte{1, 2, 3, 4}) {
		t.Fatalf("first TryReceive() = (%v, %v), want ([1 2 3 4], true)", first, ok)
	}
	second, _, ok := topic.TryReceive()
	if !ok || !bytes.Equal(second, []byte{5, 6, 7, 8}) {
		t.Fatalf("second TryReceive() = (%v, %v), want ([5 6 7 8], true)", second, ok)
	}
}

func TestBridge_RunRespectsContextCancellation(t *testing.T) {
	reader, writer := io.Pipe()
	defer reader.Close()

	reg := ringmesh.NewRegistry()
	bridge := NewBridge(reader, reg)
	defer bridge.Close()

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() {
		done <- bridge.Run(ctx)
	}()

	cancel()
	writer.Write([]byte{0}) // unblock the pending Read so Run observes ctx.Err()

	select {
	case err := <-done:
		if err != context.Canceled {
			t.Fatalf("Run() returned %v, want context.Canceled", err)
		}
	case <-time.After(2 * time.Second):
		t.Fatal("Run() did not return after context cancellation")
	}
}

func TestBridge_HeartbeatAge(t *testing.T) {
	wire, err := Encode(MsgHeartbeat, nil)
	if err != nil {
		t.Fatalf("Encode failed: %v", err)
	}

	reg := ringmesh.NewRegistry()
	bridge := NewBridge(bytes.NewReader(wire), reg)
	defer bridge.Close()

	if _, ok := bridge.HeartbeatAge(); ok {
		t.Fatal("HeartbeatAge() before any heartbeat: ok = true, want false")
	}

	err = bridge.Run(context.Background())
	if err != nil && err != io.EOF {
		t.Fatalf("Run failed: %v", err)
	}

	age, ok := bridge.HeartbeatAge()
	if !ok {
		t.Fatal("HeartbeatAge() after a heartbeat frame: ok = false, want true")
	}
	if age < 0 {
		t.Fatalf("HeartbeatAge() = %v, want non-negative", age)
	}
}

func TestBridge_SendFrameRequiresWriter(t *testing.T) {
	reg := ringmesh.NewRegistry()
	bridge := NewBridge(bytes.NewReader(nil), reg)
	defer bridge.Close()

	if err := bridge.SendFrame(MsgCommand, []byte{1}); err == nil {
		t.Fatal("SendFrame without a configured writer: err = nil, want an error")
	}
}

func TestBridge_SendFrameWritesEncodedWire(t *testing.T) {
	var out bytes.Buffer
	reg := ringmesh.NewRegistry()
	bridge := NewBridge(bytes.NewReader(nil), reg, WithWriter(&out))
	defer bridge.Close()

	payload := []byte{9, 9}
	if err := bridge.SendFrame(MsgAck, payload); err != nil {
		t.Fatalf("SendFrame failed: %v", err)
	}

	want, err := Encode(MsgAck, payload)
	if err != nil {
		t.Fatalf("Encode failed: %v", err)
	}
	if !bytes.Equal(out.Bytes(), want) {
		t.Fatalf("written bytes = %v, want %v", out.Bytes(), want)
	}
}

func TestBridge_WithTopicCapacity(t *testing.T) {
	wire, err := Encode(MsgDepth, []byte{1})
	if err != nil {
		t.Fatalf("Encode failed: %v", err)
	}

	reg := ringmesh.NewRegistry()
	bridge := NewBridge(bytes.NewReader(wire), reg, WithTopicCapacity(2))
	defer bridge.Close()

	if err := runUntilEOF(bridge); err != nil {
		t.Fatalf("Run failed: %v", err)
	}

	topic, ok := reg.ByteTopic("/stm32/depth")
	if !ok {
		t.Fatal("expected the depth topic to exist")
	}
	if topic.Capacity() != 2 {
		t.Fatalf("Capacity() = %d, want 2", topic.Capacity())
	}
}

func TestBridge_OperationsAfterCloseReturnErrClosed(t *testing.T) {
	var out bytes.Buffer
	reg := ringmesh.NewRegistry()
	bridge := NewBridge(bytes.NewReader(nil), reg, WithWriter(&out))
	bridge.Close()

	if err := bridge.Run(context.Background()); !errors.Is(err, ringmesh.ErrClosed) {
		t.Fatalf("Run() after Close() = %v, want ErrClosed", err)
	}
	if err := bridge.SendFrame(MsgAck, nil); !errors.Is(err, ringmesh.ErrClosed) {
		t.Fatalf("SendFrame() after Close() = %v, want ErrClosed", err)
	}
}

func runUntilEOF(b *Bridge) error {
	err := b.Run(context.Background())
	if err == io.EOF {
		return nil
	}
	return err
}
