// frame_test.go: tests for the UART frame codec
//
// Copyright (c) 2025 AGILira
// Series: an AGILira fragment
// SPDX-License-Identifier: MPL-2.0

package uart

import (
	"bytes"
	"testing"
)

func TestEncodeDecodeRoundTrip(t *testing.T) {
	payload := []byte{1, 2, 3, 4, 5}
	wire, err := Encode(MsgImu, payload)
	if err != nil {
		t.Fatalf("Encode failed: %v", err)
	}

	res := tryDecodeFrame(wire)
	if !res.ok {
		t.Fatalf("tryDecodeFrame: ok = false, reason = %q", res.reason)
	}
	if res.frame.Type != MsgImu {
		t.Fatalf("decoded Type = %v, want MsgImu", res.frame.Type)
	}
	if !bytes.Equal(res.frame.Payload, payload) {
		t.Fatalf("decoded Payload = %v, want %v", res.frame.Payload, payload)
	}
	if res.consumed != len(wire) {
		t.Fatalf("consumed = %d, want %d (the whole frame)", res.consumed, len(wire))
	}
}

func TestEncode_RejectsOversizePayload(t *testing.T) {
	_, err := Encode(MsgImu, make([]byte, MaxMsgSize+1))
	if err == nil {
		t.Fatal("Encode(oversize payload): err = nil, want an error")
	}
}

func TestTryDecodeFrame_IncompleteBuffer(t *testing.T) {
	wire, err := Encode(MsgDepth, []byte{1, 2, 3, 4})
	if err != nil {
		t.Fatalf("Encode failed: %v", err)
	}

	res := tryDecodeFrame(wire[:len(wire)-1])
	if res.ok {
		t.Fatal("tryDecodeFrame on truncated buffer: ok = true, want false")
	}
	if res.consumed != 0 {
		t.Fatalf("consumed = %d, want 0 (wait for more bytes)", res.consumed)
	}
}

func TestTryDecodeFrame_NoSyncByteWaitsForMoreBytes(t *testing.T) {
	garbage := []byte{0x01, 0x02, 0x03, 0x04, 0x05}
	res := tryDecodeFrame(garbage)
	if res.ok {
		t.Fatal("tryDecodeFrame on sync-less buffer: ok = true, want false")
	}
	if res.consumed != 0 {
		t.Fatalf("consumed = %d, want 0: a sync byte may still arrive split across reads", res.consumed)
	}
}

func TestTryDecodeFrame_LeadingGarbageBeforeSyncIsDropped(t *testing.T) {
	wire, err := Encode(MsgDepth, []byte{9, 9, 9, 9})
	if err != nil {
		t.Fatalf("Encode failed: %v", err)
	}
	buf := append([]byte{0x00, 0x01}, wire...)

	res := tryDecodeFrame(buf)
	if res.ok {
		t.Fatal("first tryDecodeFrame call: ok = true, want false (must resync first)")
	}
	if res.consumed != 2 {
		t.Fatalf("consumed = %d, want 2 (bytes before the sync byte)", res.consumed)
	}
	if res.reason == "" {
		t.Fatal("reason is empty, want a description of the leading garbage")
	}

	res = tryDecodeFrame(buf[res.consumed:])
	if !res.ok {
		t.Fatalf("second tryDecodeFrame call: ok = false, reason = %q", res.reason)
	}
}

func TestTryDecodeFrame_BadChecksumResyncsByOneByte(t *testing.T) {
	wire, err := Encode(MsgDepth, []byte{1, 2, 3, 4})
	if err != nil {
		t.Fatalf("Encode failed: %v", err)
	}
	wire[len(wire)-1] ^= 0xFF // corrupt the checksum

	res := tryDecodeFrame(wire)
	if res.ok {
		t.Fatal("tryDecodeFrame with bad checksum: ok = true, want false")
	}
	if res.consumed != 1 {
		t.Fatalf("consumed = %d, want 1 (resync by a single byte)", res.consumed)
	}
	if res.reason == "" {
		t.Fatal("reason is empty, want a description of the checksum failure")
	}
}

func TestTryDecodeFrame_UnknownMessageTypeResyncsByOneByte(t *testing.T) {
	wire, err := Encode(MsgType(0x7F), []byte{1, 2})
	if err != nil {
		t.Fatalf("Encode failed: %v", err)
	}

	res := tryDecodeFrame(wire)
	if res.ok {
		t.Fatal("tryDecodeFrame with unknown message type: ok = true, want false")
	}
	if res.consumed != 1 {
		t.Fatalf("consumed = %d, want 1", res.consumed)
	}
}

func TestTryDecodeFrame_LengthExceedsMaxResyncsByOneByte(t *testing.T) {
	buf := []byte{SyncByte, byte(MsgImu), 0xFF, 0x00}
	res := tryDecodeFrame(buf)
	if res.ok {
		t.Fatal("tryDecodeFrame with oversize length byte: ok = true, want false")
	}
	if res.consumed != 1 {
		t.Fatalf("consumed = %d, want 1", res.consumed)
	}
}

func TestChecksum_WrapsAround(t *testing.T) {
	sum := Checksum(0xFF, 0xFF, []byte{0xFF, 0xFF})
	want := byte(0xFC) // 4 * 0xFF = 1020, which wraps modulo 256 to 252
	if sum != want {
		t.Fatalf("Checksum wraparound = %d, want %d", sum, want)
	}
}

func TestMsgType_TopicName(t *testing.T) {
	tests := []struct {
		msgType MsgType
		want    string
		wantOK  bool
	}{
		{MsgImu, "/stm32/imu", true},
		{MsgDepth, "/stm32/depth", true},
		{MsgThruster, "/stm32/thruster", true},
		{MsgHeartbeat, "/stm32/heartbeat", true},
		{MsgCommand, "/stm32/command", true},
		{MsgAck, "/stm32/ack", true},
		{MsgType(0xEE), "", false},
	}
	for _, tt := range tests {
		got, ok := tt.msgType.TopicName()
		if got != tt.want || ok != tt.wantOK {
			t.Errorf("MsgType(%#x).TopicName() = (%q, %v), want (%q, %v)", byte(tt.msgType), got, ok, tt.want, tt.wantOK)
		}
	}
}
