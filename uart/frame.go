// frame.go: UART frame codec
//
// Copyright (c) 2025 AGILira
// Series: an AGILira fragment
// SPDX-License-Identifier: MPL-2.0

package uart

import "fmt"

// SyncByte marks the start of a frame.
const SyncByte = 0xAA

// MaxMsgSize is the largest payload a single frame can carry.
const MaxMsgSize = 244

// MsgType identifies the kind of payload a frame carries.
type MsgType byte

// Message types understood by the bridge.
const (
	MsgImu       MsgType = 0x01
	MsgDepth     MsgType = 0x02
	MsgThruster  MsgType = 0x03
	MsgHeartbeat MsgType = 0x04
	MsgCommand   MsgType = 0x10
	MsgAck       MsgType = 0x11
)

// topicNames maps each known MsgType to the byte topic it is published on.
var topicNames = map[MsgType]string{
	MsgImu:       "/stm32/imu",
	MsgDepth:     "/stm32/depth",
	MsgThruster:  "/stm32/thruster",
	MsgHeartbeat: "/stm32/heartbeat",
	MsgCommand:   "/stm32/command",
	MsgAck:       "/stm32/ack",
}

// TopicName returns the byte topic name this message type is published on,
// and false if t is not a recognized message type.
func (t MsgType) TopicName() (string, bool) {
	name, ok := topicNames[t]
	return name, ok
}

// Frame is one decoded UART frame: a message type and its raw payload.
type Frame struct {
	Type    MsgType
	Payload []byte
}

// Checksum computes the 8-bit wraparound sum used by the frame format,
// over type ‖ length ‖ payload.
func Checksum(msgType byte, length byte, payload []byte) byte {
	sum := msgType + length
	for _, b := range payload {
		sum += b
	}
	return sum
}

// Encode renders a frame as wire bytes: [sync][type][len][payload][checksum].
// It fails if the payload exceeds MaxMsgSize.
func Encode(msgType MsgType, payload []byte) ([]byte, error) {
	if len(payload) > MaxMsgSize {
		return nil, fmt.Errorf("uart: payload of %d bytes exceeds max frame size %d", len(payload), MaxMsgSize)
	}

	out := make([]byte, 0, 4+len(payload))
	out = append(out, SyncByte, byte(msgType), byte(len(payload)))
	out = append(out, payload...)
	out = append(out, Checksum(byte(msgType), byte(len(payload)), payload))
	return out, nil
}

// decodeResult is the outcome of attempting to parse one frame from the
// front of a byte buffer.
type decodeResult struct {
	frame    Frame
	consumed int // bytes to drop from the front of buf regardless of ok
	ok       bool
	reason   string // non-empty iff consumed > 0 due to a malformed frame, not a wait-for-more-bytes case
}

// tryDecodeFrame attempts to parse exactly one frame from the front of buf.
// It returns ok=false when buf doesn't yet hold a complete frame (the
// caller should wait for more bytes) or when the leading byte(s) must be
// dropped to resynchronize (consumed > 0, ok=false): bytes before the
// first sync byte are all dropped at once, while an oversize length, bad
// checksum, or unknown message type resync by dropping exactly one byte;
// in each case the caller retries.
func tryDecodeFrame(buf []byte) decodeResult {
	if len(buf) < 4 {
		return decodeResult{ok: false, consumed: 0}
	}

	syncPos := -1
	for i, b := range buf {
		if b == SyncByte {
			syncPos = i
			break
		}
	}
	if syncPos < 0 {
		// No sync byte yet: wait for more bytes rather than discarding,
		// since a sync byte may arrive split across reads.
		return decodeResult{ok: false, consumed: 0}
	}
	if syncPos > 0 {
		return decodeResult{ok: false, consumed: syncPos, reason: "leading garbage before sync byte"}
	}

	if len(buf) < 4 {
		return decodeResult{ok: false, consumed: 0}
	}

	msgTypeByte := buf[1]
	length := int(buf[2])

	if length > MaxMsgSize {
		return decodeResult{ok: false, consumed: 1, reason: "length exceeds max frame size"}
	}

	frameLen := 4 + length
	if len(buf) < frameLen {
		return decodeResult{ok: false, consumed: 0}
	}

	checksum := buf[3+length]
	calculated := Checksum(msgTypeByte, byte(length), buf[3:3+length])
	if checksum != calculated {
		return decodeResult{ok: false, consumed: 1, reason: "checksum mismatch"}
	}

	msgType := MsgType(msgTypeByte)
	if _, known := topicNames[msgType]; !known {
		return decodeResult{ok: false, consumed: 1, reason: "unknown message type"}
	}

	payload := make([]byte, length)
	copy(payload, buf[3:3+length])

	return decodeResult{
		frame:    Frame{Type: msgType, Payload: payload},
		consumed: frameLen,
		ok:       true,
	}
}
