// messages.go: fixed-layout message payloads carried over UART frames
//
// Copyright (c) 2025 AGILira
// Series: an AGILira fragment
// SPDX-License-Identifier: MPL-2.0

package uart

import (
	"encoding/binary"
	"fmt"
	"math"
)

// Byte sizes of the fixed-layout messages below, matching the STM32 side's
// packed little-endian struct layouts.
const (
	ImuMsgSize         = 36 // 9 * float32
	OrientationMsgSize = 12 // 3 * float32
	DepthMsgSize       = 4  // 1 * float32
	ThrusterPwmSize    = 24 // 6 * int32
	LedCmdSize         = 2  // 1 * int16
	CalibrationCmdSize = 1  // 1 * bool
)

// ImuMsg is a raw IMU sample: acceleration (m/s²), angular rate (rad/s) and
// magnetic field (µT) on each axis.
type ImuMsg struct {
	AccelX, AccelY, AccelZ float32
	GyroX, GyroY, GyroZ    float32
	MagX, MagY, MagZ       float32
}

// MarshalBinary encodes the message in the wire's little-endian layout.
func (m ImuMsg) MarshalBinary() ([]byte, error) {
	buf := make([]byte, ImuMsgSize)
	fields := [...]float32{m.AccelX, m.AccelY, m.AccelZ, m.GyroX, m.GyroY, m.GyroZ, m.MagX, m.MagY, m.MagZ}
	for i, f := range fields {
		binary.LittleEndian.PutUint32(buf[i*4:], math.Float32bits(f))
	}
	return buf, nil
}

// UnmarshalImuMsg decodes a raw IMU sample from its wire layout.
func UnmarshalImuMsg(data []byte) (ImuMsg, error) {
	if len(data) < ImuMsgSize {
		return ImuMsg{}, fmt.Errorf("uart: imu payload too short: %d bytes", len(data))
	}
	f := func(i int) float32 { return math.Float32frombits(binary.LittleEndian.Uint32(data[i*4:])) }
	return ImuMsg{
		AccelX: f(0), AccelY: f(1), AccelZ: f(2),
		GyroX: f(3), GyroY: f(4), GyroZ: f(5),
		MagX: f(6), MagY: f(7), MagZ: f(8),
	}, nil
}

// OrientationMsg is a fused attitude estimate in degrees.
type OrientationMsg struct {
	Roll, Pitch, Yaw float32
}

// MarshalBinary encodes the message in the wire's little-endian layout.
func (m OrientationMsg) MarshalBinary() ([]byte, error) {
	buf := make([]byte, OrientationMsgSize)
	binary.LittleEndian.PutUint32(buf[0:], math.Float32bits(m.Roll))
	binary.LittleEndian.PutUint32(buf[4:], math.Float32bits(m.Pitch))
	binary.LittleEndian.PutUint32(buf[8:], math.Float32bits(m.Yaw))
	return buf, nil
}

// UnmarshalOrientationMsg decodes an attitude estimate from its wire layout.
func UnmarshalOrientationMsg(data []byte) (OrientationMsg, error) {
	if len(data) < OrientationMsgSize {
		return OrientationMsg{}, fmt.Errorf("uart: orientation payload too short: %d bytes", len(data))
	}
	return OrientationMsg{
		Roll:  math.Float32frombits(binary.LittleEndian.Uint32(data[0:])),
		Pitch: math.Float32frombits(binary.LittleEndian.Uint32(data[4:])),
		Yaw:   math.Float32frombits(binary.LittleEndian.Uint32(data[8:])),
	}, nil
}

// DepthMsg is a single pressure-derived depth reading in meters.
type DepthMsg struct {
	Depth float32
}

// MarshalBinary encodes the message in the wire's little-endian layout.
func (m DepthMsg) MarshalBinary() ([]byte, error) {
	buf := make([]byte, DepthMsgSize)
	binary.LittleEndian.PutUint32(buf, math.Float32bits(m.Depth))
	return buf, nil
}

// UnmarshalDepthMsg decodes a depth reading from its wire layout.
func UnmarshalDepthMsg(data []byte) (DepthMsg, error) {
	if len(data) < DepthMsgSize {
		return DepthMsg{}, fmt.Errorf("uart: depth payload too short: %d bytes", len(data))
	}
	return DepthMsg{Depth: math.Float32frombits(binary.LittleEndian.Uint32(data))}, nil
}

// ThrusterPwmCmd carries PWM microsecond values (1000-2000) for all six
// thrusters.
type ThrusterPwmCmd struct {
	Pwm [6]int32
}

// MarshalBinary encodes the command in the wire's little-endian layout.
func (m ThrusterPwmCmd) MarshalBinary() ([]byte, error) {
	buf := make([]byte, ThrusterPwmSize)
	for i, v := range m.Pwm {
		binary.LittleEndian.PutUint32(buf[i*4:], uint32(v))
	}
	return buf, nil
}

// UnmarshalThrusterPwmCmd decodes a thruster command from its wire layout.
func UnmarshalThrusterPwmCmd(data []byte) (ThrusterPwmCmd, error) {
	if len(data) < ThrusterPwmSize {
		return ThrusterPwmCmd{}, fmt.Errorf("uart: thruster payload too short: %d bytes", len(data))
	}
	var cmd ThrusterPwmCmd
	for i := range cmd.Pwm {
		cmd.Pwm[i] = int32(binary.LittleEndian.Uint32(data[i*4:]))
	}
	return cmd, nil
}

// LedCmd sets an indicator LED pattern.
type LedCmd struct {
	Indicator int16
}

// MarshalBinary encodes the command in the wire's little-endian layout.
func (m LedCmd) MarshalBinary() ([]byte, error) {
	buf := make([]byte, LedCmdSize)
	binary.LittleEndian.PutUint16(buf, uint16(m.Indicator))
	return buf, nil
}

// UnmarshalLedCmd decodes an LED command from its wire layout.
func UnmarshalLedCmd(data []byte) (LedCmd, error) {
	if len(data) < LedCmdSize {
		return LedCmd{}, fmt.Errorf("uart: led payload too short: %d bytes", len(data))
	}
	return LedCmd{Indicator: int16(binary.LittleEndian.Uint16(data))}, nil
}

// CalibrationCmd enables or disables a calibration routine.
type CalibrationCmd struct {
	Enable bool
}

// MarshalBinary encodes the command as a single byte.
func (m CalibrationCmd) MarshalBinary() ([]byte, error) {
	if m.Enable {
		return []byte{1}, nil
	}
	return []byte{0}, nil
}

// UnmarshalCalibrationCmd decodes a calibration command from its wire byte.
func UnmarshalCalibrationCmd(data []byte) (CalibrationCmd, error) {
	if len(data) < CalibrationCmdSize {
		return CalibrationCmd{}, fmt.Errorf("uart: calibration payload too short: %d bytes", len(data))
	}
	return CalibrationCmd{Enable: data[0] != 0}, nil
}
