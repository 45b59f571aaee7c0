// config.go: configuration parsing utilities
//
// Copyright (c) 2025 AGILira
// Series: an AGILira fragment
// SPDX-License-Identifier: MPL-2.0

package ringmesh

import (
	"fmt"
	"time"

	"github.com/c2h5oh/datasize"
)

// ParseCapacityBytes parses human-readable byte sizes ("4KB", "1MB", "256")
// for components configured by slot/buffer size in bytes rather than by
// record count, delegating the K/M/G/T table to datasize instead of
// hand-rolling it.
func ParseCapacityBytes(s string) (int64, error) {
	if s == "" {
		return 0, fmt.Errorf("ringmesh: empty size string")
	}
	var v datasize.ByteSize
	if err := v.UnmarshalText([]byte(s)); err != nil {
		return 0, fmt.Errorf("ringmesh: invalid size %q: %w", s, err)
	}
	return int64(v.Bytes()), nil
}

// RetryOperation executes op with retry logic, for transient failures such
// as a serial port that hasn't been opened by the OS yet. Conservative by
// design: short delays, a bounded number of attempts, no hanging.
func RetryOperation(op func() error, retryCount int, retryDelay time.Duration) error {
	if retryCount <= 0 {
		retryCount = 3
	}
	if retryDelay <= 0 {
		retryDelay = 10 * time.Millisecond
	}

	var lastErr error
	for i := 0; i < retryCount; i++ {
		if err := op(); err == nil {
			return nil
		} else {
			lastErr = err
		}
		if i < retryCount-1 {
			time.Sleep(retryDelay)
		}
	}

	return fmt.Errorf("ringmesh: operation failed after %d retries: %w", retryCount, lastErr)
}
