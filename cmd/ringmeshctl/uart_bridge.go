// uart_bridge.go: "uart-bridge" subcommand
//
// Copyright (c) 2025 AGILira
// Series: an AGILira fragment
// SPDX-License-Identifier: MPL-2.0

package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/agilira/ringmesh"
	"github.com/agilira/ringmesh/uart"
)

var uartBridgeArgs struct {
	Device         string
	TopicCapacity  int
	StatsInterval  time.Duration
	ReopenRetries  int
	ReopenInterval time.Duration
}

var uartBridgeCmd = &cobra.Command{
	Use:   "uart-bridge",
	Short: "Decode frames from a serial device into a ringmesh registry",
	RunE: func(cmd *cobra.Command, args []string) error {
		return runUARTBridge()
	},
}

func init() {
	uartBridgeCmd.Flags().StringVarP(&uartBridgeArgs.Device, "device", "d", "", "Path to the serial device (required)")
	uartBridgeCmd.Flags().IntVar(&uartBridgeArgs.TopicCapacity, "topic-capacity", 32, "Per-topic ring buffer capacity, in records")
	uartBridgeCmd.Flags().DurationVar(&uartBridgeArgs.StatsInterval, "stats-interval", 5*time.Second, "How often to log registry stats")
	uartBridgeCmd.Flags().IntVar(&uartBridgeArgs.ReopenRetries, "reopen-retries", 5, "Reopen attempts if the device can't be opened yet")
	uartBridgeCmd.Flags().DurationVar(&uartBridgeArgs.ReopenInterval, "reopen-interval", 500*time.Millisecond, "Delay between reopen attempts")
	uartBridgeCmd.MarkFlagRequired("device")
}

func runUARTBridge() error {
	logger := newLogger()
	defer logger.Sync()

	var f *os.File
	err := ringmesh.RetryOperation(func() error {
		var openErr error
		f, openErr = os.OpenFile(uartBridgeArgs.Device, os.O_RDWR, 0)
		return openErr
	}, uartBridgeArgs.ReopenRetries, uartBridgeArgs.ReopenInterval)
	if err != nil {
		return fmt.Errorf("ringmeshctl: opening %s: %w", uartBridgeArgs.Device, err)
	}
	defer f.Close()

	registry := ringmesh.NewRegistry(ringmesh.WithLogger(logger))
	bridge := uart.NewBridge(f, registry,
		uart.WithWriter(f),
		uart.WithBridgeLogger(logger),
		uart.WithTopicCapacity(uartBridgeArgs.TopicCapacity),
		uart.WithErrorCallback(func(stage string, err error) {
			logger.Warn("uart decode issue", zap.String("stage", stage), zap.Error(err))
		}),
	)
	defer bridge.Close()

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	group, groupCtx := errgroup.WithContext(ctx)
	group.Go(func() error {
		err := bridge.Run(groupCtx)
		if groupCtx.Err() != nil {
			return nil
		}
		return err
	})
	group.Go(func() error {
		return logStats(groupCtx, registry, logger, uartBridgeArgs.StatsInterval)
	})

	if err := group.Wait(); err != nil {
		return fmt.Errorf("ringmeshctl: %w", err)
	}
	return nil
}

func logStats(ctx context.Context, registry *ringmesh.Registry, logger *zap.Logger, interval time.Duration) error {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return nil
		case <-ticker.C:
			logger.Info("registry stats",
				zap.Int("topic_count", registry.TopicCount()),
				zap.Strings("byte_topics", registry.ByteTopicNames()),
			)
		}
	}
}
