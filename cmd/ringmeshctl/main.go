// main.go: ringmeshctl command tree
//
// Copyright (c) 2025 AGILira
// Series: an AGILira fragment
// SPDX-License-Identifier: MPL-2.0

// Command ringmeshctl is an operator CLI around the ringmesh registry: it
// can run the UART bridge against a real serial device and report the
// topic layout of a registry it builds in its own process; it does not
// attach to a registry owned by another process.
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var rootCmd = &cobra.Command{
	Use:   "ringmeshctl",
	Short: "Operate a ringmesh registry from the command line",
}

func init() {
	rootCmd.AddCommand(uartBridgeCmd)
	rootCmd.AddCommand(inspectCmd)
}

func newLogger() *zap.Logger {
	logger, err := zap.NewProduction()
	if err != nil {
		// zap.NewProduction only fails on sink construction; fall back to
		// a logger that still works rather than aborting startup over it.
		logger = zap.NewNop()
	}
	return logger
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "ERROR: %v\n", err)
		os.Exit(1)
	}
}
