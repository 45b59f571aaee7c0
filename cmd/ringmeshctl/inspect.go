// inspect.go: "inspect" subcommand
//
// Copyright (c) 2025 AGILira
// Series: an AGILira fragment
// SPDX-License-Identifier: MPL-2.0

package main

import (
	"fmt"
	"sort"

	"github.com/spf13/cobra"

	"github.com/agilira/ringmesh"
)

var inspectArgs struct {
	Topic string
}

var inspectCmd = &cobra.Command{
	Use:   "inspect",
	Short: "Report a registry's topic layout",
	Long: `Inspect constructs a registry the same way a hosting process would
and reports what it contains. Pass --topic to report on a single named byte
topic instead of listing everything.

A genuine "attach to another process's already-running registry over the C
ABI" is out of scope here: a Registry lives in its owning process's Go heap,
not in a shared-memory segment the C ABI exposes to a second process.
cmd/ringmeshc's exported functions give a C host embedding ringmesh in its
own process a way to create and query topics in that process's own
registry; they do not give a second, independent process a way to read the
first one's memory. Without a shared-memory-backed buffer layout (a much
larger change than this CLI), there is nothing for inspect to dial into.
What inspect --topic reports on is this process's own registry, built the
same way a hosting process would build one.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		return runInspect(inspectArgs.Topic)
	},
}

func init() {
	inspectCmd.Flags().StringVar(&inspectArgs.Topic, "topic", "", "report on a single named byte topic instead of listing all topics")
}

func runInspect(topicFilter string) error {
	registry := ringmesh.NewRegistry()

	if topicFilter != "" {
		return inspectOneTopic(registry, topicFilter)
	}

	fmt.Printf("topic count: %d\n", registry.TopicCount())

	names := registry.ByteTopicNames()
	sort.Strings(names)
	fmt.Println("byte topics:")
	for _, name := range names {
		topic, ok := registry.ByteTopic(name)
		if !ok {
			continue
		}
		fmt.Printf("  %-24s len=%d cap=%d epoch=%d\n", name, topic.Len(), topic.Capacity(), topic.LatestEpoch())
	}

	typed := registry.TypedTopicNames()
	sort.Strings(typed)
	fmt.Println("typed topics:")
	for _, name := range typed {
		fmt.Printf("  %-24s\n", name)
	}

	return nil
}

func inspectOneTopic(registry *ringmesh.Registry, name string) error {
	topic, ok := registry.ByteTopic(name)
	if !ok {
		fmt.Printf("byte topic %q: not present\n", name)
		return nil
	}
	fmt.Printf("%-24s len=%d cap=%d epoch=%d\n", name, topic.Len(), topic.Capacity(), topic.LatestEpoch())
	return nil
}
