package main

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"approxc/internal/prof"
)

var activeProfile *prof.Session

// startProfiling enables the profilers named by persistent flags.
func startProfiling(cmd *cobra.Command) error {
	root := cmd.Root()
	cpuProfile, err := root.PersistentFlags().GetString("cpu-profile")
	if err != nil {
		return fmt.Errorf("failed to get cpu-profile flag: %w", err)
	}
	memProfile, err := root.PersistentFlags().GetString("mem-profile")
	if err != nil {
		return fmt.Errorf("failed to get mem-profile flag: %w", err)
	}
	tracePath, err := root.PersistentFlags().GetString("runtime-trace")
	if err != nil {
		return fmt.Errorf("failed to get runtime-trace flag: %w", err)
	}
	if cpuProfile == "" && memProfile == "" && tracePath == "" {
		return nil
	}
	activeProfile, err = prof.Start(prof.Config{CPU: cpuProfile, Mem: memProfile, Trace: tracePath})
	return err
}

func stopProfiling(stderr io.Writer) {
	if err := activeProfile.Stop(); err != nil {
		fmt.Fprintf(stderr, "profile: %v\n", err)
	}
	activeProfile = nil
}
