package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"moonwave/internal/observ"
	"moonwave/internal/prof"
)

// setupProfiling starts the profilers requested with --cpu-profile,
// --mem-profile and --runtime-trace. The cleanup writes them out.
func setupProfiling(cmd *cobra.Command) (func(), error) {
	flags := globalFlags(cmd)
	opts := prof.Options{
		CPU:   flags.String("cpu-profile"),
		Mem:   flags.String("mem-profile"),
		Trace: flags.String("runtime-trace"),
	}
	if err := flags.Err(); err != nil {
		return nil, err
	}
	session, err := prof.Start(opts)
	if err != nil {
		return nil, fmt.Errorf("failed to start profiling: %w", err)
	}
	return func() {
		if err := session.Stop(); err != nil {
			fmt.Fprintf(cmd.ErrOrStderr(), "profiling: %v\n", err)
		}
	}, nil
}

// newTimer returns a Timer when --timings is set. Without it the result is
// nil, which records nothing.
func newTimer(cmd *cobra.Command) (*observ.Timer, error) {
	flags := globalFlags(cmd)
	if on := flags.Bool("timings"); !on || flags.Err() != nil {
		return nil, flags.Err()
	}
	return observ.NewTimer(), nil
}

func printTimings(cmd *cobra.Command, timer *observ.Timer) {
	if timer != nil {
		fmt.Fprint(cmd.ErrOrStderr(), timer.Summary())
	}
}
