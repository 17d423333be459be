package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"moonwave/internal/trace"
)

// setupTracing builds the tracer the --trace flags describe and attaches it
// to the command context. The returned cleanup stops the heartbeat and
// closes the tracer.
func setupTracing(cmd *cobra.Command) (func(), error) {
	flags := globalFlags(cmd)
	output := flags.String("trace")
	levelName := flags.String("trace-level")
	modeName := flags.String("trace-mode")
	formatName := flags.String("trace-format")
	ringSize := flags.Int("trace-ring-size")
	beat := flags.Duration("trace-heartbeat")
	if err := flags.Err(); err != nil {
		return nil, err
	}

	level, err := trace.ParseLevel(levelName)
	if err != nil {
		return nil, err
	}
	if level == trace.LevelOff && output != "" {
		level = trace.LevelPhase
	}
	if level == trace.LevelOff {
		cmd.SetContext(trace.WithTracer(cmd.Context(), trace.Nop))
		return func() {}, nil
	}

	mode, err := trace.ParseMode(modeName)
	if err != nil {
		return nil, err
	}
	format, err := trace.ParseFormat(formatName)
	if err != nil {
		return nil, err
	}
	tracer, err := trace.New(trace.Config{
		Level:      level,
		Mode:       mode,
		Format:     format,
		OutputPath: output,
		RingSize:   ringSize,
		Heartbeat:  beat,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create tracer: %w", err)
	}
	cmd.SetContext(trace.WithTracer(cmd.Context(), tracer))
	heartbeat := trace.StartHeartbeat(tracer, beat)

	return func() {
		heartbeat.Stop()
		for _, step := range []struct {
			what string
			fn   func() error
		}{{"flush", tracer.Flush}, {"close", tracer.Close}} {
			if err := step.fn(); err != nil {
				fmt.Fprintf(cmd.ErrOrStderr(), "trace: %s error: %v\n", step.what, err)
			}
		}
	}, nil
}

// dumpTraceOnPanic is deferred by commands. On panic it prints the trace ring,
// if there is one, to stderr and panics again.
func dumpTraceOnPanic(cmd *cobra.Command) {
	r := recover()
	if r == nil {
		return
	}
	if ring := trace.RingOf(trace.FromContext(cmd.Context())); ring != nil {
		fmt.Fprintln(os.Stderr, "trace: last events before panic:")
		_ = ring.Dump(os.Stderr, trace.FormatText, 0) //nolint:errcheck
	}
	panic(r)
}
