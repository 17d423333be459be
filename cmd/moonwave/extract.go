package main

import (
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"moonwave/internal/diagfmt"
	"moonwave/internal/driver"
	"moonwave/internal/emit"
	"moonwave/internal/observ"
	"moonwave/internal/trace"
)

var extractCmd = &cobra.Command{
	Use:   "extract [flags] <stream files...>",
	Short: "Build doc entries from tag stream documents",
	Long: `Decode every tag stream document, build its doc entries and write them to
stdout or --output. Diagnostics go to stderr; the exit status is 1 when any
error was reported.`,
	Args: cobra.MinimumNArgs(1),
	RunE: runExtract,
}

var checkCmd = &cobra.Command{
	Use:   "check [flags] <stream files...>",
	Short: "Report diagnostics for tag stream documents without writing entries",
	Args:  cobra.MinimumNArgs(1),
	RunE:  runCheck,
}

func init() {
	extractCmd.Flags().StringP("output", "o", "-", "write entries to this file (- for stdout)")
	extractCmd.Flags().String("format", "json", "entry output format (json|yaml|msgpack)")
	for _, c := range []*cobra.Command{extractCmd, checkCmd} {
		c.Flags().Int("jobs", 0, "max parallel workers (0=auto)")
		c.Flags().String("diagnostics-format", "pretty", "diagnostics format (pretty|json|short|sarif)")
		c.Flags().String("path-mode", "auto", "file paths in diagnostics (auto|absolute|relative|basename)")
	}
}

func runExtract(cmd *cobra.Command, args []string) error {
	defer dumpTraceOnPanic(cmd)

	cleanup, err := setupTracing(cmd)
	if err != nil {
		return err
	}
	defer cleanup()
	stopProfiling, err := setupProfiling(cmd)
	if err != nil {
		return err
	}
	defer stopProfiling()
	timer, err := newTimer(cmd)
	if err != nil {
		return err
	}
	defer printTimings(cmd, timer)

	s, err := loadSettings(cmd)
	if err != nil {
		return err
	}
	format, err := emit.ParseFormat(s.cfg.Extract.Format)
	if err != nil {
		return err
	}

	res, err := extractFiles(cmd, s, args, timer)
	if err != nil {
		return err
	}
	if err := printDiagnostics(cmd, s, res); err != nil {
		return err
	}

	phase := timer.Begin("emit")
	span := trace.Begin(trace.FromContext(cmd.Context()), trace.ScopePass, "emit", 0)
	err = writeEntries(cmd.OutOrStdout(), s.cfg.Extract.Output, format, res)
	span.WithExtra("entries", fmt.Sprint(len(res.Entries))).End(string(format))
	timer.End(phase, string(format))
	if err != nil {
		return err
	}
	return exitStatus(cmd, res)
}

func runCheck(cmd *cobra.Command, args []string) error {
	defer dumpTraceOnPanic(cmd)

	cleanup, err := setupTracing(cmd)
	if err != nil {
		return err
	}
	defer cleanup()
	stopProfiling, err := setupProfiling(cmd)
	if err != nil {
		return err
	}
	defer stopProfiling()
	timer, err := newTimer(cmd)
	if err != nil {
		return err
	}
	defer printTimings(cmd, timer)

	s, err := loadSettings(cmd)
	if err != nil {
		return err
	}
	res, err := extractFiles(cmd, s, args, timer)
	if err != nil {
		return err
	}
	if err := printDiagnostics(cmd, s, res); err != nil {
		return err
	}
	if !s.quiet && !res.Failed() {
		fmt.Fprintf(cmd.ErrOrStderr(), "%d entries, %s\n", len(res.Entries), diagfmt.Summary(res.Bag))
	}
	return exitStatus(cmd, res)
}

func extractFiles(cmd *cobra.Command, s settings, paths []string, timer *observ.Timer) (*driver.Result, error) {
	phase := timer.Begin("extract")
	res, err := driver.ExtractFiles(cmd.Context(), paths, driver.Options{
		Jobs:           s.cfg.Extract.Jobs,
		MaxDiagnostics: s.cfg.Extract.MaxDiagnostics,
		BaseDir:        s.cfg.Root(),
		Timer:          timer,
	})
	timer.End(phase, fmt.Sprintf("%d documents", len(paths)))
	if err != nil {
		return nil, fmt.Errorf("extraction failed: %w", err)
	}
	return res, nil
}

// printDiagnostics writes the diagnostics of res to stderr. In quiet mode
// only errors are printed.
func printDiagnostics(cmd *cobra.Command, s settings, res *driver.Result) error {
	if res.Bag.Len() == 0 || (s.quiet && !res.Bag.HasErrors()) {
		return nil
	}
	format, opts, err := s.diagOptions(os.Stderr)
	if err != nil {
		return err
	}
	if err := diagfmt.Write(cmd.ErrOrStderr(), format, res.Bag, res.Files, opts); err != nil {
		return fmt.Errorf("failed to format diagnostics: %w", err)
	}
	if format == diagfmt.FormatPretty && !s.quiet {
		fmt.Fprintln(cmd.ErrOrStderr(), diagfmt.Summary(res.Bag))
	}
	return nil
}

func writeEntries(stdout io.Writer, output string, format emit.Format, res *driver.Result) (err error) {
	if output == "" || output == "-" {
		return emit.Write(stdout, format, res.Entries)
	}
	f, err := os.Create(output)
	if err != nil {
		return fmt.Errorf("failed to create output: %w", err)
	}
	defer func() {
		if cerr := f.Close(); cerr != nil && err == nil {
			err = cerr
		}
	}()
	if err := emit.Write(f, format, res.Entries); err != nil {
		return fmt.Errorf("%s: %w", output, err)
	}
	return nil
}

// exitStatus turns error diagnostics into a silent command failure.
func exitStatus(cmd *cobra.Command, res *driver.Result) error {
	if !res.Failed() {
		return nil
	}
	cmd.SilenceUsage = true
	cmd.SilenceErrors = true
	return errDiagnostics
}
