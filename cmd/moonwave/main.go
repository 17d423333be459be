package main

import (
	"errors"
	"os"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"moonwave/internal/version"
)

var rootCmd = &cobra.Command{
	Use:   "moonwave",
	Short: "Build documentation entries from Luau doc comments",
	Long: `moonwave turns parsed doc-comment tag streams into typed documentation
entries and reports tags that do not belong to the entry they annotate`,
}

// errDiagnostics signals that error diagnostics were printed. The process
// exits with status 1 without printing anything more.
var errDiagnostics = errors.New("error diagnostics reported")

func main() {
	rootCmd.Version = version.Version

	rootCmd.AddCommand(extractCmd)
	rootCmd.AddCommand(checkCmd)
	rootCmd.AddCommand(fixCmd)
	rootCmd.AddCommand(initCmd)
	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(versionCmd)

	registerGlobalFlags(rootCmd)

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

// registerGlobalFlags adds the flags shared by every subcommand.
func registerGlobalFlags(cmd *cobra.Command) {
	cmd.PersistentFlags().String("color", "auto", "colorize output (auto|on|off)")
	cmd.PersistentFlags().Bool("quiet", false, "suppress non-essential output")
	cmd.PersistentFlags().Int("max-diagnostics", 1000, "maximum number of diagnostics to collect")
	cmd.PersistentFlags().Bool("timings", false, "show timing information")
	cmd.PersistentFlags().String("config", "", "path to moonwave.toml (default: nearest one above the working directory)")

	cmd.PersistentFlags().String("trace", "", "trace output file (- for stderr)")
	cmd.PersistentFlags().String("trace-level", "off", "trace level (off|error|phase|detail|debug)")
	cmd.PersistentFlags().String("trace-mode", "stream", "trace storage (stream|ring|both)")
	cmd.PersistentFlags().String("trace-format", "auto", "trace format (auto|text|ndjson)")
	cmd.PersistentFlags().Int("trace-ring-size", 4096, "ring buffer capacity for ring mode")
	cmd.PersistentFlags().Duration("trace-heartbeat", 0, "heartbeat interval (0 disables)")

	cmd.PersistentFlags().String("cpu-profile", "", "write a CPU profile to this file")
	cmd.PersistentFlags().String("mem-profile", "", "write a heap profile to this file on exit")
	cmd.PersistentFlags().String("runtime-trace", "", "write a Go runtime trace to this file")
}

// isTerminal reports whether f is attached to a terminal.
func isTerminal(f *os.File) bool {
	return term.IsTerminal(int(f.Fd()))
}
