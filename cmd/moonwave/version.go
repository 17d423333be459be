package main

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"moonwave/internal/version"
)

type versionOptions struct {
	format   string
	showHash bool
	showDate bool
	color    bool
}

type versionPayload struct {
	Tool      string `json:"tool"`
	Version   string `json:"version"`
	GitCommit string `json:"git_commit,omitempty"`
	BuildDate string `json:"build_date,omitempty"`
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Show moonwave build information",
	Args:  cobra.NoArgs,
	RunE:  runVersion,
}

func init() {
	versionCmd.Flags().Bool("hash", false, "include git commit hash")
	versionCmd.Flags().Bool("date", false, "include build timestamp")
	versionCmd.Flags().Bool("full", false, "show all build metadata")
	versionCmd.Flags().String("format", "pretty", "output format (pretty|json)")
}

func runVersion(cmd *cobra.Command, _ []string) error {
	local := &flagReader{set: cmd.Flags()}
	full := local.Bool("full")
	opts := versionOptions{
		format:   strings.ToLower(local.String("format")),
		showHash: full || local.Bool("hash"),
		showDate: full || local.Bool("date"),
	}
	global := globalFlags(cmd)
	colorMode := global.String("color")
	if err := errors.Join(local.Err(), global.Err()); err != nil {
		return err
	}
	opts.color = colorMode == "on" || (colorMode == "auto" && isTerminal(os.Stdout))

	info := version.Current()
	switch opts.format {
	case "pretty":
		renderVersionPretty(cmd.OutOrStdout(), info, opts)
		return nil
	case "json":
		return renderVersionJSON(cmd.OutOrStdout(), info, opts)
	}
	return fmt.Errorf("unsupported format %q (must be pretty or json)", opts.format)
}

func renderVersionPretty(out io.Writer, info version.Info, opts versionOptions) {
	fmt.Fprintf(out, "moonwave %s\n", version.Colored(info.Version, opts.color))
	if opts.showHash {
		fmt.Fprintln(out, "commit:", orUnknown(info.GitCommit))
	}
	if opts.showDate {
		fmt.Fprintln(out, "built: ", orUnknown(info.BuildDate))
	}
}

func renderVersionJSON(out io.Writer, info version.Info, opts versionOptions) error {
	payload := versionPayload{Tool: "moonwave", Version: info.Version}
	if opts.showHash {
		payload.GitCommit = orUnknown(info.GitCommit)
	}
	if opts.showDate {
		payload.BuildDate = orUnknown(info.BuildDate)
	}
	enc := json.NewEncoder(out)
	enc.SetIndent("", "  ")
	return enc.Encode(payload)
}

func orUnknown(s string) string {
	if s == "" {
		return "unknown"
	}
	return s
}
