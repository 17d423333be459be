package main

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"moonwave/internal/config"
	"moonwave/internal/diagfmt"
	"moonwave/internal/version"
)

// settings is the configuration of one command run: moonwave.toml with
// command-line flags applied over it.
type settings struct {
	cfg   config.Config
	quiet bool
}

// loadSettings reads the configuration file named by --config, or the
// nearest moonwave.toml, and overrides it with every flag the user set.
func loadSettings(cmd *cobra.Command) (settings, error) {
	root := cmd.Root().PersistentFlags()

	path, err := root.GetString("config")
	if err != nil {
		return settings{}, fmt.Errorf("failed to get config flag: %w", err)
	}
	var cfg config.Config
	if path != "" {
		cfg, err = config.Load(path)
	} else {
		cfg, err = config.Discover(".")
	}
	if err != nil {
		return settings{}, err
	}

	if root.Changed("color") {
		if cfg.Diagnostics.Color, err = root.GetString("color"); err != nil {
			return settings{}, err
		}
	}
	if root.Changed("max-diagnostics") {
		if cfg.Extract.MaxDiagnostics, err = root.GetInt("max-diagnostics"); err != nil {
			return settings{}, err
		}
	}
	quiet, err := root.GetBool("quiet")
	if err != nil {
		return settings{}, fmt.Errorf("failed to get quiet flag: %w", err)
	}

	local := cmd.Flags()
	for flag, dst := range map[string]*string{
		"format":             &cfg.Extract.Format,
		"output":             &cfg.Extract.Output,
		"diagnostics-format": &cfg.Diagnostics.Format,
		"path-mode":          &cfg.Diagnostics.PathMode,
		"addr":               &cfg.Server.Addr,
	} {
		if local.Lookup(flag) == nil || !local.Changed(flag) {
			continue
		}
		if *dst, err = local.GetString(flag); err != nil {
			return settings{}, err
		}
	}
	if local.Lookup("jobs") != nil && local.Changed("jobs") {
		if cfg.Extract.Jobs, err = local.GetInt("jobs"); err != nil {
			return settings{}, err
		}
	}

	cfg.Diagnostics.Color = strings.ToLower(cfg.Diagnostics.Color)
	if err := cfg.Validate(); err != nil {
		return settings{}, err
	}
	return settings{cfg: cfg, quiet: quiet}, nil
}

// colorEnabled resolves the color mode for output written to f.
func (s settings) colorEnabled(f *os.File) bool {
	switch s.cfg.Diagnostics.Color {
	case "on":
		return true
	case "off":
		return false
	}
	return os.Getenv("NO_COLOR") == "" && isTerminal(f)
}

// diagOptions builds the diagnostic formatter options for output to f.
func (s settings) diagOptions(f *os.File) (diagfmt.Format, diagfmt.Options, error) {
	format, err := diagfmt.ParseFormat(s.cfg.Diagnostics.Format)
	if err != nil {
		return "", diagfmt.Options{}, err
	}
	pathMode, err := diagfmt.ParsePathMode(s.cfg.Diagnostics.PathMode)
	if err != nil {
		return "", diagfmt.Options{}, err
	}
	return format, diagfmt.Options{
		Pretty: diagfmt.PrettyOpts{
			Color:       s.colorEnabled(f),
			Context:     2,
			PathMode:    pathMode,
			ShowNotes:   s.cfg.Diagnostics.Notes,
			ShowFixes:   s.cfg.Diagnostics.Fixes,
			ShowPreview: s.cfg.Diagnostics.Fixes,
		},
		JSON: diagfmt.JSONOpts{
			IncludePositions: true,
			PathMode:         pathMode,
			IncludeNotes:     s.cfg.Diagnostics.Notes,
			IncludeFixes:     s.cfg.Diagnostics.Fixes,
			IncludePreviews:  s.cfg.Diagnostics.Fixes,
		},
		Sarif: diagfmt.SarifRunMeta{
			ToolName:    "moonwave",
			ToolVersion: version.Current().Version,
		},
	}, nil
}
