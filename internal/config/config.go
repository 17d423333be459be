// Package config loads moonwave.toml, the per-project settings file.
package config

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/BurntSushi/toml"

	"moonwave/internal/diagfmt"
	"moonwave/internal/emit"
)

// FileName is the name of the project settings file.
const FileName = "moonwave.toml"

// Config is the merged project configuration. Zero values are never seen by
// callers: Load starts from Default and overlays the file.
type Config struct {
	Extract     ExtractConfig     `toml:"extract"`
	Diagnostics DiagnosticsConfig `toml:"diagnostics"`
	Server      ServerConfig      `toml:"server"`

	// Path is the file the configuration was read from, "" for defaults.
	Path string `toml:"-"`
}

type ExtractConfig struct {
	Jobs           int    `toml:"jobs"`
	MaxDiagnostics int    `toml:"max_diagnostics"`
	Format         string `toml:"format"`
	Output         string `toml:"output"`
}

type DiagnosticsConfig struct {
	Format   string `toml:"format"`
	Color    string `toml:"color"`
	PathMode string `toml:"path_mode"`
	Notes    bool   `toml:"notes"`
	Fixes    bool   `toml:"fixes"`
}

type ServerConfig struct {
	Addr            string `toml:"addr"`
	MaxBodyBytes    int64  `toml:"max_body_bytes"`
	ShutdownTimeout string `toml:"shutdown_timeout"`
	// RateLimit is the number of extraction requests per second the
	// service accepts; 0 disables limiting.
	RateLimit float64 `toml:"rate_limit"`
	RateBurst int     `toml:"rate_burst"`
}

// Default returns the built-in configuration.
func Default() Config {
	return Config{
		Extract: ExtractConfig{
			MaxDiagnostics: 1000,
			Format:         string(emit.FormatJSON),
			Output:         "-",
		},
		Diagnostics: DiagnosticsConfig{
			Format:   string(diagfmt.FormatPretty),
			Color:    "auto",
			PathMode: "auto",
			Notes:    true,
			Fixes:    true,
		},
		Server: ServerConfig{
			Addr:            "127.0.0.1:7878",
			MaxBodyBytes:    4 << 20,
			ShutdownTimeout: "10s",
			RateBurst:       1,
		},
	}
}

// Find walks up from startDir looking for moonwave.toml.
func Find(startDir string) (string, bool, error) {
	if startDir == "" {
		startDir = "."
	}
	dir, err := filepath.Abs(startDir)
	if err != nil {
		return "", false, fmt.Errorf("failed to resolve start directory: %w", err)
	}
	for {
		candidate := filepath.Join(dir, FileName)
		if _, err := os.Stat(candidate); err == nil {
			return candidate, true, nil
		} else if !errors.Is(err, os.ErrNotExist) {
			return "", false, fmt.Errorf("failed to stat %q: %w", candidate, err)
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			break
		}
		dir = parent
	}
	return "", false, nil
}

// Discover loads the nearest moonwave.toml above startDir, or the defaults
// when there is none.
func Discover(startDir string) (Config, error) {
	path, ok, err := Find(startDir)
	if err != nil {
		return Config{}, err
	}
	if !ok {
		return Default(), nil
	}
	return Load(path)
}

// Load reads path over the defaults and validates the result.
func Load(path string) (Config, error) {
	cfg := Default()
	meta, err := toml.DecodeFile(path, &cfg)
	if err != nil {
		return Config{}, fmt.Errorf("%s: failed to parse TOML: %w", path, err)
	}
	if undecoded := meta.Undecoded(); len(undecoded) > 0 {
		keys := make([]string, len(undecoded))
		for i, k := range undecoded {
			keys[i] = k.String()
		}
		return Config{}, fmt.Errorf("%s: unknown keys: %s", path, strings.Join(keys, ", "))
	}
	if meta.IsDefined("extract", "output") && strings.TrimSpace(cfg.Extract.Output) == "" {
		return Config{}, fmt.Errorf("%s: [extract].output must not be empty", path)
	}
	if meta.IsDefined("server", "addr") && strings.TrimSpace(cfg.Server.Addr) == "" {
		return Config{}, fmt.Errorf("%s: [server].addr must not be empty", path)
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, fmt.Errorf("%s: %w", path, err)
	}
	cfg.Path = path
	return cfg, nil
}

// Validate checks every setting, including ones overridden by flags.
func (c Config) Validate() error {
	if c.Extract.Jobs < 0 {
		return fmt.Errorf("[extract].jobs must be >= 0, got %d", c.Extract.Jobs)
	}
	if c.Extract.MaxDiagnostics < 1 {
		return fmt.Errorf("[extract].max_diagnostics must be >= 1, got %d", c.Extract.MaxDiagnostics)
	}
	if _, err := emit.ParseFormat(c.Extract.Format); err != nil {
		return fmt.Errorf("[extract].format: %w", err)
	}
	if _, err := diagfmt.ParseFormat(c.Diagnostics.Format); err != nil {
		return fmt.Errorf("[diagnostics].format: %w", err)
	}
	if _, err := diagfmt.ParsePathMode(c.Diagnostics.PathMode); err != nil {
		return fmt.Errorf("[diagnostics].path_mode: %w", err)
	}
	switch c.Diagnostics.Color {
	case "auto", "on", "off":
	default:
		return fmt.Errorf("[diagnostics].color must be auto|on|off, got %q", c.Diagnostics.Color)
	}
	if c.Server.MaxBodyBytes <= 0 {
		return fmt.Errorf("[server].max_body_bytes must be > 0, got %d", c.Server.MaxBodyBytes)
	}
	if c.Server.RateLimit < 0 {
		return fmt.Errorf("[server].rate_limit must be >= 0, got %g", c.Server.RateLimit)
	}
	if c.Server.RateBurst < 1 {
		return fmt.Errorf("[server].rate_burst must be >= 1, got %d", c.Server.RateBurst)
	}
	if _, err := c.ShutdownTimeout(); err != nil {
		return fmt.Errorf("[server].shutdown_timeout: %w", err)
	}
	return nil
}

// ShutdownTimeout parses Server.ShutdownTimeout.
func (c Config) ShutdownTimeout() (time.Duration, error) {
	d, err := time.ParseDuration(c.Server.ShutdownTimeout)
	if err != nil {
		return 0, err
	}
	if d < 0 {
		return 0, fmt.Errorf("negative duration %s", d)
	}
	return d, nil
}

// Root returns the project directory: the directory holding the settings
// file, or the working directory when running on defaults.
func (c Config) Root() string {
	if c.Path != "" {
		return filepath.Dir(c.Path)
	}
	if wd, err := os.Getwd(); err == nil {
		return wd
	}
	return "."
}

// Encode writes cfg as a moonwave.toml document.
func Encode(w io.Writer, cfg Config) error {
	if _, err := io.WriteString(w, "# moonwave settings; command-line flags override these values\n\n"); err != nil {
		return err
	}
	enc := toml.NewEncoder(w)
	enc.Indent = ""
	return enc.Encode(cfg)
}
