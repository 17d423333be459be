package config

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

func writeConfig(t *testing.T, dir, body string) string {
	t.Helper()
	path := filepath.Join(dir, FileName)
	if err := os.WriteFile(path, []byte(body), 0o600); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestDefaultIsValid(t *testing.T) {
	if err := Default().Validate(); err != nil {
		t.Fatalf("default config invalid: %v", err)
	}
}

func TestLoadOverlaysDefaults(t *testing.T) {
	dir := t.TempDir()
	path := writeConfig(t, dir, `
[extract]
jobs = 4
format = "yaml"

[diagnostics]
color = "off"

[server]
shutdown_timeout = "2s"
`)
	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Extract.Jobs != 4 || cfg.Extract.Format != "yaml" {
		t.Errorf("extract = %+v", cfg.Extract)
	}
	if cfg.Extract.MaxDiagnostics != 1000 || cfg.Extract.Output != "-" {
		t.Errorf("defaults lost: %+v", cfg.Extract)
	}
	if cfg.Diagnostics.Color != "off" || cfg.Diagnostics.Format != "pretty" {
		t.Errorf("diagnostics = %+v", cfg.Diagnostics)
	}
	if d, err := cfg.ShutdownTimeout(); err != nil || d != 2*time.Second {
		t.Errorf("shutdown timeout = %v, %v", d, err)
	}
	if cfg.Path != path || cfg.Root() != dir {
		t.Errorf("path %q root %q", cfg.Path, cfg.Root())
	}
}

func TestLoadRejects(t *testing.T) {
	tests := []struct {
		name string
		body string
		want string
	}{
		{"syntax", "[extract\n", "failed to parse TOML"},
		{"unknown key", "[extract]\nthreads = 2\n", "unknown keys: extract.threads"},
		{"bad format", "[extract]\nformat = \"xml\"\n", "[extract].format"},
		{"negative jobs", "[extract]\njobs = -1\n", "[extract].jobs"},
		{"bad color", "[diagnostics]\ncolor = \"always\"\n", "[diagnostics].color"},
		{"empty addr", "[server]\naddr = \"\"\n", "[server].addr"},
		{"bad timeout", "[server]\nshutdown_timeout = \"soon\"\n", "[server].shutdown_timeout"},
		{"negative rate", "[server]\nrate_limit = -1.0\n", "[server].rate_limit"},
		{"zero burst", "[server]\nrate_limit = 5.0\nrate_burst = 0\n", "[server].rate_burst"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := writeConfig(t, t.TempDir(), tt.body)
			_, err := Load(path)
			if err == nil || !strings.Contains(err.Error(), tt.want) {
				t.Fatalf("err = %v, want it to mention %q", err, tt.want)
			}
		})
	}
}

func TestFindWalksUp(t *testing.T) {
	root := t.TempDir()
	path := writeConfig(t, root, "")
	nested := filepath.Join(root, "src", "deep")
	if err := os.MkdirAll(nested, 0o755); err != nil {
		t.Fatal(err)
	}
	got, ok, err := Find(nested)
	if err != nil || !ok || got != path {
		t.Fatalf("Find = %q, %v, %v; want %q", got, ok, err, path)
	}

	cfg, err := Discover(nested)
	if err != nil || cfg.Path != path {
		t.Fatalf("Discover = %+v, %v", cfg, err)
	}
}

func TestDiscoverWithoutFile(t *testing.T) {
	dir := t.TempDir()
	if _, ok, _ := Find(dir); ok {
		t.Skip("a moonwave.toml exists above the temp dir")
	}
	cfg, err := Discover(dir)
	if err != nil {
		t.Fatalf("Discover: %v", err)
	}
	if cfg.Path != "" || cfg.Extract.MaxDiagnostics != Default().Extract.MaxDiagnostics {
		t.Fatalf("cfg = %+v", cfg)
	}
}

func TestEncodeLoadsBack(t *testing.T) {
	cfg := Default()
	cfg.Extract.Format = "yaml"
	cfg.Server.Addr = "0.0.0.0:9000"

	var buf bytes.Buffer
	if err := Encode(&buf, cfg); err != nil {
		t.Fatalf("Encode: %v", err)
	}
	if !strings.Contains(buf.String(), "[extract]") || strings.Contains(buf.String(), "Path") {
		t.Fatalf("unexpected document:\n%s", buf.String())
	}

	path := writeConfig(t, t.TempDir(), buf.String())
	got, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if got.Extract.Format != "yaml" || got.Server.Addr != "0.0.0.0:9000" || got.Diagnostics.Notes != true {
		t.Fatalf("loaded %+v", got)
	}
}
