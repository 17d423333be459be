package main

import (
	"bytes"
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/spf13/cobra"

	"moonwave/internal/version"
)

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatal(err)
	}
}

// runSettings executes a throwaway command with args and returns the
// settings it resolved.
func runSettings(t *testing.T, args ...string) (settings, error) {
	t.Helper()
	root := &cobra.Command{Use: "moonwave", SilenceUsage: true, SilenceErrors: true}
	registerGlobalFlags(root)
	var got settings
	sub := &cobra.Command{
		Use: "probe",
		RunE: func(cmd *cobra.Command, _ []string) error {
			s, err := loadSettings(cmd)
			got = s
			return err
		},
	}
	sub.Flags().String("format", "json", "")
	sub.Flags().Int("jobs", 0, "")
	root.AddCommand(sub)
	root.SetArgs(append([]string{"probe"}, args...))
	err := root.Execute()
	return got, err
}

func TestLoadSettingsFlagsOverrideFile(t *testing.T) {
	dir := t.TempDir()
	cfgPath := filepath.Join(dir, "moonwave.toml")
	writeFile(t, cfgPath, `
[extract]
format = "yaml"
jobs = 3

[diagnostics]
color = "on"
`)

	s, err := runSettings(t, "--config", cfgPath)
	if err != nil {
		t.Fatalf("loadSettings: %v", err)
	}
	if s.cfg.Extract.Format != "yaml" || s.cfg.Extract.Jobs != 3 || s.cfg.Diagnostics.Color != "on" {
		t.Fatalf("file values not applied: %+v", s.cfg)
	}
	if s.cfg.Extract.MaxDiagnostics != 1000 {
		t.Fatalf("default max diagnostics lost: %d", s.cfg.Extract.MaxDiagnostics)
	}

	s, err = runSettings(t, "--config", cfgPath, "--format", "msgpack", "--jobs", "1", "--color", "OFF", "--max-diagnostics", "5", "--quiet")
	if err != nil {
		t.Fatalf("loadSettings: %v", err)
	}
	if s.cfg.Extract.Format != "msgpack" || s.cfg.Extract.Jobs != 1 {
		t.Errorf("flags did not override file: %+v", s.cfg.Extract)
	}
	if s.cfg.Diagnostics.Color != "off" || s.colorEnabled(os.Stderr) {
		t.Errorf("color = %q", s.cfg.Diagnostics.Color)
	}
	if s.cfg.Extract.MaxDiagnostics != 5 || !s.quiet {
		t.Errorf("global flags not applied: max=%d quiet=%v", s.cfg.Extract.MaxDiagnostics, s.quiet)
	}
}

func TestLoadSettingsRejectsInvalidValues(t *testing.T) {
	dir := t.TempDir()
	cfgPath := filepath.Join(dir, "moonwave.toml")
	writeFile(t, cfgPath, "")

	if _, err := runSettings(t, "--config", cfgPath, "--format", "xml"); err == nil {
		t.Error("want error for unknown entry format")
	}
	if _, err := runSettings(t, "--config", cfgPath, "--color", "sometimes"); err == nil {
		t.Error("want error for unknown color mode")
	}
	if _, err := runSettings(t, "--config", filepath.Join(dir, "missing.toml")); err == nil {
		t.Error("want error for missing config file")
	}
}

func TestExtractCommand(t *testing.T) {
	dir := t.TempDir()
	cfgPath := filepath.Join(dir, "moonwave.toml")
	writeFile(t, cfgPath, "")
	docPath := filepath.Join(dir, "Signal.json")
	writeFile(t, docPath, `{
  "source": "src/Signal.lua",
  "content": "0123456789abcdefghijklmnopqrstuvwxyz",
  "comments": [
    {"start": 0, "end": 4, "entry": {"kind": "class", "name": "Signal"}, "tags": []},
    {"start": 12, "end": 30, "entry": {"kind": "function", "name": "new", "within": "Signal"},
     "tags": [{"tag": "readonly", "start": 20, "end": 28}]}
  ]
}`)
	outPath := filepath.Join(dir, "entries.json")

	root := &cobra.Command{Use: "moonwave"}
	registerGlobalFlags(root)
	root.AddCommand(extractCmd)
	var stdout, stderr bytes.Buffer
	root.SetOut(&stdout)
	root.SetErr(&stderr)
	root.SetArgs([]string{"extract", "--config", cfgPath, "--color", "off",
		"--diagnostics-format", "short", "--output", outPath, docPath})

	err := root.Execute()
	if !errors.Is(err, errDiagnostics) {
		t.Fatalf("want errDiagnostics, got %v", err)
	}
	if !strings.Contains(stderr.String(), ":1:21: ERROR DOC1001: This tag is unused by function doc entries.") {
		t.Errorf("stderr = %q", stderr.String())
	}
	if stdout.Len() != 0 {
		t.Errorf("entries leaked to stdout: %q", stdout.String())
	}

	data, err := os.ReadFile(outPath)
	if err != nil {
		t.Fatal(err)
	}
	var records []map[string]any
	if err := json.Unmarshal(data, &records); err != nil {
		t.Fatalf("output is not JSON: %v\n%s", err, data)
	}
	if len(records) != 1 || records[0]["kind"] != "class" {
		t.Fatalf("records = %v", records)
	}
}

func TestRenderVersion(t *testing.T) {
	info := version.Info{Version: "1.2.3", GitCommit: "abc123"}

	var pretty bytes.Buffer
	renderVersionPretty(&pretty, info, versionOptions{showHash: true, showDate: true})
	want := "moonwave 1.2.3\ncommit: abc123\nbuilt:  unknown\n"
	if pretty.String() != want {
		t.Fatalf("pretty = %q, want %q", pretty.String(), want)
	}

	var out bytes.Buffer
	if err := renderVersionJSON(&out, info, versionOptions{showHash: true}); err != nil {
		t.Fatal(err)
	}
	var payload versionPayload
	if err := json.Unmarshal(out.Bytes(), &payload); err != nil {
		t.Fatal(err)
	}
	if payload.Tool != "moonwave" || payload.Version != "1.2.3" || payload.GitCommit != "abc123" || payload.BuildDate != "" {
		t.Fatalf("payload = %+v", payload)
	}
}

func TestInitCommand(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "game")
	root := &cobra.Command{Use: "moonwave", SilenceUsage: true, SilenceErrors: true}
	registerGlobalFlags(root)
	root.AddCommand(initCmd)
	var out bytes.Buffer
	root.SetOut(&out)

	root.SetArgs([]string{"init", dir})
	if err := root.Execute(); err != nil {
		t.Fatalf("init: %v", err)
	}
	path := filepath.Join(dir, "moonwave.toml")
	if !strings.Contains(out.String(), path) {
		t.Errorf("output = %q", out.String())
	}

	s, err := runSettings(t, "--config", path)
	if err != nil {
		t.Fatalf("generated config does not load: %v", err)
	}
	if s.cfg.Server.Addr != "127.0.0.1:7878" {
		t.Errorf("addr = %q", s.cfg.Server.Addr)
	}

	root.SetArgs([]string{"init", dir})
	if err := root.Execute(); err == nil || !strings.Contains(err.Error(), "already initialized") {
		t.Fatalf("second init: err = %v", err)
	}
}
