package version

import (
	"strings"
	"testing"
)

func TestCurrentUsesOverrides(t *testing.T) {
	origVersion, origCommit, origDate := Version, GitCommit, BuildDate
	t.Cleanup(func() {
		Version, GitCommit, BuildDate = origVersion, origCommit, origDate
	})

	Version = " 1.2.3 "
	GitCommit = "abc123def456"
	BuildDate = "2024-01-15T10:30:00Z"

	info := Current()
	if info.Version != "1.2.3" {
		t.Errorf("Version = %q, want %q", info.Version, "1.2.3")
	}
	if info.GitCommit != "abc123def456" {
		t.Errorf("GitCommit = %q", info.GitCommit)
	}
	if info.BuildDate != "2024-01-15T10:30:00Z" {
		t.Errorf("BuildDate = %q", info.BuildDate)
	}
}

func TestCurrentEmptyVersion(t *testing.T) {
	orig := Version
	t.Cleanup(func() { Version = orig })
	Version = ""
	if got := Current().Version; got != "dev" {
		t.Fatalf("Version = %q, want dev", got)
	}
}

func TestColored(t *testing.T) {
	tests := []struct {
		in      string
		enabled bool
		want    string
	}{
		{"0.1.0-dev", false, "0.1.0-dev"},
		{"dev", true, "dev"},
		{"1.2", true, "1.2"},
	}
	for _, tt := range tests {
		if got := Colored(tt.in, tt.enabled); got != tt.want {
			t.Errorf("Colored(%q, %v) = %q, want %q", tt.in, tt.enabled, got, tt.want)
		}
	}

	got := Colored("1.2.3+build", true)
	if !strings.Contains(got, "\x1b[") || !strings.HasSuffix(got, "+build") {
		t.Fatalf("Colored = %q", got)
	}
}
