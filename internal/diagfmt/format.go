package diagfmt

import (
	"fmt"
	"io"
	"strings"

	"moonwave/internal/diag"
	"moonwave/internal/source"
)

// Format selects how diagnostics are printed.
type Format string

const (
	FormatPretty Format = "pretty"
	FormatJSON   Format = "json"
	FormatShort  Format = "short"
	FormatSARIF  Format = "sarif"
)

// ParseFormat resolves a diagnostics format name.
func ParseFormat(s string) (Format, error) {
	switch f := Format(strings.ToLower(strings.TrimSpace(s))); f {
	case "":
		return FormatPretty, nil
	case FormatPretty, FormatJSON, FormatShort, FormatSARIF:
		return f, nil
	}
	return "", fmt.Errorf("invalid diagnostics format %q (expected pretty|json|short|sarif)", s)
}

// PrettyOpts configures Pretty.
type PrettyOpts struct {
	Color       bool
	Context     int8 // source lines shown around the primary line
	PathMode    PathMode
	ShowNotes   bool
	ShowFixes   bool
	ShowPreview bool
}

// JSONOpts configures JSON and BuildDiagnosticsOutput. Max truncates the
// output, never the Bag.
type JSONOpts struct {
	IncludePositions bool
	PathMode         PathMode
	Max              int
	IncludeNotes     bool
	IncludeFixes     bool
	IncludePreviews  bool
}

// Options bundles the settings of every format.
type Options struct {
	Pretty PrettyOpts
	JSON   JSONOpts
	Sarif  SarifRunMeta
}

// Write prints bag in format.
func Write(w io.Writer, format Format, bag *diag.Bag, fs *source.FileSet, opts Options) error {
	switch format {
	case FormatPretty, "":
		Pretty(w, bag, fs, opts.Pretty)
		return nil
	case FormatJSON:
		return JSON(w, bag, fs, opts.JSON)
	case FormatShort:
		return Short(w, bag, fs, opts.Pretty.PathMode)
	case FormatSARIF:
		return Sarif(w, bag, fs, opts.Sarif)
	}
	return fmt.Errorf("invalid diagnostics format %q", format)
}
