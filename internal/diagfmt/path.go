package diagfmt

import (
	"fmt"
	"strings"

	"moonwave/internal/source"
)

// PathMode chooses how file paths are printed.
type PathMode uint8

const (
	// PathModeAuto prints paths as stored, shortening long absolute ones to
	// their basename.
	PathModeAuto PathMode = iota
	PathModeAbsolute
	PathModeRelative
	PathModeBasename
)

// pathModes maps every accepted spelling to its mode and to the mode name
// source.File.FormatPath understands.
var pathModes = []struct {
	names []string
	mode  PathMode
	file  string
}{
	{[]string{"", "auto"}, PathModeAuto, "auto"},
	{[]string{"absolute", "abs"}, PathModeAbsolute, "absolute"},
	{[]string{"relative", "rel"}, PathModeRelative, "relative"},
	{[]string{"basename", "base"}, PathModeBasename, "basename"},
}

func ParsePathMode(s string) (PathMode, error) {
	name := strings.ToLower(s)
	for _, pm := range pathModes {
		for _, n := range pm.names {
			if n == name {
				return pm.mode, nil
			}
		}
	}
	return PathModeAuto, fmt.Errorf("invalid path mode %q (expected auto|absolute|relative|basename)", s)
}

const unknownPath = "<unknown>"

func formatPath(f *source.File, fs *source.FileSet, mode PathMode) string {
	if f == nil {
		return unknownPath
	}
	for _, pm := range pathModes {
		if pm.mode != mode {
			continue
		}
		base := ""
		if mode == PathModeRelative {
			base = fs.BaseDir()
		}
		return f.FormatPath(pm.file, base)
	}
	return f.Path
}

// location renders "path:line:col" for the start of sp.
func location(fs *source.FileSet, sp source.Span, mode PathMode) string {
	f := fs.Get(sp.File)
	if f == nil {
		return unknownPath
	}
	start, _ := fs.Resolve(sp)
	return fmt.Sprintf("%s:%d:%d", formatPath(f, fs, mode), start.Line, start.Col)
}
