package diagfmt

import (
	"fmt"
	"io"

	"moonwave/internal/diag"
	"moonwave/internal/source"
)

// Short writes one line per diagnostic, in bag order:
//
//	src/Signal.lua:3:2: ERROR DOC1001: This tag is unused by function doc entries.
func Short(w io.Writer, bag *diag.Bag, fs *source.FileSet, mode PathMode) error {
	for _, d := range bag.Items() {
		if _, err := fmt.Fprintf(w, "%s: %s %s: %s\n", location(fs, d.Primary, mode), d.Severity, d.Code.ID(), d.Message); err != nil {
			return err
		}
	}
	return nil
}

// Summary returns "N errors, M warnings" for the bag.
func Summary(bag *diag.Bag) string {
	var errs, warns int
	for _, d := range bag.Items() {
		switch d.Severity {
		case diag.SevError:
			errs++
		case diag.SevWarning:
			warns++
		}
	}
	return fmt.Sprintf("%d %s, %d %s", errs, plural(errs, "error"), warns, plural(warns, "warning"))
}

func plural(n int, word string) string {
	if n == 1 {
		return word
	}
	return word + "s"
}
