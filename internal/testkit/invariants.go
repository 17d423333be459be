// Package testkit holds checks shared by the tests of several packages.
package testkit

import (
	"fmt"

	"fortio.org/safecast"

	"moonwave/internal/comment"
	"moonwave/internal/diag"
	"moonwave/internal/source"
)

// CheckSpanInvariants verifies the spans of an extraction run:
// 1) every stored comment span is non-empty and within its file
// 2) every diagnostic span is within its file
// 3) every unused-tag diagnostic lies inside a stored comment of its file
func CheckSpanInvariants(fs *source.FileSet, comments *comment.Store, ds []diag.Diagnostic) error {
	if fs == nil || comments == nil {
		return fmt.Errorf("nil file set or comment store")
	}

	stored := make([]source.Span, 0, comments.Len())
	for i := 1; i <= comments.Len(); i++ {
		id, err := safecast.Conv[comment.ID](i)
		if err != nil {
			return fmt.Errorf("comment id overflow: %w", err)
		}
		c, ok := comments.Get(id)
		if !ok {
			return fmt.Errorf("comment %d not found", id)
		}
		if c.Span.End <= c.Span.Start {
			return fmt.Errorf("comment %d has an empty span: %v", id, c.Span)
		}
		if err := inBounds(fs, c.Span); err != nil {
			return fmt.Errorf("comment %d: %w", id, err)
		}
		stored = append(stored, c.Span)
	}

	for _, d := range ds {
		if err := inBounds(fs, d.Primary); err != nil {
			return fmt.Errorf("%s %q: %w", d.Code.ID(), d.Message, err)
		}
		if d.Code != diag.DocTagUnused {
			continue
		}
		if !insideAny(stored, d.Primary) {
			return fmt.Errorf("%s at %v is outside every stored comment", d.Code.ID(), d.Primary)
		}
	}
	return nil
}

func inBounds(fs *source.FileSet, sp source.Span) error {
	f := fs.Get(sp.File)
	if f == nil {
		return fmt.Errorf("span %v points to an unknown file", sp)
	}
	size, err := safecast.Conv[uint32](len(f.Content))
	if err != nil {
		return fmt.Errorf("len content overflow: %w", err)
	}
	if sp.Start > sp.End || sp.End > size {
		return fmt.Errorf("span %v is outside %s (%d bytes)", sp, f.Path, size)
	}
	return nil
}

func insideAny(spans []source.Span, sp source.Span) bool {
	for _, c := range spans {
		if c.File == sp.File && c.Start <= sp.Start && sp.End <= c.End {
			return true
		}
	}
	return false
}
