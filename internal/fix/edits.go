package fix

import (
	"fortio.org/safecast"

	"moonwave/internal/diag"
	"moonwave/internal/source"
)

// spansConflict reports whether two edits overlap. Spans are half-open; two
// insertions never conflict, and an insertion conflicts only with a removal
// that strictly surrounds its position or starts at it.
func spansConflict(a, b diag.FixEdit) bool {
	x, y := a.Span, b.Span
	switch {
	case x.Empty() && y.Empty():
		return false
	case x.Empty():
		return y.Start <= x.Start && x.Start < y.End
	case y.Empty():
		return x.Start <= y.Start && y.Start < x.End
	}
	return x.Start < y.End && y.Start < x.End
}

// expandRemoval widens a removal so it leaves tidy text behind. A tag alone
// on its line takes the whole line with it. Otherwise the blanks after the
// tag go too, or the blanks before it when the tag ends the line.
func expandRemoval(content []byte, sp source.Span) source.Span {
	start, end := int(sp.Start), int(sp.End)
	for start > 0 && isBlank(content[start-1]) {
		start--
	}
	for end < len(content) && isBlank(content[end]) {
		end++
	}
	atLineStart := start == 0 || content[start-1] == '\n'
	atLineEnd := end == len(content) || content[end] == '\n'

	switch {
	case atLineStart && atLineEnd:
		if end < len(content) {
			end++
		}
	case !atLineEnd:
		start = int(sp.Start)
	}

	s, err := safecast.Conv[uint32](start)
	if err != nil {
		return sp
	}
	e, err := safecast.Conv[uint32](end)
	if err != nil {
		return sp
	}
	return source.Span{File: sp.File, Start: s, End: e}
}

func isBlank(b byte) bool { return b == ' ' || b == '\t' }
