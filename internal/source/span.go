package source

import "fmt"

// Span is the half-open byte range [Start, End) of one file. Tags, comments
// and diagnostics carry spans so output can point at the text behind them.
type Span struct {
	File  FileID
	Start uint32
	End   uint32
}

func (s Span) Empty() bool { return s.Start == s.End }

// Len is zero for malformed spans whose End precedes Start.
func (s Span) Len() uint32 {
	return max(s.End, s.Start) - s.Start
}

func (s Span) String() string {
	return fmt.Sprintf("%d:%d-%d", s.File, s.Start, s.End)
}

// Contains reports whether inner lies entirely within s.
func (s Span) Contains(inner Span) bool {
	return s.File == inner.File && s.Start <= inner.Start && inner.End <= s.End
}

// Cover returns the smallest span enclosing s and other. When they are in
// different files s is returned unchanged.
func (s Span) Cover(other Span) Span {
	if s.File != other.File {
		return s
	}
	return Span{File: s.File, Start: min(s.Start, other.Start), End: max(s.End, other.End)}
}
