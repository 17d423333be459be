// Package docentry turns the tags of one doc comment into a validated entry.
//
// Each declaration kind (function, method, property, class, type) has an
// accept set: the tag kinds its entries consume. One shared dispatch loop
// applies accepted tags to the entry's fields in source order and collects
// every other tag. If any tag was left over the build fails with one
// diagnostic per leftover tag and no entry is produced.
package docentry

import (
	"fmt"

	"moonwave/internal/comment"
)

// Entry is implemented by every entry type.
type Entry interface {
	EntryKind() DeclKind
	EntryName() string
	Comment() comment.ID
}

// Parse builds the entry for kind. Methods and functions both produce a
// *FunctionEntry and differ only in FunctionType.
func Parse(args Args, kind DeclKind) (Entry, error) {
	switch kind {
	case KindFunction:
		return ParseFunction(args, Static)
	case KindMethod:
		return ParseFunction(args, Method)
	case KindProperty:
		return ParseProperty(args)
	case KindClass:
		return ParseClass(args)
	case KindType:
		return ParseType(args)
	}
	return nil, fmt.Errorf("docentry: unknown entry kind %q", kind)
}
