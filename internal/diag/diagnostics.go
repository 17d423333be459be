package diag

import (
	"errors"
	"fmt"
	"strings"
)

// Diagnostics is an ordered, non-empty batch of diagnostics returned as a
// single error. Producers that must report every problem at once (rather than
// stopping at the first) hand their findings to Collect.
type Diagnostics []Diagnostic

// Collect bundles items into one error. It returns nil when items is empty,
// so callers can write `return diag.Collect(found)` on both paths.
func Collect(items []Diagnostic) error {
	if len(items) == 0 {
		return nil
	}
	out := make(Diagnostics, len(items))
	copy(out, items)
	return out
}

func (d Diagnostics) Error() string {
	switch len(d) {
	case 0:
		return "no diagnostics"
	case 1:
		return fmt.Sprintf("%s %s", d[0].Code.ID(), d[0].Message)
	}
	var sb strings.Builder
	fmt.Fprintf(&sb, "%d diagnostics:", len(d))
	for _, item := range d {
		fmt.Fprintf(&sb, "\n\t%s %s %s", item.Code.ID(), item.Primary, item.Message)
	}
	return sb.String()
}

// HasErrors reports whether the batch contains an error-level diagnostic.
func (d Diagnostics) HasErrors() bool {
	for i := range d {
		if d[i].Severity >= SevError {
			return true
		}
	}
	return false
}

// AsDiagnostics extracts a Diagnostics batch from err.
func AsDiagnostics(err error) (Diagnostics, bool) {
	var ds Diagnostics
	if errors.As(err, &ds) {
		return ds, true
	}
	return nil, false
}
