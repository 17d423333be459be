package tags

import (
	"moonwave/internal/diag"
)

// Diagnostic reports msg as an error located at the tag's span.
func Diagnostic(t Tag, code diag.Code, msg string) diag.Diagnostic {
	return diag.NewError(code, t.Span(), msg)
}
