// Package diag defines the diagnostic model shared by the stream decoder, the
// doc-entry builders and the output layers.
//
// # Purpose
//
//   - Provide deterministic, serialisable records for every problem found
//     while turning tagged doc comments into entries.
//   - Offer light-weight utilities (Reporter, Bag, Collect) that let
//     producers emit diagnostics without coupling to storage or formatting.
//
// # Scope
//
// Package diag does no formatting or IO. Rendering lives in internal/diagfmt;
// orchestration across many comments lives in internal/driver.
//
// # Data model
//
// Diagnostic is the central record:
//
//   - Severity: Info, Warning or Error.
//   - Code: numeric identifier with a stable string form (DOC1001, STR2003).
//   - Message: short, actionable text.
//   - Primary: the source.Span of the offending tag or comment.
//   - Notes: optional secondary spans.
//   - Fixes: optional edits, e.g. deleting an unused tag.
//
// # Aggregation
//
// Doc-entry builders never stop at the first bad tag. They gather one
// Diagnostic per problem and return them together through Collect, which
// yields a Diagnostics error (or nil when nothing was found). Callers recover
// the batch with AsDiagnostics. Bag is the bounded, sortable container used
// when diagnostics from many comments are merged for display.
package diag
