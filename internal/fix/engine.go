// Package fix applies the edits attached to diagnostics to the documented
// source files, for instance removing tags that an entry does not use.
package fix

import (
	"cmp"
	"errors"
	"fmt"
	"slices"

	"moonwave/internal/diag"
	"moonwave/internal/source"
)

// ErrNoFixes is returned when nothing was applied.
var ErrNoFixes = errors.New("no applicable fixes found")

// ApplyMode selects which candidates Apply considers.
type ApplyMode uint8

const (
	ApplyModeOnce ApplyMode = iota // the first candidate in source order
	ApplyModeAll
	ApplyModeID // the candidate whose ID equals TargetID
)

type ApplyOptions struct {
	Mode     ApplyMode
	TargetID string
	// DryRun computes the new contents without writing files.
	DryRun bool
	// Protected reports spans no edit may remove as a whole. Tags without a
	// span of their own share the span of their doc comment; removing them
	// would delete the comment.
	Protected func(source.Span) bool
}

type AppliedFix struct {
	ID          string
	Title       string
	Code        diag.Code
	Message     string
	PrimaryPath string
	EditCount   int
}

type SkippedFix struct {
	ID     string
	Title  string
	Reason string
}

// FileChange is the rewritten content of one file.
type FileChange struct {
	Path      string
	EditCount int
	Content   []byte
}

type ApplyResult struct {
	Applied     []AppliedFix
	Skipped     []SkippedFix
	FileChanges []FileChange
}

func (r *ApplyResult) skip(id, title, reason string) {
	r.Skipped = append(r.Skipped, SkippedFix{ID: id, Title: title, Reason: reason})
}

type candidate struct {
	diag  diag.Diagnostic
	fix   diag.Fix
	id    string
	path  string
	order int
}

// Apply gathers the fixes carried by diagnostics, selects some according to
// opts and applies them. The result is returned even alongside an error;
// ErrNoFixes means nothing was applied.
func Apply(fs *source.FileSet, diagnostics []diag.Diagnostic, opts ApplyOptions) (*ApplyResult, error) {
	result := &ApplyResult{
		Applied:     []AppliedFix{},
		Skipped:     []SkippedFix{},
		FileChanges: []FileChange{},
	}
	if fs == nil {
		return result, errors.New("fix: FileSet is nil")
	}

	candidates := gather(fs, diagnostics, opts.Protected, result)
	slices.SortStableFunc(candidates, func(a, b candidate) int {
		return cmp.Or(
			cmp.Compare(a.path, b.path),
			cmp.Compare(a.diag.Primary.Start, b.diag.Primary.Start),
			cmp.Compare(a.diag.Primary.End, b.diag.Primary.End),
			cmp.Compare(a.order, b.order),
		)
	})

	selected := choose(candidates, opts, result)
	if len(selected) == 0 {
		return result, ErrNoFixes
	}
	if err := apply(fs, selected, opts.DryRun, result); err != nil {
		return result, err
	}
	if len(result.Applied) == 0 {
		return result, ErrNoFixes
	}
	return result, nil
}

// gather turns every fix into a candidate. The ID is built from the code,
// file path, primary offset and fix index, so it is stable across runs.
func gather(fs *source.FileSet, diagnostics []diag.Diagnostic, protected func(source.Span) bool, result *ApplyResult) []candidate {
	var out []candidate
	seen := make(map[string]struct{})
	for _, d := range diagnostics {
		path := displayPath(fs, d.Primary.File)
		for i, f := range d.Fixes {
			id := fmt.Sprintf("%s@%s:%d#%d", d.Code.ID(), path, d.Primary.Start, i)
			if _, dup := seen[id]; dup {
				result.skip(id, f.Title, "duplicate fix id")
				continue
			}
			seen[id] = struct{}{}

			switch {
			case len(f.Edits) == 0:
				result.skip(id, f.Title, "fix has no edits")
			case protected != nil && removesProtected(f.Edits, protected):
				result.skip(id, f.Title, "tag has no span of its own")
			default:
				out = append(out, candidate{diag: d, fix: f, id: id, path: path, order: len(out)})
			}
		}
	}
	return out
}

func removesProtected(edits []diag.FixEdit, protected func(source.Span) bool) bool {
	return slices.ContainsFunc(edits, func(e diag.FixEdit) bool {
		return e.NewText == "" && protected(e.Span)
	})
}

func choose(candidates []candidate, opts ApplyOptions, result *ApplyResult) []candidate {
	switch opts.Mode {
	case ApplyModeAll:
		return candidates
	case ApplyModeOnce:
		if len(candidates) > 0 {
			return candidates[:1]
		}
	case ApplyModeID:
		i := slices.IndexFunc(candidates, func(c candidate) bool { return c.id == opts.TargetID })
		if i >= 0 {
			return candidates[i : i+1]
		}
		result.skip(opts.TargetID, "", "fix id not found")
	}
	return nil
}

func displayPath(fs *source.FileSet, id source.FileID) string {
	if f := fs.Get(id); f != nil {
		return f.FormatPath("relative", fs.BaseDir())
	}
	return ""
}
