package fix

import (
	"bytes"
	"cmp"
	"fmt"
	"maps"
	"os"
	"slices"

	"moonwave/internal/diag"
	"moonwave/internal/source"
)

// document collects the edits accepted for one file. Edits stay in the
// coordinates of the loaded content and are rendered in a single pass.
type document struct {
	file  *source.File
	edits []diag.FixEdit
}

func (d *document) conflicts(edits []diag.FixEdit) bool {
	for _, prev := range d.edits {
		for _, e := range edits {
			if spansConflict(prev, e) {
				return true
			}
		}
	}
	return false
}

func (d *document) render() []byte {
	edits := slices.Clone(d.edits)
	slices.SortStableFunc(edits, compareEdits)

	content := d.file.Content
	var out bytes.Buffer
	out.Grow(len(content))
	prev := uint32(0)
	for _, e := range edits {
		out.Write(content[prev:e.Span.Start])
		out.WriteString(e.NewText)
		prev = e.Span.End
	}
	out.Write(content[prev:])
	return out.Bytes()
}

func compareEdits(a, b diag.FixEdit) int {
	return cmp.Or(cmp.Compare(a.Span.Start, b.Span.Start), cmp.Compare(a.Span.End, b.Span.End))
}

// apply accepts the selected candidates in order, skipping any that cannot be
// applied cleanly on top of those already accepted, then renders and writes
// every touched file.
func apply(fs *source.FileSet, selected []candidate, dryRun bool, result *ApplyResult) error {
	docs := make(map[source.FileID]*document)
	for _, cand := range selected {
		staged, reason := stage(fs, cand.fix.Edits, docs)
		if reason != "" {
			result.skip(cand.id, cand.fix.Title, reason)
			continue
		}
		for id, edits := range staged {
			doc := docs[id]
			if doc == nil {
				doc = &document{file: fs.Get(id)}
				docs[id] = doc
			}
			doc.edits = append(doc.edits, edits...)
		}
		result.Applied = append(result.Applied, AppliedFix{
			ID:          cand.id,
			Title:       cand.fix.Title,
			Code:        cand.diag.Code,
			Message:     cand.diag.Message,
			PrimaryPath: cand.path,
			EditCount:   len(cand.fix.Edits),
		})
	}

	for _, id := range slices.Sorted(maps.Keys(docs)) {
		doc := docs[id]
		content := doc.render()
		if !dryRun {
			if err := writeInPlace(doc.file.Path, content); err != nil {
				return err
			}
		}
		result.FileChanges = append(result.FileChanges, FileChange{
			Path:      doc.file.FormatPath("relative", fs.BaseDir()),
			EditCount: len(doc.edits),
			Content:   content,
		})
	}
	slices.SortStableFunc(result.FileChanges, func(a, b FileChange) int {
		return cmp.Compare(a.Path, b.Path)
	})
	return nil
}

// stage groups one fix's edits by file and checks them against the files'
// state and the edits accepted so far. A non-empty reason rejects the fix.
func stage(fs *source.FileSet, edits []diag.FixEdit, docs map[source.FileID]*document) (map[source.FileID][]diag.FixEdit, string) {
	staged := make(map[source.FileID][]diag.FixEdit)
	for _, e := range edits {
		f := fs.Get(e.Span.File)
		switch {
		case f == nil:
			return nil, "target file is unknown"
		case f.Virtual():
			return nil, "target file is not on disk"
		case f.Normalized():
			return nil, "target file was normalized on load"
		case e.Span.Start > e.Span.End || int(e.Span.End) > len(f.Content):
			return nil, "edit span out of range"
		}
		if e.NewText == "" {
			e.Span = expandRemoval(f.Content, e.Span)
		}
		staged[e.Span.File] = append(staged[e.Span.File], e)
	}

	for id, group := range staged {
		for i := range group {
			for j := i + 1; j < len(group); j++ {
				if spansConflict(group[i], group[j]) {
					return nil, "fix edits overlap"
				}
			}
		}
		if doc := docs[id]; doc != nil && doc.conflicts(group) {
			return nil, fmt.Sprintf("conflicts with previously applied edits in %s", doc.file.FormatPath("relative", fs.BaseDir()))
		}
	}
	return staged, ""
}

func writeInPlace(path string, content []byte) error {
	mode := os.FileMode(0o644)
	if info, err := os.Stat(path); err == nil {
		mode = info.Mode()
	}
	if err := os.WriteFile(path, content, mode); err != nil {
		return fmt.Errorf("write %s: %w", path, err)
	}
	return nil
}
