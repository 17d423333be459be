package diagfmt

import (
	"bytes"
	"errors"
	"fmt"
	"strings"

	"moonwave/internal/diag"
	"moonwave/internal/source"
)

type fixEditPreview struct {
	before []string
	after  []string
}

// buildFixEditPreview renders the whole lines an edit touches, before and
// after applying it.
func buildFixEditPreview(fs *source.FileSet, edit diag.FixEdit) (fixEditPreview, error) {
	if fs == nil {
		return fixEditPreview{}, errors.New("nil FileSet")
	}
	file := fs.Get(edit.Span.File)
	if file == nil {
		return fixEditPreview{}, fmt.Errorf("file %d not found in FileSet", edit.Span.File)
	}
	content := file.Content
	start, end := int(edit.Span.Start), int(edit.Span.End)
	if start > end || end > len(content) {
		return fixEditPreview{}, fmt.Errorf("edit span %s out of range for preview block", edit.Span)
	}

	blockStart := bytes.LastIndexByte(content[:start], '\n') + 1
	blockEnd := len(content)
	if nl := bytes.IndexByte(content[end:], '\n'); nl >= 0 {
		blockEnd = end + nl + 1
	}

	block := content[blockStart:blockEnd]
	var after bytes.Buffer
	after.Write(block[:start-blockStart])
	after.WriteString(edit.NewText)
	after.Write(block[end-blockStart:])

	return fixEditPreview{
		before: previewLines(block),
		after:  previewLines(after.Bytes()),
	}, nil
}

// oldText returns the text an edit replaces, or "" when the span does not
// resolve.
func oldText(fs *source.FileSet, sp source.Span) string {
	f := fs.Get(sp.File)
	if f == nil || sp.End < sp.Start || int(sp.End) > len(f.Content) {
		return ""
	}
	return string(f.Content[sp.Start:sp.End])
}

func previewLines(text []byte) []string {
	if len(text) == 0 {
		return nil
	}
	return strings.Split(strings.TrimRight(string(text), "\n"), "\n")
}
