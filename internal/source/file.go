package source

import (
	"bytes"
	"fmt"
	"path/filepath"
	"slices"

	"fortio.org/safecast"
)

// FileID indexes a file inside its FileSet.
type FileID uint32

// FileFlags records how a file's content was obtained.
type FileFlags uint8

const (
	// FileVirtual marks content that did not come from disk: request bodies,
	// tests, or comment text reconstructed from a stream document.
	FileVirtual FileFlags = 1 << iota
	FileHadBOM
	FileNormalizedCRLF
)

// File is one source text. LineIdx holds the byte offset of every '\n'.
type File struct {
	ID      FileID
	Path    string
	Content []byte
	LineIdx []uint32
	Flags   FileFlags
}

// LineCol is a 1-based position. Columns count bytes.
type LineCol struct {
	Line uint32
	Col  uint32
}

// Virtual reports whether the file has no backing file on disk.
func (f *File) Virtual() bool { return f.Flags&FileVirtual != 0 }

// Normalized reports whether Content differs from the bytes on disk.
func (f *File) Normalized() bool {
	return f.Flags&(FileHadBOM|FileNormalizedCRLF) != 0
}

// Position converts a byte offset into a line and column. A newline belongs
// to the line it ends.
func (f *File) Position(off uint32) LineCol {
	// i is the number of newlines strictly before off.
	i, _ := slices.BinarySearch(f.LineIdx, off)
	line, err := safecast.Conv[uint32](i + 1)
	if err != nil {
		panic(fmt.Errorf("line number overflow: %w", err))
	}
	if i == 0 {
		return LineCol{Line: 1, Col: off + 1}
	}
	return LineCol{Line: line, Col: off - f.LineIdx[i-1]}
}

// GetLine returns line n (1-based) without its newline, or "" when there is
// no such line.
func (f *File) GetLine(n uint32) string {
	if n == 0 || int(n) > len(f.LineIdx)+1 {
		return ""
	}
	start := 0
	if n > 1 {
		start = int(f.LineIdx[n-2]) + 1
	}
	end := len(f.Content)
	if int(n) <= len(f.LineIdx) {
		end = int(f.LineIdx[n-1])
	}
	if start >= len(f.Content) || start > end {
		return ""
	}
	return string(f.Content[start:end])
}

// FormatPath renders the path for display. mode is "absolute", "relative",
// "basename" or "auto"; anything else prints the stored path.
func (f *File) FormatPath(mode, baseDir string) string {
	switch mode {
	case "absolute":
		if abs, err := AbsolutePath(f.Path); err == nil {
			return abs
		}
	case "relative":
		if f.Virtual() {
			break
		}
		if rel, err := RelativePath(f.Path, orWorkingDir(baseDir)); err == nil {
			return rel
		}
	case "basename":
		return BaseName(f.Path)
	case "auto":
		if len(f.Path) >= 40 && filepath.IsAbs(f.Path) {
			return BaseName(f.Path)
		}
	}
	return f.Path
}

func buildLineIndex(content []byte) []uint32 {
	idx := make([]uint32, 0, bytes.Count(content, []byte{'\n'}))
	for i, b := range content {
		if b != '\n' {
			continue
		}
		off, err := safecast.Conv[uint32](i)
		if err != nil {
			panic(fmt.Errorf("line offset overflow: %w", err))
		}
		idx = append(idx, off)
	}
	return idx
}

var bom = []byte{0xEF, 0xBB, 0xBF}

// normalize strips a UTF-8 byte order mark and folds CRLF to LF. Lone CRs
// are kept.
func normalize(content []byte) ([]byte, FileFlags) {
	var flags FileFlags
	if rest, ok := bytes.CutPrefix(content, bom); ok {
		content = rest
		flags |= FileHadBOM
	}
	if bytes.Contains(content, []byte("\r\n")) {
		content = bytes.ReplaceAll(content, []byte("\r\n"), []byte("\n"))
		flags |= FileNormalizedCRLF
	}
	return content, flags
}
