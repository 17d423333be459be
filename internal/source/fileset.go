package source

import (
	"fmt"
	"os"
	"sync"

	"fortio.org/safecast"
)

// FileSet owns the files that spans point into. Methods are safe for
// concurrent use; the driver loads and resolves from several goroutines.
type FileSet struct {
	mu      sync.RWMutex
	files   []*File
	latest  map[string]FileID
	baseDir string
}

func NewFileSet() *FileSet {
	return &FileSet{latest: make(map[string]FileID)}
}

// NewFileSetWithBase returns a FileSet that renders relative paths against
// baseDir.
func NewFileSetWithBase(baseDir string) *FileSet {
	s := NewFileSet()
	s.baseDir = baseDir
	return s
}

func (s *FileSet) SetBaseDir(dir string) {
	s.mu.Lock()
	s.baseDir = dir
	s.mu.Unlock()
}

// BaseDir returns the base directory, or the working directory when none was
// set.
func (s *FileSet) BaseDir() string {
	s.mu.RLock()
	dir := s.baseDir
	s.mu.RUnlock()
	return orWorkingDir(dir)
}

// Add registers content under path. Content must already be normalized.
// Every call allocates a new FileID, so re-adding a path keeps the old
// version reachable by id while GetLatest moves to the new one.
func (s *FileSet) Add(path string, content []byte, flags FileFlags) FileID {
	f := &File{
		Path:    normalizePath(path),
		Content: content,
		LineIdx: buildLineIndex(content),
		Flags:   flags,
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	n, err := safecast.Conv[FileID](len(s.files))
	if err != nil {
		panic(fmt.Errorf("file set overflow: %w", err))
	}
	f.ID = n
	s.files = append(s.files, f)
	s.latest[f.Path] = f.ID
	return f.ID
}

// Load reads path from disk and registers its normalized content.
func (s *FileSet) Load(path string) (FileID, error) {
	// #nosec G304 -- the caller chooses which files to read
	raw, err := os.ReadFile(path)
	if err != nil {
		return 0, err
	}
	content, flags := normalize(raw)
	return s.Add(path, content, flags), nil
}

// AddVirtual registers in-memory content flagged FileVirtual.
func (s *FileSet) AddVirtual(name string, content []byte) FileID {
	return s.Add(name, content, FileVirtual)
}

// Get returns the file for id, or nil.
func (s *FileSet) Get(id FileID) *File {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if int(id) >= len(s.files) {
		return nil
	}
	return s.files[id]
}

func (s *FileSet) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.files)
}

// GetLatest returns the newest id registered for path.
func (s *FileSet) GetLatest(path string) (FileID, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	id, ok := s.latest[normalizePath(path)]
	return id, ok
}

// Resolve returns the positions of both ends of span. Spans into unknown
// files resolve to 1:1.
func (s *FileSet) Resolve(span Span) (start, end LineCol) {
	f := s.Get(span.File)
	if f == nil {
		origin := LineCol{Line: 1, Col: 1}
		return origin, origin
	}
	return f.Position(span.Start), f.Position(span.End)
}
