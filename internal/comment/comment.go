// Package comment stores the doc comments that entries were derived from.
//
// Entries refer to their comment by ID only. The Store outlives every entry
// built from it and is the single owner of comment text.
package comment

import (
	"fmt"
	"sync"

	"fortio.org/safecast"

	"moonwave/internal/source"
)

// ID is a stable index into a Store. The zero ID is never assigned.
type ID uint32

// NoID marks an entry that was not built from a stored comment.
const NoID ID = 0

// Comment is one doc comment as handed over by the upstream parser.
type Comment struct {
	ID   ID
	Span source.Span
	Text string
}

// Store is an append-only collection of comments, safe for concurrent use.
type Store struct {
	mu       sync.RWMutex
	comments []Comment
}

func NewStore() *Store {
	return &Store{}
}

// Add records a comment and returns its ID.
func (s *Store) Add(span source.Span, text string) ID {
	s.mu.Lock()
	defer s.mu.Unlock()

	n, err := safecast.Conv[uint32](len(s.comments) + 1)
	if err != nil {
		panic(fmt.Errorf("comment store overflow: %w", err))
	}
	id := ID(n)
	s.comments = append(s.comments, Comment{ID: id, Span: span, Text: text})
	return id
}

// Get returns the comment for id.
func (s *Store) Get(id ID) (Comment, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if id == NoID || int(id) > len(s.comments) {
		return Comment{}, false
	}
	return s.comments[id-1], true
}

func (s *Store) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.comments)
}

// Covers reports whether sp is exactly the span of a stored comment.
func (s *Store) Covers(sp source.Span) bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, c := range s.comments {
		if c.Span == sp {
			return true
		}
	}
	return false
}
