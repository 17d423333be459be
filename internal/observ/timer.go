// Package observ measures how long the steps of a run take.
package observ

import (
	"fmt"
	"strings"
	"sync"
	"time"
)

// step is a phase timed with Begin and End.
type step struct {
	name    string
	started time.Time
	elapsed time.Duration
	note    string
}

// tally sums the samples passed to Add under one name.
type tally struct {
	name    string
	elapsed time.Duration
	samples int
}

// Timer records top-level steps with Begin and End, and per-document work
// with Add from any goroutine. Tallies are listed under the steps and are
// not part of the total, since they overlap the step that ran them.
type Timer struct {
	mu      sync.Mutex
	steps   []step
	tallies []*tally
	byName  map[string]*tally
}

func NewTimer() *Timer {
	return &Timer{byName: make(map[string]*tally)}
}

// Begin starts a step and returns the handle End expects. A nil Timer
// returns -1.
func (t *Timer) Begin(name string) int {
	if t == nil {
		return -1
	}
	t.mu.Lock()
	defer t.mu.Unlock()
	t.steps = append(t.steps, step{name: name, started: time.Now()})
	return len(t.steps) - 1
}

// End stops the step behind handle. Unknown handles are ignored.
func (t *Timer) End(handle int, note string) {
	if t == nil {
		return
	}
	t.mu.Lock()
	defer t.mu.Unlock()
	if handle < 0 || handle >= len(t.steps) {
		return
	}
	s := &t.steps[handle]
	s.elapsed = time.Since(s.started)
	s.note = note
}

// Add counts one sample of d under name.
func (t *Timer) Add(name string, d time.Duration) {
	if t == nil {
		return
	}
	t.mu.Lock()
	defer t.mu.Unlock()
	tl := t.byName[name]
	if tl == nil {
		tl = &tally{name: name}
		t.byName[name] = tl
		t.tallies = append(t.tallies, tl)
	}
	tl.elapsed += d
	tl.samples++
}

// PhaseReport is one line of a Report.
type PhaseReport struct {
	Name       string  `json:"name"`
	DurationMS float64 `json:"duration_ms"`
	Count      int     `json:"count,omitempty"`
	Note       string  `json:"note,omitempty"`
}

// Report is a snapshot of a Timer. Phases and Nested keep first-seen order.
type Report struct {
	TotalMS float64       `json:"total_ms"`
	Phases  []PhaseReport `json:"phases"`
	Nested  []PhaseReport `json:"nested,omitempty"`
}

func (t *Timer) Report() Report {
	var r Report
	if t == nil {
		return r
	}
	t.mu.Lock()
	defer t.mu.Unlock()

	var total time.Duration
	for _, s := range t.steps {
		total += s.elapsed
		r.Phases = append(r.Phases, PhaseReport{Name: s.name, DurationMS: millis(s.elapsed), Note: s.note})
	}
	for _, tl := range t.tallies {
		r.Nested = append(r.Nested, PhaseReport{Name: tl.name, DurationMS: millis(tl.elapsed), Count: tl.samples})
	}
	r.TotalMS = millis(total)
	return r
}

// Summary renders the report for a terminal:
//
//	timings:
//	  extract                 4.12 ms  // 3 documents
//	  total                   4.12 ms
//	    decode                1.03 ms  (3 samples)
func (t *Timer) Summary() string {
	r := t.Report()
	var b strings.Builder
	b.WriteString("timings:\n")
	for _, p := range r.Phases {
		line := fmt.Sprintf("  %-20s %7.2f ms", p.Name, p.DurationMS)
		if p.Note != "" {
			line += "  // " + p.Note
		}
		b.WriteString(line + "\n")
	}
	fmt.Fprintf(&b, "  %-20s %7.2f ms\n", "total", r.TotalMS)
	for _, p := range r.Nested {
		fmt.Fprintf(&b, "    %-18s %7.2f ms  (%d samples)\n", p.Name, p.DurationMS, p.Count)
	}
	return b.String()
}

func millis(d time.Duration) float64 {
	return float64(d) / float64(time.Millisecond)
}
