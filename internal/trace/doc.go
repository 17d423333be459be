// Package trace records structured events for moonwave runs.
//
// Tracing is off by default. Enable it from the command line:
//
//	moonwave extract --trace=- --trace-level=detail docs.json
//
// # Tracers
//
//   - Nop: zero-overhead tracer used when tracing is disabled
//   - StreamTracer: writes every event immediately as text or NDJSON
//   - RingTracer: keeps the most recent events in memory
//   - MultiTracer: fans out to several tracers
//
// # Levels and scopes
//
// A level admits every scope at or above its granularity:
//
//   - LevelPhase: ScopeDriver and ScopePass (whole runs, decode/build/emit)
//   - LevelDetail: adds ScopeComment (one event per doc comment)
//   - LevelDebug: adds ScopeTag (one event per decoded tag)
//
// LevelError emits nothing on its own; it exists so a ring tracer can be
// dumped after a failure.
//
// # Context propagation
//
//	ctx = trace.WithTracer(ctx, tracer)
//	span := trace.Begin(trace.FromContext(ctx), trace.ScopePass, "build", 0)
//	defer span.End("")
package trace
