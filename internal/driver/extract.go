package driver

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"runtime"
	"time"

	"golang.org/x/sync/errgroup"

	"moonwave/internal/comment"
	"moonwave/internal/diag"
	"moonwave/internal/docentry"
	"moonwave/internal/observ"
	"moonwave/internal/source"
	"moonwave/internal/stream"
	"moonwave/internal/trace"
)

// Options configures an extraction run.
type Options struct {
	// Jobs bounds the number of documents processed at once.
	// Zero means GOMAXPROCS.
	Jobs int
	// MaxDiagnostics caps the diagnostics kept in Result.Bag.
	MaxDiagnostics int
	// BaseDir is used to display paths relative to a project root.
	BaseDir string
	// Timer, when set, accumulates the read, decode and build phases.
	Timer *observ.Timer
	// Decode configures the stream decoder, e.g. stream.WithoutDiskSources
	// for documents that come from untrusted callers.
	Decode []stream.Option
}

// Result is the outcome of one extraction run.
type Result struct {
	Files    *source.FileSet
	Comments *comment.Store
	// Entries holds every entry that built successfully, in input order.
	Entries []docentry.Entry
	// Bag holds I/O diagnostics first, then each document's decode and
	// build diagnostics sorted by position, documents in input order.
	Bag *diag.Bag
}

// Failed reports whether any error diagnostic was produced.
func (r *Result) Failed() bool {
	return r != nil && r.Bag != nil && r.Bag.HasErrors()
}

type docResult struct {
	entries []docentry.Entry
	diags   []diag.Diagnostic
}

// Extract decodes every document and builds its entries. Documents are
// processed in parallel; entries and diagnostics keep input order. A
// document or comment that fails never stops the others. The returned error
// is reserved for cancellation and internal failures.
func Extract(ctx context.Context, docs []*stream.Document, opts Options) (*Result, error) {
	res := newResult(opts)
	return res, res.run(ctx, docs, opts)
}

// ExtractFiles reads the stream documents at paths and extracts them.
// Unreadable documents become IO diagnostics instead of errors.
func ExtractFiles(ctx context.Context, paths []string, opts Options) (*Result, error) {
	res := newResult(opts)

	docs := make([]*stream.Document, 0, len(paths))
	var ioDiags []diag.Diagnostic
	for _, path := range paths {
		start := time.Now()
		doc, err := stream.ReadFile(path)
		opts.Timer.Add("read", time.Since(start))
		if err != nil {
			ioDiags = append(ioDiags, loadDiagnostic(res.Files, path, err))
			continue
		}
		docs = append(docs, doc)
	}
	res.Bag.AddAll(ioDiags)
	return res, res.run(ctx, docs, opts)
}

func newResult(opts Options) *Result {
	maxDiagnostics := opts.MaxDiagnostics
	if maxDiagnostics <= 0 {
		maxDiagnostics = DefaultMaxDiagnostics
	}
	return &Result{
		Files:    source.NewFileSetWithBase(opts.BaseDir),
		Comments: comment.NewStore(),
		Entries:  []docentry.Entry{},
		Bag:      diag.NewBag(maxDiagnostics),
	}
}

// DefaultMaxDiagnostics is used when Options.MaxDiagnostics is not set.
const DefaultMaxDiagnostics = 1000

func (r *Result) run(ctx context.Context, docs []*stream.Document, opts Options) error {
	tracer := trace.FromContext(ctx)
	span := trace.Begin(tracer, trace.ScopeDriver, "extract", trace.ParentSpan(ctx))
	ctx = trace.WithParent(ctx, span)
	defer func() {
		span.WithExtra("documents", fmt.Sprint(len(docs))).
			WithExtra("entries", fmt.Sprint(len(r.Entries))).
			WithExtra("diagnostics", fmt.Sprint(r.Bag.Len())).
			End("")
	}()

	if len(docs) == 0 {
		return nil
	}

	jobs := opts.Jobs
	if jobs <= 0 {
		jobs = runtime.GOMAXPROCS(0)
	}

	decoder := stream.NewDecoder(r.Files, r.Comments, opts.Decode...)
	results := make([]docResult, len(docs))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(min(jobs, len(docs)))
	for i, doc := range docs {
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			out, err := extractDocument(gctx, decoder, doc, opts.Timer)
			if err != nil {
				return err
			}
			// each goroutine owns results[i]
			results[i] = out
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return err
	}

	for _, out := range results {
		r.Entries = append(r.Entries, out.entries...)
		r.Bag.AddAll(out.diags)
	}
	return nil
}

func extractDocument(ctx context.Context, decoder *stream.Decoder, doc *stream.Document, timer *observ.Timer) (docResult, error) {
	tracer := trace.FromContext(ctx)
	span := trace.Begin(tracer, trace.ScopePass, "document:"+doc.Source, trace.ParentSpan(ctx))
	ctx = trace.WithParent(ctx, span)
	defer span.End("")

	var reporter diag.SliceReporter
	start := time.Now()
	items := decoder.Decode(ctx, doc, &reporter)
	timer.Add("decode", time.Since(start))
	start = time.Now()
	defer func() { timer.Add("build", time.Since(start)) }()

	out := docResult{
		entries: make([]docentry.Entry, 0, len(items)),
	}
	found := reporter.Items
	for _, item := range items {
		entry, err := docentry.Parse(item.Args, item.Kind)
		if err != nil {
			ds, ok := diag.AsDiagnostics(err)
			if !ok {
				return docResult{}, fmt.Errorf("%s: %s %q: %w", doc.Source, item.Kind, item.Args.Name, err)
			}
			trace.Point(tracer, trace.ScopeComment, "unused-tags:"+item.Args.Name, string(item.Kind), span.ID(),
				map[string]string{"count": fmt.Sprint(len(ds))})
			found = append(found, ds...)
			continue
		}
		out.entries = append(out.entries, entry)
	}

	// A document covers one file, so sorting by position is deterministic.
	bag := diag.NewBag(len(found))
	bag.AddAll(found)
	bag.Sort()
	out.diags = bag.Items()
	return out, nil
}

// loadDiagnostic reports an unreadable document against a placeholder file
// so the diagnostic still names the path.
func loadDiagnostic(files *source.FileSet, path string, err error) diag.Diagnostic {
	id := files.AddVirtual(path, nil)
	sp := source.Span{File: id}

	var pathErr *fs.PathError
	switch {
	case errors.Is(err, stream.ErrUnsupportedFormat):
		return diag.NewError(diag.IOUnsupportedKind, sp, err.Error()).
			WithNote(sp, "use a .json, .jsonc, .yaml, .yml, .msgpack or .mpk document")
	case errors.As(err, &pathErr):
		return diag.NewError(diag.IOLoadFileError, sp, "failed to load file: "+pathErr.Err.Error())
	}
	return diag.NewError(diag.IODecodeError, sp, err.Error())
}
