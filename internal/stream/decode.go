package stream

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"math"
	"strings"

	"fortio.org/safecast"
	"golang.org/x/text/unicode/norm"

	"moonwave/internal/comment"
	"moonwave/internal/diag"
	"moonwave/internal/docentry"
	"moonwave/internal/source"
	"moonwave/internal/tags"
	"moonwave/internal/trace"
)

// Item is one doc comment that passed every precondition of entry
// construction.
type Item struct {
	Kind docentry.DeclKind
	Args docentry.Args
}

// Decoder turns documents into builder input. It registers sources in a
// FileSet and comment text in a Store; both are safe to share between
// decoders running in parallel.
type Decoder struct {
	files    *source.FileSet
	comments *comment.Store
	noDisk   bool
	maxSize  uint32
}

// DefaultMaxSourceSize bounds a source file rebuilt from comment texts.
const DefaultMaxSourceSize = 16 << 20

// Option configures a Decoder.
type Option func(*Decoder)

// WithoutDiskSources never reads Document.Source from disk. Documents
// without inline content get a source rebuilt from their comments.
func WithoutDiskSources() Option {
	return func(d *Decoder) { d.noDisk = true }
}

// WithMaxSourceSize bounds the rebuilt source. Comments reaching past n
// bytes are reported as out of range. Zero keeps the default.
func WithMaxSourceSize(n uint32) Option {
	return func(d *Decoder) {
		if n > 0 {
			d.maxSize = n
		}
	}
}

func NewDecoder(files *source.FileSet, comments *comment.Store, opts ...Option) *Decoder {
	d := &Decoder{files: files, comments: comments, maxSize: DefaultMaxSourceSize}
	for _, opt := range opts {
		opt(d)
	}
	return d
}

// Decode validates doc and returns its items in document order. Problems are
// reported to r; a comment with any problem is skipped while the rest of the
// document is still decoded.
func (d *Decoder) Decode(ctx context.Context, doc *Document, r diag.Reporter) []Item {
	tracer := trace.FromContext(ctx)
	span := trace.Begin(tracer, trace.ScopePass, "decode", trace.ParentSpan(ctx))
	defer span.End(doc.Source)

	file := d.loadSource(ctx, doc)
	items := make([]Item, 0, len(doc.Comments))
	for i := range doc.Comments {
		if ctx.Err() != nil {
			break
		}
		if item, ok := d.decodeComment(ctx, file, &doc.Comments[i], r); ok {
			items = append(items, item)
		}
	}
	span.WithExtra("comments", fmt.Sprint(len(doc.Comments))).
		WithExtra("items", fmt.Sprint(len(items)))
	return items
}

// loadSource registers the documented file. Inline content wins; otherwise
// the file is read from disk unless disk sources are off, and when that
// fails a virtual file is assembled from the comment texts so spans still
// resolve.
func (d *Decoder) loadSource(ctx context.Context, doc *Document) *source.File {
	if doc.Content != "" {
		return d.files.Get(d.files.AddVirtual(doc.Source, []byte(doc.Content)))
	}
	detail := "not read"
	if !d.noDisk {
		id, err := d.files.Load(doc.Source)
		if err == nil {
			return d.files.Get(id)
		}
		detail = "unreadable"
		if errors.Is(err, fs.ErrNotExist) {
			detail = "missing"
		}
	}
	trace.Point(trace.FromContext(ctx), trace.ScopeComment, "source:"+doc.Source, detail, trace.ParentSpan(ctx), nil)
	return d.files.Get(d.files.AddVirtual(doc.Source, reconstruct(doc.Comments, d.maxSize)))
}

// reconstruct lays comment texts out at their offsets, padding gaps with
// spaces. Comments ending past limit are left out, so the result never
// exceeds limit bytes and those comments fail the span check.
func reconstruct(comments []Comment, limit uint32) []byte {
	var size uint32
	for _, c := range comments {
		if c.End <= limit {
			size = max(size, c.End)
		}
	}
	buf := []byte(strings.Repeat(" ", int(size)))
	for _, c := range comments {
		if c.Start > c.End || c.End > size {
			continue
		}
		n := min(int(c.End-c.Start), len(c.Text))
		copy(buf[c.Start:], c.Text[:n])
	}
	return buf
}

func (d *Decoder) decodeComment(ctx context.Context, file *source.File, c *Comment, r diag.Reporter) (Item, bool) {
	sp := source.Span{File: file.ID, Start: c.Start, End: c.End}
	if !inFile(file, sp) {
		// Clamp so the diagnostic still points into the file.
		size, _ := safecast.Conv[uint32](len(file.Content))
		bad := sp
		sp = source.Span{File: file.ID, Start: min(c.Start, size), End: min(c.Start, size)}
		diag.ReportError(r, diag.StrSpanOutOfRange, sp,
			fmt.Sprintf("comment span %d..%d lies outside %s (%d bytes)", bad.Start, bad.End, file.Path, size)).Emit()
		return Item{}, false
	}

	kind, kindOK := d.entryKind(c.Entry, sp, r)
	ok := kindOK

	name := norm.NFC.String(strings.TrimSpace(c.Entry.Name))
	within := norm.NFC.String(strings.TrimSpace(c.Entry.Within))
	if name == "" {
		diag.ReportError(r, diag.StrMissingName, sp, "doc comment does not name the entry it documents").Emit()
		ok = false
	}
	if kindOK && kind != docentry.KindClass && within == "" {
		diag.ReportError(r, diag.StrMissingWithin, sp,
			fmt.Sprintf("%s %q must be within a class", kind, name)).
			WithNote(sp, "add @within <Class> to the doc comment").
			Emit()
		ok = false
	}

	tagList := make([]tags.Tag, 0, len(c.Tags))
	for _, rec := range c.Tags {
		tag, tagOK := d.decodeTag(ctx, file, sp, rec, r)
		if !tagOK {
			ok = false
			continue
		}
		tagList = append(tagList, tag)
	}
	if !ok {
		return Item{}, false
	}

	id := d.comments.Add(sp, c.Text)
	trace.Point(trace.FromContext(ctx), trace.ScopeComment, "comment:"+qualified(within, name), string(kind), trace.ParentSpan(ctx),
		map[string]string{"tags": fmt.Sprint(len(tagList))})
	return Item{
		Kind: kind,
		Args: docentry.Args{
			Name:    name,
			Desc:    c.Entry.Desc,
			Within:  within,
			LuaType: c.Entry.LuaType,
			Tags:    tagList,
			Source:  id,
		},
	}, true
}

func (d *Decoder) entryKind(h Header, sp source.Span, r diag.Reporter) (docentry.DeclKind, bool) {
	kind, err := docentry.ParseDeclKind(h.Kind)
	if err != nil {
		diag.ReportError(r, diag.StrUnknownEntryKind, sp, err.Error()).Emit()
		return "", false
	}
	if kind != docentry.KindFunction && kind != docentry.KindMethod {
		return kind, true
	}
	switch docentry.FunctionType(strings.ToLower(strings.TrimSpace(h.FunctionType))) {
	case "":
		return kind, true
	case docentry.Static:
		return docentry.KindFunction, true
	case docentry.Method:
		return docentry.KindMethod, true
	}
	diag.ReportError(r, diag.StrUnknownEntryKind, sp,
		fmt.Sprintf("unknown function type %q (expected static or method)", h.FunctionType)).Emit()
	return "", false
}

// reserved keys of a tag record; everything else is payload.
const (
	keyTag   = "tag"
	keyStart = "start"
	keyEnd   = "end"
)

func (d *Decoder) decodeTag(ctx context.Context, file *source.File, owner source.Span, rec map[string]any, r diag.Reporter) (tags.Tag, bool) {
	name, _ := rec[keyTag].(string)
	if name == "" {
		diag.ReportError(r, diag.StrMalformedTag, owner, "tag record has no \"tag\" name").Emit()
		return nil, false
	}
	kind, ok := tags.ParseKind(name)
	if !ok {
		diag.ReportError(r, diag.StrUnknownTag, owner, fmt.Sprintf("unknown tag @%s", strings.TrimPrefix(name, "@"))).Emit()
		return nil, false
	}

	sp, err := tagSpan(file.ID, owner, rec)
	if err != nil {
		diag.ReportError(r, diag.StrMalformedTag, owner, fmt.Sprintf("@%s: %v", kind, err)).Emit()
		return nil, false
	}
	if !inFile(file, sp) {
		diag.ReportError(r, diag.StrSpanOutOfRange, owner,
			fmt.Sprintf("@%s span %d..%d lies outside %s", kind, sp.Start, sp.End, file.Path)).Emit()
		return nil, false
	}

	payload := make(map[string]any, len(rec))
	for k, v := range rec {
		if k != keyTag && k != keyStart && k != keyEnd {
			payload[k] = v
		}
	}
	tag, err := tags.Decode(kind, payload, sp)
	if err != nil {
		diag.ReportError(r, diag.StrMalformedTag, sp, err.Error()).Emit()
		return nil, false
	}
	trace.Point(trace.FromContext(ctx), trace.ScopeTag, "tag:"+kind.String(), sp.String(), trace.ParentSpan(ctx), nil)
	return tag, true
}

// tagSpan reads the optional start/end offsets of a tag record. A record
// without offsets is attributed to the whole comment.
func tagSpan(file source.FileID, owner source.Span, rec map[string]any) (source.Span, error) {
	rawStart, hasStart := rec[keyStart]
	rawEnd, hasEnd := rec[keyEnd]
	if !hasStart && !hasEnd {
		return owner, nil
	}
	if hasStart != hasEnd {
		return source.Span{}, errors.New("tag record needs both start and end")
	}
	start, err := toOffset(rawStart)
	if err != nil {
		return source.Span{}, fmt.Errorf("start: %w", err)
	}
	end, err := toOffset(rawEnd)
	if err != nil {
		return source.Span{}, fmt.Errorf("end: %w", err)
	}
	return source.Span{File: file, Start: start, End: end}, nil
}

func inFile(f *source.File, sp source.Span) bool {
	size, err := safecast.Conv[uint32](len(f.Content))
	if err != nil {
		return false
	}
	return sp.Start <= sp.End && sp.End <= size
}

// toOffset converts a decoded number to a byte offset. JSON yields float64,
// YAML int and msgpack any fixed-width integer.
func toOffset(v any) (uint32, error) {
	switch n := v.(type) {
	case int:
		return safecast.Conv[uint32](n)
	case int8:
		return safecast.Conv[uint32](n)
	case int16:
		return safecast.Conv[uint32](n)
	case int32:
		return safecast.Conv[uint32](n)
	case int64:
		return safecast.Conv[uint32](n)
	case uint:
		return safecast.Conv[uint32](n)
	case uint8:
		return safecast.Conv[uint32](n)
	case uint16:
		return safecast.Conv[uint32](n)
	case uint32:
		return n, nil
	case uint64:
		return safecast.Conv[uint32](n)
	case float32:
		return floatOffset(float64(n))
	case float64:
		return floatOffset(n)
	case json.Number:
		i, err := n.Int64()
		if err != nil {
			return 0, err
		}
		return safecast.Conv[uint32](i)
	}
	return 0, fmt.Errorf("offset must be a number, got %T", v)
}

func floatOffset(f float64) (uint32, error) {
	if f != math.Trunc(f) || f < 0 || f > math.MaxUint32 {
		return 0, fmt.Errorf("offset %v is not a byte offset", f)
	}
	return uint32(f), nil
}

func qualified(within, name string) string {
	if within == "" {
		return name
	}
	return within + "." + name
}
