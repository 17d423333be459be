package fix

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"moonwave/internal/diag"
	"moonwave/internal/source"
)

const signalLua = "--[=[\n\tConnects a handler.\n\t@readonly\n\t@server\n]=]\nfunction Signal:Connect(fn) end\n"

// loadTemp writes content to a temp file and loads it from disk.
func loadTemp(t *testing.T, content string) (*source.FileSet, source.FileID, string) {
	t.Helper()
	dir := t.TempDir()
	path := filepath.Join(dir, "Signal.lua")
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatal(err)
	}
	fs := source.NewFileSetWithBase(dir)
	id, err := fs.Load(path)
	if err != nil {
		t.Fatal(err)
	}
	return fs, id, path
}

func unusedTag(file source.FileID, start, end uint32, kind string) diag.Diagnostic {
	sp := source.Span{File: file, Start: start, End: end}
	return diag.NewError(diag.DocTagUnused, sp, "This tag is unused by method doc entries.").
		WithFix("remove @"+kind, diag.FixEdit{Span: sp})
}

func TestApplyAllRemovesTagLines(t *testing.T) {
	fs, id, path := loadTemp(t, signalLua)
	// "@readonly" at 28..37, "@server" at 39..46
	diags := []diag.Diagnostic{
		unusedTag(id, 39, 46, "server"),
		unusedTag(id, 28, 37, "readonly"),
	}

	res, err := Apply(fs, diags, ApplyOptions{Mode: ApplyModeAll})
	if err != nil {
		t.Fatalf("Apply: %v", err)
	}
	if len(res.Applied) != 2 || len(res.Skipped) != 0 {
		t.Fatalf("applied=%+v skipped=%+v", res.Applied, res.Skipped)
	}
	if res.Applied[0].Title != "remove @readonly" {
		t.Errorf("fixes not applied in source order: %+v", res.Applied)
	}
	if res.Applied[0].ID != "DOC1001@Signal.lua:28#0" {
		t.Errorf("id = %q", res.Applied[0].ID)
	}

	got, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	want := "--[=[\n\tConnects a handler.\n]=]\nfunction Signal:Connect(fn) end\n"
	if string(got) != want {
		t.Fatalf("content = %q, want %q", got, want)
	}
	if len(res.FileChanges) != 1 || res.FileChanges[0].EditCount != 2 || res.FileChanges[0].Path != "Signal.lua" {
		t.Fatalf("file changes = %+v", res.FileChanges)
	}
}

func TestApplyKeepsSharedLines(t *testing.T) {
	fs, id, path := loadTemp(t, "--- @server @client\nlocal x = 1\n")
	if _, err := Apply(fs, []diag.Diagnostic{unusedTag(id, 4, 11, "server")}, ApplyOptions{Mode: ApplyModeAll}); err != nil {
		t.Fatalf("Apply: %v", err)
	}
	got, _ := os.ReadFile(path)
	if string(got) != "--- @client\nlocal x = 1\n" {
		t.Fatalf("content = %q", got)
	}
}

func TestApplyOnceAndID(t *testing.T) {
	fs, id, path := loadTemp(t, signalLua)
	diags := []diag.Diagnostic{unusedTag(id, 28, 37, "readonly"), unusedTag(id, 39, 46, "server")}

	res, err := Apply(fs, diags, ApplyOptions{Mode: ApplyModeID, TargetID: "DOC1001@Signal.lua:39#0", DryRun: true})
	if err != nil {
		t.Fatalf("Apply: %v", err)
	}
	if len(res.Applied) != 1 || res.Applied[0].Title != "remove @server" {
		t.Fatalf("applied = %+v", res.Applied)
	}
	if got, _ := os.ReadFile(path); string(got) != signalLua {
		t.Fatal("dry run must not write")
	}
	want := "--[=[\n\tConnects a handler.\n\t@readonly\n]=]\nfunction Signal:Connect(fn) end\n"
	if string(res.FileChanges[0].Content) != want {
		t.Fatalf("preview = %q", res.FileChanges[0].Content)
	}

	res, err = Apply(fs, diags, ApplyOptions{Mode: ApplyModeOnce, DryRun: true})
	if err != nil || len(res.Applied) != 1 || res.Applied[0].Title != "remove @readonly" {
		t.Fatalf("once: applied = %+v err = %v", res.Applied, err)
	}

	res, err = Apply(fs, diags, ApplyOptions{Mode: ApplyModeID, TargetID: "nope"})
	if !errors.Is(err, ErrNoFixes) || len(res.Skipped) != 1 || res.Skipped[0].Reason != "fix id not found" {
		t.Fatalf("unknown id: err = %v skipped = %+v", err, res.Skipped)
	}
}

func TestApplySkips(t *testing.T) {
	fs := source.NewFileSet()
	virtual := fs.AddVirtual("src/Signal.lua", []byte(signalLua))

	res, err := Apply(fs, []diag.Diagnostic{unusedTag(virtual, 28, 37, "readonly")}, ApplyOptions{Mode: ApplyModeAll})
	if !errors.Is(err, ErrNoFixes) {
		t.Fatalf("err = %v", err)
	}
	if len(res.Skipped) != 1 || res.Skipped[0].Reason != "target file is not on disk" {
		t.Fatalf("skipped = %+v", res.Skipped)
	}

	comment := source.Span{File: virtual, Start: 0, End: 50}
	protected := func(sp source.Span) bool { return sp == comment }
	res, err = Apply(fs, []diag.Diagnostic{unusedTag(virtual, 0, 50, "server")}, ApplyOptions{Mode: ApplyModeAll, Protected: protected})
	if !errors.Is(err, ErrNoFixes) || len(res.Skipped) != 1 || res.Skipped[0].Reason != "tag has no span of its own" {
		t.Fatalf("protected: err = %v skipped = %+v", err, res.Skipped)
	}

	if _, err := Apply(fs, nil, ApplyOptions{}); !errors.Is(err, ErrNoFixes) {
		t.Fatalf("no diagnostics: err = %v", err)
	}
}

func TestApplyConflicts(t *testing.T) {
	fs, id, _ := loadTemp(t, signalLua)
	diags := []diag.Diagnostic{
		unusedTag(id, 28, 37, "readonly"),
		unusedTag(id, 30, 33, "server"),
	}
	res, err := Apply(fs, diags, ApplyOptions{Mode: ApplyModeAll, DryRun: true})
	if err != nil {
		t.Fatalf("Apply: %v", err)
	}
	if len(res.Applied) != 1 || len(res.Skipped) != 1 {
		t.Fatalf("applied=%+v skipped=%+v", res.Applied, res.Skipped)
	}
}

func TestSpansConflict(t *testing.T) {
	edit := func(s, e uint32) diag.FixEdit { return diag.FixEdit{Span: source.Span{Start: s, End: e}} }
	tests := []struct {
		a, b diag.FixEdit
		want bool
	}{
		{edit(0, 5), edit(5, 9), false},
		{edit(0, 5), edit(4, 9), true},
		{edit(3, 3), edit(3, 3), false},
		{edit(3, 3), edit(0, 5), true},
		{edit(5, 5), edit(0, 5), false},
	}
	for _, tt := range tests {
		if got := spansConflict(tt.a, tt.b); got != tt.want {
			t.Errorf("spansConflict(%v, %v) = %v, want %v", tt.a.Span, tt.b.Span, got, tt.want)
		}
	}
}
