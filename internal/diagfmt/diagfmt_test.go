package diagfmt

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"

	"moonwave/internal/diag"
	"moonwave/internal/source"
)

const luaSource = "--[=[\n\tConnects.\n\t@field x number\n]=]\n"

func unusedFieldBag(t *testing.T) (*diag.Bag, *source.FileSet, source.FileID) {
	t.Helper()
	fs := source.NewFileSet()
	id := fs.AddVirtual("src/Signal.lua", []byte(luaSource))
	// "\t@field x number" starts at byte 17; the tag text spans 18..33.
	sp := source.Span{File: id, Start: 18, End: 33}
	d := diag.NewError(diag.DocTagUnused, sp, "This tag is unused by function doc entries.").
		WithNote(source.Span{File: id, Start: 0, End: 5}, "doc comment starts here").
		WithFix("remove @field", diag.FixEdit{Span: sp})
	bag := diag.NewBag(10)
	bag.Add(d)
	return bag, fs, id
}

func TestPrettyPlain(t *testing.T) {
	bag, fs, _ := unusedFieldBag(t)
	var buf bytes.Buffer
	Pretty(&buf, bag, fs, PrettyOpts{PathMode: PathModeBasename, ShowNotes: true, ShowFixes: true, ShowPreview: true})

	want := strings.Join([]string{
		"Signal.lua:3:2: ERROR DOC1001: This tag is unused by function doc entries.",
		"3 | \t@field x number",
		"  | \t^~~~~~~~~~~~~~~",
		"  note: Signal.lua:1:1: doc comment starts here",
		"  fix #1: remove @field",
		`    edit Signal.lua:3:2 apply=""`,
		"    preview:",
		"      - \t@field x number",
		"      + \t",
		"",
	}, "\n")
	if got := buf.String(); got != want {
		t.Fatalf("pretty output mismatch\n--- got ---\n%s\n--- want ---\n%s", got, want)
	}
}

func TestPrettyContextAndColor(t *testing.T) {
	bag, fs, _ := unusedFieldBag(t)
	var buf bytes.Buffer
	Pretty(&buf, bag, fs, PrettyOpts{Context: 1, Color: true, PathMode: PathModeAuto})
	out := buf.String()
	for _, want := range []string{"2 | \tConnects.", "3 | \t@field x number", "4 | ]=]", "\x1b["} {
		if !strings.Contains(out, want) {
			t.Errorf("missing %q in:\n%s", want, out)
		}
	}
	if strings.Contains(out, "note:") || strings.Contains(out, "fix #") {
		t.Errorf("notes and fixes must be hidden by default:\n%s", out)
	}
}

func TestCaretLineWideRunes(t *testing.T) {
	got := caretLine("名前 @tag", 8, 12)
	if got != "     ^~~~" {
		t.Fatalf("caretLine = %q", got)
	}
	if got := caretLine("abc", 2, 2); got != " ^" {
		t.Fatalf("empty span caret = %q", got)
	}
}

func TestPrettyUnknownFile(t *testing.T) {
	fs := source.NewFileSet()
	bag := diag.NewBag(1)
	bag.Add(diag.NewError(diag.IOLoadFileError, source.Span{File: 9}, "failed to load file"))
	var buf bytes.Buffer
	Pretty(&buf, bag, fs, PrettyOpts{})
	if buf.String() != "<unknown>: ERROR IO3001: failed to load file\n" {
		t.Fatalf("output = %q", buf.String())
	}
}

func TestPathModes(t *testing.T) {
	fs := source.NewFileSet()
	id := fs.AddVirtual("/home/user/project/src/Signal.lua", []byte("local x\n"))
	fs.SetBaseDir("/home/user/project")
	bag := diag.NewBag(1)
	bag.Add(diag.NewError(diag.DocTagUnused, source.Span{File: id, Start: 6, End: 7}, "unused"))

	tests := []struct {
		mode PathMode
		want string
	}{
		{PathModeAbsolute, "/home/user/project/src/Signal.lua:1:7"},
		{PathModeBasename, "Signal.lua:1:7"},
		{PathModeRelative, "/home/user/project/src/Signal.lua:1:7"},
	}
	for _, tt := range tests {
		var buf bytes.Buffer
		if err := Short(&buf, bag, fs, tt.mode); err != nil {
			t.Fatal(err)
		}
		if !strings.HasPrefix(buf.String(), tt.want+": ERROR DOC1001: unused") {
			t.Errorf("mode %d: got %q, want prefix %q", tt.mode, buf.String(), tt.want)
		}
	}
}

func TestJSONOutput(t *testing.T) {
	bag, fs, _ := unusedFieldBag(t)
	var buf bytes.Buffer
	opts := JSONOpts{IncludePositions: true, IncludeNotes: true, IncludeFixes: true, IncludePreviews: true, PathMode: PathModeBasename}
	if err := JSON(&buf, bag, fs, opts); err != nil {
		t.Fatalf("JSON: %v", err)
	}
	var out DiagnosticsOutput
	if err := json.Unmarshal(buf.Bytes(), &out); err != nil {
		t.Fatalf("invalid json: %v", err)
	}
	if out.Count != 1 || len(out.Diagnostics) != 1 {
		t.Fatalf("count = %d", out.Count)
	}
	d := out.Diagnostics[0]
	if d.Code != "DOC1001" || d.Severity != "ERROR" {
		t.Errorf("code %s severity %s", d.Code, d.Severity)
	}
	if d.Location.File != "Signal.lua" || d.Location.StartLine != 3 || d.Location.StartCol != 2 || d.Location.StartByte != 18 {
		t.Errorf("location = %+v", d.Location)
	}
	if len(d.Notes) != 1 || len(d.Fixes) != 1 {
		t.Fatalf("notes %d fixes %d", len(d.Notes), len(d.Fixes))
	}
	edit := d.Fixes[0].Edits[0]
	if edit.OldText != "@field x number" || edit.NewText != "" {
		t.Errorf("edit = %+v", edit)
	}
	if len(edit.AfterLines) != 1 || edit.AfterLines[0] != "\t" {
		t.Errorf("after lines = %q", edit.AfterLines)
	}
}

func TestJSONMaxAndEmpty(t *testing.T) {
	fs := source.NewFileSet()
	id := fs.AddVirtual("a.lua", []byte("abc"))
	bag := diag.NewBag(5)
	for i := uint32(0); i < 3; i++ {
		bag.Add(diag.NewError(diag.DocTagUnused, source.Span{File: id, Start: i, End: i + 1}, "unused"))
	}
	out := BuildDiagnosticsOutput(bag.Items(), fs, JSONOpts{Max: 2})
	if out.Count != 2 {
		t.Fatalf("count = %d, want 2", out.Count)
	}

	var buf bytes.Buffer
	if err := JSON(&buf, diag.NewBag(1), fs, JSONOpts{}); err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(buf.String(), `"diagnostics": []`) {
		t.Fatalf("empty output = %s", buf.String())
	}
}

func TestSummary(t *testing.T) {
	bag := diag.NewBag(5)
	bag.Add(diag.NewError(diag.DocTagUnused, source.Span{}, "a"))
	bag.Add(diag.New(diag.SevWarning, diag.DocTagUnused, source.Span{}, "b"))
	bag.Add(diag.NewError(diag.DocTagUnused, source.Span{}, "c"))
	if got := Summary(bag); got != "2 errors, 1 warning" {
		t.Fatalf("Summary = %q", got)
	}
}

func TestParseFormat(t *testing.T) {
	for in, want := range map[string]Format{"": FormatPretty, "JSON": FormatJSON, "short": FormatShort, "sarif": FormatSARIF} {
		if got, err := ParseFormat(in); err != nil || got != want {
			t.Errorf("ParseFormat(%q) = %q, %v", in, got, err)
		}
	}
	if _, err := ParseFormat("xml"); err == nil {
		t.Error("expected error for xml")
	}
}

func TestSarif(t *testing.T) {
	bag, fs, _ := unusedFieldBag(t)
	bag.Add(diag.NewError(diag.StrUnknownTag, source.Span{File: 0, Start: 0, End: 5}, "unknown tag @fied"))

	var buf bytes.Buffer
	if err := Sarif(&buf, bag, fs, SarifRunMeta{ToolName: "moonwave", ToolVersion: "1.0.0"}); err != nil {
		t.Fatalf("Sarif: %v", err)
	}

	var log struct {
		Version string `json:"version"`
		Runs    []struct {
			Tool struct {
				Driver struct {
					Name  string `json:"name"`
					Rules []struct {
						ID string `json:"id"`
					} `json:"rules"`
				} `json:"driver"`
			} `json:"tool"`
			Results []struct {
				RuleID    string `json:"ruleId"`
				RuleIndex int    `json:"ruleIndex"`
				Level     string `json:"level"`
				Locations []struct {
					PhysicalLocation struct {
						ArtifactLocation struct {
							URI string `json:"uri"`
						} `json:"artifactLocation"`
						Region struct {
							StartLine   uint32 `json:"startLine"`
							StartColumn uint32 `json:"startColumn"`
							ByteOffset  uint32 `json:"byteOffset"`
							ByteLength  uint32 `json:"byteLength"`
						} `json:"region"`
					} `json:"physicalLocation"`
				} `json:"locations"`
				RelatedLocations []json.RawMessage `json:"relatedLocations"`
				Fixes            []struct {
					Description struct {
						Text string `json:"text"`
					} `json:"description"`
				} `json:"fixes"`
			} `json:"results"`
		} `json:"runs"`
	}
	if err := json.Unmarshal(buf.Bytes(), &log); err != nil {
		t.Fatalf("invalid SARIF JSON: %v\n%s", err, buf.String())
	}
	if log.Version != "2.1.0" || len(log.Runs) != 1 {
		t.Fatalf("log = %+v", log)
	}
	run := log.Runs[0]
	if run.Tool.Driver.Name != "moonwave" || len(run.Tool.Driver.Rules) != 2 {
		t.Fatalf("driver = %+v", run.Tool.Driver)
	}
	if run.Tool.Driver.Rules[0].ID != "DOC1001" || run.Tool.Driver.Rules[1].ID != "STR2002" {
		t.Errorf("rules not sorted by code: %+v", run.Tool.Driver.Rules)
	}
	if len(run.Results) != 2 {
		t.Fatalf("results = %+v", run.Results)
	}
	first := run.Results[0]
	if first.RuleID != "DOC1001" || first.RuleIndex != 0 || first.Level != "error" {
		t.Errorf("result = %+v", first)
	}
	loc := first.Locations[0].PhysicalLocation
	if loc.ArtifactLocation.URI != "src/Signal.lua" || loc.Region.StartLine != 3 || loc.Region.StartColumn != 2 ||
		loc.Region.ByteOffset != 18 || loc.Region.ByteLength != 15 {
		t.Errorf("location = %+v", loc)
	}
	if len(first.RelatedLocations) != 1 || len(first.Fixes) != 1 || first.Fixes[0].Description.Text != "remove @field" {
		t.Errorf("notes/fixes = %d/%+v", len(first.RelatedLocations), first.Fixes)
	}
	if run.Results[1].RuleIndex != 1 {
		t.Errorf("second result rule index = %d", run.Results[1].RuleIndex)
	}
}
