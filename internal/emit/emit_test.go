package emit

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"

	"github.com/vmihailenco/msgpack/v5"
	"gopkg.in/yaml.v3"

	"moonwave/internal/docentry"
	"moonwave/internal/realm"
	"moonwave/internal/tags"
)

func sampleEntries(t *testing.T) []docentry.Entry {
	t.Helper()
	fn, err := docentry.ParseFunction(docentry.Args{
		Name:   "Connect",
		Desc:   "Connects a handler.",
		Within: "Signal",
		Tags: []tags.Tag{
			tags.ParamTag{Name: "fn", LuaType: "function"},
			tags.ClientTag{},
			tags.ServerTag{},
		},
	}, docentry.Method)
	if err != nil {
		t.Fatal(err)
	}
	class, err := docentry.ParseClass(docentry.Args{Name: "Signal", Tags: []tags.Tag{tags.SinceTag{Version: "0.3.0"}}})
	if err != nil {
		t.Fatal(err)
	}
	return []docentry.Entry{class, fn}
}

func TestWriteJSON(t *testing.T) {
	var buf bytes.Buffer
	if err := Write(&buf, FormatJSON, sampleEntries(t)); err != nil {
		t.Fatalf("Write: %v", err)
	}
	var got []map[string]any
	if err := json.Unmarshal(buf.Bytes(), &got); err != nil {
		t.Fatalf("invalid json: %v\n%s", err, buf.String())
	}
	if len(got) != 2 || got[0]["kind"] != "class" || got[1]["kind"] != "function" {
		t.Fatalf("records = %v", got)
	}
	class := got[0]["class"].(map[string]any)
	if class["since"] != "0.3.0" {
		t.Errorf("class since = %v", class["since"])
	}
	fn := got[1]["function"].(map[string]any)
	if fn["function_type"] != "method" {
		t.Errorf("function_type = %v", fn["function_type"])
	}
	if _, ok := got[1]["class"]; ok {
		t.Error("unset payloads must be omitted")
	}
	if !strings.Contains(buf.String(), "\n  {") {
		t.Errorf("json output is not indented:\n%s", buf.String())
	}
}

func TestWriteYAML(t *testing.T) {
	var buf bytes.Buffer
	if err := Write(&buf, FormatYAML, sampleEntries(t)); err != nil {
		t.Fatalf("Write: %v", err)
	}
	var got []struct {
		Kind     string                  `yaml:"kind"`
		Function *docentry.FunctionEntry `yaml:"function"`
	}
	if err := yaml.Unmarshal(buf.Bytes(), &got); err != nil {
		t.Fatalf("invalid yaml: %v\n%s", err, buf.String())
	}
	if len(got) != 2 || got[1].Function == nil {
		t.Fatalf("records = %+v", got)
	}
	rs := got[1].Function.Realm.Items()
	if len(rs) != 2 || rs[0] != realm.Server || rs[1] != realm.Client {
		t.Fatalf("realm = %v", rs)
	}
}

func TestWriteMsgpack(t *testing.T) {
	var buf bytes.Buffer
	if err := Write(&buf, FormatMsgpack, sampleEntries(t)); err != nil {
		t.Fatalf("Write: %v", err)
	}
	var got []Record
	if err := msgpack.Unmarshal(buf.Bytes(), &got); err != nil {
		t.Fatalf("invalid msgpack: %v", err)
	}
	if len(got) != 2 || got[0].Class == nil || got[1].Function == nil {
		t.Fatalf("records = %+v", got)
	}
	if got[1].Function.Params[0].Name != "fn" || !got[1].Function.Realm.Has(realm.Client) {
		t.Fatalf("function = %+v", got[1].Function)
	}
}

func TestWriteEmptyList(t *testing.T) {
	var buf bytes.Buffer
	if err := Write(&buf, FormatJSON, nil); err != nil {
		t.Fatalf("Write: %v", err)
	}
	if strings.TrimSpace(buf.String()) != "[]" {
		t.Fatalf("output = %q, want []", buf.String())
	}
}

func TestParseFormat(t *testing.T) {
	cases := map[string]Format{"": FormatJSON, "JSON": FormatJSON, "yml": FormatYAML, "msgpack": FormatMsgpack}
	for in, want := range cases {
		if got, err := ParseFormat(in); err != nil || got != want {
			t.Errorf("ParseFormat(%q) = %q, %v", in, got, err)
		}
	}
	if _, err := ParseFormat("xml"); err == nil {
		t.Error("expected error for xml")
	}
}
