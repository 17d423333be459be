package realm

import (
	"bytes"
	"encoding/json"
	"testing"

	"github.com/vmihailenco/msgpack/v5"
	"gopkg.in/yaml.v3"
)

func TestSetDeduplicates(t *testing.T) {
	var s Set
	if !s.Insert(Server) {
		t.Fatal("first insert should change the set")
	}
	if s.Insert(Server) {
		t.Fatal("second insert should be a no-op")
	}
	s.Insert(Client)

	if s.Len() != 2 {
		t.Fatalf("want 2 realms, got %d", s.Len())
	}
	if !s.Has(Server) || !s.Has(Client) {
		t.Fatalf("missing members: %v", s.Items())
	}
}

func TestSetOrderIndependentOfInsertion(t *testing.T) {
	a := Of(Client, Server)
	b := Of(Server, Client, Server)
	if a != b {
		t.Fatalf("sets should be equal: %v vs %v", a.Items(), b.Items())
	}
	items := a.Items()
	if len(items) != 2 || items[0] != Server || items[1] != Client {
		t.Fatalf("want [Server Client], got %v", items)
	}
}

func TestSetJSON(t *testing.T) {
	data, err := json.Marshal(Of(Client, Server))
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	if string(data) != `["Server","Client"]` {
		t.Fatalf("unexpected json %s", data)
	}

	empty, err := json.Marshal(Set{})
	if err != nil {
		t.Fatalf("marshal empty: %v", err)
	}
	if string(empty) != `[]` {
		t.Fatalf("empty set should encode as [], got %s", empty)
	}

	var back Set
	if err := json.Unmarshal([]byte(`["Client","Client"]`), &back); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if back != Of(Client) {
		t.Fatalf("unexpected decoded set %v", back.Items())
	}
	if err := json.Unmarshal([]byte(`["Shared"]`), &back); err == nil {
		t.Fatal("expected error for unknown realm")
	}
}

func TestSetYAMLAndMsgpack(t *testing.T) {
	in := struct {
		Realm Set `yaml:"realm" msgpack:"realm"`
	}{Realm: Of(Client)}

	y, err := yaml.Marshal(in)
	if err != nil {
		t.Fatalf("yaml marshal: %v", err)
	}
	if !bytes.Contains(y, []byte("- Client")) {
		t.Fatalf("unexpected yaml:\n%s", y)
	}
	var fromYAML struct {
		Realm Set `yaml:"realm"`
	}
	if err := yaml.Unmarshal(y, &fromYAML); err != nil {
		t.Fatalf("yaml unmarshal: %v", err)
	}
	if fromYAML.Realm != in.Realm {
		t.Fatalf("yaml round trip lost data: %v", fromYAML.Realm.Items())
	}

	m, err := msgpack.Marshal(in)
	if err != nil {
		t.Fatalf("msgpack marshal: %v", err)
	}
	var fromMsgpack struct {
		Realm Set `msgpack:"realm"`
	}
	if err := msgpack.Unmarshal(m, &fromMsgpack); err != nil {
		t.Fatalf("msgpack unmarshal: %v", err)
	}
	if fromMsgpack.Realm != in.Realm {
		t.Fatalf("msgpack round trip lost data: %v", fromMsgpack.Realm.Items())
	}
}

func TestParse(t *testing.T) {
	for _, name := range []string{"Server", "server"} {
		if r, err := Parse(name); err != nil || r != Server {
			t.Fatalf("Parse(%q) = %v, %v", name, r, err)
		}
	}
	if _, err := Parse("both"); err == nil {
		t.Fatal("expected error")
	}
}
