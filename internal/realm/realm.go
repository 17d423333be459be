// Package realm models the execution contexts a documented API is available
// in.
package realm

import (
	"encoding/json"
	"fmt"

	"github.com/vmihailenco/msgpack/v5"
	"gopkg.in/yaml.v3"
)

// Realm is an execution context. The numeric order is the serialization
// order: Server sorts before Client.
type Realm uint8

const (
	Server Realm = iota
	Client

	numRealms
)

func (r Realm) String() string {
	switch r {
	case Server:
		return "Server"
	case Client:
		return "Client"
	}
	return fmt.Sprintf("Realm(%d)", uint8(r))
}

// Parse converts a realm name ("Server", "Client") into a Realm.
func Parse(name string) (Realm, error) {
	switch name {
	case "Server", "server":
		return Server, nil
	case "Client", "client":
		return Client, nil
	}
	return 0, fmt.Errorf("unknown realm %q", name)
}

// Set is a deduplicating set of realms. The zero value is empty and ready to
// use. Iteration and serialization always follow the Realm order, whatever
// the insertion order was.
type Set struct {
	bits uint8
}

// Of builds a Set from rs.
func Of(rs ...Realm) Set {
	var s Set
	for _, r := range rs {
		s.Insert(r)
	}
	return s
}

// Insert adds r. Inserting an existing realm is a no-op.
// It reports whether the set changed.
func (s *Set) Insert(r Realm) bool {
	if r >= numRealms {
		panic(fmt.Sprintf("realm: invalid realm %d", uint8(r)))
	}
	bit := uint8(1) << r
	if s.bits&bit != 0 {
		return false
	}
	s.bits |= bit
	return true
}

func (s Set) Has(r Realm) bool {
	return r < numRealms && s.bits&(uint8(1)<<r) != 0
}

func (s Set) Len() int {
	n := 0
	for r := Realm(0); r < numRealms; r++ {
		if s.Has(r) {
			n++
		}
	}
	return n
}

func (s Set) Empty() bool {
	return s.bits == 0
}

// Items returns the members in Realm order.
func (s Set) Items() []Realm {
	out := make([]Realm, 0, numRealms)
	for r := Realm(0); r < numRealms; r++ {
		if s.Has(r) {
			out = append(out, r)
		}
	}
	return out
}

func (s Set) names() []string {
	items := s.Items()
	out := make([]string, len(items))
	for i, r := range items {
		out[i] = r.String()
	}
	return out
}

func (s *Set) setNames(names []string) error {
	var next Set
	for _, name := range names {
		r, err := Parse(name)
		if err != nil {
			return err
		}
		next.Insert(r)
	}
	*s = next
	return nil
}

func (s Set) MarshalJSON() ([]byte, error) {
	return json.Marshal(s.names())
}

func (s *Set) UnmarshalJSON(data []byte) error {
	var names []string
	if err := json.Unmarshal(data, &names); err != nil {
		return err
	}
	return s.setNames(names)
}

func (s Set) MarshalYAML() (interface{}, error) {
	return s.names(), nil
}

func (s *Set) UnmarshalYAML(node *yaml.Node) error {
	var names []string
	if err := node.Decode(&names); err != nil {
		return err
	}
	return s.setNames(names)
}

var (
	_ msgpack.CustomEncoder = Set{}
	_ msgpack.CustomDecoder = (*Set)(nil)
)

func (s Set) EncodeMsgpack(enc *msgpack.Encoder) error {
	return enc.Encode(s.names())
}

func (s *Set) DecodeMsgpack(dec *msgpack.Decoder) error {
	var names []string
	if err := dec.Decode(&names); err != nil {
		return err
	}
	return s.setNames(names)
}
