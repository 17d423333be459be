package tags

import (
	"fmt"
	"math/bits"
	"strings"
)

// Kind identifies a tag variant.
type Kind uint8

const (
	KindParam Kind = iota
	KindReturn
	KindDeprecated
	KindSince
	KindCustom
	KindError
	KindField
	KindExternal

	KindPrivate
	KindUnreleased
	KindYields
	KindIgnore
	KindServer
	KindClient
	KindReadOnly
	KindIndex

	numKinds
)

var kindNames = [numKinds]string{
	KindParam:      "param",
	KindReturn:     "return",
	KindDeprecated: "deprecated",
	KindSince:      "since",
	KindCustom:     "tag",
	KindError:      "error",
	KindField:      "field",
	KindExternal:   "external",
	KindPrivate:    "private",
	KindUnreleased: "unreleased",
	KindYields:     "yields",
	KindIgnore:     "ignore",
	KindServer:     "server",
	KindClient:     "client",
	KindReadOnly:   "readonly",
	KindIndex:      "__index",
}

// aliases accepted by ParseKind in addition to the canonical names.
var kindAliases = map[string]Kind{
	"custom":  KindCustom,
	"returns": KindReturn,
	"index":   KindIndex,
}

func (k Kind) String() string {
	if k < numKinds {
		return kindNames[k]
	}
	return fmt.Sprintf("Kind(%d)", uint8(k))
}

// IsMarker reports whether tags of this kind carry no payload.
func (k Kind) IsMarker() bool {
	return k >= KindPrivate && k < numKinds
}

// Mask returns the single-bit mask for k.
func (k Kind) Mask() KindMask {
	return KindMask(1) << k
}

// ParseKind resolves a tag name (with or without the leading '@') to a Kind.
func ParseKind(name string) (Kind, bool) {
	name = strings.ToLower(strings.TrimPrefix(strings.TrimSpace(name), "@"))
	for k, n := range kindNames {
		if n == name {
			return Kind(k), true
		}
	}
	k, ok := kindAliases[name]
	return k, ok
}

// AllKinds returns every tag kind in declaration order.
func AllKinds() []Kind {
	out := make([]Kind, 0, numKinds)
	for k := Kind(0); k < numKinds; k++ {
		out = append(out, k)
	}
	return out
}

// KindMask is a set of tag kinds. Entry builders describe the tags they
// accept with a KindMask.
type KindMask uint32

// MaskOf builds a mask from kinds.
func MaskOf(kinds ...Kind) KindMask {
	var m KindMask
	for _, k := range kinds {
		m |= k.Mask()
	}
	return m
}

// Has reports whether k is in the mask.
func (m KindMask) Has(k Kind) bool {
	return k < numKinds && m&k.Mask() != 0
}

// Len returns the number of kinds in the mask.
func (m KindMask) Len() int {
	return bits.OnesCount32(uint32(m & (KindMask(1)<<numKinds - 1)))
}

// Kinds lists the members of the mask in declaration order.
func (m KindMask) Kinds() []Kind {
	out := make([]Kind, 0, m.Len())
	for k := Kind(0); k < numKinds; k++ {
		if m.Has(k) {
			out = append(out, k)
		}
	}
	return out
}

func (m KindMask) String() string {
	names := make([]string, 0, m.Len())
	for _, k := range m.Kinds() {
		names = append(names, k.String())
	}
	return "{" + strings.Join(names, ", ") + "}"
}
