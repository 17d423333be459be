package docentry

import (
	"fmt"
	"slices"
	"strings"

	"moonwave/internal/tags"
)

// DeclKind is the kind of declaration a doc comment documents.
type DeclKind string

const (
	KindFunction DeclKind = "function" // called with a dot
	KindMethod   DeclKind = "method"   // called with a colon
	KindProperty DeclKind = "property"
	KindClass    DeclKind = "class"
	KindType     DeclKind = "type"
)

// FunctionType separates functions (called with a dot) from methods (called
// with a colon).
type FunctionType string

const (
	Method FunctionType = "method"
	Static FunctionType = "static"
)

// acceptSets lists, per declaration kind, the tags an entry of that kind
// consumes. Any other tag is reported as unused.
var acceptSets = map[DeclKind]tags.KindMask{
	KindFunction: functionTags,
	KindMethod:   functionTags,
	KindProperty: tags.MaskOf(
		tags.KindDeprecated, tags.KindSince, tags.KindCustom,
		tags.KindPrivate, tags.KindUnreleased, tags.KindReadOnly, tags.KindIgnore,
		tags.KindServer, tags.KindClient,
	),
	KindClass: tags.MaskOf(
		tags.KindCustom, tags.KindExternal, tags.KindIndex,
		tags.KindDeprecated, tags.KindSince,
		tags.KindPrivate, tags.KindUnreleased, tags.KindIgnore,
		tags.KindServer, tags.KindClient,
	),
	KindType: tags.MaskOf(
		tags.KindField, tags.KindDeprecated, tags.KindSince, tags.KindCustom,
		tags.KindPrivate, tags.KindUnreleased, tags.KindIgnore,
	),
}

var functionTags = tags.MaskOf(
	tags.KindParam, tags.KindReturn, tags.KindDeprecated, tags.KindSince,
	tags.KindCustom, tags.KindError,
	tags.KindPrivate, tags.KindUnreleased, tags.KindYields, tags.KindIgnore,
	tags.KindServer, tags.KindClient,
)

// AcceptSet returns the tags entries of kind consume. Unknown kinds accept
// nothing.
func AcceptSet(kind DeclKind) tags.KindMask {
	return acceptSets[kind]
}

// Kinds returns every declaration kind, sorted by name.
func Kinds() []DeclKind {
	out := make([]DeclKind, 0, len(acceptSets))
	for k := range acceptSets {
		out = append(out, k)
	}
	slices.Sort(out)
	return out
}

// ParseDeclKind resolves a declaration kind name.
func ParseDeclKind(name string) (DeclKind, error) {
	k := DeclKind(strings.ToLower(strings.TrimSpace(name)))
	switch k {
	case "prop":
		return KindProperty, nil
	case "static":
		return KindFunction, nil
	}
	if _, ok := acceptSets[k]; !ok {
		return "", fmt.Errorf("unknown entry kind %q", name)
	}
	return k, nil
}

// noun is the word used for the kind in diagnostics.
func (k DeclKind) noun() string {
	if k == KindMethod {
		return string(KindFunction)
	}
	return string(k)
}
