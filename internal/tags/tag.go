// Package tags defines the closed set of doc-comment tags produced by the
// comment parser and consumed by the doc-entry builders.
//
// Every variant implements Tag. The interface is sealed, so the set of
// variants is exactly the types declared here and each one reports a Kind.
// Payload fields serialize with the key names renderers expect; the source
// position (Pos) is never serialized.
package tags

import (
	"moonwave/internal/source"
)

// Tag is one annotation extracted from a doc comment.
type Tag interface {
	Kind() Kind
	Span() source.Span
	isTag()
}

// ParamTag documents one parameter (@param name type -- desc).
type ParamTag struct {
	Name    string      `json:"name" yaml:"name" msgpack:"name"`
	LuaType string      `json:"lua_type" yaml:"lua_type" msgpack:"lua_type"`
	Desc    string      `json:"desc" yaml:"desc" msgpack:"desc"`
	Pos     source.Span `json:"-" yaml:"-" msgpack:"-"`
}

// ReturnTag documents one return value (@return type -- desc).
type ReturnTag struct {
	LuaType string      `json:"lua_type" yaml:"lua_type" msgpack:"lua_type"`
	Desc    string      `json:"desc" yaml:"desc" msgpack:"desc"`
	Pos     source.Span `json:"-" yaml:"-" msgpack:"-"`
}

// DeprecatedTag marks an API as deprecated since Version.
type DeprecatedTag struct {
	Version string      `json:"version" yaml:"version" msgpack:"version"`
	Desc    string      `json:"desc,omitempty" yaml:"desc,omitempty" msgpack:"desc,omitempty"`
	Pos     source.Span `json:"-" yaml:"-" msgpack:"-"`
}

// SinceTag records the version an API was introduced in.
type SinceTag struct {
	Version string      `json:"version" yaml:"version" msgpack:"version"`
	Pos     source.Span `json:"-" yaml:"-" msgpack:"-"`
}

// CustomTag is a free-form @tag label with an optional value.
type CustomTag struct {
	Name  string      `json:"name" yaml:"name" msgpack:"name"`
	Value string      `json:"value,omitempty" yaml:"value,omitempty" msgpack:"value,omitempty"`
	Pos   source.Span `json:"-" yaml:"-" msgpack:"-"`
}

// ErrorTag documents an error a function may raise.
type ErrorTag struct {
	LuaType string      `json:"lua_type" yaml:"lua_type" msgpack:"lua_type"`
	Desc    string      `json:"desc" yaml:"desc" msgpack:"desc"`
	Pos     source.Span `json:"-" yaml:"-" msgpack:"-"`
}

// FieldTag documents one field of a table type or interface.
type FieldTag struct {
	Name    string      `json:"name" yaml:"name" msgpack:"name"`
	LuaType string      `json:"lua_type" yaml:"lua_type" msgpack:"lua_type"`
	Desc    string      `json:"desc" yaml:"desc" msgpack:"desc"`
	Pos     source.Span `json:"-" yaml:"-" msgpack:"-"`
}

// ExternalTag links a type name used by a class to external documentation.
type ExternalTag struct {
	Name string      `json:"name" yaml:"name" msgpack:"name"`
	URL  string      `json:"url" yaml:"url" msgpack:"url"`
	Pos  source.Span `json:"-" yaml:"-" msgpack:"-"`
}

// PrivateTag hides an entry from public docs.
type PrivateTag struct {
	Pos source.Span `json:"-"`
}

// UnreleasedTag marks an entry as not yet released.
type UnreleasedTag struct {
	Pos source.Span `json:"-"`
}

// YieldsTag marks a function that may yield the calling thread.
type YieldsTag struct {
	Pos source.Span `json:"-"`
}

// IgnoreTag drops an entry from the generated docs.
type IgnoreTag struct {
	Pos source.Span `json:"-"`
}

// ServerTag marks an entry as available on the server realm.
type ServerTag struct {
	Pos source.Span `json:"-"`
}

// ClientTag marks an entry as available on the client realm.
type ClientTag struct {
	Pos source.Span `json:"-"`
}

// ReadOnlyTag marks a property that callers must not assign.
type ReadOnlyTag struct {
	Pos source.Span `json:"-"`
}

// IndexTag marks a class whose metatable __index points at itself.
type IndexTag struct {
	Pos source.Span `json:"-"`
}

func (ParamTag) Kind() Kind      { return KindParam }
func (ReturnTag) Kind() Kind     { return KindReturn }
func (DeprecatedTag) Kind() Kind { return KindDeprecated }
func (SinceTag) Kind() Kind      { return KindSince }
func (CustomTag) Kind() Kind     { return KindCustom }
func (ErrorTag) Kind() Kind      { return KindError }
func (FieldTag) Kind() Kind      { return KindField }
func (ExternalTag) Kind() Kind   { return KindExternal }
func (PrivateTag) Kind() Kind    { return KindPrivate }
func (UnreleasedTag) Kind() Kind { return KindUnreleased }
func (YieldsTag) Kind() Kind     { return KindYields }
func (IgnoreTag) Kind() Kind     { return KindIgnore }
func (ServerTag) Kind() Kind     { return KindServer }
func (ClientTag) Kind() Kind     { return KindClient }
func (ReadOnlyTag) Kind() Kind   { return KindReadOnly }
func (IndexTag) Kind() Kind      { return KindIndex }

func (t ParamTag) Span() source.Span      { return t.Pos }
func (t ReturnTag) Span() source.Span     { return t.Pos }
func (t DeprecatedTag) Span() source.Span { return t.Pos }
func (t SinceTag) Span() source.Span      { return t.Pos }
func (t CustomTag) Span() source.Span     { return t.Pos }
func (t ErrorTag) Span() source.Span      { return t.Pos }
func (t FieldTag) Span() source.Span      { return t.Pos }
func (t ExternalTag) Span() source.Span   { return t.Pos }
func (t PrivateTag) Span() source.Span    { return t.Pos }
func (t UnreleasedTag) Span() source.Span { return t.Pos }
func (t YieldsTag) Span() source.Span     { return t.Pos }
func (t IgnoreTag) Span() source.Span     { return t.Pos }
func (t ServerTag) Span() source.Span     { return t.Pos }
func (t ClientTag) Span() source.Span     { return t.Pos }
func (t ReadOnlyTag) Span() source.Span   { return t.Pos }
func (t IndexTag) Span() source.Span      { return t.Pos }

func (ParamTag) isTag()      {}
func (ReturnTag) isTag()     {}
func (DeprecatedTag) isTag() {}
func (SinceTag) isTag()      {}
func (CustomTag) isTag()     {}
func (ErrorTag) isTag()      {}
func (FieldTag) isTag()      {}
func (ExternalTag) isTag()   {}
func (PrivateTag) isTag()    {}
func (UnreleasedTag) isTag() {}
func (YieldsTag) isTag()     {}
func (IgnoreTag) isTag()     {}
func (ServerTag) isTag()     {}
func (ClientTag) isTag()     {}
func (ReadOnlyTag) isTag()   {}
func (IndexTag) isTag()      {}
