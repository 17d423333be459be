package docentry

import (
	"moonwave/internal/comment"
	"moonwave/internal/tags"
)

// TypeEntry documents a type alias or interface.
type TypeEntry struct {
	Name       string           `json:"name" yaml:"name" msgpack:"name"`
	Desc       string           `json:"desc" yaml:"desc" msgpack:"desc"`
	Within     string           `json:"within" yaml:"within" msgpack:"within"`
	LuaType    string           `json:"lua_type,omitempty" yaml:"lua_type,omitempty" msgpack:"lua_type,omitempty"`
	Fields     []tags.FieldTag  `json:"fields" yaml:"fields" msgpack:"fields"`
	CustomTags []tags.CustomTag `json:"tags" yaml:"tags" msgpack:"tags"`

	Private    bool `json:"private" yaml:"private" msgpack:"private"`
	Unreleased bool `json:"unreleased" yaml:"unreleased" msgpack:"unreleased"`
	Ignore     bool `json:"ignore" yaml:"ignore" msgpack:"ignore"`

	Since      *string             `json:"since,omitempty" yaml:"since,omitempty" msgpack:"since,omitempty"`
	Deprecated *tags.DeprecatedTag `json:"deprecated,omitempty" yaml:"deprecated,omitempty" msgpack:"deprecated,omitempty"`

	Source comment.ID `json:"-" yaml:"-" msgpack:"-"`
}

// ParseType builds a TypeEntry from args.
func ParseType(args Args) (*TypeEntry, error) {
	f, err := build(args, KindType)
	if err != nil {
		return nil, err
	}
	return &TypeEntry{
		Name:       args.Name,
		Desc:       args.Desc,
		Within:     args.Within,
		LuaType:    args.LuaType,
		Fields:     f.fields,
		CustomTags: f.custom,
		Private:    f.private,
		Unreleased: f.unreleased,
		Ignore:     f.ignore,
		Since:      f.since,
		Deprecated: f.deprecated,
		Source:     args.Source,
	}, nil
}

func (e *TypeEntry) EntryKind() DeclKind { return KindType }
func (e *TypeEntry) EntryName() string   { return e.Name }
func (e *TypeEntry) Comment() comment.ID { return e.Source }
