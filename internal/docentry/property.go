package docentry

import (
	"moonwave/internal/comment"
	"moonwave/internal/realm"
	"moonwave/internal/tags"
)

// PropertyEntry documents a field of a class.
type PropertyEntry struct {
	Name       string           `json:"name" yaml:"name" msgpack:"name"`
	Desc       string           `json:"desc" yaml:"desc" msgpack:"desc"`
	Within     string           `json:"within" yaml:"within" msgpack:"within"`
	LuaType    string           `json:"lua_type" yaml:"lua_type" msgpack:"lua_type"`
	CustomTags []tags.CustomTag `json:"tags" yaml:"tags" msgpack:"tags"`

	Realm      realm.Set `json:"realm" yaml:"realm" msgpack:"realm"`
	Private    bool      `json:"private" yaml:"private" msgpack:"private"`
	Unreleased bool      `json:"unreleased" yaml:"unreleased" msgpack:"unreleased"`
	ReadOnly   bool      `json:"readonly" yaml:"readonly" msgpack:"readonly"`
	Ignore     bool      `json:"ignore" yaml:"ignore" msgpack:"ignore"`

	Since      *string             `json:"since,omitempty" yaml:"since,omitempty" msgpack:"since,omitempty"`
	Deprecated *tags.DeprecatedTag `json:"deprecated,omitempty" yaml:"deprecated,omitempty" msgpack:"deprecated,omitempty"`

	Source comment.ID `json:"-" yaml:"-" msgpack:"-"`
}

// ParseProperty builds a PropertyEntry from args.
func ParseProperty(args Args) (*PropertyEntry, error) {
	f, err := build(args, KindProperty)
	if err != nil {
		return nil, err
	}
	return &PropertyEntry{
		Name:       args.Name,
		Desc:       args.Desc,
		Within:     args.Within,
		LuaType:    args.LuaType,
		CustomTags: f.custom,
		Realm:      f.realm,
		Private:    f.private,
		Unreleased: f.unreleased,
		ReadOnly:   f.readOnly,
		Ignore:     f.ignore,
		Since:      f.since,
		Deprecated: f.deprecated,
		Source:     args.Source,
	}, nil
}

func (e *PropertyEntry) EntryKind() DeclKind { return KindProperty }
func (e *PropertyEntry) EntryName() string   { return e.Name }
func (e *PropertyEntry) Comment() comment.ID { return e.Source }
