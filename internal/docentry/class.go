package docentry

import (
	"moonwave/internal/comment"
	"moonwave/internal/realm"
	"moonwave/internal/tags"
)

// ClassEntry documents a class. Classes are the containers other entries are
// "within", so they carry no Within of their own.
type ClassEntry struct {
	Name       string             `json:"name" yaml:"name" msgpack:"name"`
	Desc       string             `json:"desc" yaml:"desc" msgpack:"desc"`
	CustomTags []tags.CustomTag   `json:"tags" yaml:"tags" msgpack:"tags"`
	Externals  []tags.ExternalTag `json:"external_types" yaml:"external_types" msgpack:"external_types"`
	Index      bool               `json:"__index" yaml:"__index" msgpack:"__index"`

	Realm      realm.Set `json:"realm" yaml:"realm" msgpack:"realm"`
	Private    bool      `json:"private" yaml:"private" msgpack:"private"`
	Unreleased bool      `json:"unreleased" yaml:"unreleased" msgpack:"unreleased"`
	Ignore     bool      `json:"ignore" yaml:"ignore" msgpack:"ignore"`

	Since      *string             `json:"since,omitempty" yaml:"since,omitempty" msgpack:"since,omitempty"`
	Deprecated *tags.DeprecatedTag `json:"deprecated,omitempty" yaml:"deprecated,omitempty" msgpack:"deprecated,omitempty"`

	Source comment.ID `json:"-" yaml:"-" msgpack:"-"`
}

// ParseClass builds a ClassEntry from args. args.Within is ignored.
func ParseClass(args Args) (*ClassEntry, error) {
	f, err := build(args, KindClass)
	if err != nil {
		return nil, err
	}
	return &ClassEntry{
		Name:       args.Name,
		Desc:       args.Desc,
		CustomTags: f.custom,
		Externals:  f.externals,
		Index:      f.index,
		Realm:      f.realm,
		Private:    f.private,
		Unreleased: f.unreleased,
		Ignore:     f.ignore,
		Since:      f.since,
		Deprecated: f.deprecated,
		Source:     args.Source,
	}, nil
}

func (e *ClassEntry) EntryKind() DeclKind { return KindClass }
func (e *ClassEntry) EntryName() string   { return e.Name }
func (e *ClassEntry) Comment() comment.ID { return e.Source }
