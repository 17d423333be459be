package docentry

import (
	"moonwave/internal/comment"
	"moonwave/internal/realm"
	"moonwave/internal/tags"
)

// FunctionEntry documents a function or method.
type FunctionEntry struct {
	Name         string           `json:"name" yaml:"name" msgpack:"name"`
	Desc         string           `json:"desc" yaml:"desc" msgpack:"desc"`
	Within       string           `json:"within" yaml:"within" msgpack:"within"`
	Params       []tags.ParamTag  `json:"params" yaml:"params" msgpack:"params"`
	Returns      []tags.ReturnTag `json:"returns" yaml:"returns" msgpack:"returns"`
	CustomTags   []tags.CustomTag `json:"tags" yaml:"tags" msgpack:"tags"`
	Errors       []tags.ErrorTag  `json:"errors" yaml:"errors" msgpack:"errors"`
	FunctionType FunctionType     `json:"function_type" yaml:"function_type" msgpack:"function_type"`

	Realm      realm.Set `json:"realm" yaml:"realm" msgpack:"realm"`
	Private    bool      `json:"private" yaml:"private" msgpack:"private"`
	Unreleased bool      `json:"unreleased" yaml:"unreleased" msgpack:"unreleased"`
	Yields     bool      `json:"yields" yaml:"yields" msgpack:"yields"`
	Ignore     bool      `json:"ignore" yaml:"ignore" msgpack:"ignore"`

	Since      *string             `json:"since,omitempty" yaml:"since,omitempty" msgpack:"since,omitempty"`
	Deprecated *tags.DeprecatedTag `json:"deprecated,omitempty" yaml:"deprecated,omitempty" msgpack:"deprecated,omitempty"`

	Source comment.ID `json:"-" yaml:"-" msgpack:"-"`
}

// ParseFunction builds a FunctionEntry from args.
func ParseFunction(args Args, ft FunctionType) (*FunctionEntry, error) {
	kind := KindFunction
	if ft == Method {
		kind = KindMethod
	}
	f, err := build(args, kind)
	if err != nil {
		return nil, err
	}
	return &FunctionEntry{
		Name:         args.Name,
		Desc:         args.Desc,
		Within:       args.Within,
		Params:       f.params,
		Returns:      f.returns,
		CustomTags:   f.custom,
		Errors:       f.errors,
		FunctionType: ft,
		Realm:        f.realm,
		Private:      f.private,
		Unreleased:   f.unreleased,
		Yields:       f.yields,
		Ignore:       f.ignore,
		Since:        f.since,
		Deprecated:   f.deprecated,
		Source:       args.Source,
	}, nil
}

func (e *FunctionEntry) EntryKind() DeclKind {
	if e.FunctionType == Method {
		return KindMethod
	}
	return KindFunction
}

func (e *FunctionEntry) EntryName() string   { return e.Name }
func (e *FunctionEntry) Comment() comment.ID { return e.Source }
