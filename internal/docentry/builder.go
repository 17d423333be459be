package docentry

import (
	"fmt"

	"moonwave/internal/comment"
	"moonwave/internal/diag"
	"moonwave/internal/realm"
	"moonwave/internal/tags"
)

// Args carries the base fields of an entry together with the tags of its
// doc comment, in source order.
type Args struct {
	Name string
	Desc string
	// Within names the owning class. Required for every kind but classes;
	// callers validate its presence before building.
	Within string
	// LuaType is the declared type of a property or type entry.
	LuaType string
	Tags    []tags.Tag
	Source  comment.ID
}

// fields accumulates tag payloads for any declaration kind. Each entry type
// copies out the subset it exposes.
type fields struct {
	params    []tags.ParamTag
	returns   []tags.ReturnTag
	custom    []tags.CustomTag
	errors    []tags.ErrorTag
	fields    []tags.FieldTag
	externals []tags.ExternalTag

	realm realm.Set

	private    bool
	unreleased bool
	yields     bool
	ignore     bool
	readOnly   bool
	index      bool

	since      *string
	deprecated *tags.DeprecatedTag
}

func newFields() fields {
	return fields{
		params:    []tags.ParamTag{},
		returns:   []tags.ReturnTag{},
		custom:    []tags.CustomTag{},
		errors:    []tags.ErrorTag{},
		fields:    []tags.FieldTag{},
		externals: []tags.ExternalTag{},
	}
}

// apply stores one tag. Every tag variant has a case; the default branch is
// only reached by a variant added to package tags without a case here, and
// such a tag is treated as unused.
func (f *fields) apply(tag tags.Tag) bool {
	switch t := tag.(type) {
	case tags.ParamTag:
		f.params = append(f.params, t)
	case tags.ReturnTag:
		f.returns = append(f.returns, t)
	case tags.DeprecatedTag:
		f.deprecated = &t
	case tags.SinceTag:
		v := t.Version
		f.since = &v
	case tags.CustomTag:
		f.custom = append(f.custom, t)
	case tags.ErrorTag:
		f.errors = append(f.errors, t)
	case tags.FieldTag:
		f.fields = append(f.fields, t)
	case tags.ExternalTag:
		f.externals = append(f.externals, t)

	case tags.PrivateTag:
		f.private = true
	case tags.UnreleasedTag:
		f.unreleased = true
	case tags.YieldsTag:
		f.yields = true
	case tags.IgnoreTag:
		f.ignore = true
	case tags.ReadOnlyTag:
		f.readOnly = true
	case tags.IndexTag:
		f.index = true

	case tags.ServerTag:
		f.realm.Insert(realm.Server)
	case tags.ClientTag:
		f.realm.Insert(realm.Client)

	default:
		return false
	}
	return true
}

// build runs the tag dispatch for kind. Tags outside the kind's accept set
// are collected rather than applied; when any were found, build returns one
// diagnostic per such tag, in source order, as a diag.Diagnostics error.
func build(args Args, kind DeclKind) (fields, error) {
	accept := AcceptSet(kind)
	f := newFields()

	var unused []int
	for i, tag := range args.Tags {
		if tag == nil {
			continue
		}
		if !accept.Has(tag.Kind()) || !f.apply(tag) {
			unused = append(unused, i)
		}
	}

	if len(unused) > 0 {
		msg := fmt.Sprintf("This tag is unused by %s doc entries.", kind.noun())
		ds := make([]diag.Diagnostic, 0, len(unused))
		for _, i := range unused {
			tag := args.Tags[i]
			name := "@" + tag.Kind().String()
			// Tags without offsets share the comment span; the note tells
			// them apart.
			d := tags.Diagnostic(tag, diag.DocTagUnused, msg).
				WithNote(tag.Span(), fmt.Sprintf("%s is tag %d of %d in this comment", name, i+1, len(args.Tags))).
				WithFix("remove "+name, diag.FixEdit{Span: tag.Span()})
			ds = append(ds, d)
		}
		return fields{}, diag.Collect(ds)
	}
	return f, nil
}
