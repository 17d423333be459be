// Package emit writes built doc entries in the formats renderers consume.
package emit

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/vmihailenco/msgpack/v5"
	"gopkg.in/yaml.v3"

	"moonwave/internal/docentry"
)

// Format selects the output encoding.
type Format string

const (
	FormatJSON    Format = "json"
	FormatYAML    Format = "yaml"
	FormatMsgpack Format = "msgpack"
)

// ParseFormat resolves a format name.
func ParseFormat(s string) (Format, error) {
	switch f := Format(strings.ToLower(strings.TrimSpace(s))); f {
	case FormatJSON, FormatYAML, FormatMsgpack:
		return f, nil
	case "yml":
		return FormatYAML, nil
	case "":
		return FormatJSON, nil
	}
	return "", fmt.Errorf("unknown output format %q (expected json|yaml|msgpack)", s)
}

// Record wraps one entry with its kind. Exactly one payload field is set.
type Record struct {
	Kind     docentry.DeclKind       `json:"kind" yaml:"kind" msgpack:"kind"`
	Function *docentry.FunctionEntry `json:"function,omitempty" yaml:"function,omitempty" msgpack:"function,omitempty"`
	Property *docentry.PropertyEntry `json:"property,omitempty" yaml:"property,omitempty" msgpack:"property,omitempty"`
	Class    *docentry.ClassEntry    `json:"class,omitempty" yaml:"class,omitempty" msgpack:"class,omitempty"`
	Type     *docentry.TypeEntry     `json:"type,omitempty" yaml:"type,omitempty" msgpack:"type,omitempty"`
}

// Wrap builds the record for e. Methods are recorded with kind "function";
// their function_type says how they are called.
func Wrap(e docentry.Entry) (Record, error) {
	switch v := e.(type) {
	case *docentry.FunctionEntry:
		return Record{Kind: docentry.KindFunction, Function: v}, nil
	case *docentry.PropertyEntry:
		return Record{Kind: docentry.KindProperty, Property: v}, nil
	case *docentry.ClassEntry:
		return Record{Kind: docentry.KindClass, Class: v}, nil
	case *docentry.TypeEntry:
		return Record{Kind: docentry.KindType, Type: v}, nil
	}
	return Record{}, fmt.Errorf("emit: unsupported entry %T", e)
}

// Records wraps every entry, preserving order.
func Records(entries []docentry.Entry) ([]Record, error) {
	out := make([]Record, 0, len(entries))
	for _, e := range entries {
		rec, err := Wrap(e)
		if err != nil {
			return nil, err
		}
		out = append(out, rec)
	}
	return out, nil
}

// Write encodes entries to w as a single list.
func Write(w io.Writer, format Format, entries []docentry.Entry) error {
	records, err := Records(entries)
	if err != nil {
		return err
	}
	switch format {
	case FormatJSON:
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		enc.SetEscapeHTML(false)
		err = enc.Encode(records)
	case FormatYAML:
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		if err = enc.Encode(records); err == nil {
			err = enc.Close()
		}
	case FormatMsgpack:
		enc := msgpack.NewEncoder(w)
		enc.SetSortMapKeys(true)
		err = enc.Encode(records)
	default:
		return fmt.Errorf("unknown output format %q", format)
	}
	if err != nil {
		return fmt.Errorf("write %s: %w", format, err)
	}
	return nil
}
