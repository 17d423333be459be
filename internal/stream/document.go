// Package stream reads tag stream documents: the doc comments of one source
// file as produced by the comment parser, with their entry headers and raw
// tag records.
package stream

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/tidwall/jsonc"
	"github.com/vmihailenco/msgpack/v5"
	"gopkg.in/yaml.v3"
)

// Format is the encoding of a stream document.
type Format string

const (
	FormatJSON    Format = "json"
	FormatYAML    Format = "yaml"
	FormatMsgpack Format = "msgpack"
)

// ErrUnsupportedFormat is returned for documents whose encoding cannot be
// determined.
var ErrUnsupportedFormat = errors.New("unsupported stream document format")

// FormatFromPath picks the document format from the file extension.
func FormatFromPath(path string) (Format, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".json", ".jsonc":
		return FormatJSON, nil
	case ".yaml", ".yml":
		return FormatYAML, nil
	case ".msgpack", ".mpk":
		return FormatMsgpack, nil
	}
	return "", fmt.Errorf("%s: %w (extension %q)", path, ErrUnsupportedFormat, filepath.Ext(path))
}

// Document is the tag stream of one source file.
type Document struct {
	// Source is the path of the documented file.
	Source string `json:"source" yaml:"source" msgpack:"source"`
	// Content optionally inlines the source text. When empty the decoder
	// loads Source from disk.
	Content  string    `json:"content,omitempty" yaml:"content,omitempty" msgpack:"content,omitempty"`
	Comments []Comment `json:"comments" yaml:"comments" msgpack:"comments"`

	// Origin is the path the document was read from, if any.
	Origin string `json:"-" yaml:"-" msgpack:"-"`
}

// Comment is one doc comment: its byte range in Source, its text, the
// declaration it documents and its tags in source order.
type Comment struct {
	Start uint32           `json:"start" yaml:"start" msgpack:"start"`
	End   uint32           `json:"end" yaml:"end" msgpack:"end"`
	Text  string           `json:"text" yaml:"text" msgpack:"text"`
	Entry Header           `json:"entry" yaml:"entry" msgpack:"entry"`
	Tags  []map[string]any `json:"tags" yaml:"tags" msgpack:"tags"`
}

// Header describes the documented declaration.
type Header struct {
	Kind         string `json:"kind" yaml:"kind" msgpack:"kind"`
	FunctionType string `json:"function_type,omitempty" yaml:"function_type,omitempty" msgpack:"function_type,omitempty"`
	Name         string `json:"name" yaml:"name" msgpack:"name"`
	Desc         string `json:"desc" yaml:"desc" msgpack:"desc"`
	Within       string `json:"within,omitempty" yaml:"within,omitempty" msgpack:"within,omitempty"`
	LuaType      string `json:"lua_type,omitempty" yaml:"lua_type,omitempty" msgpack:"lua_type,omitempty"`
}

// Read decodes one document from r. JSON documents may carry // and /* */
// comments and trailing commas.
func Read(r io.Reader, format Format) (*Document, error) {
	var doc Document
	var err error
	switch format {
	case FormatJSON:
		var data []byte
		if data, err = io.ReadAll(r); err == nil {
			err = json.Unmarshal(jsonc.ToJSON(data), &doc)
		}
	case FormatYAML:
		err = yaml.NewDecoder(r).Decode(&doc)
	case FormatMsgpack:
		err = msgpack.NewDecoder(r).Decode(&doc)
	default:
		return nil, fmt.Errorf("%w %q", ErrUnsupportedFormat, format)
	}
	if err != nil {
		return nil, fmt.Errorf("decode %s stream: %w", format, err)
	}
	return &doc, nil
}

// ReadFile reads the document stored at path.
func ReadFile(path string) (*Document, error) {
	format, err := FormatFromPath(path)
	if err != nil {
		return nil, err
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	doc, err := Read(bytes.NewReader(data), format)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	doc.Origin = path
	return doc, nil
}
