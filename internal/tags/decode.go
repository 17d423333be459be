package tags

import (
	"errors"
	"fmt"
	"reflect"
	"sort"
	"strings"

	"github.com/mitchellh/mapstructure"
	"golang.org/x/text/unicode/norm"

	"moonwave/internal/source"
)

// ErrMarkerPayload is returned when a marker tag record carries fields.
var ErrMarkerPayload = errors.New("marker tag takes no payload")

// Decode builds the tag of the given kind from a raw payload record, as
// produced by the comment parser. Keys follow the serialized field names
// (name, lua_type, desc, version, value, url). Unknown keys and mistyped
// values are errors; strings are NFC-normalized.
func Decode(kind Kind, fields map[string]any, pos source.Span) (Tag, error) {
	switch kind {
	case KindParam:
		return decodeAs(kind, fields, ParamTag{Pos: pos})
	case KindReturn:
		return decodeAs(kind, fields, ReturnTag{Pos: pos})
	case KindDeprecated:
		return decodeAs(kind, fields, DeprecatedTag{Pos: pos})
	case KindSince:
		return decodeAs(kind, fields, SinceTag{Pos: pos})
	case KindCustom:
		return decodeAs(kind, fields, CustomTag{Pos: pos})
	case KindError:
		return decodeAs(kind, fields, ErrorTag{Pos: pos})
	case KindField:
		return decodeAs(kind, fields, FieldTag{Pos: pos})
	case KindExternal:
		return decodeAs(kind, fields, ExternalTag{Pos: pos})
	}

	if len(fields) > 0 {
		return nil, fmt.Errorf("@%s: %w (got %s)", kind, ErrMarkerPayload, strings.Join(sortedKeys(fields), ", "))
	}
	switch kind {
	case KindPrivate:
		return PrivateTag{Pos: pos}, nil
	case KindUnreleased:
		return UnreleasedTag{Pos: pos}, nil
	case KindYields:
		return YieldsTag{Pos: pos}, nil
	case KindIgnore:
		return IgnoreTag{Pos: pos}, nil
	case KindServer:
		return ServerTag{Pos: pos}, nil
	case KindClient:
		return ClientTag{Pos: pos}, nil
	case KindReadOnly:
		return ReadOnlyTag{Pos: pos}, nil
	case KindIndex:
		return IndexTag{Pos: pos}, nil
	}
	return nil, fmt.Errorf("unknown tag kind %d", uint8(kind))
}

func decodeAs[T Tag](kind Kind, fields map[string]any, t T) (Tag, error) {
	dec, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		TagName:     "json",
		ErrorUnused: true,
		DecodeHook:  normalizeStrings,
		Result:      &t,
	})
	if err != nil {
		return nil, err
	}
	if err := dec.Decode(fields); err != nil {
		return nil, fmt.Errorf("@%s: %w", kind, err)
	}
	return t, nil
}

func normalizeStrings(from, to reflect.Type, data any) (any, error) {
	if from.Kind() != reflect.String || to.Kind() != reflect.String {
		return data, nil
	}
	s, ok := data.(string)
	if !ok {
		return data, nil
	}
	return norm.NFC.String(s), nil
}

func sortedKeys(m map[string]any) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
