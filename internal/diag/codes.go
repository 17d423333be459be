package diag

import "fmt"

// Code identifies a kind of problem. The thousands digit selects the family
// and with it the printed prefix.
type Code uint16

const (
	UnknownCode Code = 0

	// doc entry construction
	DocInfo      Code = 1000
	DocTagUnused Code = 1001

	// tag stream decoding
	StrInfo             Code = 2000
	StrMalformedTag     Code = 2001
	StrUnknownTag       Code = 2002
	StrMissingWithin    Code = 2003
	StrUnknownEntryKind Code = 2004
	StrMissingName      Code = 2005
	StrSpanOutOfRange   Code = 2006

	// input and output
	IOLoadFileError   Code = 3001
	IODecodeError     Code = 3002
	IOUnsupportedKind Code = 3003
)

var familyPrefix = map[Code]string{
	1: "DOC",
	2: "STR",
	3: "IO",
}

var codeTitles = map[Code]string{
	UnknownCode:         "Unknown error",
	DocInfo:             "Doc entry information",
	DocTagUnused:        "tag is not applicable to this entry kind",
	StrInfo:             "Tag stream information",
	StrMalformedTag:     "malformed tag record",
	StrUnknownTag:       "unknown tag name",
	StrMissingWithin:    "entry is missing its owning container",
	StrUnknownEntryKind: "unknown entry kind",
	StrMissingName:      "entry is missing a name",
	StrSpanOutOfRange:   "span lies outside its source file",
	IOLoadFileError:     "I/O load file error",
	IODecodeError:       "stream document could not be decoded",
	IOUnsupportedKind:   "unsupported stream document format",
}

// ID returns the stable short form, e.g. DOC1001. Codes outside every family
// print as E0000.
func (c Code) ID() string {
	if prefix, ok := familyPrefix[c/1000]; ok {
		return fmt.Sprintf("%s%04d", prefix, uint16(c))
	}
	return "E0000"
}

// Title is the one-line description shared by every diagnostic with code c.
func (c Code) Title() string {
	if title, ok := codeTitles[c]; ok {
		return title
	}
	return codeTitles[UnknownCode]
}

func (c Code) String() string {
	return "[" + c.ID() + "]: " + c.Title()
}
