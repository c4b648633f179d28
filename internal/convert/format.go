package convert

import (
	"strings"

	"github.com/pkg/errors"
)

// Format is a document encoding the pipeline reads or writes.
type Format int

const (
	FormatUnknown Format = iota
	// FormatJSON is JSON text.
	FormatJSON
	// FormatXML is an XML property list. As an input it accepts any
	// property list encoding.
	FormatXML
	// FormatBinary is a binary property list. As an input it accepts any
	// property list encoding.
	FormatBinary
)

// ParseFormat maps a format name to a Format. "plist" is an alias for
// "xml". Case is ignored.
func ParseFormat(name string) (Format, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "json":
		return FormatJSON, nil
	case "xml", "plist":
		return FormatXML, nil
	case "binary", "bplist":
		return FormatBinary, nil
	}
	return FormatUnknown, errors.Errorf("unknown format %q", name)
}

func (f Format) String() string {
	switch f {
	case FormatJSON:
		return "json"
	case FormatXML:
		return "xml"
	case FormatBinary:
		return "binary"
	}
	return "unknown"
}

func (f Format) isPlist() bool {
	return f == FormatXML || f == FormatBinary
}

func (f Format) valid() bool {
	return f == FormatJSON || f.isPlist()
}
