package value

import (
	"strings"
	"unicode/utf8"
)

// Normalize returns a copy of v in which every Blob has been replaced by a
// String. Blobs holding valid UTF-8 become that text; anything else
// becomes the Repr of the bytes. All other nodes keep their variant, and
// sequences and mappings keep their length and order.
func Normalize(v Value) Value {
	switch x := v.(type) {
	case Blob:
		return String(x.Text())
	case Sequence:
		out := make(Sequence, len(x))
		for i, e := range x {
			out[i] = Normalize(e)
		}
		return out
	case *Mapping:
		out := NewMapping(x.Len())
		for _, e := range x.list() {
			out.Set(e.Key, Normalize(e.Value))
		}
		return out
	default:
		// String, Integer, Real, Bool, Date, Null
		return v
	}
}

// Text returns b decoded as UTF-8, or Repr when b is not valid UTF-8.
func (b Blob) Text() string {
	if utf8.Valid(b) {
		return string(b)
	}
	return b.Repr()
}

const hexDigits = "0123456789abcdef"

// Repr renders b as a bytes literal, e.g. b'\x00\xff\x10'. Printable ASCII
// is kept, tab, newline, carriage return and backslash use their short
// escapes, and every other byte is written as \xNN. The literal is quoted
// with ' unless b contains ' and no ".
func (b Blob) Repr() string {
	quote := byte('\'')
	if strings.IndexByte(string(b), '\'') >= 0 && strings.IndexByte(string(b), '"') < 0 {
		quote = '"'
	}

	var sb strings.Builder
	sb.Grow(len(b) + 3)
	sb.WriteByte('b')
	sb.WriteByte(quote)
	for _, c := range b {
		switch {
		case c == quote || c == '\\':
			sb.WriteByte('\\')
			sb.WriteByte(c)
		case c == '\t':
			sb.WriteString(`\t`)
		case c == '\n':
			sb.WriteString(`\n`)
		case c == '\r':
			sb.WriteString(`\r`)
		case c < 0x20 || c >= 0x7f:
			sb.WriteString(`\x`)
			sb.WriteByte(hexDigits[c>>4])
			sb.WriteByte(hexDigits[c&0x0f])
		default:
			sb.WriteByte(c)
		}
	}
	sb.WriteByte(quote)
	return sb.String()
}
