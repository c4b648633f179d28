package codec

import (
	"bytes"
	"io"
	"math"
	"strconv"
	"strings"
	"time"

	"github.com/goccy/go-json"
	"github.com/pkg/errors"
	"github.com/rebeccajae/plistconv/internal/value"
)

// DecodeJSON parses a single JSON document. Object keys keep their order;
// a repeated key keeps its first position and takes its last value.
// Integers too large for 64 bits become reals. Invalid UTF-8 and lone
// surrogate escapes such as "\ud800" in strings decode as U+FFFD.
func DecodeJSON(data []byte) (value.Value, error) {
	if !json.Valid(data) {
		var discard interface{}
		if err := json.Unmarshal(data, &discard); err != nil {
			return nil, err
		}
		return nil, errors.New("invalid JSON document")
	}

	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()

	v, err := decodeJSONValue(dec)
	if err != nil {
		return nil, err
	}
	tok, err := dec.Token()
	switch {
	case err == io.EOF:
		return v, nil
	case err != nil:
		return nil, err
	}
	return nil, errors.Errorf("unexpected %v after top-level value", tok)
}

func decodeJSONValue(dec *json.Decoder) (value.Value, error) {
	tok, err := dec.Token()
	if err == io.EOF {
		return nil, io.ErrUnexpectedEOF
	}
	if err != nil {
		return nil, err
	}

	switch t := tok.(type) {
	case json.Delim:
		switch t {
		case '[':
			return decodeJSONArray(dec)
		case '{':
			return decodeJSONObject(dec)
		}
		return nil, errors.Errorf("unexpected %q", rune(t))
	case string:
		return value.String(t), nil
	case bool:
		return value.Bool(t), nil
	case nil:
		return value.Null{}, nil
	case json.Number:
		return parseJSONNumber(string(t))
	case float64:
		return value.Real(t), nil
	}
	return nil, errors.Errorf("unexpected token %v", tok)
}

func decodeJSONArray(dec *json.Decoder) (value.Value, error) {
	seq := value.Sequence{}
	for dec.More() {
		v, err := decodeJSONValue(dec)
		if err != nil {
			return nil, errors.Wrapf(err, "index %d", len(seq))
		}
		seq = append(seq, v)
	}
	if _, err := dec.Token(); err != nil {
		return nil, err
	}
	return seq, nil
}

func decodeJSONObject(dec *json.Decoder) (value.Value, error) {
	m := value.NewMapping(0)
	for dec.More() {
		tok, err := dec.Token()
		if err != nil {
			return nil, err
		}
		key, ok := tok.(string)
		if !ok {
			return nil, errors.Errorf("object key must be a string, got %v", tok)
		}
		v, err := decodeJSONValue(dec)
		if err != nil {
			return nil, errors.Wrapf(err, "key %q", key)
		}
		m.Set(key, v)
	}
	if _, err := dec.Token(); err != nil {
		return nil, err
	}
	return m, nil
}

func parseJSONNumber(s string) (value.Value, error) {
	if !strings.ContainsAny(s, ".eE") {
		if n, err := strconv.ParseInt(s, 10, 64); err == nil {
			return value.Int(n), nil
		}
		if u, err := strconv.ParseUint(s, 10, 64); err == nil {
			return value.Uint(u), nil
		}
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return nil, errors.Wrapf(err, "number %s", s)
	}
	return value.Real(f), nil
}

// EncodeJSON writes v as JSON followed by a newline. Each nesting level is
// indented by indent; an empty indent gives compact output. Dates are
// written as RFC 3339 strings in UTC. Blobs, NaN and infinities are
// rejected, so callers should Normalize first.
func EncodeJSON(v value.Value, indent string) ([]byte, error) {
	var compact bytes.Buffer
	if err := encodeJSONValue(&compact, v); err != nil {
		return nil, err
	}
	if indent == "" {
		compact.WriteByte('\n')
		return compact.Bytes(), nil
	}
	var out bytes.Buffer
	if err := json.Indent(&out, compact.Bytes(), "", indent); err != nil {
		return nil, err
	}
	out.WriteByte('\n')
	return out.Bytes(), nil
}

func encodeJSONValue(buf *bytes.Buffer, v value.Value) error {
	switch x := v.(type) {
	case value.String:
		return encodeJSONString(buf, string(x))
	case value.Integer:
		buf.WriteString(x.String())
	case value.Real:
		f := float64(x)
		if math.IsNaN(f) || math.IsInf(f, 0) {
			return errors.Errorf("%v has no JSON representation", f)
		}
		s := strconv.FormatFloat(f, 'g', -1, 64)
		if !strings.ContainsAny(s, ".eE") {
			s += ".0"
		}
		buf.WriteString(s)
	case value.Bool:
		buf.WriteString(strconv.FormatBool(bool(x)))
	case value.Null:
		buf.WriteString("null")
	case value.Date:
		return encodeJSONString(buf, x.Time().UTC().Format(time.RFC3339))
	case value.Blob:
		return errors.New("blob has no JSON representation")
	case value.Sequence:
		buf.WriteByte('[')
		for i, e := range x {
			if i > 0 {
				buf.WriteByte(',')
			}
			if err := encodeJSONValue(buf, e); err != nil {
				return errors.Wrapf(err, "index %d", i)
			}
		}
		buf.WriteByte(']')
	case *value.Mapping:
		buf.WriteByte('{')
		for i, e := range x.Entries() {
			if i > 0 {
				buf.WriteByte(',')
			}
			if err := encodeJSONString(buf, e.Key); err != nil {
				return err
			}
			buf.WriteByte(':')
			if err := encodeJSONValue(buf, e.Value); err != nil {
				return errors.Wrapf(err, "key %q", e.Key)
			}
		}
		buf.WriteByte('}')
	default:
		return errors.Errorf("unexpected value of type %T", v)
	}
	return nil
}

func encodeJSONString(buf *bytes.Buffer, s string) error {
	b, err := json.MarshalWithOption(s, json.DisableHTMLEscape())
	if err != nil {
		return err
	}
	buf.Write(b)
	return nil
}
