// Package codec translates between encoded documents and value trees.
package codec

import (
	"bytes"
	"sort"
	"time"

	"github.com/pkg/errors"
	"github.com/rebeccajae/plistconv/internal/value"
	"howett.net/plist"
)

// PlistFormat selects how EncodePlist writes a property list.
type PlistFormat int

const (
	PlistXML    = PlistFormat(plist.XMLFormat)
	PlistBinary = PlistFormat(plist.BinaryFormat)
)

// DecodePlist parses a binary, XML, OpenStep or GNUStep property list.
// Dictionaries of XML documents keep their document key order; other
// encodings come back with sorted keys. Empty input is an error.
func DecodePlist(data []byte) (value.Value, error) {
	if len(bytes.TrimSpace(data)) == 0 {
		return nil, errors.New("empty property list")
	}
	var raw interface{}
	format, err := plist.Unmarshal(data, &raw)
	if err != nil {
		return nil, err
	}
	var order *keyOrder
	if format == plist.XMLFormat {
		order = scanKeyOrder(data)
	}
	return fromPlist(raw, order)
}

func fromPlist(raw interface{}, order *keyOrder) (value.Value, error) {
	switch x := raw.(type) {
	case string:
		return value.String(x), nil
	case bool:
		return value.Bool(x), nil
	case uint64:
		return value.Uint(x), nil
	case int64:
		return value.Int(x), nil
	case float64:
		return value.Real(x), nil
	case float32:
		return value.Real(x), nil
	case time.Time:
		return value.Date(x), nil
	case []byte:
		return value.Blob(x), nil
	case plist.UID:
		return value.Uint(uint64(x)), nil
	case []interface{}:
		seq := make(value.Sequence, len(x))
		for i, e := range x {
			v, err := fromPlist(e, order.item(i))
			if err != nil {
				return nil, errors.Wrapf(err, "index %d", i)
			}
			seq[i] = v
		}
		return seq, nil
	case map[string]interface{}:
		m := value.NewMapping(len(x))
		for _, k := range orderedKeys(x, order) {
			v, err := fromPlist(x[k], order.child(k))
			if err != nil {
				return nil, errors.Wrapf(err, "key %q", k)
			}
			m.Set(k, v)
		}
		return m, nil
	}
	return nil, errors.Errorf("unexpected property list value of type %T", raw)
}

// EncodePlist writes v as a property list. Null has no property list
// form and is rejected.
func EncodePlist(v value.Value, format PlistFormat) ([]byte, error) {
	raw, err := toPlist(v)
	if err != nil {
		return nil, err
	}
	if format == PlistXML {
		return plist.MarshalIndent(raw, int(format), "\t")
	}
	return plist.Marshal(raw, int(format))
}

func toPlist(v value.Value) (interface{}, error) {
	switch x := v.(type) {
	case value.String:
		return string(x), nil
	case value.Bool:
		return bool(x), nil
	case value.Integer:
		if n, ok := x.Int64(); ok {
			return n, nil
		}
		u, _ := x.Uint64()
		return u, nil
	case value.Real:
		return float64(x), nil
	case value.Date:
		return x.Time().UTC(), nil
	case value.Blob:
		return []byte(x), nil
	case value.Null:
		return nil, errors.New("null has no property list representation")
	case value.Sequence:
		out := make([]interface{}, len(x))
		for i, e := range x {
			raw, err := toPlist(e)
			if err != nil {
				return nil, errors.Wrapf(err, "index %d", i)
			}
			out[i] = raw
		}
		return out, nil
	case *value.Mapping:
		out := make(map[string]interface{}, x.Len())
		for _, e := range x.Entries() {
			raw, err := toPlist(e.Value)
			if err != nil {
				return nil, errors.Wrapf(err, "key %q", e.Key)
			}
			out[e.Key] = raw
		}
		return out, nil
	}
	return nil, errors.Errorf("unexpected value of type %T", v)
}

// orderedKeys lists the keys of m in document order when order knows
// them, followed by any remaining keys sorted.
func orderedKeys(m map[string]interface{}, order *keyOrder) []string {
	keys := make([]string, 0, len(m))
	seen := make(map[string]bool, len(m))
	if order != nil {
		for _, k := range order.keys {
			if _, ok := m[k]; ok && !seen[k] {
				seen[k] = true
				keys = append(keys, k)
			}
		}
	}
	rest := make([]string, 0, len(m)-len(keys))
	for k := range m {
		if !seen[k] {
			rest = append(rest, k)
		}
	}
	sort.Strings(rest)
	return append(keys, rest...)
}
