// Package value holds the in-memory tree shared by the property list and
// JSON codecs, and the normalizer that makes such a tree JSON-safe.
package value

import (
	"math"
	"strconv"
	"time"
)

// Value is one node of a decoded document. The set of implementations is
// closed: String, Integer, Real, Bool, Date, Null, Blob, Sequence and
// *Mapping.
type Value interface {
	value()
}

// Kind names the variant of a Value.
type Kind int

const (
	KindInvalid Kind = iota
	KindString
	KindInteger
	KindReal
	KindBool
	KindDate
	KindNull
	KindBlob
	KindSequence
	KindMapping
)

var kindNames = [...]string{
	KindInvalid:  "invalid",
	KindString:   "string",
	KindInteger:  "integer",
	KindReal:     "real",
	KindBool:     "bool",
	KindDate:     "date",
	KindNull:     "null",
	KindBlob:     "blob",
	KindSequence: "sequence",
	KindMapping:  "mapping",
}

func (k Kind) String() string {
	if k < 0 || int(k) >= len(kindNames) {
		return "kind(" + strconv.Itoa(int(k)) + ")"
	}
	return kindNames[k]
}

type (
	String string
	Real   float64
	Bool   bool
	Null   struct{}
	Blob   []byte

	Sequence []Value
)

// Date is a point in time. Property lists store dates with second
// precision in UTC.
type Date time.Time

// Time returns d as a time.Time.
func (d Date) Time() time.Time { return time.Time(d) }

// Integer holds any integer a property list can carry: the whole int64
// range plus unsigned values above math.MaxInt64.
type Integer struct {
	n        int64
	u        uint64
	unsigned bool
}

// Int returns an Integer holding n.
func Int(n int64) Integer {
	return Integer{n: n}
}

// Uint returns an Integer holding u.
func Uint(u uint64) Integer {
	if u <= math.MaxInt64 {
		return Integer{n: int64(u)}
	}
	return Integer{u: u, unsigned: true}
}

// Int64 reports i as an int64 and whether it fits.
func (i Integer) Int64() (int64, bool) {
	if i.unsigned {
		return 0, false
	}
	return i.n, true
}

// Uint64 reports i as a uint64 and whether it fits.
func (i Integer) Uint64() (uint64, bool) {
	if i.unsigned {
		return i.u, true
	}
	if i.n < 0 {
		return 0, false
	}
	return uint64(i.n), true
}

func (i Integer) String() string {
	if i.unsigned {
		return strconv.FormatUint(i.u, 10)
	}
	return strconv.FormatInt(i.n, 10)
}

func (String) value()   {}
func (Integer) value()  {}
func (Real) value()     {}
func (Bool) value()     {}
func (Date) value()     {}
func (Null) value()     {}
func (Blob) value()     {}
func (Sequence) value() {}
func (*Mapping) value() {}

// KindOf returns the variant of v. A nil Value is KindInvalid.
func KindOf(v Value) Kind {
	switch v.(type) {
	case String:
		return KindString
	case Integer:
		return KindInteger
	case Real:
		return KindReal
	case Bool:
		return KindBool
	case Date:
		return KindDate
	case Null:
		return KindNull
	case Blob:
		return KindBlob
	case Sequence:
		return KindSequence
	case *Mapping:
		return KindMapping
	}
	return KindInvalid
}

// Equal reports whether a and b are the same tree. Mapping order matters.
func Equal(a, b Value) bool {
	switch x := a.(type) {
	case String, Integer, Bool, Null:
		return a == b
	case Real:
		y, ok := b.(Real)
		return ok && (x == y || (math.IsNaN(float64(x)) && math.IsNaN(float64(y))))
	case Date:
		y, ok := b.(Date)
		return ok && x.Time().Equal(y.Time())
	case Blob:
		y, ok := b.(Blob)
		return ok && string(x) == string(y)
	case Sequence:
		y, ok := b.(Sequence)
		if !ok || len(x) != len(y) {
			return false
		}
		for i := range x {
			if !Equal(x[i], y[i]) {
				return false
			}
		}
		return true
	case *Mapping:
		y, ok := b.(*Mapping)
		if !ok || x.Len() != y.Len() {
			return false
		}
		for i, e := range x.list() {
			f := y.list()[i]
			if e.Key != f.Key || !Equal(e.Value, f.Value) {
				return false
			}
		}
		return true
	}
	return a == nil && b == nil
}

// Depth returns how deeply v nests. Scalars and blobs have depth 1, an
// empty sequence or mapping too.
func Depth(v Value) int {
	deepest := 0
	switch x := v.(type) {
	case Sequence:
		for _, e := range x {
			if d := Depth(e); d > deepest {
				deepest = d
			}
		}
	case *Mapping:
		for _, e := range x.list() {
			if d := Depth(e.Value); d > deepest {
				deepest = d
			}
		}
	}
	return deepest + 1
}
