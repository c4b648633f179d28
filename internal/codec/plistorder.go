package codec

import (
	"bytes"
	"encoding/xml"
	"io"
)

// keyOrder mirrors the dict and array nesting of an XML property list.
// For a dict, keys holds the keys in document order and children the
// node of each key's value; for an array, children holds one node per
// element. Scalars have a nil node.
type keyOrder struct {
	keys     []string
	children []*keyOrder
}

// child returns the node of the last value stored under key, matching the
// decoder, which keeps the last of repeated keys.
func (o *keyOrder) child(key string) *keyOrder {
	if o == nil || len(o.keys) != len(o.children) {
		return nil
	}
	for i := len(o.keys) - 1; i >= 0; i-- {
		if o.keys[i] == key {
			return o.children[i]
		}
	}
	return nil
}

func (o *keyOrder) item(i int) *keyOrder {
	if o == nil || i >= len(o.children) {
		return nil
	}
	return o.children[i]
}

// scanKeyOrder records the dict key order of an XML property list. It
// returns nil when the document cannot be walked; callers then fall back
// to sorted keys.
func scanKeyOrder(data []byte) *keyOrder {
	dec := xml.NewDecoder(bytes.NewReader(data))
	var (
		root  *keyOrder
		stack []*keyOrder
	)
	attach := func(n *keyOrder) {
		if len(stack) == 0 {
			if root == nil {
				root = n
			}
			return
		}
		parent := stack[len(stack)-1]
		parent.children = append(parent.children, n)
	}

	for {
		tok, err := dec.Token()
		if err == io.EOF {
			return root
		}
		if err != nil {
			return nil
		}
		switch t := tok.(type) {
		case xml.StartElement:
			switch t.Name.Local {
			case "plist":
			case "dict", "array":
				n := &keyOrder{}
				attach(n)
				stack = append(stack, n)
			case "key":
				var key string
				if err := dec.DecodeElement(&key, &t); err != nil {
					return nil
				}
				if len(stack) == 0 {
					return nil
				}
				parent := stack[len(stack)-1]
				parent.keys = append(parent.keys, key)
			default:
				attach(nil)
				if err := dec.Skip(); err != nil {
					return nil
				}
			}
		case xml.EndElement:
			if (t.Name.Local == "dict" || t.Name.Local == "array") && len(stack) > 0 {
				stack = stack[:len(stack)-1]
			}
		}
	}
}
