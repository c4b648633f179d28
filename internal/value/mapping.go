package value

// Entry is one key/value pair of a Mapping.
type Entry struct {
	Key   string
	Value Value
}

// Mapping is a string-keyed collection that remembers insertion order.
// The zero value is an empty mapping ready to use.
type Mapping struct {
	entries []Entry
	index   map[string]int
}

// NewMapping returns an empty mapping with room for n entries.
func NewMapping(n int) *Mapping {
	return &Mapping{
		entries: make([]Entry, 0, n),
		index:   make(map[string]int, n),
	}
}

// Len returns the number of entries.
func (m *Mapping) Len() int {
	if m == nil {
		return 0
	}
	return len(m.entries)
}

// Set stores v under key. A new key goes last; an existing key keeps its
// position.
func (m *Mapping) Set(key string, v Value) {
	if m.index == nil {
		m.index = make(map[string]int)
	}
	if i, ok := m.index[key]; ok {
		m.entries[i].Value = v
		return
	}
	m.index[key] = len(m.entries)
	m.entries = append(m.entries, Entry{Key: key, Value: v})
}

// Get returns the value stored under key.
func (m *Mapping) Get(key string) (Value, bool) {
	if m == nil {
		return nil, false
	}
	i, ok := m.index[key]
	if !ok {
		return nil, false
	}
	return m.entries[i].Value, true
}

// Delete removes key, keeping the order of the remaining entries.
func (m *Mapping) Delete(key string) {
	if m == nil {
		return
	}
	i, ok := m.index[key]
	if !ok {
		return
	}
	m.entries = append(m.entries[:i], m.entries[i+1:]...)
	delete(m.index, key)
	for j := i; j < len(m.entries); j++ {
		m.index[m.entries[j].Key] = j
	}
}

// Keys returns the keys in insertion order.
func (m *Mapping) Keys() []string {
	keys := make([]string, 0, m.Len())
	if m == nil {
		return keys
	}
	for _, e := range m.entries {
		keys = append(keys, e.Key)
	}
	return keys
}

// Entries returns a copy of the entries in insertion order.
func (m *Mapping) Entries() []Entry {
	if m == nil {
		return nil
	}
	out := make([]Entry, len(m.entries))
	copy(out, m.entries)
	return out
}

func (m *Mapping) list() []Entry {
	if m == nil {
		return nil
	}
	return m.entries
}
