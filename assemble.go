package unfmt

import (
	"bytes"
	"encoding/json"
	"strconv"
)

// This file owns the shape of match output: the Map and Record container
// types, the result template a pattern builds once at compile time, and
// the set-at-path routine each match uses to fill a clone of it.

// Map is an insertion-ordered string-keyed mapping. Named fields assemble
// into a Map, and '[key]' accessors create Map carriers inside nested
// results. Key order is declaration order in the format string.
type Map struct {
	keys []string
	m    map[string]any
}

func NewMap() *Map {
	return &Map{m: make(map[string]any)}
}

func (m *Map) Get(key string) (any, bool) {
	v, ok := m.m[key]
	return v, ok
}

// Set stores a value under key, appending the key to the iteration order
// the first time it is seen.
func (m *Map) Set(key string, v any) {
	if _, exists := m.m[key]; !exists {
		m.keys = append(m.keys, key)
	}
	m.m[key] = v
}

func (m *Map) Len() int {
	return len(m.keys)
}

// Keys returns the keys in insertion order.
func (m *Map) Keys() []string {
	out := make([]string, len(m.keys))
	copy(out, m.keys)
	return out
}

// Clone deep-copies the map, including nested Map, Record and slice values.
func (m *Map) Clone() *Map {
	out := &Map{
		keys: make([]string, len(m.keys)),
		m:    make(map[string]any, len(m.m)),
	}
	copy(out.keys, m.keys)
	for k, v := range m.m {
		out.m[k] = cloneValue(v)
	}
	return out
}

// MarshalJSON emits the entries in insertion order.
func (m *Map) MarshalJSON() ([]byte, error) {
	return marshalOrdered(m.keys, m.m)
}

// Record is the carrier created by '.attr' accessors: a bag of named
// attributes, ordered by declaration in the format string. It is the
// structured stand-in for "an object with these attributes set".
type Record struct {
	names []string
	m     map[string]any
}

func NewRecord() *Record {
	return &Record{m: make(map[string]any)}
}

func (r *Record) Attr(name string) (any, bool) {
	v, ok := r.m[name]
	return v, ok
}

func (r *Record) SetAttr(name string, v any) {
	if _, exists := r.m[name]; !exists {
		r.names = append(r.names, name)
	}
	r.m[name] = v
}

func (r *Record) Len() int {
	return len(r.names)
}

// Attrs returns the attribute names in insertion order.
func (r *Record) Attrs() []string {
	out := make([]string, len(r.names))
	copy(out, r.names)
	return out
}

func (r *Record) Clone() *Record {
	out := &Record{
		names: make([]string, len(r.names)),
		m:     make(map[string]any, len(r.m)),
	}
	copy(out.names, r.names)
	for k, v := range r.m {
		out.m[k] = cloneValue(v)
	}
	return out
}

func (r *Record) MarshalJSON() ([]byte, error) {
	return marshalOrdered(r.names, r.m)
}

func marshalOrdered(keys []string, m map[string]any) ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, k := range keys {
		if i > 0 {
			buf.WriteByte(',')
		}
		kb, err := json.Marshal(k)
		if err != nil {
			return nil, err
		}
		buf.Write(kb)
		buf.WriteByte(':')
		vb, err := json.Marshal(m[k])
		if err != nil {
			return nil, err
		}
		buf.Write(vb)
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

func cloneValue(v any) any {
	switch t := v.(type) {
	case *Map:
		return t.Clone()
	case *Record:
		return t.Clone()
	case []any:
		out := make([]any, len(t))
		for i, e := range t {
			out[i] = cloneValue(e)
		}
		return out
	default:
		return v
	}
}

// appendTemplatePath grows the result template so that the given accessor
// path exists with a nil leaf. Intermediate carriers are created on demand:
// a Map when the next accessor is an item, a Record when it is an
// attribute. Two fields may share a prefix of their paths; they conflict
// when one field's leaf sits where another needs a carrier, or when two
// fields require carriers of different kinds at the same slot.
func appendTemplatePath(format string, pos int, root *Map, path []accessor) error {
	var cur any = root

	for i, acc := range path {
		last := i == len(path)-1

		child, exists := templateChild(cur, acc)
		if acc.kind == accessAttr {
			if _, ok := cur.(*Record); !ok {
				return malformedf(format, pos, "attribute %q applied to a keyed destination", acc.key)
			}
		}

		if last {
			if exists && child != nil {
				return malformedf(format, pos, "field destination %q conflicts with a nested destination", acc.key)
			}
			templateSet(cur, acc, nil)
			return nil
		}

		if !exists {
			var carrier any
			if path[i+1].kind == accessAttr {
				carrier = NewRecord()
			} else {
				carrier = NewMap()
			}
			templateSet(cur, acc, carrier)
			cur = carrier
			continue
		}

		switch next := child.(type) {
		case *Map:
			if path[i+1].kind == accessAttr {
				return malformedf(format, pos, "attribute access under keyed destination %q", acc.key)
			}
			cur = next
		case *Record:
			if path[i+1].kind == accessItem {
				return malformedf(format, pos, "key access under attribute destination %q", acc.key)
			}
			cur = next
		default:
			// A nil leaf from an earlier field where this one needs to
			// descend.
			return malformedf(format, pos, "field destination %q conflicts with a nested destination", acc.key)
		}
	}
	return nil
}

func templateChild(cur any, acc accessor) (any, bool) {
	switch c := cur.(type) {
	case *Map:
		return c.Get(acc.key)
	case *Record:
		return c.Attr(acc.key)
	}
	return nil, false
}

func templateSet(cur any, acc accessor, v any) {
	switch c := cur.(type) {
	case *Map:
		c.Set(acc.key, v)
	case *Record:
		c.SetAttr(acc.key, v)
	}
}

// finishTemplate rewrites, bottom up, every Map whose keys are exactly the
// decimal integers 0..n-1 into an ordered slice. This is what turns purely
// positional destinations into sequence output while leaving named and
// sparse-keyed levels as mappings.
func finishTemplate(v any) any {
	switch t := v.(type) {
	case *Map:
		for _, k := range t.keys {
			t.m[k] = finishTemplate(t.m[k])
		}
		if seq, ok := mapToSequence(t); ok {
			return seq
		}
		return t
	case *Record:
		for _, name := range t.names {
			t.m[name] = finishTemplate(t.m[name])
		}
		return t
	default:
		return v
	}
}

// mapToSequence converts a Map into a slice when its keys are the decimal
// integers 0..n-1 with no gaps. An empty Map stays a Map.
func mapToSequence(m *Map) ([]any, bool) {
	if m.Len() == 0 {
		return nil, false
	}
	seq := make([]any, m.Len())
	seen := make([]bool, m.Len())
	for _, k := range m.keys {
		if !isDigits(k) {
			return nil, false
		}
		n, err := strconv.Atoi(k)
		if err != nil || n >= len(seq) || seen[n] {
			return nil, false
		}
		seq[n] = m.m[k]
		seen[n] = true
	}
	return seq, true
}

// setAtPath walks a cloned template along a field's accessor path and sets
// the leaf value. Carriers were all created at compile time, so the walk
// only descends. Later fields targeting the same leaf overwrite earlier
// ones.
func setAtPath(root any, path []accessor, v any) {
	cur := root
	for i, acc := range path {
		last := i == len(path)-1
		switch c := cur.(type) {
		case *Map:
			if last {
				c.Set(acc.key, v)
				return
			}
			child, _ := c.Get(acc.key)
			cur = child
		case *Record:
			if last {
				c.SetAttr(acc.key, v)
				return
			}
			child, _ := c.Attr(acc.key)
			cur = child
		case []any:
			if last {
				c[acc.index] = v
				return
			}
			cur = c[acc.index]
		}
	}
}
