package jobfile

import (
	"slices"

	"gopkg.in/yaml.v3"
)

// Value is an untyped document value: a raw scalar, an ordered list or an
// ordered mapping.
type Value struct {
	Kind Kind
	// Scalar holds the literal text of a KindScalar value.
	Scalar string
	// Items holds the elements of a KindList value.
	Items []Value
	// Entries holds the key/value pairs of a KindMapping value in
	// declaration order.
	Entries []Entry
}

// Entry is a single key/value pair of a mapping.
type Entry struct {
	Key   string
	Value Value
}

// Scalar returns a scalar value holding s.
func Scalar(s string) Value {
	return Value{Kind: KindScalar, Scalar: s}
}

// List returns a list value holding items.
func List(items ...Value) Value {
	if items == nil {
		items = []Value{}
	}

	return Value{Kind: KindList, Items: items}
}

// Strings returns a list of scalars.
func Strings(ss ...string) Value {
	items := make([]Value, len(ss))
	for i, s := range ss {
		items[i] = Scalar(s)
	}

	return List(items...)
}

// Mapping returns a mapping value holding entries.
func Mapping(entries ...Entry) Value {
	if entries == nil {
		entries = []Entry{}
	}

	return Value{Kind: KindMapping, Entries: entries}
}

// Get returns the value stored under key in a mapping.
func (v Value) Get(key string) (Value, bool) {
	if v.Kind != KindMapping {
		return Value{}, false
	}

	for _, e := range v.Entries {
		if e.Key == key {
			return e.Value, true
		}
	}

	return Value{}, false
}

// StringSlice returns the items of a list of scalars. The second result is
// false if v is not a list or holds a non-scalar item.
func (v Value) StringSlice() ([]string, bool) {
	if v.Kind != KindList {
		return nil, false
	}

	out := make([]string, 0, len(v.Items))

	for _, item := range v.Items {
		if item.Kind != KindScalar {
			return nil, false
		}

		out = append(out, item.Scalar)
	}

	return out, true
}

// Keys returns the keys of a mapping in declaration order.
func (v Value) Keys() []string {
	keys := make([]string, len(v.Entries))
	for i, e := range v.Entries {
		keys[i] = e.Key
	}

	return keys
}

// Clone returns a deep copy of v.
func (v Value) Clone() Value {
	out := Value{Kind: v.Kind, Scalar: v.Scalar}

	if v.Items != nil {
		out.Items = make([]Value, len(v.Items))
		for i, item := range v.Items {
			out.Items[i] = item.Clone()
		}
	}

	if v.Entries != nil {
		out.Entries = make([]Entry, len(v.Entries))
		for i, e := range v.Entries {
			out.Entries[i] = Entry{Key: e.Key, Value: e.Value.Clone()}
		}
	}

	return out
}

// Equal reports whether v and other hold the same structure and text.
func (v Value) Equal(other Value) bool {
	if v.Kind != other.Kind {
		return false
	}

	switch v.Kind {
	case KindScalar:
		return v.Scalar == other.Scalar
	case KindList:
		return slices.EqualFunc(v.Items, other.Items, Value.Equal)
	case KindMapping:
		return slices.EqualFunc(v.Entries, other.Entries, func(a, b Entry) bool {
			return a.Key == b.Key && a.Value.Equal(b.Value)
		})
	default:
		return true
	}
}

// Node converts v into a YAML node. Scalars are tagged as strings so that the
// encoder quotes text that would otherwise read back as another type.
func (v Value) Node() *yaml.Node {
	switch v.Kind {
	case KindList:
		n := &yaml.Node{Kind: yaml.SequenceNode, Tag: "!!seq"}
		for _, item := range v.Items {
			n.Content = append(n.Content, item.Node())
		}

		return n
	case KindMapping:
		n := &yaml.Node{Kind: yaml.MappingNode, Tag: "!!map"}
		for _, e := range v.Entries {
			n.Content = append(n.Content, Scalar(e.Key).Node(), e.Value.Node())
		}

		return n
	default:
		return &yaml.Node{Kind: yaml.ScalarNode, Tag: "!!str", Value: v.Scalar}
	}
}

// MarshalYAML implements yaml.Marshaler.
func (v Value) MarshalYAML() (any, error) {
	return v.Node(), nil
}

// Document is a parsed jobs_done document. Entries keep the raw top-level keys,
// condition prefixes included, in declaration order.
type Document struct {
	Entries []Entry
}

// Lookup returns the value stored under the exact raw key name.
func (d *Document) Lookup(name string) (Value, bool) {
	if d == nil {
		return Value{}, false
	}

	for _, e := range d.Entries {
		if e.Key == name {
			return e.Value, true
		}
	}

	return Value{}, false
}

// IsEmpty returns true if the document declares no options.
func (d *Document) IsEmpty() bool {
	return d == nil || len(d.Entries) == 0
}
