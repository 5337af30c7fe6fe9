package plist

import (
	"fmt"
	"sort"
)

// Kind names the concrete variant held by a Value. It is what error
// messages report as the "actual" type of a node.
type Kind string

const (
	KindNull            = Kind("Null")
	KindBoolean         = Kind("Boolean")
	KindSignedInteger   = Kind("SignedInteger")
	KindUnsignedInteger = Kind("UnsignedInteger")
	KindReal            = Kind("Real")
	KindString          = Kind("String")
	KindData            = Kind("Data")
	KindDate            = Kind("Date")
	KindArray           = Kind("Array")
	KindDictionary      = Kind("Dictionary")
	KindUID             = Kind("Uid")
)

// Value represents one node of a property list. The concrete types are
// defined in this package:
//   - Null
//   - Boolean
//   - SignedInteger
//   - UnsignedInteger
//   - Real
//   - String
//   - Data
//   - Date
//   - Array
//   - *Dictionary
//   - UID
type Value interface {
	Kind() Kind

	// private to limit values to those defined in this package
	isValue()
}

// Null is the absent value.
type Null struct{}

// Boolean is a true/false scalar.
type Boolean bool

// SignedInteger is an integer stored with a sign.
type SignedInteger int64

// UnsignedInteger is a non-negative integer.
type UnsignedInteger uint64

// Real is a double precision floating value.
type Real float64

// String is UTF-8 text.
type String string

// Data is an opaque byte blob.
type Data []byte

// Date is a point in time as Unix seconds.
type Date float64

// Array is an ordered sequence of values.
type Array []Value

// UID is an index into a keyed archive's object table. It only appears in
// archives that have not been resolved yet.
type UID uint64

func (Null) Kind() Kind            { return KindNull }
func (Boolean) Kind() Kind         { return KindBoolean }
func (SignedInteger) Kind() Kind   { return KindSignedInteger }
func (UnsignedInteger) Kind() Kind { return KindUnsignedInteger }
func (Real) Kind() Kind            { return KindReal }
func (String) Kind() Kind          { return KindString }
func (Data) Kind() Kind            { return KindData }
func (Date) Kind() Kind            { return KindDate }
func (Array) Kind() Kind           { return KindArray }
func (*Dictionary) Kind() Kind     { return KindDictionary }
func (UID) Kind() Kind             { return KindUID }

func (Null) isValue()            {}
func (Boolean) isValue()         {}
func (SignedInteger) isValue()   {}
func (UnsignedInteger) isValue() {}
func (Real) isValue()            {}
func (String) isValue()          {}
func (Data) isValue()            {}
func (Date) isValue()            {}
func (Array) isValue()           {}
func (*Dictionary) isValue()     {}
func (UID) isValue()             {}

// KindOf reports the kind of v, treating a nil interface as Null.
func KindOf(v Value) Kind {
	if v == nil {
		return KindNull
	}
	return v.Kind()
}

// Dictionary maps string keys to values. Keys are unique and keep the order
// in which they were first set.
type Dictionary struct {
	keys   []string
	values map[string]Value
}

// NewDictionary returns an empty dictionary with room for n keys.
func NewDictionary(n int) *Dictionary {
	return &Dictionary{
		keys:   make([]string, 0, n),
		values: make(map[string]Value, n),
	}
}

// DictionaryOf builds a dictionary from alternating key/value arguments.
// It is meant for literals in tests and fixtures: it panics on an odd
// argument count, a non-string key or a value that is not a Value.
func DictionaryOf(pairs ...any) *Dictionary {
	if len(pairs)%2 != 0 {
		panic(fmt.Sprintf("plist.DictionaryOf: odd argument count %d", len(pairs)))
	}
	d := NewDictionary(len(pairs) / 2)
	for i := 0; i < len(pairs); i += 2 {
		key, ok := pairs[i].(string)
		if !ok {
			panic(fmt.Sprintf("plist.DictionaryOf: key %d is %T, not string", i/2, pairs[i]))
		}
		v, ok := pairs[i+1].(Value)
		if !ok {
			panic(fmt.Sprintf("plist.DictionaryOf: value for %q is %T, not Value", key, pairs[i+1]))
		}
		d.Set(key, v)
	}
	return d
}

// Len returns the number of keys.
func (d *Dictionary) Len() int {
	if d == nil {
		return 0
	}
	return len(d.keys)
}

// Get returns the value stored under key.
func (d *Dictionary) Get(key string) (Value, bool) {
	if d == nil {
		return nil, false
	}
	v, ok := d.values[key]
	return v, ok
}

// Set stores v under key. An existing key keeps its position.
func (d *Dictionary) Set(key string, v Value) {
	if d.values == nil {
		d.values = make(map[string]Value)
	}
	if _, ok := d.values[key]; !ok {
		d.keys = append(d.keys, key)
	}
	d.values[key] = v
}

// Keys returns the keys in insertion order.
func (d *Dictionary) Keys() []string {
	if d == nil {
		return nil
	}
	out := make([]string, len(d.keys))
	copy(out, d.keys)
	return out
}

// SortedKeys returns the keys in lexical order.
func (d *Dictionary) SortedKeys() []string {
	keys := d.Keys()
	sort.Strings(keys)
	return keys
}

// Range calls fn for each entry in insertion order and stops at the first
// error.
func (d *Dictionary) Range(fn func(key string, v Value) error) error {
	if d == nil {
		return nil
	}
	for _, k := range d.keys {
		if err := fn(k, d.values[k]); err != nil {
			return err
		}
	}
	return nil
}
