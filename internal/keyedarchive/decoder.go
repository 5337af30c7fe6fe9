// Package keyedarchive resolves NSKeyedArchiver property lists into plain
// value trees: UID references are replaced by the objects they point to and
// archived Foundation containers are rebuilt as arrays, dictionaries,
// strings, bytes and timestamps.
package keyedarchive

import (
	"fmt"
	"strings"

	"github.com/pbaille/recipes/internal/plist"
)

const (
	keyTop       = "$top"
	keyRoot      = "root"
	keyObjects   = "$objects"
	keyClass     = "$class"
	keyClassName = "$classname"

	// systemClassPrefix marks classes owned by the archiver's runtime.
	systemClassPrefix = "NS"

	// DefaultMaxDepth caps how deep the decoder recurses.
	DefaultMaxDepth = 1000
)

// Option configures a Decoder.
type Option func(*Decoder)

// WithMaxDepth overrides DefaultMaxDepth. Values below 1 are ignored.
func WithMaxDepth(n int) Option {
	return func(d *Decoder) {
		if n > 0 {
			d.maxDepth = n
		}
	}
}

// Decoder resolves values against one archive's object table. A Decoder
// is not safe for concurrent use.
type Decoder struct {
	objects  plist.Array
	maxDepth int

	depth int
	// UIDs currently being resolved, innermost last
	path   []uint64
	active map[uint64]struct{}
}

// New returns a Decoder over the given object table.
func New(objects plist.Array, opts ...Option) *Decoder {
	d := &Decoder{
		objects:  objects,
		maxDepth: DefaultMaxDepth,
		active:   make(map[uint64]struct{}),
	}
	for _, opt := range opts {
		opt(d)
	}
	return d
}

// Decode resolves a whole archive: it locates $top.root and $objects in
// file and returns the fully resolved root object.
func Decode(file plist.Value, opts ...Option) (plist.Value, error) {
	archive, err := plist.AsDictionary(file)
	if err != nil {
		return nil, err
	}
	top, err := archive.GetDictionary(keyTop)
	if err != nil {
		return nil, err
	}
	root, err := top.Require(keyRoot)
	if err != nil {
		return nil, err
	}
	objects, err := archive.GetArray(keyObjects)
	if err != nil {
		return nil, err
	}
	return New(objects, opts...).DecodeValue(root)
}

// DecodeValue resolves v. The result never contains a plist.UID.
func (d *Decoder) DecodeValue(v plist.Value) (plist.Value, error) {
	d.depth++
	defer func() { d.depth-- }()
	if d.depth > d.maxDepth {
		return nil, &plist.InvalidReferenceError{
			Index:  d.innermost(),
			Reason: fmt.Sprintf("nesting deeper than %d", d.maxDepth),
		}
	}

	switch v := v.(type) {
	case plist.Array:
		return d.decodeArray(v)
	case *plist.Dictionary:
		if class, ok := v.Get(keyClass); ok {
			return d.decodeObject(class, v)
		}
		return d.decodeDictionary(v)
	case plist.UID:
		return d.decodeUID(v)
	case nil:
		return plist.Null{}, nil
	default:
		return v, nil
	}
}

// innermost reports the UID being resolved when the depth guard tripped.
func (d *Decoder) innermost() uint64 {
	if len(d.path) == 0 {
		return 0
	}
	return d.path[len(d.path)-1]
}

func (d *Decoder) decodeUID(uid plist.UID) (plist.Value, error) {
	index := uint64(uid)
	if index >= uint64(len(d.objects)) {
		return nil, &plist.InvalidReferenceError{
			Index:  index,
			Reason: fmt.Sprintf("object table has %d entries", len(d.objects)),
		}
	}
	if _, ok := d.active[index]; ok {
		return nil, &plist.InvalidReferenceError{Index: index, Reason: "reference cycle"}
	}

	d.active[index] = struct{}{}
	d.path = append(d.path, index)
	defer func() {
		delete(d.active, index)
		d.path = d.path[:len(d.path)-1]
	}()

	return d.DecodeValue(d.objects[index])
}

func (d *Decoder) decodeArray(a plist.Array) (plist.Array, error) {
	out := make(plist.Array, 0, len(a))
	for _, elem := range a {
		v, err := d.DecodeValue(elem)
		if err != nil {
			return nil, err
		}
		out = append(out, v)
	}
	return out, nil
}

func (d *Decoder) decodeDictionary(dict *plist.Dictionary) (*plist.Dictionary, error) {
	out := plist.NewDictionary(dict.Len())
	err := dict.Range(func(key string, v plist.Value) error {
		decoded, err := d.DecodeValue(v)
		if err != nil {
			return err
		}
		out.Set(key, decoded)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

// decodeObject rebuilds an archived class instance. class is the raw $class
// entry and fields the instance dictionary it was found in.
func (d *Decoder) decodeObject(class plist.Value, fields *plist.Dictionary) (plist.Value, error) {
	descriptor, err := d.DecodeValue(class)
	if err != nil {
		return nil, err
	}
	descriptorDict, err := plist.AsDictionary(descriptor)
	if err != nil {
		return nil, err
	}
	name, err := descriptorDict.GetString(keyClassName)
	if err != nil {
		return nil, err
	}

	if rebuild, ok := classDecoders[name]; ok {
		return rebuild(d, fields)
	}
	if strings.HasPrefix(name, systemClassPrefix) {
		return nil, &plist.UnknownSystemClassError{Name: name}
	}
	return d.decodeUnknownObject(name, fields)
}

// decodeUnknownObject keeps an application class as a dictionary and
// replaces its $class reference with the class name.
func (d *Decoder) decodeUnknownObject(name string, fields *plist.Dictionary) (*plist.Dictionary, error) {
	obj := plist.NewDictionary(fields.Len())
	for _, key := range fields.Keys() {
		v, _ := fields.Get(key)
		obj.Set(key, v)
	}
	obj.Set(keyClass, plist.String(name))
	return d.decodeDictionary(obj)
}
