// Package archivetest builds NSKeyedArchiver property lists for tests.
package archivetest

import (
	howett "howett.net/plist"

	"github.com/pbaille/recipes/internal/plist"
)

// Builder accumulates an object table. Entry 0 is "$null" as in archives
// written by Foundation.
type Builder struct {
	objects []any
	classes map[string]howett.UID
}

func NewBuilder() *Builder {
	return &Builder{
		objects: []any{"$null"},
		classes: make(map[string]howett.UID),
	}
}

// Add appends a raw object and returns its UID.
func (b *Builder) Add(v any) howett.UID {
	b.objects = append(b.objects, v)
	return howett.UID(len(b.objects) - 1)
}

// Class returns the descriptor UID for name, adding it once.
func (b *Builder) Class(name string) howett.UID {
	if uid, ok := b.classes[name]; ok {
		return uid
	}
	uid := b.Add(map[string]any{
		"$classname": name,
		"$classes":   []any{name, "NSObject"},
	})
	b.classes[name] = uid
	return uid
}

// Object adds an instance of class with the given fields.
func (b *Builder) Object(class string, fields map[string]any) howett.UID {
	obj := map[string]any{"$class": b.Class(class)}
	for k, v := range fields {
		obj[k] = v
	}
	return b.Add(obj)
}

func (b *Builder) String(s string) howett.UID {
	return b.Add(s)
}

func (b *Builder) MutableString(s string) howett.UID {
	return b.Object("NSMutableString", map[string]any{"NS.string": s})
}

func (b *Builder) MutableData(data []byte) howett.UID {
	return b.Object("NSMutableData", map[string]any{"NS.data": data})
}

func (b *Builder) MutableArray(items ...howett.UID) howett.UID {
	objs := make([]any, len(items))
	for i, uid := range items {
		objs[i] = uid
	}
	return b.Object("NSMutableArray", map[string]any{"NS.objects": objs})
}

// MutableDictionary adds keys and values as separate objects, in the order
// given by keys.
func (b *Builder) MutableDictionary(keys []string, values map[string]any) howett.UID {
	ks := make([]any, 0, len(keys))
	vs := make([]any, 0, len(keys))
	for _, k := range keys {
		ks = append(ks, b.String(k))
		v := values[k]
		if _, isUID := v.(howett.UID); !isUID {
			v = b.Add(v)
		}
		vs = append(vs, v)
	}
	return b.Object("NSMutableDictionary", map[string]any{"NS.keys": ks, "NS.objects": vs})
}

// Archive wraps the table in the keyed archive envelope.
func (b *Builder) Archive(root howett.UID) map[string]any {
	objects := make([]any, len(b.objects))
	copy(objects, b.objects)
	return map[string]any{
		"$version":  uint64(100000),
		"$archiver": "NSKeyedArchiver",
		"$top":      map[string]any{"root": root},
		"$objects":  objects,
	}
}

// Encode renders the archive as a binary property list.
func (b *Builder) Encode(root howett.UID) ([]byte, error) {
	return howett.Marshal(b.Archive(root), howett.BinaryFormat)
}

// Value returns the archive as an unresolved plist.Value.
func (b *Builder) Value(root howett.UID) (plist.Value, error) {
	return plist.FromNative(b.Archive(root))
}
