package plist

import (
	"fmt"
	"os"
	"sort"
	"time"

	howett "howett.net/plist"
)

// ReadFile parses the property list stored at path. Binary, XML and
// OpenStep encodings are accepted.
func ReadFile(path string) (Value, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read plist: %w", err)
	}
	return Parse(data)
}

// Parse parses an encoded property list into a Value tree.
func Parse(data []byte) (Value, error) {
	var raw any
	if _, err := howett.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("parse plist: %w", err)
	}
	return FromNative(raw)
}

// FromNative converts the generic values produced by howett.net/plist into
// a Value tree. Dictionary keys are inserted in lexical order since the
// parser hands them over as a map.
func FromNative(raw any) (Value, error) {
	switch v := raw.(type) {
	case nil:
		return Null{}, nil
	case bool:
		return Boolean(v), nil
	case int64:
		return SignedInteger(v), nil
	case int:
		return SignedInteger(v), nil
	case uint64:
		return UnsignedInteger(v), nil
	case float64:
		return Real(v), nil
	case float32:
		return Real(v), nil
	case string:
		return String(v), nil
	case []byte:
		return Data(v), nil
	case time.Time:
		return Date(float64(v.Unix()) + float64(v.Nanosecond())/float64(time.Second)), nil
	case howett.UID:
		return UID(v), nil
	case []any:
		out := make(Array, 0, len(v))
		for i, elem := range v {
			conv, err := FromNative(elem)
			if err != nil {
				return nil, fmt.Errorf("element %d: %w", i, err)
			}
			out = append(out, conv)
		}
		return out, nil
	case map[string]any:
		keys := make([]string, 0, len(v))
		for k := range v {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		d := NewDictionary(len(keys))
		for _, k := range keys {
			conv, err := FromNative(v[k])
			if err != nil {
				return nil, fmt.Errorf("key %q: %w", k, err)
			}
			d.Set(k, conv)
		}
		return d, nil
	default:
		return nil, fmt.Errorf("unsupported plist value of type %T", raw)
	}
}
