package plist

import (
	"math"
	"unicode/utf8"
)

func wrongType(expected Kind, v Value) error {
	return &WrongTypeError{Expected: expected, Actual: KindOf(v)}
}

// AsDictionary returns v as a dictionary.
func AsDictionary(v Value) (*Dictionary, error) {
	d, ok := v.(*Dictionary)
	if !ok || d == nil {
		return nil, wrongType(KindDictionary, v)
	}
	return d, nil
}

// AsArray returns v as an array.
func AsArray(v Value) (Array, error) {
	a, ok := v.(Array)
	if !ok {
		return nil, wrongType(KindArray, v)
	}
	return a, nil
}

// AsData returns v as raw bytes.
func AsData(v Value) ([]byte, error) {
	b, ok := v.(Data)
	if !ok {
		return nil, wrongType(KindData, v)
	}
	return b, nil
}

// AsString returns v as a string.
func AsString(v Value) (string, error) {
	s, ok := v.(String)
	if !ok {
		return "", wrongType(KindString, v)
	}
	return string(s), nil
}

// AsSignedInteger returns v as an int64. An UnsignedInteger is accepted when
// it fits.
func AsSignedInteger(v Value) (int64, error) {
	switch n := v.(type) {
	case SignedInteger:
		return int64(n), nil
	case UnsignedInteger:
		if uint64(n) <= math.MaxInt64 {
			return int64(n), nil
		}
	}
	return 0, wrongType(KindSignedInteger, v)
}

// AsUnsignedInteger returns v as a uint64. A non-negative SignedInteger is
// accepted.
func AsUnsignedInteger(v Value) (uint64, error) {
	switch n := v.(type) {
	case UnsignedInteger:
		return uint64(n), nil
	case SignedInteger:
		if n >= 0 {
			return uint64(n), nil
		}
	}
	return 0, wrongType(KindUnsignedInteger, v)
}

// AsReal returns v as a float64. Integers are not accepted; use Number for
// fields that may hold either.
func AsReal(v Value) (float64, error) {
	r, ok := v.(Real)
	if !ok {
		return 0, wrongType(KindReal, v)
	}
	return float64(r), nil
}

// Number reads a numeric field that may be stored as an integer or a real.
// The integer interpretation is tried first.
func Number(v Value) (float64, error) {
	if n, err := AsUnsignedInteger(v); err == nil {
		return float64(n), nil
	}
	if n, err := AsSignedInteger(v); err == nil {
		return float64(n), nil
	}
	return AsReal(v)
}

// Text decodes b as UTF-8.
func Text(b []byte) (string, error) {
	if !utf8.Valid(b) {
		return "", &TextEncodingError{Offset: firstInvalid(b)}
	}
	return string(b), nil
}

func firstInvalid(b []byte) int {
	for i := 0; i < len(b); {
		r, size := utf8.DecodeRune(b[i:])
		if r == utf8.RuneError && size <= 1 {
			return i
		}
		i += size
	}
	return len(b)
}

// Require returns the value under key or a NoSuchKeyError listing the keys
// that are present.
func (d *Dictionary) Require(key string) (Value, error) {
	v, ok := d.Get(key)
	if !ok {
		return nil, &NoSuchKeyError{Needle: key, Haystack: d.Keys()}
	}
	return v, nil
}

// GetDictionary requires key and returns it as a dictionary.
func (d *Dictionary) GetDictionary(key string) (*Dictionary, error) {
	v, err := d.Require(key)
	if err != nil {
		return nil, err
	}
	return AsDictionary(v)
}

// GetArray requires key and returns it as an array.
func (d *Dictionary) GetArray(key string) (Array, error) {
	v, err := d.Require(key)
	if err != nil {
		return nil, err
	}
	return AsArray(v)
}

// GetData requires key and returns it as bytes.
func (d *Dictionary) GetData(key string) ([]byte, error) {
	v, err := d.Require(key)
	if err != nil {
		return nil, err
	}
	return AsData(v)
}

// GetString requires key and returns it as a string.
func (d *Dictionary) GetString(key string) (string, error) {
	v, err := d.Require(key)
	if err != nil {
		return "", err
	}
	return AsString(v)
}

// GetSignedInteger requires key and returns it as an int64.
func (d *Dictionary) GetSignedInteger(key string) (int64, error) {
	v, err := d.Require(key)
	if err != nil {
		return 0, err
	}
	return AsSignedInteger(v)
}

// GetUnsignedInteger requires key and returns it as a uint64.
func (d *Dictionary) GetUnsignedInteger(key string) (uint64, error) {
	v, err := d.Require(key)
	if err != nil {
		return 0, err
	}
	return AsUnsignedInteger(v)
}

// GetReal requires key and returns it as a float64.
func (d *Dictionary) GetReal(key string) (float64, error) {
	v, err := d.Require(key)
	if err != nil {
		return 0, err
	}
	return AsReal(v)
}

// GetNumber requires key and reads it with Number.
func (d *Dictionary) GetNumber(key string) (float64, error) {
	v, err := d.Require(key)
	if err != nil {
		return 0, err
	}
	return Number(v)
}

// GetText requires key, reads it as bytes and decodes them as UTF-8.
func (d *Dictionary) GetText(key string) (string, error) {
	b, err := d.GetData(key)
	if err != nil {
		return "", err
	}
	return Text(b)
}

// Dictionaries returns every element as a dictionary, failing on the first
// element that is not one.
func (a Array) Dictionaries() ([]*Dictionary, error) {
	out := make([]*Dictionary, 0, len(a))
	for _, v := range a {
		d, err := AsDictionary(v)
		if err != nil {
			return nil, err
		}
		out = append(out, d)
	}
	return out, nil
}
