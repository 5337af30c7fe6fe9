package plist

import (
	"errors"
	"fmt"
	"strings"
)

var (
	ErrInvalidReference      = errors.New("invalid reference")
	ErrNoSuchKey             = errors.New("no such key")
	ErrWrongType             = errors.New("wrong type")
	ErrTextEncoding          = errors.New("invalid utf-8 text")
	ErrUnknownSystemClass    = errors.New("unknown system class")
	ErrUnrecognizedEnumValue = errors.New("unrecognized enum value")
)

// InvalidReferenceError is returned when a UID does not resolve: it points
// past the object table, closes a cycle, or nests too deep.
type InvalidReferenceError struct {
	Index  uint64
	Reason string
}

func (e *InvalidReferenceError) Error() string {
	if e.Reason == "" {
		return fmt.Sprintf("decode error: invalid UID %d", e.Index)
	}
	return fmt.Sprintf("decode error: invalid UID %d: %s", e.Index, e.Reason)
}

func (e *InvalidReferenceError) Unwrap() error { return ErrInvalidReference }

// NoSuchKeyError reports a missing dictionary key along with the keys that
// were present.
type NoSuchKeyError struct {
	Needle   string
	Haystack []string
}

func (e *NoSuchKeyError) Error() string {
	quoted := make([]string, len(e.Haystack))
	for i, k := range e.Haystack {
		quoted[i] = fmt.Sprintf("%q", k)
	}
	return fmt.Sprintf("decode error: no such key %q found in [%s]", e.Needle, strings.Join(quoted, ", "))
}

func (e *NoSuchKeyError) Unwrap() error { return ErrNoSuchKey }

// WrongTypeError reports a value accessed as a kind it is not.
type WrongTypeError struct {
	Expected Kind
	Actual   Kind
}

func (e *WrongTypeError) Error() string {
	return fmt.Sprintf("decode error: expected type %q but found type %q", e.Expected, e.Actual)
}

func (e *WrongTypeError) Unwrap() error { return ErrWrongType }

// TextEncodingError reports a byte blob that is not valid UTF-8. Offset is
// the index of the first invalid byte.
type TextEncodingError struct {
	Offset int
}

func (e *TextEncodingError) Error() string {
	return fmt.Sprintf("decode error: invalid utf-8 sequence at byte %d", e.Offset)
}

func (e *TextEncodingError) Unwrap() error { return ErrTextEncoding }

// UnknownSystemClassError is returned for a reserved archiver class that has
// no reconstruction rule.
type UnknownSystemClassError struct {
	Name string
}

func (e *UnknownSystemClassError) Error() string {
	return fmt.Sprintf("decode error: unknown system class %q", e.Name)
}

func (e *UnknownSystemClassError) Unwrap() error { return ErrUnknownSystemClass }

// UnrecognizedEnumValueError reports a string outside a field's fixed set.
type UnrecognizedEnumValueError struct {
	Field string
	Value string
}

func (e *UnrecognizedEnumValueError) Error() string {
	return fmt.Sprintf("decode error: unexpected value %q for %s", e.Value, e.Field)
}

func (e *UnrecognizedEnumValueError) Unwrap() error { return ErrUnrecognizedEnumValue }
