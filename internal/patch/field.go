// Package patch holds the tri-state value used for partial updates.
package patch

import (
	"bytes"
	"encoding/json"
)

// Field distinguishes a value that was not sent, one that was sent as JSON
// null, and one that was sent with a value. The zero Field is absent.
type Field[T any] struct {
	value T
	set   bool
	null  bool
}

// Value returns a present, non-null Field.
func Value[T any](v T) Field[T] {
	return Field[T]{value: v, set: true}
}

// Null returns a present Field that clears the target.
func Null[T any]() Field[T] {
	return Field[T]{set: true, null: true}
}

// IsSet reports whether the field was supplied at all.
func (f Field[T]) IsSet() bool {
	return f.set
}

// IsNull reports whether the field was supplied as null.
func (f Field[T]) IsNull() bool {
	return f.set && f.null
}

// Get returns the value and true when the field carries a non-null value.
func (f Field[T]) Get() (T, bool) {
	if !f.set || f.null {
		var zero T
		return zero, false
	}
	return f.value, true
}

// Or returns the carried value, or fallback when absent or null.
func (f Field[T]) Or(fallback T) T {
	if v, ok := f.Get(); ok {
		return v
	}
	return fallback
}

// Ptr returns nil when absent or null, else a pointer to a copy of the value.
func (f Field[T]) Ptr() *T {
	v, ok := f.Get()
	if !ok {
		return nil
	}
	return &v
}

func (f *Field[T]) UnmarshalJSON(data []byte) error {
	f.set = true
	if bytes.Equal(bytes.TrimSpace(data), []byte("null")) {
		var zero T
		f.value = zero
		f.null = true
		return nil
	}
	f.null = false
	return json.Unmarshal(data, &f.value)
}

func (f Field[T]) MarshalJSON() ([]byte, error) {
	if !f.set || f.null {
		return []byte("null"), nil
	}
	return json.Marshal(f.value)
}
