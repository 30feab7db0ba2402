package kernel

import (
	"bytes"
	"encoding/json"
)

// Optional distinguishes "not provided" from a provided zero value.
// A JSON field that is absent leaves it unset; an explicit null or value sets it.
type Optional[T any] struct {
	value T
	set   bool
}

// Some returns a set Optional holding v
func Some[T any](v T) Optional[T] {
	return Optional[T]{value: v, set: true}
}

// None returns an unset Optional
func None[T any]() Optional[T] {
	return Optional[T]{}
}

// Present reports whether a value was provided
func (o Optional[T]) Present() bool { return o.set }

// Get returns the value and whether it was provided
func (o Optional[T]) Get() (T, bool) { return o.value, o.set }

// OrElse returns the value if present, fallback otherwise
func (o Optional[T]) OrElse(fallback T) T {
	if o.set {
		return o.value
	}
	return fallback
}

func (o *Optional[T]) UnmarshalJSON(data []byte) error {
	o.set = true
	if bytes.Equal(bytes.TrimSpace(data), []byte("null")) {
		var zero T
		o.value = zero
		return nil
	}
	return json.Unmarshal(data, &o.value)
}

func (o Optional[T]) MarshalJSON() ([]byte, error) {
	if !o.set {
		return []byte("null"), nil
	}
	return json.Marshal(o.value)
}
