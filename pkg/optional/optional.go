// Package optional provides an explicit set/unset wrapper for loan parameters
// where the zero value is meaningful (a 0% rate is not a missing rate).
package optional

import (
	"bytes"
	"encoding/json"
)

// Value holds either nothing or a value of type T.
type Value[T any] struct {
	v  T
	ok bool
}

// Of returns a set Value.
func Of[T any](v T) Value[T] {
	return Value[T]{v: v, ok: true}
}

// None returns an unset Value.
func None[T any]() Value[T] {
	return Value[T]{}
}

// FromPtr returns an unset Value for nil, otherwise the pointed-to value.
func FromPtr[T any](p *T) Value[T] {
	if p == nil {
		return None[T]()
	}
	return Of(*p)
}

// Get returns the value and whether it is set.
func (o Value[T]) Get() (T, bool) {
	return o.v, o.ok
}

// IsSet reports whether a value is present.
func (o Value[T]) IsSet() bool {
	return o.ok
}

// OrElse returns the value if set, otherwise def.
func (o Value[T]) OrElse(def T) T {
	if o.ok {
		return o.v
	}
	return def
}

// Ptr returns a pointer to a copy of the value, or nil when unset.
func (o Value[T]) Ptr() *T {
	if !o.ok {
		return nil
	}
	v := o.v
	return &v
}

// Or returns o if set, otherwise other.
func (o Value[T]) Or(other Value[T]) Value[T] {
	if o.ok {
		return o
	}
	return other
}

// MarshalJSON renders an unset Value as null.
func (o Value[T]) MarshalJSON() ([]byte, error) {
	if !o.ok {
		return []byte("null"), nil
	}
	return json.Marshal(o.v)
}

// UnmarshalJSON treats null as unset.
func (o *Value[T]) UnmarshalJSON(data []byte) error {
	if bytes.Equal(bytes.TrimSpace(data), []byte("null")) {
		*o = None[T]()
		return nil
	}
	var v T
	if err := json.Unmarshal(data, &v); err != nil {
		return err
	}
	*o = Of(v)
	return nil
}
