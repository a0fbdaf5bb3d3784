package valueparser

import (
	"encoding"
	"reflect"
)

// tryUnmarshal lets the target type parse value itself through encoding.TextUnmarshaler or
// Unmarshalable. target must be addressable. Reports whether one of them succeeded.
func tryUnmarshal(value string, target reflect.Value) bool {
	ptr := target.Addr().Interface()

	if unmarshaler, ok := ptr.(encoding.TextUnmarshaler); ok {
		if err := unmarshaler.UnmarshalText([]byte(value)); err == nil {
			return true
		}

		target.SetZero()
	}

	if unmarshaler, ok := ptr.(Unmarshalable); ok {
		if err := unmarshaler.Unmarshal(value); err == nil {
			return true
		}

		target.SetZero()
	}

	return false
}

func hasUnmarshaler(typ reflect.Type) bool {
	ptr := reflect.PointerTo(typ)

	return ptr.Implements(reflect.TypeFor[encoding.TextUnmarshaler]()) ||
		ptr.Implements(reflect.TypeFor[Unmarshalable]())
}
