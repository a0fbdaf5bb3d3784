package valueparser

import (
	"fmt"
	"net/http"
	"reflect"
	"strconv"

	"github.com/YaCodeDev/GoYaTgWebhook/yaerrors"
)

// ParseValue converts a string to T.
//
// Example usage:
//
//	port, err := valueparser.ParseValue[uint16]("8443")
//	if err != nil {
//		// Handle error
//	}
func ParseValue[T ParsableType](value string) (T, yaerrors.Error) {
	var zero T

	parsed, err := ParseInto(value, reflect.TypeFor[T]())
	if err != nil {
		return zero, err.Wrap("parse value")
	}

	result, ok := parsed.Interface().(T)
	if !ok {
		return zero, yaerrors.FromError(
			http.StatusInternalServerError,
			ErrUnsupportedType,
			"parse value: unexpected result type "+parsed.Type().String(),
		)
	}

	return result, nil
}

// ParseInto converts a string to a value of typ. Types implementing
// encoding.TextUnmarshaler or Unmarshalable are offered the string first; when they
// reject it the underlying kind is parsed as usual, so a level type accepts both "info"
// and "4".
//
// A malformed value yields a 400 Error wrapping ErrUnparsableValue, a type the parser
// cannot handle yields a 500 Error wrapping ErrUnsupportedType.
func ParseInto(value string, typ reflect.Type) (reflect.Value, yaerrors.Error) {
	out := reflect.New(typ).Elem()

	if tryUnmarshal(value, out) {
		return out, nil
	}

	var err error

	switch typ.Kind() {
	case reflect.String:
		out.SetString(value)

	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		var n int64

		if n, err = strconv.ParseInt(value, 10, typ.Bits()); err == nil {
			out.SetInt(n)
		}

	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64,
		reflect.Uintptr:
		var n uint64

		if n, err = strconv.ParseUint(value, 10, typ.Bits()); err == nil {
			out.SetUint(n)
		}

	case reflect.Float32, reflect.Float64:
		var f float64

		if f, err = strconv.ParseFloat(value, typ.Bits()); err == nil {
			out.SetFloat(f)
		}

	case reflect.Bool:
		var b bool

		if b, err = strconv.ParseBool(value); err == nil {
			out.SetBool(b)
		}

	case reflect.Slice:
		if typ.Elem().Kind() != reflect.Uint8 {
			return reflect.Value{}, unsupported(typ)
		}

		out.SetBytes([]byte(value))

	default:
		if hasUnmarshaler(typ) {
			err = ErrUnparsableValue

			break
		}

		return reflect.Value{}, unsupported(typ)
	}

	if err != nil {
		return reflect.Value{}, yaerrors.FromError(
			http.StatusBadRequest,
			fmt.Errorf("%w: %w", ErrUnparsableValue, err),
			fmt.Sprintf("parse %q as %s", value, typ),
		)
	}

	return out, nil
}

// Supports reports whether ParseInto can produce values of typ.
func Supports(typ reflect.Type) bool {
	if hasUnmarshaler(typ) {
		return true
	}

	switch typ.Kind() {
	case reflect.String, reflect.Bool,
		reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64,
		reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64,
		reflect.Uintptr, reflect.Float32, reflect.Float64:
		return true
	case reflect.Slice:
		return typ.Elem().Kind() == reflect.Uint8
	default:
		return false
	}
}

func unsupported(typ reflect.Type) yaerrors.Error {
	return yaerrors.FromError(
		http.StatusInternalServerError,
		ErrUnsupportedType,
		"parse value: "+typ.String(),
	)
}
