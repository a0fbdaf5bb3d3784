package valueparser

import (
	"fmt"
	"net/http"
	"reflect"
	"strings"

	"github.com/YaCodeDev/GoYaTgWebhook/yaerrors"
)

// ParseArray splits a string by separator and parses each trimmed part into T.
// An empty string yields an empty slice. A nil separator means DefaultEntrySeparator.
//
// Example usage:
//
//	ids, err := valueparser.ParseArray[int64]("1, 2, 3", nil)
//	if err != nil {
//		// Handle error
//	}
func ParseArray[T ParsableType](
	str string,
	separator *string,
) ([]T, yaerrors.Error) {
	parsed, err := ParseArrayInto(str, separator, reflect.TypeFor[[]T]())
	if err != nil {
		return nil, err
	}

	result, _ := parsed.Interface().([]T)

	return result, nil
}

// ParseArrayInto is the reflect form of ParseArray; sliceType must be a slice type whose
// element ParseInto supports. []byte is parsed as a list of numbers, not as raw bytes.
func ParseArrayInto(
	str string,
	separator *string,
	sliceType reflect.Type,
) (reflect.Value, yaerrors.Error) {
	if sliceType.Kind() != reflect.Slice {
		return reflect.Value{}, unsupported(sliceType)
	}

	if str == "" {
		return reflect.MakeSlice(sliceType, 0, 0), nil
	}

	sep := DefaultEntrySeparator
	if separator != nil {
		sep = *separator
	}

	parts := strings.Split(str, sep)
	result := reflect.MakeSlice(sliceType, 0, len(parts))

	for _, part := range parts {
		trimmed := strings.TrimSpace(part)

		value, err := ParseInto(trimmed, sliceType.Elem())
		if err != nil {
			if err.Code() == http.StatusInternalServerError {
				return reflect.Value{}, err.Wrap("parse array")
			}

			return reflect.Value{}, err.Wrap(
				fmt.Sprintf("parse array: failed to parse part '%s'", trimmed),
			)
		}

		result = reflect.Append(result, value)
	}

	return result, nil
}
