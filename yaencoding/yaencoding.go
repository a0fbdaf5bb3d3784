// Package yaencoding wraps MessagePack so that everything the bot keeps in a
// cache (FSM states, dedup marks) is encoded the same way and fails with a
// yaerrors.Error.
//
// Example usage:
//
//	type Mark struct {
//	    ID int64 `msgpack:"id"`
//	}
//
//	raw, err := yaencoding.EncodeMessagePack(Mark{ID: 7})
//	if err != nil {
//	    return err
//	}
//
//	mark, err := yaencoding.DecodeMessagePack[Mark](raw)
package yaencoding

import (
	"fmt"
	"net/http"

	"github.com/vmihailenco/msgpack/v5"

	"github.com/YaCodeDev/GoYaTgWebhook/yaerrors"
)

// EncodeMessagePack serializes value using the MessagePack format.
func EncodeMessagePack(value any) ([]byte, yaerrors.Error) {
	raw, err := msgpack.Marshal(value)
	if err != nil {
		return nil, yaerrors.FromError(
			http.StatusInternalServerError,
			err,
			fmt.Sprintf("[ENCODING] failed to marshal `%T` using message pack format", value),
		)
	}

	return raw, nil
}

// DecodeMessagePack decodes raw into a new value of type T.
//
// Example:
//
//	val, err := yaencoding.DecodeMessagePack[User](raw)
func DecodeMessagePack[T any](raw []byte) (*T, yaerrors.Error) {
	var res T

	if err := DecodeMessagePackInto(raw, &res); err != nil {
		return nil, err
	}

	return &res, nil
}

// DecodeMessagePackInto decodes raw into dst, which must be a non-nil pointer.
// It is used when the concrete type is only known at runtime.
func DecodeMessagePackInto(raw []byte, dst any) yaerrors.Error {
	if len(raw) == 0 {
		return yaerrors.FromString(
			http.StatusInternalServerError,
			fmt.Sprintf("[ENCODING] empty message pack payload for `%T`", dst),
		)
	}

	if err := msgpack.Unmarshal(raw, dst); err != nil {
		return yaerrors.FromError(
			http.StatusInternalServerError,
			err,
			fmt.Sprintf("[ENCODING] failed to unmarshal message pack to `%T`", dst),
		)
	}

	return nil
}
