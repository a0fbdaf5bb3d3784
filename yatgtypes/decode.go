package yatgtypes

import (
	"bytes"
	"fmt"
	"net/http"

	"github.com/goccy/go-json"

	"github.com/YaCodeDev/GoYaTgWebhook/yaerrors"
)

type updateIDProbe struct {
	ID *int64 `json:"update_id"`
}

// DecodeUpdate parses one webhook body. The body must be a JSON object carrying a
// numeric update_id; payloads of unknown kinds are accepted and classified KindUnknown.
// Failures are 400 Errors wrapping ErrMalformedUpdate or ErrMissingUpdateID.
//
// Example usage:
//
//	update, err := yatgtypes.DecodeUpdate(body)
//	if err != nil {
//		// drop the payload
//	}
func DecodeUpdate(body []byte) (Update, yaerrors.Error) {
	trimmed := bytes.TrimSpace(body)

	if !json.Valid(trimmed) {
		return Update{}, yaerrors.FromError(
			http.StatusBadRequest,
			ErrMalformedUpdate,
			"decode update: body is not valid JSON",
		)
	}

	var probe updateIDProbe

	if err := json.Unmarshal(trimmed, &probe); err != nil {
		return Update{}, malformed(err)
	}

	if probe.ID == nil {
		return Update{}, yaerrors.FromError(
			http.StatusBadRequest,
			ErrMissingUpdateID,
			"decode update",
		)
	}

	var update Update

	if err := json.Unmarshal(trimmed, &update); err != nil {
		return Update{}, malformed(err)
	}

	if update.Kind() == KindUnknown {
		update.Raw = json.RawMessage(bytes.Clone(trimmed))
	}

	return update, nil
}

// EncodeUpdate renders an update in the webhook wire format.
func EncodeUpdate(update Update) ([]byte, yaerrors.Error) {
	body, err := json.Marshal(update)
	if err != nil {
		return nil, yaerrors.FromError(http.StatusInternalServerError, err, "encode update")
	}

	return body, nil
}

func malformed(cause error) yaerrors.Error {
	return yaerrors.FromError(
		http.StatusBadRequest,
		fmt.Errorf("%w: %w", ErrMalformedUpdate, cause),
		"decode update",
	)
}
