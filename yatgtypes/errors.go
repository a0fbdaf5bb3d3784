package yatgtypes

import "errors"

var (
	ErrMalformedUpdate = errors.New("malformed update payload")
	ErrMissingUpdateID = errors.New("update_id is missing")
)
