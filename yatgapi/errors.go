package yatgapi

import "errors"

var (
	ErrRequestRejected = errors.New("bot api rejected the request")
	ErrEmptyToken      = errors.New("bot token is empty")
)
