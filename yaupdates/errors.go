package yaupdates

import "errors"

var (
	ErrQueueClosed = errors.New("update queue is closed")
	ErrStreamTaken = errors.New("update stream is already taken")
)
