package yacache

import "errors"

var (
	ErrKeyNotFound = errors.New("key not found")
	ErrCacheClosed = errors.New("cache closed")
)
