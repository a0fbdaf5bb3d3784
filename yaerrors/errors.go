package yaerrors

import "errors"

// ErrTeapot reports that a nil Error was dereferenced.
var ErrTeapot = errors.New("backend developer is a teapot")
