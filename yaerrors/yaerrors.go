// Package yaerrors provides the coded error type returned by every fallible API of the
// webhook, parser and dispatcher packages.
//
// An Error carries an HTTP-style status code, the original cause (reachable through
// errors.Is / errors.As) and a human readable traceback that grows every time the error
// crosses a layer boundary through Wrap.
package yaerrors

import (
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/YaCodeDev/GoYaTgWebhook/yalogger"
)

// Error is the error type used across the module.
type Error interface {
	error

	// Wrap prepends msg to the traceback and returns the same error.
	//
	// Example usage:
	//
	//	return err.Wrap("webhook: register callback url")
	Wrap(msg string) Error

	// WrapWithLog is Wrap that also writes msg at the Error level.
	WrapWithLog(msg string, log yalogger.Logger) Error

	// Code returns the HTTP-style status code of the error.
	Code() int

	// Unwrap returns the original cause.
	Unwrap() error

	// UnwrapLastError returns the outermost traceback segment.
	UnwrapLastError() string
}

const (
	codeSeparate  = " | "
	errorSeparate = " -> "
)

type yaError struct {
	code      int
	cause     error
	traceback string
}

// FromError builds an Error with the given code around cause.
//
// Example usage:
//
//	if err := listener.Close(); err != nil {
//		return yaerrors.FromError(http.StatusInternalServerError, err, "webhook: close listener")
//	}
func FromError(code int, cause error, wrap string) Error {
	return &yaError{
		code:      code,
		cause:     cause,
		traceback: fmt.Sprintf("%s: %v", wrap, cause),
	}
}

// FromErrorWithLog is FromError that also logs the resulting traceback.
func FromErrorWithLog(code int, cause error, wrap string, log yalogger.Logger) Error {
	err := FromError(code, cause, wrap)

	log.Error(err.Error())

	return err
}

// FromString builds an Error whose cause is a fresh error holding msg.
func FromString(code int, msg string) Error {
	return &yaError{
		code:      code,
		cause:     errors.New(msg), //nolint:err113
		traceback: msg,
	}
}

// FromStringWithLog is FromString that also logs msg.
func FromStringWithLog(code int, msg string, log yalogger.Logger) Error {
	log.Error(msg)

	return FromString(code, msg)
}

// CodeOf extracts the status code of err. Plain errors map to 500, nil maps to 200.
//
// Example usage:
//
//	ctx.AbortWithStatus(yaerrors.CodeOf(err))
func CodeOf(err error) int {
	if err == nil {
		return http.StatusOK
	}

	var yaErr Error
	if errors.As(err, &yaErr) {
		return yaErr.Code()
	}

	return http.StatusInternalServerError
}

func (e *yaError) Error() string {
	safetyCheck(&e)

	return fmt.Sprintf("%d%s%s", e.code, codeSeparate, e.traceback)
}

func (e *yaError) Unwrap() error {
	safetyCheck(&e)

	return e.cause
}

func (e *yaError) UnwrapLastError() string {
	safetyCheck(&e)

	last, _, found := strings.Cut(e.traceback, errorSeparate)
	if !found {
		return e.traceback
	}

	return last
}

func (e *yaError) Wrap(msg string) Error {
	safetyCheck(&e)

	e.traceback = msg + errorSeparate + e.traceback

	return e
}

func (e *yaError) WrapWithLog(msg string, log yalogger.Logger) Error {
	log.Error(msg)

	return e.Wrap(msg)
}

func (e *yaError) Code() int {
	safetyCheck(&e)

	return e.code
}

// safetyCheck replaces a nil receiver with a teapot error so a typed-nil Error never panics.
func safetyCheck(err **yaError) {
	if *err == nil {
		*err = &yaError{
			code:      http.StatusTeapot,
			cause:     ErrTeapot,
			traceback: ErrTeapot.Error(),
		}
	}
}
