package yacommand

import (
	"errors"
	"fmt"
	"strings"
)

var (
	ErrUnknownCommand     = errors.New("unknown command")
	ErrWrongBotName       = errors.New("command addressed to another bot")
	ErrTooFewArguments    = errors.New("too few arguments")
	ErrTooManyArguments   = errors.New("too many arguments")
	ErrIncorrectFormat    = errors.New("incorrect argument format")
	ErrCustom             = errors.New("custom parse error")
	ErrInvalidDeclaration = errors.New("invalid command declaration")
)

// ParseError describes why text that looked like a command could not be parsed.
// Kind is one of the Err* sentinels above and is matched with errors.Is.
type ParseError struct {
	Kind     error
	Command  string
	Expected int
	Found    int
	Input    string
	Err      error
}

func (e *ParseError) Error() string {
	var b strings.Builder

	b.WriteString(e.Kind.Error())

	if e.Command != "" {
		fmt.Fprintf(&b, " for %q", e.Command)
	}

	switch {
	case errors.Is(e.Kind, ErrTooFewArguments), errors.Is(e.Kind, ErrTooManyArguments):
		fmt.Fprintf(&b, ": expected %d, found %d", e.Expected, e.Found)
	case errors.Is(e.Kind, ErrWrongBotName), errors.Is(e.Kind, ErrUnknownCommand):
		if e.Input != "" {
			fmt.Fprintf(&b, ": %q", e.Input)
		}
	}

	if e.Err != nil {
		fmt.Fprintf(&b, ": %v", e.Err)
	}

	return b.String()
}

func (e *ParseError) Unwrap() []error {
	if e.Err == nil {
		return []error{e.Kind}
	}

	return []error{e.Kind, e.Err}
}

// IncorrectFormat is returned by custom parsers when the arguments have the wrong shape.
//
// Example usage:
//
//	func parseRange(args string) (any, error) {
//		from, to, ok := strings.Cut(args, "-")
//		if !ok {
//			return nil, yacommand.IncorrectFormat(errors.New("expected FROM-TO"))
//		}
//		...
//	}
func IncorrectFormat(cause error) error {
	return &ParseError{Kind: ErrIncorrectFormat, Err: cause}
}

// Custom is returned by custom parsers for domain errors. Any plain error a custom
// parser returns is treated the same way.
func Custom(cause error) error {
	return &ParseError{Kind: ErrCustom, Err: cause}
}

// IsNotCommand reports whether err only means the text is not a command for this bot.
// Dispatchers treat such errors as a non-match rather than a failure.
func IsNotCommand(err error) bool {
	return errors.Is(err, ErrUnknownCommand) || errors.Is(err, ErrWrongBotName)
}
