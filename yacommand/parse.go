package yacommand

import (
	"errors"
	"fmt"
	"net/http"
	"reflect"
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/YaCodeDev/GoYaTgWebhook/valueparser"
	"github.com/YaCodeDev/GoYaTgWebhook/yaerrors"
)

// Parsed is a successfully recognised command.
type Parsed struct {
	// Index is the position of the matched Entry in the Set.
	Index    int
	Name     string
	Declared string
	Prefix   string
	// RawArgs is the text after the command token and one whitespace character.
	RawArgs string
	// Args is nil for commands without arguments, a value of the Entry.Args type otherwise.
	Args any
}

// Args returns the typed argument value of p.
//
// Example usage:
//
//	n, ok := yacommand.Args[int32](parsed)
func Args[T any](p Parsed) (T, bool) {
	value, ok := p.Args.(T)

	return value, ok
}

// Parse matches text against the declared commands in declaration order.
//
// Errors are 400 yaerrors.Error values wrapping a *ParseError. Text that is not a
// command for this bot yields ErrUnknownCommand or ErrWrongBotName, which IsNotCommand
// recognises; argument problems yield ErrTooFewArguments, ErrTooManyArguments,
// ErrIncorrectFormat or ErrCustom.
func (s *Set) Parse(text string, botName string) (Parsed, yaerrors.Error) {
	var wrongBot string

	for i := range s.entries {
		entry := &s.entries[i]

		rest, ok := strings.CutPrefix(text, entry.prefix)
		if !ok {
			continue
		}

		token, rawArgs := splitToken(rest)

		name, mention, addressed := strings.Cut(token, "@")
		if name != entry.name {
			continue
		}

		if addressed && mention != botName {
			wrongBot = mention

			continue
		}

		value, err := entry.parseArgs(rawArgs)
		if err != nil {
			return Parsed{}, err
		}

		return Parsed{
			Index:    entry.index,
			Name:     entry.name,
			Declared: entry.declared,
			Prefix:   entry.prefix,
			RawArgs:  rawArgs,
			Args:     value,
		}, nil
	}

	if wrongBot != "" {
		return Parsed{}, parseFailure(&ParseError{Kind: ErrWrongBotName, Input: wrongBot})
	}

	return Parsed{}, parseFailure(&ParseError{Kind: ErrUnknownCommand, Input: firstToken(text)})
}

func (c *compiledEntry) parseArgs(raw string) (any, yaerrors.Error) {
	switch c.strategy {
	case StrategyCustom:
		return c.parseCustom(raw)
	case StrategySplit:
		return c.build(c.splitArgs(raw))
	default:
		if len(c.fields) == 0 {
			return c.build(strings.Fields(raw))
		}

		return c.build([]string{raw})
	}
}

func (c *compiledEntry) splitArgs(raw string) []string {
	if c.separator == "" {
		return strings.Fields(raw)
	}

	if raw == "" {
		return nil
	}

	return strings.Split(raw, c.separator)
}

func (c *compiledEntry) build(tokens []string) (any, yaerrors.Error) {
	want := len(c.fields)

	switch {
	case len(tokens) < want:
		return nil, parseFailure(&ParseError{
			Kind: ErrTooFewArguments, Command: c.name, Expected: want, Found: len(tokens),
		})
	case len(tokens) > want:
		return nil, parseFailure(&ParseError{
			Kind: ErrTooManyArguments, Command: c.name, Expected: want, Found: len(tokens),
		})
	}

	values := make([]reflect.Value, 0, want)

	for i, token := range tokens {
		value, err := valueparser.ParseInto(token, c.fields[i])
		if err != nil {
			return nil, parseFailure(&ParseError{
				Kind: ErrIncorrectFormat, Command: c.name, Input: token, Err: err,
			})
		}

		values = append(values, value)
	}

	switch c.shape {
	case shapeScalar:
		return values[0].Interface(), nil
	case shapeStruct:
		out := reflect.New(c.target).Elem()
		for i, value := range values {
			out.Field(i).Set(value)
		}

		return out.Interface(), nil
	default:
		return nil, nil
	}
}

func (c *compiledEntry) parseCustom(raw string) (any, yaerrors.Error) {
	value, err := c.parser(raw)
	if err != nil {
		var parseErr *ParseError
		if errors.As(err, &parseErr) {
			failure := *parseErr
			failure.Command = c.name

			if failure.Kind == nil {
				failure.Kind = ErrCustom
			}

			return nil, parseFailure(&failure)
		}

		return nil, parseFailure(&ParseError{Kind: ErrCustom, Command: c.name, Input: raw, Err: err})
	}

	if c.target != nil && value != nil && !reflect.TypeOf(value).AssignableTo(c.target) {
		return nil, parseFailure(&ParseError{
			Kind:    ErrIncorrectFormat,
			Command: c.name,
			Input:   raw,
			Err:     fmt.Errorf("custom parser returned %T, want %s", value, c.target),
		})
	}

	return value, nil
}

func parseFailure(err *ParseError) yaerrors.Error {
	return yaerrors.FromError(http.StatusBadRequest, err, "yacommand: parse")
}

// splitToken cuts rest at its first whitespace rune, dropping that rune.
func splitToken(rest string) (string, string) {
	idx := strings.IndexFunc(rest, unicode.IsSpace)
	if idx < 0 {
		return rest, ""
	}

	_, size := utf8.DecodeRuneInString(rest[idx:])

	return rest[:idx], rest[idx+size:]
}

func firstToken(text string) string {
	token, _ := splitToken(text)

	return token
}
