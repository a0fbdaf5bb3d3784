// Package yacommand declares the commands a bot understands and parses message text
// against them.
//
// A Set is built once from an ordered list of entries and is immutable afterwards, so it
// can be shared between the webhook and dispatch goroutines without locking.
//
// Example usage:
//
//	type addArgs struct {
//		A int
//		B int
//	}
//
//	commands, err := yacommand.New(
//		yacommand.Options{Rename: yacommand.RenameLowercase, Description: "Bot commands"},
//		yacommand.Entry{Name: "Start", Description: "start the bot"},
//		yacommand.Entry{Name: "Echo", Args: ""},
//		yacommand.Entry{Name: "Add", Args: addArgs{}, Strategy: yacommand.StrategySplit},
//	)
//	if err != nil {
//		// Handle error
//	}
//
//	parsed, err := commands.Parse("/add 2 3", "MyNameBot")
//	if err != nil {
//		// Handle error
//	}
//
//	args, _ := yacommand.Args[addArgs](parsed)
package yacommand

import (
	"fmt"
	"net/http"
	"reflect"
	"strings"
	"unicode"

	"github.com/YaCodeDev/GoYaTgWebhook/valueparser"
	"github.com/YaCodeDev/GoYaTgWebhook/yaerrors"
)

// DefaultPrefix starts every command unless a Set or Entry says otherwise.
const DefaultPrefix = "/"

// Strategy selects how the argument string becomes the typed argument value.
type Strategy uint8

const (
	// StrategyAuto captures the whole string for zero or one field and splits otherwise.
	StrategyAuto Strategy = iota
	// StrategyWhole passes the whole argument string to a single field.
	StrategyWhole
	// StrategySplit splits on Separator, whitespace runs by default, one token per field.
	StrategySplit
	// StrategyCustom hands the argument string to Entry.Parser.
	StrategyCustom
)

// CustomParser converts the raw argument string into the argument value. Return
// IncorrectFormat for shape problems; any other error is reported as ErrCustom.
type CustomParser func(args string) (any, error)

// Options are the Set-wide defaults every Entry may override.
type Options struct {
	// Prefix defaults to DefaultPrefix.
	Prefix string
	// Description is rendered as the first line of Descriptions.
	Description string
	Rename      RenameRule
	Strategy    Strategy
	Separator   string
}

// Entry declares one command.
//
// Args is a prototype of the argument value: nil for a command without arguments, a
// scalar such as "" or int64(0) for a single argument, or a struct whose exported fields
// receive the arguments in declaration order.
type Entry struct {
	Name            string
	Prefix          string
	Description     string
	HideDescription bool
	Rename          RenameRule
	Strategy        Strategy
	Separator       string
	Args            any
	Parser          CustomParser
}

type argShape uint8

const (
	shapeUnit argShape = iota
	shapeScalar
	shapeStruct
)

type compiledEntry struct {
	index       int
	declared    string
	name        string
	prefix      string
	description string
	hidden      bool
	strategy    Strategy
	separator   string
	shape       argShape
	target      reflect.Type
	fields      []reflect.Type
	parser      CustomParser
}

// Set is an ordered, immutable collection of command declarations.
type Set struct {
	description string
	entries     []compiledEntry
	byName      map[string]int
}

// New validates and compiles entries. Entry order is significant: Parse picks the first
// entry that matches.
func New(opts Options, entries ...Entry) (*Set, yaerrors.Error) {
	if opts.Prefix == "" {
		opts.Prefix = DefaultPrefix
	}

	if opts.Rename == RenameInherit {
		opts.Rename = RenameIdentity
	}

	set := &Set{
		description: opts.Description,
		entries:     make([]compiledEntry, 0, len(entries)),
		byName:      make(map[string]int, len(entries)*2),
	}

	seen := make(map[string]struct{}, len(entries))

	for i, entry := range entries {
		compiled, err := compile(i, entry, opts)
		if err != nil {
			return nil, err
		}

		key := compiled.prefix + compiled.name
		if _, dup := seen[key]; dup {
			return nil, declarationError(entry.Name, "duplicate command "+key)
		}

		seen[key] = struct{}{}

		set.entries = append(set.entries, compiled)

		if _, taken := set.byName[compiled.name]; !taken {
			set.byName[compiled.name] = i
		}

		if _, taken := set.byName[compiled.declared]; !taken {
			set.byName[compiled.declared] = i
		}
	}

	return set, nil
}

// MustNew is New that panics, for package-level command tables.
func MustNew(opts Options, entries ...Entry) *Set {
	set, err := New(opts, entries...)
	if err != nil {
		panic(err)
	}

	return set
}

// Len returns the number of declared commands.
func (s *Set) Len() int {
	return len(s.entries)
}

// Lookup resolves a declared or canonical name to the canonical one.
//
// Example usage:
//
//	name, ok := commands.Lookup("StartAll") // "start_all", true with RenameSnakeCase
func (s *Set) Lookup(name string) (string, bool) {
	i, ok := s.byName[name]
	if !ok {
		return "", false
	}

	return s.entries[i].name, true
}

func compile(index int, entry Entry, opts Options) (compiledEntry, yaerrors.Error) {
	if entry.Name == "" || strings.ContainsFunc(entry.Name, func(r rune) bool {
		return unicode.IsSpace(r) || r == '@'
	}) {
		return compiledEntry{}, declarationError(entry.Name, "name must be non-empty without spaces or '@'")
	}

	compiled := compiledEntry{
		index:       index,
		declared:    entry.Name,
		prefix:      firstNonEmpty(entry.Prefix, opts.Prefix),
		description: entry.Description,
		hidden:      entry.HideDescription,
		strategy:    entry.Strategy,
		separator:   firstNonEmpty(entry.Separator, opts.Separator),
		parser:      entry.Parser,
	}

	rule := entry.Rename
	if rule == RenameInherit {
		rule = opts.Rename
	}

	compiled.name = rule.Apply(entry.Name)

	if compiled.strategy == StrategyAuto && entry.Parser != nil {
		compiled.strategy = StrategyCustom
	}

	if compiled.strategy == StrategyAuto {
		compiled.strategy = opts.Strategy
	}

	if err := compiled.resolveShape(entry.Args); err != nil {
		return compiledEntry{}, err
	}

	if compiled.strategy == StrategyAuto {
		compiled.strategy = StrategyWhole
		if len(compiled.fields) > 1 {
			compiled.strategy = StrategySplit
		}
	}

	switch compiled.strategy {
	case StrategyWhole:
		if len(compiled.fields) > 1 {
			return compiledEntry{}, declarationError(
				entry.Name,
				fmt.Sprintf("whole capture needs at most one field, got %d", len(compiled.fields)),
			)
		}
	case StrategyCustom:
		if compiled.parser == nil {
			return compiledEntry{}, declarationError(entry.Name, "custom strategy without parser")
		}
	case StrategyAuto, StrategySplit:
	default:
		return compiledEntry{}, declarationError(entry.Name, "unknown strategy")
	}

	return compiled, nil
}

func (c *compiledEntry) resolveShape(prototype any) yaerrors.Error {
	if prototype == nil {
		c.shape = shapeUnit

		return nil
	}

	typ := reflect.TypeOf(prototype)
	c.target = typ

	if valueparser.Supports(typ) {
		c.shape = shapeScalar
		c.fields = []reflect.Type{typ}

		return nil
	}

	if typ.Kind() != reflect.Struct {
		if c.parser != nil {
			c.shape = shapeScalar

			return nil
		}

		return declarationError(c.declared, "unsupported argument type "+typ.String())
	}

	c.shape = shapeStruct

	for i := range typ.NumField() {
		field := typ.Field(i)

		if !field.IsExported() {
			return declarationError(c.declared, "unexported argument field "+field.Name)
		}

		if c.parser == nil && !valueparser.Supports(field.Type) {
			return declarationError(
				c.declared,
				fmt.Sprintf("unsupported type %s of field %s", field.Type, field.Name),
			)
		}

		c.fields = append(c.fields, field.Type)
	}

	return nil
}

func declarationError(name string, msg string) yaerrors.Error {
	return yaerrors.FromError(
		http.StatusInternalServerError,
		fmt.Errorf("%w: %s", ErrInvalidDeclaration, msg),
		fmt.Sprintf("yacommand: declare %q", name),
	)
}

func firstNonEmpty(values ...string) string {
	for _, value := range values {
		if value != "" {
			return value
		}
	}

	return ""
}
