package yacommand

import (
	"regexp"
	"strings"
	"unicode"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// RenameRule turns a declared command name into the name users type.
type RenameRule uint8

const (
	// RenameInherit uses the rule of the Set. On the Set it means RenameIdentity.
	RenameInherit RenameRule = iota
	RenameIdentity
	RenameLowercase
	RenameUppercase
	RenameSnakeCase
	RenameScreamingSnakeCase
	RenameKebabCase
	RenameScreamingKebabCase
	RenameCamelCase
	RenamePascalCase
)

var (
	matchFirstCap = regexp.MustCompile("(.)([A-Z][a-z]+)")
	matchAllCap   = regexp.MustCompile("([a-z0-9])([A-Z])")
)

// Apply renames name, e.g. RenameSnakeCase turns "StartAll" into "start_all".
func (r RenameRule) Apply(name string) string {
	lower := cases.Lower(language.Und)
	upper := cases.Upper(language.Und)
	title := cases.Title(language.Und)

	switch r {
	case RenameLowercase:
		return lower.String(name)
	case RenameUppercase:
		return upper.String(name)
	case RenameSnakeCase:
		return joinWords(name, "_", lower.String)
	case RenameScreamingSnakeCase:
		return joinWords(name, "_", upper.String)
	case RenameKebabCase:
		return joinWords(name, "-", lower.String)
	case RenameScreamingKebabCase:
		return joinWords(name, "-", upper.String)
	case RenameCamelCase:
		parts := words(name)
		for i, part := range parts {
			if i == 0 {
				parts[i] = lower.String(part)
			} else {
				parts[i] = title.String(part)
			}
		}

		return strings.Join(parts, "")
	case RenamePascalCase:
		return joinWords(name, "", title.String)
	default:
		return name
	}
}

func (r RenameRule) String() string {
	switch r {
	case RenameInherit:
		return "inherit"
	case RenameIdentity:
		return "identity"
	case RenameLowercase:
		return "lowercase"
	case RenameUppercase:
		return "UPPERCASE"
	case RenameSnakeCase:
		return "snake_case"
	case RenameScreamingSnakeCase:
		return "SCREAMING_SNAKE_CASE"
	case RenameKebabCase:
		return "kebab-case"
	case RenameScreamingKebabCase:
		return "SCREAMING-KEBAB-CASE"
	case RenameCamelCase:
		return "camelCase"
	case RenamePascalCase:
		return "PascalCase"
	default:
		return "unknown"
	}
}

func joinWords(name string, sep string, transform func(string) string) string {
	parts := words(name)
	for i, part := range parts {
		parts[i] = transform(part)
	}

	return strings.Join(parts, sep)
}

// words splits camel case humps and any of "_", "-" or whitespace.
func words(name string) []string {
	s := matchFirstCap.ReplaceAllString(name, "${1}_${2}")
	s = matchAllCap.ReplaceAllString(s, "${1}_${2}")

	return strings.FieldsFunc(s, func(r rune) bool {
		return r == '_' || r == '-' || unicode.IsSpace(r)
	})
}
