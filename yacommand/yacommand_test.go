package yacommand_test

import (
	"errors"
	"net/http"
	"strconv"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/YaCodeDev/GoYaTgWebhook/yacommand"
	"github.com/YaCodeDev/GoYaTgWebhook/yatgtypes"
)

type startArgs struct {
	Num  uint8
	Data string
}

var (
	errTwoArguments = errors.New("might be 2 arguments")
	errNotInteger   = errors.New("first argument must be an integer")
)

func lowercase() yacommand.Options {
	return yacommand.Options{Rename: yacommand.RenameLowercase}
}

func mustParse(t *testing.T, set *yacommand.Set, text string, bot string) yacommand.Parsed {
	t.Helper()

	parsed, err := set.Parse(text, bot)
	require.Nil(t, err, "parse %q", text)

	return parsed
}

func TestParse_WholeCaptureString(t *testing.T) {
	set := yacommand.MustNew(lowercase(),
		yacommand.Entry{Name: "Start", Args: ""},
		yacommand.Entry{Name: "Help"},
	)

	parsed := mustParse(t, set, "/start arg1 arg2", "")

	assert.Equal(t, "start", parsed.Name)
	assert.Equal(t, "Start", parsed.Declared)
	assert.Equal(t, "arg1 arg2", parsed.Args)
}

func TestParse_WholeCaptureKeepsWhitespace(t *testing.T) {
	set := yacommand.MustNew(lowercase(), yacommand.Entry{Name: "Echo", Args: ""})

	parsed := mustParse(t, set, "/echo  two  spaces\tand tab ", "")

	assert.Equal(t, " two  spaces\tand tab ", parsed.Args)
}

func TestParse_NonStringArgument(t *testing.T) {
	set := yacommand.MustNew(lowercase(),
		yacommand.Entry{Name: "Start", Args: int32(0)},
		yacommand.Entry{Name: "Help"},
	)

	parsed := mustParse(t, set, "/start -50", "")

	value, ok := yacommand.Args[int32](parsed)
	require.True(t, ok)
	assert.Equal(t, int32(-50), value)
}

func TestParse_EntryPrefix(t *testing.T) {
	set := yacommand.MustNew(lowercase(),
		yacommand.Entry{Name: "Start", Prefix: "!", Args: ""},
		yacommand.Entry{Name: "Help"},
	)

	parsed := mustParse(t, set, "!start arg1 arg2", "")
	assert.Equal(t, "arg1 arg2", parsed.Args)
	assert.Equal(t, "!", parsed.Prefix)

	_, err := set.Parse("/start arg1", "")
	assert.ErrorIs(t, err, yacommand.ErrUnknownCommand)
}

func TestParse_GlobalPrefix(t *testing.T) {
	set := yacommand.MustNew(
		yacommand.Options{Prefix: "!", Rename: yacommand.RenameLowercase, Description: "Bot commands"},
		yacommand.Entry{Name: "Start", Prefix: "/"},
		yacommand.Entry{Name: "Help"},
	)

	assert.Equal(t, "start", mustParse(t, set, "/start", "MyNameBot").Name)
	assert.Equal(t, "help", mustParse(t, set, "!help", "MyNameBot").Name)
	assert.Equal(t, "Bot commands\n/start\n!help\n", set.Descriptions())
}

func TestParse_BotName(t *testing.T) {
	set := yacommand.MustNew(lowercase(),
		yacommand.Entry{Name: "Start"},
		yacommand.Entry{Name: "Help"},
	)

	parsed := mustParse(t, set, "/start@MyNameBot", "MyNameBot")
	assert.Equal(t, "start", parsed.Name)
	assert.Nil(t, parsed.Args)

	_, err := set.Parse("/start@other_bot", "MyNameBot")
	require.NotNil(t, err)
	assert.ErrorIs(t, err, yacommand.ErrWrongBotName)
	assert.True(t, yacommand.IsNotCommand(err))

	_, err = set.Parse("/start@mynamebot", "MyNameBot")
	assert.ErrorIs(t, err, yacommand.ErrWrongBotName)
}

func TestParse_BotNameWithArguments(t *testing.T) {
	set := yacommand.MustNew(lowercase(), yacommand.Entry{Name: "Echo", Args: ""})

	parsed := mustParse(t, set, "/echo@MyNameBot hello there", "MyNameBot")

	assert.Equal(t, "hello there", parsed.Args)
}

func TestParse_Split(t *testing.T) {
	set := yacommand.MustNew(
		yacommand.Options{Rename: yacommand.RenameLowercase, Strategy: yacommand.StrategySplit},
		yacommand.Entry{Name: "Start", Args: startArgs{}},
		yacommand.Entry{Name: "Help"},
	)

	parsed := mustParse(t, set, "/start 10 hello", "")
	assert.Equal(t, startArgs{Num: 10, Data: "hello"}, parsed.Args)

	assert.Nil(t, mustParse(t, set, "/help", "").Args)
}

func TestParse_SplitWithSeparator(t *testing.T) {
	set := yacommand.MustNew(
		yacommand.Options{
			Rename:    yacommand.RenameLowercase,
			Strategy:  yacommand.StrategySplit,
			Separator: "|",
		},
		yacommand.Entry{Name: "Start", Args: startArgs{}},
		yacommand.Entry{Name: "Help"},
	)

	parsed := mustParse(t, set, "/start 10|hello", "")
	assert.Equal(t, startArgs{Num: 10, Data: "hello"}, parsed.Args)

	assert.Nil(t, mustParse(t, set, "/help", "").Args)
}

func TestParse_SplitCountMismatch(t *testing.T) {
	set := yacommand.MustNew(lowercase(), yacommand.Entry{Name: "Start", Args: startArgs{}})

	tests := []struct {
		text     string
		kind     error
		expected int
		found    int
	}{
		{text: "/start", kind: yacommand.ErrTooFewArguments, expected: 2, found: 0},
		{text: "/start 10", kind: yacommand.ErrTooFewArguments, expected: 2, found: 1},
		{text: "/start 10 hello world", kind: yacommand.ErrTooManyArguments, expected: 2, found: 3},
	}

	for _, tt := range tests {
		t.Run(tt.text, func(t *testing.T) {
			_, err := set.Parse(tt.text, "")
			require.NotNil(t, err)

			assert.Equal(t, http.StatusBadRequest, err.Code())
			assert.ErrorIs(t, err, tt.kind)
			assert.False(t, yacommand.IsNotCommand(err))

			var parseErr *yacommand.ParseError
			require.ErrorAs(t, err, &parseErr)
			assert.Equal(t, tt.expected, parseErr.Expected)
			assert.Equal(t, tt.found, parseErr.Found)
			assert.Equal(t, "start", parseErr.Command)
		})
	}
}

func TestParse_IncorrectFormat(t *testing.T) {
	set := yacommand.MustNew(lowercase(),
		yacommand.Entry{Name: "Start", Args: startArgs{}},
		yacommand.Entry{Name: "Count", Args: int32(0)},
	)

	_, err := set.Parse("/start ten hello", "")
	require.NotNil(t, err)
	assert.ErrorIs(t, err, yacommand.ErrIncorrectFormat)

	var parseErr *yacommand.ParseError
	require.ErrorAs(t, err, &parseErr)
	assert.Equal(t, "ten", parseErr.Input)

	_, err = set.Parse("/start 300 hello", "")
	assert.ErrorIs(t, err, yacommand.ErrIncorrectFormat)

	_, err = set.Parse("/count", "")
	assert.ErrorIs(t, err, yacommand.ErrIncorrectFormat)
}

func TestParse_UnitRejectsArguments(t *testing.T) {
	set := yacommand.MustNew(lowercase(), yacommand.Entry{Name: "Help"})

	_, err := set.Parse("/help me", "")
	assert.ErrorIs(t, err, yacommand.ErrTooManyArguments)

	assert.Equal(t, "help", mustParse(t, set, "/help ", "").Name)
}

func customParse(args string) (any, error) {
	fields := strings.Fields(args)
	if len(fields) != 2 {
		return nil, yacommand.IncorrectFormat(errTwoArguments)
	}

	num, err := strconv.ParseUint(fields[0], 10, 8)
	if err != nil {
		return nil, errNotInteger
	}

	return startArgs{Num: uint8(num), Data: fields[1]}, nil
}

func TestParse_CustomParser(t *testing.T) {
	set := yacommand.MustNew(lowercase(),
		yacommand.Entry{Name: "Start", Args: startArgs{}, Parser: customParse},
		yacommand.Entry{Name: "Help"},
	)

	parsed := mustParse(t, set, "/start 10 hello", "")
	assert.Equal(t, startArgs{Num: 10, Data: "hello"}, parsed.Args)

	_, err := set.Parse("/start 10", "")
	assert.ErrorIs(t, err, yacommand.ErrIncorrectFormat)
	assert.ErrorIs(t, err, errTwoArguments)

	_, err = set.Parse("/start ten hello", "")
	assert.ErrorIs(t, err, yacommand.ErrCustom)
	assert.ErrorIs(t, err, errNotInteger)
	assert.NotErrorIs(t, err, yacommand.ErrIncorrectFormat)
}

func TestParse_CustomParserWrongType(t *testing.T) {
	set := yacommand.MustNew(lowercase(), yacommand.Entry{
		Name:   "Start",
		Args:   startArgs{},
		Parser: func(string) (any, error) { return 5, nil },
	})

	_, err := set.Parse("/start x", "")
	assert.ErrorIs(t, err, yacommand.ErrIncorrectFormat)
}

func TestParse_DeclarationOrderTieBreak(t *testing.T) {
	set := yacommand.MustNew(lowercase(),
		yacommand.Entry{Name: "Start"},
		yacommand.Entry{Name: "StartAll"},
	)

	assert.Equal(t, 0, mustParse(t, set, "/start", "").Index)
	assert.Equal(t, 1, mustParse(t, set, "/startall", "").Index)

	_, err := set.Parse("/startal", "")
	assert.ErrorIs(t, err, yacommand.ErrUnknownCommand)
}

func TestParse_FirstMatchingPrefixWins(t *testing.T) {
	set := yacommand.MustNew(yacommand.Options{},
		yacommand.Entry{Name: "go", Prefix: "!", Args: ""},
		yacommand.Entry{Name: "go", Prefix: "!!", Args: ""},
	)

	assert.Equal(t, 1, mustParse(t, set, "!!go fast", "").Index)
	assert.Equal(t, 0, mustParse(t, set, "!go fast", "").Index)
}

func TestParse_NotACommand(t *testing.T) {
	set := yacommand.MustNew(lowercase(), yacommand.Entry{Name: "Start"})

	for _, text := range []string{"", "hello", "start", " /start", "/", "/stop"} {
		_, err := set.Parse(text, "bot")

		require.NotNil(t, err, text)
		assert.ErrorIs(t, err, yacommand.ErrUnknownCommand, text)
		assert.True(t, yacommand.IsNotCommand(err), text)
	}
}

func TestParse_CaseSensitiveAfterRename(t *testing.T) {
	set := yacommand.MustNew(lowercase(), yacommand.Entry{Name: "Start"})

	_, err := set.Parse("/Start", "")
	assert.ErrorIs(t, err, yacommand.ErrUnknownCommand)
}

func TestDescriptions(t *testing.T) {
	set := yacommand.MustNew(lowercase(),
		yacommand.Entry{Name: "Start", Prefix: "!", Description: "desc"},
		yacommand.Entry{Name: "Help"},
	)

	assert.Equal(t, "!start - desc\n/help\n", set.Descriptions())
	assert.Equal(t, []string{"!start - desc", "/help"}, set.DescriptionLines())
}

func TestDescriptions_Hidden(t *testing.T) {
	set := yacommand.MustNew(lowercase(),
		yacommand.Entry{Name: "Start", HideDescription: true},
		yacommand.Entry{Name: "Help"},
	)

	assert.Equal(t, "/help\n", set.Descriptions())
	assert.Equal(t, "start", mustParse(t, set, "/start", "").Name)
}

func TestDescriptions_Empty(t *testing.T) {
	set := yacommand.MustNew(yacommand.Options{}, yacommand.Entry{Name: "x", HideDescription: true})

	assert.Empty(t, set.Descriptions())
}

func TestBotCommands(t *testing.T) {
	set := yacommand.MustNew(yacommand.Options{Rename: yacommand.RenameSnakeCase},
		yacommand.Entry{Name: "Start", Description: "start the bot"},
		yacommand.Entry{Name: "StartAll"},
		yacommand.Entry{Name: "Secret", HideDescription: true},
		yacommand.Entry{Name: "Bang", Prefix: "!"},
	)

	want := []yatgtypes.BotCommand{
		{Command: "start", Description: "start the bot"},
		{Command: "start_all", Description: "start_all"},
	}

	if diff := cmp.Diff(want, set.BotCommands()); diff != "" {
		t.Fatalf("bot commands mismatch (-want +got):\n%s", diff)
	}
}

func TestRenameRules(t *testing.T) {
	tests := []struct {
		rule yacommand.RenameRule
		want string
	}{
		{rule: yacommand.RenameIdentity, want: "StartAllNow"},
		{rule: yacommand.RenameLowercase, want: "startallnow"},
		{rule: yacommand.RenameUppercase, want: "STARTALLNOW"},
		{rule: yacommand.RenameSnakeCase, want: "start_all_now"},
		{rule: yacommand.RenameScreamingSnakeCase, want: "START_ALL_NOW"},
		{rule: yacommand.RenameKebabCase, want: "start-all-now"},
		{rule: yacommand.RenameScreamingKebabCase, want: "START-ALL-NOW"},
		{rule: yacommand.RenameCamelCase, want: "startAllNow"},
		{rule: yacommand.RenamePascalCase, want: "StartAllNow"},
	}

	for _, tt := range tests {
		t.Run(tt.rule.String(), func(t *testing.T) {
			assert.Equal(t, tt.want, tt.rule.Apply("StartAllNow"))
		})
	}

	assert.Equal(t, "start_all", yacommand.RenameSnakeCase.Apply("start-all"))
}

func TestEntryRenameOverride(t *testing.T) {
	set := yacommand.MustNew(lowercase(),
		yacommand.Entry{Name: "StartAll", Rename: yacommand.RenameSnakeCase},
		yacommand.Entry{Name: "HelpMe"},
	)

	assert.Equal(t, "start_all", mustParse(t, set, "/start_all", "").Name)
	assert.Equal(t, "helpme", mustParse(t, set, "/helpme", "").Name)

	name, ok := set.Lookup("StartAll")
	assert.True(t, ok)
	assert.Equal(t, "start_all", name)

	name, ok = set.Lookup("helpme")
	assert.True(t, ok)
	assert.Equal(t, "helpme", name)

	_, ok = set.Lookup("missing")
	assert.False(t, ok)
}

func TestNew_InvalidDeclarations(t *testing.T) {
	type hidden struct {
		value int
	}

	tests := []struct {
		name    string
		entries []yacommand.Entry
	}{
		{name: "empty name", entries: []yacommand.Entry{{Name: ""}}},
		{name: "space in name", entries: []yacommand.Entry{{Name: "a b"}}},
		{name: "at in name", entries: []yacommand.Entry{{Name: "a@b"}}},
		{name: "duplicate", entries: []yacommand.Entry{{Name: "start"}, {Name: "start"}}},
		{
			name:    "whole with two fields",
			entries: []yacommand.Entry{{Name: "s", Args: startArgs{}, Strategy: yacommand.StrategyWhole}},
		},
		{name: "custom without parser", entries: []yacommand.Entry{{Name: "s", Strategy: yacommand.StrategyCustom}}},
		{name: "unsupported scalar", entries: []yacommand.Entry{{Name: "s", Args: []int{}}}},
		{name: "unexported field", entries: []yacommand.Entry{{Name: "s", Args: hidden{}}}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := yacommand.New(yacommand.Options{}, tt.entries...)

			require.NotNil(t, err)
			assert.ErrorIs(t, err, yacommand.ErrInvalidDeclaration)
		})
	}
}

func TestNew_SameNameDifferentPrefix(t *testing.T) {
	set, err := yacommand.New(yacommand.Options{},
		yacommand.Entry{Name: "start"},
		yacommand.Entry{Name: "start", Prefix: "!"},
	)

	require.Nil(t, err)
	assert.Equal(t, 2, set.Len())
}
