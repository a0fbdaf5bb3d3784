package yacommand

import (
	"regexp"
	"strings"

	"github.com/YaCodeDev/GoYaTgWebhook/yatgtypes"
)

var botCommandName = regexp.MustCompile(`^[a-z0-9_]{1,32}$`)

// DescriptionLines renders the help text as lines: the Set description if any, then
// "{prefix}{name} - {description}" or "{prefix}{name}" for every entry that does not
// hide its description.
func (s *Set) DescriptionLines() []string {
	lines := make([]string, 0, len(s.entries)+1)

	if s.description != "" {
		lines = append(lines, s.description)
	}

	for _, entry := range s.entries {
		if entry.hidden {
			continue
		}

		line := entry.prefix + entry.name
		if entry.description != "" {
			line += " - " + entry.description
		}

		lines = append(lines, line)
	}

	return lines
}

// Descriptions renders DescriptionLines as newline-terminated text ready to send as a
// help reply.
//
// Example output:
//
//	Bot commands
//	/start - start the bot
//	!help
func (s *Set) Descriptions() string {
	lines := s.DescriptionLines()
	if len(lines) == 0 {
		return ""
	}

	var b strings.Builder

	for _, line := range lines {
		b.WriteString(line)
		b.WriteByte('\n')
	}

	return b.String()
}

// BotCommands lists the visible "/" commands whose names Telegram accepts in its command
// menu. Entries without a description use their name as one.
func (s *Set) BotCommands() []yatgtypes.BotCommand {
	commands := make([]yatgtypes.BotCommand, 0, len(s.entries))

	for _, entry := range s.entries {
		if entry.hidden || entry.prefix != DefaultPrefix || !botCommandName.MatchString(entry.name) {
			continue
		}

		description := entry.description
		if description == "" {
			description = entry.name
		}

		commands = append(commands, yatgtypes.BotCommand{
			Command:     entry.name,
			Description: description,
		})
	}

	return commands
}
