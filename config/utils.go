package config

import (
	"os"
	"strings"

	"github.com/YaCodeDev/GoYaTgWebhook/yalogger"
)

// safetyCheck replaces a nil logger with a default one and says so.
func safetyCheck(log *yalogger.Logger) {
	if *log == nil {
		*log = yalogger.NewBaseLogger(nil).NewLogger()

		(*log).Warn("Logger is nil, using default logger")
	}
}

// toScreamingSnakeCase converts a string to SCREAMING_SNAKE_CASE.
// For example, "BotToken" becomes "BOT_TOKEN" and "HTTPAddr" becomes "HTTP_ADDR".
func toScreamingSnakeCase(s string) string {
	s = matchFirstCap.ReplaceAllString(s, "${1}_${2}")
	s = matchAllCap.ReplaceAllString(s, "${1}_${2}")

	return strings.ToUpper(s)
}

// lookupEnv treats an empty variable the same as an unset one.
func lookupEnv(key string) (string, bool) {
	value, exists := os.LookupEnv(key)
	if !exists || value == "" {
		return "", false
	}

	return value, true
}
