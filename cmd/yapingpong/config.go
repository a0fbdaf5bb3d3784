package main

import (
	"time"

	"github.com/YaCodeDev/GoYaTgWebhook/yalogger"
)

type Config struct {
	BotToken            string
	Port                uint16
	Host                string
	BindAddress         string         `default:"0.0.0.0"`
	BotUsername         string         `default:""`
	LogLevel            yalogger.Level `default:"info"`
	DeleteWebhookOnStop bool           `default:"false"`
	DeadLetterDSN       string         `default:""`
	RedisAddr           string         `default:""`
	RedisPassword       string         `default:""`
	APIServerURL        string         `default:""`
	RateLimit           uint32         `default:"0"`
	RateLimitWindow     time.Duration  `default:"1m"`
}
