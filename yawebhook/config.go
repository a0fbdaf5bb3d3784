package yawebhook

import (
	"net"
	"net/http"
	"strconv"
	"strings"

	"github.com/YaCodeDev/GoYaTgWebhook/yaerrors"
)

const (
	// PathPrefix is the fixed literal the secret token is appended to.
	PathPrefix = "bot"

	DefaultBindAddress = "0.0.0.0"

	pathParam    = "path"
	webhookRoute = "/:" + pathParam
	// redactedPath replaces the webhook path in logs.
	redactedPath = "/" + PathPrefix + "***"
)

// Config is loaded with config.LoadConfigStructFromEnv; field names map to BOT_TOKEN,
// PORT, HOST, BIND_ADDRESS and DELETE_WEBHOOK_ON_STOP.
type Config struct {
	BotToken            string
	Port                uint16
	Host                string
	BindAddress         string `default:"0.0.0.0"`
	DeleteWebhookOnStop bool   `default:"false"`
}

// Validate reports the first missing or malformed value.
func (c *Config) Validate() yaerrors.Error {
	switch {
	case c.BotToken == "":
		return yaerrors.FromError(http.StatusBadRequest, ErrEmptyToken, "invalid webhook config")
	case c.Host == "":
		return yaerrors.FromError(http.StatusBadRequest, ErrEmptyHost, "invalid webhook config")
	case strings.ContainsAny(c.Host, "/?#@ "):
		return yaerrors.FromError(http.StatusBadRequest, ErrInvalidHost, "invalid webhook config: "+c.Host)
	case c.Port == 0:
		return yaerrors.FromError(http.StatusBadRequest, ErrInvalidPort, "invalid webhook config")
	}

	return nil
}

// Path is the route the listener serves, "/bot{token}".
func (c *Config) Path() string {
	return "/" + PathPrefix + c.BotToken
}

// URL is the callback registered with Telegram, "https://{host}/bot{token}".
func (c *Config) URL() string {
	return "https://" + c.Host + c.Path()
}

// ListenAddress joins the bind address and port.
func (c *Config) ListenAddress() string {
	bind := c.BindAddress
	if bind == "" {
		bind = DefaultBindAddress
	}

	return net.JoinHostPort(bind, strconv.FormatUint(uint64(c.Port), 10))
}
