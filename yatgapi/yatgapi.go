// Package yatgapi is the outbound side of the bot: it registers the webhook callback URL,
// publishes the command menu and sends replies through the Telegram Bot API.
package yatgapi

import (
	"context"
	"net/http"

	"github.com/go-telegram/bot"
	"github.com/go-telegram/bot/models"

	"github.com/YaCodeDev/GoYaTgWebhook/yaerrors"
	"github.com/YaCodeDev/GoYaTgWebhook/yalogger"
	"github.com/YaCodeDev/GoYaTgWebhook/yatgtypes"
)

// TelegramBot is the part of *bot.Bot the client relies on.
type TelegramBot interface {
	SetWebhook(ctx context.Context, params *bot.SetWebhookParams) (bool, error)
	DeleteWebhook(ctx context.Context, params *bot.DeleteWebhookParams) (bool, error)
	GetMe(ctx context.Context) (*models.User, error)
	SetMyCommands(ctx context.Context, params *bot.SetMyCommandsParams) (bool, error)
	SendMessage(ctx context.Context, params *bot.SendMessageParams) (*models.Message, error)
}

// Client wraps a TelegramBot with coded errors and logging.
type Client struct {
	bot TelegramBot
	log yalogger.Logger
}

// Option customises New.
type Option func(*options)

type options struct {
	serverURL string
	log       yalogger.Logger
}

// WithServerURL points the client at another Bot API server, e.g. a local one or a test
// double.
func WithServerURL(url string) Option {
	return func(o *options) {
		o.serverURL = url
	}
}

// WithLogger sets the client logger.
func WithLogger(log yalogger.Logger) Option {
	return func(o *options) {
		o.log = log
	}
}

// New builds a client for token. No request is made until the first call.
//
// Example usage:
//
//	api, err := yatgapi.New(cfg.BotToken, yatgapi.WithLogger(log))
//	if err != nil {
//		// Handle error
//	}
//
//	if err := api.SetWebhook(ctx, "https://bot.example.com/bot"+cfg.BotToken); err != nil {
//		// Handle error
//	}
func New(token string, opts ...Option) (*Client, yaerrors.Error) {
	if token == "" {
		return nil, yaerrors.FromError(http.StatusBadRequest, ErrEmptyToken, "yatgapi: new client")
	}

	o := options{}
	for _, opt := range opts {
		opt(&o)
	}

	botOpts := []bot.Option{bot.WithSkipGetMe()}
	if o.serverURL != "" {
		botOpts = append(botOpts, bot.WithServerURL(o.serverURL))
	}

	b, err := bot.New(token, botOpts...)
	if err != nil {
		return nil, yaerrors.FromError(http.StatusBadRequest, err, "yatgapi: new client")
	}

	return NewFromBot(b, o.log), nil
}

// NewFromBot wraps an existing bot, which is how tests plug in a mock.
func NewFromBot(b TelegramBot, log yalogger.Logger) *Client {
	if log == nil {
		log = yalogger.NewBaseLogger(nil).NewLogger()
	}

	return &Client{
		bot: b,
		log: log.WithField(yalogger.KeyComponent, "yatgapi"),
	}
}

// SetWebhook registers url as the push endpoint of the bot.
func (c *Client) SetWebhook(ctx context.Context, url string) yaerrors.Error {
	ok, err := c.bot.SetWebhook(ctx, &bot.SetWebhookParams{URL: url})

	if yaErr := checkResult(ok, err, "setWebhook"); yaErr != nil {
		return yaErr
	}

	c.log.Info("Webhook registered")

	return nil
}

// DeleteWebhook unregisters the push endpoint.
func (c *Client) DeleteWebhook(ctx context.Context) yaerrors.Error {
	ok, err := c.bot.DeleteWebhook(ctx, &bot.DeleteWebhookParams{})

	if yaErr := checkResult(ok, err, "deleteWebhook"); yaErr != nil {
		return yaErr
	}

	c.log.Info("Webhook deleted")

	return nil
}

// Username returns the bot's own username, which command parsing needs to accept
// "/cmd@username".
func (c *Client) Username(ctx context.Context) (string, yaerrors.Error) {
	me, err := c.bot.GetMe(ctx)
	if err != nil {
		return "", yaerrors.FromError(http.StatusBadGateway, err, "yatgapi: getMe")
	}

	return me.Username, nil
}

// SetCommands publishes the command menu shown by Telegram clients.
func (c *Client) SetCommands(ctx context.Context, commands []yatgtypes.BotCommand) yaerrors.Error {
	params := &bot.SetMyCommandsParams{
		Commands: make([]models.BotCommand, 0, len(commands)),
	}

	for _, cmd := range commands {
		params.Commands = append(params.Commands, models.BotCommand{
			Command:     cmd.Command,
			Description: cmd.Description,
		})
	}

	ok, err := c.bot.SetMyCommands(ctx, params)

	return checkResult(ok, err, "setMyCommands")
}

// SendMessage sends text to chatID.
func (c *Client) SendMessage(ctx context.Context, chatID int64, text string) yaerrors.Error {
	if _, err := c.bot.SendMessage(ctx, &bot.SendMessageParams{
		ChatID: chatID,
		Text:   text,
	}); err != nil {
		return yaerrors.FromError(http.StatusBadGateway, err, "yatgapi: sendMessage")
	}

	return nil
}

// Reply answers msg in its chat, quoting it.
func (c *Client) Reply(ctx context.Context, msg *yatgtypes.Message, text string) yaerrors.Error {
	if _, err := c.bot.SendMessage(ctx, &bot.SendMessageParams{
		ChatID: msg.Chat.ID,
		Text:   text,
		ReplyParameters: &models.ReplyParameters{
			MessageID: int(msg.MessageID),
			ChatID:    msg.Chat.ID,
		},
	}); err != nil {
		return yaerrors.FromError(http.StatusBadGateway, err, "yatgapi: reply")
	}

	return nil
}

func checkResult(ok bool, err error, method string) yaerrors.Error {
	if err != nil {
		return yaerrors.FromError(http.StatusBadGateway, err, "yatgapi: "+method)
	}

	if !ok {
		return yaerrors.FromError(http.StatusBadGateway, ErrRequestRejected, "yatgapi: "+method)
	}

	return nil
}
