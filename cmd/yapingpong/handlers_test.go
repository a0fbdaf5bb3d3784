package main

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/YaCodeDev/GoYaTgWebhook/yadispatcher"
	"github.com/YaCodeDev/GoYaTgWebhook/yaerrors"
	"github.com/YaCodeDev/GoYaTgWebhook/yatgtypes"
)

type fakeSender struct {
	replies []string
}

func (f *fakeSender) SendMessage(context.Context, int64, string) yaerrors.Error {
	return nil
}

func (f *fakeSender) Reply(_ context.Context, _ *yatgtypes.Message, text string) yaerrors.Error {
	f.replies = append(f.replies, text)

	return nil
}

func TestPingPongRoutes(t *testing.T) {
	commands := newCommands()
	sender := &fakeSender{}

	dispatcher, err := yadispatcher.New(newRouter(commands), &yadispatcher.Dependencies{
		Commands:    commands,
		BotUsername: "PingPongBot",
		Sender:      sender,
	}, yadispatcher.WithErrorHandler(func(_ context.Context, _ *yatgtypes.Update, err yaerrors.Error) yaerrors.Error {
		t.Errorf("unexpected error: %v", err)

		return nil
	}))
	require.Nil(t, err)

	for i, text := range []string{"hello", "/ping", "/echo hi there", "/echo", "/help@PingPongBot"} {
		dispatcher.DispatchOne(context.Background(), yatgtypes.Update{
			ID: int64(i),
			Message: &yatgtypes.Message{
				MessageID: int64(i),
				Chat:      yatgtypes.Chat{ID: 1, Type: "private"},
				Text:      text,
			},
		})
	}

	assert.Equal(t, []string{
		"pong",
		"pong",
		"hi there",
		"...",
		"These commands are supported:\n/ping - answer pong\n/echo - repeat the text\n/help - show this text\n",
	}, sender.replies)
}
