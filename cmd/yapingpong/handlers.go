package main

import (
	"context"

	"github.com/YaCodeDev/GoYaTgWebhook/yacommand"
	"github.com/YaCodeDev/GoYaTgWebhook/yadispatcher"
	"github.com/YaCodeDev/GoYaTgWebhook/yaerrors"
)

func newCommands() *yacommand.Set {
	return yacommand.MustNew(
		yacommand.Options{
			Rename:      yacommand.RenameLowercase,
			Description: "These commands are supported:",
		},
		yacommand.Entry{Name: "Ping", Description: "answer pong"},
		yacommand.Entry{Name: "Echo", Description: "repeat the text", Args: ""},
		yacommand.Entry{Name: "Help", Description: "show this text"},
	)
}

func newRouter(commands *yacommand.Set) *yadispatcher.Router {
	router := yadispatcher.NewRouter("pingpong")

	router.OnCommand("Help", func(ctx context.Context, hd *yadispatcher.HandlerData) yaerrors.Error {
		return hd.Reply(ctx, commands.Descriptions())
	})

	router.OnCommand("Echo", func(ctx context.Context, hd *yadispatcher.HandlerData) yaerrors.Error {
		text, _ := yacommand.Args[string](*hd.Command)
		if text == "" {
			text = "..."
		}

		return hd.Reply(ctx, text)
	})

	router.OnMessage(func(ctx context.Context, hd *yadispatcher.HandlerData) yaerrors.Error {
		return hd.Reply(ctx, "pong")
	})

	return router
}
