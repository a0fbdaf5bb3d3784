package yadispatcher

import (
	"context"
	"net/http"

	"github.com/YaCodeDev/GoYaTgWebhook/yacommand"
	"github.com/YaCodeDev/GoYaTgWebhook/yaerrors"
	"github.com/YaCodeDev/GoYaTgWebhook/yafsm"
	"github.com/YaCodeDev/GoYaTgWebhook/yalogger"
	"github.com/YaCodeDev/GoYaTgWebhook/yatgtypes"
)

// Sender sends replies on behalf of handlers. *yatgapi.Client implements it.
type Sender interface {
	SendMessage(ctx context.Context, chatID int64, text string) yaerrors.Error
	Reply(ctx context.Context, msg *yatgtypes.Message, text string) yaerrors.Error
}

// Dependencies holds the external collaborators of the dispatcher. Every field is
// optional except Log, which defaults to a debug logger.
type Dependencies struct {
	Commands    *yacommand.Set
	BotUsername string
	FSMStore    yafsm.FSM
	Sender      Sender
	Log         yalogger.Logger
}

// HandlerData holds everything a handler needs about the update it runs for.
type HandlerData struct {
	Update *yatgtypes.Update
	// Message is the message the update is about, nil for updates without one.
	Message *yatgtypes.Message
	// Command is the parsed command, nil unless the message text is one.
	Command      *yacommand.Parsed
	StateStorage *yafsm.EntityFSMStorage
	Log          yalogger.Logger
	Sender       Sender
}

// Reply answers the message of the update.
//
// Example usage:
//
//	func pong(ctx context.Context, hd *yadispatcher.HandlerData) yaerrors.Error {
//		return hd.Reply(ctx, "pong")
//	}
func (hd *HandlerData) Reply(ctx context.Context, text string) yaerrors.Error {
	if hd.Sender == nil {
		return yaerrors.FromError(http.StatusInternalServerError, ErrNoSender, "failed to reply")
	}

	if hd.Message == nil {
		return yaerrors.FromError(http.StatusBadRequest, ErrNoMessageToReplyTo, "failed to reply")
	}

	if err := hd.Sender.Reply(ctx, hd.Message, text); err != nil {
		return err.Wrap("failed to reply")
	}

	return nil
}
