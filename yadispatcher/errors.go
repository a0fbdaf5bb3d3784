package yadispatcher

import "errors"

var (
	ErrAlreadyServing     = errors.New("dispatcher is already serving")
	ErrUnknownCommand     = errors.New("route refers to an undeclared command")
	ErrNoCommandSet       = errors.New("command route without a command set")
	ErrNoStateStorage     = errors.New("state filter without fsm storage")
	ErrHandlerPanic       = errors.New("handler panicked")
	ErrNoSender           = errors.New("reply without a sender")
	ErrNoMessageToReplyTo = errors.New("update has no message to reply to")
)
