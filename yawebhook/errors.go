package yawebhook

import "errors"

var (
	ErrEmptyToken         = errors.New("bot token is empty")
	ErrEmptyHost          = errors.New("webhook host is empty")
	ErrInvalidPort        = errors.New("webhook port must be in 1..65535")
	ErrInvalidHost        = errors.New("webhook host must be a bare host name")
	ErrAlreadyStarted     = errors.New("webhook listener already started")
	ErrRegistrationFailed = errors.New("webhook registration failed")
)
