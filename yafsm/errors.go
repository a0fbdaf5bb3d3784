package yafsm

import "errors"

var ErrCorruptedState = errors.New("stored state is corrupted")
