package yadispatcher

import (
	"context"
	"net/http"
	"regexp"
	"slices"
	"strings"

	"github.com/YaCodeDev/GoYaTgWebhook/yacommand"
	"github.com/YaCodeDev/GoYaTgWebhook/yaerrors"
	"github.com/YaCodeDev/GoYaTgWebhook/yafsm"
	"github.com/YaCodeDev/GoYaTgWebhook/yatgtypes"
)

// Filter decides whether a route handles the update.
type Filter func(ctx context.Context, deps FilterDependencies) (bool, yaerrors.Error)

// FilterDependencies holds what filters may look at.
type FilterDependencies struct {
	storage *yafsm.EntityFSMStorage
	update  *yatgtypes.Update
	command *yacommand.Parsed
}

// StateIs passes when the chat is in one of the given states.
//
// Example of usage:
//
//	router.OnMessage(nameHandler, yadispatcher.StateIs(AwaitingName{}.StateName()))
func StateIs(want ...string) Filter {
	wanted := make(map[string]struct{}, len(want))

	for _, s := range want {
		wanted[s] = struct{}{}
	}

	return func(ctx context.Context, deps FilterDependencies) (bool, yaerrors.Error) {
		if deps.storage == nil {
			return false, yaerrors.FromError(http.StatusInternalServerError, ErrNoStateStorage, "failed to check state")
		}

		state, _, err := deps.storage.GetState(ctx)
		if err != nil {
			return false, err.Wrap("failed to get state for filter")
		}

		_, ok := wanted[state]

		return ok, nil
	}
}

// TextEq passes when the message text equals want.
func TextEq(want string) Filter {
	return func(_ context.Context, deps FilterDependencies) (bool, yaerrors.Error) {
		msg := deps.update.EffectiveMessage()

		return msg != nil && deps.update.CallbackQuery == nil && msg.Content() == want, nil
	}
}

// TextRegex passes when the message text matches re.
func TextRegex(re *regexp.Regexp) Filter {
	return func(_ context.Context, deps FilterDependencies) (bool, yaerrors.Error) {
		msg := deps.update.EffectiveMessage()

		return msg != nil && deps.update.CallbackQuery == nil && re.MatchString(msg.Content()), nil
	}
}

// CallbackEq passes when the callback query data equals data.
func CallbackEq(data string) Filter {
	return func(_ context.Context, deps FilterDependencies) (bool, yaerrors.Error) {
		q := deps.update.CallbackQuery

		return q != nil && q.Data == data, nil
	}
}

// CallbackPrefix passes when the callback query data starts with prefix.
func CallbackPrefix(prefix string) Filter {
	return func(_ context.Context, deps FilterDependencies) (bool, yaerrors.Error) {
		q := deps.update.CallbackQuery

		return q != nil && strings.HasPrefix(q.Data, prefix), nil
	}
}

// ChatIs passes for updates from one of the given chats.
func ChatIs(ids ...int64) Filter {
	return func(_ context.Context, deps FilterDependencies) (bool, yaerrors.Error) {
		chat := deps.update.EffectiveChat()

		return chat != nil && slices.Contains(ids, chat.ID), nil
	}
}

// ChatTypeIs passes for chats of the given types, e.g. "private" or "supergroup".
func ChatTypeIs(types ...string) Filter {
	return func(_ context.Context, deps FilterDependencies) (bool, yaerrors.Error) {
		chat := deps.update.EffectiveChat()

		return chat != nil && slices.Contains(types, chat.Type), nil
	}
}

// IsCommand passes when the message is any declared command.
func IsCommand() Filter {
	return func(_ context.Context, deps FilterDependencies) (bool, yaerrors.Error) {
		return deps.command != nil, nil
	}
}

// Not inverts f.
func Not(f Filter) Filter {
	return func(ctx context.Context, deps FilterDependencies) (bool, yaerrors.Error) {
		ok, err := f(ctx, deps)
		if err != nil {
			return false, err
		}

		return !ok, nil
	}
}

func checkFilters(ctx context.Context, deps FilterDependencies, filters []Filter) (bool, yaerrors.Error) {
	for _, f := range filters {
		ok, err := f(ctx, deps)
		if err != nil {
			return false, err.Wrap("filter check failed")
		}

		if !ok {
			return false, nil
		}
	}

	return true, nil
}
