// Package yafsm keeps a small per-chat conversation state in a yacache.Cache.
//
// A state is any struct embedding BaseState; its type name is the state name and its
// exported fields are the state data, encoded with MessagePack.
//
// Example usage:
//
//	type AwaitingName struct {
//		yafsm.BaseState[AwaitingName]
//
//		Attempts int
//	}
//
//	storage := yafsm.NewDefaultFSMStorage(cache, yafsm.EmptyState{}, 24*time.Hour)
//	chat := yafsm.NewChatFSMStorage(storage, chatID)
//
//	_ = chat.SetState(ctx, AwaitingName{Attempts: 1})
//
//	name, raw, _ := chat.GetState(ctx)
//	if name == (AwaitingName{}).StateName() {
//		var state AwaitingName
//		_ = chat.GetStateData(raw, &state)
//	}
package yafsm

import (
	"context"
	"errors"
	"net/http"
	"reflect"
	"time"

	"github.com/YaCodeDev/GoYaTgWebhook/yacache"
	"github.com/YaCodeDev/GoYaTgWebhook/yaencoding"
	"github.com/YaCodeDev/GoYaTgWebhook/yaerrors"
)

const keyPrefix = "fsm:"

type State interface {
	StateName() string
}

// BaseState names a state after its type parameter.
type BaseState[T State] struct{}

func (BaseState[T]) StateName() string {
	t := reflect.TypeFor[T]()
	if t.Kind() == reflect.Pointer {
		t = t.Elem()
	}

	return t.Name()
}

// EmptyState is what a chat without a stored state is in.
type EmptyState struct {
	BaseState[EmptyState]
}

// StateDataMarshalled is the encoded data of a stored state.
type StateDataMarshalled []byte

type stateAndData struct {
	State string `msgpack:"s"`
	Data  []byte `msgpack:"d"`
}

type FSM interface {
	SetState(ctx context.Context, uid string, state State) yaerrors.Error
	GetState(ctx context.Context, uid string) (string, StateDataMarshalled, yaerrors.Error)
	GetStateData(stateData StateDataMarshalled, emptyState State) yaerrors.Error
	ResetState(ctx context.Context, uid string) yaerrors.Error
}

// DefaultFSMStorage stores states in a cache, each entry expiring after ttl (never when 0).
type DefaultFSMStorage struct {
	storage      yacache.Cache
	defaultState State
	ttl          time.Duration
}

func NewDefaultFSMStorage(
	storage yacache.Cache,
	defaultState State,
	ttl time.Duration,
) *DefaultFSMStorage {
	return &DefaultFSMStorage{
		storage:      storage,
		defaultState: defaultState,
		ttl:          ttl,
	}
}

func (b *DefaultFSMStorage) SetState(
	ctx context.Context,
	uid string,
	state State,
) yaerrors.Error {
	data, err := yaencoding.EncodeMessagePack(state)
	if err != nil {
		return err.Wrap("failed to marshal state data")
	}

	value, err := yaencoding.EncodeMessagePack(stateAndData{
		State: state.StateName(),
		Data:  data,
	})
	if err != nil {
		return err.Wrap("failed to marshal state")
	}

	if err := b.storage.Set(ctx, keyPrefix+uid, string(value), b.ttl); err != nil {
		return err.Wrap("failed to store state for " + uid)
	}

	return nil
}

// GetState returns the default state with no data when nothing is stored for uid.
func (b *DefaultFSMStorage) GetState(
	ctx context.Context,
	uid string,
) (string, StateDataMarshalled, yaerrors.Error) {
	value, err := b.storage.Get(ctx, keyPrefix+uid)
	if err != nil {
		if errors.Is(err, yacache.ErrKeyNotFound) {
			return b.defaultState.StateName(), nil, nil
		}

		return "", nil, err.Wrap("failed to load state for " + uid)
	}

	var stored stateAndData

	if err := yaencoding.DecodeMessagePackInto([]byte(value), &stored); err != nil || stored.State == "" {
		var cause error = ErrCorruptedState
		if err != nil {
			cause = errors.Join(ErrCorruptedState, err)
		}

		return "", nil, yaerrors.FromError(
			http.StatusInternalServerError,
			cause,
			"failed to unmarshal state for "+uid,
		)
	}

	return stored.State, stored.Data, nil
}

// GetStateData decodes stateData into emptyState, which must be a pointer. Empty data
// leaves emptyState untouched.
func (b *DefaultFSMStorage) GetStateData(
	stateData StateDataMarshalled,
	emptyState State,
) yaerrors.Error {
	if len(stateData) == 0 {
		return nil
	}

	if err := yaencoding.DecodeMessagePackInto(stateData, emptyState); err != nil {
		return err.Wrap("failed to unmarshal state data")
	}

	return nil
}

// ResetState returns uid to the default state.
func (b *DefaultFSMStorage) ResetState(ctx context.Context, uid string) yaerrors.Error {
	if err := b.storage.Del(ctx, keyPrefix+uid); err != nil {
		return err.Wrap("failed to reset state for " + uid)
	}

	return nil
}
