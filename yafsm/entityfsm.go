package yafsm

import (
	"context"
	"strconv"

	"github.com/YaCodeDev/GoYaTgWebhook/yaerrors"
)

// EntityFSMStorage binds an FSM to one entity, usually a chat.
type EntityFSMStorage struct {
	storage FSM
	uid     string
}

func NewEntityFSMStorage(storage FSM, uid string) *EntityFSMStorage {
	return &EntityFSMStorage{
		storage: storage,
		uid:     uid,
	}
}

// NewChatFSMStorage keys the state by chat id.
func NewChatFSMStorage(storage FSM, chatID int64) *EntityFSMStorage {
	return NewEntityFSMStorage(storage, strconv.FormatInt(chatID, 10))
}

// SetState sets the state for the entity.
//
// Example usage:
//
//	err := chat.SetState(ctx, AwaitingName{Attempts: 1})
func (b *EntityFSMStorage) SetState(ctx context.Context, state State) yaerrors.Error {
	return b.storage.SetState(ctx, b.uid, state)
}

func (b *EntityFSMStorage) GetState(ctx context.Context) (string, StateDataMarshalled, yaerrors.Error) {
	return b.storage.GetState(ctx, b.uid)
}

func (b *EntityFSMStorage) GetStateData(stateData StateDataMarshalled, emptyState State) yaerrors.Error {
	return b.storage.GetStateData(stateData, emptyState)
}

func (b *EntityFSMStorage) ResetState(ctx context.Context) yaerrors.Error {
	return b.storage.ResetState(ctx, b.uid)
}
