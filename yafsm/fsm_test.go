package yafsm_test

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/YaCodeDev/GoYaTgWebhook/yacache"
	"github.com/YaCodeDev/GoYaTgWebhook/yafsm"
)

type ExampleState struct {
	yafsm.BaseState[ExampleState]

	Param    string
	Attempts int
}

func TestBaseState_Name(t *testing.T) {
	assert.Equal(t, "ExampleState", ExampleState{}.StateName())
	assert.Equal(t, "EmptyState", yafsm.EmptyState{}.StateName())
}

func TestFSMStorage_SetGetRoundTrip(t *testing.T) {
	ctx := context.Background()

	cache := yacache.NewMemory(time.Minute)
	defer cache.Close()

	fsm := yafsm.NewDefaultFSMStorage(cache, yafsm.EmptyState{}, 0)

	require.Nil(t, fsm.SetState(ctx, "12345", ExampleState{Param: "exampleparam", Attempts: 2}))

	name, raw, err := fsm.GetState(ctx, "12345")
	require.Nil(t, err)
	assert.Equal(t, ExampleState{}.StateName(), name)

	var got ExampleState
	require.Nil(t, fsm.GetStateData(raw, &got))
	assert.Equal(t, "exampleparam", got.Param)
	assert.Equal(t, 2, got.Attempts)
}

func TestFSMStorage_DefaultStateReturned(t *testing.T) {
	cache := yacache.NewMemory(time.Minute)
	defer cache.Close()

	fsm := yafsm.NewDefaultFSMStorage(cache, yafsm.EmptyState{}, 0)

	name, raw, err := fsm.GetState(context.Background(), "non-existent")
	require.Nil(t, err)
	assert.Equal(t, yafsm.EmptyState{}.StateName(), name)
	assert.Empty(t, raw)

	var untouched ExampleState
	require.Nil(t, fsm.GetStateData(raw, &untouched))
	assert.Empty(t, untouched.Param)
}

func TestFSMStorage_CorruptedValue(t *testing.T) {
	ctx := context.Background()

	cache := yacache.NewMemory(time.Minute)
	defer cache.Close()

	require.Nil(t, cache.Set(ctx, "fsm:1", "\xc1garbage", 0))

	fsm := yafsm.NewDefaultFSMStorage(cache, yafsm.EmptyState{}, 0)

	_, _, err := fsm.GetState(ctx, "1")
	require.NotNil(t, err)
	assert.ErrorIs(t, err, yafsm.ErrCorruptedState)
}

func TestChatFSMStorage_RedisTTLAndReset(t *testing.T) {
	ctx := context.Background()

	mr := miniredis.RunT(t)
	cache := yacache.NewRedis(redis.NewClient(&redis.Options{Addr: mr.Addr()}))

	defer cache.Close()

	chat := yafsm.NewChatFSMStorage(
		yafsm.NewDefaultFSMStorage(cache, yafsm.EmptyState{}, time.Minute),
		-100500,
	)

	require.Nil(t, chat.SetState(ctx, ExampleState{Param: "x"}))
	assert.True(t, mr.Exists("fsm:-100500"))

	name, _, err := chat.GetState(ctx)
	require.Nil(t, err)
	assert.Equal(t, "ExampleState", name)

	require.Nil(t, chat.ResetState(ctx))

	name, _, err = chat.GetState(ctx)
	require.Nil(t, err)
	assert.Equal(t, "EmptyState", name)

	require.Nil(t, chat.SetState(ctx, ExampleState{Param: "y"}))
	mr.FastForward(2 * time.Minute)

	name, _, err = chat.GetState(ctx)
	require.Nil(t, err)
	assert.Equal(t, "EmptyState", name)
}
