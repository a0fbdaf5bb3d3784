package yatgapi_test

import (
	"context"
	"errors"
	"net/http"
	"testing"

	"github.com/go-telegram/bot"
	"github.com/go-telegram/bot/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/YaCodeDev/GoYaTgWebhook/yatgapi"
	"github.com/YaCodeDev/GoYaTgWebhook/yatgtypes"
)

var errNetwork = errors.New("network down")

type MockBot struct {
	mock.Mock
}

func (m *MockBot) SetWebhook(ctx context.Context, params *bot.SetWebhookParams) (bool, error) {
	args := m.Called(ctx, params)

	return args.Bool(0), args.Error(1)
}

func (m *MockBot) DeleteWebhook(ctx context.Context, params *bot.DeleteWebhookParams) (bool, error) {
	args := m.Called(ctx, params)

	return args.Bool(0), args.Error(1)
}

func (m *MockBot) GetMe(ctx context.Context) (*models.User, error) {
	args := m.Called(ctx)
	user, _ := args.Get(0).(*models.User)

	return user, args.Error(1)
}

func (m *MockBot) SetMyCommands(ctx context.Context, params *bot.SetMyCommandsParams) (bool, error) {
	args := m.Called(ctx, params)

	return args.Bool(0), args.Error(1)
}

func (m *MockBot) SendMessage(ctx context.Context, params *bot.SendMessageParams) (*models.Message, error) {
	args := m.Called(ctx, params)
	msg, _ := args.Get(0).(*models.Message)

	return msg, args.Error(1)
}

func TestClient_SetWebhook(t *testing.T) {
	const url = "https://bot.example.com/bot123:abc"

	tests := []struct {
		name      string
		ok        bool
		err       error
		wantErrIs error
	}{
		{name: "accepted", ok: true},
		{name: "rejected", ok: false, wantErrIs: yatgapi.ErrRequestRejected},
		{name: "transport", err: errNetwork, wantErrIs: errNetwork},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mb := &MockBot{}
			mb.On("SetWebhook", mock.Anything, mock.MatchedBy(func(params *bot.SetWebhookParams) bool {
				return params.URL == url
			})).Return(tt.ok, tt.err)

			err := yatgapi.NewFromBot(mb, nil).SetWebhook(context.Background(), url)

			if tt.wantErrIs == nil {
				assert.Nil(t, err)
			} else {
				require.NotNil(t, err)
				assert.ErrorIs(t, err, tt.wantErrIs)
				assert.Equal(t, http.StatusBadGateway, err.Code())
			}

			mb.AssertExpectations(t)
		})
	}
}

func TestClient_DeleteWebhook(t *testing.T) {
	mb := &MockBot{}
	mb.On("DeleteWebhook", mock.Anything, mock.Anything).Return(true, nil)

	assert.Nil(t, yatgapi.NewFromBot(mb, nil).DeleteWebhook(context.Background()))
	mb.AssertExpectations(t)
}

func TestClient_Username(t *testing.T) {
	mb := &MockBot{}
	mb.On("GetMe", mock.Anything).Return(&models.User{ID: 1, Username: "MyNameBot"}, nil).Once()
	mb.On("GetMe", mock.Anything).Return(nil, errNetwork).Once()

	client := yatgapi.NewFromBot(mb, nil)

	name, err := client.Username(context.Background())
	require.Nil(t, err)
	assert.Equal(t, "MyNameBot", name)

	_, err = client.Username(context.Background())
	assert.ErrorIs(t, err, errNetwork)
}

func TestClient_SetCommands(t *testing.T) {
	mb := &MockBot{}
	mb.On("SetMyCommands", mock.Anything, mock.MatchedBy(func(params *bot.SetMyCommandsParams) bool {
		return assert.ObjectsAreEqual([]models.BotCommand{
			{Command: "start", Description: "begin"},
			{Command: "help", Description: "show help"},
		}, params.Commands)
	})).Return(true, nil)

	err := yatgapi.NewFromBot(mb, nil).SetCommands(context.Background(), []yatgtypes.BotCommand{
		{Command: "start", Description: "begin"},
		{Command: "help", Description: "show help"},
	})

	assert.Nil(t, err)
	mb.AssertExpectations(t)
}

func TestClient_Reply(t *testing.T) {
	mb := &MockBot{}
	mb.On("SendMessage", mock.Anything, mock.MatchedBy(func(params *bot.SendMessageParams) bool {
		return params.ChatID == int64(-100) &&
			params.Text == "pong" &&
			params.ReplyParameters != nil &&
			params.ReplyParameters.MessageID == 5
	})).Return(&models.Message{ID: 6}, nil)

	msg := &yatgtypes.Message{MessageID: 5, Chat: yatgtypes.Chat{ID: -100}}

	assert.Nil(t, yatgapi.NewFromBot(mb, nil).Reply(context.Background(), msg, "pong"))
	mb.AssertExpectations(t)
}

func TestClient_SendMessageFailure(t *testing.T) {
	mb := &MockBot{}
	mb.On("SendMessage", mock.Anything, mock.Anything).Return(nil, errNetwork)

	err := yatgapi.NewFromBot(mb, nil).SendMessage(context.Background(), 1, "hi")

	require.NotNil(t, err)
	assert.ErrorIs(t, err, errNetwork)
}

func TestNew_EmptyToken(t *testing.T) {
	_, err := yatgapi.New("")

	assert.ErrorIs(t, err, yatgapi.ErrEmptyToken)
}
