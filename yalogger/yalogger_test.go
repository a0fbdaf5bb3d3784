package yalogger_test

import (
	"bytes"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/YaCodeDev/GoYaTgWebhook/yalogger"
)

func newBufferLogger(level yalogger.Level) (yalogger.Logger, *bytes.Buffer) {
	buf := &bytes.Buffer{}

	log := yalogger.NewBaseLogger(&yalogger.Config{
		Level:            level,
		DisableTimestamp: true,
		Output:           buf,
	}).NewLogger()

	return log, buf
}

func TestLogger_RespectsLevel(t *testing.T) {
	log, buf := newBufferLogger(yalogger.WarnLevel)

	log.Info("hidden")
	log.Warn("shown")

	assert.NotContains(t, buf.String(), "hidden")
	assert.Contains(t, buf.String(), "shown")
}

func TestLogger_FieldsAreScoped(t *testing.T) {
	log, buf := newBufferLogger(yalogger.DebugLevel)

	id := uuid.New()
	scoped := log.WithRequestUUID(id).WithUpdateID(42)

	scoped.Debug("accepted")

	assert.Equal(t, id.String(), scoped.GetField(yalogger.KeyRequestID))
	assert.Equal(t, int64(42), scoped.GetField(yalogger.KeyUpdateID))
	assert.Nil(t, log.GetField(yalogger.KeyRequestID))
	assert.Contains(t, buf.String(), "update_id=42")
}

func TestLogger_GetFieldsReturnsCopy(t *testing.T) {
	log, _ := newBufferLogger(yalogger.DebugLevel)

	scoped := log.WithChatID(7)

	fields := scoped.GetFields()
	fields[yalogger.KeyChatID] = 8

	assert.Equal(t, int64(7), scoped.GetField(yalogger.KeyChatID))
}

func TestLevel_Unmarshal(t *testing.T) {
	var level yalogger.Level

	require.NoError(t, level.UnmarshalText([]byte("WARNING")))
	assert.Equal(t, yalogger.WarnLevel, level)
	assert.Equal(t, "warn", level.String())

	assert.ErrorIs(t, level.Unmarshal("loud"), yalogger.ErrInvalidLogLevel)
}
