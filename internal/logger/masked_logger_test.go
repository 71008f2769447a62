package logger

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"
)

func TestMaskSensitiveInfo(t *testing.T) {
	assert.Equal(t, "", MaskSensitiveInfo(""))
	assert.Equal(t, "****", MaskSensitiveInfo("short"))
	assert.Equal(t, "****", MaskSensitiveInfo("12345678"))
	assert.Equal(t, "1234*5678", MaskSensitiveInfo("1234X5678"))
	assert.Equal(t, "1234**********cdef", MaskSensitiveInfo("1234567890abcdcdef"))
}

func TestMaskedLoggerMasksTokenFields(t *testing.T) {
	core, logs := observer.New(zap.DebugLevel)
	log := NewMaskedLogger(zap.New(core))

	log.Info("starting",
		zap.String("bot_token", "123456789:AAAAAAAA-BBBB"),
		zap.String("username", "someone"),
	)

	entries := logs.All()
	require.Len(t, entries, 1)

	fields := entries[0].ContextMap()
	assert.Equal(t, "someone", fields["username"], "non-sensitive fields pass through")

	token, ok := fields["bot_token"].(string)
	require.True(t, ok)
	assert.NotContains(t, token, "AAAAAAAA")
	assert.Contains(t, token, "****")
}

func TestIsSensitiveField(t *testing.T) {
	assert.True(t, isSensitiveField("api_key"))
	assert.True(t, isSensitiveField("BotToken"))
	assert.True(t, isSensitiveField("client_secret"))
	assert.True(t, isSensitiveField("PASSWORD"))
	assert.False(t, isSensitiveField("username"))
	assert.False(t, isSensitiveField("prompt"))
}
