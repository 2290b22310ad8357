package log

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

func TestSet_RoutesToObserver(t *testing.T) {
	core, logs := observer.New(zapcore.InfoLevel)
	Set(zap.New(core))
	t.Cleanup(func() { Set(zap.NewNop()) })

	Infow("chat stored", "userId", "u-1")
	Error("chat failed", errors.New("boom"))
	Warnf("slow provider: %dms", 1200)

	entries := logs.All()
	if assert.Len(t, entries, 3) {
		assert.Equal(t, "chat stored", entries[0].Message)
		assert.Equal(t, "u-1", entries[0].ContextMap()["userId"])
		assert.Equal(t, zapcore.ErrorLevel, entries[1].Level)
		assert.Equal(t, "boom", entries[1].ContextMap()["error"])
		assert.Equal(t, "slow provider: 1200ms", entries[2].Message)
	}
}

func TestDefaultLoggerIsUsableBeforeInit(t *testing.T) {
	assert.NotPanics(t, func() {
		Info("no init")
		Errorf("still %s", "fine")
	})
}
