package logging

import (
	"testing"

	"github.com/rpgo/withdrawal-planner/internal/calculation"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

func TestParseLevel(t *testing.T) {
	tests := []struct {
		in      string
		want    LogLevel
		wantErr bool
	}{
		{"debug", DebugLevel, false},
		{" WARN ", WarnLevel, false},
		{"", InfoLevel, false},
		{"error", ErrorLevel, false},
		{"trace", "", true},
	}
	for _, tt := range tests {
		got, err := ParseLevel(tt.in)
		if tt.wantErr {
			assert.Error(t, err, tt.in)
			continue
		}
		require.NoError(t, err, tt.in)
		assert.Equal(t, tt.want, got)
	}
}

func TestNewHonoursLevel(t *testing.T) {
	l, err := New(false, WarnLevel)
	require.NoError(t, err)
	assert.False(t, l.Core().Enabled(zapcore.InfoLevel))
	assert.True(t, l.Core().Enabled(zapcore.WarnLevel))

	l, err = New(true, DebugLevel)
	require.NoError(t, err)
	assert.True(t, l.Core().Enabled(zapcore.DebugLevel))
}

func TestSugarDrivesProjectionLogging(t *testing.T) {
	core, logs := observer.New(zapcore.DebugLevel)
	Set(zap.New(core))
	t.Cleanup(func() { Set(nil) })

	var _ calculation.Logger = Sugar()

	Sugar().Debugf("projecting %d years", 30)
	Sugar().Warnf("account %s is empty", "ira-1")

	entries := logs.AllUntimed()
	require.Len(t, entries, 2)
	assert.Equal(t, "projecting 30 years", entries[0].Message)
	assert.Equal(t, zapcore.WarnLevel, entries[1].Level)
}

func TestDefaultIsNop(t *testing.T) {
	Set(nil)
	assert.NotPanics(t, func() {
		Sugar().Infof("dropped")
		_ = Sync()
	})
}
