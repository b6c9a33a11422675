package logging

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

func newObserved(level zapcore.Level) (Logger, *observer.ObservedLogs) {
	core, logs := observer.New(level)
	return NewLoggerFromCore(core), logs
}

func TestNewLogger_Formats(t *testing.T) {
	for _, format := range []string{"json", "console", ""} {
		l, err := NewLogger(LogConfig{Level: LevelInfo, Format: format, OutputPaths: []string{"stderr"}})
		require.NoError(t, err, format)
		assert.NotNil(t, l)
	}
}

func TestNewLogger_BadOutputPath(t *testing.T) {
	_, err := NewLogger(LogConfig{OutputPaths: []string{"/nonexistent-dir/sub/molgraph.log"}})
	assert.Error(t, err)
}

func TestParseLevel(t *testing.T) {
	cases := map[string]zapcore.Level{
		"debug":   zapcore.DebugLevel,
		"INFO":    zapcore.InfoLevel,
		"":        zapcore.InfoLevel,
		"warning": zapcore.WarnLevel,
		"error":   zapcore.ErrorLevel,
	}
	for in, want := range cases {
		got, ok := ParseLevel(in)
		assert.True(t, ok, in)
		assert.Equal(t, want, got, in)
	}
	got, ok := ParseLevel("loud")
	assert.False(t, ok)
	assert.Equal(t, zapcore.InfoLevel, got)
}

func TestZapLogger_FieldsAreTyped(t *testing.T) {
	l, logs := newObserved(zapcore.DebugLevel)

	l.Debug("record skipped",
		Ordinal(42),
		String("reason", "unparsable"),
		Int64("bytes", 10),
		Uint64("seed", 42),
		Float64("ratio", 0.5),
		Bool("cached", true),
		Duration("took", time.Second),
		Err(errors.New("boom")),
		Any("sizes", []int{1, 2}),
	)

	require.Equal(t, 1, logs.Len())
	entry := logs.All()[0]
	assert.Equal(t, zapcore.DebugLevel, entry.Level)
	assert.Equal(t, "record skipped", entry.Message)

	ctx := entry.ContextMap()
	assert.EqualValues(t, 42, ctx["ordinal"])
	assert.Equal(t, "unparsable", ctx["reason"])
	assert.Equal(t, true, ctx["cached"])
	assert.Equal(t, "boom", ctx["error"])
}

func TestZapLogger_WithAndNamed(t *testing.T) {
	l, logs := newObserved(zapcore.InfoLevel)

	child := l.Named("assembler").With(Split("train"))
	child.Info("corpus assembled", Int("accepted", 3))
	child.Debug("filtered out")

	require.Equal(t, 1, logs.Len())
	entry := logs.All()[0]
	assert.Equal(t, "assembler", entry.LoggerName)
	assert.Equal(t, "train", entry.ContextMap()["split"])
}

func TestSetLevel(t *testing.T) {
	l, err := NewLogger(LogConfig{Level: LevelInfo})
	require.NoError(t, err)
	zl := l.(*zapLogger)

	require.NoError(t, SetLevel(l, LevelDebug))
	assert.Equal(t, zapcore.DebugLevel, zl.level.Level())

	assert.Error(t, SetLevel(l, "chatty"))
	assert.NoError(t, SetLevel(NewNopLogger(), LevelError))
}

func TestNopLogger(t *testing.T) {
	l := NewNopLogger()
	assert.NotPanics(t, func() {
		l.Debug("x")
		l.Info("x")
		l.Warn("x")
		l.Error("x")
		l.With(Int("a", 1)).Named("n").Info("x")
	})
	assert.NoError(t, l.Sync())
}

func TestDefault(t *testing.T) {
	prev := Default()
	t.Cleanup(func() { SetDefault(prev) })

	l, logs := newObserved(zapcore.InfoLevel)
	SetDefault(nil)
	assert.Equal(t, prev, Default())

	SetDefault(l)
	Default().Info("hello")
	assert.Equal(t, 1, logs.Len())
}

//Personal.AI order the ending
