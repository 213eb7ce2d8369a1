package logger

import (
	"bytes"
	"encoding/json"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLevelString(t *testing.T) {
	tests := []struct {
		level    Level
		expected string
	}{
		{DebugLevel, "DEBUG"},
		{InfoLevel, "INFO"},
		{WarnLevel, "WARN"},
		{ErrorLevel, "ERROR"},
		{FatalLevel, "FATAL"},
		{Level(99), "UNKNOWN"},
	}

	for _, tt := range tests {
		t.Run(tt.expected, func(t *testing.T) {
			assert.Equal(t, tt.expected, tt.level.String())
		})
	}
}

func TestParseLevel(t *testing.T) {
	tests := []struct {
		in       string
		expected Level
	}{
		{"debug", DebugLevel},
		{"DEBUG", DebugLevel},
		{"warn", WarnLevel},
		{"warning", WarnLevel},
		{"error", ErrorLevel},
		{"fatal", FatalLevel},
		{"", InfoLevel},
		{"nonsense", InfoLevel},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			assert.Equal(t, tt.expected, ParseLevel(tt.in))
		})
	}
}

func TestLoggerLevelFiltering(t *testing.T) {
	var buf bytes.Buffer
	l := New(&buf, WarnLevel)

	l.Debug("debug message")
	assert.Empty(t, buf.String(), "debug should be filtered at warn level")

	l.Info("info message")
	assert.Empty(t, buf.String(), "info should be filtered at warn level")

	l.Warn("warn message")
	assert.NotEmpty(t, buf.String(), "warn should be logged at warn level")

	buf.Reset()
	l.Error("error message")
	assert.NotEmpty(t, buf.String(), "error should be logged at warn level")
}

func TestLoggerStructuredFields(t *testing.T) {
	var buf bytes.Buffer
	l := New(&buf, InfoLevel)

	l.Info("test message",
		String("key1", "value1"),
		Int("key2", 42),
		Bool("key3", true),
		Error(errors.New("test error")),
		Duration("duration", 1000000000), // 1 second
	)

	var entry map[string]interface{}
	require.NoError(t, json.Unmarshal(buf.Bytes(), &entry))

	assert.Equal(t, "INFO", entry["level"])
	assert.Equal(t, "test message", entry["message"])
	assert.Equal(t, "value1", entry["key1"])
	assert.Equal(t, float64(42), entry["key2"])
	assert.Equal(t, true, entry["key3"])
	assert.Equal(t, "test error", entry["error"])
	assert.Equal(t, "1s", entry["duration"])
	assert.NotNil(t, entry["timestamp"])
	assert.NotNil(t, entry["caller"])
}

func TestErrorFieldNilError(t *testing.T) {
	field := Error(nil)
	assert.Equal(t, "error", field.Key)
	assert.Nil(t, field.Value)
}

func TestLoggerSetLevel(t *testing.T) {
	var buf bytes.Buffer
	l := New(&buf, InfoLevel)

	l.Debug("debug 1")
	assert.Empty(t, buf.String(), "debug should be filtered at info level")

	l.SetLevel(DebugLevel)
	l.Debug("debug 2")
	assert.NotEmpty(t, buf.String(), "debug should be logged after SetLevel")
}

func TestLoggerGetLevel(t *testing.T) {
	l := New(&bytes.Buffer{}, InfoLevel)
	assert.Equal(t, InfoLevel, l.GetLevel())

	l.SetLevel(ErrorLevel)
	assert.Equal(t, ErrorLevel, l.GetLevel())
}

func TestLoggerPrettyPrint(t *testing.T) {
	var buf bytes.Buffer
	l := New(&buf, InfoLevel)
	l.SetPrettyPrint(true)

	l.Info("test message", String("key", "value"))

	output := buf.String()
	assert.Contains(t, output, "{\n")
	assert.Contains(t, output, "  \"")
	assert.Contains(t, output, "\n}")
}

func TestPackageLevelFunctionsUseDefault(t *testing.T) {
	var buf bytes.Buffer
	SetDefault(New(&buf, DebugLevel))

	Debug("test debug")
	assert.NotEmpty(t, buf.String())

	buf.Reset()
	Info("test info")
	assert.NotEmpty(t, buf.String())

	buf.Reset()
	Warn("test warn")
	assert.NotEmpty(t, buf.String())

	buf.Reset()
	ErrorMsg("test error")
	assert.NotEmpty(t, buf.String())
}

func TestFieldConstructors(t *testing.T) {
	t.Run("StringField", func(t *testing.T) {
		field := String("key", "value")
		assert.Equal(t, "key", field.Key)
		assert.Equal(t, "value", field.Value)
	})

	t.Run("IntField", func(t *testing.T) {
		field := Int("count", 42)
		assert.Equal(t, "count", field.Key)
		assert.Equal(t, 42, field.Value)
	})

	t.Run("BoolField", func(t *testing.T) {
		field := Bool("enabled", true)
		assert.Equal(t, "enabled", field.Key)
		assert.Equal(t, true, field.Value)
	})
}

func BenchmarkLogger(b *testing.B) {
	l := New(&bytes.Buffer{}, InfoLevel)

	b.Run("SimpleLog", func(b *testing.B) {
		for i := 0; i < b.N; i++ {
			l.Info("benchmark message")
		}
	})

	b.Run("LogWithFields", func(b *testing.B) {
		for i := 0; i < b.N; i++ {
			l.Info("benchmark message",
				String("key1", "value1"),
				Int("key2", 42),
				Bool("key3", true),
			)
		}
	})

	b.Run("FilteredLog", func(b *testing.B) {
		l.SetLevel(ErrorLevel)
		for i := 0; i < b.N; i++ {
			l.Debug("filtered message")
		}
	})
}
