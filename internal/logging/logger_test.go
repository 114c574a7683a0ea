package logging

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseLevel(t *testing.T) {
	tests := []struct {
		in       string
		expected LogLevel
		wantErr  bool
	}{
		{"trace", TRACE, false},
		{"DEBUG", DEBUG, false},
		{"", INFO, false},
		{" info ", INFO, false},
		{"warning", WARN, false},
		{"Warn", WARN, false},
		{"ERROR", ERROR, false},
		{"verbose", INFO, true},
	}

	for _, tt := range tests {
		level, err := ParseLevel(tt.in)
		if tt.wantErr {
			assert.Error(t, err, tt.in)
			continue
		}
		require.NoError(t, err, tt.in)
		assert.Equal(t, tt.expected, level, tt.in)
	}
}

func TestLogLevelString(t *testing.T) {
	assert.Equal(t, "TRACE", TRACE.String())
	assert.Equal(t, "WARN", WARN.String())
	assert.Equal(t, "UNKNOWN", LogLevel(42).String())
}

func TestConsoleLoggerFiltering(t *testing.T) {
	var buf bytes.Buffer
	l := NewConsoleLogger("world", &buf, WARN)

	l.Debug("скрыто")
	l.Info("тоже скрыто")
	l.Warn("чанк %d", 7)
	l.Error("ошибка")

	out := buf.String()
	assert.NotContains(t, out, "скрыто")
	assert.Contains(t, out, "[WARN] [world] чанк 7")
	assert.Contains(t, out, "[ERROR] [world] ошибка")
	assert.Equal(t, 2, strings.Count(out, "\n"))
}

func TestNilLogger(t *testing.T) {
	var l *Logger
	assert.NotPanics(t, func() {
		l.Info("ничего")
		_ = l.Close()
	})
}

func TestFileLogger(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "logs")
	prev := currentOptions()
	Configure(Options{Dir: dir, ConsoleLevel: ERROR, FileLevel: DEBUG})
	t.Cleanup(func() { Configure(prev) })

	l, err := NewLogger("engine")
	require.NoError(t, err)

	l.Trace("не попадёт в файл")
	l.Debug("кадр %d", 1)
	require.NoError(t, l.Close())
	require.NoError(t, l.Close(), "Повторное закрытие безопасно")

	files, err := filepath.Glob(filepath.Join(dir, "engine_*.log"))
	require.NoError(t, err)
	require.Len(t, files, 1)

	data, err := os.ReadFile(files[0])
	require.NoError(t, err)
	assert.Contains(t, string(data), "[DEBUG] [engine] кадр 1")
	assert.NotContains(t, string(data), "не попадёт")
}

func TestNewLoggerConsoleOnly(t *testing.T) {
	prev := currentOptions()
	Configure(Options{ConsoleLevel: INFO, FileLevel: DEBUG})
	t.Cleanup(func() { Configure(prev) })

	l, err := NewLogger("api")
	require.NoError(t, err)
	assert.Nil(t, l.file)
	assert.NoError(t, l.Close())
}

func TestLoggerManager(t *testing.T) {
	prev := currentOptions()
	Configure(Options{ConsoleLevel: INFO, FileLevel: DEBUG})
	t.Cleanup(func() { Configure(prev) })

	lm := NewLoggerManager()

	a, err := lm.GetLogger("world")
	require.NoError(t, err)
	b := lm.MustGetLogger("world")
	assert.Same(t, a, b, "Логгер компонента создаётся один раз")

	lm.MustGetLogger("api")
	assert.Equal(t, []string{"api", "world"}, lm.ListComponents())

	require.NoError(t, lm.SetLogLevel("world", ERROR, ERROR))
	assert.Equal(t, ERROR, a.minConsoleLevel)
	assert.Error(t, lm.SetLogLevel("missing", INFO, INFO))

	require.NoError(t, lm.CloseAll())
	assert.Empty(t, lm.ListComponents())
}

func TestMustGetLoggerFallback(t *testing.T) {
	// Файл на месте директории логов не даёт создать логгер
	blocker := filepath.Join(t.TempDir(), "blocker")
	require.NoError(t, os.WriteFile(blocker, nil, 0644))

	prev := currentOptions()
	Configure(Options{Dir: blocker, ConsoleLevel: INFO, FileLevel: DEBUG})
	t.Cleanup(func() { Configure(prev) })

	lm := NewLoggerManager()
	_, err := lm.GetLogger("world")
	assert.Error(t, err)

	l := lm.MustGetLogger("world")
	require.NotNil(t, l)
	assert.Nil(t, l.file)
}
