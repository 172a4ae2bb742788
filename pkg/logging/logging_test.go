// pkg/logging/logging_test.go
// TEST TYPE: Unit Test
// DEPENDENCIES: None
// PURPOSE: Test logger setup, log file creation and component loggers

package logging

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSetupLogger(t *testing.T) {
	tests := []struct {
		name      string
		verbosity int
		wantLevel zerolog.Level
	}{
		{"default warn level", 0, zerolog.WarnLevel},
		{"info level", 1, zerolog.InfoLevel},
		{"debug level", 2, zerolog.DebugLevel},
		{"trace level", 3, zerolog.TraceLevel},
		{"high verbosity defaults to trace", 5, zerolog.TraceLevel},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			logPath := filepath.Join(t.TempDir(), "state", "dotboot", "dotboot.log")

			SetupLogger(tt.verbosity, logPath)

			assert.Equal(t, tt.wantLevel, zerolog.GlobalLevel())
			_, err := os.Stat(logPath)
			assert.NoError(t, err, "log file should exist at %s", logPath)
		})
	}
}

func TestSetupLoggerWritesToLogFile(t *testing.T) {
	orig := log.Logger
	t.Cleanup(func() { log.Logger = orig })
	logPath := filepath.Join(t.TempDir(), "dotboot.log")

	SetupLogger(1, logPath)
	GetLogger("engine.apply").Info().Msg("written to file")

	content, err := os.ReadFile(logPath)
	require.NoError(t, err)
	assert.Contains(t, string(content), "written to file")
}

func TestSetupLoggerConsoleOnly(t *testing.T) {
	orig := log.Logger
	t.Cleanup(func() { log.Logger = orig })

	assert.NotPanics(t, func() { SetupLogger(0, "") })
	assert.Equal(t, zerolog.WarnLevel, zerolog.GlobalLevel())
}

func TestSetupLoggerUnwritableLogFile(t *testing.T) {
	orig := log.Logger
	t.Cleanup(func() { log.Logger = orig })
	blocker := filepath.Join(t.TempDir(), "file")
	require.NoError(t, os.WriteFile(blocker, nil, 0644))

	logPath := filepath.Join(blocker, "dotboot.log")
	SetupLogger(0, logPath)

	_, err := os.Stat(logPath)
	assert.Error(t, err, "a log file below a regular file cannot be created")
}

func TestGetLogger(t *testing.T) {
	var buf bytes.Buffer
	orig := log.Logger
	t.Cleanup(func() { log.Logger = orig })
	log.Logger = zerolog.New(&buf)
	zerolog.SetGlobalLevel(zerolog.InfoLevel)

	logger := GetLogger("engine.apply")
	logger.Info().Msg("test message")

	assert.Contains(t, buf.String(), `"component":"engine.apply"`)
}

func TestLogOperationStart(t *testing.T) {
	var buf bytes.Buffer
	zerolog.SetGlobalLevel(zerolog.DebugLevel)
	logger := zerolog.New(&buf)

	done := LogOperationStart(logger, "merge")
	done()

	out := buf.String()
	assert.Equal(t, 2, strings.Count(out, `"operation":"merge"`))
	assert.Contains(t, out, "Operation completed")
	assert.Contains(t, out, "duration")
}
