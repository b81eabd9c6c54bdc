package logging_test

import (
	"bytes"
	"encoding/json"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/andrescamacho/geflip-go/internal/infrastructure/config"
	"github.com/andrescamacho/geflip-go/internal/infrastructure/logging"
)

func TestNewWithWriter_JSONRespectsLevel(t *testing.T) {
	// Arrange
	var buf bytes.Buffer
	logger := logging.NewWithWriter(config.LoggingConfig{Level: "warn", Format: "json"}, &buf)

	// Act
	logger.Info("hidden")
	logger.Warn("feed slow", "endpoint", "/latest")

	// Assert
	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	require.Len(t, lines, 1)
	var record map[string]any
	require.NoError(t, json.Unmarshal([]byte(lines[0]), &record))
	assert.Equal(t, "feed slow", record["msg"])
	assert.Equal(t, "/latest", record["endpoint"])
}

func TestParseLevel(t *testing.T) {
	assert.Equal(t, slog.LevelDebug, logging.ParseLevel("DEBUG"))
	assert.Equal(t, slog.LevelWarn, logging.ParseLevel("warning"))
	assert.Equal(t, slog.LevelError, logging.ParseLevel("error"))
	assert.Equal(t, slog.LevelInfo, logging.ParseLevel("bogus"))
}

func TestNew_FileOutputRequiresPath(t *testing.T) {
	_, _, err := logging.New(config.LoggingConfig{Level: "info", Format: "text", Output: "file"})
	assert.Error(t, err)
}

func TestRotator_RotatesAndKeepsBackups(t *testing.T) {
	// Arrange
	path := filepath.Join(t.TempDir(), "logs", "geflip.log")
	r, err := logging.NewRotator(path, 1, 2)
	require.NoError(t, err)
	defer r.Close()
	r.MaxSize = 10

	// Act
	for _, chunk := range []string{"aaaaaaaa\n", "bbbbbbbb\n", "cccccccc\n", "dddddddd\n"} {
		_, err := r.Write([]byte(chunk))
		require.NoError(t, err)
	}

	// Assert
	current, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "dddddddd\n", string(current))

	first, err := os.ReadFile(path + ".1")
	require.NoError(t, err)
	assert.Equal(t, "cccccccc\n", string(first))

	second, err := os.ReadFile(path + ".2")
	require.NoError(t, err)
	assert.Equal(t, "bbbbbbbb\n", string(second))

	_, err = os.Stat(path + ".3")
	assert.True(t, os.IsNotExist(err))
}
