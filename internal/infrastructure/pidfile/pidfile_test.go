package pidfile_test

import (
	"fmt"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/andrescamacho/geflip-go/internal/infrastructure/pidfile"
)

func TestPIDFile_AcquireAndRelease(t *testing.T) {
	// Arrange
	path := filepath.Join(t.TempDir(), "run", "geflip.pid")
	p := pidfile.New(path)

	// Act
	require.NoError(t, p.Acquire())
	pid, running := p.Running()

	// Assert
	assert.True(t, running)
	assert.Equal(t, os.Getpid(), pid)

	// A second acquire sees our own live process
	assert.ErrorIs(t, pidfile.New(path).Acquire(), pidfile.ErrAlreadyRunning)

	require.NoError(t, p.Release())
	_, running = p.Running()
	assert.False(t, running)
	require.NoError(t, p.Release())
}

func TestPIDFile_ReplacesGarbage(t *testing.T) {
	// Arrange
	path := filepath.Join(t.TempDir(), "geflip.pid")
	require.NoError(t, os.WriteFile(path, []byte("not-a-pid"), 0o644))

	// Act
	err := pidfile.New(path).Acquire()

	// Assert
	require.NoError(t, err)
	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, fmt.Sprintf("%d\n", os.Getpid()), string(data))
}

func TestPIDFile_KillExistingWithoutProcessIsNoop(t *testing.T) {
	p := pidfile.New(filepath.Join(t.TempDir(), "geflip.pid"))

	assert.NoError(t, p.KillExisting())
}
