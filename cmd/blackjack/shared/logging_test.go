package shared

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/charmbracelet/log"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSetupLogger(t *testing.T) {
	logger, closeFn, err := SetupLogger(LogFlags{}, true)
	require.NoError(t, err)
	assert.Equal(t, log.WarnLevel, logger.GetLevel())
	require.NoError(t, closeFn())

	logger, closeFn, err = SetupLogger(LogFlags{Debug: true}, true)
	require.NoError(t, err)
	assert.Equal(t, log.DebugLevel, logger.GetLevel())
	require.NoError(t, closeFn())
}

func TestSetupLogger_File(t *testing.T) {
	path := filepath.Join(t.TempDir(), "blackjack.log")
	logger, closeFn, err := SetupLogger(LogFlags{LogFile: path}, true)
	require.NoError(t, err)
	assert.Equal(t, log.InfoLevel, logger.GetLevel(), "a log file keeps info logs")

	logger.Info("Round complete", "net", 20)
	require.NoError(t, closeFn())

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), "Round complete")
	assert.Contains(t, string(data), "net=20")
}

func TestSetupLogger_BadPath(t *testing.T) {
	_, _, err := SetupLogger(LogFlags{LogFile: filepath.Join(t.TempDir(), "missing", "x.log")}, false)
	assert.ErrorContains(t, err, "failed to open log file")
}
