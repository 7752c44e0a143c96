package logging

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ytget/ytfetch/internal/config"
)

func TestNewLogger_NoFile(t *testing.T) {
	var buf bytes.Buffer
	l, err := NewLogger(config.LogSettings{Level: "info"}, &buf)
	require.NoError(t, err)
	defer l.Close()

	l.Info("test message")
	l.Debug("hidden")

	assert.Contains(t, buf.String(), "test message")
	assert.NotContains(t, buf.String(), "hidden")
	assert.Equal(t, logrus.InfoLevel, l.GetLevel())
}

func TestNewLogger_WithFile(t *testing.T) {
	dir := t.TempDir()
	file := filepath.Join(dir, "logs", "ytfetch.log")

	l, err := NewLogger(config.LogSettings{Level: "debug", File: file}, nil)
	require.NoError(t, err)
	l.WithField("request_id", "req-1").Debug("to file")
	require.NoError(t, l.Close())
	require.NoError(t, l.Close())

	b, err := os.ReadFile(file)
	require.NoError(t, err)
	assert.Contains(t, string(b), "level=debug")
	assert.Contains(t, string(b), "to file")
	assert.Contains(t, string(b), "request_id=req-1")
}

func TestNewLogger_InvalidLevel(t *testing.T) {
	_, err := NewLogger(config.LogSettings{Level: "loud"}, nil)
	assert.Error(t, err)
}
