package logger

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestNew_WithoutWriter(t *testing.T) {
	log, err := New("development", nil)
	require.NoError(t, err)
	assert.NotNil(t, log)
}

func TestNew_TeesToWriter(t *testing.T) {
	var buf bytes.Buffer

	log, err := New("production", &buf)
	require.NoError(t, err)

	log.Info("plan delivered", zap.String("email", "jane@example.com"))
	_ = log.Sync()

	line := strings.TrimSpace(buf.String())
	require.NotEmpty(t, line)

	var entry map[string]interface{}
	require.NoError(t, json.Unmarshal([]byte(line), &entry))
	assert.Equal(t, "plan delivered", entry["msg"])
	assert.Equal(t, "jane@example.com", entry["email"])
	assert.Equal(t, "INFO", entry["level"])
	assert.Contains(t, entry, "timestamp")
}

func TestNew_ProductionDropsDebug(t *testing.T) {
	var buf bytes.Buffer

	log, err := New("production", &buf)
	require.NoError(t, err)

	log.Debug("noise")
	_ = log.Sync()

	assert.Empty(t, buf.String())
}
