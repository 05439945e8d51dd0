package logsvc

import (
	"bytes"
	"encoding/json"
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ccschool/schooladmin/core"
)

func TestConsoleLogger(t *testing.T) {
	var buf bytes.Buffer
	logger := NewConsoleLogger(&buf, "api", &core.Config{Env: "TEST", LogLevel: "info"})

	var exitCode int
	logger.exit = func(code int) { exitCode = code }

	logger.Debug("hidden")
	logger.Info("student created", map[string]interface{}{"id": "CCS2024001"})
	logger.Error("sending email", errors.New("boom"), 42)
	logger.Fatal("bye")

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	require.Len(t, lines, 3)

	entries := make([]map[string]interface{}, len(lines))
	for i, line := range lines {
		require.NoError(t, json.Unmarshal([]byte(line), &entries[i]))
		assert.Equal(t, "api", entries[i]["component"])
		assert.Equal(t, "TEST", entries[i]["env"])
	}

	assert.Equal(t, "info", entries[0]["level"])
	assert.Equal(t, "student created", entries[0]["message"])
	assert.Equal(t, "CCS2024001", entries[0]["id"])

	assert.Equal(t, "error", entries[1]["level"])
	assert.Equal(t, "boom", entries[1]["error"])
	assert.Equal(t, "42", entries[1]["arg1"])

	assert.Equal(t, "fatal", entries[2]["level"])
	assert.Equal(t, 1, exitCode)
}

func TestNewConsoleLogger_badLevel(t *testing.T) {
	var buf bytes.Buffer
	logger := NewConsoleLogger(&buf, "admin", &core.Config{LogLevel: "chatty"})
	logger.Debug("hidden")
	logger.Info("shown")
	assert.NotContains(t, buf.String(), "hidden")
	assert.Contains(t, buf.String(), "shown")
}

func TestNopLogger(t *testing.T) {
	logger := NewNopLogger()
	logger.Info("nothing")
	logger.Fatal("nothing either")
}
