package core

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestNewConfig_defaults(t *testing.T) {
	t.Setenv("ENV", "")

	conf := NewConfig()
	assert.Equal(t, "DEV", conf.Env)
	assert.True(t, conf.Debug)
	assert.False(t, conf.TestMode)
	assert.Equal(t, "CCS", conf.IDPrefix)
	assert.Equal(t, "GHS", conf.Currency)
	assert.Equal(t, "Christ Community School", conf.SchoolName)
	assert.Equal(t, "2024/2025", conf.AcademicYear)
	assert.Equal(t, "First Term", conf.CurrentTerm)
	assert.Equal(t, ":8000", conf.Server.Address)
	assert.Equal(t, 5*time.Second, conf.Server.ShutdownTimeout)
}

func TestNewConfig_env(t *testing.T) {
	t.Setenv("ENV", "test")
	t.Setenv("TEST_IDPREFIX", "SCH")
	t.Setenv("TEST_DEBUG", "false")
	t.Setenv("TEST_SERVER_ADDRESS", ":9090")
	t.Setenv("TEST_SERVER_SHUTDOWNTIMEOUT", "30s")

	conf := NewConfig()
	assert.Equal(t, "TEST", conf.Env)
	assert.True(t, conf.TestMode)
	assert.False(t, conf.Debug)
	assert.Equal(t, "SCH", conf.IDPrefix)
	assert.Equal(t, ":9090", conf.Server.Address)
	assert.Equal(t, 30*time.Second, conf.Server.ShutdownTimeout)
}
