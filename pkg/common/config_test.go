package common

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setBaseEnv(t *testing.T) {
	t.Setenv(EnvKeyDBType, "memory")
	t.Setenv(EnvKeyDefaultRate, "5")
	t.Setenv(EnvKeyDefaultBurst, "10")
}

func TestLoadConfigDefaults(t *testing.T) {
	setBaseEnv(t)
	t.Setenv(EnvKeyHttpHostPort, "")
	t.Setenv(EnvKeyMQTTTopicPrefix, "")
	t.Setenv(EnvKeySyncQueueSize, "")

	cfg, err := LoadConfig()
	require.NoError(t, err)
	assert.Equal(t, DBTypeMemory, cfg.DBType)
	assert.Equal(t, ":1080", cfg.HttpHostPort)
	assert.Equal(t, 5.0, cfg.DefaultRate)
	assert.Equal(t, 10, cfg.DefaultBurst)
	assert.Equal(t, "devices", cfg.MQTTTopicPrefix)
	assert.Equal(t, 64, cfg.SyncQueueSize)
}

func TestLoadConfig_EdgeCases(t *testing.T) {
	{
		setBaseEnv(t)
		t.Setenv(EnvKeyDBType, "postgres")
		_, err := LoadConfig()
		assert.ErrorContains(t, err, EnvKeyDBType)
	}

	{
		setBaseEnv(t)
		t.Setenv(EnvKeyDefaultRate, "fast")
		_, err := LoadConfig()
		assert.ErrorContains(t, err, EnvKeyDefaultRate)
	}

	{
		setBaseEnv(t)
		t.Setenv(EnvKeySyncQueueSize, "0")
		_, err := LoadConfig()
		assert.ErrorContains(t, err, EnvKeySyncQueueSize)
	}
}
