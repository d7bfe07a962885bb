package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

func TestLoad(t *testing.T) {
	path := writeConfig(t, `
runtime:
  queue_size: 128
  delivery_timeout: 500ms
logging:
  level: debug
  format: json
metrics:
  enabled: true
redis:
  addr: localhost:6379
  db: 2
  result_key: agenthub:results
`)

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, 128, cfg.Runtime.QueueSize)
	assert.Equal(t, 500*time.Millisecond, cfg.Runtime.DeliveryTimeout.Std())
	assert.Equal(t, "debug", cfg.Logging.Level)
	assert.Equal(t, "json", cfg.Logging.Format)
	assert.True(t, cfg.Metrics.Enabled)
	assert.Equal(t, "localhost:6379", cfg.Redis.Addr)
	assert.Equal(t, 2, cfg.Redis.DB)
	assert.Equal(t, "agenthub:results", cfg.Redis.ResultKey)
}

func TestLoadDefaultsWhenOmitted(t *testing.T) {
	path := writeConfig(t, `
logging:
  level: info
`)

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, 0, cfg.Runtime.QueueSize)
	assert.Equal(t, time.Duration(0), cfg.Runtime.DeliveryTimeout.Std())
	assert.False(t, cfg.Metrics.Enabled)
	assert.Empty(t, cfg.Redis.Addr)
}

func TestLoadMissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "missing.yaml"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to read config file")
}

func TestLoadInvalidYAML(t *testing.T) {
	path := writeConfig(t, "runtime: [not a mapping")

	_, err := Load(path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to unmarshal config")
}

func TestDurationUnmarshal(t *testing.T) {
	var out struct {
		Timeout Duration `yaml:"timeout"`
	}

	require.NoError(t, yaml.Unmarshal([]byte("timeout: 1m30s"), &out))
	assert.Equal(t, 90*time.Second, out.Timeout.Std())

	err := yaml.Unmarshal([]byte("timeout: soon"), &out)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid duration")
}
