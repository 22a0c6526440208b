package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "genesis.yml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	return path
}

func TestLoad_ValidConfig(t *testing.T) {
	path := writeConfig(t, `version: "1.0"
instance: staging
completion:
  base_url: https://llm.internal/v1
  model: gpt-4o-mini
  temperature: 0.7
  timeout_seconds: 60
output:
  dir: artifacts
redis:
  addr: localhost:6379
`)

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "staging", cfg.Instance)
	assert.Equal(t, "https://llm.internal/v1", cfg.Completion.BaseURL)
	assert.Equal(t, "gpt-4o-mini", cfg.Completion.Model)
	assert.Equal(t, 0.7, cfg.Completion.Temperature)
	assert.Equal(t, "artifacts", cfg.Output.Dir)
	assert.Equal(t, "localhost:6379", cfg.Redis.Addr)
}

func TestLoad_DefaultsApplied(t *testing.T) {
	path := writeConfig(t, `version: "1.0"
completion:
  model: gpt-4o-mini
`)

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "default", cfg.Instance)
	assert.Equal(t, "https://api.openai.com/v1", cfg.Completion.BaseURL)
	assert.Equal(t, 120, cfg.Completion.TimeoutSeconds)
	assert.Equal(t, "output", cfg.Output.Dir)
}

func TestLoad_FileNotFound(t *testing.T) {
	cfg, err := Load("/nonexistent/genesis.yml")
	assert.Error(t, err)
	assert.Nil(t, cfg)
	assert.Contains(t, err.Error(), "failed to read config")
}

func TestLoad_InvalidYAML(t *testing.T) {
	path := writeConfig(t, "version: [unclosed")

	cfg, err := Load(path)
	assert.Error(t, err)
	assert.Nil(t, cfg)
	assert.Contains(t, err.Error(), "failed to parse config")
}

func TestLoad_UnsupportedVersion(t *testing.T) {
	path := writeConfig(t, `version: "2.0"
completion:
  model: gpt-4o-mini
`)

	_, err := Load(path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unsupported version")
}

func TestLoad_InvalidInstanceName(t *testing.T) {
	path := writeConfig(t, `version: "1.0"
instance: "Not Valid!"
completion:
  model: gpt-4o-mini
`)

	_, err := Load(path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid instance name")
}

func TestLoad_TemperatureOutOfRange(t *testing.T) {
	path := writeConfig(t, `version: "1.0"
completion:
  model: gpt-4o-mini
  temperature: 3.5
`)

	_, err := Load(path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "temperature")
}

func TestLoad_EnvOverrides(t *testing.T) {
	t.Setenv("DATABASE_URL", "postgres://genesis@db:5432/genesis")
	t.Setenv("REDIS_ADDR", "redis:6379")

	path := writeConfig(t, `version: "1.0"
completion:
  model: gpt-4o-mini
database:
  url: postgres://from-file
redis:
  addr: from-file:6379
`)

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "postgres://genesis@db:5432/genesis", cfg.Database.URL)
	assert.Equal(t, "redis:6379", cfg.Redis.Addr)
}

func TestLoadOrDefault_MissingFile(t *testing.T) {
	cfg, err := LoadOrDefault(filepath.Join(t.TempDir(), "genesis.yml"))
	require.NoError(t, err)
	assert.Equal(t, "default", cfg.Instance)
	assert.Equal(t, "gpt-4o-mini", cfg.Completion.Model)
	require.NoError(t, cfg.Validate())
}

func TestLoadOrDefault_BrokenFileStillErrors(t *testing.T) {
	path := writeConfig(t, "version: [unclosed")

	_, err := LoadOrDefault(path)
	assert.Error(t, err)
}

func TestAPIKey_FromEnvironment(t *testing.T) {
	t.Setenv("OPENAI_API_KEY", "sk-test")
	cfg := Default()
	assert.Equal(t, "sk-test", cfg.APIKey())
}
