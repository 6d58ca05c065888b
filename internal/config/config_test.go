package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadConfigDefaults(t *testing.T) {
	// Empty values count as unset.
	for _, k := range []string{"LLM_API_KEY", "LLM_PROVIDER", "LLM_ENDPOINT", "LLM_MODEL", ConfigFileEnv} {
		t.Setenv(k, "")
	}
	t.Setenv("GROQ_API_KEY", "gsk-test")

	cfg, err := LoadConfig()
	require.NoError(t, err)

	assert.Equal(t, "0.0.0.0", cfg.Server.Host)
	assert.Equal(t, "8000", cfg.Server.Port)
	assert.Equal(t, 30*time.Second, cfg.Server.ReadTimeout)
	assert.Equal(t, int64(20<<20), cfg.Server.MaxUploadBytes)
	assert.Equal(t, []string{"*"}, cfg.Server.AllowedOrigins)

	assert.Equal(t, ProviderGroq, cfg.LLM.Provider)
	assert.Equal(t, "gsk-test", cfg.LLM.APIKey)
	assert.Equal(t, "https://api.groq.com/openai/v1", cfg.LLM.Endpoint)
	assert.Equal(t, "llama-3.1-8b-instant", cfg.LLM.Model)
	assert.Equal(t, 60*time.Second, cfg.LLM.Timeout)
	assert.Equal(t, 0, cfg.LLM.MaxRetries)
}

func TestLoadConfigEnvOverrides(t *testing.T) {
	t.Setenv("LLM_PROVIDER", "OpenAI")
	t.Setenv("LLM_API_KEY", "primary")
	t.Setenv("OPENAI_API_KEY", "secondary")
	t.Setenv("LLM_MODEL", "gpt-4o-mini")
	t.Setenv("LLM_MAX_RETRIES", "2")
	t.Setenv("SERVER_PORT", "9090")
	t.Setenv("SERVER_ALLOWED_ORIGINS", "https://a.example, https://b.example")

	cfg, err := LoadConfig()
	require.NoError(t, err)

	assert.Equal(t, ProviderOpenAI, cfg.LLM.Provider)
	assert.Equal(t, "primary", cfg.LLM.APIKey)
	assert.Equal(t, "https://api.openai.com/v1", cfg.LLM.Endpoint)
	assert.Equal(t, "gpt-4o-mini", cfg.LLM.Model)
	assert.Equal(t, 2, cfg.LLM.MaxRetries)
	assert.Equal(t, "9090", cfg.Server.Port)
	assert.Equal(t, []string{"https://a.example", "https://b.example"}, cfg.Server.AllowedOrigins)
}

func TestLoadConfigFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "tribunal.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
llm:
  provider: vertex
  vertex_project: my-project
  model: gemini-1.5-pro
server:
  port: "7000"
`), 0o600))
	t.Setenv(ConfigFileEnv, path)
	t.Setenv("SERVER_PORT", "7001")

	cfg, err := LoadConfig()
	require.NoError(t, err)
	assert.Equal(t, ProviderVertex, cfg.LLM.Provider)
	assert.Equal(t, "my-project", cfg.LLM.VertexProject)
	assert.Equal(t, "gemini-1.5-pro", cfg.LLM.Model)
	assert.Equal(t, "7001", cfg.Server.Port, "environment wins over file")
}

func TestLoadConfigErrors(t *testing.T) {
	t.Run("missing key", func(t *testing.T) {
		t.Setenv("LLM_API_KEY", "")
		t.Setenv("GROQ_API_KEY", "")
		t.Setenv("OPENAI_API_KEY", "")
		_, err := LoadConfig()
		assert.ErrorIs(t, err, ErrMissingAPIKey)
	})

	t.Run("unknown provider", func(t *testing.T) {
		t.Setenv("LLM_PROVIDER", "carrier-pigeon")
		t.Setenv("LLM_API_KEY", "k")
		_, err := LoadConfig()
		assert.ErrorIs(t, err, ErrUnknownProvider)
	})

	t.Run("azure needs endpoint", func(t *testing.T) {
		t.Setenv("LLM_PROVIDER", "azure")
		t.Setenv("LLM_API_KEY", "k")
		_, err := LoadConfig()
		assert.ErrorIs(t, err, ErrMissingEndpoint)
	})

	t.Run("vertex needs project", func(t *testing.T) {
		t.Setenv("LLM_PROVIDER", "vertex")
		_, err := LoadConfig()
		assert.ErrorIs(t, err, ErrMissingProject)
	})

	t.Run("missing config file", func(t *testing.T) {
		t.Setenv("LLM_API_KEY", "k")
		t.Setenv(ConfigFileEnv, filepath.Join(t.TempDir(), "absent.yaml"))
		_, err := LoadConfig()
		assert.Error(t, err)
	})
}
