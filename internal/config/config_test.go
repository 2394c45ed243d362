package config

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	domainErrors "github.com/thomas-vilte/matechangelog/internal/errors"
)

func isolate(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	t.Chdir(dir)
	for _, key := range []string{EnvGitHubToken, EnvGeminiKey, EnvDBPath, EnvAddr, EnvLogLevel, EnvMaxRetries} {
		t.Setenv(key, "")
		require.NoError(t, os.Unsetenv(key))
	}
	return dir
}

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
}

func TestLoadConfig(t *testing.T) {
	t.Run("should apply defaults when no file exists", func(t *testing.T) {
		dir := isolate(t)

		cfg, err := LoadConfig(filepath.Join(dir, "missing.toml"))

		require.NoError(t, err)
		assert.Equal(t, ":8080", cfg.Server.Addr)
		assert.Equal(t, "changelog.db", cfg.Database.Path)
		assert.Equal(t, 100, cfg.GitHub.PerPage)
		assert.Equal(t, ModelGeminiV25Flash, cfg.AI.Model)
		assert.Equal(t, 5*time.Second, cfg.RateLimit.RequestDelay())
		assert.Equal(t, 5*time.Second, cfg.RateLimit.BatchDelay())
		assert.Equal(t, 5*time.Second, cfg.RateLimit.BaseDelay())
		assert.Equal(t, 3, cfg.RateLimit.MaxRetries)
		assert.Equal(t, 1, cfg.RateLimit.BatchSize)
		assert.False(t, cfg.Pipeline.KeywordFallback)
	})

	t.Run("should read the TOML file", func(t *testing.T) {
		dir := isolate(t)
		path := filepath.Join(dir, "config.toml")
		writeFile(t, path, `
[server]
addr = ":9090"

[database]
path = "/tmp/cl.db"

[github]
token = "ghp_file"
per_page = 50

[ai]
model = "gemini-2.5-pro"

[rate_limit]
request_delay_ms = 0
batch_delay_ms = 250
max_retries = 1

[pipeline]
keyword_fallback = true

[log]
level = "debug"
format = "json"
`)

		cfg, err := LoadConfig(path)

		require.NoError(t, err)
		assert.Equal(t, ":9090", cfg.Server.Addr)
		assert.Equal(t, "/tmp/cl.db", cfg.Database.Path)
		assert.Equal(t, "ghp_file", cfg.GitHub.Token)
		assert.Equal(t, 50, cfg.GitHub.PerPage)
		assert.Equal(t, ModelGeminiV25Pro, cfg.AI.Model)
		assert.Zero(t, cfg.RateLimit.RequestDelay())
		assert.Equal(t, 250*time.Millisecond, cfg.RateLimit.BatchDelay())
		assert.Equal(t, 5*time.Second, cfg.RateLimit.BaseDelay())
		assert.Equal(t, 1, cfg.RateLimit.MaxRetries)
		assert.True(t, cfg.Pipeline.KeywordFallback)
		assert.Equal(t, "json", cfg.Log.Format)
		assert.Equal(t, path, cfg.PathFile)
	})

	t.Run("environment overrides file and .env provides secrets", func(t *testing.T) {
		dir := isolate(t)
		path := filepath.Join(dir, "config.toml")
		writeFile(t, path, "[github]\ntoken = \"ghp_file\"\n")
		writeFile(t, filepath.Join(dir, ".env"), "GEMINI_API_KEY=from-dotenv\n")
		t.Setenv(EnvGitHubToken, "ghp_env")
		t.Setenv(EnvAddr, ":7070")
		t.Setenv(EnvMaxRetries, "5")

		cfg, err := LoadConfig(path)

		require.NoError(t, err)
		assert.Equal(t, "ghp_env", cfg.GitHub.Token)
		assert.Equal(t, "from-dotenv", cfg.AI.APIKey)
		assert.Equal(t, ":7070", cfg.Server.Addr)
		assert.Equal(t, 5, cfg.RateLimit.MaxRetries)
		require.NoError(t, cfg.RequireAIKey())
	})

	t.Run("should fail on malformed TOML", func(t *testing.T) {
		dir := isolate(t)
		path := filepath.Join(dir, "config.toml")
		writeFile(t, path, "[server\naddr = ")

		_, err := LoadConfig(path)

		assert.True(t, errors.Is(err, domainErrors.ErrInvalidConfig))
	})

	t.Run("should fail on a non-numeric retry override", func(t *testing.T) {
		isolate(t)
		t.Setenv(EnvMaxRetries, "many")

		_, err := LoadConfig("")

		assert.True(t, errors.Is(err, domainErrors.ErrInvalidConfig))
	})
}

func TestConfig_Validate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
	}{
		{"per_page zero", func(c *Config) { c.GitHub.PerPage = 0 }},
		{"per_page too large", func(c *Config) { c.GitHub.PerPage = 101 }},
		{"negative request delay", func(c *Config) { c.RateLimit.RequestDelayMs = -1 }},
		{"negative batch delay", func(c *Config) { c.RateLimit.BatchDelayMs = -1 }},
		{"negative base delay", func(c *Config) { c.RateLimit.BaseDelayMs = -1 }},
		{"negative retries", func(c *Config) { c.RateLimit.MaxRetries = -1 }},
		{"zero batch size", func(c *Config) { c.RateLimit.BatchSize = 0 }},
		{"empty model", func(c *Config) { c.AI.Model = "" }},
		{"unknown log format", func(c *Config) { c.Log.Format = "xml" }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Default()
			tt.mutate(cfg)

			err := cfg.Validate()

			require.Error(t, err)
			assert.Equal(t, domainErrors.TypeConfiguration, domainErrors.TypeOf(err))
		})
	}

	t.Run("defaults are valid", func(t *testing.T) {
		assert.NoError(t, Default().Validate())
	})
}

func TestRequireAIKey(t *testing.T) {
	err := Default().RequireAIKey()

	assert.True(t, errors.Is(err, domainErrors.ErrAPIKeyMissing))
}

func TestPathFromEnv(t *testing.T) {
	t.Setenv(EnvConfigPath, "")
	assert.Equal(t, DefaultPath, PathFromEnv())

	t.Setenv(EnvConfigPath, "/etc/matechangelog.toml")
	assert.Equal(t, "/etc/matechangelog.toml", PathFromEnv())
}

func TestModels(t *testing.T) {
	assert.Equal(t, []AI{AIGemini}, SupportedAIs())
	assert.Equal(t, ModelGeminiV25Flash, DefaultModelForAI(AIGemini))
	assert.Empty(t, DefaultModelForAI("openai"))
	assert.True(t, IsKnownModel(AIGemini, ModelGeminiV25Pro))
	assert.False(t, IsKnownModel(AIGemini, "gemini-9"))
}
