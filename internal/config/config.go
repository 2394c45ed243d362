package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/BurntSushi/toml"
	"github.com/joho/godotenv"
	domainErrors "github.com/thomas-vilte/matechangelog/internal/errors"
)

type (
	Config struct {
		Server    ServerConfig    `toml:"server"`
		Database  DatabaseConfig  `toml:"database"`
		GitHub    GitHubConfig    `toml:"github"`
		AI        AIConfig        `toml:"ai"`
		RateLimit RateLimitConfig `toml:"rate_limit"`
		Pipeline  PipelineConfig  `toml:"pipeline"`
		Log       LogConfig       `toml:"log"`

		PathFile string `toml:"-"`
	}

	ServerConfig struct {
		Addr string `toml:"addr"`
	}

	DatabaseConfig struct {
		Path     string `toml:"path"`
		LogLevel string `toml:"log_level"`
	}

	GitHubConfig struct {
		Token   string `toml:"token"`
		PerPage int    `toml:"per_page"`
	}

	AIConfig struct {
		APIKey string `toml:"api_key"`
		Model  Model  `toml:"model"`
	}

	RateLimitConfig struct {
		RequestDelayMs int `toml:"request_delay_ms"`
		BatchDelayMs   int `toml:"batch_delay_ms"`
		BaseDelayMs    int `toml:"base_delay_ms"`
		MaxRetries     int `toml:"max_retries"`
		BatchSize      int `toml:"batch_size"`
	}

	PipelineConfig struct {
		KeywordFallback bool `toml:"keyword_fallback"`
	}

	LogConfig struct {
		Level  string `toml:"level"`
		Format string `toml:"format"`
	}
)

const (
	defaultAddr       = ":8080"
	defaultDBPath     = "changelog.db"
	defaultPerPage    = 100
	maxPerPage        = 100
	defaultDelayMs    = 5000
	defaultMaxRetries = 3
	defaultBatchSize  = 1
	defaultLogLevel   = "info"
	defaultLogFormat  = "pretty"
)

// Environment variables that override the file.
const (
	EnvGitHubToken = "GITHUB_TOKEN"
	EnvGeminiKey   = "GEMINI_API_KEY"
	EnvDBPath      = "CHANGELOG_DB_PATH"
	EnvAddr        = "CHANGELOG_ADDR"
	EnvLogLevel    = "CHANGELOG_LOG_LEVEL"
	EnvMaxRetries  = "CHANGELOG_MAX_RETRIES"
	EnvConfigPath  = "CHANGELOG_CONFIG"
)

// DefaultPath is the config file read when CHANGELOG_CONFIG is unset.
const DefaultPath = "config.toml"

// PathFromEnv returns the config file location.
func PathFromEnv() string {
	if p := os.Getenv(EnvConfigPath); p != "" {
		return p
	}
	return DefaultPath
}

func Default() *Config {
	return &Config{
		Server:   ServerConfig{Addr: defaultAddr},
		Database: DatabaseConfig{Path: defaultDBPath, LogLevel: "warn"},
		GitHub:   GitHubConfig{PerPage: defaultPerPage},
		AI:       AIConfig{Model: DefaultModelForAI(AIGemini)},
		RateLimit: RateLimitConfig{
			RequestDelayMs: defaultDelayMs,
			BatchDelayMs:   defaultDelayMs,
			BaseDelayMs:    defaultDelayMs,
			MaxRetries:     defaultMaxRetries,
			BatchSize:      defaultBatchSize,
		},
		Log: LogConfig{Level: defaultLogLevel, Format: defaultLogFormat},
	}
}

// LoadConfig applies, in order: defaults, the TOML file at path (skipped when
// path is empty or missing), a .env file in the working directory and the
// process environment.
func LoadConfig(path string) (*Config, error) {
	cfg := Default()
	cfg.PathFile = path

	if path != "" {
		if _, err := toml.DecodeFile(path, cfg); err != nil {
			if !errors.Is(err, os.ErrNotExist) {
				return nil, domainErrors.ErrInvalidConfig.
					WithError(err).
					WithContext("path", path)
			}
		}
	}

	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		return nil, domainErrors.ErrInvalidConfig.
			WithError(fmt.Errorf("error loading .env: %w", err))
	}

	if err := applyEnv(cfg); err != nil {
		return nil, err
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func applyEnv(cfg *Config) error {
	if v := os.Getenv(EnvGitHubToken); v != "" {
		cfg.GitHub.Token = v
	}
	if v := os.Getenv(EnvGeminiKey); v != "" {
		cfg.AI.APIKey = v
	}
	if v := os.Getenv(EnvDBPath); v != "" {
		cfg.Database.Path = v
	}
	if v := os.Getenv(EnvAddr); v != "" {
		cfg.Server.Addr = v
	}
	if v := os.Getenv(EnvLogLevel); v != "" {
		cfg.Log.Level = v
	}
	if v := os.Getenv(EnvMaxRetries); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			return domainErrors.ErrInvalidConfig.
				WithError(err).
				WithContext("env", EnvMaxRetries)
		}
		cfg.RateLimit.MaxRetries = n
	}
	return nil
}

func (c *Config) Validate() error {
	invalid := func(field string, value interface{}, reason string) error {
		return domainErrors.ErrInvalidConfig.
			WithContext("field", field).
			WithContext("value", value).
			WithContext("reason", reason)
	}

	if c.GitHub.PerPage <= 0 || c.GitHub.PerPage > maxPerPage {
		return invalid("github.per_page", c.GitHub.PerPage, "must be between 1 and 100")
	}
	if c.RateLimit.RequestDelayMs < 0 {
		return invalid("rate_limit.request_delay_ms", c.RateLimit.RequestDelayMs, "must not be negative")
	}
	if c.RateLimit.BatchDelayMs < 0 {
		return invalid("rate_limit.batch_delay_ms", c.RateLimit.BatchDelayMs, "must not be negative")
	}
	if c.RateLimit.BaseDelayMs < 0 {
		return invalid("rate_limit.base_delay_ms", c.RateLimit.BaseDelayMs, "must not be negative")
	}
	if c.RateLimit.MaxRetries < 0 {
		return invalid("rate_limit.max_retries", c.RateLimit.MaxRetries, "must not be negative")
	}
	if c.RateLimit.BatchSize <= 0 {
		return invalid("rate_limit.batch_size", c.RateLimit.BatchSize, "must be positive")
	}
	if c.AI.Model == "" {
		return invalid("ai.model", c.AI.Model, "must not be empty")
	}
	switch c.Log.Format {
	case "pretty", "text", "json":
	default:
		return invalid("log.format", c.Log.Format, "must be pretty, text or json")
	}
	return nil
}

// RequireAIKey fails when no Gemini API key was configured.
func (c *Config) RequireAIKey() error {
	if c.AI.APIKey == "" {
		return domainErrors.ErrAPIKeyMissing
	}
	return nil
}

func (r RateLimitConfig) RequestDelay() time.Duration {
	return time.Duration(r.RequestDelayMs) * time.Millisecond
}

func (r RateLimitConfig) BatchDelay() time.Duration {
	return time.Duration(r.BatchDelayMs) * time.Millisecond
}

func (r RateLimitConfig) BaseDelay() time.Duration {
	return time.Duration(r.BaseDelayMs) * time.Millisecond
}
