package config

import (
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/spf13/viper"
)

const (
	ProviderOpenAI = "openai"
	ProviderGroq   = "groq"
	ProviderAzure  = "azure"
	ProviderVertex = "vertex"
)

// ConfigFileEnv names an optional config file read before the environment.
const ConfigFileEnv = "TRIBUNAL_CONFIG"

var (
	ErrMissingAPIKey    = errors.New("llm api key is required")
	ErrMissingEndpoint  = errors.New("llm endpoint is required")
	ErrMissingProject   = errors.New("vertex project is required")
	ErrUnknownProvider  = errors.New("unknown llm provider")
	ErrInvalidUploadCap = errors.New("max upload bytes must be positive")
)

var defaultEndpoints = map[string]string{
	ProviderOpenAI: "https://api.openai.com/v1",
	ProviderGroq:   "https://api.groq.com/openai/v1",
}

type Config struct {
	Server ServerConfig `mapstructure:"server"`
	LLM    LLMConfig    `mapstructure:"llm"`
	Log    LogConfig    `mapstructure:"log"`
}

type ServerConfig struct {
	Port           string        `mapstructure:"port"`
	Host           string        `mapstructure:"host"`
	ReadTimeout    time.Duration `mapstructure:"read_timeout"`
	WriteTimeout   time.Duration `mapstructure:"write_timeout"`
	MaxUploadBytes int64         `mapstructure:"max_upload_bytes"`
	AllowedOrigins []string      `mapstructure:"allowed_origins"`
}

type LLMConfig struct {
	Provider   string        `mapstructure:"provider"`
	APIKey     string        `mapstructure:"api_key"`
	Endpoint   string        `mapstructure:"endpoint"`
	Model      string        `mapstructure:"model"`
	APIVersion string        `mapstructure:"api_version"`
	Timeout    time.Duration `mapstructure:"timeout"`
	MaxRetries int           `mapstructure:"max_retries"`

	VertexProject string `mapstructure:"vertex_project"`
	VertexRegion  string `mapstructure:"vertex_region"`
}

type LogConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("server.host", "0.0.0.0")
	v.SetDefault("server.port", "8000")
	v.SetDefault("server.read_timeout", "30s")
	v.SetDefault("server.write_timeout", "180s")
	v.SetDefault("server.max_upload_bytes", 20<<20)
	v.SetDefault("server.allowed_origins", []string{"*"})

	v.SetDefault("llm.provider", ProviderGroq)
	v.SetDefault("llm.endpoint", "")
	v.SetDefault("llm.model", "llama-3.1-8b-instant")
	v.SetDefault("llm.api_version", "2024-06-01")
	v.SetDefault("llm.timeout", "60s")
	v.SetDefault("llm.max_retries", 0)
	v.SetDefault("llm.vertex_project", "")
	v.SetDefault("llm.vertex_region", "us-central1")

	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "text")
}

// LoadConfig reads configuration from an optional file named by
// TRIBUNAL_CONFIG and from the environment, which takes precedence.
func LoadConfig() (*Config, error) {
	return load(viper.New())
}

func load(v *viper.Viper) (*Config, error) {
	setDefaults(v)

	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	// The key has several accepted names, first match wins.
	if err := v.BindEnv("llm.api_key", "LLM_API_KEY", "GROQ_API_KEY", "OPENAI_API_KEY"); err != nil {
		return nil, fmt.Errorf("bind api key env: %w", err)
	}
	if err := v.BindEnv("config_file", ConfigFileEnv); err != nil {
		return nil, fmt.Errorf("bind config file env: %w", err)
	}

	if path := v.GetString("config_file"); path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("read config file %s: %w", path, err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("decode config: %w", err)
	}
	// Comma separated origins arrive as a single string from the environment.
	cfg.Server.AllowedOrigins = splitList(cfg.Server.AllowedOrigins)
	cfg.LLM.Provider = strings.ToLower(strings.TrimSpace(cfg.LLM.Provider))
	if cfg.LLM.Endpoint == "" {
		cfg.LLM.Endpoint = defaultEndpoints[cfg.LLM.Provider]
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	slog.Info("configuration loaded successfully",
		"provider", cfg.LLM.Provider,
		"model", cfg.LLM.Model,
		"max_retries", cfg.LLM.MaxRetries,
	)
	return &cfg, nil
}

// Validate checks that the provider settings are complete.
func (c *Config) Validate() error {
	if c.Server.MaxUploadBytes <= 0 {
		return ErrInvalidUploadCap
	}
	switch c.LLM.Provider {
	case ProviderOpenAI, ProviderGroq, ProviderAzure:
		if c.LLM.APIKey == "" {
			return ErrMissingAPIKey
		}
		if c.LLM.Endpoint == "" {
			return fmt.Errorf("%w for provider %s", ErrMissingEndpoint, c.LLM.Provider)
		}
	case ProviderVertex:
		if c.LLM.VertexProject == "" {
			return ErrMissingProject
		}
	default:
		return fmt.Errorf("%w: %q", ErrUnknownProvider, c.LLM.Provider)
	}
	return nil
}

func splitList(in []string) []string {
	var out []string
	for _, item := range in {
		for _, part := range strings.Split(item, ",") {
			if p := strings.TrimSpace(part); p != "" {
				out = append(out, p)
			}
		}
	}
	return out
}
