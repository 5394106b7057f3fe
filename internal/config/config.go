// Package config loads PromptStudio settings from flags, environment,
// .env and an optional YAML config file through viper.
package config

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"

	"github.com/valpere/promptstudio/internal/llm"
)

const EnvPrefix = "PROMPTSTUDIO"

type OpenRouterConfig struct {
	APIKey            string `mapstructure:"api_key"`
	BaseURL           string `mapstructure:"base_url"`
	RequestsPerMinute int    `mapstructure:"requests_per_minute"`
}

type OllamaConfig struct {
	BaseURL string `mapstructure:"base_url"`
}

type GeminiConfig struct {
	APIKey string `mapstructure:"api_key"`
}

type RetryConfig struct {
	MaxAttempts int           `mapstructure:"max_attempts"`
	Delay       time.Duration `mapstructure:"delay"`
}

type LogConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
}

type Config struct {
	OpenRouter OpenRouterConfig  `mapstructure:"openrouter"`
	Ollama     OllamaConfig      `mapstructure:"ollama"`
	Gemini     GeminiConfig      `mapstructure:"gemini"`
	Models     []llm.ModelConfig `mapstructure:"models"`
	Timeout    time.Duration     `mapstructure:"timeout"`
	Retry      RetryConfig       `mapstructure:"retry"`
	Log        LogConfig         `mapstructure:"log"`
}

// SetDefaults registers default values on v.
func SetDefaults(v *viper.Viper) {
	v.SetDefault("openrouter.base_url", llm.DefaultOpenRouterURL)
	v.SetDefault("openrouter.requests_per_minute", 20)
	v.SetDefault("ollama.base_url", llm.DefaultOllamaURL)
	v.SetDefault("timeout", 120*time.Second)
	v.SetDefault("retry.max_attempts", 3)
	v.SetDefault("retry.delay", 2*time.Second)
	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "text")
}

// New returns a viper instance wired to PROMPTSTUDIO_* variables and the
// provider API key variables. A .env file in the working directory is loaded
// first; variables already set in the environment win.
func New(configFile string) (*viper.Viper, error) {
	_ = godotenv.Load()

	v := viper.New()
	SetDefaults(v)

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	_ = v.BindEnv("openrouter.api_key", EnvPrefix+"_OPENROUTER_API_KEY", "OPENROUTER_API_KEY")
	_ = v.BindEnv("gemini.api_key", EnvPrefix+"_GEMINI_API_KEY", "GEMINI_API_KEY")
	_ = v.BindEnv("ollama.base_url", EnvPrefix+"_OLLAMA_BASE_URL", "OLLAMA_HOST")

	if configFile != "" {
		v.SetConfigFile(configFile)
	} else {
		v.SetConfigName("promptstudio")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
		if home, err := os.UserHomeDir(); err == nil {
			v.AddConfigPath(home + "/.config/promptstudio")
		}
	}

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if configFile != "" || !errors.As(err, &notFound) {
			return nil, fmt.Errorf("failed to read config: %w", err)
		}
	}

	return v, nil
}

// Load decodes and validates the configuration held by v.
func Load(v *viper.Viper) (*Config, error) {
	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to decode config: %w", err)
	}

	if len(cfg.Models) == 0 {
		cfg.Models = llm.DefaultRegistry().Models()
	}
	if cfg.Retry.MaxAttempts < 1 {
		return nil, fmt.Errorf("retry.max_attempts must be at least 1, got %d", cfg.Retry.MaxAttempts)
	}
	if cfg.OpenRouter.RequestsPerMinute < 0 {
		return nil, fmt.Errorf("openrouter.requests_per_minute must not be negative")
	}
	if _, err := ParseLevel(cfg.Log.Level); err != nil {
		return nil, err
	}
	switch cfg.Log.Format {
	case "text", "json":
	default:
		return nil, fmt.Errorf("unsupported log format %q (text, json)", cfg.Log.Format)
	}

	return &cfg, nil
}

// Registry builds the ordered model registry.
func (c *Config) Registry() (*llm.Registry, error) {
	return llm.NewRegistry(c.Models)
}

// ParseLevel maps a level name onto slog.
func ParseLevel(s string) (slog.Level, error) {
	var level slog.Level
	if err := level.UnmarshalText([]byte(strings.TrimSpace(s))); err != nil {
		return 0, fmt.Errorf("unsupported log level %q", s)
	}
	return level, nil
}
