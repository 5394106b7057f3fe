package config

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/spf13/viper"

	"github.com/valpere/promptstudio/internal/llm"
)

func TestLoad_Defaults(t *testing.T) {
	v := viper.New()
	SetDefaults(v)

	cfg, err := Load(v)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if cfg.Timeout != 120*time.Second {
		t.Errorf("expected 120s timeout, got %v", cfg.Timeout)
	}
	if cfg.Retry.MaxAttempts != 3 {
		t.Errorf("expected 3 attempts, got %d", cfg.Retry.MaxAttempts)
	}
	if len(cfg.Models) != len(llm.DefaultOpenRouterModels) {
		t.Errorf("expected default models, got %d", len(cfg.Models))
	}
	if cfg.OpenRouter.BaseURL != llm.DefaultOpenRouterURL {
		t.Errorf("unexpected base URL %q", cfg.OpenRouter.BaseURL)
	}
}

func TestNew_ConfigFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "promptstudio.yaml")
	content := `
openrouter:
  requests_per_minute: 5
models:
  - id: local-llama
    provider: ollama
    temperature: 0.4
  - id: google/gemini-2.0-flash-exp:free
timeout: 30s
log:
  level: debug
  format: json
`
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatalf("failed to write config: %v", err)
	}

	v, err := New(path)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	cfg, err := Load(v)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if cfg.OpenRouter.RequestsPerMinute != 5 {
		t.Errorf("expected 5 rpm, got %d", cfg.OpenRouter.RequestsPerMinute)
	}
	if cfg.Timeout != 30*time.Second {
		t.Errorf("expected 30s timeout, got %v", cfg.Timeout)
	}

	reg, err := cfg.Registry()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	first := reg.First()
	if first.ID != "local-llama" || first.Provider != llm.ProviderOllama || first.Temperature != 0.4 {
		t.Errorf("unexpected first model %+v", first)
	}
	if reg.Models()[1].Provider != llm.ProviderOpenRouter {
		t.Error("expected provider to default to openrouter")
	}
}

func TestNew_MissingExplicitFile(t *testing.T) {
	if _, err := New(filepath.Join(t.TempDir(), "missing.yaml")); err == nil {
		t.Error("expected error for a missing explicit config file")
	}
}

func TestNew_EnvAPIKey(t *testing.T) {
	t.Chdir(t.TempDir())
	t.Setenv("OPENROUTER_API_KEY", "sk-or-test")

	v, err := New("")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	cfg, err := Load(v)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.OpenRouter.APIKey != "sk-or-test" {
		t.Errorf("expected key from environment, got %q", cfg.OpenRouter.APIKey)
	}
}

func TestLoad_Invalid(t *testing.T) {
	tests := []struct {
		name string
		key  string
		val  any
	}{
		{"zero attempts", "retry.max_attempts", 0},
		{"negative rpm", "openrouter.requests_per_minute", -1},
		{"bad level", "log.level", "loud"},
		{"bad format", "log.format", "xml"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			v := viper.New()
			SetDefaults(v)
			v.Set(tt.key, tt.val)
			if _, err := Load(v); err == nil {
				t.Error("expected validation error")
			}
		})
	}
}

func TestNewLogger(t *testing.T) {
	var buf bytes.Buffer
	logger, err := NewLogger(&buf, LogConfig{Level: "warn", Format: "json"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	logger.Info("hidden")
	logger.Warn("shown", "style", "Concise")

	out := buf.String()
	if strings.Contains(out, "hidden") {
		t.Error("info record should be filtered at warn level")
	}
	if !strings.Contains(out, `"msg":"shown"`) || !strings.Contains(out, `"style":"Concise"`) {
		t.Errorf("unexpected JSON log output %q", out)
	}
}
