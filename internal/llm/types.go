// Package llm holds the model clients PromptStudio talks to and the ordered
// model registry that decides which backend serves a given model id.
package llm

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"
)

var (
	ErrUnknownModel  = errors.New("unknown model")
	ErrMissingAPIKey = errors.New("API key required")
	ErrEmptyResponse = errors.New("empty response from API")
)

// Provider names a model backend.
type Provider string

const (
	ProviderOpenRouter Provider = "openrouter"
	ProviderOllama     Provider = "ollama"
	ProviderGemini     Provider = "gemini"
)

// ModelConfig is one entry of the model registry.
type ModelConfig struct {
	ID          string        `mapstructure:"id" json:"id" yaml:"id"`
	Provider    Provider      `mapstructure:"provider" json:"provider" yaml:"provider"`
	MaxTokens   int           `mapstructure:"max_tokens" json:"max_tokens,omitempty" yaml:"max_tokens,omitempty"`
	Temperature float64       `mapstructure:"temperature" json:"temperature,omitempty" yaml:"temperature,omitempty"`
	Timeout     time.Duration `mapstructure:"timeout" json:"timeout,omitempty" yaml:"timeout,omitempty"`
}

// Client completes a text prompt with the named model.
type Client interface {
	Complete(ctx context.Context, modelID, prompt string) (string, error)
}

// Backend is a single provider implementation. The model configuration is
// resolved by the Router before the call.
type Backend interface {
	Name() string
	Generate(ctx context.Context, model ModelConfig, prompt string) (string, error)
}

// Checker is implemented by backends that can verify their credentials or
// reachability before a run.
type Checker interface {
	Check(ctx context.Context) error
}

// ClientFunc adapts a function to the Client interface.
type ClientFunc func(ctx context.Context, modelID, prompt string) (string, error)

func (f ClientFunc) Complete(ctx context.Context, modelID, prompt string) (string, error) {
	return f(ctx, modelID, prompt)
}

// StatusError is returned when a provider answers with a non-200 status.
type StatusError struct {
	Provider   string
	StatusCode int
	Body       string
}

func (e *StatusError) Error() string {
	if e.Body == "" {
		return fmt.Sprintf("%s returned status %d", e.Provider, e.StatusCode)
	}
	return fmt.Sprintf("%s returned status %d: %s", e.Provider, e.StatusCode, e.Body)
}

// Temporary reports whether retrying the call may succeed.
func (e *StatusError) Temporary() bool {
	return e.StatusCode == http.StatusTooManyRequests || e.StatusCode >= 500
}
