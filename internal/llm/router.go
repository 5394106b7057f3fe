package llm

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"
)

// RouterConfig controls per-call timeout and retries.
type RouterConfig struct {
	Timeout     time.Duration
	MaxAttempts int
	RetryDelay  time.Duration
	Logger      *slog.Logger
}

func (c *RouterConfig) defaults() {
	if c.Timeout <= 0 {
		c.Timeout = 120 * time.Second
	}
	if c.MaxAttempts <= 0 {
		c.MaxAttempts = 3
	}
	if c.RetryDelay <= 0 {
		c.RetryDelay = 2 * time.Second
	}
	if c.Logger == nil {
		c.Logger = slog.Default()
	}
}

// Router implements Client by resolving the model in the registry and
// dispatching to the backend registered for its provider.
type Router struct {
	registry *Registry
	backends map[Provider]Backend
	config   RouterConfig
}

func NewRouter(registry *Registry, config RouterConfig, backends ...Backend) *Router {
	config.defaults()
	r := &Router{
		registry: registry,
		backends: make(map[Provider]Backend, len(backends)),
		config:   config,
	}
	for _, b := range backends {
		r.backends[Provider(b.Name())] = b
	}
	return r
}

// Registry returns the registry the router resolves models from.
func (r *Router) Registry() *Registry {
	return r.registry
}

// Preflight runs the check of every backend serving at least one configured
// model. It is meant to run once before any pipeline run.
func (r *Router) Preflight(ctx context.Context) error {
	checked := make(map[Provider]bool)
	for _, m := range r.registry.Models() {
		if checked[m.Provider] {
			continue
		}
		checked[m.Provider] = true

		backend, ok := r.backends[m.Provider]
		if !ok {
			return fmt.Errorf("no backend configured for provider %s (model %s)", m.Provider, m.ID)
		}
		c, ok := backend.(Checker)
		if !ok {
			continue
		}
		if err := c.Check(ctx); err != nil {
			return fmt.Errorf("%s check failed: %w", m.Provider, err)
		}
		r.config.Logger.Debug("backend check passed", "provider", m.Provider)
	}
	return nil
}

func (r *Router) Complete(ctx context.Context, modelID, prompt string) (string, error) {
	model, err := r.registry.Get(modelID)
	if err != nil {
		return "", err
	}

	backend, ok := r.backends[model.Provider]
	if !ok {
		return "", fmt.Errorf("no backend configured for provider %s (model %s)", model.Provider, model.ID)
	}

	timeout := r.config.Timeout
	if model.Timeout > 0 {
		timeout = model.Timeout
	}

	var lastErr error
	for attempt := 1; attempt <= r.config.MaxAttempts; attempt++ {
		callCtx, cancel := context.WithTimeout(ctx, timeout)
		text, err := backend.Generate(callCtx, model, prompt)
		cancel()
		if err == nil {
			return text, nil
		}
		lastErr = err

		if !retryable(err) || attempt == r.config.MaxAttempts || ctx.Err() != nil {
			break
		}

		delay := r.config.RetryDelay * time.Duration(attempt)
		r.config.Logger.Warn("model call failed, retrying",
			"model", model.ID, "attempt", attempt, "delay", delay, "error", err)

		select {
		case <-ctx.Done():
			return "", ctx.Err()
		case <-time.After(delay):
		}
	}

	return "", fmt.Errorf("%s: %w", model.ID, lastErr)
}

func retryable(err error) bool {
	if errors.Is(err, ErrMissingAPIKey) || errors.Is(err, ErrUnknownModel) || errors.Is(err, context.Canceled) {
		return false
	}
	var se *StatusError
	if errors.As(err, &se) {
		return se.Temporary()
	}
	return true
}
