/*
Copyright © 2025 Valentyn Solomko <valentyn.solomko@gmail.com>

Licensed under the Apache License, Version 2.0 (the "License");
you may not use this file except in compliance with the License.
You may obtain a copy of the License at

	http://www.apache.org/licenses/LICENSE-2.0

Unless required by applicable law or agreed to in writing, software
distributed under the License is distributed on an "AS IS" BASIS,
WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
See the License for the specific language governing permissions and
limitations under the License.
*/
package cmd

import (
	"context"
	"fmt"
	"strings"

	"github.com/valpere/promptstudio/internal/config"
	"github.com/valpere/promptstudio/internal/llm"
)

// buildRouter constructs the model router from the loaded config. OpenRouter
// is always registered; Ollama and Gemini only when a configured model uses
// them.
func buildRouter(ctx context.Context, c *config.Config) (*llm.Router, error) {
	registry, err := c.Registry()
	if err != nil {
		return nil, err
	}

	backends := []llm.Backend{
		llm.NewOpenRouterClient(c.OpenRouter.APIKey, c.OpenRouter.BaseURL, c.OpenRouter.RequestsPerMinute),
	}
	if registry.Uses(llm.ProviderOllama) {
		backends = append(backends, llm.NewOllamaClient(c.Ollama.BaseURL))
	}
	if registry.Uses(llm.ProviderGemini) {
		gemini, err := llm.NewGeminiClient(ctx, c.Gemini.APIKey)
		if err != nil {
			return nil, fmt.Errorf("failed to create Gemini client: %w", err)
		}
		backends = append(backends, gemini)
	}

	return llm.NewRouter(registry, llm.RouterConfig{
		Timeout:     c.Timeout,
		MaxAttempts: c.Retry.MaxAttempts,
		RetryDelay:  c.Retry.Delay,
		Logger:      logger,
	}, backends...), nil
}

// unknownModel decorates a failed registry lookup with the configured ids.
func unknownModel(registry *llm.Registry, err error) error {
	return fmt.Errorf("%w; configured models: %s", err, strings.Join(registry.IDs(), ", "))
}
