package llm

import (
	"fmt"
	"strings"
)

// DefaultOpenRouterModels is used when no models are configured.
var DefaultOpenRouterModels = []string{
	"google/gemini-2.0-flash-exp:free",
	"qwen/qwen2.5-72b-instruct:free",
	"mistralai/mistral-nemo:free",
	"meta-llama/llama-3.1-8b-instruct:free",
}

// Registry is an ordered set of configured models. The first entry is the
// model used for generation and refinement meta-requests.
type Registry struct {
	models []ModelConfig
	index  map[string]int
}

// NewRegistry builds a registry preserving the given order. Entries without a
// provider default to OpenRouter; duplicate ids are rejected.
func NewRegistry(models []ModelConfig) (*Registry, error) {
	if len(models) == 0 {
		return nil, fmt.Errorf("no models configured")
	}

	r := &Registry{
		models: make([]ModelConfig, 0, len(models)),
		index:  make(map[string]int, len(models)),
	}

	for _, m := range models {
		m.ID = strings.TrimSpace(m.ID)
		if m.ID == "" {
			return nil, fmt.Errorf("model entry %d has no id", len(r.models)+1)
		}
		if m.Provider == "" {
			m.Provider = ProviderOpenRouter
		}
		switch m.Provider {
		case ProviderOpenRouter, ProviderOllama, ProviderGemini:
		default:
			return nil, fmt.Errorf("model %s: unsupported provider %q", m.ID, m.Provider)
		}
		if _, dup := r.index[m.ID]; dup {
			return nil, fmt.Errorf("model %s configured twice", m.ID)
		}
		r.index[m.ID] = len(r.models)
		r.models = append(r.models, m)
	}

	return r, nil
}

// DefaultRegistry returns the OpenRouter free-tier registry.
func DefaultRegistry() *Registry {
	models := make([]ModelConfig, 0, len(DefaultOpenRouterModels))
	for _, id := range DefaultOpenRouterModels {
		models = append(models, ModelConfig{ID: id, Provider: ProviderOpenRouter})
	}
	r, _ := NewRegistry(models)
	return r
}

// First returns the first configured model.
func (r *Registry) First() ModelConfig {
	return r.models[0]
}

// Get looks a model up by id.
func (r *Registry) Get(id string) (ModelConfig, error) {
	i, ok := r.index[id]
	if !ok {
		return ModelConfig{}, fmt.Errorf("%w: %s", ErrUnknownModel, id)
	}
	return r.models[i], nil
}

// Models returns the configured models in order.
func (r *Registry) Models() []ModelConfig {
	out := make([]ModelConfig, len(r.models))
	copy(out, r.models)
	return out
}

// IDs returns the configured model ids in order.
func (r *Registry) IDs() []string {
	ids := make([]string, len(r.models))
	for i, m := range r.models {
		ids[i] = m.ID
	}
	return ids
}

// Uses reports whether any configured model is served by p.
func (r *Registry) Uses(p Provider) bool {
	for _, m := range r.models {
		if m.Provider == p {
			return true
		}
	}
	return false
}
