package llm

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"golang.org/x/time/rate"
)

const (
	DefaultOpenRouterURL = "https://openrouter.ai/api/v1"
	defaultMaxTokens     = 4096
)

// OpenRouterClient calls the OpenRouter chat-completions API.
type OpenRouterClient struct {
	apiKey  string
	baseURL string
	client  *http.Client
	limiter *rate.Limiter
}

// NewOpenRouterClient creates an OpenRouter backend. requestsPerMinute <= 0
// disables client-side rate limiting.
func NewOpenRouterClient(apiKey, baseURL string, requestsPerMinute int) *OpenRouterClient {
	if baseURL == "" {
		baseURL = DefaultOpenRouterURL
	}
	limit := rate.Inf
	if requestsPerMinute > 0 {
		limit = rate.Every(time.Minute / time.Duration(requestsPerMinute))
	}
	return &OpenRouterClient{
		apiKey:  apiKey,
		baseURL: strings.TrimRight(baseURL, "/"),
		client:  &http.Client{Timeout: 120 * time.Second},
		limiter: rate.NewLimiter(limit, 1),
	}
}

func (c *OpenRouterClient) Name() string {
	return string(ProviderOpenRouter)
}

type openRouterMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type openRouterRequest struct {
	Model       string              `json:"model"`
	Messages    []openRouterMessage `json:"messages"`
	MaxTokens   int                 `json:"max_tokens"`
	Temperature float64             `json:"temperature,omitempty"`
}

type openRouterResponse struct {
	Choices []struct {
		Message struct {
			Content string `json:"content"`
		} `json:"message"`
	} `json:"choices"`
	Usage struct {
		PromptTokens     int `json:"prompt_tokens"`
		CompletionTokens int `json:"completion_tokens"`
		TotalTokens      int `json:"total_tokens"`
	} `json:"usage"`
}

func (c *OpenRouterClient) Generate(ctx context.Context, model ModelConfig, prompt string) (string, error) {
	if c.apiKey == "" {
		return "", fmt.Errorf("openrouter: %w", ErrMissingAPIKey)
	}

	if err := c.limiter.Wait(ctx); err != nil {
		return "", fmt.Errorf("openrouter rate limiter: %w", err)
	}

	maxTokens := model.MaxTokens
	if maxTokens <= 0 {
		maxTokens = defaultMaxTokens
	}

	body := openRouterRequest{
		Model:       model.ID,
		Messages:    []openRouterMessage{{Role: "user", Content: prompt}},
		MaxTokens:   maxTokens,
		Temperature: model.Temperature,
	}

	jsonData, err := json.Marshal(body)
	if err != nil {
		return "", fmt.Errorf("failed to marshal request: %w", err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/chat/completions", bytes.NewBuffer(jsonData))
	if err != nil {
		return "", fmt.Errorf("failed to create request: %w", err)
	}
	c.setHeaders(httpReq)

	resp, err := c.client.Do(httpReq)
	if err != nil {
		return "", fmt.Errorf("openrouter request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		msg, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return "", &StatusError{Provider: c.Name(), StatusCode: resp.StatusCode, Body: strings.TrimSpace(string(msg))}
	}

	var orResp openRouterResponse
	if err := json.NewDecoder(resp.Body).Decode(&orResp); err != nil {
		return "", fmt.Errorf("failed to decode response: %w", err)
	}

	if len(orResp.Choices) == 0 {
		return "", fmt.Errorf("openrouter: %w", ErrEmptyResponse)
	}

	text := orResp.Choices[0].Message.Content
	if strings.TrimSpace(text) == "" {
		return "", fmt.Errorf("openrouter: %w", ErrEmptyResponse)
	}
	return text, nil
}

// ValidateKey checks the API key against the OpenRouter key endpoint.
func (c *OpenRouterClient) ValidateKey(ctx context.Context) error {
	if c.apiKey == "" {
		return fmt.Errorf("openrouter: %w", ErrMissingAPIKey)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/auth/key", nil)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	c.setHeaders(httpReq)

	resp, err := c.client.Do(httpReq)
	if err != nil {
		return fmt.Errorf("openrouter key check failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return &StatusError{Provider: c.Name(), StatusCode: resp.StatusCode}
	}
	return nil
}

// Check implements Checker.
func (c *OpenRouterClient) Check(ctx context.Context) error {
	return c.ValidateKey(ctx)
}

func (c *OpenRouterClient) setHeaders(req *http.Request) {
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+c.apiKey)
	req.Header.Set("HTTP-Referer", "https://promptstudio.local")
	req.Header.Set("X-Title", "PromptStudio")
}
