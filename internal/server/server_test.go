package server

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/valpere/promptstudio/internal"
	"github.com/valpere/promptstudio/internal/llm"
	"github.com/valpere/promptstudio/internal/orchestrator"
)

type mockRunner struct {
	got    orchestrator.Request
	called bool
	err    error
}

func (m *mockRunner) Run(ctx context.Context, req orchestrator.Request) (*internal.RunResult, error) {
	m.called = true
	m.got = req
	if m.err != nil {
		return nil, m.err
	}
	return &internal.RunResult{
		ID:              "run-1",
		OriginalIdea:    req.Idea,
		CreativityLevel: req.CreativityLevel,
		ModelID:         req.ModelID,
		Iterations:      req.Iterations,
		Variants: []internal.PromptVariant{
			{ID: 1, Style: internal.StyleConcise, Prompt: "Write a haiku.", Output: "Leaves fall", Score: 70},
		},
		BestID:        1,
		RefinedPrompt: "Write a haiku about autumn.",
		Report:        "PromptStudio Report\n",
		GeneratedAt:   time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC),
	}, nil
}

func newTestServer(t *testing.T, runner Runner) *httptest.Server {
	t.Helper()
	reg, err := llm.NewRegistry([]llm.ModelConfig{
		{ID: "model-a"},
		{ID: "local", Provider: llm.ProviderOllama},
	})
	if err != nil {
		t.Fatalf("failed to build registry: %v", err)
	}
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	ts := httptest.NewServer(New(runner, reg, logger).Handler())
	t.Cleanup(ts.Close)
	return ts
}

func TestHealth(t *testing.T) {
	ts := newTestServer(t, &mockRunner{})

	resp, err := http.Get(ts.URL + "/healthz")
	if err != nil {
		t.Fatalf("request failed: %v", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		t.Errorf("expected 200, got %d", resp.StatusCode)
	}
}

func TestModels(t *testing.T) {
	ts := newTestServer(t, &mockRunner{})

	resp, err := http.Get(ts.URL + "/api/models")
	if err != nil {
		t.Fatalf("request failed: %v", err)
	}
	defer resp.Body.Close()

	var models []modelInfo
	if err := json.NewDecoder(resp.Body).Decode(&models); err != nil {
		t.Fatalf("failed to decode: %v", err)
	}
	if len(models) != 2 || models[0].ID != "model-a" || models[1].Provider != llm.ProviderOllama {
		t.Errorf("unexpected models %+v", models)
	}
}

func TestRun_Defaults(t *testing.T) {
	runner := &mockRunner{}
	ts := newTestServer(t, runner)

	resp, err := http.Post(ts.URL+"/api/run", "application/json", strings.NewReader(`{"idea":"a haiku about autumn"}`))
	if err != nil {
		t.Fatalf("request failed: %v", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		t.Fatalf("expected 200, got %d", resp.StatusCode)
	}
	want := orchestrator.Request{Idea: "a haiku about autumn", CreativityLevel: 5, ModelID: "model-a", Iterations: 1}
	if runner.got != want {
		t.Errorf("expected request %+v, got %+v", want, runner.got)
	}

	var result internal.RunResult
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		t.Fatalf("failed to decode: %v", err)
	}
	if result.BestID != 1 || result.RefinedPrompt != "Write a haiku about autumn." {
		t.Errorf("unexpected result %+v", result)
	}
}

func TestRun_TextAttachment(t *testing.T) {
	ts := newTestServer(t, &mockRunner{})

	resp, err := http.Post(ts.URL+"/api/run?format=text", "application/json",
		strings.NewReader(`{"idea":"x","model":"local","iterations":2,"creativity_level":8}`))
	if err != nil {
		t.Fatalf("request failed: %v", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		t.Fatalf("expected 200, got %d", resp.StatusCode)
	}
	cd := resp.Header.Get("Content-Disposition")
	if !strings.Contains(cd, "promptstudio_report_20250301_120000.txt") {
		t.Errorf("unexpected Content-Disposition %q", cd)
	}
	body, _ := io.ReadAll(resp.Body)
	if string(body) != "PromptStudio Report\n" {
		t.Errorf("unexpected body %q", body)
	}
}

func TestRun_UnknownModelListsConfigured(t *testing.T) {
	ts := newTestServer(t, &mockRunner{})

	resp, err := http.Post(ts.URL+"/api/run", "application/json", strings.NewReader(`{"idea":"x","model":"nope"}`))
	if err != nil {
		t.Fatalf("request failed: %v", err)
	}
	defer resp.Body.Close()

	var e errorResponse
	if err := json.NewDecoder(resp.Body).Decode(&e); err != nil {
		t.Fatalf("failed to decode: %v", err)
	}
	if !strings.Contains(e.Error, "configured models: model-a, local") {
		t.Errorf("expected configured model ids in %q", e.Error)
	}
}

func TestRun_Errors(t *testing.T) {
	tests := []struct {
		name   string
		path   string
		body   string
		err    error
		status int
		called bool
	}{
		{"bad json", "/api/run", `{`, nil, http.StatusBadRequest, false},
		{"bad format", "/api/run?format=pdf", `{"idea":"x"}`, nil, http.StatusBadRequest, false},
		{"unknown model", "/api/run", `{"idea":"x","model":"nope"}`, nil, http.StatusBadRequest, false},
		{"invalid request", "/api/run", `{"idea":"x","creativity_level":11}`,
			fmt.Errorf("%w: creativity level 11 outside 1..10", orchestrator.ErrInvalidRequest), http.StatusBadRequest, true},
		{"generation failure", "/api/run", `{"idea":"x"}`,
			fmt.Errorf("%w: upstream down", orchestrator.ErrGeneration), http.StatusBadGateway, true},
		{"canceled", "/api/run", `{"idea":"x"}`, context.DeadlineExceeded, http.StatusGatewayTimeout, true},
		{"timeout during generation", "/api/run", `{"idea":"x"}`,
			fmt.Errorf("%w: generate prompts: %w", orchestrator.ErrGeneration, context.DeadlineExceeded), http.StatusGatewayTimeout, true},
		{"canceled during generation", "/api/run", `{"idea":"x"}`,
			fmt.Errorf("%w: generate prompts: %w", orchestrator.ErrGeneration, context.Canceled), http.StatusGatewayTimeout, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			runner := &mockRunner{err: tt.err}
			ts := newTestServer(t, runner)

			resp, err := http.Post(ts.URL+tt.path, "application/json", strings.NewReader(tt.body))
			if err != nil {
				t.Fatalf("request failed: %v", err)
			}
			defer resp.Body.Close()

			if resp.StatusCode != tt.status {
				t.Errorf("expected %d, got %d", tt.status, resp.StatusCode)
			}
			if runner.called != tt.called {
				t.Errorf("expected runner called=%v", tt.called)
			}

			var e errorResponse
			if err := json.NewDecoder(resp.Body).Decode(&e); err != nil || e.Error == "" {
				t.Errorf("expected JSON error body, got err=%v body=%+v", err, e)
			}
		})
	}
}
