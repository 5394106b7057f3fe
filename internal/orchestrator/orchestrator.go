// Package orchestrator runs the PromptStudio pipeline:
// generate → test → score → select → refine → report.
package orchestrator

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"github.com/valpere/promptstudio/internal"
	"github.com/valpere/promptstudio/internal/generator"
	"github.com/valpere/promptstudio/internal/llm"
	"github.com/valpere/promptstudio/internal/refiner"
	"github.com/valpere/promptstudio/internal/report"
	"github.com/valpere/promptstudio/internal/scorer"
)

var (
	ErrInvalidRequest = errors.New("invalid request")
	ErrGeneration     = errors.New("prompt generation failed")
)

const (
	MinCreativity = 1
	MaxCreativity = 10
	MinIterations = 1
	MaxIterations = 3
)

// LanguageChecker reports a language mismatch between a reference text and
// an output.
type LanguageChecker interface {
	SameLanguage(reference, output string) error
}

type OrchestratorConfig struct {
	// GenerationModel serves the generation meta-request. It is the first
	// model of the registry.
	GenerationModel string
	// RefinementModel serves the refinement meta-request; defaults to
	// GenerationModel.
	RefinementModel string

	// Parallel tests the variants concurrently.
	Parallel bool

	// LanguageCheck, when set, logs test outputs whose language differs from
	// the rough idea.
	LanguageCheck LanguageChecker

	// Refiner overrides the model-backed refiner.
	Refiner refiner.Refiner

	Logger *slog.Logger
	Now    func() time.Time
}

func (c *OrchestratorConfig) defaults() {
	if c.RefinementModel == "" {
		c.RefinementModel = c.GenerationModel
	}
	if c.Logger == nil {
		c.Logger = slog.Default()
	}
	if c.Now == nil {
		c.Now = time.Now
	}
}

// Request is the caller-facing input of one run.
type Request struct {
	Idea            string `json:"idea"`
	CreativityLevel int    `json:"creativity_level"`
	ModelID         string `json:"model"`
	Iterations      int    `json:"iterations"`
}

// Validate checks the request bounds.
func (r Request) Validate() error {
	if strings.TrimSpace(r.Idea) == "" {
		return fmt.Errorf("%w: rough prompt idea is empty", ErrInvalidRequest)
	}
	if r.CreativityLevel < MinCreativity || r.CreativityLevel > MaxCreativity {
		return fmt.Errorf("%w: creativity level %d outside %d..%d", ErrInvalidRequest, r.CreativityLevel, MinCreativity, MaxCreativity)
	}
	if r.Iterations < MinIterations || r.Iterations > MaxIterations {
		return fmt.Errorf("%w: iterations %d outside %d..%d", ErrInvalidRequest, r.Iterations, MinIterations, MaxIterations)
	}
	if strings.TrimSpace(r.ModelID) == "" {
		return fmt.Errorf("%w: no test model selected", ErrInvalidRequest)
	}
	return nil
}

type Orchestrator struct {
	client llm.Client
	config OrchestratorConfig
}

func New(client llm.Client, config OrchestratorConfig) *Orchestrator {
	config.defaults()
	return &Orchestrator{
		client: client,
		config: config,
	}
}

// Run executes one pipeline run. Only invalid requests, generation failures
// and cancellation are returned as errors; failed test calls are recorded on
// their variant and failed refinement keeps the unrefined prompt.
func (o *Orchestrator) Run(ctx context.Context, req Request) (*internal.RunResult, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}
	if o.config.GenerationModel == "" {
		return nil, fmt.Errorf("%w: no generation model configured", ErrInvalidRequest)
	}

	runID := uuid.New().String()
	log := o.config.Logger.With("run_id", runID)
	log.Info("running PromptStudio", "idea", req.Idea, "model", req.ModelID, "iterations", req.Iterations)

	// Stage 1: generate
	gen := generator.New(o.client, o.config.GenerationModel, log)
	variants, err := gen.Generate(ctx, req.Idea, req.CreativityLevel)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrGeneration, err)
	}

	// Stage 2: test and score
	o.testVariants(ctx, log, req, variants)
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	// Stage 3: select
	best := SelectBest(variants)
	log.Info("selected best prompt", "id", best.ID, "style", best.Style, "score", best.Score)

	// Stage 4: refine
	ref := o.config.Refiner
	if ref == nil {
		ref = refiner.New(o.client, o.config.RefinementModel, log)
	}
	refined := ref.Refine(ctx, best.Prompt, best.Output, best.Score)

	// Stage 5: report
	generatedAt := o.config.Now()
	log.Info("generating report")
	text := report.Generate(req.Idea, variants, refined, generatedAt)

	log.Info("PromptStudio completed", "prompts", len(variants), "best_score", best.Score)

	return &internal.RunResult{
		ID:              runID,
		OriginalIdea:    req.Idea,
		CreativityLevel: req.CreativityLevel,
		ModelID:         req.ModelID,
		Iterations:      req.Iterations,
		Variants:        variants,
		BestID:          best.ID,
		RefinedPrompt:   refined,
		Report:          text,
		GeneratedAt:     generatedAt,
	}, nil
}

// testVariants fills in output and score of every variant. Each variant only
// writes its own slot, so the parallel path needs no locking.
func (o *Orchestrator) testVariants(ctx context.Context, log *slog.Logger, req Request, variants []internal.PromptVariant) {
	if !o.config.Parallel {
		for i := range variants {
			o.testVariant(ctx, log, req, &variants[i])
		}
		return
	}

	var g errgroup.Group
	g.SetLimit(len(variants))
	for i := range variants {
		g.Go(func() error {
			o.testVariant(ctx, log, req, &variants[i])
			return nil
		})
	}
	_ = g.Wait()
}

func (o *Orchestrator) testVariant(ctx context.Context, log *slog.Logger, req Request, v *internal.PromptVariant) {
	output, err := o.testPrompt(ctx, log, v.Prompt, req.ModelID, req.Iterations)
	if err != nil {
		v.Output = fmt.Sprintf("Error: %v", err)
		v.Score = 0
		v.Failed = true
		log.Error("error testing prompt", "id", v.ID, "style", v.Style, "prompt", internal.Excerpt(v.Prompt, 50), "error", err)
		return
	}

	v.Output = output
	v.Score = scorer.Score(output, v.Prompt)
	log.Info("scored output", "id", v.ID, "style", v.Style, "score", v.Score)

	if o.config.LanguageCheck != nil {
		if err := o.config.LanguageCheck.SameLanguage(req.Idea, output); err != nil {
			log.Warn("test output language differs from the idea", "id", v.ID, "style", v.Style, "error", err)
		}
	}
}

// testPrompt sends prompt to modelID iterations times. Any failed call fails
// the whole test.
func (o *Orchestrator) testPrompt(ctx context.Context, log *slog.Logger, prompt, modelID string, iterations int) (string, error) {
	log.Info("testing prompt", "prompt", internal.Excerpt(prompt, 50), "iterations", iterations)

	outputs := make([]string, 0, iterations)
	for i := 1; i <= iterations; i++ {
		out, err := o.client.Complete(ctx, modelID, prompt)
		if err != nil {
			return "", err
		}
		outputs = append(outputs, fmt.Sprintf("Iteration %d: %s", i, out))
	}
	return strings.Join(outputs, "\n"), nil
}

// SelectBest returns the variant with the highest score; ties go to the
// earliest variant. variants must not be empty.
func SelectBest(variants []internal.PromptVariant) internal.PromptVariant {
	best := variants[0]
	for _, v := range variants[1:] {
		if v.Score > best.Score {
			best = v
		}
	}
	return best
}
