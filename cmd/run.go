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
	"os"
	"os/signal"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/valpere/promptstudio/internal/export"
	"github.com/valpere/promptstudio/internal/orchestrator"
	"github.com/valpere/promptstudio/internal/validator"
)

var (
	idea          string
	ideaFile      string
	creativity    int
	modelID       string
	iterations    int
	parallel      bool
	checkLanguage bool
	outputFile    string
	saveReport    bool
	outputFormat  string
)

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Generate, test, score and refine prompts for an idea",
	Long: `Turn a rough prompt idea into four styled prompts, test each one against
the selected model, score the outputs, refine the best prompt and print the
report.

Creativity 1-4 asks for clear prompts, 5-7 for moderately creative prompts,
8-10 for highly creative ones. Each prompt is sent to the test model
--iterations times; a single failed call fails that prompt.

Examples:
  promptstudio run -i "a haiku about autumn"
  promptstudio run --idea-file idea.txt -c 8 -n 2 --save --format html`,
	RunE: func(cmd *cobra.Command, args []string) error {
		text, err := readIdea()
		if err != nil {
			return err
		}

		format, err := export.ParseFormat(outputFormat)
		if err != nil {
			return err
		}

		ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
		defer stop()

		router, err := buildRouter(ctx, cfg)
		if err != nil {
			return err
		}
		registry := router.Registry()

		if modelID == "" {
			modelID = registry.First().ID
		}
		if _, err := registry.Get(modelID); err != nil {
			return unknownModel(registry, err)
		}

		req := orchestrator.Request{
			Idea:            text,
			CreativityLevel: creativity,
			ModelID:         modelID,
			Iterations:      iterations,
		}
		if err := req.Validate(); err != nil {
			return err
		}

		if err := router.Preflight(ctx); err != nil {
			return err
		}

		orchCfg := orchestrator.OrchestratorConfig{
			GenerationModel: registry.First().ID,
			Parallel:        parallel,
			Logger:          logger,
		}
		if checkLanguage {
			orchCfg.LanguageCheck = validator.New()
		}

		result, err := orchestrator.New(router, orchCfg).Run(ctx, req)
		if err != nil {
			return err
		}

		if err := export.Write(os.Stdout, result, format); err != nil {
			return fmt.Errorf("failed to write output: %w", err)
		}

		if best, ok := result.Best(); ok {
			fmt.Fprintf(os.Stderr, "Best prompt: #%d %s (%d/100)\n", best.ID, best.Style, best.Score)
		}

		if saveReport || outputFile != "" {
			path := outputFile
			if path == "" {
				path = export.DefaultFilename(result, format)
			}
			if dir := filepath.Dir(path); dir != "." {
				if err := os.MkdirAll(dir, 0755); err != nil {
					return fmt.Errorf("failed to create output directory: %w", err)
				}
			}
			if err := export.WriteFile(path, result, format); err != nil {
				return err
			}
			fmt.Fprintf(os.Stderr, "Report saved to %s\n", path)
		}
		return nil
	},
}

func readIdea() (string, error) {
	if idea != "" && ideaFile != "" {
		return "", fmt.Errorf("use either --idea or --idea-file, not both")
	}
	if ideaFile == "" {
		return idea, nil
	}

	data, err := os.ReadFile(ideaFile)
	if err != nil {
		return "", fmt.Errorf("failed to read idea file: %w", err)
	}
	return strings.TrimSpace(string(data)), nil
}

func init() {
	rootCmd.AddCommand(runCmd)

	runCmd.Flags().StringVarP(&idea, "idea", "i", "", "Rough prompt idea")
	runCmd.Flags().StringVar(&ideaFile, "idea-file", "", "File containing the rough prompt idea")
	runCmd.Flags().IntVarP(&creativity, "creativity", "c", 5, "Creativity level (1-10)")
	runCmd.Flags().StringVarP(&modelID, "model", "m", "", "Test model id (default: first configured model)")
	runCmd.Flags().IntVarP(&iterations, "iterations", "n", 1, "Test calls per prompt (1-3)")
	runCmd.Flags().BoolVar(&parallel, "parallel", false, "Test the four prompts concurrently")
	runCmd.Flags().BoolVar(&checkLanguage, "check-language", false, "Warn when a test output is not in the language of the idea")

	runCmd.Flags().StringVarP(&outputFile, "output", "o", "", "Save the report to this file")
	runCmd.Flags().BoolVar(&saveReport, "save", false, "Save the report under a timestamped file name")
	runCmd.Flags().StringVar(&outputFormat, "format", "text", "Output format (text, json, yaml, html)")
}
