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
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/valpere/promptstudio/internal/config"
)

var version = "0.1.0"

var (
	cfgFile   string
	logLevel  string
	logFormat string

	cfg    *config.Config
	logger *slog.Logger
)

var rootCmd = &cobra.Command{
	Use:   "promptstudio",
	Short: "Prompt engineering workbench",
	Long: `PromptStudio turns a rough prompt idea into four styled prompts
(Concise, Detailed, Structured, Creative), tests each against a chosen model,
scores the outputs, refines the best prompt and writes a report.

Models are served by OpenRouter (default), Ollama or Gemini.

Use "promptstudio run --help" for run options.`,
	Version:       version,
	SilenceUsage:  true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		v, err := config.New(cfgFile)
		if err != nil {
			return err
		}
		if cmd.Flags().Changed("log-level") {
			v.Set("log.level", logLevel)
		}
		if cmd.Flags().Changed("log-format") {
			v.Set("log.format", logFormat)
		}

		cfg, err = config.Load(v)
		if err != nil {
			return err
		}

		logger, err = config.NewLogger(os.Stderr, cfg.Log)
		if err != nil {
			return err
		}
		slog.SetDefault(logger)
		return nil
	},
}

func Execute() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "Config file (default ./promptstudio.yaml or ~/.config/promptstudio/promptstudio.yaml)")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "info", "Log level (debug, info, warn, error)")
	rootCmd.PersistentFlags().StringVar(&logFormat, "log-format", "text", "Log format (text, json)")
}
