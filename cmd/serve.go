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
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/valpere/promptstudio/internal/orchestrator"
	"github.com/valpere/promptstudio/internal/server"
	"github.com/valpere/promptstudio/internal/validator"
)

var (
	listenAddr     string
	serveParallel  bool
	serveCheckLang bool
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve the PromptStudio HTTP API",
	Long: `Serve the PromptStudio pipeline over HTTP.

Endpoints:
  POST /api/run      run the pipeline ({"idea", "creativity_level", "model", "iterations"})
                     ?format=text|yaml|html returns the report as an attachment
  GET  /api/models   list the configured models
  GET  /healthz      liveness probe`,
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
		defer stop()

		router, err := buildRouter(ctx, cfg)
		if err != nil {
			return err
		}
		registry := router.Registry()

		if err := router.Preflight(ctx); err != nil {
			return err
		}

		orchCfg := orchestrator.OrchestratorConfig{
			GenerationModel: registry.First().ID,
			Parallel:        serveParallel,
			Logger:          logger,
		}
		if serveCheckLang {
			orchCfg.LanguageCheck = validator.New()
		}
		orch := orchestrator.New(router, orchCfg)

		srv := &http.Server{
			Addr:              listenAddr,
			Handler:           server.New(orch, registry, logger).Handler(),
			ReadHeaderTimeout: 10 * time.Second,
		}

		errCh := make(chan error, 1)
		go func() {
			logger.Info("listening", "addr", listenAddr)
			errCh <- srv.ListenAndServe()
		}()

		select {
		case err := <-errCh:
			if !errors.Is(err, http.ErrServerClosed) {
				return fmt.Errorf("server failed: %w", err)
			}
			return nil
		case <-ctx.Done():
		}

		logger.Info("shutting down")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	},
}

func init() {
	rootCmd.AddCommand(serveCmd)

	serveCmd.Flags().StringVar(&listenAddr, "addr", ":8080", "Listen address")
	serveCmd.Flags().BoolVar(&serveParallel, "parallel", false, "Test the four prompts concurrently")
	serveCmd.Flags().BoolVar(&serveCheckLang, "check-language", false, "Warn when a test output is not in the language of the idea")
}
