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
	"text/tabwriter"

	"github.com/spf13/cobra"
)

var validateBackends bool

var modelsCmd = &cobra.Command{
	Use:   "models",
	Short: "List the configured models",
	Long: `List the configured models in order. The first model serves prompt
generation and refinement and is the default test model.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		registry, err := cfg.Registry()
		if err != nil {
			return err
		}

		w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
		fmt.Fprintln(w, "#\tID\tPROVIDER\tMAX TOKENS\tTEMPERATURE")
		for i, m := range registry.Models() {
			maxTokens := "-"
			if m.MaxTokens > 0 {
				maxTokens = fmt.Sprintf("%d", m.MaxTokens)
			}
			fmt.Fprintf(w, "%d\t%s\t%s\t%s\t%.2f\n", i+1, m.ID, m.Provider, maxTokens, m.Temperature)
		}
		if err := w.Flush(); err != nil {
			return err
		}

		if !validateBackends {
			return nil
		}

		ctx := context.Background()
		router, err := buildRouter(ctx, cfg)
		if err != nil {
			return err
		}
		if err := router.Preflight(ctx); err != nil {
			return err
		}
		fmt.Println("All configured backends are reachable.")
		return nil
	},
}

func init() {
	rootCmd.AddCommand(modelsCmd)

	modelsCmd.Flags().BoolVar(&validateBackends, "validate", false, "Check API keys and reachability of the configured backends")
}
