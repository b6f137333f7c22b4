// Copyright 2025 Google LLC
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package cmd

import (
	"fmt"
	"os"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/nmandery/cellwalk/internal/h3cell"
	"github.com/nmandery/cellwalk/internal/planner"
	"github.com/nmandery/cellwalk/internal/schema"
)

func newPlanCommand(rootCmd RootCommand) *cobra.Command {
	var template string
	cmd := &cobra.Command{
		Use:   "plan <schema.yaml> <cell> [cell...]",
		Short: "Print the SQL query a set of H3 cells would issue against a tableset",
		Long: `Print the SQL query a set of H3 cells would issue against a tableset.

Cells are read as decimal or 0x-prefixed hex H3 indexes and must share
one resolution. Without --template, the planner derives the SELECT
itself from the schema's column catalog.`,
		Args: cobra.MinimumNArgs(2),
		RunE: func(c *cobra.Command, args []string) error {
			return runPlan(c, args, template, rootCmd)
		},
	}
	cmd.Flags().StringVar(&template, "template", "", "templated SELECT containing <[table]> and <[h3indexes]>")
	return cmd
}

func runPlan(cmd *cobra.Command, args []string, template string, rootCmd RootCommand) error {
	ctx := cmd.Context()
	logger, err := rootCmd.Logger()
	if err != nil {
		return err
	}

	data, err := os.ReadFile(args[0])
	if err != nil {
		errMsg := fmt.Errorf("failed to read schema file: %w", err)
		logger.ErrorContext(ctx, errMsg.Error())
		return errMsg
	}
	s, err := schema.FromYAML(data)
	if err != nil {
		logger.ErrorContext(ctx, err.Error())
		return err
	}

	cells := make([]h3cell.Cell, 0, len(args)-1)
	for _, token := range args[1:] {
		v, err := strconv.ParseUint(token, 0, 64)
		if err != nil {
			errMsg := fmt.Errorf("invalid H3 cell token %q: %w", token, err)
			logger.ErrorContext(ctx, errMsg.Error())
			return errMsg
		}
		cells = append(cells, h3cell.Cell(v))
	}

	query := planner.AutoGenerated()
	if template != "" {
		query = planner.TemplatedSelect(template)
	}

	sql, err := planner.Plan(cells, query, s.TableSet())
	if err != nil {
		logger.ErrorContext(ctx, err.Error())
		return err
	}
	fmt.Fprintln(cmd.OutOrStdout(), sql)
	return nil
}
