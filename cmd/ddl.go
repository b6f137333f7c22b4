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

	"github.com/spf13/cobra"

	"github.com/nmandery/cellwalk/internal/schema"
)

func newDDLCommand(rootCmd RootCommand) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "ddl <schema.yaml>",
		Short: "Compile a CompactedTableSchema declaration into its CREATE TABLE statements",
		Args:  cobra.ExactArgs(1),
		RunE: func(c *cobra.Command, args []string) error {
			return runDDL(c, args, rootCmd)
		},
	}
	return cmd
}

func runDDL(cmd *cobra.Command, args []string, rootCmd RootCommand) error {
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

	statements, err := s.CreateStatements()
	if err != nil {
		logger.ErrorContext(ctx, err.Error())
		return err
	}

	for i, stmt := range statements {
		if i > 0 {
			fmt.Fprintln(cmd.OutOrStdout())
		}
		fmt.Fprintln(cmd.OutOrStdout(), stmt)
	}
	return nil
}
