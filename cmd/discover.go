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

	"github.com/goccy/go-yaml"
	"github.com/spf13/cobra"

	"github.com/nmandery/cellwalk/internal/chpool"
)

func newDiscoverCommand(rootCmd RootCommand) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "discover <pool.yaml> <database>",
		Short: "Connect to ClickHouse and list the tablesets found in a database",
		Args:  cobra.ExactArgs(2),
		RunE: func(c *cobra.Command, args []string) error {
			return runDiscover(c, args, rootCmd)
		},
	}
	return cmd
}

func runDiscover(cmd *cobra.Command, args []string, rootCmd RootCommand) error {
	ctx := cmd.Context()
	logger, err := rootCmd.Logger()
	if err != nil {
		return err
	}

	data, err := os.ReadFile(args[0])
	if err != nil {
		errMsg := fmt.Errorf("failed to read pool config: %w", err)
		logger.ErrorContext(ctx, errMsg.Error())
		return errMsg
	}
	var cfg chpool.Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		errMsg := fmt.Errorf("invalid pool config: %w", err)
		logger.ErrorContext(ctx, errMsg.Error())
		return errMsg
	}

	pool, err := chpool.Open(ctx, cfg, logger)
	if err != nil {
		logger.ErrorContext(ctx, err.Error())
		return err
	}
	defer pool.Close()

	tablesets, err := pool.Discover(ctx, args[1])
	if err != nil {
		logger.ErrorContext(ctx, err.Error())
		return err
	}

	for basename, ts := range tablesets {
		fmt.Fprintf(cmd.OutOrStdout(), "%s:\n", basename)
		for _, table := range ts.Tables() {
			fmt.Fprintf(cmd.OutOrStdout(), "  %s\n", table.Name())
		}
	}
	return nil
}
