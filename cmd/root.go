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

// Package cmd is cellwalk's command-line front end: a small
// github.com/spf13/cobra tree exposing the library end-to-end (ddl,
// tables, plan, discover) the way the teacher's own cmd package drives its server
// through a cobra.Command, minus the server/telemetry plumbing that
// belongs to a different program.
package cmd

import (
	"github.com/spf13/cobra"

	"github.com/nmandery/cellwalk/internal/log"
)

// RootCommand is the surface cellwalk's subcommands depend on, decoupling
// them from the root command's concrete implementation the way
// internal/cli/invoke.RootCommand does in the teacher.
type RootCommand interface {
	Logger() (log.Logger, error)
}

// Command is cellwalk's root cobra command.
type Command struct {
	*cobra.Command
	logFormat string
	logLevel  string
}

// NewCommand builds the cellwalk root command with every subcommand
// attached.
func NewCommand() *Command {
	root := &Command{}
	root.Command = &cobra.Command{
		Use:           "cellwalk",
		Short:         "Compile H3-hexagonal-cell ClickHouse schemas and plan tableset queries",
		SilenceUsage:  true,
		SilenceErrors: false,
	}
	root.PersistentFlags().StringVar(&root.logFormat, "log-format", "standard", "log output format: standard or json")
	root.PersistentFlags().StringVar(&root.logLevel, "log-level", log.Info, "log level: DEBUG, INFO, WARN, ERROR")

	root.AddCommand(newDDLCommand(root))
	root.AddCommand(newTablesCommand(root))
	root.AddCommand(newPlanCommand(root))
	root.AddCommand(newDiscoverCommand(root))
	return root
}

// Logger builds a logger writing to this command's current out/err
// streams, at the severity the persistent flags selected.
func (c *Command) Logger() (log.Logger, error) {
	return log.NewLogger(c.logFormat, c.logLevel, c.OutOrStdout(), c.ErrOrStderr())
}
