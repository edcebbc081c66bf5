// Copyright 2016 The OPA Authors.  All rights reserved.
// Use of this source code is governed by an Apache2
// license that can be found in the LICENSE file.

// Package cmd implements the "rlmsandbox" CLI: a one-shot Execute-contract
// command for embedding in an orchestrator's subprocess pool (spec §6's
// "CLI framing") and an interactive REPL for manual exploration (spec
// §4.5's supplemental "interactive shell" use case).
package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/stealthinu/rlmsandbox/cmd/internal/env"
)

// RootCommand is the base command all subcommands attach to, mirroring the
// teacher's single-global-RootCommand wiring (cmd/commands.go) rather than
// the Command(rootCommand, brand) factory, since this project ships exactly
// one binary under exactly one name.
var RootCommand = &cobra.Command{
	Use:   "rlmsandbox",
	Short: "Sandboxed string-REPL interpreter for RLM orchestrators",
	Long: `rlmsandbox runs a deterministic, side-effect-free Python-subset
interpreter behind a persistent Session, for use as an RLM orchestrator's
code-execution tool.`,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		return env.CmdFlags.CheckEnvironmentVariables(cmd)
	},
}

// Execute runs the root command; main calls this and exits with its result.
func Execute() {
	if err := RootCommand.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
