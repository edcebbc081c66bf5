// Copyright 2016 The OPA Authors.  All rights reserved.
// Use of this source code is governed by an Apache2
// license that can be found in the LICENSE file.

package cmd

import (
	"fmt"
	"io"
	"os"
	"runtime"

	"github.com/spf13/cobra"
)

// Version is the sandbox's release version, set via -ldflags at build time.
var Version = "unreleased"

func init() {
	var versionCommand = &cobra.Command{
		Use:   "version",
		Short: "Print the version of the sandbox",
		Long:  "Show version and build information for the sandbox interpreter.",
		Run: func(cmd *cobra.Command, args []string) {
			generateCmdOutput(os.Stdout)
		},
	}
	RootCommand.AddCommand(versionCommand)
}

func generateCmdOutput(out io.Writer) {
	fmt.Fprintln(out, "Version: "+Version)
	fmt.Fprintln(out, "Go Version: "+runtime.Version())
}
