// Copyright 2016 The OPA Authors.  All rights reserved.
// Use of this source code is governed by an Apache2
// license that can be found in the LICENSE file.

package cmd

import (
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/stealthinu/rlmsandbox/eval"
	"github.com/stealthinu/rlmsandbox/session"
)

func init() {
	var maxOutputChars int

	runCommand := &cobra.Command{
		Use:   "run",
		Short: "Execute one code fragment read from standard input",
		Long: `Read exactly one JSON Execute request from standard input, run it
against a fresh Session, and write one JSON Execute response to standard
output (spec's CLI framing).

The process exits 0 whenever the request was read and executed, whether or
not the code fragment itself succeeded ("ok": false is not a process
failure); it exits 2 if standard input is not a well-formed request.`,
		Run: func(cmd *cobra.Command, args []string) {
			runOneShot(cmd.InOrStdin(), cmd.OutOrStdout(), maxOutputChars)
		},
	}

	runCommand.Flags().IntVar(&maxOutputChars, "max-output-chars", 0, "override max_output_chars for this call (0 keeps the request's own value or the default)")

	RootCommand.AddCommand(runCommand)
}

func runOneShot(in io.Reader, out io.Writer, maxOutputChars int) {
	body, err := io.ReadAll(in)
	if err != nil {
		fmt.Fprintln(os.Stderr, "error: read request:", err)
		os.Exit(2)
	}

	var req session.Request
	if err := json.Unmarshal(body, &req); err != nil {
		fmt.Fprintln(os.Stderr, "error: malformed request:", err)
		os.Exit(2)
	}

	if maxOutputChars > 0 && req.MaxOutputChars == nil {
		req.MaxOutputChars = &maxOutputChars
	}

	s, err := session.New(eval.DefaultLimits())
	if err != nil {
		fmt.Fprintln(os.Stderr, "error: start session:", err)
		os.Exit(2)
	}

	resp := s.Execute(req)

	encoded, err := json.Marshal(resp)
	if err != nil {
		// buildResponse only ever produces the types declared on Response, so
		// this would indicate a programmer error, not a runtime condition.
		fmt.Fprintln(os.Stderr, "error: encode response:", err)
		os.Exit(2)
	}
	fmt.Fprintln(out, string(encoded))
}
