// Copyright 2016 The OPA Authors.  All rights reserved.
// Use of this source code is governed by an Apache2
// license that can be found in the LICENSE file.

package cmd

import (
	"fmt"
	"io"
	"os"
	"path"

	"github.com/peterh/liner"
	"github.com/spf13/cobra"

	"github.com/stealthinu/rlmsandbox/eval"
	"github.com/stealthinu/rlmsandbox/session"
)

const defaultHistoryFile = ".rlmsandbox_history"

func init() {
	var historyPath string
	var context, query string

	replCommand := &cobra.Command{
		Use:   "repl",
		Short: "Start an interactive read-eval-print loop",
		Long: `Start an interactive shell around one long-lived Session. Each
non-empty line is executed as its own Execute call against the same
persistent environment; lines are not gathered into multi-line blocks.
This mirrors how an orchestrator reuses one
Session across successive Execute calls (spec §4.5).`,
		Run: func(cmd *cobra.Command, args []string) {
			r, err := newREPL(historyPath, context, query, os.Stdout)
			if err != nil {
				fmt.Fprintln(os.Stderr, "error:", err)
				os.Exit(1)
			}
			r.loop()
		},
	}

	replCommand.Flags().StringVarP(&historyPath, "history", "H", defaultHistoryPath(), "set path of history file")
	replCommand.Flags().StringVar(&context, "context", "", "initial value bound to the context global")
	replCommand.Flags().StringVar(&query, "query", "", "initial value bound to the query global")

	RootCommand.AddCommand(replCommand)
}

func defaultHistoryPath() string {
	home := os.Getenv("HOME")
	if len(home) == 0 {
		return defaultHistoryFile
	}
	return path.Join(home, defaultHistoryFile)
}

// repl wraps one long-lived Session with a liner-backed prompt loop, the way
// the teacher's repl.REPL wraps one Rego evaluation environment.
type repl struct {
	session     *session.Session
	historyPath string
	context     string
	query       string
	output      io.Writer
}

func newREPL(historyPath, context, query string, output io.Writer) (*repl, error) {
	s, err := session.New(eval.DefaultLimits())
	if err != nil {
		return nil, err
	}
	return &repl{session: s, historyPath: historyPath, context: context, query: query, output: output}, nil
}

func (r *repl) loop() {
	line := liner.NewLiner()
	defer line.Close()
	line.SetCtrlCAborts(true)
	r.loadHistory(line)

	fmt.Fprintln(r.output, "rlmsandbox REPL — Ctrl+D to exit")

	for {
		input, err := line.Prompt(">>> ")
		if err == io.EOF {
			fmt.Fprintln(r.output)
			break
		}
		if err == liner.ErrPromptAborted {
			continue
		}
		if err != nil {
			fmt.Fprintln(r.output, "error (fatal):", err)
			os.Exit(1)
		}
		if input == "" {
			continue
		}

		line.AppendHistory(input)
		r.runOne(input)
	}

	r.saveHistory(line)
}

func (r *repl) runOne(code string) {
	resp := r.session.Execute(session.Request{Context: r.context, Query: r.query, Code: code})
	if resp.Output != "" {
		fmt.Fprint(r.output, resp.Output)
		if resp.Output[len(resp.Output)-1] != '\n' {
			fmt.Fprintln(r.output)
		}
	}
	if resp.Error != nil {
		fmt.Fprintln(r.output, formatReplError(resp.Error))
	}
}

func formatReplError(e *session.ErrorInfo) string {
	if e.Line != nil {
		return fmt.Sprintf("%s: %s (line %d)", e.Kind, e.Message, *e.Line)
	}
	return fmt.Sprintf("%s: %s", e.Kind, e.Message)
}

func (r *repl) loadHistory(prompt *liner.State) {
	if f, err := os.Open(r.historyPath); err == nil {
		_, _ = prompt.ReadHistory(f)
		f.Close()
	}
}

func (r *repl) saveHistory(prompt *liner.State) {
	if f, err := os.Create(r.historyPath); err == nil {
		_, _ = prompt.WriteHistory(f)
		f.Close()
	}
}
