// Copyright 2020 The OPA Authors.  All rights reserved.
// Use of this source code is governed by an Apache2
// license that can be found in the LICENSE file.

package cmd

import (
	"bytes"
	"strings"
	"testing"
)

func TestGenerateCmdOutput(t *testing.T) {
	var stdout bytes.Buffer

	generateCmdOutput(&stdout)

	out := stdout.String()
	for _, want := range []string{"Version:", "Go Version:"} {
		if !strings.Contains(out, want) {
			t.Errorf("expected output to contain %q, got:\n%s", want, out)
		}
	}
}
