// Copyright 2016 The OPA Authors.  All rights reserved.
// Use of this source code is governed by an Apache2
// license that can be found in the LICENSE file.

package main

import "github.com/stealthinu/rlmsandbox/cmd"

func main() {
	cmd.Execute()
}
