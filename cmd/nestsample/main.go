// SPDX-License-Identifier: MIT

// Command nestsample estimates Bayesian evidence by nested sampling.
//
//	nestsample run    --outfile post.dat --nlive 500 --nmcmc 100
//	nestsample chains --outfile post.dat --nlive 500 --nmcmc 100 --chains 4
//	nestsample version
//
// Settings come from --config (YAML or JSON), NEST_* environment variables
// and flags, in increasing priority.
package main

import (
	"fmt"
	"os"
)

// version is set at build time with -ldflags "-X main.version=...".
var version = "dev"

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "nestsample:", err)
		os.Exit(1)
	}
}
