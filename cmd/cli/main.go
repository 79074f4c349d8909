// deinterleave - thread-pool log regrouping tool
//
// deinterleave rewrites minimizer run logs so that the interleaved output of
// each ForkJoinPool worker appears as one contiguous block.
package main

import (
	"os"

	"github.com/ccollicutt/deinterleave/internal/cli"
)

func main() {
	os.Exit(cli.Execute())
}
