// Command riskgrid runs the risk-classification and EDU placement
// pipeline against a job descriptor and writes the configured output
// files.
package main

import (
	"fmt"
	"os"

	"github.com/riskgrid/riskgrid/internal/errs"
)

func main() {
	cmd := newRootCmd()
	if err := cmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		if e, ok := errs.As(err); ok {
			os.Exit(e.Kind.ExitCode())
		}
		os.Exit(1)
	}
}
