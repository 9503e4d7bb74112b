// internal/clibase/examples.go
package clibase

import (
	"errors"
	"fmt"
	"io"
)

// ErrPrintedAndExitOK is returned by ParseArgs for --examples. Apps print
// the examples and exit 0.
var ErrPrintedAndExitOK = errors.New("examples requested")

// Example is one quickstart entry.
type Example struct {
	Desc string
	Args string
}

// PrintExamples prints intro followed by each example as a comment line and
// the command line that runs it.
func PrintExamples(out io.Writer, name, intro string, examples []Example) {
	if out == nil {
		return
	}
	_, _ = fmt.Fprintf(out, "%s quickstart\n\n", name)
	if intro != "" {
		_, _ = fmt.Fprintln(out, intro)
	}
	for _, ex := range examples {
		_, _ = fmt.Fprintf(out, "\n  # %s\n  %s %s\n", ex.Desc, name, ex.Args)
	}
	_, _ = fmt.Fprintln(out, "\nRun with --help for all flags.")
}
