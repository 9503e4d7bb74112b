// internal/cmdutil/log.go
package cmdutil

import (
	"fmt"
	"io"
)

// Logger writes one-line diagnostics to the error stream.
type Logger struct {
	W       io.Writer
	Quiet   bool
	Verbose bool
}

func (l Logger) Warnf(format string, a ...any) { Warnf(l.W, l.Quiet, format, a...) }

// Infof prints progress only with --verbose.
func (l Logger) Infof(format string, a ...any) {
	if !l.Verbose {
		return
	}
	_, _ = fmt.Fprintf(l.W, "INFO: "+format+"\n", a...)
}

// Errorf is never suppressed.
func (l Logger) Errorf(format string, a ...any) {
	_, _ = fmt.Fprintf(l.W, "error: "+format+"\n", a...)
}

func Warnf(dst io.Writer, quiet bool, format string, a ...any) {
	if quiet {
		return
	}
	_, _ = fmt.Fprintf(dst, "WARN: "+format+"\n", a...)
}
