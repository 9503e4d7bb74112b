package appshell

import (
	"context"
	"io"
	"os"
	"os/signal"
	"syscall"
)

// CanceledExit is the exit status of a run stopped by SIGINT or SIGTERM.
const CanceledExit = 130

// Main runs a tool's RunContext with signal cancellation and exits with its
// code. The first signal cancels the run so staged output can be dropped; a
// second one kills the process.
func Main(run func(context.Context, []string, io.Writer, io.Writer) int) {
	os.Exit(runWithSignals(context.Background(), os.Args[1:], os.Stdout, os.Stderr, run))
}

func runWithSignals(parent context.Context, argv []string, stdout, stderr io.Writer, run func(context.Context, []string, io.Writer, io.Writer) int) int {
	ctx, stop := signal.NotifyContext(parent, os.Interrupt, syscall.SIGTERM)
	defer stop()
	go func() {
		<-ctx.Done()
		stop()
	}()

	code := run(ctx, argv, stdout, stderr)
	if ctx.Err() != nil && code == 0 {
		code = CanceledExit
	}
	return code
}
