// internal/app/app.go
package app

import (
	"bufio"
	"context"
	"errors"
	"flag"
	"fmt"
	"io"

	"alnnames/internal/appshell"
	"alnnames/internal/cli"
	"alnnames/internal/clibase"
	"alnnames/internal/cmdutil"
	"alnnames/internal/config"
	"alnnames/internal/connector"
	"alnnames/internal/nameindex"
	"alnnames/internal/stream"
	"alnnames/internal/transform"
	"alnnames/internal/version"
)

const name = "alnnames"

// Exit codes.
const (
	ExitOK       = 0
	ExitFatal    = 1
	ExitUsage    = 2
	ExitWrite    = 3
	ExitCanceled = appshell.CanceledExit
)

// Run is RunContext with a background context.
func Run(argv []string, stdout, stderr io.Writer) int {
	return RunContext(context.Background(), argv, stdout, stderr)
}

// RunContext loads the process configuration and runs one conversion.
func RunContext(parent context.Context, argv []string, stdout, stderr io.Writer) int {
	return RunConfig(parent, config.Load(), argv, stdout, stderr)
}

// RunConfig parses flags, opens the store, builds the name index, then
// streams INPUT to OUTPUT. Output is published only when the whole input
// converted.
func RunConfig(ctx context.Context, cfg *config.Config, argv []string, stdout, stderr io.Writer) int {
	fs := cli.NewFlagSet(name)
	fs.SetOutput(io.Discard)

	printUsage := func(code int) int {
		outw := bufio.NewWriter(stdout)
		fs.SetOutput(outw)
		fs.Usage()
		if err := outw.Flush(); stream.IsBrokenPipe(err) {
			return ExitOK
		} else if err != nil {
			_, _ = fmt.Fprintln(stderr, err)
			return ExitWrite
		}
		return code
	}

	if len(argv) == 0 {
		_, _ = cli.ParseArgs(fs, []string{"-h"}, cfg.Store)
		return printUsage(ExitOK)
	}

	opts, err := cli.ParseArgs(fs, argv, cfg.Store)
	if err != nil {
		switch {
		case errors.Is(err, flag.ErrHelp):
			return printUsage(ExitOK)
		case errors.Is(err, clibase.ErrPrintedAndExitOK):
			cli.PrintExamples(stdout, name)
			return ExitOK
		}
		_, _ = fmt.Fprintf(stderr, "error: %v\n", err)
		return printUsage(ExitUsage)
	}
	if opts.Version {
		if _, err := fmt.Fprintf(stdout, "%s version %s\n", name, version.Version); err != nil && !stream.IsBrokenPipe(err) {
			return ExitWrite
		}
		return ExitOK
	}

	log := cmdutil.Logger{W: stderr, Quiet: opts.Quiet, Verbose: opts.Verbose}

	st, err := connector.Open(ctx, opts.Store, connector.Options{LookupCacheSize: cfg.LookupCacheSize})
	if err != nil {
		log.Errorf("%v", err)
		return exitFor(ctx, ExitFatal)
	}
	defer func() {
		if err := st.Close(); err != nil {
			log.Warnf("closing store: %v", err)
		}
	}()

	ix, err := nameindex.Build(ctx, st)
	if err != nil {
		log.Errorf("%v", err)
		return exitFor(ctx, ExitFatal)
	}
	log.Infof("indexed %d headers", ix.Len())

	op := &stream.Opener{Stdout: stdout, S3: cfg.S3}
	in, err := op.OpenInput(ctx, opts.Input)
	if err != nil {
		log.Errorf("opening input %s: %v", opts.Input, err)
		return ExitFatal
	}
	defer in.Close()

	out, err := op.CreateOutput(ctx, opts.Output)
	if err != nil {
		log.Errorf("opening output %s: %v", opts.Output, err)
		return ExitFatal
	}
	defer out.Abort()

	tw := &trackingWriter{w: out}
	outw := bufio.NewWriterSize(tw, 64<<10)
	stats, err := transform.Run(ctx, opts.Format, in, outw, ix, st)
	if err != nil {
		if tw.err != nil {
			return writeFailure(log, tw.err)
		}
		log.Errorf("%v", err)
		return exitFor(ctx, ExitFatal)
	}
	if err := outw.Flush(); err != nil {
		return writeFailure(log, err)
	}
	if err := out.Commit(ctx); err != nil {
		return writeFailure(log, err)
	}

	if stats.Skipped > 0 {
		log.Infof("wrote %d records (%d blank lines skipped)", stats.Records, stats.Skipped)
	} else {
		log.Infof("wrote %d records", stats.Records)
	}
	return ExitOK
}

func writeFailure(log cmdutil.Logger, err error) int {
	if stream.IsBrokenPipe(err) {
		return ExitOK
	}
	log.Errorf("writing output: %v", err)
	return ExitWrite
}

func exitFor(ctx context.Context, code int) int {
	if ctx.Err() != nil {
		return ExitCanceled
	}
	return code
}

// trackingWriter remembers the first write error so it can be told apart
// from conversion errors.
type trackingWriter struct {
	w   io.Writer
	err error
}

func (t *trackingWriter) Write(p []byte) (int, error) {
	n, err := t.w.Write(p)
	if err != nil && t.err == nil {
		t.err = err
	}
	return n, err
}
