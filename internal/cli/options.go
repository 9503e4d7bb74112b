// internal/cli/options.go
package cli

import (
	"errors"
	"flag"
	"fmt"
	"io"
	"strings"

	"alnnames/internal/clibase"
	"alnnames/internal/cliutil"
	"alnnames/internal/config"
	"alnnames/internal/transform"
)

// EnvStoreHint names the environment variable that supplies --store.
const EnvStoreHint = config.EnvStore

// Options holds all CLI flags and arguments.
type Options struct {
	Store  string
	Format transform.Format
	Input  string
	Output string

	Quiet   bool
	Verbose bool
	Version bool
}

// UsageError is a malformed invocation. Apps print it with the usage text
// and exit 2 without touching the store.
type UsageError struct {
	Err error
}

func (e *UsageError) Error() string { return e.Err.Error() }
func (e *UsageError) Unwrap() error { return e.Err }

func usageErr(format string, a ...any) error {
	return &UsageError{Err: fmt.Errorf(format, a...)}
}

// PrintExamples prints a short quickstart.
func PrintExamples(out io.Writer, name string) {
	clibase.PrintExamples(out, name, "Rename alignment sequences from FASTA headers to store names.", []clibase.Example{
		{Desc: "cigar file against a YAML snapshot", Args: "--store store.yaml alignments.cigar alignments.names.cigar"},
		{Desc: "BED to stdout, store in PostgreSQL", Args: "--store postgres://aln@db/aln --bed ends.bed -"},
		{Desc: "gzipped input, output uploaded to object storage", Args: "-d \"type=file path='/data/my store.json'\" in.cigar.gz s3://runs/out.cigar"},
	})
}

// ParseArgs registers and parses all flags. storeDefault seeds --store,
// typically from the environment.
func ParseArgs(fs *flag.FlagSet, argv []string, storeDefault string) (Options, error) {
	var o Options
	var help, showExamples, bedFlag bool
	var format string

	fs.StringVar(&o.Store, "store", storeDefault, "store descriptor [required]")
	fs.StringVar(&o.Store, "d", storeDefault, "alias of --store")
	fs.StringVar(&o.Store, "cactusDisk", storeDefault, "alias of --store")
	fs.StringVar(&format, "format", string(transform.FormatCIGAR), "input format: cigar | bed [cigar]")
	fs.StringVar(&format, "F", string(transform.FormatCIGAR), "alias of --format")
	fs.BoolVar(&bedFlag, "bed", false, "input is BED, not cigar [false]")

	fs.BoolVar(&o.Quiet, "quiet", false, "suppress non-essential warnings [false]")
	fs.BoolVar(&o.Quiet, "q", false, "alias of --quiet")
	fs.BoolVar(&o.Verbose, "verbose", false, "print progress to stderr [false]")
	fs.BoolVar(&o.Version, "v", false, "print version and exit [false]")
	fs.BoolVar(&o.Version, "version", false, "print version and exit [false]")
	fs.BoolVar(&help, "h", false, "show this help [false]")
	fs.BoolVar(&help, "help", false, "show this help [false]")
	fs.BoolVar(&showExamples, "examples", false, "show quickstart examples and exit [false]")

	flagArgs, posArgs := cliutil.SplitFlagsAndPositionals(fs, argv)
	if err := fs.Parse(flagArgs); err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return o, err
		}
		return o, &UsageError{Err: err}
	}
	if showExamples {
		return o, clibase.ErrPrintedAndExitOK
	}
	if help {
		return o, flag.ErrHelp
	}
	if o.Version {
		return o, nil
	}

	f, err := transform.ParseFormat(format)
	if err != nil {
		return o, &UsageError{Err: err}
	}
	if bedFlag {
		f = transform.FormatBED
	}
	o.Format = f
	o.Store = strings.TrimSpace(o.Store)
	if o.Store == "" {
		return o, usageErr("--store must be provided (or set %s)", EnvStoreHint)
	}
	if len(posArgs) != 2 {
		return o, usageErr("expected INPUT and OUTPUT, got %d positional argument(s)", len(posArgs))
	}
	o.Input, o.Output = posArgs[0], posArgs[1]
	if o.Output == o.Input && o.Input != "-" {
		return o, usageErr("INPUT and OUTPUT must differ")
	}
	if o.Quiet && o.Verbose {
		return o, usageErr("--quiet conflicts with --verbose")
	}
	return o, nil
}
