package cli

import (
	"flag"
	"fmt"
	"io"

	"alnnames/internal/clibase"
)

// NewFlagSet returns a FlagSet with ContinueOnError and the tool's usage text.
func NewFlagSet(name string) *flag.FlagSet {
	fs := flag.NewFlagSet(name, flag.ContinueOnError)
	clibase.UsageCommon(fs, name, func(out io.Writer, def func(string) string) {
		_, _ = fmt.Fprintln(out, "Usage:")
		_, _ = fmt.Fprintf(out, "  %s --store DESCRIPTOR [--format cigar|bed] INPUT OUTPUT\n", name)
		_, _ = fmt.Fprintln(out, "\n  INPUT and OUTPUT may be files, '-' for stdin/stdout, or s3://bucket/key.")
		_, _ = fmt.Fprintln(out, "  Paths ending in .gz are (de)compressed.")

		_, _ = fmt.Fprintln(out, "\nStore:")
		_, _ = fmt.Fprintln(out, "  -d, --store string          Store descriptor: postgres://..., file:PATH, PATH.{json,yaml}")
		_, _ = fmt.Fprintf(out, "                              or \"type=... dsn=/path=...\" [$%s]\n", EnvStoreHint)

		_, _ = fmt.Fprintln(out, "\nInput:")
		_, _ = fmt.Fprintf(out, "  -F, --format string         Input format: cigar | bed [%s]\n", def("format"))
		_, _ = fmt.Fprintln(out, "      --bed                   Shorthand for --format bed")
	})
	return fs
}
