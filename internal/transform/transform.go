// Package transform rewrites alignment streams from sequence headers to
// store names.
//
// Both paths read one record, convert it, and write it before reading the
// next. The first failure stops the stream; nothing is written for the
// record that failed.
package transform

import (
	"context"
	"errors"
	"fmt"
	"io"
	"math"
	"strings"

	"alnnames/internal/bed"
	"alnnames/internal/cigar"
	"alnnames/internal/store"
)

// CoordinateShift accounts for the cap and the thread start position that
// precede every sequence in store coordinates.
const CoordinateShift = 2

type Format string

const (
	FormatCIGAR Format = "cigar"
	FormatBED   Format = "bed"
)

// ParseFormat accepts "cigar" or "bed", case-insensitively.
func ParseFormat(s string) (Format, error) {
	switch f := Format(strings.ToLower(strings.TrimSpace(s))); f {
	case FormatCIGAR, FormatBED:
		return f, nil
	}
	return "", fmt.Errorf("unknown format %q (want cigar or bed)", s)
}

// HeaderIndex resolves headers to names; *nameindex.Index satisfies it.
type HeaderIndex interface {
	Lookup(header string) (store.Name, bool)
}

// InstanceResolver resolves instance names; every store.Store satisfies it.
type InstanceResolver interface {
	InstanceByName(ctx context.Context, n store.Name) (store.Instance, error)
}

// Stats summarises one run.
type Stats struct {
	Records int
	Skipped int
}

// Run dispatches on format. The cigar path only uses ix, the BED path only
// uses res.
func Run(ctx context.Context, format Format, r io.Reader, w io.Writer, ix HeaderIndex, res InstanceResolver) (Stats, error) {
	r = ctxReader{ctx: ctx, r: r}
	switch format {
	case FormatCIGAR:
		return CIGAR(r, w, ix)
	case FormatBED:
		return BED(ctx, r, w, res)
	}
	return Stats{}, fmt.Errorf("unknown format %q", format)
}

// CIGAR converts every record of r and writes it to w.
func CIGAR(r io.Reader, w io.Writer, ix HeaderIndex) (Stats, error) {
	var st Stats
	cr := cigar.NewReader(r)
	cw := cigar.NewWriter(w)
	for {
		rec, err := cr.Read()
		if err == io.EOF {
			return st, nil
		}
		if err != nil {
			return st, readErr(err)
		}
		if err := ConvertCIGAR(&rec, ix, cr.Line()); err != nil {
			return st, err
		}
		if err := cw.Write(rec); err != nil {
			return st, err
		}
		st.Records++
	}
}

// ConvertCIGAR replaces both contigs with their names, shifts all four
// coordinates and checks the result.
func ConvertCIGAR(rec *cigar.Record, ix HeaderIndex, line int) error {
	n1, ok := ix.Lookup(rec.Contig1)
	if !ok {
		return &UnresolvedHeaderError{Header: rec.Contig1, Line: line}
	}
	n2, ok := ix.Lookup(rec.Contig2)
	if !ok {
		return &UnresolvedHeaderError{Header: rec.Contig2, Line: line}
	}
	// Shift and check a copy so errors still name the input headers.
	out := *rec
	for _, c := range []*int64{&out.Start1, &out.End1, &out.Start2, &out.End2} {
		v, err := shift(*c)
		if err != nil {
			return &MalformedRecordError{Line: line, Err: err}
		}
		*c = v
	}
	if err := cigar.Check(out); err != nil {
		return &MalformedRecordError{Line: line, Err: err}
	}
	out.Contig1 = n1.String()
	out.Contig2 = n2.String()
	*rec = out
	return nil
}

// shift adds CoordinateShift, refusing values that would overflow.
func shift(v int64) (int64, error) {
	if v > math.MaxInt64-CoordinateShift {
		return 0, fmt.Errorf("coordinate %d is too large to shift by %d", v, CoordinateShift)
	}
	return v + CoordinateShift, nil
}

// BED converts every non-blank line of r and writes it to w.
func BED(ctx context.Context, r io.Reader, w io.Writer, res InstanceResolver) (Stats, error) {
	var st Stats
	br := bed.NewReader(r)
	bw := bed.NewWriter(w)
	for {
		l, err := br.Read()
		st.Skipped = br.Skipped()
		if err == io.EOF {
			return st, nil
		}
		if err != nil {
			return st, readErr(err)
		}
		if err := ConvertBED(ctx, &l, res, br.Line()); err != nil {
			return st, err
		}
		if err := bw.Write(l); err != nil {
			return st, err
		}
		st.Records++
	}
}

// ConvertBED replaces the first column, an instance name, with the name of
// the sequence that instance belongs to, and shifts start and end.
func ConvertBED(ctx context.Context, l *bed.Line, res InstanceResolver, line int) error {
	ref := l.Fields[0]
	n, err := store.ParseName(ref)
	if err != nil {
		return &UnresolvedNameError{Name: ref, Line: line}
	}
	inst, err := res.InstanceByName(ctx, n)
	if errors.Is(err, store.ErrNotFound) {
		return &UnresolvedNameError{Name: ref, Line: line}
	}
	if err != nil {
		return err
	}
	seq := inst.Sequence()
	if seq == nil {
		return &store.AccessError{Op: "resolve instance " + ref, Err: errors.New("instance has no sequence")}
	}
	start, err := shift(l.Start)
	if err != nil {
		return &MalformedRecordError{Line: line, Err: err}
	}
	end, err := shift(l.End)
	if err != nil {
		return &MalformedRecordError{Line: line, Err: err}
	}
	l.Fields[0] = seq.Name().String()
	l.Start, l.End = start, end
	return nil
}

// ctxReader stops reading once ctx is done.
type ctxReader struct {
	ctx context.Context
	r   io.Reader
}

func (c ctxReader) Read(p []byte) (int, error) {
	if err := c.ctx.Err(); err != nil {
		return 0, err
	}
	return c.r.Read(p)
}

func readErr(err error) error {
	var cpe *cigar.ParseError
	var bpe *bed.ParseError
	if errors.As(err, &cpe) || errors.As(err, &bpe) {
		return &MalformedRecordError{Err: err}
	}
	return fmt.Errorf("read input: %w", err)
}
