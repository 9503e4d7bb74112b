// Package cigar reads and writes pairwise alignments in the cigar line
// format:
//
//	[cigar:] contig1 start1 end1 strand1 contig2 start2 end2 strand2 score {op len [prob]}
//
// op is M (consumes both sequences), D (consumes sequence 1 only) or I
// (consumes sequence 2 only). Pairs may also be written length first
// ("10 M"); the order seen in the first pair applies to the whole record and
// is kept on output. Score and per-op probabilities are carried as text and
// written back unchanged.
package cigar

import (
	"fmt"
	"strconv"
	"strings"
)

const prefix = "cigar:"

const (
	OpMatch  = 'M'
	OpDelete = 'D'
	OpInsert = 'I'
)

// Op is one run of the operation list.
type Op struct {
	Type   byte
	Length int64
	// Prob is the optional per-op probability as written in the input, or "".
	Prob string
}

// Record is one alignment line. Strands are true for '+'.
type Record struct {
	Prefixed bool

	Contig1 string
	Start1  int64
	End1    int64
	Strand1 bool

	Contig2 string
	Start2  int64
	End2    int64
	Strand2 bool

	Score string
	Ops   []Op
	// LengthFirst records "len op" pair order.
	LengthFirst bool
}

// ParseError is a line that does not follow the grammar.
type ParseError struct {
	Line   int
	Reason string
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("cigar line %d: %s", e.Line, e.Reason)
}

// Parse decodes one non-blank line. lineNo is used in errors only.
func Parse(line string, lineNo int) (Record, error) {
	var rec Record
	f := strings.Fields(line)
	if len(f) > 0 && f[0] == prefix {
		rec.Prefixed = true
		f = f[1:]
	}
	if len(f) < 9 {
		return rec, &ParseError{Line: lineNo, Reason: fmt.Sprintf("expected at least 9 fields, got %d", len(f))}
	}

	bad := func(format string, a ...any) (Record, error) {
		return Record{}, &ParseError{Line: lineNo, Reason: fmt.Sprintf(format, a...)}
	}
	var err error
	rec.Contig1 = f[0]
	if rec.Start1, err = strconv.ParseInt(f[1], 10, 64); err != nil {
		return bad("bad start1 %q", f[1])
	}
	if rec.End1, err = strconv.ParseInt(f[2], 10, 64); err != nil {
		return bad("bad end1 %q", f[2])
	}
	if rec.Strand1, err = parseStrand(f[3]); err != nil {
		return bad("bad strand1 %q", f[3])
	}
	rec.Contig2 = f[4]
	if rec.Start2, err = strconv.ParseInt(f[5], 10, 64); err != nil {
		return bad("bad start2 %q", f[5])
	}
	if rec.End2, err = strconv.ParseInt(f[6], 10, 64); err != nil {
		return bad("bad end2 %q", f[6])
	}
	if rec.Strand2, err = parseStrand(f[7]); err != nil {
		return bad("bad strand2 %q", f[7])
	}
	if _, err := strconv.ParseFloat(f[8], 64); err != nil {
		return bad("bad score %q", f[8])
	}
	rec.Score = f[8]

	rest := f[9:]
	rec.LengthFirst = len(rest) >= 2 && !isOpToken(rest[0]) && isOpToken(rest[1])
	for len(rest) > 0 {
		if len(rest) < 2 {
			return bad("dangling operation %q", rest[0])
		}
		typ, length := rest[0], rest[1]
		if rec.LengthFirst {
			typ, length = length, typ
		}
		if !isOpToken(typ) {
			return bad("bad operation %q", typ)
		}
		n, err := strconv.ParseInt(length, 10, 64)
		if err != nil {
			return bad("bad length %q for operation %s", length, typ)
		}
		op := Op{Type: typ[0], Length: n}
		rest = rest[2:]
		if len(rest) > 0 && isProb(rest, rec.LengthFirst) {
			if _, err := strconv.ParseFloat(rest[0], 64); err != nil {
				return bad("bad probability %q", rest[0])
			}
			op.Prob = rest[0]
			rest = rest[1:]
		}
		rec.Ops = append(rec.Ops, op)
	}
	return rec, nil
}

// Format renders rec on one line without a trailing newline.
func Format(rec Record) string {
	var b strings.Builder
	if rec.Prefixed {
		b.WriteString(prefix)
		b.WriteByte(' ')
	}
	b.WriteString(rec.Contig1)
	fmt.Fprintf(&b, " %d %d %c ", rec.Start1, rec.End1, strandChar(rec.Strand1))
	b.WriteString(rec.Contig2)
	fmt.Fprintf(&b, " %d %d %c ", rec.Start2, rec.End2, strandChar(rec.Strand2))
	b.WriteString(rec.Score)
	for _, op := range rec.Ops {
		if rec.LengthFirst {
			fmt.Fprintf(&b, " %d %c", op.Length, op.Type)
		} else {
			fmt.Fprintf(&b, " %c %d", op.Type, op.Length)
		}
		if op.Prob != "" {
			b.WriteByte(' ')
			b.WriteString(op.Prob)
		}
	}
	return b.String()
}

func parseStrand(s string) (bool, error) {
	switch s {
	case "+":
		return true, nil
	case "-":
		return false, nil
	}
	return false, fmt.Errorf("strand must be + or -")
}

func strandChar(plus bool) byte {
	if plus {
		return '+'
	}
	return '-'
}

func isOpType(c byte) bool { return c == OpMatch || c == OpDelete || c == OpInsert }

func isOpToken(s string) bool { return len(s) == 1 && isOpType(s[0]) }

// isProb reports whether rest[0] is a probability rather than the start of
// the next pair.
func isProb(rest []string, lengthFirst bool) bool {
	if lengthFirst {
		return len(rest) < 2 || !isOpToken(rest[1])
	}
	return !isOpToken(rest[0])
}
