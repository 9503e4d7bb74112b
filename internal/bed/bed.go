// Package bed reads and writes tab-separated interval lines: a sequence
// reference, a start, an end and any number of trailing columns.
package bed

import (
	"bufio"
	"fmt"
	"io"
	"strconv"
	"strings"
)

// MinFields is the number of leading columns every line must carry.
const MinFields = 3

// Line is one interval. Fields[0] is the sequence reference; Start and End
// mirror Fields[1] and Fields[2] once parsed.
type Line struct {
	Fields []string
	Start  int64
	End    int64
}

// Rest returns the trailing columns after the first three.
func (l Line) Rest() []string { return l.Fields[MinFields:] }

// ParseError is a line with too few columns or non-integer coordinates.
type ParseError struct {
	Line   int
	Reason string
}

func (e *ParseError) Error() string { return fmt.Sprintf("bed line %d: %s", e.Line, e.Reason) }

// Parse splits a line on whitespace and decodes the coordinates.
func Parse(s string, lineNo int) (Line, error) {
	f := strings.Fields(s)
	if len(f) < MinFields {
		return Line{}, &ParseError{Line: lineNo, Reason: fmt.Sprintf("expected at least %d fields, got %d", MinFields, len(f))}
	}
	start, err := strconv.ParseInt(f[1], 10, 64)
	if err != nil {
		return Line{}, &ParseError{Line: lineNo, Reason: fmt.Sprintf("bad start %q", f[1])}
	}
	end, err := strconv.ParseInt(f[2], 10, 64)
	if err != nil {
		return Line{}, &ParseError{Line: lineNo, Reason: fmt.Sprintf("bad end %q", f[2])}
	}
	return Line{Fields: f, Start: start, End: end}, nil
}

// Format joins the fields with tabs, re-rendering the coordinates.
func Format(l Line) string {
	out := make([]string, len(l.Fields))
	copy(out, l.Fields)
	out[1] = strconv.FormatInt(l.Start, 10)
	out[2] = strconv.FormatInt(l.End, 10)
	return strings.Join(out, "\t")
}

// Reader yields parsed lines lazily. Lines holding nothing but the line
// terminator are skipped and counted.
type Reader struct {
	r       *bufio.Reader
	line    int
	skipped int
}

func NewReader(r io.Reader) *Reader {
	return &Reader{r: bufio.NewReaderSize(r, 64<<10)}
}

// Read returns the next line, or io.EOF at end of input.
func (br *Reader) Read() (Line, error) {
	for {
		s, err := br.r.ReadString('\n')
		if err != nil && (err != io.EOF || len(s) == 0) {
			return Line{}, err
		}
		br.line++
		if strings.TrimRight(s, "\r\n") == "" {
			br.skipped++
			if err != nil {
				return Line{}, err
			}
			continue
		}
		return Parse(s, br.line)
	}
}

// Line is the number of the line most recently read (1-based).
func (br *Reader) Line() int { return br.line }

// Skipped is the number of blank lines passed over so far.
func (br *Reader) Skipped() int { return br.skipped }

type Writer struct {
	w io.Writer
}

func NewWriter(w io.Writer) *Writer { return &Writer{w: w} }

func (bw *Writer) Write(l Line) error {
	_, err := io.WriteString(bw.w, Format(l)+"\n")
	return err
}
