package cigar

import (
	"bufio"
	"io"
	"strings"
)

// Reader yields one Record per non-blank line. It reads lazily and cannot
// be rewound.
type Reader struct {
	r    *bufio.Reader
	line int
}

func NewReader(r io.Reader) *Reader {
	return &Reader{r: bufio.NewReaderSize(r, 64<<10)}
}

// Read returns the next record, or io.EOF when the input is exhausted.
func (cr *Reader) Read() (Record, error) {
	for {
		s, err := cr.r.ReadString('\n')
		if err != nil && (err != io.EOF || len(s) == 0) {
			return Record{}, err
		}
		cr.line++
		if strings.TrimSpace(s) == "" {
			if err != nil {
				return Record{}, err
			}
			continue
		}
		rec, perr := Parse(s, cr.line)
		if perr != nil {
			return Record{}, perr
		}
		return rec, nil
	}
}

// Line is the number of the line most recently read (1-based).
func (cr *Reader) Line() int { return cr.line }

// Writer emits one record per line.
type Writer struct {
	w io.Writer
}

func NewWriter(w io.Writer) *Writer { return &Writer{w: w} }

func (cw *Writer) Write(rec Record) error {
	_, err := io.WriteString(cw.w, Format(rec)+"\n")
	return err
}
