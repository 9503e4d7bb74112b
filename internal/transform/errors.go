package transform

import "fmt"

// UnresolvedHeaderError is a cigar record naming a header absent from the index.
type UnresolvedHeaderError struct {
	Header string
	Line   int
}

func (e *UnresolvedHeaderError) Error() string {
	return fmt.Sprintf("line %d: sequence %s is not loaded into the store", e.Line, e.Header)
}

// UnresolvedNameError is a BED line whose first column names no known instance.
type UnresolvedNameError struct {
	Name string
	Line int
}

func (e *UnresolvedNameError) Error() string {
	return fmt.Sprintf("line %d: sequence %s is not loaded into the store", e.Line, e.Name)
}

// MalformedRecordError is a record that failed parsing or the sanity check.
// Line is 0 when Err already names the line.
type MalformedRecordError struct {
	Line int
	Err  error
}

func (e *MalformedRecordError) Error() string {
	if e.Line == 0 {
		return "malformed record: " + e.Err.Error()
	}
	return fmt.Sprintf("line %d: malformed record: %v", e.Line, e.Err)
}

func (e *MalformedRecordError) Unwrap() error { return e.Err }
