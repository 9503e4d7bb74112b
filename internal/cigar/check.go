package cigar

import "fmt"

// CheckError is a record whose coordinates or operations are incoherent.
type CheckError struct {
	Reason string
}

func (e *CheckError) Error() string { return "inconsistent alignment: " + e.Reason }

// Check validates that coordinates are non-negative and ordered according to
// their strand, and that every operation has a known type and a positive
// length. Operation lengths are not compared with the interval sizes.
func Check(rec Record) error {
	if err := checkSide(1, rec.Contig1, rec.Start1, rec.End1, rec.Strand1); err != nil {
		return err
	}
	if err := checkSide(2, rec.Contig2, rec.Start2, rec.End2, rec.Strand2); err != nil {
		return err
	}
	for i, op := range rec.Ops {
		if !isOpType(op.Type) {
			return &CheckError{Reason: fmt.Sprintf("operation %d has unknown type %q", i, op.Type)}
		}
		if op.Length <= 0 {
			return &CheckError{Reason: fmt.Sprintf("operation %d (%c) has length %d", i, op.Type, op.Length)}
		}
	}
	return nil
}

func checkSide(side int, contig string, start, end int64, plus bool) error {
	if start < 0 || end < 0 {
		return &CheckError{Reason: fmt.Sprintf("negative coordinate on %s (start%d %d, end%d %d)", contig, side, start, side, end)}
	}
	if plus && start > end {
		return &CheckError{Reason: fmt.Sprintf("start%d %d > end%d %d on + strand of %s", side, start, side, end, contig)}
	}
	if !plus && start < end {
		return &CheckError{Reason: fmt.Sprintf("start%d %d < end%d %d on - strand of %s", side, start, side, end, contig)}
	}
	return nil
}
